package handler

import (
	"go-wholesale-inventory/internal/middleware"
	"go-wholesale-inventory/internal/model"
	"go-wholesale-inventory/internal/ws"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// Handlers groups every HTTP handler of the API.
type Handlers struct {
	Auth      *AuthHandler
	User      *UserHandler
	Role      *RoleHandler
	Unit      *UnitHandler
	Attribute *AttributeHandler
	Product   *ProductHandler
	Store     *StoreHandler
	Stock     *StockHandler
	Dashboard *DashboardHandler
}

// RegisterRoutes mounts the API under /api/v1. requireAuth guards every
// route except login and token validation.
func RegisterRoutes(app *fiber.App, h Handlers, requireAuth fiber.Handler) {
	api := app.Group("/api/v1")
	need := middleware.RequirePrivilege

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", h.Auth.Login)
	auth.Post("/change-password", h.Auth.ChangePassword)
	auth.Post("/validate-token", h.Auth.ValidateToken)
	auth.Post("/heartbeat", requireAuth, h.Auth.Heartbeat)
	auth.Post("/logout", requireAuth, h.Auth.Logout)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", requireAuth)

	protected.Get("/dashboard/stats", need(model.PrivDashboardView), h.Dashboard.GetDashboardStats)
	protected.Get("/dashboard/stock-movement", need(model.PrivDashboardView), h.Dashboard.GetStockMovement)

	// Units
	protected.Get("/units", need(model.PrivUnitView), h.Unit.GetUnits)
	protected.Get("/units/:id", need(model.PrivUnitView), h.Unit.GetUnit)
	protected.Post("/units", need(model.PrivUnitCreate), h.Unit.CreateUnit)
	protected.Put("/units/:id", need(model.PrivUnitUpdate), h.Unit.UpdateUnit)
	protected.Delete("/units/:id", need(model.PrivUnitDelete), h.Unit.DeleteUnit)

	// Attributes
	protected.Get("/attributes", need(model.PrivAttributeView), h.Attribute.GetAttributes)
	protected.Get("/attributes/:id", need(model.PrivAttributeView), h.Attribute.GetAttribute)
	protected.Post("/attributes", need(model.PrivAttributeCreate), h.Attribute.CreateAttribute)
	protected.Delete("/attributes/:id", need(model.PrivAttributeDelete), h.Attribute.DeleteAttribute)
	protected.Post("/attributes/:id/values", need(model.PrivAttributeUpdate), h.Attribute.AddValue)
	protected.Delete("/attributes/:id/values/:valueId", need(model.PrivAttributeUpdate), h.Attribute.DeleteValue)

	// Products; the static preview route goes before /products/:id
	protected.Post("/products/variations/preview", need(model.PrivProductCreate), h.Product.PreviewVariations)
	protected.Get("/products", need(model.PrivProductView), h.Product.GetProducts)
	protected.Post("/products", need(model.PrivProductCreate), h.Product.CreateProduct)
	protected.Get("/products/:id", need(model.PrivProductView), h.Product.GetProduct)
	protected.Put("/products/:id", need(model.PrivProductUpdate), h.Product.UpdateProduct)
	protected.Delete("/products/:id", need(model.PrivProductDelete), h.Product.DeleteProduct)
	protected.Get("/products/:id/units", need(model.PrivProductView), h.Product.GetUnits)
	protected.Post("/products/:id/units", need(model.PrivProductUpdate), h.Product.AddUnit)
	protected.Put("/products/:id/units/:configId", need(model.PrivProductUpdate), h.Product.UpdateUnit)
	protected.Delete("/products/:id/units/:configId", need(model.PrivProductUpdate), h.Product.RemoveUnit)
	protected.Post("/products/:id/variations/generate", need(model.PrivProductUpdate), h.Product.GenerateVariations)
	protected.Put("/products/:id/variations/:variationId", need(model.PrivProductUpdate), h.Product.UpdateVariation)
	protected.Delete("/products/:id/variations/:variationId", need(model.PrivProductUpdate), h.Product.DeleteVariation)

	// Stores
	protected.Get("/stores", need(model.PrivStoreView), h.Store.GetStores)
	protected.Get("/stores/:id", need(model.PrivStoreView), h.Store.GetStore)
	protected.Post("/stores", need(model.PrivStoreCreate), h.Store.CreateStore)
	protected.Put("/stores/:id", need(model.PrivStoreUpdate), h.Store.UpdateStore)

	// Stock
	protected.Get("/stock", need(model.PrivStockView), h.Stock.GetStock)
	protected.Get("/stock/level", need(model.PrivStockView), h.Stock.GetLevel)
	protected.Get("/stock/movements", need(model.PrivStockView), h.Stock.GetMovements)
	protected.Post("/stock/adjust", need(model.PrivStockAdjust), h.Stock.Adjust)

	// User management
	protected.Get("/users", need(model.PrivUserView), h.User.GetUsers)
	protected.Get("/users/:id", need(model.PrivUserView), h.User.GetUser)
	protected.Post("/users", need(model.PrivUserCreate), h.User.CreateUser)
	protected.Put("/users/:id", need(model.PrivUserUpdate), h.User.UpdateUser)
	protected.Delete("/users/:id", need(model.PrivUserDelete), h.User.DeleteUser)
	protected.Put("/users/:id/privileges", need(model.PrivUserPrivileges), h.User.UpdateUserPrivileges)

	userAdmin := middleware.RequireAnyPrivilege(model.PrivUserView, model.PrivUserPrivileges)
	protected.Get("/roles", userAdmin, h.Role.GetRoles)
	protected.Get("/privileges", userAdmin, h.Role.GetPrivileges)
}

// RegisterWebSocket mounts the event stream at /ws.
func RegisterWebSocket(app *fiber.App, hub *ws.Hub) {
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		select {
		case hub.Register <- c:
		case <-hub.Done():
			return
		}
		defer func() {
			select {
			case hub.Unregister <- c:
			case <-hub.Done():
			}
		}()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))
}
