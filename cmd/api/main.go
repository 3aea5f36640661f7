package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"go-wholesale-inventory/internal/config"
	"go-wholesale-inventory/internal/handler"
	"go-wholesale-inventory/internal/middleware"
	"go-wholesale-inventory/internal/repository"
	"go-wholesale-inventory/internal/service"
	"go-wholesale-inventory/internal/ws"
	"go-wholesale-inventory/pkg/database"
	"go-wholesale-inventory/pkg/jwt"
	applog "go-wholesale-inventory/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}
	cfg := config.Load()

	zl := applog.New(applog.Config{
		IsDevelopment: cfg.IsDevelopment(),
		Encoding:      cfg.Logger.Encoding,
		Level:         cfg.Logger.Level,
	})
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Setup Database
	db, err := database.ConnectPostgres(cfg.Postgres, cfg.Logger.DBLevel)
	if err != nil {
		zl.Fatal("database connection failed", zap.Error(err))
	}
	if err := repository.Migrate(db); err != nil {
		zl.Fatal("migration failed", zap.Error(err))
	}

	// 3. Seed default privileges, roles, and admin user
	if err := service.Seed(ctx, db, cfg.Seed, zl); err != nil {
		zl.Warn("seed failed", zap.Error(err))
	}

	// 4. Setup WebSocket Hub
	hub := ws.NewHub(zl)
	go hub.Run(ctx)

	// 5. Dependency Injection (Wiring Layers)
	tokens := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL)

	userRepo := repository.NewUserRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	storeRepo := repository.NewStoreRepo(db)
	unitRepo := repository.NewUnitRepo(db)
	attrRepo := repository.NewAttributeRepo(db)
	productRepo := repository.NewProductRepo(db)
	puRepo := repository.NewProductUnitRepo(db)
	variationRepo := repository.NewVariationRepo(db)
	stockRepo := repository.NewStockRepo(db)

	authService := service.NewAuthService(userRepo, tokens, cfg.JWT.IdleTimeout, hub, zl)
	userService := service.NewUserService(userRepo, privilegeRepo, roleRepo, storeRepo, zl)
	unitService := service.NewUnitService(unitRepo, hub, zl)
	attrService := service.NewAttributeService(attrRepo, hub, zl)
	puService := service.NewProductUnitService(productRepo, puRepo, unitRepo, hub, zl)
	productService := service.NewProductService(db, productRepo, puRepo, variationRepo, unitRepo, attrRepo, stockRepo, hub, zl)
	storeService := service.NewStoreService(storeRepo, hub, zl)
	stockService := service.NewStockService(db, stockRepo, storeRepo, productRepo, variationRepo, puService, hub, zl)
	dashService := service.NewDashboardService(productRepo, variationRepo, storeRepo, stockRepo, cfg.Inventory.LowStockThreshold)

	handlers := handler.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		User:      handler.NewUserHandler(userService),
		Role:      handler.NewRoleHandler(userService),
		Unit:      handler.NewUnitHandler(unitService),
		Attribute: handler.NewAttributeHandler(attrService),
		Product:   handler.NewProductHandler(productService, puService),
		Store:     handler.NewStoreHandler(storeService),
		Stock:     handler.NewStockHandler(stockService),
		Dashboard: handler.NewDashboardHandler(dashService),
	}

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName:      cfg.Server.AppName,
		ErrorHandler: handler.ErrorHandler(zl),
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.Server.CORSOrigins}))

	// 7. Routes
	handler.RegisterRoutes(app, handlers, middleware.RequireAuth(tokens, userRepo))
	handler.RegisterWebSocket(app, hub)

	// 8. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			zl.Panic("listen failed", zap.Error(err))
		}
	}()
	zl.Info("server started", zap.String("port", cfg.Server.Port), zap.String("env", cfg.Server.AppEnv))

	<-ctx.Done()
	zl.Info("shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		zl.Fatal("server forced to shutdown", zap.Error(err))
	}
	zl.Info("server exited")
}
