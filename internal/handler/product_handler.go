package handler

import (
	"go-wholesale-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	products service.ProductService
	units    service.ProductUnitService
}

func NewProductHandler(products service.ProductService, units service.ProductUnitService) *ProductHandler {
	return &ProductHandler{products: products, units: units}
}

// GET /api/v1/products
func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.products.ListProducts(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

// GET /api/v1/products/:id
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid product ID")
	}
	product, err := h.products.GetProduct(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// POST /api/v1/products
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req service.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	product, err := h.products.CreateProduct(c.UserContext(), &req, actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Product created", "data": product})
}

// PUT /api/v1/products/:id
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid product ID")
	}
	var req service.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	product, err := h.products.UpdateProduct(c.UserContext(), id, &req, actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product updated", "data": product})
}

// DELETE /api/v1/products/:id
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid product ID")
	}
	if err := h.products.DeleteProduct(c.UserContext(), id, actor(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}

// GET /api/v1/products/:id/units
func (h *ProductHandler) GetUnits(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid product ID")
	}
	units, err := h.units.ListConfigurations(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(units)
}

// POST /api/v1/products/:id/units
func (h *ProductHandler) AddUnit(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid product ID")
	}
	var req service.UnitConfigInput
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	pu, err := h.units.AddConfiguration(c.UserContext(), id, &req, actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Unit configuration added", "data": pu})
}

// PUT /api/v1/products/:id/units/:configId
func (h *ProductHandler) UpdateUnit(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid product ID")
	}
	configID, err := paramUUID(c, "configId")
	if err != nil {
		return badRequest(c, "Invalid configuration ID")
	}
	var req service.UpdateUnitConfigRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	pu, err := h.units.UpdateConfiguration(c.UserContext(), id, configID, &req, actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Unit configuration updated", "data": pu})
}

// DELETE /api/v1/products/:id/units/:configId
func (h *ProductHandler) RemoveUnit(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid product ID")
	}
	configID, err := paramUUID(c, "configId")
	if err != nil {
		return badRequest(c, "Invalid configuration ID")
	}
	if err := h.units.RemoveConfiguration(c.UserContext(), id, configID, actor(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Unit configuration removed"})
}

// POST /api/v1/products/variations/preview
func (h *ProductHandler) PreviewVariations(c *fiber.Ctx) error {
	var req service.PreviewRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	preview, err := h.products.PreviewVariations(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(preview)
}

// POST /api/v1/products/:id/variations/generate
func (h *ProductHandler) GenerateVariations(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid product ID")
	}
	var req service.GenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	variations, err := h.products.RegenerateVariations(c.UserContext(), id, &req, actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Variations generated", "data": variations})
}

// PUT /api/v1/products/:id/variations/:variationId
func (h *ProductHandler) UpdateVariation(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid product ID")
	}
	variationID, err := paramUUID(c, "variationId")
	if err != nil {
		return badRequest(c, "Invalid variation ID")
	}
	var req service.UpdateVariationRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	v, err := h.products.UpdateVariation(c.UserContext(), id, variationID, &req, actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Variation updated", "data": v})
}

// DELETE /api/v1/products/:id/variations/:variationId
func (h *ProductHandler) DeleteVariation(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid product ID")
	}
	variationID, err := paramUUID(c, "variationId")
	if err != nil {
		return badRequest(c, "Invalid variation ID")
	}
	if err := h.products.DeleteVariation(c.UserContext(), id, variationID, actor(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Variation deleted"})
}
