package handler

import (
	"go-wholesale-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AttributeHandler struct {
	service service.AttributeService
}

func NewAttributeHandler(s service.AttributeService) *AttributeHandler {
	return &AttributeHandler{service: s}
}

// GET /api/v1/attributes
func (h *AttributeHandler) GetAttributes(c *fiber.Ctx) error {
	attrs, err := h.service.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(attrs)
}

// GET /api/v1/attributes/:id
func (h *AttributeHandler) GetAttribute(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid attribute ID")
	}
	attr, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(attr)
}

// POST /api/v1/attributes
func (h *AttributeHandler) CreateAttribute(c *fiber.Ctx) error {
	var req service.AttributeRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	attr, err := h.service.Create(c.UserContext(), &req, actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Attribute created", "data": attr})
}

// DELETE /api/v1/attributes/:id
func (h *AttributeHandler) DeleteAttribute(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid attribute ID")
	}
	if err := h.service.Delete(c.UserContext(), id, actor(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Attribute deleted"})
}

// POST /api/v1/attributes/:id/values
func (h *AttributeHandler) AddValue(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid attribute ID")
	}
	var req service.AttributeValueRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	value, err := h.service.AddValue(c.UserContext(), id, &req, actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Value added", "data": value})
}

// DELETE /api/v1/attributes/:id/values/:valueId
func (h *AttributeHandler) DeleteValue(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid attribute ID")
	}
	valueID, err := paramUUID(c, "valueId")
	if err != nil {
		return badRequest(c, "Invalid value ID")
	}
	if err := h.service.DeleteValue(c.UserContext(), id, valueID, actor(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Value deleted"})
}
