package handler

import (
	"go-wholesale-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

type UnitHandler struct {
	service service.UnitService
}

func NewUnitHandler(s service.UnitService) *UnitHandler {
	return &UnitHandler{service: s}
}

// GET /api/v1/units
func (h *UnitHandler) GetUnits(c *fiber.Ctx) error {
	units, err := h.service.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(units)
}

// GET /api/v1/units/:id
func (h *UnitHandler) GetUnit(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid unit ID")
	}
	unit, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(unit)
}

// POST /api/v1/units
func (h *UnitHandler) CreateUnit(c *fiber.Ctx) error {
	var req service.UnitRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	unit, err := h.service.Create(c.UserContext(), &req, actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Unit created", "data": unit})
}

// PUT /api/v1/units/:id
func (h *UnitHandler) UpdateUnit(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid unit ID")
	}
	var req service.UnitRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	unit, err := h.service.Rename(c.UserContext(), id, &req, actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Unit updated", "data": unit})
}

// DELETE /api/v1/units/:id
func (h *UnitHandler) DeleteUnit(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid unit ID")
	}
	if err := h.service.Delete(c.UserContext(), id, actor(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Unit deleted"})
}
