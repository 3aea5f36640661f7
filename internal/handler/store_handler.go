package handler

import (
	"go-wholesale-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

type StoreHandler struct {
	service service.StoreService
}

func NewStoreHandler(s service.StoreService) *StoreHandler {
	return &StoreHandler{service: s}
}

// GET /api/v1/stores
func (h *StoreHandler) GetStores(c *fiber.Ctx) error {
	stores, err := h.service.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stores)
}

// GET /api/v1/stores/:id
func (h *StoreHandler) GetStore(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid store ID")
	}
	store, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(store)
}

// POST /api/v1/stores
func (h *StoreHandler) CreateStore(c *fiber.Ctx) error {
	var req service.StoreRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	store, err := h.service.Create(c.UserContext(), &req, actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Store created", "data": store})
}

// PUT /api/v1/stores/:id
func (h *StoreHandler) UpdateStore(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid store ID")
	}
	var req service.StoreRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	store, err := h.service.Update(c.UserContext(), id, &req, actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Store updated", "data": store})
}
