package handler

import (
	"strconv"

	"go-wholesale-inventory/internal/repository"
	"go-wholesale-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

type StockHandler struct {
	service service.StockService
}

func NewStockHandler(s service.StockService) *StockHandler {
	return &StockHandler{service: s}
}

func stockFilter(c *fiber.Ctx) (repository.StockFilter, error) {
	var f repository.StockFilter
	var err error
	if f.StoreID, err = queryUUID(c, "store_id"); err != nil {
		return f, err
	}
	if f.ProductID, err = queryUUID(c, "product_id"); err != nil {
		return f, err
	}
	return f, nil
}

// GET /api/v1/stock?store_id=&product_id=
func (h *StockHandler) GetStock(c *fiber.Ctx) error {
	f, err := stockFilter(c)
	if err != nil {
		return badRequest(c, "Invalid filter ID")
	}
	rows, err := h.service.ListStock(c.UserContext(), f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rows)
}

// GET /api/v1/stock/level?store_id=&product_id=&variation_id=
func (h *StockHandler) GetLevel(c *fiber.Ctx) error {
	f, err := stockFilter(c)
	if err != nil || f.StoreID == nil || f.ProductID == nil {
		return badRequest(c, "store_id and product_id are required")
	}
	variationID, err := queryUUID(c, "variation_id")
	if err != nil {
		return badRequest(c, "Invalid variation ID")
	}

	key := repository.StockKey{StoreID: *f.StoreID, ProductID: *f.ProductID, VariationID: variationID}
	qty, err := h.service.GetStock(c.UserContext(), key)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(service.StockLevel{
		StoreID:     key.StoreID,
		ProductID:   key.ProductID,
		VariationID: key.VariationID,
		Quantity:    qty,
	})
}

// GET /api/v1/stock/movements?store_id=&product_id=&limit=
func (h *StockHandler) GetMovements(c *fiber.Ctx) error {
	f, err := stockFilter(c)
	if err != nil {
		return badRequest(c, "Invalid filter ID")
	}
	limit, err := strconv.Atoi(c.Query("limit", "100"))
	if err != nil || limit <= 0 {
		limit = 100
	}
	rows, err := h.service.ListMovements(c.UserContext(), f, limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rows)
}

// POST /api/v1/stock/adjust
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	var req service.AdjustStockRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	movement, err := h.service.Adjust(c.UserContext(), &req, actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Stock adjusted", "data": movement})
}
