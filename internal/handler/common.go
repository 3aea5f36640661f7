package handler

import (
	"errors"

	"go-wholesale-inventory/internal/service"
	"go-wholesale-inventory/internal/ws"
	"go-wholesale-inventory/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// User info set by middleware.RequireAuth.
func getUserID(c *fiber.Ctx) string {
	userID, ok := c.Locals("user_id").(string)
	if !ok {
		return "system"
	}
	return userID
}

func getUserName(c *fiber.Ctx) string {
	userName, ok := c.Locals("user_name").(string)
	if !ok {
		return "Unknown"
	}
	return userName
}

func getUserEmail(c *fiber.Ctx) string {
	userEmail, _ := c.Locals("user_email").(string)
	return userEmail
}

func actor(c *fiber.Ctx) ws.Actor {
	return ws.Actor{ID: getUserID(c), Name: getUserName(c), Email: getUserEmail(c)}
}

func paramUUID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Params(name))
}

func queryUUID(c *fiber.Ctx, name string) (*uuid.UUID, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

func invalidJSON(c *fiber.Ctx) error {
	return badRequest(c, "Invalid JSON")
}

// statusOf maps service errors to HTTP status codes.
func statusOf(err error) int {
	var verr *service.ValidationError
	var dupSKU *service.DuplicateSkuError
	switch {
	case errors.As(err, &verr), errors.As(err, &dupSKU),
		errors.Is(err, service.ErrMissingBaseUnitConfiguration),
		errors.Is(err, service.ErrBaseUnitRemovalForbidden),
		errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrWrongPassword):
		return fiber.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrUserInactive),
		errors.Is(err, service.ErrSessionTimeout),
		errors.Is(err, service.ErrSessionReplaced),
		errors.Is(err, jwt.ErrInvalidToken),
		errors.Is(err, jwt.ErrMissingToken):
		return fiber.StatusUnauthorized
	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrRoleNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrDuplicateName),
		errors.Is(err, service.ErrDuplicateConfiguration),
		errors.Is(err, service.ErrDuplicateSKU),
		errors.Is(err, service.ErrEmailExists),
		errors.Is(err, service.ErrInUse):
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}

// respondError writes known service errors. Anything else is returned to
// Fiber so ErrorHandler logs it.
func respondError(c *fiber.Ctx, err error) error {
	status := statusOf(err)
	if status == fiber.StatusInternalServerError {
		return err
	}
	body := fiber.Map{"error": err.Error()}
	var dupSKU *service.DuplicateSkuError
	if errors.As(err, &dupSKU) {
		body["sku"] = dupSKU.SKU
	}
	var verr *service.ValidationError
	if errors.As(err, &verr) && verr.Field != "" {
		body["field"] = verr.Field
	}
	return c.Status(status).JSON(body)
}

// ErrorHandler is the Fiber error handler for the API.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var ferr *fiber.Error
		if errors.As(err, &ferr) {
			return c.Status(ferr.Code).JSON(fiber.Map{"error": ferr.Message})
		}
		log.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
}
