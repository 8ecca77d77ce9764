package controller

import (
	"encoding/json"
	"errors"

	"ai-chat-be/internal/pkg/serverutils"
	"ai-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IUsageController interface {
	RegisterRoutes(r fiber.Router)
	LogTokens(ctx *fiber.Ctx) error
}

type usageController struct {
	usageService service.IUsageService
}

func NewUsageController(usageService service.IUsageService) IUsageController {
	return &usageController{
		usageService: usageService,
	}
}

func (c *usageController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/usage/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("tokens", c.LogTokens)
}

// LogTokens takes the raw body so the service can accept a single entry or
// a batch.
func (c *usageController) LogTokens(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.usageService.LogUsage(ctx.Context(), userId, json.RawMessage(ctx.Body()))
	if err != nil {
		if errors.Is(err, service.ErrEmptyUsageBatch) || errors.Is(err, service.ErrInvalidUsagePayload) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success log token usage", res))
}
