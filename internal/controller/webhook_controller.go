package controller

import (
	"errors"

	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/pkg/serverutils"
	"ai-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IWebhookController interface {
	RegisterRoutes(r fiber.Router)
	HandleMessage(ctx *fiber.Ctx) error
}

type webhookController struct {
	webhookService service.IWebhookService
}

func NewWebhookController(webhookService service.IWebhookService) IWebhookController {
	return &webhookController{
		webhookService: webhookService,
	}
}

func (c *webhookController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/webhook/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("message", c.HandleMessage)
}

func (c *webhookController) HandleMessage(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.WebhookRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.webhookService.HandleMessage(ctx.Context(), userId, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnrecognizedPayload):
			return fiber.NewError(fiber.StatusBadRequest, "Unrecognized payload shape")
		case errors.Is(err, service.ErrDuplicateDelivery):
			// Suppressed redelivery still acknowledges the webhook so the
			// sender stops retrying.
			return ctx.JSON(serverutils.SuccessResponse("Duplicate delivery ignored", &dto.WebhookResponse{Success: true}))
		case errors.Is(err, service.ErrChatNotFound):
			return fiber.NewError(fiber.StatusNotFound, "Chat not found")
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success handle webhook message", res))
}
