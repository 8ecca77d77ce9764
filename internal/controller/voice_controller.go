package controller

import (
	"errors"

	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/pkg/serverutils"
	"ai-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IVoiceController interface {
	RegisterRoutes(r fiber.Router)
	Start(ctx *fiber.Ctx) error
	Stop(ctx *fiber.Ctx) error
	Finish(ctx *fiber.Ctx) error
	State(ctx *fiber.Ctx) error
}

type voiceController struct {
	voiceService service.IVoiceService
}

func NewVoiceController(voiceService service.IVoiceService) IVoiceController {
	return &voiceController{
		voiceService: voiceService,
	}
}

func (c *voiceController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/voice/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("start", c.Start)
	h.Post("stop", c.Stop)
	h.Post("finish", c.Finish)
	h.Get("state/:sessionId", c.State)
}

func (c *voiceController) Start(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)

	var req dto.VoiceStartRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.voiceService.Start(ctx.Context(), userIdStr, &req)
	if err != nil {
		if errors.Is(err, service.ErrVoiceSessionBusy) {
			return fiber.NewError(fiber.StatusConflict, "Voice session is busy")
		}
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success start listening", res))
}

func (c *voiceController) Stop(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)

	var req dto.VoiceStopRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.voiceService.Stop(ctx.Context(), userIdStr, &req)
	if err != nil {
		if errors.Is(err, service.ErrVoiceSessionBusy) {
			return fiber.NewError(fiber.StatusConflict, "Voice session is busy")
		}
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success stop listening", res))
}

func (c *voiceController) Finish(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)

	var req dto.VoiceFinishRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.voiceService.Finish(ctx.Context(), userIdStr, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success finish playback", res))
}

func (c *voiceController) State(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)

	sessionId := ctx.Params("sessionId")
	if sessionId == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Session id is required")
	}

	res, err := c.voiceService.GetState(ctx.Context(), userIdStr, sessionId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get voice state", res))
}
