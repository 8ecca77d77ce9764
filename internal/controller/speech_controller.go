package controller

import (
	"io"

	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/pkg/serverutils"
	"ai-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISpeechController interface {
	RegisterRoutes(r fiber.Router)
	Transcribe(ctx *fiber.Ctx) error
	Synthesize(ctx *fiber.Ctx) error
}

type speechController struct {
	speechService service.ISpeechService
}

func NewSpeechController(speechService service.ISpeechService) ISpeechController {
	return &speechController{
		speechService: speechService,
	}
}

func (c *speechController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/speech/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("transcribe", c.Transcribe)
	h.Post("synthesize", c.Synthesize)
}

// Transcribe accepts either a multipart "audio" file or a JSON body with a
// base64 "audio" field.
func (c *speechController) Transcribe(ctx *fiber.Ctx) error {
	if fileHeader, err := ctx.FormFile("audio"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Failed to read audio file")
		}
		defer file.Close()

		audio, err := io.ReadAll(file)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Failed to read audio file")
		}

		res, err := c.speechService.Transcribe(ctx.Context(), audio, fileHeader.Filename)
		if err != nil {
			return err
		}
		return ctx.JSON(serverutils.SuccessResponse("Success transcribe audio", res))
	}

	var req dto.TranscribeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.speechService.TranscribeBase64(ctx.Context(), req.Audio)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success transcribe audio", res))
}

func (c *speechController) Synthesize(ctx *fiber.Ctx) error {
	var req dto.SynthesizeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.speechService.Synthesize(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success synthesize speech", res))
}
