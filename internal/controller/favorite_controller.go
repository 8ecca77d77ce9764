package controller

import (
	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/pkg/serverutils"
	"ai-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IFavoriteController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Set(ctx *fiber.Ctx) error
	Remove(ctx *fiber.Ctx) error
}

type favoriteController struct {
	favoriteService service.IFavoriteService
}

func NewFavoriteController(favoriteService service.IFavoriteService) IFavoriteController {
	return &favoriteController{
		favoriteService: favoriteService,
	}
}

func (c *favoriteController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/favorite/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("", c.List)
	h.Put("", c.Set)
	h.Delete(":toolName", c.Remove)
}

func (c *favoriteController) List(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.favoriteService.ListFavorites(ctx.Context(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list favorite tools", res))
}

func (c *favoriteController) Set(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.SetFavoriteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.favoriteService.SetFavorite(ctx.Context(), userId, &req); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success set favorite tool", nil))
}

func (c *favoriteController) Remove(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	toolName := ctx.Params("toolName")
	if toolName == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Tool name is required")
	}

	if err := c.favoriteService.RemoveFavorite(ctx.Context(), userId, toolName); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success remove favorite tool", nil))
}
