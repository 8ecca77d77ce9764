package controller

import (
	"errors"

	"ai-chat-be/internal/pkg/serverutils"
	"ai-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAccountController interface {
	RegisterRoutes(r fiber.Router)
	Delete(ctx *fiber.Ctx) error
}

type accountController struct {
	accountService service.IAccountService
}

func NewAccountController(accountService service.IAccountService) IAccountController {
	return &accountController{
		accountService: accountService,
	}
}

func (c *accountController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/account/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Delete("", c.Delete)
}

func (c *accountController) Delete(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	if err := c.accountService.DeleteAccount(ctx.Context(), userId); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete account", nil))
}
