package controller

import (
	"fmt"
	"strings"

	"speaksmart-be/internal/dto"
	"speaksmart-be/internal/pkg/serverutils"
	"speaksmart-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
}

type chatController struct {
	service service.IChatService
}

func NewChatController(service service.IChatService) IChatController {
	return &chatController{service: service}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	r.Post("/ai", c.Chat)
}

func (c *chatController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request: 'messages' must be an array.")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		fields := serverutils.FailedFields(err)
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Invalid request: check %s.", strings.Join(fields, ", ")))
	}

	reply, err := c.service.Reply(ctx.UserContext(), req.Messages)
	if err != nil {
		return toHTTPError(err)
	}
	return ctx.JSON(dto.ChatResponse{Success: true, Data: reply})
}
