package controller

import (
	"speaksmart-be/internal/dto"
	"speaksmart-be/internal/pkg/serverutils"
	"speaksmart-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ITTSController interface {
	RegisterRoutes(r fiber.Router)
	Synthesize(ctx *fiber.Ctx) error
}

type ttsController struct {
	service service.ITTSService
}

func NewTTSController(service service.ITTSService) ITTSController {
	return &ttsController{service: service}
}

func (c *ttsController) RegisterRoutes(r fiber.Router) {
	r.Post("/tts", c.Synthesize)
}

func (c *ttsController) Synthesize(ctx *fiber.Ctx) error {
	var req dto.TTSRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body.")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Missing text input.")
	}

	res, err := c.service.Synthesize(ctx.UserContext(), req.Text)
	if err != nil {
		return toHTTPError(err)
	}

	ctx.Set(fiber.HeaderContentType, res.ContentType)
	ctx.Set(fiber.HeaderContentDisposition, `inline; filename="speech.mp3"`)
	ctx.Set(fiber.HeaderCacheControl, "no-cache")
	return ctx.Send(res.Audio)
}
