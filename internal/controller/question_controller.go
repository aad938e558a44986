package controller

import (
	"speaksmart-be/internal/dto"
	"speaksmart-be/internal/pkg/serverutils"
	"speaksmart-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IQuestionController interface {
	RegisterRoutes(r fiber.Router)
	GenerateIELTS(ctx *fiber.Ctx) error
	GenerateJob(ctx *fiber.Ctx) error
	GenerateSpeaking(ctx *fiber.Ctx) error
}

type questionController struct {
	service service.IQuestionService
}

func NewQuestionController(service service.IQuestionService) IQuestionController {
	return &questionController{service: service}
}

func (c *questionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/generate-questions")
	h.Post("/ielts", c.GenerateIELTS)
	h.Post("/job", c.GenerateJob)
	h.Post("/speaking", c.GenerateSpeaking)
}

func (c *questionController) GenerateIELTS(ctx *fiber.Ctx) error {
	res, err := c.service.GenerateIELTS(ctx.UserContext())
	if err != nil {
		return toHTTPError(err)
	}
	return ctx.JSON(res)
}

func (c *questionController) GenerateJob(ctx *fiber.Ctx) error {
	var req dto.GenerateJobQuestionsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body.")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "User field is required before generating interview questions.")
	}

	res, err := c.service.GenerateJob(ctx.UserContext(), req.UserField)
	if err != nil {
		return toHTTPError(err)
	}
	return ctx.JSON(res)
}

func (c *questionController) GenerateSpeaking(ctx *fiber.Ctx) error {
	var req dto.GenerateSpeakingQuestionsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body.")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Topic is required before generating speaking questions.")
	}

	res, err := c.service.GenerateSpeaking(ctx.UserContext(), req.Topic)
	if err != nil {
		return toHTTPError(err)
	}
	return ctx.JSON(res)
}
