package controller

import (
	"speaksmart-be/internal/constant"
	"speaksmart-be/internal/dto"
	"speaksmart-be/internal/pkg/serverutils"
	"speaksmart-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IEvaluationController interface {
	RegisterRoutes(r fiber.Router)
	EvaluateIELTS(ctx *fiber.Ctx) error
	EvaluateJob(ctx *fiber.Ctx) error
	EvaluateSpeaking(ctx *fiber.Ctx) error
}

type evaluationController struct {
	service service.IEvaluationService
}

func NewEvaluationController(service service.IEvaluationService) IEvaluationController {
	return &evaluationController{service: service}
}

func (c *evaluationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/evaluate-answers")
	h.Post("/ielts", c.EvaluateIELTS)
	h.Post("/job", c.EvaluateJob)
	h.Post("/speaking", c.EvaluateSpeaking)
}

func (c *evaluationController) EvaluateIELTS(ctx *fiber.Ctx) error {
	return c.evaluate(ctx, constant.ModeIELTS)
}

func (c *evaluationController) EvaluateJob(ctx *fiber.Ctx) error {
	return c.evaluate(ctx, constant.ModeJob)
}

func (c *evaluationController) EvaluateSpeaking(ctx *fiber.Ctx) error {
	return c.evaluate(ctx, constant.ModeSpeaking)
}

func (c *evaluationController) evaluate(ctx *fiber.Ctx, mode string) error {
	var req dto.EvaluateAnswerRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body.")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Missing question or userAnswer in request body.")
	}

	res, err := c.service.Evaluate(ctx.UserContext(), mode, req.Question, req.UserAnswer)
	if err != nil {
		return toHTTPError(err)
	}
	return ctx.JSON(res.ToResponse())
}
