package controller

import (
	"deck-align-be/internal/dto"
	"deck-align-be/internal/pkg/serverutils"
	"deck-align-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAlignmentController interface {
	RegisterRoutes(r fiber.Router)
	Run(ctx *fiber.Ctx) error
	Progress(ctx *fiber.Ctx) error
	Cancel(ctx *fiber.Ctx) error
	Report(ctx *fiber.Ctx) error
}

type alignmentController struct {
	alignmentService service.IAlignmentService
}

func NewAlignmentController(alignmentService service.IAlignmentService) IAlignmentController {
	return &alignmentController{
		alignmentService: alignmentService,
	}
}

func (c *alignmentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/alignment/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("run", c.Run)
	h.Get(":lectureId/progress", c.Progress)
	h.Post(":lectureId/cancel", c.Cancel)
	h.Get(":lectureId/report", c.Report)
}

func (c *alignmentController) Run(ctx *fiber.Ctx) error {
	var req dto.RunAlignmentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.alignmentService.StartAlignment(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Alignment run queued", res))
}

func (c *alignmentController) Progress(ctx *fiber.Ctx) error {
	lectureId, err := uuid.Parse(ctx.Params("lectureId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid lecture id")
	}

	res, err := c.alignmentService.GetProgress(ctx.Context(), lectureId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get progress", res))
}

func (c *alignmentController) Cancel(ctx *fiber.Ctx) error {
	lectureId, err := uuid.Parse(ctx.Params("lectureId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid lecture id")
	}

	res, err := c.alignmentService.Cancel(ctx.Context(), lectureId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Alignment run cancelled", res))
}

func (c *alignmentController) Report(ctx *fiber.Ctx) error {
	lectureId, err := uuid.Parse(ctx.Params("lectureId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid lecture id")
	}

	res, err := c.alignmentService.GetReport(ctx.Context(), lectureId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get alignment report", res))
}
