package controller

import (
	"deck-align-be/internal/dto"
	"deck-align-be/internal/pkg/serverutils"
	"deck-align-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ILectureController interface {
	RegisterRoutes(r fiber.Router)
	Import(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
}

type lectureController struct {
	lectureService service.ILectureService
}

func NewLectureController(lectureService service.ILectureService) ILectureController {
	return &lectureController{
		lectureService: lectureService,
	}
}

func (c *lectureController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/lecture/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Import)
	h.Get(":id", c.Show)
}

func (c *lectureController) Import(ctx *fiber.Ctx) error {
	var req dto.ImportLectureRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.lectureService.ImportLecture(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success import lecture", res))
}

func (c *lectureController) Show(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid lecture id")
	}

	res, err := c.lectureService.GetLecture(ctx.Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show lecture", res))
}
