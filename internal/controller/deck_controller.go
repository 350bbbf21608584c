package controller

import (
	"deck-align-be/internal/dto"
	"deck-align-be/internal/pkg/serverutils"
	"deck-align-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IDeckController interface {
	RegisterRoutes(r fiber.Router)
	Import(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
}

type deckController struct {
	deckService service.IDeckService
}

func NewDeckController(deckService service.IDeckService) IDeckController {
	return &deckController{
		deckService: deckService,
	}
}

func (c *deckController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/deck/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Import)
	h.Get(":id", c.Show)
}

func (c *deckController) Import(ctx *fiber.Ctx) error {
	var req dto.ImportDeckRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.deckService.ImportDeck(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success import deck", res))
}

func (c *deckController) Show(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid deck id")
	}

	res, err := c.deckService.GetDeck(ctx.Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show deck", res))
}
