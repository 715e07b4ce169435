package controller

import (
	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/pkg/serverutils"
	"ai-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IInstructionController interface {
	RegisterRoutes(r fiber.Router)
	Submit(ctx *fiber.Ctx) error
	ListOngoing(ctx *fiber.Ctx) error
	UpdateOngoing(ctx *fiber.Ctx) error
	DeleteOngoing(ctx *fiber.Ctx) error
}

type instructionController struct {
	instructionService service.IInstructionService
}

func NewInstructionController(instructionService service.IInstructionService) IInstructionController {
	return &instructionController{
		instructionService: instructionService,
	}
}

func (c *instructionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/assistant/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("/instruction", c.Submit)
	h.Get("/instruction", c.ListOngoing)
	h.Patch("/instruction/:id", c.UpdateOngoing)
	h.Delete("/instruction/:id", c.DeleteOngoing)
}

// Submit is the single entry point for natural-language instructions. The
// classifier decides whether it becomes a rule, a task or a chat answer.
func (c *instructionController) Submit(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	var req dto.SubmitInstructionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.instructionService.Submit(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Instruction processed", res))
}

func (c *instructionController) ListOngoing(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	res, err := c.instructionService.ListOngoing(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list instructions", res))
}

func (c *instructionController) UpdateOngoing(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewValidationError("Invalid instruction id")
	}

	var req dto.UpdateOngoingInstructionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.instructionService.UpdateOngoing(ctx.Context(), userId, id, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Instruction updated", res))
}

func (c *instructionController) DeleteOngoing(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewValidationError("Invalid instruction id")
	}

	if err := c.instructionService.DeleteOngoing(ctx.Context(), userId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Instruction deleted", nil))
}
