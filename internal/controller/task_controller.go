package controller

import (
	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/pkg/serverutils"
	"ai-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ITaskController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Execute(ctx *fiber.Ctx) error
	Resume(ctx *fiber.Ctx) error
	Cancel(ctx *fiber.Ctx) error
}

type taskController struct {
	taskService service.ITaskService
}

func NewTaskController(taskService service.ITaskService) ITaskController {
	return &taskController{
		taskService: taskService,
	}
}

func (c *taskController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/task/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("", c.List)
	h.Get(":id", c.Show)
	h.Post(":id/execute", c.Execute)
	h.Post(":id/resume", c.Resume)
	h.Post(":id/cancel", c.Cancel)
}

func (c *taskController) List(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	var req dto.ListTasksRequest
	if err := ctx.QueryParser(&req); err != nil {
		return err
	}

	res, err := c.taskService.ListTasks(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list tasks", res))
}

// Show returns the task together with its full audit log.
func (c *taskController) Show(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewValidationError("Invalid task id")
	}

	res, err := c.taskService.GetTask(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show task", res))
}

func (c *taskController) Execute(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewValidationError("Invalid task id")
	}

	res, err := c.taskService.ExecuteTask(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Task executed", res))
}

func (c *taskController) Resume(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewValidationError("Invalid task id")
	}

	var req dto.ResumeTaskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	res, err := c.taskService.ResumeTask(ctx.Context(), userId, id, req.Response)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Task resumed", res))
}

func (c *taskController) Cancel(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewValidationError("Invalid task id")
	}

	res, err := c.taskService.CancelTask(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Task cancelled", res))
}
