package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"ai-assistant-be/internal/constant"
	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/pkg/lock"
	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/internal/pkg/serverutils"
	"ai-assistant-be/internal/repository/specification"
	"ai-assistant-be/internal/repository/unitofwork"
	"ai-assistant-be/pkg/llm"
	"ai-assistant-be/pkg/tools"

	"github.com/google/uuid"
)

type ITaskService interface {
	CreateTask(ctx context.Context, userId uuid.UUID, instruction string, priority int, taskContext map[string]interface{}) (*dto.TaskResponse, error)
	ExecuteTask(ctx context.Context, userId uuid.UUID, taskId uuid.UUID) (*dto.TaskResponse, error)
	ResumeTask(ctx context.Context, userId uuid.UUID, taskId uuid.UUID, response map[string]interface{}) (*dto.TaskResponse, error)
	CancelTask(ctx context.Context, userId uuid.UUID, taskId uuid.UUID) (*dto.TaskResponse, error)
	GetTask(ctx context.Context, userId uuid.UUID, taskId uuid.UUID) (*dto.TaskDetailResponse, error)
	ListTasks(ctx context.Context, userId uuid.UUID, req *dto.ListTasksRequest) ([]*dto.TaskResponse, error)
}

type taskService struct {
	uowFactory  unitofwork.RepositoryFactory
	llmProvider llm.LLMProvider
	registry    *tools.Registry
	taskLock    lock.Lock
	notifier    tools.Notifier
	logger      logger.ILogger
}

func NewTaskService(
	uowFactory unitofwork.RepositoryFactory,
	llmProvider llm.LLMProvider,
	registry *tools.Registry,
	taskLock lock.Lock,
	notifier tools.Notifier,
	log logger.ILogger,
) ITaskService {
	return &taskService{
		uowFactory:  uowFactory,
		llmProvider: llmProvider,
		registry:    registry,
		taskLock:    taskLock,
		notifier:    notifier,
		logger:      log,
	}
}

// CreateTask decomposes the instruction into a step plan and persists the
// task in pending state. Execution is a separate call so the caller decides
// whether it runs inline or on a worker.
func (s *taskService) CreateTask(ctx context.Context, userId uuid.UUID, instruction string, priority int, taskContext map[string]interface{}) (*dto.TaskResponse, error) {
	if strings.TrimSpace(instruction) == "" {
		return nil, serverutils.NewValidationError("Instruction is required")
	}

	steps, err := s.decompose(ctx, instruction)
	if err != nil {
		return nil, serverutils.NewCollaboratorError("Could not plan the task", err)
	}

	task := entity.Task{
		Id:          uuid.New(),
		UserId:      userId,
		Title:       taskTitle(instruction),
		Description: instruction,
		Status:      constant.TaskStatusPending,
		Priority:    priority,
		Context:     taskContext,
		Steps:       steps,
		CurrentStep: 0,
		Assignee:    "assistant",
		CreatedAt:   time.Now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.TaskRepository().Create(ctx, &task); err != nil {
		return nil, err
	}

	s.logger.Info("Task", "Task created", map[string]interface{}{
		"task_id": task.Id,
		"steps":   len(task.Steps),
	})
	return taskToResponse(&task), nil
}

func (s *taskService) decompose(ctx context.Context, instruction string) ([]entity.Step, error) {
	prompt := fmt.Sprintf(constant.TaskDecompositionPromptV1, instruction)
	raw, err := s.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.1))
	if err != nil {
		return nil, err
	}

	var steps []entity.Step
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &steps); err != nil {
		return nil, fmt.Errorf("planner returned malformed steps: %w", err)
	}
	return steps, nil
}

// stripCodeFence removes a markdown fence the model sometimes wraps around
// JSON despite the prompt asking for a bare array.
func stripCodeFence(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

func taskTitle(instruction string) string {
	title := strings.TrimSpace(instruction)
	if len(title) > 120 {
		title = title[:117] + "..."
	}
	return title
}

// ExecuteTask drives a pending task as far as it can go in one call. The
// per-task lock guarantees no two workers advance the same task.
func (s *taskService) ExecuteTask(ctx context.Context, userId uuid.UUID, taskId uuid.UUID) (*dto.TaskResponse, error) {
	if err := s.taskLock.Acquire(ctx, taskId); err != nil {
		if errors.Is(err, lock.ErrAlreadyLocked) {
			return nil, serverutils.NewConflictError("Task is already being executed")
		}
		return nil, err
	}
	defer s.taskLock.Release(ctx, taskId)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	task, err := uow.TaskRepository().FindOne(ctx,
		specification.ByID{ID: taskId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, serverutils.NewNotFoundError("Task not found")
	}
	if task.IsTerminal() {
		return nil, serverutils.NewConflictError("Task is already finished")
	}
	if task.Status == constant.TaskStatusWaiting {
		return nil, serverutils.NewConflictError("Task is waiting for a response; resume it instead")
	}

	// Empty plan short-circuits to completed without touching the log.
	if len(task.Steps) == 0 {
		now := time.Now()
		task.Status = constant.TaskStatusCompleted
		task.CompletedAt = &now
		if err := uow.TaskRepository().Update(ctx, task); err != nil {
			return nil, err
		}
		return taskToResponse(task), nil
	}

	task.Status = constant.TaskStatusInProgress
	if err := uow.TaskRepository().Update(ctx, task); err != nil {
		return nil, err
	}

	if err := s.runSteps(ctx, task); err != nil {
		return nil, err
	}
	return taskToResponse(task), nil
}

// ResumeTask re-enters a waiting task. The caller's response is merged into
// the task context so later steps can read it.
func (s *taskService) ResumeTask(ctx context.Context, userId uuid.UUID, taskId uuid.UUID, response map[string]interface{}) (*dto.TaskResponse, error) {
	if err := s.taskLock.Acquire(ctx, taskId); err != nil {
		if errors.Is(err, lock.ErrAlreadyLocked) {
			return nil, serverutils.NewConflictError("Task is already being executed")
		}
		return nil, err
	}
	defer s.taskLock.Release(ctx, taskId)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	task, err := uow.TaskRepository().FindOne(ctx,
		specification.ByID{ID: taskId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, serverutils.NewNotFoundError("Task not found")
	}
	if task.Status != constant.TaskStatusWaiting {
		return nil, serverutils.NewConflictError("Task is not waiting for a response")
	}

	if len(response) > 0 {
		if task.Context == nil {
			task.Context = make(map[string]interface{})
		}
		task.Context["user_response"] = response
	}

	task.Status = constant.TaskStatusInProgress
	if err := uow.TaskRepository().Update(ctx, task); err != nil {
		return nil, err
	}

	if err := s.runSteps(ctx, task); err != nil {
		return nil, err
	}
	return taskToResponse(task), nil
}

// CancelTask is allowed from any non-terminal state. A step already in
// flight finishes; the cancellation is observed before the next one starts.
func (s *taskService) CancelTask(ctx context.Context, userId uuid.UUID, taskId uuid.UUID) (*dto.TaskResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	task, err := uow.TaskRepository().FindOne(ctx,
		specification.ByID{ID: taskId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, serverutils.NewNotFoundError("Task not found")
	}
	if task.IsTerminal() {
		return nil, serverutils.NewConflictError("Task is already finished")
	}

	task.Status = constant.TaskStatusCancelled
	if err := uow.TaskRepository().Update(ctx, task); err != nil {
		return nil, err
	}
	return taskToResponse(task), nil
}

// runSteps advances the task sequentially from CurrentStep until it reaches
// a terminal state or a suspension point. Each step gets exactly one
// started entry and one terminal entry in the log.
func (s *taskService) runSteps(ctx context.Context, task *entity.Task) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	for {
		// Re-read status so a cancellation issued between steps is honored.
		fresh, err := uow.TaskRepository().FindOne(ctx, specification.ByID{ID: task.Id})
		if err != nil {
			return err
		}
		if fresh == nil || fresh.Status == constant.TaskStatusCancelled {
			if fresh != nil {
				*task = *fresh
			}
			return nil
		}

		if task.CurrentStep >= len(task.Steps) {
			now := time.Now()
			task.Status = constant.TaskStatusCompleted
			task.CompletedAt = &now
			return uow.TaskRepository().Update(ctx, task)
		}

		step := task.Steps[task.CurrentStep]

		if err := uow.TaskLogRepository().Create(ctx, &entity.TaskLog{
			Id:         uuid.New(),
			TaskId:     task.Id,
			StepNumber: task.CurrentStep,
			Action:     step.Action,
			Status:     constant.TaskLogStatusStarted,
			ExecutedAt: time.Now(),
		}); err != nil {
			return err
		}

		result, stepErr := s.invokeStep(ctx, task, step)
		if stepErr != nil {
			if err := uow.TaskLogRepository().Create(ctx, &entity.TaskLog{
				Id:         uuid.New(),
				TaskId:     task.Id,
				StepNumber: task.CurrentStep,
				Action:     step.Action,
				Status:     constant.TaskLogStatusFailed,
				Details:    stepErr.Error(),
				ExecutedAt: time.Now(),
			}); err != nil {
				return err
			}

			task.Status = constant.TaskStatusFailed
			if err := uow.TaskRepository().Update(ctx, task); err != nil {
				return err
			}

			s.logger.Warn("Task", "Step failed", map[string]interface{}{
				"task_id": task.Id,
				"step":    task.CurrentStep,
				"error":   stepErr.Error(),
			})
			s.notifier.Push(task.UserId, "A task could not be completed: "+task.Title, map[string]interface{}{
				"task_id": task.Id.String(),
				"status":  task.Status,
			})
			return nil
		}

		if err := uow.TaskLogRepository().Create(ctx, &entity.TaskLog{
			Id:         uuid.New(),
			TaskId:     task.Id,
			StepNumber: task.CurrentStep,
			Action:     step.Action,
			Status:     constant.TaskLogStatusCompleted,
			Metadata:   result,
			ExecutedAt: time.Now(),
		}); err != nil {
			return err
		}

		task.CurrentStep++

		if step.WaitForResponse {
			task.Status = constant.TaskStatusWaiting
			if err := uow.TaskRepository().Update(ctx, task); err != nil {
				return err
			}
			s.notifier.Push(task.UserId, "A task needs your input: "+task.Title, map[string]interface{}{
				"task_id": task.Id.String(),
				"status":  task.Status,
			})
			return nil
		}

		if err := uow.TaskRepository().Update(ctx, task); err != nil {
			return err
		}
	}
}

// invokeStep resolves and runs one step. A missing action is a data
// integrity failure and is treated exactly like a tool error.
func (s *taskService) invokeStep(ctx context.Context, task *entity.Task, step entity.Step) (map[string]interface{}, error) {
	if strings.TrimSpace(step.Action) == "" {
		return nil, fmt.Errorf("step %d has no action", task.CurrentStep)
	}

	capability, err := s.registry.Resolve(step.Action)
	if err != nil {
		return nil, err
	}

	result, err := capability.Execute(ctx, task.UserId, step.Parameters, task.Context)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *taskService) GetTask(ctx context.Context, userId uuid.UUID, taskId uuid.UUID) (*dto.TaskDetailResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	task, err := uow.TaskRepository().FindOne(ctx,
		specification.ByID{ID: taskId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, serverutils.NewNotFoundError("Task not found")
	}

	logs, err := uow.TaskLogRepository().FindAll(ctx,
		specification.ByTaskID{TaskID: taskId},
		specification.OrderBy{Field: "executed_at"},
	)
	if err != nil {
		return nil, err
	}

	logDTOs := make([]dto.TaskLogDTO, 0, len(logs))
	for _, l := range logs {
		logDTOs = append(logDTOs, dto.TaskLogDTO{
			Id:         l.Id,
			StepNumber: l.StepNumber,
			Action:     l.Action,
			Status:     l.Status,
			Details:    l.Details,
			Metadata:   l.Metadata,
			ExecutedAt: l.ExecutedAt,
		})
	}

	return &dto.TaskDetailResponse{
		Task: *taskToResponse(task),
		Logs: logDTOs,
	}, nil
}

func (s *taskService) ListTasks(ctx context.Context, userId uuid.UUID, req *dto.ListTasksRequest) ([]*dto.TaskResponse, error) {
	specs := []specification.Specification{
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	}
	if req.Status != "" {
		specs = append(specs, specification.ByStatus{Status: req.Status})
	}
	limit := req.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	specs = append(specs, specification.Pagination{Limit: limit, Offset: req.Offset})

	uow := s.uowFactory.NewUnitOfWork(ctx)
	tasks, err := uow.TaskRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		responses = append(responses, taskToResponse(t))
	}
	return responses, nil
}

func taskToResponse(task *entity.Task) *dto.TaskResponse {
	steps := make([]dto.StepDTO, 0, len(task.Steps))
	for _, st := range task.Steps {
		steps = append(steps, dto.StepDTO{
			Action:          st.Action,
			Description:     st.Description,
			Parameters:      st.Parameters,
			WaitForResponse: st.WaitForResponse,
		})
	}
	return &dto.TaskResponse{
		Id:          task.Id,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		Steps:       steps,
		CurrentStep: task.CurrentStep,
		Context:     task.Context,
		DueAt:       task.DueAt,
		CompletedAt: task.CompletedAt,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}
