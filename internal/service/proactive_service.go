package service

import (
	"context"
	"fmt"
	"sort"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/internal/repository/memory"
	"ai-assistant-be/internal/repository/specification"
	"ai-assistant-be/internal/repository/unitofwork"
	"ai-assistant-be/pkg/assistant/matcher"
	"ai-assistant-be/pkg/events"

	"github.com/google/uuid"
)

type IProactiveService interface {
	// HandleEvent evaluates one external event against the user's standing
	// rules. It never returns an error: event delivery must not be blocked
	// by per-rule evaluation failures.
	HandleEvent(ctx context.Context, event events.ExternalEvent)
}

type proactiveService struct {
	uowFactory         unitofwork.RepositoryFactory
	instructionCache   *memory.InstructionCache
	taskService        ITaskService
	relevanceThreshold float64
	logger             logger.ILogger
}

func NewProactiveService(
	uowFactory unitofwork.RepositoryFactory,
	instructionCache *memory.InstructionCache,
	taskService ITaskService,
	relevanceThreshold float64,
	log logger.ILogger,
) IProactiveService {
	return &proactiveService{
		uowFactory:         uowFactory,
		instructionCache:   instructionCache,
		taskService:        taskService,
		relevanceThreshold: relevanceThreshold,
		logger:             log,
	}
}

func (s *proactiveService) HandleEvent(ctx context.Context, event events.ExternalEvent) {
	instructions, err := s.activeInstructions(ctx, event.UserId)
	if err != nil {
		s.logger.Error("Proactive", "Could not load instructions", map[string]interface{}{
			"user_id": event.UserId,
			"error":   err.Error(),
		})
		return
	}
	if len(instructions) == 0 {
		return
	}

	for _, instruction := range instructions {
		score := matcher.Score(instruction.Instruction, event.Type, event.Data)
		if score < s.relevanceThreshold {
			continue
		}

		s.logger.Info("Proactive", "Instruction triggered", map[string]interface{}{
			"instruction_id": instruction.Id,
			"event_type":     event.Type,
			"score":          score,
		})
		s.trigger(ctx, instruction, event)
	}
}

// activeInstructions returns the user's active rules ordered by priority
// descending, then recency. The cache absorbs the per-event read load.
func (s *proactiveService) activeInstructions(ctx context.Context, userId uuid.UUID) ([]*entity.OngoingInstruction, error) {
	if cached, found := s.instructionCache.Get(userId.String()); found {
		return cached, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	instructions, err := uow.OngoingInstructionRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ActiveOnly{},
	)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(instructions, func(i, j int) bool {
		if instructions[i].Priority != instructions[j].Priority {
			return instructions[i].Priority > instructions[j].Priority
		}
		return instructions[i].CreatedAt.After(instructions[j].CreatedAt)
	})

	s.instructionCache.Save(userId.String(), instructions)
	return instructions, nil
}

// trigger synthesizes and runs a task for one matched rule. The task context
// carries the full event payload and the originating instruction id.
func (s *proactiveService) trigger(ctx context.Context, instruction *entity.OngoingInstruction, event events.ExternalEvent) {
	taskContext := map[string]interface{}{
		"instruction_id": instruction.Id.String(),
		"event_type":     event.Type,
		"event_payload":  event.Data,
		"occurred_at":    event.OccurredAt,
	}

	taskInstruction := fmt.Sprintf("%s (triggered by %s)", instruction.Instruction, event.Type)
	task, err := s.taskService.CreateTask(ctx, instruction.UserId, taskInstruction, instruction.Priority, taskContext)
	if err != nil {
		s.logger.Error("Proactive", "Triggered task creation failed", map[string]interface{}{
			"instruction_id": instruction.Id,
			"error":          err.Error(),
		})
		return
	}

	if _, err := s.taskService.ExecuteTask(ctx, instruction.UserId, task.Id); err != nil {
		s.logger.Error("Proactive", "Triggered task execution failed", map[string]interface{}{
			"task_id": task.Id,
			"error":   err.Error(),
		})
	}
}
