package service

import (
	"context"
	"strings"
	"time"

	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/pkg/serverutils"
	"ai-assistant-be/internal/repository/memory"
	"ai-assistant-be/internal/repository/specification"
	"ai-assistant-be/internal/repository/unitofwork"
	"ai-assistant-be/pkg/assistant/classifier"

	"github.com/google/uuid"
)

type IInstructionService interface {
	Submit(ctx context.Context, userId uuid.UUID, req *dto.SubmitInstructionRequest) (*dto.SubmitInstructionResponse, error)
	ListOngoing(ctx context.Context, userId uuid.UUID) ([]*dto.OngoingInstructionDTO, error)
	UpdateOngoing(ctx context.Context, userId uuid.UUID, id uuid.UUID, req *dto.UpdateOngoingInstructionRequest) (*dto.OngoingInstructionDTO, error)
	DeleteOngoing(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
}

// instructionService classifies raw instructions and routes each category:
// ongoing becomes a standing rule, task becomes a planned task executed
// right away, immediate goes to the chat orchestrator.
type instructionService struct {
	uowFactory       unitofwork.RepositoryFactory
	taskService      ITaskService
	chatService      IChatService
	instructionCache *memory.InstructionCache
}

func NewInstructionService(
	uowFactory unitofwork.RepositoryFactory,
	taskService ITaskService,
	chatService IChatService,
	instructionCache *memory.InstructionCache,
) IInstructionService {
	return &instructionService{
		uowFactory:       uowFactory,
		taskService:      taskService,
		chatService:      chatService,
		instructionCache: instructionCache,
	}
}

func (s *instructionService) Submit(ctx context.Context, userId uuid.UUID, req *dto.SubmitInstructionRequest) (*dto.SubmitInstructionResponse, error) {
	category := classifier.Classify(req.Instruction)
	priority := classifier.DerivePriority(req.Instruction)

	response := &dto.SubmitInstructionResponse{
		Category: string(category),
		Priority: priority,
	}

	switch category {
	case classifier.CategoryOngoing:
		instruction, err := s.createOngoing(ctx, userId, req.Instruction, priority)
		if err != nil {
			return nil, err
		}
		response.OngoingInstruction = instructionToDTO(instruction)

	case classifier.CategoryTask:
		task, err := s.taskService.CreateTask(ctx, userId, req.Instruction, priority, nil)
		if err != nil {
			return nil, err
		}
		executed, err := s.taskService.ExecuteTask(ctx, userId, task.Id)
		if err != nil {
			return nil, err
		}
		response.Task = executed

	default:
		chatRes, err := s.chatService.SendChat(ctx, userId, &dto.SendChatRequest{Content: req.Instruction})
		if err != nil {
			return nil, err
		}
		response.Answer = &dto.ImmediateAnswerDTO{
			ChatSessionId: chatRes.ChatSessionId,
			Content:       chatRes.Reply.Content,
		}
	}

	return response, nil
}

func (s *instructionService) createOngoing(ctx context.Context, userId uuid.UUID, text string, priority int) (*entity.OngoingInstruction, error) {
	if strings.TrimSpace(text) == "" {
		return nil, serverutils.NewValidationError("Instruction is required")
	}

	instruction := entity.OngoingInstruction{
		Id:          uuid.New(),
		UserId:      userId,
		Instruction: strings.TrimSpace(text),
		IsActive:    true,
		Priority:    priority,
		CreatedAt:   time.Now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.OngoingInstructionRepository().Create(ctx, &instruction); err != nil {
		return nil, err
	}

	s.instructionCache.Invalidate(userId.String())
	return &instruction, nil
}

func (s *instructionService) ListOngoing(ctx context.Context, userId uuid.UUID) ([]*dto.OngoingInstructionDTO, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	instructions, err := uow.OngoingInstructionRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "priority", Desc: true},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	dtos := make([]*dto.OngoingInstructionDTO, 0, len(instructions))
	for _, instruction := range instructions {
		dtos = append(dtos, instructionToDTO(instruction))
	}
	return dtos, nil
}

func (s *instructionService) UpdateOngoing(ctx context.Context, userId uuid.UUID, id uuid.UUID, req *dto.UpdateOngoingInstructionRequest) (*dto.OngoingInstructionDTO, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	instruction, err := uow.OngoingInstructionRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if instruction == nil {
		return nil, serverutils.NewNotFoundError("Instruction not found")
	}

	instruction.IsActive = *req.IsActive
	now := time.Now()
	instruction.UpdatedAt = &now
	if err := uow.OngoingInstructionRepository().Update(ctx, instruction); err != nil {
		return nil, err
	}

	s.instructionCache.Invalidate(userId.String())
	return instructionToDTO(instruction), nil
}

func (s *instructionService) DeleteOngoing(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	instruction, err := uow.OngoingInstructionRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if instruction == nil {
		return serverutils.NewNotFoundError("Instruction not found")
	}

	now := time.Now()
	instruction.IsDeleted = true
	instruction.DeletedAt = &now
	instruction.IsActive = false
	if err := uow.OngoingInstructionRepository().Update(ctx, instruction); err != nil {
		return err
	}

	s.instructionCache.Invalidate(userId.String())
	return nil
}

func instructionToDTO(instruction *entity.OngoingInstruction) *dto.OngoingInstructionDTO {
	return &dto.OngoingInstructionDTO{
		Id:          instruction.Id,
		Instruction: instruction.Instruction,
		IsActive:    instruction.IsActive,
		Priority:    instruction.Priority,
		CreatedAt:   instruction.CreatedAt,
		UpdatedAt:   instruction.UpdatedAt,
	}
}
