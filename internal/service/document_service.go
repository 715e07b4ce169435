package service

import (
	"context"
	"encoding/json"

	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/pkg/serverutils"
	"ai-assistant-be/internal/repository/specification"
	"ai-assistant-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IDocumentService interface {
	Ingest(ctx context.Context, userId uuid.UUID, req *dto.IngestDocumentRequest) (*dto.IngestDocumentResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, documentId uuid.UUID) error
}

// documentService accepts synced documents and queues them for embedding.
// The document body itself is not stored here; only its vector chunks are.
type documentService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
}

func NewDocumentService(uowFactory unitofwork.RepositoryFactory, publisherService IPublisherService) IDocumentService {
	return &documentService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
	}
}

func (s *documentService) Ingest(ctx context.Context, userId uuid.UUID, req *dto.IngestDocumentRequest) (*dto.IngestDocumentResponse, error) {
	msgPayload := dto.PublishEmbedDocumentMessage{
		DocumentId:   req.DocumentId,
		UserId:       userId,
		DocumentType: req.DocumentType,
		Content:      req.Content,
		Metadata:     req.Metadata,
	}
	msgJson, err := json.Marshal(msgPayload)
	if err != nil {
		return nil, err
	}

	if err := s.publisherService.Publish(ctx, msgJson); err != nil {
		return nil, err
	}

	return &dto.IngestDocumentResponse{
		DocumentId: req.DocumentId,
		Queued:     true,
	}, nil
}

func (s *documentService) Delete(ctx context.Context, userId uuid.UUID, documentId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	count, err := uow.DocumentEmbeddingRepository().Count(ctx,
		specification.ByDocumentID{DocumentID: documentId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if count == 0 {
		return serverutils.NewNotFoundError("Document not found")
	}

	return uow.DocumentEmbeddingRepository().DeleteByDocumentId(ctx, userId, documentId)
}
