package dto

import (
	"time"

	"github.com/google/uuid"
)

// IngestEventRequest is the external event envelope accepted over HTTP and
// from the event bus. Data shape depends on EventType.
type IngestEventRequest struct {
	EventType  string                 `json:"event_type" validate:"required"`
	UserId     uuid.UUID              `json:"user_id" validate:"required"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt *time.Time             `json:"occurred_at"`
}

type IngestEventResponse struct {
	Accepted bool `json:"accepted"`
}

type IngestDocumentRequest struct {
	DocumentId   uuid.UUID              `json:"document_id" validate:"required"`
	DocumentType string                 `json:"document_type" validate:"required,oneof=email calendar_event contact note"`
	Content      string                 `json:"content" validate:"required"`
	Metadata     map[string]interface{} `json:"metadata"`
}

type IngestDocumentResponse struct {
	DocumentId uuid.UUID `json:"document_id"`
	Queued     bool      `json:"queued"`
}

// PublishEmbedDocumentMessage is the internal queue payload for the
// embedding worker. Content travels with the message because documents live
// in the account gateway, not in this service's database.
type PublishEmbedDocumentMessage struct {
	DocumentId   uuid.UUID              `json:"document_id"`
	UserId       uuid.UUID              `json:"user_id"`
	DocumentType string                 `json:"document_type"`
	Content      string                 `json:"content"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
}
