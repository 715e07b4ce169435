package events

import (
	"time"

	"github.com/google/uuid"
)

// ExternalEvent is a typed wrapper for events arriving from the connected
// accounts (mail, calendar, CRM). UserId identifies the owner; the payload
// carries whatever fields the source sync produced.
type ExternalEvent struct {
	Type       string
	UserId     uuid.UUID
	Data       map[string]interface{}
	OccurredAt time.Time
}

func NewExternalEvent(eventType string, userId uuid.UUID, data map[string]interface{}) ExternalEvent {
	return ExternalEvent{
		Type:       eventType,
		UserId:     userId,
		Data:       data,
		OccurredAt: time.Now(),
	}
}

func (e ExternalEvent) EventType() string {
	return e.Type
}

func (e ExternalEvent) Payload() map[string]interface{} {
	payload := make(map[string]interface{}, len(e.Data)+2)
	for k, v := range e.Data {
		payload[k] = v
	}
	payload["user_id"] = e.UserId.String()
	payload["event_type"] = e.Type
	return payload
}

func (e ExternalEvent) Timestamp() time.Time {
	return e.OccurredAt
}
