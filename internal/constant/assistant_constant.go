package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
	ChatMessageRoleSystem    = "system"

	// Task statuses
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in_progress"
	TaskStatusWaiting    = "waiting"
	TaskStatusCompleted  = "completed"
	TaskStatusFailed     = "failed"
	TaskStatusCancelled  = "cancelled"

	// TaskLog statuses
	TaskLogStatusStarted   = "started"
	TaskLogStatusCompleted = "completed"
	TaskLogStatusFailed    = "failed"
	TaskLogStatusSkipped   = "skipped"

	// Document types stored in the embedding table
	DocumentTypeEmail         = "email"
	DocumentTypeCalendarEvent = "calendar_event"
	DocumentTypeContact       = "contact"
	DocumentTypeNote          = "note"

	// External event types carried on the bus
	EventTypeEmailReceived   = "email.received"
	EventTypeCalendarCreated = "calendar.created"
	EventTypeContactCreated  = "contact.created"
)

// Priority levels derived from instruction text. Keyword matching is
// substring based and case-insensitive.
const (
	PriorityNormal    = 1
	PriorityImportant = 3
	PriorityUrgent    = 5
)
