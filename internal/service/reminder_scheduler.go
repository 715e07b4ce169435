package service

import (
	"context"
	"time"

	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/pkg/events"
	"ai-assistant-be/pkg/nats"
	"ai-assistant-be/pkg/tools"

	"github.com/google/uuid"
)

// reminderScheduler backs the create_reminder capability. The schedule is
// announced on the event bus for durability and consumers, while an
// in-process timer handles delivery on this instance.
type reminderScheduler struct {
	publisher *nats.Publisher
	notifier  tools.Notifier
	logger    logger.ILogger
}

func NewReminderScheduler(publisher *nats.Publisher, notifier tools.Notifier, log logger.ILogger) tools.ReminderScheduler {
	return &reminderScheduler{
		publisher: publisher,
		notifier:  notifier,
		logger:    log,
	}
}

func (s *reminderScheduler) Schedule(ctx context.Context, userId uuid.UUID, message string, remindAt time.Time) error {
	if s.publisher != nil {
		evt := events.NewExternalEvent("reminder.scheduled", userId, map[string]interface{}{
			"message":   message,
			"remind_at": remindAt.Format(time.RFC3339),
		})
		if err := s.publisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("Reminder", "Could not announce reminder on bus", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	delay := time.Until(remindAt)
	if delay < 0 {
		delay = 0
	}

	time.AfterFunc(delay, func() {
		s.notifier.Push(userId, message, map[string]interface{}{
			"kind":      "reminder",
			"remind_at": remindAt.Format(time.RFC3339),
		})
	})

	s.logger.Info("Reminder", "Reminder scheduled", map[string]interface{}{
		"user_id":   userId,
		"remind_at": remindAt,
	})
	return nil
}
