package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Mailer sends mail on the user's behalf; implemented by the SMTP mailer.
type Mailer interface {
	SendMessage(to, subject, body string) error
}

// Notifier pushes a message to the user's open clients.
type Notifier interface {
	Push(userId uuid.UUID, message string, metadata map[string]interface{})
}

// ReminderScheduler queues a reminder to fire later; implemented over the
// event bus so the job layer owns the timing.
type ReminderScheduler interface {
	Schedule(ctx context.Context, userId uuid.UUID, message string, remindAt time.Time) error
}

func stringParam(params map[string]interface{}, key string) (string, error) {
	v, ok := params[key]
	if !ok {
		return "", fmt.Errorf("missing required parameter: %s", key)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("parameter %s must be a non-empty string", key)
	}
	return s, nil
}

// --- send_email ---

type SendEmailCapability struct {
	mailer Mailer
}

func NewSendEmailCapability(mailer Mailer) *SendEmailCapability {
	return &SendEmailCapability{mailer: mailer}
}

func (c *SendEmailCapability) Name() string { return "send_email" }

func (c *SendEmailCapability) Execute(ctx context.Context, userId uuid.UUID, params map[string]interface{}, taskContext map[string]interface{}) (Result, error) {
	to, err := stringParam(params, "to")
	if err != nil {
		return nil, err
	}
	subject, err := stringParam(params, "subject")
	if err != nil {
		return nil, err
	}
	body, _ := params["body"].(string)

	if err := c.mailer.SendMessage(to, subject, body); err != nil {
		return nil, fmt.Errorf("send email: %w", err)
	}
	return Result{"sent_to": to, "subject": subject}, nil
}

// --- notify_user ---

type NotifyUserCapability struct {
	notifier Notifier
}

func NewNotifyUserCapability(notifier Notifier) *NotifyUserCapability {
	return &NotifyUserCapability{notifier: notifier}
}

func (c *NotifyUserCapability) Name() string { return "notify_user" }

func (c *NotifyUserCapability) Execute(ctx context.Context, userId uuid.UUID, params map[string]interface{}, taskContext map[string]interface{}) (Result, error) {
	message, err := stringParam(params, "message")
	if err != nil {
		return nil, err
	}
	c.notifier.Push(userId, message, taskContext)
	return Result{"notified": true}, nil
}

// --- create_reminder ---

type CreateReminderCapability struct {
	scheduler ReminderScheduler
}

func NewCreateReminderCapability(scheduler ReminderScheduler) *CreateReminderCapability {
	return &CreateReminderCapability{scheduler: scheduler}
}

func (c *CreateReminderCapability) Name() string { return "create_reminder" }

func (c *CreateReminderCapability) Execute(ctx context.Context, userId uuid.UUID, params map[string]interface{}, taskContext map[string]interface{}) (Result, error) {
	message, err := stringParam(params, "message")
	if err != nil {
		return nil, err
	}

	remindAt := time.Now().Add(1 * time.Hour)
	if raw, ok := params["remind_at"].(string); ok && raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, fmt.Errorf("remind_at must be RFC3339: %w", err)
		}
		remindAt = parsed
	}

	if err := c.scheduler.Schedule(ctx, userId, message, remindAt); err != nil {
		return nil, fmt.Errorf("schedule reminder: %w", err)
	}
	return Result{"remind_at": remindAt.Format(time.RFC3339)}, nil
}

// --- gateway-backed capabilities ---

type gatewayCall func(ctx context.Context, userId string, params map[string]interface{}) (map[string]interface{}, error)

// GatewayCapability wraps one account-gateway endpoint as a capability.
type GatewayCapability struct {
	name string
	call gatewayCall
}

func NewGatewayCapability(name string, call gatewayCall) *GatewayCapability {
	return &GatewayCapability{name: name, call: call}
}

func (c *GatewayCapability) Name() string { return c.name }

func (c *GatewayCapability) Execute(ctx context.Context, userId uuid.UUID, params map[string]interface{}, taskContext map[string]interface{}) (Result, error) {
	res, err := c.call(ctx, userId.String(), params)
	if err != nil {
		return nil, err
	}
	return Result(res), nil
}

// RegisterBuiltins wires the standard capability set against the provided
// backends.
func RegisterBuiltins(r *Registry, mailer Mailer, notifier Notifier, scheduler ReminderScheduler, connector *Connector) {
	r.Register(NewSendEmailCapability(mailer))
	r.Register(NewNotifyUserCapability(notifier))
	r.Register(NewCreateReminderCapability(scheduler))
	r.Register(NewGatewayCapability("create_calendar_event", connector.CreateCalendarEvent))
	r.Register(NewGatewayCapability("search_contacts", connector.SearchContacts))
	r.Register(NewGatewayCapability("search_emails", connector.SearchEmails))
}
