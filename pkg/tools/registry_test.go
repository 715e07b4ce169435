package tools

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	to, subject, body string
	err               error
}

func (m *fakeMailer) SendMessage(to, subject, body string) error {
	m.to, m.subject, m.body = to, subject, body
	return m.err
}

type fakeNotifier struct {
	userId  uuid.UUID
	message string
	calls   int
}

func (n *fakeNotifier) Push(userId uuid.UUID, message string, metadata map[string]interface{}) {
	n.userId = userId
	n.message = message
	n.calls++
}

type fakeScheduler struct {
	message  string
	remindAt time.Time
}

func (s *fakeScheduler) Schedule(ctx context.Context, userId uuid.UUID, message string, remindAt time.Time) error {
	s.message = message
	s.remindAt = remindAt
	return nil
}

func TestRegistryResolveUnknownAction(t *testing.T) {
	r := NewRegistry()
	r.Register(NewNotifyUserCapability(&fakeNotifier{}))

	_, err := r.Resolve("teleport_user")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown action")
}

func TestRegistryResolveRegistered(t *testing.T) {
	r := NewRegistry()
	r.Register(NewNotifyUserCapability(&fakeNotifier{}))

	cap, err := r.Resolve("notify_user")
	require.NoError(t, err)
	assert.Equal(t, "notify_user", cap.Name())
}

func TestSendEmailRequiresRecipient(t *testing.T) {
	mailer := &fakeMailer{}
	cap := NewSendEmailCapability(mailer)

	_, err := cap.Execute(context.Background(), uuid.New(), map[string]interface{}{
		"subject": "hello",
	}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "to")
}

func TestSendEmailDelegatesToMailer(t *testing.T) {
	mailer := &fakeMailer{}
	cap := NewSendEmailCapability(mailer)

	res, err := cap.Execute(context.Background(), uuid.New(), map[string]interface{}{
		"to":      "boss@example.com",
		"subject": "weekly report",
		"body":    "attached",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "boss@example.com", mailer.to)
	assert.Equal(t, "weekly report", mailer.subject)
	assert.Equal(t, "boss@example.com", res["sent_to"])
}

func TestNotifyUserPushesToNotifier(t *testing.T) {
	notifier := &fakeNotifier{}
	cap := NewNotifyUserCapability(notifier)
	userId := uuid.New()

	_, err := cap.Execute(context.Background(), userId, map[string]interface{}{
		"message": "your task finished",
	}, map[string]interface{}{"task_id": "t-1"})
	require.NoError(t, err)
	assert.Equal(t, 1, notifier.calls)
	assert.Equal(t, userId, notifier.userId)
	assert.Equal(t, "your task finished", notifier.message)
}

func TestCreateReminderParsesRemindAt(t *testing.T) {
	scheduler := &fakeScheduler{}
	cap := NewCreateReminderCapability(scheduler)

	at := time.Now().Add(2 * time.Hour).Truncate(time.Second)
	res, err := cap.Execute(context.Background(), uuid.New(), map[string]interface{}{
		"message":   "stand up",
		"remind_at": at.Format(time.RFC3339),
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "stand up", scheduler.message)
	assert.True(t, scheduler.remindAt.Equal(at))
	assert.Equal(t, at.Format(time.RFC3339), res["remind_at"])
}

func TestCreateReminderRejectsBadTimestamp(t *testing.T) {
	cap := NewCreateReminderCapability(&fakeScheduler{})

	_, err := cap.Execute(context.Background(), uuid.New(), map[string]interface{}{
		"message":   "stand up",
		"remind_at": "tomorrow-ish",
	}, nil)
	require.Error(t, err)
}

func TestGatewayCapabilityPassesUserId(t *testing.T) {
	var gotUserId string
	cap := NewGatewayCapability("search_contacts", func(ctx context.Context, userId string, params map[string]interface{}) (map[string]interface{}, error) {
		gotUserId = userId
		return map[string]interface{}{"contacts": []interface{}{}}, nil
	})

	userId := uuid.New()
	res, err := cap.Execute(context.Background(), userId, map[string]interface{}{"query": "alice"}, nil)
	require.NoError(t, err)
	assert.Equal(t, userId.String(), gotUserId)
	assert.Contains(t, res, "contacts")
}
