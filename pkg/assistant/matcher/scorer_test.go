package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore_NoOverlapIsZero(t *testing.T) {
	score := Score(
		"whenever a deal closes, congratulate the owner",
		"email.received",
		map[string]interface{}{"subject": "lunch menu", "body": "today we have soup"},
	)
	assert.Equal(t, 0.0, score)
}

func TestScore_OverlapRaisesScore(t *testing.T) {
	payload := map[string]interface{}{
		"subject": "Emergency: server down",
		"body":    "the production server is not responding",
	}

	low := Score("notify me if any email mentions lunch", "email.received", payload)
	high := Score("notify me if any email contains emergency", "email.received", payload)

	assert.Greater(t, high, low)
}

func TestScore_Monotonic(t *testing.T) {
	// Adding another matching term to the payload never lowers the score.
	base := map[string]interface{}{"subject": "client meeting"}
	richer := map[string]interface{}{"subject": "client meeting", "body": "track the follow-up"}

	instruction := "track all meetings with clients"

	assert.GreaterOrEqual(t,
		Score(instruction, "calendar.created", richer),
		Score(instruction, "calendar.created", base),
	)
}

func TestScore_EventTypeCounts(t *testing.T) {
	score := Score("watch for every new contact", "contact.created", map[string]interface{}{})
	assert.Greater(t, score, 0.0)
}

func TestScore_NestedPayload(t *testing.T) {
	payload := map[string]interface{}{
		"event": map[string]interface{}{
			"attendees": []interface{}{"dana@client.example", "me@example.com"},
			"title":     "quarterly review",
		},
	}
	score := Score("tell me about quarterly reviews", "calendar.created", payload)
	assert.Greater(t, score, 0.0)
}

func TestTokenize_DropsStopwordsAndShortFragments(t *testing.T) {
	tokens := Tokenize("Whenever an email from a client arrives, flag it")
	assert.NotContains(t, tokens, "whenever")
	assert.NotContains(t, tokens, "an")
	assert.NotContains(t, tokens, "a")
	assert.Contains(t, tokens, "email")
	assert.Contains(t, tokens, "client")
}

func TestScore_EmptyInstructionIsZero(t *testing.T) {
	assert.Equal(t, 0.0, Score("", "email.received", map[string]interface{}{"subject": "x"}))
}
