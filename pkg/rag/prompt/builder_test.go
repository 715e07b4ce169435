package prompt

import (
	"testing"

	"ai-assistant-be/pkg/store"

	"github.com/stretchr/testify/assert"
)

func TestBuildIncludesSourcesAndQuery(t *testing.T) {
	docs := []store.Document{
		{DocumentType: "email", Content: "Meeting moved to Friday 3pm"},
		{DocumentType: "calendar_event", Content: "Quarterly review, room 4"},
	}
	prompt := NewContextualBuilder(docs, "when is the quarterly review?").Build()

	assert.Contains(t, prompt, "<reference_material>")
	assert.Contains(t, prompt, "[source 1 | email]")
	assert.Contains(t, prompt, "[source 2 | calendar_event]")
	assert.Contains(t, prompt, "Meeting moved to Friday 3pm")
	assert.Contains(t, prompt, "when is the quarterly review?")
}

func TestBuildOmitsReferenceBlockWhenEmpty(t *testing.T) {
	prompt := NewContextualBuilder(nil, "hello").Build()

	assert.NotContains(t, prompt, "<reference_material>")
	assert.Contains(t, prompt, "<user_question>")
}
