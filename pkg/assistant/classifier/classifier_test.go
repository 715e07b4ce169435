package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify_ConditionalMarkersAreOngoing(t *testing.T) {
	cases := []string{
		"when an email from my boss arrives, flag it",
		"Whenever a meeting is booked, block 15 minutes before",
		"ALWAYS archive newsletters",
		"if any email contains 'invoice', forward it to accounting",
		"Urgent: notify me immediately if any email contains 'emergency'",
		"Important: track all meetings with clients",
		"monitor the support inbox for refund requests",
	}

	for _, text := range cases {
		assert.Equal(t, CategoryOngoing, Classify(text), "text: %s", text)
	}
}

func TestClassify_ActionVerbsAreTasks(t *testing.T) {
	cases := []string{
		"Schedule a meeting with Dana for Tuesday",
		"send a thank-you email to the team",
		"Find the contract from last month",
		"create a reminder for the dentist",
		"SHOW my meetings for this week",
	}

	for _, text := range cases {
		assert.Equal(t, CategoryTask, Classify(text), "text: %s", text)
	}
}

func TestClassify_QuestionsAreImmediate(t *testing.T) {
	cases := []string{
		"what's on my calendar today?",
		"who is my next meeting with?",
		"how many unread mails do I have",
	}

	for _, text := range cases {
		assert.Equal(t, CategoryImmediate, Classify(text), "text: %s", text)
	}
}

func TestClassify_EmptyInputIsImmediate(t *testing.T) {
	// Empty text routes to immediate; the instruction service decides
	// whether that is acceptable for the operation at hand.
	assert.Equal(t, CategoryImmediate, Classify(""))
	assert.Equal(t, CategoryImmediate, Classify("   "))
}

func TestClassify_OngoingWinsOverTask(t *testing.T) {
	// Contains both a conditional marker and an action verb; ongoing wins.
	assert.Equal(t, CategoryOngoing, Classify("send me a summary whenever a deal closes"))
}

func TestDerivePriority(t *testing.T) {
	cases := []struct {
		text     string
		expected int
	}{
		{"Urgent: notify me immediately if any email contains 'emergency'", 5},
		{"do this ASAP", 5},
		{"handle IMMEDIATELY", 5},
		{"Important: track all meetings with clients", 3},
		{"this is a priority item", 3},
		{"summarize my week", 1},
		{"", 1},
		// urgent-class beats important-class when both are present
		{"important and urgent", 5},
	}

	for _, c := range cases {
		assert.Equal(t, c.expected, DerivePriority(c.text), "text: %s", c.text)
	}
}
