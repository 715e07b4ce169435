package classifier

import "strings"

// Category is the routing decision for one raw instruction.
type Category string

const (
	CategoryOngoing   Category = "ongoing"
	CategoryTask      Category = "task"
	CategoryImmediate Category = "immediate"
)

// conditionalMarkers make an instruction a standing rule: it should fire on
// future events rather than execute once. The continuous verbs ("track",
// "monitor") catch rules phrased without an explicit condition.
var conditionalMarkers = []string{
	"when", "whenever", "always", "if",
	"every time", "each time", "track", "monitor",
}

// actionVerbs mark an instruction as an executable one-off task.
var actionVerbs = []string{
	"schedule", "create", "send", "find", "show",
	"book", "remind", "add", "cancel", "update",
	"delete", "draft", "reply", "forward", "set up",
	"organize", "prepare", "make", "call", "email",
}

var urgentKeywords = []string{"urgent", "immediately", "asap"}
var importantKeywords = []string{"important", "priority"}

// Classify routes a raw instruction. Matching is case-insensitive substring
// scanning, first-match-wins in the order ongoing, task, immediate; empty
// input falls through to immediate and is treated as a question.
func Classify(text string) Category {
	lower := strings.ToLower(text)

	for _, marker := range conditionalMarkers {
		if strings.Contains(lower, marker) {
			return CategoryOngoing
		}
	}

	for _, verb := range actionVerbs {
		if strings.Contains(lower, verb) {
			return CategoryTask
		}
	}

	return CategoryImmediate
}

// DerivePriority maps instruction text to a priority level: 5 for
// urgent-class keywords, 3 for important-class, 1 otherwise. Independent of
// the routing decision.
func DerivePriority(text string) int {
	lower := strings.ToLower(text)

	for _, kw := range urgentKeywords {
		if strings.Contains(lower, kw) {
			return 5
		}
	}
	for _, kw := range importantKeywords {
		if strings.Contains(lower, kw) {
			return 3
		}
	}
	return 1
}
