package prompt

import (
	"fmt"
	"strings"

	"ai-assistant-be/pkg/store"
)

// ContextualBuilder assembles the answer prompt from retrieved chunks and
// the user's question.
type ContextualBuilder struct {
	documents []store.Document
	query     string
}

// NewContextualBuilder creates a new contextual prompt builder
func NewContextualBuilder(documents []store.Document, query string) *ContextualBuilder {
	return &ContextualBuilder{
		documents: documents,
		query:     query,
	}
}

// Build creates a semantic prompt that trusts LLM intelligence over rigid
// answer templates.
func (b *ContextualBuilder) Build() string {
	var prompt strings.Builder

	b.writeReferenceMaterial(&prompt)
	b.writeTask(&prompt)
	b.writeGuidelines(&prompt)
	b.writeUserQuery(&prompt)

	return prompt.String()
}

func (b *ContextualBuilder) writeReferenceMaterial(prompt *strings.Builder) {
	if len(b.documents) == 0 {
		return
	}

	prompt.WriteString("<reference_material>\n")
	for i, doc := range b.documents {
		prompt.WriteString(fmt.Sprintf("[source %d | %s]\n", i+1, doc.DocumentType))
		prompt.WriteString(doc.Content)
		prompt.WriteString("\n\n")
	}
	prompt.WriteString("</reference_material>\n\n")
}

func (b *ContextualBuilder) writeTask(prompt *strings.Builder) {
	prompt.WriteString("<task>\n")
	prompt.WriteString("You are a personal assistant helping the user with their emails, calendar, contacts and notes.\n")
	prompt.WriteString("Your goal is to provide exactly what the user needs based on their question and the reference material.\n")
	prompt.WriteString("</task>\n\n")
}

func (b *ContextualBuilder) writeGuidelines(prompt *strings.Builder) {
	prompt.WriteString("<guidelines>\n")
	prompt.WriteString("Understand the user's question semantically:\n")
	prompt.WriteString("- If they ask about schedules or events, read dates and times carefully\n")
	prompt.WriteString("- If they ask about people, draw on contact and email sources together\n")
	prompt.WriteString("- If they need specific information, extract it comprehensively\n")
	prompt.WriteString("- If they need summaries, synthesize the key points across sources\n")
	prompt.WriteString("\n")
	prompt.WriteString("Response principles:\n")
	prompt.WriteString("1. Base your answer strictly on the reference material provided\n")
	prompt.WriteString("2. Mention which kind of source the information came from when it helps\n")
	prompt.WriteString("3. Be complete - don't skip relevant information from the material\n")
	prompt.WriteString("4. If the material doesn't contain what's being asked, say so honestly\n")
	prompt.WriteString("</guidelines>\n\n")
}

func (b *ContextualBuilder) writeUserQuery(prompt *strings.Builder) {
	prompt.WriteString("<user_question>\n")
	prompt.WriteString(b.query)
	prompt.WriteString("\n</user_question>\n\n")
	prompt.WriteString("Now provide your complete response based on the reference material:")
}
