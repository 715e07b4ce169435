package integration

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"ai-assistant-be/pkg/llm"
	"ai-assistant-be/pkg/llm/ollama"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Exercises the local Ollama backend through the provider abstraction.
// Needs a running Ollama daemon; gated on OLLAMA_INTEGRATION=1.
func TestOllamaProvider(t *testing.T) {
	if os.Getenv("OLLAMA_INTEGRATION") != "1" {
		t.Skip("Skipping integration test: OLLAMA_INTEGRATION not set")
	}

	baseURL := os.Getenv("OLLAMA_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	modelName := os.Getenv("OLLAMA_LLM_MODEL")
	if modelName == "" {
		modelName = "llama3"
	}

	provider := ollama.NewOllamaProvider(baseURL, modelName)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	t.Run("Generate returns text", func(t *testing.T) {
		out, err := provider.Generate(ctx, "Reply with the single word: pong", llm.WithTemperature(0))
		require.NoError(t, err)
		assert.NotEmpty(t, strings.TrimSpace(out))
		t.Logf("Generate output: %s", out)
	})

	t.Run("Chat keeps conversation context", func(t *testing.T) {
		history := []llm.Message{
			{Role: "system", Content: "You are a terse assistant. Answer in one word."},
			{Role: "user", Content: "Remember this number: 42."},
			{Role: "assistant", Content: "Noted."},
			{Role: "user", Content: "Which number did I ask you to remember?"},
		}
		out, err := provider.Chat(ctx, history, llm.WithTemperature(0))
		require.NoError(t, err)
		assert.Contains(t, out, "42")
	})
}
