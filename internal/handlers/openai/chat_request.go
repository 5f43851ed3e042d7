package openai

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"gweb2api-go/internal/streaming"
)

// ChatMessage is one entry of an inbound conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatCompletionRequest is the accepted subset of the OpenAI chat
// completion request.
type ChatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

// Usage reports word counts in the token fields, since the upstream
// exposes no tokenizer.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type Choice struct {
	Index        int         `json:"index"`
	Message      ChatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type ChatCompletionResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

type Delta struct {
	Role    string `json:"role,omitempty"`
	Content string `json:"content,omitempty"`
}

type ChunkChoice struct {
	Index        int     `json:"index"`
	Delta        Delta   `json:"delta"`
	FinishReason *string `json:"finish_reason"`
}

type ChatCompletionChunk struct {
	ID      string        `json:"id"`
	Object  string        `json:"object"`
	Created int64         `json:"created"`
	Model   string        `json:"model"`
	Choices []ChunkChoice `json:"choices"`
}

// roleLabels maps recognized roles to their prompt labels. Messages
// with any other role are dropped from the prompt without notice,
// mirroring the original service.
var roleLabels = map[string]string{
	"system":    "System",
	"user":      "User",
	"assistant": "Assistant",
}

// BuildPrompt flattens the ordered message list into one prompt,
// rendering each recognized message as "Label: content" and joining
// entries with a blank line.
func BuildPrompt(messages []ChatMessage) string {
	parts := make([]string, 0, len(messages))
	for _, m := range messages {
		label, ok := roleLabels[m.Role]
		if !ok {
			continue
		}
		parts = append(parts, label+": "+m.Content)
	}
	return strings.Join(parts, "\n\n")
}

// newCompletionID generates an OpenAI style response id.
func newCompletionID() string {
	return "chatcmpl-" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

func buildUsage(prompt, completion string) Usage {
	p := streaming.WordCount(prompt)
	c := streaming.WordCount(completion)
	return Usage{PromptTokens: p, CompletionTokens: c, TotalTokens: p + c}
}

func newResponse(model, prompt, reply string) ChatCompletionResponse {
	return ChatCompletionResponse{
		ID:      newCompletionID(),
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   model,
		Choices: []Choice{{
			Index:        0,
			Message:      ChatMessage{Role: "assistant", Content: reply},
			FinishReason: "stop",
		}},
		Usage: buildUsage(prompt, reply),
	}
}

func newChunk(id string, created int64, model string, delta Delta, finish *string) ChatCompletionChunk {
	return ChatCompletionChunk{
		ID:      id,
		Object:  "chat.completion.chunk",
		Created: created,
		Model:   model,
		Choices: []ChunkChoice{{Index: 0, Delta: delta, FinishReason: finish}},
	}
}
