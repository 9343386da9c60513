package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"
)

// Enhancer produces an enhanced version of an idea's content.
type Enhancer interface {
	Enhance(ctx context.Context, title, content string) (string, error)
}

// ErrNoContent is returned when the model responds with no usable output.
var ErrNoContent = errors.New("model returned no content")

// OpenAIEnhancer calls a chat-completion model to expand and refine ideas.
type OpenAIEnhancer struct {
	client *openai.Client
	model  string
}

// NewOpenAIEnhancer constructs an enhancer for the given API key and model.
func NewOpenAIEnhancer(apiKey, model string) *OpenAIEnhancer {
	return &OpenAIEnhancer{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// Enhance implements Enhancer.
func (e *OpenAIEnhancer) Enhance(ctx context.Context, title, content string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are an AI assistant helping to enhance and expand ideas.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: BuildPrompt(title, content),
			},
		},
	}

	resp, err := e.client.CreateChatCompletion(ctx, req)
	if err != nil {
		log.Error().Err(err).Str("model", e.model).Msg("enhancement call failed")
		return "", fmt.Errorf("enhance idea: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoContent
	}
	return resp.Choices[0].Message.Content, nil
}

// BuildPrompt renders the enhancement prompt for an idea.
func BuildPrompt(title, content string) string {
	return fmt.Sprintf(`Given the following idea, provide an enhanced, more detailed, and refined version. Make it more comprehensive, add relevant insights, and improve clarity while maintaining the original intent.

Title: %s
Content: %s

Please provide an enhanced version that:
1. Expands on the core concept
2. Adds relevant details and examples
3. Improves structure and clarity
4. Suggests potential next steps or considerations

Enhanced version:`, title, content)
}
