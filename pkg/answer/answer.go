package answer

import (
	"context"
	"fmt"
	"os"

	"github.com/sashabaranov/go-openai"
)

// IAnswer is the client for the external NLP service that answers
// mining-law questions. Groq exposes an OpenAI-compatible API, so the
// same client library covers both providers.
type IAnswer interface {
	Ask(ctx context.Context, question string) (string, error)
}

const systemPrompt = `You are a helpful chatbot that answers questions related to ` +
	`mining industry laws, DGMS circulars, and regulations. Answer concisely. ` +
	`Use **bold** section titles and numbered points for structured answers.`

type answerService struct {
	client *openai.Client
	model  string
}

func New() IAnswer {
	apiKey := os.Getenv("GROQ_API_KEY")
	model := os.Getenv("GROQ_CHAT_MODEL")
	if model == "" {
		model = "llama3-8b-8192"
	}

	config := openai.DefaultConfig(apiKey)
	baseURL := os.Getenv("GROQ_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.groq.com/openai/v1"
	}
	config.BaseURL = baseURL

	return &answerService{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

func (a *answerService) Ask(ctx context.Context, question string) (string, error) {
	resp, err := a.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: a.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: systemPrompt,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: question,
				},
			},
			Temperature: 0.7,
		},
	)

	if err != nil {
		return "", fmt.Errorf("answer API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from answer API")
	}

	return resp.Choices[0].Message.Content, nil
}
