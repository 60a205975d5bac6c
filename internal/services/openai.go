package services

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/transformai/transformai/internal/models"
)

// OpenAIService covers the two OpenAI-backed capabilities: chat-completion
// text generation (used when Gemini is not configured) and Whisper audio
// transcription for the audio-upload extractor.
type OpenAIService struct {
	client *openai.Client
	model  string
}

var _ TextGenerator = (*OpenAIService)(nil)

func NewOpenAIService(apiKey string) *OpenAIService {
	return &OpenAIService{
		client: openai.NewClient(apiKey),
		model:  openai.GPT4oMini,
	}
}

// Generate implements TextGenerator with a single chat completion call.
func (s *OpenAIService) Generate(ctx context.Context, prompt string) (string, error) {
	log.Printf("[OpenAI] Generating (model=%s, promptLen=%d)", s.model, len(prompt))

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return "", &models.ServiceError{Service: "openai", Err: err}
	}

	if len(resp.Choices) == 0 {
		return "", &models.ServiceError{Service: "openai", Err: fmt.Errorf("no response choices")}
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", &models.ServiceError{Service: "openai", Err: fmt.Errorf("empty response")}
	}

	log.Printf("[OpenAI] Generated %d characters", len(text))
	return text, nil
}

// Transcribe sends recorded audio to Whisper and returns the best-effort
// transcript. The caller decides what a failure means; the extractor
// substitutes its sentinel rather than propagating.
func (s *OpenAIService) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	resp, err := s.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		Reader:   bytes.NewReader(audio),
		FilePath: filename, // Filename hint for the API (required by the library)
	})
	if err != nil {
		return "", fmt.Errorf("whisper transcription failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", fmt.Errorf("whisper returned no text")
	}

	log.Printf("[Whisper] Transcribed %d characters from %s", len(text), filename)
	return text, nil
}
