package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"google.golang.org/genai"

	"github.com/transformai/transformai/internal/models"
)

// ---------------------------------------------------------------------------
// Gemini Text Generation Service
// Uses the Google Gen AI SDK against the Gemini API backend.
// ---------------------------------------------------------------------------

const defaultGeminiModel = "gemini-1.5-flash"

// GeminiService generates text with a Gemini model.
type GeminiService struct {
	apiKey string
	model  string
}

// Ensure GeminiService implements TextGenerator at compile time.
var _ TextGenerator = (*GeminiService)(nil)

// NewGeminiService creates a Gemini generation service. model defaults to
// gemini-1.5-flash when empty.
func NewGeminiService(apiKey, model string) *GeminiService {
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiService{
		apiKey: apiKey,
		model:  model,
	}
}

// Generate sends the prompt and returns the generated text. The client is
// built per call — the SDK keeps no connection state worth pooling here, and
// a missing key must surface on the action rather than at startup.
func (s *GeminiService) Generate(ctx context.Context, prompt string) (string, error) {
	if s.apiKey == "" {
		return "", &models.ConfigurationError{Missing: "GEMINI_API_KEY"}
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  s.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", &models.ServiceError{Service: "gemini", Err: fmt.Errorf("failed to create client: %w", err)}
	}

	log.Printf("[Gemini] Generating (model=%s, promptLen=%d)", s.model, len(prompt))

	resp, err := client.Models.GenerateContent(ctx, s.model, genai.Text(prompt), nil)
	if err != nil {
		return "", &models.ServiceError{Service: "gemini", Err: err}
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", &models.ServiceError{Service: "gemini", Err: fmt.Errorf("empty response")}
	}

	log.Printf("[Gemini] Generated %d characters", len(text))
	return text, nil
}
