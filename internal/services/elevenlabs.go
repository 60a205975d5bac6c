package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/transformai/transformai/internal/languages"
	"github.com/transformai/transformai/internal/models"
)

// ---------------------------------------------------------------------------
// ElevenLabs Text-to-Speech Service
// Uses the ElevenLabs REST API to convert text into speech audio.
// Model: eleven_flash_v2_5 (Flash v2.5 — fast, 32 languages)
// ---------------------------------------------------------------------------

const (
	elevenLabsBaseURL      = "https://api.elevenlabs.io"
	elevenLabsDefaultModel = "eleven_flash_v2_5"
	elevenLabsDefaultVoice = "pNInz6obpgDQGcFmaJgB"
	elevenLabsOutputFormat = "mp3_44100_128"
)

// ElevenLabsService handles text-to-speech via the ElevenLabs API.
type ElevenLabsService struct {
	apiKey  string
	voiceID string
	modelID string
	client  *http.Client
}

// Ensure ElevenLabsService implements SpeechSynthesizer at compile time.
var _ SpeechSynthesizer = (*ElevenLabsService)(nil)

// NewElevenLabsService creates an ElevenLabs TTS service. voiceID falls back
// to the default voice when empty.
func NewElevenLabsService(apiKey, voiceID string) *ElevenLabsService {
	if voiceID == "" {
		voiceID = elevenLabsDefaultVoice
	}
	return &ElevenLabsService{
		apiKey:  apiKey,
		voiceID: voiceID,
		modelID: elevenLabsDefaultModel,
		client:  &http.Client{Timeout: 90 * time.Second},
	}
}

type elevenLabsRequest struct {
	Text          string                   `json:"text"`
	ModelID       string                   `json:"model_id"`
	LanguageCode  string                   `json:"language_code,omitempty"`
	VoiceSettings *elevenLabsVoiceSettings `json:"voice_settings,omitempty"`
}

type elevenLabsVoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

// Synthesize converts text to one continuous speech track. The whole text
// goes out in a single request; no chunking.
func (s *ElevenLabsService) Synthesize(ctx context.Context, text, langCode string) (*TTSResponse, error) {
	if !languages.Supported(langCode) {
		return nil, models.NewValidationError("language", fmt.Sprintf("unsupported language code %q", langCode))
	}

	reqBody := elevenLabsRequest{
		Text:         text,
		ModelID:      s.modelID,
		LanguageCode: langCode,
		VoiceSettings: &elevenLabsVoiceSettings{
			Stability:       0.60,
			SimilarityBoost: 0.80,
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, &models.ServiceError{Service: "elevenlabs", Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s?output_format=%s",
		elevenLabsBaseURL, s.voiceID, elevenLabsOutputFormat)

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, &models.ServiceError{Service: "elevenlabs", Err: err}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", s.apiKey)

	log.Printf("[ElevenLabs] Generating speech (voiceID=%s, model=%s, lang=%s, textLen=%d)",
		s.voiceID, s.modelID, langCode, len(text))

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &models.ServiceError{Service: "elevenlabs", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &models.ServiceError{
			Service: "elevenlabs",
			Err:     fmt.Errorf("status %d: %s", resp.StatusCode, string(body)),
		}
	}

	// The response body IS the audio file
	audioData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &models.ServiceError{Service: "elevenlabs", Err: fmt.Errorf("failed to read audio response: %w", err)}
	}

	if len(audioData) == 0 {
		return nil, &models.ServiceError{Service: "elevenlabs", Err: fmt.Errorf("empty audio")}
	}

	log.Printf("[ElevenLabs] Speech generated (%d bytes)", len(audioData))

	return &TTSResponse{
		AudioData: audioData,
		Format:    "mp3",
	}, nil
}
