package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/transformai/transformai/internal/languages"
	"github.com/transformai/transformai/internal/models"
)

// ---------------------------------------------------------------------------
// Google Translate Text-to-Speech Service
// Keyless fallback provider using the public translate_tts endpoint. Quality
// is below ElevenLabs but it covers the whole language table without any
// credential, which keeps the Listen action working out of the box.
// ---------------------------------------------------------------------------

const (
	gtranslateBaseURL = "https://translate.google.com/translate_tts"

	// The endpoint rejects oversized requests and is occasionally flaky,
	// so failed requests back off and retry a few times.
	gtranslateMaxRetries = 3
	gtranslateBaseDelay  = 1 * time.Second
)

// GTranslateService synthesizes speech via the Google Translate TTS endpoint.
type GTranslateService struct {
	baseURL string
	client  *http.Client
}

// Ensure GTranslateService implements SpeechSynthesizer at compile time.
var _ SpeechSynthesizer = (*GTranslateService)(nil)

func NewGTranslateService() *GTranslateService {
	return &GTranslateService{
		baseURL: gtranslateBaseURL,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// Synthesize fetches one MP3 track for the full text in the requested
// language.
func (s *GTranslateService) Synthesize(ctx context.Context, text, langCode string) (*TTSResponse, error) {
	if !languages.Supported(langCode) {
		return nil, models.NewValidationError("language", fmt.Sprintf("unsupported language code %q", langCode))
	}

	q := url.Values{}
	q.Set("ie", "UTF-8")
	q.Set("client", "tw-ob")
	q.Set("tl", langCode)
	q.Set("q", text)
	reqURL := s.baseURL + "?" + q.Encode()

	log.Printf("[GTranslate] Generating speech (lang=%s, textLen=%d)", langCode, len(text))

	var lastErr error
	for attempt := 0; attempt <= gtranslateMaxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(math.Pow(2, float64(attempt-1))) * gtranslateBaseDelay
			log.Printf("[GTranslate] retry %d/%d (waiting %v)...", attempt, gtranslateMaxRetries, delay)

			select {
			case <-ctx.Done():
				return nil, &models.ServiceError{Service: "gtranslate", Err: ctx.Err()}
			case <-time.After(delay):
			}
		}

		audio, err := s.fetch(ctx, reqURL)
		if err == nil {
			log.Printf("[GTranslate] Speech generated (%d bytes)", len(audio))
			return &TTSResponse{AudioData: audio, Format: "mp3"}, nil
		}
		lastErr = err
	}

	return nil, &models.ServiceError{Service: "gtranslate", Err: lastErr}
}

func (s *GTranslateService) fetch(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, err
	}
	// The endpoint serves browsers; an empty agent gets rejected.
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio response: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("empty audio")
	}
	return audio, nil
}
