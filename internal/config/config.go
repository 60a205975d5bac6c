package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	APIPort            string
	BackendAPIKey      string // API key for authenticating requests (empty = no auth, dev mode)
	CorsAllowedOrigins string // Comma-separated allowed origins (empty = *, dev mode)

	// Gemini (primary text generation)
	GeminiKey   string
	GeminiModel string

	// OpenAI (audio transcription, and text generation when Gemini is not configured)
	OpenAIKey string

	// ElevenLabs (preferred TTS provider; the keyless Google Translate
	// synthesizer is used when no key is set)
	ElevenLabsKey     string
	ElevenLabsVoiceID string

	// Rendering
	TempDir          string
	SlideDurationSec int  // Display time per slide when audio sync is off
	SyncAudioToVideo bool // Re-derive per-slide duration from narration length
}

// Load reads configuration from the environment. Provider credentials are not
// validated here: a missing key surfaces as a configuration error on the
// action that needs it, so the process still serves everything else.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	_ = godotenv.Load()

	cfg := &Config{
		APIPort:            getEnv("API_PORT", "8080"),
		BackendAPIKey:      getEnv("BACKEND_API_KEY", ""),
		CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", ""),
		GeminiKey:          getEnv("GEMINI_API_KEY", ""),
		GeminiModel:        getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		OpenAIKey:          getEnv("OPENAI_API_KEY", ""),
		ElevenLabsKey:      getEnv("ELEVENLABS_API_KEY", ""),
		ElevenLabsVoiceID:  getEnv("ELEVENLABS_VOICE_ID", ""),
		TempDir:            getEnv("TEMP_DIR", "/tmp/transformai"),
		SlideDurationSec:   getEnvInt("SLIDE_DURATION_SEC", 3),
		SyncAudioToVideo:   getEnvBool("SYNC_AUDIO_TO_VIDEO", false),
	}

	if cfg.SlideDurationSec < 1 {
		cfg.SlideDurationSec = 1
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		b, err := strconv.ParseBool(value)
		if err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		i, err := strconv.Atoi(value)
		if err == nil {
			return i
		}
	}
	return defaultValue
}
