package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/transformai/transformai/internal/api"
	"github.com/transformai/transformai/internal/config"
	"github.com/transformai/transformai/internal/extract"
	"github.com/transformai/transformai/internal/pipeline"
	"github.com/transformai/transformai/internal/render"
	"github.com/transformai/transformai/internal/services"
	"github.com/transformai/transformai/internal/session"
)

func main() {
	log.Println("Starting TransformAI API...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Text generation — Gemini preferred, OpenAI when only that key is set.
	// Both missing is allowed: generation then reports a configuration error.
	var generator services.TextGenerator
	switch {
	case cfg.GeminiKey != "":
		generator = services.NewGeminiService(cfg.GeminiKey, cfg.GeminiModel)
		log.Printf("Text generation: Gemini (model: %s)", cfg.GeminiModel)
	case cfg.OpenAIKey != "":
		generator = services.NewOpenAIService(cfg.OpenAIKey)
		log.Println("Text generation: OpenAI")
	default:
		log.Println("WARNING: No GEMINI_API_KEY or OPENAI_API_KEY set — generation unavailable")
	}

	// TTS provider — ElevenLabs preferred, keyless Google Translate fallback
	var ttsSvc services.SpeechSynthesizer
	if cfg.ElevenLabsKey != "" {
		ttsSvc = services.NewElevenLabsService(cfg.ElevenLabsKey, cfg.ElevenLabsVoiceID)
		log.Printf("TTS provider: ElevenLabs (voice: %s, model: eleven_flash_v2_5)", cfg.ElevenLabsVoiceID)
	} else {
		ttsSvc = services.NewGTranslateService()
		log.Println("TTS provider: Google Translate (keyless)")
	}

	// Audio transcription is optional; uploads degrade to the sentinel text
	// without it.
	var recognizer extract.Recognizer
	if cfg.OpenAIKey != "" {
		recognizer = services.NewOpenAIService(cfg.OpenAIKey)
		log.Println("Audio transcription: OpenAI Whisper")
	} else {
		log.Println("Audio transcription disabled — no OPENAI_API_KEY")
	}

	renderer := render.NewVideoRenderer(
		ttsSvc,
		render.NewFFmpegEncoder(),
		cfg.TempDir,
		time.Duration(cfg.SlideDurationSec)*time.Second,
		cfg.SyncAudioToVideo,
	)

	store := session.New()
	p := pipeline.New(extract.New(recognizer), generator, ttsSvc, renderer)

	handler := api.NewHandler(store, p)
	router := api.NewRouter(handler, api.RouterConfig{
		BackendAPIKey:      cfg.BackendAPIKey,
		CorsAllowedOrigins: cfg.CorsAllowedOrigins,
	})

	if cfg.BackendAPIKey != "" {
		log.Println("API key authentication enabled")
	} else {
		log.Println("WARNING: No BACKEND_API_KEY set — API is unprotected (dev mode)")
	}

	server := &http.Server{
		Addr:    ":" + cfg.APIPort,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Printf("API server listening on :%s", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
