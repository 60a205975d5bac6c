package services

import "context"

// ---------------------------------------------------------------------------
// SpeechSynthesizer — common interface for text-to-speech providers.
// ElevenLabs is preferred when a key is configured; the keyless Google
// Translate endpoint is the fallback. The pipeline uses whichever is wired
// without knowing the underlying provider.
// ---------------------------------------------------------------------------

// TTSResponse is the common response type from any TTS provider.
type TTSResponse struct {
	AudioData []byte
	Format    string // "mp3"
}

// SpeechSynthesizer converts text into one continuous audio track in the
// requested language. langCode must come from the fixed language table; an
// unknown code is a validation failure, not a provider call.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text, langCode string) (*TTSResponse, error)
}
