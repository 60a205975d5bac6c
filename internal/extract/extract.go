// Package extract normalizes heterogeneous input — pasted text, DOCX, PPTX,
// PDF, or an audio recording — into plain text. Dispatch is a closed set
// keyed by the declared content type; anything else is rejected rather than
// passed through.
package extract

import (
	"context"
	"fmt"
	"log"

	"github.com/transformai/transformai/internal/models"
)

// Content types accepted by the extractor.
const (
	TypePlainText = "text/plain"
	TypeDOCX      = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	TypePPTX      = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	TypePDF       = "application/pdf"
	TypeMP3       = "audio/mpeg"
	TypeWAV       = "audio/wav"
)

// Sentinel is the fallback content value substituted for a failed
// transcription. Recognition failure is reported inline as text, not as an
// error, because the user still expects the input slot to fill.
const Sentinel = "Could not understand the audio."

// Recognizer transcribes recorded speech. filename is a hint for the
// container format ("upload.mp3", "upload.wav").
type Recognizer interface {
	Transcribe(ctx context.Context, audio []byte, filename string) (string, error)
}

// Extractor turns uploaded bytes into plain text. It holds no per-call
// state: extracting the same bytes twice yields identical text.
type Extractor struct {
	recognizer Recognizer // nil when no transcription backend is configured
}

func New(recognizer Recognizer) *Extractor {
	return &Extractor{recognizer: recognizer}
}

// Extract reads the whole input and produces plain text. The input bytes are
// never modified and nothing is streamed; documents here are user uploads,
// not bulk data.
func (e *Extractor) Extract(ctx context.Context, data []byte, contentType string) (string, error) {
	switch contentType {
	case TypePlainText:
		return string(data), nil

	case TypeDOCX:
		text, err := extractDOCX(data)
		if err != nil {
			return "", &models.ServiceError{Service: "docx parser", Err: err}
		}
		return text, nil

	case TypePPTX:
		text, err := extractPPTX(data)
		if err != nil {
			return "", &models.ServiceError{Service: "pptx parser", Err: err}
		}
		return text, nil

	case TypePDF:
		text, err := extractPDF(data)
		if err != nil {
			return "", &models.ServiceError{Service: "pdf parser", Err: err}
		}
		return text, nil

	case TypeMP3, TypeWAV:
		return e.extractAudio(ctx, data, contentType), nil

	default:
		return "", models.NewValidationError("content_type", fmt.Sprintf("unsupported content type %q", contentType))
	}
}

// extractAudio transcribes an uploaded recording. Any failure — including a
// missing transcription backend — degrades to the sentinel text.
func (e *Extractor) extractAudio(ctx context.Context, data []byte, contentType string) string {
	if e.recognizer == nil {
		log.Printf("[Extract] no transcription backend configured, using sentinel")
		return Sentinel
	}

	filename := "upload.mp3"
	if contentType == TypeWAV {
		filename = "upload.wav"
	}

	text, err := e.recognizer.Transcribe(ctx, data, filename)
	if err != nil {
		log.Printf("[Extract] transcription failed: %v", err)
		return Sentinel
	}
	return text
}
