// Package pipeline implements the user-triggered actions over the capability
// interfaces. Every action is a transformation from a session value and an
// input to an updated session value and an output; the caller persists the
// updated session only when the action succeeded, which is what keeps a
// failed action from disturbing prior results.
package pipeline

import (
	"context"
	"log"

	"github.com/transformai/transformai/internal/export"
	"github.com/transformai/transformai/internal/extract"
	"github.com/transformai/transformai/internal/models"
	"github.com/transformai/transformai/internal/prompt"
	"github.com/transformai/transformai/internal/services"
)

// VideoRenderer is the slice of internal/render the pipeline needs.
type VideoRenderer interface {
	Render(ctx context.Context, text, langCode string) ([]byte, error)
}

// Pipeline wires the four stages together. generator may be nil when no
// generation credential is configured; the Generate action reports that as a
// configuration error instead of the process refusing to start.
type Pipeline struct {
	extractor *extract.Extractor
	generator services.TextGenerator
	tts       services.SpeechSynthesizer
	video     VideoRenderer
}

func New(extractor *extract.Extractor, generator services.TextGenerator, tts services.SpeechSynthesizer, video VideoRenderer) *Pipeline {
	return &Pipeline{
		extractor: extractor,
		generator: generator,
		tts:       tts,
		video:     video,
	}
}

// Paste replaces the session's input with pasted text. Validation is
// deferred to Generate — an empty paste is allowed, just not generatable.
func (p *Pipeline) Paste(sess models.Session, text, extraInstructions string) models.Session {
	sess.InputText = text
	sess.ExtraInstructions = extraInstructions
	return sess
}

// Extract runs the content extractor over an upload and folds the resulting
// text into the session input.
func (p *Pipeline) Extract(ctx context.Context, sess models.Session, data []byte, contentType string) (models.Session, error) {
	text, err := p.extractor.Extract(ctx, data, contentType)
	if err != nil {
		return sess, err
	}

	sess.InputText = text
	return sess, nil
}

// Generate builds the prompt from the session input and the request, calls
// the generation service, and records the result. The validation failure for
// blank input happens before any client call. A new result clears the
// speech-requested flag: it refers to the previous result.
func (p *Pipeline) Generate(ctx context.Context, sess models.Session, req models.GenerateRequest) (models.Session, error) {
	extra := sess.ExtraInstructions
	if req.ExtraInstructions != nil {
		extra = *req.ExtraInstructions
	}

	built, err := prompt.Build(sess.InputText, req.OutputType, req.Language, extra)
	if err != nil {
		return sess, err
	}

	if p.generator == nil {
		return sess, &models.ConfigurationError{Missing: "GEMINI_API_KEY or OPENAI_API_KEY"}
	}

	result, err := p.generator.Generate(ctx, built)
	if err != nil {
		return sess, err
	}

	sess.OutputType = req.OutputType
	sess.SelectedLanguage = req.Language
	sess.ExtraInstructions = extra
	sess.LastResult = result
	sess.SpeechRequested = false

	log.Printf("[Pipeline] Generated %s (%d chars, lang=%s)", req.OutputType, len(result), req.Language)
	return sess, nil
}

// Speak synthesizes the last result as one continuous audio track in the
// requested language. It requires a prior successful generation.
func (p *Pipeline) Speak(ctx context.Context, sess models.Session, langCode string) (models.Session, []byte, error) {
	if sess.LastResult == "" {
		return sess, nil, models.NewValidationError("result", "generate something before listening")
	}

	speech, err := p.tts.Synthesize(ctx, sess.LastResult, langCode)
	if err != nil {
		return sess, nil, err
	}

	sess.SpeechRequested = true
	return sess, speech.AudioData, nil
}

// RenderVideo renders the last result as a narrated slideshow. The session is
// not mutated; the video is an artifact of the current result.
func (p *Pipeline) RenderVideo(ctx context.Context, sess models.Session, langCode string) ([]byte, error) {
	if sess.LastResult == "" {
		return nil, models.NewValidationError("result", "generate something before rendering a video")
	}

	return p.video.Render(ctx, sess.LastResult, langCode)
}

// ExportDocx renders the last result as a downloadable Word document.
func (p *Pipeline) ExportDocx(sess models.Session) ([]byte, error) {
	title := "TransformAI " + string(sess.OutputType)
	return export.ResultDocx(title, sess.LastResult)
}
