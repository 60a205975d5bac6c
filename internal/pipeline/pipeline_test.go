package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/transformai/transformai/internal/extract"
	"github.com/transformai/transformai/internal/models"
	"github.com/transformai/transformai/internal/services"
)

type fakeGenerator struct {
	result string
	err    error
	calls  int
	prompt string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.calls++
	f.prompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.result, nil
}

type fakeSynth struct {
	audio []byte
	err   error
}

func (f *fakeSynth) Synthesize(ctx context.Context, text, langCode string) (*services.TTSResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &services.TTSResponse{AudioData: f.audio, Format: "mp3"}, nil
}

type fakeVideo struct {
	data []byte
	err  error
}

func (f *fakeVideo) Render(ctx context.Context, text, langCode string) ([]byte, error) {
	return f.data, f.err
}

func newTestPipeline(gen *fakeGenerator, synth *fakeSynth, video *fakeVideo) *Pipeline {
	var g services.TextGenerator
	if gen != nil {
		g = gen
	}
	return New(extract.New(nil), g, synth, video)
}

func TestGenerateRecordsResult(t *testing.T) {
	gen := &fakeGenerator{result: "A short summary."}
	p := newTestPipeline(gen, &fakeSynth{}, &fakeVideo{})

	sess := models.NewSession()
	sess.InputText = "The quick brown fox."
	sess.SpeechRequested = true

	updated, err := p.Generate(context.Background(), sess, models.GenerateRequest{
		OutputType: models.OutputSummary,
		Language:   "es",
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if updated.LastResult != "A short summary." {
		t.Errorf("LastResult = %q", updated.LastResult)
	}
	if updated.SelectedLanguage != "es" {
		t.Errorf("SelectedLanguage = %q", updated.SelectedLanguage)
	}
	if updated.SpeechRequested {
		t.Error("SpeechRequested should reset on a new result")
	}
	if !strings.Contains(gen.prompt, "The quick brown fox.") {
		t.Errorf("prompt missing input text: %q", gen.prompt)
	}
}

func TestGenerateBlankInputSkipsService(t *testing.T) {
	gen := &fakeGenerator{result: "unused"}
	p := newTestPipeline(gen, &fakeSynth{}, &fakeVideo{})

	sess := models.NewSession()
	_, err := p.Generate(context.Background(), sess, models.GenerateRequest{
		OutputType: models.OutputSummary,
		Language:   "en",
	})

	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want ValidationError, got %v", err)
	}
	if gen.calls != 0 {
		t.Errorf("generator called %d times for invalid input", gen.calls)
	}
}

func TestGenerateWithoutGenerator(t *testing.T) {
	p := newTestPipeline(nil, &fakeSynth{}, &fakeVideo{})

	sess := models.NewSession()
	sess.InputText = "content"

	_, err := p.Generate(context.Background(), sess, models.GenerateRequest{
		OutputType: models.OutputQuiz,
		Language:   "en",
	})

	var cerr *models.ConfigurationError
	if !errors.As(err, &cerr) {
		t.Fatalf("want ConfigurationError, got %v", err)
	}
}

func TestGenerateFailureLeavesSession(t *testing.T) {
	gen := &fakeGenerator{err: &models.ServiceError{Service: "gemini", Err: errors.New("boom")}}
	p := newTestPipeline(gen, &fakeSynth{}, &fakeVideo{})

	sess := models.NewSession()
	sess.InputText = "content"
	sess.LastResult = "previous result"

	updated, err := p.Generate(context.Background(), sess, models.GenerateRequest{
		OutputType: models.OutputSummary,
		Language:   "fr",
	})
	if err == nil {
		t.Fatal("want error")
	}
	if updated.LastResult != "previous result" {
		t.Errorf("failed generation mutated LastResult: %q", updated.LastResult)
	}
	if updated.SelectedLanguage != sess.SelectedLanguage {
		t.Errorf("failed generation mutated SelectedLanguage: %q", updated.SelectedLanguage)
	}
}

func TestSpeakRequiresResult(t *testing.T) {
	p := newTestPipeline(&fakeGenerator{}, &fakeSynth{audio: []byte("mp3")}, &fakeVideo{})

	sess := models.NewSession()
	_, _, err := p.Speak(context.Background(), sess, "en")

	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want ValidationError, got %v", err)
	}
}

func TestSpeakSetsFlag(t *testing.T) {
	p := newTestPipeline(&fakeGenerator{}, &fakeSynth{audio: []byte("mp3-bytes")}, &fakeVideo{})

	sess := models.NewSession()
	sess.LastResult = "narrate this"

	updated, audio, err := p.Speak(context.Background(), sess, "en")
	if err != nil {
		t.Fatalf("Speak: %v", err)
	}
	if string(audio) != "mp3-bytes" {
		t.Errorf("audio = %q", audio)
	}
	if !updated.SpeechRequested {
		t.Error("SpeechRequested not set")
	}
}

func TestSpeakFailureLeavesFlag(t *testing.T) {
	p := newTestPipeline(&fakeGenerator{}, &fakeSynth{err: &models.ServiceError{Service: "tts", Err: errors.New("down")}}, &fakeVideo{})

	sess := models.NewSession()
	sess.LastResult = "narrate this"

	updated, _, err := p.Speak(context.Background(), sess, "en")
	if err == nil {
		t.Fatal("want error")
	}
	if updated.SpeechRequested {
		t.Error("failed synthesis set SpeechRequested")
	}
}

func TestRenderVideoRequiresResult(t *testing.T) {
	p := newTestPipeline(&fakeGenerator{}, &fakeSynth{}, &fakeVideo{data: []byte("mp4")})

	sess := models.NewSession()
	if _, err := p.RenderVideo(context.Background(), sess, "en"); err == nil {
		t.Fatal("want error for missing result")
	}

	sess.LastResult = "slides"
	data, err := p.RenderVideo(context.Background(), sess, "en")
	if err != nil {
		t.Fatalf("RenderVideo: %v", err)
	}
	if string(data) != "mp4" {
		t.Errorf("video = %q", data)
	}
}

func TestPasteReplacesInput(t *testing.T) {
	p := newTestPipeline(&fakeGenerator{}, &fakeSynth{}, &fakeVideo{})

	sess := models.NewSession()
	sess.InputText = "old"

	updated := p.Paste(sess, "new content", "keep it short")
	if updated.InputText != "new content" {
		t.Errorf("InputText = %q", updated.InputText)
	}
	if updated.ExtraInstructions != "keep it short" {
		t.Errorf("ExtraInstructions = %q", updated.ExtraInstructions)
	}
}

func TestExtractFoldsIntoSession(t *testing.T) {
	p := newTestPipeline(&fakeGenerator{}, &fakeSynth{}, &fakeVideo{})

	sess := models.NewSession()
	updated, err := p.Extract(context.Background(), sess, []byte("plain words"), extract.TypePlainText)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if updated.InputText != "plain words" {
		t.Errorf("InputText = %q", updated.InputText)
	}

	if _, err := p.Extract(context.Background(), sess, []byte("x"), "application/unknown"); err == nil {
		t.Error("want error for unsupported content type")
	}
}
