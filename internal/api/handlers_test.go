package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/transformai/transformai/internal/extract"
	"github.com/transformai/transformai/internal/languages"
	"github.com/transformai/transformai/internal/models"
	"github.com/transformai/transformai/internal/pipeline"
	"github.com/transformai/transformai/internal/services"
	"github.com/transformai/transformai/internal/session"
)

type fakeGenerator struct {
	result string
	err    error
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
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

type testEnv struct {
	store  *session.Store
	server *httptest.Server
}

func newTestEnv(t *testing.T, gen services.TextGenerator, synth services.SpeechSynthesizer, video pipeline.VideoRenderer, routerCfg RouterConfig) *testEnv {
	t.Helper()

	store := session.New()
	p := pipeline.New(extract.New(nil), gen, synth, video)
	h := NewHandler(store, p)

	srv := httptest.NewServer(NewRouter(h, routerCfg))
	t.Cleanup(srv.Close)

	return &testEnv{store: store, server: srv}
}

func defaultEnv(t *testing.T) *testEnv {
	return newTestEnv(t,
		&fakeGenerator{result: "Generated summary."},
		&fakeSynth{audio: []byte("mp3-bytes")},
		&fakeVideo{data: []byte("mp4-bytes")},
		RouterConfig{},
	)
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, e.server.URL+path, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decodeSession(t *testing.T, resp *http.Response) models.Session {
	t.Helper()
	defer resp.Body.Close()

	var sess models.Session
	if err := json.NewDecoder(resp.Body).Decode(&sess); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	return sess
}

func (e *testEnv) createSession(t *testing.T) models.Session {
	t.Helper()

	resp := e.do(t, http.MethodPost, "/v1/sessions", nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create session: status %d", resp.StatusCode)
	}
	return decodeSession(t, resp)
}

func TestHealth(t *testing.T) {
	e := defaultEnv(t)

	resp := e.do(t, http.MethodGet, "/health", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestSessionLifecycle(t *testing.T) {
	e := defaultEnv(t)

	sess := e.createSession(t)
	if sess.SelectedLanguage != "en" || sess.OutputType != models.OutputSummary {
		t.Errorf("unexpected defaults: lang=%q type=%q", sess.SelectedLanguage, sess.OutputType)
	}

	resp := e.do(t, http.MethodGet, "/v1/sessions/"+sess.ID.String(), nil)
	got := decodeSession(t, resp)
	if got.ID != sess.ID {
		t.Errorf("get returned session %s, want %s", got.ID, sess.ID)
	}

	resp = e.do(t, http.MethodDelete, "/v1/sessions/"+sess.ID.String(), nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d", resp.StatusCode)
	}

	resp = e.do(t, http.MethodGet, "/v1/sessions/"+sess.ID.String(), nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get after delete status = %d", resp.StatusCode)
	}
}

func TestPasteAndGenerate(t *testing.T) {
	e := defaultEnv(t)
	sess := e.createSession(t)

	resp := e.do(t, http.MethodPost, "/v1/sessions/"+sess.ID.String()+"/input", models.PasteInputRequest{
		Text: "Photosynthesis converts light into chemical energy.",
	})
	updated := decodeSession(t, resp)
	if !strings.Contains(updated.InputText, "Photosynthesis") {
		t.Fatalf("InputText = %q", updated.InputText)
	}

	resp = e.do(t, http.MethodPost, "/v1/sessions/"+sess.ID.String()+"/generate", models.GenerateRequest{
		OutputType: models.OutputSummary,
		Language:   "es",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("generate status = %d", resp.StatusCode)
	}

	var gen models.GenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gen); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if gen.Result != "Generated summary." {
		t.Errorf("Result = %q", gen.Result)
	}

	stored, err := e.store.Get(sess.ID)
	if err != nil {
		t.Fatalf("store.Get: %v", err)
	}
	if stored.LastResult != "Generated summary." || stored.SelectedLanguage != "es" {
		t.Errorf("stored session not updated: %+v", stored)
	}
}

func TestGenerateBlankInput(t *testing.T) {
	e := defaultEnv(t)
	sess := e.createSession(t)

	resp := e.do(t, http.MethodPost, "/v1/sessions/"+sess.ID.String()+"/generate", models.GenerateRequest{
		OutputType: models.OutputSummary,
		Language:   "en",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}

	var body models.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Kind != "validation" {
		t.Errorf("Kind = %q", body.Kind)
	}
}

func TestGenerateWithoutCredentials(t *testing.T) {
	e := newTestEnv(t, nil, &fakeSynth{}, &fakeVideo{}, RouterConfig{})
	sess := e.createSession(t)

	resp := e.do(t, http.MethodPost, "/v1/sessions/"+sess.ID.String()+"/input", models.PasteInputRequest{Text: "content"})
	resp.Body.Close()

	resp = e.do(t, http.MethodPost, "/v1/sessions/"+sess.ID.String()+"/generate", models.GenerateRequest{
		OutputType: models.OutputSummary,
		Language:   "en",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", resp.StatusCode)
	}
}

func TestGenerateServiceFailureKeepsSession(t *testing.T) {
	e := newTestEnv(t,
		&fakeGenerator{err: &models.ServiceError{Service: "gemini", Err: errors.New("quota")}},
		&fakeSynth{}, &fakeVideo{}, RouterConfig{},
	)
	sess := e.createSession(t)

	resp := e.do(t, http.MethodPost, "/v1/sessions/"+sess.ID.String()+"/input", models.PasteInputRequest{Text: "content"})
	resp.Body.Close()

	resp = e.do(t, http.MethodPost, "/v1/sessions/"+sess.ID.String()+"/generate", models.GenerateRequest{
		OutputType: models.OutputSummary,
		Language:   "en",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", resp.StatusCode)
	}

	stored, err := e.store.Get(sess.ID)
	if err != nil {
		t.Fatalf("store.Get: %v", err)
	}
	if stored.LastResult != "" {
		t.Errorf("failed generation stored a result: %q", stored.LastResult)
	}
}

func TestSpeechFlow(t *testing.T) {
	e := defaultEnv(t)
	sess := e.createSession(t)

	// Speech before any result is a validation error.
	resp := e.do(t, http.MethodPost, "/v1/sessions/"+sess.ID.String()+"/speech", models.SpeechRequest{Language: "en"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("speech without result: status = %d", resp.StatusCode)
	}

	resp = e.do(t, http.MethodPost, "/v1/sessions/"+sess.ID.String()+"/input", models.PasteInputRequest{Text: "content"})
	resp.Body.Close()
	resp = e.do(t, http.MethodPost, "/v1/sessions/"+sess.ID.String()+"/generate", models.GenerateRequest{
		OutputType: models.OutputAudio,
		Language:   "en",
	})
	resp.Body.Close()

	resp = e.do(t, http.MethodPost, "/v1/sessions/"+sess.ID.String()+"/speech", models.SpeechRequest{Language: "fr"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("speech status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "audio/mpeg" {
		t.Errorf("Content-Type = %q", ct)
	}

	var audio bytes.Buffer
	audio.ReadFrom(resp.Body)
	if audio.String() != "mp3-bytes" {
		t.Errorf("audio = %q", audio.String())
	}

	stored, _ := e.store.Get(sess.ID)
	if !stored.SpeechRequested {
		t.Error("SpeechRequested not persisted")
	}
}

func TestVideoFlow(t *testing.T) {
	e := defaultEnv(t)
	sess := e.createSession(t)

	resp := e.do(t, http.MethodPost, "/v1/sessions/"+sess.ID.String()+"/input", models.PasteInputRequest{Text: "content"})
	resp.Body.Close()
	resp = e.do(t, http.MethodPost, "/v1/sessions/"+sess.ID.String()+"/generate", models.GenerateRequest{
		OutputType: models.OutputVideo,
		Language:   "en",
	})
	resp.Body.Close()

	resp = e.do(t, http.MethodPost, "/v1/sessions/"+sess.ID.String()+"/video", models.VideoRequest{Language: "en"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("video status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "video/mp4" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestUploadPlainText(t *testing.T) {
	e := defaultEnv(t)
	sess := e.createSession(t)

	var form bytes.Buffer
	mw := multipart.NewWriter(&form)
	part, err := mw.CreateFormFile("file", "notes.txt")
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	fmt.Fprint(part, "uploaded notes")
	mw.Close()

	req, err := http.NewRequest(http.MethodPost, e.server.URL+"/v1/sessions/"+sess.ID.String()+"/upload", &form)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	updated := decodeSession(t, resp)
	if updated.InputText != "uploaded notes" {
		t.Errorf("InputText = %q", updated.InputText)
	}
}

func TestExportWithoutResult(t *testing.T) {
	e := defaultEnv(t)
	sess := e.createSession(t)

	resp := e.do(t, http.MethodGet, "/v1/sessions/"+sess.ID.String()+"/export/docx", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestListLanguages(t *testing.T) {
	e := defaultEnv(t)

	resp := e.do(t, http.MethodGet, "/v1/languages", nil)
	defer resp.Body.Close()

	var list []languages.Language
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 30 {
		t.Errorf("len = %d, want 30", len(list))
	}
}

func TestAPIKeyAuth(t *testing.T) {
	e := newTestEnv(t,
		&fakeGenerator{result: "ok"},
		&fakeSynth{}, &fakeVideo{},
		RouterConfig{BackendAPIKey: "secret-key"},
	)

	// Missing key
	resp := e.do(t, http.MethodPost, "/v1/sessions", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("missing key: status = %d", resp.StatusCode)
	}

	// Wrong key
	req, _ := http.NewRequest(http.MethodPost, e.server.URL+"/v1/sessions", nil)
	req.Header.Set("X-API-Key", "wrong")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("wrong key: status = %d", resp.StatusCode)
	}

	// Correct key via Bearer
	req, _ = http.NewRequest(http.MethodPost, e.server.URL+"/v1/sessions", nil)
	req.Header.Set("Authorization", "Bearer secret-key")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("correct key: status = %d", resp.StatusCode)
	}

	// Health stays public
	resp = e.do(t, http.MethodGet, "/health", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("health: status = %d", resp.StatusCode)
	}
}
