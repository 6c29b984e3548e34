package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/HugeKC01/Botnoi-Indo/internal/catalog"
	"github.com/HugeKC01/Botnoi-Indo/internal/i18n"
	"github.com/HugeKC01/Botnoi-Indo/internal/models"
	"github.com/HugeKC01/Botnoi-Indo/internal/services"
	"github.com/HugeKC01/Botnoi-Indo/internal/session"
)

type stubSynth struct {
	fn    func(ctx context.Context, req *models.SynthesisRequest) (*models.SynthesisResult, error)
	calls int
}

func (s *stubSynth) Synthesize(ctx context.Context, req *models.SynthesisRequest) (*models.SynthesisResult, error) {
	s.calls++
	return s.fn(ctx, req)
}

type stubDashboard struct {
	token   string
	profile *models.Profile
	err     error
}

func (d *stubDashboard) ExchangeToken(ctx context.Context, idToken string) (string, error) {
	if d.err != nil {
		return "", d.err
	}
	return d.token, nil
}

func (d *stubDashboard) FetchProfile(ctx context.Context, productToken string) (*models.Profile, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.profile, nil
}

type testEnv struct {
	synth  *stubSynth
	router http.Handler
}

// newTestEnv wires a full router around a stub synthesizer. allowedBase is
// the base URL the download proxy may fetch from.
func newTestEnv(t *testing.T, synth *stubSynth, allowedBase string) *testEnv {
	t.Helper()

	bundle, err := i18n.New("en")
	if err != nil {
		t.Fatalf("i18n.New: %v", err)
	}

	media := services.NewMediaService(5*time.Second, nil, allowedBase)
	sessions := session.NewManager(&stubDashboard{token: "product-token"})
	h := NewHandler(synth, media, catalog.New(""), sessions, bundle)

	return &testEnv{
		synth:  synth,
		router: NewRouter(h, RouterConfig{}),
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var r *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(data)
	} else {
		r = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("response is not JSON: %v\n%s", err, w.Body.String())
	}
	return out
}

func TestSynthesizeSuccess(t *testing.T) {
	var got *models.SynthesisRequest
	synth := &stubSynth{fn: func(ctx context.Context, req *models.SynthesisRequest) (*models.SynthesisResult, error) {
		got = req
		return &models.SynthesisResult{AudioURL: "https://cdn.example.com/out.mp3", Format: req.Format}, nil
	}}
	env := newTestEnv(t, synth, "https://cdn.example.com")

	w := env.do(t, "POST", "/v1/synthesize", map[string]interface{}{
		"api_key": "key-123",
		"text":    "Selamat pagi",
		"speaker": "4",
		"volume":  1.5,
		"speed":   1.2,
		"format":  "wav",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := decodeJSON(t, w)
	if body["audio_url"] != "https://cdn.example.com/out.mp3" {
		t.Errorf("unexpected audio_url: %v", body["audio_url"])
	}
	if body["format"] != "wav" {
		t.Errorf("expected format wav, got %v", body["format"])
	}
	if body["filename"] != "tts-audio.wav" {
		t.Errorf("unexpected filename: %v", body["filename"])
	}
	if body["message"] != "Audio generated successfully!" {
		t.Errorf("unexpected message: %v", body["message"])
	}
	if got == nil || got.Text != "Selamat pagi" || got.Speaker != "4" {
		t.Errorf("synthesizer received wrong request: %+v", got)
	}
}

func TestSynthesizeValidationSkipsBackend(t *testing.T) {
	tests := []struct {
		name     string
		body     map[string]interface{}
		wantCode string
		wantMsg  string
	}{
		{
			name:     "empty text",
			body:     map[string]interface{}{"api_key": "k", "text": "   "},
			wantCode: "pleaseEnterText",
			wantMsg:  "Please enter text to convert",
		},
		{
			name:     "empty api key",
			body:     map[string]interface{}{"api_key": "", "text": "halo"},
			wantCode: "pleaseEnterApiKey",
		},
		{
			name:     "volume out of bounds",
			body:     map[string]interface{}{"api_key": "k", "text": "halo", "volume": 3.0},
			wantCode: "invalidVolume",
		},
		{
			name:     "bad format",
			body:     map[string]interface{}{"api_key": "k", "text": "halo", "format": "ogg"},
			wantCode: "invalidFormat",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			synth := &stubSynth{fn: func(ctx context.Context, req *models.SynthesisRequest) (*models.SynthesisResult, error) {
				t.Fatal("synthesizer must not be called for invalid input")
				return nil, nil
			}}
			env := newTestEnv(t, synth, "")

			w := env.do(t, "POST", "/v1/synthesize", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
			body := decodeJSON(t, w)
			if body["code"] != tt.wantCode {
				t.Errorf("expected code %q, got %v", tt.wantCode, body["code"])
			}
			if tt.wantMsg != "" && body["error"] != tt.wantMsg {
				t.Errorf("expected localized message %q, got %v", tt.wantMsg, body["error"])
			}
			if synth.calls != 0 {
				t.Errorf("synthesizer called %d times", synth.calls)
			}
		})
	}
}

func TestSynthesizeBackendFailure(t *testing.T) {
	synth := &stubSynth{fn: func(ctx context.Context, req *models.SynthesisRequest) (*models.SynthesisResult, error) {
		return nil, errors.New("remote says no")
	}}
	env := newTestEnv(t, synth, "")

	w := env.do(t, "POST", "/v1/synthesize", map[string]interface{}{"api_key": "k", "text": "halo"})
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
	body := decodeJSON(t, w)
	if body["code"] != "synthesis_failed" {
		t.Errorf("expected code synthesis_failed, got %v", body["code"])
	}
	// Generic message only; the upstream detail stays in the log.
	if msg, _ := body["error"].(string); strings.Contains(msg, "remote says no") {
		t.Errorf("upstream error leaked to client: %q", msg)
	}
}

func TestDownloadStreamsAttachment(t *testing.T) {
	audio := []byte("RIFF-fake-audio-bytes")
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write(audio)
	}))
	defer upstream.Close()

	env := newTestEnv(t, &stubSynth{}, upstream.URL)

	w := env.do(t, "GET", "/v1/download?url="+upstream.URL+"/clip.mp3&format=mp3", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Content-Disposition"); got != `attachment; filename="tts-audio.mp3"` {
		t.Errorf("unexpected disposition: %q", got)
	}
	if got := w.Header().Get("Content-Type"); got != "audio/mpeg" {
		t.Errorf("unexpected content type: %q", got)
	}
	if !bytes.Equal(w.Body.Bytes(), audio) {
		t.Errorf("body does not match upstream audio")
	}
}

func TestDownloadRejectsForeignHost(t *testing.T) {
	env := newTestEnv(t, &stubSynth{}, "https://api-voice.botnoi.ai")

	w := env.do(t, "GET", "/v1/download?url=https://evil.example.com/x.mp3", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if body := decodeJSON(t, w); body["code"] != "invalid_url" {
		t.Errorf("expected code invalid_url, got %v", body["code"])
	}
}

func TestSpeakersUnloadedCatalog(t *testing.T) {
	env := newTestEnv(t, &stubSynth{}, "")

	w := env.do(t, "GET", "/v1/speakers", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := decodeJSON(t, w)
	if body["loaded"] != false {
		t.Errorf("expected loaded=false, got %v", body["loaded"])
	}
	if body["notice"] != "Speaker list is unavailable, enter a speaker ID manually" {
		t.Errorf("expected unavailable notice, got %v", body["notice"])
	}
}

func TestSpeakersLoadedCatalog(t *testing.T) {
	csv := "id,name\n1,\"Mila\"\n4,Agus\n"
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(csv))
	}))
	defer upstream.Close()

	bundle, err := i18n.New("en")
	if err != nil {
		t.Fatalf("i18n.New: %v", err)
	}
	cat := catalog.New(upstream.URL)
	cat.Load(context.Background())

	h := NewHandler(&stubSynth{}, services.NewMediaService(time.Second, nil), cat, session.NewManager(&stubDashboard{}), bundle)
	router := NewRouter(h, RouterConfig{})

	req := httptest.NewRequest("GET", "/v1/speakers", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	body := decodeJSON(t, w)
	if body["loaded"] != true {
		t.Fatalf("expected loaded=true, got %v", body["loaded"])
	}
	if body["default_speaker"] != "1" {
		t.Errorf("expected default speaker 1, got %v", body["default_speaker"])
	}
	speakers, _ := body["speakers"].([]interface{})
	if len(speakers) != 2 {
		t.Errorf("expected 2 speakers, got %d", len(speakers))
	}
	if _, ok := body["notice"]; ok {
		t.Errorf("loaded catalog must not carry a notice")
	}
}

func TestSessionLifecycle(t *testing.T) {
	env := newTestEnv(t, &stubSynth{}, "")

	// Fresh process: signed out.
	w := env.do(t, "GET", "/v1/session", nil)
	if body := decodeJSON(t, w); body["state"] != "signed_out" {
		t.Fatalf("expected signed_out, got %v", body["state"])
	}

	// Sign in through the stub dashboard.
	w = env.do(t, "POST", "/v1/session", map[string]interface{}{
		"id_token": "firebase-id-token",
		"identity": map[string]string{"uid": "u-1", "display_name": "Dewi"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := decodeJSON(t, w)
	if body["state"] != "token_ready" {
		t.Errorf("expected token_ready, got %v", body["state"])
	}
	if body["has_token"] != true {
		t.Errorf("expected has_token=true")
	}
	if _, leaked := body["token"]; leaked {
		t.Errorf("product token must never appear in responses")
	}

	// Sign out resets to a fresh generation.
	w = env.do(t, "DELETE", "/v1/session", nil)
	body = decodeJSON(t, w)
	sess, _ := body["session"].(map[string]interface{})
	if sess["state"] != "signed_out" {
		t.Errorf("expected signed_out after sign-out, got %v", sess["state"])
	}
}

func TestSignInRequiresTokenAndUID(t *testing.T) {
	env := newTestEnv(t, &stubSynth{}, "")

	for _, body := range []map[string]interface{}{
		{"identity": map[string]string{"uid": "u-1"}},
		{"id_token": "tok"},
		{},
	} {
		w := env.do(t, "POST", "/v1/session", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %v: expected 400, got %d", body, w.Code)
		}
	}
}

func TestShareLinks(t *testing.T) {
	env := newTestEnv(t, &stubSynth{}, "")

	w := env.do(t, "GET", "/v1/share-links?url=https://cdn.example.com/a.mp3", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := decodeJSON(t, w)
	links, _ := body["links"].([]interface{})
	if len(links) != 3 {
		t.Fatalf("expected 3 share targets, got %d", len(links))
	}

	targets := map[string]map[string]interface{}{}
	for _, l := range links {
		entry := l.(map[string]interface{})
		targets[entry["target"].(string)] = entry
	}
	if _, ok := targets["line"]; !ok {
		t.Errorf("missing line target")
	}
	for _, name := range []string{"capcut", "canva"} {
		entry, ok := targets[name]
		if !ok {
			t.Fatalf("missing %s target", name)
		}
		if instr, _ := entry["instruction"].(string); instr == "" {
			t.Errorf("%s target must carry a localized hand-off instruction", name)
		}
	}

	// Missing url is a 400.
	w = env.do(t, "GET", "/v1/share-links", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without url, got %d", w.Code)
	}
}

func TestCreateEmbed(t *testing.T) {
	env := newTestEnv(t, &stubSynth{}, "https://cdn.example.com")

	w := env.do(t, "POST", "/v1/embed", map[string]string{"audio_url": "https://cdn.example.com/a.mp3"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := decodeJSON(t, w)
	html, _ := body["html"].(string)
	id, _ := body["instance_id"].(string)
	if id == "" || len(id) != 32 {
		t.Errorf("unexpected instance id: %q", id)
	}
	if !strings.Contains(html, "https://cdn.example.com/a.mp3") {
		t.Errorf("snippet does not reference the audio URL")
	}
	if !strings.Contains(html, id) {
		t.Errorf("snippet does not use the instance id")
	}

	// URLs off the allow-list are rejected.
	w = env.do(t, "POST", "/v1/embed", map[string]string{"audio_url": "https://evil.example.net/a.mp3"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for foreign host, got %d", w.Code)
	}
}

func TestMessagesEndpoint(t *testing.T) {
	env := newTestEnv(t, &stubSynth{}, "")

	w := env.do(t, "GET", "/v1/i18n/id", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := decodeJSON(t, w)
	if body["language"] != "id" {
		t.Errorf("expected language id, got %v", body["language"])
	}
	msgs, _ := body["messages"].(map[string]interface{})
	if len(msgs) == 0 {
		t.Fatalf("expected a populated catalog")
	}
	if v, _ := msgs["pleaseEnterText"].(string); v == "" {
		t.Errorf("missing pleaseEnterText message")
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, &stubSynth{}, "")

	w := env.do(t, "GET", "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if body := decodeJSON(t, w); body["status"] != "ok" {
		t.Errorf("unexpected health body: %v", body)
	}
}

func TestAPIKeyAuthProtectsRoutes(t *testing.T) {
	bundle, err := i18n.New("en")
	if err != nil {
		t.Fatalf("i18n.New: %v", err)
	}
	h := NewHandler(&stubSynth{}, services.NewMediaService(time.Second, nil), catalog.New(""), session.NewManager(&stubDashboard{}), bundle)
	router := NewRouter(h, RouterConfig{BackendAPIKey: "secret"})

	// No key: rejected.
	req := httptest.NewRequest("GET", "/v1/speakers", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without key, got %d", w.Code)
	}

	// Wrong key: forbidden.
	req = httptest.NewRequest("GET", "/v1/speakers", nil)
	req.Header.Set("X-API-Key", "wrong")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 with wrong key, got %d", w.Code)
	}

	// Correct key passes; health stays public.
	req = httptest.NewRequest("GET", "/v1/speakers", nil)
	req.Header.Set("X-API-Key", "secret")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with correct key, got %d", w.Code)
	}

	req = httptest.NewRequest("GET", "/health", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("health must stay public, got %d", w.Code)
	}
}
