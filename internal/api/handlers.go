package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/HugeKC01/Botnoi-Indo/internal/catalog"
	"github.com/HugeKC01/Botnoi-Indo/internal/embedcode"
	"github.com/HugeKC01/Botnoi-Indo/internal/i18n"
	"github.com/HugeKC01/Botnoi-Indo/internal/models"
	"github.com/HugeKC01/Botnoi-Indo/internal/services"
	"github.com/HugeKC01/Botnoi-Indo/internal/session"
	"github.com/HugeKC01/Botnoi-Indo/internal/share"
	"github.com/go-chi/chi/v5"
)

type Handler struct {
	synth    services.Synthesizer
	media    *services.MediaService
	catalog  *catalog.Catalog
	sessions *session.Manager
	bundle   *i18n.Bundle
}

func NewHandler(synth services.Synthesizer, media *services.MediaService, cat *catalog.Catalog, sessions *session.Manager, bundle *i18n.Bundle) *Handler {
	return &Handler{
		synth:    synth,
		media:    media,
		catalog:  cat,
		sessions: sessions,
		bundle:   bundle,
	}
}

// lang picks the response language for a request.
func (h *Handler) lang(r *http.Request) string {
	return h.bundle.Match(r.URL.Query().Get("lang"), r.Header.Get("Accept-Language"))
}

// ListSpeakers handles GET /v1/speakers
func (h *Handler) ListSpeakers(w http.ResponseWriter, r *http.Request) {
	speakers := h.catalog.Speakers()

	resp := map[string]interface{}{
		"speakers":        speakers,
		"default_speaker": h.catalog.DefaultSpeaker(),
		"loaded":          h.catalog.Loaded(),
	}
	if !h.catalog.Loaded() {
		// Non-blocking notice: the form falls back to free-form speaker ids.
		resp["notice"] = h.bundle.T(h.lang(r), "catalogUnavailable")
	}

	respondJSON(w, http.StatusOK, resp)
}

// Synthesize handles POST /v1/synthesize.
// Validation runs strictly before any network call; a regenerate from the UI
// is the identical request re-issued after the client cleared its result.
func (h *Handler) Synthesize(w http.ResponseWriter, r *http.Request) {
	lang := h.lang(r)

	var req models.SynthesisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, h.bundle.T(lang, "errorOccurred"), "bad_request")
		return
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		v, _ := models.AsValidation(err)
		respondError(w, http.StatusBadRequest, h.bundle.T(lang, v.MessageKey), v.MessageKey)
		return
	}

	result, err := h.synth.Synthesize(r.Context(), &req)
	if err != nil {
		// Generic message to the user, underlying cause to the log. No retry.
		log.Printf("[API] Synthesis failed: %v", err)
		respondError(w, http.StatusBadGateway, h.bundle.T(lang, "errorOccurred"), "synthesis_failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"audio_url": result.AudioURL,
		"format":    result.Format,
		"filename":  share.DownloadFilename(result.Format),
		"message":   h.bundle.T(lang, "audioGenerated"),
	})
}

type signInRequest struct {
	IDToken  string          `json:"id_token"`
	Identity models.Identity `json:"identity"`
}

// SignIn handles POST /v1/session — the external sign-in event. Token
// exchange and profile fetch run sequentially inside the session manager.
func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	lang := h.lang(r)

	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IDToken == "" || req.Identity.UID == "" {
		respondError(w, http.StatusBadRequest, h.bundle.T(lang, "loginError"), "bad_request")
		return
	}

	s := h.sessions.SignIn(r.Context(), req.Identity, req.IDToken)
	respondJSON(w, http.StatusOK, s)
}

// SignOut handles DELETE /v1/session
func (h *Handler) SignOut(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.SignOut()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"session": s,
		"message": h.bundle.T(h.lang(r), "sessionSignedOut"),
	})
}

// GetSession handles GET /v1/session
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.sessions.Current())
}

// ShareLinks handles GET /v1/share-links?url=
func (h *Handler) ShareLinks(w http.ResponseWriter, r *http.Request) {
	lang := h.lang(r)

	audioURL := r.URL.Query().Get("url")
	if audioURL == "" {
		respondError(w, http.StatusBadRequest, h.bundle.T(lang, "noAudio"), "missing_url")
		return
	}

	links := share.Links(audioURL)
	out := make([]map[string]string, 0, len(links))
	for _, l := range links {
		entry := map[string]string{"target": l.Target, "url": l.URL}
		if l.InstructionKey != "" {
			entry["instruction"] = h.bundle.T(lang, l.InstructionKey)
		}
		out = append(out, entry)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"links": out})
}

type embedRequest struct {
	AudioURL string `json:"audio_url"`
}

// CreateEmbed handles POST /v1/embed
func (h *Handler) CreateEmbed(w http.ResponseWriter, r *http.Request) {
	lang := h.lang(r)

	var req embedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AudioURL == "" {
		respondError(w, http.StatusBadRequest, h.bundle.T(lang, "noAudio"), "missing_url")
		return
	}
	if !h.media.Allowed(req.AudioURL) {
		respondError(w, http.StatusBadRequest, h.bundle.T(lang, "noAudio"), "invalid_url")
		return
	}

	instanceID := embedcode.NewInstanceID()
	respondJSON(w, http.StatusOK, map[string]string{
		"instance_id": instanceID,
		"html":        embedcode.Generate(req.AudioURL, instanceID),
	})
}

// Download handles GET /v1/download?url=&format= — the cross-origin save
// fallback. Bytes stream through this service with a fixed attachment name.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	lang := h.lang(r)

	audioURL := r.URL.Query().Get("url")
	format := models.AudioFormat(r.URL.Query().Get("format"))
	if !format.Valid() {
		format = models.DefaultFormat
	}

	if audioURL == "" || !h.media.Allowed(audioURL) {
		respondError(w, http.StatusBadRequest, h.bundle.T(lang, "downloadFailed"), "invalid_url")
		return
	}

	data, contentType, err := h.media.Fetch(r.Context(), audioURL)
	if err != nil {
		log.Printf("[API] Download fetch failed: %v", err)
		respondError(w, http.StatusBadGateway, h.bundle.T(lang, "downloadFailed"), "download_failed")
		return
	}

	if contentType == "" {
		contentType = "audio/" + format.Extension()
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Content-Disposition", `attachment; filename="`+share.DownloadFilename(format)+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// Messages handles GET /v1/i18n/{lang} — the UI loads its strings here.
func (h *Handler) Messages(w http.ResponseWriter, r *http.Request) {
	lang := chi.URLParam(r, "lang")
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"language":  lang,
		"supported": h.bundle.Supported(),
		"default":   h.bundle.DefaultLanguage(),
		"messages":  h.bundle.Catalog(lang),
	})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message, code string) {
	respondJSON(w, status, map[string]string{"error": message, "code": code})
}

// Health check
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
