package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/HugeKC01/Botnoi-Indo/internal/models"
)

// ---------------------------------------------------------------------------
// Botnoi Voice — text-to-speech over the public openapi endpoint.
// The credential is the user's own API key, sent as the Botnoi-Token header.
// ---------------------------------------------------------------------------

const synthesisPath = "/openapi/v1/generate_audio"

// VoiceService handles speech synthesis via the Botnoi voice API.
type VoiceService struct {
	baseURL string
	client  *http.Client
}

// Ensure VoiceService implements Synthesizer at compile time.
var _ Synthesizer = (*VoiceService)(nil)

// NewVoiceService creates a synthesis client for the given API base URL.
func NewVoiceService(baseURL string, timeout time.Duration) *VoiceService {
	return &VoiceService{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type voiceRequest struct {
	Text      string  `json:"text"`
	Speaker   string  `json:"speaker"`
	Volume    string  `json:"volume"` // decimal string, e.g. "1.0"
	Speed     float64 `json:"speed"`
	TypeMedia string  `json:"type_media"`
	SaveFile  string  `json:"save_file"`
	Language  string  `json:"language"`
}

type voiceResponse struct {
	AudioURL string `json:"audio_url"`
	Message  string `json:"message"`
}

// Synthesize converts text to speech. The presence of audio_url in the
// response body is the sole success signal; a non-2xx status without it is a
// failure carrying the remote message.
func (s *VoiceService) Synthesize(ctx context.Context, req *models.SynthesisRequest) (*models.SynthesisResult, error) {
	body := voiceRequest{
		Text:      req.Text,
		Speaker:   req.Speaker,
		Volume:    req.VolumeString(),
		Speed:     req.Speed,
		TypeMedia: string(req.Format),
		SaveFile:  models.SynthesisSaveFile,
		Language:  models.SynthesisLanguage,
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal synthesis request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+synthesisPath, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create synthesis request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Botnoi-Token", req.APIKey)

	log.Printf("[Voice] Generating speech (speaker=%s, textLen=%d, speed=%.1f, volume=%s, format=%s)",
		req.Speaker, len(req.Text), req.Speed, body.Volume, req.Format)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("voice API request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read voice API response: %w", err)
	}

	var result voiceResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("voice API returned status %d with unparseable body: %w", resp.StatusCode, err)
	}

	if result.AudioURL == "" {
		if result.Message != "" {
			return nil, fmt.Errorf("voice API returned status %d: %s", resp.StatusCode, result.Message)
		}
		return nil, fmt.Errorf("voice API returned status %d without an audio URL", resp.StatusCode)
	}

	log.Printf("[Voice] Speech generated (%s)", result.AudioURL)

	return &models.SynthesisResult{
		AudioURL: result.AudioURL,
		Format:   req.Format,
	}, nil
}
