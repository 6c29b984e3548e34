package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Enums
type AudioFormat string

const (
	FormatMP3 AudioFormat = "mp3"
	FormatWAV AudioFormat = "wav"
	FormatM4A AudioFormat = "m4a"
)

// DefaultFormat is what the form starts with.
const DefaultFormat = FormatMP3

// Valid reports whether f is one of the formats the voice API accepts.
func (f AudioFormat) Valid() bool {
	switch f {
	case FormatMP3, FormatWAV, FormatM4A:
		return true
	}
	return false
}

// Extension returns the file extension (without dot) for download names.
func (f AudioFormat) Extension() string {
	return string(f)
}

// Synthesis bounds. Volume follows the current slider contract (0.1-2.0,
// string-encoded on the wire); speed is numeric 0.5-2.0.
const (
	VolumeMin = 0.1
	VolumeMax = 2.0
	SpeedMin  = 0.5
	SpeedMax  = 2.0
)

// Fixed flags sent with every synthesis call.
const (
	SynthesisLanguage = "id"
	SynthesisSaveFile = "true"
)

// Validation errors — user-correctable, mapped to localized messages at the
// HTTP boundary. Field carries the i18n message key.
type ValidationError struct {
	Field      string
	MessageKey string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s", e.Field)
}

var (
	ErrEmptyText     = &ValidationError{Field: "text", MessageKey: "pleaseEnterText"}
	ErrEmptyAPIKey   = &ValidationError{Field: "api_key", MessageKey: "pleaseEnterApiKey"}
	ErrVolumeBounds  = &ValidationError{Field: "volume", MessageKey: "invalidVolume"}
	ErrSpeedBounds   = &ValidationError{Field: "speed", MessageKey: "invalidSpeed"}
	ErrInvalidFormat = &ValidationError{Field: "format", MessageKey: "invalidFormat"}
)

// AsValidation unwraps err into a *ValidationError when it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var v *ValidationError
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}

// SynthesisRequest is one form submission. Created fresh per form session,
// never persisted.
type SynthesisRequest struct {
	APIKey  string      `json:"api_key"`
	Text    string      `json:"text"`
	Speaker string      `json:"speaker"`
	Volume  float64     `json:"volume"`
	Speed   float64     `json:"speed"`
	Format  AudioFormat `json:"format"`
}

// Normalize fills the defaults the form would have started with.
func (r *SynthesisRequest) Normalize() {
	if r.Speaker == "" {
		r.Speaker = "1"
	}
	if r.Volume == 0 {
		r.Volume = 1.0
	}
	if r.Speed == 0 {
		r.Speed = 1.0
	}
	if r.Format == "" {
		r.Format = DefaultFormat
	}
}

// Validate runs the pre-network checks. Text and API key are checked after
// trimming; a request that fails here must never reach the voice API.
func (r *SynthesisRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return ErrEmptyText
	}
	if strings.TrimSpace(r.APIKey) == "" {
		return ErrEmptyAPIKey
	}
	if r.Volume < VolumeMin || r.Volume > VolumeMax {
		return ErrVolumeBounds
	}
	if r.Speed < SpeedMin || r.Speed > SpeedMax {
		return ErrSpeedBounds
	}
	if !r.Format.Valid() {
		return ErrInvalidFormat
	}
	return nil
}

// VolumeString is the wire encoding of volume ("1.0", "0.5", ...). The voice
// API takes volume as a decimal string while speed stays numeric.
func (r *SynthesisRequest) VolumeString() string {
	return strconv.FormatFloat(r.Volume, 'f', 1, 64)
}

// SynthesisResult is what a successful call yields: the remote audio URL and
// the format it was requested in.
type SynthesisResult struct {
	AudioURL string      `json:"audio_url"`
	Format   AudioFormat `json:"format"`
}

// Speaker is one catalog entry: (id, display name), unique by id, catalog
// order preserved.
type Speaker struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Profile is the dashboard profile payload with explicit optional fields.
// Absent fields stay nil and render as a placeholder dash in the UI.
type Profile struct {
	Username           *string  `json:"username,omitempty"`
	Email              *string  `json:"email,omitempty"`
	UID                *string  `json:"uid,omitempty"`
	Credits            *float64 `json:"credits,omitempty"`
	Subscription       *string  `json:"subscription,omitempty"`
	MonthlyPoint       *float64 `json:"monthly_point,omitempty"`
	SubscriptionExpiry *string  `json:"subscription_expire_date,omitempty"`
	AvatarURL          *string  `json:"image,omitempty"`
}

// Identity is what the external provider told us about the signed-in user.
type Identity struct {
	UID         string `json:"uid"`
	DisplayName string `json:"display_name,omitempty"`
	Email       string `json:"email,omitempty"`
	PhotoURL    string `json:"photo_url,omitempty"`
}

// SessionState is the coarse state of the identity session.
type SessionState string

const (
	SessionSignedOut SessionState = "signed_out"
	// Signed in, product token exchange still in flight.
	SessionTokenPending SessionState = "token_pending"
	// Signed in with a product token (profile may still be absent).
	SessionTokenReady SessionState = "token_ready"
	// Signed in but the token exchange failed; reduced feature set.
	SessionSignedIn SessionState = "signed_in"
)

// Session is an immutable snapshot of the current session record. Writers
// always publish a brand-new record tagged with the next generation.
type Session struct {
	Generation  uint64       `json:"generation"`
	State       SessionState `json:"state"`
	Identity    *Identity    `json:"identity,omitempty"`
	Token       string       `json:"-"` // never serialized to clients
	HasToken    bool         `json:"has_token"`
	TokenExpiry *time.Time   `json:"token_expiry,omitempty"`
	Profile     *Profile     `json:"profile,omitempty"`
}
