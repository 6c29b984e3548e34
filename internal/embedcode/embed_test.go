package embedcode

import (
	"strings"
	"testing"
)

const testURL = "https://voice-cdn.example/audio/abc.mp3"

func TestGenerateContainsAudioURL(t *testing.T) {
	out := Generate(testURL, "abc123")
	if !strings.Contains(out, `src="`+testURL+`"`) {
		t.Error("snippet must reference the audio URL")
	}
}

func TestGenerateScopesEverythingByInstanceID(t *testing.T) {
	const id = "inst42"
	out := Generate(testURL, id)

	for _, marker := range []string{
		"botnoiAudio" + id,
		"playBtn" + id,
		"pauseBtn" + id,
		"waveAnimation" + id,
		"timeDisplay" + id,
		"speed" + id,
		"waveMove" + id,
		"updateTime" + id,
	} {
		if !strings.Contains(out, marker) {
			t.Errorf("snippet missing scoped identifier %q", marker)
		}
	}

	// No unscoped leftovers of the base identifiers.
	for _, bare := range []string{
		`id="botnoiAudio"`, `id="playBtn"`, `id="pauseBtn"`,
		`id="waveAnimation"`, `id="timeDisplay"`, `id="speed"`,
	} {
		if strings.Contains(out, bare) {
			t.Errorf("snippet contains unscoped identifier %s", bare)
		}
	}
}

func TestGenerateOffersAllPlaybackRates(t *testing.T) {
	out := Generate(testURL, "x")

	for _, want := range []string{
		`value="0.5"`, `value="0.75"`, `value="1" selected`,
		`value="1.25"`, `value="1.5"`, `value="2"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("snippet missing rate option %s", want)
		}
	}
	if !strings.Contains(out, ">1.0x<") || !strings.Contains(out, ">2.0x<") {
		t.Error("whole-number rates should render with .0 labels")
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	a := Generate(testURL, "same")
	b := Generate(testURL, "same")
	if a != b {
		t.Error("same inputs must yield identical snippets")
	}
}

func TestGenerateIdempotentModuloInstanceID(t *testing.T) {
	a := Generate(testURL, "aaaa")
	b := Generate(testURL, "bbbb")

	// Swapping the id back should give a byte-identical snippet.
	if strings.ReplaceAll(b, "bbbb", "aaaa") != a {
		t.Error("snippets for the same URL must differ only by instance id")
	}
}

func TestGenerateIncludesAttribution(t *testing.T) {
	out := Generate(testURL, "x")
	if !strings.Contains(out, attributionURL) || !strings.Contains(out, attributionLogo) {
		t.Error("snippet must carry the attribution link and logo")
	}
}

func TestGenerateEmbedsWaveform(t *testing.T) {
	out := Generate(testURL, "x")
	if !strings.Contains(out, "data:image/svg+xml;base64,") {
		t.Error("snippet must inline the waveform image")
	}
}

func TestNewInstanceID(t *testing.T) {
	a := NewInstanceID()
	b := NewInstanceID()

	if a == b {
		t.Error("instance ids must differ")
	}
	if len(a) != 32 || strings.Contains(a, "-") {
		t.Errorf("unexpected instance id shape %q", a)
	}
}
