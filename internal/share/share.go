package share

import (
	"net/url"

	"github.com/HugeKC01/Botnoi-Indo/internal/models"
)

// ---------------------------------------------------------------------------
// Share targets for a generated audio URL. LINE gets a real deep link; the
// creative tools have no import API, so those are manual hand-offs: show an
// instruction and open the tool's site.
// ---------------------------------------------------------------------------

const (
	lineShareBase = "https://line.me/R/msg/text/?"
	capcutURL     = "https://www.capcut.com/"
	canvaURL      = "https://www.canva.com/"

	// Fixed base name for downloads; the format supplies the extension.
	downloadBaseName = "tts-audio"

	shareMessagePrefix = "Check out this generated audio: "
)

// Link is one share option as presented to the UI.
type Link struct {
	Target string `json:"target"` // "line", "capcut", "canva"
	URL    string `json:"url"`
	// Message key for a hand-off instruction toast; empty for direct shares.
	InstructionKey string `json:"instruction_key,omitempty"`
}

// LineURL builds the LINE deep link carrying the templated share message.
func LineURL(audioURL string) string {
	return lineShareBase + url.QueryEscape(shareMessagePrefix+audioURL)
}

// Links returns the full share option set for an audio URL.
func Links(audioURL string) []Link {
	return []Link{
		{Target: "line", URL: LineURL(audioURL)},
		{Target: "capcut", URL: capcutURL, InstructionKey: "capcutInstructions"},
		{Target: "canva", URL: canvaURL, InstructionKey: "canvaInstructions"},
	}
}

// DownloadFilename is the fixed attachment name for a given format.
func DownloadFilename(format models.AudioFormat) string {
	return downloadBaseName + "." + format.Extension()
}
