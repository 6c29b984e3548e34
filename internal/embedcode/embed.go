package embedcode

import (
	"bytes"
	_ "embed"
	"encoding/base64"
	"fmt"
	"strings"
	"text/template"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// Embed snippet generator — a pure function from (audio URL, instance id) to
// a self-contained HTML/CSS/JS player fragment. Every element id, function
// name and keyframe name is scoped by the instance id so multiple embeds can
// coexist on one host page.
// ---------------------------------------------------------------------------

//go:embed waveform.svg
var waveformSVG []byte

// Speeds offered by the snippet's playback-rate selector.
var PlaybackRates = []string{"0.5", "0.75", "1", "1.25", "1.5", "2"}

const (
	attributionURL  = "https://voice.botnoi.ai"
	attributionLogo = "https://voice.botnoi.ai/assets/icons/navbar-v2/botnoi_voice-logo4.svg"
)

// NewInstanceID returns a fresh identifier for one embed instance. Derived
// from a v4 UUID; uniqueness only needs to hold within a host page.
func NewInstanceID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

type snippetData struct {
	ID          string
	AudioURL    string
	WaveformB64 string
	Rates       []string
	SiteURL     string
	LogoURL     string
}

var snippetTmpl = template.Must(template.New("embed").Parse(snippetText))

// Generate renders the fragment for audioURL scoped by instanceID. The same
// inputs always yield the same output.
func Generate(audioURL, instanceID string) string {
	var buf bytes.Buffer
	err := snippetTmpl.Execute(&buf, snippetData{
		ID:          instanceID,
		AudioURL:    audioURL,
		WaveformB64: base64.StdEncoding.EncodeToString(waveformSVG),
		Rates:       PlaybackRates,
		SiteURL:     attributionURL,
		LogoURL:     attributionLogo,
	})
	if err != nil {
		// The template is static and the data is strings; this cannot fail
		// at runtime, but don't hide it if it ever does.
		panic(fmt.Sprintf("embed template: %v", err))
	}
	return buf.String()
}

const snippetText = `<div style="width:100%; max-width:600px; background-color:#f9f9f9; border-radius:12px; padding:12px; font-family:Arial, sans-serif; box-shadow:0 1px 3px rgba(0,0,0,0.08);">
  <div style="display:flex; align-items:center; position:relative; height:36px;">
    <!-- Play/Pause Button -->
    <div style="margin-right:10px; cursor:pointer; width:28px; text-align:center;" onclick="document.getElementById('botnoiAudio{{.ID}}').play(); this.style.display='none'; document.getElementById('pauseBtn{{.ID}}').style.display='block'; document.getElementById('waveAnimation{{.ID}}').style.animationPlayState='running';" id="playBtn{{.ID}}">
      <svg width="22" height="22" viewBox="0 0 50 50" xmlns="http://www.w3.org/2000/svg">
        <polygon points="10,5 40,25 10,45" fill="#000000" stroke="none"/>
      </svg>
    </div>
    <div style="margin-right:10px; cursor:pointer; width:28px; text-align:center; display:none;" onclick="document.getElementById('botnoiAudio{{.ID}}').pause(); this.style.display='none'; document.getElementById('playBtn{{.ID}}').style.display='block'; document.getElementById('waveAnimation{{.ID}}').style.animationPlayState='paused';" id="pauseBtn{{.ID}}">
      <svg width="22" height="22" viewBox="0 0 50 50" xmlns="http://www.w3.org/2000/svg">
        <rect x="12" y="10" width="10" height="30" fill="#000000"/>
        <rect x="28" y="10" width="10" height="30" fill="#000000"/>
      </svg>
    </div>

    <!-- Animated Waveform Display -->
    <div style="flex:1; height:24px; position:relative; overflow:hidden; cursor:pointer;" onclick="if(document.getElementById('botnoiAudio{{.ID}}').paused) {document.getElementById('botnoiAudio{{.ID}}').play(); document.getElementById('playBtn{{.ID}}').style.display='none'; document.getElementById('pauseBtn{{.ID}}').style.display='block'; document.getElementById('waveAnimation{{.ID}}').style.animationPlayState='running';} else {document.getElementById('botnoiAudio{{.ID}}').pause(); document.getElementById('pauseBtn{{.ID}}').style.display='none'; document.getElementById('playBtn{{.ID}}').style.display='block'; document.getElementById('waveAnimation{{.ID}}').style.animationPlayState='paused';}">
      <div id="waveAnimation{{.ID}}" style="width:200%; height:100%; background:url('data:image/svg+xml;base64,{{.WaveformB64}}') repeat-x; animation: waveMove{{.ID}} 30s linear infinite; animation-play-state: paused;"></div>
    </div>

    <!-- Time -->
    <div style="margin-left:10px; font-size:13px; color:#666; min-width:40px; text-align:right;" id="timeDisplay{{.ID}}">00:00</div>

    <!-- Playback Speed Control -->
    <div style="position:relative; margin-left:10px; height:24px; display:flex; align-items:center; border:1px solid #ddd; border-radius:4px; background-color:#fff; padding:0 8px; cursor:pointer;">
      <div style="display:flex; align-items:center;">
        <svg width="14" height="14" viewBox="0 0 24 24" fill="none" xmlns="http://www.w3.org/2000/svg" style="margin-right:4px;">
          <path d="M12 2C6.48 2 2 6.48 2 12C2 17.52 6.48 22 12 22C17.52 22 22 17.52 22 12C22 6.48 17.52 2 12 2ZM10 16.5V7.5L16 12L10 16.5Z" fill="#000"/>
        </svg>
        <select id="speed{{.ID}}" style="appearance:none; font-size:12px; border:none; background:transparent; cursor:pointer; height:22px; padding:0; width:36px;" onchange="document.getElementById('botnoiAudio{{.ID}}').playbackRate = this.value;">
{{- range .Rates}}
          <option value="{{.}}"{{if eq . "1"}} selected{{end}}>{{.}}{{if eq . "1"}}.0{{end}}{{if eq . "2"}}.0{{end}}x</option>
{{- end}}
        </select>
      </div>
    </div>

    <!-- Logo -->
    <a href="{{.SiteURL}}" target="_blank" style="margin-left:10px; text-decoration:none;">
      <div style="display:flex; align-items:center; cursor:pointer;">
        <img src="{{.LogoURL}}" width="60" height="18" alt="Botnoi Voice Logo">
      </div>
    </a>
  </div>

  <!-- Hidden Audio Element -->
  <audio id="botnoiAudio{{.ID}}" src="{{.AudioURL}}" style="display:none;" onended="document.getElementById('pauseBtn{{.ID}}').style.display='none'; document.getElementById('playBtn{{.ID}}').style.display='block'; document.getElementById('waveAnimation{{.ID}}').style.animationPlayState='paused';" ontimeupdate="updateTime{{.ID}}()"></audio>

  <style>
    @keyframes waveMove{{.ID}} {
      0% { transform: translateX(0); }
      100% { transform: translateX(-50%); }
    }
  </style>

  <script>
    function updateTime{{.ID}}() {
      var audio = document.getElementById('botnoiAudio{{.ID}}');
      var minutes = Math.floor(audio.currentTime / 60);
      var seconds = Math.floor(audio.currentTime % 60);
      minutes = minutes < 10 ? '0' + minutes : minutes;
      seconds = seconds < 10 ? '0' + seconds : seconds;
      document.getElementById('timeDisplay{{.ID}}').innerText = minutes + ':' + seconds;
    }
  </script>
</div>`
