package catalog

import (
	"bufio"
	"context"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/HugeKC01/Botnoi-Indo/internal/models"
)

// ---------------------------------------------------------------------------
// Speaker catalog — one-shot load of a line-delimited resource mapping
// speaker ids to display names. Fails soft: an unreachable or malformed
// resource yields an empty catalog, never an error to the caller.
// ---------------------------------------------------------------------------

const loadTimeout = 15 * time.Second

type Catalog struct {
	url    string
	client *http.Client

	mu       sync.RWMutex
	speakers []models.Speaker
	loaded   bool
}

// New creates a catalog for the given resource URL. An empty URL means no
// catalog is configured and Load becomes a no-op.
func New(url string) *Catalog {
	return &Catalog{
		url:    url,
		client: &http.Client{Timeout: loadTimeout},
	}
}

// Load fetches and parses the resource once. Safe to call from a goroutine
// at startup; any failure is logged and leaves the catalog empty.
func (c *Catalog) Load(ctx context.Context) {
	if c.url == "" {
		log.Println("[Catalog] No speaker catalog URL configured, speaker ids are free-form")
		return
	}

	req, err := http.NewRequestWithContext(ctx, "GET", c.url, nil)
	if err != nil {
		log.Printf("[Catalog] Failed to build request: %v", err)
		return
	}

	resp, err := c.client.Do(req)
	if err != nil {
		log.Printf("[Catalog] Failed to fetch speaker catalog: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[Catalog] Speaker catalog returned status %d", resp.StatusCode)
		return
	}

	speakers := Parse(resp.Body)

	c.mu.Lock()
	c.speakers = speakers
	c.loaded = true
	c.mu.Unlock()

	log.Printf("[Catalog] Loaded %d speakers", len(speakers))
}

// Parse reads the delimited resource. The first line is a header and is
// skipped. Each data line splits on the first comma into (id, name); the
// name is trimmed and one layer of surrounding quotes is stripped. Rows with
// an empty id or name are discarded.
func Parse(r io.Reader) []models.Speaker {
	var speakers []models.Speaker
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(r)
	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if first {
			first = false
			continue
		}

		id, rest, found := strings.Cut(line, ",")
		if !found {
			continue
		}

		id = strings.TrimSpace(id)
		name := stripQuotes(strings.TrimSpace(rest))
		if id == "" || name == "" {
			continue
		}
		if seen[id] {
			continue
		}
		seen[id] = true

		speakers = append(speakers, models.Speaker{ID: id, Name: name})
	}
	if err := scanner.Err(); err != nil {
		log.Printf("[Catalog] Error reading speaker catalog: %v", err)
	}

	return speakers
}

func stripQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return strings.TrimSpace(s[1 : len(s)-1])
		}
	}
	return s
}

// Speakers returns the loaded entries in resource order. Empty until Load
// succeeds.
func (c *Catalog) Speakers() []models.Speaker {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.Speaker, len(c.speakers))
	copy(out, c.speakers)
	return out
}

// DefaultSpeaker is the first catalog entry's id, or empty when the catalog
// is empty. The form falls back to free-form input in that case.
func (c *Catalog) DefaultSpeaker() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.speakers) == 0 {
		return ""
	}
	return c.speakers[0].ID
}

// Loaded reports whether a load completed successfully.
func (c *Catalog) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}
