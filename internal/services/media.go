package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/HugeKC01/Botnoi-Indo/internal/cache"
	"golang.org/x/sync/singleflight"
)

// ---------------------------------------------------------------------------
// MediaService — fetches generated audio bytes for the download proxy.
// Concurrent requests for the same URL are collapsed into one upstream
// fetch, and bytes are optionally cached in Redis.
// ---------------------------------------------------------------------------

// Read at most 50MB of audio; generated clips are far smaller.
const maxAudioBytes = 50 << 20

type MediaService struct {
	client       *http.Client
	cache        *cache.Cache // nil = caching disabled
	allowedHosts map[string]bool
	group        singleflight.Group
}

// NewMediaService creates a fetcher. allowedBases are the base URLs whose
// hosts the proxy may fetch from; anything else is rejected.
func NewMediaService(timeout time.Duration, c *cache.Cache, allowedBases ...string) *MediaService {
	hosts := make(map[string]bool, len(allowedBases))
	for _, base := range allowedBases {
		if u, err := url.Parse(base); err == nil && u.Host != "" {
			hosts[strings.ToLower(u.Host)] = true
		}
	}

	return &MediaService{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		cache:        c,
		allowedHosts: hosts,
	}
}

// Allowed reports whether the proxy may fetch the given URL. Only http(s)
// URLs on configured hosts pass; the Botnoi storage bucket subdomains count
// as part of the voice host's domain.
func (s *MediaService) Allowed(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}

	host := strings.ToLower(u.Host)
	if s.allowedHosts[host] {
		return true
	}
	for allowed := range s.allowedHosts {
		// media often lives on a sibling subdomain of the API host
		if domain := parentDomain(allowed); domain != "" && strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

func parentDomain(host string) string {
	parts := strings.Split(host, ".")
	if len(parts) < 3 {
		return host
	}
	return strings.Join(parts[1:], ".")
}

// Fetch retrieves the audio bytes and the upstream content type. Concurrent
// calls for one URL share a single upstream request.
func (s *MediaService) Fetch(ctx context.Context, rawURL string) ([]byte, string, error) {
	if data, ok := s.cache.Get(ctx, rawURL); ok {
		return data, "", nil
	}

	type fetched struct {
		data        []byte
		contentType string
	}

	v, err, _ := s.group.Do(rawURL, func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create download request: %w", err)
		}

		resp, err := s.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("audio download failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("audio download returned status %d", resp.StatusCode)
		}

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxAudioBytes+1))
		if err != nil {
			return nil, fmt.Errorf("failed to read audio bytes: %w", err)
		}
		if len(data) > maxAudioBytes {
			return nil, fmt.Errorf("audio exceeds %d byte limit", maxAudioBytes)
		}
		if len(data) == 0 {
			return nil, fmt.Errorf("audio download returned empty body")
		}

		s.cache.Set(ctx, rawURL, data)
		return &fetched{data: data, contentType: resp.Header.Get("Content-Type")}, nil
	})
	if err != nil {
		return nil, "", err
	}

	f := v.(*fetched)
	return f.data, f.contentType, nil
}
