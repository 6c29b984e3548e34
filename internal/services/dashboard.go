package services

import (
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
// Botnoi Dashboard — token exchange and profile endpoints. The exchange
// trades the external identity provider's ID token for a product token; the
// profile endpoint takes that product token as a bearer credential.
// ---------------------------------------------------------------------------

const (
	exchangePath = "/api/dashboard/firebase_auth"
	profilePath  = "/api/dashboard/get_profile"

	dashboardTimeout = 30 * time.Second
)

// DashboardService talks to the dashboard/auth endpoints.
type DashboardService struct {
	exchangeBaseURL string
	profileBaseURL  string
	client          *http.Client
}

// NewDashboardService creates a client. The exchange endpoint may live on a
// different host than the profile endpoint.
func NewDashboardService(exchangeBaseURL, profileBaseURL string) *DashboardService {
	return &DashboardService{
		exchangeBaseURL: exchangeBaseURL,
		profileBaseURL:  profileBaseURL,
		client:          &http.Client{Timeout: dashboardTimeout},
	}
}

type exchangeResponse struct {
	Data struct {
		Token string `json:"token"`
	} `json:"data"`
}

// ExchangeToken trades the external ID token for a product token. The token
// sits under a nested data field; anything else is a failure.
func (s *DashboardService) ExchangeToken(ctx context.Context, idToken string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", s.exchangeBaseURL+exchangePath, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create exchange request: %w", err)
	}
	req.Header.Set("botnoi-token", "Bearer "+idToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("token exchange request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("token exchange returned status %d: %s", resp.StatusCode, truncate(body))
	}

	var result exchangeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode exchange response: %w", err)
	}

	if result.Data.Token == "" {
		return "", fmt.Errorf("token exchange response carried no token")
	}

	log.Println("[Dashboard] Product token issued")
	return result.Data.Token, nil
}

type profileResponse struct {
	Data *models.Profile `json:"data"`
}

// FetchProfile retrieves the product profile using the product token as a
// bearer credential.
func (s *DashboardService) FetchProfile(ctx context.Context, productToken string) (*models.Profile, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", s.profileBaseURL+profilePath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+productToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("profile request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("profile fetch returned status %d: %s", resp.StatusCode, truncate(body))
	}

	var result profileResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode profile response: %w", err)
	}

	if result.Data == nil {
		return nil, fmt.Errorf("profile response carried no data")
	}

	log.Println("[Dashboard] Profile fetched")
	return result.Data, nil
}

func truncate(b []byte) string {
	const max = 256
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}
