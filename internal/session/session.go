package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/HugeKC01/Botnoi-Indo/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

// ---------------------------------------------------------------------------
// Identity session — process-wide, single-writer session record with a
// monotonic generation counter. Every sign-in/sign-out publishes a brand-new
// record tagged with the next generation; in-flight token/profile fetches
// validate their captured generation before applying results, so a slow
// response from a superseded session can never overwrite a newer one.
// ---------------------------------------------------------------------------

// Dashboard is the slice of the dashboard client the session needs.
type Dashboard interface {
	ExchangeToken(ctx context.Context, idToken string) (string, error)
	FetchProfile(ctx context.Context, productToken string) (*models.Profile, error)
}

type Manager struct {
	dashboard Dashboard

	mu      sync.Mutex
	current models.Session
}

func NewManager(dashboard Dashboard) *Manager {
	return &Manager{
		dashboard: dashboard,
		current:   models.Session{State: models.SessionSignedOut},
	}
}

// Current returns a snapshot of the session record.
func (m *Manager) Current() models.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// SignIn handles an external sign-in event. It publishes the new identity
// immediately, then sequentially exchanges the ID token for a product token
// and fetches the profile. Both downstream failures degrade the session
// rather than failing it: no token means reduced features, no profile means
// placeholders. The returned snapshot is the session as of this sign-in's
// completion; a stale snapshot is returned unchanged if a newer sign-in or
// sign-out superseded this one mid-flight.
func (m *Manager) SignIn(ctx context.Context, identity models.Identity, idToken string) models.Session {
	m.mu.Lock()
	gen := m.current.Generation + 1
	m.current = models.Session{
		Generation: gen,
		State:      models.SessionTokenPending,
		Identity:   &identity,
	}
	m.mu.Unlock()

	log.Printf("[Session] Sign-in (generation %d, uid=%s)", gen, identity.UID)

	// Token exchange. Profile fetch depends on its result, so the two calls
	// are strictly sequential.
	token, err := m.dashboard.ExchangeToken(ctx, idToken)
	if err != nil {
		log.Printf("[Session] Token exchange failed: %v", err)
		m.apply(gen, func(s *models.Session) {
			s.State = models.SessionSignedIn
		})
		return m.Current()
	}

	expiry := tokenExpiry(token)
	if !m.apply(gen, func(s *models.Session) {
		s.State = models.SessionTokenReady
		s.Token = token
		s.HasToken = true
		s.TokenExpiry = expiry
	}) {
		log.Printf("[Session] Discarding token from superseded generation %d", gen)
		return m.Current()
	}

	profile, err := m.dashboard.FetchProfile(ctx, token)
	if err != nil {
		// Independent failure: the token stays, the profile is just absent.
		log.Printf("[Session] Profile fetch failed: %v", err)
		return m.Current()
	}

	if !m.apply(gen, func(s *models.Session) {
		s.Profile = profile
	}) {
		log.Printf("[Session] Discarding profile from superseded generation %d", gen)
	}

	return m.Current()
}

// SignOut clears token and profile, then identity, and bumps the generation
// so any in-flight fetches from the previous session are discarded.
func (m *Manager) SignOut() models.Session {
	m.mu.Lock()
	gen := m.current.Generation + 1
	m.current = models.Session{
		Generation: gen,
		State:      models.SessionSignedOut,
	}
	m.mu.Unlock()

	log.Printf("[Session] Sign-out (generation %d)", gen)
	return models.Session{Generation: gen, State: models.SessionSignedOut}
}

// apply mutates the current record iff it still belongs to gen.
func (m *Manager) apply(gen uint64, mutate func(*models.Session)) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current.Generation != gen {
		return false
	}
	mutate(&m.current)
	return true
}

// tokenExpiry pulls the exp claim out of the product token without verifying
// the signature (we are not the issuer). Opaque tokens yield nil.
func tokenExpiry(token string) *time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	return &exp.Time
}
