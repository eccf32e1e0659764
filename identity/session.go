package identity

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BaSui01/genbridge/apiclient"
	"github.com/BaSui01/genbridge/types"
)

// Settings configures the external identity SDK.
type Settings struct {
	ClientID    string `yaml:"client_id" json:"client_id" env:"CLIENT_ID"`
	Scope       string `yaml:"scope" json:"scope" env:"SCOPE"`
	Environment string `yaml:"environment" json:"environment" env:"ENVIRONMENT"`
	Locale      string `yaml:"locale" json:"locale" env:"LOCALE"`
}

// TokenInfo is the access token handed over by the identity SDK.
type TokenInfo struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// Profile is the signed-in user's profile.
type Profile struct {
	UserID      string `json:"userId"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	CountryCode string `json:"countryCode,omitempty"`
}

// Session holds the identity state callers read credentials from.
type Session struct {
	settings Settings
	id       string
	logger   *zap.Logger

	ready     chan struct{}
	readyOnce sync.Once

	mu      sync.RWMutex
	token   TokenInfo
	profile *Profile
}

// NewSession creates a session that is not yet ready.
func NewSession(settings Settings, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	id := uuid.New().String()
	return &Session{
		settings: settings,
		id:       id,
		logger:   logger.With(zap.String("component", "identity"), zap.String("session_id", id)),
		ready:    make(chan struct{}),
	}
}

// Settings returns the SDK settings the session was created with.
func (s *Session) Settings() Settings { return s.settings }

// SessionID returns the per-session identifier.
func (s *Session) SessionID() string { return s.id }

// Ready is closed once the initial auth state is established.
func (s *Session) Ready() <-chan struct{} { return s.ready }

// MarkReady signals that the initial auth state is known. Safe to call repeatedly.
func (s *Session) MarkReady() {
	s.readyOnce.Do(func() {
		close(s.ready)
		s.logger.Debug("identity session ready", zap.Bool("authenticated", s.Authenticated()))
	})
}

// Wait blocks until the session is ready or ctx is done.
func (s *Session) Wait(ctx context.Context) error {
	select {
	case <-s.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) SetToken(t TokenInfo) {
	s.mu.Lock()
	s.token = t
	s.mu.Unlock()
}

// Token returns the current token and whether one is set.
func (s *Session) Token() (TokenInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token.Token != ""
}

func (s *Session) SetProfile(p Profile) {
	s.mu.Lock()
	s.profile = &p
	s.mu.Unlock()
}

// Profile returns the user profile and whether one is set.
func (s *Session) Profile() (Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return Profile{}, false
	}
	return *s.profile, true
}

// Clear drops token and profile, e.g. after sign-out.
func (s *Session) Clear() {
	s.mu.Lock()
	s.token = TokenInfo{}
	s.profile = nil
	s.mu.Unlock()
}

// Authenticated reports whether a token is present.
func (s *Session) Authenticated() bool {
	_, ok := s.Token()
	return ok
}

// Expired reports whether the token is missing or past its expiry at now.
// A token with no known expiry never expires.
func (s *Session) Expired(now time.Time) bool {
	t, ok := s.Token()
	if !ok {
		return true
	}
	if exp, found := jwtExpiry(t.Token); found {
		return !now.Before(exp)
	}
	if !t.ExpiresAt.IsZero() {
		return !now.Before(t.ExpiresAt)
	}
	return false
}

// jwtExpiry reads the exp claim without verifying the signature.
func jwtExpiry(raw string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Credentials waits for readiness and returns the bearer + api key headers.
func (s *Session) Credentials(ctx context.Context, apiKey string) (map[string]string, error) {
	if err := s.Wait(ctx); err != nil {
		return nil, err
	}
	t, ok := s.Token()
	if !ok {
		return nil, types.NewError(types.ErrNotAuthenticated, "identity session has no access token")
	}
	if s.Expired(time.Now()) {
		s.logger.Warn("access token expired")
		return nil, types.NewError(types.ErrNotAuthenticated, "identity access token expired")
	}
	return apiclient.BearerHeaders(t.Token, apiKey), nil
}
