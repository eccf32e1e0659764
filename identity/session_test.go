package identity

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BaSui01/genbridge/types"
)

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": exp.Unix(),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestSession_ReadyIdempotent(t *testing.T) {
	s := NewSession(Settings{ClientID: "helpx"}, zap.NewNop())

	select {
	case <-s.Ready():
		t.Fatal("ready before MarkReady")
	default:
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.MarkReady()
		}()
	}
	wg.Wait()

	require.NoError(t, s.Wait(context.Background()))
	assert.Equal(t, "helpx", s.Settings().ClientID)
}

func TestSession_WaitCancelled(t *testing.T) {
	s := NewSession(Settings{}, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, s.Wait(ctx), context.DeadlineExceeded)
}

func TestSession_TokenAndProfile(t *testing.T) {
	s := NewSession(Settings{}, nil)
	assert.False(t, s.Authenticated())
	_, ok := s.Profile()
	assert.False(t, ok)

	s.SetToken(TokenInfo{Token: "abc"})
	s.SetProfile(Profile{UserID: "u1", Email: "u1@example.com"})

	assert.True(t, s.Authenticated())
	p, ok := s.Profile()
	require.True(t, ok)
	assert.Equal(t, "u1", p.UserID)

	s.Clear()
	assert.False(t, s.Authenticated())
}

func TestSession_ExpiredFromJWT(t *testing.T) {
	now := time.Now()
	s := NewSession(Settings{}, nil)

	assert.True(t, s.Expired(now), "no token counts as expired")

	s.SetToken(TokenInfo{Token: signed(t, now.Add(time.Hour))})
	assert.False(t, s.Expired(now))
	assert.True(t, s.Expired(now.Add(2*time.Hour)))
}

func TestSession_ExpiredFallback(t *testing.T) {
	now := time.Now()
	s := NewSession(Settings{}, nil)

	s.SetToken(TokenInfo{Token: "opaque-token", ExpiresAt: now.Add(time.Minute)})
	assert.False(t, s.Expired(now))
	assert.True(t, s.Expired(now.Add(time.Minute)))

	s.SetToken(TokenInfo{Token: "opaque-token"})
	assert.False(t, s.Expired(now.Add(24*time.Hour)))
}

func TestSession_SessionID(t *testing.T) {
	a := NewSession(Settings{}, nil)
	b := NewSession(Settings{}, nil)

	_, err := uuid.Parse(a.SessionID())
	require.NoError(t, err)
	assert.NotEqual(t, a.SessionID(), b.SessionID())
}

func TestSession_Credentials(t *testing.T) {
	s := NewSession(Settings{}, nil)
	go func() {
		s.SetToken(TokenInfo{Token: signed(t, time.Now().Add(time.Hour))})
		s.MarkReady()
	}()

	h, err := s.Credentials(context.Background(), "key-1")
	require.NoError(t, err)
	assert.Contains(t, h["Authorization"], "Bearer ")
	assert.Equal(t, "key-1", h["x-api-key"])
}

func TestSession_CredentialsNotAuthenticated(t *testing.T) {
	s := NewSession(Settings{}, nil)
	s.MarkReady()

	_, err := s.Credentials(context.Background(), "key")
	assert.True(t, types.IsErrorCode(err, types.ErrNotAuthenticated))

	s.SetToken(TokenInfo{Token: signed(t, time.Now().Add(-time.Minute))})
	_, err = s.Credentials(context.Background(), "key")
	assert.True(t, types.IsErrorCode(err, types.ErrNotAuthenticated))
}
