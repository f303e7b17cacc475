package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/opsdesk/incident-tracker/internal/domain"
)

func TestIssueParseRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", 24)

	token, exp, err := tm.Issue("user-42", "alice", domain.RoleAgent)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.WithinDuration(t, time.Now().Add(24*time.Hour), exp, time.Minute)

	claims, err := tm.Parse(token)
	require.NoError(t, err)
	require.Equal(t, "user-42", claims.UserID)
	require.Equal(t, "alice", claims.Username)
	require.Equal(t, domain.RoleAgent, claims.Role)
}

func TestParseRejectsTamperedToken(t *testing.T) {
	tm := NewTokenManager("test-secret", 24)
	token, _, err := tm.Issue("user-42", "alice", domain.RoleUser)
	require.NoError(t, err)

	tampered := token[:len(token)-4] + "xxxx"
	_, err = tm.Parse(tampered)
	require.Error(t, err)
}

func TestParseRejectsTokenSignedWithOtherSecret(t *testing.T) {
	issuer := NewTokenManager("secret-a", 24)
	verifier := NewTokenManager("secret-b", 24)

	token, _, err := issuer.Issue("user-42", "alice", domain.RoleUser)
	require.NoError(t, err)

	_, err = verifier.Parse(token)
	require.Error(t, err)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	tm := &TokenManager{secret: []byte("test-secret"), ttl: -time.Minute}

	token, _, err := tm.Issue("user-42", "alice", domain.RoleUser)
	require.NoError(t, err)

	_, err = tm.Parse(token)
	require.Error(t, err)
}

func TestParseRejectsGarbage(t *testing.T) {
	tm := NewTokenManager("test-secret", 24)
	_, err := tm.Parse("not-a-token")
	require.Error(t, err)
}
