package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/opsdesk/incident-tracker/internal/domain"
)

func TestRegisterLoginRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	registered, err := env.auth.Register(ctx, "bob", "bob@example.com", "hunter22", domain.RoleAgent)
	require.NoError(t, err)
	require.NotEmpty(t, registered.ID)
	require.Equal(t, domain.RoleAgent, registered.Role)

	user, token, exp, err := env.auth.Login(ctx, "bob", "hunter22")
	require.NoError(t, err)
	require.Equal(t, registered.ID, user.ID)
	require.False(t, exp.IsZero())

	// Claims decode back to the same identity triple.
	claims, err := env.auth.TokenManager().Parse(token)
	require.NoError(t, err)
	require.Equal(t, registered.ID, claims.UserID)
	require.Equal(t, "bob", claims.Username)
	require.Equal(t, domain.RoleAgent, claims.Role)
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.Register(ctx, "", "a@example.com", "pw", domain.RoleUser)
	require.Equal(t, "VALIDATION_FAILED", errCode(t, err))

	_, err = env.auth.Register(ctx, "a", "", "pw", domain.RoleUser)
	require.Equal(t, "VALIDATION_FAILED", errCode(t, err))

	_, err = env.auth.Register(ctx, "a", "a@example.com", "", domain.RoleUser)
	require.Equal(t, "VALIDATION_FAILED", errCode(t, err))

	_, err = env.auth.Register(ctx, "a", "a@example.com", "pw", domain.Role("root"))
	require.Equal(t, "VALIDATION_FAILED", errCode(t, err))
}

func TestRegisterDefaultsRoleToUser(t *testing.T) {
	env := newTestEnv(t)

	user, err := env.auth.Register(context.Background(), "dave", "dave@example.com", "pw", "")
	require.NoError(t, err)
	require.Equal(t, domain.RoleUser, user.Role)
}

func TestRegisterDuplicateUsernameConflicts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.Register(ctx, "alice", "alice@example.com", "pw", domain.RoleUser)
	require.NoError(t, err)

	_, err = env.auth.Register(ctx, "alice", "alice2@example.com", "pw", domain.RoleUser)
	require.Equal(t, "CONFLICT", errCode(t, err))

	// The original record is untouched and still logs in.
	user, _, _, err := env.auth.Login(ctx, "alice", "pw")
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", user.Email)
}

func TestLoginFailsUniformly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.Register(ctx, "alice", "alice@example.com", "correct", domain.RoleUser)
	require.NoError(t, err)

	// Unknown username and wrong password are indistinguishable.
	_, _, _, err = env.auth.Login(ctx, "nobody", "correct")
	require.Equal(t, "UNAUTHORIZED", errCode(t, err))

	_, _, _, err = env.auth.Login(ctx, "alice", "wrong")
	require.Equal(t, "UNAUTHORIZED", errCode(t, err))
}

func TestPublicViewOmitsPasswordHash(t *testing.T) {
	env := newTestEnv(t)

	user, err := env.auth.Register(context.Background(), "alice", "alice@example.com", "pw", domain.RoleUser)
	require.NoError(t, err)
	require.NotEmpty(t, user.PasswordHash)

	public := user.Public()
	require.Equal(t, user.ID, public.ID)
	require.Equal(t, user.Username, public.Username)
	require.Equal(t, user.Email, public.Email)
	require.Equal(t, user.Role, public.Role)
}
