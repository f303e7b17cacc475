package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/opsdesk/incident-tracker/internal/config"
	"github.com/opsdesk/incident-tracker/internal/domain"
	"github.com/opsdesk/incident-tracker/internal/policy"
	"github.com/opsdesk/incident-tracker/internal/repository/sqlite"
	apperrors "github.com/opsdesk/incident-tracker/pkg/util"
)

// testEnv wires both services against a real sqlite backend in a temp dir.
type testEnv struct {
	auth    *AuthService
	tickets *TicketService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "service_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, sqlite.RunMigrations(ctx, db))

	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:     "test-secret",
			TokenTTLHours: 1,
			BcryptCost:    bcrypt.MinCost,
		},
	}

	return &testEnv{
		auth: NewAuthService(cfg, AuthDependencies{
			UserStore: sqlite.NewUserStore(db),
		}),
		tickets: NewTicketService(TicketDependencies{
			TicketStore: sqlite.NewTicketStore(db),
		}),
	}
}

func (e *testEnv) register(t *testing.T, username string, role domain.Role) policy.Caller {
	t.Helper()
	user, err := e.auth.Register(context.Background(), username, username+"@example.com", "password123", role)
	require.NoError(t, err)
	return policy.Caller{ID: user.ID, Role: user.Role}
}

func errCode(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	return apperrors.ToDomainError(err).Code
}
