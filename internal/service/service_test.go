package service

import (
	"testing"

	"github.com/knotara/storefront/internal/config"
	"github.com/knotara/storefront/internal/dal"
	"github.com/knotara/storefront/internal/engine"
	"github.com/knotara/storefront/internal/storage"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestStore(t *testing.T) *dal.Store {
	t.Helper()
	e, err := engine.Open(storage.NewBridge(storage.NewMemStore(), ""), engine.Options{SeedDemo: true})
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return dal.New(e)
}

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:      "test-secret",
		ExpireHours:    1,
		BcryptCost:     bcrypt.MinCost,
		MinPasswordLen: 6,
	}
}

func newTestUserService(t *testing.T) *UserService {
	t.Helper()
	return NewUserService(testAuthConfig(), newTestStore(t), nil)
}
