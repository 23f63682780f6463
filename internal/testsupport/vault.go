package testsupport

import (
	"context"
	"testing"

	"soundvault"
	"soundvault/config"
)

// MustOpenVault opens a vault engine for tests and registers cleanup.
func MustOpenVault(t testing.TB, cfg *config.Config, opts ...soundvault.Option) *soundvault.Vault {
	t.Helper()

	vault, err := soundvault.Open(context.Background(), cfg, opts...)
	if err != nil {
		t.Fatalf("soundvault.Open: %v", err)
	}
	t.Cleanup(func() {
		vault.Close()
	})
	return vault
}
