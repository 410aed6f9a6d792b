package service

import (
	"path/filepath"
	"testing"

	"github.com/aussiebroadwan/referral/internal/referral/store"
	"github.com/aussiebroadwan/referral/internal/referral/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

// newTestStore opens a file-backed store so concurrent tests exercise real
// transaction contention instead of the relaxed :memory: behaviour.
func newTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.NewStore(sqlite.FileDSN(filepath.Join(t.TempDir(), "referral.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}
