package testsupport

import (
	"context"
	"testing"

	"roomclip/internal/config"
	"roomclip/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// NewSession creates a session for tests using the provided store.
func NewSession(t testing.TB, st *store.Store, id, masterVideoPath string, t0 float64) *store.Session {
	t.Helper()

	session, err := st.UpsertSession(context.Background(), &store.Session{
		ID:              id,
		MasterVideoPath: masterVideoPath,
		OBST0:           t0,
	})
	if err != nil {
		t.Fatalf("store.UpsertSession: %v", err)
	}
	return session
}
