package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "stock.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newUserRepo(t *testing.T) *UserRepository {
	t.Helper()
	repo := NewUserRepository(openTestDB(t)).(*UserRepository)
	require.NoError(t, repo.Init(context.Background()))
	return repo
}
