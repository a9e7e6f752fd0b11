package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/filesmanager/internal/server/repositories/files"
	"github.com/dmitrijs2005/filesmanager/internal/server/repositories/users"
)

func newDB(t *testing.T) *sql.DB {
	t.Helper()
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestFactories_ReturnConcreteRepos(t *testing.T) {
	db := newDB(t)
	m := NewPostgresRepositoryManager()

	var _ users.Repository = m.Users(db)
	var _ files.Repository = m.Files(db)

	assert.IsType(t, &users.PostgresRepository{}, m.Users(db))
	assert.IsType(t, &files.PostgresRepository{}, m.Files(db))
}

func TestRunMigrations_Success(t *testing.T) {
	db := newDB(t)

	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })

	var gotDir string
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		gotDir = dir
		return nil
	}

	m := &PostgresRepositoryManager{}
	require.NoError(t, m.RunMigrations(context.Background(), db))
	assert.Equal(t, ".", gotDir)
}

func TestRunMigrations_Error(t *testing.T) {
	db := newDB(t)

	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })

	boom := errors.New("boom")
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return boom
	}

	m := &PostgresRepositoryManager{}
	err := m.RunMigrations(context.Background(), db)
	require.ErrorIs(t, err, boom)
}
