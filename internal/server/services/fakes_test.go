package services

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/dbx"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"github.com/dmitrijs2005/filesmanager/internal/server/repositories/files"
	"github.com/dmitrijs2005/filesmanager/internal/server/repositories/users"
)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

// fakeRepoManager hands out the same in-memory repositories for any DBTX.
type fakeRepoManager struct {
	users *fakeUsersRepo
	files *fakeFilesRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		users: &fakeUsersRepo{byID: map[string]*models.User{}},
		files: &fakeFilesRepo{byID: map[string]*models.File{}},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository             { return m.users }
func (m *fakeRepoManager) Files(dbx.DBTX) files.Repository             { return m.files }

type fakeUsersRepo struct {
	mu   sync.Mutex
	byID map[string]*models.User
	err  error
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	u.ID = uuid.NewString()
	u.Email = strings.ToLower(u.Email)
	f.byID[u.ID] = u
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.byID {
		if u.Email == strings.ToLower(email) {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) Count(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	return int64(len(f.byID)), nil
}

type fakeFilesRepo struct {
	mu        sync.Mutex
	byID      map[string]*models.File
	seq       int64
	createErr error
}

func (f *fakeFilesRepo) Create(_ context.Context, file *models.File) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return "", fmt.Errorf("db error: %w", common.ErrorStorageUnavailable)
	}
	f.seq++
	file.ID = uuid.NewString()
	file.Seq = f.seq
	stored := *file
	f.byID[file.ID] = &stored
	return file.ID, nil
}

func (f *fakeFilesRepo) get(id string) (*models.File, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorInvalidID
	}
	file, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *file
	return &cp, nil
}

func (f *fakeFilesRepo) FindByID(_ context.Context, id string) (*models.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.get(id)
}

func (f *fakeFilesRepo) FindByIDAndOwner(_ context.Context, id, ownerID string) (*models.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	file, err := f.get(id)
	if err != nil {
		return nil, err
	}
	if file.UserID != ownerID {
		return nil, common.ErrorNotFound
	}
	return file, nil
}

func (f *fakeFilesRepo) FindPage(_ context.Context, userID, parentID string, page, pageSize int) ([]*models.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var all []*models.File
	for _, file := range f.byID {
		if file.UserID == userID && file.ParentID == parentID {
			cp := *file
			all = append(all, &cp)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Seq < all[j].Seq })

	result := []*models.File{}
	start := page * pageSize
	for i := start; i < len(all) && i < start+pageSize; i++ {
		result = append(result, all[i])
	}
	return result, nil
}

func (f *fakeFilesRepo) UpdateVisibility(_ context.Context, id, ownerID string, isPublic bool) (*models.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorInvalidID
	}
	file, ok := f.byID[id]
	if !ok || file.UserID != ownerID {
		return nil, common.ErrorNotFound
	}
	file.IsPublic = isPublic
	cp := *file
	return &cp, nil
}

func (f *fakeFilesRepo) Count(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.byID)), nil
}

// memStorage records every call so tests can assert what touched storage.
type memStorage struct {
	mu       sync.Mutex
	blobs    map[string][]byte
	calls    []string
	writeErr error
}

func newMemStorage() *memStorage {
	return &memStorage{blobs: map[string][]byte{}}
}

func (m *memStorage) record(op, path string) {
	m.calls = append(m.calls, op+" "+path)
}

func (m *memStorage) Write(_ context.Context, path string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("write", path)
	if m.writeErr != nil {
		return m.writeErr
	}
	m.blobs[path] = append([]byte(nil), data...)
	return nil
}

func (m *memStorage) Read(_ context.Context, path string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("read", path)
	b, ok := m.blobs[path]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return b, nil
}

func (m *memStorage) Exists(_ context.Context, path string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("exists", path)
	_, ok := m.blobs[path]
	return ok, nil
}

func (m *memStorage) MkdirAll(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("mkdir", path)
	return nil
}

type fakeEnqueuer struct {
	mu   sync.Mutex
	jobs []models.ThumbnailJob
	err  error
}

func (f *fakeEnqueuer) Enqueue(_ context.Context, job models.ThumbnailJob) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.jobs = append(f.jobs, job)
	return nil
}

type fakeSessions struct {
	mu     sync.Mutex
	tokens map[string]string
	n      int
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{tokens: map[string]string{}}
}

func (f *fakeSessions) Create(_ context.Context, userID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.n++
	token := fmt.Sprintf("token-%d", f.n)
	f.tokens[token] = userID
	return token, nil
}

func (f *fakeSessions) Resolve(_ context.Context, token string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.tokens[token]
	return id, ok, nil
}

func (f *fakeSessions) Destroy(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tokens, token)
	return nil
}

type fakeLiveness bool

func (f fakeLiveness) IsAlive(context.Context) bool { return bool(f) }
