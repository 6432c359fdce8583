package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"backend-template/internal/repository"
	"backend-template/internal/repository/sqlstore"
	"backend-template/internal/storage"
)

type testRepos struct {
	users    repository.UserRepository
	products repository.ProductRepository
}

func openRepos(t *testing.T) testRepos {
	t.Helper()

	db, err := sqlstore.OpenSQLite(filepath.Join(t.TempDir(), "service.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	users := sqlstore.NewUserRepository(db)
	products := sqlstore.NewProductRepository(db)
	require.NoError(t, users.Init(context.Background()))
	require.NoError(t, products.Init(context.Background()))
	return testRepos{users: users, products: products}
}

func quietLogger() (*logrus.Logger, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return logger, hook
}

type storedObject struct {
	body        string
	contentType string
}

// memoryStorage keeps uploaded objects in memory.
type memoryStorage struct {
	mu      sync.Mutex
	objects map[string]storedObject
	deleted []string
}

var _ storage.Service = (*memoryStorage)(nil)

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: make(map[string]storedObject)}
}

func (m *memoryStorage) Upload(_ context.Context, body io.Reader, opts storage.UploadOptions) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[opts.Bucket+"/"+opts.Key] = storedObject{body: string(data), contentType: opts.ContentType}
	return storage.Location(opts.Bucket, opts.Key), nil
}

func (m *memoryStorage) DeleteObject(_ context.Context, bucket, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, bucket+"/"+key)
	m.deleted = append(m.deleted, key)
	return nil
}

func (m *memoryStorage) GetObjectURL(_ context.Context, bucket, key string, expires time.Duration) (string, error) {
	return fmt.Sprintf("https://%s.example.test/%s?expires=%d", bucket, key, int(expires.Seconds())), nil
}

func (m *memoryStorage) object(bucket, key string) (storedObject, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.objects[bucket+"/"+key]
	return obj, ok
}

// racingUsers hides existing rows from the first few uniqueness pre-checks,
// as if another registration committed right after them.
type racingUsers struct {
	repository.UserRepository
	emailMisses int
	phoneMisses int
}

func (r *racingUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if r.emailMisses > 0 {
		r.emailMisses--
		return false, nil
	}
	return r.UserRepository.ExistsByEmail(ctx, email)
}

func (r *racingUsers) ExistsByPhoneNumber(ctx context.Context, phone string) (bool, error) {
	if r.phoneMisses > 0 {
		r.phoneMisses--
		return false, nil
	}
	return r.UserRepository.ExistsByPhoneNumber(ctx, phone)
}

// racingProducts never sees an existing SKU during the pre-check.
type racingProducts struct {
	repository.ProductRepository
}

func (racingProducts) ExistsBySKU(context.Context, string) (bool, error) {
	return false, nil
}
