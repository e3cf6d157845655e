package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pillpal/pillpal/internal/models"
)

// ErrNotFound reports an absent blob, which is not an error condition for
// the manager: it just keeps its defaults.
var ErrNotFound = errors.New("session: blob not found")

// BlobStore is the durable-storage port for persisted session blobs.
type BlobStore interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, blob []byte) error
	Remove(ctx context.Context, key string) error
}

// MemoryStore keeps blobs in a map. Used by tests and as a fallback when no
// database is configured; state then lives only as long as the process.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

func (s *MemoryStore) Load(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	blob, ok := s.blobs[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(blob))
	copy(out, blob)
	return out, nil
}

func (s *MemoryStore) Save(_ context.Context, key string, blob []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(blob))
	copy(cp, blob)
	s.blobs[key] = cp
	return nil
}

func (s *MemoryStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, key)
	return nil
}

// GormStore persists one row per session key.
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) Load(ctx context.Context, key string) ([]byte, error) {
	var rec models.SessionRecord
	if err := s.DB.WithContext(ctx).First(&rec, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rec.Blob, nil
}

func (s *GormStore) Save(ctx context.Context, key string, blob []byte) error {
	rec := models.SessionRecord{Key: key, Blob: blob, UpdatedAt: time.Now().UTC()}
	return s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"blob", "updated_at"}),
		}).
		Create(&rec).Error
}

func (s *GormStore) Remove(ctx context.Context, key string) error {
	return s.DB.WithContext(ctx).Delete(&models.SessionRecord{}, "key = ?", key).Error
}
