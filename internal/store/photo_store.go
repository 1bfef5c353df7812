package store

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/patronum/backend/internal/models"
)

// ErrNotFound is returned when no record exists for the requested id.
var ErrNotFound = errors.New("photo not found")

// PhotoStore is the add/get/list/search contract over photo records.
// Records are append-only; the only in-place mutation after insert is the
// display URL backfill performed by read operations.
type PhotoStore interface {
	// Add builds a record from the given parts and stores it keyed by id.
	Add(ctx context.Context, id string, imageBytes []byte, imageURL, title, caption string, audio *string) (string, error)

	// Get returns the record for id, or ErrNotFound.
	Get(ctx context.Context, id string) (*models.PhotoRecord, error)

	// List returns all records keyed by id.
	List(ctx context.Context) (map[string]*models.PhotoRecord, error)

	// Search returns records whose title or caption contains the query,
	// case-insensitively. An empty query matches everything.
	Search(ctx context.Context, query string) (map[string]*models.PhotoRecord, error)
}

// MemoryStore keeps photo records in a process-local map. A single mutex
// serializes writes and read-time repairs; the store never shrinks and does
// not survive a restart.
type MemoryStore struct {
	mu     sync.Mutex
	photos map[string]*models.PhotoRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{photos: make(map[string]*models.PhotoRecord)}
}

func (s *MemoryStore) Add(ctx context.Context, id string, imageBytes []byte, imageURL, title, caption string, audio *string) (string, error) {
	rec := models.NewPhotoRecord(id, imageBytes, imageURL, title, caption, audio)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.photos[id] = rec
	return id, nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*models.PhotoRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.photos[id]
	if !ok {
		return nil, ErrNotFound
	}
	repairDisplayURL(rec)
	return copyRecord(rec), nil
}

func (s *MemoryStore) List(ctx context.Context) (map[string]*models.PhotoRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]*models.PhotoRecord, len(s.photos))
	for id, rec := range s.photos {
		repairDisplayURL(rec)
		out[id] = copyRecord(rec)
	}
	return out, nil
}

func (s *MemoryStore) Search(ctx context.Context, query string) (map[string]*models.PhotoRecord, error) {
	q := strings.ToLower(query)

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]*models.PhotoRecord)
	for id, rec := range s.photos {
		if matchesQuery(rec, q) {
			repairDisplayURL(rec)
			out[id] = copyRecord(rec)
		}
	}
	return out, nil
}

// repairDisplayURL backfills the derived display URL onto records created
// before the field existed. Callers must hold the store mutex.
func repairDisplayURL(rec *models.PhotoRecord) {
	if rec.DisplayURL == "" && rec.ImageData != "" {
		rec.DisplayURL = models.DataURI(rec.ImageData)
	}
}

// matchesQuery reports whether the lowercased query is a substring of the
// title or of a non-empty caption.
func matchesQuery(rec *models.PhotoRecord, q string) bool {
	if strings.Contains(strings.ToLower(rec.Title), q) {
		return true
	}
	return rec.Caption != "" && strings.Contains(strings.ToLower(rec.Caption), q)
}

func copyRecord(rec *models.PhotoRecord) *models.PhotoRecord {
	c := *rec
	return &c
}
