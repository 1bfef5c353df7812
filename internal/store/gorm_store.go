package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/patronum/backend/internal/models"
	"gorm.io/gorm"
)

// GormStore implements PhotoStore on a Postgres table. It is the production
// backing behind the same contract as MemoryStore.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Add(ctx context.Context, id string, imageBytes []byte, imageURL, title, caption string, audio *string) (string, error) {
	rec := models.NewPhotoRecord(id, imageBytes, imageURL, title, caption, audio)
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return "", fmt.Errorf("failed to create photo record: %w", err)
	}
	return id, nil
}

func (s *GormStore) Get(ctx context.Context, id string) (*models.PhotoRecord, error) {
	var rec models.PhotoRecord
	if err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load photo record: %w", err)
	}
	if err := s.repair(ctx, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *GormStore) List(ctx context.Context) (map[string]*models.PhotoRecord, error) {
	var recs []models.PhotoRecord
	if err := s.db.WithContext(ctx).Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to list photo records: %w", err)
	}
	return s.collect(ctx, recs)
}

func (s *GormStore) Search(ctx context.Context, query string) (map[string]*models.PhotoRecord, error) {
	pattern := likePattern(query)
	var recs []models.PhotoRecord
	err := s.db.WithContext(ctx).
		Where(`LOWER(title) LIKE ? ESCAPE '\' OR (caption <> '' AND LOWER(caption) LIKE ? ESCAPE '\')`, pattern, pattern).
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search photo records: %w", err)
	}
	return s.collect(ctx, recs)
}

// likeEscaper neutralizes LIKE metacharacters so the query is matched as a
// literal substring, mirroring MemoryStore semantics.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(query string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
}

func (s *GormStore) collect(ctx context.Context, recs []models.PhotoRecord) (map[string]*models.PhotoRecord, error) {
	out := make(map[string]*models.PhotoRecord, len(recs))
	for i := range recs {
		rec := &recs[i]
		if err := s.repair(ctx, rec); err != nil {
			return nil, err
		}
		out[rec.ID] = rec
	}
	return out, nil
}

// repair persists the display URL onto rows written before the column was
// derived, so the read invariant holds for legacy data too.
func (s *GormStore) repair(ctx context.Context, rec *models.PhotoRecord) error {
	if rec.DisplayURL != "" || rec.ImageData == "" {
		return nil
	}
	rec.DisplayURL = models.DataURI(rec.ImageData)
	err := s.db.WithContext(ctx).
		Model(&models.PhotoRecord{}).
		Where("id = ?", rec.ID).
		Update("display_url", rec.DisplayURL).Error
	if err != nil {
		return fmt.Errorf("failed to backfill display url: %w", err)
	}
	return nil
}
