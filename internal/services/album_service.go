package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patronum/backend/internal/config"
	"github.com/patronum/backend/internal/pkg/imageproc"
	"github.com/patronum/backend/internal/store"
)

// Static errors. The HTTP layer maps these to status codes with errors.Is.
var (
	ErrDecode   = errors.New("unsupported or corrupt image")
	ErrUpstream = errors.New("upstream service failure")
)

// MediaCaptioner produces a narrative caption for an image reachable at a
// public URL. The optional title hint changes the prompt framing only.
type MediaCaptioner interface {
	Caption(ctx context.Context, imageURL, titleHint string) (string, error)
}

// SpeechSynthesizer converts caption text to encoded audio.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// BlobStore uploads bytes to durable storage and returns a public URL.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// AlbumService orchestrates one photo upload: compress, push to blob
// storage, caption, narrate, and commit the record.
type AlbumService struct {
	cfg       *config.Config
	photos    store.PhotoStore
	blobs     BlobStore
	captioner MediaCaptioner
	synth     SpeechSynthesizer
	storage   *StorageService
}

func NewAlbumService(cfg *config.Config, photos store.PhotoStore, blobs BlobStore, captioner MediaCaptioner, synth SpeechSynthesizer, storage *StorageService) *AlbumService {
	return &AlbumService{
		cfg:       cfg,
		photos:    photos,
		blobs:     blobs,
		captioner: captioner,
		synth:     synth,
		storage:   storage,
	}
}

// AddPhoto processes one upload and returns the new photo id. A record is
// never committed without a caption; a failed narration still commits the
// record with null audio.
func (s *AlbumService) AddPhoto(ctx context.Context, imageBytes []byte, title string) (string, error) {
	img, err := imageproc.Decode(imageBytes)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecode, err)
	}

	compressed, err := imageproc.CompressJPEG(img, s.cfg.MaxImageDimension, s.cfg.JPEGQuality)
	if err != nil {
		return "", fmt.Errorf("failed to compress image: %w", err)
	}

	key := fmt.Sprintf("photos/%s.jpg", uuid.New().String())
	imageURL, err := s.blobs.Put(ctx, key, compressed, "image/jpeg")
	if err != nil {
		return "", fmt.Errorf("%w: upload: %v", ErrUpstream, err)
	}

	caption, err := s.captioner.Caption(ctx, imageURL, title)
	if err != nil {
		return "", fmt.Errorf("%w: caption: %v", ErrUpstream, err)
	}
	if strings.TrimSpace(caption) == "" {
		return "", fmt.Errorf("%w: caption: empty response", ErrUpstream)
	}

	// Narration failure is tolerated; the record is committed without audio.
	var audio *string
	if audioBytes, synthErr := s.synth.Synthesize(ctx, caption); synthErr != nil {
		log.Printf("Speech synthesis failed, storing photo without audio: %v", synthErr)
	} else {
		encoded := base64.StdEncoding.EncodeToString(audioBytes)
		audio = &encoded
	}

	id := newPhotoID()

	if s.storage != nil {
		key := fmt.Sprintf("originals/%s%s", id, imageproc.FileExt(imageBytes))
		if _, _, _, archErr := s.storage.SaveStream(ctx, key, bytes.NewReader(imageBytes)); archErr != nil {
			log.Printf("Warning: failed to archive original photo: %v", archErr)
		}
	}

	return s.photos.Add(ctx, id, imageBytes, imageURL, title, caption, audio)
}

// newPhotoID combines a human-readable timestamp prefix with a random
// suffix so same-second uploads cannot collide.
func newPhotoID() string {
	return fmt.Sprintf("%s_%s", time.Now().UTC().Format("20060102_150405"), uuid.New().String()[:8])
}
