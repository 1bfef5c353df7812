package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/patronum/backend/internal/config"
	"github.com/patronum/backend/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBlobStore struct {
	url     string
	err     error
	gotKey  string
	gotData []byte
	calls   int
}

func (f *fakeBlobStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	f.calls++
	f.gotKey = key
	f.gotData = data
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

type fakeCaptioner struct {
	caption string
	err     error
	gotURL  string
	gotHint string
}

func (f *fakeCaptioner) Caption(ctx context.Context, imageURL, titleHint string) (string, error) {
	f.gotURL = imageURL
	f.gotHint = titleHint
	return f.caption, f.err
}

type fakeSynth struct {
	audio []byte
	err   error
}

func (f *fakeSynth) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.audio, nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Env:               "test",
		MaxImageDimension: 800,
		JPEGQuality:       70,
		MaxUploadSizeMB:   16,
		AllowedExtensions: []string{"png", "jpg", "jpeg"},
		PhotoStoragePath:  t.TempDir(),
	}
}

func testImage(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.RGBA{R: 10, G: 120, B: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestAddPhoto_Success(t *testing.T) {
	photos := store.NewMemoryStore()
	blobs := &fakeBlobStore{url: "https://bucket.s3.amazonaws.com/photos/x.jpg"}
	captioner := &fakeCaptioner{caption: "I remember standing by the water..."}
	synth := &fakeSynth{audio: []byte("mp3-bytes")}
	svc := NewAlbumService(testConfig(t), photos, blobs, captioner, synth, nil)

	original := testImage(t, 1200, 600)
	id, err := svc.AddPhoto(context.Background(), original, "Sunset at the lake")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	assert.True(t, strings.HasPrefix(blobs.gotKey, "photos/"))
	assert.True(t, strings.HasSuffix(blobs.gotKey, ".jpg"))
	// The compressed copy goes upstream, not the original bytes
	assert.NotEqual(t, original, blobs.gotData)
	assert.Equal(t, blobs.url, captioner.gotURL)
	assert.Equal(t, "Sunset at the lake", captioner.gotHint)

	rec, err := photos.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Sunset at the lake", rec.Title)
	assert.Equal(t, captioner.caption, rec.Caption)
	assert.Equal(t, blobs.url, rec.ImageURL)
	// The original bytes are retained for local re-serving
	assert.Equal(t, base64.StdEncoding.EncodeToString(original), rec.ImageData)
	require.NotNil(t, rec.Audio)
	assert.Equal(t, base64.StdEncoding.EncodeToString(synth.audio), *rec.Audio)
	assert.NotEmpty(t, rec.DisplayURL)
}

func TestAddPhoto_NoTitleDefaultsToID(t *testing.T) {
	photos := store.NewMemoryStore()
	svc := NewAlbumService(testConfig(t), photos, &fakeBlobStore{url: "u"}, &fakeCaptioner{caption: "c"}, &fakeSynth{audio: []byte("a")}, nil)

	id, err := svc.AddPhoto(context.Background(), testImage(t, 50, 50), "")
	require.NoError(t, err)

	rec, err := photos.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, rec.Title)
}

func TestAddPhoto_DecodeFailure(t *testing.T) {
	photos := store.NewMemoryStore()
	blobs := &fakeBlobStore{url: "u"}
	svc := NewAlbumService(testConfig(t), photos, blobs, &fakeCaptioner{caption: "c"}, &fakeSynth{}, nil)

	_, err := svc.AddPhoto(context.Background(), []byte("not an image"), "title")
	assert.ErrorIs(t, err, ErrDecode)
	assert.Zero(t, blobs.calls)

	all, err := photos.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestAddPhoto_UploadFailureAborts(t *testing.T) {
	photos := store.NewMemoryStore()
	svc := NewAlbumService(testConfig(t), photos, &fakeBlobStore{err: errors.New("s3 down")}, &fakeCaptioner{caption: "c"}, &fakeSynth{}, nil)

	_, err := svc.AddPhoto(context.Background(), testImage(t, 50, 50), "title")
	assert.ErrorIs(t, err, ErrUpstream)

	all, err := photos.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestAddPhoto_CaptionFailureCommitsNothing(t *testing.T) {
	photos := store.NewMemoryStore()
	svc := NewAlbumService(testConfig(t), photos, &fakeBlobStore{url: "u"}, &fakeCaptioner{err: errors.New("api error")}, &fakeSynth{audio: []byte("a")}, nil)

	_, err := svc.AddPhoto(context.Background(), testImage(t, 50, 50), "title")
	assert.ErrorIs(t, err, ErrUpstream)

	all, err := photos.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestAddPhoto_EmptyCaptionAborts(t *testing.T) {
	photos := store.NewMemoryStore()
	svc := NewAlbumService(testConfig(t), photos, &fakeBlobStore{url: "u"}, &fakeCaptioner{caption: "   "}, &fakeSynth{}, nil)

	_, err := svc.AddPhoto(context.Background(), testImage(t, 50, 50), "title")
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestAddPhoto_SynthesisFailureStillCommits(t *testing.T) {
	photos := store.NewMemoryStore()
	svc := NewAlbumService(testConfig(t), photos, &fakeBlobStore{url: "u"}, &fakeCaptioner{caption: "a caption"}, &fakeSynth{err: errors.New("tts down")}, nil)

	id, err := svc.AddPhoto(context.Background(), testImage(t, 50, 50), "title")
	require.NoError(t, err)

	rec, err := photos.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "a caption", rec.Caption)
	assert.Nil(t, rec.Audio)
}

func TestAddPhoto_ArchivesOriginalLocally(t *testing.T) {
	cfg := testConfig(t)
	photos := store.NewMemoryStore()
	storage := NewStorageService(cfg)
	svc := NewAlbumService(cfg, photos, &fakeBlobStore{url: "u"}, &fakeCaptioner{caption: "c"}, &fakeSynth{audio: []byte("a")}, storage)

	original := testImage(t, 50, 50)
	id, err := svc.AddPhoto(context.Background(), original, "")
	require.NoError(t, err)

	// The archive keeps the upload's own format, not the compressed copy's
	archived, err := os.ReadFile(filepath.Join(cfg.PhotoStoragePath, "originals", id+".png"))
	require.NoError(t, err)
	assert.Equal(t, original, archived)
}

func TestNewPhotoID_UniqueWithinSameSecond(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := newPhotoID()
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}
