package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/patronum/backend/internal/config"
	"github.com/patronum/backend/internal/services"
	"github.com/patronum/backend/internal/store"
	"github.com/patronum/backend/pkg/validation"
)

type AlbumHandler struct {
	albumService *services.AlbumService
	photos       store.PhotoStore
	cfg          *config.Config
}

func NewAlbumHandler(albumService *services.AlbumService, photos store.PhotoStore, cfg *config.Config) *AlbumHandler {
	return &AlbumHandler{
		albumService: albumService,
		photos:       photos,
		cfg:          cfg,
	}
}

// UploadPhoto handles photo upload and processing.
// POST /upload
// Multipart form: photo (required), title (optional)
func (h *AlbumHandler) UploadPhoto(c *gin.Context) {
	file, header, err := c.Request.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no photo provided"})
		return
	}
	defer file.Close()

	if !validation.AllowedImageExtension(header.Filename, h.cfg.AllowedExtensions) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported file extension"})
		return
	}
	if header.Size > h.cfg.MaxUploadBytes() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large"})
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read file"})
		return
	}

	title := validation.SanitizeTitle(c.PostForm("title"))

	id, err := h.albumService.AddPhoto(c.Request.Context(), data, title)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	record, err := h.photos.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load stored photo"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "success",
		"photo_id": id,
		"details":  record,
	})
}

// ListPhotos lists all photos in the album.
// GET /photos
func (h *AlbumHandler) ListPhotos(c *gin.Context) {
	photos, err := h.photos.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list photos"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_photos": len(photos),
		"photos":       photos,
	})
}

// GetPhoto returns one photo record including caption and audio.
// GET /photos/:id
func (h *AlbumHandler) GetPhoto(c *gin.Context) {
	record, err := h.photos.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "photo not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load photo"})
		return
	}

	c.JSON(http.StatusOK, record)
}

// GetPhotoImage serves the original image bytes.
// GET /photos/:id/image
func (h *AlbumHandler) GetPhotoImage(c *gin.Context) {
	record, err := h.photos.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "photo not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load photo"})
		return
	}

	raw, err := record.RawImage()
	if err != nil || len(raw) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "photo not found"})
		return
	}

	c.Data(http.StatusOK, "image/jpeg", raw)
}

// SearchPhotos searches photos by title or caption.
// GET /search?query=...
func (h *AlbumHandler) SearchPhotos(c *gin.Context) {
	matches, err := h.photos.Search(c.Request.Context(), c.Query("query"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to search photos"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":        "success",
		"total_results": len(matches),
		"photos":        matches,
	})
}
