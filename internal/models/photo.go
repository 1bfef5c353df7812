package models

import (
	"encoding/base64"
	"time"
)

// PhotoRecord represents one uploaded photo together with its derived
// artifacts: the S3 URL of the compressed copy, the generated caption and
// the synthesized narration audio.
type PhotoRecord struct {
	ID         string    `gorm:"primaryKey;size:64" json:"-"`
	Title      string    `gorm:"size:255" json:"title"`
	ImageURL   string    `gorm:"size:1024" json:"image_url"`
	ImageData  string    `gorm:"type:text" json:"image_data"` // base64 of the original bytes
	Caption    string    `gorm:"type:text" json:"caption"`
	Audio      *string   `gorm:"type:text" json:"audio"` // base64 MP3, null when synthesis failed
	Timestamp  time.Time `json:"timestamp"`
	DisplayURL string    `gorm:"type:text" json:"display_url"`
}

func (PhotoRecord) TableName() string {
	return "photo_records"
}

// NewPhotoRecord builds a record from the original image bytes and the
// artifacts produced during upload. The title falls back to the id and the
// display URL is computed eagerly at insertion.
func NewPhotoRecord(id string, imageBytes []byte, imageURL, title, caption string, audio *string) *PhotoRecord {
	encoded := base64.StdEncoding.EncodeToString(imageBytes)
	if title == "" {
		title = id
	}
	return &PhotoRecord{
		ID:         id,
		Title:      title,
		ImageURL:   imageURL,
		ImageData:  encoded,
		Caption:    caption,
		Audio:      audio,
		Timestamp:  time.Now().UTC(),
		DisplayURL: DataURI(encoded),
	}
}

// DataURI returns the inline data-URI view of base64 image data, usable by a
// rendering client without a separate fetch.
func DataURI(imageBase64 string) string {
	return "data:image/jpeg;base64," + imageBase64
}

// RawImage decodes the stored base64 image data back to the original bytes.
func (p *PhotoRecord) RawImage() ([]byte, error) {
	return base64.StdEncoding.DecodeString(p.ImageData)
}
