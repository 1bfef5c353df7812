package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowedImageExtension(t *testing.T) {
	allowed := []string{"png", "jpg", "jpeg"}

	assert.True(t, AllowedImageExtension("photo.png", allowed))
	assert.True(t, AllowedImageExtension("photo.JPG", allowed))
	assert.True(t, AllowedImageExtension("my.holiday.jpeg", allowed))
	assert.False(t, AllowedImageExtension("document.pdf", allowed))
	assert.False(t, AllowedImageExtension("noextension", allowed))
	assert.False(t, AllowedImageExtension("", allowed))
}

func TestSanitizeTitle(t *testing.T) {
	assert.Equal(t, "Sunset at the lake", SanitizeTitle("  Sunset at the lake  "))
	assert.Equal(t, "clean", SanitizeTitle("cle\x00an"))
	assert.Equal(t, "", SanitizeTitle("   "))
}
