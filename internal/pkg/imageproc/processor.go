package imageproc

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Decode parses uploaded image bytes. PNG and JPEG are registered by the
// imaging package.
func Decode(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// FileExt sniffs the encoded format of image bytes and returns a filename
// extension for it, falling back to ".bin" for unrecognized data.
func FileExt(data []byte) string {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return ".bin"
	}
	if format == "jpeg" {
		return ".jpg"
	}
	return "." + format
}

// CompressJPEG downscales the image so neither dimension exceeds maxDim
// (never upscaling) and re-encodes it as lossy JPEG at the given quality.
// This copy is what gets uploaded; the original bytes stay untouched.
func CompressJPEG(img image.Image, maxDim, quality int) ([]byte, error) {
	bounds := img.Bounds()
	if bounds.Dx() > maxDim || bounds.Dy() > maxDim {
		img = imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
