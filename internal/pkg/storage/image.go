package storage

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"io"

	"github.com/disintegration/imaging"
)

// ImageProcessor produces JPEG thumbnails for uploaded item images.
type ImageProcessor struct {
	quality int
}

// NewImageProcessor creates an ImageProcessor with default JPEG quality.
func NewImageProcessor() *ImageProcessor {
	return &ImageProcessor{quality: 80}
}

// Thumbnail decodes the source image and fits it inside maxWidth x maxHeight,
// preserving aspect ratio. The result is always JPEG.
func (p *ImageProcessor) Thumbnail(content io.Reader, maxWidth, maxHeight int) (io.Reader, error) {
	img, _, err := image.Decode(content)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	thumb := imaging.Fit(img, maxWidth, maxHeight, imaging.Lanczos)

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, thumb, &jpeg.Options{Quality: p.quality}); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf, nil
}
