package imageprocessor

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Processor builds thumbnails for uploaded message images.
type Processor struct {
	quality int // JPEG quality (1-100)
}

func NewProcessor(quality int) *Processor {
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	return &Processor{quality: quality}
}

// Thumbnail is an encoded preview image.
type Thumbnail struct {
	Data        []byte
	ContentType string
	Width       int
	Height      int
}

// Thumbnail scales data down to maxWidth keeping the aspect ratio.
// Images already narrower than maxWidth are re-encoded at their own size.
// PNG sources stay PNG to keep transparency; everything else becomes JPEG.
func (p *Processor) Thumbnail(data []byte, maxWidth int) (*Thumbnail, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	resized := p.resize(img, maxWidth)
	bounds := resized.Bounds()

	var buf bytes.Buffer
	thumb := &Thumbnail{Width: bounds.Dx(), Height: bounds.Dy()}
	if format == "png" {
		if err := png.Encode(&buf, resized); err != nil {
			return nil, fmt.Errorf("failed to encode PNG: %w", err)
		}
		thumb.ContentType = "image/png"
	} else {
		if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: p.quality}); err != nil {
			return nil, fmt.Errorf("failed to encode JPEG: %w", err)
		}
		thumb.ContentType = "image/jpeg"
	}
	thumb.Data = buf.Bytes()
	return thumb, nil
}

func (p *Processor) resize(img image.Image, maxWidth int) image.Image {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if maxWidth <= 0 || width <= maxWidth {
		maxWidth = width
	}

	newHeight := height * maxWidth / width
	if newHeight < 1 {
		newHeight = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

// IsImage reports whether data decodes as a supported image.
func IsImage(data []byte) bool {
	_, _, err := image.DecodeConfig(bytes.NewReader(data))
	return err == nil
}
