// Package imaging recompresses raster images as JPEG at a chosen quality. Pixel
// dimensions are preserved; nothing is resized, cropped or colour-converted
// beyond what the JPEG encoder itself does.
package imaging

import (
	"bufio"
	"fmt"
	"image"
	"image/jpeg"
	"os"

	// Decoders for the source formats we accept.
	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/keshavrathinavel/Effects-of-Compression-and-Encryption-on-Medical-Images/internal/core/domain"
)

const (
	MinQuality     = 1
	MaxQuality     = 95
	DefaultQuality = 50
)

type JPEGCompressor struct{}

func NewJPEGCompressor() *JPEGCompressor {
	return &JPEGCompressor{}
}

// ValidateQuality reports whether q is an accepted quality factor.
func ValidateQuality(q int) error {
	if q < MinQuality || q > MaxQuality {
		return fmt.Errorf("%w: quality %d outside [%d,%d]", domain.ErrConfig, q, MinQuality, MaxQuality)
	}
	return nil
}

// Compress decodes sourcePath and writes it to destPath as a JPEG. The source
// is left in place. destPath is removed if encoding fails half-way.
func (c *JPEGCompressor) Compress(sourcePath, destPath string, quality int) (err error) {
	if err := ValidateQuality(quality); err != nil {
		return err
	}

	img, err := decode(sourcePath)
	if err != nil {
		return err
	}

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("%w: failed to create %s: %v", domain.ErrIO, destPath, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: failed to close %s: %v", domain.ErrIO, destPath, cerr)
		}
		if err != nil {
			os.Remove(destPath)
		}
	}()

	w := bufio.NewWriter(out)
	if err := jpeg.Encode(w, img, &jpeg.Options{Quality: quality}); err != nil {
		return fmt.Errorf("%w: failed to encode %s: %v", domain.ErrIO, destPath, err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("%w: failed to write %s: %v", domain.ErrIO, destPath, err)
	}
	return nil
}

func decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open %s: %v", domain.ErrIO, path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode %s: %v", domain.ErrIO, path, err)
	}
	return img, nil
}
