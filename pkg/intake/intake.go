package intake

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/webp"
)

// DefaultMaxBytes is the largest accepted upload (5MB).
const DefaultMaxBytes = 5 * 1024 * 1024

var (
	ErrEmpty           = errors.New("image is empty")
	ErrTooLarge        = errors.New("image too large")
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrDecode          = errors.New("image decode failed")
)

// SupportedTypes are the MIME types accepted for analysis.
var SupportedTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// Intake validates and decodes user-supplied photos.
type Intake struct {
	MaxBytes int64
}

// New returns an Intake limited to maxBytes (DefaultMaxBytes when <= 0).
func New(maxBytes int64) *Intake {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Intake{MaxBytes: maxBytes}
}

// Read reads at most MaxBytes from r and decodes the image.
func (in *Intake) Read(r io.Reader) (image.Image, string, error) {
	data, err := io.ReadAll(io.LimitReader(r, in.MaxBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("read upload: %w", err)
	}
	return in.Decode(data)
}

// Decode checks the payload is a supported image type and decodes it,
// applying EXIF orientation so phone photos come out upright. It returns the
// detected MIME type alongside the image.
func (in *Intake) Decode(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", ErrEmpty
	}
	if int64(len(data)) > in.MaxBytes {
		return nil, "", fmt.Errorf("%w: max %d bytes", ErrTooLarge, in.MaxBytes)
	}
	mt := mimetype.Detect(data)
	if !mimetype.EqualsAny(mt.String(), SupportedTypes...) {
		return nil, mt.String(), fmt.Errorf("%w: %s", ErrUnsupportedType, mt.String())
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, mt.String(), fmt.Errorf("%w: %w", ErrDecode, err)
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, mt.String(), fmt.Errorf("%w: empty bounds", ErrDecode)
	}
	return img, mt.String(), nil
}
