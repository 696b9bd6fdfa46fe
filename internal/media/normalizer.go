// Package media prepares uploaded images and hands them to an image host.
package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder
)

// ErrUnsupportedFormat is returned for anything other than JPEG, PNG, GIF or WebP.
var ErrUnsupportedFormat = errors.New("only image files are allowed")

// Image is a normalized upload ready for the host.
type Image struct {
	Data        []byte
	ContentType string
	Ext         string
	Width       int
	Height      int
}

// Normalizer auto-orients images and bounds their dimensions.
type Normalizer struct {
	maxDimension int
}

// NewNormalizer builds a normalizer. A non-positive bound disables resizing.
func NewNormalizer(maxDimension int) *Normalizer {
	return &Normalizer{maxDimension: maxDimension}
}

// Normalize sniffs the content type, applies the EXIF orientation and shrinks
// the image to fit within the configured bound.
func (n *Normalizer) Normalize(data []byte) (*Image, error) {
	mime := sniff(data)
	format, ok := outputFormat(mime)
	if !ok {
		return nil, ErrUnsupportedFormat
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if mime == "image/jpeg" {
		img = applyOrientation(img, readOrientation(bytes.NewReader(data)))
	}

	bounds := img.Bounds()
	if n.maxDimension > 0 && (bounds.Dx() > n.maxDimension || bounds.Dy() > n.maxDimension) {
		img = imaging.Fit(img, n.maxDimension, n.maxDimension, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format, imaging.JPEGQuality(90)); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}

	bounds = img.Bounds()
	return &Image{
		Data:        buf.Bytes(),
		ContentType: contentType(format),
		Ext:         extension(format),
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
	}, nil
}

func sniff(data []byte) string {
	ct := http.DetectContentType(data)
	if idx := strings.Index(ct, ";"); idx != -1 {
		ct = ct[:idx]
	}
	return ct
}

// outputFormat maps a sniffed type to the encoding used for storage. WebP has
// no pure Go encoder, so those uploads are stored as JPEG.
func outputFormat(mime string) (imaging.Format, bool) {
	switch mime {
	case "image/jpeg":
		return imaging.JPEG, true
	case "image/png":
		return imaging.PNG, true
	case "image/gif":
		return imaging.GIF, true
	case "image/webp":
		return imaging.JPEG, true
	default:
		return 0, false
	}
}

func contentType(f imaging.Format) string {
	switch f {
	case imaging.PNG:
		return "image/png"
	case imaging.GIF:
		return "image/gif"
	default:
		return "image/jpeg"
	}
}

func extension(f imaging.Format) string {
	switch f {
	case imaging.PNG:
		return ".png"
	case imaging.GIF:
		return ".gif"
	default:
		return ".jpg"
	}
}

func readOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return orientation
}

func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}
