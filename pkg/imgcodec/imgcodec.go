// Package imgcodec converts between image files and the flat carrier byte
// sequence the embedding core works on: one byte per color channel per
// pixel, row-major, R/G/B interleaved. Alpha is dropped on decode and
// restored fully opaque on re-encode.
package imgcodec

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Channels is the number of carrier bytes contributed by each pixel.
const Channels = 3

// Carrier is a decoded image flattened to its channel bytes. Pix holds
// Width*Height*Channels bytes in the traversal order shared by embedding
// and extraction.
type Carrier struct {
	Pix    []byte
	Width  int
	Height int
}

// Decode reads any registered image format (PNG, JPEG, GIF, BMP, TIFF,
// WEBP) from r and flattens it.
func Decode(r io.Reader) (*Carrier, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return Flatten(img), nil
}

// DecodeFile opens and decodes the image at path.
func DecodeFile(path string) (*Carrier, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Flatten converts an image to its carrier byte sequence. Pixels are
// visited top-to-bottom, left-to-right, emitting R, G, B for each.
func Flatten(img image.Image) *Carrier {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	pix := make([]byte, 0, width*height*Channels)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			pix = append(pix, byte(r>>8), byte(g>>8), byte(b>>8))
		}
	}
	return &Carrier{Pix: pix, Width: width, Height: height}
}

// Image rebuilds an opaque RGBA image from the carrier bytes.
func (c *Carrier) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, c.Width, c.Height))
	i := 0
	for y := 0; y < c.Height; y++ {
		for x := 0; x < c.Width; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: c.Pix[i],
				G: c.Pix[i+1],
				B: c.Pix[i+2],
				A: 0xFF,
			})
			i += Channels
		}
	}
	return img
}

// WithPix returns a carrier of the same dimensions over a mutated pixel
// slice. The slice must have the original length.
func (c *Carrier) WithPix(pix []byte) (*Carrier, error) {
	if len(pix) != len(c.Pix) {
		return nil, fmt.Errorf("pixel slice length %d does not match carrier length %d",
			len(pix), len(c.Pix))
	}
	return &Carrier{Pix: pix, Width: c.Width, Height: c.Height}, nil
}

// Encode serializes the carrier to w in the given format. Only lossless
// formats are accepted: a lossy re-encode would destroy the embedded low
// bits.
func Encode(w io.Writer, c *Carrier, format string) error {
	img := c.Image()
	switch strings.ToLower(format) {
	case "png":
		return png.Encode(w, img)
	case "bmp":
		return bmp.Encode(w, img)
	case "tiff", "tif":
		return tiff.Encode(w, img, nil)
	case "jpg", "jpeg":
		return fmt.Errorf("jpeg output is not supported: lossy re-encoding destroys embedded data")
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// EncodeFile writes the carrier to path, picking the format from the file
// extension and defaulting to PNG when the extension is unknown.
func EncodeFile(path string, c *Carrier) error {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if format == "" {
		format = "png"
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if err := Encode(f, c, format); err != nil {
		return err
	}
	return f.Close()
}
