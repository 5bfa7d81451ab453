// Package imageio loads and saves carrier images and payload files.
//
// Decoding accepts every registered format. Encoding is limited to lossless
// formats, since a lossy writer would destroy the embedded LSBs.
package imageio

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/jpfielding/stego.go/pkg/stego"
)

// ErrUnsupportedFormat signals an output format that cannot carry LSB data
var ErrUnsupportedFormat = errors.New("imageio: unsupported output format")

// Lossless output formats
const (
	FormatPNG  = "png"
	FormatBMP  = "bmp"
	FormatTIFF = "tiff"
)

var extFormats = map[string]string{
	".png":  FormatPNG,
	".bmp":  FormatBMP,
	".tif":  FormatTIFF,
	".tiff": FormatTIFF,
}

// FormatFromPath picks a lossless output format from the file extension
func FormatFromPath(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := extFormats[ext]; ok {
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
}

// Decode reads an image into a grid and reports its format name
func Decode(r io.Reader) (*stego.Grid, string, error) {
	img, format, err := image.Decode(bufio.NewReader(r))
	if err != nil {
		return nil, "", fmt.Errorf("imageio: decode image: %w", err)
	}
	return stego.FromImage(img), format, nil
}

// Load reads an image file into a grid
func Load(path string) (*stego.Grid, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("imageio: open image: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Encode writes the grid to w in a lossless format
func Encode(w io.Writer, g *stego.Grid, format string) error {
	if err := encodable(g, format); err != nil {
		return err
	}
	img := g.Image()
	var err error
	switch format {
	case FormatPNG:
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		err = enc.Encode(w, img)
	case FormatBMP:
		err = bmp.Encode(w, img)
	case FormatTIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	}
	if err != nil {
		return fmt.Errorf("imageio: encode %s: %w", format, err)
	}
	return nil
}

// encodable reports whether format can store every byte of g.
// BMP has no alpha that survives a round trip, so only opaque grids qualify.
func encodable(g *stego.Grid, format string) error {
	if err := g.Validate(); err != nil {
		return err
	}
	switch format {
	case FormatPNG, FormatTIFF:
		return nil
	case FormatBMP:
		if !opaque(g) {
			return fmt.Errorf("%w: bmp cannot store alpha, use png or tiff", ErrUnsupportedFormat)
		}
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

func opaque(g *stego.Grid) bool {
	if g.Channels != 2 && g.Channels != 4 {
		return true
	}
	for i := g.Channels - 1; i < len(g.Pix); i += g.Channels {
		if g.Pix[i] != 0xFF {
			return false
		}
	}
	return true
}

// Save writes the grid to path, format chosen by extension.
// Nothing is left behind when the grid or format is rejected or the write fails.
func Save(g *stego.Grid, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if err := encodable(g, format); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("imageio: create image: %w", err)
	}
	bw := bufio.NewWriter(f)
	err = Encode(bw, g, format)
	if err == nil {
		if ferr := bw.Flush(); ferr != nil {
			err = fmt.Errorf("imageio: write image: %w", ferr)
		}
	}
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("imageio: close image: %w", cerr)
	}
	if err != nil {
		os.Remove(path)
		return err
	}
	return nil
}
