package stego

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
)

// Grid is a raster of 8-bit channel values.
// Pix holds Channels bytes per pixel, rows top to bottom, no padding between rows,
// so index order is raster order.
type Grid struct {
	Width    int
	Height   int
	Channels int
	Pix      []uint8
}

// NewGrid allocates a zeroed grid
func NewGrid(width, height, channels int) *Grid {
	return &Grid{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]uint8, width*height*channels),
	}
}

// Validate checks the dimensions agree with the backing slice
func (g *Grid) Validate() error {
	if g == nil {
		return fmt.Errorf("%w: nil", ErrInvalidGrid)
	}
	if g.Width <= 0 || g.Height <= 0 || g.Channels <= 0 {
		return fmt.Errorf("%w: %dx%d with %d channels", ErrInvalidGrid, g.Width, g.Height, g.Channels)
	}
	if len(g.Pix) != g.Width*g.Height*g.Channels {
		return fmt.Errorf("%w: have %d bytes, want %d", ErrInvalidGrid, len(g.Pix), g.Width*g.Height*g.Channels)
	}
	return nil
}

// NumPixels returns Width*Height
func (g *Grid) NumPixels() int {
	return g.Width * g.Height
}

// Pixel returns the channel values of pixel i in raster order
func (g *Grid) Pixel(i int) []uint8 {
	off := i * g.Channels
	return g.Pix[off : off+g.Channels : off+g.Channels]
}

// Clone returns a deep copy
func (g *Grid) Clone() *Grid {
	c := *g
	c.Pix = make([]uint8, len(g.Pix))
	copy(c.Pix, g.Pix)
	return &c
}

// FromImage copies an image into a grid.
// Gray images keep a single channel; everything else becomes non-premultiplied RGBA
// so that alpha never rewrites the colour LSBs.
func FromImage(img image.Image) *Grid {
	b := img.Bounds()
	switch src := img.(type) {
	case *image.Gray:
		g := NewGrid(b.Dx(), b.Dy(), 1)
		for y := 0; y < b.Dy(); y++ {
			row := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):]
			copy(g.Pix[y*g.Width:(y+1)*g.Width], row[:g.Width])
		}
		return g
	case *image.NRGBA:
		return fromNRGBA(src)
	default:
		nrgba := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(nrgba, nrgba.Bounds(), img, b.Min, draw.Src)
		return fromNRGBA(nrgba)
	}
}

func fromNRGBA(src *image.NRGBA) *Grid {
	b := src.Bounds()
	g := NewGrid(b.Dx(), b.Dy(), 4)
	stride := g.Width * 4
	for y := 0; y < b.Dy(); y++ {
		row := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):]
		copy(g.Pix[y*stride:(y+1)*stride], row[:stride])
	}
	return g
}

// Image converts the grid back to an image.Image.
// One channel yields *image.Gray, four yield *image.NRGBA. Two channels are read
// as gray+alpha and three as RGB, both widened to NRGBA.
func (g *Grid) Image() image.Image {
	r := image.Rect(0, 0, g.Width, g.Height)
	switch g.Channels {
	case 1:
		img := image.NewGray(r)
		copy(img.Pix, g.Pix)
		return img
	case 4:
		img := image.NewNRGBA(r)
		copy(img.Pix, g.Pix)
		return img
	}
	img := image.NewNRGBA(r)
	for i := 0; i < g.NumPixels(); i++ {
		px := g.Pixel(i)
		var c color.NRGBA
		switch g.Channels {
		case 2:
			c = color.NRGBA{R: px[0], G: px[0], B: px[0], A: px[1]}
		case 3:
			c = color.NRGBA{R: px[0], G: px[1], B: px[2], A: 0xFF}
		default:
			c = color.NRGBA{R: px[0], G: px[1], B: px[2], A: px[3]}
		}
		img.SetNRGBA(i%g.Width, i/g.Width, c)
	}
	return img
}
