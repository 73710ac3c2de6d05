package pngpixel

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
)

// Pixels is a decoded frame raster: straight-alpha RGBA8, one row after
// another with no padding (Stride == Width*4).
type Pixels struct {
	Pix           []byte
	Width, Height int
	Stride        int
}

// DecodeFrame inflates compressed (the concatenated IDAT, or de-sequenced
// fdAT, payloads for one frame) and normalizes it into an RGBA8 Pixels
// buffer sized frameWidth x frameHeight, merging Adam7 passes internally
// when ihdr.Interlace is set so the caller only ever sees row-complete
// final-resolution data.
func DecodeFrame(ihdr IHDR, palette []byte, trns Trns, compressed []byte, frameWidth, frameHeight int) (Pixels, error) {
	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return Pixels{}, fmt.Errorf("%w: %v", ErrInternalPipeline, err)
	}
	defer zr.Close()

	out := Pixels{
		Pix:    make([]byte, frameWidth*frameHeight*4),
		Width:  frameWidth,
		Height: frameHeight,
		Stride: frameWidth * 4,
	}

	channels := ihdr.Channels()

	if !ihdr.Interlace {
		err := decodePlane(zr, frameWidth, frameHeight, channels, ihdr.BitDepth, func(y int, row []byte) error {
			expandRow(ihdr, palette, trns, row, frameWidth, out.Pix[y*out.Stride:(y+1)*out.Stride])
			return nil
		})
		if err != nil {
			return Pixels{}, err
		}
		return out, nil
	}

	for pass := 0; pass < 7; pass++ {
		pw, ph := passDimensions(frameWidth, frameHeight, pass)
		if pw == 0 || ph == 0 {
			continue
		}
		g := adam7Passes[pass]
		passRow := make([]byte, pw*4)
		err := decodePlane(zr, pw, ph, channels, ihdr.BitDepth, func(py int, row []byte) error {
			expandRow(ihdr, palette, trns, row, pw, passRow)
			destY := g.yStart + py*g.yStep
			for px := 0; px < pw; px++ {
				destX := g.xStart + px*g.xStep
				copy(out.Pix[destY*out.Stride+destX*4:], passRow[px*4:px*4+4])
			}
			return nil
		})
		if err != nil {
			return Pixels{}, err
		}
	}
	return out, nil
}

// decodePlane reads height filter-prefixed scanlines of the given sample
// geometry from zr, reconstructs each in place, and invokes emit with the
// reconstructed bytes before the row's storage is reused. emit must not
// retain the slice it is given.
func decodePlane(zr io.Reader, width, height, channels, bitDepth int, emit func(y int, row []byte) error) error {
	if width == 0 || height == 0 {
		return nil
	}
	rb := rowBytes(width, channels, bitDepth)
	bpp := bppBytes(channels, bitDepth)
	prev := make([]byte, rb)
	cur := make([]byte, rb)

	for y := 0; y < height; y++ {
		var ft [1]byte
		if _, err := io.ReadFull(zr, ft[:]); err != nil {
			return fmt.Errorf("%w: reading filter byte: %v", ErrInternalPipeline, err)
		}
		if _, err := io.ReadFull(zr, cur); err != nil {
			return fmt.Errorf("%w: reading scanline %d: %v", ErrInternalPipeline, y, err)
		}
		if !unfilterRow(ft[0], cur, prev, bpp) {
			return fmt.Errorf("%w: filter type %d", ErrUnsupportedFormat, ft[0])
		}
		if err := emit(y, cur); err != nil {
			return err
		}
		prev, cur = cur, prev
	}
	return nil
}

func rowBytes(width, channels, bitDepth int) int {
	return (width*channels*bitDepth + 7) / 8
}

func bppBytes(channels, bitDepth int) int {
	b := (channels*bitDepth + 7) / 8
	if b < 1 {
		return 1
	}
	return b
}
