// Package pngpixel normalizes PNG/APNG chunk data into 8-bit RGBA rasters:
// gray promotion, palette expansion, tRNS application, 16-to-8-bit
// stripping, and Adam7 deinterlacing.
package pngpixel

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrUnsupportedFormat is returned for an IHDR/filter/color-type
// combination this pipeline cannot normalize.
var ErrUnsupportedFormat = errors.New("pngpixel: unsupported format")

// ErrInternalPipeline wraps a failure from the DEFLATE decompressor while
// inflating IDAT/fdAT data.
var ErrInternalPipeline = errors.New("pngpixel: inflate failed")

// ColorType is a PNG IHDR color type.
type ColorType int

const (
	ColorGray           ColorType = 0
	ColorTrueColor       ColorType = 2
	ColorPalette         ColorType = 3
	ColorGrayAlpha       ColorType = 4
	ColorTrueColorAlpha ColorType = 6
)

// IHDR holds the normalized fields of a PNG header chunk.
type IHDR struct {
	Width, Height int
	BitDepth      int
	ColorType     ColorType
	Interlace     bool
}

const ihdrSize = 13

// ParseIHDR parses and validates an IHDR chunk's payload.
func ParseIHDR(data []byte) (IHDR, error) {
	if len(data) != ihdrSize {
		return IHDR{}, fmt.Errorf("%w: IHDR length %d, want %d", ErrUnsupportedFormat, len(data), ihdrSize)
	}
	width := int(binary.BigEndian.Uint32(data[0:4]))
	height := int(binary.BigEndian.Uint32(data[4:8]))
	if width <= 0 || height <= 0 {
		return IHDR{}, fmt.Errorf("%w: non-positive canvas dimensions %dx%d", ErrUnsupportedFormat, width, height)
	}
	bitDepth := int(data[8])
	colorType := ColorType(data[9])
	compression := data[10]
	filterMethod := data[11]
	interlace := data[12]

	if compression != 0 {
		return IHDR{}, fmt.Errorf("%w: compression method %d", ErrUnsupportedFormat, compression)
	}
	if filterMethod != 0 {
		return IHDR{}, fmt.Errorf("%w: filter method %d", ErrUnsupportedFormat, filterMethod)
	}
	if interlace > 1 {
		return IHDR{}, fmt.Errorf("%w: interlace method %d", ErrUnsupportedFormat, interlace)
	}
	if !validBitDepth(colorType, bitDepth) {
		return IHDR{}, fmt.Errorf("%w: color type %d with bit depth %d", ErrUnsupportedFormat, colorType, bitDepth)
	}

	return IHDR{
		Width:     width,
		Height:    height,
		BitDepth:  bitDepth,
		ColorType: colorType,
		Interlace: interlace == 1,
	}, nil
}

func validBitDepth(ct ColorType, bitDepth int) bool {
	switch ct {
	case ColorGray:
		return bitDepth == 1 || bitDepth == 2 || bitDepth == 4 || bitDepth == 8 || bitDepth == 16
	case ColorTrueColor, ColorGrayAlpha, ColorTrueColorAlpha:
		return bitDepth == 8 || bitDepth == 16
	case ColorPalette:
		return bitDepth == 1 || bitDepth == 2 || bitDepth == 4 || bitDepth == 8
	default:
		return false
	}
}

// Channels returns the number of samples per pixel before RGBA normalization.
func (ih IHDR) Channels() int {
	switch ih.ColorType {
	case ColorGray, ColorPalette:
		return 1
	case ColorTrueColor:
		return 3
	case ColorGrayAlpha:
		return 2
	case ColorTrueColorAlpha:
		return 4
	default:
		return 0
	}
}
