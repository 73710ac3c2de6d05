// Package core implements the Animation Controller: canvas reconstruction
// for an APNG frame sequence (dispose/blend compositing), following the
// same structural shape as an animation-decoding package assembling frames
// onto a persistent canvas, adapted here to PNG/APNG's fcTL semantics.
package core

import (
	"fmt"
	"image"
)

// Raster is a straight-alpha RGBA8 image buffer with no row padding.
type Raster struct {
	Pix           []byte
	Width, Height int
}

// NewRaster allocates a fully transparent raster of the given size.
func NewRaster(width, height int) Raster {
	return Raster{Pix: make([]byte, width*height*4), Width: width, Height: height}
}

// Image returns r as a standard library image, sharing no memory with r.
// Straight (non-premultiplied) alpha maps directly onto image.NRGBA.
func (r Raster) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, r.Width, r.Height))
	copy(img.Pix, r.Pix)
	return img
}

func (r Raster) stride() int { return r.Width * 4 }

// at returns the byte offset of pixel (x, y)'s first channel.
func (r Raster) at(x, y int) int { return y*r.stride() + x*4 }

// clone returns an independent copy of r's pixel data.
func (r Raster) clone() Raster {
	out := Raster{Pix: make([]byte, len(r.Pix)), Width: r.Width, Height: r.Height}
	copy(out.Pix, r.Pix)
	return out
}

// subRect reports whether (x,y,w,h) fits entirely inside the raster bounds.
func (r Raster) subRect(x, y, w, h int) bool {
	return x >= 0 && y >= 0 && w >= 0 && h >= 0 && x+w <= r.Width && y+h <= r.Height
}

// blendSourceInto overwrites dst's (x,y,w,h) region with src, a w*h*4 buffer.
// This is the APNG blend_op=source operator: direct replacement, no alpha math.
func blendSourceInto(dst Raster, x, y, w, h int, src []byte) error {
	if !dst.subRect(x, y, w, h) {
		return fmt.Errorf("%w: frame region (%d,%d,%d,%d) outside canvas %dx%d", ErrFrameOutOfBounds, x, y, w, h, dst.Width, dst.Height)
	}
	for row := 0; row < h; row++ {
		srcOff := row * w * 4
		dstOff := dst.at(x, y+row)
		copy(dst.Pix[dstOff:dstOff+w*4], src[srcOff:srcOff+w*4])
	}
	return nil
}

// blendOverInto composites src onto dst's (x,y,w,h) region using Porter-Duff
// "source over" with straight alpha, rounding each channel to the nearest
// integer and clamping to 0..255. This intentionally differs from both a
// libwebp-style fixed-point scale blend and from multiplying by 0xff only
// after dividing by the output alpha (which overshoots) — see the
// composition notes in this repository's design ledger.
func blendOverInto(dst Raster, x, y, w, h int, src []byte) error {
	if !dst.subRect(x, y, w, h) {
		return fmt.Errorf("%w: frame region (%d,%d,%d,%d) outside canvas %dx%d", ErrFrameOutOfBounds, x, y, w, h, dst.Width, dst.Height)
	}
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			srcOff := (row*w + col) * 4
			sr, sg, sb, sa := src[srcOff], src[srcOff+1], src[srcOff+2], src[srcOff+3]

			dstOff := dst.at(x+col, y+row)
			if sa == 255 {
				dst.Pix[dstOff+0], dst.Pix[dstOff+1], dst.Pix[dstOff+2], dst.Pix[dstOff+3] = sr, sg, sb, sa
				continue
			}
			if sa == 0 {
				continue
			}
			dr, dg, db, da := dst.Pix[dstOff+0], dst.Pix[dstOff+1], dst.Pix[dstOff+2], dst.Pix[dstOff+3]

			outA := roundDiv255(int(sa)*255 + int(da)*int(255-sa))
			dst.Pix[dstOff+3] = outA
			if outA == 0 {
				dst.Pix[dstOff+0], dst.Pix[dstOff+1], dst.Pix[dstOff+2] = 0, 0, 0
				continue
			}
			dst.Pix[dstOff+0] = blendStraightChannel(sr, sa, dr, da, outA)
			dst.Pix[dstOff+1] = blendStraightChannel(sg, sa, dg, da, outA)
			dst.Pix[dstOff+2] = blendStraightChannel(sb, sa, db, da, outA)
		}
	}
	return nil
}

// blendStraightChannel computes one straight-alpha color channel of source
// over destination: (src*sa + dst*da*(255-sa)/255) / outA, evaluated as one
// integer division over a numerator scaled by 255 and rounded to nearest
// rather than truncated.
func blendStraightChannel(src, sa, dst, da, outA uint8) uint8 {
	num := int(src)*int(sa)*255 + int(dst)*int(da)*int(255-sa)
	// num is scaled by 255*255; divide by (255*outA) with rounding.
	denom := 255 * int(outA)
	return uint8(roundDivInt(num, denom))
}

func roundDiv255(v int) uint8 {
	return uint8(roundDivInt(v, 255))
}

func roundDivInt(num, denom int) int {
	if denom == 0 {
		return 0
	}
	v := (num + denom/2) / denom
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	return v
}

// fillTransparent clears a sub-rectangle of r to fully transparent black —
// the APNG dispose_op=background operator.
func fillTransparent(r Raster, x, y, w, h int) {
	for row := 0; row < h; row++ {
		off := r.at(x, y+row)
		for i := 0; i < w*4; i++ {
			r.Pix[off+i] = 0
		}
	}
}

// copyRect copies a sub-rectangle from src into dst at the same coordinates.
func copyRect(dst, src Raster, x, y, w, h int) {
	for row := 0; row < h; row++ {
		off := dst.at(x, y+row)
		copy(dst.Pix[off:off+w*4], src.Pix[off:off+w*4])
	}
}
