package apng

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/apngdecoder/apng/internal/pngchunk"
	"github.com/apngdecoder/apng/internal/pngpixel"
)

// Register wires this package into the standard library's image package,
// so that image.Decode and image.DecodeConfig recognize APNG/PNG streams
// under the format name "apng". This is not done automatically on import:
// call Register explicitly to opt in, since a process may prefer the
// standard library's own image/png decoder (which returns a single
// image.Image and knows nothing about animation) for non-animated callers.
func Register() {
	image.RegisterFormat("apng", string(pngchunk.Signature[:]), decodeImage, decodeConfig)
}

// decodeImage adapts Decode to the image.Image interface expected by
// image.RegisterFormat, returning only the first displayed frame.
func decodeImage(r io.Reader) (image.Image, error) {
	seq, err := Decode(r)
	if err != nil {
		return nil, err
	}
	return seq.Frames[0].Image(), nil
}

// decodeConfig reads just enough of the stream (the signature and IHDR
// chunk) to report dimensions without decoding any pixel data.
func decodeConfig(r io.Reader) (image.Config, error) {
	src := pngchunk.NewSource(r)
	if !pngchunk.Recognize(src) {
		return image.Config{}, &DecodeError{Kind: KindNotPng, Err: errors.New("missing PNG signature")}
	}
	if err := pngchunk.ReadSignature(src); err != nil {
		return image.Config{}, wrapErr(err)
	}
	chunk, err := pngchunk.NextChunk(src)
	if err != nil {
		return image.Config{}, wrapErr(err)
	}
	if chunk.Type != pngchunk.TypeIHDR {
		return image.Config{}, wrapErr(fmt.Errorf("%w: first chunk is %s, not IHDR", pngchunk.ErrMalformed, chunk.Type))
	}
	ihdr, err := pngpixel.ParseIHDR(chunk.Data)
	if err != nil {
		return image.Config{}, wrapErr(err)
	}
	return image.Config{
		ColorModel: color.NRGBAModel,
		Width:      ihdr.Width,
		Height:     ihdr.Height,
	}, nil
}
