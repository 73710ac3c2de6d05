package apng

import (
	"errors"
	"io"

	"github.com/apngdecoder/apng/core"
	"github.com/apngdecoder/apng/internal/pngchunk"
	"github.com/apngdecoder/apng/internal/pngpixel"
)

// Raster is a fully composited, straight-alpha RGBA8 frame.
type Raster = core.Raster

// DecodedSequence is the output of Decode: one Raster per displayed frame,
// its per-frame delay in milliseconds, and the stream's loop count (-1 for
// infinite, per the APNG convention that num_plays == 0 means infinite).
type DecodedSequence = core.DecodedSequence

// Decode reads a complete PNG or APNG stream from r and returns its
// composited frame sequence. A plain PNG decodes to a single frame with a
// delay of zero and a loop count of zero.
//
// Decode reads the entire stream before returning; there is no incremental
// or streaming frame delivery — all frames come back from one call.
func Decode(r io.Reader) (*DecodedSequence, error) {
	src := pngchunk.NewSource(r)
	if !pngchunk.Recognize(src) {
		return nil, &DecodeError{Kind: KindNotPng, Err: errors.New("missing PNG signature")}
	}
	if err := pngchunk.ReadSignature(src); err != nil {
		return nil, wrapErr(err)
	}

	ctrl := core.NewController()
	for {
		chunk, err := pngchunk.NextChunk(src)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, wrapErr(err)
		}

		var herr error
		switch chunk.Type {
		case pngchunk.TypeIHDR:
			herr = ctrl.HandleIHDR(chunk.Data)
		case pngchunk.TypePLTE:
			herr = ctrl.HandlePLTE(chunk.Data)
		case pngchunk.TypetRNS:
			herr = ctrl.HandleTRNS(chunk.Data)
		case pngchunk.TypeacTL:
			herr = ctrl.HandleACTL(chunk.Data)
		case pngchunk.TypefcTL:
			herr = ctrl.HandleFCTL(chunk.Data)
		case pngchunk.TypeIDAT:
			herr = ctrl.HandleIDAT(chunk.Data)
		case pngchunk.TypefdAT:
			herr = ctrl.HandleFDAT(chunk.Data)
		case pngchunk.TypeIEND:
			seq, ferr := ctrl.Finish()
			if ferr != nil {
				return nil, wrapErr(ferr)
			}
			return seq, nil
		default:
			// Unrecognized ancillary chunk (tEXt, gAMA, sRGB, ...); not
			// interpreted by this decoder.
		}
		if herr != nil {
			return nil, wrapErr(herr)
		}
	}

	// Stream ended without IEND. Still attempt lenient completion: a
	// truncated-but-otherwise-valid stream with at least one full frame
	// is not an error.
	seq, err := ctrl.Finish()
	if err != nil {
		return nil, wrapErr(err)
	}
	return seq, nil
}

// Recognize reports whether r begins with the PNG signature. Useful for
// format-sniffing dispatch before committing to a full Decode call.
//
// If r is also an io.Seeker, its position is restored before Recognize
// returns. Otherwise the bytes Recognize reads (up to 4096, through an
// internal buffer) are consumed from r.
func Recognize(r io.Reader) bool {
	if rs, ok := r.(io.Seeker); ok {
		if pos, err := rs.Seek(0, io.SeekCurrent); err == nil {
			defer rs.Seek(pos, io.SeekStart) //nolint:errcheck
		}
	}
	return pngchunk.Recognize(pngchunk.NewSource(r))
}

func wrapErr(err error) *DecodeError {
	switch {
	case errors.Is(err, pngchunk.ErrMalformed), errors.Is(err, pngchunk.ErrCRC), errors.Is(err, core.ErrMalformed):
		return &DecodeError{Kind: KindMalformed, Err: err}
	case errors.Is(err, pngpixel.ErrUnsupportedFormat):
		return &DecodeError{Kind: KindUnsupportedFormat, Err: err}
	case errors.Is(err, pngpixel.ErrInternalPipeline):
		return &DecodeError{Kind: KindInternalPipeline, Err: err}
	case errors.Is(err, core.ErrFrameOutOfBounds):
		return &DecodeError{Kind: KindFrameOutOfBounds, Err: err}
	case errors.Is(err, core.ErrEmptyResult):
		return &DecodeError{Kind: KindEmptyResult, Err: err}
	default:
		return &DecodeError{Kind: KindInternalPipeline, Err: err}
	}
}
