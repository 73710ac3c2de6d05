package core

import (
	"fmt"

	"github.com/apngdecoder/apng/internal/pngpixel"
)

// DecodedSequence is the fully composited output of an APNG/PNG stream: one
// fully-resolved RGBA8 raster per displayed frame, its display delay, and
// the stream's loop count (-1 for infinite).
type DecodedSequence struct {
	LoopCount int32
	Frames    []Raster
	DelaysMS  []int32
}

type pendingKind int

const (
	pendingNone pendingKind = iota
	pendingDefaultImage
	pendingFrame
)

// Controller drives the Animation Controller state machine: it accepts
// parsed chunk payloads in stream order, accumulates per-frame image data,
// hands each frame to the pixel pipeline once its data run is complete, and
// composites the result onto a persistent canvas following APNG's
// dispose_op/blend_op rules.
type Controller struct {
	ihdrSet bool
	ihdr    pngpixel.IHDR
	palette []byte
	trns    pngpixel.Trns

	haveACTL bool
	actl     pngpixel.ACTLInfo
	fctlSeen int

	pending     pendingKind
	pendingMeta pngpixel.FrameMeta
	pendingData []byte
	haveFdatSeq bool
	lastFdatSeq uint32

	canvas Raster
	frames []Raster
	delays []int32
}

// NewController returns a Controller ready to receive IHDR as its first chunk.
func NewController() *Controller {
	return &Controller{}
}

// HandleIHDR processes an IHDR chunk payload, allocating the canvas.
func (c *Controller) HandleIHDR(data []byte) error {
	ihdr, err := pngpixel.ParseIHDR(data)
	if err != nil {
		return err
	}
	c.ihdr = ihdr
	c.ihdrSet = true
	c.canvas = NewRaster(ihdr.Width, ihdr.Height)
	return nil
}

// HandlePLTE processes a PLTE chunk payload.
func (c *Controller) HandlePLTE(data []byte) error {
	if !c.ihdrSet {
		return fmt.Errorf("%w: PLTE before IHDR", ErrMalformed)
	}
	c.palette = append([]byte(nil), data...)
	return nil
}

// HandleTRNS processes a tRNS chunk payload.
func (c *Controller) HandleTRNS(data []byte) error {
	if !c.ihdrSet {
		return fmt.Errorf("%w: tRNS before IHDR", ErrMalformed)
	}
	trns, err := pngpixel.ParseTRNS(c.ihdr.ColorType, data)
	if err != nil {
		return err
	}
	c.trns = trns
	return nil
}

// HandleACTL processes an acTL chunk payload. acTL must precede any image
// data; this is enforced here rather than assumed.
func (c *Controller) HandleACTL(data []byte) error {
	if !c.ihdrSet {
		return fmt.Errorf("%w: acTL before IHDR", ErrMalformed)
	}
	if c.pending != pendingNone || len(c.frames) > 0 {
		return fmt.Errorf("%w: acTL after image data has started", ErrMalformed)
	}
	info, err := pngpixel.ParseACTL(data)
	if err != nil {
		return err
	}
	c.haveACTL = true
	c.actl = info
	return nil
}

// HandleFCTL processes an fcTL chunk payload, finalizing whatever frame was
// previously accumulating and opening a new one.
func (c *Controller) HandleFCTL(data []byte) error {
	if !c.ihdrSet {
		return fmt.Errorf("%w: fcTL before IHDR", ErrMalformed)
	}
	meta, seq, err := pngpixel.ParseFCTL(data)
	if err != nil {
		return err
	}
	if !c.canvas.subRect(int(meta.X), int(meta.Y), int(meta.Width), int(meta.Height)) {
		return fmt.Errorf("%w: fcTL region (%d,%d,%d,%d) outside canvas %dx%d",
			ErrFrameOutOfBounds, meta.X, meta.Y, meta.Width, meta.Height, c.canvas.Width, c.canvas.Height)
	}
	// fcTL and fdAT sequence numbers share one monotonically increasing
	// counter across the whole stream (the APNG spec's "sequence_number").
	if c.haveFdatSeq && seq <= c.lastFdatSeq {
		return fmt.Errorf("%w: fcTL sequence number %d out of order", ErrMalformed, seq)
	}
	c.lastFdatSeq = seq
	c.haveFdatSeq = true
	if err := c.finalizePending(); err != nil {
		return err
	}
	c.pendingMeta = meta
	c.pending = pendingFrame
	c.fctlSeen++
	return nil
}

// HandleIDAT accumulates an IDAT chunk's bytes into whichever frame is
// currently open. The first IDAT run is the non-animated "default image":
// hidden from the animation if acTL announced one and no fcTL described it,
// otherwise (no acTL at all) the sole displayed frame.
func (c *Controller) HandleIDAT(data []byte) error {
	if !c.ihdrSet {
		return fmt.Errorf("%w: IDAT before IHDR", ErrMalformed)
	}
	if c.pending == pendingNone {
		if c.fctlSeen == 0 {
			if c.haveACTL {
				c.pending = pendingDefaultImage
			} else {
				c.pending = pendingFrame
				c.pendingMeta = pngpixel.FrameMeta{
					X: 0, Y: 0,
					Width: uint32(c.ihdr.Width), Height: uint32(c.ihdr.Height),
					DelayNum: 0, DelayDen: 1,
					Dispose: pngpixel.DisposeNone,
					Blend:   pngpixel.BlendSource,
				}
			}
		} else {
			c.pending = pendingFrame
		}
	}
	c.pendingData = append(c.pendingData, data...)
	return nil
}

// HandleFDAT accumulates an fdAT chunk's bytes (minus its 4-byte sequence
// number prefix) into the currently open frame, which must have been opened
// by a preceding fcTL.
func (c *Controller) HandleFDAT(data []byte) error {
	if len(data) < 4 {
		return fmt.Errorf("%w: fdAT shorter than its sequence-number prefix", ErrMalformed)
	}
	if c.pending != pendingFrame {
		return fmt.Errorf("%w: fdAT without a preceding fcTL", ErrMalformed)
	}
	seq := uint32(data[0])<<24 | uint32(data[1])<<16 | uint32(data[2])<<8 | uint32(data[3])
	if c.haveFdatSeq && seq <= c.lastFdatSeq {
		return fmt.Errorf("%w: fdAT sequence number %d out of order", ErrMalformed, seq)
	}
	c.lastFdatSeq = seq
	c.haveFdatSeq = true
	c.pendingData = append(c.pendingData, data[4:]...)
	return nil
}

// finalizePending decodes and composites whatever frame is currently
// accumulating, discarding it first if it was the hidden default image.
func (c *Controller) finalizePending() error {
	switch c.pending {
	case pendingNone:
		return nil
	case pendingDefaultImage:
		c.pending = pendingNone
		c.pendingData = nil
		return nil
	case pendingFrame:
		meta := c.pendingMeta
		px, err := pngpixel.DecodeFrame(c.ihdr, c.palette, c.trns, c.pendingData, int(meta.Width), int(meta.Height))
		if err != nil {
			return err
		}
		if err := c.composite(meta, px); err != nil {
			return err
		}
		c.pending = pendingNone
		c.pendingData = nil
		return nil
	default:
		return nil
	}
}

// composite blends a decoded frame onto the canvas, snapshots the result as
// the displayed raster, then applies the frame's post-composition disposal.
// The first displayed frame always behaves as blend_op=source; if it also
// requested dispose_op=previous (meaningless with no prior frame), that is
// promoted to dispose_op=background, following the convention used by the
// reference APNG decoder this behavior is grounded on.
func (c *Controller) composite(meta pngpixel.FrameMeta, px pngpixel.Pixels) error {
	dispose := meta.Dispose
	blend := meta.Blend
	if len(c.frames) == 0 {
		blend = pngpixel.BlendSource
		if dispose == pngpixel.DisposePrevious {
			dispose = pngpixel.DisposeBackground
		}
	}

	x, y, w, h := int(meta.X), int(meta.Y), int(meta.Width), int(meta.Height)
	if !c.canvas.subRect(x, y, w, h) {
		return fmt.Errorf("%w: frame region (%d,%d,%d,%d) outside canvas %dx%d", ErrFrameOutOfBounds, x, y, w, h, c.canvas.Width, c.canvas.Height)
	}

	var preSnapshot Raster
	if dispose == pngpixel.DisposePrevious {
		preSnapshot = c.canvas.clone()
	}

	var err error
	switch blend {
	case pngpixel.BlendOver:
		err = blendOverInto(c.canvas, x, y, w, h, px.Pix)
	default:
		err = blendSourceInto(c.canvas, x, y, w, h, px.Pix)
	}
	if err != nil {
		return err
	}

	c.frames = append(c.frames, c.canvas.clone())
	c.delays = append(c.delays, meta.DelayMS())

	switch dispose {
	case pngpixel.DisposeBackground:
		fillTransparent(c.canvas, x, y, w, h)
	case pngpixel.DisposePrevious:
		copyRect(c.canvas, preSnapshot, x, y, w, h)
	}
	return nil
}

// Finish finalizes any in-flight frame and returns the composited sequence.
// Per the lenient-completion rule, a stream that produced fewer frames than
// acTL announced still succeeds as long as at least one frame was emitted;
// zero frames is reported as ErrEmptyResult.
func (c *Controller) Finish() (*DecodedSequence, error) {
	if !c.ihdrSet {
		return nil, fmt.Errorf("%w: stream ended before IHDR", ErrMalformed)
	}
	if err := c.finalizePending(); err != nil {
		return nil, err
	}
	if len(c.frames) == 0 {
		return nil, ErrEmptyResult
	}

	loopCount := int32(0)
	if c.haveACTL {
		if c.actl.NumPlays == 0 {
			loopCount = -1
		} else {
			loopCount = int32(c.actl.NumPlays) - 1
		}
	}
	return &DecodedSequence{LoopCount: loopCount, Frames: c.frames, DelaysMS: c.delays}, nil
}
