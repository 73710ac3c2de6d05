package apng

import (
	"fmt"
	"io"
)

// Option is a query supported by Iterator.Option, modeled on Qt's
// QImageIOHandler::ImageOption enum as used by the original APNGHandler
// this decoder's playback semantics are grounded on.
type Option int

const (
	// OptionAnimation reports whether the stream has more than one frame.
	OptionAnimation Option = iota
	// OptionSize reports the canvas size as [2]int{width, height}.
	OptionSize
)

// Iterator provides lazy, stateful playback over a decoded sequence: the
// current frame index, its delay, and single-step navigation, mirroring a
// QImageIOHandler's imageCount/currentImageNumber/jumpToNextImage/
// jumpToImage/nextImageDelay/loopCount surface.
//
// An Iterator built from a reader via NewIteratorFromReader defers the
// actual Decode call until its first query, the same ensureParsed-on-first-
// access pattern the original APNGHandler plugin uses to keep a logically
// const "peek at this stream" view cheap until playback actually begins.
type Iterator struct {
	src      io.Reader
	seq      *DecodedSequence
	parsed   bool
	parseErr error
	idx      int
}

// NewIterator returns an Iterator positioned at frame 0 of an already
// decoded sequence.
func NewIterator(seq *DecodedSequence) *Iterator {
	return &Iterator{seq: seq, parsed: true}
}

// NewIteratorFromReader returns an Iterator over r's stream without
// decoding it yet. The stream is decoded on the first call to any other
// Iterator method that reads the sequence (ImageCount, Read, JumpToImage,
// NextImageDelay, LoopCount, Option, ...; CurrentImageNumber and
// SupportsOption do not trigger it); a decode failure is cached and
// returned from every subsequent call that can report an error (Read), and
// treated as an empty, non-animated sequence by calls that cannot
// (ImageCount, LoopCount, and so on).
func NewIteratorFromReader(r io.Reader) *Iterator {
	return &Iterator{src: r}
}

// ensureParsed runs Decode on first access and caches the result.
func (it *Iterator) ensureParsed() error {
	if it.parsed {
		return it.parseErr
	}
	it.parsed = true
	seq, err := Decode(it.src)
	if err != nil {
		it.parseErr = err
		it.seq = &DecodedSequence{}
		return err
	}
	it.seq = seq
	return nil
}

// ImageCount returns the total number of displayed frames.
func (it *Iterator) ImageCount() int {
	it.ensureParsed()
	return len(it.seq.Frames)
}

// CurrentImageNumber returns the index of the frame Read will return next,
// before any out-of-range wrap-to-0 that call would perform.
func (it *Iterator) CurrentImageNumber() int { return it.idx }

// Read returns the current frame, then advances to the next one, wrapping
// to frame 0 first if the current position was out of range — mirroring
// apnghandler.cpp::read's `*image = m_frames.at(m_currentFrame++);` plus its
// reset-to-0 guard. It never panics on an out-of-range position or a failed
// lazy decode; it fails only if the sequence has zero frames (or the
// deferred decode itself failed).
func (it *Iterator) Read() (Raster, error) {
	if err := it.ensureParsed(); err != nil {
		return Raster{}, err
	}
	if len(it.seq.Frames) == 0 {
		return Raster{}, &DecodeError{
			Kind: KindEmptyResult,
			Err:  fmt.Errorf("sequence has no frames"),
		}
	}
	if it.idx < 0 || it.idx >= len(it.seq.Frames) {
		it.idx = 0
	}
	frame := it.seq.Frames[it.idx]
	it.idx++
	return frame, nil
}

// JumpToNextImage advances to the next frame, reporting false (and leaving
// the position unchanged) at the last frame.
func (it *Iterator) JumpToNextImage() bool {
	it.ensureParsed()
	if it.idx+1 >= len(it.seq.Frames) {
		return false
	}
	it.idx++
	return true
}

// JumpToImage unconditionally moves to frame n, matching
// apnghandler.cpp::jumpToImage's `m_currentFrame = imageNumber; return
// imageNumber < m_frames.size();` — the position is set even when n is out
// of range; the bool only reports whether n was a valid frame index.
func (it *Iterator) JumpToImage(n int) bool {
	it.ensureParsed()
	it.idx = n
	return n >= 0 && n < len(it.seq.Frames)
}

// NextImageDelay returns, in milliseconds, how long to show the frame most
// recently returned by Read before showing the next one: the delay of frame
// CurrentImageNumber()-1, or of frame 0 before the position has advanced.
// It returns 0 when that index is past the end of the sequence.
func (it *Iterator) NextImageDelay() int32 {
	it.ensureParsed()
	i := it.idx - 1
	if i < 0 {
		i = 0
	}
	if i >= len(it.seq.DelaysMS) {
		return 0
	}
	return it.seq.DelaysMS[i]
}

// LoopCount returns the stream's loop count (-1 for infinite).
func (it *Iterator) LoopCount() int32 {
	it.ensureParsed()
	return it.seq.LoopCount
}

// SupportsOption reports whether Option is meaningful for this iterator.
func (it *Iterator) SupportsOption(opt Option) bool {
	switch opt {
	case OptionAnimation, OptionSize:
		return true
	default:
		return false
	}
}

// Option returns the value of a supported Option, or nil if unsupported or
// the sequence has no frames.
func (it *Iterator) Option(opt Option) any {
	it.ensureParsed()
	if len(it.seq.Frames) == 0 {
		return nil
	}
	switch opt {
	case OptionAnimation:
		return len(it.seq.Frames) > 1
	case OptionSize:
		f := it.seq.Frames[0]
		return [2]int{f.Width, f.Height}
	default:
		return nil
	}
}
