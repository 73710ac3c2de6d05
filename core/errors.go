package core

import "errors"

// ErrFrameOutOfBounds is returned when an fcTL frame rectangle does not fit
// entirely within the IHDR canvas.
var ErrFrameOutOfBounds = errors.New("core: frame rectangle outside canvas")

// ErrEmptyResult is returned when a stream produced zero usable frames.
var ErrEmptyResult = errors.New("core: no frames decoded")

// ErrMalformed is returned for a structurally invalid chunk sequence (e.g.
// fdAT without a preceding fcTL, or image data before IHDR).
var ErrMalformed = errors.New("core: malformed chunk sequence")
