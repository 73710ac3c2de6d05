package pngpixel

// adam7Pass describes the starting offset and stride of one Adam7
// interlacing pass over the final-resolution raster.
type adam7Pass struct {
	xStart, yStart, xStep, yStep int
}

// adam7Passes is the fixed 7-pass Adam7 geometry (PNG spec §8.2).
var adam7Passes = [7]adam7Pass{
	{0, 0, 8, 8},
	{4, 0, 8, 8},
	{0, 4, 4, 8},
	{2, 0, 4, 4},
	{0, 2, 2, 4},
	{1, 0, 2, 2},
	{0, 1, 1, 2},
}

// passDimensions returns how many columns and rows of the final image a
// pass contributes. Either may be zero, in which case the pass contributes
// nothing to the bitstream.
func passDimensions(width, height, pass int) (pw, ph int) {
	g := adam7Passes[pass]
	if g.xStart >= width {
		pw = 0
	} else {
		pw = (width - g.xStart + g.xStep - 1) / g.xStep
	}
	if g.yStart >= height {
		ph = 0
	} else {
		ph = (height - g.yStart + g.yStep - 1) / g.yStep
	}
	return pw, ph
}
