package pngpixel

// expandRow normalizes one reconstructed scanline of width pixels into 8-bit
// straight-alpha RGBA samples written to dst (len(dst) == width*4).
func expandRow(ihdr IHDR, palette []byte, trns Trns, row []byte, width int, dst []byte) {
	bd := ihdr.BitDepth
	switch ihdr.ColorType {
	case ColorGray:
		for i := 0; i < width; i++ {
			raw := sampleAt(row, i, bd)
			g := scaleSample(raw, bd)
			a := uint8(255)
			if trns.HasGray && raw == trns.Gray {
				a = 0
			}
			dst[i*4+0], dst[i*4+1], dst[i*4+2], dst[i*4+3] = g, g, g, a
		}
	case ColorTrueColor:
		for i := 0; i < width; i++ {
			rRaw := sampleAt(row, i*3+0, bd)
			gRaw := sampleAt(row, i*3+1, bd)
			bRaw := sampleAt(row, i*3+2, bd)
			a := uint8(255)
			if trns.HasRGB && rRaw == trns.R && gRaw == trns.G && bRaw == trns.B {
				a = 0
			}
			dst[i*4+0] = scaleSample(rRaw, bd)
			dst[i*4+1] = scaleSample(gRaw, bd)
			dst[i*4+2] = scaleSample(bRaw, bd)
			dst[i*4+3] = a
		}
	case ColorPalette:
		for i := 0; i < width; i++ {
			idx := int(sampleAt(row, i, bd))
			var r, g, b uint8
			if off := idx * 3; off+2 < len(palette) {
				r, g, b = palette[off], palette[off+1], palette[off+2]
			}
			a := uint8(255)
			if idx < len(trns.PaletteAlpha) {
				a = trns.PaletteAlpha[idx]
			}
			dst[i*4+0], dst[i*4+1], dst[i*4+2], dst[i*4+3] = r, g, b, a
		}
	case ColorGrayAlpha:
		for i := 0; i < width; i++ {
			gRaw := sampleAt(row, i*2+0, bd)
			aRaw := sampleAt(row, i*2+1, bd)
			g := scaleSample(gRaw, bd)
			a := scaleSample(aRaw, bd)
			dst[i*4+0], dst[i*4+1], dst[i*4+2], dst[i*4+3] = g, g, g, a
		}
	case ColorTrueColorAlpha:
		for i := 0; i < width; i++ {
			dst[i*4+0] = scaleSample(sampleAt(row, i*4+0, bd), bd)
			dst[i*4+1] = scaleSample(sampleAt(row, i*4+1, bd), bd)
			dst[i*4+2] = scaleSample(sampleAt(row, i*4+2, bd), bd)
			dst[i*4+3] = scaleSample(sampleAt(row, i*4+3, bd), bd)
		}
	}
}
