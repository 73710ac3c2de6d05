package pngpixel

import (
	"bytes"
	"compress/zlib"
	"testing"
)

// deflateNone zlib-compresses a set of scanlines, each prefixed with a
// filter-type-0 (None) byte — the simplest valid PNG image data stream.
func deflateNone(rows [][]byte) []byte {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	for _, row := range rows {
		w.Write([]byte{0})
		w.Write(row)
	}
	w.Close()
	return buf.Bytes()
}

func TestDecodeFrameTrueColorAlpha(t *testing.T) {
	ihdr := IHDR{Width: 2, Height: 2, BitDepth: 8, ColorType: ColorTrueColorAlpha}
	rows := [][]byte{
		{255, 0, 0, 255, 0, 255, 0, 128},
		{0, 0, 255, 0, 255, 255, 255, 64},
	}
	px, err := DecodeFrame(ihdr, nil, Trns{}, deflateNone(rows), 2, 2)
	if err != nil {
		t.Fatalf("DecodeFrame() error = %v", err)
	}
	want := []byte{255, 0, 0, 255, 0, 255, 0, 128, 0, 0, 255, 0, 255, 255, 255, 64}
	if !bytes.Equal(px.Pix, want) {
		t.Errorf("Pix = %v, want %v", px.Pix, want)
	}
}

func TestDecodeFrameGrayTRNS(t *testing.T) {
	ihdr := IHDR{Width: 2, Height: 1, BitDepth: 8, ColorType: ColorGray}
	rows := [][]byte{{10, 20}}
	trns := Trns{HasGray: true, Gray: 10}
	px, err := DecodeFrame(ihdr, nil, trns, deflateNone(rows), 2, 1)
	if err != nil {
		t.Fatalf("DecodeFrame() error = %v", err)
	}
	if px.Pix[3] != 0 {
		t.Errorf("pixel 0 alpha = %d, want 0 (matches tRNS gray)", px.Pix[3])
	}
	if px.Pix[7] != 255 {
		t.Errorf("pixel 1 alpha = %d, want 255", px.Pix[7])
	}
}

func TestDecodeFramePaletteTRNS(t *testing.T) {
	ihdr := IHDR{Width: 2, Height: 1, BitDepth: 8, ColorType: ColorPalette}
	palette := []byte{255, 0, 0, 0, 255, 0} // index0=red, index1=green
	trns := Trns{PaletteAlpha: []byte{128}}
	rows := [][]byte{{0, 1}}
	px, err := DecodeFrame(ihdr, palette, trns, deflateNone(rows), 2, 1)
	if err != nil {
		t.Fatalf("DecodeFrame() error = %v", err)
	}
	if got := px.Pix[0:4]; !bytes.Equal(got, []byte{255, 0, 0, 128}) {
		t.Errorf("pixel 0 = %v, want red with alpha 128", got)
	}
	if got := px.Pix[4:8]; !bytes.Equal(got, []byte{0, 255, 0, 255}) {
		t.Errorf("pixel 1 = %v, want opaque green (no tRNS entry)", got)
	}
}

func TestDecodeFrameSubFilter(t *testing.T) {
	ihdr := IHDR{Width: 2, Height: 1, BitDepth: 8, ColorType: ColorGray}
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	w.Write([]byte{1})   // Sub filter
	w.Write([]byte{5, 3}) // second sample is delta-encoded: raw value = 5+3=8
	w.Close()
	px, err := DecodeFrame(ihdr, nil, Trns{}, buf.Bytes(), 2, 1)
	if err != nil {
		t.Fatalf("DecodeFrame() error = %v", err)
	}
	if px.Pix[0] != 5 || px.Pix[4] != 8 {
		t.Errorf("gray samples = %d,%d, want 5,8", px.Pix[0], px.Pix[4])
	}
}

func TestDecodeFrameLowBitDepthGray(t *testing.T) {
	ihdr := IHDR{Width: 4, Height: 1, BitDepth: 2, ColorType: ColorGray}
	// four 2-bit samples packed MSB-first into one byte: 0,1,2,3 -> 0b00011011
	rows := [][]byte{{0b00011011}}
	px, err := DecodeFrame(ihdr, nil, Trns{}, deflateNone(rows), 4, 1)
	if err != nil {
		t.Fatalf("DecodeFrame() error = %v", err)
	}
	want := []uint8{0, 85, 170, 255}
	for i, w := range want {
		if px.Pix[i*4] != w {
			t.Errorf("sample %d = %d, want %d", i, px.Pix[i*4], w)
		}
	}
}

func TestDecodeFrameAdam7(t *testing.T) {
	// An 8x8 image lets every Adam7 pass contribute at least one pixel.
	const size = 8
	ihdr := IHDR{Width: size, Height: size, BitDepth: 8, ColorType: ColorGray, Interlace: true}

	var rows [][]byte
	for pass := 0; pass < 7; pass++ {
		pw, ph := passDimensions(size, size, pass)
		for py := 0; py < ph; py++ {
			row := make([]byte, pw)
			for px := 0; px < pw; px++ {
				row[px] = byte(pass*10 + px + py)
			}
			rows = append(rows, row)
		}
	}

	px, err := DecodeFrame(ihdr, nil, Trns{}, deflateNone(rows), size, size)
	if err != nil {
		t.Fatalf("DecodeFrame() error = %v", err)
	}
	if len(px.Pix) != size*size*4 {
		t.Fatalf("len(Pix) = %d, want %d", len(px.Pix), size*size*4)
	}
	// Spot-check pass 0's sole contributed pixel: (xStart=0,yStart=0) contributes (0,0).
	if px.Pix[0] != 0 {
		t.Errorf("pixel (0,0) = %d, want 0 (pass 0's first sample)", px.Pix[0])
	}
}

func TestParseIHDRRejectsBadCombination(t *testing.T) {
	data := make([]byte, 13)
	data[3] = 1  // width = 1
	data[7] = 1  // height = 1
	data[8] = 3  // bit depth 3: invalid for every color type
	data[9] = 0
	if _, err := ParseIHDR(data); err == nil {
		t.Error("ParseIHDR() error = nil, want error for invalid bit depth")
	}
}

func TestParseFCTLRoundTrip(t *testing.T) {
	data := make([]byte, fctlSize)
	data[3] = 7 // sequence number
	data[7] = 10 // width
	data[11] = 20 // height
	data[21] = 1  // delay_num = 1
	data[23] = 2  // delay_den = 2
	data[24] = byte(DisposeBackground)
	data[25] = byte(BlendOver)

	meta, seq, err := ParseFCTL(data)
	if err != nil {
		t.Fatalf("ParseFCTL() error = %v", err)
	}
	if seq != 7 || meta.Width != 10 || meta.Height != 20 {
		t.Errorf("meta = %+v seq=%d, want width=10 height=20 seq=7", meta, seq)
	}
	if meta.Dispose != DisposeBackground || meta.Blend != BlendOver {
		t.Errorf("dispose/blend = %v/%v, want Background/Over", meta.Dispose, meta.Blend)
	}
	if got := meta.DelayMS(); got != 500 {
		t.Errorf("DelayMS() = %d, want 500", got)
	}
}

func TestParseACTLZeroFramesRejected(t *testing.T) {
	data := make([]byte, actlSize)
	if _, err := ParseACTL(data); err == nil {
		t.Error("ParseACTL() error = nil, want error for num_frames = 0")
	}
}

func TestDelayMSRounding(t *testing.T) {
	tests := []struct {
		name     string
		num, den uint16
		want     int32
	}{
		{"exact tenths", 10, 100, 100},
		{"exact fraction", 1, 10, 100},
		{"den zero treated as 100", 10, 0, 100},
		{"rounds up from .67", 2, 3, 667},  // 1000*2/3 = 666.67 -> 667
		{"exact eighth", 1, 8, 125},        // 1000*1/8 = 125 exactly, sanity check
		{"rounds down from .33", 1, 3, 333}, // 1000/3 = 333.33 -> 333
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := FrameMeta{DelayNum: tt.num, DelayDen: tt.den}
			if got := m.DelayMS(); got != tt.want {
				t.Errorf("DelayMS() = %d, want %d", got, tt.want)
			}
		})
	}
}
