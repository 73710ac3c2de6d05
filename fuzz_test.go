package apng

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// addSeedCorpus adds all testdata/*.png files to the fuzz corpus.
func addSeedCorpus(f *testing.F) {
	f.Helper()
	entries, err := os.ReadDir("testdata")
	if err != nil {
		return // no testdata dir, skip
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if ext := filepath.Ext(e.Name()); ext != ".png" {
			continue
		}
		data, err := os.ReadFile(filepath.Join("testdata", e.Name()))
		if err != nil {
			continue
		}
		f.Add(data)
	}
}

// addMinimalSeeds adds hand-crafted minimal PNG/APNG streams to the corpus.
func addMinimalSeeds(f *testing.F) {
	f.Helper()
	f.Add(newStream().
		chunk("IHDR", ihdr(2, 2, 6)).
		chunk("IDAT", solidImageData(2, 2, 10, 20, 30, 255)).
		chunk("IEND", nil).
		buf.Bytes())
	f.Add(newStream().
		chunk("IHDR", ihdr(1, 1, 6)).
		chunk("acTL", actl(2, 0)).
		chunk("fcTL", fctl(0, 1, 1, 0, 0, 0, 0)).
		chunk("IDAT", solidImageData(1, 1, 255, 0, 0, 255)).
		chunk("fcTL", fctl(1, 1, 1, 0, 0, 0, 0)).
		chunk("fdAT", withSeq(2, solidImageData(1, 1, 0, 255, 0, 255))).
		chunk("IEND", nil).
		buf.Bytes())
}

// FuzzDecode is the primary malformed-input defense target. Ensures that no
// byte sequence can cause a panic in the decoder, regardless of how the
// chunk stream is truncated or corrupted.
func FuzzDecode(f *testing.F) {
	addSeedCorpus(f)
	addMinimalSeeds(f)

	f.Fuzz(func(t *testing.T, data []byte) {
		Decode(bytes.NewReader(data)) //nolint:errcheck
	})
}

// FuzzDecodeConfig ensures the lightweight config-only path never panics on
// arbitrary input.
func FuzzDecodeConfig(f *testing.F) {
	addSeedCorpus(f)
	addMinimalSeeds(f)

	f.Fuzz(func(t *testing.T, data []byte) {
		decodeConfig(bytes.NewReader(data)) //nolint:errcheck
	})
}
