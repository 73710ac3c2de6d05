// Command apngdump decodes an APNG or PNG file from the command line.
//
// Usage:
//
//	apngdump dump [options] <input.png>   Explode a stream into per-frame PNGs
//	apngdump info <input.png>             Display frame count, size, loop count
package main

import (
	"flag"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/apngdecoder/apng"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "dump":
		err = runDump(os.Args[2:])
	case "info":
		err = runInfo(os.Args[2:])
	case "-h", "-help", "--help", "help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "apngdump: unknown command %q\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "apngdump: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage:
  apngdump dump [options] <input.png>   Explode a stream into per-frame PNGs
  apngdump info <input.png>             Display frame count, size, loop count

Use "-" as input to read from stdin.

Run "apngdump dump -h" for dump's options; info takes none.
`)
}

// openInput returns an io.ReadCloser for the given path. If path is "-",
// stdin is returned wrapped so that closing it is a no-op.
func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

// --- dump ---

func runDump(args []string) error {
	fs := flag.NewFlagSet("dump", flag.ContinueOnError)
	outDir := fs.String("o", ".", "output directory for per-frame PNGs")
	prefix := fs.String("prefix", "frame", "output file name prefix")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("dump: missing input file\nUsage: apngdump dump [options] <input.png>")
	}
	inputPath := fs.Arg(0)

	in, err := openInput(inputPath)
	if err != nil {
		return err
	}
	defer in.Close()

	seq, err := apng.Decode(in)
	if err != nil {
		return fmt.Errorf("dump: %w", err)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return fmt.Errorf("dump: %w", err)
	}

	for i, frame := range seq.Frames {
		outPath := filepath.Join(*outDir, fmt.Sprintf("%s-%03d.png", *prefix, i))
		out, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("dump: frame %d: %w", i, err)
		}
		if err := png.Encode(out, frame.Image()); err != nil {
			out.Close()
			os.Remove(outPath)
			return fmt.Errorf("dump: frame %d: %w", i, err)
		}
		if err := out.Close(); err != nil {
			return fmt.Errorf("dump: frame %d: %w", i, err)
		}
	}

	fmt.Fprintf(os.Stderr, "Decoded %d frame(s) to %s\n", len(seq.Frames), *outDir)
	return nil
}

// --- info ---

func runInfo(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("info: missing input file\nUsage: apngdump info <input.png>")
	}
	inputPath := args[0]

	in, err := openInput(inputPath)
	if err != nil {
		return err
	}
	defer in.Close()

	seq, err := apng.Decode(in)
	if err != nil {
		return fmt.Errorf("info: %w", err)
	}

	name := inputPath
	if inputPath == "-" {
		name = "<stdin>"
	}

	loop := "infinite"
	if seq.LoopCount >= 0 {
		loop = fmt.Sprintf("%d", seq.LoopCount)
	}

	f := seq.Frames[0]
	fmt.Printf("File:       %s\n", name)
	fmt.Printf("Dimensions: %d x %d\n", f.Width, f.Height)
	fmt.Printf("Frames:     %d\n", len(seq.Frames))
	fmt.Printf("Animated:   %v\n", len(seq.Frames) > 1)
	fmt.Printf("Loop count: %s\n", loop)

	var totalMS int64
	for _, d := range seq.DelaysMS {
		totalMS += int64(d)
	}
	fmt.Printf("Duration:   %dms\n", totalMS)

	if inputPath != "-" {
		if fi, err := os.Stat(inputPath); err == nil {
			fmt.Printf("File size:  %d bytes\n", fi.Size())
		}
	}

	return nil
}
