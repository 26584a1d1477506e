// Package fastq provides FASTQ input plumbing: opening possibly-compressed
// sources, record parsing, and quality-line extraction.
package fastq

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// Open returns a reader over the FASTQ input at path, transparently
// decompressing gzip and zstd. An empty path or "-" means stdin. The
// returned cleanup func must be called when done.
func Open(path string) (io.Reader, func(), error) {
	if path == "" || path == "-" {
		return wrapMaybeCompressed(path, os.Stdin, func() {})
	}

	f, err := os.Open(path) //nolint:gosec // CLI tool needs to open user-specified files
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open input: %w", err)
	}
	return wrapMaybeCompressed(path, f, func() { _ = f.Close() })
}

// DisplayName returns the name used in diagnostics for an input path.
func DisplayName(path string) string {
	if path == "" || path == "-" {
		return "STDIN"
	}
	return path
}

func wrapMaybeCompressed(path string, in io.Reader, closeInput func()) (io.Reader, func(), error) {
	br := bufio.NewReaderSize(in, 1<<20)
	header, err := br.Peek(4)
	if err != nil && !errors.Is(err, io.EOF) {
		closeInput()
		return nil, nil, fmt.Errorf("cannot inspect input: %w", err)
	}

	lower := strings.ToLower(path)
	switch {
	case hasMagic(header, gzipMagic) || strings.HasSuffix(lower, ".gz"):
		gz, err := gzip.NewReader(br)
		if err != nil {
			closeInput()
			return nil, nil, fmt.Errorf("cannot open gzip input: %w", err)
		}
		return gz, func() {
			_ = gz.Close()
			closeInput()
		}, nil
	case hasMagic(header, zstdMagic) || strings.HasSuffix(lower, ".zst"):
		dec, err := zstd.NewReader(br)
		if err != nil {
			closeInput()
			return nil, nil, fmt.Errorf("cannot open zstd input: %w", err)
		}
		return dec, func() {
			dec.Close()
			closeInput()
		}, nil
	}

	return br, closeInput, nil
}

func hasMagic(header, magic []byte) bool {
	return len(header) >= len(magic) && string(header[:len(magic)]) == string(magic)
}
