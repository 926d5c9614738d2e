package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// ErrUnknownFormat reports content that matches no supported signature.
var ErrUnknownFormat = errors.New("codec: unknown format")

// Format identifies an image encoding.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatGIF  Format = "gif"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
	FormatWebP Format = "webp"
)

// Extension returns the canonical lower-case file extension for the format.
func (f Format) Extension() string {
	switch f {
	case FormatJPEG:
		return ".jpg"
	case FormatTIFF:
		return ".tif"
	case "":
		return ""
	default:
		return "." + string(f)
	}
}

func (f Format) String() string {
	return string(f)
}

const sniffLen = 12

type signature struct {
	format Format
	match  func([]byte) bool
}

var signatures = []signature{
	{FormatPNG, prefix("\x89PNG\r\n\x1a\n")},
	{FormatJPEG, prefix("\xff\xd8\xff")},
	{FormatGIF, func(b []byte) bool {
		return bytes.HasPrefix(b, []byte("GIF87a")) || bytes.HasPrefix(b, []byte("GIF89a"))
	}},
	{FormatBMP, prefix("BM")},
	{FormatTIFF, func(b []byte) bool {
		return bytes.HasPrefix(b, []byte("II*\x00")) || bytes.HasPrefix(b, []byte("MM\x00*"))
	}},
	{FormatWebP, func(b []byte) bool {
		return len(b) >= 12 && bytes.Equal(b[:4], []byte("RIFF")) && bytes.Equal(b[8:12], []byte("WEBP"))
	}},
}

func prefix(sig string) func([]byte) bool {
	return func(b []byte) bool {
		return bytes.HasPrefix(b, []byte(sig))
	}
}

// DetectBytes matches the leading bytes of an image against known signatures.
func DetectBytes(head []byte) (Format, bool) {
	for _, sig := range signatures {
		if sig.match(head) {
			return sig.format, true
		}
	}
	return "", false
}

// Detect sniffs the format of r and rewinds it to the start, so the same
// stream can be handed to Decode afterwards. r is never written to.
func Detect(r io.ReadSeeker) (Format, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind: %w", err)
	}
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read header: %w", err)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind: %w", err)
	}
	format, ok := DetectBytes(head[:n])
	if !ok {
		return "", ErrUnknownFormat
	}
	return format, nil
}
