package codec

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// Info summarises an image file without decoding its pixels.
type Info struct {
	Path       string
	Format     Format
	Width      int
	Height     int
	Size       int64
	Resolution Resolution
	Encodable  bool
}

// Inspect sniffs path and reads its dimensions and resolution.
func (r *Registry) Inspect(path string) (Info, error) {
	file, err := os.Open(path)
	if err != nil {
		return Info{}, err
	}
	defer file.Close()

	format, err := Detect(file)
	if err != nil {
		return Info{}, err
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return Info{}, fmt.Errorf("read image: %w", err)
	}

	cfg, err := formatCodecs[format].config(bytes.NewReader(data))
	if err != nil {
		return Info{}, fmt.Errorf("%w: %s: %w", ErrDecode, format, err)
	}
	_, encodable := r.encoders[format]
	return Info{
		Path:       path,
		Format:     format,
		Width:      cfg.Width,
		Height:     cfg.Height,
		Size:       int64(len(data)),
		Resolution: ReadResolution(data, format),
		Encodable:  encodable,
	}, nil
}
