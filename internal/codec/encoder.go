package codec

import (
	"bytes"
	"errors"
	"fmt"
	"image/gif"
	"image/png"
	"io"
	"slices"
	"strings"

	"github.com/disintegration/imaging"
)

// Encoder writes a decoded image, including its resolution metadata.
type Encoder interface {
	Format() Format
	Encode(w io.Writer, d *Decoded) error
}

type stampFunc func([]byte, Resolution) ([]byte, error)

type imagingEncoder struct {
	format Format
	target imaging.Format
	opts   []imaging.EncodeOption
	stamp  stampFunc
}

func (e *imagingEncoder) Format() Format { return e.format }

func (e *imagingEncoder) Encode(w io.Writer, d *Decoded) error {
	if d == nil || d.Image == nil {
		return errors.New("codec: nothing to encode")
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, d.Image, e.target, e.opts...); err != nil {
		return fmt.Errorf("encode %s: %w", e.format, err)
	}

	data := buf.Bytes()
	if e.stamp != nil {
		var err error
		if data, err = e.stamp(data, d.Resolution); err != nil {
			return fmt.Errorf("write %s resolution: %w", e.format, err)
		}
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", e.format, err)
	}
	return nil
}

// gifEncoder writes decoded GIF sources frame for frame, keeping delays,
// disposal methods and the loop count. Other images go through still.
type gifEncoder struct {
	still Encoder
}

func (e *gifEncoder) Format() Format { return FormatGIF }

func (e *gifEncoder) Encode(w io.Writer, d *Decoded) error {
	if d == nil || d.Animation == nil {
		return e.still.Encode(w, d)
	}
	if err := gif.EncodeAll(w, d.Animation); err != nil {
		return fmt.Errorf("encode %s: %w", FormatGIF, err)
	}
	return nil
}

// Options tunes the built-in encoders.
type Options struct {
	JPEGQuality    int
	PNGCompression png.CompressionLevel
}

const defaultJPEGQuality = 95

// DefaultOptions returns the encoder settings used when nothing is configured.
func DefaultOptions() Options {
	return Options{JPEGQuality: defaultJPEGQuality, PNGCompression: png.DefaultCompression}
}

// ParsePNGCompression maps a configuration name to a png compression level.
func ParsePNGCompression(name string) (png.CompressionLevel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "default":
		return png.DefaultCompression, nil
	case "none":
		return png.NoCompression, nil
	case "fast":
		return png.BestSpeed, nil
	case "best":
		return png.BestCompression, nil
	default:
		return png.DefaultCompression, fmt.Errorf("unsupported png compression %q", name)
	}
}

// Registry maps formats to encoders. A format with no encoder is decode-only.
type Registry struct {
	encoders map[Format]Encoder
}

// NewRegistry returns a registry with encoders for PNG, JPEG, GIF, BMP, and TIFF.
func NewRegistry(opts Options) *Registry {
	if opts.JPEGQuality < 1 || opts.JPEGQuality > 100 {
		opts.JPEGQuality = defaultJPEGQuality
	}
	r := &Registry{encoders: make(map[Format]Encoder)}
	r.Register(FormatPNG, &imagingEncoder{
		format: FormatPNG,
		target: imaging.PNG,
		opts:   []imaging.EncodeOption{imaging.PNGCompressionLevel(opts.PNGCompression)},
		stamp:  stampPNGResolution,
	})
	r.Register(FormatJPEG, &imagingEncoder{
		format: FormatJPEG,
		target: imaging.JPEG,
		opts:   []imaging.EncodeOption{imaging.JPEGQuality(opts.JPEGQuality)},
		stamp:  stampJPEGResolution,
	})
	r.Register(FormatGIF, &gifEncoder{still: &imagingEncoder{format: FormatGIF, target: imaging.GIF}})
	r.Register(FormatBMP, &imagingEncoder{format: FormatBMP, target: imaging.BMP, stamp: stampBMPResolution})
	r.Register(FormatTIFF, &imagingEncoder{format: FormatTIFF, target: imaging.TIFF, stamp: stampTIFFResolution})
	return r
}

// Register installs enc for format. A nil encoder makes the format decode-only.
func (r *Registry) Register(format Format, enc Encoder) {
	if enc == nil {
		delete(r.encoders, format)
		return
	}
	r.encoders[format] = enc
}

// EncoderFor returns the encoder registered for format.
func (r *Registry) EncoderFor(format Format) (Encoder, bool) {
	enc, ok := r.encoders[format]
	return enc, ok
}

// PNG returns the PNG encoder used for conversions.
func (r *Registry) PNG() Encoder {
	if enc, ok := r.encoders[FormatPNG]; ok {
		return enc
	}
	return &imagingEncoder{format: FormatPNG, target: imaging.PNG, stamp: stampPNGResolution}
}

// Capability describes what the registry can do with a format.
type Capability struct {
	Format    Format
	Decode    bool
	Encode    bool
	Metadata  bool
	Extension string
}

// Capabilities lists every known format in a stable order.
func (r *Registry) Capabilities() []Capability {
	formats := make([]Format, 0, len(formatCodecs))
	for f := range formatCodecs {
		formats = append(formats, f)
	}
	slices.Sort(formats)

	out := make([]Capability, 0, len(formats))
	for _, f := range formats {
		_, enc := r.encoders[f]
		out = append(out, Capability{
			Format:    f,
			Decode:    true,
			Encode:    enc,
			Metadata:  f != FormatGIF && f != FormatWebP,
			Extension: f.Extension(),
		})
	}
	return out
}
