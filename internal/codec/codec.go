package codec

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// ErrDecode marks pixel data that could not be decoded in the detected format.
var ErrDecode = errors.New("codec: decode failed")

// Decoded is an image held in memory together with its resolution metadata.
type Decoded struct {
	Image      image.Image
	Format     Format
	Resolution Resolution
	// Animation holds every frame of a GIF source. Image is its first frame.
	Animation *gif.GIF
}

// Width returns the pixel width of the image.
func (d *Decoded) Width() int {
	switch {
	case d == nil:
		return 0
	case d.Animation != nil && d.Animation.Config.Width > 0:
		return d.Animation.Config.Width
	case d.Image == nil:
		return 0
	}
	return d.Image.Bounds().Dx()
}

// Height returns the pixel height of the image.
func (d *Decoded) Height() int {
	switch {
	case d == nil:
		return 0
	case d.Animation != nil && d.Animation.Config.Height > 0:
		return d.Animation.Config.Height
	case d.Image == nil:
		return 0
	}
	return d.Image.Bounds().Dy()
}

// Frames is the number of frames held, 1 for still images.
func (d *Decoded) Frames() int {
	if d != nil && d.Animation != nil {
		return len(d.Animation.Image)
	}
	return 1
}

type formatCodec struct {
	decode     func(io.Reader) (image.Image, error)
	config     func(io.Reader) (image.Config, error)
	resolution func([]byte) Resolution
}

var formatCodecs = map[Format]formatCodec{
	FormatPNG:  {png.Decode, png.DecodeConfig, readPNGResolution},
	FormatJPEG: {jpeg.Decode, jpeg.DecodeConfig, readJPEGResolution},
	FormatGIF:  {gif.Decode, gif.DecodeConfig, noResolution},
	FormatBMP:  {bmp.Decode, bmp.DecodeConfig, readBMPResolution},
	FormatTIFF: {tiff.Decode, tiff.DecodeConfig, readTIFFResolution},
	FormatWebP: {webp.Decode, webp.DecodeConfig, noResolution},
}

func noResolution([]byte) Resolution { return Resolution{} }

// Decode reads the whole stream and decodes it as format.
func Decode(r io.Reader, format Format) (*Decoded, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	return DecodeBytes(data, format)
}

// DecodeBytes decodes data as format and extracts its resolution metadata.
// Malformed metadata is treated as absent; malformed pixel data is an error.
func DecodeBytes(data []byte, format Format) (*Decoded, error) {
	fc, ok := formatCodecs[format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if format == FormatGIF {
		return decodeGIF(data)
	}
	img, err := fc.decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, format, err)
	}
	return &Decoded{
		Image:      img,
		Format:     format,
		Resolution: fc.resolution(data),
	}, nil
}

// ReadResolution extracts resolution metadata from encoded bytes without
// decoding pixels.
func ReadResolution(data []byte, format Format) Resolution {
	fc, ok := formatCodecs[format]
	if !ok {
		return Resolution{}
	}
	return fc.resolution(data)
}

// decodeGIF keeps every frame so a rewrite does not flatten animations.
func decodeGIF(data []byte) (*Decoded, error) {
	anim, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, FormatGIF, err)
	}
	if len(anim.Image) == 0 {
		return nil, fmt.Errorf("%w: %s: no frames", ErrDecode, FormatGIF)
	}
	return &Decoded{
		Image:     anim.Image[0],
		Format:    FormatGIF,
		Animation: anim,
	}, nil
}
