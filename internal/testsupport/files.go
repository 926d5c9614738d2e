package testsupport

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"os"
	"path/filepath"
	"testing"

	"ppifix/internal/codec"
)

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, bytes.Repeat([]byte{0x42}, int(size)), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// Gradient returns a w×h opaque image whose pixels vary on both axes.
func Gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 7), G: uint8(y * 13), B: uint8((x + y) * 3), A: 0xff})
		}
	}
	return img
}

// EncodeImage encodes a w×h gradient as format carrying res.
func EncodeImage(t testing.TB, format codec.Format, w, h int, res codec.Resolution) []byte {
	t.Helper()

	enc, ok := codec.NewRegistry(codec.DefaultOptions()).EncoderFor(format)
	if !ok {
		t.Fatalf("no encoder for %s", format)
	}
	var buf bytes.Buffer
	if err := enc.Encode(&buf, &codec.Decoded{Image: Gradient(w, h), Format: format, Resolution: res}); err != nil {
		t.Fatalf("encode %s: %v", format, err)
	}
	return buf.Bytes()
}

// WriteImage writes a w×h gradient to path as format and returns the bytes written.
func WriteImage(t testing.TB, path string, format codec.Format, w, h int, res codec.Resolution) []byte {
	t.Helper()

	data := EncodeImage(t, format, w, h, res)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return data
}

// ReadInfo inspects path with a default registry.
func ReadInfo(t testing.TB, path string) codec.Info {
	t.Helper()

	info, err := codec.NewRegistry(codec.DefaultOptions()).Inspect(path)
	if err != nil {
		t.Fatalf("inspect %s: %v", path, err)
	}
	return info
}

// AnimatedGIF returns a w×h animation with one solid frame per colour. Frame
// i is shown for 10*(i+1) hundredths of a second and the loop repeats loops
// times.
func AnimatedGIF(w, h, loops int, colors ...color.Color) *gif.GIF {
	anim := &gif.GIF{LoopCount: loops}
	palette := color.Palette(colors)
	for i, c := range colors {
		frame := image.NewPaletted(image.Rect(0, 0, w, h), palette)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				frame.Set(x, y, c)
			}
		}
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 10*(i+1))
		anim.Disposal = append(anim.Disposal, gif.DisposalNone)
	}
	return anim
}

// WriteAnimatedGIF encodes anim to path.
func WriteAnimatedGIF(t testing.TB, path string, anim *gif.GIF) []byte {
	t.Helper()

	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, anim); err != nil {
		t.Fatalf("encode gif: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return buf.Bytes()
}

// webpPixel is a lossless 1×1 WebP.
var webpPixel = []byte{
	'R', 'I', 'F', 'F', 0x1a, 0x00, 0x00, 0x00, 'W', 'E', 'B', 'P',
	'V', 'P', '8', 'L', 0x0d, 0x00, 0x00, 0x00,
	0x2f, 0x00, 0x00, 0x00, 0x10, 0x07, 0x10, 0x11, 0x11, 0x88, 0x88, 0xfe, 0x07,
	0x00,
}

// WriteWebP writes a 1×1 WebP image to path.
func WriteWebP(t testing.TB, path string) []byte {
	t.Helper()

	if err := os.WriteFile(path, webpPixel, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return bytes.Clone(webpPixel)
}
