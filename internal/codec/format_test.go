package codec

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetectBytes(t *testing.T) {
	cases := []struct {
		name string
		head string
		want Format
		ok   bool
	}{
		{"png", "\x89PNG\r\n\x1a\n\x00\x00\x00\x0d", FormatPNG, true},
		{"jpeg", "\xff\xd8\xff\xe0\x00\x10JFIF", FormatJPEG, true},
		{"gif87", "GIF87a\x01\x00", FormatGIF, true},
		{"gif89", "GIF89a\x01\x00", FormatGIF, true},
		{"bmp", "BM\x46\x00\x00\x00", FormatBMP, true},
		{"tiff le", "II*\x00\x08\x00\x00\x00", FormatTIFF, true},
		{"tiff be", "MM\x00*\x00\x00\x00\x08", FormatTIFF, true},
		{"webp", "RIFF\x24\x00\x00\x00WEBP", FormatWebP, true},
		{"riff without webp", "RIFF\x24\x00\x00\x00WAVE", "", false},
		{"text", "hello world!", "", false},
		{"empty", "", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := DetectBytes([]byte(tc.head))
			require.Equal(t, tc.ok, ok)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestDetectRewindsStream(t *testing.T) {
	payload := []byte("GIF89a-rest-of-the-file")
	r := bytes.NewReader(payload)
	_, err := r.Seek(5, io.SeekStart)
	require.NoError(t, err)

	format, err := Detect(r)
	require.NoError(t, err)
	require.Equal(t, FormatGIF, format)

	rest, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, payload, rest, "detect must leave the stream at the start")
}

func TestDetectUnknownAndShortInput(t *testing.T) {
	_, err := Detect(bytes.NewReader([]byte("BZ")))
	require.True(t, errors.Is(err, ErrUnknownFormat))

	_, err = Detect(bytes.NewReader(nil))
	require.True(t, errors.Is(err, ErrUnknownFormat))
}

func TestFormatExtension(t *testing.T) {
	require.Equal(t, ".png", FormatPNG.Extension())
	require.Equal(t, ".jpg", FormatJPEG.Extension())
	require.Equal(t, ".tif", FormatTIFF.Extension())
	require.Equal(t, ".webp", FormatWebP.Extension())
	require.Equal(t, "", Format("").Extension())
}
