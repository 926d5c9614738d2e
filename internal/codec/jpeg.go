package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/garyhouston/jpegsegs"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

const (
	jfifUnitRatio = 0
	jfifUnitInch  = 1
	jfifUnitCM    = 2
)

var jfifIdentifier = []byte("JFIF\x00")

type jpegSegment struct {
	marker  jpegsegs.Marker
	payload []byte
}

// scanJPEGSegments returns the marker segments that precede the first scan.
func scanJPEGSegments(data []byte) ([]jpegSegment, error) {
	scanner, err := jpegsegs.NewScanner(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("jpeg: %w", err)
	}
	var segments []jpegSegment
	for {
		marker, buf, err := scanner.Scan()
		if err != nil {
			return nil, fmt.Errorf("jpeg: %w", err)
		}
		if marker == jpegsegs.SOS || marker == jpegsegs.EOI {
			return segments, nil
		}
		segments = append(segments, jpegSegment{marker: marker, payload: bytes.Clone(buf)})
	}
}

func isJFIF(seg jpegSegment) bool {
	return seg.marker == jpegsegs.APP0 && isJFIFPayload(seg.payload)
}

func isJFIFPayload(payload []byte) bool {
	return len(payload) >= 12 && bytes.HasPrefix(payload, jfifIdentifier)
}

func readJPEGResolution(data []byte) Resolution {
	segments, err := scanJPEGSegments(data)
	if err == nil {
		for _, seg := range segments {
			if !isJFIF(seg) {
				continue
			}
			unit := seg.payload[7]
			x := float64(binary.BigEndian.Uint16(seg.payload[8:10]))
			y := float64(binary.BigEndian.Uint16(seg.payload[10:12]))
			switch unit {
			case jfifUnitInch:
				return Resolution{X: x, Y: y, Unit: UnitPixelsPerInch}
			case jfifUnitCM:
				return Resolution{X: x, Y: y, Unit: UnitPixelsPerCentimeter}
			default:
				if x == y {
					// 1:1 aspect with no unit is the encoder default, not a density.
					break
				}
				return Resolution{X: x, Y: y, Unit: UnitNone}
			}
		}
	}
	return readEXIFResolution(data)
}

// readEXIFResolution reads XResolution/YResolution/ResolutionUnit from an EXIF
// block in a JPEG or from IFD0 of a TIFF file.
func readEXIFResolution(data []byte) Resolution {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return Resolution{}
	}
	xTag, err := x.Get(exif.XResolution)
	if err != nil {
		return Resolution{}
	}
	yTag, err := x.Get(exif.YResolution)
	if err != nil {
		yTag = xTag
	}
	xr, ok := tagFloat(xTag)
	if !ok {
		return Resolution{}
	}
	yr, ok := tagFloat(yTag)
	if !ok {
		yr = xr
	}

	res := Resolution{X: xr, Y: yr, Unit: UnitPixelsPerInch}
	if unitTag, err := x.Get(exif.ResolutionUnit); err == nil {
		if unit, err := unitTag.Int(0); err == nil {
			switch unit {
			case tiffUnitNone:
				res.Unit = UnitNone
			case tiffUnitCM:
				res.Unit = UnitPixelsPerCentimeter
			}
		}
	}
	return res
}

func tagFloat(tag *tiff.Tag) (float64, bool) {
	if tag == nil {
		return 0, false
	}
	rat, err := tag.Rat(0)
	if err != nil {
		return 0, false
	}
	v, _ := rat.Float64()
	if v <= 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// jfifPayload builds a JFIF APP0 body with no thumbnail.
func jfifPayload(res Resolution) ([]byte, error) {
	unit := byte(jfifUnitInch)
	x, y := res.X, res.Y
	switch res.Unit {
	case UnitPixelsPerCentimeter:
		unit = jfifUnitCM
	case UnitNone:
		unit = jfifUnitRatio
	default:
		x, y, _ = res.PPI()
	}
	x, y = math.Round(x), math.Round(y)
	if x > math.MaxUint16 || y > math.MaxUint16 {
		return nil, fmt.Errorf("%w: jpeg density %sx%s exceeds %d", ErrResolutionRange, formatFloat(x), formatFloat(y), math.MaxUint16)
	}

	payload := make([]byte, 14)
	copy(payload[0:5], jfifIdentifier)
	payload[5] = 1 // version 1.01
	payload[6] = 1
	payload[7] = unit
	binary.BigEndian.PutUint16(payload[8:10], clampUint16(x))
	binary.BigEndian.PutUint16(payload[10:12], clampUint16(y))
	return payload, nil
}

// stampJPEGResolution puts a JFIF APP0 carrying res right after SOI and drops
// any other JFIF segment. Entropy-coded data is copied unchanged.
func stampJPEGResolution(data []byte, res Resolution) ([]byte, error) {
	if res.IsZero() {
		return data, nil
	}
	app0, err := jfifPayload(res)
	if err != nil {
		return nil, err
	}

	scanner, err := jpegsegs.NewScanner(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("jpeg: %w", err)
	}
	var out memFile
	dumper, err := jpegsegs.NewDumper(&out)
	if err != nil {
		return nil, fmt.Errorf("jpeg: %w", err)
	}
	if err := dumper.Dump(jpegsegs.APP0, app0); err != nil {
		return nil, fmt.Errorf("jpeg: write APP0: %w", err)
	}
	for {
		marker, buf, err := scanner.Scan()
		if err != nil {
			return nil, fmt.Errorf("jpeg: %w", err)
		}
		if marker == jpegsegs.APP0 && isJFIFPayload(buf) {
			continue
		}
		if err := dumper.Dump(marker, buf); err != nil {
			return nil, fmt.Errorf("jpeg: write segment: %w", err)
		}
		switch marker {
		case jpegsegs.SOS:
			if err := dumper.Copy(scanner); err != nil {
				return nil, fmt.Errorf("jpeg: copy scan data: %w", err)
			}
			return out.Bytes(), nil
		case jpegsegs.EOI:
			return out.Bytes(), nil
		}
	}
}

// memFile is an in-memory io.WriteSeeker for the segment dumper.
type memFile struct {
	buf []byte
	pos int
}

func (m *memFile) Write(p []byte) (int, error) {
	if end := m.pos + len(p); end > len(m.buf) {
		m.buf = append(m.buf, make([]byte, end-len(m.buf))...)
	}
	n := copy(m.buf[m.pos:], p)
	m.pos += n
	return n, nil
}

func (m *memFile) Seek(offset int64, whence int) (int64, error) {
	var next int64
	switch whence {
	case io.SeekStart:
		next = offset
	case io.SeekCurrent:
		next = int64(m.pos) + offset
	case io.SeekEnd:
		next = int64(len(m.buf)) + offset
	default:
		return 0, errors.New("memfile: bad whence")
	}
	if next < 0 {
		return 0, errors.New("memfile: negative position")
	}
	m.pos = int(next)
	return next, nil
}

func (m *memFile) Bytes() []byte { return m.buf }
