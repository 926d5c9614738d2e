package codec

import (
	"encoding/binary"
	"errors"
	"math"
)

const (
	bmpFileHeaderLen = 14
	bmpInfoHeaderLen = 40
	bmpXPelsOffset   = bmpFileHeaderLen + 24
	bmpYPelsOffset   = bmpFileHeaderLen + 28
)

func bmpHasInfoHeader(data []byte) bool {
	if len(data) < bmpFileHeaderLen+bmpInfoHeaderLen || data[0] != 'B' || data[1] != 'M' {
		return false
	}
	return binary.LittleEndian.Uint32(data[bmpFileHeaderLen:bmpFileHeaderLen+4]) >= bmpInfoHeaderLen
}

func readBMPResolution(data []byte) Resolution {
	if !bmpHasInfoHeader(data) {
		return Resolution{}
	}
	x := int32(binary.LittleEndian.Uint32(data[bmpXPelsOffset : bmpXPelsOffset+4]))
	y := int32(binary.LittleEndian.Uint32(data[bmpYPelsOffset : bmpYPelsOffset+4]))
	if x <= 0 || y <= 0 {
		return Resolution{}
	}
	return Resolution{X: float64(x), Y: float64(y), Unit: UnitPixelsPerMeter}
}

// stampBMPResolution writes biXPelsPerMeter/biYPelsPerMeter. BMP has no
// unitless density, so an aspect-ratio-only resolution is dropped.
func stampBMPResolution(data []byte, res Resolution) ([]byte, error) {
	x, y, ok := res.PerMeter()
	if !ok {
		return data, nil
	}
	if !bmpHasInfoHeader(data) {
		return nil, errors.New("bmp: missing BITMAPINFOHEADER")
	}
	out := make([]byte, len(data))
	copy(out, data)
	binary.LittleEndian.PutUint32(out[bmpXPelsOffset:bmpXPelsOffset+4], uint32(min(x, math.MaxInt32)))
	binary.LittleEndian.PutUint32(out[bmpYPelsOffset:bmpYPelsOffset+4], uint32(min(y, math.MaxInt32)))
	return out, nil
}
