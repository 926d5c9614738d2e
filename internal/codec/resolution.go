package codec

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// ErrResolutionRange marks a density the target format cannot store.
var ErrResolutionRange = errors.New("codec: resolution out of range")

// Unit is the physical unit of a Resolution.
type Unit uint8

const (
	// UnitNone means the values only express an aspect ratio.
	UnitNone Unit = iota
	UnitPixelsPerInch
	UnitPixelsPerCentimeter
	UnitPixelsPerMeter
)

const (
	metersPerInch      = 0.0254
	centimetersPerInch = 2.54
)

func (u Unit) String() string {
	switch u {
	case UnitPixelsPerInch:
		return "ppi"
	case UnitPixelsPerCentimeter:
		return "px/cm"
	case UnitPixelsPerMeter:
		return "px/m"
	default:
		return "ratio"
	}
}

// Resolution is the pixel density recorded in an image file. The zero value
// means the file carries no density information.
type Resolution struct {
	X    float64
	Y    float64
	Unit Unit
}

// PerInch returns a resolution of ppi on both axes.
func PerInch(ppi float64) Resolution {
	return Resolution{X: ppi, Y: ppi, Unit: UnitPixelsPerInch}
}

// IsZero reports whether no density is recorded.
func (r Resolution) IsZero() bool {
	return r.X == 0 && r.Y == 0
}

// PPI converts the resolution to pixels per inch. ok is false when the
// resolution is empty or only describes an aspect ratio.
func (r Resolution) PPI() (x, y float64, ok bool) {
	if r.IsZero() {
		return 0, 0, false
	}
	switch r.Unit {
	case UnitPixelsPerInch:
		return r.X, r.Y, true
	case UnitPixelsPerCentimeter:
		return r.X * centimetersPerInch, r.Y * centimetersPerInch, true
	case UnitPixelsPerMeter:
		return r.X * metersPerInch, r.Y * metersPerInch, true
	default:
		return 0, 0, false
	}
}

// RoundedPPI is PPI rounded to whole pixels per inch.
func (r Resolution) RoundedPPI() (x, y int, ok bool) {
	fx, fy, ok := r.PPI()
	if !ok {
		return 0, 0, false
	}
	return int(math.Round(fx)), int(math.Round(fy)), true
}

// PerMeter converts the resolution to pixels per metre using
// floor(ppi / 0.0254 + 0.5), the rounding PNG tools use for pHYs.
func (r Resolution) PerMeter() (x, y uint32, ok bool) {
	switch r.Unit {
	case UnitPixelsPerMeter:
		return clampUint32(math.Floor(r.X + 0.5)), clampUint32(math.Floor(r.Y + 0.5)), !r.IsZero()
	case UnitPixelsPerCentimeter:
		return clampUint32(math.Floor(r.X*100 + 0.5)), clampUint32(math.Floor(r.Y*100 + 0.5)), !r.IsZero()
	}
	fx, fy, ok := r.PPI()
	if !ok {
		return 0, 0, false
	}
	return clampUint32(math.Floor(fx/metersPerInch + 0.5)), clampUint32(math.Floor(fy/metersPerInch + 0.5)), true
}

func (r Resolution) String() string {
	if r.IsZero() {
		return "unset"
	}
	return fmt.Sprintf("%sx%s %s", formatFloat(r.X), formatFloat(r.Y), r.Unit)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func clampUint32(v float64) uint32 {
	switch {
	case v <= 0:
		return 0
	case v >= math.MaxUint32:
		return math.MaxUint32
	default:
		return uint32(v)
	}
}

func clampUint16(v float64) uint16 {
	switch {
	case v <= 0:
		return 0
	case v >= math.MaxUint16:
		return math.MaxUint16
	default:
		return uint16(v)
	}
}

// CheckResolution reports whether format can record res without clamping.
func CheckResolution(format Format, res Resolution) error {
	if res.IsZero() {
		return nil
	}
	if format == FormatJPEG {
		_, err := jfifPayload(res)
		return err
	}
	return nil
}
