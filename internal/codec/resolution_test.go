package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolutionConversions(t *testing.T) {
	x, y, ok := PerInch(72).PerMeter()
	require.True(t, ok)
	require.Equal(t, uint32(2835), x)
	require.Equal(t, uint32(2835), y)

	x, _, ok = PerInch(144).PerMeter()
	require.True(t, ok)
	require.Equal(t, uint32(5669), x)

	px, py, ok := Resolution{X: 5669, Y: 2835, Unit: UnitPixelsPerMeter}.RoundedPPI()
	require.True(t, ok)
	require.Equal(t, 144, px)
	require.Equal(t, 72, py)

	fx, _, ok := Resolution{X: 100, Y: 100, Unit: UnitPixelsPerCentimeter}.PPI()
	require.True(t, ok)
	require.InDelta(t, 254.0, fx, 1e-9)

	x, _, ok = Resolution{X: 40, Y: 40, Unit: UnitPixelsPerCentimeter}.PerMeter()
	require.True(t, ok)
	require.Equal(t, uint32(4000), x)
}

func TestResolutionWithoutUnit(t *testing.T) {
	res := Resolution{X: 2, Y: 1, Unit: UnitNone}
	_, _, ok := res.PPI()
	require.False(t, ok)
	_, _, ok = res.PerMeter()
	require.False(t, ok)
	require.False(t, res.IsZero())
	require.Equal(t, "2x1 ratio", res.String())
}

func TestZeroResolution(t *testing.T) {
	var res Resolution
	require.True(t, res.IsZero())
	_, _, ok := res.RoundedPPI()
	require.False(t, ok)
	require.Equal(t, "unset", res.String())
	require.Equal(t, "144x144 ppi", PerInch(144).String())
}
