package rewrite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"ppifix/internal/config"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{in: "", want: ModeLinear},
		{in: "Linear", want: ModeLinear},
		{in: "fixed", want: ModeFixed},
		{in: " none ", want: ModeNoChange},
		{in: "no-change", want: ModeNoChange},
		{in: "no_change", want: ModeNoChange},
		{in: "diagonal", wantErr: true},
	}
	for _, tc := range tests {
		got, err := ParseMode(tc.in)
		if tc.wantErr {
			require.Error(t, err, "ParseMode(%q)", tc.in)
			continue
		}
		require.NoError(t, err, "ParseMode(%q)", tc.in)
		require.Equal(t, tc.want, got, "ParseMode(%q)", tc.in)
	}
}

func TestDefaultRequest(t *testing.T) {
	req := DefaultRequest("a.png")
	require.Equal(t, Request{SourcePath: "a.png", PPI: 144, Mode: ModeLinear}, req)
}

func TestRequestFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Rewrite.DefaultMode = config.ModeFixed
	cfg.Rewrite.DefaultPPI = 300
	cfg.Rewrite.ConvertToPNG = true

	req, err := RequestFromConfig(&cfg, "x.jpg")
	require.NoError(t, err)
	require.Equal(t, Request{SourcePath: "x.jpg", PPI: 300, ConvertToPNG: true, Mode: ModeFixed}, req)

	req, err = RequestFromConfig(nil, "x.jpg")
	require.NoError(t, err)
	require.Equal(t, DefaultRequest("x.jpg"), req)

	cfg.Rewrite.DefaultMode = "bogus"
	_, err = RequestFromConfig(&cfg, "x.jpg")
	require.Error(t, err)
}

func TestLinearPPI(t *testing.T) {
	tests := map[int]float64{
		0:    0,
		4:    0,
		5:    1,
		15:   2,
		25:   3,
		1440: 144,
		1234: 123,
		1235: 124,
	}
	for width, want := range tests {
		require.Equal(t, want, LinearPPI(width), "width %d", width)
	}
}

func TestPlanPaths(t *testing.T) {
	plan, err := PlanPaths("/data/img/Photo.JPG", ".jpg")
	require.NoError(t, err)
	require.Equal(t, Plan{TempPath: "/data/img/Photo_temp.jpg", FinalPath: "/data/img/Photo.jpg"}, plan)

	plan, err = PlanPaths("/data/img/scan", "")
	require.NoError(t, err)
	require.Equal(t, Plan{TempPath: "/data/img/scan_temp", FinalPath: "/data/img/scan"}, plan)

	plan, err = PlanPaths("/data/img/scan.tif", ".png")
	require.NoError(t, err)
	require.Equal(t, "/data/img/scan.png", plan.FinalPath)

	wd, err := os.Getwd()
	require.NoError(t, err)
	plan, err = PlanPaths("bare.bmp", ".bmp")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(wd, "bare_temp.bmp"), plan.TempPath)
}

func TestOutputExtension(t *testing.T) {
	require.Equal(t, ".png", outputExtension("/a/b.JPG", true))
	require.Equal(t, ".jpg", outputExtension("/a/b.JPG", false))
	require.Equal(t, "", outputExtension("/a/b", false))
	require.Equal(t, ".png", outputExtension("/a/b", true))
}
