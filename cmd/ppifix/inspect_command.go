package main

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"

	"github.com/spf13/cobra"

	"ppifix/internal/codec"
	"ppifix/internal/preflight"
	"ppifix/internal/rewrite"
	"ppifix/internal/services"
	"ppifix/internal/textutil"
)

type inspectView struct {
	Path       string   `json:"path"`
	Format     string   `json:"format"`
	Width      int      `json:"width"`
	Height     int      `json:"height"`
	SizeBytes  int64    `json:"size_bytes"`
	Resolution string   `json:"resolution"`
	PPI        *int     `json:"ppi,omitempty"`
	LinearPPI  int      `json:"linear_ppi"`
	Encodable  bool     `json:"encodable"`
	Writable   bool     `json:"writable"`
	Preflight  []string `json:"preflight_failures,omitempty"`
}

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "inspect <image>",
		Short: "Show an image's format, size, and recorded resolution",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			registry, err := ctx.registry()
			if err != nil {
				return err
			}

			path := args[0]
			info, err := registry.Inspect(path)
			if err != nil {
				return classifyInspectError(path, err)
			}

			view := inspectView{
				Path:       info.Path,
				Format:     string(info.Format),
				Width:      info.Width,
				Height:     info.Height,
				SizeBytes:  info.Size,
				Resolution: info.Resolution.String(),
				LinearPPI:  int(rewrite.LinearPPI(info.Width)),
				Encodable:  info.Encodable,
				Writable:   true,
			}
			if x, _, ok := info.Resolution.RoundedPPI(); ok {
				view.PPI = &x
			}
			for _, result := range preflight.ForImage(cfg, path) {
				if result.Passed {
					continue
				}
				view.Preflight = append(view.Preflight, result.Name+": "+result.Detail)
				if result.Name == preflight.CheckOutputDir {
					view.Writable = false
				}
			}

			if asJSON {
				return writeJSON(cmd, view)
			}
			printInspect(cmd, view)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	return cmd
}

func classifyInspectError(path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return services.Wrap(services.ErrNotFound, "inspect", "open", path, err)
	case errors.Is(err, codec.ErrUnknownFormat), errors.Is(err, codec.ErrDecode):
		return services.Wrap(services.ErrUnknownFormat, "inspect", "sniff", path, err)
	default:
		return services.Wrap(services.ErrIO, "inspect", "read", path, err)
	}
}

func printInspect(cmd *cobra.Command, view inspectView) {
	out := cmd.OutOrStdout()
	ppi := "-"
	if view.PPI != nil {
		ppi = strconv.Itoa(*view.PPI)
	}
	rows := [][]string{
		{textutil.Label("path"), view.Path},
		{textutil.Label("format"), textutil.Acronym(view.Format)},
		{textutil.Label("dimensions"), fmt.Sprintf("%dx%d", view.Width, view.Height)},
		{textutil.Label("size_bytes"), strconv.FormatInt(view.SizeBytes, 10)},
		{textutil.Label("resolution"), view.Resolution},
		{textutil.Label("ppi"), ppi},
		{textutil.Label("linear_ppi"), strconv.Itoa(view.LinearPPI)},
		{textutil.Label("encodable"), yesNo(view.Encodable)},
	}
	fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, rows, []columnAlignment{alignLeft, alignLeft}))

	colorize := shouldColorize(out)
	if len(view.Preflight) == 0 {
		fmt.Fprintln(out, renderStatusLine("Preflight", statusOK, "ready to rewrite", colorize))
		return
	}
	for _, failure := range view.Preflight {
		fmt.Fprintln(out, renderStatusLine("Preflight", statusWarn, failure, colorize))
	}
}
