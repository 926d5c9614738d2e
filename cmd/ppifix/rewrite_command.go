package main

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"ppifix/internal/logging"
	"ppifix/internal/pathlock"
	"ppifix/internal/preflight"
	"ppifix/internal/rewrite"
	"ppifix/internal/services"
)

type rewriteView struct {
	RequestID     string `json:"request_id"`
	Source        string `json:"source"`
	FinalPath     string `json:"final_path"`
	SourceFormat  string `json:"source_format"`
	OutputFormat  string `json:"output_format"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	Mode          string `json:"mode"`
	Before        string `json:"resolution_before"`
	After         string `json:"resolution_after"`
	SourceRemoved bool   `json:"source_removed"`
}

func newRewriteCommand(ctx *commandContext) *cobra.Command {
	var (
		convert bool
		mode    string
		ppi     int
		wait    bool
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "rewrite <image>",
		Short: "Rewrite an image's resolution metadata, optionally converting it to PNG",
		Long: `Rewrite decodes the image, sets its resolution, and replaces the file.

Modes:
  linear  ppi = round(width / 10)
  fixed   ppi = --ppi
  none    keep the resolution already recorded

The new bytes are written to <name>_temp<ext> and renamed over the final
path. With --png the result is <name>.png and the original is removed.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			registry, err := ctx.registry()
			if err != nil {
				return err
			}

			source := args[0]
			req, err := rewrite.RequestFromConfig(cfg, source)
			if err != nil {
				return services.Wrap(services.ErrInvalidArgument, "", "rewrite.default_mode", "", err)
			}
			flags := cmd.Flags()
			if flags.Changed("png") {
				req.ConvertToPNG = convert
			}
			if flags.Changed("mode") {
				parsed, err := rewrite.ParseMode(mode)
				if err != nil {
					return services.Wrap(services.ErrInvalidArgument, "", "--mode", "", err)
				}
				req.Mode = parsed
			}
			if flags.Changed("ppi") {
				req.PPI = ppi
			}

			if err := rewrite.Validate(req); err != nil {
				return err
			}

			requestID := uuid.NewString()
			runCtx := services.WithRequestID(cmd.Context(), requestID)

			// Validate has already checked the source.
			if err := preflight.FirstFailure(preflight.ForImage(cfg, source), preflight.CheckSource); err != nil {
				return services.Wrap(services.ErrIO, "preflight", "", "", err)
			}

			locker := pathlock.New(cfg.Paths.LockDir)
			var lock *pathlock.Lock
			if wait {
				lock, err = locker.Acquire(runCtx, source)
			} else {
				lock, err = locker.TryAcquire(source)
			}
			if err != nil {
				if errors.Is(err, pathlock.ErrBusy) {
					return fmt.Errorf("%w (retry with --wait)", err)
				}
				return services.Wrap(services.ErrIO, "lock", "", "", err)
			}
			defer func() {
				if err := lock.Release(); err != nil {
					logging.WarnWithContext(logger, "lock release failed", "lock_release_failed",
						logging.String("lock", lock.Path()),
						logging.Error(err),
					)
				}
			}()

			result, err := rewrite.New(registry, logger).Process(runCtx, req)
			if err != nil {
				return err
			}

			view := rewriteView{
				RequestID:     requestID,
				Source:        result.SourcePath,
				FinalPath:     result.FinalPath,
				SourceFormat:  string(result.SourceFormat),
				OutputFormat:  string(result.OutputFormat),
				Width:         result.Width,
				Height:        result.Height,
				Mode:          req.Mode.String(),
				Before:        result.Before.String(),
				After:         result.After.String(),
				SourceRemoved: result.SourceRemoved,
			}
			if asJSON {
				return writeJSON(cmd, view)
			}
			printRewriteSummary(cmd, view)
			return nil
		},
	}

	cmd.Flags().BoolVar(&convert, "png", false, "Convert the image to PNG")
	cmd.Flags().StringVar(&mode, "mode", "", "Resolution mode: linear, fixed, or none (default from config)")
	cmd.Flags().IntVar(&ppi, "ppi", rewrite.DefaultPPI, "PPI written by the fixed mode")
	cmd.Flags().BoolVar(&wait, "wait", false, "Wait for another ppifix run on the same image instead of failing")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	return cmd
}

func printRewriteSummary(cmd *cobra.Command, view rewriteView) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	message := view.FinalPath
	if view.SourceRemoved {
		message = fmt.Sprintf("%s -> %s", view.Source, view.FinalPath)
	}
	fmt.Fprintln(out, renderStatusLine("Rewritten", statusOK, message, colorize))
	fmt.Fprintln(out, renderStatusLine("Format", statusInfo, formatTransition(view.SourceFormat, view.OutputFormat), colorize))
	fmt.Fprintln(out, renderStatusLine("Resolution", statusInfo, fmt.Sprintf("%s -> %s (%s)", view.Before, view.After, view.Mode), colorize))
}

func formatTransition(from, to string) string {
	if from == to {
		return from
	}
	return from + " -> " + to
}
