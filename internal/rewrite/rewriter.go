package rewrite

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"strings"

	"ppifix/internal/codec"
	"ppifix/internal/fileutil"
	"ppifix/internal/logging"
	"ppifix/internal/services"
)

const (
	stageValidate = "validate"
	stageDetect   = "detect"
	stageDecode   = "decode"
	stageEncode   = "encode"
	stageReplace  = "replace"
	stageCleanup  = "cleanup"
)

// Result describes a completed rewrite.
type Result struct {
	SourcePath    string
	FinalPath     string
	SourceFormat  codec.Format
	OutputFormat  codec.Format
	Width         int
	Height        int
	Before        codec.Resolution
	After         codec.Resolution
	SourceRemoved bool
}

// Converted reports whether the output encoding differs from the source's.
func (r Result) Converted() bool {
	return r.SourceFormat != r.OutputFormat
}

// Rewriter runs rewrites against a codec registry.
type Rewriter struct {
	codecs *codec.Registry
	logger *slog.Logger
}

// New returns a Rewriter. A nil registry uses codec defaults; a nil logger
// discards output.
func New(codecs *codec.Registry, logger *slog.Logger) *Rewriter {
	if codecs == nil {
		codecs = codec.NewRegistry(codec.DefaultOptions())
	}
	return &Rewriter{
		codecs: codecs,
		logger: logging.NewComponentLogger(logger, "rewriter"),
	}
}

// Process rewrites req.SourcePath. On success exactly one file remains at
// Result.FinalPath. On failure the source is left byte-identical and the temp
// sibling is removed.
func (r *Rewriter) Process(ctx context.Context, req Request) (Result, error) {
	ctx = services.WithSourcePath(ctx, req.SourcePath)
	logger := logging.WithContext(ctx, r.logger)

	if err := Validate(req); err != nil {
		return Result{}, r.report(logger, err)
	}
	result := Result{SourcePath: req.SourcePath}

	decoded, err := r.load(ctx, req.SourcePath)
	if err != nil {
		return Result{}, r.report(logger, err)
	}
	result.SourceFormat = decoded.Format
	result.Width, result.Height = decoded.Width(), decoded.Height()
	result.Before = decoded.Resolution

	encoder, err := r.encoderFor(decoded.Format, req.ConvertToPNG)
	if err != nil {
		return Result{}, r.report(logger, err)
	}
	result.OutputFormat = encoder.Format()

	plan, err := PlanPaths(req.SourcePath, outputExtension(req.SourcePath, req.ConvertToPNG))
	if err != nil {
		return Result{}, r.report(logger, services.Wrap(services.ErrIO, stageEncode, "plan paths", "", err))
	}
	result.FinalPath = plan.FinalPath

	defer r.cleanup(ctx, plan.TempPath)

	decoded.Resolution = resolveResolution(req, decoded)
	result.After = decoded.Resolution
	if err := codec.CheckResolution(result.OutputFormat, result.After); err != nil {
		return Result{}, r.report(logger, services.Wrap(services.ErrInvalidArgument, stageEncode, "resolution", result.After.String(), err))
	}
	logger.Debug("resolution resolved",
		logging.String(logging.FieldMode, req.Mode.String()),
		logging.String("before", result.Before.String()),
		logging.String("after", result.After.String()),
	)

	if err := r.writeTemp(ctx, encoder, decoded, plan.TempPath, req.SourcePath); err != nil {
		return Result{}, r.report(logger, err)
	}

	if err := ctx.Err(); err != nil {
		return Result{}, r.report(logger, services.Wrap(services.ErrUnexpected, stageReplace, "context", "rewrite cancelled before replace", err))
	}

	removed, err := r.replace(ctx, plan, req.SourcePath)
	if err != nil {
		return Result{}, r.report(logger, err)
	}
	result.SourceRemoved = removed

	logger.Info("image rewritten",
		logging.String(logging.FieldEventType, "rewrite_complete"),
		logging.String(logging.FieldFormat, string(result.OutputFormat)),
		logging.String(logging.FieldMode, req.Mode.String()),
		logging.String(logging.FieldPPI, result.After.String()),
		logging.String(logging.FieldFinalPath, result.FinalPath),
		logging.Int("width", result.Width),
		logging.Int("height", result.Height),
		logging.Bool("source_removed", removed),
	)
	return result, nil
}

// Validate checks req before any file is read. It is exported so callers can
// reject a request before taking locks or running preflight checks.
func Validate(req Request) error {
	if strings.TrimSpace(req.SourcePath) == "" {
		return services.Wrap(services.ErrInvalidArgument, stageValidate, "source path", "must not be empty", nil)
	}
	if _, err := fileutil.StatRegular(req.SourcePath); err != nil {
		return services.Wrap(services.ErrNotFound, stageValidate, "source path", req.SourcePath, err)
	}
	// Checked in every mode, including those that ignore PPI.
	if req.PPI <= 0 {
		return services.Wrap(services.ErrInvalidArgument, stageValidate, "ppi", fmt.Sprintf("must be positive, got %d", req.PPI), nil)
	}
	switch req.Mode {
	case ModeLinear, ModeFixed, ModeNoChange:
	default:
		return services.Wrap(services.ErrInvalidArgument, stageValidate, "mode", fmt.Sprintf("unknown mode %q", req.Mode), nil)
	}
	return nil
}

// load sniffs and decodes path. The file is closed before returning.
func (r *Rewriter) load(ctx context.Context, path string) (*codec.Decoded, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, stageDetect, "open source", path, err)
		}
		return nil, services.Wrap(services.ErrIO, stageDetect, "open source", path, err)
	}
	defer file.Close()

	format, err := codec.Detect(file)
	if err != nil {
		if errors.Is(err, codec.ErrUnknownFormat) {
			return nil, services.Wrap(services.ErrUnknownFormat, stageDetect, "sniff", path, err)
		}
		return nil, services.Wrap(services.ErrIO, stageDetect, "read header", path, err)
	}
	logging.WithContext(services.WithStage(ctx, stageDetect), r.logger).Debug("format detected",
		logging.String(logging.FieldFormat, string(format)))

	if err := ctx.Err(); err != nil {
		return nil, services.Wrap(services.ErrUnexpected, stageDecode, "context", "rewrite cancelled before decode", err)
	}

	decoded, err := codec.Decode(file, format)
	if err != nil {
		if errors.Is(err, codec.ErrDecode) || errors.Is(err, codec.ErrUnknownFormat) {
			return nil, services.Wrap(services.ErrUnknownFormat, stageDecode, string(format), path, err)
		}
		return nil, services.Wrap(services.ErrIO, stageDecode, "read source", path, err)
	}
	return decoded, nil
}

func (r *Rewriter) encoderFor(format codec.Format, convert bool) (codec.Encoder, error) {
	if convert {
		return r.codecs.PNG(), nil
	}
	enc, ok := r.codecs.EncoderFor(format)
	if !ok {
		return nil, services.Wrap(services.ErrUnsupportedEncoding, stageEncode, "select encoder",
			fmt.Sprintf("no encoder for %s", format), nil)
	}
	return enc, nil
}

// resolveResolution applies the request mode. Linear takes precedence over
// the PPI value.
func resolveResolution(req Request, decoded *codec.Decoded) codec.Resolution {
	switch req.Mode {
	case ModeLinear:
		return codec.PerInch(LinearPPI(decoded.Width()))
	case ModeFixed:
		return codec.PerInch(float64(req.PPI))
	default:
		return decoded.Resolution
	}
}

// LinearPPI is round(width / 10), halves rounded away from zero.
func LinearPPI(width int) float64 {
	return math.Round(float64(width) / 10.0)
}

func (r *Rewriter) writeTemp(ctx context.Context, enc codec.Encoder, decoded *codec.Decoded, tempPath, sourcePath string) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(sourcePath); err == nil {
		mode = info.Mode().Perm()
	}

	file, err := os.OpenFile(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return services.Wrap(services.ErrIO, stageEncode, "create temp", tempPath, err)
	}
	if err := enc.Encode(file, decoded); err != nil {
		_ = file.Close()
		return services.Wrap(services.ErrIO, stageEncode, string(enc.Format()), tempPath, err)
	}
	if err := file.Sync(); err != nil {
		_ = file.Close()
		return services.Wrap(services.ErrIO, stageEncode, "sync temp", tempPath, err)
	}
	if err := file.Close(); err != nil {
		return services.Wrap(services.ErrIO, stageEncode, "close temp", tempPath, err)
	}
	logging.WithContext(services.WithStage(ctx, stageEncode), r.logger).Debug("temp file written",
		logging.String("temp_path", tempPath))
	return nil
}

// replace renames the temp file over the final path and removes the source
// when it is a different file.
func (r *Rewriter) replace(ctx context.Context, plan Plan, sourcePath string) (bool, error) {
	if err := fileutil.ReplaceFile(plan.TempPath, plan.FinalPath); err != nil {
		return false, services.Wrap(services.ErrIO, stageReplace, "rename", plan.FinalPath, err)
	}
	if fileutil.SamePath(plan.FinalPath, sourcePath) || !fileutil.Exists(sourcePath) {
		return false, nil
	}
	if err := os.Remove(sourcePath); err != nil {
		return false, services.Wrap(services.ErrIO, stageReplace, "remove source", sourcePath, err)
	}
	logging.WithContext(services.WithStage(ctx, stageReplace), r.logger).Debug("source removed",
		logging.String(logging.FieldFinalPath, plan.FinalPath))
	return true, nil
}

// cleanup removes a leftover temp file. Failures are warnings only.
func (r *Rewriter) cleanup(ctx context.Context, tempPath string) {
	if err := fileutil.RemoveIfExists(tempPath); err != nil {
		logging.WarnWithContext(logging.WithContext(services.WithStage(ctx, stageCleanup), r.logger),
			"temp file cleanup failed", "temp_cleanup_failed",
			logging.String("temp_path", tempPath),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "remove the _temp file by hand"),
			logging.String(logging.FieldImpact, "a stray temp file remains next to the image"),
		)
	}
}

// report logs unexpected failures at error level and passes err through.
func (r *Rewriter) report(logger *slog.Logger, err error) error {
	kind := services.KindOf(err)
	if kind == services.KindUnexpected {
		logging.ErrorWithContext(logger, "rewrite failed", "rewrite_failed",
			logging.String(logging.FieldErrorKind, string(kind)),
			logging.Error(err),
		)
		return err
	}
	logger.Debug("rewrite failed",
		logging.String(logging.FieldErrorKind, string(kind)),
		logging.Error(err),
	)
	return err
}
