package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrNotFound            = errors.New("not found")
	ErrUnknownFormat       = errors.New("unknown image format")
	ErrUnsupportedEncoding = errors.New("unsupported encoding")
	ErrIO                  = errors.New("i/o failure")
	ErrUnexpected          = errors.New("unexpected error")
)

// Kind names the failure class of an error for logs and exit codes.
type Kind string

const (
	KindNone                Kind = ""
	KindInvalidArgument     Kind = "invalid_argument"
	KindNotFound            Kind = "not_found"
	KindUnknownFormat       Kind = "unknown_format"
	KindUnsupportedEncoding Kind = "unsupported_encoding"
	KindIO                  Kind = "io_failure"
	KindUnexpected          Kind = "unexpected"
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrUnexpected
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// KindOf classifies err. Format markers take precedence over I/O, and I/O over
// the catch-all, so an error carrying several markers reports the most specific.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrInvalidArgument):
		return KindInvalidArgument
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrUnknownFormat):
		return KindUnknownFormat
	case errors.Is(err, ErrUnsupportedEncoding):
		return KindUnsupportedEncoding
	case errors.Is(err, ErrIO):
		return KindIO
	default:
		return KindUnexpected
	}
}

// ExitCode maps an error to the process exit status used by the CLI.
func ExitCode(err error) int {
	switch KindOf(err) {
	case KindNone:
		return 0
	case KindInvalidArgument:
		return 2
	case KindNotFound:
		return 3
	case KindUnknownFormat:
		return 4
	case KindUnsupportedEncoding:
		return 5
	case KindIO:
		return 6
	default:
		return 1
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "rewrite failure"
	}
	return strings.Join(parts, ": ")
}
