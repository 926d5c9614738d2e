package services_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"ppifix/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrIO, "rewrite", "encode", "write temp file", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrIO) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"rewrite", "encode", "write temp file"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapNilMarkerIsUnexpected(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrUnexpected) {
		t.Fatalf("expected unexpected marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "rewrite failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestKindOfAndExitCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		kind services.Kind
		code int
	}{
		{"nil", nil, services.KindNone, 0},
		{"invalid", services.Wrap(services.ErrInvalidArgument, "rewrite", "validate", "ppi", nil), services.KindInvalidArgument, 2},
		{"missing", services.Wrap(services.ErrNotFound, "rewrite", "validate", "missing", nil), services.KindNotFound, 3},
		{"format", services.Wrap(services.ErrUnknownFormat, "rewrite", "detect", "", nil), services.KindUnknownFormat, 4},
		{"encoding", services.Wrap(services.ErrUnsupportedEncoding, "rewrite", "encoder", "webp", nil), services.KindUnsupportedEncoding, 5},
		{"io", services.Wrap(services.ErrIO, "rewrite", "swap", "", errors.New("disk full")), services.KindIO, 6},
		{"plain", errors.New("other"), services.KindUnexpected, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := services.KindOf(tc.err); got != tc.kind {
				t.Fatalf("KindOf = %q, want %q", got, tc.kind)
			}
			if got := services.ExitCode(tc.err); got != tc.code {
				t.Fatalf("ExitCode = %d, want %d", got, tc.code)
			}
		})
	}
}

func TestKindOfPrefersFormatOverIO(t *testing.T) {
	inner := services.Wrap(services.ErrIO, "codec", "read", "", nil)
	err := fmt.Errorf("%w: %w", services.ErrUnknownFormat, inner)
	if got := services.KindOf(err); got != services.KindUnknownFormat {
		t.Fatalf("expected format kind to win, got %q", got)
	}
}
