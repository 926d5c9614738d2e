package pathlock

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLockPathSharesKeyAcrossExtensions(t *testing.T) {
	locker := New(t.TempDir())
	dir := t.TempDir()

	jpg, err := locker.LockPath(filepath.Join(dir, "Cat Photo.JPG"))
	if err != nil {
		t.Fatal(err)
	}
	png, err := locker.LockPath(filepath.Join(dir, "cat photo.png"))
	if err != nil {
		t.Fatal(err)
	}
	if jpg != png {
		t.Fatalf("expected shared lock path, got %q and %q", jpg, png)
	}
	if !strings.HasPrefix(filepath.Base(jpg), "cat_photo-") || filepath.Ext(jpg) != ".lock" {
		t.Fatalf("unexpected lock name %q", jpg)
	}

	other, err := locker.LockPath(filepath.Join(dir, "dog.png"))
	if err != nil {
		t.Fatal(err)
	}
	if other == jpg {
		t.Fatal("different images must not share a lock")
	}
}

func TestTryAcquireBusy(t *testing.T) {
	lockDir := t.TempDir()
	target := filepath.Join(t.TempDir(), "a.png")

	first, err := New(lockDir).TryAcquire(target)
	if err != nil {
		t.Fatalf("first acquire: %v", err)
	}

	if _, err := New(lockDir).TryAcquire(target); !errors.Is(err, ErrBusy) {
		t.Fatalf("second acquire = %v, want ErrBusy", err)
	}

	if err := first.Release(); err != nil {
		t.Fatalf("release: %v", err)
	}
	again, err := New(lockDir).TryAcquire(target)
	if err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	_ = again.Release()
}

func TestAcquireHonoursContext(t *testing.T) {
	lockDir := t.TempDir()
	target := filepath.Join(t.TempDir(), "a.png")

	held, err := New(lockDir).TryAcquire(target)
	if err != nil {
		t.Fatal(err)
	}
	defer held.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer cancel()
	if _, err := New(lockDir).Acquire(ctx, target); err == nil {
		t.Fatal("expected Acquire to give up when the context expires")
	}
}

func TestPrepareRequiresDir(t *testing.T) {
	if _, err := New("").TryAcquire("a.png"); err == nil {
		t.Fatal("expected error without lock directory")
	}
}

func TestReleaseNil(t *testing.T) {
	var l *Lock
	if err := l.Release(); err != nil {
		t.Fatalf("nil release: %v", err)
	}
	if l.Path() != "" {
		t.Fatal("nil lock should have empty path")
	}
}
