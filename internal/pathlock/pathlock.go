package pathlock

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"ppifix/internal/fileutil"
	"ppifix/internal/textutil"
)

// ErrBusy is returned by TryAcquire when another process holds the lock.
var ErrBusy = errors.New("image is locked by another ppifix process")

const retryDelay = 100 * time.Millisecond

// Locker hands out advisory locks stored under Dir.
type Locker struct {
	Dir string
}

// New returns a Locker rooted at dir.
func New(dir string) *Locker {
	return &Locker{Dir: dir}
}

// Lock is a held advisory lock. Release it exactly once.
type Lock struct {
	lock *flock.Flock
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	if l == nil || l.lock == nil {
		return ""
	}
	return l.lock.Path()
}

// Release unlocks the lock. The lock file stays behind; unlinking it would
// let a waiter lock an inode that a newcomer can no longer see.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	return nil
}

// LockPath maps an image path to its lock file. The key is the absolute
// directory plus the extension-less file name, so a.jpg and its a.png
// conversion target share one lock.
func (l *Locker) LockPath(target string) (string, error) {
	abs, err := filepath.Abs(target)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", target, err)
	}
	dir, base, _ := fileutil.SplitExt(abs)
	key := strings.ToLower(filepath.Join(dir, base))
	sum := sha256.Sum256([]byte(key))
	name := textutil.SanitizeToken(base) + "-" + hex.EncodeToString(sum[:8]) + ".lock"
	return filepath.Join(l.Dir, name), nil
}

// TryAcquire takes the lock for target without waiting.
func (l *Locker) TryAcquire(target string) (*Lock, error) {
	fl, err := l.prepare(target)
	if err != nil {
		return nil, err
	}
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", target, ErrBusy)
	}
	return &Lock{lock: fl}, nil
}

// Acquire waits for the lock on target until ctx is done.
func (l *Locker) Acquire(ctx context.Context, target string) (*Lock, error) {
	fl, err := l.prepare(target)
	if err != nil {
		return nil, err
	}
	ok, err := fl.TryLockContext(ctx, retryDelay)
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", target, ErrBusy)
	}
	return &Lock{lock: fl}, nil
}

func (l *Locker) prepare(target string) (*flock.Flock, error) {
	if strings.TrimSpace(l.Dir) == "" {
		return nil, errors.New("lock directory not configured")
	}
	if err := os.MkdirAll(l.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	path, err := l.LockPath(target)
	if err != nil {
		return nil, err
	}
	return flock.New(path), nil
}
