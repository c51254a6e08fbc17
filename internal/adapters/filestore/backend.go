// Package filestore provides a file-backed SlotBackend for the local session.
// The session lives in a single JSON document under the user's config directory.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// defaultLockTimeout is the maximum time to wait for the session file lock.
const defaultLockTimeout = time.Second

const lockRetryDelay = 50 * time.Millisecond

// Options configures a Backend.
type Options struct {
	// Path of the session document. Required.
	Path string
	// LockTimeout bounds how long an operation waits for the file lock.
	LockTimeout time.Duration
	Logger      *slog.Logger
}

// Backend stores slots in a JSON file. Each operation holds a lock file for its
// duration and rewrites the document via temp file + rename, so a reader never
// observes a half-written document. Concurrent processes still race: the last
// writer wins and nobody is notified of changes.
type Backend struct {
	path        string
	lockTimeout time.Duration
	logger      *slog.Logger
}

// New creates a Backend.
func New(opts Options) (*Backend, error) {
	if opts.Path == "" {
		return nil, errors.New("session file path is required")
	}
	timeout := opts.LockTimeout
	if timeout <= 0 {
		timeout = defaultLockTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Backend{path: filepath.Clean(opts.Path), lockTimeout: timeout, logger: logger}, nil
}

// DefaultPath returns <user config dir>/<app>/session.json.
func DefaultPath(app string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(dir, app, "session.json"), nil
}

// Path returns the session document location.
func (b *Backend) Path() string { return b.path }

func (b *Backend) Get(ctx context.Context, key string) (string, bool, error) {
	var (
		value string
		ok    bool
	)
	err := b.withLock(ctx, true, func() error {
		doc, err := b.load(ctx)
		if err != nil {
			return err
		}
		value, ok = doc[key]
		return nil
	})
	return value, ok, err
}

func (b *Backend) Set(ctx context.Context, key, value string) error {
	return b.withLock(ctx, false, func() error {
		doc, err := b.load(ctx)
		if err != nil {
			return err
		}
		doc[key] = value
		return b.save(doc)
	})
}

func (b *Backend) Delete(ctx context.Context, keys ...string) error {
	return b.withLock(ctx, false, func() error {
		doc, err := b.load(ctx)
		if err != nil {
			return err
		}
		if len(doc) == 0 {
			return nil
		}
		for _, k := range keys {
			delete(doc, k)
		}
		return b.save(doc)
	})
}

func (b *Backend) withLock(ctx context.Context, shared bool, fn func() error) error {
	if err := os.MkdirAll(filepath.Dir(b.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	fileLock := flock.New(b.path + ".lock")
	lockCtx, cancel := context.WithTimeout(ctx, b.lockTimeout)
	defer cancel()

	var (
		locked bool
		err    error
	)
	if shared {
		locked, err = fileLock.TryRLockContext(lockCtx, lockRetryDelay)
	} else {
		locked, err = fileLock.TryLockContext(lockCtx, lockRetryDelay)
	}
	if err != nil {
		return fmt.Errorf("acquire session lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("acquire session lock: timeout after %v", b.lockTimeout)
	}
	defer func() {
		if uerr := fileLock.Unlock(); uerr != nil {
			b.logger.Warn("release session lock failed", "error", uerr)
		}
	}()

	return fn()
}

// load reads the document. A missing file is an empty session; an unreadable
// document is treated as empty so the next write replaces it.
func (b *Backend) load(ctx context.Context) (map[string]string, error) {
	// #nosec G304: path comes from configuration, not from request input.
	data, err := os.ReadFile(b.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}
	if len(data) == 0 {
		return map[string]string{}, nil
	}

	doc := map[string]string{}
	if err := json.Unmarshal(data, &doc); err != nil {
		b.logger.WarnContext(ctx, "session file is corrupt, treating as empty", "path", b.path, "error", err)
		return map[string]string{}, nil
	}
	return doc, nil
}

func (b *Backend) save(doc map[string]string) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session file: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(b.path), ".session-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp session file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write temp session file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("sync temp session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp session file: %w", err)
	}
	if err := os.Rename(tmpName, b.path); err != nil {
		cleanup()
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}
