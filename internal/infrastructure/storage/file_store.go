package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

const tmpPrefix = ".tmp-"

// FileBackend stores one file per key inside dir. Writes land in a temp file
// that is renamed into place, so readers never see half a value.
type FileBackend struct {
	fs  afero.Fs
	dir string
}

// NewFileBackend creates dir if needed. Pass afero.NewOsFs() in production
// and afero.NewMemMapFs() in tests.
func NewFileBackend(fsys afero.Fs, dir string) (*FileBackend, error) {
	if err := fsys.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("file store: mkdir %s: %w", dir, err)
	}
	return &FileBackend{fs: fsys, dir: dir}, nil
}

func (b *FileBackend) Get(_ context.Context, key string) (string, bool, error) {
	data, err := afero.ReadFile(b.fs, b.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("file store: read %q: %w", key, err)
	}
	return string(data), true, nil
}

func (b *FileBackend) Set(_ context.Context, key, value string) error {
	tmp := filepath.Join(b.dir, tmpPrefix+uuid.NewString())
	if err := afero.WriteFile(b.fs, tmp, []byte(value), 0o600); err != nil {
		return fmt.Errorf("file store: write %q: %w", key, err)
	}
	if err := b.fs.Rename(tmp, b.path(key)); err != nil {
		_ = b.fs.Remove(tmp)
		return fmt.Errorf("file store: rename %q: %w", key, err)
	}
	return nil
}

func (b *FileBackend) Delete(_ context.Context, key string) error {
	if err := b.fs.Remove(b.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("file store: remove %q: %w", key, err)
	}
	return nil
}

func (b *FileBackend) path(key string) string {
	return filepath.Join(b.dir, url.PathEscape(key))
}

// Watch reports keys changed by any process writing the same directory,
// until ctx is cancelled. It only works when the backend sits on the OS
// filesystem, since fsnotify observes real paths.
func (b *FileBackend) Watch(ctx context.Context, log zerolog.Logger, onChange func(key string)) error {
	if _, ok := b.fs.(*afero.OsFs); !ok {
		return errors.New("file store: watch requires the OS filesystem")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("file store: create watcher: %w", err)
	}
	if err := watcher.Add(b.dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("file store: watch %s: %w", b.dir, err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if key, relevant := b.keyFor(event); relevant {
					log.Debug().Str("key", key).Str("op", event.Op.String()).Msg("store entry changed")
					onChange(key)
				}
			case werr, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Error().Err(werr).Msg("store watcher error")
			}
		}
	}()
	return nil
}

func (b *FileBackend) keyFor(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return "", false
	}
	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, tmpPrefix) {
		return "", false
	}
	key, err := url.PathUnescape(name)
	if err != nil {
		return "", false
	}
	return key, true
}

// DefaultDir resolves a relative store directory against the user's home,
// falling back to the working directory.
func DefaultDir(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, dir)
	}
	return dir
}
