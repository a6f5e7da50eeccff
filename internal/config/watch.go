package config

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/zoobzio/capitan"

	"github.com/ive-dev/ive/internal/errors"
)

// Watch reloads the file at path whenever it is written or replaced and
// passes each valid configuration to apply. The Reloaded signal is emitted
// before apply runs. Invalid files and watcher errors are reported through
// the ReloadFailed signal and onError (which may be nil), and the previous
// configuration stays in effect. Watch blocks until ctx is done.
//
// The parent directory is watched so editors that save by rename are seen.
func Watch(ctx context.Context, path string, apply func(*Config), onError func(error)) error {
	path = filepath.Clean(path)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.New("E103").WithField("path", path).Wrap(err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return errors.New("E103").WithField("path", path).Wrap(err)
	}

	capitan.Emit(ctx, WatchStarted, KeyPath.Field(path))
	defer capitan.Emit(context.Background(), WatchStopped, KeyPath.Field(path))

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			// Only reload on write or create events
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			cfg, err := LoadFile(path)
			if err != nil {
				capitan.Emit(ctx, ReloadFailed, KeyPath.Field(path), KeyError.Field(err.Error()))
				if onError != nil {
					onError(err)
				}
				continue
			}
			capitan.Emit(ctx, Reloaded, KeyPath.Field(path))
			apply(cfg)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			// Continue watching despite errors
			werr := errors.New("E103").WithField("path", path).Wrap(err)
			capitan.Emit(ctx, ReloadFailed, KeyPath.Field(path), KeyError.Field(werr.Error()))
			if onError != nil {
				onError(werr)
			}
		}
	}
}
