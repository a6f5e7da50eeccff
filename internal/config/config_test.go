package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zoobzio/capitan"

	"github.com/ive-dev/ive/internal/errors"
	"github.com/ive-dev/ive/pkg/ive"
)

func TestNew(t *testing.T) {
	cfg := New()
	assert.Equal(t, DefaultMount, cfg.Mount)
	assert.Equal(t, ive.DefaultMarkerPrefix, cfg.MarkerPrefix)
	assert.Equal(t, "regenerate", cfg.MarkerPolicy)
	assert.Equal(t, "index", cfg.Notify)
	assert.Equal(t, DefaultAddr, cfg.Server.Addr)
	assert.Equal(t, []string{"/"}, cfg.Export.Paths)
	assert.NoError(t, cfg.Validate())
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, New(), cfg)
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "ive.json"), `{
		"mount": "/app",
		"markerPolicy": "Copy",
		"notify": "scan",
		"server": {"addr": ":9000"},
		"export": {"paths": ["/", "/users/1"], "bucket": "snapshots"}
	}`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "/app", cfg.Mount)
	assert.Equal(t, "copy", cfg.MarkerPolicy)
	assert.Equal(t, "scan", cfg.Notify)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, float64(DefaultLiveRate), cfg.Server.LiveRate)
	assert.Equal(t, []string{"/", "/users/1"}, cfg.Export.Paths)
	assert.Equal(t, "snapshots", cfg.Export.Bucket)
	assert.Equal(t, filepath.Join(dir, "ive.json"), cfg.Path())
	assert.Equal(t, dir, cfg.Dir())
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "ive.yaml"), `
mount: /docs
ids: uuid
log:
  level: debug
`)
	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "/docs", cfg.Mount)
	assert.Equal(t, "uuid", cfg.IDs)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		code    string
	}{
		{"bad json", "ive.json", `{"mount":`, "E101"},
		{"bad yaml", "ive.yml", "mount: [", "E101"},
		{"bad policy", "ive.json", `{"markerPolicy": "keep"}`, "E102"},
		{"bad mount", "ive.json", `{"mount": "app"}`, "E102"},
		{"bad export path", "ive.json", `{"export": {"paths": ["users"]}}`, "E102"},
		{"negative rate", "ive.json", `{"server": {"liveRate": -1}}`, "E102"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			writeFile(t, path, tt.content)
			_, err := LoadFile(path)
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, tt.code), "got %v", err)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	for _, name := range []string{"ive.json", "ive.yaml"} {
		t.Run(name, func(t *testing.T) {
			cfg := New()
			cfg.Mount = "/x"
			cfg.Export.Region = "eu-west-1"
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, cfg.SaveTo(path))

			loaded, err := LoadFile(path)
			require.NoError(t, err)
			assert.Equal(t, "/x", loaded.Mount)
			assert.Equal(t, "eu-west-1", loaded.Export.Region)
		})
	}
}

func TestRuntimeOptions(t *testing.T) {
	cfg := New()
	cfg.MarkerPrefix = "data-ive-"
	cfg.MarkerPolicy = "copy"
	cfg.Notify = "scan"

	rt, err := ive.New(cfg.RuntimeOptions()...)
	require.NoError(t, err)
	defer rt.Close()

	assert.Equal(t, "data-ive-", rt.MarkerPrefix())
	assert.Equal(t, ive.MarkersCopy, rt.MarkerPolicy())
	assert.Equal(t, ive.NotifyScan, rt.NotifyMode())
}

func TestWatchReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ive.json")
	writeFile(t, path, `{"mount": "/a"}`)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	applied := make(chan *Config, 1)
	failed := make(chan error, 64)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path,
			func(c *Config) {
				select {
				case applied <- c:
				default:
				}
			},
			func(err error) {
				select {
				case failed <- err:
				default:
				}
			})
	}()

	// Keep writing until the watcher is running and sees a change.
	deadline := time.After(5 * time.Second)
reload:
	for {
		writeFile(t, path, `{"mount": "/b"}`)
		select {
		case cfg := <-applied:
			assert.Equal(t, "/b", cfg.Mount)
			break reload
		case <-time.After(100 * time.Millisecond):
		case <-deadline:
			t.Fatal("no reload observed")
		}
	}

	// A truncating write may surface as a parse error first.
	writeFile(t, path, `{"mount": "nope"}`)
	deadline = time.After(5 * time.Second)
	for {
		select {
		case err := <-failed:
			if errors.HasCode(err, "E102") {
				cancel()
				require.NoError(t, <-done)
				return
			}
		case <-deadline:
			t.Fatal("invalid file not reported")
		}
	}
}

func TestWatchSignals(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ive.yaml")
	writeFile(t, path, "mount: /a\n")

	reloaded := make(chan string, 64)
	failed := make(chan string, 64)
	l1 := capitan.Hook(Reloaded, func(_ context.Context, e *capitan.Event) {
		if p, _ := KeyPath.From(e); p == path {
			select {
			case reloaded <- p:
			default:
			}
		}
	})
	defer l1.Close()
	l2 := capitan.Hook(ReloadFailed, func(_ context.Context, e *capitan.Event) {
		if p, _ := KeyPath.From(e); p == path {
			msg, _ := KeyError.From(e)
			select {
			case failed <- msg:
			default:
			}
		}
	})
	defer l2.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(*Config) {}, nil)
	}()

	deadline := time.After(5 * time.Second)
reload:
	for {
		writeFile(t, path, "mount: /b\n")
		select {
		case got := <-reloaded:
			assert.Equal(t, path, got)
			break reload
		case <-time.After(100 * time.Millisecond):
		case <-deadline:
			t.Fatal("no Reloaded signal")
		}
	}

	writeFile(t, path, "mount: nope\n")
	deadline = time.After(5 * time.Second)
	for {
		select {
		case msg := <-failed:
			if strings.Contains(msg, "E102") {
				cancel()
				require.NoError(t, <-done)
				return
			}
		case <-deadline:
			t.Fatal("no ReloadFailed signal")
		}
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}
