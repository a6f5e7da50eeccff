package config

import "github.com/zoobzio/capitan"

// Configuration watch signals.
var (
	// WatchStarted is emitted when Watch begins watching a file.
	WatchStarted = capitan.NewSignal(
		"ive.config.watch.started",
		"Configuration watch started",
	)

	// WatchStopped is emitted when Watch returns.
	WatchStopped = capitan.NewSignal(
		"ive.config.watch.stopped",
		"Configuration watch stopped",
	)

	// Reloaded is emitted after a changed file was applied.
	Reloaded = capitan.NewSignal(
		"ive.config.reloaded",
		"Configuration reloaded",
	)

	// ReloadFailed is emitted when a changed file could not be loaded.
	ReloadFailed = capitan.NewSignal(
		"ive.config.reload.failed",
		"Configuration reload failed",
	)
)

// Signal fields.
var (
	// KeyPath is the watched file path.
	KeyPath = capitan.NewStringKey("path")

	// KeyError is the load or validation error.
	KeyError = capitan.NewStringKey("error")
)
