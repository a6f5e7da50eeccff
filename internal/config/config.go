package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ive-dev/ive/internal/errors"
	"github.com/ive-dev/ive/pkg/ive"
)

const (
	// DefaultAddr is the default preview server address.
	DefaultAddr = "localhost:3000"

	// DefaultMount is the default router mount path.
	DefaultMount = "/"

	// DefaultLiveRate is the default inbound websocket message rate per
	// connection, in messages per second.
	DefaultLiveRate = 20

	// DefaultLiveBurst is the default inbound websocket burst.
	DefaultLiveBurst = 40

	// DefaultExportDir is the default snapshot output directory.
	DefaultExportDir = "dist"
)

// FileNames are the configuration file names searched by Load, in order.
var FileNames = []string{"ive.json", "ive.yaml", "ive.yml"}

var validate = validator.New()

// Config represents an ive.json (or ive.yaml) configuration.
type Config struct {
	// Mount is the router mount path.
	Mount string `json:"mount,omitempty" yaml:"mount,omitempty" validate:"required,startswith=/"`

	// MarkerPrefix is the reserved attribute prefix.
	MarkerPrefix string `json:"markerPrefix,omitempty" yaml:"markerPrefix,omitempty" validate:"required"`

	// MarkerPolicy is "regenerate" or "copy".
	MarkerPolicy string `json:"markerPolicy,omitempty" yaml:"markerPolicy,omitempty" validate:"oneof=regenerate copy"`

	// Notify is "index" or "scan".
	Notify string `json:"notify,omitempty" yaml:"notify,omitempty" validate:"oneof=index scan"`

	// IDs is "counter" or "uuid".
	IDs string `json:"ids,omitempty" yaml:"ids,omitempty" validate:"oneof=counter uuid"`

	// Server contains preview server configuration.
	Server ServerConfig `json:"server,omitempty" yaml:"server,omitempty"`

	// Log contains logging configuration.
	Log LogConfig `json:"log,omitempty" yaml:"log,omitempty"`

	// Export contains snapshot export configuration.
	Export ExportConfig `json:"export,omitempty" yaml:"export,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains preview server settings.
type ServerConfig struct {
	// Addr is the listen address.
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty" validate:"required"`

	// LiveRate limits inbound websocket messages per second per connection.
	LiveRate float64 `json:"liveRate,omitempty" yaml:"liveRate,omitempty" validate:"gte=0"`

	// LiveBurst is the burst allowed above LiveRate.
	LiveBurst int `json:"liveBurst,omitempty" yaml:"liveBurst,omitempty" validate:"gte=0"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty" yaml:"level,omitempty" validate:"oneof=debug info warn error"`
}

// ExportConfig contains snapshot export settings. When Bucket is set
// snapshots go to S3, otherwise to Dir.
type ExportConfig struct {
	// Paths are the locations to render.
	Paths []string `json:"paths,omitempty" yaml:"paths,omitempty" validate:"dive,startswith=/"`

	// Dir is the output directory.
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty"`

	// Bucket is the S3 bucket name.
	Bucket string `json:"bucket,omitempty" yaml:"bucket,omitempty"`

	// Prefix is prepended to S3 object keys.
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty"`

	// Region is the S3 region.
	Region string `json:"region,omitempty" yaml:"region,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Mount:        DefaultMount,
		MarkerPrefix: ive.DefaultMarkerPrefix,
		MarkerPolicy: ive.MarkersRegenerate.String(),
		Notify:       ive.NotifyIndex.String(),
		IDs:          "counter",
		Server: ServerConfig{
			Addr:      DefaultAddr,
			LiveRate:  DefaultLiveRate,
			LiveBurst: DefaultLiveBurst,
		},
		Log: LogConfig{
			Level: "info",
		},
		Export: ExportConfig{
			Paths: []string{"/"},
			Dir:   DefaultExportDir,
		},
	}
}

// Find returns the first configuration file in dir.
func Find(dir string) (string, bool) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, ok := Find(dir)
	return ok
}

// Load reads configuration from the specified directory. Without a
// configuration file it returns the defaults.
func Load(dir string) (*Config, error) {
	path, ok := Find(dir)
	if !ok {
		return New(), nil
	}
	return LoadFile(path)
}

// LoadFile reads configuration from the specified file path. The format is
// chosen by extension: .yaml and .yml are YAML, anything else JSON.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("E101").WithField("path", path).Wrap(err)
	}
	cfg, err := Parse(data, isYAML(path))
	if err != nil {
		return nil, errors.FromError(err, "E101").WithField("path", path)
	}
	cfg.configPath = path
	return cfg, nil
}

// Parse decodes and validates configuration data over the defaults.
func Parse(data []byte, asYAML bool) (*Config, error) {
	cfg := New()
	var err error
	if asYAML {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, errors.New("E101").
			WithDetail("Failed to parse configuration: " + err.Error()).
			WithSuggestion("Check that the file is valid JSON or YAML").
			Wrap(err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveTo writes the configuration to path in the format its extension
// names.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New("E101").Wrap(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E101").WithField("path", path).Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for fields a file set to empty.
func (c *Config) applyDefaults() {
	if c.Mount == "" {
		c.Mount = DefaultMount
	}
	if c.MarkerPrefix == "" {
		c.MarkerPrefix = ive.DefaultMarkerPrefix
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Export.Dir == "" {
		c.Export.Dir = DefaultExportDir
	}
	if len(c.Export.Paths) == 0 {
		c.Export.Paths = []string{"/"}
	}
	c.MarkerPolicy = strings.ToLower(c.MarkerPolicy)
	c.Notify = strings.ToLower(c.Notify)
	c.IDs = strings.ToLower(c.IDs)
	c.Log.Level = strings.ToLower(c.Log.Level)
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fields []string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
		}
		return errors.New("E102").
			WithDetail("Invalid fields: " + strings.Join(fields, ", ")).
			Wrap(err)
	}
	return nil
}

// RuntimeOptions translates the configuration into runtime options.
func (c *Config) RuntimeOptions() []ive.Option {
	opts := []ive.Option{ive.WithMarkerPrefix(c.MarkerPrefix)}
	if c.MarkerPolicy == ive.MarkersCopy.String() {
		opts = append(opts, ive.WithMarkerPolicy(ive.MarkersCopy))
	}
	if c.Notify == ive.NotifyScan.String() {
		opts = append(opts, ive.WithNotifyMode(ive.NotifyScan))
	}
	if c.IDs == "uuid" {
		opts = append(opts, ive.WithIDAllocator(ive.UUIDAllocator{}))
	}
	return opts
}

// SlogLevel returns the configured log level.
func (c *Config) SlogLevel() slog.Level {
	switch c.Log.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
