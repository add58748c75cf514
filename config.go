package gpuslot

import (
	"context"
	"fmt"
	"time"

	"github.com/viant/afs"
	"github.com/viant/gpuslot/model/slot"
	"github.com/viant/gpuslot/service/registry"
	"github.com/viant/gpuslot/service/worker"
	"gopkg.in/yaml.v3"
)

// Config is a serialisable representation of the slot manager configuration.
// Fields omitted in a config file keep their DefaultConfig values.
type Config struct {
	// Slots is number of GPU slots, 0 detects devices with nvidia-smi
	Slots      int           `json:"slots" yaml:"slots"`
	OutputRoot string        `json:"outputRoot" yaml:"outputRoot"`
	Worker     worker.Config `json:"worker" yaml:"worker"`
	Monitor    MonitorConfig `json:"monitor" yaml:"monitor"`
	Log        LogConfig     `json:"log" yaml:"log"`
	Defaults   slot.Defaults `json:"defaults" yaml:"defaults"`
	HTTP       HTTPConfig    `json:"http" yaml:"http"`
}

type MonitorConfig struct {
	Interval time.Duration `json:"interval" yaml:"interval"`
}

type LogConfig struct {
	// MaxEntries caps retained entries per slot, 0 keeps everything
	MaxEntries int `json:"maxEntries" yaml:"maxEntries"`
}

type HTTPConfig struct {
	Addr string `json:"addr" yaml:"addr"`
}

// DefaultConfig returns a Config populated with default values
func DefaultConfig() *Config {
	return &Config{
		Slots:      2,
		OutputRoot: "output",
		Monitor:    MonitorConfig{Interval: 5 * time.Second},
		Log:        LogConfig{MaxEntries: registry.DefaultMaxEntries},
		Defaults:   slot.DefaultDefaults(),
		HTTP:       HTTPConfig{Addr: ":8080"},
	}
}

// Init fills empty worker settings with defaults
func (c *Config) Init() {
	c.Worker.Init()
}

// Validate returns error describing invalid setting or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if c.Slots < 0 {
		return fmt.Errorf("slots must be >= 0")
	}
	if err := c.Worker.Validate(); err != nil {
		return err
	}
	if c.Monitor.Interval <= 0 {
		return fmt.Errorf("monitor.interval must be > 0")
	}
	if c.Log.MaxEntries < 0 {
		return fmt.Errorf("log.maxEntries must be >= 0")
	}
	defaults := slot.TaskRequest{InputPath: "-"}
	defaults.Init(c.Defaults)
	if err := defaults.Validate(); err != nil {
		return fmt.Errorf("invalid defaults: %w", err)
	}
	return nil
}

// LoadConfig loads YAML (or JSON) configuration from any afs supported URL
func LoadConfig(ctx context.Context, URL string) (*Config, error) {
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %v: %w", URL, err)
	}
	ret := DefaultConfig()
	if err = yaml.Unmarshal(data, ret); err != nil {
		return nil, fmt.Errorf("failed to decode config %v: %w", URL, err)
	}
	ret.Init()
	if err = ret.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %v: %w", URL, err)
	}
	return ret, nil
}
