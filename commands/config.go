package commands

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cargoreplay/cargoreplay/internal/application/replay"
)

// fileConfig mirrors the optional yaml config file. Flags override it.
type fileConfig struct {
	Speed              float64 `yaml:"speed"`
	TickMillis         int     `yaml:"tick_ms"`
	EventLogSize       int     `yaml:"event_log_size"`
	DefaultTransitDays int     `yaml:"default_transit_days"`
	Curvature          float64 `yaml:"curvature"`
	AuthorityEndpoint  string  `yaml:"authority_endpoint"`
	TimelinePath       string  `yaml:"timeline"`
	TimelineURL        string  `yaml:"timeline_url"`
	AirportsPath       string  `yaml:"airports"`
	AirportsURL        string  `yaml:"airports_url"`
}

func loadConfigFile(path string) (*fileConfig, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return &fc, nil
}

// apply copies file settings into the replay config where flags left
// defaults in place.
func (fc *fileConfig) apply(cfg *replay.Config) {
	if fc == nil {
		return
	}
	if cfg.TimelinePath == "" {
		cfg.TimelinePath = fc.TimelinePath
	}
	if cfg.TimelineURL == "" {
		cfg.TimelineURL = fc.TimelineURL
	}
	if cfg.AirportsPath == "" {
		cfg.AirportsPath = fc.AirportsPath
	}
	if cfg.AirportsURL == "" {
		cfg.AirportsURL = fc.AirportsURL
	}
	if cfg.Speed == 0 {
		cfg.Speed = fc.Speed
	}
	if cfg.TickInterval == 0 && fc.TickMillis > 0 {
		cfg.TickInterval = time.Duration(fc.TickMillis) * time.Millisecond
	}
	if cfg.EventLogSize == 0 {
		cfg.EventLogSize = fc.EventLogSize
	}
	if cfg.DefaultTransitDays == 0 {
		cfg.DefaultTransitDays = fc.DefaultTransitDays
	}
	if cfg.Curvature == 0 {
		cfg.Curvature = fc.Curvature
	}
	if cfg.AuthorityEndpoint == "" {
		cfg.AuthorityEndpoint = fc.AuthorityEndpoint
	}
}
