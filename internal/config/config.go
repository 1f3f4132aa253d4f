// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package config holds the lcdbackpack configuration file model.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Defaults.
const (
	DefaultAddress     = 0x20
	DefaultRows        = 2
	DefaultCols        = 16
	DefaultClockFormat = "15:04:05"
	DefaultLogLevel    = "info"
)

// Config is the lcdbackpack configuration.
type Config struct {
	// Bus is the I²C bus name passed to i2creg.Open. Empty selects the
	// first bus.
	Bus string `yaml:"bus"`
	// Address is the MCP23008 bus address.
	Address uint16 `yaml:"address"`

	Rows int `yaml:"rows"`
	Cols int `yaml:"cols"`

	// Message is shown at startup; "\n" starts the second row.
	Message string `yaml:"message"`
	// Backlight turns the backlight on.
	Backlight bool `yaml:"backlight"`

	// RefreshCron is a cron schedule (e.g. "@every 1s" or "* * * * *") on
	// which the current time is written to the last row. Empty disables it.
	RefreshCron string `yaml:"refresh"`
	// ClockFormat is the time.Format layout of the clock row.
	ClockFormat string `yaml:"clock_format"`
	// ClockIcon is a character drawn from Go Mono into CGRAM slot 0 and shown
	// in front of the clock. Empty shows no icon.
	ClockIcon string `yaml:"clock_icon"`

	// BusyPollLimit bounds the busy flag poll; see hd44780.Opts.
	BusyPollLimit int `yaml:"busy_poll_limit"`

	// Emulate runs against the emulated backpack drawn on the terminal
	// instead of real hardware.
	Emulate bool `yaml:"emulate"`

	// LogLevel is a logrus level name.
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Address:     DefaultAddress,
		Rows:        DefaultRows,
		Cols:        DefaultCols,
		Message:     "Hello,\nworld!",
		Backlight:   true,
		ClockFormat: DefaultClockFormat,
		ClockIcon:   "●",
		LogLevel:    DefaultLogLevel,
	}
}

// Normalize fills in zero values with defaults so partially filled files
// still work.
func (c *Config) Normalize() {
	if c.Address == 0 {
		c.Address = DefaultAddress
	}
	if c.Rows == 0 {
		c.Rows = DefaultRows
	}
	if c.Cols == 0 {
		c.Cols = DefaultCols
	}
	if c.ClockFormat == "" {
		c.ClockFormat = DefaultClockFormat
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
}

// Validate reports settings no display can satisfy.
func (c *Config) Validate() error {
	if c.Address < 0x08 || c.Address > 0x77 {
		return fmt.Errorf("config: address %#x is not a 7-bit device address", c.Address)
	}
	if c.Rows < 1 || c.Rows > 4 {
		return fmt.Errorf("config: rows must be 1-4, got %d", c.Rows)
	}
	if c.Cols < 1 || c.Cols > 40 {
		return fmt.Errorf("config: cols must be 1-40, got %d", c.Cols)
	}
	if c.RefreshCron != "" {
		if _, err := cron.ParseStandard(c.RefreshCron); err != nil {
			return fmt.Errorf("config: refresh %q: %w", c.RefreshCron, err)
		}
	}
	return nil
}

// Load reads the YAML file at path. A missing file is not an error: the
// defaults are returned and nothing is written.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config: path is empty")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path atomically, through a temporary file in the same
// directory, with 0600 permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config: path is empty")
	}
	if cfg == nil {
		return errors.New("config: nil config")
	}
	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".lcdbackpack-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
