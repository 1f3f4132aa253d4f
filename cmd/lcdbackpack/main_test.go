// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/coffeepi/devices/charscreen"
	"github.com/coffeepi/devices/hd44780"
	"github.com/coffeepi/devices/hd44780/backpacksim"
	"github.com/coffeepi/devices/internal/config"
	"github.com/coffeepi/devices/mcp23008"
)

var noon = time.Date(2024, 5, 1, 12, 34, 56, 0, time.UTC)

func TestClockRow(t *testing.T) {
	tests := []struct {
		layout string
		icon   bool
		cols   int
		want   string
	}{
		{"15:04:05", false, 16, "12:34:56        "},
		{"15:04:05", true, 16, "\x00 12:34:56      "},
		{"2006-01-02 15:04:05", false, 16, "2024-05-01 12:34"},
		{"15:04", true, 4, "\x00 12"},
	}
	for _, test := range tests {
		if got := string(clockRow(noon, test.layout, test.icon, test.cols)); got != test.want {
			t.Errorf("clockRow(%q, %t, %d) = %q, expected %q", test.layout, test.icon, test.cols, got, test.want)
		}
	}
}

func emulated(t *testing.T) (*panel, *bytes.Buffer) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Emulate = true
	bus, sim, err := openBus(cfg)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { bus.Close() })
	dev, err := hd44780.New(bus, cfg.Address, &hd44780.Opts{Rows: cfg.Rows, Cols: cfg.Cols})
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	p := &panel{
		dev:    dev,
		sim:    sim,
		screen: charscreen.New(&charscreen.Opts{Rows: cfg.Rows, Cols: cfg.Cols, W: &out}),
		cfg:    cfg,
	}
	return p, &out
}

func TestPanel(t *testing.T) {
	p, out := emulated(t)
	if err := p.show("Brewing\nready"); err != nil {
		t.Fatal(err)
	}
	lines := p.sim.Lines()
	if lines[0] != "Brewing         " || lines[1] != "ready           " {
		t.Errorf("display shows %q", lines)
	}
	if !strings.Contains(out.String(), "Brewing") {
		t.Errorf("terminal shows %q", out.String())
	}
	if !p.dev.BacklightOn() {
		t.Error("backlight should be on")
	}

	if err := loadIcon(p.dev, "█"); err != nil {
		t.Fatal(err)
	}
	p.icon = true
	if err := p.showClock(noon); err != nil {
		t.Fatal(err)
	}
	lines = p.sim.Lines()
	if lines[0] != "Brewing         " || lines[1] != "\x00 12:34:56      " {
		t.Errorf("display shows %q", lines)
	}
	if p.sim.Glyph(0) == [8]byte{} {
		t.Error("clock icon is blank")
	}
}

func TestPanelBacklightOff(t *testing.T) {
	p, _ := emulated(t)
	p.cfg.Backlight = false
	if err := p.show("dark"); err != nil {
		t.Fatal(err)
	}
	if p.dev.BacklightOn() {
		t.Error("backlight should be off")
	}
}

// released reports whether the expander is back in its reset configuration.
func released(sim *backpacksim.Sim) bool {
	safe := mcp23008.SafeState()
	for reg := range byte(mcp23008.NumRegisters) {
		if sim.Register(reg) != safe[reg] {
			return false
		}
	}
	return true
}

func TestRunHaltsOnError(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.RefreshCron = "every minute"
	sim := backpacksim.New(nil)
	if err := run(context.Background(), sim, sim, cfg, false, io.Discard); err == nil {
		t.Fatal("expected an error for a bad schedule")
	}
	if !released(sim) {
		t.Error("expander not released after a failed start")
	}
}

func TestRunHaltsOnShutdown(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.RefreshCron = "@every 1h"
	sim := backpacksim.New(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := run(ctx, sim, sim, cfg, false, io.Discard); err != nil {
		t.Fatal(err)
	}
	if !released(sim) {
		t.Error("expander not released on shutdown")
	}
}

func TestRunOnceKeepsDisplay(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Message = "once"
	sim := backpacksim.New(nil)
	if err := run(context.Background(), sim, sim, cfg, true, io.Discard); err != nil {
		t.Fatal(err)
	}
	if released(sim) {
		t.Error("display released with -once")
	}
	if got := sim.Lines()[0]; got != "once            " {
		t.Errorf("row 0 = %q", got)
	}
}
