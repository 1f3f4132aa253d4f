// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// lcdbackpack shows a message on an HD44780 display behind an Adafruit
// I2C/SPI backpack, optionally keeping a clock on the last row.
//
// With -emulate (or emulate: true in the config file) the display is
// emulated and drawn on the terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/coffeepi/devices/charscreen"
	"github.com/coffeepi/devices/hd44780"
	"github.com/coffeepi/devices/hd44780/backpacksim"
	"github.com/coffeepi/devices/hd44780/glyph"
	"github.com/coffeepi/devices/internal/config"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"golang.org/x/image/font/gofont/gomono"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

type flagConfig struct {
	configPath  string
	message     string
	emulate     bool
	once        bool
	verbose     bool
	writeConfig bool
}

func parseFlags() flagConfig {
	var f flagConfig
	flag.StringVar(&f.configPath, "config", "/etc/lcdbackpack.yaml", "path to the config file")
	flag.StringVar(&f.message, "message", "", `text to show, "\n" starts the second row (overrides config)`)
	flag.BoolVar(&f.emulate, "emulate", false, "draw an emulated display on the terminal instead of using the bus")
	flag.BoolVar(&f.once, "once", false, "show the message and exit, leaving the display on")
	flag.BoolVar(&f.verbose, "v", false, "verbose logging")
	flag.BoolVar(&f.writeConfig, "write-config", false, "write the effective config to -config and exit")
	flag.Parse()
	return f
}

// panel serializes access to the display; the cron job and the main
// goroutine both write to it.
type panel struct {
	mu     sync.Mutex
	dev    *hd44780.Dev
	sim    *backpacksim.Sim
	screen *charscreen.Dev
	cfg    *config.Config
	icon   bool
}

// redraw copies the emulated display to the terminal.
func (p *panel) redraw() error {
	if p.screen == nil {
		return nil
	}
	return p.screen.Show(p.sim.Lines(), p.dev.BacklightOn())
}

func (p *panel) show(msg string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.dev.Clear(); err != nil {
		return err
	}
	if err := p.dev.Message(msg); err != nil {
		return err
	}
	var intensity display.Intensity
	if p.cfg.Backlight {
		intensity = 0xff
	}
	if err := p.dev.Backlight(intensity); err != nil {
		return err
	}
	return p.redraw()
}

func (p *panel) showClock(now time.Time) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.dev.SetCursor(0, p.dev.Rows()-1); err != nil {
		return err
	}
	if _, err := p.dev.Write(clockRow(now, p.cfg.ClockFormat, p.icon, p.dev.Cols())); err != nil {
		return err
	}
	return p.redraw()
}

// clockRow formats now as a full row of cols characters, prefixed with the
// custom character in slot 0 when icon is set.
func clockRow(now time.Time, layout string, icon bool, cols int) []byte {
	var row []byte
	if icon {
		row = append(row, 0, ' ')
	}
	row = append(row, now.Format(layout)...)
	for len(row) < cols {
		row = append(row, ' ')
	}
	return row[:cols]
}

// loadIcon renders the first character of s from Go Mono into CGRAM slot 0.
func loadIcon(dev *hd44780.Dev, s string) error {
	face, err := glyph.LoadFace(gomono.TTF, glyph.Height)
	if err != nil {
		return err
	}
	defer face.Close()
	r := []rune(s)[0]
	bitmap := glyph.Render(face, r)
	log.WithField("rune", string(r)).Debugf("clock icon\n%s", bitmap)
	return dev.CreateChar(0, bitmap)
}

func openBus(cfg *config.Config) (i2c.BusCloser, *backpacksim.Sim, error) {
	if cfg.Emulate {
		sim := backpacksim.New(&backpacksim.Opts{
			Addr:      cfg.Address,
			Rows:      cfg.Rows,
			Cols:      cfg.Cols,
			BusyPolls: 2,
		})
		return sim, sim, nil
	}
	if _, err := host.Init(); err != nil {
		return nil, nil, err
	}
	bus, err := i2creg.Open(cfg.Bus)
	if err != nil {
		return nil, nil, fmt.Errorf("open I²C bus %q: %w", cfg.Bus, err)
	}
	return bus, nil, nil
}

func mainImpl() error {
	flags := parseFlags()
	if flags.verbose {
		log.SetLevel(log.DebugLevel)
	}

	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return err
	}
	if flags.message != "" {
		cfg.Message = strings.ReplaceAll(flags.message, `\n`, "\n")
	}
	if flags.emulate {
		cfg.Emulate = true
	}
	if !flags.verbose {
		level, err := log.ParseLevel(cfg.LogLevel)
		if err != nil {
			return err
		}
		log.SetLevel(level)
	}
	if flags.writeConfig {
		if err := config.Save(flags.configPath, cfg); err != nil {
			return err
		}
		log.WithField("path", flags.configPath).Info("config written")
		return nil
	}
	log.WithFields(log.Fields{
		"bus":     cfg.Bus,
		"address": fmt.Sprintf("%#02x", cfg.Address),
		"rows":    cfg.Rows,
		"cols":    cfg.Cols,
		"refresh": cfg.RefreshCron,
		"emulate": cfg.Emulate,
		"once":    flags.once,
	}).Info("effective config")

	bus, sim, err := openBus(cfg)
	if err != nil {
		return err
	}
	defer bus.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return run(ctx, bus, sim, cfg, flags.once, nil)
}

// run brings up the display on bus, shows the message and, unless once is
// set, keeps the clock running until ctx is done. sim is the emulator behind
// bus, if any; its screen is drawn to out, or stdout when out is nil.
//
// Unless once is set the expander is handed back with Halt on return, errors
// included.
func run(ctx context.Context, bus i2c.Bus, sim *backpacksim.Sim, cfg *config.Config, once bool, out io.Writer) (err error) {
	dev, err := hd44780.New(bus, cfg.Address, &hd44780.Opts{
		Rows:          cfg.Rows,
		Cols:          cfg.Cols,
		BusyPollLimit: cfg.BusyPollLimit,
	})
	if err != nil {
		if errors.Is(err, hd44780.ErrBusyTimeout) {
			log.Warn("the controller never became ready; check the contrast pot and wiring")
		}
		return err
	}
	log.WithField("dev", dev).Debug("display ready")
	if !once {
		defer func() {
			if herr := dev.Halt(); herr != nil && err == nil {
				err = herr
			}
		}()
	}

	p := &panel{dev: dev, sim: sim, cfg: cfg}
	if sim != nil {
		p.screen = charscreen.New(&charscreen.Opts{Rows: cfg.Rows, Cols: cfg.Cols, W: out})
		defer p.screen.Halt()
	}
	if cfg.RefreshCron != "" && cfg.ClockIcon != "" {
		if err := loadIcon(dev, cfg.ClockIcon); err != nil {
			return fmt.Errorf("clock icon: %w", err)
		}
		p.icon = true
	}
	if err := p.show(cfg.Message); err != nil {
		return err
	}
	if once {
		return nil
	}

	var c *cron.Cron
	if cfg.RefreshCron != "" {
		c = cron.New()
		if _, err := c.AddFunc(cfg.RefreshCron, func() {
			if err := p.showClock(time.Now()); err != nil {
				log.WithError(err).Warn("clock update failed")
			}
		}); err != nil {
			return fmt.Errorf("refresh schedule %q: %w", cfg.RefreshCron, err)
		}
		c.Start()
		log.WithField("schedule", cfg.RefreshCron).Info("clock refresh started")
	}

	<-ctx.Done()
	log.Info("shutting down")
	if c != nil {
		// Wait for a running update so Halt is the last write.
		<-c.Stop().Done()
	}
	return nil
}

func main() {
	if err := mainImpl(); err != nil {
		log.WithError(err).Error("lcdbackpack")
		os.Exit(1)
	}
}
