// Copyright 2026 The Clktree Authors
// SPDX-License-Identifier: Apache-2.0

package clkdebug

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"

	"github.com/clktree-foundation/clktree/lib/clk"
)

// Options configures Init.
type Options struct {
	// Measure is the shared measurement mux clock. Nil, or a clock
	// that cannot be reparented, leaves the layer without measurement
	// support; per-clock measure attributes are then never exposed.
	Measure clk.Clock

	// ScratchSize is the enabled-list buffer capacity in bytes. Zero
	// uses DefaultScratchSize; negative builds the layer without the
	// buffer, degrading list rendering to an unavailable response.
	ScratchSize int

	// Logger receives diagnostic messages. If nil, an error-level
	// stderr logger is used.
	Logger *slog.Logger
}

// Debug is the explicit context holding all debug-layer state: the
// registry, the rate controller, the optional measurement mux, the
// enabled-set reporter, the per-clock attribute groups, and the
// debug_suspend hook value. Created by Init, torn down by Close.
type Debug struct {
	logger   *slog.Logger
	registry *Registry
	rates    *RateController
	mux      *Mux
	enabled  *EnabledReporter

	// debugSuspend is a read-write hook value for the inspection
	// surface; nothing in this layer consumes it.
	debugSuspend atomic.Uint32

	// mu guards groups and order during Add and Close. Reads of an
	// installed group's attrs need no lock; groups are immutable once
	// installed.
	mu     sync.Mutex
	groups map[string]*AttrGroup
	order  []string
	closed bool
}

// Init builds the debug context over the platform's clock table. The
// table becomes the immutable registry used for all reporting. A
// registry construction failure is fatal to Init and leaves no state
// behind; the platform is expected to continue without debug support.
func Init(table []clk.Clock, options Options) (*Debug, error) {
	if options.Logger == nil {
		options.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelError,
		}))
	}

	registry, err := NewRegistry(table)
	if err != nil {
		return nil, fmt.Errorf("building clock registry: %w", err)
	}

	scratchSize := options.ScratchSize
	if scratchSize == 0 {
		scratchSize = DefaultScratchSize
	}

	debug := &Debug{
		logger:   options.Logger,
		registry: registry,
		rates:    NewRateController(options.Logger),
		enabled:  NewEnabledReporter(registry, scratchSize, options.Logger),
		groups:   make(map[string]*AttrGroup),
	}

	if options.Measure != nil {
		mux, err := NewMux(options.Measure, options.Logger)
		if err != nil {
			// Measurement is optional: the layer runs without it and
			// simply exposes no measure attributes.
			options.Logger.Warn("measurement mux unavailable", "error", err)
		} else {
			debug.mux = mux
		}
	}

	return debug, nil
}

// Registry returns the immutable clock registry.
func (d *Debug) Registry() *Registry {
	return d.registry
}

// Rates returns the rate controller.
func (d *Debug) Rates() *RateController {
	return d.rates
}

// Mux returns the measurement mux, or nil when measurement support is
// absent.
func (d *Debug) Mux() *Mux {
	return d.mux
}

// EnabledCount returns the number of currently enabled clocks.
func (d *Debug) EnabledCount() int {
	return d.enabled.Count()
}

// RenderEnabledList returns the bounded comma-separated list of
// enabled clock names in registration order.
func (d *Debug) RenderEnabledList() (string, error) {
	return d.enabled.Render()
}

// PrintEnabled logs a snapshot of the enabled clock list. Programmatic
// hook for other subsystems.
func (d *Debug) PrintEnabled() {
	d.enabled.Print()
}

// ShowAll logs every enabled clock on its own line and returns the
// count. This is the scan behind the root showall attribute; unlike
// RenderEnabledList it does not need the scratch buffer.
func (d *Debug) ShowAll() int {
	count := 0
	for _, clock := range d.registry.All() {
		if clk.Enabled(clock) {
			d.logger.Info("enabled clock", "name", clock.Name())
			count++
		}
	}
	if count > 0 {
		d.logger.Info("enabled clock count", "count", count)
	} else {
		d.logger.Info("no clocks enabled")
	}
	return count
}

// DebugSuspend returns the debug_suspend hook value.
func (d *Debug) DebugSuspend() uint32 {
	return d.debugSuspend.Load()
}

// SetDebugSuspend stores the debug_suspend hook value.
func (d *Debug) SetDebugSuspend(value uint32) {
	d.debugSuspend.Store(value)
}

// RootAttrs returns the attributes living directly under the
// inspection root: the debug_suspend hook and the showall scan.
func (d *Debug) RootAttrs() []Attr {
	return []Attr{
		writableUintAttr("debug_suspend",
			func() (uint64, error) { return uint64(d.DebugSuspend()), nil },
			func(value uint64) error {
				d.SetDebugSuspend(uint32(value))
				return nil
			},
		),
		uintAttr("showall", func() (uint64, error) {
			return uint64(d.ShowAll()), nil
		}),
	}
}

// Group returns the attribute group installed under the given
// lowercased name.
func (d *Debug) Group(name string) (*AttrGroup, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	group, ok := d.groups[name]
	return group, ok
}

// Groups returns all installed attribute groups in Add order.
func (d *Debug) Groups() []*AttrGroup {
	d.mu.Lock()
	defer d.mu.Unlock()
	groups := make([]*AttrGroup, 0, len(d.order))
	for _, name := range d.order {
		groups = append(groups, d.groups[name])
	}
	return groups
}

// Close tears the context down: the attribute groups are released and
// the scratch buffer freed. Operations on a closed context report
// unavailability; the underlying clocks are untouched.
func (d *Debug) Close() {
	d.mu.Lock()
	d.groups = nil
	d.order = nil
	d.closed = true
	d.mu.Unlock()

	d.enabled.release()
}
