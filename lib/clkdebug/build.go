// Copyright 2026 The Clktree Authors
// SPDX-License-Identifier: Apache-2.0

package clkdebug

import (
	"fmt"
	"strings"

	"github.com/clktree-foundation/clktree/lib/clk"
)

// Add builds and installs the attribute group for one clock. The node
// name is the clock's name lowercased; two clocks whose lowercased
// names coincide are a registration error, reported as
// ErrNameCollision for the second one while the first keeps its group.
//
// The group is constructed completely before it becomes visible, so a
// failed Add leaves no partial attribute set behind.
//
// Which attributes the group contains depends on the driver's
// capabilities: rate and enable are always present, is_local needs
// locality reporting, list_rates needs discrete rate enumeration, and
// measure needs the mux plus a successful reparent probe to this clock
// at build time. The probe result is baked into the group; it is not
// re-checked on later reads.
func (d *Debug) Add(clock clk.Clock) error {
	if clock == nil {
		return fmt.Errorf("adding clock: nil clock")
	}
	name := strings.ToLower(clock.Name())

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return fmt.Errorf("adding clock %s: %w", clock.Name(), ErrUnavailable)
	}
	if _, exists := d.groups[name]; exists {
		return fmt.Errorf("clock %s collides with an existing clock at node %q: %w",
			clock.Name(), name, ErrNameCollision)
	}

	group := &AttrGroup{Name: name, Attrs: d.buildAttrs(clock)}
	d.groups[name] = group
	d.order = append(d.order, name)
	return nil
}

func (d *Debug) buildAttrs(clock clk.Clock) []Attr {
	attrs := []Attr{
		writableUintAttr("rate",
			func() (uint64, error) { return d.rates.Rate(clock), nil },
			func(value uint64) error { return d.rates.SetRate(clock, value) },
		),
		writableUintAttr("enable",
			func() (uint64, error) {
				if clk.Enabled(clock) {
					return 1, nil
				}
				return 0, nil
			},
			func(value uint64) error {
				enabler, ok := clock.(clk.Enabler)
				if !ok {
					return fmt.Errorf("clock %s: enable: %w", clock.Name(), ErrUnsupported)
				}
				if value != 0 {
					return enabler.Enable()
				}
				enabler.Disable()
				return nil
			},
		),
	}

	if reporter, ok := clock.(clk.LocalityReporter); ok {
		attrs = append(attrs, uintAttr("is_local", func() (uint64, error) {
			if reporter.IsLocal() {
				return 1, nil
			}
			return 0, nil
		}))
	}

	if d.mux != nil && d.mux.Probe(clock) {
		attrs = append(attrs, intAttr("measure", func() (int64, error) {
			rate, err := d.mux.Measure(clock)
			if err != nil {
				return 0, err
			}
			return int64(rate), nil
		}))
	}

	if lister, ok := clock.(clk.RateLister); ok {
		attrs = append(attrs, seqAttr("list_rates", lister.RateAt))
	}

	return attrs
}
