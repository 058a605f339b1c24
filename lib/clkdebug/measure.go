// Copyright 2026 The Clktree Authors
// SPDX-License-Identifier: Apache-2.0

package clkdebug

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/clktree-foundation/clktree/lib/clk"
)

// Mux drives the shared measurement clock: reparenting it onto a
// target clock makes the mux's own reported rate reflect the target's.
//
// The mux is a single process-wide resource whose parent is mutated by
// every measurement, so all measurement calls are serialized by an
// internal mutex. Without it, two concurrent measurements of different
// clocks race on the parent and one reads the other's target.
type Mux struct {
	mu     sync.Mutex
	clock  clk.Clock
	setter clk.ParentSetter
	logger *slog.Logger
}

// NewMux wraps the measurement clock. The clock must support
// reparenting; ErrUnsupported is returned otherwise and the caller
// should continue without measurement support.
func NewMux(clock clk.Clock, logger *slog.Logger) (*Mux, error) {
	setter, ok := clock.(clk.ParentSetter)
	if !ok {
		return nil, fmt.Errorf("measurement clock %s cannot be reparented: %w", clock.Name(), ErrUnsupported)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Mux{clock: clock, setter: setter, logger: logger}, nil
}

// Measure reparents the mux onto target and returns the mux's own
// reported rate. The value reflects the target's rate through whatever
// scaling the mux hardware applies and is reported verbatim.
//
// On reparent failure no rate is returned and the target's enable and
// power state are untouched; the mux never enables what it measures.
func (m *Mux) Measure(target clk.Clock) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.setter.SetParent(target); err != nil {
		m.logger.Debug("measurement reparent failed",
			"target", target.Name(),
			"error", err,
		)
		return 0, fmt.Errorf("reparenting measurement mux onto %s: %w", target.Name(), err)
	}
	return m.clock.Rate(), nil
}

// Probe reports whether the mux can be reparented onto target. The
// attribute builder calls this once per clock at build time and caches
// the answer by exposing or omitting the measure attribute; it is not
// re-checked on later reads.
func (m *Mux) Probe(target clk.Clock) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setter.SetParent(target) == nil
}
