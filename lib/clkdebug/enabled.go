// Copyright 2026 The Clktree Authors
// SPDX-License-Identifier: Apache-2.0

package clkdebug

import (
	"log/slog"
	"sync"

	"github.com/clktree-foundation/clktree/lib/clk"
)

// DefaultScratchSize is the capacity in bytes of the enabled-list
// scratch buffer.
const DefaultScratchSize = 1024

// MsgNoneEnabled is returned by Render when no clock is enabled, so
// callers never see an empty string.
const MsgNoneEnabled = "no clocks enabled"

// EnabledReporter aggregates the set of currently enabled clocks into
// a bounded text rendering. The scratch buffer is singleton mutable
// state, so renders are serialized by a mutex. The buffer is optional:
// a reporter built without one degrades to ErrUnavailable instead of
// faulting.
type EnabledReporter struct {
	logger   *slog.Logger
	registry *Registry

	// mu guards scratch during renders and release.
	mu      sync.Mutex
	scratch []byte
}

// NewEnabledReporter builds a reporter over the registry. scratchSize
// is the list buffer capacity in bytes; zero or negative leaves the
// reporter without a buffer, in which case Render and Print report
// unavailability. A nil logger discards.
func NewEnabledReporter(registry *Registry, scratchSize int, logger *slog.Logger) *EnabledReporter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	reporter := &EnabledReporter{logger: logger, registry: registry}
	if scratchSize > 0 {
		reporter.scratch = make([]byte, 0, scratchSize)
	}
	return reporter
}

// Count returns the number of clocks whose effective enabled predicate
// holds, in a single pass over the registry. It does not depend on the
// scratch buffer.
func (r *EnabledReporter) Count() int {
	count := 0
	for _, clock := range r.registry.All() {
		if clk.Enabled(clock) {
			count++
		}
	}
	return count
}

// Render builds the comma-separated list of enabled clock names in
// registration order, bounded by the scratch buffer's capacity. A name
// whose append would overflow the buffer stops the scan before any
// out-of-bounds write; the list is truncated there. Returns
// MsgNoneEnabled when nothing is enabled and ErrUnavailable when the
// reporter has no buffer.
func (r *EnabledReporter) Render() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.scratch == nil {
		return "", ErrUnavailable
	}

	buf := r.scratch[:0]
	for _, clock := range r.registry.All() {
		if !clk.Enabled(clock) {
			continue
		}
		name := clock.Name()
		// Headroom check before the append, never after: name plus
		// the ", " separator must fit or the scan stops here.
		if len(buf)+len(name)+2 > cap(buf) {
			break
		}
		buf = append(buf, name...)
		buf = append(buf, ", "...)
	}

	if len(buf) == 0 {
		return MsgNoneEnabled, nil
	}
	// Trim the separator written after the last name.
	return string(buf[:len(buf)-2]), nil
}

// Print logs a snapshot of the enabled clock list. This is the
// programmatic hook other subsystems call; failures degrade to a log
// line, never a fault.
func (r *EnabledReporter) Print() {
	list, err := r.Render()
	if err != nil {
		r.logger.Info("enabled clock list unavailable", "error", err)
		return
	}
	count := r.Count()
	if count == 0 {
		r.logger.Info("no clocks enabled")
		return
	}
	r.logger.Info("enabled clocks", "count", count, "list", list)
}

// release drops the scratch buffer. Called from Debug.Close; later
// renders report unavailability.
func (r *EnabledReporter) release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scratch = nil
}
