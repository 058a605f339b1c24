// Copyright 2026 The Clktree Authors
// SPDX-License-Identifier: Apache-2.0

package clkdebug

import (
	"fmt"

	"github.com/clktree-foundation/clktree/lib/clk"
)

// Registry is the ordered collection of clocks known to the debug
// layer. It is built once from the platform's clock table and never
// changes afterward, so concurrent reads need no synchronization.
// Iteration order is registration order; all reporting uses it.
type Registry struct {
	clocks []clk.Clock
}

// NewRegistry builds a registry from the clock table. The table is
// copied; the caller's slice is not retained. Nil entries are a table
// construction bug and are rejected.
func NewRegistry(table []clk.Clock) (*Registry, error) {
	clocks := make([]clk.Clock, len(table))
	for i, clock := range table {
		if clock == nil {
			return nil, fmt.Errorf("clock table entry %d is nil", i)
		}
		clocks[i] = clock
	}
	return &Registry{clocks: clocks}, nil
}

// All returns the clocks in registration order. The returned slice is
// the registry's own backing array; callers must not modify it.
func (r *Registry) All() []clk.Clock {
	return r.clocks
}

// Len returns the number of registered clocks.
func (r *Registry) Len() int {
	return len(r.clocks)
}
