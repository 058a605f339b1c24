// Copyright 2026 The Clktree Authors
// SPDX-License-Identifier: Apache-2.0

package clksim

import (
	"fmt"
	"sync"

	"github.com/clktree-foundation/clktree/lib/clk"
)

// FixedClock is an always-present source with an immutable rate, like
// a crystal oscillator. It reports enablement explicitly and cannot be
// tuned, enabled, or disabled.
type FixedClock struct {
	name string
	rate uint64
	on   bool
}

// NewFixed returns a fixed-rate source clock.
func NewFixed(name string, rate uint64, on bool) *FixedClock {
	return &FixedClock{name: name, rate: rate, on: on}
}

func (c *FixedClock) Name() string     { return c.name }
func (c *FixedClock) Flags() clk.Flag  { return 0 }
func (c *FixedClock) Rate() uint64     { return c.rate }
func (c *FixedClock) EnableCount() int { return 0 }
func (c *FixedClock) IsEnabled() bool  { return c.on }
func (c *FixedClock) IsLocal() bool    { return true }

// TunableClock is a continuously tunable branch clock with optional
// platform rate bounds and a reference-counted enable. The adjustable
// ceiling set through SetMaxRate can never exceed the platform
// maximum.
type TunableClock struct {
	name     string
	flags    clk.Flag
	minBound uint64 // platform floor; 0 means none
	maxBound uint64 // platform ceiling; 0 means none

	mu      sync.Mutex
	rate    uint64
	count   int
	ceiling uint64 // adjustable ceiling; 0 means the platform ceiling
}

// NewTunable returns a tunable branch clock. minBound and maxBound are
// the platform rate bounds; zero disables the respective bound.
func NewTunable(name string, flags clk.Flag, rate, minBound, maxBound uint64) *TunableClock {
	return &TunableClock{
		name:     name,
		flags:    flags,
		minBound: minBound,
		maxBound: maxBound,
		rate:     rate,
	}
}

func (c *TunableClock) Name() string    { return c.name }
func (c *TunableClock) Flags() clk.Flag { return c.flags }
func (c *TunableClock) IsLocal() bool   { return true }

func (c *TunableClock) Rate() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rate
}

func (c *TunableClock) EnableCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

func (c *TunableClock) effectiveCeiling() uint64 {
	if c.ceiling != 0 {
		return c.ceiling
	}
	return c.maxBound
}

// SetRate applies the exact requested rate, rejecting anything outside
// the platform floor and the effective ceiling.
func (c *TunableClock) SetRate(rate uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.minBound != 0 && rate < c.minBound {
		return fmt.Errorf("clock %s: rate %d below platform minimum %d", c.name, rate, c.minBound)
	}
	if ceiling := c.effectiveCeiling(); ceiling != 0 && rate > ceiling {
		return fmt.Errorf("clock %s: rate %d above ceiling %d", c.name, rate, ceiling)
	}
	c.rate = rate
	return nil
}

// SetMinRate treats the request as a floor: the clock runs at the
// requested rate or the platform minimum, whichever is higher. A floor
// above the effective ceiling is rejected.
func (c *TunableClock) SetMinRate(rate uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ceiling := c.effectiveCeiling(); ceiling != 0 && rate > ceiling {
		return fmt.Errorf("clock %s: floor %d above ceiling %d", c.name, rate, ceiling)
	}
	if rate < c.minBound {
		rate = c.minBound
	}
	c.rate = rate
	return nil
}

// SetMaxRate adjusts the ceiling. Requests above the platform maximum
// fail; the ceiling is unchanged.
func (c *TunableClock) SetMaxRate(rate uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.maxBound != 0 && rate > c.maxBound {
		return fmt.Errorf("clock %s: ceiling %d above platform maximum %d", c.name, rate, c.maxBound)
	}
	c.ceiling = rate
	return nil
}

func (c *TunableClock) Enable() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count++
	return nil
}

func (c *TunableClock) Disable() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.count > 0 {
		c.count--
	}
}

// SteppedClock is a branch clock restricted to a discrete table of
// supported rates. It reports enablement explicitly from its gate
// state and enumerates the table for discrete-rate listing.
type SteppedClock struct {
	name  string
	rates []uint64

	mu    sync.Mutex
	rate  uint64
	count int
	gate  bool
}

// NewStepped returns a discrete-rate clock supporting exactly the
// given rates, in the given enumeration order.
func NewStepped(name string, rates []uint64, rate uint64) (*SteppedClock, error) {
	if len(rates) == 0 {
		return nil, fmt.Errorf("clock %s: empty discrete rate table", name)
	}
	return &SteppedClock{
		name:  name,
		rates: append([]uint64(nil), rates...),
		rate:  rate,
	}, nil
}

func (c *SteppedClock) Name() string    { return c.name }
func (c *SteppedClock) Flags() clk.Flag { return 0 }
func (c *SteppedClock) IsLocal() bool   { return true }

func (c *SteppedClock) Rate() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rate
}

func (c *SteppedClock) EnableCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

func (c *SteppedClock) IsEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gate
}

// SetRate accepts only rates present in the discrete table.
func (c *SteppedClock) SetRate(rate uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, supported := range c.rates {
		if supported == rate {
			c.rate = rate
			return nil
		}
	}
	return fmt.Errorf("clock %s: rate %d not in the discrete table", c.name, rate)
}

// RateAt enumerates the discrete table; a negative return terminates
// the enumeration.
func (c *SteppedClock) RateAt(index int) int64 {
	if index < 0 || index >= len(c.rates) {
		return -1
	}
	return int64(c.rates[index])
}

func (c *SteppedClock) Enable() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count++
	c.gate = true
	return nil
}

func (c *SteppedClock) Disable() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.count > 0 {
		c.count--
	}
	if c.count == 0 {
		c.gate = false
	}
}

// RemoteClock is owned by another processor: not local, rate fixed
// from this side, enablement tracked only as local consumer votes.
type RemoteClock struct {
	name string
	rate uint64

	mu    sync.Mutex
	count int
}

// NewRemote returns a remotely owned clock.
func NewRemote(name string, rate uint64) *RemoteClock {
	return &RemoteClock{name: name, rate: rate}
}

func (c *RemoteClock) Name() string    { return c.name }
func (c *RemoteClock) Flags() clk.Flag { return 0 }
func (c *RemoteClock) Rate() uint64    { return c.rate }
func (c *RemoteClock) IsLocal() bool   { return false }

func (c *RemoteClock) EnableCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

func (c *RemoteClock) Enable() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count++
	return nil
}

func (c *RemoteClock) Disable() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.count > 0 {
		c.count--
	}
}

// MuxClock is the reparentable measurement mux. Its reported rate is
// its current parent's rate divided by the hardware divider. An
// optional route set restricts which clocks it can be parented onto;
// an empty set means every clock is reachable.
type MuxClock struct {
	name    string
	divider uint64
	routes  map[string]bool // nil means unrestricted

	mu     sync.Mutex
	parent clk.Clock
}

// NewMux returns a measurement mux. A zero divider means 1.
func NewMux(name string, divider uint64, routes []string) *MuxClock {
	if divider == 0 {
		divider = 1
	}
	mux := &MuxClock{name: name, divider: divider}
	if len(routes) > 0 {
		mux.routes = make(map[string]bool, len(routes))
		for _, route := range routes {
			mux.routes[route] = true
		}
	}
	return mux
}

func (c *MuxClock) Name() string     { return c.name }
func (c *MuxClock) Flags() clk.Flag  { return 0 }
func (c *MuxClock) EnableCount() int { return 0 }

func (c *MuxClock) Rate() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.parent == nil {
		return 0
	}
	return c.parent.Rate() / c.divider
}

// SetParent reparents the mux onto the given clock. Clocks outside the
// route set are unreachable and the parent is left unchanged.
func (c *MuxClock) SetParent(parent clk.Clock) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.routes != nil && !c.routes[parent.Name()] {
		return fmt.Errorf("mux %s: no measurement route to %s", c.name, parent.Name())
	}
	c.parent = parent
	return nil
}
