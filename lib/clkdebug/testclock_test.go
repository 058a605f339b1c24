// Copyright 2026 The Clktree Authors
// SPDX-License-Identifier: Apache-2.0

package clkdebug

import (
	"github.com/clktree-foundation/clktree/lib/clk"
)

// stubClock implements only the required driver surface. Variants
// below embed it and add exactly the capability under test.
type stubClock struct {
	name  string
	flags clk.Flag
	rate  uint64
	count int
}

func (c *stubClock) Name() string     { return c.name }
func (c *stubClock) Flags() clk.Flag  { return c.flags }
func (c *stubClock) Rate() uint64     { return c.rate }
func (c *stubClock) EnableCount() int { return c.count }

// rateClock records every setter invocation and applies injectable
// failures, so tests can assert which setter variant was authoritative
// and in what order the calls happened.
type rateClock struct {
	stubClock

	setCalls []uint64
	minCalls []uint64
	maxCalls []uint64

	setErr error
	minErr error
	maxErr error
}

func (c *rateClock) SetRate(rate uint64) error {
	c.setCalls = append(c.setCalls, rate)
	if c.setErr != nil {
		return c.setErr
	}
	c.rate = rate
	return nil
}

func (c *rateClock) SetMinRate(rate uint64) error {
	c.minCalls = append(c.minCalls, rate)
	if c.minErr != nil {
		return c.minErr
	}
	c.rate = rate
	return nil
}

func (c *rateClock) SetMaxRate(rate uint64) error {
	c.maxCalls = append(c.maxCalls, rate)
	return c.maxErr
}

// enableClock adds the enable/disable capability over the reference
// count.
type enableClock struct {
	stubClock
	enableErr error
}

func (c *enableClock) Enable() error {
	if c.enableErr != nil {
		return c.enableErr
	}
	c.count++
	return nil
}

func (c *enableClock) Disable() {
	if c.count > 0 {
		c.count--
	}
}

// explicitClock reports enablement explicitly, overriding the count.
type explicitClock struct {
	stubClock
	enabled bool
}

func (c *explicitClock) IsEnabled() bool { return c.enabled }

// localClock adds locality reporting.
type localClock struct {
	stubClock
	local bool
}

func (c *localClock) IsLocal() bool { return c.local }

// listClock enumerates a discrete rate table and records every query
// index, so tests can assert enumeration stops at the sentinel.
type listClock struct {
	stubClock
	rates   []int64
	queries []int
}

func (c *listClock) RateAt(index int) int64 {
	c.queries = append(c.queries, index)
	if index < len(c.rates) {
		return c.rates[index]
	}
	return -1
}

// muxClock is a reparentable clock whose reported rate is its current
// parent's rate divided by div, mimicking the internal scaling a
// hardware measurement mux applies. Reparenting onto a denied target
// fails without changing the parent.
type muxClock struct {
	stubClock
	parent clk.Clock
	div    uint64
	denied map[string]error
}

func (c *muxClock) SetParent(parent clk.Clock) error {
	if err := c.denied[parent.Name()]; err != nil {
		return err
	}
	c.parent = parent
	return nil
}

func (c *muxClock) Rate() uint64 {
	if c.parent == nil {
		return 0
	}
	div := c.div
	if div == 0 {
		div = 1
	}
	return c.parent.Rate() / div
}
