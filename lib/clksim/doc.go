// Copyright 2026 The Clktree Authors
// SPDX-License-Identifier: Apache-2.0

// Package clksim provides a simulated clock driver set implementing
// the capability interfaces from lib/clk. The clktree-fs binary and
// the FUSE tests run over it; on a real platform the same debug layer
// sits over actual hardware drivers instead.
//
// Each variant implements exactly the capabilities its hardware
// counterpart would: [FixedClock] is an always-present source with an
// immutable rate, [TunableClock] a continuously tunable branch with
// platform bounds, [SteppedClock] a branch restricted to a discrete
// rate table, [RemoteClock] a clock owned by another processor, and
// [MuxClock] the reparentable measurement mux. Capability presence is
// therefore a property of the variant's type, which is what the debug
// layer's attribute gating keys on.
//
// [Load] reads a YAML clock-table file describing a tree in terms of
// these variants; [Config.Build] turns it into the table and optional
// measurement clock that clkdebug.Init consumes.
package clksim
