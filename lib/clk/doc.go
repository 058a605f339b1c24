// Copyright 2026 The Clktree Authors
// SPDX-License-Identifier: Apache-2.0

// Package clk defines the capability surface the debug layer consumes
// from clock drivers.
//
// A driver exposes exactly one required interface, [Clock], which every
// clock in the tree implements: identity, constraint flags, the current
// rate, and the enable reference count. Everything else a driver may or
// may not support — setting rates, enabling, explicit enabled
// reporting, locality, discrete rate enumeration, reparenting — is a
// separate optional interface. Callers discover support with a type
// assertion and expose the corresponding functionality only when the
// assertion holds. This keeps the required surface minimal and makes
// capability presence a property of the driver's type rather than a
// nil-checked method table.
//
// [Enabled] is the effective enabled predicate used everywhere in the
// debug layer: a driver that implements [EnableReporter] is asked
// directly; otherwise a clock counts as enabled while its enable
// reference count is positive.
//
// This package has no dependencies and no state. The actual drivers
// live elsewhere (real hardware drivers on the platform, lib/clksim in
// this repository).
package clk
