// Copyright 2026 The Clktree Authors
// SPDX-License-Identifier: Apache-2.0

// Package clkdebug implements the debug and bounded-control layer over
// a clock tree: reading and, within policy limits, mutating per-clock
// state on behalf of an external inspector.
//
// All state lives in a [Debug] context created by [Init] and torn down
// by [Debug.Close]; there are no package-level globals. Init takes the
// platform's clock table and an optional measurement mux clock, builds
// the immutable [Registry], and allocates the enabled-list scratch
// buffer. [Debug.Add] is then called once per clock to construct its
// externally visible attribute group, gated by which capability
// interfaces the driver implements.
//
// The attribute groups are a passive model ([AttrGroup], [Attr]): each
// attribute renders newline-terminated decimal text on read and parses
// decimal text on write. A filesystem host (lib/clkdebug/fuse) maps
// the model onto an inspection mount; this package never touches the
// filesystem itself.
//
// Failure handling follows two classes. Setup failures (registry
// construction, name collisions during Add) are returned to the
// caller of that setup call and leave no partial state: an attribute
// group is either fully installed or absent. Operational failures
// (rejected rate set, failed measurement reparent) are returned to the
// caller of that one query and logged; they never affect other clocks
// and are never retried.
package clkdebug
