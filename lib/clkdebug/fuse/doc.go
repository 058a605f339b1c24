// Copyright 2026 The Clktree Authors
// SPDX-License-Identifier: Apache-2.0

// Package fuse exposes a Debug context's attribute tree as a FUSE
// filesystem, standing in for the kernel debugfs mount the layer is
// modeled on.
//
// The mountpoint is the clk/ root: it holds the debug_suspend and
// showall scalars plus one directory per registered clock, named by
// the clock's lowercased identifier and containing that clock's
// attribute files. Directory listing and lookup go to the Debug
// context on every call, so clocks added after the mount appear
// immediately.
//
// All attribute files are served with direct I/O: content is rendered
// at open time (which is what makes the list_rates stream restartable)
// and never cached by the kernel, so every read observes current clock
// state.
package fuse
