// Copyright 2026 The Clktree Authors
// SPDX-License-Identifier: Apache-2.0

package clkdebug

import "errors"

var (
	// ErrNameCollision is returned by Add when two clocks' lowercased
	// names coincide. The second registration fails; the first keeps
	// its attribute group.
	ErrNameCollision = errors.New("lowercased clock name collision")

	// ErrUnavailable is returned when an optional facility (the
	// measurement mux, the enabled-list scratch buffer, or a closed
	// Debug context) is absent. The caller gets this instead of a
	// fault; the rest of the layer keeps working.
	ErrUnavailable = errors.New("debug facility unavailable")

	// ErrUnsupported is returned when an operation needs a driver
	// capability the clock does not implement, such as writing the
	// enable attribute of a clock without an Enabler.
	ErrUnsupported = errors.New("clock capability not supported")
)
