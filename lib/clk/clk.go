// Copyright 2026 The Clktree Authors
// SPDX-License-Identifier: Apache-2.0

package clk

// Flag is a bit set of rate-constraint flags a driver declares for a
// clock. The debug layer uses the flags to pick which setter variant
// is authoritative for a rate change.
type Flag uint32

const (
	// FlagMinRateConstrained marks a clock whose rate changes must go
	// through the min-variant setter: the requested value is a floor
	// the platform may raise.
	FlagMinRateConstrained Flag = 1 << iota

	// FlagMaxRateConstrained marks a clock with a platform rate
	// ceiling. Rate changes probe the ceiling with a best-effort
	// max-clamp before the authoritative setter runs.
	FlagMaxRateConstrained
)

// Has reports whether all bits in other are set in f.
func (f Flag) Has(other Flag) bool {
	return f&other == other
}

// Clock is the surface every clock driver provides. Implementations
// must serialize concurrent calls to their own mutating operations;
// the debug layer adds no per-clock locking of its own.
type Clock interface {
	// Name returns the clock's immutable identifier. Names are unique
	// per table in their original spelling; the debug layer
	// additionally requires uniqueness after lowercasing.
	Name() string

	// Flags returns the clock's rate-constraint flags.
	Flags() Flag

	// Rate returns the driver-reported current rate in Hz. Always
	// succeeds; drivers return 0 for a clock that is off or whose
	// rate is unknown.
	Rate() uint64

	// EnableCount returns the clock's enable reference count: the
	// number of consumers currently holding it on.
	EnableCount() int
}

// RateSetter is implemented by clocks that accept rate changes.
type RateSetter interface {
	// SetRate requests the given rate in Hz. Single attempt; the
	// driver either applies a rate and returns nil or rejects the
	// request and returns an error.
	SetRate(rate uint64) error
}

// MinRateSetter is implemented by clocks whose driver distinguishes a
// floor-style rate request. For a clock flagged
// [FlagMinRateConstrained] this is the authoritative setter.
type MinRateSetter interface {
	SetMinRate(rate uint64) error
}

// MaxRateSetter is implemented by clocks with an adjustable platform
// rate ceiling.
type MaxRateSetter interface {
	SetMaxRate(rate uint64) error
}

// Enabler is implemented by clocks that can be switched on and off.
// Enable and Disable adjust the enable reference count.
type Enabler interface {
	Enable() error
	Disable()
}

// EnableReporter is implemented by clocks whose driver can answer
// "is this clock actually running" directly, independent of the
// reference count. When present it overrides the count-based
// predicate; see [Enabled].
type EnableReporter interface {
	IsEnabled() bool
}

// LocalityReporter is implemented by clocks whose driver knows whether
// the clock is controlled by the local processor or a remote one.
type LocalityReporter interface {
	IsLocal() bool
}

// RateLister is implemented by clocks that support only a discrete set
// of rates.
type RateLister interface {
	// RateAt returns the supported rate at the given enumeration
	// index, in whatever order the driver defines. A negative return
	// is the end-of-enumeration sentinel; callers must stop querying
	// once they see it.
	RateAt(index int) int64
}

// ParentSetter is implemented by clocks that can be reparented onto
// another clock in the tree. The measurement mux implements this; the
// debug layer reparents it onto a target to sample the target's rate.
type ParentSetter interface {
	SetParent(parent Clock) error
}

// Enabled is the effective enabled predicate: drivers that report
// enablement explicitly are asked, all others count as enabled while
// their enable reference count is positive.
func Enabled(clock Clock) bool {
	if reporter, ok := clock.(EnableReporter); ok {
		return reporter.IsEnabled()
	}
	return clock.EnableCount() > 0
}
