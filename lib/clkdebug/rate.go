// Copyright 2026 The Clktree Authors
// SPDX-License-Identifier: Apache-2.0

package clkdebug

import (
	"fmt"
	"log/slog"

	"github.com/clktree-foundation/clktree/lib/clk"
)

// RateController applies the rate-clamp policy to set-rate requests.
// Which driver setter is authoritative depends on the clock's
// constraint flags; the controller never retries and never touches
// clocks other than the one named in the request.
type RateController struct {
	logger *slog.Logger
}

// NewRateController returns a controller logging through the given
// logger. A nil logger discards.
func NewRateController(logger *slog.Logger) *RateController {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &RateController{logger: logger}
}

// SetRate requests a new rate for the clock.
//
// For a max-constrained clock the platform ceiling is probed first
// with a best-effort max-clamp. Only increases up to the platform max
// can succeed there, and a rejection is itself useful when probing
// limits, so the pre-step's outcome is logged and dropped, never
// escalated.
//
// The authoritative call is the min-variant setter for a
// min-constrained clock and the plain setter otherwise. Its status is
// returned exactly as the driver produced it.
func (c *RateController) SetRate(clock clk.Clock, rate uint64) error {
	flags := clock.Flags()

	if flags.Has(clk.FlagMaxRateConstrained) {
		if setter, ok := clock.(clk.MaxRateSetter); ok {
			if err := setter.SetMaxRate(rate); err != nil {
				c.logger.Debug("max-clamp pre-step rejected",
					"clock", clock.Name(),
					"rate", rate,
					"error", err,
				)
			}
		}
	}

	var err error
	if flags.Has(clk.FlagMinRateConstrained) {
		setter, ok := clock.(clk.MinRateSetter)
		if !ok {
			return fmt.Errorf("clock %s: min-rate setter: %w", clock.Name(), ErrUnsupported)
		}
		err = setter.SetMinRate(rate)
	} else {
		setter, ok := clock.(clk.RateSetter)
		if !ok {
			return fmt.Errorf("clock %s: rate setter: %w", clock.Name(), ErrUnsupported)
		}
		err = setter.SetRate(rate)
	}

	if err != nil {
		c.logger.Error("rate set failed",
			"clock", clock.Name(),
			"rate", rate,
			"min_constrained", flags.Has(clk.FlagMinRateConstrained),
			"error", err,
		)
	}
	return err
}

// Rate returns the driver-reported current rate. Pure read; the driver
// reports 0 for a clock that is off or unsupported.
func (c *RateController) Rate(clock clk.Clock) uint64 {
	return clock.Rate()
}
