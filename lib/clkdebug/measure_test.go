// Copyright 2026 The Clktree Authors
// SPDX-License-Identifier: Apache-2.0

package clkdebug

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestMeasureReturnsMuxReportedRate(t *testing.T) {
	t.Parallel()
	target := &stubClock{name: "SDC1_CLK", rate: 48000000}
	mux, err := NewMux(&muxClock{stubClock: stubClock{name: "MEASURE"}, div: 4}, nil)
	if err != nil {
		t.Fatalf("NewMux: %v", err)
	}

	rate, err := mux.Measure(target)
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	// The mux's own reported rate is returned verbatim, scaling
	// included; it is not recomputed back to the target's rate.
	if rate != 12000000 {
		t.Errorf("Measure: got %d, want 12000000", rate)
	}
}

func TestMeasureReparentFailure(t *testing.T) {
	t.Parallel()
	noRoute := errors.New("no route to clock")
	target := &stubClock{name: "PCM_CLK", rate: 2048000, count: 1}
	mux, err := NewMux(&muxClock{
		stubClock: stubClock{name: "MEASURE"},
		denied:    map[string]error{"PCM_CLK": noRoute},
	}, nil)
	if err != nil {
		t.Fatalf("NewMux: %v", err)
	}

	rate, err := mux.Measure(target)
	if !errors.Is(err, noRoute) {
		t.Fatalf("Measure: got %v, want the driver's reparent error", err)
	}
	if rate != 0 {
		t.Errorf("Measure returned a rate alongside the error: %d", rate)
	}
	// A failed measurement must not disturb the target.
	if target.count != 1 {
		t.Errorf("target enable count changed: got %d, want 1", target.count)
	}
}

func TestNewMuxRequiresParentSetter(t *testing.T) {
	t.Parallel()
	_, err := NewMux(&stubClock{name: "MEASURE"}, nil)
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("NewMux on non-reparentable clock: got %v, want ErrUnsupported", err)
	}
}

func TestProbe(t *testing.T) {
	t.Parallel()
	mux, err := NewMux(&muxClock{
		stubClock: stubClock{name: "MEASURE"},
		denied:    map[string]error{"BLOCKED": errors.New("no route")},
	}, nil)
	if err != nil {
		t.Fatalf("NewMux: %v", err)
	}

	if !mux.Probe(&stubClock{name: "OPEN"}) {
		t.Error("Probe of reachable clock: got false, want true")
	}
	if mux.Probe(&stubClock{name: "BLOCKED"}) {
		t.Error("Probe of unreachable clock: got true, want false")
	}
}

func TestMeasureSerializesConcurrentCalls(t *testing.T) {
	t.Parallel()
	mux, err := NewMux(&muxClock{stubClock: stubClock{name: "MEASURE"}, div: 1}, nil)
	if err != nil {
		t.Fatalf("NewMux: %v", err)
	}

	// Every measurement holds the mux for its full reparent-then-read
	// sequence, so each caller must see its own target's rate even
	// when many targets are measured at once.
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		target := &stubClock{
			name: fmt.Sprintf("CLK_%d", i),
			rate: uint64(1000000 * (i + 1)),
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			rate, err := mux.Measure(target)
			if err != nil {
				t.Errorf("Measure(%s): %v", target.name, err)
				return
			}
			if rate != target.rate {
				t.Errorf("Measure(%s): got %d, want %d (clobbered by a concurrent reparent)",
					target.name, rate, target.rate)
			}
		}()
	}
	wg.Wait()
}
