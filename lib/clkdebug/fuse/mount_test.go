// Copyright 2026 The Clktree Authors
// SPDX-License-Identifier: Apache-2.0

package fuse

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/clktree-foundation/clktree/lib/clk"
	"github.com/clktree-foundation/clktree/lib/clkdebug"
	"github.com/clktree-foundation/clktree/lib/clksim"
)

// fuseAvailable checks whether /dev/fuse is accessible. Tests that
// need a real FUSE mount call this and skip if the device is absent.
func fuseAvailable(t *testing.T) {
	t.Helper()
	if _, err := os.Stat("/dev/fuse"); err != nil {
		t.Skip("skipping: /dev/fuse not available")
	}
}

// testMount builds a small simulated tree, initializes the debug layer
// over it, registers every clock, and mounts the attribute tree.
func testMount(t *testing.T) (mountpoint string, debug *clkdebug.Debug) {
	t.Helper()
	fuseAvailable(t)

	xo := clksim.NewFixed("XO", 19200000, true)
	cpu := clksim.NewTunable("CPU_CLK", clk.FlagMinRateConstrained, 300000000, 100000000, 1500000000)
	if err := cpu.Enable(); err != nil {
		t.Fatalf("Enable(CPU_CLK): %v", err)
	}
	sdc, err := clksim.NewStepped("SDC1_CLK", []uint64{400000, 25000000, 50000000}, 400000)
	if err != nil {
		t.Fatalf("NewStepped: %v", err)
	}
	modem := clksim.NewRemote("MODEM_AHB_CLK", 73728000)
	table := []clk.Clock{xo, cpu, sdc, modem}

	measure := clksim.NewMux("MEASURE", 2, []string{"XO", "CPU_CLK", "SDC1_CLK"})

	debug, err = clkdebug.Init(table, clkdebug.Options{Measure: measure})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(debug.Close)

	for _, clock := range table {
		if err := debug.Add(clock); err != nil {
			t.Fatalf("Add(%s): %v", clock.Name(), err)
		}
	}

	mountpoint = filepath.Join(t.TempDir(), "clk")
	server, err := Mount(Options{Mountpoint: mountpoint, Debug: debug})
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	t.Cleanup(func() {
		if err := server.Unmount(); err != nil {
			t.Errorf("Unmount: %v", err)
		}
	})

	return mountpoint, debug
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(content)
}

func TestMountRootLayout(t *testing.T) {
	mountpoint, _ := testMount(t)

	entries, err := os.ReadDir(mountpoint)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	var names []string
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	want := []string{"cpu_clk", "debug_suspend", "modem_ahb_clk", "sdc1_clk", "showall", "xo"}
	if len(names) != len(want) {
		t.Fatalf("root entries: got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("root entries[%d]: got %s, want %s", i, names[i], want[i])
		}
	}
}

func TestMountRateRoundTrip(t *testing.T) {
	mountpoint, _ := testMount(t)
	ratePath := filepath.Join(mountpoint, "cpu_clk", "rate")

	if got := readFile(t, ratePath); got != "300000000\n" {
		t.Errorf("rate read: got %q, want %q", got, "300000000\n")
	}

	if err := os.WriteFile(ratePath, []byte("600000000\n"), 0o644); err != nil {
		t.Fatalf("rate write: %v", err)
	}
	if got := readFile(t, ratePath); got != "600000000\n" {
		t.Errorf("rate after write: got %q, want %q", got, "600000000\n")
	}

	// A floor above the platform ceiling is rejected by the driver;
	// the write must fail, not wedge the file.
	if err := os.WriteFile(ratePath, []byte("9999999999\n"), 0o644); err == nil {
		t.Error("out-of-bounds rate write: expected error")
	}
}

func TestMountEnableRoundTrip(t *testing.T) {
	mountpoint, debug := testMount(t)
	enablePath := filepath.Join(mountpoint, "sdc1_clk", "enable")

	if got := readFile(t, enablePath); got != "0\n" {
		t.Errorf("enable read: got %q, want %q", got, "0\n")
	}
	if err := os.WriteFile(enablePath, []byte("1\n"), 0o644); err != nil {
		t.Fatalf("enable write: %v", err)
	}
	if got := readFile(t, enablePath); got != "1\n" {
		t.Errorf("enable after write: got %q, want %q", got, "1\n")
	}
	if count := debug.EnabledCount(); count != 3 {
		// XO and CPU_CLK start enabled; SDC1_CLK just joined.
		t.Errorf("EnabledCount: got %d, want 3", count)
	}
}

func TestMountReadOnlyAttrs(t *testing.T) {
	mountpoint, _ := testMount(t)

	if got := readFile(t, filepath.Join(mountpoint, "xo", "is_local")); got != "1\n" {
		t.Errorf("is_local: got %q, want %q", got, "1\n")
	}
	if got := readFile(t, filepath.Join(mountpoint, "modem_ahb_clk", "is_local")); got != "0\n" {
		t.Errorf("remote is_local: got %q, want %q", got, "0\n")
	}

	err := os.WriteFile(filepath.Join(mountpoint, "xo", "is_local"), []byte("1\n"), 0o644)
	if err == nil {
		t.Error("write to read-only attribute: expected error")
	}
}

func TestMountMeasureGating(t *testing.T) {
	mountpoint, _ := testMount(t)

	// XO is routed: its measure file reports the mux rate (19.2 MHz
	// through the divide-by-2 mux).
	if got := readFile(t, filepath.Join(mountpoint, "xo", "measure")); got != "9600000\n" {
		t.Errorf("measure: got %q, want %q", got, "9600000\n")
	}

	// The modem clock is not routed; its probe failed at build time,
	// so the attribute does not exist.
	if _, err := os.Stat(filepath.Join(mountpoint, "modem_ahb_clk", "measure")); !os.IsNotExist(err) {
		t.Errorf("measure on unrouted clock: got %v, want not-exist", err)
	}
}

func TestMountListRates(t *testing.T) {
	mountpoint, _ := testMount(t)

	want := "400000\n25000000\n50000000\n"
	if got := readFile(t, filepath.Join(mountpoint, "sdc1_clk", "list_rates")); got != want {
		t.Errorf("list_rates: got %q, want %q", got, want)
	}

	// Clocks without discrete-rate enumeration have no list_rates.
	if _, err := os.Stat(filepath.Join(mountpoint, "cpu_clk", "list_rates")); !os.IsNotExist(err) {
		t.Errorf("list_rates on tunable clock: got %v, want not-exist", err)
	}
}

func TestMountDebugSuspend(t *testing.T) {
	mountpoint, debug := testMount(t)
	path := filepath.Join(mountpoint, "debug_suspend")

	if got := readFile(t, path); got != "0\n" {
		t.Errorf("debug_suspend: got %q, want %q", got, "0\n")
	}
	if err := os.WriteFile(path, []byte("5\n"), 0o644); err != nil {
		t.Fatalf("debug_suspend write: %v", err)
	}
	if got := debug.DebugSuspend(); got != 5 {
		t.Errorf("DebugSuspend after write: got %d, want 5", got)
	}
}

func TestMountShowall(t *testing.T) {
	mountpoint, _ := testMount(t)

	// XO and CPU_CLK start enabled.
	if got := readFile(t, filepath.Join(mountpoint, "showall")); got != "2\n" {
		t.Errorf("showall: got %q, want %q", got, "2\n")
	}
}
