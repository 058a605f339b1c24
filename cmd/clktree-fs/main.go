// Copyright 2026 The Clktree Authors
// SPDX-License-Identifier: Apache-2.0

// clktree-fs mounts the clock-tree debug filesystem over a simulated
// clock table.
//
// The clock table is loaded from a YAML file (see lib/clksim), the
// debug context is initialized over it, every clock's attribute group
// is registered, and the tree is served at the mountpoint until the
// process receives SIGINT or SIGTERM. SIGUSR1 logs a snapshot of the
// currently enabled clocks, the same hook other subsystems call on a
// real platform.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/clktree-foundation/clktree/lib/clkdebug"
	clkfuse "github.com/clktree-foundation/clktree/lib/clkdebug/fuse"
	"github.com/clktree-foundation/clktree/lib/clksim"
	"github.com/clktree-foundation/clktree/lib/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath string
		mountpoint string
		allowOther bool
		logLevel   string
	)

	flagSet := pflag.NewFlagSet("clktree-fs", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to the YAML clock table (required)")
	flagSet.StringVar(&mountpoint, "mountpoint", "", "directory to mount the clk/ tree at (required)")
	flagSet.BoolVar(&allowOther, "allow-other", false, "permit other users to access the mount")
	flagSet.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")

	if len(os.Args) > 1 && os.Args[1] == "--version" {
		version.Print("clktree-fs")
		return nil
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if configPath == "" {
		return fmt.Errorf("--config is required")
	}
	if mountpoint == "" {
		return fmt.Errorf("--mountpoint is required")
	}

	level, err := parseLogLevel(logLevel)
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	config, err := clksim.Load(configPath)
	if err != nil {
		return err
	}
	table, measure, err := config.Build()
	if err != nil {
		return err
	}

	debug, err := clkdebug.Init(table, clkdebug.Options{
		Measure: measure,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("initializing clock debug layer: %w", err)
	}
	defer debug.Close()

	for _, clock := range table {
		if err := debug.Add(clock); err != nil {
			return fmt.Errorf("registering clock attributes: %w", err)
		}
	}

	server, err := clkfuse.Mount(clkfuse.Options{
		Mountpoint: mountpoint,
		Debug:      debug,
		AllowOther: allowOther,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	signals := make(chan os.Signal, 4)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGUSR1)
	go func() {
		for sig := range signals {
			if sig == syscall.SIGUSR1 {
				debug.PrintEnabled()
				continue
			}
			logger.Info("unmounting", "signal", sig)
			if err := server.Unmount(); err != nil {
				logger.Error("unmount failed", "error", err)
			}
			return
		}
	}()

	// Wait blocks until the filesystem is unmounted, either by the
	// signal handler above or externally via fusermount -u.
	server.Wait()
	return nil
}

func parseLogLevel(name string) (slog.Level, error) {
	switch name {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", name)
}
