// Copyright (c) 2026 OpenSiFli. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main provides the silicon-schema CLI. "build" merges chip
// sources with shared pinmux tables into series.yaml documents;
// "validate" checks the generated documents against the chip-series
// schema and the SiP memory rule. The exit code is the only
// machine-readable signal: 0 on full success, 1 otherwise.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/OpenSiFli/SiliconSchema/pkg/series"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		// Per-chip failures have already been reported line by line.
		if !errors.Is(err, series.ErrChipFailures) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "silicon-schema",
		Short:         "Merge and validate chip series descriptions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newBuildCmd(), newValidateCmd())
	return root
}

// discoverLayout resolves the project root once, from the working
// directory; every operation receives the result explicitly.
func discoverLayout() (series.Layout, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return series.Layout{}, fmt.Errorf("resolving working directory: %w", err)
	}
	return series.DiscoverLayout(cwd)
}

func newBuildCmd() *cobra.Command {
	var chip string
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build series.yaml files from chip.yaml and shared pinmux definitions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			layout, err := discoverLayout()
			if err != nil {
				return err
			}
			return series.RunBuild(layout, chip)
		},
	}
	cmd.Flags().StringVarP(&chip, "chip", "c", "",
		"build only the specified chip (directory name under chips/)")
	return cmd
}

func newValidateCmd() *cobra.Command {
	var (
		chip    string
		verbose bool
	)
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate generated series.yaml files against the chip-series schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			layout, err := discoverLayout()
			if err != nil {
				return err
			}
			return series.RunValidate(layout, chip, verbose)
		},
	}
	cmd.Flags().StringVarP(&chip, "chip", "c", "",
		"validate only the specified chip (directory name under out/)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false,
		"show the document path checked for each chip")
	return cmd
}
