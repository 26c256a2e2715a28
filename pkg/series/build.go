// Copyright (c) 2026 OpenSiFli. All rights reserved.
// SPDX-License-Identifier: MIT

package series

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// BuildChip merges one chip's sources and writes out/<name>/series.yaml.
// A missing chip.yaml is a skip, not a failure. A shared pinmux table
// that is named but absent downgrades to a warning and an empty table;
// the build continues and the pads simply get no pinmux fields.
func BuildChip(layout Layout, name string) Result {
	chipPath := layout.ChipYAML(name)
	_, err := os.Stat(chipPath)
	if errors.Is(err, fs.ErrNotExist) {
		fmt.Printf("  Skipping %s: no chip.yaml found\n", name)
		return Result{Chip: name, Status: StatusSkipped, Messages: []string{"no chip.yaml found"}}
	}
	if err != nil {
		return Result{Chip: name, Status: StatusFailed, Messages: []string{err.Error()}}
	}

	fmt.Printf("  Building %s...\n", name)

	chip, err := LoadChipDefinition(chipPath)
	if err != nil {
		return Result{Chip: name, Status: StatusFailed, Messages: []string{err.Error()}}
	}

	pinmux := &PinmuxTable{}
	if chip.SharedPinmux != "" {
		pinmuxPath := layout.PinmuxYAML(chip.SharedPinmux)
		loaded, err := LoadPinmuxTable(pinmuxPath)
		switch {
		case err == nil:
			pinmux = loaded
			fmt.Printf("    Loaded shared pinmux: %s\n", chip.SharedPinmux)
		case errors.Is(err, fs.ErrNotExist):
			fmt.Printf("    Warning: shared pinmux '%s' not found at %s\n", chip.SharedPinmux, pinmuxPath)
		default:
			return Result{Chip: name, Status: StatusFailed, Messages: []string{err.Error()}}
		}
	}

	content := GenerateSeriesYAML(chip, pinmux)

	outPath := layout.SeriesYAML(name)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return Result{Chip: name, Status: StatusFailed, Messages: []string{fmt.Sprintf("creating output directory: %v", err)}}
	}
	if err := os.WriteFile(outPath, []byte(content), 0o644); err != nil {
		return Result{Chip: name, Status: StatusFailed, Messages: []string{fmt.Sprintf("writing series.yaml: %v", err)}}
	}

	fmt.Printf("    Generated: %s\n", outPath)
	return Result{Chip: name, Status: StatusOK}
}

// chipNames lists the chip directory names under chips/ in sorted order.
func chipNames(layout Layout) ([]string, error) {
	entries, err := os.ReadDir(layout.ChipsDir())
	if err != nil {
		return nil, fmt.Errorf("reading chips directory: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// RunBuild is the entry point for the build command. When chip is
// non-empty only that chip is built; otherwise every directory under
// chips/ is built in sorted order, with failures local to one chip.
func RunBuild(layout Layout, chip string) error {
	fmt.Println("SiliconSchema Build")
	fmt.Printf("  Project root: %s\n", layout.Root)
	fmt.Printf("  Chips directory: %s\n", layout.ChipsDir())
	fmt.Printf("  Pinmux directory: %s\n", layout.PinmuxDir())
	fmt.Printf("  Output directory: %s\n", layout.OutDir())
	fmt.Println()

	var names []string
	if chip != "" {
		if _, err := os.Stat(layout.ChipDir(chip)); err != nil {
			return fmt.Errorf("chip directory '%s' not found", chip)
		}
		names = []string{chip}
	} else {
		var err error
		names, err = chipNames(layout)
		if err != nil {
			return err
		}
		fmt.Println("Building all chips...")
	}

	ok := true
	for _, name := range names {
		res := BuildChip(layout, name)
		if res.Status == StatusFailed {
			for _, msg := range res.Messages {
				fmt.Printf("    Error: %s\n", msg)
			}
			ok = false
		}
	}

	fmt.Println()
	if !ok {
		fmt.Println("Build completed with errors.")
		return ErrChipFailures
	}
	fmt.Println("Build completed successfully!")
	return nil
}
