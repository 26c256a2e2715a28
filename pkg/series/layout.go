// Copyright (c) 2026 OpenSiFli. All rights reserved.
// SPDX-License-Identifier: MIT

// Package series merges per-chip hardware description fragments into
// denormalized series.yaml documents and validates the results against
// the chip-series JSON Schema plus the SiP memory rule.
//
// The package is organised around a fixed directory contract rooted at a
// discovered project directory:
//
//	chips/<name>/chip.yaml                 chip source documents
//	common/pinmux/<name>/pinmux.yaml       shared pin-multiplexing tables
//	common/mpi/<name>/mpi.yaml             shared MPI interface tables
//	common/schema/chip-series.schema.json  the series schema
//	out/<name>/series.yaml                 generated output
package series

import (
	"fmt"
	"os"
	"path/filepath"
)

// File and directory names of the project contract.
const (
	chipsDirName   = "chips"
	outDirName     = "out"
	commonDirName  = "common"
	pinmuxDirName  = "pinmux"
	mpiDirName     = "mpi"
	schemaDirName  = "schema"
	chipFileName   = "chip.yaml"
	pinmuxFileName = "pinmux.yaml"
	mpiFileName    = "mpi.yaml"
	seriesFileName = "series.yaml"
	schemaFileName = "chip-series.schema.json"
)

// Layout is the resolved directory contract for one project tree. Root
// is discovered once at startup and every path is derived from it;
// nothing re-walks the filesystem later.
type Layout struct {
	Root string
}

// DiscoverLayout walks from start up through its parent directories
// until it finds one containing a common/pinmux or common/schema marker
// directory, and returns the Layout rooted there. It returns an error
// when no parent qualifies.
func DiscoverLayout(start string) (Layout, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return Layout{}, fmt.Errorf("resolving start directory: %w", err)
	}
	for {
		for _, marker := range []string{
			filepath.Join(commonDirName, pinmuxDirName),
			filepath.Join(commonDirName, schemaDirName),
		} {
			if info, err := os.Stat(filepath.Join(dir, marker)); err == nil && info.IsDir() {
				logf("layout: project root %s (marker %s)", dir, marker)
				return Layout{Root: dir}, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return Layout{}, fmt.Errorf("could not find SiliconSchema project root above %s", start)
		}
		dir = parent
	}
}

// ChipsDir returns the directory holding per-chip source directories.
func (l Layout) ChipsDir() string {
	return filepath.Join(l.Root, chipsDirName)
}

// OutDir returns the directory holding generated output.
func (l Layout) OutDir() string {
	return filepath.Join(l.Root, outDirName)
}

// PinmuxDir returns the directory holding shared pinmux tables.
func (l Layout) PinmuxDir() string {
	return filepath.Join(l.Root, commonDirName, pinmuxDirName)
}

// MPIDir returns the directory holding shared MPI tables.
func (l Layout) MPIDir() string {
	return filepath.Join(l.Root, commonDirName, mpiDirName)
}

// ChipDir returns the source directory for one chip.
func (l Layout) ChipDir(name string) string {
	return filepath.Join(l.ChipsDir(), name)
}

// ChipYAML returns the chip.yaml path for one chip.
func (l Layout) ChipYAML(name string) string {
	return filepath.Join(l.ChipsDir(), name, chipFileName)
}

// PinmuxYAML returns the shared pinmux table path for a pinmux name.
func (l Layout) PinmuxYAML(name string) string {
	return filepath.Join(l.PinmuxDir(), name, pinmuxFileName)
}

// MPIYAML returns the shared MPI table path for a pinmux name.
func (l Layout) MPIYAML(name string) string {
	return filepath.Join(l.MPIDir(), name, mpiFileName)
}

// SchemaPath returns the chip-series schema document path.
func (l Layout) SchemaPath() string {
	return filepath.Join(l.Root, commonDirName, schemaDirName, schemaFileName)
}

// SeriesDir returns the output directory for one chip.
func (l Layout) SeriesDir(name string) string {
	return filepath.Join(l.OutDir(), name)
}

// SeriesYAML returns the generated series.yaml path for one chip.
func (l Layout) SeriesYAML(name string) string {
	return filepath.Join(l.OutDir(), name, seriesFileName)
}
