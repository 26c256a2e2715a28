// Copyright (c) 2026 OpenSiFli. All rights reserved.
// SPDX-License-Identifier: MIT

package series

import (
	"errors"
	"fmt"
)

// ErrChipFailures is returned by RunBuild and RunValidate when at least
// one chip failed. The per-chip detail has already been printed by the
// time it is returned, so callers map it straight to exit code 1.
var ErrChipFailures = errors.New("one or more chips failed")

// Status classifies the outcome of one chip's build or validate pass.
type Status int

const (
	// StatusOK means the chip built or validated cleanly.
	StatusOK Status = iota
	// StatusFailed means the chip produced errors or violations.
	StatusFailed
	// StatusSkipped means the chip had no input document. Skips are
	// reported but never count against the run's exit code.
	StatusSkipped
)

// Result is the per-chip outcome reported to the console.
type Result struct {
	Chip     string
	Status   Status
	Messages []string
}

// printResult writes one status line for a validated chip, with
// indented detail lines for each violation.
func printResult(res Result) {
	switch res.Status {
	case StatusOK:
		fmt.Printf("  ✓ %s: valid\n", res.Chip)
	case StatusSkipped:
		msg := "skipped"
		if len(res.Messages) > 0 {
			msg = res.Messages[0]
		}
		fmt.Printf("  ⊘ %s: %s\n", res.Chip, msg)
	case StatusFailed:
		fmt.Printf("  ✗ %s: INVALID\n", res.Chip)
		for _, msg := range res.Messages {
			fmt.Printf("    %s\n", msg)
		}
	}
}
