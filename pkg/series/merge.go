// Copyright (c) 2026 OpenSiFli. All rights reserved.
// SPDX-License-Identifier: MIT

package series

import (
	"fmt"
	"strings"
)

// pinListAnchor names the shared pin-list node for a chip family. The
// package token is fixed: every series anchors its pin list under the
// QFN68 name regardless of the variant's actual package field.
func pinListAnchor(modelID string) string {
	return modelID + "_QFN68_PINS"
}

// GenerateSeriesYAML merges one chip definition with its shared pinmux
// table into series.yaml text. pinmux may be nil or empty; pads without
// a table entry get no pinmux field at all.
//
// Emission is a direct string walk rather than a yaml.Marshal call: the
// output contract names its shared nodes (&<pad>, *<pad>, and the
// &<model>_QFN68_PINS pin list), and a generic serializer would either
// invent its own anchor names or not share the nodes at all. Each pad
// is emitted once as a defining node; every later use is an alias to
// it. The first variant's pin list is the defining pin node; every
// later variant emits a bare alias without its own pins being read.
func GenerateSeriesYAML(chip *ChipDefinition, pinmux *PinmuxTable) string {
	var b strings.Builder

	fmt.Fprintf(&b, "schema_version: %s\n", chip.SchemaVersion)
	fmt.Fprintf(&b, "model_id: %s\n", chip.ModelID)
	fmt.Fprintf(&b, "lifecycle: %s\n", chip.Lifecycle)

	b.WriteString("\ndocs:\n")
	for _, doc := range chip.Docs {
		parts := make([]string, 0, len(doc.Locales))
		for _, loc := range doc.Locales {
			parts = append(parts, fmt.Sprintf("%s: %q", loc.Locale, loc.URL))
		}
		fmt.Fprintf(&b, "  - %s: {%s}\n", doc.Type, strings.Join(parts, ", "))
	}

	b.WriteString("\npads:\n")
	for _, pad := range chip.Pads {
		fmt.Fprintf(&b, "  %s: &%s\n", pad.Name, pad.Name)
		fmt.Fprintf(&b, "    type: %s\n", pad.Type)
		if pad.Description != nil {
			fmt.Fprintf(&b, "    description: %q\n", *pad.Description)
		}
		if pad.Notes != nil {
			fmt.Fprintf(&b, "    notes: %q\n", *pad.Notes)
		}
		if entries := pinmux.Entries(pad.Name); entries != nil {
			b.WriteString("    pinmux:\n")
			for _, e := range entries {
				fmt.Fprintf(&b, "      - {function: %s, select: %s}\n", e.Function, e.Select)
			}
		}
	}

	b.WriteString("\nvariants:\n")
	var anchor string
	var firstPinCount int
	for _, v := range chip.Variants {
		fmt.Fprintf(&b, "  - part_number: %s\n", v.PartNumber)
		fmt.Fprintf(&b, "    description: %q\n", v.Description)
		fmt.Fprintf(&b, "    package: %s\n", v.Package)
		if anchor == "" {
			anchor = pinListAnchor(chip.ModelID)
			firstPinCount = len(v.Pins)
			fmt.Fprintf(&b, "    pins: &%s\n", anchor)
			for _, pin := range v.Pins {
				fmt.Fprintf(&b, "      - {number: %q, pad: *%s}\n", pin.Number, pin.Pad)
			}
			continue
		}
		// Positional policy: later variants are taken to repeat the first
		// variant's pin layout and collapse to a bare alias. Their own
		// pins are never compared against the defining list.
		if len(v.Pins) != firstPinCount {
			logf("merge: %s variant %s has %d pins, first variant has %d; alias emitted anyway",
				chip.ModelID, v.PartNumber, len(v.Pins), firstPinCount)
		}
		fmt.Fprintf(&b, "    pins: *%s\n", anchor)
	}

	return b.String()
}
