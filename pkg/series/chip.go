// Copyright (c) 2026 OpenSiFli. All rights reserved.
// SPDX-License-Identifier: MIT

package series

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// MissingKeyError reports a required key absent from a source document.
type MissingKeyError struct {
	Key string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("missing required key %q", e.Key)
}

// ChipDefinition is one chip family's source document (chip.yaml)
// before the merge. Pads keep their source order.
type ChipDefinition struct {
	SchemaVersion string
	ModelID       string
	Lifecycle     string
	Docs          []DocEntry
	Pads          []Pad
	Variants      []Variant
	SharedPinmux  string
}

// DocEntry is one documentation link row: a doc type mapped to
// per-locale URLs. Both the doc type order and the locale order come
// from the source document.
type DocEntry struct {
	Type    string
	Locales []LocaleURL
}

// LocaleURL is one locale/URL pair of a documentation entry.
type LocaleURL struct {
	Locale string
	URL    string
}

// Pad is one named chip terminal. Description and Notes are pointers so
// the merge can tell "absent" from "empty": an absent field is omitted
// from the output entirely.
type Pad struct {
	Name        string
	Type        string
	Description *string
	Notes       *string
}

// Variant is one manufacturable part number of the chip family.
type Variant struct {
	PartNumber  string      `yaml:"part_number"`
	Description string      `yaml:"description"`
	Package     string      `yaml:"package"`
	Pins        []PinRef    `yaml:"pins"`
	Memory      []MemoryRef `yaml:"memory"`
}

// PinRef binds one package pin number to a pad name.
type PinRef struct {
	Number string `yaml:"number"`
	Pad    string `yaml:"pad"`
}

// MemoryRef describes on-package memory attached through a named MPI.
type MemoryRef struct {
	MPI  string `yaml:"mpi"`
	Type string `yaml:"type"`
	Size string `yaml:"size"`
}

// chipRequiredKeys must all be present in a chip.yaml mapping.
var chipRequiredKeys = []string{
	"schema_version", "model_id", "lifecycle", "docs", "pads", "variants",
}

// UnmarshalYAML decodes a chip.yaml mapping. Decoding is node-driven:
// yaml.v3's map decoding would lose the pad iteration order and cannot
// distinguish an absent key from a zero value, and the merge needs both.
func (c *ChipDefinition) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("chip definition: expected a mapping at line %d", node.Line)
	}
	seen := make(map[string]bool, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		seen[key.Value] = true
		var err error
		switch key.Value {
		case "schema_version":
			err = val.Decode(&c.SchemaVersion)
		case "model_id":
			err = val.Decode(&c.ModelID)
		case "lifecycle":
			err = val.Decode(&c.Lifecycle)
		case "docs":
			c.Docs, err = decodeDocs(val)
		case "pads":
			c.Pads, err = decodePads(val)
		case "variants":
			err = val.Decode(&c.Variants)
		case "shared_pinmux":
			err = val.Decode(&c.SharedPinmux)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", key.Value, err)
		}
	}
	for _, req := range chipRequiredKeys {
		if !seen[req] {
			return &MissingKeyError{Key: req}
		}
	}
	return nil
}

// decodeDocs flattens the docs sequence into one DocEntry per
// docType/locales pair, preserving source order. An entry mapping with
// several doc types contributes one DocEntry per type.
func decodeDocs(node *yaml.Node) ([]DocEntry, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("expected a sequence at line %d", node.Line)
	}
	var docs []DocEntry
	for _, item := range node.Content {
		if item.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("entry at line %d: expected a mapping", item.Line)
		}
		for i := 0; i+1 < len(item.Content); i += 2 {
			entry := DocEntry{Type: item.Content[i].Value}
			locs := item.Content[i+1]
			if locs.Kind != yaml.MappingNode {
				return nil, fmt.Errorf("%s: expected a locale mapping at line %d", entry.Type, locs.Line)
			}
			for j := 0; j+1 < len(locs.Content); j += 2 {
				entry.Locales = append(entry.Locales, LocaleURL{
					Locale: locs.Content[j].Value,
					URL:    locs.Content[j+1].Value,
				})
			}
			docs = append(docs, entry)
		}
	}
	return docs, nil
}

// decodePads decodes the pads mapping into a slice that preserves the
// source iteration order. Pad names are unique within one document, so
// the slice is also a lossless representation of the mapping.
func decodePads(node *yaml.Node) ([]Pad, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("expected a mapping at line %d", node.Line)
	}
	pads := make([]Pad, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		var body struct {
			Type        *string `yaml:"type"`
			Description *string `yaml:"description"`
			Notes       *string `yaml:"notes"`
		}
		if err := node.Content[i+1].Decode(&body); err != nil {
			return nil, fmt.Errorf("pad %s: %w", name, err)
		}
		if body.Type == nil {
			return nil, fmt.Errorf("pad %s: %w", name, &MissingKeyError{Key: "type"})
		}
		pads = append(pads, Pad{
			Name:        name,
			Type:        *body.Type,
			Description: body.Description,
			Notes:       body.Notes,
		})
	}
	return pads, nil
}

// PinmuxTable is a shared pin-multiplexing document keyed by pad name.
// Tables are read-only lookups; entry order within a pad is the shared
// file's order.
type PinmuxTable struct {
	Pinmux map[string][]PinmuxEntry `yaml:"pinmux"`
}

// PinmuxEntry is one selectable function on a pad. Both fields are kept
// as scalars-as-written so the merge emits them verbatim.
type PinmuxEntry struct {
	Function string `yaml:"function"`
	Select   string `yaml:"select"`
}

// Entries returns the pinmux rows for a pad. The result is nil when the
// table is absent or the pad has no entry, and non-nil (possibly empty)
// when the pad is listed.
func (t *PinmuxTable) Entries(pad string) []PinmuxEntry {
	if t == nil {
		return nil
	}
	return t.Pinmux[pad]
}

// MPIConfig lists the project's named master peripheral interfaces.
type MPIConfig struct {
	MPIs map[string]MPIEntry `yaml:"mpis"`
}

// MPIEntry is the per-interface configuration. Only the SiP flag
// participates in validation.
type MPIEntry struct {
	SiP bool `yaml:"sip"`
}

// SiPNames returns the sorted names of interfaces flagged sip: true.
func (c *MPIConfig) SiPNames() []string {
	var names []string
	for name, entry := range c.MPIs {
		if entry.SiP {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// LoadChipDefinition reads and decodes one chip.yaml. An empty or null
// document fails the required-key check like a mapping with no keys.
func LoadChipDefinition(path string) (*ChipDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	// An empty or null document never reaches UnmarshalYAML, so the
	// required-key check has to fire here.
	if len(doc.Content) == 0 || doc.Content[0].Tag == "!!null" {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), &MissingKeyError{Key: chipRequiredKeys[0]})
	}
	var chip ChipDefinition
	if err := doc.Decode(&chip); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return &chip, nil
}

// LoadPinmuxTable reads and decodes one shared pinmux.yaml.
func LoadPinmuxTable(path string) (*PinmuxTable, error) {
	var table PinmuxTable
	if err := loadYAML(path, &table); err != nil {
		return nil, err
	}
	return &table, nil
}

// LoadMPIConfig reads and decodes one shared mpi.yaml.
func LoadMPIConfig(path string) (*MPIConfig, error) {
	var cfg MPIConfig
	if err := loadYAML(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadYAML reads path and decodes it into out. Read errors keep their
// fs sentinel so callers can branch on fs.ErrNotExist.
func loadYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return nil
}
