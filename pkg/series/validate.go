// Copyright (c) 2026 OpenSiFli. All rights reserved.
// SPDX-License-Identifier: MIT

package series

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// violationPrinter renders schema violation messages. Output is part of
// the console contract, so the locale is pinned.
var violationPrinter = message.NewPrinter(language.English)

// Schema wraps a compiled chip-series JSON Schema document.
type Schema struct {
	compiled *jsonschema.Schema
}

// LoadSchema reads and compiles the series schema. One schema document
// is shared by the whole run, so any failure here is fatal to the run
// rather than to a single chip.
func LoadSchema(path string) (*Schema, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}
	defer f.Close()

	doc, err := jsonschema.UnmarshalJSON(f)
	if err != nil {
		return nil, fmt.Errorf("parsing schema %s: %w", path, err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaFileName, doc); err != nil {
		return nil, fmt.Errorf("adding schema resource: %w", err)
	}
	compiled, err := compiler.Compile(schemaFileName)
	if err != nil {
		return nil, fmt.Errorf("compiling schema %s: %w", path, err)
	}
	return &Schema{compiled: compiled}, nil
}

// Check validates a decoded series document and returns one message per
// violation, each prefixed with the dotted instance path ("(root)" for
// the document root). The list is complete; validation does not stop at
// the first failure. Check is a pure function of (doc, schema).
func (s *Schema) Check(doc any) []string {
	err := s.compiled.Validate(doc)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []string{err.Error()}
	}
	var violations []string
	flattenViolations(ve, &violations)
	return violations
}

// flattenViolations walks the validation error tree and appends one
// message per leaf cause.
func flattenViolations(ve *jsonschema.ValidationError, out *[]string) {
	if len(ve.Causes) == 0 {
		*out = append(*out, fmt.Sprintf("%s: %s",
			dottedPath(ve.InstanceLocation),
			ve.ErrorKind.LocalizedString(violationPrinter)))
		return
	}
	for _, cause := range ve.Causes {
		flattenViolations(cause, out)
	}
}

// dottedPath joins an instance location into the dotted form used in
// violation messages.
func dottedPath(location []string) string {
	if len(location) == 0 {
		return "(root)"
	}
	return strings.Join(location, ".")
}

// CheckSiPMemory applies the SiP memory constraint to a chip source:
// every memory entry must reference an MPI in sipMPIs. One message is
// produced per offending entry, naming the variant and the interface.
func CheckSiPMemory(chip *ChipDefinition, sipMPIs []string) []string {
	allowed := make(map[string]bool, len(sipMPIs))
	for _, name := range sipMPIs {
		allowed[name] = true
	}
	sipList := strings.Join(sipMPIs, ", ")
	if sipList == "" {
		sipList = "none"
	}

	var violations []string
	for _, variant := range chip.Variants {
		for _, mem := range variant.Memory {
			if mem.MPI != "" && !allowed[mem.MPI] {
				violations = append(violations, fmt.Sprintf(
					"Variant '%s': memory uses '%s' which is not a SiP interface. "+
						"Only SiP MPIs (%s) can have memory defined.",
					variant.PartNumber, mem.MPI, sipList))
			}
		}
	}
	return violations
}

// checkChipSource loads the chip source document and applies the SiP
// rule. The check is vacuously clean when the chip source, its
// shared_pinmux field, or the MPI table is absent; a malformed source
// or MPI document is a hard failure.
func checkChipSource(layout Layout, name string) ([]string, error) {
	chipPath := layout.ChipYAML(name)
	if _, err := os.Stat(chipPath); err != nil {
		return nil, nil
	}
	chip, err := LoadChipDefinition(chipPath)
	if err != nil {
		return nil, fmt.Errorf("chip.yaml parse error: %w", err)
	}
	if chip.SharedPinmux == "" {
		return nil, nil
	}
	mpiPath := layout.MPIYAML(chip.SharedPinmux)
	if _, err := os.Stat(mpiPath); err != nil {
		return nil, nil
	}
	mpi, err := LoadMPIConfig(mpiPath)
	if err != nil {
		return nil, fmt.Errorf("mpi.yaml parse error: %w", err)
	}
	return CheckSiPMemory(chip, mpi.SiPNames()), nil
}

// ValidateChip checks one chip's generated series.yaml against the
// schema and its chip.yaml against the SiP memory rule. Both checks
// must pass for the chip to be valid; violations from both are
// collected. A missing series.yaml is a skip.
func ValidateChip(layout Layout, schema *Schema, name string) Result {
	seriesPath := layout.SeriesYAML(name)
	data, err := os.ReadFile(seriesPath)
	if errors.Is(err, fs.ErrNotExist) {
		return Result{Chip: name, Status: StatusSkipped, Messages: []string{"Skipped: no series.yaml found"}}
	}
	if err != nil {
		return Result{Chip: name, Status: StatusFailed, Messages: []string{err.Error()}}
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Result{Chip: name, Status: StatusFailed, Messages: []string{fmt.Sprintf("YAML parse error: %v", err)}}
	}

	violations := schema.Check(doc)

	// The SiP rule reads the source document, not the generated one:
	// the merge never emits memory blocks.
	domain, err := checkChipSource(layout, name)
	if err != nil {
		return Result{Chip: name, Status: StatusFailed, Messages: []string{err.Error()}}
	}
	violations = append(violations, domain...)

	if len(violations) > 0 {
		return Result{Chip: name, Status: StatusFailed, Messages: violations}
	}
	return Result{Chip: name, Status: StatusOK}
}

// RunValidate is the entry point for the validate command. When chip is
// non-empty only that chip is validated; otherwise every directory
// under out/ is validated in sorted order. verbose additionally prints
// the document path checked for each chip.
func RunValidate(layout Layout, chip string, verbose bool) error {
	fmt.Println("SiliconSchema Validator")
	fmt.Printf("  Project root: %s\n", layout.Root)
	fmt.Printf("  Output directory: %s\n", layout.OutDir())
	fmt.Printf("  Schema: %s\n", layout.SchemaPath())
	fmt.Println()

	schema, err := LoadSchema(layout.SchemaPath())
	if err != nil {
		return err
	}

	var names []string
	if chip != "" {
		if _, err := os.Stat(layout.SeriesDir(chip)); err != nil {
			return fmt.Errorf("output directory '%s' not found in %s", chip, outDirName)
		}
		names = []string{chip}
	} else {
		entries, err := os.ReadDir(layout.OutDir())
		if err != nil {
			return fmt.Errorf("output directory not found; run 'silicon-schema build' first")
		}
		for _, entry := range entries {
			if entry.IsDir() {
				names = append(names, entry.Name())
			}
		}
	}

	fmt.Println("Validating chips...")
	valid, failed := 0, 0
	for _, name := range names {
		if verbose {
			fmt.Printf("  Checking %s\n", layout.SeriesYAML(name))
		}
		res := ValidateChip(layout, schema, name)
		printResult(res)
		switch res.Status {
		case StatusOK:
			valid++
		case StatusFailed:
			failed++
		}
	}

	fmt.Println()
	fmt.Printf("Summary: %d valid, %d invalid\n", valid, failed)
	if failed > 0 {
		return ErrChipFailures
	}
	return nil
}
