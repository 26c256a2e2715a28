// Copyright (c) 2026 OpenSiFli. All rights reserved.
// SPDX-License-Identifier: MIT

package series

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// captureStdout runs fn with os.Stdout redirected to a pipe and
// returns everything it printed.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stdout = w
	defer func() { os.Stdout = old }()
	fn()
	w.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

// newBuildProject creates a project tree with one chip named "sf32"
// using the given chip.yaml content, and returns its Layout.
func newBuildProject(t *testing.T, chipYAML string) Layout {
	t.Helper()
	root := newProjectRoot(t, filepath.Join("common", "pinmux"))
	writeProjectFile(t, root, filepath.Join("chips", "sf32", "chip.yaml"), chipYAML)
	return Layout{Root: root}
}

// writeProjectFile writes content at rel under root, creating parents.
func writeProjectFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

const buildPinmuxYAML = `pinmux:
  PB2:
    - {function: UART1_TX, select: 0}
`

func TestBuildChip_WritesSeries(t *testing.T) {
	layout := newBuildProject(t, sampleChipYAML)
	writeProjectFile(t, layout.Root,
		filepath.Join("common", "pinmux", "sf32-family", "pinmux.yaml"), buildPinmuxYAML)

	res := BuildChip(layout, "sf32")
	if res.Status != StatusOK {
		t.Fatalf("BuildChip: got status %v, messages %v", res.Status, res.Messages)
	}

	data, err := os.ReadFile(layout.SeriesYAML("sf32"))
	if err != nil {
		t.Fatalf("reading generated series.yaml: %v", err)
	}
	got := string(data)

	if !strings.Contains(got, "PB2: &PB2") {
		t.Errorf("missing pad defining node:\n%s", got)
	}
	if !strings.Contains(got, "      - {function: UART1_TX, select: 0}\n") {
		t.Errorf("missing merged pinmux entry:\n%s", got)
	}
	if !strings.Contains(got, "pins: *SF32_QFN68_PINS") {
		t.Errorf("missing pin-list alias for the second variant:\n%s", got)
	}
}

func TestBuildChip_Idempotent(t *testing.T) {
	layout := newBuildProject(t, sampleChipYAML)
	writeProjectFile(t, layout.Root,
		filepath.Join("common", "pinmux", "sf32-family", "pinmux.yaml"), buildPinmuxYAML)

	if res := BuildChip(layout, "sf32"); res.Status != StatusOK {
		t.Fatalf("first build: %v", res.Messages)
	}
	first, err := os.ReadFile(layout.SeriesYAML("sf32"))
	if err != nil {
		t.Fatal(err)
	}
	if res := BuildChip(layout, "sf32"); res.Status != StatusOK {
		t.Fatalf("second build: %v", res.Messages)
	}
	second, err := os.ReadFile(layout.SeriesYAML("sf32"))
	if err != nil {
		t.Fatal(err)
	}
	if string(first) != string(second) {
		t.Error("rebuilding the same inputs changed the output")
	}
}

func TestBuildChip_MissingPinmuxTableWarns(t *testing.T) {
	// shared_pinmux names a table that does not exist: a warning is
	// surfaced, the build still succeeds, and pads carry no pinmux
	// fields.
	layout := newBuildProject(t, sampleChipYAML)

	var res Result
	out := captureStdout(t, func() { res = BuildChip(layout, "sf32") })
	if res.Status != StatusOK {
		t.Fatalf("BuildChip: got status %v, messages %v", res.Status, res.Messages)
	}
	if !strings.Contains(out, "Warning: shared pinmux 'sf32-family' not found") {
		t.Errorf("warning line missing from build output:\n%s", out)
	}

	data, err := os.ReadFile(layout.SeriesYAML("sf32"))
	if err != nil {
		t.Fatalf("reading generated series.yaml: %v", err)
	}
	if strings.Contains(string(data), "pinmux") {
		t.Errorf("pads must carry no pinmux fields without a table:\n%s", data)
	}
}

func TestBuildChip_MissingChipYAML(t *testing.T) {
	root := newProjectRoot(t, filepath.Join("common", "pinmux"))
	if err := os.MkdirAll(filepath.Join(root, "chips", "empty"), 0o755); err != nil {
		t.Fatal(err)
	}

	res := BuildChip(Layout{Root: root}, "empty")
	if res.Status != StatusSkipped {
		t.Errorf("got status %v, want StatusSkipped", res.Status)
	}
}

func TestBuildChip_UnreadableChipPathIsFailure(t *testing.T) {
	// chips/sf32 is a file, so stat on chip.yaml fails with something
	// other than "not exist". That is a failure, not a skip.
	root := newProjectRoot(t, filepath.Join("common", "pinmux"))
	writeProjectFile(t, root, filepath.Join("chips", "sf32"), "not a directory")

	res := BuildChip(Layout{Root: root}, "sf32")
	if res.Status != StatusFailed {
		t.Errorf("got status %v, want StatusFailed", res.Status)
	}
}

func TestBuildChip_MalformedChipYAML(t *testing.T) {
	layout := newBuildProject(t, "pads: [unclosed\n")

	res := BuildChip(layout, "sf32")
	if res.Status != StatusFailed {
		t.Errorf("got status %v, want StatusFailed", res.Status)
	}
	if len(res.Messages) == 0 {
		t.Error("want a parse error message")
	}
}

func TestBuildChip_MissingRequiredKey(t *testing.T) {
	layout := newBuildProject(t, "model_id: SF32\n")

	res := BuildChip(layout, "sf32")
	if res.Status != StatusFailed {
		t.Fatalf("got status %v, want StatusFailed", res.Status)
	}
	if !strings.Contains(strings.Join(res.Messages, " "), "missing required key") {
		t.Errorf("messages: got %v, want a missing-key error", res.Messages)
	}
}

func TestRunBuild_UnknownChip(t *testing.T) {
	root := newProjectRoot(t, filepath.Join("common", "pinmux"))

	if err := RunBuild(Layout{Root: root}, "nope"); err == nil {
		t.Fatal("want an error for a missing chip directory")
	}
}

func TestRunBuild_FailureIsLocalToOneChip(t *testing.T) {
	layout := newBuildProject(t, sampleChipYAML)
	writeProjectFile(t, layout.Root, filepath.Join("chips", "broken", "chip.yaml"), "pads: [unclosed\n")

	err := RunBuild(layout, "")
	if err != ErrChipFailures {
		t.Fatalf("got %v, want ErrChipFailures", err)
	}
	// The healthy sibling still built.
	if _, err := os.Stat(layout.SeriesYAML("sf32")); err != nil {
		t.Errorf("sf32 series.yaml missing after sibling failure: %v", err)
	}
	if _, err := os.Stat(layout.SeriesYAML("broken")); err == nil {
		t.Error("broken chip must not produce output")
	}
}
