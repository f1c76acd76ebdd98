package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestInstrumentsCommandListsDefault(t *testing.T) {
	output, err := runCommand(t, "instruments")
	if err != nil {
		t.Fatalf("instruments: %v", err)
	}
	if !strings.Contains(output, "Clarinet") {
		t.Errorf("output missing Clarinet:\n%s", output)
	}
	if !strings.Contains(output, "default") {
		t.Errorf("output missing default marker:\n%s", output)
	}
	if !strings.Contains(output, "French Horn") {
		t.Errorf("instrument names should be title-cased:\n%s", output)
	}
}

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	output, err := runCommand(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(output, target) {
		t.Errorf("output should name the target path:\n%s", output)
	}

	if _, err := runCommand(t, "config", "init", "--path", target); err == nil {
		t.Fatal("second init must refuse to overwrite")
	}
}

func TestScanCommandRequiresImageArgument(t *testing.T) {
	if _, err := runCommand(t, "scan"); err == nil {
		t.Fatal("scan without an image path should fail")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 50); got != "short" {
		t.Errorf("truncate(short) = %q", got)
	}
	long := strings.Repeat("x", 60)
	got := truncate(long, 50)
	if len(got) != 50 || !strings.HasSuffix(got, "...") {
		t.Errorf("truncate long = %q (len %d)", got, len(got))
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable([]string{"A", "B"}, [][]string{{"only"}}, nil)
	if !strings.Contains(out, "only") {
		t.Errorf("table missing cell: %q", out)
	}
}
