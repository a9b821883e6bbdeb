package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeManifest(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, manifestName)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFindValcTomlSearchesUpward(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	want := writeManifest(t, root, "[package]\nname = \"demo\"\n")

	got, ok, err := findValcToml(nested)
	if err != nil || !ok {
		t.Fatalf("findValcToml: ok=%v err=%v", ok, err)
	}
	if got != want {
		t.Errorf("found %q, want %q", got, want)
	}

	m, ok, err := loadProjectManifest(nested, "")
	if err != nil || !ok {
		t.Fatalf("loadProjectManifest: ok=%v err=%v", ok, err)
	}
	if m.Root != root || m.Config.Package.Name != "demo" {
		t.Errorf("manifest = %+v", m)
	}
}

func TestMissingManifestIsNotAnError(t *testing.T) {
	if _, _, err := loadProjectManifest(t.TempDir(), ""); err != nil {
		t.Fatal(err)
	}
	if _, _, err := loadProjectManifest(".", filepath.Join(t.TempDir(), manifestName)); err == nil {
		t.Error("an explicit --config that does not exist must fail")
	}
}

func TestLoadProjectConfig(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name: "full",
			body: `
[package]
name = "demo"

[lower]
jobs = 4
output = "build/ir"
emit = "snapshot"

[trace]
level = "detail"
mode = "ring"
output = "trace.log"
`,
		},
		{name: "empty", body: ""},
		{name: "nameless package", body: "[package]\n", wantErr: "missing [package].name"},
		{name: "negative jobs", body: "[lower]\njobs = -1\n", wantErr: "must not be negative"},
		{name: "bad emit", body: "[lower]\nemit = \"llvm\"\n", wantErr: "[lower].emit"},
		{name: "unknown key", body: "[lower]\nthreads = 2\n", wantErr: "unknown key lower.threads"},
		{name: "not toml", body: "[lower\n", wantErr: "failed to parse TOML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeManifest(t, t.TempDir(), tt.body)
			cfg, err := loadProjectConfig(path)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("err = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if tt.name == "full" && (cfg.Lower.Jobs != 4 || cfg.Lower.Emit != "snapshot" || cfg.Trace.Mode != "ring") {
				t.Errorf("cfg = %+v", cfg)
			}
		})
	}
}

func TestOutputDirIsRelativeToManifest(t *testing.T) {
	m := &projectManifest{Root: "/p", Config: projectConfig{Lower: lowerConfig{Output: "out/ir"}}}
	if got, want := m.outputDir(), filepath.Join("/p", "out", "ir"); got != want {
		t.Errorf("outputDir = %q, want %q", got, want)
	}
	m.Config.Lower.Output = "/abs"
	if got := m.outputDir(); got != "/abs" {
		t.Errorf("outputDir = %q, want /abs", got)
	}
	var none *projectManifest
	if got := none.outputDir(); got != "" {
		t.Errorf("nil manifest outputDir = %q", got)
	}
}

func TestReadModes(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, "AUTO": uiModeAuto, " on ": uiModeOn, "off": uiModeOff} {
		if got, err := readUIMode(in); err != nil || got != want {
			t.Errorf("readUIMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := readUIMode("sometimes"); err == nil {
		t.Error("readUIMode accepted an unknown mode")
	}
	for in, want := range map[string]emitMode{"": emitText, "text": emitText, "Snapshot": emitSnapshot} {
		if got, err := readEmitMode(in); err != nil || got != want {
			t.Errorf("readEmitMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := readEmitMode("llvm"); err == nil {
		t.Error("readEmitMode accepted an unknown mode")
	}
	if shouldUseTUI(uiModeAuto, os.Stderr, true) {
		t.Error("auto mode must not draw over IR text")
	}
	if !shouldUseTUI(uiModeOn, os.Stderr, true) || shouldUseTUI(uiModeOff, os.Stderr, false) {
		t.Error("explicit modes must win")
	}
}

func TestModuleFileName(t *testing.T) {
	tests := map[string]string{
		"Main": "Main",
		"a/b":  "a_b",
		`c:\d`: "c__d",
		"":     "module",
		"..":   "module",
	}
	for in, want := range tests {
		if got := moduleFileName(in); got != want {
			t.Errorf("moduleFileName(%q) = %q, want %q", in, got, want)
		}
	}
}
