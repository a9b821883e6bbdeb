package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"valc/internal/ast"
	"valc/internal/lower"
	"valc/internal/program"
	"valc/internal/types"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	traceCleanup()
	return out.String(), err
}

// writeSnapshot stores `module Demo { fun f() {} }` (f without a body when
// broken) at path and returns the program.
func writeSnapshot(t *testing.T, path string, broken bool) *program.Program {
	t.Helper()
	a := ast.New(ast.Hints{})
	fun := ast.FunDecl{Name: "f"}
	if !broken {
		fun.Body = ast.Insert(a, ast.BraceStmt{})
	}
	f := ast.Insert(a, fun)
	ast.Insert(a, ast.ModuleDecl{Name: "Demo", Members: []ast.AnyDeclID{ast.AnyDecl(f)}})
	p := program.New(a)
	p.DeclTypes.Set(ast.AnyDecl(f), types.NewThinLambda(types.Void))

	data, err := program.Encode(p)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLowerWritesSnapshotsThatRender(t *testing.T) {
	t.Chdir(t.TempDir())
	p := writeSnapshot(t, "demo.valp", false)
	m, _, err := lower.LowerModule(context.Background(), p, p.AST.Modules[0])
	if err != nil {
		t.Fatal(err)
	}
	want := m.String() + "\n"

	if out, err := execute(t, "lower", "--no-cache", "--ui", "off", "--emit", "text", "--out", "", "demo.valp"); err != nil || out != want {
		t.Fatalf("lower to stdout: err=%v\n%s\nwant\n%s", err, out, want)
	}
	if out, err := execute(t, "lower", "--no-cache", "--ui", "off", "--emit", "snapshot", "--out", "ir", "demo.valp"); err != nil {
		t.Fatalf("lower --emit snapshot: %v\n%s", err, out)
	}
	out, err := execute(t, "render", filepath.Join("ir", "Demo.ir.mp"))
	if err != nil {
		t.Fatal(err)
	}
	if out != want {
		t.Errorf("render:\n%s\nwant\n%s", out, want)
	}
}

func TestLowerReportsBrokenPrograms(t *testing.T) {
	t.Chdir(t.TempDir())
	writeSnapshot(t, "good.valp", false)
	writeSnapshot(t, "bad.valp", true)

	out, err := execute(t, "lower", "--no-cache", "--ui", "off", "--emit", "text", "--out", "", "good.valp", "bad.valp")
	if err == nil || !strings.Contains(err.Error(), "1 of 2 programs failed") {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(out, "bad.valp:") || !strings.Contains(out, "// module Demo") {
		t.Errorf("output:\n%s", out)
	}
}

func TestCheck(t *testing.T) {
	t.Chdir(t.TempDir())
	writeSnapshot(t, "good.valp", false)
	writeSnapshot(t, "bad.valp", true)

	if out, err := execute(t, "check", "--format", "pretty", "good.valp"); err != nil || out != "" {
		t.Errorf("check good: err=%v out=%q", err, out)
	}

	out, err := execute(t, "check", "--format", "json", "good.valp", "bad.valp")
	if err == nil {
		t.Fatal("check of a malformed snapshot succeeded")
	}
	var report []jsonDiagnostic
	if err := json.Unmarshal([]byte(out[:strings.LastIndex(out, "]")+1]), &report); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(report) == 0 || report[0].File != "bad.valp" || report[0].Severity != "error" {
		t.Errorf("report = %+v", report)
	}
}

func TestVersionJSON(t *testing.T) {
	out, err := execute(t, "version", "--format", "json", "--full", "--hash=false")
	if err != nil {
		t.Fatal(err)
	}
	var payload versionPayload
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if payload.Tool != "valc" || payload.Version == "" || payload.GitCommit != "unknown" {
		t.Errorf("payload = %+v", payload)
	}

	if _, err := execute(t, "version", "--format", "yaml"); err == nil {
		t.Error("unknown format accepted")
	}
}
