package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ploy/internal/driver"
	"ploy/internal/project"
	"ploy/internal/trace"
	"ploy/internal/version"
)

func TestResolveColor(t *testing.T) {
	tests := []struct {
		value   string
		tty     bool
		want    bool
		wantErr bool
	}{
		{"auto", true, true, false},
		{"auto", false, false, false},
		{"", true, true, false},
		{"on", false, true, false},
		{"OFF", true, false, false},
		{"always", false, true, false},
		{"sometimes", true, false, true},
	}
	for _, tt := range tests {
		got, err := resolveColor(tt.value, tt.tty)
		if (err != nil) != tt.wantErr {
			t.Errorf("resolveColor(%q) err = %v", tt.value, err)
			continue
		}
		if got != tt.want {
			t.Errorf("resolveColor(%q, %v) = %v, want %v", tt.value, tt.tty, got, tt.want)
		}
	}
}

func TestReadModes(t *testing.T) {
	for _, v := range []string{"pretty", "JSON", "short"} {
		if _, err := readDiagFormat(v); err != nil {
			t.Errorf("readDiagFormat(%q): %v", v, err)
		}
	}
	if _, err := readDiagFormat("xml"); err == nil {
		t.Error("readDiagFormat(xml) should fail")
	}
	if m, err := readUIMode(" On "); err != nil || m != uiModeOn {
		t.Errorf("readUIMode = %v, %v", m, err)
	}
	if _, err := readUIMode("maybe"); err == nil {
		t.Error("readUIMode(maybe) should fail")
	}
	if shouldUseTUI(uiModeOff) || !shouldUseTUI(uiModeOn) {
		t.Error("explicit ui modes must win")
	}
}

func TestPackageNameFor(t *testing.T) {
	tests := map[string]string{
		"hello":       "hello",
		"Hello World": "hello_world",
		"my-app":      "my-app",
		"2fast":       "_2fast",
		"-x":          "_-x",
		"проект":      "ploy_project",
		"":            "ploy_project",
	}
	for in, want := range tests {
		got := packageNameFor(in)
		if got != want {
			t.Errorf("packageNameFor(%q) = %q, want %q", in, got, want)
		}
		m := project.Manifest{Package: project.PackageSection{Name: got}}
		if err := m.Validate(); err != nil {
			t.Errorf("packageNameFor(%q) = %q is not a valid name: %v", in, got, err)
		}
	}
}

func TestCompilerConstraintAcceptsSelf(t *testing.T) {
	c, err := compilerConstraint()
	if err != nil {
		t.Fatal(err)
	}
	m := project.Manifest{
		Package:  project.PackageSection{Name: "x"},
		Compiler: project.CompilerSection{Version: c},
	}
	if err := m.CheckCompiler(version.Version); err != nil {
		t.Fatalf("constraint %q rejects %s: %v", c, version.Version, err)
	}
}

func TestTraceConfig(t *testing.T) {
	cfg, err := traceConfig("", "off", "auto", "stream", false)
	if err != nil || cfg.Level != trace.LevelOff {
		t.Fatalf("default = %+v, %v", cfg, err)
	}
	cfg, err = traceConfig("out.json", "off", "chrome", "both", false)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Level != trace.LevelPhase || cfg.Format != trace.FormatChrome || cfg.Mode != trace.ModeBoth {
		t.Fatalf("cfg = %+v", cfg)
	}
	cfg, err = traceConfig("out.json", "off", "auto", "stream", true)
	if err != nil || cfg.Level != trace.LevelOff {
		t.Fatalf("explicit off = %+v, %v", cfg, err)
	}
	for _, bad := range [][4]string{
		{"", "loud", "auto", "stream"},
		{"", "phase", "yaml", "stream"},
		{"", "phase", "auto", "disk"},
	} {
		if _, err := traceConfig(bad[0], bad[1], bad[2], bad[3], true); err == nil {
			t.Errorf("traceConfig%v should fail", bad)
		}
	}
}

func TestArtifactPath(t *testing.T) {
	m := &project.Manifest{
		Package: project.PackageSection{Name: "demo", Main: "main.ply"},
		Build:   project.BuildSection{OutDir: "out"},
		Root:    "/p",
	}
	tests := []struct {
		input string
		m     *project.Manifest
		want  string
	}{
		{"/p/main.ply", m, "/p/out/demo.plym"},
		{"/p/lib/util.ply", m, "/p/out/util.plym"},
		{"/tmp/x.ply", nil, "/tmp/build/x.plym"},
	}
	for _, tt := range tests {
		got := filepath.ToSlash(artifactPath(filepath.FromSlash(tt.input), tt.m))
		if got != tt.want {
			t.Errorf("artifactPath(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSummaryLine(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "a.ply")
	bad := filepath.Join(dir, "b.ply")
	writeFile(t, good, "(define x 1)\n")
	writeFile(t, bad, "(+ y 1)\n")

	var results []*driver.CheckResult
	for _, p := range []string{good, bad} {
		res, err := driver.Check(t.Context(), p, driver.Options{})
		if err != nil {
			t.Fatal(err)
		}
		results = append(results, res)
	}
	if got := summaryLine(results[:1]); got != "checked 1 file, ok" {
		t.Errorf("summary = %q", got)
	}
	if got := summaryLine(results); got != "checked 2 files, 1 with errors" {
		t.Errorf("summary = %q", got)
	}
}

func TestWriteVersionJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := writeVersion(&buf, "json", false); err != nil {
		t.Fatal(err)
	}
	var payload versionPayload
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("invalid json %q: %v", buf.String(), err)
	}
	if payload.Tool != "ploy" || payload.Version != version.Version {
		t.Fatalf("payload = %+v", payload)
	}
	buf.Reset()
	if err := writeVersion(&buf, "pretty", false); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "ploy "+version.Version) {
		t.Fatalf("pretty = %q", buf.String())
	}
	if err := writeVersion(&buf, "xml", false); err == nil {
		t.Fatal("unknown format should fail")
	}
}

func TestBuildWritesArtifact(t *testing.T) {
	dir := t.TempDir()
	c, err := compilerConstraint()
	if err != nil {
		t.Fatal(err)
	}
	m, err := project.InitManifest(dir, "demo", c)
	if err != nil {
		t.Fatal(err)
	}

	rootCmd.SetArgs([]string{"build", "--quiet", m.MainPath()})
	if err := rootCmd.ExecuteContext(t.Context()); err != nil {
		t.Fatalf("build: %v", err)
	}
	a, err := driver.ReadArtifact(filepath.Join(dir, "build", "demo"+ArtifactExt))
	if err != nil {
		t.Fatal(err)
	}
	if a.Broken || len(a.Diagnostics) != 0 {
		t.Fatalf("artifact = %+v", a)
	}
}

func TestCheckReportsErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.ply")
	writeFile(t, path, "(define x 1)\n(define x 2)\n")

	rootCmd.SetArgs([]string{"check", "--quiet", "--ui", "off", "--format", "short", dir})
	err := rootCmd.ExecuteContext(t.Context())
	if !errors.Is(err, errReported) {
		t.Fatalf("err = %v, want errReported", err)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}
