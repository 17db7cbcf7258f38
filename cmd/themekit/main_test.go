package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/spf13/cobra"

	"themekit/internal/artifact"
	"themekit/internal/drift"
	"themekit/internal/theme"
	"themekit/internal/validator"
)

const smallTheme = `content:
  - ./templates/**/*.html
theme:
  extend:
    colors:
      primary: "#5B84FF"
    keyframes:
      fadeIn:
        "0%":
          opacity: "0"
        "100%":
          opacity: "1"
    animation:
      fade-in: fadeIn 0.5s ease-out forwards
plugins: []
`

const brokenTheme = `content:
  - ./templates/**/*.html
theme:
  extend:
    colors:
      primary: "#5B84FG"
    animation:
      wobble: wobble 1s infinite
plugins: []
`

type result struct {
	code   int
	stdout string
	stderr string
}

func runIn(t *testing.T, dir string, environ []string, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, environ, dir, &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func writeTheme(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write theme: %v", err)
	}
	return path
}

func TestRun_CheckBuiltin(t *testing.T) {
	res := runIn(t, t.TempDir(), nil, "check")
	if res.code != exitOK {
		t.Fatalf("exit = %d, stderr = %s", res.code, res.stderr)
	}
	if !strings.Contains(res.stdout, "✓ builtin is valid") {
		t.Errorf("stdout = %q", res.stdout)
	}
}

func TestRun_CheckInvalid(t *testing.T) {
	dir := t.TempDir()
	writeTheme(t, dir, theme.FileName, brokenTheme)

	res := runIn(t, dir, nil, "check")
	if res.code != exitInvalid {
		t.Fatalf("exit = %d, want %d", res.code, exitInvalid)
	}
	if res.stdout != "" {
		t.Errorf("stdout should be empty on failure, got %q", res.stdout)
	}
	for _, want := range []string{
		"colors.primary: '#5B84FG' is not valid",
		"animation.wobble: keyframes 'wobble' is not defined (no keyframes declared)",
		"✗ validation failed: 2 error(s)",
	} {
		if !strings.Contains(res.stderr, want) {
			t.Errorf("stderr missing %q:\n%s", want, res.stderr)
		}
	}
}

func TestRun_CheckCIMode(t *testing.T) {
	tests := []struct {
		name    string
		environ []string
		args    []string
	}{
		{"flag", nil, []string{"check", "--ci"}},
		{"THEMEKIT_CI", []string{"THEMEKIT_CI=true"}, []string{"check"}},
		{"CI", []string{"CI=1"}, []string{"check"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeTheme(t, dir, theme.FileName, brokenTheme)

			res := runIn(t, dir, tt.environ, tt.args...)
			if res.code != exitInvalid {
				t.Fatalf("exit = %d", res.code)
			}
			if !strings.Contains(res.stderr, "::error file=themekit.yaml::colors.primary") {
				t.Errorf("missing annotation in:\n%s", res.stderr)
			}
		})
	}
}

func TestRun_CheckJSON(t *testing.T) {
	dir := t.TempDir()
	writeTheme(t, dir, theme.FileName, brokenTheme)

	res := runIn(t, dir, nil, "check", "--json")
	if res.code != exitInvalid {
		t.Fatalf("exit = %d", res.code)
	}
	var got validator.ValidationResult
	if err := json.Unmarshal([]byte(res.stdout), &got); err != nil {
		t.Fatalf("stdout is not JSON: %v\n%s", err, res.stdout)
	}
	if got.Valid || len(got.Errors) != 2 {
		t.Errorf("result = %+v", got)
	}
}

func TestRun_ConfigLoadFailure(t *testing.T) {
	dir := t.TempDir()
	writeTheme(t, dir, "dup.yaml", "theme:\n  extend:\n    colors:\n      a: \"#000\"\n      a: \"#fff\"\n")

	tests := []struct {
		name    string
		args    []string
		environ []string
		want    string
	}{
		{"missing flag path", []string{"check", "--config", "nope.yaml"}, nil, "theme file not found"},
		{"missing env path", []string{"check"}, []string{"THEMEKIT_CONFIG=nope.yaml"}, "theme file not found"},
		{"duplicate key", []string{"check", "--config", "dup.yaml"}, nil, "already defined"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runIn(t, dir, tt.environ, tt.args...)
			if res.code != exitConfigLoad {
				t.Fatalf("exit = %d, want %d", res.code, exitConfigLoad)
			}
			if !strings.Contains(res.stderr, tt.want) {
				t.Errorf("stderr missing %q:\n%s", tt.want, res.stderr)
			}
		})
	}
}

func TestRun_ConfigResolutionOrder(t *testing.T) {
	dir := t.TempDir()
	small, err := theme.Parse([]byte(smallTheme))
	if err != nil {
		t.Fatal(err)
	}
	other := strings.Replace(smallTheme, "#5B84FF", "#000000", 1)
	otherCfg, err := theme.Parse([]byte(other))
	if err != nil {
		t.Fatal(err)
	}

	builtinVersion := artifact.Generate(theme.Default()).ConfigVersion
	smallVersion := artifact.Generate(small).ConfigVersion
	otherVersion := artifact.Generate(otherCfg).ConfigVersion

	hash := func(environ []string, args ...string) string {
		res := runIn(t, dir, environ, append([]string{"hash"}, args...)...)
		if res.code != exitOK {
			t.Fatalf("hash exit = %d: %s", res.code, res.stderr)
		}
		return strings.TrimSpace(res.stdout)
	}

	if got := hash(nil); got != builtinVersion {
		t.Errorf("no theme file: got %s, want built-in %s", got, builtinVersion)
	}

	writeTheme(t, dir, theme.FileName, smallTheme)
	writeTheme(t, dir, "other.yaml", other)

	if got := hash(nil); got != smallVersion {
		t.Errorf("working directory file: got %s, want %s", got, smallVersion)
	}
	if got := hash([]string{"THEMEKIT_CONFIG=other.yaml"}); got != otherVersion {
		t.Errorf("env var: got %s, want %s", got, otherVersion)
	}
	if got := hash([]string{"THEMEKIT_CONFIG=nope.yaml"}, "--config", theme.FileName); got != smallVersion {
		t.Errorf("flag should win over env: got %s, want %s", got, smallVersion)
	}
	if got := hash(nil, "--short"); got != smallVersion[len("sha256:"):len("sha256:")+12] {
		t.Errorf("--short = %s", got)
	}
}

func TestRun_Show(t *testing.T) {
	dir := t.TempDir()

	res := runIn(t, dir, nil, "show", "--format", "json")
	if res.code != exitOK {
		t.Fatalf("exit = %d: %s", res.code, res.stderr)
	}
	var cfg theme.Config
	if err := json.Unmarshal([]byte(res.stdout), &cfg); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(theme.Default(), cfg); diff != "" {
		t.Errorf("show json mismatch (-want +got):\n%s", diff)
	}

	res = runIn(t, dir, nil, "show")
	parsed, err := theme.Parse([]byte(res.stdout))
	if err != nil {
		t.Fatalf("show yaml does not parse: %v", err)
	}
	if diff := cmp.Diff(theme.Default(), parsed); diff != "" {
		t.Errorf("show yaml mismatch (-want +got):\n%s", diff)
	}

	res = runIn(t, dir, nil, "show", "--merged", "--format", "json")
	if !strings.Contains(res.stdout, `"blue-500": "#3b82f6"`) || !strings.Contains(res.stdout, `"fontFamily.sans"`) {
		t.Errorf("merged output missing defaults or overrides:\n%s", res.stdout)
	}

	res = runIn(t, dir, nil, "show", "--format", "toml")
	if res.code != exitInvalid || !strings.Contains(res.stderr, `unknown format "toml"`) {
		t.Errorf("bad format: exit %d, stderr %q", res.code, res.stderr)
	}
}

func TestRun_Export(t *testing.T) {
	dir := t.TempDir()

	res := runIn(t, dir, nil, "export", "--out", "dist/tailwind.config.js")
	if res.code != exitOK {
		t.Fatalf("exit = %d: %s", res.code, res.stderr)
	}
	data, err := os.ReadFile(filepath.Join(dir, "dist", "tailwind.config.js"))
	if err != nil {
		t.Fatal(err)
	}
	want, _ := theme.Default().ToModule()
	if string(data) != string(want) {
		t.Errorf("exported module differs:\n%s", data)
	}

	res = runIn(t, dir, nil, "export", "--out", "dist/theme.json", "--format", "artifact")
	if res.code != exitOK {
		t.Fatalf("exit = %d: %s", res.code, res.stderr)
	}
	var art artifact.ThemeArtifact
	data, _ = os.ReadFile(filepath.Join(dir, "dist", "theme.json"))
	if err := json.Unmarshal(data, &art); err != nil {
		t.Fatal(err)
	}
	if art.ConfigVersion != artifact.Generate(theme.Default()).ConfigVersion {
		t.Errorf("artifact version = %s", art.ConfigVersion)
	}

	if res := runIn(t, dir, nil, "export"); res.code != exitInvalid {
		t.Errorf("export without --out: exit %d", res.code)
	}
}

func TestRun_ExportRefusesInvalidTheme(t *testing.T) {
	dir := t.TempDir()
	writeTheme(t, dir, theme.FileName, brokenTheme)

	res := runIn(t, dir, nil, "export", "--out", "out.json")
	if res.code != exitInvalid {
		t.Fatalf("exit = %d", res.code)
	}
	if _, err := os.Stat(filepath.Join(dir, "out.json")); !os.IsNotExist(err) {
		t.Errorf("no file should be written for an invalid theme: %v", err)
	}
}

func TestCommandDescriptions_PlainText(t *testing.T) {
	pending := []*cobra.Command{(&app{}).rootCommand()}
	for len(pending) > 0 {
		cmd := pending[0]
		pending = append(pending[1:], cmd.Commands()...)
		if cmd.Short == "" {
			t.Errorf("%s has no short description", cmd.CommandPath())
		}
		if strings.ContainsAny(cmd.Short+cmd.Long, "\u2013\u2014") {
			t.Errorf("%s description contains a dash character: %q", cmd.CommandPath(), cmd.Short)
		}
	}
}

func TestRun_Lookup(t *testing.T) {
	dir := t.TempDir()

	res := runIn(t, dir, nil, "lookup", "colors.primary", "colors.blue-500", "colors.indigo-500", "fontFamily.sans")
	if res.code != exitOK {
		t.Fatalf("exit = %d: %s", res.code, res.stderr)
	}
	lines := strings.Split(strings.TrimSpace(res.stdout), "\n")
	want := []string{
		"colors.primary\t#5B84FF\t(extend)",
		"colors.blue-500\t#3b82f6\t(default)",
		"colors.indigo-500\t#6366f1\t(default)",
		"fontFamily.sans\tInter, -apple-system, BlinkMacSystemFont, Segoe UI, Roboto, Oxygen, Ubuntu, Cantarell, Fira Sans, Droid Sans, Helvetica Neue, sans-serif\t(extend)",
	}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Errorf("lookup mismatch (-want +got):\n%s", diff)
	}

	res = runIn(t, dir, nil, "lookup", "colors.nope")
	if res.code != exitInvalid || !strings.Contains(res.stderr, "colors.nope is not defined") {
		t.Errorf("missing token: exit %d, stderr %q", res.code, res.stderr)
	}
	if res := runIn(t, dir, nil, "lookup", "primary"); res.code != exitInvalid {
		t.Errorf("malformed token: exit %d", res.code)
	}
}

func TestRun_Match(t *testing.T) {
	dir := t.TempDir()

	res := runIn(t, dir, nil, "match", "main/templates/index.html", "./main/static/js/app/nav.js")
	if res.code != exitOK {
		t.Fatalf("exit = %d: %s", res.code, res.stderr)
	}
	want := "main/templates/index.html\t./main/templates/**/*.html\n" +
		"./main/static/js/app/nav.js\t./main/static/js/**/*.js\n"
	if res.stdout != want {
		t.Errorf("stdout = %q, want %q", res.stdout, want)
	}

	res = runIn(t, dir, nil, "match", "README.md")
	if res.code != exitInvalid || !strings.Contains(res.stdout, "README.md\t(not scanned)") {
		t.Errorf("unmatched path: exit %d, stdout %q", res.code, res.stdout)
	}
}

func TestRun_BaselineAndDrift(t *testing.T) {
	dir := t.TempDir()
	environ := []string{"THEMEKIT_BASELINE_DIR=" + filepath.Join(dir, "baselines")}
	writeTheme(t, dir, theme.FileName, smallTheme)

	if res := runIn(t, dir, environ, "baseline", "save", "release"); res.code != exitOK {
		t.Fatalf("save exit = %d: %s", res.code, res.stderr)
	}
	if res := runIn(t, dir, environ, "baseline", "save", "release"); res.code != exitInvalid {
		t.Errorf("second save without --force: exit %d", res.code)
	}
	if res := runIn(t, dir, environ, "baseline", "save", "release", "--force"); res.code != exitOK {
		t.Errorf("save --force: exit %d: %s", res.code, res.stderr)
	}

	res := runIn(t, dir, environ, "baseline", "list")
	if !strings.Contains(res.stdout, "release") || !strings.Contains(res.stdout, "NAME") {
		t.Errorf("list output:\n%s", res.stdout)
	}

	res = runIn(t, dir, environ, "drift", "release")
	if res.code != exitOK || !strings.Contains(res.stdout, "✓ no drift since baseline 'release'") {
		t.Errorf("drift on unchanged theme: exit %d, stdout %q", res.code, res.stdout)
	}

	writeTheme(t, dir, theme.FileName, strings.Replace(smallTheme, "#5B84FF", "#4070FF", 1))

	res = runIn(t, dir, environ, "drift", "release")
	if res.code != exitOK {
		t.Errorf("drift without --fail-on-drift: exit %d", res.code)
	}
	if !strings.Contains(res.stderr, "~ colors.primary: #5B84FF → #4070FF") {
		t.Errorf("drift stderr:\n%s", res.stderr)
	}

	res = runIn(t, dir, environ, "drift", "release", "--ci", "--fail-on-drift")
	if res.code != exitInvalid {
		t.Errorf("--fail-on-drift: exit %d", res.code)
	}
	if !strings.Contains(res.stderr, "::warning file=themekit.yaml::Theme drift: colors.primary changed") {
		t.Errorf("ci drift stderr:\n%s", res.stderr)
	}

	res = runIn(t, dir, environ, "drift", "release", "--json")
	var report drift.Report
	if err := json.Unmarshal([]byte(res.stdout), &report); err != nil {
		t.Fatalf("drift --json: %v\n%s", err, res.stdout)
	}
	if len(report.Changes) != 1 || report.Changes[0].Path != "colors.primary" {
		t.Errorf("report changes = %+v", report.Changes)
	}

	res = runIn(t, dir, environ, "baseline", "show", "release")
	if !strings.Contains(res.stdout, `"colors.primary": "#5B84FF"`) {
		t.Errorf("show output:\n%s", res.stdout)
	}

	if res := runIn(t, dir, environ, "baseline", "delete", "release"); res.code != exitOK {
		t.Errorf("delete exit = %d", res.code)
	}
	if res := runIn(t, dir, environ, "baseline", "list"); !strings.Contains(res.stdout, "No baselines saved.") {
		t.Errorf("list after delete:\n%s", res.stdout)
	}
}

func TestRun_BaselineNotFound(t *testing.T) {
	dir := t.TempDir()
	environ := []string{"THEMEKIT_BASELINE_DIR=" + dir}

	for _, args := range [][]string{
		{"drift", "missing"},
		{"baseline", "show", "missing"},
		{"baseline", "delete", "missing"},
	} {
		res := runIn(t, dir, environ, args...)
		if res.code != exitBaselineNotFound {
			t.Errorf("%v: exit = %d, want %d", args, res.code, exitBaselineNotFound)
		}
		if !strings.Contains(res.stderr, "baseline 'missing' not found") {
			t.Errorf("%v: stderr = %q", args, res.stderr)
		}
	}
}

func TestRun_UsageErrors(t *testing.T) {
	dir := t.TempDir()
	for _, args := range [][]string{
		{"nope"},
		{"check", "extra"},
		{"check", "--bogus"},
		{"drift"},
	} {
		if res := runIn(t, dir, nil, args...); res.code != exitInvalid {
			t.Errorf("%v: exit = %d, want %d", args, res.code, exitInvalid)
		}
	}
}

func TestRun_Verbose(t *testing.T) {
	dir := t.TempDir()
	writeTheme(t, dir, theme.FileName, smallTheme)

	quiet := runIn(t, dir, nil, "hash")
	if strings.Contains(quiet.stderr, "loaded theme") {
		t.Errorf("debug line printed without --verbose:\n%s", quiet.stderr)
	}
	loud := runIn(t, dir, nil, "hash", "--verbose")
	if !strings.Contains(loud.stderr, "loaded theme") {
		t.Errorf("debug line missing with --verbose:\n%s", loud.stderr)
	}
}

func TestServe(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	ln.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan int, 1)
	go func() {
		var stdout, stderr bytes.Buffer
		done <- runContext(ctx, []string{"serve", "--listen", addr}, nil, t.TempDir(), &stdout, &stderr)
	}()

	var resp *http.Response
	deadline := time.Now().Add(5 * time.Second)
	for {
		resp, err = http.Get("http://" + addr + "/api/theme/version")
		if err == nil || time.Now().After(deadline) {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		cancel()
		t.Fatalf("server never came up: %v", err)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if body["configVersion"] != artifact.Generate(theme.Default()).ConfigVersion {
		t.Errorf("configVersion = %q", body["configVersion"])
	}

	cancel()
	select {
	case code := <-done:
		if code != exitOK {
			t.Errorf("serve exit = %d", code)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("serve did not shut down")
	}
}

// Property: the printed hash equals the artifact version of the theme on
// disk, and changing one color always changes it.
func TestRun_Hash_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("hash tracks the theme file", prop.ForAll(
		func(name, hex string) bool {
			dir, err := os.MkdirTemp("", "themekit-test-*")
			if err != nil {
				return false
			}
			defer os.RemoveAll(dir)

			cfg := theme.Default()
			before := artifact.Generate(cfg).ConfigVersion
			cfg.Theme.Extend.Colors[name] = "#" + hex
			data, err := cfg.ToYAML()
			if err != nil {
				return false
			}
			if err := os.WriteFile(filepath.Join(dir, theme.FileName), data, 0644); err != nil {
				return false
			}

			var stdout, stderr bytes.Buffer
			if run([]string{"hash"}, nil, dir, &stdout, &stderr) != exitOK {
				return false
			}
			got := strings.TrimSpace(stdout.String())
			return got == artifact.Generate(cfg).ConfigVersion && got != before
		},
		gen.Identifier().Map(func(s string) string { return "brand" + s }),
		gen.OneConstOf("000", "123456", "abcdef", "ABC", "9f9f9f"),
	))

	properties.TestingRun(t)
}
