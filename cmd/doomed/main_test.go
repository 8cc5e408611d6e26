package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tetratelabs/wazero/sys"

	"github.com/wippyai/wasm-doom/errors"
	"github.com/wippyai/wasm-doom/wasm"
)

// execute runs the root command in a scratch directory with no user config.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestDemoThenInspect(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "demo.wasm")

	out, err := execute(t, "demo", path, "--width", "32", "--height", "20")
	if err != nil {
		t.Fatalf("demo: %v", err)
	}
	if !strings.Contains(out, "32x20") {
		t.Errorf("demo output = %q", out)
	}

	out, err = execute(t, "inspect", path)
	if err != nil {
		t.Fatalf("inspect: %v\n%s", err, out)
	}
	for _, want := range []string{"doomgeneric_Tick", "DG_DrawFrame", "ABI ok"} {
		if !strings.Contains(out, want) {
			t.Errorf("inspect output missing %q:\n%s", want, out)
		}
	}
}

func TestInspect_RejectsForeignModule(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "empty.wasm")
	if err := os.WriteFile(path, (&wasm.Module{}).Encode(), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "inspect", path)
	if err == nil {
		t.Fatalf("inspect accepted an empty module:\n%s", out)
	}
	if !strings.Contains(out, "doomgeneric_Create") {
		t.Errorf("output does not name the missing export:\n%s", out)
	}
	if exitStatus(err) != 3 {
		t.Errorf("exitStatus = %d, want 3", exitStatus(err))
	}
}

func TestConfigInitAndShow(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	if _, err := execute(t, "config", "init"); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "wasm-doom.yaml")); err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if _, err := execute(t, "config", "init"); err == nil {
		t.Error("config init overwrote an existing file")
	}

	out, err := execute(t, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "# from wasm-doom.yaml") || !strings.Contains(out, "mode: term") {
		t.Errorf("config show output:\n%s", out)
	}
}

func TestRun_HeadlessDemo(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	shot := filepath.Join(dir, "shot.png")

	_, err := execute(t, "run",
		"--mode", "headless",
		"--frames", "5",
		"--width", "32", "--height", "20",
		"--snapshot", shot,
		"--log-file", filepath.Join(dir, "doomed.log"),
		"--", "-warp", "1")
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	f, err := os.Open(shot)
	if err != nil {
		t.Fatalf("snapshot missing: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 20 {
		t.Errorf("snapshot bounds = %v, want 32x20", b)
	}

	logData, err := os.ReadFile(filepath.Join(dir, "doomed.log"))
	if err != nil {
		t.Fatalf("log file: %v", err)
	}
	if !strings.Contains(string(logData), "headless run finished") {
		t.Errorf("log missing run summary:\n%s", logData)
	}
}

func TestExitStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"guest exit", errors.Trap("doomgeneric_Tick", sys.NewExitError(7)), 7},
		{"guest clean exit", sys.NewExitError(0), 1},
		{"config", errors.InvalidInput(errors.PhaseConfig, "bad"), 2},
		{"load", errors.Load("compile", nil), 3},
		{"link", errors.MissingExport("doomgeneric_Tick"), 3},
		{"other", os.ErrNotExist, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitStatus(tt.err); got != tt.want {
				t.Errorf("exitStatus = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestReadGuest_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.wasm")
	_, err := readGuest(path)

	e, ok := err.(*errors.Error)
	if !ok || e.Phase != errors.PhaseLoad || e.Kind != errors.KindNotFound {
		t.Fatalf("readGuest = %v, want load/not_found", err)
	}
	if !strings.Contains(e.Error(), "absent.wasm") {
		t.Errorf("error does not name the file: %v", e)
	}
	if exitStatus(err) != 3 {
		t.Errorf("exitStatus = %d, want 3", exitStatus(err))
	}
	if _, err := execute(t, "run", "--mode", "headless", path); err == nil {
		t.Error("run with a missing guest succeeded")
	}
}
