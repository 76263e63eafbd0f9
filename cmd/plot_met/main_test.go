package main

import (
	"bytes"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iafilius/ShotPlot/src/config"
	"github.com/iafilius/ShotPlot/src/shot"
	"github.com/iafilius/ShotPlot/src/style"
)

const testShot = `{
  "time": 1700000000,
  "profile_name": "Londinium",
  "data": [
    {"time": 0,    "shot": {"pressure": 0.5, "flow": 0,   "setpoints": {"pressure": 2, "flow": 1}}, "sensors": {"motor_speed": 10, "motor_power": 5}},
    {"time": 500,  "shot": {"pressure": 4.0, "flow": 1.2, "setpoints": {"pressure": 6, "power": 50}}, "sensors": {"motor_speed": 20, "motor_power": 20}},
    {"time": 1000, "shot": {"pressure": 8.8, "flow": 2.1, "setpoints": {"pressure": 9, "power": 60}}, "sensors": {"motor_speed": 30, "motor_power": 41.5}}
  ]
}`

func writeShot(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "07_27_36.shot.json")
	if err := os.WriteFile(p, []byte(testShot), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--config", filepath.Join(t.TempDir(), "none.toml")))
	err := cmd.Execute()
	return out.String(), err
}

func TestPlotDefaultOutputPath(t *testing.T) {
	in := writeShot(t)
	out, err := run(t, in, "--dpi", "50", "--width", "8", "--height", "4")
	if err != nil {
		t.Fatalf("plot: %v", err)
	}
	want := filepath.Join(filepath.Dir(in), "07_27_36.shot_actuals_vs_goals.png")
	if !strings.Contains(out, "Wrote: "+want) {
		t.Fatalf("output %q", out)
	}
	f, err := os.Open(want)
	if err != nil {
		t.Fatalf("open png: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 400 || b.Dy() != 200 {
		t.Fatalf("size %v", b)
	}
}

func TestPlotExplicitOutputCreatesDirs(t *testing.T) {
	in := writeShot(t)
	dest := filepath.Join(t.TempDir(), "nested", "dir", "out.png")
	if _, err := run(t, in, "-o", dest, "--dpi", "40", "--no-motor-power", "--no-motor-power-goal", "--no-grid", "--title", "X"); err != nil {
		t.Fatalf("plot: %v", err)
	}
	if _, err := os.Stat(dest); err != nil {
		t.Fatalf("expected output file: %v", err)
	}
}

func TestPlotFailures(t *testing.T) {
	if _, err := run(t, filepath.Join(t.TempDir(), "missing.shot.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	bad := filepath.Join(t.TempDir(), "bad.shot.json")
	if err := os.WriteFile(bad, []byte(`{"time": 1}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := run(t, bad)
	var le *shot.LoadError
	if !errors.As(err, &le) || !errors.Is(err, shot.ErrMissingKey) {
		t.Fatalf("expected LoadError, got %v", err)
	}
	if _, err := run(t); err == nil {
		t.Fatalf("expected error without arguments")
	}
}

func TestBuildViewFlagsAndStyles(t *testing.T) {
	cmd := newRootCmd()
	if err := cmd.ParseFlags([]string{"--no-flow", "--no-pressure-goal", "--width", "10", "--trim", "1.5"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	opts := &rootOptions{hide: map[string]*bool{}}
	// re-read the bound values through the flag set
	for _, cs := range cliSeries {
		v, _ := cmd.Flags().GetBool(cs.flag)
		opts.hide[cs.key] = &v
	}
	opts.width, _ = cmd.Flags().GetFloat64("width")
	opts.trim, _ = cmd.Flags().GetFloat64("trim")

	v := buildView(nil, opts, config.Defaults(), cmd.Flags())
	want := []string{"shot.pressure", "sensors.motor_speed", "shot.setpoints.flow", "sensors.motor_power", "shot.setpoints.power"}
	if strings.Join(v.Selected, ",") != strings.Join(want, ",") {
		t.Fatalf("selected %v", v.Selected)
	}
	if v.WidthIn != 10 || v.HeightIn != 7 || v.DPI != 200 || v.Trim[0] != 1.5 {
		t.Fatalf("size/trim %v %v %v %v", v.WidthIn, v.HeightIn, v.DPI, v.Trim)
	}
	if sp := v.Styles["sensors.motor_power"]; sp.Line != style.Dashed || sp.Axis != style.Secondary || sp.Width != 2 {
		t.Fatalf("motor power style %+v", sp)
	}
	if sp := v.Styles["shot.setpoints.flow"]; sp.Line != style.Dotted || sp.Axis != style.Primary {
		t.Fatalf("flow goal style %+v", sp)
	}
}

func TestDefaultOutPath(t *testing.T) {
	got := defaultOutPath(filepath.Join("shots", "a.shot.json"))
	if got != filepath.Join("shots", "a.shot_actuals_vs_goals.png") {
		t.Fatalf("got %q", got)
	}
}

func TestExportCommand(t *testing.T) {
	in := writeShot(t)
	out, err := run(t, "export", in, "--format", "csv", "--series", "shot.pressure,shot.flow")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 || lines[0] != "time_s,shot.pressure (bar),shot.flow (ml/s)" || lines[3] != "1,8.8,2.1" {
		t.Fatalf("csv output %q", out)
	}
	if _, err := run(t, "export", in, "--format", "xml"); err == nil {
		t.Fatalf("expected unsupported format error")
	}
}

func TestExportIntoDirectory(t *testing.T) {
	in := writeShot(t)
	dir := t.TempDir()
	out, err := run(t, "export", in, "--format", "yaml", "-o", dir)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	want := filepath.Join(dir, "07_27_36_series.yaml")
	if !strings.Contains(out, "Wrote: "+want) {
		t.Fatalf("output %q", out)
	}
	data, err := os.ReadFile(want)
	if err != nil || !strings.Contains(string(data), "shot.pressure") {
		t.Fatalf("yaml file: %v %q", err, data)
	}
}

func TestInfoCommand(t *testing.T) {
	in := writeShot(t)
	out, err := run(t, "info", in)
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	for _, want := range []string{"Londinium", "Samples", "milliseconds", "Motor Power", "5.00 … 41.50 %"} {
		if !strings.Contains(out, want) {
			t.Fatalf("info output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Tube Temp") {
		t.Fatalf("absent metrics should be hidden without --all")
	}
}
