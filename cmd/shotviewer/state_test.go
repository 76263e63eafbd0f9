package main

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/iafilius/ShotPlot/src/config"
	"github.com/iafilius/ShotPlot/src/plot"
	"github.com/iafilius/ShotPlot/src/session"
	"github.com/iafilius/ShotPlot/src/shot"
	"github.com/iafilius/ShotPlot/src/style"
)

const testShot = `{
  "time": 1700000000,
  "profile_name": "Londinium",
  "data": [
    {"time": 0,    "shot": {"pressure": 0.5, "flow": 0,   "weight": 0,   "setpoints": {"pressure": 2}}, "sensors": {"motor_temp": 30}},
    {"time": 500,  "shot": {"pressure": 4.0, "flow": 1.2, "weight": 3.5, "setpoints": {"pressure": 6}}, "sensors": {"motor_temp": 31}},
    {"time": 1000, "shot": {"pressure": 8.8, "flow": 2.1, "weight": 9.0, "setpoints": {"pressure": 9}}, "sensors": {"motor_temp": 32}}
  ]
}`

func writeShot(t *testing.T, dir, name string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(testShot), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func loadedState(t *testing.T, names ...string) *viewState {
	t.Helper()
	dir := t.TempDir()
	vs := newViewState(config.Defaults())
	for i, n := range names {
		if err := vs.loadSlot(i, writeShot(t, dir, n)); err != nil {
			t.Fatalf("load %s: %v", n, err)
		}
	}
	return vs
}

func TestNewViewStateDefaults(t *testing.T) {
	vs := newViewState(config.Defaults())
	if got := vs.selectedKeys(); !reflect.DeepEqual(got, shot.DefaultSelection) {
		t.Fatalf("selected %v", got)
	}
	set := config.Defaults()
	set.DefaultSeries = []string{"sensors.motor_temp", "custom.metric"}
	vs = newViewState(set)
	if got := vs.selectedKeys(); !reflect.DeepEqual(got, []string{"sensors.motor_temp", "custom.metric"}) {
		t.Fatalf("configured selection %v", got)
	}
}

func TestPresets(t *testing.T) {
	if got := len(presetKeys("All")); got != len(shot.Fields) {
		t.Fatalf("All: %d keys", got)
	}
	if got := presetKeys("None"); len(got) != 0 {
		t.Fatalf("None: %v", got)
	}
	has := func(keys []string, k string) bool {
		for _, x := range keys {
			if x == k {
				return true
			}
		}
		return false
	}
	sh := presetKeys("Shot")
	if !has(sh, "shot.pressure") || !has(sh, "shot.setpoints.flow") || has(sh, "sensors.tube") {
		t.Fatalf("Shot: %v", sh)
	}
	temps := presetKeys("Temps")
	if !has(temps, "sensors.motor_temp") || !has(temps, "sensors.tube") || has(temps, "shot.flow") {
		t.Fatalf("Temps: %v", temps)
	}

	vs := newViewState(config.Defaults())
	vs.applyPreset(presetKeys("None"))
	if len(vs.selectedKeys()) != 0 {
		t.Fatalf("selection not cleared")
	}
	if fig := plot.Compose(vs.view(800, 400, 96)); fig.Message != plot.MsgNoData {
		t.Fatalf("empty state message %q", fig.Message)
	}
}

func TestSetTrim(t *testing.T) {
	vs := loadedState(t, "a.shot.json")
	cases := []struct {
		in, want float64
	}{
		{0.5, 0.5},
		{1.0, 0},
		{5, 0},
		{-1, 0},
	}
	for _, c := range cases {
		vs.setTrim(0, c.in)
		if vs.slots[0].trim != c.want {
			t.Fatalf("setTrim(%v) = %v, want %v", c.in, vs.slots[0].trim, c.want)
		}
	}
	vs.setTrim(1, 0.5)
	if vs.slots[1].trim != 0 {
		t.Fatalf("trim on empty slot")
	}
}

func TestSessionRoundTrip(t *testing.T) {
	vs := loadedState(t, "a.shot.json", "b.shot.json")
	vs.compare = true
	vs.setTrim(1, 0.5)
	vs.secondary["shot.flow"] = true
	vs.styles["shot.pressure"] = style.Spec{Color: "#ff0000", Line: style.Dashed, Width: 2}

	sess := vs.toSession()
	if len(sess.Files) != 2 || sess.Files[1].TrimSeconds != 0.5 {
		t.Fatalf("files %+v", sess.Files)
	}

	back := newViewState(config.Defaults())
	if err := back.applySession(sess); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !back.compare || back.slots[1].trim != 0.5 || back.slots[0].shot == nil {
		t.Fatalf("restored state %+v", back)
	}
	if !reflect.DeepEqual(back.selectedKeys(), vs.selectedKeys()) {
		t.Fatalf("selection %v vs %v", back.selectedKeys(), vs.selectedKeys())
	}
	if !back.secondary["shot.flow"] || back.styles["shot.pressure"].Color != "#ff0000" {
		t.Fatalf("secondary/styles %v %v", back.secondary, back.styles)
	}
}

func TestToSessionKeepsSlotPosition(t *testing.T) {
	vs := newViewState(config.Defaults())
	if err := vs.loadSlot(1, writeShot(t, t.TempDir(), "b.shot.json")); err != nil {
		t.Fatalf("load: %v", err)
	}
	sess := vs.toSession()
	if len(sess.Files) != 2 || sess.Files[0].Path != "" || sess.Files[1].Path == "" {
		t.Fatalf("files %+v", sess.Files)
	}
}

func TestApplySessionMissingShot(t *testing.T) {
	vs := loadedState(t, "a.shot.json")
	sess := session.New()
	sess.Files = []session.File{{Path: filepath.Join(t.TempDir(), "gone.shot.json")}}
	sess.Selected = []string{"shot.flow"}
	err := vs.applySession(sess)
	if err == nil || !strings.Contains(err.Error(), "shot 1") {
		t.Fatalf("want shot 1 error, got %v", err)
	}
	if vs.slots[0].shot != nil {
		t.Fatalf("slot should be empty")
	}
	if got := vs.selectedKeys(); !reflect.DeepEqual(got, []string{"shot.flow"}) {
		t.Fatalf("selection %v", got)
	}
}

func TestReadoutSingle(t *testing.T) {
	vs := loadedState(t, "a.shot.json")
	fig := plot.Compose(vs.view(800, 400, 96))
	text := readout(fig, vs.slotNames(), 0.45)
	for _, want := range []string{"Time: 0.45s", "Pressure: 4.00 bar", "Flow: 1.20 ml/s", "Weight: 3.50 g"} {
		if !strings.Contains(text, want) {
			t.Fatalf("readout missing %q:\n%s", want, text)
		}
	}
	if readout(nil, vs.slotNames(), 0) != "" {
		t.Fatalf("nil figure should have no readout")
	}
}

func TestReadoutCompare(t *testing.T) {
	vs := loadedState(t, "a.shot.json", "b.shot.json")
	vs.compare = true
	vs.setTrim(1, 0.5)
	fig := plot.Compose(vs.view(800, 400, 96))
	text := readout(fig, vs.slotNames(), 1.0)
	want := "Pressure: 8.80 bar (a.shot) | 4.00 bar (b.shot)"
	if !strings.Contains(text, want) {
		t.Fatalf("readout missing %q:\n%s", want, text)
	}
}

func TestTrimSliderLowerEndStaysTrimmed(t *testing.T) {
	vs := loadedState(t, "a.shot.json")
	lo, hi := trimSliderRange(vs.slots[0].shot.Duration())
	if lo <= 0 || hi != 1 {
		t.Fatalf("slider range [%v, %v]", lo, hi)
	}
	vs.setTrim(0, lo)
	if vs.slots[0].trim != lo {
		t.Fatalf("lower slider end should trim, got %v", vs.slots[0].trim)
	}
	fig := plot.Compose(vs.view(800, 400, 96))
	if len(fig.Traces) == 0 || fig.Traces[0].Series.Len() != 1 {
		t.Fatalf("expected only the first sample after trimming")
	}
}

func TestSecondaryToggleAfterStyleEdit(t *testing.T) {
	vs := loadedState(t, "a.shot.json")
	// style dialog moves pressure to the secondary axis
	vs.styles["shot.pressure"] = style.Spec{Color: "#112233", Axis: style.Secondary}
	vs.setSecondary("shot.pressure", true)
	if vs.viewAxis("shot.pressure") != style.Secondary {
		t.Fatalf("expected secondary after style edit")
	}
	// then the "2nd" box is unticked
	vs.setSecondary("shot.pressure", false)
	if vs.viewAxis("shot.pressure") != style.Primary || vs.styles["shot.pressure"].Axis != style.Primary {
		t.Fatalf("untick ignored: axis %v style %+v", vs.viewAxis("shot.pressure"), vs.styles["shot.pressure"])
	}
	fig := plot.Compose(vs.view(800, 400, 96))
	for _, tr := range fig.Traces {
		if tr.Field.Key == "shot.pressure" && (tr.Style.Axis != style.Primary || strings.HasSuffix(tr.Label, "[2nd]")) {
			t.Fatalf("pressure trace still on secondary: %+v", tr)
		}
	}
	if fig.HasSecondary {
		t.Fatalf("no series should be on the secondary axis")
	}

	back := newViewState(config.Defaults())
	if err := back.applySession(vs.toSession()); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if back.viewAxis("shot.pressure") != style.Primary {
		t.Fatalf("restored session put pressure back on secondary")
	}
}

func TestSaveSessionAddsSuffix(t *testing.T) {
	vs := loadedState(t, "a.shot.json")
	dir := t.TempDir()
	got, err := vs.saveSession(filepath.Join(dir, "morning"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if want := filepath.Join(dir, "morning"+session.FileSuffix); got != want {
		t.Fatalf("saved to %q want %q", got, want)
	}
	sess, err := session.Load(got)
	if err != nil || len(sess.Files) != 1 {
		t.Fatalf("reload: %v %+v", err, sess)
	}
	again, err := vs.saveSession(got)
	if err != nil || again != got {
		t.Fatalf("suffix added twice: %q %v", again, err)
	}
}
