package session

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/iafilius/ShotPlot/src/style"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func TestSaveLoadRoundTrip(t *testing.T) {
	in := &Session{
		Version:   Version,
		Files:     []File{{Path: "/shots/a.shot.json", TrimSeconds: 25.5}, {Path: "/shots/b.shot.json"}},
		Compare:   true,
		Selected:  []string{"shot.pressure", "shot.flow", "sensors.motor_power"},
		Secondary: []string{"sensors.motor_power"},
		Styles: map[string]style.Spec{
			"shot.flow":     {Color: "#d62728", Line: style.Dashed, Width: 2, Axis: style.Secondary},
			"shot.pressure": {Line: style.Dotted},
		},
	}
	p := filepath.Join(t.TempDir(), "s"+FileSuffix)
	if err := Save(p, in); err != nil {
		t.Fatalf("save: %v", err)
	}
	out, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("round trip mismatch\n in %+v\nout %+v", in, out)
	}
	if !out.SecondarySet()["sensors.motor_power"] || out.Slot(1).Path != "/shots/b.shot.json" || out.Slot(5).Path != "" {
		t.Fatalf("accessors wrong")
	}
}

func TestLoadMissingFieldsIsRecoverable(t *testing.T) {
	p := writeFile(t, "partial.session.json", `{"version": 2, "files": [{"path": "x.shot.json", "trim_seconds": -3}], "selected": ["shot.flow"],
	  "styles": {"shot.flow": {"line_style": "wiggly", "width": 12, "color": "#zzz"}}}`)
	s, err := Load(p)
	if s == nil {
		t.Fatalf("expected a session alongside the error")
	}
	var se *SessionError
	if !errors.As(err, &se) || se.Fatal {
		t.Fatalf("expected recoverable SessionError, got %v", err)
	}
	if !errors.Is(err, ErrInvalidFields) {
		t.Fatalf("expected ErrInvalidFields")
	}
	joined := strings.Join(se.Fields, ",")
	for _, f := range []string{"compare", "secondary", "files[0].trim_seconds", "styles.shot.flow.line_style", "styles.shot.flow.width", "styles.shot.flow.color"} {
		if !strings.Contains(joined, f) {
			t.Fatalf("missing %q in reported fields %q", f, joined)
		}
	}
	sp := s.Styles["shot.flow"]
	if sp.Line != style.Solid || sp.Width != style.MaxWidth || sp.Color != "" {
		t.Fatalf("defaults not applied: %+v", sp)
	}
	if s.Files[0].TrimSeconds != 0 || s.Compare || len(s.Selected) != 1 {
		t.Fatalf("unexpected session %+v", s)
	}
}

func TestLoadFatal(t *testing.T) {
	cases := map[string]string{
		"malformed": `{"version": 2,`,
		"array":     `[1,2]`,
		"null":      `null`,
		"future":    `{"version": 9}`,
	}
	for name, body := range cases {
		s, err := Load(writeFile(t, name+".session.json", body))
		var se *SessionError
		if s != nil || !errors.As(err, &se) || !se.Fatal {
			t.Fatalf("%s: expected fatal error, got session=%v err=%v", name, s, err)
		}
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.session.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoadLegacySession(t *testing.T) {
	body := `{
  "shot1_path": "/shots/a.shot.json",
  "shot2_path": null,
  "shot1_settings": {"trim_duration": 31.2},
  "shot2_settings": {},
  "compare_mode": false,
  "field_checkboxes": {"shot.flow": true, "shot.pressure": true, "shot.weight": false, "sensors.custom_probe": true},
  "field_secondary": {"shot.flow": true, "shot.pressure": false},
  "field_styles": {"shot.pressure": {"color": "#2ca02c", "linestyle": "--", "linewidth": 2.5}, "shot.flow": {"linestyle": "-."}}
}`
	s, err := Load(writeFile(t, "old.session.json", body))
	if err != nil {
		t.Fatalf("load legacy: %v", err)
	}
	if s.Version != Version || len(s.Files) != 1 || s.Files[0].Path != "/shots/a.shot.json" || s.Files[0].TrimSeconds != 31.2 {
		t.Fatalf("files %+v", s.Files)
	}
	wantSel := []string{"shot.pressure", "shot.flow", "sensors.custom_probe"}
	if !reflect.DeepEqual(s.Selected, wantSel) {
		t.Fatalf("selected %v want %v", s.Selected, wantSel)
	}
	if !reflect.DeepEqual(s.Secondary, []string{"shot.flow"}) {
		t.Fatalf("secondary %v", s.Secondary)
	}
	if got := s.Styles["shot.pressure"]; got != (style.Spec{Color: "#2ca02c", Line: style.Dashed, Width: 2.5}) {
		t.Fatalf("pressure style %+v", got)
	}
	if got := s.Styles["shot.flow"]; got.Line != style.DashDot {
		t.Fatalf("flow style %+v", got)
	}
}

func TestWithSuffix(t *testing.T) {
	if WithSuffix("a") != "a.session.json" || WithSuffix("b.session.json") != "b.session.json" {
		t.Fatalf("suffix handling wrong")
	}
}
