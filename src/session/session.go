// Package session saves and restores the viewer's working state: which shot files are loaded,
// their trim bounds, the selected series, axis assignment, style overrides and compare mode.
// Sessions never hold shot data, only paths and settings.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/iafilius/ShotPlot/src/logging"
	"github.com/iafilius/ShotPlot/src/style"
)

// Version is the schema version written by Save.
const Version = 2

// FileSuffix is appended to session file names that lack it.
const FileSuffix = ".session.json"

// MaxFiles is the number of shot slots a session can describe.
const MaxFiles = 2

// File is one loaded shot slot. TrimSeconds <= 0 means untrimmed.
type File struct {
	Path        string  `json:"path"`
	TrimSeconds float64 `json:"trim_seconds,omitempty"`
}

// Session is the persisted viewer state.
type Session struct {
	Version   int                   `json:"version"`
	Files     []File                `json:"files"`
	Compare   bool                  `json:"compare"`
	Selected  []string              `json:"selected"`
	Secondary []string              `json:"secondary"`
	Styles    map[string]style.Spec `json:"styles"`
}

// New returns an empty session at the current version.
func New() *Session {
	return &Session{Version: Version, Styles: map[string]style.Spec{}}
}

// Slot returns the file for slot i, or a zero File when unset.
func (s *Session) Slot(i int) File {
	if i < 0 || i >= len(s.Files) {
		return File{}
	}
	return s.Files[i]
}

// SecondarySet returns Secondary as a lookup set.
func (s *Session) SecondarySet() map[string]bool {
	m := make(map[string]bool, len(s.Secondary))
	for _, k := range s.Secondary {
		m[k] = true
	}
	return m
}

// WithSuffix appends FileSuffix to path unless already present.
func WithSuffix(path string) string {
	if strings.HasSuffix(path, FileSuffix) {
		return path
	}
	return path + FileSuffix
}

// Save writes s as indented JSON.
func Save(path string, s *Session) error {
	f, err := os.Create(path)
	if err != nil {
		return &SessionError{Path: path, Fatal: true, Err: err}
	}
	if err := Encode(f, s); err != nil {
		_ = f.Close()
		return &SessionError{Path: path, Fatal: true, Err: err}
	}
	if err := f.Close(); err != nil {
		return &SessionError{Path: path, Fatal: true, Err: err}
	}
	logging.Debugf("session saved to %s", path)
	return nil
}

// Encode writes s to w at the current version. Nil lists are written as empty ones.
func Encode(w io.Writer, s *Session) error {
	out := *s
	out.Version = Version
	if out.Files == nil {
		out.Files = []File{}
	}
	if out.Selected == nil {
		out.Selected = []string{}
	}
	if out.Secondary == nil {
		out.Secondary = []string{}
	}
	if out.Styles == nil {
		out.Styles = map[string]style.Spec{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(&out)
}

// Load reads a session file. An unreadable or malformed file returns a nil session and a
// fatal *SessionError. A readable file with missing or invalid fields returns the session
// with defaults in their place together with a non-fatal *SessionError naming them.
func Load(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &SessionError{Path: path, Fatal: true, Err: err}
	}
	s, bad, err := Decode(data)
	if err != nil {
		return nil, &SessionError{Path: path, Fatal: true, Err: err}
	}
	if len(bad) > 0 {
		logging.Warnf("session %s: defaults used for %s", path, strings.Join(bad, ", "))
		return s, &SessionError{Path: path, Fields: bad, Err: ErrInvalidFields}
	}
	return s, nil
}

// Decode parses session JSON of any supported version. The returned list names the fields
// that were missing or invalid and replaced by defaults.
func Decode(data []byte) (*Session, []string, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("decode session: %w", err)
	}
	if raw == nil {
		return nil, nil, errors.New("decode session: not a JSON object")
	}
	if isLegacy(raw) {
		s, bad := migrateV1(raw)
		logging.Infof("migrated version 1 session")
		return s, bad, nil
	}
	d := decoder{raw: raw}
	s := New()
	switch v, ok := d.getInt("version"); {
	case !ok:
		d.bad = append(d.bad, "version")
	case v > Version:
		return nil, nil, fmt.Errorf("decode session: unsupported version %d", v)
	}
	s.Files = d.getFiles("files")
	s.Compare = d.getBool("compare")
	s.Selected = d.getStrings("selected")
	s.Secondary = d.getStrings("secondary")
	s.Styles = d.getStyles("styles")
	return s, d.bad, nil
}

// decoder pulls individual fields out of a raw object, recording each failure.
type decoder struct {
	raw map[string]json.RawMessage
	bad []string
}

func (d *decoder) field(name string, v any) bool {
	msg, ok := d.raw[name]
	if !ok || string(msg) == "null" {
		d.bad = append(d.bad, name)
		return false
	}
	if err := json.Unmarshal(msg, v); err != nil {
		d.bad = append(d.bad, name)
		return false
	}
	return true
}

func (d *decoder) getInt(name string) (int, bool) {
	var f float64
	if !d.field(name, &f) {
		return 0, false
	}
	return int(f), true
}

func (d *decoder) getBool(name string) bool {
	var b bool
	d.field(name, &b)
	return b
}

func (d *decoder) getStrings(name string) []string {
	var out []string
	d.field(name, &out)
	return out
}

func (d *decoder) getFiles(name string) []File {
	var in []struct {
		Path        *string  `json:"path"`
		TrimSeconds *float64 `json:"trim_seconds"`
	}
	if !d.field(name, &in) {
		return nil
	}
	var out []File
	for i, f := range in {
		if i >= MaxFiles {
			d.bad = append(d.bad, fmt.Sprintf("%s[%d]", name, i))
			continue
		}
		var fl File
		if f.Path != nil {
			fl.Path = *f.Path
		}
		if f.TrimSeconds != nil {
			fl.TrimSeconds = *f.TrimSeconds
			if math.IsNaN(fl.TrimSeconds) || fl.TrimSeconds < 0 {
				d.bad = append(d.bad, fmt.Sprintf("%s[%d].trim_seconds", name, i))
				fl.TrimSeconds = 0
			}
		}
		out = append(out, fl)
	}
	return out
}

func (d *decoder) getStyles(name string) map[string]style.Spec {
	out := map[string]style.Spec{}
	var in map[string]map[string]any
	if !d.field(name, &in) {
		return out
	}
	for key, m := range in {
		sp, bad := parseSpec(m, "line_style", "width")
		for _, b := range bad {
			d.bad = append(d.bad, name+"."+key+"."+b)
		}
		out[key] = sp
	}
	return out
}

// parseSpec reads a style object whose line-style and width keys are named by lineKey and
// widthKey. Invalid entries fall back to the zero value and are reported.
func parseSpec(m map[string]any, lineKey, widthKey string) (style.Spec, []string) {
	var sp style.Spec
	var bad []string
	if v, ok := m["color"]; ok && v != nil {
		c, isStr := v.(string)
		if _, valid := style.ParseColor(c); isStr && valid {
			sp.Color = c
		} else {
			bad = append(bad, "color")
		}
	}
	if v, ok := m[lineKey]; ok && v != nil {
		str, isStr := v.(string)
		l, valid := style.ParseLineStyle(str)
		if isStr && valid {
			sp.Line = l
		} else {
			bad = append(bad, lineKey)
		}
	}
	if v, ok := m[widthKey]; ok && v != nil {
		w, isNum := v.(float64)
		switch {
		case !isNum || math.IsNaN(w):
			bad = append(bad, widthKey)
		case w < style.MinWidth || w > style.MaxWidth:
			sp.Width = style.ClampWidth(w)
			bad = append(bad, widthKey)
		default:
			sp.Width = w
		}
	}
	if v, ok := m["axis"]; ok && v != nil {
		str, _ := v.(string)
		var a style.Axis
		if err := a.UnmarshalText([]byte(str)); err == nil {
			sp.Axis = a
		} else {
			bad = append(bad, "axis")
		}
	}
	return sp, bad
}
