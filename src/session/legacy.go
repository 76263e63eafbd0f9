package session

import (
	"encoding/json"
	"sort"

	"github.com/iafilius/ShotPlot/src/shot"
)

// legacyKeys identify the version 1 layout, which had no version field.
var legacyKeys = []string{"shot1_path", "shot2_path", "field_checkboxes", "field_styles", "compare_mode"}

func isLegacy(raw map[string]json.RawMessage) bool {
	if _, ok := raw["version"]; ok {
		return false
	}
	for _, k := range legacyKeys {
		if _, ok := raw[k]; ok {
			return true
		}
	}
	return false
}

type legacySettings struct {
	TrimDuration *float64 `json:"trim_duration"`
}

// migrateV1 converts the version 1 layout: per-slot path and settings keys, boolean maps for
// selection and secondary axis, and styles using color/linestyle/linewidth.
func migrateV1(raw map[string]json.RawMessage) (*Session, []string) {
	s := New()
	var bad []string
	get := func(name string, v any) bool {
		msg, ok := raw[name]
		if !ok || string(msg) == "null" {
			return false
		}
		if err := json.Unmarshal(msg, v); err != nil {
			bad = append(bad, name)
			return false
		}
		return true
	}

	files := make([]File, 0, MaxFiles)
	for _, key := range []string{"shot1", "shot2"} {
		var f File
		get(key+"_path", &f.Path)
		var st legacySettings
		if get(key+"_settings", &st) && st.TrimDuration != nil && *st.TrimDuration > 0 {
			f.TrimSeconds = *st.TrimDuration
		}
		files = append(files, f)
	}
	for len(files) > 0 && files[len(files)-1].Path == "" {
		files = files[:len(files)-1]
	}
	s.Files = files

	get("compare_mode", &s.Compare)

	var checks, secondary map[string]bool
	if get("field_checkboxes", &checks) {
		s.Selected = orderedTrue(checks)
	} else {
		bad = append(bad, "field_checkboxes")
	}
	if get("field_secondary", &secondary) {
		s.Secondary = orderedTrue(secondary)
	}

	var styles map[string]map[string]any
	if get("field_styles", &styles) {
		for key, m := range styles {
			sp, fb := parseSpec(m, "linestyle", "linewidth")
			for _, b := range fb {
				bad = append(bad, "field_styles."+key+"."+b)
			}
			if !sp.IsZero() {
				s.Styles[key] = sp
			}
		}
	}
	return s, bad
}

// orderedTrue returns the keys set to true, catalog fields first in catalog order, then
// the rest sorted.
func orderedTrue(m map[string]bool) []string {
	var out, extra []string
	for _, f := range shot.Fields {
		if m[f.Key] {
			out = append(out, f.Key)
		}
	}
	for k, v := range m {
		if _, known := shot.LookupField(k); v && !known {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}
