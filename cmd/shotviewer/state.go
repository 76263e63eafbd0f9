package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/iafilius/ShotPlot/src/config"
	"github.com/iafilius/ShotPlot/src/hover"
	"github.com/iafilius/ShotPlot/src/logging"
	"github.com/iafilius/ShotPlot/src/plot"
	"github.com/iafilius/ShotPlot/src/session"
	"github.com/iafilius/ShotPlot/src/shot"
	"github.com/iafilius/ShotPlot/src/style"
)

// slotState is one of the two shot slots.
type slotState struct {
	shot *shot.Shot
	trim float64 // seconds, <= 0 means whole shot
}

// viewState is the toolkit-independent part of the viewer: everything a redraw, a session
// save or a headless export needs.
type viewState struct {
	settings  config.Settings
	slots     [2]slotState
	compare   bool
	selected  map[string]bool
	secondary map[string]bool
	styles    map[string]style.Spec
}

func newViewState(set config.Settings) *viewState {
	vs := &viewState{
		settings:  set,
		selected:  map[string]bool{},
		secondary: map[string]bool{},
		styles:    map[string]style.Spec{},
	}
	def := set.DefaultSeries
	if len(def) == 0 {
		def = shot.DefaultSelection
	}
	for _, k := range def {
		vs.selected[k] = true
	}
	return vs
}

// orderedKeys returns the keys set in m: catalog fields in catalog order, then the rest sorted.
func orderedKeys(m map[string]bool) []string {
	var out, extra []string
	for _, f := range shot.Fields {
		if m[f.Key] {
			out = append(out, f.Key)
		}
	}
	for k, on := range m {
		if _, known := shot.LookupField(k); on && !known {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}

func (vs *viewState) selectedKeys() []string { return orderedKeys(vs.selected) }

// view builds the plot view for a w×h pixel canvas at dpi.
func (vs *viewState) view(w, h int, dpi float64) plot.View {
	v := plot.View{
		Compare:   vs.compare,
		Selected:  vs.selectedKeys(),
		Secondary: vs.secondary,
		Styles:    vs.styles,
		Palette:   vs.settings.Palette,
		Width:     w,
		Height:    h,
		DPI:       dpi,
		HideGrid:  !vs.settings.Grid,
	}
	for i, s := range vs.slots {
		v.Shots[i] = s.shot
		v.Trim[i] = s.trim
	}
	return v
}

// exportView is the fixed-size figure written by Export PNG.
func (vs *viewState) exportView() plot.View {
	v := vs.view(0, 0, vs.settings.ExportDPI)
	v.WidthIn, v.HeightIn = vs.settings.WidthIn, vs.settings.HeightIn
	return v
}

// loadSlot replaces slot i with the shot at path. On error the slot is left unchanged.
func (vs *viewState) loadSlot(i int, path string) error {
	s, err := shot.Load(path)
	if err != nil {
		return err
	}
	vs.slots[i] = slotState{shot: s}
	logging.Infof("slot %d: loaded %s (%d samples)", i+1, path, len(s.Samples))
	return nil
}

func (vs *viewState) clearSlot(i int) { vs.slots[i] = slotState{} }

// setTrim sets slot i's trim bound; values at or beyond the shot's duration mean untrimmed.
func (vs *viewState) setTrim(i int, seconds float64) {
	s := vs.slots[i].shot
	if s == nil || seconds <= 0 || seconds >= s.Duration() {
		vs.slots[i].trim = 0
		return
	}
	vs.slots[i].trim = seconds
}

// viewAxis is the axis key is drawn on.
func (vs *viewState) viewAxis(key string) style.Axis {
	return plot.View{Secondary: vs.secondary, Styles: vs.styles}.AxisOf(key)
}

// setSecondary moves key to the secondary or primary axis. The "2nd" toggle and the
// style dialog both go through here so the stored style never disagrees with the toggle.
func (vs *viewState) setSecondary(key string, on bool) {
	vs.secondary[key] = on
	if sp, ok := vs.styles[key]; ok {
		sp.Axis = style.Primary
		if on {
			sp.Axis = style.Secondary
		}
		vs.styles[key] = sp
	}
}

// applyPreset replaces the selection with keys.
func (vs *viewState) applyPreset(keys []string) {
	vs.selected = map[string]bool{}
	for _, k := range keys {
		vs.selected[k] = true
	}
}

// presetKeys returns the keys of a named quick-select preset.
func presetKeys(name string) []string {
	switch name {
	case "All":
		var all []string
		for _, f := range shot.Fields {
			all = append(all, f.Key)
		}
		return all
	case "Shot":
		return shot.FieldsInCategory("Shot", "Setpoints")
	case "Temps":
		var out []string
		for _, f := range shot.Fields {
			if f.Category == "Temperature" || strings.Contains(strings.ToLower(f.Key), "temp") {
				out = append(out, f.Key)
			}
		}
		return out
	}
	return nil
}

// toSession captures the current state.
func (vs *viewState) toSession() *session.Session {
	s := session.New()
	last := -1
	for i, sl := range vs.slots {
		if sl.shot != nil {
			last = i
		}
	}
	for i := 0; i <= last; i++ {
		f := session.File{TrimSeconds: vs.slots[i].trim}
		if vs.slots[i].shot != nil {
			f.Path = vs.slots[i].shot.Path
		}
		s.Files = append(s.Files, f)
	}
	s.Compare = vs.compare
	s.Selected = vs.selectedKeys()
	s.Secondary = orderedKeys(vs.secondary)
	for k, sp := range vs.styles {
		s.Styles[k] = sp
	}
	return s
}

// saveSession writes the current state to path, adding the session suffix when missing.
// It returns the path actually written.
func (vs *viewState) saveSession(path string) (string, error) {
	target := session.WithSuffix(path)
	return target, session.Save(target, vs.toSession())
}

// applySession replaces the state with sess. Shot files that cannot be loaded leave their
// slot empty and are returned joined as one error.
func (vs *viewState) applySession(sess *session.Session) error {
	var errs []error
	var slots [2]slotState
	for i := 0; i < len(slots); i++ {
		f := sess.Slot(i)
		if f.Path == "" {
			continue
		}
		s, err := shot.Load(f.Path)
		if err != nil {
			errs = append(errs, fmt.Errorf("shot %d: %w", i+1, err))
			continue
		}
		slots[i] = slotState{shot: s}
	}
	vs.slots = slots
	for i := range vs.slots {
		vs.setTrim(i, sess.Slot(i).TrimSeconds)
	}
	vs.compare = sess.Compare
	vs.applyPreset(sess.Selected)
	vs.secondary = sess.SecondarySet()
	vs.styles = map[string]style.Spec{}
	for k, sp := range sess.Styles {
		vs.styles[k] = sp
	}
	return errors.Join(errs...)
}

// slotNames returns the short file names of both slots ("" when empty).
func (vs *viewState) slotNames() [2]string {
	var out [2]string
	for i, sl := range vs.slots {
		if sl.shot != nil {
			out[i] = sl.shot.ShortName()
		}
	}
	return out
}

// readout renders the hover text for time t on fig: one shot's values, or both shots side
// by side in compare mode.
func readout(fig *plot.Figure, names [2]string, t float64) string {
	if fig == nil || fig.Message != "" {
		return ""
	}
	slots := fig.Slots()
	if len(slots) == 0 {
		return ""
	}
	if len(slots) == 2 {
		c := hover.Compare(names[slots[0]], fig.HoverTracks(slots[0]), names[slots[1]], fig.HoverTracks(slots[1]), t)
		return strings.Join(c.Lines(), "\n")
	}
	r := hover.Lookup(fig.HoverTracks(slots[0]), t)
	return strings.Join(r.Lines(), "\n")
}
