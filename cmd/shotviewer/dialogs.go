package main

import (
	"fmt"
	"math"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/iafilius/ShotPlot/src/shot"
	"github.com/iafilius/ShotPlot/src/style"
)

// minTrim is the smallest trim bound the slider offers; 0 would mean "whole shot".
const minTrim = 0.1

func formatWidth(w float64) string { return strconv.FormatFloat(w, 'f', 1, 64) }

// currentSpec returns the fully resolved style of key as it is currently drawn.
func currentSpec(state *uiState, key string) style.Spec {
	sp := state.styles[key]
	idx := 0
	for i, k := range state.selectedKeys() {
		if k == key {
			idx = i
		}
	}
	r := sp.Resolve(state.settings.Palette, idx)
	return style.Spec{Color: r.Hex, Line: r.Line, Width: r.Width, Axis: state.viewAxis(key)}
}

// showStyleDialog edits one series' color, line style, width and axis. Changes preview live;
// Cancel restores the previous override.
func showStyleDialog(state *uiState, f shot.Field) {
	prev, hadPrev := state.styles[f.Key]
	prevSec, hadSec := state.secondary[f.Key]
	work := currentSpec(state, f.Key)

	swatch := canvas.NewRectangle(nil)
	swatch.SetMinSize(fyne.NewSize(48, 24))
	hexEntry := widget.NewEntry()
	apply := func() {
		state.styles[f.Key] = work
		state.setSecondary(f.Key, work.Axis == style.Secondary)
		if c, ok := style.ParseColor(work.Color); ok {
			swatch.FillColor = c
			swatch.Refresh()
		}
		redraw(state)
	}

	hexEntry.SetText(work.Color)
	hexEntry.OnChanged = func(s string) {
		if _, ok := style.ParseColor(s); ok {
			work.Color = s
			apply()
		}
	}
	presets := container.NewGridWithColumns(6)
	for _, p := range style.Presets {
		p := p
		presets.Add(widget.NewButton(p.Name, func() { hexEntry.SetText(p.Hex) }))
	}

	var lineNames []string
	for _, l := range style.LineStyles {
		lineNames = append(lineNames, l.Title())
	}
	lineSel := widget.NewSelect(lineNames, nil)
	lineSel.SetSelected(work.Line.Title())
	lineSel.OnChanged = func(s string) {
		if l, ok := style.ParseLineStyle(s); ok {
			work.Line = l
			apply()
		}
	}

	var widthNames []string
	for _, w := range style.Widths {
		widthNames = append(widthNames, formatWidth(w))
	}
	widthSel := widget.NewSelect(widthNames, nil)
	widthSel.SetSelected(formatWidth(work.Width))
	widthSel.OnChanged = func(s string) {
		if w, err := strconv.ParseFloat(s, 64); err == nil {
			work.Width = style.ClampWidth(w)
			apply()
		}
	}

	axisSel := widget.NewRadioGroup([]string{"Primary", "Secondary"}, nil)
	axisSel.Horizontal = true
	if work.Axis == style.Secondary {
		axisSel.SetSelected("Secondary")
	} else {
		axisSel.SetSelected("Primary")
	}
	axisSel.OnChanged = func(s string) {
		work.Axis = style.Primary
		if s == "Secondary" {
			work.Axis = style.Secondary
		}
		apply()
	}

	if c, ok := style.ParseColor(work.Color); ok {
		swatch.FillColor = c
	}
	var d *dialog.ConfirmDialog
	resetDone := false
	reset := widget.NewButton("Reset to default", func() {
		resetDone = true
		delete(state.styles, f.Key)
		delete(state.secondary, f.Key)
		d.Hide()
	})
	form := widget.NewForm(
		widget.NewFormItem("Color", container.NewBorder(nil, nil, swatch, nil, hexEntry)),
		widget.NewFormItem("", presets),
		widget.NewFormItem("Line style", lineSel),
		widget.NewFormItem("Line width", widthSel),
		widget.NewFormItem("Axis", axisSel),
	)
	content := container.NewVBox(form, reset)
	d = dialog.NewCustomConfirm("Style: "+f.Label(), "OK", "Cancel", content, func(ok bool) {
		if !ok && !resetDone {
			if hadPrev {
				state.styles[f.Key] = prev
			} else {
				delete(state.styles, f.Key)
			}
			if hadSec {
				state.secondary[f.Key] = prevSec
			} else {
				delete(state.secondary, f.Key)
			}
		}
		syncWidgets(state)
		redraw(state)
	}, state.window)
	d.Resize(fyne.NewSize(520, 360))
	d.Show()
}

// trimSliderRange is the slider span for a shot of dur seconds. The lower end stays above
// zero so dragging fully left keeps a trimmed view.
func trimSliderRange(dur float64) (float64, float64) {
	return math.Min(minTrim, dur), dur
}

// showTrimDialog sets slot i's trim bound with a slider over the shot duration. The chart
// follows the slider; Cancel restores the previous bound.
func showTrimDialog(state *uiState, i int) {
	s := state.slots[i].shot
	if s == nil {
		return
	}
	dur := s.Duration()
	prev := state.slots[i].trim
	cur := prev
	if cur <= 0 {
		cur = dur
	}
	label := widget.NewLabel("")
	show := func(v float64) {
		if v >= dur {
			label.SetText(fmt.Sprintf("Full shot (%.1fs)", dur))
			return
		}
		label.SetText(fmt.Sprintf("Show first %.1fs of %.1fs", v, dur))
	}
	slider := widget.NewSlider(trimSliderRange(dur))
	slider.Step = 0.1
	slider.SetValue(cur)
	show(cur)
	slider.OnChanged = func(v float64) {
		show(v)
		state.setTrim(i, v)
		redraw(state)
	}
	reset := widget.NewButton("Reset", func() { slider.SetValue(dur) })
	content := container.NewVBox(
		widget.NewLabel(fmt.Sprintf("Shot %d: %s", i+1, s.ShortName())),
		slider,
		container.NewBorder(nil, nil, nil, reset, label),
	)
	d := dialog.NewCustomConfirm("Shot settings", "OK", "Cancel", content, func(ok bool) {
		if !ok {
			state.slots[i].trim = prev
		}
		syncWidgets(state)
		redraw(state)
	}, state.window)
	d.Resize(fyne.NewSize(460, 200))
	d.Show()
}
