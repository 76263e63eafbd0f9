package main

import (
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/iafilius/ShotPlot/src/plot"
)

// Approximate go-chart gutters at 96 dpi: the primary y axis sits on the right, the secondary
// on the left.
const (
	axisGutterPx  = 56
	emptyGutterPx = 12
)

// containRect returns where an imgW×imgH image is drawn inside a viewW×viewH area with
// ImageFillContain, and the scale applied.
func containRect(imgW, imgH, viewW, viewH float32) (x, y, w, h, scale float32) {
	if imgW <= 0 || imgH <= 0 {
		return 0, 0, viewW, viewH, 1
	}
	scale = viewW / imgW
	if sy := viewH / imgH; sy < scale {
		scale = sy
	}
	w, h = imgW*scale, imgH*scale
	return (viewW - w) / 2, (viewH - h) / 2, w, h, scale
}

// plotSpan estimates the horizontal pixel range of the plotting area inside a rendered figure.
func plotSpan(fig *plot.Figure) (left, right float32) {
	k := float32(fig.DPI / 96)
	pad := float32(math.Round(20 * fig.DPI / 96))
	left = pad + emptyGutterPx*k
	if fig.HasSecondary {
		left = pad + axisGutterPx*k
	}
	right = float32(fig.Width) - pad - axisGutterPx*k
	if right <= left {
		return 0, float32(fig.Width)
	}
	return left, right
}

// timeAtX maps an image x coordinate to chart time, clamped to [0, fig.XMax].
func timeAtX(fig *plot.Figure, imgX float32) float64 {
	left, right := plotSpan(fig)
	f := float64((imgX - left) / (right - left))
	return math.Max(0, math.Min(1, f)) * fig.XMax
}

// hoverOverlay draws a vertical cursor line over the chart and reports the chart time under
// the mouse.
type hoverOverlay struct {
	widget.BaseWidget
	state    *uiState
	mouse    fyne.Position
	hovering bool
}

func newHoverOverlay(state *uiState) *hoverOverlay {
	h := &hoverOverlay{state: state}
	h.ExtendBaseWidget(h)
	return h
}

func (h *hoverOverlay) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.RGBA{A: 0})
	line := canvas.NewLine(theme.Color(theme.ColorNameDisabled))
	line.StrokeWidth = 1
	return &hoverRenderer{h: h, bg: bg, line: line, objs: []fyne.CanvasObject{bg, line}}
}

type hoverRenderer struct {
	h    *hoverOverlay
	bg   *canvas.Rectangle
	line *canvas.Line
	objs []fyne.CanvasObject
}

func (r *hoverRenderer) Destroy() {}

func (r *hoverRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.bg.Move(fyne.NewPos(0, 0))
	hide := func() {
		r.line.Position1 = fyne.NewPos(-10, -10)
		r.line.Position2 = fyne.NewPos(-10, -10)
	}
	st := r.h.state
	if !r.h.hovering || st == nil || st.fig == nil || st.fig.Message != "" || st.img == nil || st.img.Image == nil {
		hide()
		return
	}
	b := st.img.Image.Bounds()
	dx, dy, dw, dh, scale := containRect(float32(b.Dx()), float32(b.Dy()), size.Width, size.Height)
	x, y := r.h.mouse.X, r.h.mouse.Y
	if x < dx || x > dx+dw || y < dy || y > dy+dh || scale <= 0 {
		hide()
		return
	}
	r.line.Position1 = fyne.NewPos(x, dy)
	r.line.Position2 = fyne.NewPos(x, dy+dh)
}

func (r *hoverRenderer) MinSize() fyne.Size           { return fyne.NewSize(10, 10) }
func (r *hoverRenderer) Objects() []fyne.CanvasObject { return r.objs }
func (r *hoverRenderer) Refresh() {
	r.Layout(r.h.Size())
	r.line.StrokeColor = theme.Color(theme.ColorNameDisabled)
	r.bg.Refresh()
	r.line.Refresh()
}

// chartTime converts the overlay mouse position to chart time; ok is false outside the image.
func (h *hoverOverlay) chartTime() (float64, bool) {
	st := h.state
	if st == nil || st.fig == nil || st.img == nil || st.img.Image == nil {
		return 0, false
	}
	b := st.img.Image.Bounds()
	size := h.Size()
	dx, dy, dw, dh, scale := containRect(float32(b.Dx()), float32(b.Dy()), size.Width, size.Height)
	x, y := h.mouse.X, h.mouse.Y
	if x < dx || x > dx+dw || y < dy || y > dy+dh || scale <= 0 {
		return 0, false
	}
	return timeAtX(st.fig, (x-dx)/scale), true
}

func (h *hoverOverlay) MouseMoved(ev *desktop.MouseEvent) {
	h.hovering = true
	h.mouse = ev.Position
	h.Refresh()
	if t, ok := h.chartTime(); ok {
		h.state.showReadout(t)
	}
}

func (h *hoverOverlay) MouseIn(ev *desktop.MouseEvent) { h.hovering = true; h.Refresh() }
func (h *hoverOverlay) MouseOut() {
	h.hovering = false
	h.Refresh()
	h.state.showReadout(math.NaN())
}

var _ desktop.Hoverable = (*hoverOverlay)(nil)
