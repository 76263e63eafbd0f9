package plot

import (
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Placeholder returns a w×h white image with msg centred in grey. The bitmap font is scaled
// up with the image so the text stays legible on high-DPI exports.
func Placeholder(w, h int, msg string) image.Image {
	if w <= 0 || h <= 0 {
		w, h = 800, 400
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	if strings.TrimSpace(msg) == "" {
		return img
	}
	scale := h / 240
	if scale < 1 {
		scale = 1
	}
	text := textImage(msg, color.RGBA{R: 110, G: 110, B: 110, A: 255})
	tb := text.Bounds()
	sw, sh := tb.Dx()*scale, tb.Dy()*scale
	x0, y0 := (w-sw)/2, (h-sh)/2
	draw.NearestNeighbor.Scale(img, image.Rect(x0, y0, x0+sw, y0+sh), text, tb, draw.Over, nil)
	return img
}

// textImage draws msg with the 7x13 bitmap face onto a transparent image sized to fit.
func textImage(msg string, col color.Color) *image.RGBA {
	face := basicfont.Face7x13
	dr := &font.Drawer{Face: face}
	tw := dr.MeasureString(msg).Ceil()
	m := face.Metrics()
	asc, desc := m.Ascent.Ceil(), m.Descent.Ceil()
	img := image.NewRGBA(image.Rect(0, 0, tw+2, asc+desc+2))
	dr.Dst = img
	dr.Src = image.NewUniform(col)
	dr.Dot = fixed.P(1, asc+1)
	dr.DrawString(msg)
	return img
}
