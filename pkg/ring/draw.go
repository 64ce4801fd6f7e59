package ring

import (
	"github.com/fogleman/gg"
)

// Draw rasterizes g onto dc: the fill disk first, then the border, the
// outline and the sweep. Strokes are inset by half their width so the ring
// stays inside the glyph's bounding box. Zero-length sweeps are skipped.
func Draw(dc *gg.Context, g Glyph) {
	dc.Push()
	defer dc.Pop()

	if g.Fill != nil {
		dc.NewSubPath()
		dc.DrawCircle(g.Center.X, g.Center.Y, g.Radius)
		dc.SetColor(g.Fill)
		dc.Fill()
	}

	dc.SetLineCapButt()
	strokeArc(dc, g.Center, g.Radius, g.Border)
	strokeArc(dc, g.Center, g.Radius, g.Outline)
	strokeArc(dc, g.Center, g.Radius, g.Sweep)
}

func strokeArc(dc *gg.Context, c Point, radius float64, a Arc) {
	if a.Sweep() == 0 || a.Width <= 0 {
		return
	}

	r := radius - a.Width/2
	if r <= 0 {
		return
	}

	dc.NewSubPath()
	dc.DrawArc(c.X, c.Y, r, gg.Radians(a.Start), gg.Radians(a.End))
	dc.SetColor(a.Color)
	dc.SetLineWidth(a.Width)
	dc.Stroke()
}
