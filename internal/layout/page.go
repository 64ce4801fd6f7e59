// Package layout places a year of days on a single A4 landscape page and
// draws the calendar: year title, month headers, weekend shading, day
// numbers and one lunar ring per day.
package layout

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"strconv"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/chrissnell/mooncalendar/pkg/ephemeris"
	"github.com/chrissnell/mooncalendar/pkg/lunar"
	"github.com/chrissnell/mooncalendar/pkg/ring"
)

var weekdayInitials = [7]string{"S", "M", "T", "W", "T", "F", "S"}

var (
	white        = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	black        = color.RGBA{A: 255}
	sundayRed    = color.RGBA{R: 255, A: 255}
	saturdayBlue = color.RGBA{B: 255, A: 255}
	weekendGray  = color.RGBA{R: 0xee, G: 0xee, B: 0xee, A: 255}
)

// DayPhase is the lunar state of one day as the page draws it.
type DayPhase struct {
	Sample   ephemeris.Sample
	LunarDay int
	Marker   lunar.Marker
}

// Glyph returns the ring glyph for this phase placed in cell c.
func (p DayPhase) Glyph(c Cell) ring.Glyph {
	return ring.Render(c.Center, c.Radius, p.Sample.Fraction, p.Sample.Waxing, p.Marker)
}

// Page owns the raster surface of one calendar.
type Page struct {
	dc    *gg.Context
	year  int
	faces map[float64]font.Face
}

// NewPage creates a blank white page for year.
func NewPage(year int) (*Page, error) {
	f, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}

	faces := make(map[float64]font.Face)
	for _, size := range []float64{yearFontSize, monthFontSize, weekFontSize} {
		faces[size] = truetype.NewFace(f, &truetype.Options{Size: size})
	}

	dc := gg.NewContext(Width, Height)
	dc.SetColor(white)
	dc.Clear()

	return &Page{dc: dc, year: year, faces: faces}, nil
}

// Draw renders the whole calendar. phases[i] belongs to cells[i].
func (p *Page) Draw(cells []Cell, phases []DayPhase) error {
	if len(cells) != len(phases) {
		return fmt.Errorf("have %d cells but %d phases", len(cells), len(phases))
	}

	p.drawTitle()
	for m := time.January; m <= time.December; m++ {
		p.drawMonthHeader(m)
	}
	for i, c := range cells {
		p.DrawDay(c, phases[i])
	}
	return nil
}

// DrawDay draws one day cell: shading, ring and number.
func (p *Page) DrawDay(c Cell, phase DayPhase) {
	if c.Weekend {
		p.dc.DrawRectangle(c.Box.X1, c.Box.Y1, c.Box.X2-c.Box.X1, c.Box.Y2-c.Box.Y1)
		p.dc.SetColor(weekendGray)
		p.dc.Fill()
	}

	ring.Draw(p.dc, phase.Glyph(c))

	textColor := black
	switch c.Column {
	case 0:
		textColor = sundayRed
	case 6:
		textColor = saturdayBlue
	}
	p.text(strconv.Itoa(c.Date.Day), c.Box.X1+columnWidth/2, c.Box.Y1+weekFontSize/2, weekFontSize, textColor)
}

func (p *Page) drawTitle() {
	p.text(strconv.Itoa(p.year), Width/2, Padding, yearFontSize, black)
}

func (p *Page) drawMonthHeader(m time.Month) {
	box := MonthBox(m)

	p.text(m.String(), box.X2-monthWidth/2, box.Y1-20, monthFontSize, black)

	for i, initial := range weekdayInitials {
		x := box.X1 + float64(columnWidth*i) + columnWidth/2
		p.text(initial, x, box.Y1+monthFontSize, weekFontSize, black)
	}

	y := box.Y1 + monthFontSize + weekFontSize
	p.dc.SetColor(black)
	p.dc.SetLineWidth(3)
	p.dc.DrawLine(box.X1, y, box.X2, y)
	p.dc.Stroke()
}

// text draws s horizontally centred on x with its top at y.
func (p *Page) text(s string, x, y, size float64, c color.Color) {
	p.dc.SetFontFace(p.faces[size])
	p.dc.SetColor(c)
	p.dc.DrawStringAnchored(s, x, y, 0.5, 1)
}

// Image returns the rendered raster.
func (p *Page) Image() image.Image {
	return p.dc.Image()
}

// EncodePNG writes the page as PNG.
func (p *Page) EncodePNG(w io.Writer) error {
	return p.dc.EncodePNG(w)
}

// SavePNG writes the page to a PNG file.
func (p *Page) SavePNG(path string) error {
	return p.dc.SavePNG(path)
}
