package layout

import (
	"time"

	"cloud.google.com/go/civil"

	"github.com/chrissnell/mooncalendar/pkg/ring"
)

// Page geometry for an A4 landscape sheet at 300 dpi.
const (
	Width   = 3508
	Height  = 2480
	Padding = 100

	monthsPerRow = 4
	rowTop       = 400 // top of the first row of month boxes
	rowHeight    = 680
	monthWidth   = 791
	columnWidth  = monthWidth / 7
	monthGap     = Padding / 2
	weekHeight   = 80
	headerGap    = 20

	yearFontSize  = 300
	monthFontSize = 80
	weekFontSize  = 40

	ringRadius  = 30
	ringCenterY = 33
)

// Box is an axis-aligned rectangle in page pixels.
type Box struct {
	X1, Y1, X2, Y2 float64
}

// Cell is one day of the year placed on the page.
type Cell struct {
	Date    civil.Date
	Row     int // week row within its month, from 0
	Column  int // 0 = Sunday
	Box     Box
	Center  ring.Point
	Radius  float64
	Weekend bool
}

// Weeks returns the Sunday-first weeks of a month. Slots outside the month
// hold the zero Date.
func Weeks(year int, month time.Month) [][7]civil.Date {
	first := civil.Date{Year: year, Month: month, Day: 1}
	col := int(first.In(time.UTC).Weekday())

	var weeks [][7]civil.Date
	var week [7]civil.Date
	for d := first; d.Month == month; d = d.AddDays(1) {
		week[col] = d
		col++
		if col == 7 {
			weeks = append(weeks, week)
			week = [7]civil.Date{}
			col = 0
		}
	}
	if col != 0 {
		weeks = append(weeks, week)
	}
	return weeks
}

// MonthBox returns the page rectangle of a month (January = 1).
func MonthBox(month time.Month) Box {
	i := int(month) - 1
	row, col := i/monthsPerRow, i%monthsPerRow

	x1 := float64(Padding + col*monthGap + col*monthWidth)
	y1 := float64(rowTop + row*rowHeight)
	return Box{X1: x1, Y1: y1, X2: x1 + monthWidth, Y2: y1 + rowHeight}
}

// PlanYear lays out every day of year, in calendar order.
func PlanYear(year int) []Cell {
	cells := make([]Cell, 0, 366)
	datesTop := float64(monthFontSize + weekFontSize + headerGap)

	for m := time.January; m <= time.December; m++ {
		box := MonthBox(m)
		for row, week := range Weeks(year, m) {
			y1 := box.Y1 + datesTop + float64(row*weekHeight)
			for col, d := range week {
				if d.Day == 0 {
					continue
				}
				x1 := box.X1 + float64(col*columnWidth)
				cells = append(cells, Cell{
					Date:   d,
					Row:    row,
					Column: col,
					Box:    Box{X1: x1, Y1: y1, X2: x1 + columnWidth, Y2: y1 + weekHeight},
					Center: ring.Point{
						X: x1 + columnWidth/2,
						Y: y1 + ringCenterY,
					},
					Radius:  ringRadius,
					Weekend: col == 0 || col == 6,
				})
			}
		}
	}
	return cells
}
