package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"

	"github.com/wchung1209/climbing-log/internal/dates"
	"github.com/wchung1209/climbing-log/internal/model"
)

const (
	defaultPlotHeight   = 8
	minPlotWidth        = 10
	axisLabelTop        = "100%"
	axisLabelMid        = "50%"
	axisLabelBottom     = "0%"
	axisSeparator       = " │ "
	sendColor           = "\x1b[32m"
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
	dotsPerCellX        = 2
	dotsPerCellY        = 4
)

// EmptyTrendMessage is shown instead of a chart when no session matches the filter.
const EmptyTrendMessage = "No active session data for this filter."

// Braille dot bits indexed by [row][column] inside one 2x4 cell.
var brailleBits = [dotsPerCellY][dotsPerCellX]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// PlotTrend renders the send-rate series as a braille line chart on a fixed
// 0-100% axis, with the first and last session dates underneath.
func PlotTrend(w io.Writer, title string, series []model.DailyAggregate, width, height int) error {
	return plotTrend(w, title, series, width, height, false)
}

// PlotTrendWithColor is PlotTrend with optional forced colour output.
func PlotTrendWithColor(w io.Writer, title string, series []model.DailyAggregate, width, height int, forceColor bool) error {
	return plotTrend(w, title, series, width, height, forceColor)
}

func plotTrend(w io.Writer, title string, series []model.DailyAggregate, width, height int, forceColor bool) error {
	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	if len(series) == 0 {
		_, err := fmt.Fprintln(w, EmptyTrendMessage)
		return err
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = autoPlotWidth()
	}
	if width < minPlotWidth {
		width = minPlotWidth
	}

	values := resample(Rates(series), width)
	grid := newCanvas(width, height)
	dotRows := height * dotsPerCellY
	prevX, prevY := -1, -1
	for x, v := range values {
		px := x * dotsPerCellX
		py := rateToDotRow(v, dotRows)
		if prevX >= 0 {
			drawLine(prevX, prevY, px, py, grid.set)
		} else {
			grid.set(px, py)
		}
		prevX, prevY = px, py
	}

	useColor := shouldUseColor(w, forceColor)
	labels := axisLabels(height)
	labelWidth := utf8.RuneCountInString(axisLabelTop)
	for y := 0; y < height; y++ {
		var row strings.Builder
		row.WriteString(fmt.Sprintf("%*s%s", labelWidth, labels[y], axisSeparator))
		line := grid.row(y)
		if useColor {
			row.WriteString(sendColor + line + colorReset)
		} else {
			row.WriteString(line)
		}
		if _, err := fmt.Fprintln(w, row.String()); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, dateAxis(series, labelWidth+utf8.RuneCountInString(axisSeparator), width)); err != nil {
		return err
	}
	return nil
}

type canvas struct {
	cells [][]uint8
}

func newCanvas(width, height int) *canvas {
	cells := make([][]uint8, height)
	for y := range cells {
		cells[y] = make([]uint8, width)
	}
	return &canvas{cells: cells}
}

// set lights the dot at (x, y) in dot coordinates; out-of-range dots are dropped.
func (c *canvas) set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	cy, cx := y/dotsPerCellY, x/dotsPerCellX
	if cy >= len(c.cells) || cx >= len(c.cells[cy]) {
		return
	}
	c.cells[cy][cx] |= brailleBits[y%dotsPerCellY][x%dotsPerCellX]
}

func (c *canvas) row(y int) string {
	var b strings.Builder
	for _, mask := range c.cells[y] {
		b.WriteRune(rune(0x2800 + int(mask)))
	}
	return b.String()
}

func rateToDotRow(rate float64, rows int) int {
	if rows <= 1 {
		return 0
	}
	pos := rate / 100
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return int(math.Round((1 - pos) * float64(rows-1)))
}

func axisLabels(height int) []string {
	labels := make([]string, height)
	if height <= 0 {
		return labels
	}
	labels[0] = axisLabelTop
	if height > 2 {
		labels[height/2] = axisLabelMid
	}
	if height > 1 {
		labels[height-1] = axisLabelBottom
	}
	return labels
}

func dateAxis(series []model.DailyAggregate, indent, width int) string {
	first := dates.DisplayKey(series[0].Date)
	if len(series) == 1 {
		return strings.Repeat(" ", indent) + first
	}
	last := dates.DisplayKey(series[len(series)-1].Date)
	gap := width - utf8.RuneCountInString(first) - utf8.RuneCountInString(last)
	if gap < 1 {
		gap = 1
	}
	return strings.Repeat(" ", indent) + first + strings.Repeat(" ", gap) + last
}

// resample stretches or averages values to exactly width points.
func resample(values []float64, width int) []float64 {
	if len(values) == 0 || width <= 0 {
		return nil
	}
	out := make([]float64, width)
	switch {
	case len(values) == width:
		copy(out, values)
	case len(values) > width:
		for i := range out {
			start := i * len(values) / width
			end := (i + 1) * len(values) / width
			if end <= start {
				end = start + 1
			}
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
	case len(values) == 1 || width == 1:
		for i := range out {
			out[i] = values[0]
		}
	default:
		span := float64(len(values) - 1)
		for i := range out {
			pos := float64(i) * span / float64(width-1)
			idx := int(pos)
			if idx >= len(values)-1 {
				out[i] = values[len(values)-1]
				continue
			}
			frac := pos - float64(idx)
			out[i] = values[idx]*(1-frac) + values[idx+1]*frac
		}
	}
	return out
}

// drawLine walks a Bresenham line from (x0, y0) to (x1, y1).
func drawLine(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := absInt(x1 - x0)
	dy := -absInt(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func autoPlotWidth() int {
	return PlotWidthFor(terminalWidth())
}

// PlotWidthFor computes a plot width that fits within the total available width.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	axisWidth := utf8.RuneCountInString(axisLabelTop) + utf8.RuneCountInString(axisSeparator)
	plotWidth := totalWidth - axisWidth
	if plotWidth < minPlotWidth {
		plotWidth = minPlotWidth
	}
	return plotWidth
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
