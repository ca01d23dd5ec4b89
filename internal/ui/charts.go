package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type chartUnit int

const (
	unitPercent chartUnit = iota
	unitGB
)

func (u chartUnit) format(v float64) string {
	if u == unitPercent {
		return fmt.Sprintf("%.0f%%", v)
	}
	if v < 10 {
		return fmt.Sprintf("%.1fG", v)
	}
	return fmt.Sprintf("%.0fG", v)
}

// columnLevels fill one chart row in eighths.
var columnLevels = []rune("▁▂▃▄▅▆▇█")

// gapRune marks a sample on the baseline that did not measure the metric.
const gapRune = '╌'

// niceCeiling rounds v up to 1, 2 or 5 times a power of ten.
func niceCeiling(v float64) float64 {
	if v <= 0 || math.IsNaN(v) {
		return 1
	}
	exp := math.Pow(10, math.Floor(math.Log10(v)))
	for _, m := range []float64{1, 2, 5} {
		if m*exp >= v {
			return m * exp
		}
	}
	return 10 * exp
}

// columnChartLines draws one column per sample, newest on the right, as rows
// bar lines followed by the baseline. NaN values leave a gap.
func columnChartLines(values []float64, width, rows int, ceiling float64) []string {
	if len(values) > width {
		values = values[len(values)-width:]
	}
	pad := width - len(values)

	grid := make([][]rune, rows+1)
	for i := range grid {
		fill := ' '
		if i == rows {
			fill = '─'
		}
		grid[i] = []rune(strings.Repeat(string(fill), width))
	}

	for i, v := range values {
		x := pad + i
		if math.IsNaN(v) {
			grid[rows][x] = gapRune
			continue
		}
		frac := math.Min(math.Max(v/ceiling, 0), 1)
		eighths := int(math.Round(frac * float64(rows*8)))
		for r := 0; r < rows; r++ {
			cell := eighths - r*8
			if cell <= 0 {
				break
			}
			grid[rows-1-r][x] = columnLevels[min(cell, 8)-1]
		}
	}

	lines := make([]string, len(grid))
	for i, row := range grid {
		lines[i] = string(row)
	}
	return lines
}

// renderColumnChart adds a labelled y axis to columnChartLines.
func renderColumnChart(values []float64, width, height int, color lipgloss.Color, unit chartUnit, ceiling float64) string {
	width, height = ensureMin(width, height, 20, 4)
	rows := height - 1

	top, mid, bottom := unit.format(ceiling), unit.format(ceiling/2), unit.format(0)
	labelWidth := max(len(top), len(mid), len(bottom))
	labels := make([]string, rows+1)
	labels[0] = top
	if rows > 2 {
		labels[rows/2] = mid
	}
	labels[rows] = bottom

	lines := columnChartLines(values, width-labelWidth-1, rows, ceiling)
	labelStyle := styleColor(colorDim)
	barStyle := lipgloss.NewStyle().Foreground(color)

	var b strings.Builder
	for i, line := range lines {
		axis := "│"
		switch {
		case i == rows:
			axis = "└"
		case labels[i] != "":
			axis = "┤"
		}
		b.WriteString(labelStyle.Render(fmt.Sprintf("%*s%s", labelWidth, labels[i], axis)))
		if i == rows {
			b.WriteString(labelStyle.Render(line))
		} else {
			b.WriteString(barStyle.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func formatReading(unit chartUnit, current, peak float64) string {
	peakText := styleColor(colorItalic).Render("(peak " + unit.format(peak) + ")")
	if math.IsNaN(current) {
		return fmt.Sprintf("%s %s", styleColor(colorDim).Render("n/a"), peakText)
	}
	color := colorOrange
	if unit == unitPercent {
		color = getPercentColor(current)
	}
	reading := fmt.Sprintf("%.1f%%", current)
	if unit == unitGB {
		reading = fmt.Sprintf("%.2f GB", current)
	}
	return fmt.Sprintf("%s %s", styleColor(color).Render(reading), peakText)
}
