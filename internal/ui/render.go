package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m *WatchModel) renderPropertiesPanel(width, height int) string {
	width, height = ensureMin(width, height, 20, 5)

	var b strings.Builder
	header := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorGreen)).Render("Properties") + "\n"
	b.WriteString(header + "\n")

	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorText)).Bold(true)
	missing := styleColor(colorMuted).Render("--")
	rows := []string{
		fmt.Sprintf("%s %s", labelStyle.Render("Run:"),
			styleColor(colorItalic).Render(truncateString(filepath.Base(m.path), max(1, width-10)))),
		fmt.Sprintf("%s %s", labelStyle.Render("Samples:"),
			styleColor(colorText).Render(fmt.Sprintf("%d", len(m.run)))),
	}

	if m.stats == nil {
		rows = append(rows,
			fmt.Sprintf("%s %s", labelStyle.Render("Total time:"), missing),
			fmt.Sprintf("%s %s", labelStyle.Render("GPU time:"), missing),
			fmt.Sprintf("%s %s", labelStyle.Render("Max GPU RAM:"), missing),
		)
	} else {
		gpuShare := 0.0
		if m.stats.TotalTime > 0 {
			gpuShare = m.stats.GPUTime / m.stats.TotalTime * 100
		}
		maxGPURAM := missing
		if m.stats.MaxGPURAM != nil {
			maxGPURAM = styleColor(colorOrange).Render(fmt.Sprintf("%.2f GB", float64(*m.stats.MaxGPURAM)/gbDivisor))
		}
		rows = append(rows,
			fmt.Sprintf("%s %s", labelStyle.Render("Total time:"),
				styleColor(colorGreen).Render(formatDuration(int64(m.stats.TotalTime)))),
			fmt.Sprintf("%s %s %s", labelStyle.Render("GPU time:"),
				styleColor(colorGreen).Render(formatDuration(int64(m.stats.GPUTime))),
				styleColor(getPercentColor(gpuShare)).Render(fmt.Sprintf("(%.1f%%)", gpuShare))),
			fmt.Sprintf("%s %s", labelStyle.Render("Max GPU RAM:"), maxGPURAM),
		)
	}
	if len(m.history) > 0 {
		rows = append(rows, fmt.Sprintf("%s %s", labelStyle.Render("Last sample:"),
			styleColor(colorItalic).Render(formatTime(m.history[len(m.history)-1].Time))))
	}
	if m.lastErr != nil {
		rows = append(rows, "", styleColor(colorRed).Render(truncateString(m.lastErr.Error(), max(1, width-4))))
	}

	innerHeight := height - 2
	maxVisibleRows := max(1, innerHeight-2)
	if len(rows) > maxVisibleRows {
		rows = rows[:maxVisibleRows]
	}
	rowStyle := lipgloss.NewStyle().Width(width - 4).Align(lipgloss.Left)
	for _, row := range rows {
		b.WriteString(rowStyle.Render(row) + "\n")
	}

	m.fillToHeight(&b, b.String(), width, innerHeight, colorBg)
	return borderStyle(width, height, true).Render(b.String())
}

func (m *WatchModel) renderDataPanel(width, height int) string {
	if !m.loaded {
		return m.renderEmptyState(width, height, "Loading...")
	}
	if m.lastErr != nil && m.last == nil {
		return m.renderEmptyState(width, height, fmt.Sprintf("Error: %s\n\nPress 'r' to retry", m.lastErr.Error()))
	}
	if m.last == nil {
		return m.renderEmptyState(width, height, "Waiting for samples...")
	}

	innerHeight := height - 2
	boxHeight := max(5, (innerHeight-3)/4)
	last := m.history[len(m.history)-1]

	charts := []string{
		m.renderMetricContent("CPU", boxHeight, width, last.CPUUsage, m.maxCPUSeen,
			m.getHistory(func(dp DataPoint) float64 { return dp.CPUUsage }), cpuColor, unitPercent, max(100.0, niceCeiling(m.maxCPUSeen))),
		m.renderMetricContent("RAM", boxHeight, width, last.RAM, m.maxRAMSeen,
			m.getHistory(func(dp DataPoint) float64 { return dp.RAM }), ramColor, unitGB, niceCeiling(m.maxRAMSeen)),
		m.renderMetricContent("GPU", boxHeight, width, last.GPUUsage, m.maxGPUSeen,
			m.getHistory(func(dp DataPoint) float64 { return dp.GPUUsage }), gpuColor, unitPercent, 100),
		m.renderMetricContent("GPU RAM", boxHeight, width, last.GPURAM, m.maxGPURAMSeen,
			m.getHistory(func(dp DataPoint) float64 { return dp.GPURAM }), gpuRAMColor, unitGB, niceCeiling(m.maxGPURAMSeen)),
	}

	emptyLine := lipgloss.NewStyle().Background(lipgloss.Color(colorBg)).Render(strings.Repeat(" ", max(0, width-2)))
	parts := make([]string, 0, 2*len(charts))
	for i, c := range charts {
		if i > 0 {
			parts = append(parts, emptyLine)
		}
		parts = append(parts, strings.TrimRight(c, "\n"))
	}
	return borderStyle(width, height, false).Render(strings.Join(parts, "\n"))
}

func (m *WatchModel) renderEmptyState(width, height int, message string) string {
	width, height = ensureMin(width, height, 10, 3)

	var b strings.Builder
	b.WriteString("\n")
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorDim)).
		Italic(true).
		Align(lipgloss.Center).
		Width(width - 4)
	b.WriteString(emptyStyle.Render(message))
	m.fillToHeight(&b, b.String(), width, height-2, colorBg)
	return borderStyle(width, height, false).Render(b.String())
}

func (m *WatchModel) renderMetricContent(title string, height, width int, current, peak float64, history []float64, color lipgloss.Color, unit chartUnit, ceiling float64) string {
	width, height = ensureMin(width, height, 10, 5)

	var b strings.Builder
	titleStyle := lipgloss.NewStyle().Foreground(color).Bold(true)
	b.WriteString(fmt.Sprintf("%s  %s\n", titleStyle.Render(title), formatReading(unit, current, peak)))

	if len(history) > 0 {
		b.WriteString(renderColumnChart(history, width-2, max(4, height-1), color, unit, ceiling))
	} else {
		loadingStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorDim)).Italic(true)
		b.WriteString(loadingStyle.Render("Collecting data...") + "\n")
	}

	content := b.String()
	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	bgFill := lipgloss.NewStyle().Background(lipgloss.Color(colorBg)).Render(strings.Repeat(" ", max(0, width-2)))
	for i := len(lines); i < height; i++ {
		b.WriteString(bgFill)
		if i < height-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m *WatchModel) renderStatusBar(width, height int) string {
	width, height = ensureMin(width, height, 10, 1)

	leftContent := styleColor(colorItalic).Render("?: help  r: reload  q: quit")
	versionV := styleColor(colorGreen).Bold(true).Render("v")
	versionNum := styleColor(colorGreen).Render(version)
	rightContent := styleColor(colorYellow).Render("rsgbench") + "  " + versionV + versionNum

	availableWidth := width - 2
	spacerLen := max(1, availableWidth-lipgloss.Width(leftContent)-lipgloss.Width(rightContent))

	content := leftContent + strings.Repeat(" ", spacerLen) + rightContent
	return statusBarStyle.Width(width).Height(height).Render(content)
}

func (m *WatchModel) fillToHeight(b *strings.Builder, content string, width, targetHeight int, bgColor string) {
	lines := strings.Split(content, "\n")
	bgFill := lipgloss.NewStyle().Background(lipgloss.Color(bgColor)).Render(strings.Repeat(" ", max(0, width-4)))
	for i := len(lines); i < targetHeight; i++ {
		b.WriteString(bgFill + "\n")
	}
}
