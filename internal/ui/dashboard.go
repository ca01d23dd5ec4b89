// Package ui renders a live terminal view of a benchmark run file.
package ui

import (
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/maxdcmn/rsgbench/internal/model"
	"github.com/maxdcmn/rsgbench/internal/stats"
	"github.com/maxdcmn/rsgbench/internal/utils"
)

// DataPoint holds one sample in display units: usage in percent, memory in GB.
// Fields the sample did not measure are NaN.
type DataPoint struct {
	Time     time.Time
	CPUUsage float64
	RAM      float64
	GPUUsage float64
	GPURAM   float64
}

type WatchModel struct {
	path      string
	interval  time.Duration
	threshold float64
	tail      *tailer

	width      int
	height     int
	run        model.Run
	last       *model.Sample
	stats      *stats.RunStats
	lastErr    error
	loaded     bool
	history    []DataPoint
	quitting   bool
	helpActive bool

	maxCPUSeen    float64
	maxRAMSeen    float64
	maxGPUSeen    float64
	maxGPURAMSeen float64
}

// NewWatch follows the run file at path, polling every interval.
func NewWatch(path string, interval time.Duration, threshold float64) *WatchModel {
	return &WatchModel{
		path:      path,
		interval:  interval,
		threshold: threshold,
		tail:      &tailer{path: path},
		history:   make([]DataPoint, 0, maxHistorySize),
	}
}

type tickMsg time.Time

type samplesMsg struct {
	samples []model.Sample
	err     error
}

func (m *WatchModel) Init() tea.Cmd {
	return m.poll()
}

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *WatchModel) poll() tea.Cmd {
	t := m.tail
	return func() tea.Msg {
		samples, err := t.next()
		return samplesMsg{samples: samples, err: err}
	}
}

func (m *WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.helpActive {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.helpActive = false
			return m, nil
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tickMsg:
		return m, m.poll()

	case samplesMsg:
		m.loaded = true
		m.lastErr = msg.err
		if msg.err != nil {
			utils.Debug("watch %s: %v", m.path, msg.err)
		}
		m.append(msg.samples)
		return m, tick(m.interval)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *WatchModel) append(samples []model.Sample) {
	if len(samples) == 0 {
		return
	}
	m.run = append(m.run, samples...)
	for _, s := range samples {
		m.updateHistory(s)
	}
	if rs, err := stats.Compute(m.run, m.threshold); err == nil {
		m.stats = &rs
	}
}

func (m *WatchModel) updateHistory(s model.Sample) {
	m.last = &s
	nan := math.NaN()
	dp := DataPoint{Time: time.Unix(0, int64(s.Timestamp*1e9)), CPUUsage: nan, RAM: nan, GPUUsage: nan, GPURAM: nan}
	if s.CPUUsage != nil {
		dp.CPUUsage = *s.CPUUsage * 100
	}
	if s.RAM != nil {
		dp.RAM = float64(*s.RAM) / gbDivisor
	}
	if s.GPUUsage != nil {
		dp.GPUUsage = *s.GPUUsage * 100
	}
	if s.GPURAM != nil {
		dp.GPURAM = float64(*s.GPURAM) / gbDivisor
	}
	m.history = append(m.history, dp)
	if len(m.history) > maxHistorySize {
		m.history = m.history[1:]
	}

	m.maxCPUSeen = peak(m.maxCPUSeen, dp.CPUUsage)
	m.maxRAMSeen = peak(m.maxRAMSeen, dp.RAM)
	m.maxGPUSeen = peak(m.maxGPUSeen, dp.GPUUsage)
	m.maxGPURAMSeen = peak(m.maxGPURAMSeen, dp.GPURAM)
}

func peak(seen, v float64) float64 {
	if math.IsNaN(v) {
		return seen
	}
	return max(seen, v)
}

func (m *WatchModel) reload() {
	m.tail.reset()
	m.run = nil
	m.last = nil
	m.stats = nil
	m.lastErr = nil
	m.loaded = false
	m.history = make([]DataPoint, 0, maxHistorySize)
	m.maxCPUSeen, m.maxRAMSeen, m.maxGPUSeen, m.maxGPURAMSeen = 0, 0, 0, 0
}

func (m *WatchModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "?":
		m.helpActive = !m.helpActive
	case "r":
		m.reload()
		return m, m.poll()
	}
	return m, nil
}

func (m *WatchModel) View() string {
	if m.quitting {
		return ""
	}

	sizes := calculateContainerSizes(m.width, m.height)
	propertiesPanel := m.renderPropertiesPanel(sizes.Properties.Width, sizes.Properties.Height)
	dataPanel := m.renderDataPanel(sizes.Data.Width, sizes.Data.Height)
	statusBar := m.renderStatusBar(sizes.StatusBar.Width, sizes.StatusBar.Height)

	separator := lipgloss.NewStyle().Foreground(lipgloss.Color(colorDim)).Render("│")
	main := lipgloss.JoinHorizontal(lipgloss.Left, propertiesPanel, separator, dataPanel)
	content := lipgloss.JoinVertical(lipgloss.Left, main, statusBar)

	if m.helpActive {
		helpText := `Keyboard Shortcuts
?         - Show this help
q, ctrl+c - Quit
r         - Reload the run file
Press any key to close`
		popup := popupStyle.Width(50).Render(helpText)
		popup = lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, popup)
		return lipgloss.JoinVertical(lipgloss.Left, content, popup)
	}

	return content
}

func (m *WatchModel) getHistory(extractor func(DataPoint) float64) []float64 {
	values := make([]float64, len(m.history))
	for i, dp := range m.history {
		values[i] = extractor(dp)
	}
	return values
}
