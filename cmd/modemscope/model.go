package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeongseonghan/acoustic-modem/internal/modem"
	"github.com/jeongseonghan/acoustic-modem/internal/session"
)

const windowSize = session.WindowSize

var (
	barStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	carrierStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	headerStyle  = lipgloss.NewStyle().Bold(true)
)

type sampleSource interface {
	Read([]float32) (int, error)
}

type model struct {
	plan     modem.ChannelPlan
	analyzer *modem.FftAnalyzer
	source   sampleSource

	lo, hi int
	points []modem.FftPoint
	err    error
}

func newModel(plan modem.ChannelPlan, sampleRate float64, source sampleSource) model {
	lo, hi := plan.VisualizationRange(windowSize)
	return model{
		plan:     plan,
		analyzer: modem.NewFftAnalyzer(sampleRate, windowSize),
		source:   source,
		lo:       lo,
		hi:       hi,
	}
}

type windowMsg struct {
	points []modem.FftPoint
	err    error
}

func (m model) readWindow() tea.Msg {
	buf := make([]float32, windowSize)
	n, err := m.source.Read(buf)
	if err != nil {
		return windowMsg{err: err}
	}
	if n < windowSize {
		for i := n; i < windowSize; i++ {
			buf[i] = 0
		}
	}
	m.analyzer.Transform(buf)

	points := make([]modem.FftPoint, 0, m.hi-m.lo)
	for k := m.lo; k < m.hi; k++ {
		points = append(points, m.analyzer.Point(k))
	}
	return windowMsg{points: points}
}

func (m model) Init() tea.Cmd {
	return m.readWindow
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case windowMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.points = msg.points
		return m, m.readWindow
	}
	return m, nil
}

func (m model) View() string {
	if m.err != nil {
		return fmt.Sprintf("modemscope: %v\n", m.err)
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("bins %d-%d  (carriers at %d..%d step %d)", m.lo, m.hi-1, m.plan.Base, m.plan.CarrierBin(m.plan.Count-1), m.plan.Step)))
	b.WriteString("\n\n")

	for _, p := range m.points {
		isCarrier := false
		for i := 0; i < m.plan.Count; i++ {
			if m.plan.CarrierBin(i) == p.Bin() {
				isCarrier = true
				break
			}
		}

		bar := strings.Repeat("█", barLength(p.Amplitude()))
		style := barStyle
		if isCarrier {
			style = carrierStyle
		}
		b.WriteString(fmt.Sprintf("bin %4d  %6.1fHz  %s\n", p.Bin(), p.Frequency(), style.Render(bar)))
	}

	b.WriteString("\nq to quit\n")
	return b.String()
}

func barLength(amplitude float32) int {
	n := int(amplitude / 2)
	if n > 60 {
		n = 60
	}
	if n < 0 {
		n = 0
	}
	return n
}
