package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const maxHistory = 8

// Sample is one polled frame of input as seen by the watch view
type Sample struct {
	Command  string
	X, Y     float32
	CursorX  int
	CursorY  int
	Mouse    string
	Keyboard string
	Closed   bool
}

// Sampler polls the input layer once and reports what it saw
type Sampler func() Sample

type pollMsg time.Time

// WatchModel shows live decoded pointer and key commands without a display
type WatchModel struct {
	sample   Sampler
	interval time.Duration
	spinner  spinner.Model

	last     Sample
	history  []string
	frames   int
	commands int
	width    int
	quitting bool
}

// NewWatchModel creates a watch view polling sample every interval
func NewWatchModel(sample Sampler, interval time.Duration) *WatchModel {
	if interval <= 0 {
		interval = time.Second / 60
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	return &WatchModel{
		sample:   sample,
		interval: interval,
		spinner:  s,
	}
}

func (m *WatchModel) poll() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return pollMsg(t)
	})
}

func (m *WatchModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.poll())
}

func (m *WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case pollMsg:
		m.record(m.sample())
		if m.last.Closed {
			m.quitting = true
			return m, tea.Quit
		}
		return m, m.poll()
	}

	return m, nil
}

func (m *WatchModel) record(s Sample) {
	m.last = s
	m.frames++
	if s.Command == "" || s.Command == "none" {
		return
	}
	m.commands++
	m.history = append(m.history, s.Command)
	if len(m.history) > maxHistory {
		m.history = m.history[len(m.history)-maxHistory:]
	}
}

// Frames returns how many samples were taken
func (m *WatchModel) Frames() int {
	return m.frames
}

// History returns the most recent non-empty commands, oldest first
func (m *WatchModel) History() []string {
	return append([]string(nil), m.history...)
}

// Quitting reports whether the view has asked the program to exit
func (m *WatchModel) Quitting() bool {
	return m.quitting
}

func (m *WatchModel) View() string {
	status := m.spinner.View() + " watching"
	if m.quitting {
		status = SuccessStyle.Render(IconSuccess) + " stopped"
	}

	fields := []string{
		FormatField("mouse", FormatDeviceStatus(m.last.Mouse)),
		FormatField("keyboard", FormatDeviceStatus(m.last.Keyboard)),
		FormatField("cursor", fmt.Sprintf("%d, %d", m.last.CursorX, m.last.CursorY)),
		FormatField("normalized", fmt.Sprintf("%+.4f, %+.4f", m.last.X, m.last.Y)),
		FormatField("frames", fmt.Sprintf("%d", m.frames)),
		FormatField("commands", fmt.Sprintf("%d", m.commands)),
	}

	recent := MutedStyle.Render("no commands yet")
	if len(m.history) > 0 {
		recent = InfoStyle.Render(strings.Join(m.history, " → "))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		FormatAppHeader("WATCH", status),
		"",
		BoxStyle.Render(strings.Join(fields, "\n")),
		"",
		FormatField("recent", recent),
		"",
		MutedStyle.Render(FormatControl("Esc", "close (device keyboard)")+"  •  "+FormatControl("q", "quit")),
	)
	return content + "\n"
}
