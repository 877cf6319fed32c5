// Command lollipop-monitor is a terminal dashboard that dials a running
// lollipopd's debug socket and renders its modifier/touchpad state live. It
// is purely observational: nothing it does feeds back into the daemon.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/kbdlatch/lollipop"
)

var (
	latchedStyle = lipgloss.NewStyle().Bold(true)
	headerStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
)

type snapshotMsg lollipop.Snapshot

type connErrMsg struct{ err error }

type model struct {
	socket   string
	snap     lollipop.Snapshot
	haveSnap bool
	events   chan tea.Msg
	log      viewport.Model
	lines    []string
	err      error
}

func newModel(socket string) *model {
	vp := viewport.New(60, 10)
	return &model{
		socket: socket,
		events: make(chan tea.Msg, 16),
		log:    vp,
	}
}

func (m *model) Init() tea.Cmd {
	go m.dial()
	return m.waitForEvent
}

func (m *model) waitForEvent() tea.Msg {
	return <-m.events
}

func (m *model) dial() {
	conn, err := net.Dial("unix", m.socket)
	if err != nil {
		m.events <- connErrMsg{err}
		return
	}
	defer conn.Close()

	dec := yaml.NewDecoder(bufio.NewReader(conn))
	for {
		var snap lollipop.Snapshot
		if err := dec.Decode(&snap); err != nil {
			m.events <- connErrMsg{err}
			return
		}
		m.events <- snapshotMsg(snap)
	}
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.log.Width = msg.Width
		m.log.Height = msg.Height - 8
	case snapshotMsg:
		m.snap = lollipop.Snapshot(msg)
		m.haveSnap = true
		m.lines = append(m.lines, formatSnapshot(m.snap))
		m.log.SetContent(strings.Join(m.lines, "\n"))
		m.log.GotoBottom()
		return m, m.waitForEvent
	case connErrMsg:
		m.err = msg.err
		return m, m.waitForEvent
	}
	var cmd tea.Cmd
	m.log, cmd = m.log.Update(msg)
	return m, cmd
}

func (m *model) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("lollipop monitor") + "\n\n")

	if m.err != nil {
		b.WriteString(fmt.Sprintf("connection error: %v\n\n", m.err))
	}
	if !m.haveSnap {
		b.WriteString("waiting for snapshot...\n")
	} else {
		b.WriteString(renderModifiers(m.snap))
		b.WriteString(fmt.Sprintf("\nled: %d  dragging: %v  pending release: %v\n\n", m.snap.LedState, m.snap.Dragging, m.snap.Pending))
	}
	b.WriteString(m.log.View())
	b.WriteString("\nq to quit\n")
	return b.String()
}

// renderModifiers draws one line per modifier, all in one color taken from a
// green-to-red gradient by the fraction of configured modifiers currently
// held, as a quick visual read of how "armed" the keyboard currently is.
func renderModifiers(snap lollipop.Snapshot) string {
	held := 0
	for _, ms := range snap.Modifiers {
		if ms.State != "None" {
			held++
		}
	}
	total := len(snap.Modifiers)

	var b strings.Builder
	for _, ms := range snap.Modifiers {
		c := gradientColor(held, total)
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex()))
		line := fmt.Sprintf("%-14v %s", ms.Code, ms.State)
		if ms.State != "None" {
			b.WriteString(latchedStyle.Render(style.Render(line)) + "\n")
		} else {
			b.WriteString(style.Render(line) + "\n")
		}
	}
	return b.String()
}

func gradientColor(held, total int) colorful.Color {
	green := colorful.Color{R: 0.2, G: 0.8, B: 0.2}
	red := colorful.Color{R: 0.9, G: 0.2, B: 0.2}
	if total == 0 {
		return green
	}
	t := float64(held) / float64(total)
	return green.BlendLuv(red, t)
}

func formatSnapshot(snap lollipop.Snapshot) string {
	var parts []string
	for _, ms := range snap.Modifiers {
		if ms.State != "None" {
			parts = append(parts, fmt.Sprintf("%v=%s", ms.Code, ms.State))
		}
	}
	if len(parts) == 0 {
		return "(all clear)"
	}
	return strings.Join(parts, " ")
}

func main() {
	socket := flag.String("socket", "", "path to the daemon's debug socket (required)")
	flag.Parse()
	if *socket == "" {
		fmt.Fprintln(os.Stderr, "lollipop-monitor: -socket is required")
		os.Exit(1)
	}

	p := tea.NewProgram(newModel(*socket))
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "lollipop-monitor: %v\n", err)
		os.Exit(1)
	}
}
