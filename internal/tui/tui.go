// Package tui is a terminal transport for a running animation: a progress
// bar, the currently visible node set and key-driven playback control.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	sonigraph "github.com/sonigraph/sonigraph-go"
)

const (
	barWidth    = 50
	seekStep    = 5 // seconds per arrow press
	recentLimit = 8
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	barStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700"))
	noteStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00D7AF"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
)

type playbackMsg sonigraph.PlaybackEvent
type watchClosedMsg struct{}

type recentNote struct {
	title      string
	instrument string
	pitch      float64
}

// Model drives one animator from the terminal. The animator's Watch
// channel is bridged into bubbletea messages; transport keys call the
// animator directly.
type Model struct {
	anim    *sonigraph.Animator
	events  <-chan sonigraph.PlaybackEvent
	loop    bool
	time    float64
	prog    float64
	visible int
	recent  []recentNote
	done    bool
	status  string
}

func New(anim *sonigraph.Animator) Model {
	return Model{anim: anim, events: anim.Watch(), status: "stopped"}
}

func (m Model) Init() tea.Cmd {
	return m.next()
}

// next waits for one playback event. Re-armed after every message so the
// channel drains as fast as the program loop runs.
func (m Model) next() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return watchClosedMsg{}
		}
		return playbackMsg(ev)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case watchClosedMsg:
		m.done = true
		return m, tea.Quit

	case playbackMsg:
		switch msg.Kind {
		case sonigraph.EventTimeChanged:
			m.time = msg.Time
			m.prog = msg.Progress
		case sonigraph.EventVisibilityChanged:
			m.visible = len(msg.Visible)
		case sonigraph.EventNodeAppeared:
			if msg.Note != nil {
				m.recent = append(m.recent, recentNote{
					title:      msg.Node.Title,
					instrument: msg.Note.Instrument,
					pitch:      msg.Note.Pitch,
				})
				if len(m.recent) > recentLimit {
					m.recent = m.recent[len(m.recent)-recentLimit:]
				}
			}
		case sonigraph.EventAnimationEnded:
			if msg.Looped {
				m.status = "looping"
			} else {
				m.status = "ended"
			}
		}
		return m, m.next()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.anim.Destroy()
			m.done = true
			return m, tea.Quit
		case " ":
			if m.anim.IsPlaying() {
				m.anim.Pause()
				m.status = "paused"
			} else {
				if err := m.anim.Play(); err != nil {
					m.status = err.Error()
				} else {
					m.status = "playing"
				}
			}
		case "s":
			m.anim.Stop()
			m.time = 0
			m.prog = 0
			m.visible = 0
			m.recent = nil
			m.status = "stopped"
		case "left":
			m.anim.Seek(m.time - seekStep)
		case "right":
			m.anim.Seek(m.time + seekStep)
		case "l":
			m.loop = !m.loop
			m.anim.SetLoop(m.loop)
		}
	}
	return m, nil
}

func (m Model) View() string {
	if m.done {
		return ""
	}
	info := m.anim.TimelineInfo()

	var b strings.Builder
	b.WriteString(titleStyle.Render("sonigraph") + "\n\n")
	b.WriteString(fmt.Sprintf("%d nodes  %s .. %s\n\n",
		info.EventCount,
		info.StartDate.Format("2006-01-02"),
		info.EndDate.Format("2006-01-02")))

	filled := int(m.prog * barWidth)
	if filled > barWidth {
		filled = barWidth
	}
	bar := barStyle.Render(strings.Repeat("█", filled)) + strings.Repeat("─", barWidth-filled)
	b.WriteString(fmt.Sprintf("[%s] %5.1fs / %.0fs\n", bar, m.time, info.Duration))

	loopLabel := "off"
	if m.loop {
		loopLabel = "on"
	}
	b.WriteString(statusStyle.Render(fmt.Sprintf("%s  visible: %d  loop: %s", m.status, m.visible, loopLabel)) + "\n\n")

	for _, n := range m.recent {
		b.WriteString(noteStyle.Render(fmt.Sprintf("♪ %-30.30s %-12s %7.1f Hz", n.title, n.instrument, n.pitch)) + "\n")
	}
	b.WriteString("\n" + helpStyle.Render("space: play/pause  s: stop  ←/→: seek  l: loop  q: quit"))
	return b.String()
}
