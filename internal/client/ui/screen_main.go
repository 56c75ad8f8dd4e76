package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/yourusername/xchat/internal/client/chat"
)

const (
	durationStep = 1000 // ms per settings keypress
	minDuration  = 1000
)

// movement keys: x/z on the ground plane, r/f up and down
var moveKeys = map[string][3]float64{
	"w": {0, 0, -1},
	"s": {0, 0, 1},
	"a": {-1, 0, 0},
	"d": {1, 0, 0},
	"r": {0, 1, 0},
	"f": {0, -1, 0},
}

// updateMain handles keys on the chat screen
func (m Model) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.Disconnect()
		return m, tea.Quit
	}

	if !m.panel.Visible() {
		return m.updateClosed(msg)
	}

	switch msg.String() {
	case "esc":
		return m.dispatch(chat.CloseRequest{})
	case "enter":
		return m.dispatch(chat.SendRequest{})
	case "up":
		return m.dispatch(chat.HistoryNavigate{Direction: -1})
	case "down":
		return m.dispatch(chat.HistoryNavigate{Direction: 1})
	case "end":
		return m.dispatch(chat.JumpToBottom{})
	case "pgup":
		m.log.HalfViewUp()
		return m.dispatch(m.scrollEvent())
	case "pgdown":
		m.log.HalfViewDown()
		return m.dispatch(m.scrollEvent())
	case "ctrl+s":
		return m.dispatch(chat.ToggleSettings{})
	}

	if m.panel.SettingsOpen() {
		settings := m.panel.Settings()
		switch msg.String() {
		case "ctrl+a":
			autoHide := !settings.AutoHide
			return m.dispatch(chat.SettingsChange{Patch: chat.SettingsPatch{AutoHide: &autoHide}})
		case "ctrl+left":
			d := settings.HideDuration - durationStep
			if d < minDuration {
				d = minDuration
			}
			return m.dispatch(chat.SettingsChange{Patch: chat.SettingsPatch{HideDuration: &d}})
		case "ctrl+right":
			d := settings.HideDuration + durationStep
			return m.dispatch(chat.SettingsChange{Patch: chat.SettingsPatch{HideDuration: &d}})
		}
	}

	// Everything else edits the input line
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == m.panel.Input() {
		return m, cmd
	}
	next, opCmd := m.dispatch(chat.InputChanged{Value: m.input.Value()})
	return next, tea.Batch(cmd, opCmd)
}

// updateClosed handles keys while the panel is closed
func (m Model) updateClosed(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "t", "T", "enter":
		return m.dispatch(chat.OpenRequest{})

	case "/":
		next, cmd := m.dispatch(chat.OpenRequest{})
		next, inputCmd := next.dispatch(chat.InputChanged{Value: "/"})
		return next, tea.Batch(cmd, inputCmd)

	case "q":
		m.Disconnect()
		return m, tea.Quit

	default:
		if delta, ok := moveKeys[strings.ToLower(key)]; ok {
			m.move(delta)
		}
	}
	return m, nil
}

// move reports a position change to the server
func (m *Model) move(delta [3]float64) {
	if m.offline || !m.connMgr.IsConnected() {
		return
	}
	if err := m.connMgr.Move(delta[0], delta[1], delta[2]); err != nil {
		m.logger.Warn().Err(err).Msg("failed to send move")
	}
}

// viewMain renders the chat screen
func (m Model) viewMain() string {
	sections := []string{m.renderStatusBar()}

	faded := !m.panel.Visible() && m.panel.FadedOut()
	if !faded {
		sections = append(sections, chatBoxStyle.Width(m.log.Width).Render(m.log.View()))
	} else {
		sections = append(sections, lipgloss.NewStyle().
			Width(m.log.Width+4).
			Height(m.log.Height+2).
			Render(""))
	}

	if indicator := m.panel.Indicator(); indicator != "" && !faded {
		sections = append(sections, indicatorStyle.Render(indicator))
	}

	if m.panel.Visible() {
		if m.panel.SettingsOpen() {
			sections = append(sections, m.renderSettings())
		}
		sections = append(sections, m.renderInputBox())
	}

	sections = append(sections, m.renderControls())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderInputBox renders the input line with its character counter
func (m Model) renderInputBox() string {
	counter := charCountStyle
	switch m.panel.CharCountLevel() {
	case chat.CharCountWarn:
		counter = counter.Foreground(warnColor)
	case chat.CharCountFull:
		counter = counter.Foreground(fullColor).Bold(true)
	}

	sending := ""
	if m.panel.Sending() {
		sending = mutedStyle.Render(" sending…")
	}

	line := lipgloss.JoinHorizontal(lipgloss.Top,
		m.input.View(),
		sending,
		"  ",
		counter.Render(m.panel.CharCountText()),
	)
	return inputBoxStyle.Width(m.log.Width).Render(line)
}

// renderSettings renders the settings dropdown
func (m Model) renderSettings() string {
	s := m.panel.Settings()
	check := "[ ]"
	if s.AutoHide {
		check = "[x]"
	}
	lines := []string{
		highlightStyle.Render("Chat settings"),
		fmt.Sprintf("%s Auto-hide  %s", check, mutedStyle.Render("ctrl+a")),
		fmt.Sprintf("Hide after %dms  %s", s.HideDuration, mutedStyle.Render("ctrl+←/→")),
	}
	return settingsBoxStyle.Render(strings.Join(lines, "\n"))
}

// renderStatusBar renders the top status bar
func (m Model) renderStatusBar() string {
	player := highlightStyle.Render("Player: " + m.name)

	where := mutedStyle.Render("offline")
	if !m.offline {
		pos := m.connMgr.State().Position()
		where = mutedStyle.Render(fmt.Sprintf("pos %.0f, %.0f, %.0f", pos.X, pos.Y, pos.Z))
		if s, ok := m.connMgr.State().Session(); ok && s.Rank > 0 {
			player += mutedStyle.Render(fmt.Sprintf(" (rank %d)", s.Rank))
		}
	}

	return lipgloss.NewStyle().
		Foreground(fgColor).
		Width(m.width).
		Render(player + "  •  " + where)
}

// renderControls renders the key help line
func (m Model) renderControls() string {
	var controls string
	if m.panel.Visible() {
		controls = "ENTER: Send  •  ESC: Close  •  ↑/↓: History  •  PGUP/PGDN: Scroll  •  END: Latest  •  CTRL+S: Settings"
	} else {
		controls = "T or /: Chat  •  WASD/R/F: Move  •  Q: Quit"
	}
	return instructionStyle.Render(controls)
}

// renderLog draws every log line
func renderLog(lines []chat.Line, width int) string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = renderLine(l, width)
	}
	return strings.Join(out, "\n")
}

// renderLine draws one message: time, author, then the coloured body segments
func renderLine(l chat.Line, width int) string {
	var b strings.Builder
	b.WriteString(timestampStyle.Render(l.Time))
	b.WriteString(" ")

	if l.Author != "" {
		style := authorStyle
		if l.AuthorColor != nil {
			style = style.Foreground(lipgloss.Color(l.AuthorColor.Hex()))
		}
		b.WriteString(style.Render(l.Author))
		b.WriteString(textStyle.Render(": "))
	}

	for _, seg := range l.Segments {
		style := textStyle
		if seg.Color != nil {
			style = style.Foreground(lipgloss.Color(seg.Color.Hex()))
		}
		if l.System {
			style = style.Italic(true)
		}
		b.WriteString(style.Render(seg.Text))
	}

	if width <= 0 {
		return b.String()
	}
	return lipgloss.NewStyle().Width(width).Render(b.String())
}
