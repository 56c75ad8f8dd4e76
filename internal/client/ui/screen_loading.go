package ui

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// updateLoading handles loading screen updates
func (m Model) updateLoading(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc", "q":
		return m, tea.Quit
	}
	return m, nil
}

// viewLoading renders the loading/connection screen
func (m Model) viewLoading() string {
	title := titleStyle.Render("💬 XCHAT")
	subtitle := subtitleStyle.Render("Joining the world as " + m.name + "...")

	// Animated loading dots
	dots := strings.Repeat(".", m.loadingDots)
	spinner := spinnerStyle.Render(string([]rune("◐◓◑◒")[m.loadingDots%4]))

	state := "Establishing connection"
	if m.waitingToRetry {
		state = "Retrying"
	}
	loadingText := lipgloss.NewStyle().
		Foreground(mutedColor).
		Render(state + dots)

	// Error message if connection or join failed
	var errorMsg string
	if m.err != nil {
		errorMsg = errorStyle.Render("\n\n✗ " + m.err.Error())
		if !m.waitingToRetry && m.reconnectAttempt >= m.maxReconnects {
			errorMsg += mutedStyle.Render("\nGave up after " + strconv.Itoa(m.maxReconnects) + " attempts. Press ESC to quit")
		}
	}

	mainContent := lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		subtitle,
		"\n\n",
		spinner+" "+loadingText,
		errorMsg,
	)

	instructions := instructionStyle.Render(
		mutedStyle.Render("Connecting to ") + highlightStyle.Render(m.serverURL) + "  •  " +
			mutedStyle.Render("ESC to quit"))

	centeredMain := lipgloss.Place(m.width, m.height-5, lipgloss.Center, lipgloss.Center, mainContent)
	bottomInstructions := lipgloss.Place(m.width, 3, lipgloss.Center, lipgloss.Bottom, instructions)

	return centeredMain + "\n" + bottomInstructions
}
