package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/yourusername/xchat/internal/client/chat"
	"github.com/yourusername/xchat/internal/client/connection"
)

// opTimeout bounds a single sendMessage or closeChat call
const opTimeout = 5 * time.Second

// connectionSuccessMsg is sent when connection is established
type connectionSuccessMsg struct{}

// connectionErrorMsg is sent when connection fails
type connectionErrorMsg struct {
	err error
}

// retryMsg is sent when it is time to try connecting again
type retryMsg struct{}

// connectionEventMsg wraps events from the connection manager
type connectionEventMsg struct {
	event connection.Event
}

// chatEventMsg wraps events posted to the panel from outside the tea loop
// (timers, dev transport echoes)
type chatEventMsg struct {
	event chat.Event
}

// chatResultMsg carries the outcome of a boundary call back to the panel
type chatResultMsg struct {
	event chat.Event
}

// tickMsg is sent periodically for animations
type tickMsg time.Time

// connectCmd attempts to connect to the server using the shared manager
func connectCmd(mgr *connection.Manager) tea.Cmd {
	return func() tea.Msg {
		if err := mgr.Connect(); err != nil {
			return connectionErrorMsg{err: err}
		}
		return connectionSuccessMsg{}
	}
}

// retryConnectCmd waits attempt seconds before signalling a retry
func retryConnectCmd(attempt int) tea.Cmd {
	return tea.Tick(time.Duration(attempt)*time.Second, func(time.Time) tea.Msg {
		return retryMsg{}
	})
}

// listenForEventsCmd waits for the next connection event
func listenForEventsCmd(events <-chan connection.Event) tea.Cmd {
	return func() tea.Msg {
		return connectionEventMsg{event: <-events}
	}
}

// listenForChatCmd waits for the next event posted to the panel
func listenForChatCmd(events <-chan chat.Event) tea.Cmd {
	return func() tea.Msg {
		return chatEventMsg{event: <-events}
	}
}

// runOpCmd runs a boundary call off the tea loop
func runOpCmd(op chat.Op) tea.Cmd {
	if op == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		return chatResultMsg{event: op(ctx)}
	}
}

// tickCmd returns a command that sends tick messages for animations
func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
