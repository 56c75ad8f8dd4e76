// Package bridge is the game client side of the chat panel boundary. It turns
// sendMessage and closeChat calls into server commands and panel events.
package bridge

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yourusername/xchat/internal/client/chat"
	"github.com/yourusername/xchat/internal/client/connection"
	"github.com/yourusername/xchat/internal/color"
	"github.com/yourusername/xchat/internal/protocol"
)

// Sender delivers chat commands to the server
type Sender interface {
	SendCommand(command string, args []string) error
}

const configCommand = "chatconfig"

var noticeColor = color.RGB{R: 255, G: 200, B: 100}

// Bridge executes panel requests on behalf of the player
type Bridge struct {
	sender Sender
	emit   func(connection.Event)
	now    func() time.Time
	log    zerolog.Logger
}

// New creates a bridge sending through sender and raising panel events through emit
func New(sender Sender, emit func(connection.Event), logger zerolog.Logger) *Bridge {
	return &Bridge{
		sender: sender,
		emit:   emit,
		now:    time.Now,
		log:    logger.With().Str("component", "bridge").Logger(),
	}
}

// SendMessage handles a line submitted from the panel. "/cmd a b" runs cmd with
// args, anything else is said aloud. It reports whether the line was accepted.
func (b *Bridge) SendMessage(message string) bool {
	message = strings.TrimSpace(message)
	if message == "" {
		return false
	}

	command, args := "say", []string{message}
	if strings.HasPrefix(message, "/") {
		parts := strings.Fields(message[1:])
		if len(parts) == 0 {
			return false
		}
		command, args = parts[0], parts[1:]
	}

	if command == configCommand {
		b.chatConfig(args)
		return true
	}

	if err := b.sender.SendCommand(command, args); err != nil {
		b.log.Error().Err(err).Str("command", command).Msg("failed to send command")
		return false
	}
	return true
}

// CloseChat hides the panel
func (b *Bridge) CloseChat() bool {
	b.emit(connection.ToggleChatEvent{Visible: false})
	return true
}

// chatConfig handles "/chatconfig autohide <bool>" and "/chatconfig duration <ms>" locally
func (b *Bridge) chatConfig(args []string) {
	option, value := "", ""
	if len(args) > 0 {
		option = strings.ToLower(args[0])
	}
	if len(args) > 1 {
		value = args[1]
	}

	switch option {
	case "autohide":
		enabled := value == "true" || value == "1"
		b.emit(connection.UpdateSettingsEvent{Settings: protocol.ChatSettingsPayload{AutoHide: &enabled}})
		state := "disabled"
		if enabled {
			state = "enabled"
		}
		b.notice(fmt.Sprintf("Auto-hide %s", state))

	case "duration":
		ms, err := strconv.Atoi(value)
		if err != nil || ms < 0 {
			b.notice("Usage: /chatconfig duration [milliseconds]")
			return
		}
		b.emit(connection.UpdateSettingsEvent{Settings: protocol.ChatSettingsPayload{HideDuration: &ms}})
		b.notice(fmt.Sprintf("Auto-hide duration set to %dms", ms))

	default:
		b.notice("Usage: /chatconfig [autohide|duration] [value]")
	}
}

func (b *Bridge) notice(text string) {
	b.emit(connection.ChatMessageEvent{Message: protocol.ChatMessagePayload{
		Author:    protocol.SystemAuthor,
		Message:   text,
		Color:     noticeColor.Ptr(),
		Timestamp: b.now().UnixMilli(),
		Type:      protocol.ChatTypeWarning,
	}})
}

// Local is a chat.Transport calling the bridge in-process
type Local struct {
	bridge *Bridge
}

// NewLocal wraps b as a transport
func NewLocal(b *Bridge) *Local {
	return &Local{bridge: b}
}

// SendMessage implements chat.Transport
func (l *Local) SendMessage(_ context.Context, message string) error {
	if !l.bridge.SendMessage(message) {
		return fmt.Errorf("sendMessage: %w", chat.ErrRejected)
	}
	return nil
}

// CloseChat implements chat.Transport
func (l *Local) CloseChat(context.Context) error {
	if !l.bridge.CloseChat() {
		return fmt.Errorf("closeChat: %w", chat.ErrRejected)
	}
	return nil
}
