package connection

import "github.com/yourusername/xchat/internal/protocol"

// Event represents events from the connection manager
type Event interface {
	isEvent()
}

// ConnectedEvent is sent when connection is established
type ConnectedEvent struct{}

func (ConnectedEvent) isEvent() {}

// DisconnectedEvent is sent when connection is lost
type DisconnectedEvent struct {
	Error error
}

func (DisconnectedEvent) isEvent() {}

// ErrorEvent is sent when the server reports an error
type ErrorEvent struct {
	Message string
}

func (ErrorEvent) isEvent() {}

// JoinedEvent is sent once the server accepted our join
type JoinedEvent struct {
	Session protocol.JoinedPayload
}

func (JoinedEvent) isEvent() {}

// ChatMessageEvent carries one chat line for the panel (addMessage)
type ChatMessageEvent struct {
	Message protocol.ChatMessagePayload
}

func (ChatMessageEvent) isEvent() {}

// ClearChatEvent empties the panel (clearChat)
type ClearChatEvent struct{}

func (ClearChatEvent) isEvent() {}

// ToggleChatEvent opens or closes the panel (toggleChat)
type ToggleChatEvent struct {
	Visible bool
}

func (ToggleChatEvent) isEvent() {}

// UpdateSettingsEvent changes panel settings (updateSettings)
type UpdateSettingsEvent struct {
	Settings protocol.ChatSettingsPayload
}

func (UpdateSettingsEvent) isEvent() {}
