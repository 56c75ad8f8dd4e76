package chat

import "context"

// Event is an input to the Controller
type Event interface {
	isEvent()
}

// Op is a boundary call started by the Controller. The host runs it off the
// event loop and feeds the returned event back into Handle.
type Op func(ctx context.Context) Event

// OpenRequest is the player asking to open the panel
type OpenRequest struct{}

func (OpenRequest) isEvent() {}

// CloseRequest is the player asking to close the panel (Esc)
type CloseRequest struct{}

func (CloseRequest) isEvent() {}

// CloseResult is the outcome of the closeChat boundary call
type CloseResult struct {
	Err error
}

func (CloseResult) isEvent() {}

// SendRequest is the player submitting the input line (Enter)
type SendRequest struct{}

func (SendRequest) isEvent() {}

// SendResult is the outcome of the sendMessage boundary call
type SendResult struct {
	Command bool // the sent line started with "/"
	Err     error
}

func (SendResult) isEvent() {}

// InboundMessage appends a message to the log (addMessage)
type InboundMessage struct {
	Message Message
}

func (InboundMessage) isEvent() {}

// InboundClear empties the log (clearChat)
type InboundClear struct{}

func (InboundClear) isEvent() {}

// InboundToggle opens or closes the panel at the game client's request (toggleChat)
type InboundToggle struct {
	Visible bool
}

func (InboundToggle) isEvent() {}

// InboundSettings applies settings pushed by the game client (updateSettings)
type InboundSettings struct {
	Patch SettingsPatch
}

func (InboundSettings) isEvent() {}

// UserScroll reports the log's scroll geometry after the player scrolled
type UserScroll struct {
	ScrollHeight   int
	ScrollTop      int
	ViewportHeight int
}

func (UserScroll) isEvent() {}

// SettingsChange applies settings edited by the player
type SettingsChange struct {
	Patch SettingsPatch
}

func (SettingsChange) isEvent() {}

// ToggleSettings opens or closes the settings dropdown
type ToggleSettings struct{}

func (ToggleSettings) isEvent() {}

// HistoryNavigate recalls an older (-1) or newer (+1) sent line
type HistoryNavigate struct {
	Direction int
}

func (HistoryNavigate) isEvent() {}

// InputChanged replaces the input line
type InputChanged struct {
	Value string
}

func (InputChanged) isEvent() {}

// JumpToBottom scrolls to the newest message (End key or the unread indicator)
type JumpToBottom struct{}

func (JumpToBottom) isEvent() {}

// HideTimerFired is posted by the auto-hide timer
type HideTimerFired struct {
	Gen uint64
}

func (HideTimerFired) isEvent() {}
