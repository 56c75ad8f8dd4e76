package ui

import (
	"errors"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/yourusername/xchat/internal/client/bridge"
	"github.com/yourusername/xchat/internal/client/chat"
	"github.com/yourusername/xchat/internal/client/connection"
	"github.com/yourusername/xchat/internal/color"
	"github.com/yourusername/xchat/internal/protocol"
)

// ViewState represents the current view in the TUI
type ViewState int

const (
	ViewLoading ViewState = iota
	ViewChat
)

// rowHeight is the pixel height of one log row, used to express viewport
// scrolling in the panel's pixel geometry
const rowHeight = 16

var serverErrorColor = color.RGB{R: 255, G: 100, B: 100}

// TransportFactory builds the panel's transport once the connection manager
// and the panel's event sink exist
type TransportFactory func(mgr *connection.Manager, post func(chat.Event)) chat.Transport

// Options configures a Model
type Options struct {
	ServerURL string
	Name      string
	Token     string
	Offline   bool // no server; start straight in the chat view
	Chat      chat.Config
	Store     chat.SettingsStore
	Scheduler chat.Scheduler
	Transport TransportFactory // nil calls the bridge in-process
	Logger    zerolog.Logger
}

// Model is the main Bubble Tea model
type Model struct {
	viewState ViewState
	connMgr   *connection.Manager   // Single connection manager, reused throughout session
	eventChan chan connection.Event // Channel for connection events
	chatChan  chan chat.Event       // Channel for timer firings and transport echoes
	panel     *chat.Controller

	input textinput.Model
	log   viewport.Model

	name    string
	token   string
	offline bool
	width   int
	height  int
	err     error

	// Loading screen
	loadingDots      int
	serverURL        string
	reconnectAttempt int  // Current reconnection attempt
	maxReconnects    int  // Maximum reconnection attempts
	waitingToRetry   bool // True when waiting for retry delay

	logger zerolog.Logger
}

// NewModel creates a new Bubble Tea model with a connection manager and a chat panel
func NewModel(opts Options) Model {
	logger := opts.Logger.With().Str("component", "ui").Logger()

	// Create ONE connection manager that will be reused for the entire session
	connMgr := connection.NewManager(opts.ServerURL, opts.Logger)

	eventChan := make(chan connection.Event, 64)
	connMgr.OnEvent(func(event connection.Event) {
		eventChan <- event
	})

	chatChan := make(chan chat.Event, 64)
	post := func(ev chat.Event) {
		chatChan <- ev
	}

	var transport chat.Transport
	if opts.Transport != nil {
		transport = opts.Transport(connMgr, post)
	} else {
		transport = bridge.NewLocal(bridge.New(connMgr, connMgr.Emit, opts.Logger))
	}

	store := opts.Store
	if store == nil {
		store = chat.NewMemorySettingsStore(chat.DefaultSettings())
	}
	scheduler := opts.Scheduler
	if scheduler == nil {
		scheduler = chat.TimerScheduler{}
	}
	cfg := opts.Chat
	if cfg.MaxMessages == 0 {
		cfg = chat.DefaultConfig()
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type a message or /command"
	ti.CharLimit = cfg.MaxInputLength

	m := Model{
		viewState:     ViewLoading,
		connMgr:       connMgr,
		eventChan:     eventChan,
		chatChan:      chatChan,
		panel:         chat.NewController(cfg, transport, store, scheduler, post, opts.Logger),
		input:         ti,
		log:           viewport.New(60, 10),
		name:          opts.Name,
		token:         opts.Token,
		offline:       opts.Offline,
		width:         80,
		height:        24,
		serverURL:     opts.ServerURL,
		maxReconnects: 5,
		logger:        logger,
	}
	if m.offline {
		m.viewState = ViewChat
	}
	m.resize()
	return m
}

// Post hands an event to the chat panel from any goroutine
func (m Model) Post(ev chat.Event) {
	m.chatChan <- ev
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{listenForChatCmd(m.chatChan), textinput.Blink}
	if m.viewState == ViewLoading {
		cmds = append(cmds,
			connectCmd(m.connMgr), // Connect to server
			tickCmd(),             // Tick for animations
			listenForEventsCmd(m.eventChan),
		)
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.syncPanel()
		return m, nil

	case tea.KeyMsg:
		switch m.viewState {
		case ViewLoading:
			return m.updateLoading(msg)
		case ViewChat:
			return m.updateMain(msg)
		}

	case connectionSuccessMsg:
		m.reconnectAttempt = 0
		m.waitingToRetry = false
		m.err = nil
		// Server answers with joined, which moves us to the chat view
		if err := m.connMgr.Join(m.name, m.token); err != nil {
			m.err = err
		}
		return m, nil

	case connectionErrorMsg:
		m.err = msg.err
		m.reconnectAttempt++

		if m.reconnectAttempt < m.maxReconnects {
			m.waitingToRetry = true
			return m, tea.Batch(
				tickCmd(),
				retryConnectCmd(m.reconnectAttempt),
			)
		}

		// Max retries exceeded, stay on loading screen with error
		m.waitingToRetry = false
		return m, nil

	case retryMsg:
		if m.viewState == ViewLoading && m.reconnectAttempt < m.maxReconnects {
			m.waitingToRetry = false
			return m, connectCmd(m.connMgr)
		}
		return m, nil

	case connectionEventMsg:
		return m.handleConnectionEvent(msg.event)

	case chatEventMsg:
		next, cmd := m.dispatch(msg.event)
		return next, tea.Batch(cmd, listenForChatCmd(m.chatChan))

	case chatResultMsg:
		return m.dispatch(msg.event)

	case tickMsg:
		if m.viewState == ViewLoading {
			m.loadingDots = (m.loadingDots + 1) % 4
			return m, tickCmd()
		}
		return m, nil
	}

	// cursor blink and other component messages
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the current view
func (m Model) View() string {
	switch m.viewState {
	case ViewLoading:
		return m.viewLoading()
	case ViewChat:
		return m.viewMain()
	}
	return ""
}

// Disconnect safely leaves and disconnects the connection manager
func (m *Model) Disconnect() {
	if m.connMgr != nil && m.connMgr.IsConnected() {
		m.connMgr.Leave()
		m.connMgr.Disconnect()
	}
}

// Panel exposes the chat panel state
func (m Model) Panel() *chat.Controller {
	return m.panel
}

// Add new event handlers below when you add new event types in connection/events.go
func (m Model) handleConnectionEvent(event connection.Event) (tea.Model, tea.Cmd) {
	listen := listenForEventsCmd(m.eventChan)

	switch e := event.(type) {
	case connection.ConnectedEvent:
		return m, listen

	case connection.DisconnectedEvent:
		// Lost connection - go back to loading screen and try again
		m.viewState = ViewLoading
		m.err = e.Error
		m.reconnectAttempt = 0
		m.waitingToRetry = true
		return m, tea.Batch(listen, tickCmd(), retryConnectCmd(1))

	case connection.ErrorEvent:
		if m.viewState == ViewLoading {
			m.err = errors.New(e.Message)
			return m, listen
		}
		next, cmd := m.dispatch(chat.InboundMessage{Message: chat.Message{
			Author: protocol.SystemAuthor,
			Body:   e.Message,
			Color:  serverErrorColor.Ptr(),
			Type:   protocol.ChatTypeError,
		}})
		return next, tea.Batch(cmd, listen)

	case connection.JoinedEvent:
		m.viewState = ViewChat
		m.err = nil
		m.logger.Info().Str("username", e.Session.Username).Msg("entered chat")
		return m, listen

	// ============================================
	// CHAT EVENTS
	// ============================================
	case connection.ChatMessageEvent:
		next, cmd := m.dispatch(chat.InboundMessage{Message: chat.MessageFromPayload(e.Message)})
		return next, tea.Batch(cmd, listen)

	case connection.ClearChatEvent:
		next, cmd := m.dispatch(chat.InboundClear{})
		return next, tea.Batch(cmd, listen)

	case connection.ToggleChatEvent:
		next, cmd := m.dispatch(chat.InboundToggle{Visible: e.Visible})
		return next, tea.Batch(cmd, listen)

	case connection.UpdateSettingsEvent:
		next, cmd := m.dispatch(chat.InboundSettings{Patch: chat.SettingsPatch{
			AutoHide:     e.Settings.AutoHide,
			HideDuration: e.Settings.HideDuration,
		}})
		return next, tea.Batch(cmd, listen)

	default:
		// Unknown event type - just keep listening
		return m, listen
	}
}

// dispatch feeds one event to the panel and schedules the boundary call it asks for
func (m Model) dispatch(ev chat.Event) (Model, tea.Cmd) {
	op := m.panel.Handle(ev)
	m.syncPanel()
	return m, runOpCmd(op)
}

// syncPanel copies panel state into the bubbles components
func (m *Model) syncPanel() {
	if m.input.Value() != m.panel.Input() {
		m.input.SetValue(m.panel.Input())
		m.input.CursorEnd()
	}
	if m.panel.Visible() {
		m.input.Focus()
	} else {
		m.input.Blur()
	}

	m.log.SetContent(renderLog(m.panel.Lines(), m.log.Width))
	if m.panel.ConsumeScroll() {
		m.log.GotoBottom()
	}
}

// scrollEvent reports the log's geometry after the player scrolled it
func (m Model) scrollEvent() chat.UserScroll {
	return chat.UserScroll{
		ScrollHeight:   m.log.TotalLineCount() * rowHeight,
		ScrollTop:      m.log.YOffset * rowHeight,
		ViewportHeight: m.log.Height * rowHeight,
	}
}

// resize fits the log and input to the terminal
func (m *Model) resize() {
	w := m.width - 4
	if w < 20 {
		w = 20
	}
	h := m.height - 9
	if h < 3 {
		h = 3
	}
	m.log.Width = w
	m.log.Height = h
	m.input.Width = w - 16
}
