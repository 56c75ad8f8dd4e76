package connection

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/yourusername/xchat/internal/protocol"
)

// ErrNotConnected is returned when sending without a live connection
var ErrNotConnected = errors.New("not connected to server")

// Manager manages the WebSocket connection to the server
type Manager struct {
	serverURL     string
	conn          *websocket.Conn
	state         *State
	eventCallback func(Event)
	connected     bool
	mu            sync.RWMutex
	writeMu       sync.Mutex
	done          chan struct{}
	log           zerolog.Logger
}

// NewManager creates a new connection manager
func NewManager(serverURL string, logger zerolog.Logger) *Manager {
	return &Manager{
		serverURL: serverURL,
		state:     NewState(),
		done:      make(chan struct{}),
		log:       logger.With().Str("component", "connection").Logger(),
	}
}

// OnEvent sets the callback for events
func (m *Manager) OnEvent(callback func(Event)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eventCallback = callback
}

// Connect establishes a WebSocket connection to the server
func (m *Manager) Connect() error {
	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.Dial(m.serverURL, nil)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.conn = conn
	m.connected = true
	// fresh done channel so a reconnect gets its own read loop
	m.done = make(chan struct{})
	m.mu.Unlock()

	go m.readPump()

	m.Emit(ConnectedEvent{})
	return nil
}

// Disconnect closes the WebSocket connection
func (m *Manager) Disconnect() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		return
	}
	m.connected = false

	if m.done != nil {
		select {
		case <-m.done:
		default:
			close(m.done)
		}
	}

	if m.conn != nil {
		m.conn.Close()
	}
}

// IsConnected returns whether the manager is connected
func (m *Manager) IsConnected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connected
}

// State returns what the client knows about its own player
func (m *Manager) State() *State {
	return m.state
}

//// FROM CLIENT -> SERVER MESSAGES ////

// Join asks the server to register us under name; token may be empty
func (m *Manager) Join(name, token string) error {
	pos := m.state.Position()
	return m.sendMessage(protocol.MsgJoin, protocol.JoinPayload{
		Username: name,
		Token:    token,
		Position: &pos,
	})
}

// Leave tells the server we are going away
func (m *Manager) Leave() error {
	return m.sendMessage(protocol.MsgLeave, struct{}{})
}

// SendCommand asks the server to run a chat command
func (m *Manager) SendCommand(command string, args []string) error {
	if args == nil {
		args = []string{}
	}
	return m.sendMessage(protocol.MsgExecuteCommand, protocol.ExecuteCommandPayload{
		Command: command,
		Args:    args,
	})
}

// Move offsets our position and reports it to the server
func (m *Manager) Move(dx, dy, dz float64) error {
	pos := m.state.Move(dx, dy, dz)
	return m.sendMessage(protocol.MsgPlayerMove, protocol.PlayerMovePayload{Position: pos})
}

////////////////////////////////////////////

// sendMessage sends a message to the server
func (m *Manager) sendMessage(msgType protocol.MessageType, payload interface{}) error {
	m.mu.RLock()
	conn, connected := m.conn, m.connected
	m.mu.RUnlock()

	if !connected || conn == nil {
		return ErrNotConnected
	}

	msg, err := protocol.EncodeMessage(msgType, payload)
	if err != nil {
		return err
	}

	// gorilla connections allow one concurrent writer
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, msg)
}

// readPump reads messages from the WebSocket connection
func (m *Manager) readPump() {
	var readErr error
	defer func() {
		m.mu.Lock()
		m.connected = false
		if m.conn != nil {
			m.conn.Close()
		}
		m.mu.Unlock()
		m.state.Clear()
		m.Emit(DisconnectedEvent{Error: readErr})
	}()

	m.mu.RLock()
	conn, done := m.conn, m.done
	m.mu.RUnlock()

	for {
		select {
		case <-done:
			return
		default:
			_, message, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					m.log.Warn().Err(err).Msg("websocket error")
					readErr = err
				}
				return
			}

			m.handleFrame(message)
		}
	}
}

// handleFrame processes one frame; the server may coalesce several messages into it
func (m *Manager) handleFrame(data []byte) {
	msgs, err := protocol.DecodeBatch(data)
	if err != nil {
		m.log.Warn().Err(err).Msg("error decoding message")
	}
	for _, msg := range msgs {
		m.handleMessage(msg)
	}
}

// handleMessage processes incoming messages
func (m *Manager) handleMessage(msg *protocol.Message) {
	switch msg.Type {
	case protocol.MsgJoined:
		var payload protocol.JoinedPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			m.log.Warn().Err(err).Msg("error unmarshaling joined payload")
			return
		}
		m.state.SetSession(payload)
		m.Emit(JoinedEvent{Session: payload})
		m.log.Info().Str("username", payload.Username).Int("client_id", payload.ClientID).Msg("joined")

	case protocol.MsgChatMessage:
		var payload protocol.ChatMessagePayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			m.log.Warn().Err(err).Msg("error unmarshaling chat message")
			return
		}
		m.Emit(ChatMessageEvent{Message: payload})

	case protocol.MsgChatClear:
		m.Emit(ClearChatEvent{})

	case protocol.MsgChatSettings:
		var payload protocol.ChatSettingsPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			m.log.Warn().Err(err).Msg("error unmarshaling chat settings")
			return
		}
		m.Emit(UpdateSettingsEvent{Settings: payload})

	case protocol.MsgError:
		var payload protocol.ErrorPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			m.log.Warn().Err(err).Msg("error unmarshaling error payload")
			return
		}
		m.Emit(ErrorEvent{Message: payload.Message})
		m.log.Info().Str("message", payload.Message).Msg("server error")

	default:
		m.log.Debug().Str("type", string(msg.Type)).Msg("unhandled message type")
	}
}

// Emit hands an event to the callback if set. The bridge uses it for events
// that originate on the client (toggleChat, updateSettings).
func (m *Manager) Emit(event Event) {
	m.mu.RLock()
	callback := m.eventCallback
	m.mu.RUnlock()

	if callback != nil {
		callback(event)
	}
}
