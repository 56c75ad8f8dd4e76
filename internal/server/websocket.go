package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/yourusername/xchat/internal/protocol"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second    //time allowed to read the next pong message from client
	pingPeriod     = (pongWait * 9) / 10 //send pings to client with this period. must be less than pongWait
	maxMessageSize = 2048
	maxNameLength  = 32
)

var (
	// ErrSendBufferFull means the client is not draining its socket fast enough
	ErrSendBufferFull = errors.New("client send buffer full")
	// ErrClientClosed means the connection is already gone
	ErrClientClosed = errors.New("client connection closed")
)

var upgrader = websocket.Upgrader{ //upgrade HTTP connections to WebSocket connections
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // game clients are not browsers
	},
}

// Client represents a connected player
type Client struct {
	ID       string // session uuid
	clientID int    // numeric id players use for /pm
	username string
	rank     int
	joined   bool

	conn *websocket.Conn
	send chan []byte

	pos    protocol.Vec3
	hasPos bool
	closed bool
	mu     sync.RWMutex
}

func newClient(conn *websocket.Conn, buffer int) *Client {
	if buffer <= 0 {
		buffer = 256
	}
	return &Client{
		ID:   uuid.New().String(),
		conn: conn,
		send: make(chan []byte, buffer),
	}
}

// Name returns the player's display name
func (c *Client) Name() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.username
}

// ClientID returns the numeric id assigned by the directory
func (c *Client) ClientID() int {
	return c.clientID
}

// Rank returns the privilege level granted by the player's token
func (c *Client) Rank() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.rank
}

// Position returns the last reported position, if any
func (c *Client) Position() (protocol.Vec3, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pos, c.hasPos
}

// SetPosition records the player's position
func (c *Client) SetPosition(p protocol.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pos = p
	c.hasPos = true
}

// Send queues a message for the write pump without blocking
func (c *Client) Send(msgType protocol.MessageType, payload interface{}) error {
	msg, err := protocol.EncodeMessage(msgType, payload)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClientClosed
	}

	select {
	case c.send <- msg:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// close stops the write pump; safe to call more than once
func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// Server represents the WebSocket chat server
type Server struct {
	directory  *Directory
	chat       *ChatService
	commands   *Commands
	auth       *TokenAuth
	sendBuffer int
	log        zerolog.Logger
}

// NewServer wires the directory, chat service and command table together
func NewServer(fanout Fanout, auth *TokenAuth, sendBuffer int, logger zerolog.Logger) *Server {
	directory := NewDirectory()
	chat := NewChatService(directory, fanout, logger)

	return &Server{
		directory:  directory,
		chat:       chat,
		commands:   NewCommands(chat, directory, logger),
		auth:       auth,
		sendBuffer: sendBuffer,
		log:        logger.With().Str("component", "server").Logger(),
	}
}

// Chat exposes the chat service (used by the HTTP API and tests)
func (s *Server) Chat() *ChatService {
	return s.chat
}

// Directory exposes the connected players
func (s *Server) Directory() *Directory {
	return s.directory
}

// HandleWebSocket handles WebSocket connections
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error().Err(err).Msg("upgrade error")
		return
	}

	client := newClient(conn, s.sendBuffer)

	go client.writePump()
	go client.readPump(s)
}

// readPump pumps messages from the WebSocket connection to the server
func (c *Client) readPump(s *Server) {
	defer func() {
		s.leave(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				s.log.Warn().Err(err).Str("session", c.ID).Msg("websocket error")
			}
			break
		}

		s.handleMessage(c, message)
	}
}

// writePump pumps queued messages to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current WebSocket message
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage handles incoming messages from the client
func (s *Server) handleMessage(c *Client, data []byte) {
	msg, err := protocol.DecodeMessage(data)
	if err != nil {
		s.log.Debug().Err(err).Msg("error decoding message")
		return
	}

	switch msg.Type {
	case protocol.MsgJoin:
		var payload protocol.JoinPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			s.log.Debug().Err(err).Msg("error unmarshaling join payload")
			return
		}
		s.join(c, payload)

	case protocol.MsgLeave:
		s.leave(c)

	case protocol.MsgPlayerMove:
		var payload protocol.PlayerMovePayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			s.log.Debug().Err(err).Msg("error unmarshaling player move payload")
			return
		}
		c.SetPosition(payload.Position)

	case protocol.MsgExecuteCommand:
		var payload protocol.ExecuteCommandPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			s.log.Debug().Err(err).Msg("error unmarshaling command payload")
			return
		}
		if !c.isJoined() {
			c.Send(protocol.MsgError, protocol.ErrorPayload{Message: "join before chatting"})
			return
		}
		s.commands.Execute(c, payload.Command, payload.Args)

	default:
		s.log.Debug().Str("type", string(msg.Type)).Msg("unhandled message type")
	}
}

// join registers the client in the directory, applying the token's name and rank
func (s *Server) join(c *Client, payload protocol.JoinPayload) {
	if c.isJoined() {
		return
	}

	name := strings.TrimSpace(payload.Username)
	rank := 0

	if payload.Token != "" {
		claims, err := s.auth.Validate(payload.Token)
		if err != nil {
			s.log.Info().Err(err).Str("username", name).Msg("rejected player token")
			c.Send(protocol.MsgError, protocol.ErrorPayload{Message: "invalid token, joining without privileges"})
		} else {
			rank = claims.Rank
			if claims.Subject != "" {
				name = claims.Subject
			}
		}
	}

	if name == "" {
		c.Send(protocol.MsgError, protocol.ErrorPayload{Message: "username required"})
		return
	}
	if r := []rune(name); len(r) > maxNameLength {
		name = string(r[:maxNameLength])
	}

	c.mu.Lock()
	c.username = name
	c.rank = rank
	c.joined = true
	c.mu.Unlock()

	if payload.Position != nil {
		c.SetPosition(*payload.Position)
	}

	id := s.directory.Add(c)
	s.log.Info().Str("username", name).Int("client_id", id).Int("rank", rank).Msg("player joined")

	c.Send(protocol.MsgJoined, protocol.JoinedPayload{
		ClientID:  id,
		SessionID: c.ID,
		Username:  name,
		Rank:      rank,
	})
}

// leave removes the client from the directory and stops its write pump
func (s *Server) leave(c *Client) {
	if s.directory.Remove(c) {
		s.log.Info().Str("username", c.Name()).Int("client_id", c.ClientID()).Msg("player left")
	}
	c.close()
}

func (c *Client) isJoined() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.joined
}
