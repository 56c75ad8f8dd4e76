package protocol //handles communication protocol between client and server
// WebSocket message types and payloads
import (
	"bytes"
	"encoding/json"

	"github.com/yourusername/xchat/internal/color"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	// Client -> Server
	MsgJoin           MessageType = "join"
	MsgLeave          MessageType = "leave"
	MsgPlayerMove     MessageType = "player_move"
	MsgExecuteCommand MessageType = "execute_command" // "/cmd args" or plain text routed to say

	// Server -> Client
	MsgJoined       MessageType = "joined"
	MsgChatMessage  MessageType = "chat_message"  // rendered chat event (addMessage)
	MsgChatClear    MessageType = "chat_clear"    // clearChat
	MsgChatSettings MessageType = "chat_settings" // updateSettings pushed by the server
	MsgError        MessageType = "error"
)

// Chat event kinds understood by the chat panel
const (
	ChatTypeChat    = "chat"
	ChatTypeSystem  = "system"
	ChatTypeError   = "error"
	ChatTypeWarning = "warning"
)

// SystemAuthor marks messages produced by the server itself
const SystemAuthor = "SYSTEM"

// Message is the wrapper for all WebSocket messages
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Vec3 is a world position in metres
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// JoinPayload is sent by a client right after connecting
type JoinPayload struct {
	Username string `json:"username"`
	Token    string `json:"token,omitempty"` // optional signed player token (rank)
	Position *Vec3  `json:"position,omitempty"`
}

// JoinedPayload confirms the join and tells the client its ids
type JoinedPayload struct {
	ClientID  int    `json:"client_id"`
	SessionID string `json:"session_id"`
	Username  string `json:"username"`
	Rank      int    `json:"rank"`
}

// PlayerMovePayload reports the player's current position
type PlayerMovePayload struct {
	Position Vec3 `json:"position"`
}

// ExecuteCommandPayload asks the server to run a chat command
type ExecuteCommandPayload struct {
	Command string   `json:"command"`
	Args    []string `json:"args"`
}

// ChatMessagePayload is one rendered chat event delivered to a player.
// Color is the shared fallback for AuthorColor and TextColor.
type ChatMessagePayload struct {
	Author      string     `json:"author"`
	Message     string     `json:"message"`
	Color       *color.RGB `json:"color,omitempty"`
	AuthorColor *color.RGB `json:"authorColor,omitempty"`
	TextColor   *color.RGB `json:"textColor,omitempty"`
	Timestamp   int64      `json:"timestamp"` // ms since epoch
	Type        string     `json:"type,omitempty"`
	Trusted     bool       `json:"trusted,omitempty"`
}

// ChatSettingsPayload carries partial chat panel settings
type ChatSettingsPayload struct {
	AutoHide     *bool `json:"autoHide,omitempty"`
	HideDuration *int  `json:"hideDuration,omitempty"` // ms
}

// ErrorPayload contains error information
type ErrorPayload struct {
	Message string `json:"message"`
}

// EncodeMessage encodes a message with its payload
func EncodeMessage(msgType MessageType, payload interface{}) ([]byte, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	msg := Message{
		Type:    msgType,
		Payload: payloadBytes,
	}

	return json.Marshal(msg)
}

// DecodeMessage decodes a message
func DecodeMessage(data []byte) (*Message, error) {
	var msg Message
	err := json.Unmarshal(data, &msg)
	return &msg, err
}

// DecodeBatch decodes a frame that may hold several newline separated messages
// (the server's write pump coalesces queued messages into one frame)
func DecodeBatch(data []byte) ([]*Message, error) {
	var msgs []*Message
	for _, line := range bytes.Split(data, []byte{'\n'}) {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		msg, err := DecodeMessage(line)
		if err != nil {
			return msgs, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}
