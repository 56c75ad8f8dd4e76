package server

import (
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/yourusername/xchat/internal/protocol"
)

func newTestServer() *Server {
	return NewServer(NewLocalFanout(), NewTokenAuth("test-secret"), 32, zerolog.Nop())
}

// joinTestClient registers a connection-less client; its queued frames are read from c.send
func joinTestClient(s *Server, name string, rank int, pos *protocol.Vec3) *Client {
	c := newClient(nil, 32)
	c.username = name
	c.rank = rank
	c.joined = true
	if pos != nil {
		c.SetPosition(*pos)
	}
	s.directory.Add(c)
	return c
}

func drain(t *testing.T, c *Client) []*protocol.Message {
	t.Helper()

	var out []*protocol.Message
	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				return out
			}
			msg, err := protocol.DecodeMessage(data)
			if err != nil {
				t.Fatalf("Failed to decode queued frame: %v", err)
			}
			out = append(out, msg)
		default:
			return out
		}
	}
}

func drainChat(t *testing.T, c *Client) []protocol.ChatMessagePayload {
	t.Helper()

	var out []protocol.ChatMessagePayload
	for _, msg := range drain(t, c) {
		if msg.Type != protocol.MsgChatMessage {
			continue
		}
		var p protocol.ChatMessagePayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			t.Fatalf("Failed to decode chat payload: %v", err)
		}
		out = append(out, p)
	}
	return out
}

func vec(x, y, z float64) *protocol.Vec3 {
	return &protocol.Vec3{X: x, Y: y, Z: z}
}
