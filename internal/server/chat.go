package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/yourusername/xchat/internal/color"
	"github.com/yourusername/xchat/internal/protocol"
)

// ErrPlayerNotFound is returned when a private message target is not connected
var ErrPlayerNotFound = errors.New("player not found")

// Recipient is a player that can receive protocol messages
type Recipient interface {
	Player
	Send(msgType protocol.MessageType, payload interface{}) error
}

// NotifyKind selects the colour and type of a notification
type NotifyKind string

const (
	NotifyChat    NotifyKind = "chat"
	NotifyError   NotifyKind = "error"
	NotifySuccess NotifyKind = "success"
	NotifyWarning NotifyKind = "warning"
)

var notifyColors = map[NotifyKind]color.RGB{
	NotifyChat:    color.White,
	NotifyError:   {R: 255, G: 100, B: 100},
	NotifySuccess: {R: 100, G: 255, B: 100},
	NotifyWarning: {R: 255, G: 200, B: 100},
}

const publishTimeout = 2 * time.Second

// ChatService turns chat intents into chat_message events for connected players
type ChatService struct {
	dir    *Directory
	engine *ProximityEngine
	fanout Fanout
	now    func() time.Time
	log    zerolog.Logger
}

// NewChatService creates a chat service and subscribes it to the fanout so that
// global events reach the players of this instance
func NewChatService(dir *Directory, fanout Fanout, logger zerolog.Logger) *ChatService {
	s := &ChatService{
		dir:    dir,
		fanout: fanout,
		now:    time.Now,
		log:    logger.With().Str("component", "chat").Logger(),
	}
	s.engine = NewProximityEngine(s, dir.Nearby, logger)
	fanout.Subscribe(s.DeliverLocal)
	return s
}

// Deliver sends one chat event to a single player
func (s *ChatService) Deliver(to Player, msg protocol.ChatMessagePayload) error {
	r, ok := to.(Recipient)
	if !ok {
		return fmt.Errorf("player %d cannot receive messages", to.ClientID())
	}
	return r.Send(protocol.MsgChatMessage, msg)
}

// BroadcastProximal delivers message to everyone within radius of sender
func (s *ChatService) BroadcastProximal(sender Player, message, author string, c color.RGB, radius float64) {
	s.engine.BroadcastProximal(BroadcastRequest{
		Sender:  sender,
		Message: message,
		Radius:  radius,
		Author:  author,
		Color:   c,
	}, s.dir.Players())
}

// Broadcast delivers an untrusted message to every connected player
func (s *ChatService) Broadcast(message, author string, c color.RGB) {
	s.publish(protocol.ChatMessagePayload{
		Author:    author,
		Message:   message,
		Color:     c.Ptr(),
		Timestamp: s.now().UnixMilli(),
		Type:      protocol.ChatTypeChat,
	})
}

// SendSystemMessage broadcasts a trusted message; inline colour tags in it are rendered.
// An empty author defaults to SYSTEM.
func (s *ChatService) SendSystemMessage(message, author string, c color.RGB) {
	if author == "" {
		author = protocol.SystemAuthor
	}
	s.publish(protocol.ChatMessagePayload{
		Author:    author,
		Message:   message,
		Color:     c.Ptr(),
		Timestamp: s.now().UnixMilli(),
		Type:      protocol.ChatTypeSystem,
		Trusted:   true,
	})
}

func (s *ChatService) publish(msg protocol.ChatMessagePayload) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := s.fanout.Publish(ctx, msg); err != nil {
		s.log.Error().Err(err).Str("author", msg.Author).Msg("global chat publish failed")
	}
}

// DeliverLocal hands a global event to every player on this instance
func (s *ChatService) DeliverLocal(msg protocol.ChatMessagePayload) {
	for _, p := range s.dir.Players() {
		if err := s.Deliver(p, msg); err != nil {
			s.log.Warn().Err(err).Int("client_id", p.ClientID()).Msg("chat delivery failed")
		}
	}
}

// SendPrivate delivers message to the player with the given client id
func (s *ChatService) SendPrivate(targetID int, message, author string, c color.RGB) (Player, error) {
	target, ok := s.dir.GetByClient(targetID)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrPlayerNotFound, targetID)
	}

	err := s.Deliver(target, protocol.ChatMessagePayload{
		Author:    author,
		Message:   message,
		Color:     c.Ptr(),
		Timestamp: s.now().UnixMilli(),
		Type:      protocol.ChatTypeChat,
	})
	return target, err
}

// ClearChat empties the chat log of one player
func (s *ChatService) ClearChat(p Player) {
	r, ok := p.(Recipient)
	if !ok {
		return
	}
	if err := r.Send(protocol.MsgChatClear, struct{}{}); err != nil {
		s.log.Warn().Err(err).Int("client_id", p.ClientID()).Msg("chat clear failed")
	}
}

// Notify sends a SYSTEM-authored feedback line to one player
func (s *ChatService) Notify(p Player, message string, kind NotifyKind) {
	c, ok := notifyColors[kind]
	if !ok {
		kind = NotifyChat
		c = color.White
	}

	msgType := string(kind)
	if kind == NotifySuccess {
		msgType = protocol.ChatTypeChat
	}

	err := s.Deliver(p, protocol.ChatMessagePayload{
		Author:    protocol.SystemAuthor,
		Message:   message,
		Color:     c.Ptr(),
		Timestamp: s.now().UnixMilli(),
		Type:      msgType,
	})
	if err != nil {
		s.log.Warn().Err(err).Int("client_id", p.ClientID()).Msg("notification failed")
	}
}

// PushSettings sends partial chat panel settings to one player
func (s *ChatService) PushSettings(p Player, settings protocol.ChatSettingsPayload) error {
	r, ok := p.(Recipient)
	if !ok {
		return fmt.Errorf("player %d cannot receive messages", p.ClientID())
	}
	return r.Send(protocol.MsgChatSettings, settings)
}
