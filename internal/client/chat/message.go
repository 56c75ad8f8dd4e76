package chat

import (
	"time"

	"github.com/yourusername/xchat/internal/color"
	"github.com/yourusername/xchat/internal/protocol"
)

// Message is one entry of the chat log
type Message struct {
	Author      string
	Body        string
	Color       *color.RGB // fallback for AuthorColor and TextColor
	AuthorColor *color.RGB
	TextColor   *color.RGB
	Timestamp   int64 // ms since epoch
	Type        string
	Trusted     bool // only trusted bodies may carry inline colour tags
}

// MessageFromPayload converts a wire chat event into a log entry
func MessageFromPayload(p protocol.ChatMessagePayload) Message {
	return Message{
		Author:      p.Author,
		Body:        p.Message,
		Color:       p.Color,
		AuthorColor: p.AuthorColor,
		TextColor:   p.TextColor,
		Timestamp:   p.Timestamp,
		Type:        p.Type,
		Trusted:     p.Trusted,
	}
}

// Normalize fills in the timestamp and type of a message that lacks them
func Normalize(m Message, now time.Time) Message {
	if m.Timestamp == 0 {
		m.Timestamp = now.UnixMilli()
	}
	if m.Type == "" {
		if m.Author == protocol.SystemAuthor {
			m.Type = protocol.ChatTypeSystem
		} else {
			m.Type = protocol.ChatTypeChat
		}
	}
	return m
}

// Line is a message resolved into drawable pieces
type Line struct {
	Author      string
	AuthorColor *color.RGB
	Segments    []color.Segment
	Time        string
	Type        string
	System      bool
}

// RenderLine resolves colours and, for trusted messages only, inline colour tags.
// Untrusted bodies are always one literal segment, tags included.
func RenderLine(m Message, inlineColors bool) Line {
	authorColor := m.AuthorColor
	if authorColor == nil {
		authorColor = m.Color
	}
	textColor := m.TextColor
	if textColor == nil {
		textColor = m.Color
	}

	var segments []color.Segment
	if inlineColors && m.Trusted {
		segments = color.ParseInline(m.Body, textColor)
	} else {
		segments = color.Literal(m.Body, textColor)
	}

	return Line{
		Author:      m.Author,
		AuthorColor: authorColor,
		Segments:    segments,
		Time:        FormatTime(m.Timestamp),
		Type:        m.Type,
		System:      m.Author == protocol.SystemAuthor || m.Type == protocol.ChatTypeSystem,
	}
}

// FormatTime renders a ms timestamp as local HH:MM
func FormatTime(ms int64) string {
	return time.UnixMilli(ms).Format("15:04")
}
