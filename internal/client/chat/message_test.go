package chat

import (
	"testing"
	"time"

	"github.com/yourusername/xchat/internal/color"
	"github.com/yourusername/xchat/internal/protocol"
)

func TestNormalizeDefaults(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)

	tests := []struct {
		name string
		in   Message
		want Message
	}{
		{
			"system author",
			Message{Author: "SYSTEM", Body: "x"},
			Message{Author: "SYSTEM", Body: "x", Timestamp: now.UnixMilli(), Type: protocol.ChatTypeSystem},
		},
		{
			"player author",
			Message{Author: "Bob", Body: "x"},
			Message{Author: "Bob", Body: "x", Timestamp: now.UnixMilli(), Type: protocol.ChatTypeChat},
		},
		{
			"explicit values kept",
			Message{Body: "x", Timestamp: 5, Type: protocol.ChatTypeWarning, Trusted: true},
			Message{Body: "x", Timestamp: 5, Type: protocol.ChatTypeWarning, Trusted: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in, now)
			if got != tt.want {
				t.Errorf("Expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestRenderLineUntrustedIsLiteral(t *testing.T) {
	msg := Message{Author: "Mallory", Body: "{FF0000}Admin says hi", Color: color.White.Ptr()}

	line := RenderLine(msg, true)

	if len(line.Segments) != 1 {
		t.Fatalf("Expected a single literal segment, got %d", len(line.Segments))
	}
	if line.Segments[0].Text != "{FF0000}Admin says hi" {
		t.Errorf("Expected tag kept as text, got %q", line.Segments[0].Text)
	}
	if *line.Segments[0].Color != color.White {
		t.Errorf("Expected message colour, got %v", *line.Segments[0].Color)
	}
}

func TestRenderLineTrustedParsesTags(t *testing.T) {
	msg := Message{Author: "SYSTEM", Body: "{FF0000}Red{00FF00}Green", Trusted: true}

	line := RenderLine(msg, true)

	if len(line.Segments) != 2 {
		t.Fatalf("Expected 2 segments, got %d", len(line.Segments))
	}
	if line.Segments[0].Text != "Red" || *line.Segments[0].Color != (color.RGB{R: 255}) {
		t.Errorf("Unexpected first segment %+v", line.Segments[0])
	}
	if line.Segments[1].Text != "Green" || *line.Segments[1].Color != (color.RGB{G: 255}) {
		t.Errorf("Unexpected second segment %+v", line.Segments[1])
	}
	if !line.System {
		t.Error("Expected SYSTEM author to be flagged as system")
	}
}

func TestRenderLineInlineColorsDisabled(t *testing.T) {
	msg := Message{Body: "{FF0000}Red", Trusted: true}

	line := RenderLine(msg, false)

	if len(line.Segments) != 1 || line.Segments[0].Text != "{FF0000}Red" {
		t.Errorf("Expected literal body with inline colours disabled, got %+v", line.Segments)
	}
}

func TestRenderLineColorFallback(t *testing.T) {
	base := color.RGB{R: 10, G: 20, B: 30}
	author := color.RGB{R: 1, G: 2, B: 3}

	line := RenderLine(Message{Author: "A", Body: "b", Color: &base, AuthorColor: &author}, true)

	if *line.AuthorColor != author {
		t.Errorf("Expected explicit author colour, got %v", *line.AuthorColor)
	}
	if *line.Segments[0].Color != base {
		t.Errorf("Expected text colour to fall back to color, got %v", *line.Segments[0].Color)
	}
}

func TestMessageFromPayload(t *testing.T) {
	p := protocol.ChatMessagePayload{Author: "A", Message: "m", Timestamp: 9, Type: "chat", Trusted: true}
	m := MessageFromPayload(p)
	if m.Author != "A" || m.Body != "m" || m.Timestamp != 9 || !m.Trusted {
		t.Errorf("Unexpected conversion %+v", m)
	}
}
