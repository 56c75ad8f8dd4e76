package server

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/yourusername/xchat/internal/color"
	"github.com/yourusername/xchat/internal/protocol"
)

type fakePlayer struct {
	id     int
	name   string
	pos    protocol.Vec3
	hasPos bool
}

func (p *fakePlayer) Name() string { return p.name }
func (p *fakePlayer) ClientID() int { return p.id }
func (p *fakePlayer) Position() (protocol.Vec3, bool) { return p.pos, p.hasPos }

func at(id int, name string, x, y, z float64) *fakePlayer {
	return &fakePlayer{id: id, name: name, pos: protocol.Vec3{X: x, Y: y, Z: z}, hasPos: true}
}

type delivery struct {
	to  int
	msg protocol.ChatMessagePayload
}

type recordingDeliverer struct {
	deliveries []delivery
	failFor    map[int]bool
}

func (d *recordingDeliverer) Deliver(to Player, msg protocol.ChatMessagePayload) error {
	if d.failFor[to.ClientID()] {
		return errors.New("boom")
	}
	d.deliveries = append(d.deliveries, delivery{to: to.ClientID(), msg: msg})
	return nil
}

func (d *recordingDeliverer) byRecipient() map[int]protocol.ChatMessagePayload {
	out := make(map[int]protocol.ChatMessagePayload)
	for _, dl := range d.deliveries {
		out[dl.to] = dl.msg
	}
	return out
}

func TestDistance(t *testing.T) {
	got := Distance(protocol.Vec3{X: 1, Y: 2, Z: 3}, protocol.Vec3{X: 4, Y: 6, Z: 3})
	if got != 5 {
		t.Errorf("Expected distance 5, got %v", got)
	}
}

func TestBroadcastProximalFadesByDistance(t *testing.T) {
	d := &recordingDeliverer{}
	engine := NewProximityEngine(d, nil, zerolog.Nop())

	sender := at(1, "Alice", 0, 0, 0)
	near := at(2, "Bob", 10, 0, 0)
	far := at(3, "Carol", 25, 0, 0)

	engine.BroadcastProximal(BroadcastRequest{
		Sender:  sender,
		Message: "hello",
		Radius:  RadiusNormal,
		Author:  "Alice",
		Color:   color.White,
	}, []Player{sender, near, far})

	got := d.byRecipient()
	if len(got) != 2 {
		t.Fatalf("Expected 2 deliveries, got %d", len(got))
	}

	self, ok := got[1]
	if !ok {
		t.Fatal("Expected the sender to receive their own message")
	}
	if *self.Color != color.White {
		t.Errorf("Expected sender colour white, got %v", *self.Color)
	}

	bob, ok := got[2]
	if !ok {
		t.Fatal("Expected Bob to receive the message")
	}
	want := color.RGB{R: 194, G: 194, B: 194}
	if *bob.Color != want {
		t.Errorf("Expected faded colour %v, got %v", want, *bob.Color)
	}
	if bob.Author != "Alice" || bob.Message != "hello" {
		t.Errorf("Expected author Alice and message hello, got %q %q", bob.Author, bob.Message)
	}
	if bob.Type != protocol.ChatTypeChat || bob.Trusted {
		t.Errorf("Expected untrusted chat message, got type %q trusted %v", bob.Type, bob.Trusted)
	}

	if _, ok := got[3]; ok {
		t.Error("Expected Carol (out of range) to receive nothing")
	}
}

func TestBroadcastProximalBoundaryInclusive(t *testing.T) {
	d := &recordingDeliverer{}
	engine := NewProximityEngine(d, nil, zerolog.Nop())

	sender := at(1, "Alice", 0, 0, 0)
	edge := at(2, "Bob", 0, 0, 5)
	beyond := at(3, "Carol", 0, 0, 5.0001)

	engine.BroadcastProximal(BroadcastRequest{Sender: sender, Message: "psst", Radius: RadiusWhisper, Color: color.White},
		[]Player{sender, edge, beyond})

	got := d.byRecipient()
	msg, ok := got[2]
	if !ok {
		t.Fatal("Expected player exactly at the radius to receive the message")
	}
	if *msg.Color != color.Fade(color.White, 5, 5) {
		t.Errorf("Expected maximum fade at the boundary, got %v", *msg.Color)
	}
	if _, ok := got[3]; ok {
		t.Error("Expected player beyond the radius to be skipped")
	}
}

func TestBroadcastProximalSkipsUnknownPositions(t *testing.T) {
	d := &recordingDeliverer{}
	engine := NewProximityEngine(d, nil, zerolog.Nop())

	sender := at(1, "Alice", 0, 0, 0)
	ghost := &fakePlayer{id: 2, name: "Ghost"}

	engine.BroadcastProximal(BroadcastRequest{Sender: sender, Message: "hi", Radius: RadiusNormal, Color: color.White},
		[]Player{sender, ghost})

	if _, ok := d.byRecipient()[2]; ok {
		t.Error("Expected player without a position to be skipped")
	}
}

func TestBroadcastProximalSenderFallback(t *testing.T) {
	d := &recordingDeliverer{}
	lost := &fakePlayer{id: 1, name: "Lost"}
	a := at(2, "A", 1000, 0, 0)
	b := &fakePlayer{id: 3, name: "B"}

	engine := NewProximityEngine(d, func(Player) []Player {
		return []Player{lost, a, b}
	}, zerolog.Nop())

	base := color.RGB{R: 255, G: 87, B: 87}
	engine.BroadcastProximal(BroadcastRequest{Sender: lost, Message: "help", Radius: RadiusShout, Color: base}, nil)

	got := d.byRecipient()
	if len(got) != 3 {
		t.Fatalf("Expected fallback to reach 3 players, got %d", len(got))
	}
	for id, msg := range got {
		if *msg.Color != base {
			t.Errorf("Expected unfaded colour for %d, got %v", id, *msg.Color)
		}
	}
}

func TestBroadcastProximalContinuesAfterFailure(t *testing.T) {
	d := &recordingDeliverer{failFor: map[int]bool{2: true}}
	engine := NewProximityEngine(d, nil, zerolog.Nop())

	sender := at(1, "Alice", 0, 0, 0)
	broken := at(2, "Broken", 1, 0, 0)
	fine := at(3, "Fine", 2, 0, 0)

	engine.BroadcastProximal(BroadcastRequest{Sender: sender, Message: "hi", Radius: RadiusNormal, Color: color.White},
		[]Player{sender, broken, fine})

	got := d.byRecipient()
	if _, ok := got[3]; !ok {
		t.Error("Expected delivery to continue after a failing recipient")
	}
	if _, ok := got[1]; !ok {
		t.Error("Expected the sender to still receive the message")
	}
}
