package server

import (
	"math"
	"time"

	"github.com/rs/zerolog"
	"github.com/yourusername/xchat/internal/color"
	"github.com/yourusername/xchat/internal/protocol"
)

// Hearing distances for the proximal commands, in metres
const (
	RadiusWhisper = 5.0
	RadiusNormal  = 20.0
	RadiusShout   = 50.0
)

// Player is the read-only view of a connected player the chat code needs
type Player interface {
	Name() string
	ClientID() int
	Position() (protocol.Vec3, bool) // false when the position is unknown
}

// Deliverer hands a rendered chat event to one player
type Deliverer interface {
	Deliver(to Player, msg protocol.ChatMessagePayload) error
}

// NearbyFunc returns the players a sender reaches without position data
type NearbyFunc func(sender Player) []Player

// BroadcastRequest describes one proximal chat line
type BroadcastRequest struct {
	Sender  Player
	Message string
	Radius  float64 // metres; <= 0 fades every recipient fully
	Author  string
	Color   color.RGB
}

// ProximityEngine delivers chat to players within a radius of the sender,
// fading the colour with distance. It keeps no state between calls.
type ProximityEngine struct {
	deliver Deliverer
	nearby  NearbyFunc
	now     func() time.Time
	log     zerolog.Logger
}

// NewProximityEngine creates an engine delivering through d and falling back to nearby
func NewProximityEngine(d Deliverer, nearby NearbyFunc, logger zerolog.Logger) *ProximityEngine {
	return &ProximityEngine{
		deliver: d,
		nearby:  nearby,
		now:     time.Now,
		log:     logger.With().Str("component", "proximity").Logger(),
	}
}

// Distance is the euclidean distance between two positions
func Distance(a, b protocol.Vec3) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// BroadcastProximal sends req to every player within req.Radius of the sender.
// A sender without a position falls back to the nearby set with the base colour,
// candidates without a position are skipped. A failed delivery does not stop the others.
func (e *ProximityEngine) BroadcastProximal(req BroadcastRequest, players []Player) {
	ts := e.now().UnixMilli()

	origin, ok := req.Sender.Position()
	if !ok {
		e.log.Debug().Str("sender", req.Sender.Name()).Msg("sender position unavailable, using nearby fallback")
		var targets []Player
		if e.nearby != nil {
			targets = e.nearby(req.Sender)
		}
		for _, p := range targets {
			e.send(p, req, req.Color, ts)
		}
		return
	}

	delivered := 0
	for _, p := range players {
		pos, ok := p.Position()
		if !ok {
			continue
		}

		d := Distance(origin, pos)
		if d > req.Radius {
			continue
		}

		if e.send(p, req, color.Fade(req.Color, d, req.Radius), ts) {
			delivered++
		}
	}

	e.log.Debug().
		Str("sender", req.Sender.Name()).
		Float64("radius", req.Radius).
		Int("delivered", delivered).
		Msg("proximal broadcast")
}

func (e *ProximityEngine) send(to Player, req BroadcastRequest, c color.RGB, ts int64) bool {
	err := e.deliver.Deliver(to, protocol.ChatMessagePayload{
		Author:    req.Author,
		Message:   req.Message,
		Color:     c.Ptr(),
		Timestamp: ts,
		Type:      protocol.ChatTypeChat,
	})
	if err != nil {
		e.log.Warn().Err(err).Int("client_id", to.ClientID()).Msg("chat delivery failed")
		return false
	}
	return true
}
