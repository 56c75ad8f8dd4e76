package connection

import (
	"sync"

	"github.com/yourusername/xchat/internal/protocol"
)

// State holds what the client knows about its own player
type State struct {
	session  protocol.JoinedPayload
	joined   bool
	position protocol.Vec3
	mu       sync.RWMutex
}

// NewState creates an empty state
func NewState() *State {
	return &State{}
}

// SetSession records the server's join confirmation
func (s *State) SetSession(p protocol.JoinedPayload) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = p
	s.joined = true
}

// Session returns the join confirmation, if any
func (s *State) Session() (protocol.JoinedPayload, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session, s.joined
}

// Clear forgets the session (on disconnect)
func (s *State) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = protocol.JoinedPayload{}
	s.joined = false
}

// Move offsets the local position and returns the new one
func (s *State) Move(dx, dy, dz float64) protocol.Vec3 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.position.X += dx
	s.position.Y += dy
	s.position.Z += dz
	return s.position
}

// Position returns the local position
func (s *State) Position() protocol.Vec3 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.position
}
