package server

import (
	"sort"
	"strings"
	"sync"
)

// Directory tracks the players connected to this server instance
type Directory struct {
	byClient     map[int]*Client    // ClientID -> Client
	bySession    map[string]*Client // session uuid -> Client
	nextClientID int
	mu           sync.RWMutex
}

// NewDirectory creates an empty player directory
func NewDirectory() *Directory {
	return &Directory{
		byClient:     make(map[int]*Client),
		bySession:    make(map[string]*Client),
		nextClientID: 1,
	}
}

// Add registers a client and assigns its numeric client id
func (d *Directory) Add(c *Client) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.bySession[c.ID]; exists {
		return c.clientID
	}

	c.clientID = d.nextClientID
	d.nextClientID++

	d.byClient[c.clientID] = c
	d.bySession[c.ID] = c
	return c.clientID
}

// Remove forgets a client; unknown clients are ignored
func (d *Directory) Remove(c *Client) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.bySession[c.ID]; !exists {
		return false
	}
	delete(d.bySession, c.ID)
	delete(d.byClient, c.clientID)
	return true
}

// GetByClient looks a player up by the numeric id shown to players (used by /pm)
func (d *Directory) GetByClient(id int) (*Client, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	c, ok := d.byClient[id]
	return c, ok
}

// FindByName does a case-insensitive username lookup
func (d *Directory) FindByName(name string) (*Client, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, c := range d.byClient {
		if strings.EqualFold(c.Name(), name) {
			return c, true
		}
	}
	return nil, false
}

// Players returns a snapshot of every connected player ordered by client id
func (d *Directory) Players() []Player {
	d.mu.RLock()
	clients := make([]*Client, 0, len(d.byClient))
	for _, c := range d.byClient {
		clients = append(clients, c)
	}
	d.mu.RUnlock()

	sort.Slice(clients, func(i, j int) bool {
		return clients[i].clientID < clients[j].clientID
	})

	players := make([]Player, len(clients))
	for i, c := range clients {
		players[i] = c
	}
	return players
}

// Nearby is the directory's notion of who a sender reaches when positions are
// unknown. A single instance hosts a single world, so that is everybody.
func (d *Directory) Nearby(sender Player) []Player {
	return d.Players()
}

// Len returns the number of connected players
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.byClient)
}
