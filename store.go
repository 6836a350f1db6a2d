/*
Copyright © 2025 Seednode <seednode@seedno.de>
*/

package main

// Player is the authoritative record for one joined connection.
type Player struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Avatar    string `json:"avatar"`
	ButtSize  string `json:"buttSize"`
	SodaCount int    `json:"sodaCount"`
}

// SessionStore maps connection IDs to players, remembering insertion order.
//
// It is not safe for concurrent use; the lobby goroutine is its only caller.
type SessionStore struct {
	players map[string]*Player
	order   []string
}

func newSessionStore() *SessionStore {
	return &SessionStore{
		players: make(map[string]*Player),
	}
}

// Create inserts a fresh record with a zero soda count. It reports false and
// leaves the store untouched if id is already present.
func (s *SessionStore) Create(id, username, avatar, buttSize string) bool {
	if _, ok := s.players[id]; ok {
		return false
	}

	s.players[id] = &Player{
		ID:       id,
		Username: username,
		Avatar:   avatar,
		ButtSize: buttSize,
	}
	s.order = append(s.order, id)

	return true
}

// Get returns a copy of the record for id.
func (s *SessionStore) Get(id string) (Player, bool) {
	p, ok := s.players[id]
	if !ok {
		return Player{}, false
	}
	return *p, true
}

// Increment bumps the soda count for id and returns the updated record.
func (s *SessionStore) Increment(id string) (Player, bool) {
	p, ok := s.players[id]
	if !ok {
		return Player{}, false
	}
	p.SodaCount++
	return *p, true
}

// Remove deletes the record for id, returning what was removed.
func (s *SessionStore) Remove(id string) (Player, bool) {
	p, ok := s.players[id]
	if !ok {
		return Player{}, false
	}

	delete(s.players, id)

	dst := s.order[:0]
	for _, other := range s.order {
		if other != id {
			dst = append(dst, other)
		}
	}
	s.order = dst

	return *p, true
}

// Snapshot copies every record in insertion order.
func (s *SessionStore) Snapshot() []Player {
	out := make([]Player, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.players[id])
	}
	return out
}

func (s *SessionStore) Len() int {
	return len(s.players)
}
