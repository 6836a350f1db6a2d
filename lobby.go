/*
Copyright © 2025 Seednode <seednode@seedno.de>
*/

// The lobby is a single shared room. Every connection is registered with it,
// and one goroutine (Lobby.Run) applies join, drink-soda, chat-message and
// disconnect events to the session store in arrival order, fanning the
// results out to connected clients:
//
//   - join         → players-update to the joiner, player-joined to everyone else
//   - drink-soda   → soda-drunk to everyone, sender included
//   - chat-message → chat-message to everyone, sender included
//   - disconnect   → player-left to everyone still connected
//
// Events from connections that have not joined are dropped silently.

package main

import (
	"context"
	"time"
)

type intent struct {
	client *Client
	msg    ClientMessage
}

type Lobby struct {
	cfg     *Config
	store   *SessionStore
	clients map[*Client]bool

	register chan *Client
	unreg    chan *Client
	intents  chan intent
	rosters  chan chan []Player
	done     chan struct{}

	now func() time.Time
}

func newLobby(cfg *Config) *Lobby {
	return &Lobby{
		cfg:      cfg,
		store:    newSessionStore(),
		clients:  make(map[*Client]bool),
		register: make(chan *Client),
		unreg:    make(chan *Client),
		intents:  make(chan intent),
		rosters:  make(chan chan []Player),
		done:     make(chan struct{}),
		now:      time.Now,
	}
}

// Run owns the session store until ctx is cancelled.
func (l *Lobby) Run(ctx context.Context) {
	defer close(l.done)
	defer l.closeAll()

	for {
		select {
		case <-ctx.Done():
			return

		case c := <-l.register:
			l.handleRegister(c)

		case c := <-l.unreg:
			l.handleUnregister(c)

		case in := <-l.intents:
			l.dispatch(in.client, in.msg)

		case reply := <-l.rosters:
			reply <- l.store.Snapshot()
		}
	}
}

// Register adds c to the lobby. It reports false if the lobby has stopped.
func (l *Lobby) Register(c *Client) bool {
	select {
	case l.register <- c:
		return true
	case <-l.done:
		return false
	}
}

func (l *Lobby) Unregister(c *Client) {
	select {
	case l.unreg <- c:
	case <-l.done:
	}
}

// Dispatch queues one inbound frame from c for processing.
func (l *Lobby) Dispatch(c *Client, msg ClientMessage) {
	select {
	case l.intents <- intent{client: c, msg: msg}:
	case <-l.done:
	}
}

// Roster returns the current players in join order.
func (l *Lobby) Roster(ctx context.Context) ([]Player, error) {
	reply := make(chan []Player, 1)

	select {
	case l.rosters <- reply:
	case <-l.done:
		return nil, errLobbyClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case players := <-reply:
		return players, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (l *Lobby) handleRegister(c *Client) {
	l.clients[c] = true

	logf(l.cfg, "LOBBY: Connection %s opened (%d connected)", c.id, len(l.clients))

	l.unicast(c, ServerMessage{
		Event: eventSession,
		Data:  SessionInfo{ID: c.id},
	})
}

func (l *Lobby) handleUnregister(c *Client) {
	if l.clients[c] {
		delete(l.clients, c)
		close(c.send)
	}

	l.handleLeave(c)
}

func (l *Lobby) dispatch(c *Client, msg ClientMessage) {
	if !l.clients[c] {
		return
	}

	switch msg.Event {
	case eventJoin:
		req, err := parseJoin(msg.Data)
		if err != nil {
			logf(l.cfg, "LOBBY: Ignoring join from %s: %v", c.id, err)
			return
		}
		l.handleJoin(c, req)

	case eventDrink:
		sodaType, err := coerceString(msg.Data)
		if err != nil {
			logf(l.cfg, "LOBBY: Ignoring drink from %s: %v", c.id, err)
			return
		}
		l.handleDrink(c, sodaType)

	case eventChat:
		template, err := coerceString(msg.Data)
		if err != nil {
			logf(l.cfg, "LOBBY: Ignoring chat from %s: %v", c.id, err)
			return
		}
		l.handleChat(c, template)

	default:
		logf(l.cfg, "LOBBY: Ignoring unknown event %q from %s", msg.Event, c.id)
	}
}

// handleJoin never overwrites an existing record; a second join from the same
// connection is dropped.
func (l *Lobby) handleJoin(c *Client, req JoinRequest) {
	if _, ok := l.store.Get(c.id); ok {
		logf(l.cfg, "LOBBY: Ignoring repeated join from %s", c.id)
		return
	}

	existing := l.store.Snapshot()

	l.store.Create(c.id, req.Username, req.Avatar, req.ButtSize)
	player, _ := l.store.Get(c.id)

	l.unicast(c, ServerMessage{
		Event: eventPlayersList,
		Data:  existing,
	})

	l.broadcast(ServerMessage{
		Event: eventPlayerJoined,
		Data:  player,
	}, c)

	logf(l.cfg, "LOBBY: %s joined the game (Butt Size: %s)", player.Username, player.ButtSize)
}

func (l *Lobby) handleDrink(c *Client, sodaType string) {
	player, ok := l.store.Increment(c.id)
	if !ok {
		logf(l.cfg, "LOBBY: Ignoring drink from unjoined connection %s", c.id)
		return
	}

	l.broadcast(ServerMessage{
		Event: eventSodaDrunk,
		Data: SodaDrunk{
			PlayerID: player.ID,
			Username: player.Username,
			SodaType: sodaType,
			NewCount: player.SodaCount,
		},
	}, nil)

	logf(l.cfg, "LOBBY: %s drank %s. Total: %d", player.Username, sodaType, player.SodaCount)
}

func (l *Lobby) handleChat(c *Client, template string) {
	player, ok := l.store.Get(c.id)
	if !ok {
		logf(l.cfg, "LOBBY: Ignoring chat from unjoined connection %s", c.id)
		return
	}

	message := formatChat(template, player.SodaCount)

	l.broadcast(ServerMessage{
		Event: eventChatMessage,
		Data: ChatMessage{
			Username:  player.Username,
			Message:   message,
			Timestamp: l.now().UnixMilli(),
		},
	}, nil)

	logf(l.cfg, "LOBBY: %s: %s", player.Username, message)
}

func (l *Lobby) handleLeave(c *Client) {
	player, ok := l.store.Remove(c.id)
	if !ok {
		return
	}

	l.broadcast(ServerMessage{
		Event: eventPlayerLeft,
		Data:  c.id,
	}, nil)

	logf(l.cfg, "LOBBY: %s disconnected", player.Username)
}

// unicast queues msg for c, dropping c if its queue is full.
func (l *Lobby) unicast(c *Client, msg ServerMessage) {
	if !l.clients[c] {
		return
	}

	select {
	case c.send <- msg:
	default:
		l.drop(c)
	}
}

// broadcast queues msg for every connected client other than except.
func (l *Lobby) broadcast(msg ServerMessage, except *Client) {
	for c := range l.clients {
		if c == except {
			continue
		}

		select {
		case c.send <- msg:
		default:
			l.drop(c)
		}
	}
}

// drop detaches a client that cannot keep up. Closing its queue ends the write
// pump, which closes the socket; the read pump then unregisters it and the
// departure is handled there.
func (l *Lobby) drop(c *Client) {
	logf(l.cfg, "LOBBY: Dropping slow connection %s", c.id)

	delete(l.clients, c)
	close(c.send)
}

func (l *Lobby) closeAll() {
	for c := range l.clients {
		delete(l.clients, c)
		close(c.send)
	}
}

