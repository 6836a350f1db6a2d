/*
Copyright © 2025 Seednode <seednode@seedno.de>
*/

package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// Inbound event names
const (
	eventJoin  = "join"
	eventDrink = "drink-soda"
	eventChat  = "chat-message"
)

// Outbound event names
const (
	eventSession      = "session"
	eventPlayersList  = "players-update"
	eventPlayerJoined = "player-joined"
	eventPlayerLeft   = "player-left"
	eventSodaDrunk    = "soda-drunk"
	eventChatMessage  = "chat-message"
)

const (
	defaultAvatar   = "😀"
	defaultButtSize = "Regular"

	// First occurrence is replaced with the sender's soda count.
	sodaCountToken = "{x}"
)

var (
	errEmptyPayload   = errors.New("empty payload")
	errUnsupportedArg = errors.New("unsupported payload type")
)

// ClientMessage is a single frame received from a client.
type ClientMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// ServerMessage is a single frame sent to a client.
type ServerMessage struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// SessionInfo tells a freshly connected client which ID the server knows it by.
type SessionInfo struct {
	ID string `json:"id"`
}

type SodaDrunk struct {
	PlayerID string `json:"playerId"`
	Username string `json:"username"`
	SodaType string `json:"sodaType"`
	NewCount int    `json:"newCount"`
}

type ChatMessage struct {
	Username  string `json:"username"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"` // unix milliseconds
}

// JoinRequest is the canonical form of a join payload, whichever shape it arrived in.
type JoinRequest struct {
	Username string
	Avatar   string
	ButtSize string
}

// joinObject is the structured join payload. Fields are decoded leniently so
// that a stray number does not reject the whole join.
type joinObject struct {
	Username json.RawMessage `json:"username"`
	Avatar   json.RawMessage `json:"avatar"`
	ButtSize json.RawMessage `json:"buttSize"`
}

// parseJoin accepts either a bare username string or a
// {username, avatar, buttSize} object.
func parseJoin(raw json.RawMessage) (JoinRequest, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return JoinRequest{}, errEmptyPayload
	}

	req := JoinRequest{
		Avatar:   defaultAvatar,
		ButtSize: defaultButtSize,
	}

	switch raw[0] {
	case '"':
		if err := json.Unmarshal(raw, &req.Username); err != nil {
			return JoinRequest{}, err
		}
		return req, nil

	case '{':
		var obj joinObject
		if err := json.Unmarshal(raw, &obj); err != nil {
			return JoinRequest{}, err
		}

		// Username is taken as-is, even when empty.
		req.Username, _ = coerceString(obj.Username)

		if avatar, _ := coerceString(obj.Avatar); avatar != "" {
			req.Avatar = avatar
		}
		if size, _ := coerceString(obj.ButtSize); size != "" {
			req.ButtSize = size
		}
		return req, nil
	}

	return JoinRequest{}, errUnsupportedArg
}

// coerceString turns a scalar JSON value into a string: strings as-is, numbers
// and booleans as their literal text, null or absent as "". Arrays and objects
// are rejected.
func coerceString(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", nil
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	case '{', '[':
		return "", errUnsupportedArg
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", err
	}
	if v == nil {
		return "", nil
	}

	return string(raw), nil
}

// formatChat substitutes the first {x} in template with count.
func formatChat(template string, count int) string {
	return strings.Replace(template, sodaCountToken, strconv.Itoa(count), 1)
}
