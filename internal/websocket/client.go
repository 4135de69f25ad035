// Package websocket handles websocket connections and messaging: a thin
// JSON envelope protocol in front of the lobby and game managers.
package websocket

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nthieu173/disastle/internal/castle"
	"github.com/nthieu173/disastle/internal/catalog"
	"github.com/nthieu173/disastle/internal/game"
	"github.com/nthieu173/disastle/internal/lobby"
	"github.com/nthieu173/disastle/internal/room"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512 * 1024
)

var (
	newline = []byte{'\n'}
	space   = []byte{' '}
)

// ServerDeps contains references to other subsystems used by websocket clients.
type ServerDeps struct {
	Lobby *lobby.Manager
	Games *game.Manager
}

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	hub *Hub

	conn *websocket.Conn
	send chan []byte
	id   string

	deps ServerDeps

	seatsByGame map[string]game.PlayerSecret
}

type inboundMsg struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type createGamePayload struct {
	Name       string `json:"name"`
	Catalog    string `json:"catalog"`
	MaxPlayers int    `json:"maxPlayers"`
}

type joinGamePayload struct {
	GameID string `json:"gameId"`
	Name   string `json:"name"`
}

type startGamePayload struct {
	GameID string `json:"gameId"`
}

type actionPayload struct {
	GameID           string        `json:"gameId"`
	ActionID         string        `json:"actionId,omitempty"`
	ExpectedRevision *int          `json:"expectedRevision,omitempty"`
	Kind             string        `json:"kind"`
	ShopIndex        int           `json:"shopIndex,omitempty"`
	Pos              room.Position `json:"pos,omitempty"`
	From             room.Position `json:"from,omitempty"`
	To               room.Position `json:"to,omitempty"`
}

type getStatePayload struct {
	GameID string `json:"gameId"`
}

func (c *Client) bindSeat(gameID string, secret game.PlayerSecret) {
	if c.seatsByGame == nil {
		c.seatsByGame = make(map[string]game.PlayerSecret)
	}
	c.seatsByGame[gameID] = secret
}

func (c *Client) seatForGame(gameID string) game.PlayerSecret {
	if c.seatsByGame == nil {
		return ""
	}
	return c.seatsByGame[gameID]
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error: %v", err)
			}
			break
		}
		message = bytes.TrimSpace(bytes.ReplaceAll(message, newline, space))

		var env inboundMsg
		if err := json.Unmarshal(message, &env); err != nil {
			log.Printf("received non-JSON message from %s: %s", c.id, string(message))
			continue
		}

		c.handleInboundMessage(env)
	}
}

func (c *Client) handleInboundMessage(env inboundMsg) {
	switch env.Type {
	case "list_games":
		c.handleListGames()
	case "create_game":
		c.handleCreateGame(env.Payload)
	case "join_game":
		c.handleJoinGame(env.Payload)
	case "start_game":
		c.handleStartGame(env.Payload)
	case "get_game_state":
		c.handleGetGameState(env.Payload)
	case "perform_action":
		c.handlePerformAction(env.Payload)
	default:
		log.Printf("unknown message type: %s", env.Type)
	}
}

func (c *Client) handleListGames() {
	games := c.deps.Lobby.ListGames()
	c.sendJSON("lobby_state", games)
}

func (c *Client) handleCreateGame(payload json.RawMessage) {
	var p createGamePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		log.Printf("error parsing create_game payload: %v", err)
		return
	}
	if p.MaxPlayers <= 0 {
		c.sendError("invalid_max_players")
		return
	}
	meta := c.deps.Lobby.CreateGame(p.Name, p.Catalog, p.MaxPlayers)
	c.sendJSON("game_created", meta)
}

func (c *Client) handleJoinGame(payload json.RawMessage) {
	var p joinGamePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		log.Printf("error parsing join_game payload: %v", err)
		return
	}
	secret, ok := c.deps.Lobby.JoinGame(p.GameID, p.Name)
	if !ok {
		c.sendError("join_failed")
		return
	}
	c.bindSeat(p.GameID, secret)
	c.hub.JoinGame(c, p.GameID)
	c.sendJSON("joined_game", map[string]any{"gameId": p.GameID, "secret": secret})
}

func (c *Client) handleStartGame(payload json.RawMessage) {
	var p startGamePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		log.Printf("error parsing start_game payload: %v", err)
		return
	}
	meta, ok := c.lobbyGame(p.GameID)
	if !ok {
		c.sendError("game_not_found")
		return
	}
	setting, err := catalog.Load(meta.Catalog)
	if err != nil {
		log.Printf("error loading catalog %s: %v", meta.Catalog, err)
		c.sendError("catalog_load_failed")
		return
	}
	secrets, ok := c.deps.Lobby.Start(p.GameID)
	if !ok {
		c.sendError("start_failed")
		return
	}
	if err := c.deps.Games.CreateGame(p.GameID, secrets, setting); err != nil {
		log.Printf("error creating game: %v", err)
		c.sendError("create_game_failed")
		return
	}
	c.broadcastGameState(p.GameID)
}

func (c *Client) lobbyGame(gameID string) (*lobby.GameMeta, bool) {
	for _, meta := range c.deps.Lobby.ListGames() {
		if meta.ID == gameID {
			return meta, true
		}
	}
	return nil, false
}

func (c *Client) handleGetGameState(payload json.RawMessage) {
	var p getStatePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		log.Printf("error parsing get_game_state payload: %v", err)
		return
	}
	c.hub.JoinGame(c, p.GameID)
	c.sendGameState(p.GameID)
}

func (c *Client) sendGameState(gameID string) {
	gs, ok := c.deps.Games.GetGame(gameID)
	if !ok {
		c.sendError("game_not_found")
		return
	}
	c.sendJSON("game_state_update", gs)
}

func (c *Client) broadcastGameState(gameID string) {
	gs, ok := c.deps.Games.GetGame(gameID)
	if !ok {
		return
	}
	msg, err := json.Marshal(map[string]any{"type": "game_state_update", "payload": gs})
	if err != nil {
		log.Printf("error marshaling game state: %v", err)
		return
	}
	c.hub.BroadcastToGame(gameID, msg)
}

func (c *Client) handlePerformAction(payload json.RawMessage) {
	var p actionPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		log.Printf("error parsing perform_action payload: %v", err)
		return
	}
	secret := c.seatForGame(p.GameID)
	if secret == "" {
		c.sendActionRejected(p.ActionID, "not_in_game", "client has no seat bound for this game")
		return
	}
	act, err := decodeAction(p)
	if err != nil {
		c.sendActionRejected(p.ActionID, "invalid_action", err.Error())
		return
	}
	expectedRevision := -1
	if p.ExpectedRevision != nil {
		expectedRevision = *p.ExpectedRevision
	}
	result, err := c.deps.Games.ExecuteAction(p.GameID, secret, act, game.ActionMeta{
		ActionID:         p.ActionID,
		ExpectedRevision: expectedRevision,
	})
	if err != nil {
		c.sendActionRejected(p.ActionID, "rejected", err.Error())
		return
	}
	c.sendJSON("action_applied", result)
	c.broadcastGameState(p.GameID)
}

func decodeAction(p actionPayload) (castle.Action, error) {
	switch p.Kind {
	case "place":
		return castle.PlaceAction(p.ShopIndex, p.Pos), nil
	case "move":
		return castle.MoveAction(p.From, p.To), nil
	case "swap":
		return castle.SwapAction(p.From, p.To), nil
	case "discard":
		return castle.DiscardAction(p.Pos), nil
	default:
		return castle.Action{}, fmt.Errorf("unknown action kind %q", p.Kind)
	}
}

func (c *Client) sendJSON(msgType string, payload any) {
	msg, err := json.Marshal(map[string]any{"type": msgType, "payload": payload})
	if err != nil {
		log.Printf("error marshaling %s message: %v", msgType, err)
		return
	}
	c.send <- msg
}

func (c *Client) sendError(code string) {
	c.sendJSON("error", code)
}

func (c *Client) sendActionRejected(actionID, code, message string) {
	c.sendJSON("action_rejected", map[string]any{
		"actionId": actionID,
		"error":    code,
		"message":  message,
	})
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			if err := c.handleWriteMessage(message, ok); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.handlePing(); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleWriteMessage(message []byte, ok bool) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	if !ok {
		_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
		return fmt.Errorf("channel closed")
	}

	w, err := c.conn.NextWriter(websocket.TextMessage)
	if err != nil {
		return err
	}
	if _, err := w.Write(message); err != nil {
		return err
	}

	return w.Close()
}

func (c *Client) handlePing() error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.PingMessage, nil)
}
