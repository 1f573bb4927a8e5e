package main

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// clientMessage is the single envelope for every inbound event.
type clientMessage struct {
	Type       string `json:"type"`                 // "create-room", "join-room", "join-as-player", "start-challenge", "send-hint", "submit-guess", "chat-message"
	RoomName   string `json:"roomName,omitempty"`   // create-room
	HostName   string `json:"hostName,omitempty"`   // create-room
	RoomCode   string `json:"roomCode,omitempty"`   // everything else
	PlayerName string `json:"playerName,omitempty"` // join-room
	PlayerID   string `json:"playerId,omitempty"`
	Word       string `json:"word,omitempty"`    // start-challenge
	Hint       string `json:"hint,omitempty"`    // send-hint
	Guess      string `json:"guess,omitempty"`   // submit-guess
	Message    string `json:"message,omitempty"` // chat-message
}

type errorMessage struct {
	Type       string `json:"type"` // "error"
	Message    string `json:"message"`
	PlayBuzzer bool   `json:"playBuzzer,omitempty"`
}

type roomCreatedMessage struct {
	Type       string `json:"type"` // "room-created"
	RoomCode   string `json:"roomCode"`
	RoomName   string `json:"roomName"`
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	IsHost     bool   `json:"isHost"`
}

type roomJoinedMessage struct {
	Type       string `json:"type"` // "room-joined"
	RoomCode   string `json:"roomCode"`
	RoomName   string `json:"roomName"`
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	IsHost     bool   `json:"isHost"`
}

type joinedAsPlayerMessage struct {
	Type    string `json:"type"` // "joined-as-player"
	Success bool   `json:"success"`
}

type challengeStartedMessage struct {
	Type       string `json:"type"` // "challenge-started"
	WordLength int    `json:"wordLength"`
}

type hintReceivedMessage struct {
	Type      string    `json:"type"` // "hint-received"
	Hint      string    `json:"hint"`
	Timestamp time.Time `json:"timestamp"`
}

type guessResultMessage struct {
	Type string `json:"type"` // "guess-result"
	GuessResult
}

type chatMessage struct {
	Type string `json:"type"` // "chat-message"
	ChatEntry
}

func newChatMessage(e ChatEntry) chatMessage {
	return chatMessage{Type: "chat-message", ChatEntry: e}
}

// Client is one websocket connection. It is bound to a room and member
// after the first successful create-room or join-room event; binding is
// only touched from the read pump.
type Client struct {
	conn *websocket.Conn

	mu     sync.Mutex
	send   chan any
	closed bool

	roomCode string
	memberID string
}

// trySend queues msg for the write pump. Sends after Close are dropped;
// the closed check and the channel send share c.mu so a concurrent
// Close can never expose a closed channel to the select.
func (c *Client) trySend(msg any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	select {
	case c.send <- msg:
	default:
		// slow consumer, drop the message rather than block the room
	}
}

func (c *Client) Close() {
	c.mu.Lock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
	c.mu.Unlock()

	if c.conn != nil {
		_ = c.conn.Close()
	}
}

func (c *Client) writePump() {
	defer func() {
		_ = c.conn.Close()
	}()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// Gateway translates inbound websocket events into registry and room
// calls and fans the results back out.
type Gateway struct {
	cfg      *Config
	dict     *Dictionary
	registry *Registry
}

func newGateway(cfg *Config, dict *Dictionary, registry *Registry) *Gateway {
	return &Gateway{
		cfg:      cfg,
		dict:     dict,
		registry: registry,
	}
}

func (g *Gateway) handleWS(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Debug().Err(err).Str("remote", realIP(r)).Msg("websocket upgrade failed")
		return
	}

	client := &Client{
		conn: conn,
		send: make(chan any, 32),
	}

	go client.writePump()
	client.readPump(g)
}

func (c *Client) readPump(g *Gateway) {
	defer func() {
		g.dropClient(c)
		c.Close()
	}()

	for {
		var msg clientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		switch msg.Type {
		case "create-room":
			g.handleCreateRoom(c, msg)
		case "join-room":
			g.handleJoinRoom(c, msg)
		case "join-as-player":
			g.handleJoinAsPlayer(c, msg)
		case "start-challenge":
			g.handleStartChallenge(c, msg)
		case "send-hint":
			g.handleSendHint(c, msg)
		case "submit-guess":
			g.handleSubmitGuess(c, msg)
		case "chat-message":
			g.handleChatMessage(c, msg)
		default:
			c.trySend(errorMessage{Type: "error", Message: "Unknown message type"})
		}
	}
}

// dropClient clears the member's connection reference on disconnect.
// Identity and board persist; other clients just see connected=false.
func (g *Gateway) dropClient(c *Client) {
	if c.memberID == "" {
		return
	}

	room, ok := g.registry.Lookup(c.roomCode)
	if !ok {
		return
	}

	room.DetachClient(c.memberID, c)
	room.BroadcastState()

	log.Debug().Str("room", c.roomCode).Str("player", c.memberID).Msg("client disconnected")
}

// resolveRoom looks up the room for an event, notifying the initiator
// when the code is unknown.
func (g *Gateway) resolveRoom(c *Client, code string) (*Room, bool) {
	room, ok := g.registry.Lookup(code)
	if !ok {
		c.trySend(errorMessage{Type: "error", Message: "Room not found"})
	}
	return room, ok
}

func (g *Gateway) handleCreateRoom(c *Client, msg clientMessage) {
	room, host, err := g.registry.Create(msg.RoomName, msg.HostName)
	if err != nil {
		c.trySend(errorMessage{Type: "error", Message: "Unable to create room"})
		return
	}

	// A socket that was already bound leaves its previous member behind;
	// detach it so no room keeps a stale pointer to this client.
	g.dropClient(c)

	c.roomCode = room.Code()
	c.memberID = host.ID
	room.AttachClient(host.ID, c)

	log.Info().Str("room", room.Code()).Str("host", msg.HostName).Msg("room created")

	c.trySend(roomCreatedMessage{
		Type:       "room-created",
		RoomCode:   room.Code(),
		RoomName:   room.Name(),
		PlayerID:   host.ID,
		PlayerName: host.Name,
		IsHost:     true,
	})

	room.BroadcastState()
}

func (g *Gateway) handleJoinRoom(c *Client, msg clientMessage) {
	room, ok := g.resolveRoom(c, msg.RoomCode)
	if !ok {
		return
	}

	// Rebinding releases the socket's previous member first, so no room
	// keeps a stale pointer to this client.
	g.dropClient(c)

	// A known playerId means this is a reconnect, not a new spectator.
	if msg.PlayerID != "" {
		if member, err := room.Reattach(msg.PlayerID, c); err == nil {
			c.roomCode = room.Code()
			c.memberID = member.ID

			log.Debug().Str("room", room.Code()).Str("player", member.Name).Msg("client reattached")

			c.trySend(roomJoinedMessage{
				Type:       "room-joined",
				RoomCode:   room.Code(),
				RoomName:   room.Name(),
				PlayerID:   member.ID,
				PlayerName: member.Name,
				IsHost:     member.Role == RoleHost,
			})
			room.BroadcastState()
			return
		}
	}

	member := room.Join(msg.PlayerName)
	c.roomCode = room.Code()
	c.memberID = member.ID
	room.AttachClient(member.ID, c)

	log.Info().Str("room", room.Code()).Str("player", msg.PlayerName).Msg("player joined room")

	c.trySend(roomJoinedMessage{
		Type:       "room-joined",
		RoomCode:   room.Code(),
		RoomName:   room.Name(),
		PlayerID:   member.ID,
		PlayerName: member.Name,
		IsHost:     false,
	})

	entry := room.PostSystemChat(member.Name + " joined the room")
	room.Broadcast(newChatMessage(entry))
	room.BroadcastState()
}

func (g *Gateway) handleJoinAsPlayer(c *Client, msg clientMessage) {
	room, ok := g.resolveRoom(c, msg.RoomCode)
	if !ok {
		return
	}

	member, err := room.JoinAsPlayer(msg.PlayerID)
	if err != nil {
		c.trySend(errorMessage{Type: "error", Message: promotionErrorText(err)})
		return
	}

	log.Info().Str("room", room.Code()).Str("player", member.Name).Msg("spectator promoted to player")

	entry := room.PostSystemChat(member.Name + " joined as a player")
	room.Broadcast(newChatMessage(entry))

	c.trySend(joinedAsPlayerMessage{Type: "joined-as-player", Success: true})
	room.BroadcastState()
}

func (g *Gateway) handleStartChallenge(c *Client, msg clientMessage) {
	room, ok := g.resolveRoom(c, msg.RoomCode)
	if !ok {
		return
	}

	word, err := room.StartChallenge(msg.PlayerID, msg.Word)
	switch {
	case errors.Is(err, errNotHost):
		c.trySend(errorMessage{Type: "error", Message: "Only host can start challenges"})
		return
	case errors.Is(err, errInvalidWord):
		c.trySend(errorMessage{Type: "error", Message: "Choose another word", PlayBuzzer: true})
		return
	case err != nil:
		c.trySend(errorMessage{Type: "error", Message: "Unable to start challenge"})
		return
	}

	log.Info().Str("room", room.Code()).Int("wordLength", len(word)).Msg("challenge started")

	entry := room.PostSystemChat(fmt.Sprintf("New challenge started! The word is %d letters long.", len(word)))
	room.Broadcast(newChatMessage(entry))
	room.Broadcast(challengeStartedMessage{Type: "challenge-started", WordLength: len(word)})
	room.BroadcastState()
}

func (g *Gateway) handleSendHint(c *Client, msg clientMessage) {
	room, ok := g.resolveRoom(c, msg.RoomCode)
	if !ok {
		return
	}

	hint, err := room.AddHint(msg.PlayerID, msg.Hint)
	if err != nil {
		c.trySend(errorMessage{Type: "error", Message: "Only host can send hints"})
		return
	}

	room.Broadcast(hintReceivedMessage{
		Type:      "hint-received",
		Hint:      hint.Text,
		Timestamp: hint.Timestamp,
	})

	entry := room.PostChat(msg.PlayerID, "💡 Hint: "+hint.Text)
	room.Broadcast(newChatMessage(entry))
	room.BroadcastState()
}

func (g *Gateway) handleSubmitGuess(c *Client, msg clientMessage) {
	room, ok := g.resolveRoom(c, msg.RoomCode)
	if !ok {
		return
	}

	result, notice, err := room.SubmitGuess(msg.PlayerID, msg.Guess)
	if err != nil {
		c.trySend(errorMessage{Type: "error", Message: guessErrorText(err)})
		return
	}

	log.Debug().Str("room", room.Code()).Str("player", msg.PlayerID).Bool("won", result.Won).Msg("guess submitted")

	c.trySend(guessResultMessage{Type: "guess-result", GuessResult: *result})

	if notice != nil {
		room.Broadcast(newChatMessage(*notice))
	}
	room.BroadcastState()
}

func (g *Gateway) handleChatMessage(c *Client, msg clientMessage) {
	room, ok := g.resolveRoom(c, msg.RoomCode)
	if !ok {
		return
	}

	entry := room.PostChat(msg.PlayerID, msg.Message)
	room.Broadcast(newChatMessage(entry))
	room.BroadcastState()
}

func promotionErrorText(err error) string {
	switch {
	case errors.Is(err, errRoomFull):
		return "Game is full (7 players max)"
	case errors.Is(err, errMemberNotFound):
		return "Player not found in game"
	case errors.Is(err, errNotHost):
		return "The host cannot join as a player"
	}
	return "Cannot join as player"
}

func guessErrorText(err error) string {
	switch {
	case errors.Is(err, errMemberNotFound):
		return "Player not found in game"
	case errors.Is(err, errNotAPlayer):
		return "You must join as a player first"
	case errors.Is(err, errAlreadyFinished):
		return "Your game is already over"
	case errors.Is(err, errNoActiveChallenge):
		return "No active challenge. Host needs to start a challenge first."
	case errors.Is(err, errInvalidWord):
		return "Not in word list"
	case errors.Is(err, errWrongLength):
		return "Must be 5 letters"
	}
	return "Cannot submit guess"
}
