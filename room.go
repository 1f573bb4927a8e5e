package main

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// maxPlayers caps active guessers per room; the host never counts.
const maxPlayers = 7

var (
	errRoomNotFound      = errors.New("room not found")
	errMemberNotFound    = errors.New("member not found")
	errNotHost           = errors.New("requester is not the host")
	errNotAPlayer        = errors.New("member is not a player")
	errRoomFull          = errors.New("room already has the maximum number of players")
	errInvalidWord       = errors.New("word is not in the word list")
	errWrongLength       = errors.New("word has the wrong length")
	errAlreadyFinished   = errors.New("player already finished this challenge")
	errNoActiveChallenge = errors.New("no active challenge")
)

type Role int

const (
	RoleHost Role = iota
	RolePlayer
	RoleSpectator
)

// Member is one participant in a room. Identity is assigned at join
// time and survives reconnects; only the client handle comes and goes.
type Member struct {
	ID   string
	Name string
	Role Role

	client *Client // nil while disconnected

	board    *Board
	finished bool
	won      bool
}

// ChatAuthor distinguishes server-generated notices from member chat
// without resorting to a sentinel member ID.
type ChatAuthor struct {
	System   bool
	MemberID string
}

func systemAuthor() ChatAuthor {
	return ChatAuthor{System: true}
}

func memberAuthor(id string) ChatAuthor {
	return ChatAuthor{MemberID: id}
}

// ChatEntry is the wire form of one chat line. The author variant is
// kept alongside; "system" only appears in the marshaled playerId.
type ChatEntry struct {
	ID         string    `json:"id"`
	PlayerID   string    `json:"playerId"`
	PlayerName string    `json:"playerName"`
	IsHost     bool      `json:"isHost"`
	Message    string    `json:"message"`
	Timestamp  time.Time `json:"timestamp"`

	author ChatAuthor
}

type Hint struct {
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// GuessResult is the private acknowledgment for one committed guess.
type GuessResult struct {
	Guess    string    `json:"guess"`
	Results  []Verdict `json:"results"`
	Won      bool      `json:"won"`
	GameOver bool      `json:"gameOver"`
	Board    [][]Cell  `json:"board"`
}

// Room owns every piece of state for one play session. All mutations
// run under mu; helpers with the Locked suffix assume it is held.
type Room struct {
	mu sync.Mutex

	code      string
	name      string
	hostID    string
	dict      *Dictionary
	members   map[string]*Member
	order     []string // join order, for stable snapshot listings
	secret    string
	active    bool
	hints     []Hint
	chat      []ChatEntry
	createdAt time.Time
}

func newRoom(code, name, hostName string, dict *Dictionary) *Room {
	r := &Room{
		code:      code,
		name:      name,
		dict:      dict,
		members:   make(map[string]*Member),
		createdAt: time.Now(),
	}

	host := &Member{
		ID:    uuid.NewString(),
		Name:  hostName,
		Role:  RoleHost,
		board: newBoard(),
	}
	r.hostID = host.ID
	r.members[host.ID] = host
	r.order = append(r.order, host.ID)

	return r
}

func (r *Room) Code() string {
	return r.code
}

func (r *Room) Name() string {
	return r.name
}

func (r *Room) HostID() string {
	return r.hostID
}

func (r *Room) CreatedAt() time.Time {
	return r.createdAt
}

// Host returns the host member.
func (r *Room) Host() *Member {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.members[r.hostID]
}

// Join adds a new spectator and returns it.
func (r *Room) Join(name string) *Member {
	r.mu.Lock()
	defer r.mu.Unlock()

	m := &Member{
		ID:   uuid.NewString(),
		Name: name,
		Role: RoleSpectator,
	}
	r.members[m.ID] = m
	r.order = append(r.order, m.ID)

	return m
}

// Reattach binds a fresh connection to an existing member, preserving
// its role and board across reconnects.
func (r *Room) Reattach(memberID string, c *Client) (*Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.members[memberID]
	if !ok {
		return nil, errMemberNotFound
	}
	m.client = c

	return m, nil
}

// AttachClient binds a connection to a member.
func (r *Room) AttachClient(memberID string, c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m, ok := r.members[memberID]; ok {
		m.client = c
	}
}

// DetachClient clears the member's connection, but only if it still
// points at c, so a reconnect is never clobbered by a stale socket.
func (r *Room) DetachClient(memberID string, c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m, ok := r.members[memberID]; ok && m.client == c {
		m.client = nil
	}
}

// JoinAsPlayer promotes a spectator to an active player. Promotion is
// one-way; the host stays a referee and never occupies a player slot.
func (r *Room) JoinAsPlayer(memberID string) (*Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.members[memberID]
	if !ok {
		return nil, errMemberNotFound
	}
	if m.Role == RoleHost {
		return nil, errNotHost
	}
	if m.Role == RolePlayer {
		return m, nil
	}
	if r.playerCountLocked() >= maxPlayers {
		return nil, errRoomFull
	}

	m.Role = RolePlayer
	m.board = newBoard()
	m.finished = false
	m.won = false

	return m, nil
}

// StartChallenge sets a new secret, clears the hint log, and resets
// every player's board. The host's own board is left alone. Returns the
// normalized word.
func (r *Room) StartChallenge(requesterID, word string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if requesterID != r.hostID {
		return "", errNotHost
	}

	w := normalizeWord(word)
	if !r.dict.IsValid(w) {
		return "", errInvalidWord
	}

	r.secret = w
	r.active = true
	r.hints = nil

	for _, m := range r.members {
		if m.Role != RolePlayer {
			continue
		}
		m.board = newBoard()
		m.finished = false
		m.won = false
	}

	return w, nil
}

// SubmitGuess commits one guess for a player. On success it returns the
// verdict row plus board snapshot and, when the guess ends the player's
// run, the system chat entry announcing it (already appended).
func (r *Room) SubmitGuess(memberID, guess string) (*GuessResult, *ChatEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.members[memberID]
	if !ok {
		return nil, nil, errMemberNotFound
	}
	if m.Role != RolePlayer {
		return nil, nil, errNotAPlayer
	}
	if m.finished {
		return nil, nil, errAlreadyFinished
	}
	if !r.active {
		return nil, nil, errNoActiveChallenge
	}

	g := normalizeWord(guess)
	if !r.dict.IsValid(g) {
		return nil, nil, errInvalidWord
	}
	if len(g) != wordLength {
		return nil, nil, errWrongLength
	}

	verdicts, err := m.board.CommitRow(g, r.secret)
	if err != nil {
		return nil, nil, err
	}

	if g == r.secret {
		m.won = true
		m.finished = true
	} else if m.board.Cursor() >= boardRows {
		m.finished = true
	}

	var notice *ChatEntry
	if m.won {
		e := r.postSystemChatLocked("🎉 " + m.Name + " solved the word: " + r.secret + "!")
		notice = &e
	} else if m.finished {
		e := r.postSystemChatLocked(m.Name + " didn't solve it this time.")
		notice = &e
	}

	result := &GuessResult{
		Guess:    g,
		Results:  verdicts,
		Won:      m.won,
		GameOver: m.finished,
		Board:    m.board.Rows(),
	}

	return result, notice, nil
}

// AddHint appends a host-authored hint to the current challenge.
func (r *Room) AddHint(requesterID, text string) (Hint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if requesterID != r.hostID {
		return Hint{}, errNotHost
	}

	h := Hint{Text: text, Timestamp: time.Now()}
	r.hints = append(r.hints, h)

	return h, nil
}

// PostChat appends a member-authored chat entry. Unknown member IDs
// degrade to a system-authored notice rather than failing.
func (r *Room) PostChat(memberID, text string) ChatEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.members[memberID]
	if !ok {
		return r.postSystemChatLocked(text)
	}

	e := ChatEntry{
		ID:         uuid.NewString(),
		PlayerID:   m.ID,
		PlayerName: m.Name,
		IsHost:     m.Role == RoleHost,
		Message:    text,
		Timestamp:  time.Now(),
		author:     memberAuthor(m.ID),
	}
	r.chat = append(r.chat, e)

	return e
}

// PostSystemChat appends a server-generated notice.
func (r *Room) PostSystemChat(text string) ChatEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.postSystemChatLocked(text)
}

func (r *Room) postSystemChatLocked(text string) ChatEntry {
	e := ChatEntry{
		ID:         uuid.NewString(),
		PlayerID:   "system",
		PlayerName: "System",
		Message:    text,
		Timestamp:  time.Now(),
		author:     systemAuthor(),
	}
	r.chat = append(r.chat, e)

	return e
}

// MemberName resolves a member's display name.
func (r *Room) MemberName(memberID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.members[memberID]
	if !ok {
		return "", false
	}
	return m.Name, true
}

func (r *Room) playerCountLocked() int {
	count := 0
	for _, m := range r.members {
		if m.Role == RolePlayer {
			count++
		}
	}
	return count
}

// chatWindow is how many entries the broadcast view keeps.
const chatWindow = 50

func (r *Room) chatWindowLocked() []ChatEntry {
	chat := r.chat
	if len(chat) > chatWindow {
		chat = chat[len(chat)-chatWindow:]
	}
	out := make([]ChatEntry, len(chat))
	copy(out, chat)
	return out
}

// PlayerView is the anonymized board view of one active player (or the
// host) included in room-state broadcasts.
type PlayerView struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	IsHost       bool     `json:"isHost"`
	IsPlaying    bool     `json:"isPlaying"`
	IsSpectating bool     `json:"isSpectating"`
	GameOver     bool     `json:"gameOver"`
	GameWon      bool     `json:"gameWon"`
	Board        [][]Cell `json:"board"`
	Connected    bool     `json:"connected"`
}

type SpectatorView struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	IsHost       bool   `json:"isHost"`
	IsPlaying    bool   `json:"isPlaying"`
	IsSpectating bool   `json:"isSpectating"`
	Connected    bool   `json:"connected"`
}

type PlayerCount struct {
	Playing    int `json:"playing"`
	Spectating int `json:"spectating"`
}

// RoomState is the read-only projection broadcast to every connection.
// CurrentWord is only populated in the host's personalized view.
type RoomState struct {
	Type         string          `json:"type"`
	RoomCode     string          `json:"roomCode"`
	RoomName     string          `json:"roomName"`
	HostID       string          `json:"hostId"`
	HostName     string          `json:"hostName"`
	GameActive   bool            `json:"gameActive"`
	CurrentWord  string          `json:"currentWord,omitempty"`
	Hints        []Hint          `json:"hints"`
	Players      []PlayerView    `json:"players"`
	Spectators   []SpectatorView `json:"spectators"`
	PlayerCount  PlayerCount     `json:"playerCount"`
	ChatMessages []ChatEntry     `json:"chatMessages"`
}

// Snapshot returns the unprivileged projection; it never carries the
// secret.
func (r *Room) Snapshot() RoomState {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.snapshotLocked(nil)
}

func (r *Room) snapshotLocked(viewer *Member) RoomState {
	players := make([]PlayerView, 0, len(r.members))
	spectators := make([]SpectatorView, 0, len(r.members))
	playing := 0

	for _, id := range r.order {
		m := r.members[id]

		if m.Role == RoleSpectator {
			spectators = append(spectators, SpectatorView{
				ID:           m.ID,
				Name:         m.Name,
				IsPlaying:    false,
				IsSpectating: true,
				Connected:    m.client != nil,
			})
			continue
		}

		if m.Role == RolePlayer {
			playing++
		}
		players = append(players, PlayerView{
			ID:           m.ID,
			Name:         m.Name,
			IsHost:       m.Role == RoleHost,
			IsPlaying:    m.Role == RolePlayer,
			IsSpectating: m.Role != RolePlayer,
			GameOver:     m.finished,
			GameWon:      m.won,
			Board:        m.board.Rows(),
			Connected:    m.client != nil,
		})
	}

	state := RoomState{
		Type:       "room-state",
		RoomCode:   r.code,
		RoomName:   r.name,
		HostID:     r.hostID,
		HostName:   r.members[r.hostID].Name,
		GameActive: r.active,
		Hints:      append([]Hint{}, r.hints...),
		Players:    players,
		Spectators: spectators,
		PlayerCount: PlayerCount{
			Playing:    playing,
			Spectating: len(r.members) - playing,
		},
		ChatMessages: r.chatWindowLocked(),
	}

	// The active word is privileged: only the host's own view sees it.
	if viewer != nil && viewer.Role == RoleHost {
		state.CurrentWord = r.secret
	}

	return state
}

// RoomInfo is the stateless HTTP projection of a room.
type RoomInfo struct {
	RoomCode    string      `json:"roomCode"`
	RoomName    string      `json:"roomName"`
	PlayerCount PlayerCount `json:"playerCount"`
	GameActive  bool        `json:"gameActive"`
}

func (r *Room) Info() RoomInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	playing := r.playerCountLocked()

	return RoomInfo{
		RoomCode:    r.code,
		RoomName:    r.name,
		PlayerCount: PlayerCount{Playing: playing, Spectating: len(r.members) - playing},
		GameActive:  r.active,
	}
}

// Broadcast sends msg to every connected member.
func (r *Room) Broadcast(msg any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.broadcastLocked(msg)
}

func (r *Room) broadcastLocked(msg any) {
	for _, m := range r.members {
		if m.client != nil {
			m.client.trySend(msg)
		}
	}
}

// BroadcastState sends each connected member its personalized room
// snapshot.
func (r *Room) BroadcastState() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range r.members {
		if m.client != nil {
			m.client.trySend(r.snapshotLocked(m))
		}
	}
}

// CloseConnections drops every live connection; used when the registry
// evicts the room.
func (r *Room) CloseConnections() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range r.members {
		if m.client != nil {
			m.client.Close()
			m.client = nil
		}
	}
}
