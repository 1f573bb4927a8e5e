package main

import (
	"context"
	"crypto/rand"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	roomCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	roomCodeLength   = 6

	// roomCodeAttempts bounds the collision re-roll loop. With a 36^6
	// code space it only trips if the registry is absurdly full.
	roomCodeAttempts = 100
)

var errNoFreeCode = errors.New("unable to allocate an unused room code")

// Registry owns every live room. Creation, lookup, and eviction all run
// under the same mutex, so a sweep can never remove a room while a
// request is resolving it.
type Registry struct {
	mu        sync.Mutex
	rooms     map[string]*Room
	dict      *Dictionary
	retention time.Duration
}

func newRegistry(dict *Dictionary, retention time.Duration) *Registry {
	return &Registry{
		rooms:     make(map[string]*Room),
		dict:      dict,
		retention: retention,
	}
}

// Create allocates a collision-free room code, registers a new room,
// and returns it along with its host member.
func (rg *Registry) Create(name, hostName string) (*Room, *Member, error) {
	rg.mu.Lock()
	defer rg.mu.Unlock()

	code := ""
	for i := 0; i < roomCodeAttempts; i++ {
		candidate := newRoomCode()
		if _, exists := rg.rooms[candidate]; !exists {
			code = candidate
			break
		}
	}
	if code == "" {
		return nil, nil, errNoFreeCode
	}

	room := newRoom(code, name, hostName, rg.dict)
	rg.rooms[code] = room

	return room, room.Host(), nil
}

// Lookup resolves a room code.
func (rg *Registry) Lookup(code string) (*Room, bool) {
	rg.mu.Lock()
	defer rg.mu.Unlock()

	room, ok := rg.rooms[code]
	return room, ok
}

// Len reports the number of live rooms.
func (rg *Registry) Len() int {
	rg.mu.Lock()
	defer rg.mu.Unlock()

	return len(rg.rooms)
}

// Sweep evicts every room older than the retention window, dropping its
// connections, and returns how many were removed.
func (rg *Registry) Sweep(now time.Time) int {
	rg.mu.Lock()

	var evicted []*Room
	for code, room := range rg.rooms {
		if now.Sub(room.CreatedAt()) > rg.retention {
			delete(rg.rooms, code)
			evicted = append(evicted, room)
		}
	}
	rg.mu.Unlock()

	for _, room := range evicted {
		log.Info().Str("room", room.Code()).Msg("evicting expired room")
		room.CloseConnections()
	}

	return len(evicted)
}

// Run sweeps on a fixed interval until ctx is cancelled. Eviction never
// runs inline with request handling.
func (rg *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			rg.Sweep(now)
		}
	}
}

// newRoomCode generates a random 6-character code via crypto/rand.
// Collisions are the registry's problem, not the generator's.
func newRoomCode() string {
	buf := make([]byte, roomCodeLength)
	if _, err := rand.Read(buf); err != nil {
		panic("crypto/rand failure: " + err.Error())
	}

	out := make([]byte, roomCodeLength)
	for i := range out {
		out[i] = roomCodeAlphabet[int(buf[i])%len(roomCodeAlphabet)]
	}

	return string(out)
}
