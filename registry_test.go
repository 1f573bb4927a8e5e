package main

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T, retention time.Duration) *Registry {
	t.Helper()

	return newRegistry(newDictionary(&Config{}), retention)
}

func TestNewRoomCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		code := newRoomCode()
		assert.Len(t, code, roomCodeLength)
		for _, r := range code {
			assert.Contains(t, roomCodeAlphabet, string(r))
		}
		seen[code] = true
	}
	assert.Greater(t, len(seen), 1, "codes should not repeat constantly")
}

func TestRegistry_CreateAndLookup(t *testing.T) {
	rg := newTestRegistry(t, time.Hour)

	room, host, err := rg.Create("Family Night", "Hilda")
	require.NoError(t, err)
	require.NotNil(t, room)
	require.NotNil(t, host)

	assert.Equal(t, RoleHost, host.Role)
	assert.Equal(t, "Hilda", host.Name)
	assert.Equal(t, strings.ToUpper(room.Code()), room.Code())
	assert.Equal(t, 1, rg.Len())

	found, ok := rg.Lookup(room.Code())
	require.True(t, ok)
	assert.Same(t, room, found)

	_, ok = rg.Lookup("NOSUCH")
	assert.False(t, ok)
}

func TestRegistry_CodesAreUnique(t *testing.T) {
	rg := newTestRegistry(t, time.Hour)

	codes := map[string]bool{}
	for i := 0; i < 25; i++ {
		room, _, err := rg.Create("room", "host")
		require.NoError(t, err)
		assert.False(t, codes[room.Code()], "duplicate code %s", room.Code())
		codes[room.Code()] = true
	}
	assert.Equal(t, 25, rg.Len())
}

func TestRegistry_Sweep(t *testing.T) {
	rg := newTestRegistry(t, time.Hour)

	room, host, err := rg.Create("Family Night", "Hilda")
	require.NoError(t, err)

	c := newTestClient()
	room.AttachClient(host.ID, c)

	assert.Equal(t, 0, rg.Sweep(time.Now()))
	assert.Equal(t, 1, rg.Len())

	assert.Equal(t, 1, rg.Sweep(time.Now().Add(2*time.Hour)))
	assert.Equal(t, 0, rg.Len())

	_, ok := rg.Lookup(room.Code())
	assert.False(t, ok)

	// eviction tears down live connections
	_, open := <-c.send
	assert.False(t, open, "send channel should be closed after eviction")
}
