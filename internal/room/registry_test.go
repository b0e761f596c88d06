package room

import (
	"log/slog"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.Default()
}

func TestRegistry_CreateGeneratesUniqueNumericCodes(t *testing.T) {
	reg := NewRegistry(testLogger())

	codeFormat := regexp.MustCompile(`^\d{6}$`)
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		r := reg.Create("alice", nil)
		require.Regexp(t, codeFormat, r.Code)
		require.False(t, seen[r.Code], "duplicate room code %s", r.Code)
		seen[r.Code] = true
	}
	assert.Equal(t, 200, reg.Len())
}

func TestRegistry_CreateInitializesRoom(t *testing.T) {
	reg := NewRegistry(testLogger())

	r := reg.Create("alice", []string{"carol"})

	assert.Equal(t, "alice", r.Creator)
	assert.Equal(t, []string{"alice"}, r.Players)
	assert.Len(t, r.Board, 9)
	assert.Empty(t, r.Moves)
	assert.Empty(t, r.Chat)
	assert.Equal(t, []string{"carol"}, r.AllowList)
	assert.Empty(t, r.CurrentPlayer)
	assert.False(t, r.Started)
	assert.False(t, r.Finished)
}

func TestRegistry_GetUnknownCode(t *testing.T) {
	reg := NewRegistry(testLogger())

	r, ok := reg.Get("000000")
	assert.False(t, ok)
	assert.Nil(t, r)
}

func TestRegistry_Delete(t *testing.T) {
	reg := NewRegistry(testLogger())
	r := reg.Create("alice", nil)

	reg.Delete(r.Code)

	_, ok := reg.Get(r.Code)
	assert.False(t, ok)

	// Deleting again is a no-op.
	reg.Delete(r.Code)
}

func TestRegistry_SweepEmptyKeepsOccupiedRooms(t *testing.T) {
	reg := NewRegistry(testLogger())

	occupied := reg.Create("alice", nil)
	abandoned := reg.Create("bob", nil)
	abandoned.Players = nil

	swept := reg.SweepEmpty()

	assert.Equal(t, 1, swept)
	_, ok := reg.Get(occupied.Code)
	assert.True(t, ok, "room with a seated player must not be swept")
	_, ok = reg.Get(abandoned.Code)
	assert.False(t, ok)
}

func TestRegistry_SweepEmptyOnEmptyRegistry(t *testing.T) {
	reg := NewRegistry(testLogger())
	assert.Equal(t, 0, reg.SweepEmpty())
}
