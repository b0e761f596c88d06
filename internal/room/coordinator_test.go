package room

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tictacroom/internal/apperror"
	"tictacroom/internal/game"
)

func newTestCoordinator(t *testing.T) *Coordinator {
	t.Helper()
	return NewCoordinator(NewRegistry(testLogger()), testLogger())
}

func startedRoom(t *testing.T, c *Coordinator, creator, joiner string) *Room {
	t.Helper()
	r := c.CreateRoom(creator, nil)
	res, err := c.Join(r.Code, joiner)
	require.NoError(t, err)
	require.True(t, res.Started)
	return r
}

func TestCoordinator_JoinUnknownRoom(t *testing.T) {
	c := newTestCoordinator(t)

	_, err := c.Join("000000", "bob")
	assert.ErrorIs(t, err, apperror.ErrRoomNotFound)
}

func TestCoordinator_JoinStartsGame(t *testing.T) {
	c := newTestCoordinator(t)
	r := c.CreateRoom("alice", nil)

	res, err := c.Join(r.Code, "bob")
	require.NoError(t, err)

	assert.True(t, res.Started)
	assert.Equal(t, []string{"alice", "bob"}, r.Players)
	assert.Equal(t, game.X, r.Seats["alice"], "first entrant is always X")
	assert.Equal(t, game.O, r.Seats["bob"])
	assert.Equal(t, "alice", r.CurrentPlayer, "X always moves first")
	assert.True(t, r.Started)
}

func TestCoordinator_JoinFullRoom(t *testing.T) {
	c := newTestCoordinator(t)
	r := startedRoom(t, c, "alice", "bob")

	_, err := c.Join(r.Code, "carol")
	assert.ErrorIs(t, err, apperror.ErrRoomFull)
	assert.Len(t, r.Players, 2, "a third player must never be seated")
}

func TestCoordinator_JoinAllowList(t *testing.T) {
	c := newTestCoordinator(t)
	r := c.CreateRoom("alice", []string{"carol"})

	_, err := c.Join(r.Code, "bob")
	assert.ErrorIs(t, err, apperror.ErrNotAuthorized)
	assert.Equal(t, []string{"alice"}, r.Players)

	res, err := c.Join(r.Code, "carol")
	require.NoError(t, err)
	assert.True(t, res.Started)
	assert.Equal(t, game.X, r.Seats["alice"])
}

func TestCoordinator_JoinOwnRoomIsRejected(t *testing.T) {
	c := newTestCoordinator(t)
	r := c.CreateRoom("alice", nil)

	_, err := c.Join(r.Code, "alice")
	assert.ErrorIs(t, err, apperror.ErrAlreadySeated)

	// The creator must keep the X seat open for a real opponent.
	assert.Equal(t, []string{"alice"}, r.Players)
	assert.Empty(t, r.Seats)
	assert.False(t, r.Started)
	assert.Empty(t, r.CurrentPlayer)
}

func TestCoordinator_JoinWithSecondConnectionIsRejected(t *testing.T) {
	c := newTestCoordinator(t)
	r := startedRoom(t, c, "alice", "bob")

	_, err := c.Join(r.Code, "bob")
	assert.ErrorIs(t, err, apperror.ErrAlreadySeated)

	assert.Equal(t, game.X, r.Seats["alice"])
	assert.Equal(t, game.O, r.Seats["bob"])
	assert.Equal(t, "alice", r.CurrentPlayer)

	// The game must stay playable after the rejection.
	res, ok := c.Move(r.Code, "alice", 4)
	require.True(t, ok)
	assert.Equal(t, "bob", res.CurrentPlayer)
}

func TestCoordinator_JoinPublicRoomAlwaysSucceeds(t *testing.T) {
	c := newTestCoordinator(t)
	r := c.CreateRoom("alice", []string{})

	_, err := c.Join(r.Code, "bob")
	assert.NoError(t, err)
}

func TestCoordinator_JoinDeliversChatSnapshot(t *testing.T) {
	c := newTestCoordinator(t)
	r := c.CreateRoom("alice", nil)

	_, ok := c.Chat(r.Code, "alice", "anyone there?")
	require.True(t, ok)

	res, err := c.Join(r.Code, "bob")
	require.NoError(t, err)

	require.Len(t, res.ChatHistory, 1)
	assert.Equal(t, "anyone there?", res.ChatHistory[0].Message)
	assert.Equal(t, "alice", res.ChatHistory[0].Sender)
}

func TestCoordinator_MoveUnknownRoomIsSilentNoop(t *testing.T) {
	c := newTestCoordinator(t)

	res, ok := c.Move("000000", "alice", 0)
	assert.False(t, ok)
	assert.Nil(t, res)
}

func TestCoordinator_MoveOutOfTurnIsRejected(t *testing.T) {
	c := newTestCoordinator(t)
	r := startedRoom(t, c, "alice", "bob")

	_, ok := c.Move(r.Code, "bob", 0)
	assert.False(t, ok, "bob is not the current player")

	assert.Equal(t, game.None, r.Board[0])
	assert.Empty(t, r.Moves)
	assert.Equal(t, "alice", r.CurrentPlayer)
}

func TestCoordinator_MoveBeforeGameStartIsRejected(t *testing.T) {
	c := newTestCoordinator(t)
	r := c.CreateRoom("alice", nil)

	_, ok := c.Move(r.Code, "alice", 0)
	assert.False(t, ok)
	assert.Empty(t, r.Moves)
}

func TestCoordinator_MoveOnOccupiedCellIsRejected(t *testing.T) {
	c := newTestCoordinator(t)
	r := startedRoom(t, c, "alice", "bob")

	_, ok := c.Move(r.Code, "alice", 4)
	require.True(t, ok)

	_, ok = c.Move(r.Code, "bob", 4)
	assert.False(t, ok)

	assert.Equal(t, game.X, r.Board[4])
	assert.Len(t, r.Moves, 1)
	assert.Equal(t, "bob", r.CurrentPlayer, "rejection must not consume the turn")
}

func TestCoordinator_MoveOutOfRangeCellIsRejected(t *testing.T) {
	c := newTestCoordinator(t)
	r := startedRoom(t, c, "alice", "bob")

	for _, cell := range []int{-1, 9, 100} {
		_, ok := c.Move(r.Code, "alice", cell)
		assert.False(t, ok, "cell %d", cell)
	}
	assert.Empty(t, r.Moves)
}

func TestCoordinator_MoveAlternatesTurnAndDerivesSymbol(t *testing.T) {
	c := newTestCoordinator(t)
	r := startedRoom(t, c, "alice", "bob")

	res, ok := c.Move(r.Code, "alice", 4)
	require.True(t, ok)

	assert.Equal(t, game.X, r.Board[4], "symbol is derived from the seat, not the client")
	assert.Equal(t, "bob", res.CurrentPlayer)
	assert.False(t, res.Finished)
	require.Len(t, res.Moves, 1)
	assert.Equal(t, Move{Cell: 4, Player: "alice", Symbol: game.X, MoveNum: 1}, res.Moves[0])

	res, ok = c.Move(r.Code, "bob", 0)
	require.True(t, ok)
	assert.Equal(t, game.O, r.Board[0])
	assert.Equal(t, "alice", res.CurrentPlayer)
	assert.Equal(t, 2, res.Moves[1].MoveNum)
}

func TestCoordinator_WinningMoveFinishesGame(t *testing.T) {
	c := newTestCoordinator(t)
	r := startedRoom(t, c, "alice", "bob")

	// alice completes the top row.
	moves := []struct {
		player string
		cell   int
	}{
		{"alice", 4}, {"bob", 3},
		{"alice", 0}, {"bob", 5},
		{"alice", 1}, {"bob", 6},
	}
	for _, m := range moves {
		_, ok := c.Move(r.Code, m.player, m.cell)
		require.True(t, ok, "move by %s at %d", m.player, m.cell)
	}

	res, ok := c.Move(r.Code, "alice", 2)
	require.True(t, ok)

	assert.True(t, res.Finished)
	assert.Equal(t, "alice", res.Winner)
	assert.Equal(t, OutcomeWin, res.Results["alice"])
	assert.Equal(t, OutcomeLoss, res.Results["bob"])
	assert.True(t, r.Finished)

	// The finished room is frozen: no further moves are accepted.
	_, ok = c.Move(r.Code, "bob", 7)
	assert.False(t, ok)
	assert.Len(t, r.Moves, 7)
}

func TestCoordinator_FullBoardWithoutLineIsDraw(t *testing.T) {
	c := newTestCoordinator(t)
	r := startedRoom(t, c, "alice", "bob")

	// X X O / O O X / X O X — nine valid alternating moves, no line.
	moves := []struct {
		player string
		cell   int
	}{
		{"alice", 0}, {"bob", 2},
		{"alice", 1}, {"bob", 3},
		{"alice", 5}, {"bob", 4},
		{"alice", 6}, {"bob", 7},
	}
	for _, m := range moves {
		_, ok := c.Move(r.Code, m.player, m.cell)
		require.True(t, ok, "move by %s at %d", m.player, m.cell)
	}

	res, ok := c.Move(r.Code, "alice", 8)
	require.True(t, ok)

	assert.True(t, res.Finished)
	assert.Empty(t, res.Winner)
	assert.Equal(t, OutcomeDraw, res.Results["alice"])
	assert.Equal(t, OutcomeDraw, res.Results["bob"])
}

func TestCoordinator_ChatAppendsAndReturnsEntry(t *testing.T) {
	c := newTestCoordinator(t)
	r := startedRoom(t, c, "alice", "bob")

	msg, ok := c.Chat(r.Code, "bob", "gg")
	require.True(t, ok)

	assert.Equal(t, "gg", msg.Message)
	assert.Equal(t, "bob", msg.Sender)
	assert.False(t, msg.Timestamp.IsZero())
	require.Len(t, r.Chat, 1)
	assert.Equal(t, *msg, r.Chat[0])
}

func TestCoordinator_ChatUnknownRoomIsNoop(t *testing.T) {
	c := newTestCoordinator(t)

	_, ok := c.Chat("000000", "alice", "hello?")
	assert.False(t, ok)
}

func TestCoordinator_LeaveMidGameAbandons(t *testing.T) {
	c := newTestCoordinator(t)
	r := startedRoom(t, c, "alice", "bob")

	res, ok := c.Leave(r.Code, "bob")
	require.True(t, ok)

	assert.True(t, res.Abandoned)
	assert.Equal(t, []string{"alice"}, res.Remaining)
	assert.True(t, r.Finished)
}

func TestCoordinator_LeaveLastPlayerDeletesRoom(t *testing.T) {
	c := newTestCoordinator(t)
	r := startedRoom(t, c, "alice", "bob")

	_, ok := c.Leave(r.Code, "bob")
	require.True(t, ok)
	res, ok := c.Leave(r.Code, "alice")
	require.True(t, ok)

	assert.Empty(t, res.Remaining)
	_, found := c.registry.Get(r.Code)
	assert.False(t, found)
}

func TestCoordinator_LeaveByNonMemberIsNoop(t *testing.T) {
	c := newTestCoordinator(t)
	r := c.CreateRoom("alice", nil)

	_, ok := c.Leave(r.Code, "mallory")
	assert.False(t, ok)
	assert.Equal(t, []string{"alice"}, r.Players)
}
