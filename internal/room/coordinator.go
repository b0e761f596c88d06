package room

import (
	"log/slog"
	"time"

	"tictacroom/internal/apperror"
	"tictacroom/internal/game"
)

// Outcome is the personalized result of a finished game for one
// participant.
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
	OutcomeDraw Outcome = "draw"
)

// Coordinator applies player actions to rooms and returns the resulting
// state for the gateway to fan out. It performs no socket I/O and must
// never be called concurrently; the gateway's event loop serializes
// every call.
type Coordinator struct {
	registry *Registry
	logger   *slog.Logger
}

// NewCoordinator creates a coordinator over the given registry.
func NewCoordinator(registry *Registry, logger *slog.Logger) *Coordinator {
	return &Coordinator{
		registry: registry,
		logger:   logger,
	}
}

// JoinResult describes a successful join.
type JoinResult struct {
	Room *Room
	// ChatHistory is the catch-up snapshot owed to the joining player
	// before they observe any live broadcast.
	ChatHistory []ChatMessage
	// Started is true when this join seated the second player.
	Started bool
}

// MoveResult describes the state to broadcast after a valid move.
type MoveResult struct {
	Room          *Room
	Board         []game.Mark
	Moves         []Move
	Finished      bool
	Winner        string             // username of the winner, "" on draw or ongoing game
	Results       map[string]Outcome // per-participant outcome, set only when Finished
	CurrentPlayer string             // next to move, set only when not Finished
}

// LeaveResult describes the aftermath of a player leaving a room.
type LeaveResult struct {
	Room *Room
	// Abandoned is true when the departure ended a game in progress.
	Abandoned bool
	Remaining []string
}

// CreateRoom creates a room with the creator in the first seat.
func (c *Coordinator) CreateRoom(creator string, allowList []string) *Room {
	return c.registry.Create(creator, allowList)
}

// Join seats a player in a room. Structural failures are returned to be
// surfaced in the join acknowledgment: apperror.ErrRoomNotFound,
// apperror.ErrAlreadySeated, apperror.ErrRoomFull, or
// apperror.ErrNotAuthorized.
//
// Seating the second player fixes the seat assignment for the whole
// match: the first entrant is X and always moves first.
func (c *Coordinator) Join(code, username string) (*JoinResult, error) {
	r, ok := c.registry.Get(code)
	if !ok {
		return nil, apperror.ErrRoomNotFound
	}

	// One seat per username. Without this check a self-join collapses
	// both seat entries onto one key and the turn alternation breaks.
	if r.HasPlayer(username) {
		return nil, apperror.ErrAlreadySeated
	}

	if len(r.Players) >= MaxPlayers {
		return nil, apperror.ErrRoomFull
	}

	if !r.Allows(username) {
		c.logger.Warn("join rejected by allow-list", "room.code", code, "player.id", username)
		return nil, apperror.ErrNotAuthorized
	}

	r.Players = append(r.Players, username)

	result := &JoinResult{
		Room:        r,
		ChatHistory: append([]ChatMessage(nil), r.Chat...),
	}

	if len(r.Players) == MaxPlayers {
		r.Seats[r.Players[0]] = game.X
		r.Seats[r.Players[1]] = game.O
		r.CurrentPlayer = r.Players[0]
		r.Started = true
		result.Started = true
	}

	c.logger.Info("player joined room", "room.code", code, "player.id", username, "game.started", result.Started)
	return result, nil
}

// Move applies a move for username at cell. Invalid input never
// surfaces an error to the caller: the move is logged and dropped so a
// desynced or malicious client cannot corrupt room state, and the
// absence of a broadcast is the client's only signal. The symbol is
// derived from the seat assignment, never taken from the client.
func (c *Coordinator) Move(code, username string, cell int) (*MoveResult, bool) {
	r, ok := c.registry.Get(code)
	if !ok {
		return nil, false
	}
	if r.Finished {
		c.logger.Warn("move ignored", "room.code", code, "player.id", username, "reason", apperror.ErrGameFinished)
		return nil, false
	}

	if username != r.CurrentPlayer {
		c.logger.Warn("move ignored", "room.code", code, "player.id", username, "reason", apperror.ErrNotYourTurn)
		return nil, false
	}
	if cell < 0 || cell >= game.Cells {
		c.logger.Warn("move ignored", "room.code", code, "player.id", username, "reason", apperror.ErrInvalidCell)
		return nil, false
	}
	if r.Board[cell] != game.None {
		c.logger.Warn("move ignored", "room.code", code, "player.id", username, "move.cell", cell, "reason", apperror.ErrCellOccupied)
		return nil, false
	}

	symbol := r.Seats[username]
	r.Board[cell] = symbol
	r.Moves = append(r.Moves, Move{
		Cell:    cell,
		Player:  username,
		Symbol:  symbol,
		MoveNum: len(r.Moves) + 1,
	})

	result := &MoveResult{
		Room:  r,
		Board: append([]game.Mark(nil), r.Board...),
		Moves: append([]Move(nil), r.Moves...),
	}

	switch {
	case game.CheckWinner(r.Board) != game.None:
		r.Finished = true
		result.Finished = true
		result.Winner = username
		result.Results = make(map[string]Outcome, len(r.Players))
		for _, p := range r.Players {
			if p == username {
				result.Results[p] = OutcomeWin
			} else {
				result.Results[p] = OutcomeLoss
			}
		}
		c.logger.Info("game over", "room.code", code, "game.winner", username, "game.moves", len(r.Moves))

	case game.IsBoardFull(r.Board):
		r.Finished = true
		result.Finished = true
		result.Results = make(map[string]Outcome, len(r.Players))
		for _, p := range r.Players {
			result.Results[p] = OutcomeDraw
		}
		c.logger.Info("game over", "room.code", code, "game.winner", "", "game.moves", len(r.Moves))

	default:
		r.CurrentPlayer = r.Opponent(username)
		result.CurrentPlayer = r.CurrentPlayer
	}

	return result, true
}

// Chat appends a timestamped message to the room's chat log and returns
// the entry to broadcast. An unknown room is a silent no-op.
func (c *Coordinator) Chat(code, sender, text string) (*ChatMessage, bool) {
	r, ok := c.registry.Get(code)
	if !ok {
		return nil, false
	}

	msg := ChatMessage{
		Message:   text,
		Sender:    sender,
		Timestamp: time.Now().UTC(),
	}
	r.Chat = append(r.Chat, msg)
	return &msg, true
}

// Leave frees the seat of a departing player. A departure mid-game ends
// the game as abandoned so the remaining player is not left waiting on
// a turn that will never come; emptied rooms are reclaimed by the
// registry sweep. A freed seat can be taken by a fresh join, but an
// abandoned game stays finished.
func (c *Coordinator) Leave(code, username string) (*LeaveResult, bool) {
	r, ok := c.registry.Get(code)
	if !ok {
		return nil, false
	}

	if !r.removePlayer(username) {
		return nil, false
	}
	delete(r.Seats, username)

	result := &LeaveResult{
		Room:      r,
		Remaining: append([]string(nil), r.Players...),
	}

	if r.Started && !r.Finished {
		r.Finished = true
		result.Abandoned = true
	}

	if len(r.Players) == 0 {
		c.registry.Delete(code)
	}

	c.logger.Info("player left room", "room.code", code, "player.id", username, "game.abandoned", result.Abandoned)
	return result, true
}
