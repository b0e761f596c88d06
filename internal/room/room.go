package room

import (
	"time"

	"tictacroom/internal/game"
)

// MaxPlayers is the seat capacity of a room.
const MaxPlayers = 2

// Move is one applied move, appended to the room's move log.
type Move struct {
	Cell    int       `json:"cell"`
	Player  string    `json:"player"`
	Symbol  game.Mark `json:"symbol"`
	MoveNum int       `json:"moveNum"`
}

// ChatMessage is one entry of the room's chat log.
type ChatMessage struct {
	Message   string    `json:"message"`
	Sender    string    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}

// Room is one in-progress or pending two-player match. It is owned by
// the Registry and mutated only through the Coordinator; the gateway's
// single event loop guarantees one mutation at a time.
type Room struct {
	Code          string
	Creator       string
	Players       []string
	Board         []game.Mark
	Moves         []Move
	Chat          []ChatMessage
	AllowList     []string
	Seats         map[string]game.Mark
	CurrentPlayer string
	Started       bool
	Finished      bool
	CreatedAt     time.Time
}

func newRoom(code, creator string, allowList []string) *Room {
	return &Room{
		Code:      code,
		Creator:   creator,
		Players:   []string{creator},
		Board:     game.NewBoard(),
		Moves:     make([]Move, 0),
		Chat:      make([]ChatMessage, 0),
		AllowList: allowList,
		Seats:     make(map[string]game.Mark, MaxPlayers),
		CreatedAt: time.Now().UTC(),
	}
}

// Allows reports whether a username may join. An empty allow-list means
// the room is public. The creator never joins, so it needs no exemption.
func (r *Room) Allows(username string) bool {
	if len(r.AllowList) == 0 {
		return true
	}
	for _, allowed := range r.AllowList {
		if allowed == username {
			return true
		}
	}
	return false
}

// HasPlayer reports whether a username holds a seat.
func (r *Room) HasPlayer(username string) bool {
	for _, p := range r.Players {
		if p == username {
			return true
		}
	}
	return false
}

// Opponent returns the other seated player, or "" if there is none.
func (r *Room) Opponent(username string) string {
	for _, p := range r.Players {
		if p != username {
			return p
		}
	}
	return ""
}

// removePlayer frees the seat held by username and reports whether a
// seat was actually freed.
func (r *Room) removePlayer(username string) bool {
	for i, p := range r.Players {
		if p == username {
			r.Players = append(r.Players[:i], r.Players[i+1:]...)
			return true
		}
	}
	return false
}
