package proto

import (
	"time"

	"tictacroom/internal/game"
	"tictacroom/internal/room"
)

// Client-to-server event types.
const (
	TypeCreateRoom = "create_room"
	TypeJoinRoom   = "join_room"
	TypeMove       = "move"
	TypeChat       = "chat"
)

// Server-to-client event types.
const (
	TypeRoomCreated      = "room_created"
	TypeJoinAck          = "join_ack"
	TypeExistingMessages = "existing_messages"
	TypeStartGame        = "start_game"
	TypeMoveMade         = "move_made"
	TypeGameOver         = "game_over"
	TypeNewMessage       = "new_message"
	TypeOpponentLeft     = "opponent_left"
)

// ClientMessage represents a message from the client to the server. The
// acting identity is never taken from the payload; it comes from the
// authenticated session behind the connection.
type ClientMessage struct {
	Type         string   `json:"type" validate:"required,oneof=create_room join_room move chat"`
	RoomCode     string   `json:"room_code,omitempty"`
	AllowedUsers []string `json:"allowed_users,omitempty"`
	Cell         *int     `json:"cell,omitempty"`
	Message      string   `json:"message,omitempty"`
}

// RoomCreatedMessage acknowledges a create_room request.
type RoomCreatedMessage struct {
	Type     string `json:"type"`
	RoomCode string `json:"room_code"`
}

// JoinAckMessage acknowledges a join_room request, carrying the error
// for a rejected join.
type JoinAckMessage struct {
	Type    string `json:"type"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// ExistingMessagesMessage is the chat catch-up snapshot sent once to a
// joining connection before any live broadcast.
type ExistingMessagesMessage struct {
	Type     string             `json:"type"`
	Messages []room.ChatMessage `json:"messages"`
}

// StartGameMessage announces that both seats are filled. Player order
// fixes the symbols: the first player is X and moves first.
type StartGameMessage struct {
	Type    string               `json:"type"`
	Players []string             `json:"players"`
	Seats   map[string]game.Mark `json:"seats"`
}

// MoveMadeMessage carries the room state after a non-terminal move.
type MoveMadeMessage struct {
	Type          string      `json:"type"`
	Board         []game.Mark `json:"board"`
	Moves         []room.Move `json:"moves"`
	CurrentPlayer string      `json:"current_player"`
}

// GameOverMessage carries the final state; Result is personalized per
// recipient (win, loss, or draw).
type GameOverMessage struct {
	Type   string      `json:"type"`
	Board  []game.Mark `json:"board"`
	Moves  []room.Move `json:"moves"`
	Winner string      `json:"winner,omitempty"`
	Result string      `json:"result"`
}

// NewMessageMessage broadcasts one chat entry to the room.
type NewMessageMessage struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Sender    string    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}

// OpponentLeftMessage notifies the remaining player that the opponent
// has left and, when the game was in progress, that it is abandoned.
type OpponentLeftMessage struct {
	Type      string `json:"type"`
	Player    string `json:"player"`
	Abandoned bool   `json:"abandoned"`
}
