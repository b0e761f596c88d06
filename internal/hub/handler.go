package hub

import (
	"context"
	"encoding/json"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"tictacroom/internal/history"
	"tictacroom/internal/room"
	"tictacroom/internal/validator"
	"tictacroom/pkg/proto"
)

// handleMessage dispatches one inbound client event. The acting
// identity always comes from the client's authenticated session, never
// from the payload.
func (h *Hub) handleMessage(c *Client, raw []byte) {
	_, span := tracer.Start(context.Background(), "hub.handleMessage", trace.WithAttributes(
		attribute.String("player.id", c.Username()),
	))
	defer span.End()

	var msg proto.ClientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		h.logger.Error("error unmarshalling message", "player.id", c.Username(), "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Error unmarshalling message")
		return
	}

	if err := validator.GetValidator().Struct(msg); err != nil {
		h.logger.Warn("invalid message from player", "player.id", c.Username(), "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid message format")
		return
	}

	span.SetAttributes(attribute.String("message.type", msg.Type))

	switch msg.Type {
	case proto.TypeCreateRoom:
		h.handleCreateRoom(c, &msg)
	case proto.TypeJoinRoom:
		h.handleJoinRoom(c, &msg)
	case proto.TypeMove:
		h.handleMove(c, &msg)
	case proto.TypeChat:
		h.handleChat(c, &msg)
	}
}

func (h *Hub) handleCreateRoom(c *Client, msg *proto.ClientMessage) {
	h.leaveCurrentRoom(c)

	r := h.coordinator.CreateRoom(c.Username(), msg.AllowedUsers)
	h.attachToRoom(c, r.Code)

	h.sendTo(c, &proto.RoomCreatedMessage{
		Type:     proto.TypeRoomCreated,
		RoomCode: r.Code,
	})
}

func (h *Hub) handleJoinRoom(c *Client, msg *proto.ClientMessage) {
	res, err := h.coordinator.Join(msg.RoomCode, c.Username())
	if err != nil {
		// A failed join leaves the client's current seat untouched.
		h.sendTo(c, &proto.JoinAckMessage{
			Type:  proto.TypeJoinAck,
			Error: err.Error(),
		})
		return
	}

	h.leaveCurrentRoom(c)
	h.attachToRoom(c, msg.RoomCode)

	// The catch-up snapshot is enqueued to the joiner before the
	// start-game broadcast, so the joiner never observes a live event
	// ahead of the history it missed.
	h.sendTo(c, &proto.JoinAckMessage{
		Type:    proto.TypeJoinAck,
		Success: true,
	})
	h.sendTo(c, &proto.ExistingMessagesMessage{
		Type:     proto.TypeExistingMessages,
		Messages: res.ChatHistory,
	})

	if res.Started {
		h.broadcastToRoom(msg.RoomCode, &proto.StartGameMessage{
			Type:    proto.TypeStartGame,
			Players: res.Room.Players,
			Seats:   res.Room.Seats,
		})
	}
}

func (h *Hub) handleMove(c *Client, msg *proto.ClientMessage) {
	if msg.Cell == nil {
		h.logger.Warn("move without cell ignored", "player.id", c.Username())
		return
	}

	res, ok := h.coordinator.Move(msg.RoomCode, c.Username(), *msg.Cell)
	if !ok {
		// Invalid moves produce no broadcast and no error frame.
		return
	}

	if !res.Finished {
		h.broadcastToRoom(msg.RoomCode, &proto.MoveMadeMessage{
			Type:          proto.TypeMoveMade,
			Board:         res.Board,
			Moves:         res.Moves,
			CurrentPlayer: res.CurrentPlayer,
		})
		return
	}

	// Game over: each recipient gets a personalized result.
	for member := range h.roomClients[msg.RoomCode] {
		h.sendTo(member, &proto.GameOverMessage{
			Type:   proto.TypeGameOver,
			Board:  res.Board,
			Moves:  res.Moves,
			Winner: res.Winner,
			Result: string(res.Results[member.Username()]),
		})
	}

	h.recordHistory(res)
}

func (h *Hub) handleChat(c *Client, msg *proto.ClientMessage) {
	entry, ok := h.coordinator.Chat(msg.RoomCode, c.Username(), msg.Message)
	if !ok {
		return
	}

	h.broadcastToRoom(msg.RoomCode, &proto.NewMessageMessage{
		Type:      proto.TypeNewMessage,
		Message:   entry.Message,
		Sender:    entry.Sender,
		Timestamp: entry.Timestamp,
	})
}

// recordHistory dispatches one record per participant to the history
// queue. Fire and forget: it never blocks the game-over broadcast, and
// store failures stay inside the recorder.
func (h *Hub) recordHistory(res *room.MoveResult) {
	now := time.Now().UTC()
	for _, p := range res.Room.Players {
		h.history.Append(p, history.Record{
			Opponent:  res.Room.Opponent(p),
			Result:    string(res.Results[p]),
			Steps:     res.Moves,
			Winner:    res.Winner,
			CreatedAt: now,
		})
	}
}

func (h *Hub) sendTo(c *Client, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		h.logger.Error("error marshalling message", "error", err)
		return
	}
	c.enqueue(data)
}

// broadcastToRoom enqueues a message to every client currently attached
// to the room, in event-processing order.
func (h *Hub) broadcastToRoom(code string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		h.logger.Error("error marshalling message", "error", err)
		return
	}
	for member := range h.roomClients[code] {
		member.enqueue(data)
	}
}

func outboundOpponentLeft(username string, abandoned bool) *proto.OpponentLeftMessage {
	return &proto.OpponentLeftMessage{
		Type:      proto.TypeOpponentLeft,
		Player:    username,
		Abandoned: abandoned,
	}
}
