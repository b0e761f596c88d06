package player

// Connection is an interface that abstracts the websocket connection so
// the gateway can be tested with fakes.
type Connection interface {
	WriteMessage(messageType int, data []byte) error
	ReadMessage() (int, []byte, error)
	Close() error
}

// Player is one authenticated participant behind a connection.
type Player struct {
	Username string
	Conn     Connection
}

// NewPlayer creates a player bound to a connection.
func NewPlayer(username string, conn Connection) *Player {
	return &Player{Username: username, Conn: conn}
}
