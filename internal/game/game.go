package game

// Mark represents the symbol of a player (X, O) or an empty cell.
type Mark string

const (
	None Mark = ""
	X    Mark = "X"
	O    Mark = "O"
)

// Cells is the number of cells on the board.
const Cells = 9

// winningLines lists every completed line on a 3x3 board as cell
// indices: 3 rows, 3 columns, 2 diagonals. A different board size only
// needs a different table.
var winningLines = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// NewBoard returns an empty board.
func NewBoard() []Mark {
	return make([]Mark, Cells)
}

// CheckWinner returns the mark occupying a fully-matched line, or None
// if no line is complete.
func CheckWinner(board []Mark) Mark {
	for _, line := range winningLines {
		first := board[line[0]]
		if first == None {
			continue
		}
		if board[line[1]] == first && board[line[2]] == first {
			return first
		}
	}
	return None
}

// IsBoardFull reports whether every cell is occupied.
func IsBoardFull(board []Mark) bool {
	for _, cell := range board {
		if cell == None {
			return false
		}
	}
	return true
}

// Opponent returns the other player's mark.
func Opponent(mark Mark) Mark {
	if mark == X {
		return O
	}
	return X
}
