package game

const (
	NumSquares     = 9
	SlotsPerSquare = 4
	GridSize       = 6 // side of the global cell overlay
	CenterSquare   = 4
	NoSquare       = -1
)

// Square is one cell of the 3x3 grid, holding 4 slots in a 2x2 arrangement.
type Square [SlotsPerSquare]Player

// Board holds the 9 squares in row-major order. Squares are values, so a slide
// is a plain swap of two array elements.
type Board [NumSquares]Square

// Target addresses one slot of one square.
type Target struct {
	Square int `json:"squareIndex"`
	Slot   int `json:"slotIndex"`
}

func SquareRow(square int) int { return square / 3 }
func SquareCol(square int) int { return square % 3 }
func SlotRow(slot int) int     { return slot / 2 }
func SlotCol(slot int) int     { return slot % 2 }

// GlobalToLocal maps a cell of the 6x6 overlay onto its square and slot.
func GlobalToLocal(row, col int) (square, slot int) {
	return (row/2)*3 + col/2, (row%2)*2 + col%2
}

// At returns the owner of the global cell (row, col).
func (b *Board) At(row, col int) Player {
	square, slot := GlobalToLocal(row, col)
	return b[square][slot]
}

// Count returns the number of slots owned by p.
func (b *Board) Count(p Player) int {
	n := 0
	for _, square := range b {
		for _, slot := range square {
			if slot == p {
				n++
			}
		}
	}
	return n
}

// Occupied returns the number of non-empty slots.
func (b *Board) Occupied() int {
	return b.Count(Red) + b.Count(Blue)
}

// IsEmpty reports whether every slot of the square is free.
func (s Square) IsEmpty() bool {
	for _, slot := range s {
		if slot != NoPlayer {
			return false
		}
	}
	return true
}

var orthogonal = [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

// neighbours returns the squares sharing an edge with square, in up, down,
// left, right order. Diagonals are never included.
func neighbours(square int) []int {
	row, col := SquareRow(square), SquareCol(square)
	out := make([]int, 0, 4)
	for _, d := range orthogonal {
		r, c := row+d[0], col+d[1]
		if r >= 0 && r <= 2 && c >= 0 && c <= 2 {
			out = append(out, r*3+c)
		}
	}
	return out
}
