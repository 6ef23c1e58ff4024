package model

// Cell is a single grid position. It is backed by a byte so a cell buffer
// can be read as raw memory by an external renderer.
type Cell uint8

const (
	Dead  Cell = 0
	Alive Cell = 1
)

const (
	glyphAlive = "◼"
	glyphDead  = "◻"
)

// IsAlive reports whether the cell is Alive
func (c Cell) IsAlive() bool {
	return c == Alive
}

func (c Cell) String() string {
	if c == Alive {
		return glyphAlive
	}
	return glyphDead
}

func cellOf(alive bool) Cell {
	if alive {
		return Alive
	}
	return Dead
}
