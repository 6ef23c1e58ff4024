package rules

// Transition names the reason a cell ends up in its next state
type Transition uint8

const (
	Unchanged Transition = iota
	Underpopulation
	Survival
	Overpopulation
	Reproduction
)

var transitionNames = [...]string{
	Unchanged:       "unchanged",
	Underpopulation: "underpopulation",
	Survival:        "survival",
	Overpopulation:  "overpopulation",
	Reproduction:    "reproduction",
}

func (t Transition) String() string {
	if int(t) < len(transitionNames) {
		return transitionNames[t]
	}
	return "unknown"
}

/*
Next applies Conway's Game of Life rules to a single cell.

	alive, neighbors < 2   -> dead  (underpopulation)
	alive, neighbors 2..3  -> alive (survival)
	alive, neighbors > 3   -> dead  (overpopulation)
	dead,  neighbors == 3  -> alive (reproduction)
	otherwise              -> unchanged
*/
func Next(alive bool, neighbors int) (bool, Transition) {
	switch {
	case alive && neighbors < 2:
		return false, Underpopulation
	case alive && (neighbors == 2 || neighbors == 3):
		return true, Survival
	case alive && neighbors > 3:
		return false, Overpopulation
	case !alive && neighbors == 3:
		return true, Reproduction
	}
	return alive, Unchanged
}
