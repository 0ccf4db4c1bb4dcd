package types

import "fmt"

type Direction int

const (
	DirStationary Direction = iota
	DirUp
	DirDown
)

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirStationary:
		return "stationary"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// Opposite flips a travel direction. Stationary stays stationary.
func (d Direction) Opposite() Direction {
	switch d {
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	}
	return DirStationary
}

// DirectionTo gives the direction of travel from one floor to another.
func DirectionTo(from, to int) Direction {
	if from < to {
		return DirUp
	}
	if from > to {
		return DirDown
	}
	return DirStationary
}

type EventKind int

const (
	Board EventKind = iota
	Depart
	Move
)

func (k EventKind) String() string {
	switch k {
	case Board:
		return "BOARD"
	case Depart:
		return "DEPART"
	case Move:
		return "MOVE"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// MarshalText makes event kinds readable in exported logs.
func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *EventKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "BOARD":
		*k = Board
	case "DEPART":
		*k = Depart
	case "MOVE":
		*k = Move
	default:
		return fmt.Errorf("unknown event kind %q", text)
	}
	return nil
}

// Outcome tells how a simulation run ended.
type Outcome int

const (
	Running Outcome = iota
	Completed
	Deadlocked
	StepLimit
	Aborted
)

func (o Outcome) String() string {
	switch o {
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Deadlocked:
		return "deadlocked"
	case StepLimit:
		return "step-limit"
	case Aborted:
		return "aborted"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}
