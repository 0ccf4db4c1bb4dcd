package events

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"liftsim/src/types"
)

// SimEvent records one BOARD, DEPART or MOVE. Passenger is -1 on MOVE events.
type SimEvent struct {
	Step      int             `yaml:"step"`
	Kind      types.EventKind `yaml:"kind"`
	Passenger int             `yaml:"passenger"`
	Elevator  int             `yaml:"elevator"`
	Floor     int             `yaml:"floor"`
}

func BoardEvent(step, passenger, elevator, floor int) SimEvent {
	return SimEvent{Step: step, Kind: types.Board, Passenger: passenger, Elevator: elevator, Floor: floor}
}

func DepartEvent(step, passenger, elevator, floor int) SimEvent {
	return SimEvent{Step: step, Kind: types.Depart, Passenger: passenger, Elevator: elevator, Floor: floor}
}

func MoveEvent(step, elevator, floor int) SimEvent {
	return SimEvent{Step: step, Kind: types.Move, Passenger: -1, Elevator: elevator, Floor: floor}
}

func (e SimEvent) String() string {
	switch e.Kind {
	case types.Move:
		return fmt.Sprintf("[%d] MOVE elevator %d -> floor %d", e.Step, e.Elevator, e.Floor)
	default:
		return fmt.Sprintf("[%d] %s passenger %d (elevator %d, floor %d)", e.Step, e.Kind, e.Passenger, e.Elevator, e.Floor)
	}
}

// Log is append-only.
type Log struct {
	events []SimEvent
}

func (l *Log) Append(e SimEvent) {
	l.events = append(l.events, e)
}

func (l *Log) Len() int { return len(l.events) }

// Events returns a copy of everything recorded so far.
func (l *Log) Events() []SimEvent {
	out := make([]SimEvent, len(l.events))
	copy(out, l.events)
	return out
}

// Of returns the events of one kind, in order.
func (l *Log) Of(kind types.EventKind) []SimEvent {
	var out []SimEvent
	for _, e := range l.events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// Step returns the events recorded during step n.
func (l *Log) Step(n int) []SimEvent {
	var out []SimEvent
	for _, e := range l.events {
		if e.Step == n {
			out = append(out, e)
		}
	}
	return out
}

// WriteYAML exports the log as a YAML sequence.
func (l *Log) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(l.events); err != nil {
		return err
	}
	return enc.Close()
}

// ReadYAML loads a log previously written with WriteYAML.
func ReadYAML(r io.Reader) (*Log, error) {
	var evs []SimEvent
	if err := yaml.NewDecoder(r).Decode(&evs); err != nil && err != io.EOF {
		return nil, err
	}
	return &Log{events: evs}, nil
}
