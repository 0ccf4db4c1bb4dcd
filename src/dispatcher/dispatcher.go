package dispatcher

import (
	"log/slog"
	"slices"

	"github.com/pkg/errors"

	"liftsim/src/elev"
	"liftsim/src/events"
	"liftsim/src/types"
)

// Building is the state advanced by Step. Floors are indexed by id and
// elevators are kept in creation order; both orders decide boarding and
// direction outcomes and must not change.
type Building struct {
	Floors    []*elev.Floor
	Elevators []*elev.Elevator
	Pending   elev.FloorSet // union of all elevators' stops
	Log       *events.Log
	Steps     int

	active    map[int]elev.Passenger
	delivered []int
}

func NewBuilding(floors []*elev.Floor, elevators []*elev.Elevator, passengers []elev.Passenger) *Building {
	b := &Building{
		Floors:    floors,
		Elevators: elevators,
		Log:       &events.Log{},
		active:    make(map[int]elev.Passenger, len(passengers)),
	}
	for _, p := range passengers {
		b.active[p.ID] = p
	}
	return b
}

// Active is the number of passengers not yet delivered.
func (b *Building) Active() int { return len(b.active) }

// Delivered lists delivered passenger ids in delivery order.
func (b *Building) Delivered() []int { return slices.Clone(b.delivered) }

// Step runs one full dispatch cycle. It returns Completed as soon as the last
// passenger departs, Deadlocked when every elevator is parked without a target
// and nothing happened during the step, and Running otherwise.
func (b *Building) Step() (types.Outcome, error) {
	if len(b.active) == 0 {
		return types.Completed, nil
	}
	step := b.Steps
	recorded := b.Log.Len()

	requests := collectRequests(b.Floors)
	if err := b.board(step); err != nil {
		return types.Aborted, err
	}

	parked := 0
	for _, elevator := range b.Elevators {
		if err := b.depart(step, elevator); err != nil {
			return types.Aborted, err
		}
		if len(b.active) == 0 {
			b.Steps++
			return types.Completed, nil
		}

		hasTarget, err := b.chooseDirection(elevator, &requests)
		if err != nil {
			return types.Aborted, err
		}
		if !hasTarget {
			parked++
			continue
		}
		b.lookAhead(elevator, requests)
		if err := b.move(step, elevator); err != nil {
			return types.Aborted, err
		}
	}

	b.Steps++
	if parked == len(b.Elevators) && b.Log.Len() == recorded {
		return types.Deadlocked, nil
	}
	return types.Running, nil
}

// board loads waiting passengers into elevators standing on their floor.
// Removal from the floor is applied after the elevator has scanned the whole
// waiting list, so a later passenger's decision never depends on an earlier
// one leaving.
func (b *Building) board(step int) error {
	for _, floor := range b.Floors {
		for _, elevator := range b.Elevators {
			if elevator.Floor != floor.ID {
				continue
			}
			var boarded []int
			for _, p := range floor.Waiting {
				want, err := p.DirectionFrom(floor.ID)
				if err != nil {
					return err
				}
				if !elevator.Accepts(want) {
					continue
				}
				if err := elevator.Board(p); err != nil {
					return err
				}
				slog.Debug("Boarding passenger",
					"passenger", p.ID,
					"elevator", elevator.ID,
					"floor", floor.ID,
					"destination", p.Destination,
					"direction", elevator.Dir)
				b.Log.Append(events.BoardEvent(step, p.ID, elevator.ID, floor.ID))
				b.commit(elevator, p.Destination)
				boarded = append(boarded, p.ID)
			}
			for _, id := range boarded {
				if err := floor.Exit(id); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (b *Building) depart(step int, elevator *elev.Elevator) error {
	for _, p := range elevator.Arrivals() {
		if err := elevator.Depart(p.ID); err != nil {
			return err
		}
		if _, ok := b.active[p.ID]; !ok {
			return errors.Wrapf(elev.ErrInvalidState, "passenger %d departed twice", p.ID)
		}
		delete(b.active, p.ID)
		b.delivered = append(b.delivered, p.ID)
		slog.Debug("Passenger departing",
			"passenger", p.ID,
			"elevator", elevator.ID,
			"floor", elevator.Floor,
			"remaining", len(b.active))
		b.Log.Append(events.DepartEvent(step, p.ID, elevator.ID, elevator.Floor))
		if len(b.active) == 0 {
			return nil
		}
	}
	return nil
}

// chooseDirection parks an elevator without stops and gives a stationary one
// a new heading. The step's request list is narrowed to what lies on the way
// to the chosen target. It reports false when the elevator has nowhere to go.
func (b *Building) chooseDirection(elevator *elev.Elevator, requests *[]int) (bool, error) {
	elevator.Park()
	if elevator.Dir != types.DirStationary {
		return true, nil
	}
	target, ok := elevator.Target(*requests)
	if !ok {
		slog.Debug("Elevator parked without target", "elevator", elevator.ID, "floor", elevator.Floor)
		return false, nil
	}
	if err := elevator.Head(target); err != nil {
		return false, err
	}
	*requests = onTheWay(*requests, elevator.Dir, target)
	slog.Debug("Elevator heading",
		"elevator", elevator.ID,
		"floor", elevator.Floor,
		"target", target,
		"direction", elevator.Dir)
	return true, nil
}

// lookAhead collects every open request and rider destination ahead of the
// elevator. Floors another elevator already committed to are skipped.
func (b *Building) lookAhead(elevator *elev.Elevator, requests []int) {
	var ahead []int
	for _, floor := range requests {
		if elevator.Ahead(floor) {
			ahead = append(ahead, floor)
		}
	}
	for _, p := range elevator.Riders {
		if elevator.Ahead(p.Destination) {
			ahead = append(ahead, p.Destination)
		}
	}
	slices.Sort(ahead)
	for _, floor := range slices.Compact(ahead) {
		b.commit(elevator, floor)
	}
}

// commit makes floor a stop of elevator unless some elevator already has it.
func (b *Building) commit(elevator *elev.Elevator, floor int) {
	if b.Pending.Contains(floor) {
		return
	}
	elevator.AddStop(floor)
	b.Pending.Add(floor)
}

func (b *Building) move(step int, elevator *elev.Elevator) error {
	if elevator.Stops.Empty() {
		elevator.Park()
		return nil
	}
	next, err := elevator.NextStop()
	if err != nil {
		return err
	}
	elevator.Floor = next
	b.Pending.Remove(next)
	slog.Debug("Elevator moved", "elevator", elevator.ID, "floor", next, "direction", elevator.Dir)
	b.Log.Append(events.MoveEvent(step, elevator.ID, next))
	elevator.Park()
	return nil
}
