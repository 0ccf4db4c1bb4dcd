package elev

import (
	"fmt"
	"slices"

	"github.com/pkg/errors"

	"liftsim/src/types"
)

// Elevator is a capacity-bounded car. Dir is stationary exactly when Stops is
// empty, except inside a step while a new target is being chosen.
type Elevator struct {
	ID       int
	Capacity int
	Floor    int
	Dir      types.Direction
	Riders   []Passenger // boarding order
	Stops    FloorSet    // never contains Floor
}

func NewElevator(id, capacity, floor int) *Elevator {
	return &Elevator{
		ID:       id,
		Capacity: capacity,
		Floor:    floor,
		Dir:      types.DirStationary,
	}
}

func (e *Elevator) HasRoom() bool {
	return len(e.Riders) < e.Capacity
}

func (e *Elevator) Board(p Passenger) error {
	if !e.HasRoom() {
		return errors.Wrapf(ErrCapacityExceeded, "elevator %d cannot take passenger %d (capacity %d)", e.ID, p.ID, e.Capacity)
	}
	e.Riders = append(e.Riders, p)
	return nil
}

func (e *Elevator) Depart(passengerID int) error {
	i := slices.IndexFunc(e.Riders, func(p Passenger) bool { return p.ID == passengerID })
	if i < 0 {
		return errors.Wrapf(ErrPassengerNotPresent, "passenger %d is not riding elevator %d", passengerID, e.ID)
	}
	e.Riders = slices.Delete(e.Riders, i, i+1)
	return nil
}

// AddStop commits the elevator to visit floor. Adding a known stop is a no-op.
func (e *Elevator) AddStop(floor int) {
	e.Stops.Add(floor)
}

// Accepts is the boarding rule: room left and either idle or already heading the passenger's way.
func (e *Elevator) Accepts(want types.Direction) bool {
	return e.HasRoom() && (e.Dir == types.DirStationary || e.Dir == want)
}

// Arrivals lists the riders whose destination is the current floor.
func (e *Elevator) Arrivals() []Passenger {
	var out []Passenger
	for _, p := range e.Riders {
		if p.Destination == e.Floor {
			out = append(out, p)
		}
	}
	return out
}

// Target picks where a stationary elevator should head next. The first rider
// has priority; an empty car takes the closest request other than its own
// floor, the lower floor winning a tie.
func (e *Elevator) Target(requests []int) (int, bool) {
	if len(e.Riders) > 0 {
		return e.Riders[0].Destination, true
	}
	target, found := 0, false
	best := 0
	for _, floor := range requests {
		if floor == e.Floor {
			continue
		}
		distance := abs(floor - e.Floor)
		if !found || distance < best {
			target, best, found = floor, distance, true
		}
	}
	return target, found
}

// Head moves the state machine from stationary to up or down.
func (e *Elevator) Head(target int) error {
	if e.Dir != types.DirStationary {
		return errors.Wrapf(ErrInvalidState, "elevator %d is already heading %s", e.ID, e.Dir)
	}
	dir := types.DirectionTo(e.Floor, target)
	if dir == types.DirStationary {
		return errors.Wrapf(ErrInvalidState, "elevator %d cannot head to its own floor %d", e.ID, target)
	}
	e.Dir = dir
	return nil
}

// Park returns the elevator to stationary once it has nothing left to visit.
func (e *Elevator) Park() bool {
	if !e.Stops.Empty() {
		return false
	}
	e.Dir = types.DirStationary
	return true
}

// Ahead reports whether floor lies strictly in the travel direction.
func (e *Elevator) Ahead(floor int) bool {
	switch e.Dir {
	case types.DirUp:
		return floor > e.Floor
	case types.DirDown:
		return floor < e.Floor
	}
	return false
}

// NextStop takes the nearest pending stop in the travel direction off the
// queue. When nothing is left ahead the elevator turns around.
func (e *Elevator) NextStop() (int, error) {
	if e.Stops.Empty() {
		return 0, errors.Wrapf(ErrInvalidState, "elevator %d has no pending stops", e.ID)
	}
	if e.Dir == types.DirStationary {
		return 0, errors.Wrapf(ErrInvalidState, "elevator %d has stops %v but no direction", e.ID, []int(e.Stops))
	}
	next, ok := e.nearestAhead()
	if !ok {
		e.Dir = e.Dir.Opposite()
		if next, ok = e.nearestAhead(); !ok {
			return 0, errors.Wrapf(ErrInvalidState, "elevator %d holds its own floor %d as a stop", e.ID, e.Floor)
		}
	}
	e.Stops.Remove(next)
	return next, nil
}

func (e *Elevator) nearestAhead() (int, bool) {
	if e.Dir == types.DirUp {
		return e.Stops.Above(e.Floor)
	}
	return e.Stops.Below(e.Floor)
}

func (e *Elevator) String() string {
	return fmt.Sprintf("Elevator %d [floor %d, %s, riders: %s, stops: %v]",
		e.ID, e.Floor, e.Dir, passengerIDs(e.Riders), []int(e.Stops))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
