package sim

import (
	"fmt"
	"slices"

	"github.com/pkg/errors"
	"github.com/tiendc/go-deepcopy"

	"liftsim/src/elev"
	"liftsim/src/types"
)

// Snapshot is a detached copy of the building between two steps.
type Snapshot struct {
	Step      int
	Floors    []elev.Floor
	Elevators []elev.Elevator
	Pending   elev.FloorSet
	Delivered []int
}

// Snapshot deep-copies the current state; mutating it does not touch the run.
func (s *Simulation) Snapshot() (Snapshot, error) {
	b := s.building
	live := Snapshot{
		Step:      b.Steps,
		Floors:    make([]elev.Floor, len(b.Floors)),
		Elevators: make([]elev.Elevator, len(b.Elevators)),
		Pending:   b.Pending,
		Delivered: b.Delivered(),
	}
	for i, f := range b.Floors {
		live.Floors[i] = *f
	}
	for i, e := range b.Elevators {
		live.Elevators[i] = *e
	}
	snap := Snapshot{}
	if err := deepcopy.Copy(&snap, &live); err != nil {
		return Snapshot{}, errors.Wrap(err, "copy snapshot")
	}
	return snap, nil
}

// CheckInvariants verifies a snapshot against the passenger list of the run:
// every passenger is in exactly one place, cars respect capacity, stop sets
// are ascending and never hold the car's own floor, and the global pending set
// is exactly the union of the cars' stops.
func CheckInvariants(snap Snapshot, passengers []elev.Passenger) error {
	seen := make(map[int]string, len(passengers))
	place := func(id int, where string) error {
		if prev, ok := seen[id]; ok {
			return errors.Wrapf(elev.ErrInvalidState, "passenger %d is both %s and %s", id, prev, where)
		}
		seen[id] = where
		return nil
	}

	for _, f := range snap.Floors {
		for _, p := range f.Waiting {
			if err := place(p.ID, fmt.Sprintf("waiting on floor %d", f.ID)); err != nil {
				return err
			}
		}
	}

	var union elev.FloorSet
	for _, e := range snap.Elevators {
		if len(e.Riders) > e.Capacity {
			return errors.Wrapf(elev.ErrCapacityExceeded, "elevator %d carries %d of %d", e.ID, len(e.Riders), e.Capacity)
		}
		if !e.Stops.Valid() {
			return errors.Wrapf(elev.ErrInvalidState, "elevator %d stops %v not strictly ascending", e.ID, []int(e.Stops))
		}
		if e.Stops.Contains(e.Floor) {
			return errors.Wrapf(elev.ErrInvalidState, "elevator %d has its own floor %d as a stop", e.ID, e.Floor)
		}
		if e.Stops.Empty() != (e.Dir == types.DirStationary) {
			return errors.Wrapf(elev.ErrInvalidState, "elevator %d is %s with stops %v", e.ID, e.Dir, []int(e.Stops))
		}
		for _, p := range e.Riders {
			if err := place(p.ID, fmt.Sprintf("riding elevator %d", e.ID)); err != nil {
				return err
			}
		}
		for _, floor := range e.Stops {
			if !union.Add(floor) {
				return errors.Wrapf(elev.ErrInvalidState, "floor %d is a stop of two elevators", floor)
			}
		}
	}
	if !slices.Equal(union, snap.Pending) {
		return errors.Wrapf(elev.ErrInvalidState, "pending set %v differs from elevator stops %v", []int(snap.Pending), []int(union))
	}

	for _, id := range snap.Delivered {
		if err := place(id, "delivered"); err != nil {
			return err
		}
	}
	for _, p := range passengers {
		if _, ok := seen[p.ID]; !ok {
			return errors.Wrapf(elev.ErrPassengerNotPresent, "passenger %d vanished", p.ID)
		}
	}
	return nil
}
