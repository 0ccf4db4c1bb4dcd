package elev

import (
	"fmt"
	"slices"
	"strings"

	"github.com/pkg/errors"
)

// Floor holds the passengers waiting for pickup, in arrival order.
type Floor struct {
	ID      int
	Waiting []Passenger
}

func NewFloor(id int) *Floor {
	return &Floor{ID: id}
}

func (f *Floor) Enter(p Passenger) {
	f.Waiting = append(f.Waiting, p)
}

func (f *Floor) Exit(passengerID int) error {
	i := slices.IndexFunc(f.Waiting, func(p Passenger) bool { return p.ID == passengerID })
	if i < 0 {
		return errors.Wrapf(ErrPassengerNotPresent, "passenger %d is not waiting on floor %d", passengerID, f.ID)
	}
	f.Waiting = slices.Delete(f.Waiting, i, i+1)
	return nil
}

// HasRequest reports whether anybody is waiting for pickup.
func (f *Floor) HasRequest() bool {
	return len(f.Waiting) > 0
}

func (f *Floor) String() string {
	return fmt.Sprintf("Floor %d [waiting: %s]", f.ID, passengerIDs(f.Waiting))
}

func passengerIDs(ps []Passenger) string {
	ids := make([]string, len(ps))
	for i, p := range ps {
		ids[i] = fmt.Sprint(p.ID)
	}
	return strings.Join(ids, ", ")
}
