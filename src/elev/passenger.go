package elev

import (
	"fmt"

	"github.com/pkg/errors"

	"liftsim/src/types"
)

// Passenger travels once from Start to Destination.
type Passenger struct {
	ID          int
	Start       int
	Destination int
}

// DirectionFrom gives the direction the passenger wants to travel when waiting on floor.
func (p Passenger) DirectionFrom(floor int) (types.Direction, error) {
	dir := types.DirectionTo(floor, p.Destination)
	if dir == types.DirStationary {
		return dir, errors.Wrapf(ErrInvalidState, "passenger %d is waiting on its destination floor %d", p.ID, floor)
	}
	return dir, nil
}

func (p Passenger) String() string {
	return fmt.Sprintf("Passenger %d [%d -> %d]", p.ID, p.Start, p.Destination)
}

// Sequence hands out monotonic ids. Every simulation owns its own.
type Sequence struct {
	next int
}

func (s *Sequence) Next() int {
	id := s.next
	s.next++
	return id
}
