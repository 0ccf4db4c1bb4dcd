package sim

import (
	"liftsim/src/events"
	"liftsim/src/types"
)

// Stats measures how well a run served its passengers, in steps and floors.
type Stats struct {
	Boarded       int
	Delivered     int
	Moves         int
	FloorsTravel  int // floors covered by all elevators together
	TotalWait     int // steps between start and boarding, summed over boarded passengers
	TotalRide     int // steps between boarding and departure, summed over delivered passengers
	LongestWait   int
	LongestRide   int
	ElevatorMoves map[int]int
}

func (st Stats) AverageWait() float64 {
	if st.Boarded == 0 {
		return 0
	}
	return float64(st.TotalWait) / float64(st.Boarded)
}

func (st Stats) AverageRide() float64 {
	if st.Delivered == 0 {
		return 0
	}
	return float64(st.TotalRide) / float64(st.Delivered)
}

// Summarize walks an event log. All elevators are assumed to start on startFloor.
func Summarize(evs []events.SimEvent, startFloor int) Stats {
	st := Stats{ElevatorMoves: map[int]int{}}
	position := map[int]int{}
	boardedAt := map[int]int{}

	for _, e := range evs {
		switch e.Kind {
		case types.Board:
			st.Boarded++
			boardedAt[e.Passenger] = e.Step
			st.TotalWait += e.Step
			st.LongestWait = max(st.LongestWait, e.Step)
		case types.Depart:
			st.Delivered++
			ride := e.Step - boardedAt[e.Passenger]
			st.TotalRide += ride
			st.LongestRide = max(st.LongestRide, ride)
		case types.Move:
			from, ok := position[e.Elevator]
			if !ok {
				from = startFloor
			}
			st.Moves++
			st.ElevatorMoves[e.Elevator]++
			st.FloorsTravel += abs(e.Floor - from)
			position[e.Elevator] = e.Floor
		}
	}
	return st
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
