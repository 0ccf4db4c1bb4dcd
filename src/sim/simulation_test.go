package sim

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"

	"liftsim/src/config"
	"liftsim/src/elev"
	"liftsim/src/events"
	"liftsim/src/types"
)

func trips(pairs ...[2]int) []config.Trip {
	out := make([]config.Trip, len(pairs))
	for i, p := range pairs {
		out[i] = config.Trip{Start: p[0], Destination: p[1]}
	}
	return out
}

// checkPassengerMovement asserts the completion law: one BOARD then one DEPART per passenger.
func checkPassengerMovement(t *testing.T, passengers []elev.Passenger, evs []events.SimEvent) {
	t.Helper()
	boarded := map[int]int{}
	departed := map[int]int{}
	for i, e := range evs {
		switch e.Kind {
		case types.Board:
			if _, ok := boarded[e.Passenger]; ok {
				t.Errorf("Passenger %d boarded twice", e.Passenger)
			}
			boarded[e.Passenger] = i
		case types.Depart:
			if _, ok := departed[e.Passenger]; ok {
				t.Errorf("Passenger %d departed twice", e.Passenger)
			}
			departed[e.Passenger] = i
		}
	}
	for _, p := range passengers {
		b, okB := boarded[p.ID]
		d, okD := departed[p.ID]
		if !okB || !okD {
			t.Errorf("Passenger %d: boarded %v, departed %v", p.ID, okB, okD)
			continue
		}
		if b > d {
			t.Errorf("Passenger %d departed before boarding", p.ID)
		}
	}
}

func TestSingleElevator(t *testing.T) {
	s, err := NewManual(5, 1, 3, trips([2]int{0, 2}, [2]int{1, 2}, [2]int{1, 0}, [2]int{2, 1}, [2]int{2, 0}))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	result, err := s.Run()
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	want := []events.SimEvent{
		events.BoardEvent(0, 0, 0, 0),
		events.MoveEvent(0, 0, 1),
		events.BoardEvent(1, 1, 0, 1),
		events.MoveEvent(1, 0, 2),
		events.BoardEvent(2, 3, 0, 2),
		events.BoardEvent(2, 4, 0, 2),
		events.DepartEvent(2, 0, 0, 2),
		events.DepartEvent(2, 1, 0, 2),
		events.MoveEvent(2, 0, 1),
		events.BoardEvent(3, 2, 0, 1),
		events.DepartEvent(3, 3, 0, 1),
		events.MoveEvent(3, 0, 0),
		events.DepartEvent(4, 4, 0, 0),
		events.DepartEvent(4, 2, 0, 0),
	}
	if !slices.Equal(result.Events, want) {
		t.Errorf("Unexpected trace:\n got  %v\n want %v", result.Events, want)
	}
	if result.Outcome != types.Completed || result.Steps != 5 {
		t.Errorf("Expected completion after 5 steps, got %s after %d", result.Outcome, result.Steps)
	}
	if result.Delivered != 5 || result.Stranded != 0 {
		t.Errorf("Expected 5 delivered, got %d (%d stranded)", result.Delivered, result.Stranded)
	}
	checkPassengerMovement(t, s.Passengers(), result.Events)
}

// Two elevators on three floors used to end the run as soon as the idle car
// found nothing to do, stranding the passenger going 2 -> 0.
func TestMultipleElevators(t *testing.T) {
	s, err := NewManual(5, 2, 3, trips([2]int{2, 0}, [2]int{0, 2}, [2]int{0, 1}, [2]int{0, 2}, [2]int{0, 2}))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	result, err := s.Run()
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	want := []events.SimEvent{
		events.BoardEvent(0, 1, 0, 0),
		events.BoardEvent(0, 2, 0, 0),
		events.BoardEvent(0, 3, 0, 0),
		events.BoardEvent(0, 4, 0, 0),
		events.MoveEvent(0, 0, 1),
		events.DepartEvent(1, 2, 0, 1),
		events.MoveEvent(1, 0, 2),
		events.MoveEvent(1, 1, 2),
		events.BoardEvent(2, 0, 0, 2),
		events.DepartEvent(2, 1, 0, 2),
		events.DepartEvent(2, 3, 0, 2),
		events.DepartEvent(2, 4, 0, 2),
		events.MoveEvent(2, 0, 0),
		events.DepartEvent(3, 0, 0, 0),
	}
	if !slices.Equal(result.Events, want) {
		t.Errorf("Unexpected trace:\n got  %v\n want %v", result.Events, want)
	}
	if result.Outcome != types.Completed {
		t.Errorf("Expected completion, got %s", result.Outcome)
	}
	if n := countKind(result.Events, types.Board); n != 5 {
		t.Errorf("Expected 5 BOARD events, got %d", n)
	}
	if n := countKind(result.Events, types.Depart); n != 5 {
		t.Errorf("Expected 5 DEPART events, got %d", n)
	}
	checkPassengerMovement(t, s.Passengers(), result.Events)
}

func countKind(evs []events.SimEvent, kind types.EventKind) int {
	n := 0
	for _, e := range evs {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func TestLargeRandom(t *testing.T) {
	cfg := config.Default()
	cfg.Capacity = 5
	cfg.Elevators = 10
	cfg.Passengers = 500
	cfg.Floors = 25
	cfg.Seed = 42
	cfg.MaxSteps = 10_000
	cfg.CheckInvariants = true

	s, err := New(cfg)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	result, err := s.Run()
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Outcome != types.Completed {
		t.Fatalf("Expected completion, got %s with %d stranded", result.Outcome, result.Stranded)
	}
	checkPassengerMovement(t, s.Passengers(), result.Events)
}

// Every randomized run must end by delivering everyone or by deadlock, within
// the step ceiling, and never lose a passenger between two steps.
func TestRandomizedRunsTerminate(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	for i := 0; i < 60; i++ {
		cfg := config.Default()
		cfg.Floors = 2 + r.IntN(20)
		cfg.Elevators = 1 + r.IntN(6)
		cfg.Capacity = 1 + r.IntN(6)
		cfg.Passengers = r.IntN(120)
		cfg.Seed = r.Uint64() | 1
		cfg.MaxSteps = 20_000

		t.Run(fmt.Sprintf("run%d", i), func(t *testing.T) {
			var passengers []elev.Passenger
			var checkErr error
			lastStep := -1
			s, err := New(cfg, WithObserver(func(snap Snapshot) {
				if checkErr == nil {
					checkErr = CheckInvariants(snap, passengers)
				}
				if snap.Step <= lastStep {
					t.Errorf("Snapshot step went from %d to %d", lastStep, snap.Step)
				}
				lastStep = snap.Step
			}))
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			passengers = s.Passengers()

			result, err := s.Run()
			if err != nil {
				t.Fatalf("Run failed (%+v): %v", cfg, err)
			}
			if checkErr != nil {
				t.Fatalf("Invariant broken (%+v): %v", cfg, checkErr)
			}
			switch result.Outcome {
			case types.Completed:
				checkPassengerMovement(t, passengers, result.Events)
			case types.Deadlocked:
				if result.Delivered+result.Stranded != len(passengers) {
					t.Errorf("Deadlocked run lost passengers: %d + %d != %d", result.Delivered, result.Stranded, len(passengers))
				}
			default:
				t.Errorf("Unexpected outcome %s", result.Outcome)
			}
			if n := countKind(result.Events, types.Depart); n != result.Delivered {
				t.Errorf("Expected %d DEPART events, got %d", result.Delivered, n)
			}
		})
	}
}

func TestRunTwice(t *testing.T) {
	s, err := NewManual(2, 1, 2, trips([2]int{1, 0}))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, err := s.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if _, err := s.Run(); !errors.Is(err, ErrFinished) {
		t.Errorf("Expected ErrFinished, got %v", err)
	}
}

func TestStepLimit(t *testing.T) {
	cfg := config.Default()
	cfg.Trips = trips([2]int{0, 2}, [2]int{2, 0})
	cfg.MaxSteps = 1

	s, err := New(cfg)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	result, err := s.Run()
	if !errors.Is(err, ErrStepLimit) {
		t.Fatalf("Expected ErrStepLimit, got %v", err)
	}
	if result.Outcome != types.StepLimit || result.Steps != 1 || result.Stranded == 0 {
		t.Errorf("Unexpected partial result %+v", result)
	}
}

func TestNoPassengers(t *testing.T) {
	s, err := NewRandom(3, 2, 0, 4)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	result, err := s.Run()
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Outcome != types.Completed || len(result.Events) != 0 {
		t.Errorf("Expected an empty completed run, got %+v", result)
	}
}

func TestManualSetupValidation(t *testing.T) {
	tests := []struct {
		name      string
		capacity  int
		elevators int
		floors    int
		trips     []config.Trip
	}{
		{"zero capacity", 0, 1, 3, trips([2]int{0, 1})},
		{"no elevators", 2, 0, 3, trips([2]int{0, 1})},
		{"one floor", 2, 1, 1, nil},
		{"start equals destination", 2, 1, 3, trips([2]int{1, 1})},
		{"destination out of range", 2, 1, 3, trips([2]int{0, 3})},
		{"negative start", 2, 1, 3, trips([2]int{-1, 2})},
	}
	for _, tt := range tests {
		_, err := NewManual(tt.capacity, tt.elevators, tt.floors, tt.trips)
		if !errors.Is(err, config.ErrInvalidConfig) {
			t.Errorf("%s: expected ErrInvalidConfig, got %v", tt.name, err)
		}
	}
}

func TestRandomTripsDistinctFloors(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for _, trip := range RandomTrips(r, 1000, 4) {
		if trip.Start == trip.Destination {
			t.Fatalf("Trip %v starts on its destination", trip)
		}
		if trip.Start < 0 || trip.Start > 3 || trip.Destination < 0 || trip.Destination > 3 {
			t.Fatalf("Trip %v leaves the building", trip)
		}
	}
}

func TestRandomTripsReachEveryFloor(t *testing.T) {
	const numFloors = 10
	r := rand.New(rand.NewPCG(3, 4))
	trips := RandomTrips(r, 500, numFloors)
	if len(trips) != 500 {
		t.Fatalf("Expected 500 trips, got %d", len(trips))
	}
	starts := map[int]bool{}
	destinations := map[int]bool{}
	for _, trip := range trips {
		starts[trip.Start] = true
		destinations[trip.Destination] = true
	}
	for f := 0; f < numFloors; f++ {
		if !starts[f] {
			t.Errorf("Floor %d never drawn as a start", f)
		}
		if !destinations[f] {
			t.Errorf("Floor %d never drawn as a destination", f)
		}
	}
}

func TestRandomTripsMorePassengersThanFloors(t *testing.T) {
	r := rand.New(rand.NewPCG(5, 6))
	for _, trip := range RandomTrips(r, 5, 2) {
		if trip != (config.Trip{Start: 0, Destination: 1}) && trip != (config.Trip{Start: 1, Destination: 0}) {
			t.Errorf("Unexpected trip %v in a two-floor building", trip)
		}
	}
}

func TestNewRandomDefaults(t *testing.T) {
	s, err := NewRandom(config.DefaultCapacity, config.DefaultElevators, config.DefaultPassengers, config.DefaultFloors)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got := len(s.Passengers()); got != config.DefaultPassengers {
		t.Fatalf("Expected %d passengers, got %d", config.DefaultPassengers, got)
	}
	result, err := s.Run()
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Outcome != types.Completed || result.Delivered != config.DefaultPassengers {
		t.Errorf("Expected all passengers delivered, got %+v", result)
	}
}

func TestSameSeedSameRun(t *testing.T) {
	run := func() []events.SimEvent {
		cfg := config.Default()
		cfg.Elevators = 3
		cfg.Floors = 10
		cfg.Passengers = 80
		cfg.Seed = 99
		s, err := New(cfg)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		result, err := s.Run()
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		return result.Events
	}
	if a, b := run(), run(); !slices.Equal(a, b) {
		t.Errorf("Runs with the same seed differ")
	}
}

// Simulations own their id sequences, so parallel runs never interfere.
func TestIndependentSimulations(t *testing.T) {
	for i := 0; i < 4; i++ {
		t.Run(fmt.Sprintf("sim%d", i), func(t *testing.T) {
			t.Parallel()
			s, err := NewRandom(4, 2, 30, 6)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			for want, p := range s.Passengers() {
				if p.ID != want {
					t.Fatalf("Expected passenger id %d, got %d", want, p.ID)
				}
			}
			if _, err := s.Run(); err != nil {
				t.Errorf("Run failed: %v", err)
			}
		})
	}
}

func TestCheckInvariantsOption(t *testing.T) {
	cfg := config.Default()
	cfg.Elevators = 2
	cfg.Trips = trips([2]int{2, 0}, [2]int{0, 2}, [2]int{0, 1}, [2]int{0, 2}, [2]int{0, 2})
	cfg.CheckInvariants = true
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, err := s.Run(); err != nil {
		t.Errorf("Invariants should hold throughout, got %v", err)
	}
}
