// Package sim owns one simulation run: it builds the building from a scenario,
// drives the dispatcher step by step and hands back the event log.
package sim

import (
	"log/slog"
	"math/rand/v2"

	"github.com/pkg/errors"

	"liftsim/src/config"
	"liftsim/src/dispatcher"
	"liftsim/src/elev"
	"liftsim/src/events"
	"liftsim/src/types"
)

var (
	ErrFinished  = errors.New("simulation already ran")
	ErrStepLimit = errors.New("step limit reached")
)

// Result is what a run hands back to the caller.
type Result struct {
	Events    []events.SimEvent
	Outcome   types.Outcome
	Steps     int
	Delivered int
	Stranded  int
}

type Option func(*Simulation)

// WithObserver registers a callback that receives a detached snapshot after every step.
func WithObserver(observe func(Snapshot)) Option {
	return func(s *Simulation) { s.observers = append(s.observers, observe) }
}

type Simulation struct {
	cfg        config.Config
	building   *dispatcher.Building
	passengers []elev.Passenger
	observers  []func(Snapshot)
	done       bool

	floorIDs     elev.Sequence
	elevatorIDs  elev.Sequence
	passengerIDs elev.Sequence
}

// NewManual places the given trips in the building in order.
func NewManual(capacity, numElevators, numFloors int, trips []config.Trip, opts ...Option) (*Simulation, error) {
	cfg := config.Default()
	cfg.Capacity = capacity
	cfg.Elevators = numElevators
	cfg.Floors = numFloors
	cfg.Trips = trips
	cfg.Passengers = len(trips)
	return New(cfg, opts...)
}

// NewRandom generates numPassengers trips with distinct start and destination floors.
func NewRandom(capacity, numElevators, numPassengers, numFloors int, opts ...Option) (*Simulation, error) {
	cfg := config.Default()
	cfg.Capacity = capacity
	cfg.Elevators = numElevators
	cfg.Floors = numFloors
	cfg.Passengers = numPassengers
	return New(cfg, opts...)
}

// New builds a simulation from a scenario. A zero seed picks a random one,
// which is recorded in Config so the run can be repeated.
func New(cfg config.Config, opts ...Option) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Seed == 0 && !cfg.Manual() {
		cfg.Seed = rand.Uint64()
	}
	s := &Simulation{cfg: cfg}
	for _, opt := range opts {
		opt(s)
	}

	floors := make([]*elev.Floor, cfg.Floors)
	for i := range floors {
		floors[i] = elev.NewFloor(s.floorIDs.Next())
	}
	elevators := make([]*elev.Elevator, cfg.Elevators)
	for i := range elevators {
		elevators[i] = elev.NewElevator(s.elevatorIDs.Next(), cfg.Capacity, cfg.StartFloor)
	}

	trips := cfg.Trips
	if !cfg.Manual() {
		trips = RandomTrips(rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)), cfg.Passengers, cfg.Floors)
	}
	for _, t := range trips {
		p := elev.Passenger{ID: s.passengerIDs.Next(), Start: t.Start, Destination: t.Destination}
		s.passengers = append(s.passengers, p)
		floors[p.Start].Enter(p)
	}

	s.building = dispatcher.NewBuilding(floors, elevators, s.passengers)
	slog.Debug("Simulation initialized",
		"capacity", cfg.Capacity,
		"elevators", cfg.Elevators,
		"floors", cfg.Floors,
		"passengers", len(s.passengers),
		"seed", cfg.Seed)
	return s, nil
}

// RandomTrips draws start and destination for every passenger without
// replacement from the floor ids.
func RandomTrips(r *rand.Rand, numPassengers, numFloors int) []config.Trip {
	trips := make([]config.Trip, numPassengers)
	for i := range trips {
		floors := make([]int, numFloors)
		for f := range floors {
			floors[f] = f
		}
		start := draw(r, &floors)
		trips[i] = config.Trip{Start: start, Destination: draw(r, &floors)}
	}
	return trips
}

func draw(r *rand.Rand, pool *[]int) int {
	i := r.IntN(len(*pool))
	v := (*pool)[i]
	*pool = append((*pool)[:i], (*pool)[i+1:]...)
	return v
}

func (s *Simulation) Config() config.Config { return s.cfg }

// EventLog exposes the log of the run for export.
func (s *Simulation) EventLog() *events.Log { return s.building.Log }

// Passengers returns every passenger of the run, delivered or not.
func (s *Simulation) Passengers() []elev.Passenger {
	out := make([]elev.Passenger, len(s.passengers))
	copy(out, s.passengers)
	return out
}

// Run steps the dispatcher until every passenger is delivered, no elevator can
// make progress, or the step ceiling is hit. Invariant violations abort the
// run; the partial result is returned alongside the error.
func (s *Simulation) Run() (*Result, error) {
	if s.done {
		return nil, ErrFinished
	}
	s.done = true

	outcome, err := s.loop()
	result := &Result{
		Events:    s.building.Log.Events(),
		Outcome:   outcome,
		Steps:     s.building.Steps,
		Delivered: len(s.passengers) - s.building.Active(),
		Stranded:  s.building.Active(),
	}
	if err != nil {
		slog.Error("Simulation aborted", "step", s.building.Steps, "error", err)
		return result, err
	}
	slog.Info("Simulation finished",
		"outcome", outcome,
		"steps", result.Steps,
		"delivered", result.Delivered,
		"stranded", result.Stranded,
		"events", len(result.Events))
	return result, nil
}

func (s *Simulation) loop() (types.Outcome, error) {
	for {
		if s.cfg.MaxSteps > 0 && s.building.Steps >= s.cfg.MaxSteps {
			return types.StepLimit, errors.Wrapf(ErrStepLimit, "%d passengers still active after %d steps", s.building.Active(), s.building.Steps)
		}
		outcome, err := s.building.Step()
		if err != nil {
			return types.Aborted, errors.Wrapf(err, "step %d", s.building.Steps)
		}
		if err := s.afterStep(); err != nil {
			return types.Aborted, err
		}
		if outcome != types.Running {
			return outcome, nil
		}
	}
}

func (s *Simulation) afterStep() error {
	if len(s.observers) == 0 && !s.cfg.CheckInvariants {
		return nil
	}
	snap, err := s.Snapshot()
	if err != nil {
		return err
	}
	if s.cfg.CheckInvariants {
		if err := CheckInvariants(snap, s.passengers); err != nil {
			return errors.Wrapf(err, "after step %d", snap.Step)
		}
	}
	for _, observe := range s.observers {
		observe(snap)
	}
	return nil
}
