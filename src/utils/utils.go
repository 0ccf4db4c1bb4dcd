package utils

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"liftsim/src/events"
	"liftsim/src/sim"
	"liftsim/src/timer"
	"liftsim/src/types"
)

// ForEachStep is a helper function that groups consecutive events of the same step
func ForEachStep(evs []events.SimEvent, action func(step int, stepEvents []events.SimEvent)) {
	for start := 0; start < len(evs); {
		end := start
		for end < len(evs) && evs[end].Step == evs[start].Step {
			end++
		}
		action(evs[start].Step, evs[start:end])
		start = end
	}
}

// FormatEvent renders one event on a single line.
func FormatEvent(e events.SimEvent) string {
	switch e.Kind {
	case types.Board:
		return fmt.Sprintf("Board(p%d, e%d@%d)", e.Passenger, e.Elevator, e.Floor)
	case types.Depart:
		return fmt.Sprintf("Depart(p%d, e%d@%d)", e.Passenger, e.Elevator, e.Floor)
	case types.Move:
		return fmt.Sprintf("Move(e%d -> %d)", e.Elevator, e.Floor)
	}
	return "Unknown"
}

// RenderSnapshot draws the building top floor first.
func RenderSnapshot(w io.Writer, snap sim.Snapshot) {
	fmt.Fprintf(w, "Step %d\n", snap.Step)
	for i := len(snap.Floors) - 1; i >= 0; i-- {
		floor := snap.Floors[i]
		var cars []string
		for _, e := range snap.Elevators {
			if e.Floor == floor.ID {
				cars = append(cars, fmt.Sprintf("[e%d %s %d/%d]", e.ID, e.Dir, len(e.Riders), e.Capacity))
			}
		}
		waiting := make([]string, len(floor.Waiting))
		for j, p := range floor.Waiting {
			waiting[j] = fmt.Sprintf("p%d->%d", p.ID, p.Destination)
		}
		fmt.Fprintf(w, "%3d | %-24s | %s\n", floor.ID, strings.Join(cars, " "), strings.Join(waiting, " "))
	}
}

// Replay prints the events step by step, waiting interval between steps.
func Replay(w io.Writer, evs []events.SimEvent, interval time.Duration) {
	timeout := make(chan bool)
	action := make(chan timer.TimerAction)
	go timer.Timer(interval, timeout, action)
	defer close(action)

	ForEachStep(evs, func(step int, stepEvents []events.SimEvent) {
		line := make([]string, len(stepEvents))
		for i, e := range stepEvents {
			line[i] = FormatEvent(e)
		}
		fmt.Fprintf(w, "step %4d: %s\n", step, strings.Join(line, " "))
		action <- timer.Start
		<-timeout
	})
	slog.Debug("Replay finished", "events", len(evs))
}

// PrintSummary reports the outcome of a run with grouped thousands.
func PrintSummary(w io.Writer, result *sim.Result, stats sim.Stats) {
	p := message.NewPrinter(language.English)
	p.Fprintf(w, "Outcome:    %s after %d steps\n", result.Outcome, result.Steps)
	p.Fprintf(w, "Passengers: %d delivered, %d stranded\n", result.Delivered, result.Stranded)
	p.Fprintf(w, "Events:     %d (%d moves, %d floors travelled)\n", len(result.Events), stats.Moves, stats.FloorsTravel)
	p.Fprintf(w, "Waiting:    avg %.2f steps, longest %d\n", stats.AverageWait(), stats.LongestWait)
	p.Fprintf(w, "Riding:     avg %.2f steps, longest %d\n", stats.AverageRide(), stats.LongestRide)
}
