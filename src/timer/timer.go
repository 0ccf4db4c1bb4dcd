package timer

import (
	"log/slog"
	"time"
)

type TimerAction int

const (
	Start TimerAction = iota
	Stop
)

// Timer paces the replay of a run. Every Start (re)arms the timer and a tick
// is sent on timeout once interval has passed. Closing action ends the loop.
func Timer(interval time.Duration, timeout chan<- bool, action <-chan TimerAction) {
	t := time.NewTimer(interval)
	t.Stop()
	for {
		select {
		case a, ok := <-action:
			if !ok {
				t.Stop()
				return
			}
			switch a {
			case Start:
				resetTimer(t, interval)
			case Stop:
				t.Stop()
			}
		case <-t.C:
			timeout <- true
			slog.Debug("Timer timed out")
		}
	}
}

// Stops the timer and resets it.
func resetTimer(t *time.Timer, interval time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(interval)
}
