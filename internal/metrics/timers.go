// Package metrics keeps lap timers for the phases of a command run.
package metrics

import (
	"time"

	log "github.com/sirupsen/logrus"
)

type Timers struct {
	Timers map[string]*Timer `json:"timers,omitempty"`
	order  []string
	last   string
	now    func() time.Time
}

func NewTimers() *Timers {
	return &Timers{
		Timers: make(map[string]*Timer),
		now:    time.Now,
	}
}

// set starts a timer, or stops it when it is already running.
func (ts *Timers) set(k string) {
	t, ok := ts.Timers[k]
	if !ok {
		ts.Timers[k] = &Timer{start: ts.now()}
		ts.order = append(ts.order, k)
		return
	}
	t.Total = ts.now().Sub(t.start).Seconds()
}

// Set stops the last lap and starts k.
func (ts *Timers) Set(k string) {
	if ts.last != "" {
		ts.set(ts.last)
	}
	ts.set(k)
	ts.last = k
}

// Add starts or stops k without touching the current lap.
func (ts *Timers) Add(k string) {
	ts.set(k)
}

// Stop closes the running lap.
func (ts *Timers) Stop() {
	if ts.last != "" {
		ts.set(ts.last)
		ts.last = ""
	}
}

// Log writes every timer at debug level, in creation order.
func (ts *Timers) Log() {
	for _, k := range ts.order {
		log.WithField("seconds", ts.Timers[k].Total).Debugf("timer %s", k)
	}
}

type Timer struct {
	start time.Time

	// Total time in seconds
	Total float64 `json:"seconds"`
}
