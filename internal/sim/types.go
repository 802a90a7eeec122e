package sim

import (
	"github.com/san-kum/gravsim/internal/dynamo"
)

// Observer is notified after every successful step with a fresh copy of
// the body state. Observers must not mutate the simulation.
type Observer interface {
	OnStep(snaps []dynamo.Snapshot, t float64)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(snaps []dynamo.Snapshot, t float64)

func (f ObserverFunc) OnStep(snaps []dynamo.Snapshot, t float64) { f(snaps, t) }

// Metric is an Observer that reduces a run to a single number.
type Metric interface {
	Name() string
	Observe(snaps []dynamo.Snapshot, t float64)
	Value() float64
	Reset()
}

type Result struct {
	StepsTaken int
	Time       float64
	Final      []dynamo.Snapshot
	Metrics    map[string]float64
}
