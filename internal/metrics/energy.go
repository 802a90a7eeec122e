package metrics

import (
	"math"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// Energy reports the latest total energy of the system.
type Energy struct {
	name    string
	pot     Potential
	current float64
	samples int
}

func NewEnergy(pot Potential) *Energy {
	return &Energy{name: "energy", pot: pot}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(snaps []dynamo.Snapshot, t float64) {
	e.current = TotalEnergy(snaps, e.pot)
	e.samples++
}

func (e *Energy) Value() float64 { return e.current }

func (e *Energy) Reset() {
	e.current = 0
	e.samples = 0
}

// EnergyDrift tracks |E(t) − E(0)| / |E(0)| and reports its maximum. The
// full series is kept for plotting.
type EnergyDrift struct {
	name          string
	pot           Potential
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	samples       int
	series        []float64
}

func NewEnergyDrift(pot Potential) *EnergyDrift {
	return &EnergyDrift{
		name: "energy_drift",
		pot:  pot,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(snaps []dynamo.Snapshot, t float64) {
	energy := TotalEnergy(snaps, e.pot)

	if e.samples == 0 {
		e.initialEnergy = energy
	}

	e.currentEnergy = energy
	e.samples++

	drift := 0.0
	if e.initialEnergy != 0 {
		drift = math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
	e.series = append(e.series, drift)
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

// Series returns the relative drift after every observation.
func (e *EnergyDrift) Series() []float64 {
	return e.series
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
	e.samples = 0
	e.series = e.series[:0]
}
