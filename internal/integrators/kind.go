package integrators

import (
	"fmt"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// Kind selects an integration strategy.
type Kind string

const (
	KindEuler    Kind = "euler"
	KindLeapfrog Kind = "leapfrog"
	KindRK4      Kind = "rk4"
)

// DefaultKind is the most accurate and stable of the three.
const DefaultKind = KindRK4

// Kinds lists the strategies in increasing order of accuracy.
func Kinds() []Kind {
	return []Kind{KindEuler, KindLeapfrog, KindRK4}
}

func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindEuler, KindLeapfrog, KindRK4:
		return k, nil
	case "":
		return DefaultKind, nil
	}
	return "", fmt.Errorf("unknown integrator: %s (available: %v)", s, Kinds())
}

// New builds a fresh integrator. Unknown kinds fall back to DefaultKind.
func New(k Kind) dynamo.Integrator {
	switch k {
	case KindEuler:
		return NewEuler()
	case KindLeapfrog:
		return NewLeapfrog()
	default:
		return NewRK4()
	}
}

// Order is the global order of accuracy of the strategy.
func (k Kind) Order() int {
	switch k {
	case KindEuler:
		return 1
	case KindLeapfrog:
		return 2
	default:
		return 4
	}
}
