package physics

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/vecmath"
)

const (
	// AU is one astronomical unit in meters.
	AU = 1.496e11
	// Year is the length of a year in seconds.
	Year = 3.154e7

	SunMass   = 1.989e30
	EarthMass = 5.9742e24
)

var (
	white     = rgb(255, 255, 255)
	yellow    = rgb(255, 255, 0)
	gray      = rgb(169, 169, 169)
	orange    = rgb(255, 165, 0)
	lightBlue = rgb(173, 216, 230)
	red       = rgb(255, 0, 0)
	brown     = rgb(222, 184, 135)
	blue      = rgb(0, 0, 255)
)

func rgb(r, g, b uint8) colorful.Color {
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// Scenario is a named initial-condition catalog. Tracers is the number of
// massless bodies a scenario adds when it supports them.
type Scenario struct {
	Name        string
	Description string
	Build       func(rng *rand.Rand, tracers int) []dynamo.InitialCondition
}

var scenarios = map[string]Scenario{
	"solar": {
		Name:        "solar",
		Description: "sun, planets and major moons from JPL Horizons state vectors, plus an asteroid belt",
		Build: func(rng *rand.Rand, tracers int) []dynamo.InitialCondition {
			bodies := SolarSystem()
			return append(bodies, AsteroidBelt(rng, bodies[0], tracers, 2.2, 3.2)...)
		},
	},
	"kepler": {
		Name:        "kepler",
		Description: "sun at rest and an earth-like body at 1 AU",
		Build:       func(*rand.Rand, int) []dynamo.InitialCondition { return Kepler() },
	},
	"four": {
		Name:        "four",
		Description: "four equal masses on the axes with zero net momentum",
		Build:       func(*rand.Rand, int) []dynamo.InitialCondition { return SymmetricFour() },
	},
	"binary": {
		Name:        "binary",
		Description: "two solar masses on a circular orbit about their barycenter",
		Build: func(rng *rand.Rand, tracers int) []dynamo.InitialCondition {
			return Binary(SunMass, AU)
		},
	},
}

func LookupScenario(name string) (Scenario, error) {
	s, ok := scenarios[name]
	if !ok {
		return Scenario{}, fmt.Errorf("unknown scenario: %s (available: %v)", name, ScenarioNames())
	}
	return s, nil
}

func ScenarioNames() []string {
	names := make([]string, 0, len(scenarios))
	for name := range scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func body(name string, c colorful.Color, radius, mass float64, posAU, vel [3]float64) dynamo.InitialCondition {
	return dynamo.InitialCondition{
		Name:     name,
		Mass:     mass,
		Position: vecmath.New(posAU[0]*AU, posAU[1]*AU, posAU[2]*AU),
		Velocity: vecmath.New(vel[0], vel[1], vel[2]),
		Payload:  dynamo.Payload{Color: c, Radius: radius},
	}
}

// SolarSystem returns heliocentric state vectors (positions in AU scaled to
// meters, velocities in m/s). Callisto is left out: its published row
// duplicated Io's velocity.
func SolarSystem() []dynamo.InitialCondition {
	return []dynamo.InitialCondition{
		body("sun", yellow, 2, 1.98892e30,
			[3]float64{-8.974133574359094e-03, -4.482427452346882e-04, 2.127030817970091e-04},
			[3]float64{2.943740906566515, -1.522269030106718e+01, 5.405294312927581e-02}),
		body("mercury", gray, 1, 3.3e23,
			[3]float64{2.149048126431211e-01, -3.703275102221233e-01, -5.054911078568054e-02},
			[3]float64{3.194733455939798e+04, 2.760819992651870e+04, -6.726501719165086e+02}),
		body("venus", orange, 1, 4.8685e24,
			[3]float64{3.767586589387518e-01, 6.096285845914635e-01, -1.366913498677996e-02},
			[3]float64{-2.970885187788254e+04, 1.854691206999238e+04, 1.969344555554133e+03}),
		body("earth", lightBlue, 1, EarthMass,
			[3]float64{-9.505921700191389e-01, 3.087952119351821e-01, 1.989011142050173e-04},
			[3]float64{-9.765270895434471e+03, -2.842566374064967e+04, 1.340272026562062}),
		body("moon", gray, 1, 7.346e22,
			[3]float64{-9.516099449755469e-01, 3.112973301473198e-01, 4.330394864078491e-04},
			[3]float64{-1.066377823007508e+04, -2.878353621791489e+04, 2.165227437387784e+01}),
		body("mars", red, 1, 6.39e23,
			[3]float64{-7.405291211708632e-01, 1.452944259261813, 4.861778406962673e-02},
			[3]float64{-2.072274803097698e+04, -8.848861397338558e+03, 3.233078954361095e+02}),
		body("jupiter", brown, 1, 1.898e27,
			[3]float64{4.704772918851717, 1.511365399792853, -1.115289067637071e-01},
			[3]float64{-4.142495775785003e+03, 1.305304733174904e+04, 3.854785819752404e+01}),
		body("io", white, 1, 8.9319e22,
			[3]float64{4.706938257216622, 1.509572133786335, -1.115594494192786e-01},
			[3]float64{-1.230429875586250e+04, 1.402234469412938e+04, -3.975277505700525e+01}),
		body("europa", white, 1, 4.8e22,
			[3]float64{4.702856385815596, 1.515378255151747, -1.114295295544017e-01},
			[3]float64{-1.666930213080933e+04, 7.148065924326971e+03, -4.541115612813402e+02}),
		body("ganymede", white, 1, 1.4819e23,
			[3]float64{4.703207226292632, 1.518356168535199, -1.112841464407621e-01},
			[3]float64{-1.474354194458230e+04, 1.070435488535438e+04, -1.985930546699728e+02}),
		body("saturn", brown, 1, 5.683e26,
			[3]float64{8.305195501443066, -5.220660638189502, -2.398939811841545e-01},
			[3]float64{4.600536590796957e+03, 8.158326300996555e+03, -3.244831811891196e+02}),
		body("titan", white, 1, 1.3452e23,
			[3]float64{8.312856127498531, -5.219148638165247, -2.414370887995103e-01},
			[3]float64{3.206448276258196e+03, 1.314094496673270e+04, -2.754997061373401e+03}),
		body("uranus", blue, 1, 8.6811e24,
			[3]float64{1.318193324076657e+01, 1.457795067541527e+01, -1.166313290118892e-01},
			[3]float64{-5.100987027758054e+03, 4.250202813282490e+03, 8.207046388370087e+01}),
		body("neptune", blue, 1, 1.02409e26,
			[3]float64{2.976877605000455e+01, -2.750966044048722, -6.294024336722218e-01},
			[3]float64{4.643812712803050e+02, 5.444339754400878e+03, -1.230818583920708e+02}),
		body("pluto", gray, 1, 1.309e22,
			[3]float64{1.634165701841916e+01, -3.059305947768982e+01, -1.453331982012886},
			[3]float64{4.939775926882488e+03, 1.393967470123350e+03, -1.560052632054384e+03}),
		body("ceres", white, 1, 9.3835e20,
			[3]float64{-2.520166209594838, 1.981777425761302e-01, 4.690652595690624e-01},
			[3]float64{-2.087658705414134e+03, -1.918397099983357e+04, -2.209470431651512e+02}),
	}
}

// Kepler is the two-body reference case: the sun at rest at the origin and
// an earth-like body at 1 AU moving at 29783 m/s.
func Kepler() []dynamo.InitialCondition {
	return []dynamo.InitialCondition{
		body("sun", yellow, 2, SunMass, [3]float64{}, [3]float64{}),
		body("earth", lightBlue, 1, EarthMass, [3]float64{1, 0, 0}, [3]float64{0, 29783, 0}),
	}
}

// SymmetricFour places four equal masses at ±d on the x and y axes, all
// circulating the same way at the same speed.
func SymmetricFour() []dynamo.InitialCondition {
	const (
		mass  = 9.3835e27
		d     = 0.364054665
		speed = 0.43236573e3 * 7.25
	)
	return []dynamo.InitialCondition{
		body("east", white, 1, mass, [3]float64{d, 0, 0}, [3]float64{0, speed, 0}),
		body("west", white, 1, mass, [3]float64{-d, 0, 0}, [3]float64{0, -speed, 0}),
		body("north", white, 1, mass, [3]float64{0, d, 0}, [3]float64{-speed, 0, 0}),
		body("south", white, 1, mass, [3]float64{0, -d, 0}, [3]float64{speed, 0, 0}),
	}
}

// Binary returns two equal masses separated by sep on a circular orbit.
func Binary(mass, sep float64) []dynamo.InitialCondition {
	v := math.Sqrt(G * mass / (2 * sep))
	return []dynamo.InitialCondition{
		{Name: "a", Mass: mass, Position: vecmath.New(sep/2, 0, 0), Velocity: vecmath.New(0, v, 0),
			Payload: dynamo.Payload{Color: yellow, Radius: 2}},
		{Name: "b", Mass: mass, Position: vecmath.New(-sep/2, 0, 0), Velocity: vecmath.New(0, -v, 0),
			Payload: dynamo.Payload{Color: orange, Radius: 2}},
	}
}

// AsteroidBelt scatters n massless tracers in the orbital plane of center
// between minAU and maxAU, each on a circular orbit about it.
func AsteroidBelt(rng *rand.Rand, center dynamo.InitialCondition, n int, minAU, maxAU float64) []dynamo.InitialCondition {
	out := make([]dynamo.InitialCondition, 0, n)
	for i := 0; i < n; i++ {
		r := (minAU + rng.Float64()*(maxAU-minAU)) * AU
		angle := rng.Float64() * 2 * math.Pi
		sin, cos := math.Sincos(angle)
		v := CircularVelocity(center.Mass, r, G)

		out = append(out, dynamo.InitialCondition{
			Name:     fmt.Sprintf("asteroid-%d", i),
			Mass:     0,
			Position: center.Position.Add(vecmath.New(r*cos, r*sin, 0)),
			Velocity: center.Velocity.Add(vecmath.New(-v*sin, v*cos, 0)),
			Payload:  dynamo.Payload{Color: white, Radius: 0},
		})
	}
	return out
}
