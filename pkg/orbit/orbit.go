// Package orbit propagates the planet along a fixed Keplerian ellipse around the black hole.
package orbit

import (
	"math"

	"github.com/df07/go-blackhole-raytracer/pkg/core"
	"github.com/soniakeys/meeus/v3/kepler"
	"github.com/soniakeys/unit"
	"gonum.org/v1/gonum/spatial/r3"
)

// keplerPlaces is the decimal precision requested from the iterative Kepler solver
const keplerPlaces = 12

// Elements are the fixed Keplerian elements of the orbit.
// The reference plane is the black hole's equator (y = 0); periapsis lies on +X
// before the ascending node rotation is applied.
type Elements struct {
	SemiMajorAxis      float64 // Physical units
	Eccentricity       float64 // [0, 1)
	Inclination        float64 // Radians, tilt of the orbital plane about X
	AscendingNode      float64 // Radians, rotation of the tilted plane about Y
	Period             float64 // Simulated seconds per revolution
	MeanAnomalyAtEpoch float64 // Radians at t = 0
}

// State is the planet's kinematic state at a given simulated time
type State struct {
	Position    core.Vec3
	Velocity    core.Vec3
	TrueAnomaly float64
	Radius      float64
}

// PeriodFromMass returns the orbital period for a semi-major axis around a central mass.
// timeScale > 1 speeds the orbit up for display.
func PeriodFromMass(semiMajorAxis, mass, timeScale float64) float64 {
	meanMotion := math.Sqrt(core.G*mass/(semiMajorAxis*semiMajorAxis*semiMajorAxis)) * timeScale
	return 2 * math.Pi / meanMotion
}

// Propagator evaluates the orbit in closed form. It holds no clock: the same
// simulated time always yields the same state.
type Propagator struct {
	elements Elements
	tilt     r3.Rotation
	node     r3.Rotation
}

// NewPropagator creates a propagator for the given elements
func NewPropagator(elements Elements) *Propagator {
	// Tilt the orbital plane about X so the orbit's +Z leg rises into +Y,
	// then swing the line of nodes about the black hole's spin axis.
	return &Propagator{
		elements: elements,
		tilt:     r3.NewRotation(-elements.Inclination, r3.Vec{X: 1}),
		node:     r3.NewRotation(elements.AscendingNode, r3.Vec{Y: 1}),
	}
}

// Elements returns the orbital elements
func (p *Propagator) Elements() Elements {
	return p.elements
}

// MeanMotion returns the mean angular rate in radians per simulated second
func (p *Propagator) MeanMotion() float64 {
	return 2 * math.Pi / p.elements.Period
}

// At returns the planet state at simulated time t (seconds since epoch)
func (p *Propagator) At(t float64) State {
	el := p.elements
	n := p.MeanMotion()

	meanAnomaly := math.Mod(el.MeanAnomalyAtEpoch+n*t, 2*math.Pi)
	if meanAnomaly < 0 {
		meanAnomaly += 2 * math.Pi
	}

	E := eccentricAnomaly(el.Eccentricity, meanAnomaly)
	nu := kepler.True(E, el.Eccentricity).Rad()
	radius := kepler.Radius(E, el.Eccentricity, el.SemiMajorAxis)

	sinE, cosE := math.Sincos(E.Rad())
	sinNu, cosNu := math.Sincos(nu)
	e := el.Eccentricity
	a := el.SemiMajorAxis
	denom := 1 - e*cosE
	sqrtOneMinusE2 := math.Sqrt(1 - e*e)

	// Orbital plane coordinates: x toward periapsis, z along the direction of motion
	position := r3.Vec{X: radius * cosNu, Z: radius * sinNu}
	velocity := r3.Vec{
		X: -a * n * sinE / denom,
		Z: a * n * sqrtOneMinusE2 * cosE / denom,
	}

	position = p.toWorld(position)
	velocity = p.toWorld(velocity)

	return State{
		Position:    core.NewVec3(position.X, position.Y, position.Z),
		Velocity:    core.NewVec3(velocity.X, velocity.Y, velocity.Z),
		TrueAnomaly: nu,
		Radius:      radius,
	}
}

// eccentricAnomaly solves Kepler's equation M = E - e sin E
func eccentricAnomaly(e, meanAnomaly float64) unit.Angle {
	M := unit.Angle(meanAnomaly)
	if e == 0 {
		return M
	}
	E, err := kepler.Kepler2b(e, M, keplerPlaces)
	if err != nil {
		// Bisection always converges for elliptical orbits
		return kepler.Kepler3(e, M)
	}
	return E
}

// toWorld maps an orbital-plane vector into world space
func (p *Propagator) toWorld(v r3.Vec) r3.Vec {
	return p.node.Rotate(p.tilt.Rotate(v))
}
