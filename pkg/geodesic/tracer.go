package geodesic

import (
	"math"

	"github.com/df07/go-blackhole-raytracer/pkg/core"
	"github.com/df07/go-blackhole-raytracer/pkg/scene"
)

// horizonU is the inverse Schwarzschild radius in geometric units (r_s = 2)
const horizonU = 0.5

// Tracer integrates photon orbits around a Schwarzschild black hole.
// A Tracer holds only configuration, so one value may be shared by every worker.
type Tracer struct {
	Steps          int     // Integration budget per ray
	MaxRevolutions float64 // Total angle swept over the budget, in turns
	EscapeRadius   float64 // Geometric radius treated as infinity
	TangentEpsilon float64 // Below this the ray is treated as radial
}

// DefaultTracer returns the reference integration settings
func DefaultTracer() Tracer {
	return Tracer{
		Steps:          2000,
		MaxRevolutions: 2.0,
		EscapeRadius:   1000.0,
		TangentEpsilon: 1e-9,
	}
}

// StepSize returns the fixed angular step Δφ
func (t Tracer) StepSize() float64 {
	return t.MaxRevolutions * 2.0 * math.Pi / float64(t.Steps)
}

// NewRayState builds the initial photon state for a ray leaving origin (physical units)
// along dir. A ray with no tangential component gets a fallback plane and du = 0.
func (t Tracer) NewRayState(origin, dir core.Vec3) RayState {
	pos := core.ToGeometric(origin)
	r := pos.Length()
	normal := pos.Multiply(1.0 / r)
	d := dir.Normalize()

	state := RayState{U: 1.0 / r, Normal: normal}

	tangent := normal.Cross(d).Cross(normal)
	tangentialSpeed := tangent.Length()
	if tangentialSpeed < t.TangentEpsilon {
		state.Tangent = fallbackTangent(normal)
		state.Plane = FallbackPlane
		return state
	}

	state.Tangent = tangent.Multiply(1.0 / tangentialSpeed)
	state.Plane = TangentPlane
	// dr/dφ = r·(d·n)/(d·t) along the initial straight line, and du = -u²·dr
	state.DU = -state.U * d.Dot(normal) / d.Dot(state.Tangent)
	return state
}

// fallbackTangent returns a unit vector orthogonal to normal, preferring world up
func fallbackTangent(normal core.Vec3) core.Vec3 {
	tangent := core.WorldUp.RejectFrom(normal)
	if tangent.LengthSquared() < 1e-12 {
		tangent = core.WorldRight.RejectFrom(normal)
	}
	return tangent.Normalize()
}

// TracePixel traces the primary ray through pixel (x, y) of a width×height image
func (t Tracer) TracePixel(snap *scene.Snapshot, x, y, width, height int) Result {
	dir := PrimaryRay(snap.Camera, x, y, width, height)
	return t.Trace(snap, snap.Camera.Position, dir)
}

// Trace follows a photon from origin (physical units) along dir until it is
// captured, hits the disk or planet, or escapes. It never returns NaN or Inf.
func (t Tracer) Trace(snap *scene.Snapshot, origin, dir core.Vec3) Result {
	if !origin.IsFinite() || core.ToGeometric(origin).Length() <= 1.0/horizonU {
		return Result{Outcome: HitBlackHole}
	}

	state := t.NewRayState(origin, dir)
	if state.Plane == FallbackPlane {
		return t.traceRadial(snap, origin, dir, state)
	}

	dphi := t.StepSize()
	prev := state.Position()
	prevPhysical := origin
	lastDir := dir.Normalize()

	for step := 1; step <= t.Steps; step++ {
		// Leapfrog: drift u, then kick du with the acceleration at the new u
		state.U += state.DU * dphi
		acc := -state.U * (1.0 - 1.5*state.U*state.U)
		state.DU += acc * dphi
		state.Phi += dphi

		if state.U < 0 || math.IsNaN(state.U) || math.IsInf(state.U, 0) {
			return escaped(lastDir, step, state.Plane)
		}
		if state.U > horizonU {
			return Result{Outcome: HitBlackHole, Steps: step, Plane: state.Plane}
		}

		pos := state.Position()
		if !pos.IsFinite() {
			return escaped(lastDir, step, state.Plane)
		}
		physical := core.ToPhysical(pos)

		if hit, ok := crossDisk(snap.Disk, prevPhysical, physical); ok {
			return Result{Outcome: HitDisk, Position: hit, Steps: step, Plane: state.Plane}
		}
		if snap.Disk.InSlab(physical) {
			return Result{Outcome: HitDisk, Position: physical, Steps: step, Plane: state.Plane}
		}
		if hit, normal, ok := hitSphere(snap.Planet, prevPhysical, physical); ok {
			return Result{Outcome: HitPlanet, Position: hit, Normal: normal, Steps: step, Plane: state.Plane}
		}

		if d := pos.Subtract(prev); d.LengthSquared() > 0 {
			lastDir = d.Normalize()
		}
		if pos.Length() > t.EscapeRadius {
			return escaped(lastDir, step, state.Plane)
		}

		prev = pos
		prevPhysical = physical
	}

	return escaped(lastDir, t.Steps, state.Plane)
}

// traceRadial resolves a ray with no angular momentum. It moves along the
// radial line, so it either falls straight in or leaves straight out.
func (t Tracer) traceRadial(snap *scene.Snapshot, origin, dir core.Vec3, state RayState) Result {
	inward := dir.Dot(state.Normal) < 0

	var end core.Vec3
	if inward {
		end = core.ToPhysical(state.Normal.Multiply(1.0 / horizonU))
	} else {
		end = core.ToPhysical(state.Normal.Multiply(t.EscapeRadius))
	}

	if hit, normal, ok := hitSphere(snap.Planet, origin, end); ok {
		return Result{Outcome: HitPlanet, Position: hit, Normal: normal, Steps: 1, Plane: FallbackPlane}
	}
	if inward {
		return Result{Outcome: HitBlackHole, Steps: 1, Plane: FallbackPlane}
	}
	return escaped(state.Normal, 1, FallbackPlane)
}

func escaped(direction core.Vec3, steps int, plane PlaneKind) Result {
	if !direction.IsFinite() || direction.LengthSquared() == 0 {
		direction = core.Vec3{X: 0, Y: 0, Z: -1}
	}
	return Result{Outcome: Escaped, Direction: direction.Normalize(), Steps: steps, Plane: plane}
}

// crossDisk reports whether the segment a→b crosses the equatorial plane inside
// the disk annulus, returning the crossing point
func crossDisk(disk scene.Disk, a, b core.Vec3) (core.Vec3, bool) {
	crossed := (a.Y > 0 && b.Y <= 0) || (a.Y < 0 && b.Y >= 0)
	if !crossed {
		return core.Vec3{}, false
	}

	s := a.Y / (a.Y - b.Y)
	hit := a.Add(b.Subtract(a).Multiply(s))
	if !disk.Contains(math.Hypot(hit.X, hit.Z)) {
		return core.Vec3{}, false
	}
	return hit, true
}

// hitSphere intersects the segment a→b with the planet, returning the first
// hit point and its outward unit normal
func hitSphere(planet scene.Planet, a, b core.Vec3) (core.Vec3, core.Vec3, bool) {
	seg := b.Subtract(a)
	length := seg.Length()
	if length == 0 || planet.Radius <= 0 {
		return core.Vec3{}, core.Vec3{}, false
	}
	d := seg.Multiply(1.0 / length)

	oc := a.Subtract(planet.Position)
	halfB := oc.Dot(d)
	c := oc.LengthSquared() - planet.Radius*planet.Radius
	discriminant := halfB*halfB - c
	if discriminant < 0 {
		return core.Vec3{}, core.Vec3{}, false
	}

	sqrtD := math.Sqrt(discriminant)
	root := -halfB - sqrtD
	if root < 0 || root > length {
		root = -halfB + sqrtD
		if root < 0 || root > length {
			return core.Vec3{}, core.Vec3{}, false
		}
	}

	hit := a.Add(d.Multiply(root))
	normal := hit.Subtract(planet.Position).Normalize()
	return hit, normal, true
}
