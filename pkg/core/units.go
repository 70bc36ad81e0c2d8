package core

// Physical constants (SI units)
const (
	C = 299792458.0 // Speed of light, m/s
	G = 6.67430e-11 // Gravitational constant, m^3 kg^-1 s^-2
)

// Sagittarius A* parameters
const (
	SagAMass = 8.54e36                      // Mass, kg
	SagARs   = 2.0 * G * SagAMass / (C * C) // Schwarzschild radius, m
)

// UnitScale converts physical distances to geometric units where r_s = 2.
const UnitScale = SagARs / 2.0

// SchwarzschildRadius returns r_s = 2GM/c^2 for a mass in kg
func SchwarzschildRadius(mass float64) float64 {
	return 2.0 * G * mass / (C * C)
}

// ToGeometric rescales a physical position into geometric units
func ToGeometric(v Vec3) Vec3 {
	return v.Multiply(1.0 / UnitScale)
}

// ToPhysical rescales a geometric position back into physical units
func ToPhysical(v Vec3) Vec3 {
	return v.Multiply(UnitScale)
}
