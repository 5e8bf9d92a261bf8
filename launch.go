package optirocket

import (
	"fmt"
	"math"
)

// AzimuthError is returned when an orbit inclination cannot be reached from
// a given launchpad latitude without a plane change maneuver.
type AzimuthError struct {
	Inclination float64 // in degrees
	Latitude    float64 // in degrees
}

// Error implements the error interface.
func (e AzimuthError) Error() string {
	return fmt.Sprintf("inclination of %g° cannot be reached from latitude %g° without a plane change", e.Inclination, e.Latitude)
}

// LaunchAzimuth computes the launch azimuth in degrees which reaches the
// given orbit inclination from the given launchpad latitude, both in
// degrees. The azimuth is signed: retrograde orbits (inclination greater
// than 90°) lead to a negative azimuth, i.e. a launch toward the West.
func LaunchAzimuth(inclination, latitude float64) (float64, error) {
	sinAz := math.Cos(inclination*deg2rad) / math.Cos(latitude*deg2rad)
	if math.Abs(sinAz) > 1 {
		return 0, AzimuthError{inclination, latitude}
	}
	return math.Asin(sinAz) / deg2rad, nil
}

// AscentLosses estimates the velocity losses in m/s due to drag and
// gravity during the ascent to the provided altitude in km. Quadratic fit
// on historical launches, only valid from the surface to low orbits.
func AscentLosses(altitude float64) float64 {
	return 2.452e-3*altitude*altitude + 1.051*altitude + 1387.50
}

// InjectionVelocity computes the orbital velocity in m/s at the perigee of
// the injection orbit defined by its perigee and apogee altitudes, in km.
func (b Body) InjectionVelocity(perigeeAlt, apogeeAlt float64) float64 {
	sma := b.Radius + (perigeeAlt+apogeeAlt)/2
	return math.Sqrt(b.μ*(2/(b.Radius+perigeeAlt)-1/sma)) * 1e3
}

// RotationAssist computes the velocity gained in m/s from the rotation of
// the body when launching from the provided latitude at the provided
// azimuth, both in degrees. The gain is the projection of the launchpad
// inertial velocity onto the horizontal launch direction, so it is signed
// and becomes a penalty for retrograde launches.
func (b Body) RotationAssist(latitude, azimuth float64) float64 {
	sLat, cLat := math.Sincos(latitude * deg2rad)
	sAz, cAz := math.Sincos(azimuth * deg2rad)
	// Launchpad position in a body fixed frame at zero longitude, in m.
	R := []float64{b.Radius * 1e3 * cLat, 0, b.Radius * 1e3 * sLat}
	V := cross([]float64{0, 0, b.ω}, R)
	// Horizontal launch direction: azimuth measured from North toward East.
	north := []float64{-sLat, 0, cLat}
	east := []float64{0, 1, 0}
	launchDir := []float64{sAz*east[0] + cAz*north[0], sAz*east[1] + cAz*north[1], sAz*east[2] + cAz*north[2]}
	return dot(V, launchDir)
}

// InjectionRequirement stores the propulsive budget of a mission. All
// velocities are in m/s and the azimuth in degrees.
type InjectionRequirement struct {
	Azimuth        float64 // launch azimuth
	FinalVelocity  float64 // orbital velocity at injection
	AssistVelocity float64 // velocity gained from the body rotation, signed
	Losses         float64 // drag and gravity losses during the ascent
	RequiredΔV     float64 // ΔV the vehicle must deliver
}

// String implements the Stringer interface.
func (r InjectionRequirement) String() string {
	return fmt.Sprintf("az=%.1f° ΔV=%.1f m/s (orbit=%.1f assist=%.1f losses=%.1f)", r.Azimuth, r.RequiredΔV, r.FinalVelocity, r.AssistVelocity, r.Losses)
}

// ComputeRequirement computes the propulsive requirement of the provided
// mission: the launch azimuth, the orbital velocity at injection, the
// velocity assist from the body rotation and the ascent losses. It fails
// if the mission is inconsistent or if its inclination cannot be reached
// from its launchpad.
func (b Body) ComputeRequirement(m Mission) (InjectionRequirement, error) {
	if err := m.Validate(); err != nil {
		return InjectionRequirement{}, err
	}
	azimuth, err := LaunchAzimuth(m.Inclination, m.LaunchpadLat)
	if err != nil {
		return InjectionRequirement{}, err
	}
	vFinal := b.InjectionVelocity(m.PerigeeAlt, m.ApogeeAlt)
	vAssist := b.RotationAssist(m.LaunchpadLat, azimuth)
	vLosses := AscentLosses(m.PerigeeAlt)
	return InjectionRequirement{azimuth, vFinal, vAssist, vLosses, vFinal - vAssist + vLosses}, nil
}
