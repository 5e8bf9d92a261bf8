package optirocket

// Body defines a celestial body to launch from.
type Body struct {
	Name   string
	Radius float64 // equatorial radius, in km
	μ      float64 // gravitational parameter, in km^3/s^2
	ω      float64 // sidereal rotation rate, in rad/s
	g0     float64 // sea level gravity, in m/s^2
}

// GM returns μ (which is unexported because it's a lowercase letter)
func (b Body) GM() float64 {
	return b.μ
}

// RotationRate returns ω (which is unexported because it's a lowercase letter)
func (b Body) RotationRate() float64 {
	return b.ω
}

// SeaLevelGravity returns the gravitational acceleration at the surface of
// this body, in m/s^2.
func (b Body) SeaLevelGravity() float64 {
	return b.g0
}

// String implements the Stringer interface.
func (b Body) String() string {
	return b.Name + " body"
}

// Equals returns whether the provided body is the same.
func (b Body) Equals(b2 Body) bool {
	return b.Name == b2.Name && b.Radius == b2.Radius && b.μ == b2.μ && b.ω == b2.ω && b.g0 == b2.g0
}

// NewBody returns a body defined from its launch relevant constants. The
// radius is in km, gm in km^3/s^2, rotRate in rad/s and g0 in m/s^2.
func NewBody(name string, radius, gm, rotRate, g0 float64) Body {
	return Body{name, radius, gm, rotRate, g0}
}

// Earth is home.
var Earth = Body{"Earth", 6378.137, 3.986005e5, 6.300387486749 / 86164, 9.80665}
