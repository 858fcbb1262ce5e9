// Package components defines ECS components for the ambient markers.
package components

// MarkerKind distinguishes the ambient marker families.
type MarkerKind uint8

const (
	KindAvatar  MarkerKind = iota // Floating participant avatar
	KindMessage                   // Orbiting chat message
)

// String returns the display name for a MarkerKind.
func (k MarkerKind) String() string {
	switch k {
	case KindAvatar:
		return "avatar"
	case KindMessage:
		return "message"
	default:
		return "unknown"
	}
}

// Position is a marker's world position for the current frame.
type Position struct {
	X, Y, Z float32
}

// Anchor is the rest position that bob and orbit motion are applied to.
type Anchor struct {
	X, Y, Z float32
}

// Bob drives a vertical sinusoidal hover.
type Bob struct {
	Phase float32 // radians
	Speed float32 // radians per second
	Amp   float32 // world units
}

// Orbit rotates the anchor about a unit axis through the origin.
type Orbit struct {
	AX, AY, AZ float32 // unit axis
	Rate       float32 // radians per second
	Angle      float32 // accumulated angle
}

// Appear tracks the pop-in of a freshly created marker.
type Appear struct {
	Age      float32 // seconds since creation
	Duration float32 // seconds to full size
	Scale    float32 // current visual scale, may overshoot 1
}

// Lifetime bounds how long a transient marker is shown.
type Lifetime struct {
	Age float32 // seconds alive
	TTL float32 // seconds before removal
}

// Expired reports whether the marker has outlived its TTL.
func (l Lifetime) Expired() bool {
	return l.Age >= l.TTL
}

// Avatar identifies the participant shown by an avatar marker.
type Avatar struct {
	ParticipantID string
	Name          string
	URL           string
	Size          float32
}

// Message holds the text shown by a message marker.
type Message struct {
	ID     int64
	Author string
	Text   string
}
