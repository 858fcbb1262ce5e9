package systems

// Status is the discrete draw state observed by the engine.
// It is owned by the external controller; the engine never mutates it.
type Status uint8

const (
	StatusIdle Status = iota
	StatusRolling
	StatusShuffling
	StatusConverging
	StatusRevealed
)

var statusNames = [...]string{
	StatusIdle:       "IDLE",
	StatusRolling:    "ROLLING",
	StatusShuffling:  "SHUFFLING",
	StatusConverging: "CONVERGING",
	StatusRevealed:   "REVEALED",
}

// String returns the upper-case status name.
func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "UNKNOWN"
}

// ParseStatus maps a status name back to its value.
func ParseStatus(name string) (Status, bool) {
	for i, n := range statusNames {
		if n == name {
			return Status(i), true
		}
	}
	return StatusIdle, false
}

// UsesTargets reports whether the raw target buffer is authoritative in this status.
func (s Status) UsesTargets() bool {
	return s == StatusIdle || s == StatusConverging || s == StatusRevealed
}

// AcceptsPortrait reports whether a freshly decoded winner image may still be applied.
func (s Status) AcceptsPortrait() bool {
	return s == StatusConverging || s == StatusRevealed
}
