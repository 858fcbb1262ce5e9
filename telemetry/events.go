// Package telemetry provides frame timing, draw activity windows, and CSV output.
package telemetry

// StatusEvent records a single status transition.
type StatusEvent struct {
	Frame  int64   `csv:"frame"`
	Time   float64 `csv:"time"`
	From   string  `csv:"from"`
	To     string  `csv:"to"`
	Winner string  `csv:"winner"`
}

// NewStatusEvent creates a transition record.
func NewStatusEvent(frame int64, time float64, from, to, winner string) StatusEvent {
	return StatusEvent{
		Frame:  frame,
		Time:   time,
		From:   from,
		To:     to,
		Winner: winner,
	}
}
