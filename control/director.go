package control

import (
	"math/rand"

	"github.com/pthm-cable/nebula/feed"
	"github.com/pthm-cable/nebula/systems"
)

// DirectorParams are dwell times in seconds for each scripted phase.
type DirectorParams struct {
	Idle      float64
	Rolling   float64
	Shuffling float64
	Revealed  float64
}

// Director cycles a Controller through complete draws on a timer.
type Director struct {
	c      *Controller
	params DirectorParams
	rng    *rand.Rand

	last    systems.Status
	elapsed float64
	draws   int
}

// NewDirector scripts c with the given dwell times.
func NewDirector(c *Controller, p DirectorParams, rng *rand.Rand) *Director {
	return &Director{c: c, params: p, rng: rng, last: c.Status()}
}

// Draws returns the number of completed draws.
func (d *Director) Draws() int {
	return d.draws
}

// Update advances the script by dt. participants are the candidates for the next winner.
func (d *Director) Update(dt float64, participants []feed.Participant) {
	if s := d.c.Status(); s != d.last {
		d.last = s
		d.elapsed = 0
	}
	d.elapsed += dt

	switch d.last {
	case systems.StatusIdle:
		if d.elapsed >= d.params.Idle {
			d.c.Start()
		}
	case systems.StatusRolling:
		if d.elapsed >= d.params.Rolling {
			d.c.Shuffle()
		}
	case systems.StatusShuffling:
		if d.elapsed >= d.params.Shuffling {
			d.c.Stop(PickWinner(d.rng, participants))
		}
	case systems.StatusRevealed:
		if d.elapsed >= d.params.Revealed {
			d.draws++
			d.c.Reset()
		}
	}
}

// PickWinner draws a uniformly random participant. The zero Winner is
// returned when nobody is registered.
func PickWinner(rng *rand.Rand, participants []feed.Participant) Winner {
	if len(participants) == 0 {
		return Winner{}
	}
	p := participants[rng.Intn(len(participants))]
	return Winner{ID: p.ID, Name: p.Name, AvatarURL: p.AvatarURL}
}
