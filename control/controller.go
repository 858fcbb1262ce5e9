// Package control drives the draw status: the operator-facing controller and
// a scripted director for unattended runs.
package control

import "github.com/pthm-cable/nebula/systems"

// Winner identifies the drawn participant.
type Winner struct {
	ID        string
	Name      string
	AvatarURL string
}

// Controller owns the draw status. The engine only ever reads it.
type Controller struct {
	status      systems.Status
	winner      Winner
	revealDelay float64
	converging  float64

	// OnReset is called whenever a fresh sphere should be generated.
	OnReset func()
	// OnTransition is called after every status change.
	OnTransition func(from, to systems.Status, winner Winner)
}

// NewController starts Idle. Converging advances to Revealed after revealDelay seconds.
func NewController(revealDelay float64) *Controller {
	return &Controller{revealDelay: revealDelay}
}

// Status returns the current status.
func (c *Controller) Status() systems.Status {
	return c.status
}

// Winner returns the current winner, zero before a draw stops.
func (c *Controller) Winner() Winner {
	return c.winner
}

// Start begins a draw from Idle or Revealed.
func (c *Controller) Start() bool {
	if c.status != systems.StatusIdle && c.status != systems.StatusRevealed {
		return false
	}
	c.winner = Winner{}
	c.reset()
	c.transition(systems.StatusRolling)
	return true
}

// Shuffle moves a rolling draw into the shuffling phase.
func (c *Controller) Shuffle() bool {
	if c.status != systems.StatusRolling {
		return false
	}
	c.transition(systems.StatusShuffling)
	return true
}

// Stop ends a rolling or shuffling draw with w as the winner.
func (c *Controller) Stop(w Winner) bool {
	if c.status != systems.StatusRolling && c.status != systems.StatusShuffling {
		return false
	}
	c.winner = w
	c.converging = 0
	c.transition(systems.StatusConverging)
	return true
}

// ForceWinner is the remote trigger: it stops the current draw with the
// given winner. It is ignored unless a draw is in progress.
func (c *Controller) ForceWinner(name, avatarURL string) bool {
	return c.Stop(Winner{Name: name, AvatarURL: avatarURL})
}

// Reveal skips the remaining convergence delay.
func (c *Controller) Reveal() bool {
	if c.status != systems.StatusConverging {
		return false
	}
	c.transition(systems.StatusRevealed)
	return true
}

// Reset returns to Idle from any status and regenerates the sphere.
func (c *Controller) Reset() {
	c.winner = Winner{}
	c.reset()
	if c.status != systems.StatusIdle {
		c.transition(systems.StatusIdle)
	}
}

// Update advances the automatic reveal timer.
func (c *Controller) Update(dt float64) {
	if c.status != systems.StatusConverging {
		return
	}
	c.converging += dt
	if c.converging >= c.revealDelay {
		c.transition(systems.StatusRevealed)
	}
}

func (c *Controller) reset() {
	if c.OnReset != nil {
		c.OnReset()
	}
}

func (c *Controller) transition(to systems.Status) {
	from := c.status
	c.status = to
	if c.OnTransition != nil {
		c.OnTransition(from, to, c.winner)
	}
}
