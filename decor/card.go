package decor

import (
	"image"
	"math"
	"math/rand"

	"github.com/charmbracelet/harmonica"

	"github.com/pthm-cable/nebula/feed"
	"github.com/pthm-cable/nebula/systems"
)

// CardParams holds identity card tunables.
type CardParams struct {
	Interval  float64 // Seconds between redraws while shuffling
	Frequency float64 // Spring angular frequency
	Damping   float64 // Spring damping ratio, below 1 overshoots
	Width     int
	Height    int
	BobAmp    float32
	BobSpeed  float32
	Z         float32
	Accent    [3]float32
}

// Card is the front-facing billboard that cycles through random participants
// while the draw is shuffling.
type Card struct {
	params CardParams
	rng    *rand.Rand
	images ImageSource

	spring   harmonica.Spring
	springDT float64
	scale    float64
	velocity float64
	peak     float64

	active       bool
	clock        float64
	sinceRedraw  float64
	current      feed.Participant
	picks        int
	bakedVersion uint64
	baker        *cardBaker
}

// NewCard creates a hidden card. images may be nil.
func NewCard(p CardParams, rng *rand.Rand, images ImageSource) *Card {
	return &Card{
		params: p,
		rng:    rng,
		images: images,
		baker:  newCardBaker(p.Width, p.Height, p.Accent),
	}
}

// Update advances the card. It is only active while status is Shuffling.
func (c *Card) Update(status systems.Status, participants []feed.Participant, dt float64) {
	if status != systems.StatusShuffling {
		c.active = false
		return
	}
	if dt <= 0 {
		return
	}
	if !c.active {
		c.active = true
		c.scale, c.velocity, c.peak = 0, 0, 0
		c.clock = 0
		// Redraw on the first frame
		c.sinceRedraw = c.params.Interval
	}
	c.clock += dt

	if dt != c.springDT {
		c.spring = harmonica.NewSpring(dt, c.params.Frequency, c.params.Damping)
		c.springDT = dt
	}
	c.scale, c.velocity = c.spring.Update(c.scale, c.velocity, 1)
	c.peak = math.Max(c.peak, c.scale)

	c.sinceRedraw += dt
	if c.sinceRedraw >= c.params.Interval {
		c.sinceRedraw = 0
		c.pick(participants)
	}
}

// pick chooses a random participant and redraws the card.
func (c *Card) pick(participants []feed.Participant) {
	if len(participants) > 0 {
		c.current = participants[c.rng.Intn(len(participants))]
	} else {
		c.current = feed.Participant{Name: "?"}
	}
	c.picks++

	var avatar *image.NRGBA
	if c.images != nil {
		avatar, _ = c.images.Get(c.current.AvatarURL)
	}
	c.baker.bake(c.current, avatar)
	c.bakedVersion++
}

// Visible reports whether the card is shown.
func (c *Card) Visible() bool {
	return c.active
}

// Scale returns the pop-in scale. It overshoots 1 before settling.
func (c *Card) Scale() float32 {
	return float32(c.scale)
}

// Peak returns the largest scale reached since the card appeared.
func (c *Card) Peak() float32 {
	return float32(c.peak)
}

// Offset returns the card's world position, including the hover bob.
func (c *Card) Offset() (x, y, z float32) {
	bob := c.params.BobAmp * float32(math.Sin(c.clock*float64(c.params.BobSpeed)))
	return 0, bob, c.params.Z
}

// Current returns the participant on the card.
func (c *Card) Current() feed.Participant {
	return c.current
}

// Picks returns how many times the card has been redrawn.
func (c *Card) Picks() int {
	return c.picks
}

// Image returns the baked card raster and its version. The version changes on every redraw.
func (c *Card) Image() (*image.RGBA, uint64) {
	return c.baker.img, c.bakedVersion
}
