package decor

import (
	"image"
	"image/color"
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/nebula/feed"
	"github.com/pthm-cable/nebula/systems"
)

type fakeImages map[string]*image.NRGBA

func (f fakeImages) Get(url string) (*image.NRGBA, bool) {
	img, ok := f[url]
	return img, ok
}

func TestCardElasticPopIn(t *testing.T) {
	c := NewCard(testParams().Card, rand.New(rand.NewSource(1)), nil)
	for i := 0; i < 180; i++ {
		c.Update(systems.StatusShuffling, participants(5), frame)
	}
	if c.Peak() <= 1 {
		t.Errorf("expected the card to overshoot past 1, peak %f", c.Peak())
	}
	if math.Abs(float64(c.Scale())-1) > 0.01 {
		t.Errorf("expected the card to settle at 1, got %f", c.Scale())
	}
}

func TestCardThrottlesRedraws(t *testing.T) {
	c := NewCard(testParams().Card, rand.New(rand.NewSource(1)), nil)
	people := participants(30)

	// 240 frames per second for one second against a 50ms interval
	for i := 0; i < 240; i++ {
		c.Update(systems.StatusShuffling, people, 1.0/240)
	}
	if c.Picks() > 21 || c.Picks() < 15 {
		t.Errorf("expected about 20 redraws in one second, got %d", c.Picks())
	}
	if _, ok := feed.FindParticipant(people, c.Current().ID); !ok {
		t.Errorf("expected the card to show a participant, got %+v", c.Current())
	}
}

func TestCardInactiveOutsideShuffling(t *testing.T) {
	c := NewCard(testParams().Card, rand.New(rand.NewSource(1)), nil)
	c.Update(systems.StatusRolling, participants(3), frame)
	if c.Visible() || c.Picks() != 0 {
		t.Error("expected hidden card before shuffling")
	}

	c.Update(systems.StatusShuffling, participants(3), frame)
	if !c.Visible() || c.Picks() != 1 {
		t.Errorf("expected an immediate redraw on entry, got %d picks", c.Picks())
	}

	c.Update(systems.StatusConverging, participants(3), frame)
	if c.Visible() {
		t.Error("expected card hidden after shuffling")
	}

	// Re-entering restarts the pop-in
	c.Update(systems.StatusShuffling, participants(3), frame)
	if c.Scale() > 0.5 {
		t.Errorf("expected pop-in to restart, scale %f", c.Scale())
	}
}

func TestCardBake(t *testing.T) {
	p := testParams().Card
	avatar := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for i := 0; i < len(avatar.Pix); i += 4 {
		avatar.Pix[i], avatar.Pix[i+1], avatar.Pix[i+2], avatar.Pix[i+3] = 0, 255, 0, 255
	}
	images := fakeImages{"a.png": avatar}
	c := NewCard(p, rand.New(rand.NewSource(1)), images)

	people := []feed.Participant{{ID: "e1", Name: "Ada", AvatarURL: "a.png", Department: "Eng"}}
	c.Update(systems.StatusShuffling, people, frame)

	img, version := c.Image()
	if version != 1 {
		t.Errorf("expected version 1 after first bake, got %d", version)
	}
	if img.Bounds().Dx() != p.Width || img.Bounds().Dy() != p.Height {
		t.Fatalf("expected %dx%d card, got %v", p.Width, p.Height, img.Bounds())
	}
	if got := img.RGBAAt(0, 0); got != (color.RGBA{R: 255, G: 0, B: 204, A: 255}) {
		t.Errorf("expected accent border, got %+v", got)
	}
	// Avatar box is centred below the top padding
	if got := img.RGBAAt(p.Width/2, cardPadding+20); got.G < 200 || got.R > 50 {
		t.Errorf("expected avatar pixels in the box, got %+v", got)
	}

	c.Update(systems.StatusShuffling, people, p.Interval)
	if _, v := c.Image(); v != 2 {
		t.Errorf("expected version 2 after redraw, got %d", v)
	}
}

func TestCardWithoutParticipants(t *testing.T) {
	c := NewCard(testParams().Card, rand.New(rand.NewSource(1)), nil)
	c.Update(systems.StatusShuffling, nil, frame)
	if c.Current().Name != "?" {
		t.Errorf("expected placeholder, got %+v", c.Current())
	}
}
