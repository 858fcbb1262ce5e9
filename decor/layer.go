// Package decor animates the ambient markers around the particle cloud:
// floating participant avatars, orbiting chat messages and the identity card
// shown while shuffling. None of it touches the particle buffers.
package decor

import (
	"image"
	"math/rand"

	"github.com/mlange-42/ark/ecs"
	"github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/nebula/components"
	"github.com/pthm-cable/nebula/feed"
	"github.com/pthm-cable/nebula/systems"
)

// ImageSource returns decoded avatar thumbnails, loading them on demand.
type ImageSource interface {
	Get(url string) (*image.NRGBA, bool)
}

// Params holds the decoration tunables.
type Params struct {
	SphereRadius float32

	AvatarCap        int
	AvatarSkipChance float64
	AvatarVolume     float32 // Fraction of the sphere radius
	AvatarSize       float32
	BobAmp           float32
	BobSpeedMin      float32
	BobSpeedMax      float32
	AppearDuration   float32

	MessageTTL      float32
	MessageShellMin float32 // Multiples of the sphere radius
	MessageShellMax float32
	MessageOrbit    float32
	SeenCap         int

	Card CardParams
}

// Input is what the layer reads each frame.
type Input struct {
	Status       systems.Status
	Participants []feed.Participant
	Messages     []feed.Message

	// Versions change whenever the corresponding list is replaced
	ParticipantsVersion uint64
	MessagesVersion     uint64
}

// Layer owns the marker ECS world and the identity card.
type Layer struct {
	params Params
	rng    *rand.Rand
	noise  opensimplex.Noise
	images ImageSource

	world *ecs.World

	avatarMapper *ecs.Map5[
		components.Position,
		components.Anchor,
		components.Bob,
		components.Appear,
		components.Avatar,
	]
	avatarFilter *ecs.Filter5[
		components.Position,
		components.Anchor,
		components.Bob,
		components.Appear,
		components.Avatar,
	]

	messageMapper *ecs.Map6[
		components.Position,
		components.Anchor,
		components.Orbit,
		components.Lifetime,
		components.Appear,
		components.Message,
	]
	messageFilter *ecs.Filter6[
		components.Position,
		components.Anchor,
		components.Orbit,
		components.Lifetime,
		components.Appear,
		components.Message,
	]

	card *Card

	seen                map[int64]struct{}
	participantsVersion uint64
	messagesVersion     uint64
	refreshed           bool
	status              systems.Status
	clock               float64

	// Scratch for deferred removal
	doomed []ecs.Entity
}

// NewLayer creates an empty decoration layer. images may be nil.
func NewLayer(p Params, rng *rand.Rand, images ImageSource) *Layer {
	world := ecs.NewWorld()
	return &Layer{
		params: p,
		rng:    rng,
		noise:  opensimplex.New(rng.Int63()),
		images: images,
		world:  world,
		avatarMapper: ecs.NewMap5[
			components.Position,
			components.Anchor,
			components.Bob,
			components.Appear,
			components.Avatar,
		](world),
		avatarFilter: ecs.NewFilter5[
			components.Position,
			components.Anchor,
			components.Bob,
			components.Appear,
			components.Avatar,
		](world),
		messageMapper: ecs.NewMap6[
			components.Position,
			components.Anchor,
			components.Orbit,
			components.Lifetime,
			components.Appear,
			components.Message,
		](world),
		messageFilter: ecs.NewFilter6[
			components.Position,
			components.Anchor,
			components.Orbit,
			components.Lifetime,
			components.Appear,
			components.Message,
		](world),
		card: NewCard(p.Card, rng, images),
		seen: make(map[int64]struct{}),
	}
}

// Update advances every marker by dt seconds.
func (l *Layer) Update(in Input, dt float64) {
	if dt <= 0 {
		return
	}
	l.clock += dt
	l.status = in.Status

	if in.ParticipantsVersion != l.participantsVersion || !l.refreshed {
		l.participantsVersion = in.ParticipantsVersion
		l.maybeRefreshAvatars(in.Participants)
	}
	if in.MessagesVersion != l.messagesVersion {
		l.messagesVersion = in.MessagesVersion
		l.ingestMessages(in.Messages)
	}

	l.updateAvatars(float32(dt))
	l.updateMessages(float32(dt))
	l.card.Update(in.Status, in.Participants, dt)
}

// Card returns the identity card.
func (l *Layer) Card() *Card {
	return l.card
}

// AvatarsVisible reports whether the avatar cloud is shown for the current status.
func (l *Layer) AvatarsVisible() bool {
	return l.status == systems.StatusIdle
}

// MessagesVisible reports whether message markers are shown for the current status.
func (l *Layer) MessagesVisible() bool {
	return l.status == systems.StatusIdle
}

// MarkerView is a read-only view of one marker for drawing.
type MarkerView struct {
	Kind    components.MarkerKind
	X, Y, Z float32
	Scale   float32
	Size    float32
	Label   string
	URL     string
}

// EachAvatar calls fn for every avatar marker.
func (l *Layer) EachAvatar(fn func(MarkerView)) {
	query := l.avatarFilter.Query()
	for query.Next() {
		pos, _, _, appear, avatar := query.Get()
		fn(MarkerView{
			Kind:  components.KindAvatar,
			X:     pos.X,
			Y:     pos.Y,
			Z:     pos.Z,
			Scale: appear.Scale,
			Size:  avatar.Size,
			Label: avatar.Name,
			URL:   avatar.URL,
		})
	}
}

// EachMessage calls fn for every live message marker.
func (l *Layer) EachMessage(fn func(MarkerView)) {
	query := l.messageFilter.Query()
	for query.Next() {
		pos, _, _, _, appear, msg := query.Get()
		fn(MarkerView{
			Kind:  components.KindMessage,
			X:     pos.X,
			Y:     pos.Y,
			Z:     pos.Z,
			Scale: appear.Scale,
			Label: msg.Author + ": " + msg.Text,
		})
	}
}

// AvatarCount returns the number of avatar markers.
func (l *Layer) AvatarCount() int {
	n := 0
	query := l.avatarFilter.Query()
	for query.Next() {
		n++
	}
	return n
}

// MessageCount returns the number of live message markers.
func (l *Layer) MessageCount() int {
	n := 0
	query := l.messageFilter.Query()
	for query.Next() {
		n++
	}
	return n
}

// HasMessage reports whether a marker for the message id is alive.
func (l *Layer) HasMessage(id int64) bool {
	found := false
	query := l.messageFilter.Query()
	for query.Next() {
		_, _, _, _, _, msg := query.Get()
		if msg.ID == id {
			found = true
		}
	}
	return found
}

// SeenCount returns the size of the seen-id set.
func (l *Layer) SeenCount() int {
	return len(l.seen)
}

// appear advances a pop-in and returns the elastic scale.
func appear(a *components.Appear, dt float32) {
	a.Age += dt
	if a.Duration <= 0 {
		a.Scale = 1
		return
	}
	a.Scale = float32(systems.EaseOutElastic(float64(a.Age / a.Duration)))
}

// randomDirection returns a unit vector uniform over the sphere.
func (l *Layer) randomDirection() (float32, float32, float32) {
	return systems.SpherePoint(l.rng, 1)
}

func (l *Layer) between(lo, hi float32) float32 {
	return lo + l.rng.Float32()*(hi-lo)
}
