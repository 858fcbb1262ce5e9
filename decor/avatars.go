package decor

import (
	"math"

	"github.com/pthm-cable/nebula/components"
	"github.com/pthm-cable/nebula/feed"
)

// driftScale slows the noise drift relative to the bob.
const driftScale = 0.15

// maybeRefreshAvatars rebuilds the avatar cloud from the participant list.
// Roster changes are ignored at random so frequent sign-ins don't thrash the
// cloud; an empty cloud always refreshes.
func (l *Layer) maybeRefreshAvatars(list []feed.Participant) {
	if l.refreshed && l.AvatarCount() > 0 && l.rng.Float64() < l.params.AvatarSkipChance {
		return
	}
	l.refreshed = true

	l.doomed = l.doomed[:0]
	query := l.avatarFilter.Query()
	for query.Next() {
		l.doomed = append(l.doomed, query.Entity())
	}
	for _, e := range l.doomed {
		l.world.RemoveEntity(e)
	}

	n := min(len(list), l.params.AvatarCap)
	if n <= 0 {
		return
	}
	order := l.rng.Perm(len(list))[:n]
	for _, idx := range order {
		l.spawnAvatar(list[idx])
	}
}

// spawnAvatar places an avatar uniformly inside the inner sub-volume of the sphere.
func (l *Layer) spawnAvatar(p feed.Participant) {
	dx, dy, dz := l.randomDirection()
	r := l.params.SphereRadius * l.params.AvatarVolume * float32(math.Cbrt(l.rng.Float64()))

	anchor := components.Anchor{X: dx * r, Y: dy * r, Z: dz * r}
	pos := components.Position(anchor)
	bob := components.Bob{
		Phase: l.rng.Float32() * 2 * math.Pi,
		Speed: l.between(l.params.BobSpeedMin, l.params.BobSpeedMax),
		Amp:   l.params.BobAmp,
	}
	app := components.Appear{Duration: l.params.AppearDuration}
	avatar := components.Avatar{
		ParticipantID: p.ID,
		Name:          p.Name,
		URL:           p.AvatarURL,
		Size:          l.params.AvatarSize,
	}
	l.avatarMapper.NewEntity(&pos, &anchor, &bob, &app, &avatar)

	// Warm the cache so textures are ready when the cloud is shown
	if l.images != nil && p.AvatarURL != "" {
		l.images.Get(p.AvatarURL)
	}
}

func (l *Layer) updateAvatars(dt float32) {
	t := float32(l.clock)
	query := l.avatarFilter.Query()
	for query.Next() {
		pos, anchor, bob, app, _ := query.Get()
		appear(app, dt)

		bob.Phase += bob.Speed * dt
		if bob.Phase > 2*math.Pi {
			bob.Phase -= 2 * math.Pi
		}
		drift := float32(l.noise.Eval2(float64(anchor.X)*0.01, float64(t*driftScale)))

		pos.X = anchor.X + drift*bob.Amp
		pos.Y = anchor.Y + float32(math.Sin(float64(bob.Phase)))*bob.Amp
		pos.Z = anchor.Z
	}
}
