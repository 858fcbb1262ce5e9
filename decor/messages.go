package decor

import (
	"math"

	"github.com/pthm-cable/nebula/components"
	"github.com/pthm-cable/nebula/feed"
)

// ingestMessages creates markers for messages not seen before.
func (l *Layer) ingestMessages(list []feed.Message) {
	for _, m := range list {
		if _, ok := l.seen[m.ID]; ok {
			continue
		}
		l.seen[m.ID] = struct{}{}
		l.spawnMessage(m)
	}

	// Bound the set. Ids still in the polled list stay so they never respawn.
	if len(l.seen) > l.params.SeenCap {
		clear(l.seen)
		for _, m := range list {
			l.seen[m.ID] = struct{}{}
		}
	}
}

// spawnMessage places a marker on the shell outside the sphere, orbiting a random axis.
func (l *Layer) spawnMessage(m feed.Message) {
	dx, dy, dz := l.randomDirection()
	r := l.params.SphereRadius * l.between(l.params.MessageShellMin, l.params.MessageShellMax)
	anchor := components.Anchor{X: dx * r, Y: dy * r, Z: dz * r}
	pos := components.Position(anchor)

	ax, ay, az := l.randomDirection()
	rate := l.params.MessageOrbit
	if l.rng.Intn(2) == 0 {
		rate = -rate
	}
	orbit := components.Orbit{AX: ax, AY: ay, AZ: az, Rate: rate}
	life := components.Lifetime{TTL: l.params.MessageTTL}
	app := components.Appear{Duration: l.params.AppearDuration}
	msg := components.Message{ID: m.ID, Author: m.Name, Text: m.Content}

	l.messageMapper.NewEntity(&pos, &anchor, &orbit, &life, &app, &msg)
}

func (l *Layer) updateMessages(dt float32) {
	l.doomed = l.doomed[:0]

	query := l.messageFilter.Query()
	for query.Next() {
		pos, anchor, orbit, life, app, _ := query.Get()

		life.Age += dt
		if life.Expired() {
			l.doomed = append(l.doomed, query.Entity())
			continue
		}
		appear(app, dt)

		orbit.Angle += orbit.Rate * dt
		pos.X, pos.Y, pos.Z = rotateAxis(anchor.X, anchor.Y, anchor.Z, orbit.AX, orbit.AY, orbit.AZ, orbit.Angle)
	}

	for _, e := range l.doomed {
		l.world.RemoveEntity(e)
	}
}

// rotateAxis rotates v about the unit axis k by angle (Rodrigues' formula).
func rotateAxis(vx, vy, vz, kx, ky, kz, angle float32) (float32, float32, float32) {
	c := float32(math.Cos(float64(angle)))
	s := float32(math.Sin(float64(angle)))
	dot := kx*vx + ky*vy + kz*vz
	cx := ky*vz - kz*vy
	cy := kz*vx - kx*vz
	cz := kx*vy - ky*vx
	return vx*c + cx*s + kx*dot*(1-c),
		vy*c + cy*s + ky*dot*(1-c),
		vz*c + cz*s + kz*dot*(1-c)
}
