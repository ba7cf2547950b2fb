package world

import (
	"fmt"

	"github.com/ByteArena/box2d"

	"github.com/vovakirdan/hidden-marble/internal/entity"
)

// contactListener receives Box2D contact callbacks during Step.
type contactListener struct {
	world *World
}

func (c *contactListener) BeginContact(contact box2d.B2ContactInterface) {
	if c.world.disposed || !touchesSensor(contact) {
		return
	}
	c.world.enterMaze()
}

func (c *contactListener) EndContact(contact box2d.B2ContactInterface) {
	if c.world.disposed || !touchesSensor(contact) {
		return
	}
	c.world.exitMaze()
}

// PreSolve makes contacts approaching slower than VelocityThreshold
// inelastic, so a resting marble does not jitter against the walls.
func (c *contactListener) PreSolve(contact box2d.B2ContactInterface, _ box2d.B2Manifold) {
	manifold := contact.GetManifold()
	if manifold.PointCount == 0 {
		return
	}

	var worldManifold box2d.B2WorldManifold
	contact.GetWorldManifold(&worldManifold)
	bodyA := contact.GetFixtureA().GetBody()
	bodyB := contact.GetFixtureB().GetBody()

	for i := 0; i < manifold.PointCount; i++ {
		point := worldManifold.Points[i]
		relative := box2d.B2Vec2Sub(
			bodyB.GetLinearVelocityFromWorldPoint(point),
			bodyA.GetLinearVelocityFromWorldPoint(point),
		)
		if box2d.B2Vec2Dot(worldManifold.Normal, relative) < -VelocityThreshold {
			contact.ResetRestitution()
			return
		}
	}
	contact.SetRestitution(0)
}

func (c *contactListener) PostSolve(contact box2d.B2ContactInterface, impulse *box2d.B2ContactImpulse) {
	if c.world.disposed {
		return
	}
	normal := impulse.NormalImpulses[0]
	if normal <= HitThreshold {
		return
	}
	c.world.hit(normal, contact.GetFixtureA().GetBody(), contact.GetFixtureB().GetBody())
}

func touchesSensor(contact box2d.B2ContactInterface) bool {
	return contact.GetFixtureA().IsSensor() || contact.GetFixtureB().IsSensor()
}

func (w *World) enterMaze() {
	w.inMaze = true
}

func (w *World) exitMaze() {
	if !w.solved {
		w.solved = true
		w.logger.Info("maze solved", "steps", w.steps)
		for _, l := range w.listeners {
			l.MazeSolved()
		}
	}
	w.inMaze = false
}

// hit reports a high-impulse contact between the marble and another body.
func (w *World) hit(impulse float64, bodyA, bodyB *box2d.B2Body) {
	a := w.entities.Resolve(bodyA)
	b := w.entities.Resolve(bodyB)

	var other *entity.Entity
	switch {
	case a.Kind() == entity.KindMarble:
		other = b
	case b.Kind() == entity.KindMarble:
		other = a
	default:
		panic(fmt.Sprintf("world: hit between %s and %s without the marble", a.Kind(), b.Kind()))
	}

	material := other.Material()
	for _, l := range w.listeners {
		l.MarbleHit(impulse, material)
	}
}
