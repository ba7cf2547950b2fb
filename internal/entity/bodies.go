package entity

import (
	"github.com/ByteArena/box2d"
)

// Surface parameters for the Box2D fixtures.
const (
	BorderFriction    = 0.8
	BorderRestitution = 0.1

	MarbleDensity     = 1.0
	MarbleFriction    = 0.5
	MarbleRestitution = 0.0

	MazeBoxFriction    = 0.5
	MazeBoxRestitution = 0.1
)

// Borders is the static glass frame around the play area.
type Borders struct {
	*Entity
}

// NewBorders creates a chain loop of width x height centered on the origin.
func NewBorders(t *Table, world *box2d.B2World, width, height float64) *Borders {
	bodyDef := box2d.MakeB2BodyDef()
	bodyDef.Position = box2d.MakeB2Vec2(-width/2, -height/2)
	body := world.CreateBody(&bodyDef)

	vertices := []box2d.B2Vec2{
		box2d.MakeB2Vec2(0, 0),
		box2d.MakeB2Vec2(width, 0),
		box2d.MakeB2Vec2(width, height),
		box2d.MakeB2Vec2(0, height),
	}
	chain := box2d.MakeB2ChainShape()
	chain.CreateLoop(vertices, len(vertices))

	fixtureDef := box2d.MakeB2FixtureDef()
	fixtureDef.Shape = &chain
	fixtureDef.Friction = BorderFriction
	fixtureDef.Restitution = BorderRestitution
	body.CreateFixtureFromDef(&fixtureDef)

	return &Borders{Entity: t.bind(KindBorders, body, width, height)}
}

// Marble is the only dynamic body in the world.
type Marble struct {
	*Entity
	radius float64
}

// NewMarble creates a marble of the given radius at position.
func NewMarble(t *Table, world *box2d.B2World, position box2d.B2Vec2, radius float64) *Marble {
	bodyDef := box2d.MakeB2BodyDef()
	bodyDef.Type = box2d.B2BodyType.B2_dynamicBody
	bodyDef.AllowSleep = false
	bodyDef.Position = position
	body := world.CreateBody(&bodyDef)

	circle := box2d.MakeB2CircleShape()
	circle.M_radius = radius

	fixtureDef := box2d.MakeB2FixtureDef()
	fixtureDef.Shape = &circle
	fixtureDef.Density = MarbleDensity
	fixtureDef.Friction = MarbleFriction
	fixtureDef.Restitution = MarbleRestitution
	body.CreateFixtureFromDef(&fixtureDef)

	return &Marble{
		Entity: t.bind(KindMarble, body, 2*radius, 2*radius),
		radius: radius,
	}
}

// Radius returns the marble radius in meters.
func (m *Marble) Radius() float64 {
	return m.radius
}

// LinearVelocity returns the velocity of the marble's center of mass.
func (m *Marble) LinearVelocity() box2d.B2Vec2 {
	return m.body.GetLinearVelocity()
}

// SetLinearVelocity overrides the marble velocity. Used when restoring a
// saved world.
func (m *Marble) SetLinearVelocity(v box2d.B2Vec2) {
	m.body.SetLinearVelocity(v)
}
