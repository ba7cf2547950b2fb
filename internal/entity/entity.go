// Package entity binds Box2D bodies to the game's entities (borders, marble,
// maze box) and builds the maze box geometry from a tile maze.
//
// Bodies never point at entities directly. Each body's user data holds the ID
// of its entity in a Table, which the owning world keeps.
package entity

import (
	"fmt"

	"github.com/ByteArena/box2d"
)

// Kind identifies what an entity is.
type Kind uint8

const (
	KindBorders Kind = iota
	KindMarble
	KindMazeBox
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindBorders:
		return "borders"
	case KindMarble:
		return "marble"
	case KindMazeBox:
		return "maze box"
	default:
		return "unknown"
	}
}

// ID indexes an entity in its Table.
type ID int

// Entity is a game object backed by a Box2D body.
type Entity struct {
	id     ID
	kind   Kind
	body   *box2d.B2Body
	width  float64
	height float64
}

// ID returns the entity's index in its table.
func (e *Entity) ID() ID {
	return e.id
}

// Kind returns the entity kind.
func (e *Entity) Kind() Kind {
	return e.kind
}

// Material returns the surface material of the entity.
func (e *Entity) Material() Material {
	return MaterialOf(e.kind)
}

// Width returns the width of the entity in meters.
func (e *Entity) Width() float64 {
	return e.width
}

// Height returns the height of the entity in meters.
func (e *Entity) Height() float64 {
	return e.height
}

// Angle returns the body angle in radians.
func (e *Entity) Angle() float64 {
	return e.body.GetAngle()
}

// Position returns the world position of the body origin.
func (e *Entity) Position() box2d.B2Vec2 {
	return e.body.GetPosition()
}

// Transform returns the body origin transform.
func (e *Entity) Transform() box2d.B2Transform {
	return e.body.GetTransform()
}

// Table owns the entities of one world.
type Table struct {
	entities []*Entity
}

// NewTable creates an empty entity table.
func NewTable() *Table {
	return &Table{}
}

// bind registers a new entity for body and stores its ID in the body's user
// data. The association is never changed afterwards.
func (t *Table) bind(kind Kind, body *box2d.B2Body, width, height float64) *Entity {
	e := &Entity{
		id:     ID(len(t.entities)),
		kind:   kind,
		body:   body,
		width:  width,
		height: height,
	}
	body.SetUserData(e.id)
	t.entities = append(t.entities, e)
	return e
}

// Len returns the number of entities in the table.
func (t *Table) Len() int {
	return len(t.entities)
}

// Get returns the entity with the given ID.
func (t *Table) Get(id ID) (*Entity, bool) {
	if id < 0 || int(id) >= len(t.entities) {
		return nil, false
	}
	return t.entities[id], true
}

// Resolve returns the entity owning body.
// It panics if the body was not bound by this table: contact bookkeeping
// cannot continue with a body it does not know.
func (t *Table) Resolve(body *box2d.B2Body) *Entity {
	id, ok := body.GetUserData().(ID)
	if !ok {
		panic(fmt.Sprintf("entity: body has no entity ID (user data %T)", body.GetUserData()))
	}
	e, ok := t.Get(id)
	if !ok || e.body != body {
		panic(fmt.Sprintf("entity: body carries unknown entity ID %d", id))
	}
	return e
}

// Destroy removes every entity's body from world and empties the table.
func (t *Table) Destroy(world *box2d.B2World) {
	for i := len(t.entities) - 1; i >= 0; i-- {
		world.DestroyBody(t.entities[i].body)
	}
	t.entities = nil
}
