package world

import "github.com/vovakirdan/hidden-marble/internal/entity"

// Listener receives gameplay events from a World. Callbacks run synchronously
// inside Update and must not call Update, Resize or Dispose.
type Listener interface {
	// MarbleHit reports a collision whose normal impulse exceeded HitThreshold.
	// material is the surface the marble struck.
	MarbleHit(impulse float64, material entity.Material)
	// MarbleRoll fires on every Update while the squared marble speed exceeds
	// RollThreshold.
	MarbleRoll(lenSquared float64, material entity.Material)
	// MarbleStop fires once when a rolling marble slows down.
	MarbleStop()
	// MazeSolved fires the first time the marble leaves the maze.
	MazeSolved()
}

// Adapter implements Listener with no-ops. Embed it to handle a subset of
// events.
type Adapter struct{}

func (Adapter) MarbleHit(float64, entity.Material)  {}
func (Adapter) MarbleRoll(float64, entity.Material) {}
func (Adapter) MarbleStop()                         {}
func (Adapter) MazeSolved()                         {}

// ListenerFuncs adapts plain functions to Listener. Nil fields are skipped.
type ListenerFuncs struct {
	OnHit    func(impulse float64, material entity.Material)
	OnRoll   func(lenSquared float64, material entity.Material)
	OnStop   func()
	OnSolved func()
}

func (f *ListenerFuncs) MarbleHit(impulse float64, material entity.Material) {
	if f.OnHit != nil {
		f.OnHit(impulse, material)
	}
}

func (f *ListenerFuncs) MarbleRoll(lenSquared float64, material entity.Material) {
	if f.OnRoll != nil {
		f.OnRoll(lenSquared, material)
	}
}

func (f *ListenerFuncs) MarbleStop() {
	if f.OnStop != nil {
		f.OnStop()
	}
}

func (f *ListenerFuncs) MazeSolved() {
	if f.OnSolved != nil {
		f.OnSolved()
	}
}
