package game

import "github.com/vovakirdan/hidden-marble/internal/entity"

// Snapshot captures the session state for determinism testing and replay.
type Snapshot struct {
	Frames      uint64
	Steps       int
	Hits        int
	LastHit     string
	MarbleX     float64
	MarbleY     float64
	InMaze      bool
	Rolling     bool
	Fingerprint uint64
	Status      Status
}

// Snapshot returns the current session snapshot.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Frames:      s.frames,
		Hits:        s.hits,
		LastHit:     s.lastHit.String(),
		Rolling:     s.rolling,
		Fingerprint: s.fingerprint,
		Status:      s.Status(),
	}
	if s.world != nil {
		pos := s.world.MarblePosition()
		snap.Steps = s.world.Steps()
		snap.MarbleX, snap.MarbleY = pos.X, pos.Y
		snap.InMaze = s.world.MarbleInMaze()
	}
	return snap
}

// surface is the material the marble currently rolls on.
func (s *Session) surface() entity.Material {
	if s.world != nil && s.world.MarbleInMaze() {
		return entity.MaterialWood
	}
	return entity.MaterialGlass
}
