package entity

import "fmt"

// Material is the surface type of an entity, used to pick contact feedback.
type Material uint8

const (
	MaterialGlass Material = iota
	MaterialMetal
	MaterialWood
)

// String returns the lower-case material name.
func (m Material) String() string {
	switch m {
	case MaterialGlass:
		return "glass"
	case MaterialMetal:
		return "metal"
	case MaterialWood:
		return "wood"
	default:
		return "unknown"
	}
}

// MaterialOf returns the material of an entity kind.
func MaterialOf(k Kind) Material {
	switch k {
	case KindBorders:
		return MaterialGlass
	case KindMarble:
		return MaterialMetal
	case KindMazeBox:
		return MaterialWood
	default:
		panic(fmt.Sprintf("entity: no material for kind %d", k))
	}
}
