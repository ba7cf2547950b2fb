package entity

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint hashes a descriptor list. Two builds of the same maze with the
// same exit produce the same fingerprint.
func Fingerprint(defs []FixtureDef) uint64 {
	d := xxhash.New()
	buf := make([]byte, 0, 17)
	for _, def := range defs {
		buf = buf[:0]
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(def.Center.X))
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(def.Center.Y))
		var flags byte
		if def.IsCorner {
			flags |= 1
		}
		if def.IsSensor {
			flags |= 2
		}
		buf = append(buf, flags)
		//nolint:errcheck // Digest writes never fail
		d.Write(buf)
	}
	return d.Sum64()
}
