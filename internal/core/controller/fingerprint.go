package controller

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/zeusync/evade/internal/core/avoidance"
)

// Fingerprint hashes the geometry of a hazard snapshot. Identical snapshots
// hash identically, so repeated decisions can be matched across runs.
func Fingerprint(hazards []avoidance.Hazard) uint64 {
	d := xxhash.New()
	buf := make([]byte, 0, 8*7+1)
	for i := range hazards {
		h := &hazards[i]
		buf = append(buf[:0], byte(h.Shape.Kind))
		for _, f := range [...]float64{
			h.Shape.Size.X, h.Shape.Size.Y, h.Shape.Radius,
			h.Pos.X, h.Pos.Y, h.Vel.X, h.Vel.Y,
		} {
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(f))
		}
		_, _ = d.Write(buf)
	}
	return d.Sum64()
}
