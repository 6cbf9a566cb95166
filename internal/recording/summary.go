package recording

import (
	"github.com/cespare/xxhash/v2"

	"github.com/zeusync/evade/internal/core/input"
	"github.com/zeusync/evade/pkg/encoding"
)

// Summary describes a recording.
type Summary struct {
	Frames       int
	TotalSamples int
	MaxSamples   int
	// Distinct counts frames with distinct encoded bytes.
	Distinct int
	// KeyUsage counts, per mask bit, the frames that held that key.
	KeyUsage [8]int
	// Idle counts frames with an empty mask.
	Idle int
}

// Summarize scans frames once.
func Summarize(frames []Frame) Summary {
	var s Summary
	seen := make(map[uint64]struct{}, len(frames))
	h := xxhash.New()
	for i := range frames {
		f := &frames[i]
		s.Frames++
		s.TotalSamples += len(f.Samples)
		s.MaxSamples = max(s.MaxSamples, len(f.Samples))
		if f.Keys == 0 {
			s.Idle++
		}
		for bit := range s.KeyUsage {
			if f.Keys.Has(input.Mask(1) << bit) {
				s.KeyUsage[bit]++
			}
		}

		h.Reset()
		f.encode(encoding.NewWriter(h))
		seen[h.Sum64()] = struct{}{}
	}
	s.Distinct = len(seen)
	return s
}

// Usage returns how many frames held the keys in m.
func (s Summary) Usage(m input.Mask) int {
	for bit := range s.KeyUsage {
		if m == input.Mask(1)<<bit {
			return s.KeyUsage[bit]
		}
	}
	return 0
}
