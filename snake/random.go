package snake

import (
	"math/rand"
)

// Random draws uniform values in [lo, hi)
type Random interface {
	Range(lo, hi float64) float64
}

type seededRandom struct {
	r *rand.Rand
}

// NewRandom returns a deterministic Random for the given seed
func NewRandom(seed int64) Random {
	return &seededRandom{r: rand.New(rand.NewSource(seed))}
}

func (s *seededRandom) Range(lo, hi float64) float64 {
	return lo + s.r.Float64()*(hi-lo)
}
