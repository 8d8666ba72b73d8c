package progress

import (
	"math"
	"slices"
)

// window holds the latest rate samples, oldest first.
type window struct {
	size    int
	samples []float64
}

func newWindow(size int) *window {
	return &window{size: max(size, 1)}
}

func (w *window) Add(v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	if len(w.samples) == w.size {
		w.samples = append(w.samples[:0], w.samples[1:]...)
	}
	w.samples = append(w.samples, v)
}

func (w *window) Len() int { return len(w.samples) }

// Quantile returns the q-th quantile with linear interpolation. An empty
// window yields 0.
func (w *window) Quantile(q float64) float64 {
	if len(w.samples) == 0 {
		return 0
	}
	sorted := slices.Clone(w.samples)
	slices.Sort(sorted)
	pos := math.Min(math.Max(q, 0), 1) * float64(len(sorted)-1)
	i := int(pos)
	if i+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	frac := pos - float64(i)
	return sorted[i] + (sorted[i+1]-sorted[i])*frac
}
