// Package apportion converts fractional source-mix weights into integer
// quotas using Hamilton (largest-remainder) apportionment.
//
// Weights are ordered (key, value) pairs rather than a map: per-source
// selection order and remainder tie-breaks both affect output, so the order
// must be explicit and stable for results to be reproducible.
package apportion

import (
	"math"
	"sort"

	"github.com/Kaosethi/telesalesautomation/internal/lead"
)

// Weight is one (source, weight) pair in an ordered mix.
type Weight struct {
	Key   lead.Source
	Value float64
}

// Mix is an ordered weight list. Construct via NormalizeMix before handing
// it to Apportion.
type Mix []Weight

// Sources returns the keys in mix order.
func (m Mix) Sources() []lead.Source {
	out := make([]lead.Source, len(m))
	for i, w := range m {
		out[i] = w.Key
	}
	return out
}

// Weight returns the weight for key, 0 when absent.
func (m Mix) Weight(key lead.Source) float64 {
	for _, w := range m {
		if w.Key == key {
			return w.Value
		}
	}
	return 0
}

// Contains reports whether key is part of the mix.
func (m Mix) Contains(key lead.Source) bool {
	for _, w := range m {
		if w.Key == key {
			return true
		}
	}
	return false
}

// DefaultMix is the 50/50 PC/Mobile split used when no valid weights are
// configured.
func DefaultMix() Mix {
	return Mix{
		{Key: lead.SourcePC, Value: 0.5},
		{Key: lead.SourceMobile, Value: 0.5},
	}
}

// NormalizeMix drops non-positive entries and scales the rest to sum to 1.0,
// preserving input order. An empty or all-invalid input yields DefaultMix.
func NormalizeMix(weights Mix) Mix {
	var sum float64
	cleaned := make(Mix, 0, len(weights))
	for _, w := range weights {
		if w.Value > 0 {
			cleaned = append(cleaned, w)
			sum += w.Value
		}
	}
	if sum <= 0 {
		return DefaultMix()
	}
	for i := range cleaned {
		cleaned[i].Value /= sum
	}
	return cleaned
}

// Allocation is one integer quota produced by Apportion.
type Allocation struct {
	Key   lead.Source
	Count int
}

// Apportion distributes total across the mix by largest remainder: each key
// gets floor(total*weight), then the undershoot goes one unit at a time to
// the largest fractional remainders. Ties keep mix order (stable sort), so
// output is deterministic. Negative totals clamp to 0.
//
// Invariant: the allocations always sum to max(total, 0) when the mix is
// normalized.
func Apportion(total int, mix Mix) []Allocation {
	out := make([]Allocation, len(mix))
	for i, w := range mix {
		out[i] = Allocation{Key: w.Key}
	}
	if total <= 0 || len(mix) == 0 {
		return out
	}

	type rem struct {
		idx  int
		frac float64
	}
	rems := make([]rem, len(mix))
	allocated := 0
	for i, w := range mix {
		ideal := float64(total) * w.Value
		base := int(math.Floor(ideal))
		out[i].Count = base
		allocated += base
		rems[i] = rem{idx: i, frac: ideal - float64(base)}
	}

	sort.SliceStable(rems, func(a, b int) bool { return rems[a].frac > rems[b].frac })
	for i := 0; i < total-allocated && i < len(rems); i++ {
		out[rems[i].idx].Count++
	}
	return out
}

// AsCounts flattens allocations into a map for callers that only need
// lookups, not ordering.
func AsCounts(allocs []Allocation) map[lead.Source]int {
	out := make(map[lead.Source]int, len(allocs))
	for _, a := range allocs {
		out[a.Key] = a.Count
	}
	return out
}
