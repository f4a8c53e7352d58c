// Package window holds the inactivity day-ranges behind each window label.
// Ranges are a plain value threaded through loaders and pipelines — never
// process-global state — so overrides from the config sheet affect exactly
// one run.
package window

import "github.com/Kaosethi/telesalesautomation/internal/lead"

// Range is an inclusive inactivity-day interval. MaxDays == 0 means
// open-ended (15+).
type Range struct {
	MinDays int
	MaxDays int
}

// Open reports whether the range has no upper bound.
func (r Range) Open() bool { return r.MaxDays <= 0 }

// Contains reports whether days falls inside the range.
func (r Range) Contains(days int) bool {
	if days < r.MinDays {
		return false
	}
	return r.Open() || days <= r.MaxDays
}

// Ranges maps each window label to its day range.
type Ranges map[lead.Window]Range

// Defaults returns the documented window ranges:
// Hot 3–7, Cold 8–14, Hibernated 15+.
func Defaults() Ranges {
	return Ranges{
		lead.WindowHot:        {MinDays: 3, MaxDays: 7},
		lead.WindowCold:       {MinDays: 8, MaxDays: 14},
		lead.WindowHibernated: {MinDays: 15, MaxDays: 0},
	}
}

// Merge returns a copy of base with any override entries applied. Labels the
// overrides don't mention keep their base range; unknown labels are ignored.
func Merge(base Ranges, overrides Ranges) Ranges {
	out := make(Ranges, len(base))
	for w, r := range base {
		out[w] = r
	}
	for w, r := range overrides {
		if _, known := out[w]; known {
			out[w] = r
		}
	}
	return out
}
