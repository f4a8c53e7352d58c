// Package rules implements window tagging, phone dedupe, and the re-query
// loops that build a Non-A candidate pool toward a row target.
package rules

import (
	"github.com/Kaosethi/telesalesautomation/internal/apportion"
	"github.com/Kaosethi/telesalesautomation/internal/lead"
)

// WindowPools holds the raw per-window candidate batches, one batch per
// (window, source) load. Batch order inside a window is significant: dedupe
// keeps the first row seen, so callers must append PC before Mobile (or
// whatever order they want to win ties).
type WindowPools map[lead.Window][]lead.Batch

// TagWindow returns a copy of the batch with every row labeled w.
// Empty input yields an empty batch, never an error.
func TagWindow(b lead.Batch, w lead.Window) lead.Batch {
	if len(b) == 0 {
		return lead.Batch{}
	}
	out := b.Clone()
	for i := range out {
		out[i].Window = w
	}
	return out
}

// Dedupe keeps one row per distinct phone. Rows are stable-sorted by window
// rank (Hot first, unknown labels last) and the first row per phone
// survives, so an earlier window always beats a later one and input order
// breaks ties within the same window.
func Dedupe(b lead.Batch) lead.Batch {
	if len(b) == 0 {
		return lead.Batch{}
	}

	// Stable sort by rank: bucket indices per rank, then walk ranks.
	maxRank := len(lead.WindowPriority) + 1
	byRank := make([][]int, maxRank)
	for i, r := range b {
		rank := r.Window.Rank()
		byRank[rank] = append(byRank[rank], i)
	}

	seen := make(map[string]bool, len(b))
	out := make(lead.Batch, 0, len(b))
	for _, idxs := range byRank {
		for _, i := range idxs {
			key := lead.NormalizePhone(b[i].Phone)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, b[i])
		}
	}
	return out
}

func concatWindows(pools WindowPools, windows []lead.Window) lead.Batch {
	var out lead.Batch
	for _, w := range windows {
		for _, b := range pools[w] {
			out = append(out, b...)
		}
	}
	return out
}

// BuildPool assembles a deduplicated pool of up to target rows by uniform
// re-query: windows are consumed in priority order and a later window is only
// touched when the earlier ones cannot meet the target. A pool short of
// target is a valid best-effort outcome, not an error.
//
// The per-window counts are diagnostic only (pool size observed after each
// expansion step).
func BuildPool(pools WindowPools, target int) (lead.Batch, map[lead.Window]int) {
	counts := make(map[lead.Window]int, len(lead.WindowPriority))

	var accumulated lead.Batch
	for _, w := range lead.WindowPriority {
		for _, b := range pools[w] {
			accumulated = append(accumulated, b...)
		}
		deduped := Dedupe(accumulated)
		counts[w] = len(deduped)
		if len(deduped) >= target {
			if target < 0 {
				target = 0
			}
			return deduped[:target:target], counts
		}
	}
	return Dedupe(accumulated), counts
}

// BuildPoolSourceFirst assembles a pool that honors the mix ratio at the
// selection stage: the target is apportioned across sources up front and
// each source is filled window-by-window against its own quota. When a
// source runs dry its shortfall is borrowed from the others in window
// priority order, so the total degrades gracefully while supply-rich sources
// keep their share.
//
// The returned counts report final pool composition per window.
func BuildPoolSourceFirst(pools WindowPools, mix apportion.Mix, target int) (lead.Batch, map[lead.Window]int) {
	weights := apportion.NormalizeMix(mix)
	quotas := apportion.Apportion(target, weights)

	// remaining[source][window] — untaken supply, window batches pre-merged.
	remaining := make(map[lead.Source]map[lead.Window]lead.Batch, len(weights))
	for _, src := range weights.Sources() {
		remaining[src] = make(map[lead.Window]lead.Batch, len(lead.WindowPriority))
		for _, w := range lead.WindowPriority {
			merged := concatWindows(pools, []lead.Window{w})
			var filtered lead.Batch
			for _, r := range merged {
				if r.Source == src {
					filtered = append(filtered, r)
				}
			}
			remaining[src][w] = filtered
		}
	}

	dropTaken := func(taken lead.Batch) {
		phones := make(map[string]bool, len(taken))
		for _, r := range taken {
			phones[lead.NormalizePhone(r.Phone)] = true
		}
		for _, src := range weights.Sources() {
			for _, w := range lead.WindowPriority {
				kept := remaining[src][w][:0:0]
				for _, r := range remaining[src][w] {
					if !phones[lead.NormalizePhone(r.Phone)] {
						kept = append(kept, r)
					}
				}
				remaining[src][w] = kept
			}
		}
	}

	var taken lead.Batch
	for _, q := range quotas {
		if q.Count <= 0 {
			continue
		}
		var chosen lead.Batch
		for _, w := range lead.WindowPriority {
			if len(chosen) >= q.Count {
				break
			}
			supply := remaining[q.Key][w]
			if len(supply) == 0 {
				continue
			}
			deduped := Dedupe(append(chosen.Clone(), supply...))
			n := q.Count
			if n > len(deduped) {
				n = len(deduped)
			}
			chosen = deduped[:n:n]
		}
		if len(chosen) > 0 {
			taken = append(taken, chosen...)
			dropTaken(chosen)
		}
	}

	combined := Dedupe(taken)

	// Quota-short? Borrow whatever is left, windows first, source order second.
	if len(combined) < target {
		borrow := combined.Clone()
		for _, w := range lead.WindowPriority {
			for _, src := range weights.Sources() {
				borrow = append(borrow, remaining[src][w]...)
			}
		}
		borrow = Dedupe(borrow)
		if len(borrow) > target && target >= 0 {
			borrow = borrow[:target:target]
		}
		combined = borrow
	}

	counts := make(map[lead.Window]int, len(lead.WindowPriority))
	for _, w := range lead.WindowPriority {
		counts[w] = 0
	}
	for _, r := range combined {
		counts[r.Window]++
	}
	return combined, counts
}

// BuildTierAPool merges the Hot-window batches, keeps rows with a lifetime
// top-up of at least MinTierAAmount when amounts are known (falling back to
// pre-computed A-* tier labels otherwise), and dedupes. Tier A never
// re-queries colder windows.
func BuildTierAPool(pools WindowPools) lead.Batch {
	merged := concatWindows(pools, []lead.Window{lead.WindowHot})
	if len(merged) == 0 {
		return lead.Batch{}
	}

	hasAmount := false
	for _, r := range merged {
		if r.Amount > 0 {
			hasAmount = true
			break
		}
	}

	var kept lead.Batch
	for _, r := range merged {
		if hasAmount {
			if r.Amount >= MinTierAAmount {
				kept = append(kept, r)
			}
		} else if lead.IsTierA(r.Tier) {
			kept = append(kept, r)
		}
	}
	return Dedupe(kept)
}

// MinTierAAmount is the lifetime top-up threshold for the Tier A segment.
const MinTierAAmount = 100_000
