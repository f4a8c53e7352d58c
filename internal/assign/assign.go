// Package assign distributes a filtered Non-A pool across callers.
//
// Guarantees:
//   - every available caller receives exactly the same number of rows
//     (the per-caller target is capped to floor(total/callers), so excess
//     rows stay unassigned rather than skewing counts);
//   - within a caller's allocation the source mix follows the configured
//     weights via Hamilton apportionment, topping up from other sources only
//     when a bucket runs short.
package assign

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/Kaosethi/telesalesautomation/internal/apportion"
	"github.com/Kaosethi/telesalesautomation/internal/lead"
)

// MixAware returns a copy of pool with Telesale set on assigned rows.
// Unassigned rows keep Telesale == "" so the pipeline can decide what to do
// with leftovers. Empty pool, no callers, or a capped target of zero all
// return the pool unchanged (with Telesale cleared) — never an error.
func MixAware(pool lead.Batch, callers []string, perCallerTarget int, mix apportion.Mix, logger *slog.Logger) lead.Batch {
	out := pool.Clone()
	for i := range out {
		out[i].Telesale = ""
	}
	if len(out) == 0 {
		return out
	}

	names := make([]string, 0, len(callers))
	for _, c := range callers {
		if s := strings.TrimSpace(c); s != "" {
			names = append(names, s)
		}
	}
	if len(names) == 0 {
		return out
	}

	weights := apportion.NormalizeMix(mix)

	// Buckets hold row indices into out, original order preserved.
	buckets := make(map[lead.Source][]int, len(weights))
	var unknown []int
	for i, r := range out {
		if weights.Contains(r.Source) {
			buckets[r.Source] = append(buckets[r.Source], i)
		} else {
			unknown = append(unknown, i)
		}
	}

	total := len(out)
	k := len(names)

	target := perCallerTarget
	if target < 0 {
		target = 0
	}
	if equal := total / k; target > equal {
		target = equal
	}
	if target <= 0 {
		if logger != nil {
			logger.Info("Assignment skipped: capped target is zero",
				"pool", total, "callers", k, "requested", perCallerTarget)
		}
		return out
	}

	takeHead := func(idxs []int, n int) (head, tail []int) {
		if n > len(idxs) {
			n = len(idxs)
		}
		return idxs[:n], idxs[n:]
	}

	assigned := 0
	for _, caller := range names {
		got := 0

		// Quota pass: pull each source's share in mix order.
		for _, q := range apportion.Apportion(target, weights) {
			if q.Count <= 0 {
				continue
			}
			head, tail := takeHead(buckets[q.Key], q.Count)
			for _, i := range head {
				out[i].Telesale = caller
			}
			got += len(head)
			buckets[q.Key] = tail
		}

		// Top-up pass: a short bucket borrows from whichever sources still
		// have the most supply, minimizing skew for later callers.
		if short := target - got; short > 0 {
			type left struct {
				src lead.Source
				n   int
			}
			lefts := make([]left, 0, len(weights))
			for _, src := range weights.Sources() {
				if n := len(buckets[src]); n > 0 {
					lefts = append(lefts, left{src, n})
				}
			}
			sort.SliceStable(lefts, func(a, b int) bool { return lefts[a].n > lefts[b].n })
			for _, l := range lefts {
				if short <= 0 {
					break
				}
				head, tail := takeHead(buckets[l.src], short)
				for _, i := range head {
					out[i].Telesale = caller
				}
				short -= len(head)
				buckets[l.src] = tail
			}

			// Last resort: rows whose source is outside the mix.
			if short > 0 && len(unknown) > 0 {
				head, tail := takeHead(unknown, short)
				for _, i := range head {
					out[i].Telesale = caller
				}
				short -= len(head)
				unknown = tail
			}
		}

		assigned += target
	}

	if logger != nil {
		logger.Info("Mix-aware assignment done",
			"callers", k, "per_caller", target,
			"assigned", assigned, "leftover", total-assigned)
	}
	return out
}

// Distribution tallies assigned rows per caller and source — diagnostic
// output for the run log.
func Distribution(b lead.Batch) map[string]map[lead.Source]int {
	out := make(map[string]map[lead.Source]int)
	for _, r := range b {
		if r.Telesale == "" {
			continue
		}
		if out[r.Telesale] == nil {
			out[r.Telesale] = make(map[lead.Source]int)
		}
		out[r.Telesale][r.Source]++
	}
	return out
}
