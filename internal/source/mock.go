package source

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"time"

	"github.com/Kaosethi/telesalesautomation/internal/lead"
	"github.com/Kaosethi/telesalesautomation/internal/window"
)

// Mock generates synthetic candidates aligned with the window day-ranges.
// Output is deterministic per (source, window, seed) so dry runs and tests
// are reproducible.
type Mock struct {
	Seed int64
	Rows int
	Now  func() time.Time
}

// NewMock returns a generator producing rows batches per (source, window).
func NewMock(seed int64, rows int) *Mock {
	return &Mock{Seed: seed, Rows: rows, Now: time.Now}
}

func (m *Mock) rng(src lead.Source, w lead.Window) *rand.Rand {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%s|%d", src, w, m.Seed)
	return rand.New(rand.NewPCG(h.Sum64(), uint64(m.Seed)))
}

// Candidates builds n synthetic rows whose inactivity falls inside the
// window range. Open-ended ranges are clamped to 40 days to keep the data
// reasonable.
func (m *Mock) Candidates(_ context.Context, src lead.Source, w lead.Window, ranges window.Ranges) (lead.Batch, error) {
	rng, ok := ranges[w]
	if !ok {
		return lead.Batch{}, nil
	}
	dmin, dmax := rng.MinDays, rng.MaxDays
	if rng.Open() {
		dmax = 40
	}
	// Degenerate operator overrides (open window starting past the clamp,
	// max below min) collapse to a single day instead of panicking.
	if dmax < dmin {
		dmax = dmin
	}

	r := m.rng(src, w)
	now := m.Now()

	rewardTiers := []string{"GOLD", "SILVER"}
	tiers := []string{"A-1", "A-2", "B-1", "B-2", "C-1"}
	prefixes := []string{"08", "09", "06"}

	out := make(lead.Batch, 0, m.Rows)
	for i := 1; i <= m.Rows; i++ {
		days := dmin + r.IntN(dmax-dmin+1)
		base := now.AddDate(0, 0, -days)
		lastLogin := time.Date(base.Year(), base.Month(), base.Day(), 10, 0, 0, 0, base.Location())
		lastSeen := lastLogin.Add(time.Duration(r.IntN(13)) * time.Hour)

		phone := prefixes[r.IntN(len(prefixes))]
		for j := 0; j < 8; j++ {
			phone += string(rune('0' + r.IntN(10)))
		}

		out = append(out, lead.Row{
			Username:   fmt.Sprintf("%s_user%03d", src, i),
			Phone:      phone,
			Source:     src,
			LastLogin:  &lastLogin,
			LastSeen:   &lastSeen,
			RewardTier: rewardTiers[r.IntN(len(rewardTiers))],
			Tier:       tiers[r.IntN(len(tiers))],
			ArkGem:     int64(1000 + r.IntN(49001)),
		})
	}
	return out, nil
}
