// Package lead defines the canonical candidate-row model shared by every
// stage of the pipeline. All tables arriving from external storage are
// normalized into these types at the boundary; the selection, filter, and
// assignment logic only ever sees canonical fields.
package lead

import (
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Sources and windows
// --------------------------------------------------------------------------

// Source identifies the game platform a candidate was pulled from.
type Source string

const (
	SourcePC     Source = "cabal_pc_th"
	SourceMobile Source = "cabal_mobile_th"
)

// Window is an inactivity bucket. Priority: Hot > Cold > Hibernated —
// a lower-inactivity window always wins ties during dedupe.
type Window string

const (
	WindowHot        Window = "Hot Lead"   // 3–7 days inactive
	WindowCold       Window = "Cold"       // 8–14 days
	WindowHibernated Window = "Hibernated" // 15+ days
)

// WindowPriority lists windows from most to least recent activity.
// Every loop that walks windows must use this order.
var WindowPriority = []Window{WindowHot, WindowCold, WindowHibernated}

// Rank returns the priority rank of w (Hot=0). Unknown labels rank last.
func (w Window) Rank() int {
	for i, p := range WindowPriority {
		if p == w {
			return i
		}
	}
	return len(WindowPriority)
}

// --------------------------------------------------------------------------
// Candidate rows
// --------------------------------------------------------------------------

// Row is one telesales lead candidate.
type Row struct {
	Username   string
	Phone      string // raw as loaded; normalize before comparing
	Source     Source
	LastLogin  *time.Time
	LastSeen   *time.Time
	RewardTier string // GOLD / SILVER
	Tier       string // "A-1", "B-2", ... — "A-*" is the high-value segment
	ArkGem     int64
	Amount     int64 // lifetime top-up when known, 0 otherwise

	// Set during processing.
	Window   Window
	Telesale string
	Result   string // call result carried from history, "" for fresh rows
}

// Batch is an ordered set of candidate rows. Components never mutate a
// caller's batch; they copy and return new ones.
type Batch []Row

// Clone returns a copy of the batch that is safe to mutate.
func (b Batch) Clone() Batch {
	if len(b) == 0 {
		return Batch{}
	}
	out := make(Batch, len(b))
	copy(out, b)
	return out
}

// IsTierA reports whether a tier label denotes the A segment ("A-1", "a-2").
// Empty or malformed labels are non-A.
func IsTierA(label string) bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(label)), "A-")
}
