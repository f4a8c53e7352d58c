// Package filters applies the eligibility rules that prune a candidate pool
// before publishing: central blacklist, contact-history recency, call
// outcomes, and same-day redemption.
//
// Every input is optional — a missing table simply skips its rules. Rules
// intersect: a row survives only if it passes all enabled rules. Matching
// uses a composite (phone, username, source) key with phones normalized on
// both sides, so spreadsheet artifacts like a trailing ".0" or a leading
// zero never cause spurious mismatches.
package filters

import (
	"fmt"
	"log/slog"

	"github.com/Kaosethi/telesalesautomation/internal/lead"
)

// Thai call-outcome vocabulary as recorded by the calling team.
var UnreachableAnswerStatuses = map[string]bool{
	"ไม่รับสาย":        true, // no answer
	"ติดต่อไม่ได้":     true, // cannot contact
	"กดตัดสาย":         true, // cut the call
	"รับสายไม่สะดวกคุย": true, // answered but not convenient to talk
}

const (
	AnsweredStatus      = "รับสาย"
	ResultInvalidNumber = "เบอร์เสีย"
	ResultNotInterested = "ไม่สนใจ"
	ResultNotOwner      = "ไม่ใช่เจ้าของไอดี"
)

// HistoryRow is one already-published row from this month's compile tab.
type HistoryRow struct {
	Username     string
	Phone        string
	Source       lead.Source
	AnswerStatus string
	Result       string
	AssignDate   string // DD-MM-YYYY
}

// BlacklistRow is one entry of the central blacklist.
type BlacklistRow struct {
	Username string
	Phone    string
	Source   lead.Source
}

// Options toggles individual rules. Zero value disables everything except
// the blacklist and today-idempotency checks, which always run when their
// tables are present.
type Options struct {
	DropUnreachableRepeat      bool
	UnreachableMinCount        int
	DropAnsweredThisMonth      bool
	DropInvalidNumber          bool
	DropNotInterestedThisMonth bool
	DropNotOwnerAsBlacklist    bool
	DropRedeemedToday          bool
}

// DefaultOptions mirrors the production toggles.
func DefaultOptions() Options {
	return Options{
		DropUnreachableRepeat:      true,
		UnreachableMinCount:        2,
		DropAnsweredThisMonth:      true,
		DropInvalidNumber:          true,
		DropNotInterestedThisMonth: true,
		DropNotOwnerAsBlacklist:    true,
		DropRedeemedToday:          true,
	}
}

// CompositeKey builds the cross-table matching key from its parts.
func CompositeKey(phone, username string, source lead.Source) string {
	return fmt.Sprintf("%s|%s|%s", lead.KeyPhone(phone), username, source)
}

func rowKey(r lead.Row) string { return CompositeKey(r.Phone, r.Username, r.Source) }

// Apply returns a filtered copy of pool, order preserved. today is the run's
// DD-MM-YYYY key used for the already-assigned-today rule. A per-rule drop
// summary is logged (diagnostic only).
func Apply(
	pool lead.Batch,
	history []HistoryRow,
	blacklist []BlacklistRow,
	redeemedToday map[string]bool,
	today string,
	opts Options,
	logger *slog.Logger,
) lead.Batch {
	if len(pool) == 0 {
		return lead.Batch{}
	}

	// Index the history once per run.
	blacklisted := make(map[string]bool, len(blacklist))
	for _, b := range blacklist {
		blacklisted[CompositeKey(b.Phone, b.Username, b.Source)] = true
	}

	assignedToday := make(map[string]bool)
	unreachableCount := make(map[string]int)
	answered := make(map[string]bool)
	notInterested := make(map[string]bool)
	for _, h := range history {
		key := CompositeKey(h.Phone, h.Username, h.Source)
		if h.AssignDate == today {
			assignedToday[key] = true
		}
		if UnreachableAnswerStatuses[h.AnswerStatus] {
			unreachableCount[key]++
		}
		if h.AnswerStatus == AnsweredStatus {
			answered[key] = true
		}
		if h.Result == ResultNotInterested {
			notInterested[key] = true
		}
	}

	var drops struct {
		blacklist, today, unreachable, answered, notInterested, invalid, notOwner, redeemed int
	}

	out := make(lead.Batch, 0, len(pool))
	for _, r := range pool {
		key := rowKey(r)
		switch {
		case blacklisted[key]:
			drops.blacklist++
		case assignedToday[key]:
			drops.today++
		case opts.DropUnreachableRepeat && unreachableCount[key] >= max(1, opts.UnreachableMinCount):
			drops.unreachable++
		case opts.DropAnsweredThisMonth && answered[key]:
			drops.answered++
		case opts.DropNotInterestedThisMonth && notInterested[key]:
			drops.notInterested++
		// The invalid-number and not-owner rules read the row's own carried
		// result, not the month history: only a row re-surfacing with the
		// outcome attached is dropped.
		case opts.DropInvalidNumber && r.Result == ResultInvalidNumber:
			drops.invalid++
		case opts.DropNotOwnerAsBlacklist && r.Result == ResultNotOwner:
			drops.notOwner++
		case opts.DropRedeemedToday && redeemedToday[r.Username]:
			drops.redeemed++
		default:
			out = append(out, r)
		}
	}

	if logger != nil {
		logger.Info("Filter summary",
			"today", today,
			"in", len(pool), "out", len(out),
			"blacklist", drops.blacklist,
			"assigned_today", drops.today,
			"unreachable_repeat", drops.unreachable,
			"answered", drops.answered,
			"not_interested", drops.notInterested,
			"invalid_number", drops.invalid,
			"not_owner", drops.notOwner,
			"redeemed_today", drops.redeemed)
	}
	return out
}
