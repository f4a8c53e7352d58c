// Package output maps finalized candidate batches onto the two fixed
// publishing schemas. Header order is part of the contract with the calling
// team's sheet and must not change.
package output

import (
	"strconv"
	"time"

	"github.com/Kaosethi/telesalesautomation/internal/lead"
)

// Column titles shared across schemas. Tier A titles its username column
// "username", Non-A uses "Username" — both kept verbatim.
const (
	ColAssignDate   = "Assign Date"
	ColUsernameA    = "username"
	ColUsernameNonA = "Username"
	ColCallingCode  = "Calling Code"
	ColPhone        = "Phone Number"
	ColSource       = "Source"
	ColTier         = "Tier"
	ColInactiveDays = "Inactive Duration (Days)"
	ColAmount       = "amount"
	ColArkGem       = "Ark Gem"
	ColReward       = "Reward"
	ColRewardRank   = "Reward Rank"
	ColTelesale     = "Telesale"
)

// TierAHeaders is the 10-column Tier A schema.
var TierAHeaders = []string{
	"No.",
	ColUsernameA,
	ColPhone,
	ColSource,
	ColTier,
	ColInactiveDays,
	ColAmount,
	ColArkGem,
	ColReward,
	ColAssignDate,
}

// NonAHeaders is the 14-column Non-A schema. The trailing four columns stay
// blank for the calling team to fill in call outcomes.
var NonAHeaders = []string{
	"No.",
	ColUsernameNonA,
	ColCallingCode,
	ColPhone,
	ColSource,
	ColTier,
	ColInactiveDays,
	ColRewardRank,
	ColTelesale,
	ColAssignDate,
	"Recall Date/Time",
	"Call Status",
	"Answer Status",
	"Result",
}

// Row is one published line: the rendered cells plus the identity fields the
// store needs for compile matching.
type Row struct {
	Cells      []string
	Username   string
	Phone      string
	Source     lead.Source
	AssignDate string
}

// Table is a rendered output batch.
type Table struct {
	Headers []string
	Rows    []Row
}

// BuildTierA renders the Tier A schema. Amounts of zero render empty — the
// column stays blank when lifetime top-up data is unavailable.
func BuildTierA(b lead.Batch, now time.Time, loc *time.Location) Table {
	t := Table{Headers: TierAHeaders}
	day := lead.DayKey(now.In(loc))
	for i, r := range b {
		phone := lead.NormalizePhone(r.Phone)
		amount := ""
		if r.Amount > 0 {
			amount = strconv.FormatInt(r.Amount, 10)
		}
		t.Rows = append(t.Rows, Row{
			Cells: []string{
				strconv.Itoa(i + 1),
				r.Username,
				phone,
				string(r.Source),
				r.Tier,
				strconv.Itoa(r.InactiveDays(now, loc)),
				amount,
				strconv.FormatInt(r.ArkGem, 10),
				r.RewardTier,
				day,
			},
			Username:   r.Username,
			Phone:      phone,
			Source:     r.Source,
			AssignDate: day,
		})
	}
	return t
}

// BuildNonA renders the Non-A schema with the Thai calling-code split.
func BuildNonA(b lead.Batch, now time.Time, loc *time.Location) Table {
	t := Table{Headers: NonAHeaders}
	day := lead.DayKey(now.In(loc))
	for i, r := range b {
		code, local := lead.SplitCallingCodeTH(lead.NormalizePhone(r.Phone))
		t.Rows = append(t.Rows, Row{
			Cells: []string{
				strconv.Itoa(i + 1),
				r.Username,
				code,
				local,
				string(r.Source),
				r.Tier,
				strconv.Itoa(r.InactiveDays(now, loc)),
				r.RewardTier,
				r.Telesale,
				day,
				"", // Recall Date/Time
				"", // Call Status
				"", // Answer Status
				"", // Result
			},
			Username:   r.Username,
			Phone:      local,
			Source:     r.Source,
			AssignDate: day,
		})
	}
	return t
}
