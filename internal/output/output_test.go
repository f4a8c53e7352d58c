package output

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Kaosethi/telesalesautomation/internal/lead"
)

func TestHeaderSchemas(t *testing.T) {
	require.Len(t, TierAHeaders, 10)
	require.Len(t, NonAHeaders, 14)

	require.Equal(t, "No.", TierAHeaders[0])
	require.Equal(t, "username", TierAHeaders[1])
	require.Equal(t, "Username", NonAHeaders[1])
	require.Equal(t, "Calling Code", NonAHeaders[2])
	require.Equal(t, "Result", NonAHeaders[13])
}

func TestBuildTierA(t *testing.T) {
	loc := lead.AppLocation("")
	now := time.Date(2026, time.August, 31, 9, 0, 0, 0, loc)
	login := now.AddDate(0, 0, -4)

	tab := BuildTierA(lead.Batch{
		{
			Username:   "cabal001",
			Phone:      "0812345678.0",
			Source:     lead.SourcePC,
			Tier:       "A-1",
			RewardTier: "GOLD",
			ArkGem:     12000,
			Amount:     150000,
			LastLogin:  &login,
		},
	}, now, loc)

	require.Equal(t, TierAHeaders, tab.Headers)
	require.Len(t, tab.Rows, 1)

	row := tab.Rows[0]
	require.Equal(t, []string{
		"1", "cabal001", "0812345678", "cabal_pc_th", "A-1",
		"4", "150000", "12000", "GOLD", "31-08-2026",
	}, row.Cells)
	require.Equal(t, "0812345678", row.Phone)
	require.Equal(t, "31-08-2026", row.AssignDate)
}

func TestBuildTierABlankAmount(t *testing.T) {
	loc := lead.AppLocation("")
	now := time.Date(2026, time.August, 31, 9, 0, 0, 0, loc)

	tab := BuildTierA(lead.Batch{{Username: "u1", Phone: "0811111111", Tier: "A-2"}}, now, loc)
	require.Equal(t, "", tab.Rows[0].Cells[6])
}

func TestBuildNonA(t *testing.T) {
	loc := lead.AppLocation("")
	now := time.Date(2026, time.August, 31, 9, 0, 0, 0, loc)
	login := now.AddDate(0, 0, -10)

	tab := BuildNonA(lead.Batch{
		{
			Username:   "cabal002",
			Phone:      "0912345678",
			Source:     lead.SourceMobile,
			Tier:       "B-1",
			RewardTier: "SILVER",
			Telesale:   "Ann",
			LastLogin:  &login,
		},
	}, now, loc)

	require.Equal(t, NonAHeaders, tab.Headers)
	require.Len(t, tab.Rows, 1)

	row := tab.Rows[0]
	require.Equal(t, []string{
		"1", "cabal002", "=+66", "912345678", "cabal_mobile_th", "B-1",
		"10", "SILVER", "Ann", "31-08-2026", "", "", "", "",
	}, row.Cells)
	// Identity phone matches the published cell, not the raw input.
	require.Equal(t, "912345678", row.Phone)
}

func TestBuildNonANumbering(t *testing.T) {
	loc := lead.AppLocation("")
	now := time.Date(2026, time.August, 31, 9, 0, 0, 0, loc)

	var b lead.Batch
	for i := 0; i < 3; i++ {
		b = append(b, lead.Row{Username: "u", Phone: "0812345678"})
	}
	tab := BuildNonA(b, now, loc)
	require.Equal(t, "1", tab.Rows[0].Cells[0])
	require.Equal(t, "2", tab.Rows[1].Cells[0])
	require.Equal(t, "3", tab.Rows[2].Cells[0])
}

func TestBuildEmptyBatches(t *testing.T) {
	loc := lead.AppLocation("")
	now := time.Now()
	require.Empty(t, BuildTierA(nil, now, loc).Rows)
	require.Empty(t, BuildNonA(nil, now, loc).Rows)
}
