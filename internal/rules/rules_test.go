package rules

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Kaosethi/telesalesautomation/internal/apportion"
	"github.com/Kaosethi/telesalesautomation/internal/lead"
)

func makeBatch(src lead.Source, prefix string, n int) lead.Batch {
	out := make(lead.Batch, n)
	for i := 0; i < n; i++ {
		out[i] = lead.Row{
			Username: fmt.Sprintf("%s_user%03d", prefix, i),
			Phone:    fmt.Sprintf("0%s%06d", prefix, i),
			Source:   src,
		}
	}
	return out
}

func TestTagWindowCopies(t *testing.T) {
	b := makeBatch(lead.SourcePC, "811", 3)
	tagged := TagWindow(b, lead.WindowCold)

	require.Len(t, tagged, 3)
	for _, r := range tagged {
		require.Equal(t, lead.WindowCold, r.Window)
	}
	// Original rows stay untouched.
	for _, r := range b {
		require.Empty(t, r.Window)
	}
}

func TestTagWindowEmpty(t *testing.T) {
	require.Empty(t, TagWindow(nil, lead.WindowHot))
}

func TestDedupeEarlierWindowWins(t *testing.T) {
	b := lead.Batch{
		{Username: "cold_owner", Phone: "0812345678", Window: lead.WindowCold},
		{Username: "hot_owner", Phone: "0812345678", Window: lead.WindowHot},
		{Username: "hib_owner", Phone: "0812345678", Window: lead.WindowHibernated},
	}
	got := Dedupe(b)
	require.Len(t, got, 1)
	require.Equal(t, "hot_owner", got[0].Username)
}

func TestDedupeStableWithinWindow(t *testing.T) {
	b := lead.Batch{
		{Username: "first", Phone: "0811111111", Window: lead.WindowHot},
		{Username: "second", Phone: "0811111111", Window: lead.WindowHot},
		{Username: "other", Phone: "0822222222", Window: lead.WindowHot},
	}
	got := Dedupe(b)
	require.Len(t, got, 2)
	require.Equal(t, "first", got[0].Username)
}

func TestDedupeUnknownWindowLast(t *testing.T) {
	b := lead.Batch{
		{Username: "untagged", Phone: "0811111111"},
		{Username: "hibernated", Phone: "0811111111", Window: lead.WindowHibernated},
	}
	got := Dedupe(b)
	require.Len(t, got, 1)
	require.Equal(t, "hibernated", got[0].Username)
}

func TestDedupeNormalizesPhones(t *testing.T) {
	b := lead.Batch{
		{Username: "raw", Phone: "0912345678", Window: lead.WindowHot},
		{Username: "float", Phone: "0912345678.0", Window: lead.WindowHot},
	}
	got := Dedupe(b)
	require.Len(t, got, 1)
	require.Equal(t, "raw", got[0].Username)
}

func hotColdPools(hotPC, hotMob, coldPC, coldMob int) WindowPools {
	return WindowPools{
		lead.WindowHot: {
			TagWindow(makeBatch(lead.SourcePC, "811", hotPC), lead.WindowHot),
			TagWindow(makeBatch(lead.SourceMobile, "911", hotMob), lead.WindowHot),
		},
		lead.WindowCold: {
			TagWindow(makeBatch(lead.SourcePC, "812", coldPC), lead.WindowCold),
			TagWindow(makeBatch(lead.SourceMobile, "912", coldMob), lead.WindowCold),
		},
	}
}

func TestBuildPoolHotSufficient(t *testing.T) {
	pools := hotColdPools(30, 30, 10, 10)
	pool, counts := BuildPool(pools, 40)

	require.Len(t, pool, 40)
	require.Equal(t, 60, counts[lead.WindowHot])
	for _, r := range pool {
		require.Equal(t, lead.WindowHot, r.Window)
	}
}

func TestBuildPoolExpandsToCold(t *testing.T) {
	pools := hotColdPools(10, 10, 20, 20)
	pool, counts := BuildPool(pools, 40)

	require.Len(t, pool, 40)
	require.Equal(t, 20, counts[lead.WindowHot])
	require.Equal(t, 60, counts[lead.WindowCold])

	byWindow := map[lead.Window]int{}
	for _, r := range pool {
		byWindow[r.Window]++
	}
	require.Equal(t, 20, byWindow[lead.WindowHot])
	require.Equal(t, 20, byWindow[lead.WindowCold])
}

func TestBuildPoolBestEffortShort(t *testing.T) {
	pools := hotColdPools(3, 2, 1, 0)
	pool, _ := BuildPool(pools, 100)
	require.Len(t, pool, 6)
}

func TestBuildPoolZeroTarget(t *testing.T) {
	pools := hotColdPools(5, 5, 0, 0)
	pool, _ := BuildPool(pools, 0)
	require.Empty(t, pool)
}

func TestBuildPoolSourceFirstHonorsQuota(t *testing.T) {
	pools := hotColdPools(50, 50, 0, 0)
	pool, counts := BuildPoolSourceFirst(pools, apportion.DefaultMix(), 20)

	require.Len(t, pool, 20)
	require.Equal(t, 20, counts[lead.WindowHot])

	bySrc := map[lead.Source]int{}
	for _, r := range pool {
		bySrc[r.Source]++
	}
	require.Equal(t, 10, bySrc[lead.SourcePC])
	require.Equal(t, 10, bySrc[lead.SourceMobile])
}

func TestBuildPoolSourceFirstBorrowsShortfall(t *testing.T) {
	// PC can only supply 5 of its 10-row quota; Mobile has plenty and
	// covers the shortfall.
	pools := hotColdPools(5, 95, 0, 0)
	pool, _ := BuildPoolSourceFirst(pools, apportion.DefaultMix(), 20)

	require.Len(t, pool, 20)
	bySrc := map[lead.Source]int{}
	for _, r := range pool {
		bySrc[r.Source]++
	}
	require.Equal(t, 5, bySrc[lead.SourcePC])
	require.Equal(t, 15, bySrc[lead.SourceMobile])
}

func TestBuildPoolSourceFirstCrossSourceDedupe(t *testing.T) {
	shared := lead.Row{Username: "pc_shared", Phone: "0899999999", Source: lead.SourcePC, Window: lead.WindowHot}
	dup := lead.Row{Username: "mob_shared", Phone: "0899999999", Source: lead.SourceMobile, Window: lead.WindowHot}

	pools := WindowPools{
		lead.WindowHot: {
			append(TagWindow(makeBatch(lead.SourcePC, "811", 4), lead.WindowHot), shared),
			append(TagWindow(makeBatch(lead.SourceMobile, "911", 4), lead.WindowHot), dup),
		},
	}
	pool, _ := BuildPoolSourceFirst(pools, apportion.DefaultMix(), 10)

	seen := 0
	for _, r := range pool {
		if lead.NormalizePhone(r.Phone) == "0899999999" {
			seen++
		}
	}
	require.Equal(t, 1, seen)
	require.Len(t, pool, 9)
}

func TestBuildPoolSourceFirstEmptySupply(t *testing.T) {
	pool, counts := BuildPoolSourceFirst(WindowPools{}, apportion.DefaultMix(), 20)
	require.Empty(t, pool)
	require.Zero(t, counts[lead.WindowHot])
}

func TestBuildTierAPoolAmountThreshold(t *testing.T) {
	pools := WindowPools{
		lead.WindowHot: {lead.Batch{
			{Username: "whale", Phone: "0811111111", Amount: 250_000, Window: lead.WindowHot},
			{Username: "minnow", Phone: "0822222222", Amount: 5_000, Window: lead.WindowHot},
			{Username: "edge", Phone: "0833333333", Amount: MinTierAAmount, Window: lead.WindowHot},
		}},
	}
	got := BuildTierAPool(pools)
	require.Len(t, got, 2)
	names := []string{got[0].Username, got[1].Username}
	require.Contains(t, names, "whale")
	require.Contains(t, names, "edge")
}

func TestBuildTierAPoolTierFallback(t *testing.T) {
	pools := WindowPools{
		lead.WindowHot: {lead.Batch{
			{Username: "a1", Phone: "0811111111", Tier: "A-1", Window: lead.WindowHot},
			{Username: "b1", Phone: "0822222222", Tier: "B-1", Window: lead.WindowHot},
			{Username: "a2", Phone: "0833333333", Tier: "a-2", Window: lead.WindowHot},
		}},
	}
	got := BuildTierAPool(pools)
	require.Len(t, got, 2)
}

func TestBuildTierAPoolIgnoresColderWindows(t *testing.T) {
	pools := WindowPools{
		lead.WindowCold: {lead.Batch{
			{Username: "cold_whale", Phone: "0811111111", Amount: 500_000, Window: lead.WindowCold},
		}},
	}
	require.Empty(t, BuildTierAPool(pools))
}
