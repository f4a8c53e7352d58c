package apportion

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Kaosethi/telesalesautomation/internal/lead"
)

func TestNormalizeMixDefaults(t *testing.T) {
	for _, in := range []Mix{
		nil,
		{},
		{{Key: lead.SourcePC, Value: -1}},
		{{Key: lead.SourcePC, Value: 0}, {Key: lead.SourceMobile, Value: -0.5}},
	} {
		got := NormalizeMix(in)
		require.Equal(t, DefaultMix(), got)
	}
}

func TestNormalizeMixScales(t *testing.T) {
	got := NormalizeMix(Mix{
		{Key: lead.SourcePC, Value: 3},
		{Key: lead.SourceMobile, Value: 1},
	})
	require.Len(t, got, 2)
	require.InDelta(t, 0.75, got[0].Value, 1e-9)
	require.InDelta(t, 0.25, got[1].Value, 1e-9)
	require.Equal(t, lead.SourcePC, got[0].Key)
}

func TestNormalizeMixDropsNonPositive(t *testing.T) {
	got := NormalizeMix(Mix{
		{Key: lead.SourcePC, Value: 0},
		{Key: lead.SourceMobile, Value: 2},
	})
	require.Len(t, got, 1)
	require.Equal(t, lead.SourceMobile, got[0].Key)
	require.InDelta(t, 1.0, got[0].Value, 1e-9)
}

func TestApportionSumsToTotal(t *testing.T) {
	mixes := []Mix{
		DefaultMix(),
		NormalizeMix(Mix{{Key: lead.SourcePC, Value: 0.7}, {Key: lead.SourceMobile, Value: 0.3}}),
		NormalizeMix(Mix{
			{Key: lead.SourcePC, Value: 1},
			{Key: lead.SourceMobile, Value: 1},
			{Key: lead.Source("cabal_console_th"), Value: 1},
		}),
	}
	for _, mix := range mixes {
		for _, total := range []int{0, 1, 7, 16, 100, 999} {
			allocs := Apportion(total, mix)
			sum := 0
			for _, a := range allocs {
				sum += a.Count
			}
			require.Equal(t, total, sum, "total=%d mix=%v", total, mix)
		}
	}
}

func TestApportionHalves(t *testing.T) {
	counts := AsCounts(Apportion(16, DefaultMix()))
	require.Equal(t, 8, counts[lead.SourcePC])
	require.Equal(t, 8, counts[lead.SourceMobile])
}

func TestApportionTieBreakFollowsMixOrder(t *testing.T) {
	// 7 * 0.5 = 3.5 each; the single leftover unit must go to the first
	// key in mix order, every time.
	for i := 0; i < 50; i++ {
		allocs := Apportion(7, DefaultMix())
		require.Equal(t, lead.SourcePC, allocs[0].Key)
		require.Equal(t, 4, allocs[0].Count)
		require.Equal(t, 3, allocs[1].Count)
	}
}

func TestApportionNegativeTotal(t *testing.T) {
	allocs := Apportion(-5, DefaultMix())
	for _, a := range allocs {
		require.Zero(t, a.Count)
	}
}

func TestApportionEmptyMix(t *testing.T) {
	require.Empty(t, Apportion(10, nil))
}

func TestMixAccessors(t *testing.T) {
	m := DefaultMix()
	require.Equal(t, []lead.Source{lead.SourcePC, lead.SourceMobile}, m.Sources())
	require.True(t, m.Contains(lead.SourceMobile))
	require.False(t, m.Contains(lead.Source("other")))
	require.InDelta(t, 0.5, m.Weight(lead.SourcePC), 1e-9)
	require.Zero(t, m.Weight(lead.Source("other")))
}
