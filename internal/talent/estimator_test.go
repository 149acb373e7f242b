package talent

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConstants() WOBAConstants {
	return WOBAConstants{
		Season: 2024,
		WBB:    0.689, WHBP: 0.720, W1B: 0.882,
		W2B: 1.254, W3B: 1.590, WHR: 2.050,
		Scale:      1.242,
		LeagueWOBA: 0.310,
		RunsPerPA:  0.117,
		RunsPerWin: 10.0,
	}
}

func TestEstimatorShrinkageBoundary(t *testing.T) {
	// A batter with every adjustment at zero must land exactly at
	// observed×0.9 + leagueMean×0.1.
	refs := LeagueReferences{WOBA: 0.310, ProtectionScore: 0.331, HeartPct: 0.15, FIPMinus: 100}
	est := NewEstimator(DefaultCoefficients(), testConstants(), refs)

	r := BatterRecord{
		PlayerID: 1, PA: 600, WOBA: 0.350,
		AvgProtectionScore: Float(0.331), // exactly league mean
		HeartPct:           Float(0.15),  // exactly league mean
		AvgPitcherFIPMinus: Float(100),   // exactly neutral
		ParkFactor:         100,
		ParkAdj:            0,
	}
	records := []BatterRecord{r}
	est.Apply(records, nil)

	got := records[0]
	assert.InDelta(t, 0.0, got.ProtectionAdj, 1e-12)
	assert.InDelta(t, 0.0, got.PitcherAdj, 1e-12)
	assert.InDelta(t, 0.0, got.PitchQualityAdj, 1e-12)
	assert.InDelta(t, 0.350*0.9+0.310*0.1, got.WOBATrueTalent, 1e-12)
	assert.InDelta(t, 0.0, got.TotalContextAdj, 1e-12)
}

func TestEstimatorProtectionAdjustment(t *testing.T) {
	// avg_protection_score .471 against a league mean of .331:
	// adj = .140 × 0.15 = .0210.
	refs := LeagueReferences{WOBA: 0.310, ProtectionScore: 0.331, HeartPct: 0.15, FIPMinus: 100}
	est := NewEstimator(DefaultCoefficients(), testConstants(), refs)

	records := []BatterRecord{{
		PlayerID: 1, PA: 500, WOBA: 0.320,
		AvgProtectionScore: Float(0.471),
		HeartPct:           Float(0.15),
		AvgPitcherFIPMinus: Float(100),
	}}
	est.Apply(records, nil)

	assert.InDelta(t, 0.0210, records[0].ProtectionAdj, 1e-9)
}

func TestEstimatorPitcherAdjustmentSign(t *testing.T) {
	refs := LeagueReferences{WOBA: 0.310, ProtectionScore: 0.331, HeartPct: 0.15, FIPMinus: 100}
	est := NewEstimator(DefaultCoefficients(), testConstants(), refs)

	records := []BatterRecord{
		{PlayerID: 1, PA: 500, WOBA: 0.320, AvgPitcherFIPMinus: Float(92), AvgProtectionScore: NullFloat(), HeartPct: NullFloat()},
		{PlayerID: 2, PA: 500, WOBA: 0.320, AvgPitcherFIPMinus: Float(108), AvgProtectionScore: NullFloat(), HeartPct: NullFloat()},
	}
	est.Apply(records, nil)

	// Faced tougher-than-average pitching: the term is added back.
	assert.Greater(t, records[0].PitcherAdj, 0.0)
	assert.InDelta(t, (100-92)*0.001, records[0].PitcherAdj, 1e-12)

	// Faced softer pitching: the term subtracts.
	assert.Less(t, records[1].PitcherAdj, 0.0)
}

func TestEstimatorMissingSignalsContributeZero(t *testing.T) {
	refs := LeagueReferences{WOBA: 0.310, ProtectionScore: 0.331, HeartPct: 0.17, FIPMinus: 100}
	est := NewEstimator(DefaultCoefficients(), testConstants(), refs)

	records := []BatterRecord{{
		PlayerID: 1, PA: 400, WOBA: 0.295,
		AvgProtectionScore: NullFloat(),
		HeartPct:           NullFloat(),
		AvgPitcherFIPMinus: NullFloat(),
	}}
	est.Apply(records, nil)

	got := records[0]
	assert.InDelta(t, 0.0, got.ProtectionAdj, 1e-12)
	assert.InDelta(t, 0.0, got.PitchQualityAdj, 1e-12)
	assert.InDelta(t, 0.0, got.PitcherAdj, 1e-12)
}

func TestEstimatorTotalContextAdjSign(t *testing.T) {
	refs := LeagueReferences{WOBA: 0.310, ProtectionScore: 0.331, HeartPct: 0.15, FIPMinus: 100}
	est := NewEstimator(DefaultCoefficients(), testConstants(), refs)

	records := []BatterRecord{{
		PlayerID: 1, PA: 600, WOBA: 0.360,
		AvgProtectionScore: Float(0.431), // protected: +.015
		HeartPct:           Float(0.19),  // saw extra heart pitches: +.006
		AvgPitcherFIPMinus: Float(104),   // faced soft pitching: pitcherAdj −.004
		ParkAdj:            0.010,        // hitter-friendly park
	}}
	est.Apply(records, nil)

	got := records[0]
	want := got.ProtectionAdj + got.ParkAdj - got.PitcherAdj + got.PitchQualityAdj
	assert.InDelta(t, want, got.TotalContextAdj, 1e-12)
	assert.Greater(t, got.TotalContextAdj, 0.0, "favorable context must read as inflation")

	// Identity: observed − trueTalent(pre-shrinkage) == totalContextAdj.
	preShrink := got.WOBA - got.TotalContextAdj
	assert.InDelta(t, preShrink*0.9+refs.WOBA*0.1, got.WOBATrueTalent, 1e-12)
}

func TestEstimatorZeroPA(t *testing.T) {
	refs := LeagueReferences{WOBA: 0.310, ProtectionScore: 0.331, HeartPct: 0.15, FIPMinus: 100}
	est := NewEstimator(DefaultCoefficients(), testConstants(), refs)

	var audit Audit
	records := []BatterRecord{{
		PlayerID: 1, PA: 0, WOBA: 0.0,
		AvgProtectionScore: NullFloat(),
		HeartPct:           NullFloat(),
		AvgPitcherFIPMinus: NullFloat(),
	}}
	est.Apply(records, &audit)

	got := records[0]
	assert.True(t, got.WRAATrueTalent.IsNull(), "wRAA must be undefined at zero PA")
	assert.True(t, got.WRCPlusTrueTalent.IsNull(), "wRC+ must be undefined at zero PA")
	assert.Equal(t, 1, audit.ZeroPABatters)

	// The wOBA estimate itself is still defined.
	assert.False(t, math.IsNaN(got.WOBATrueTalent), "wOBA true talent must not be NaN")
}

func TestEstimatorRateStats(t *testing.T) {
	constants := testConstants()
	refs := LeagueReferences{WOBA: 0.310, ProtectionScore: 0.331, HeartPct: 0.15, FIPMinus: 100}
	est := NewEstimator(Coefficients{Shrinkage: 0}, constants, refs)

	records := []BatterRecord{{
		PlayerID: 1, PA: 600, WOBA: 0.372,
		AvgProtectionScore: NullFloat(),
		HeartPct:           NullFloat(),
		AvgPitcherFIPMinus: NullFloat(),
	}}
	est.Apply(records, nil)

	got := records[0]
	require.False(t, got.WRAATrueTalent.IsNull())

	wraa := (0.372 - 0.310) / constants.Scale * 600
	assert.InDelta(t, wraa, got.WRAATrueTalent.Float64(), 1e-9)

	wrcPlus := (wraa/600 + constants.RunsPerPA) / constants.RunsPerPA * 100
	assert.InDelta(t, wrcPlus, got.WRCPlusTrueTalent.Float64(), 1e-9)
	assert.Greater(t, got.WRCPlusTrueTalent.Float64(), 100.0)
}

func TestComputeLeagueReferences(t *testing.T) {
	records := []BatterRecord{
		{WOBA: 0.300, AvgProtectionScore: Float(0.320), HeartPct: Float(0.10)},
		{WOBA: 0.340, AvgProtectionScore: Float(0.360), HeartPct: Float(0.20)},
		{WOBA: 0.320, AvgProtectionScore: NullFloat(), HeartPct: NullFloat()},
	}

	refs := ComputeLeagueReferences(records)
	assert.InDelta(t, 0.320, refs.WOBA, 1e-9)
	// Means over the batters that carry the signal, not the full population.
	assert.InDelta(t, 0.340, refs.ProtectionScore, 1e-9)
	assert.InDelta(t, 0.150, refs.HeartPct, 1e-9)
	assert.InDelta(t, 100.0, refs.FIPMinus, 1e-9)
}

func TestComputeLeagueReferencesEmptySignals(t *testing.T) {
	records := []BatterRecord{
		{WOBA: 0.310, AvgProtectionScore: NullFloat(), HeartPct: NullFloat()},
	}
	refs := ComputeLeagueReferences(records)
	assert.InDelta(t, DefaultLeagueHeartPct, refs.HeartPct, 1e-9)
	assert.InDelta(t, 0.0, refs.ProtectionScore, 1e-9)
}

func TestDefaultCoefficients(t *testing.T) {
	c := DefaultCoefficients()
	assert.True(t, c.IsValid())
	assert.InDelta(t, 0.15, c.Protection, 1e-12)
	assert.InDelta(t, 0.001, c.Pitcher, 1e-12)
	assert.InDelta(t, 0.15, c.PitchQuality, 1e-12)
	assert.InDelta(t, 0.10, c.Shrinkage, 1e-12)

	assert.False(t, Coefficients{Protection: -1}.IsValid())
	assert.False(t, Coefficients{Shrinkage: 1.5}.IsValid())
}
