package talent

// DefaultLeagueHeartPct stands in for the league heart rate when no batter in
// the population has pitch data, so pitch-quality adjustments stay defined.
const DefaultLeagueHeartPct = 0.15

// LeagueReferences are the population means every adjustment is measured
// against. They are computed exactly once per run, from the full batter
// population, and threaded explicitly into the estimator so that every
// default is auditable in one place.
type LeagueReferences struct {
	// WOBA is the mean observed wOBA across all batters.
	WOBA float64 `json:"woba"`

	// ProtectionScore is the mean protection score across batters that have
	// one; batters without a score adopt this value, contributing a zero
	// adjustment.
	ProtectionScore float64 `json:"protection_score"`

	// HeartPct is the mean heart rate across batters with pitch data,
	// falling back to DefaultLeagueHeartPct when none have any.
	HeartPct float64 `json:"heart_pct"`

	// FIPMinus is fixed at 100 by construction of the FIP-minus scale.
	FIPMinus float64 `json:"fip_minus"`
}

// ComputeLeagueReferences derives the reference values from batter records
// that already carry their per-batter signals.
func ComputeLeagueReferences(records []BatterRecord) LeagueReferences {
	refs := LeagueReferences{FIPMinus: NeutralFIPMinus, HeartPct: DefaultLeagueHeartPct}
	if len(records) == 0 {
		return refs
	}

	wobaSum := 0.0
	protSum, protN := 0.0, 0
	heartSum, heartN := 0.0, 0

	for _, r := range records {
		wobaSum += r.WOBA
		if !r.AvgProtectionScore.IsNull() {
			protSum += r.AvgProtectionScore.Float64()
			protN++
		}
		if !r.HeartPct.IsNull() {
			heartSum += r.HeartPct.Float64()
			heartN++
		}
	}

	refs.WOBA = wobaSum / float64(len(records))
	if protN > 0 {
		refs.ProtectionScore = protSum / float64(protN)
	}
	if heartN > 0 {
		refs.HeartPct = heartSum / float64(heartN)
	}
	return refs
}
