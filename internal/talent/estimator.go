package talent

import "math"

// Estimator turns per-batter context signals into adjustment terms and the
// shrinkage-regressed talent estimate. It runs once per dataset, after every
// signal has been attached, against a single set of league references.
type Estimator struct {
	coeffs    Coefficients
	constants WOBAConstants
	refs      LeagueReferences
}

// NewEstimator creates an estimator for one run.
func NewEstimator(coeffs Coefficients, constants WOBAConstants, refs LeagueReferences) *Estimator {
	return &Estimator{coeffs: coeffs, constants: constants, refs: refs}
}

// Apply fills the adjustment and estimate fields of every record in place.
// Missing signals adopt their league reference (protection, heart rate) or
// neutral constant (FIP-minus 100, park factor 100), so their adjustment
// terms come out zero. Zero-PA batters get NaN rate stats, never a fault.
func (e *Estimator) Apply(records []BatterRecord, audit *Audit) {
	for i := range records {
		e.estimate(&records[i], audit)
	}
}

func (e *Estimator) estimate(r *BatterRecord, audit *Audit) {
	// Protection: a better-protected batter sees more hittable counts, so
	// part of the observed wOBA is lineup context rather than talent.
	protScore := r.AvgProtectionScore.Or(e.refs.ProtectionScore)
	r.ProtectionAdj = (protScore - e.refs.ProtectionScore) * e.coeffs.Protection

	// Park: ParkAdj was produced by the park stage; keep it as-is.

	// Opposing pitching: a batter who faced below-100 FIP-minus was
	// suppressed by tough pitching. This term is added back, not removed.
	fipMinus := r.AvgPitcherFIPMinus.Or(e.refs.FIPMinus)
	r.PitcherAdj = (e.refs.FIPMinus - fipMinus) * e.coeffs.Pitcher

	// Pitch quality: extra heart pitches are an easier context.
	heart := r.HeartPct.Or(e.refs.HeartPct)
	r.PitchQualityAdj = (heart - e.refs.HeartPct) * e.coeffs.PitchQuality

	// Remove the favorable context, add back the suppression, then regress
	// toward the league mean for stability.
	talent := r.WOBA - r.ProtectionAdj - r.ParkAdj + r.PitcherAdj - r.PitchQualityAdj
	r.WOBATrueTalent = talent*(1-e.coeffs.Shrinkage) + e.refs.WOBA*e.coeffs.Shrinkage

	// Net favorable bias removed: positive means the observed line was
	// context-inflated.
	r.TotalContextAdj = r.ProtectionAdj + r.ParkAdj - r.PitcherAdj + r.PitchQualityAdj

	e.deriveRateStats(r, audit)
}

// deriveRateStats converts the talent wOBA into wRAA and a wRC+-style rate
// using the season's linear weights. With zero PA the rates are undefined.
func (e *Estimator) deriveRateStats(r *BatterRecord, audit *Audit) {
	if r.PA == 0 {
		r.WRAATrueTalent = NullFloat()
		r.WRCPlusTrueTalent = NullFloat()
		if audit != nil {
			audit.ZeroPABatters++
		}
		return
	}

	wraa := (r.WOBATrueTalent - e.refs.WOBA) / e.constants.Scale * float64(r.PA)
	r.WRAATrueTalent = Float(wraa)

	rpPA := e.constants.RunsPerPA
	wrcPlus := (wraa/float64(r.PA) + rpPA) / rpPA * 100
	if math.IsNaN(wrcPlus) || math.IsInf(wrcPlus, 0) {
		r.WRCPlusTrueTalent = NullFloat()
		return
	}
	r.WRCPlusTrueTalent = Float(wrcPlus)
}
