package talent

import "math"

// NeutralFIPMinus is the league-average FIP-minus by construction: a pitcher
// exactly at the league-mean FIP scores 100. Unresolved pitchers default here.
const NeutralFIPMinus = 100.0

// OpponentQuality is one batter's aggregate over the pitchers they faced.
type OpponentQuality struct {
	Batter              int
	AvgFIPMinus         float64
	AvgFIP              float64 // NaN when no faced pitcher had a season record
	UniquePitchersFaced int
}

// LeagueFIP returns the unweighted mean FIP across the pitcher table, or NaN
// when the table is empty.
func LeagueFIP(pitchers []PitcherSeason) float64 {
	if len(pitchers) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, p := range pitchers {
		sum += p.FIP
	}
	return sum / float64(len(pitchers))
}

// FIPMinus normalizes a FIP to the league mean: (fip / leagueFIP) × 100.
// Values below 100 indicate better-than-average pitching.
func FIPMinus(fip, leagueFIP float64) float64 {
	if leagueFIP <= 0 || math.IsNaN(leagueFIP) {
		return NeutralFIPMinus
	}
	return fip / leagueFIP * 100
}

// AggregateOpponentQuality computes each batter's average opposing-pitcher
// quality. Every distinct (batter, pitcher, game) triple in the pitch feed
// counts once, so a pitcher faced across three games weighs three times.
// Triples whose pitcher has no season record receive the league-mean FIP and
// FIP-minus 100, and are counted in the audit. Batters entirely absent from
// the pitch feed are absent from the result.
func AggregateOpponentQuality(pitches []PitchEvent, pitchers []PitcherSeason, audit *Audit) map[int]OpponentQuality {
	leagueFIP := LeagueFIP(pitchers)

	byID := make(map[int]PitcherSeason, len(pitchers))
	for _, p := range pitchers {
		byID[p.PlayerID] = p
	}

	type triple struct {
		batter, pitcher, game int
	}
	seen := make(map[triple]struct{})

	type agg struct {
		fipMinusSum float64
		fipSum      float64
		fipKnown    int
		appearances int
		pitchers    map[int]struct{}
	}
	byBatter := make(map[int]*agg)

	for _, p := range pitches {
		key := triple{p.Batter, p.Pitcher, p.GamePK}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		a, ok := byBatter[p.Batter]
		if !ok {
			a = &agg{pitchers: make(map[int]struct{})}
			byBatter[p.Batter] = a
		}
		a.appearances++
		a.pitchers[p.Pitcher] = struct{}{}

		if ps, ok := byID[p.Pitcher]; ok {
			a.fipMinusSum += FIPMinus(ps.FIP, leagueFIP)
			if !math.IsNaN(leagueFIP) {
				a.fipSum += ps.FIP
				a.fipKnown++
			}
		} else {
			a.fipMinusSum += NeutralFIPMinus
			if !math.IsNaN(leagueFIP) {
				a.fipSum += leagueFIP
				a.fipKnown++
			}
			if audit != nil {
				audit.UnresolvedPitcherAppearances++
			}
		}
	}

	quality := make(map[int]OpponentQuality, len(byBatter))
	for batter, a := range byBatter {
		avgFIP := math.NaN()
		if a.fipKnown > 0 {
			avgFIP = a.fipSum / float64(a.fipKnown)
		}
		quality[batter] = OpponentQuality{
			Batter:              batter,
			AvgFIPMinus:         a.fipMinusSum / float64(a.appearances),
			AvgFIP:              avgFIP,
			UniquePitchersFaced: len(a.pitchers),
		}
	}
	return quality
}
