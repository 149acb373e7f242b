package talent

// NeutralParkFactor is the multiplicative index of a park that neither
// inflates nor suppresses offense. Unresolved teams default here.
const NeutralParkFactor = 100.0

// teamAbbreviations maps the park-factor table's full franchise names to the
// batting table's abbreviations, covering all thirty current franchises.
var teamAbbreviations = map[string]string{
	"Angels":       "LAA",
	"Astros":       "HOU",
	"Athletics":    "OAK",
	"Blue Jays":    "TOR",
	"Braves":       "ATL",
	"Brewers":      "MIL",
	"Cardinals":    "STL",
	"Cubs":         "CHC",
	"Diamondbacks": "ARI",
	"Dodgers":      "LAD",
	"Giants":       "SFG",
	"Guardians":    "CLE",
	"Mariners":     "SEA",
	"Marlins":      "MIA",
	"Mets":         "NYM",
	"Nationals":    "WSN",
	"Orioles":      "BAL",
	"Padres":       "SDP",
	"Phillies":     "PHI",
	"Pirates":      "PIT",
	"Rangers":      "TEX",
	"Rays":         "TBR",
	"Red Sox":      "BOS",
	"Reds":         "CIN",
	"Rockies":      "COL",
	"Royals":       "KCR",
	"Tigers":       "DET",
	"Twins":        "MIN",
	"White Sox":    "CHW",
	"Yankees":      "NYY",
}

// AbbreviateTeam resolves a full franchise name to its abbreviation.
func AbbreviateTeam(fullName string) (string, bool) {
	abbr, ok := teamAbbreviations[fullName]
	return abbr, ok
}

// ParkIndex resolves a batter's team abbreviation to a park factor.
type ParkIndex map[string]float64

// NewParkIndex builds the abbreviation-keyed lookup from the park factor
// table. Entries with unknown team names or non-positive factors are skipped;
// lookups against them fall through to the neutral default.
func NewParkIndex(factors []ParkFactor) ParkIndex {
	idx := make(ParkIndex, len(factors))
	for _, pf := range factors {
		abbr, ok := AbbreviateTeam(pf.Team)
		if !ok || pf.Factor <= 0 {
			continue
		}
		idx[abbr] = pf.Factor
	}
	return idx
}

// Factor returns the park factor for a team abbreviation, defaulting to
// neutral when the team cannot be resolved. The second return reports whether
// the lookup succeeded.
func (idx ParkIndex) Factor(teamAbbr string) (float64, bool) {
	if f, ok := idx[teamAbbr]; ok {
		return f, true
	}
	return NeutralParkFactor, false
}

// ParkAdjust splits an observed wOBA into its park-neutral value and the
// portion attributable to park inflation or suppression:
//
//	parkNeutral = wOBA × 100/factor
//	parkAdj     = wOBA − parkNeutral
//
// A neutral factor yields parkAdj of exactly zero.
func ParkAdjust(woba, factor float64) (parkNeutral, parkAdj float64) {
	if factor <= 0 {
		factor = NeutralParkFactor
	}
	parkNeutral = woba * (NeutralParkFactor / factor)
	return parkNeutral, woba - parkNeutral
}
