package talent

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// PitchEvent is a single pitched ball from the pitch-by-pitch feed.
// Plate coordinates are in feet from the center of home plate; the strike
// zone bounds are per-pitch because they depend on the batter's stance.
type PitchEvent struct {
	Batter      int     `json:"batter"`
	Pitcher     int     `json:"pitcher"`
	GamePK      int     `json:"game_pk"`
	PlateX      float64 `json:"plate_x"`
	PlateZ      float64 `json:"plate_z"`
	HasLocation bool    `json:"has_location"`
	SzTop       float64 `json:"sz_top"` // NaN when unreported
	SzBot       float64 `json:"sz_bot"` // NaN when unreported
}

// BatterSeason is one batter's season totals from the batting stats table.
type BatterSeason struct {
	PlayerID int     `json:"player_id"`
	Name     string  `json:"name"`
	Team     string  `json:"team"`
	PA       int     `json:"pa"`
	WOBA     float64 `json:"woba"`
	WRCPlus  Float   `json:"wrc_plus"` // optional in the source table
}

// PitcherSeason is one pitcher's season totals.
type PitcherSeason struct {
	PlayerID int     `json:"player_id"`
	FIP      float64 `json:"fip"`
	XFIP     float64 `json:"xfip"`
	ERA      float64 `json:"era"`
}

// ParkFactor is one team's ballpark effect. Factor is a 5-year multiplicative
// index where 100 is neutral. Team is the full franchise name as the park
// factor table spells it ("Dodgers", not "LAD").
type ParkFactor struct {
	Team   string  `json:"team"`
	Factor float64 `json:"factor"`
}

// ProtectionSummary is one batter's lineup-context score, produced by an
// external collaborator. The score itself is opaque to this pipeline.
type ProtectionSummary struct {
	BatterID           int     `json:"batter_id"`
	AvgProtectionScore float64 `json:"avg_protection_score"`
	Games              int     `json:"games"`
	TotalPA            int     `json:"total_pa"`
	AvgBattingOrder    float64 `json:"avg_batting_order"`
}

// WOBAConstants holds one season's linear weights.
type WOBAConstants struct {
	Season     int     `json:"season"`
	WBB        float64 `json:"w_bb"`
	WHBP       float64 `json:"w_hbp"`
	W1B        float64 `json:"w_1b"`
	W2B        float64 `json:"w_2b"`
	W3B        float64 `json:"w_3b"`
	WHR        float64 `json:"w_hr"`
	Scale      float64 `json:"woba_scale"`
	LeagueWOBA float64 `json:"league_woba"`
	RunsPerPA  float64 `json:"runs_per_pa"`
	RunsPerWin float64 `json:"runs_per_win"`
}

// IsValid checks that the constants can support rate-stat derivation.
func (w WOBAConstants) IsValid() bool {
	return w.Scale > 0 && w.RunsPerPA > 0 && w.LeagueWOBA > 0
}

// Inputs carries the six loaded source tables for one pipeline run.
type Inputs struct {
	Pitches     []PitchEvent
	Batters     []BatterSeason
	Pitchers    []PitcherSeason
	ParkFactors []ParkFactor
	Protection  []ProtectionSummary
	Constants   WOBAConstants
}

// BatterRecord is the final output row: one per batter season, carrying the
// four adjustment terms, the shrinkage-regressed talent estimate, and the
// intermediate signals that justify each adjustment. Nullable fields are NaN
// when the batter lacks the underlying signal.
type BatterRecord struct {
	PlayerID int     `json:"player_id"`
	Name     string  `json:"name"`
	Team     string  `json:"team"`
	PA       int     `json:"pa"`
	WOBA     float64 `json:"woba"`
	WRCPlus  Float   `json:"wrc_plus"`

	// Pitch-location profile (NaN when the batter has no located pitches).
	HeartPct     Float `json:"heart_pct"`
	ZonePct      Float `json:"zone_pct"`
	ChasePct     Float `json:"chase_pct"`
	WastePct     Float `json:"waste_pct"`
	TotalPitches int   `json:"total_pitches"`

	// Opposing-pitcher quality (NaN when absent from the pitch feed).
	AvgPitcherFIPMinus  Float `json:"avg_pitcher_fip_minus"`
	AvgPitcherFIP       Float `json:"avg_pitcher_fip"`
	UniquePitchersFaced int   `json:"unique_pitchers_faced"`

	// Lineup protection (NaN when absent from the protection summary).
	AvgProtectionScore Float `json:"avg_protection_score"`
	ProtectionGames    int   `json:"protection_games"`
	ProtectionPA       int   `json:"protection_pa"`
	AvgBattingOrder    Float `json:"avg_batting_order"`

	// Park.
	ParkFactor  float64 `json:"park_factor"`
	WOBAParkAdj float64 `json:"woba_park_adj"`

	// Adjustment terms. Always defined: missing signals contribute zero.
	ProtectionAdj   float64 `json:"protection_adj"`
	ParkAdj         float64 `json:"park_adj"`
	PitcherAdj      float64 `json:"pitcher_adj"`
	PitchQualityAdj float64 `json:"pitch_quality_adj"`

	// Estimates.
	WOBATrueTalent    float64 `json:"woba_true_talent"`
	WRAATrueTalent    Float   `json:"wraa_true_talent"`
	WRCPlusTrueTalent Float   `json:"wrc_plus_true_talent"`
	TotalContextAdj   float64 `json:"total_context_adj"`
}

// Coefficients are the fixed adjustment constants. They are presented as
// empirically derived but ship as configuration, not fitted parameters.
type Coefficients struct {
	Protection   float64 `json:"protection"`    // wOBA per unit of protection-score difference
	Pitcher      float64 `json:"pitcher"`       // wOBA per point of FIP-minus below 100
	PitchQuality float64 `json:"pitch_quality"` // wOBA per unit of heart-rate difference
	Shrinkage    float64 `json:"shrinkage"`     // weight regressed toward the league mean
}

// DefaultCoefficients returns the shipped adjustment constants:
// 0.10 of protection-score advantage is worth about 0.015 wOBA, one point of
// FIP-minus is worth 0.001 wOBA, and estimates are shrunk 10% to the mean.
func DefaultCoefficients() Coefficients {
	return Coefficients{
		Protection:   0.15,
		Pitcher:      0.001,
		PitchQuality: 0.15,
		Shrinkage:    0.10,
	}
}

// IsValid checks the coefficients are usable.
func (c Coefficients) IsValid() bool {
	return c.Protection >= 0 && c.Pitcher >= 0 && c.PitchQuality >= 0 &&
		c.Shrinkage >= 0 && c.Shrinkage <= 1 &&
		!math.IsNaN(c.Protection) && !math.IsNaN(c.Pitcher) &&
		!math.IsNaN(c.PitchQuality) && !math.IsNaN(c.Shrinkage)
}

// Dataset is the finished output of one pipeline run.
type Dataset struct {
	RunID       uuid.UUID        `json:"run_id"`
	GeneratedAt time.Time        `json:"generated_at"`
	Season      int              `json:"season"`
	Batters     []BatterRecord   `json:"batters"`
	References  LeagueReferences `json:"references"`
	Audit       Audit            `json:"audit"`
}

// Batter returns the record for a player ID.
func (d *Dataset) Batter(playerID int) (BatterRecord, bool) {
	for _, b := range d.Batters {
		if b.PlayerID == playerID {
			return b, true
		}
	}
	return BatterRecord{}, false
}
