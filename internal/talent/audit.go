package talent

import "log/slog"

// Audit counts how many rows fell back to documented defaults during a run.
// Unresolved keys are not errors, but callers need to see how much of the
// output leans on neutral fallbacks before trusting it.
type Audit struct {
	// UnresolvedTeams counts batters whose team had no park-factor entry
	// and received the neutral factor of 100.
	UnresolvedTeams int `json:"unresolved_teams"`

	// UnresolvedPitcherAppearances counts (batter, pitcher, game) triples
	// whose pitcher had no season record and received FIP-minus 100.
	UnresolvedPitcherAppearances int `json:"unresolved_pitcher_appearances"`

	// BattersWithoutProtection counts batters absent from the protection
	// summary; their score defaults to the league mean in the estimator.
	BattersWithoutProtection int `json:"batters_without_protection"`

	// BattersWithoutPitchData counts batters with no located pitches in the
	// pitch feed; their heart rate defaults to the league mean.
	BattersWithoutPitchData int `json:"batters_without_pitch_data"`

	// BattersWithoutOpponents counts batters entirely absent from the pitch
	// feed; their opposing FIP-minus defaults to 100.
	BattersWithoutOpponents int `json:"batters_without_opponents"`

	// ZeroPABatters counts batters whose wRC+ derivation was undefined
	// because PA was zero.
	ZeroPABatters int `json:"zero_pa_batters"`
}

// LogValue renders the audit as structured logging attributes.
func (a Audit) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("unresolved_teams", a.UnresolvedTeams),
		slog.Int("unresolved_pitcher_appearances", a.UnresolvedPitcherAppearances),
		slog.Int("batters_without_protection", a.BattersWithoutProtection),
		slog.Int("batters_without_pitch_data", a.BattersWithoutPitchData),
		slog.Int("batters_without_opponents", a.BattersWithoutOpponents),
		slog.Int("zero_pa_batters", a.ZeroPABatters),
	)
}
