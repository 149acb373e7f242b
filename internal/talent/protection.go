package talent

// IndexProtection keys the external protection summary by batter ID. When the
// collaborator emits duplicate rows for a batter, the first one wins.
func IndexProtection(summaries []ProtectionSummary) map[int]ProtectionSummary {
	idx := make(map[int]ProtectionSummary, len(summaries))
	for _, s := range summaries {
		if _, exists := idx[s.BatterID]; exists {
			continue
		}
		idx[s.BatterID] = s
	}
	return idx
}

// attachProtection left-joins protection summaries onto the batter records.
// The protection score is an opaque upstream signal: no transformation is
// applied here, and missing batters stay NaN so the estimator can default
// them to the league mean.
func attachProtection(records []BatterRecord, idx map[int]ProtectionSummary, audit *Audit) {
	for i := range records {
		s, ok := idx[records[i].PlayerID]
		if !ok {
			if audit != nil {
				audit.BattersWithoutProtection++
			}
			continue
		}
		records[i].AvgProtectionScore = Float(s.AvgProtectionScore)
		records[i].ProtectionGames = s.Games
		records[i].ProtectionPA = s.TotalPA
		records[i].AvgBattingOrder = Float(s.AvgBattingOrder)
	}
}
