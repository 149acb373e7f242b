package talent

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Builder orchestrates one pipeline run. It exclusively owns every
// intermediate table between Build's entry and exit: stages receive the
// batter records and attach their columns, and the column written by the
// most specific stage always wins.
type Builder struct {
	coeffs Coefficients
	logger *slog.Logger
}

// NewBuilder creates a dataset builder with the given adjustment constants.
func NewBuilder(coeffs Coefficients, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{coeffs: coeffs, logger: logger}
}

// Build runs the full pipeline: pitch-zone profiles, opposing-pitcher
// quality, park adjustment, protection attachment, then the true-talent
// estimation, producing one record per batter season. Joins are anchored on
// the batter population so no batter is silently dropped; unresolved keys
// fall back to neutral defaults and are tallied in the dataset's Audit.
func (b *Builder) Build(ctx context.Context, in Inputs) (*Dataset, error) {
	start := time.Now()
	runID := uuid.New()

	if err := b.validateInputs(in); err != nil {
		b.logger.ErrorContext(ctx, "input validation failed",
			slog.String("run_id", runID.String()),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	b.logger.InfoContext(ctx, "building context-neutral dataset",
		slog.String("run_id", runID.String()),
		slog.Int("season", in.Constants.Season),
		slog.Int("pitches", len(in.Pitches)),
		slog.Int("batters", len(in.Batters)),
		slog.Int("pitchers", len(in.Pitchers)),
	)

	var audit Audit

	records := b.seedRecords(in.Batters)
	attachProtection(records, IndexProtection(in.Protection), &audit)
	b.applyParkFactors(records, NewParkIndex(in.ParkFactors), &audit)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("build cancelled: %w", err)
	}

	b.attachPitchProfiles(records, AggregatePitchProfiles(in.Pitches), &audit)
	b.attachOpponentQuality(records, AggregateOpponentQuality(in.Pitches, in.Pitchers, &audit), &audit)

	refs := ComputeLeagueReferences(records)
	b.logger.InfoContext(ctx, "computed league references",
		slog.String("run_id", runID.String()),
		slog.Float64("league_woba", refs.WOBA),
		slog.Float64("league_protection", refs.ProtectionScore),
		slog.Float64("league_heart_pct", refs.HeartPct),
	)

	NewEstimator(b.coeffs, in.Constants, refs).Apply(records, &audit)

	sort.Slice(records, func(i, j int) bool {
		return records[i].PlayerID < records[j].PlayerID
	})

	b.logger.InfoContext(ctx, "dataset build completed",
		slog.String("run_id", runID.String()),
		slog.Int("batters", len(records)),
		slog.Duration("duration", time.Since(start)),
		slog.Any("audit", audit),
	)

	return &Dataset{
		RunID:       runID,
		GeneratedAt: time.Now().UTC(),
		Season:      in.Constants.Season,
		Batters:     records,
		References:  refs,
		Audit:       audit,
	}, nil
}

// validateInputs rejects a partial schema before any aggregation executes.
// Unresolved keys inside a present table are not errors; absent tables are.
func (b *Builder) validateInputs(in Inputs) error {
	if in.Batters == nil {
		return NewMissingTable("batting_stats", nil)
	}
	if in.Pitches == nil {
		return NewMissingTable("pitch_events", nil)
	}
	if in.Pitchers == nil {
		return NewMissingTable("pitching_stats", nil)
	}
	if in.ParkFactors == nil {
		return NewMissingTable("park_factors", nil)
	}
	if in.Protection == nil {
		return NewMissingTable("protection_summary", nil)
	}
	if !in.Constants.IsValid() {
		return NewMissingColumn("woba_constants", fmt.Sprintf("usable row for season %d", in.Constants.Season))
	}
	if !b.coeffs.IsValid() {
		return fmt.Errorf("invalid adjustment coefficients: %+v", b.coeffs)
	}
	return nil
}

// seedRecords creates one output record per batter season with every
// nullable signal undefined until its stage attaches it.
func (b *Builder) seedRecords(batters []BatterSeason) []BatterRecord {
	records := make([]BatterRecord, len(batters))
	for i, bs := range batters {
		records[i] = BatterRecord{
			PlayerID: bs.PlayerID,
			Name:     bs.Name,
			Team:     bs.Team,
			PA:       bs.PA,
			WOBA:     bs.WOBA,
			WRCPlus:  bs.WRCPlus,

			HeartPct:           NullFloat(),
			ZonePct:            NullFloat(),
			ChasePct:           NullFloat(),
			WastePct:           NullFloat(),
			AvgPitcherFIPMinus: NullFloat(),
			AvgPitcherFIP:      NullFloat(),
			AvgProtectionScore: NullFloat(),
			AvgBattingOrder:    NullFloat(),
			WRAATrueTalent:     NullFloat(),
			WRCPlusTrueTalent:  NullFloat(),

			ParkFactor: NeutralParkFactor,
		}
	}
	return records
}

func (b *Builder) applyParkFactors(records []BatterRecord, idx ParkIndex, audit *Audit) {
	for i := range records {
		factor, resolved := idx.Factor(records[i].Team)
		if !resolved {
			audit.UnresolvedTeams++
		}
		records[i].ParkFactor = factor
		records[i].WOBAParkAdj, records[i].ParkAdj = ParkAdjust(records[i].WOBA, factor)
	}
}

func (b *Builder) attachPitchProfiles(records []BatterRecord, profiles map[int]PitchProfile, audit *Audit) {
	for i := range records {
		p, ok := profiles[records[i].PlayerID]
		if !ok {
			audit.BattersWithoutPitchData++
			continue
		}
		records[i].HeartPct = Float(p.HeartPct)
		records[i].ZonePct = Float(p.ZonePct)
		records[i].ChasePct = Float(p.ChasePct)
		records[i].WastePct = Float(p.WastePct)
		records[i].TotalPitches = p.TotalPitches
	}
}

func (b *Builder) attachOpponentQuality(records []BatterRecord, quality map[int]OpponentQuality, audit *Audit) {
	for i := range records {
		q, ok := quality[records[i].PlayerID]
		if !ok {
			audit.BattersWithoutOpponents++
			continue
		}
		records[i].AvgPitcherFIPMinus = Float(q.AvgFIPMinus)
		records[i].AvgPitcherFIP = Float(q.AvgFIP)
		records[i].UniquePitchersFaced = q.UniquePitchersFaced
	}
}
