// Package loader reads the six source tables of the context-neutral batting
// pipeline from CSV and validates their schemas once, at load time. A missing
// file or required column is fatal and surfaces a *talent.MissingInputError
// naming the specific identifier; unparseable individual rows are skipped
// with a warning, matching the tolerance of the upstream feeds.
package loader

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"truetalent/internal/talent"
)

// Source table identifiers, used in missing-input errors and logs.
const (
	TablePitchEvents       = "pitch_events"
	TableBattingStats      = "batting_stats"
	TablePitchingStats     = "pitching_stats"
	TableParkFactors       = "park_factors"
	TableWOBAConstants     = "woba_constants"
	TableProtectionSummary = "protection_summary"
)

// Paths locates the source tables on disk. PitchEvents is a glob because the
// pitch-by-pitch feed is downloaded in part files too large for one CSV.
type Paths struct {
	PitchEvents       string
	BattingStats      string
	PitchingStats     string
	ParkFactors       string
	WOBAConstants     string
	ProtectionSummary string
}

// LoadInputs reads all six tables, concurrently, and returns them ready for
// the dataset builder. Loading is the pipeline's only blocking I/O: the first
// fatal schema problem cancels the remaining loads and no partial input set
// is ever returned.
func LoadInputs(ctx context.Context, paths Paths, season int, logger *slog.Logger) (*talent.Inputs, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var in talent.Inputs
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		pitches, err := LoadPitchEvents(gctx, paths.PitchEvents, logger)
		if err != nil {
			return err
		}
		in.Pitches = pitches
		return nil
	})
	g.Go(func() error {
		batters, err := LoadBattingStats(paths.BattingStats, logger)
		if err != nil {
			return err
		}
		in.Batters = batters
		return nil
	})
	g.Go(func() error {
		pitchers, err := LoadPitchingStats(paths.PitchingStats, logger)
		if err != nil {
			return err
		}
		in.Pitchers = pitchers
		return nil
	})
	g.Go(func() error {
		factors, err := LoadParkFactors(paths.ParkFactors, logger)
		if err != nil {
			return err
		}
		in.ParkFactors = factors
		return nil
	})
	g.Go(func() error {
		constants, err := LoadWOBAConstants(paths.WOBAConstants, season)
		if err != nil {
			return err
		}
		in.Constants = constants
		return nil
	})
	g.Go(func() error {
		protection, err := LoadProtectionSummary(paths.ProtectionSummary, logger)
		if err != nil {
			return err
		}
		in.Protection = protection
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "loaded all source tables",
		slog.Int("pitches", len(in.Pitches)),
		slog.Int("batters", len(in.Batters)),
		slog.Int("pitchers", len(in.Pitchers)),
		slog.Int("park_factors", len(in.ParkFactors)),
		slog.Int("protection_rows", len(in.Protection)),
		slog.Int("season", in.Constants.Season),
	)
	return &in, nil
}

// LoadPitchEvents reads the pitch-by-pitch feed from every file matching the
// glob, in lexical order, concatenating the parts into one table.
func LoadPitchEvents(ctx context.Context, glob string, logger *slog.Logger) ([]talent.PitchEvent, error) {
	files, err := filepath.Glob(glob)
	if err != nil {
		return nil, talent.NewMissingTable(TablePitchEvents, fmt.Errorf("bad glob %q: %w", glob, err))
	}
	if len(files) == 0 {
		return nil, talent.NewMissingTable(TablePitchEvents, fmt.Errorf("no files match %q", glob))
	}

	var pitches []talent.PitchEvent
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("load pitch events cancelled: %w", err)
		}

		tbl, err := readTable(file, TablePitchEvents)
		if err != nil {
			return nil, err
		}
		if err := tbl.require("batter", "pitcher", "game_pk", "plate_x", "plate_z", "sz_top", "sz_bot"); err != nil {
			return nil, err
		}

		for i, row := range tbl.rows {
			batter, err1 := parseInt(tbl.get(row, "batter"))
			pitcher, err2 := parseInt(tbl.get(row, "pitcher"))
			gamePK, err3 := parseInt(tbl.get(row, "game_pk"))
			if err1 != nil || err2 != nil || err3 != nil {
				logger.Warn("skipping pitch event with bad identifiers",
					slog.String("file", filepath.Base(file)),
					slog.Int("line", i+2),
				)
				continue
			}

			plateX, hasX := parseNullableFloat(tbl.get(row, "plate_x"))
			plateZ, hasZ := parseNullableFloat(tbl.get(row, "plate_z"))
			szTop, _ := parseNullableFloat(tbl.get(row, "sz_top"))
			szBot, _ := parseNullableFloat(tbl.get(row, "sz_bot"))

			pitches = append(pitches, talent.PitchEvent{
				Batter:      batter,
				Pitcher:     pitcher,
				GamePK:      gamePK,
				PlateX:      plateX,
				PlateZ:      plateZ,
				HasLocation: hasX && hasZ,
				SzTop:       szTop,
				SzBot:       szBot,
			})
		}
	}
	return pitches, nil
}

// LoadBattingStats reads the batter season table. wRC+ is optional in the
// source and stays undefined when the column is absent.
func LoadBattingStats(path string, logger *slog.Logger) ([]talent.BatterSeason, error) {
	tbl, err := readTable(path, TableBattingStats)
	if err != nil {
		return nil, err
	}
	if err := tbl.require("MLBAMID", "Name", "Team", "PA", "wOBA"); err != nil {
		return nil, err
	}
	hasWRCPlus := tbl.has("wRC+")

	batters := make([]talent.BatterSeason, 0, len(tbl.rows))
	for i, row := range tbl.rows {
		id, err1 := parseInt(tbl.get(row, "MLBAMID"))
		pa, err2 := parseInt(tbl.get(row, "PA"))
		woba, err3 := parseFloat(tbl.get(row, "wOBA"))
		if err1 != nil || err2 != nil || err3 != nil {
			logger.Warn("skipping batter row with bad values",
				slog.String("file", filepath.Base(path)),
				slog.Int("line", i+2),
			)
			continue
		}

		wrcPlus := talent.NullFloat()
		if hasWRCPlus {
			if v, ok := parseNullableFloat(tbl.get(row, "wRC+")); ok {
				wrcPlus = talent.Float(v)
			}
		}

		batters = append(batters, talent.BatterSeason{
			PlayerID: id,
			Name:     tbl.get(row, "Name"),
			Team:     tbl.get(row, "Team"),
			PA:       pa,
			WOBA:     woba,
			WRCPlus:  wrcPlus,
		})
	}
	return batters, nil
}

// LoadPitchingStats reads the pitcher season table.
func LoadPitchingStats(path string, logger *slog.Logger) ([]talent.PitcherSeason, error) {
	tbl, err := readTable(path, TablePitchingStats)
	if err != nil {
		return nil, err
	}
	if err := tbl.require("MLBAMID", "FIP", "xFIP", "ERA"); err != nil {
		return nil, err
	}

	pitchers := make([]talent.PitcherSeason, 0, len(tbl.rows))
	for i, row := range tbl.rows {
		id, err1 := parseInt(tbl.get(row, "MLBAMID"))
		fip, err2 := parseFloat(tbl.get(row, "FIP"))
		if err1 != nil || err2 != nil {
			logger.Warn("skipping pitcher row with bad values",
				slog.String("file", filepath.Base(path)),
				slog.Int("line", i+2),
			)
			continue
		}

		xfip, _ := parseNullableFloat(tbl.get(row, "xFIP"))
		era, _ := parseNullableFloat(tbl.get(row, "ERA"))
		pitchers = append(pitchers, talent.PitcherSeason{
			PlayerID: id,
			FIP:      fip,
			XFIP:     xfip,
			ERA:      era,
		})
	}
	return pitchers, nil
}

// parkFactorColumns are the accepted spellings of the 5-year factor column.
var parkFactorColumns = []string{"Basic (5yr)", "Basic(5yr)", "park_factor"}

// LoadParkFactors reads the park factor table, keyed by full team name.
func LoadParkFactors(path string, logger *slog.Logger) ([]talent.ParkFactor, error) {
	tbl, err := readTable(path, TableParkFactors)
	if err != nil {
		return nil, err
	}
	if err := tbl.require("Team"); err != nil {
		return nil, err
	}

	factorCol := ""
	for _, col := range parkFactorColumns {
		if tbl.has(col) {
			factorCol = col
			break
		}
	}
	if factorCol == "" {
		return nil, talent.NewMissingColumn(TableParkFactors, parkFactorColumns[0])
	}

	factors := make([]talent.ParkFactor, 0, len(tbl.rows))
	for i, row := range tbl.rows {
		factor, err := parseFloat(tbl.get(row, factorCol))
		if err != nil {
			logger.Warn("skipping park factor row with bad value",
				slog.String("file", filepath.Base(path)),
				slog.Int("line", i+2),
			)
			continue
		}
		factors = append(factors, talent.ParkFactor{
			Team:   tbl.get(row, "Team"),
			Factor: factor,
		})
	}
	return factors, nil
}

// LoadWOBAConstants reads the linear-weights table and selects the requested
// season's row. A table without that season is a missing input.
func LoadWOBAConstants(path string, season int) (talent.WOBAConstants, error) {
	var zero talent.WOBAConstants

	tbl, err := readTable(path, TableWOBAConstants)
	if err != nil {
		return zero, err
	}
	if err := tbl.require("Season", "wBB", "wHBP", "w1B", "w2B", "w3B", "wHR", "wOBAScale", "wOBA", "R/PA", "R/W"); err != nil {
		return zero, err
	}

	for _, row := range tbl.rows {
		rowSeason, err := parseInt(tbl.get(row, "Season"))
		if err != nil || rowSeason != season {
			continue
		}

		var c talent.WOBAConstants
		c.Season = rowSeason
		fields := []struct {
			col string
			dst *float64
		}{
			{"wBB", &c.WBB}, {"wHBP", &c.WHBP}, {"w1B", &c.W1B},
			{"w2B", &c.W2B}, {"w3B", &c.W3B}, {"wHR", &c.WHR},
			{"wOBAScale", &c.Scale}, {"wOBA", &c.LeagueWOBA},
			{"R/PA", &c.RunsPerPA}, {"R/W", &c.RunsPerWin},
		}
		for _, f := range fields {
			v, err := parseFloat(tbl.get(row, f.col))
			if err != nil {
				return zero, fmt.Errorf("%s: parse %s for season %d: %w", TableWOBAConstants, f.col, season, err)
			}
			*f.dst = v
		}
		return c, nil
	}

	return zero, talent.NewMissingColumn(TableWOBAConstants, fmt.Sprintf("row for season %d", season))
}

// LoadProtectionSummary reads the external collaborator's protection table.
func LoadProtectionSummary(path string, logger *slog.Logger) ([]talent.ProtectionSummary, error) {
	tbl, err := readTable(path, TableProtectionSummary)
	if err != nil {
		return nil, err
	}
	if err := tbl.require("batter_id", "avg_protection_score", "games", "total_pa", "avg_batting_order"); err != nil {
		return nil, err
	}

	summaries := make([]talent.ProtectionSummary, 0, len(tbl.rows))
	for i, row := range tbl.rows {
		id, err1 := parseInt(tbl.get(row, "batter_id"))
		score, err2 := parseFloat(tbl.get(row, "avg_protection_score"))
		if err1 != nil || err2 != nil {
			logger.Warn("skipping protection row with bad values",
				slog.String("file", filepath.Base(path)),
				slog.Int("line", i+2),
			)
			continue
		}

		games, _ := parseInt(tbl.get(row, "games"))
		totalPA, _ := parseInt(tbl.get(row, "total_pa"))
		order, _ := parseNullableFloat(tbl.get(row, "avg_batting_order"))
		summaries = append(summaries, talent.ProtectionSummary{
			BatterID:           id,
			AvgProtectionScore: score,
			Games:              games,
			TotalPA:            totalPA,
			AvgBattingOrder:    order,
		})
	}
	return summaries, nil
}
