// Package talent implements the context-neutral batting pipeline.
//
// The pipeline decomposes a batter's observed wOBA into four independently
// modeled contextual biases and removes them to estimate underlying talent:
//
//  1. Lineup protection: quality of the hitters surrounding the batter.
//  2. Ballpark: the home park's inflation or suppression of offense.
//  3. Opposing-pitcher quality: average FIP-minus of pitchers faced.
//  4. Pitch-location favorability: the share of hittable ("heart") pitches seen.
//
// # Architecture
//
// The package is a sequence of pure transformations over typed records:
//
//   - types.go: entity records for the six source tables and the output row
//   - zone.go: per-pitch geometric zone classification and per-batter profiles
//   - pitcherquality.go: FIP-minus of opposing pitchers, aggregated per batter
//   - park.go: team resolution and park-factor adjustment
//   - protection.go: attachment of externally computed protection scores
//   - references.go: league reference values computed once per run
//   - estimator.go: adjustment terms, shrinkage regression, wRC+ derivation
//   - builder.go: orchestration, left-join anchoring, audit accounting
//   - errors.go: the missing-input error taxonomy
//
// # Usage
//
//	builder := talent.NewBuilder(talent.DefaultCoefficients(), slog.Default())
//	dataset, err := builder.Build(ctx, inputs)
//	if err != nil {
//	    var miss *talent.MissingInputError
//	    if errors.As(err, &miss) {
//	        // a required table or column is absent; no partial output exists
//	    }
//	    return err
//	}
//
// Batters never drop out of the output: every join is anchored on the batter
// season table, and unresolved keys fall back to documented neutral defaults
// (park factor 100, FIP-minus 100, league-mean protection and heart rates).
// Every defaulted row is counted in the dataset's Audit so callers can see
// how much of the output leans on fallbacks. Degenerate arithmetic (zero PA,
// zero pitches) yields NaN-backed nullable values, never a fault.
package talent
