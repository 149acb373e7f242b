// Package exporter writes a built dataset to disk as CSV, JSON, XLSX, or a
// human-readable summary report. Undefined values export as empty cells in
// CSV and XLSX and as null in JSON.
package exporter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"truetalent/internal/talent"
)

// Writer exports datasets under a base directory.
type Writer struct {
	dir    string
	logger *slog.Logger
}

// NewWriter creates a writer rooted at dir. The directory is created on the
// first export.
func NewWriter(dir string, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{dir: dir, logger: logger}
}

// columns is the export column order, shared by CSV and XLSX.
var columns = []string{
	"player_id", "name", "team", "pa",
	"woba", "wrc_plus",
	"avg_protection_score", "park_factor", "avg_pitcher_fip_minus", "heart_pct", "zone_pct", "chase_pct",
	"protection_adj", "park_adj", "pitcher_adj", "pitch_quality_adj", "total_context_adj",
	"woba_true_talent", "wraa_true_talent", "wrc_plus_true_talent",
}

func recordCells(b talent.BatterRecord) []string {
	return []string{
		formatInt(b.PlayerID),
		b.Name,
		b.Team,
		formatInt(b.PA),
		formatFloat(b.WOBA, 3),
		formatNullable(b.WRCPlus, 1),
		formatNullable(b.AvgProtectionScore, 3),
		formatFloat(b.ParkFactor, 1),
		formatNullable(b.AvgPitcherFIPMinus, 1),
		formatNullable(b.HeartPct, 4),
		formatNullable(b.ZonePct, 4),
		formatNullable(b.ChasePct, 4),
		formatFloat(b.ProtectionAdj, 4),
		formatFloat(b.ParkAdj, 4),
		formatFloat(b.PitcherAdj, 4),
		formatFloat(b.PitchQualityAdj, 4),
		formatFloat(b.TotalContextAdj, 4),
		formatFloat(b.WOBATrueTalent, 3),
		formatNullable(b.WRAATrueTalent, 1),
		formatNullable(b.WRCPlusTrueTalent, 1),
	}
}

// SaveCSV writes the per-batter table with a UTF-8 BOM so Excel opens it
// cleanly.
func (w *Writer) SaveCSV(ds *talent.Dataset, filename string) (string, error) {
	path, err := w.prepare(filename)
	if err != nil {
		return "", err
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()

	if _, err := f.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return "", fmt.Errorf("write BOM: %w", err)
	}

	cw := csv.NewWriter(f)
	if err := cw.Write(columns); err != nil {
		return "", fmt.Errorf("write csv header: %w", err)
	}
	for _, b := range ds.Batters {
		if err := cw.Write(recordCells(b)); err != nil {
			return "", fmt.Errorf("write csv row for batter %d: %w", b.PlayerID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}

	w.logger.Info("wrote csv report",
		slog.String("path", path),
		slog.Int("batters", len(ds.Batters)))
	return path, nil
}

// SaveJSON writes the full dataset, including run metadata, league
// references, and the audit block.
func (w *Writer) SaveJSON(ds *talent.Dataset, filename string) (string, error) {
	path, err := w.prepare(filename)
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal dataset: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write json: %w", err)
	}

	w.logger.Info("wrote json report",
		slog.String("path", path),
		slog.Int("batters", len(ds.Batters)))
	return path, nil
}

// SaveXLSX writes a workbook with the batter table and a references sheet.
func (w *Writer) SaveXLSX(ds *talent.Dataset, filename string) (string, error) {
	path, err := w.prepare(filename)
	if err != nil {
		return "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Batters"
	f.SetSheetName("Sheet1", sheet)

	for col, header := range columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return "", fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return "", fmt.Errorf("write header %s: %w", header, err)
		}
	}
	for rowIdx, b := range ds.Batters {
		for col, cellValue := range recordCells(b) {
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err != nil {
				return "", fmt.Errorf("data cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, cellValue); err != nil {
				return "", fmt.Errorf("write row for batter %d: %w", b.PlayerID, err)
			}
		}
	}

	const refSheet = "References"
	if _, err := f.NewSheet(refSheet); err != nil {
		return "", fmt.Errorf("create references sheet: %w", err)
	}
	refs := [][]any{
		{"run_id", ds.RunID.String()},
		{"season", ds.Season},
		{"generated_at", ds.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"league_woba", ds.References.WOBA},
		{"league_protection_score", ds.References.ProtectionScore},
		{"league_heart_pct", ds.References.HeartPct},
		{"league_fip_minus", ds.References.FIPMinus},
	}
	for i, pair := range refs {
		if err := f.SetSheetRow(refSheet, fmt.Sprintf("A%d", i+1), &pair); err != nil {
			return "", fmt.Errorf("write references row: %w", err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save xlsx: %w", err)
	}

	w.logger.Info("wrote xlsx report",
		slog.String("path", path),
		slog.Int("batters", len(ds.Batters)))
	return path, nil
}

// SaveSummary writes a text report: the true-talent leaders plus the batters
// whose observed production was most inflated and most suppressed by
// context.
func (w *Writer) SaveSummary(ds *talent.Dataset, filename string) (string, error) {
	path, err := w.prepare(filename)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Context-Neutral Batting Report, %d season\n", ds.Season)
	fmt.Fprintf(&sb, "Run %s, generated %s\n", ds.RunID, ds.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&sb, "Batters: %d   League wOBA: %.3f\n\n", len(ds.Batters), ds.References.WOBA)

	writeSection := func(title string, batters []talent.BatterRecord, value func(talent.BatterRecord) string) {
		fmt.Fprintf(&sb, "%s\n", title)
		fmt.Fprintf(&sb, "%s\n", strings.Repeat("-", len(title)))
		for i, b := range batters {
			fmt.Fprintf(&sb, "%2d. %-24s %-4s %s\n", i+1, b.Name, b.Team, value(b))
		}
		sb.WriteString("\n")
	}

	writeSection("Top 10 by true-talent wOBA", topBy(ds.Batters, 10, func(a, b talent.BatterRecord) bool {
		return a.WOBATrueTalent > b.WOBATrueTalent
	}), func(b talent.BatterRecord) string {
		return fmt.Sprintf("%.3f (observed %.3f)", b.WOBATrueTalent, b.WOBA)
	})

	writeSection("Most inflated by context", topBy(ds.Batters, 10, func(a, b talent.BatterRecord) bool {
		return a.TotalContextAdj > b.TotalContextAdj
	}), func(b talent.BatterRecord) string {
		return fmt.Sprintf("+%.4f context, wOBA %.3f -> %.3f", b.TotalContextAdj, b.WOBA, b.WOBATrueTalent)
	})

	writeSection("Most suppressed by context", topBy(ds.Batters, 10, func(a, b talent.BatterRecord) bool {
		return a.TotalContextAdj < b.TotalContextAdj
	}), func(b talent.BatterRecord) string {
		return fmt.Sprintf("%.4f context, wOBA %.3f -> %.3f", b.TotalContextAdj, b.WOBA, b.WOBATrueTalent)
	})

	fmt.Fprintf(&sb, "Audit: unresolved_teams=%d no_protection=%d no_pitch_data=%d no_opponents=%d zero_pa=%d\n",
		ds.Audit.UnresolvedTeams, ds.Audit.BattersWithoutProtection,
		ds.Audit.BattersWithoutPitchData, ds.Audit.BattersWithoutOpponents,
		ds.Audit.ZeroPABatters)

	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return "", fmt.Errorf("write summary: %w", err)
	}

	w.logger.Info("wrote summary report", slog.String("path", path))
	return path, nil
}

// Save dispatches on format name; formats match config validation.
func (w *Writer) Save(ds *talent.Dataset, format string) (string, error) {
	base := fmt.Sprintf("true_talent_%d", ds.Season)
	switch format {
	case "csv":
		return w.SaveCSV(ds, base+".csv")
	case "json":
		return w.SaveJSON(ds, base+".json")
	case "xlsx":
		return w.SaveXLSX(ds, base+".xlsx")
	case "summary":
		return w.SaveSummary(ds, base+"_summary.txt")
	default:
		return "", fmt.Errorf("unknown export format %q", format)
	}
}

func (w *Writer) prepare(filename string) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	return filepath.Join(w.dir, filename), nil
}

// topBy returns up to n records sorted by less, ties broken by player ID so
// output is stable across runs.
func topBy(batters []talent.BatterRecord, n int, less func(a, b talent.BatterRecord) bool) []talent.BatterRecord {
	sorted := make([]talent.BatterRecord, len(batters))
	copy(sorted, batters)
	sort.SliceStable(sorted, func(i, j int) bool { return less(sorted[i], sorted[j]) })
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
