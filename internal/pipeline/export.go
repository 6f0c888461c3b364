package pipeline

import (
	"math"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"comhere/internal"
)

// ExportScoredRows writes the scored table to an xlsx file for operator
// review, sorted as given.
func ExportScoredRows(rows []internal.ScoredRow, outputPath string) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []string{
		"label", "model", "line",
		"total_score", "total_weight_sum", "total_rank",
		"pure_score", "pure_weight_sum", "pure_rank",
		"line_total_rank", "line_pure_rank",
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, row := range rows {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}

		set(1, row.Label)
		set(2, row.Key)
		set(3, row.Tier)
		set(4, scoreCell(row.CompositeScore))
		set(5, row.CompositeWeightSum)
		set(6, row.CompositeRank)
		set(7, scoreCell(row.PureScore))
		set(8, row.PureWeightSum)
		set(9, row.PureRank)
		set(10, row.TierCompositeRank)
		set(11, row.TierPureRank)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

func scoreCell(v float64) any {
	if math.IsNaN(v) {
		return ""
	}
	return v
}
