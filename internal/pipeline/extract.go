package pipeline

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"comhere/internal"
	"comhere/internal/domain"
	"comhere/internal/util"
)

// ParseWorkbook reads the first sheet of a vendor workbook into a Table using
// the domain's column layout.
func ParseWorkbook(path string, d domain.Domain) (internal.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return internal.Table{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	return parseSheet(f, d)
}

func parseSheet(f *excelize.File, d domain.Domain) (internal.Table, error) {
	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return internal.Table{}, fmt.Errorf("read sheet %s: %w", sheet, err)
	}

	table := internal.Table{}
	for i, cells := range rows {
		if i < d.HeaderRows {
			continue
		}
		row := internal.RawRow{
			Index:    i,
			Label:    strings.TrimSpace(cellAt(cells, d.LabelColumn)),
			Features: map[string]float64{},
		}
		for _, col := range d.Columns {
			value, ok := util.ParseNumber(cellAt(cells, col.Index))
			if !ok {
				continue
			}
			row.Features[col.Feature] = value
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// cellAt tolerates the ragged rows excelize returns: trailing empty cells are
// not included in the slice.
func cellAt(cells []string, index int) string {
	if index < 0 || index >= len(cells) {
		return ""
	}
	return cells[index]
}
