package pipeline

import (
	"testing"

	"github.com/xuri/excelize/v2"

	"comhere/internal/domain"
)

func mkSheet(t *testing.T, rows [][]any) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, v := range row {
			if v == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				t.Fatalf("set cell %s: %v", cell, err)
			}
		}
	}
	return f
}

func TestParseSheetGPU(t *testing.T) {
	d := domain.GPU()
	f := mkSheet(t, [][]any{
		{"그래픽카드 성능표"},
		{"모델명", "FHD", "QHD", "UHD"},
		{""},
		// A=label, B..K features, M=price, O=value_fhd.
		{"지포스 RTX 4070 ", 100, 90, 80, 30000, 18000, 5000, 2500, 144, 120, 60, nil, "850,000원", nil, 0.12},
		{"하이엔드 라인"},
		{"라데온 RX 7600", "59.5"},
	})

	table, err := parseSheet(f, d)
	if err != nil {
		t.Fatalf("parseSheet: %v", err)
	}
	if len(table.Rows) != 3 {
		t.Fatalf("rows=%d, want header rows skipped", len(table.Rows))
	}

	row := table.Rows[0]
	if row.Label != "지포스 RTX 4070" {
		t.Fatalf("label=%q, want trimmed", row.Label)
	}
	if row.Features["perf_fhd"] != 100 || row.Features["perf_uhd"] != 80 {
		t.Fatalf("features=%v", row.Features)
	}
	if row.Features["price"] != 850000 {
		t.Fatalf("price=%v, want formatted currency parsed", row.Features["price"])
	}
	if row.Features["value_fhd"] != 0.12 {
		t.Fatalf("value_fhd=%v", row.Features["value_fhd"])
	}

	header := table.Rows[1]
	if header.Label != "하이엔드 라인" || len(header.Features) != 0 {
		t.Fatalf("header row: %+v", header)
	}

	short := table.Rows[2]
	if short.Features["perf_fhd"] != 59.5 {
		t.Fatalf("short row features=%v", short.Features)
	}
	if _, ok := short.Features["perf_qhd"]; ok {
		t.Fatal("absent cell must not produce a feature")
	}
}

func TestParseSheetCPU(t *testing.T) {
	d := domain.CPU()
	f := mkSheet(t, [][]any{
		{"CPU 성능표"},
		{""},
		{""},
		{"모델명"},
		// A=label, B..E game columns, F/G cinebench, I=price, N=value.
		{"라이젠 5 7600", 0.8, 0.7, 0.65, 0.6, 2000, 24000, nil, 300, nil, nil, nil, nil, 100},
	})

	table, err := parseSheet(f, d)
	if err != nil {
		t.Fatalf("parseSheet: %v", err)
	}
	if len(table.Rows) != 1 {
		t.Fatalf("rows=%d", len(table.Rows))
	}

	row := table.Rows[0]
	if row.Features["game_4090"] != 0.8 || row.Features["game_3050"] != 0.6 {
		t.Fatalf("game features=%v", row.Features)
	}
	if row.Features["cine_multi"] != 24000 || row.Features["price"] != 300 || row.Features["value"] != 100 {
		t.Fatalf("features=%v", row.Features)
	}
}
