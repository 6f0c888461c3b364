package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"comhere/internal"
	"comhere/internal/domain"
)

func writeStatic(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write static catalog: %v", err)
	}
	return path
}

func TestLoadStaticCPU(t *testing.T) {
	path := writeStatic(t, "cpu.json", `[
		{"name": "AMD Ryzen 5 7600", "core_count": 6, "smt": true, "core_clock": 3.8, "boost_clock": 5.1, "tdp": 65, "graphics": "Radeon", "price": 229.0},
		{"name": "Intel Core i5-12400", "core_count": 6, "smt": true, "core_clock": 2.5, "boost_clock": 4.4, "tdp": 65, "graphics": "Intel UHD 730", "price": 182.0},
		{"name": "Intel Xeon w5-2455X", "core_count": 12},
		{"name": "   "}
	]`)

	records, err := LoadStatic(path, domain.CPU())
	if err != nil {
		t.Fatalf("LoadStatic: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	rec := records[0]
	if rec.Source != internal.SourceStatic {
		t.Fatalf("source=%q", rec.Source)
	}
	if rec.Key != "AMD Ryzen 5 7600" {
		t.Fatalf("key=%q", rec.Key)
	}
	if rec.Cores == nil || *rec.Cores != 6 {
		t.Fatalf("cores=%v", rec.Cores)
	}
	if rec.Threads == nil || *rec.Threads != 12 {
		t.Fatalf("threads=%v", rec.Threads)
	}
	if rec.BaseClockGHz == nil || *rec.BaseClockGHz != 3.8 {
		t.Fatalf("base clock=%v", rec.BaseClockGHz)
	}
	if rec.PriceUSD == nil || *rec.PriceUSD != 229.0 {
		t.Fatalf("price=%v", rec.PriceUSD)
	}
}

func TestLoadStaticGPU(t *testing.T) {
	path := writeStatic(t, "video-card.json", `[
		{"chipset": "GeForce RTX 4070", "memory": 12, "core_clock": 1920, "boost_clock": 2475, "length": 285},
		{"chipset": "Quadro RTX 4000", "memory": 8},
		{"chipset": "Radeon Pro W6800", "memory": 32}
	]`)

	records, err := LoadStatic(path, domain.GPU())
	if err != nil {
		t.Fatalf("LoadStatic: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1 (workstation chipsets skipped)", len(records))
	}

	rec := records[0]
	if rec.Key != "geforce rtx 4070" {
		t.Fatalf("key=%q", rec.Key)
	}
	if rec.MemoryGB == nil || *rec.MemoryGB != 12 {
		t.Fatalf("memory=%v", rec.MemoryGB)
	}
	if rec.BoostClockMHz == nil || *rec.BoostClockMHz != 2475 {
		t.Fatalf("boost clock=%v", rec.BoostClockMHz)
	}
	if rec.LengthMM == nil || *rec.LengthMM != 285 {
		t.Fatalf("length=%v", rec.LengthMM)
	}
}

func TestLoadStaticMissingFile(t *testing.T) {
	if _, err := LoadStatic(filepath.Join(t.TempDir(), "absent.json"), domain.CPU()); err == nil {
		t.Fatal("expected error for missing file")
	}
}
