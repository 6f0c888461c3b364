package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"comhere/internal"
	"comhere/internal/domain"
)

// LoadStatic reads the curated reference catalog from a JSON file. Entries
// with an empty name or an excluded product family are skipped; the rest are
// normalized into ReferenceRecords carrying the full static attribute set.
func LoadStatic(path string, d domain.Domain) ([]internal.ReferenceRecord, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read static catalog: %w", err)
	}

	var entries []map[string]any
	if err := json.Unmarshal(blob, &entries); err != nil {
		return nil, fmt.Errorf("decode static catalog: %w", err)
	}

	out := make([]internal.ReferenceRecord, 0, len(entries))
	for _, entry := range entries {
		name := strings.TrimSpace(stringOf(entry[d.StaticNameField]))
		if name == "" || d.Excluded(name) {
			continue
		}
		out = append(out, toStaticRecord(name, entry, d))
	}
	return out, nil
}

func toStaticRecord(name string, entry map[string]any, d domain.Domain) internal.ReferenceRecord {
	rec := internal.ReferenceRecord{
		Source: internal.SourceStatic,
		Name:   name,
		Key:    d.Rules.Apply(name),
	}

	if d.SplitVariants {
		rec.MemoryGB = toIntPtr(entry["memory"])
		rec.CoreClockMHz = toIntPtr(entry["core_clock"])
		rec.BoostClockMHz = toIntPtr(entry["boost_clock"])
		rec.LengthMM = toIntPtr(entry["length"])
		return rec
	}

	rec.Cores = toIntPtr(entry["core_count"])
	rec.BaseClockGHz = toFloatPtr(entry["core_clock"])
	rec.BoostClockGHz = toFloatPtr(entry["boost_clock"])
	rec.TDPWatt = toIntPtr(entry["tdp"])
	rec.Graphics = toStringPtr(entry["graphics"])
	rec.PriceUSD = toFloatPtr(entry["price"])

	smt, hasSMT := entry["smt"].(bool)
	if hasSMT {
		rec.SMT = &smt
	}
	if rec.Cores != nil {
		threads := *rec.Cores
		if smt {
			threads *= 2
		}
		rec.Threads = &threads
	}

	return rec
}
