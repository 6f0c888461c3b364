package catalog

import (
	"github.com/rs/zerolog/log"

	"comhere/internal"
)

// Index is a canonical-key lookup table over one reference source.
type Index struct {
	records map[string]internal.ReferenceRecord
}

// BuildIndex maps records by canonical key. Distinct reference names can
// collapse onto one key; the collision is logged and the later record wins.
func BuildIndex(records []internal.ReferenceRecord) *Index {
	idx := &Index{records: make(map[string]internal.ReferenceRecord, len(records))}
	for _, rec := range records {
		if rec.Key == "" {
			continue
		}
		if prev, ok := idx.records[rec.Key]; ok && prev.Name != rec.Name {
			log.Warn().
				Str("key", rec.Key).
				Str("kept", rec.Name).
				Str("replaced", prev.Name).
				Msg("duplicate canonical key in catalog")
		}
		idx.records[rec.Key] = rec
	}
	return idx
}

func (idx *Index) Lookup(key string) (internal.ReferenceRecord, bool) {
	rec, ok := idx.records[key]
	return rec, ok
}

func (idx *Index) Len() int {
	return len(idx.records)
}
