package pipeline

import (
	"strings"

	"comhere/internal"
	"comhere/internal/domain"
	"comhere/internal/normalize"
)

// ExtractVariants turns labeled rows into match candidates. Non-data labels
// (the options sentinel and tier headers) are routed to the excluded list.
// GPU rows carry three candidate keys from progressively lossier
// normalizations; other domains carry only the primary key.
func ExtractVariants(rows []internal.RawRow, d domain.Domain) ([]internal.Variant, []string) {
	variants := make([]internal.Variant, 0, len(rows))
	excluded := []string{}

	for _, row := range rows {
		label := strings.TrimSpace(row.Label)
		if label == "" {
			continue
		}
		if label == d.OptionsLabel || strings.Contains(label, d.TierMarker) {
			excluded = append(excluded, label)
			continue
		}

		v := internal.Variant{
			Original:     label,
			PrimaryKey:   d.Rules.Apply(label),
			CanonicalKey: d.CanonicalKey(label),
		}
		if d.SplitVariants {
			stripped := normalize.StripMemoryType(label)
			modelOnly, _ := normalize.SplitCapacity(stripped)
			v.MemoryStrippedKey = d.Rules.Apply(stripped)
			v.CapacitySplitKey = d.Rules.Apply(modelOnly)
		}
		variants = append(variants, v)
	}

	return variants, excluded
}
