package pipeline

import (
	"strings"

	"comhere/internal"
	"comhere/internal/domain"
)

// TierAssignment pairs a row with its product tier; Tier is empty for header
// rows and rows outside any tier block.
type TierAssignment struct {
	Row  internal.RawRow
	Tier string
}

// ClassifyTiers assigns each data row its product tier. Sheets announce a tier
// with a header row ("하이엔드 라인") placed below the block it labels, so the
// scan folds over the rows in reverse original order: a header row updates the
// accumulator and receives no tier itself; a row carrying the domain's tier
// data feature inherits the accumulator; anything else stays untiered.
func ClassifyTiers(rows []internal.RawRow, d domain.Domain) []TierAssignment {
	out := make([]TierAssignment, len(rows))
	current := ""
	for i := len(rows) - 1; i >= 0; i-- {
		row := rows[i]
		out[i] = TierAssignment{Row: row}

		if tier, ok := tierHeader(row.Label, d); ok {
			current = tier
			continue
		}
		if _, ok := row.Features[d.TierDataFeature]; ok {
			out[i].Tier = current
		}
	}
	return out
}

// tierHeader recognizes a tier announcement: the label must contain both a
// known tier name and the marker word.
func tierHeader(label string, d domain.Domain) (string, bool) {
	if !strings.Contains(label, d.TierMarker) {
		return "", false
	}
	for _, tier := range d.TierNames {
		if strings.Contains(label, tier) {
			return tier, true
		}
	}
	return "", false
}
