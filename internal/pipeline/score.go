package pipeline

import (
	"math"

	"comhere/internal"
	"comhere/internal/domain"
)

// ScoreRows computes both score variants and all four rank columns for the
// tiered data rows. Rows without a tier are excluded up front (the line
// filter runs before scoring). Scores for rows with insufficient data
// coverage are NaN and rank at the sentinel.
func ScoreRows(rows []TierAssignment, d domain.Domain) []internal.ScoredRow {
	scored := make([]internal.ScoredRow, 0, len(rows))
	for _, ta := range rows {
		if ta.Tier == "" {
			continue
		}
		row := ta.Row
		features := make(map[string]float64, len(row.Features)+1)
		for k, v := range row.Features {
			features[k] = v
		}
		row.Features = features

		scored = append(scored, internal.ScoredRow{
			RawRow: row,
			Key:    d.CanonicalKey(row.Label),
			Tier:   ta.Tier,
		})
	}

	deriveSelectedGame(scored, d)
	normalizeFeatures(scored, d.NormFeatures())

	for i := range scored {
		r := &scored[i]
		switch d.Mode {
		case domain.ScoringStrict:
			r.CompositeScore, r.CompositeWeightSum = strictScore(r.Normalized, d.CompositeWeights)
			r.PureScore, r.PureWeightSum = strictScore(r.Normalized, d.PureWeights)
		default:
			r.CompositeScore, r.CompositeWeightSum = tolerantScore(r.Normalized, d.CompositeWeights, d.MinWeightSum)
			r.PureScore, r.PureWeightSum = tolerantScore(r.Normalized, d.PureWeights, d.MinWeightSum)
		}
	}

	assignRanks(scored)
	return scored
}

// deriveSelectedGame copies the tier-appropriate game-performance column into
// the selected_game feature so one weight term covers all tiers.
func deriveSelectedGame(rows []internal.ScoredRow, d domain.Domain) {
	if d.GameColumnByTier == nil {
		return
	}
	for i := range rows {
		column, ok := d.GameColumnByTier[rows[i].Tier]
		if !ok {
			continue
		}
		if value, ok := rows[i].Features[column]; ok {
			rows[i].Features[domain.SelectedGameFeature] = value
		}
	}
}

// normalizeFeatures min-max scales each feature across the batch. Missing
// values stay missing so the effective-weight mechanism can exclude them; a
// constant column scales to zero.
func normalizeFeatures(rows []internal.ScoredRow, features []string) {
	for i := range rows {
		rows[i].Normalized = make(map[string]float64, len(features))
	}
	for _, feature := range features {
		lo, hi := math.Inf(1), math.Inf(-1)
		present := false
		for i := range rows {
			v, ok := rows[i].Features[feature]
			if !ok {
				continue
			}
			present = true
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
		if !present {
			continue
		}
		span := hi - lo
		for i := range rows {
			v, ok := rows[i].Features[feature]
			if !ok {
				continue
			}
			if span == 0 {
				rows[i].Normalized[feature] = 0
				continue
			}
			rows[i].Normalized[feature] = (v - lo) / span
		}
	}
}

// tolerantScore weights only the features present on the row. The sum of
// absolute valid weights gates the score: below minWeightSum the row has too
// little coverage to rank. A partial weight sum under 1.0 is renormalized
// upward so missing low-weight fields don't depress the score; a sum at or
// above 1.0 is left alone.
func tolerantScore(normalized map[string]float64, terms []domain.WeightTerm, minWeightSum float64) (float64, float64) {
	weightSum := 0.0
	for _, t := range terms {
		if _, ok := normalized[t.Feature]; ok {
			weightSum += math.Abs(t.Weight)
		}
	}
	if weightSum < minWeightSum {
		return math.NaN(), weightSum
	}

	scale := 1.0
	if weightSum < 1.0 {
		scale = 1 / weightSum
	}

	score := 0.0
	for _, t := range terms {
		x, ok := normalized[t.Feature]
		if !ok {
			continue
		}
		if t.Invert {
			x = 1 - x
		}
		score += x * t.Weight * scale
	}
	return score, weightSum
}

// strictScore applies fixed weights with no partial-coverage tolerance: any
// missing input leaves the score undefined. The weight sum still covers every
// present feature regardless of term order.
func strictScore(normalized map[string]float64, terms []domain.WeightTerm) (float64, float64) {
	weightSum := 0.0
	score := 0.0
	complete := true
	for _, t := range terms {
		x, ok := normalized[t.Feature]
		if !ok {
			complete = false
			continue
		}
		weightSum += math.Abs(t.Weight)
		if t.Invert {
			x = 1 - x
		}
		score += x * t.Weight
	}
	if !complete {
		return math.NaN(), weightSum
	}
	return score, weightSum
}

func assignRanks(rows []internal.ScoredRow) {
	composite := make([]float64, len(rows))
	pure := make([]float64, len(rows))
	for i := range rows {
		composite[i] = rows[i].CompositeScore
		pure[i] = rows[i].PureScore
	}

	for i, r := range minRanks(composite) {
		rows[i].CompositeRank = r
	}
	for i, r := range minRanks(pure) {
		rows[i].PureRank = r
	}

	byTier := map[string][]int{}
	for i := range rows {
		byTier[rows[i].Tier] = append(byTier[rows[i].Tier], i)
	}
	for _, members := range byTier {
		tierComposite := make([]float64, len(members))
		tierPure := make([]float64, len(members))
		for j, i := range members {
			tierComposite[j] = rows[i].CompositeScore
			tierPure[j] = rows[i].PureScore
		}
		for j, r := range minRanks(tierComposite) {
			rows[members[j]].TierCompositeRank = r
		}
		for j, r := range minRanks(tierPure) {
			rows[members[j]].TierPureRank = r
		}
	}
}

// minRanks ranks descending with ties sharing the lowest position in the tie
// group: scores 0.9, 0.9, 0.7, 0.5 rank 1, 1, 3, 4. NaN scores take the
// sentinel rank.
func minRanks(scores []float64) []int {
	ranks := make([]int, len(scores))
	for i, s := range scores {
		if math.IsNaN(s) {
			ranks[i] = internal.SentinelRank
			continue
		}
		rank := 1
		for j, other := range scores {
			if j == i || math.IsNaN(other) {
				continue
			}
			if other > s {
				rank++
			}
		}
		ranks[i] = rank
	}
	return ranks
}
