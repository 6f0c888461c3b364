package pipeline

import (
	"comhere/internal"
	"comhere/internal/catalog"
)

// Matcher resolves variants against the two catalog indexes. The static index
// is tried first because its records are manually vetted for completeness;
// the live index is the fallback.
type Matcher struct {
	static *catalog.Index
	live   *catalog.Index
}

func NewMatcher(static, live *catalog.Index) *Matcher {
	return &Matcher{static: static, live: live}
}

// MatchAll resolves each variant through the fixed candidate-key ladder:
// primary key in the static index, memory-stripped key in the static index,
// then the capacity-split key (or the primary key, when no split variant
// exists) in the live index. The first hit wins. Duplicate original labels
// are collapsed to their first occurrence, matched or not.
func (m *Matcher) MatchAll(variants []internal.Variant) ([]internal.MatchResult, []internal.UnmatchedLabel) {
	matched := []internal.MatchResult{}
	unmatched := []internal.UnmatchedLabel{}
	seen := map[string]struct{}{}

	for _, v := range variants {
		if _, ok := seen[v.Original]; ok {
			continue
		}
		seen[v.Original] = struct{}{}

		if rec, ok := m.static.Lookup(v.PrimaryKey); ok {
			matched = append(matched, internal.MatchResult{
				Label: v.Original, Key: v.PrimaryKey, CanonicalKey: v.CanonicalKey,
				Kind: internal.MatchStaticExact, Record: rec,
			})
			continue
		}

		if v.MemoryStrippedKey != "" && v.MemoryStrippedKey != v.PrimaryKey {
			if rec, ok := m.static.Lookup(v.MemoryStrippedKey); ok {
				matched = append(matched, internal.MatchResult{
					Label: v.Original, Key: v.MemoryStrippedKey, CanonicalKey: v.CanonicalKey,
					Kind: internal.MatchStaticMemoryStripped, Record: rec,
				})
				continue
			}
		}

		liveKey, kind := v.PrimaryKey, internal.MatchLiveExact
		if v.CapacitySplitKey != "" {
			liveKey, kind = v.CapacitySplitKey, internal.MatchLiveCapacitySplit
		}
		if rec, ok := m.live.Lookup(liveKey); ok {
			matched = append(matched, internal.MatchResult{
				Label: v.Original, Key: liveKey, CanonicalKey: v.CanonicalKey,
				Kind: kind, Record: rec,
			})
			continue
		}

		unmatched = append(unmatched, internal.UnmatchedLabel{Label: v.Original, Key: v.PrimaryKey, CanonicalKey: v.CanonicalKey})
	}

	return matched, unmatched
}
