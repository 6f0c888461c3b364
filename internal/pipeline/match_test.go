package pipeline

import (
	"testing"

	"comhere/internal"
	"comhere/internal/catalog"
)

func staticRec(name, key string) internal.ReferenceRecord {
	return internal.ReferenceRecord{Source: internal.SourceStatic, Name: name, Key: key}
}

func liveRec(name, key string) internal.ReferenceRecord {
	return internal.ReferenceRecord{Source: internal.SourceLive, Name: name, Key: key}
}

func TestMatchAllLadder(t *testing.T) {
	static := catalog.BuildIndex([]internal.ReferenceRecord{
		staticRec("GeForce RTX 4090", "geforce rtx 4090"),
		staticRec("GeForce RTX 4070", "geforce rtx 4070"),
	})
	live := catalog.BuildIndex([]internal.ReferenceRecord{
		liveRec("GeForce RTX 4090", "geforce rtx 4090"),
		liveRec("Radeon RX 7600", "radeon rx 7600"),
	})
	m := NewMatcher(static, live)

	variants := []internal.Variant{
		// In both indexes; the static source must win.
		{Original: "지포스 RTX 4090", PrimaryKey: "geforce rtx 4090", MemoryStrippedKey: "geforce rtx 4090", CapacitySplitKey: "geforce rtx 4090", CanonicalKey: "geforce rtx 4090"},
		// Only the memory-stripped key hits the static index.
		{Original: "지포스 RTX 4070 GDDR6X", PrimaryKey: "geforce rtx 4070 gddr6x", MemoryStrippedKey: "geforce rtx 4070", CapacitySplitKey: "geforce rtx 4070", CanonicalKey: "geforce rtx 4070"},
		// Only the capacity-split key hits, and only in the live index.
		{Original: "라데온 RX 7600 8GB", PrimaryKey: "radeon rx 7600 8gb", MemoryStrippedKey: "radeon rx 7600 8gb", CapacitySplitKey: "radeon rx 7600", CanonicalKey: "radeon rx 7600"},
		{Original: "불칸 GT 9999", PrimaryKey: "불칸 gt 9999", MemoryStrippedKey: "불칸 gt 9999", CapacitySplitKey: "불칸 gt 9999", CanonicalKey: "불칸 gt 9999"},
	}

	matched, unmatched := m.MatchAll(variants)

	if len(matched) != 3 || len(unmatched) != 1 {
		t.Fatalf("matched=%d unmatched=%d", len(matched), len(unmatched))
	}

	if matched[0].Kind != internal.MatchStaticExact || matched[0].Record.Source != internal.SourceStatic {
		t.Fatalf("first: kind=%q source=%q, want static exact", matched[0].Kind, matched[0].Record.Source)
	}
	if matched[1].Kind != internal.MatchStaticMemoryStripped || matched[1].Key != "geforce rtx 4070" {
		t.Fatalf("second: kind=%q key=%q", matched[1].Kind, matched[1].Key)
	}
	if matched[2].Kind != internal.MatchLiveCapacitySplit || matched[2].Key != "radeon rx 7600" {
		t.Fatalf("third: kind=%q key=%q", matched[2].Kind, matched[2].Key)
	}
	for i, m := range matched {
		if m.CanonicalKey != variants[i].CanonicalKey {
			t.Fatalf("match %d: canonical=%q, want %q", i, m.CanonicalKey, variants[i].CanonicalKey)
		}
	}
	if unmatched[0].Label != "불칸 GT 9999" || unmatched[0].Key != "불칸 gt 9999" || unmatched[0].CanonicalKey != "불칸 gt 9999" {
		t.Fatalf("unmatched: %+v", unmatched[0])
	}
}

func TestMatchAllLiveExactWithoutSplitKeys(t *testing.T) {
	static := catalog.BuildIndex(nil)
	live := catalog.BuildIndex([]internal.ReferenceRecord{
		liveRec("AMD Ryzen 5 7600", "AMD Ryzen 5 7600"),
	})
	m := NewMatcher(static, live)

	matched, unmatched := m.MatchAll([]internal.Variant{
		{Original: "라이젠 5 7600", PrimaryKey: "AMD Ryzen 5 7600", CanonicalKey: "AMD Ryzen 5 7600"},
	})

	if len(matched) != 1 || len(unmatched) != 0 {
		t.Fatalf("matched=%d unmatched=%d", len(matched), len(unmatched))
	}
	if matched[0].Kind != internal.MatchLiveExact {
		t.Fatalf("kind=%q", matched[0].Kind)
	}
}

func TestMatchAllDeduplicatesOriginals(t *testing.T) {
	static := catalog.BuildIndex([]internal.ReferenceRecord{
		staticRec("GeForce RTX 4070", "geforce rtx 4070"),
	})
	m := NewMatcher(static, catalog.BuildIndex(nil))

	variants := []internal.Variant{
		{Original: "지포스 RTX 4070", PrimaryKey: "geforce rtx 4070"},
		{Original: "지포스 RTX 4070", PrimaryKey: "geforce rtx 4070"},
		{Original: "미지의 모델", PrimaryKey: "미지의 모델"},
		{Original: "미지의 모델", PrimaryKey: "미지의 모델"},
	}

	matched, unmatched := m.MatchAll(variants)
	if len(matched) != 1 {
		t.Fatalf("matched=%d, want duplicate labels collapsed", len(matched))
	}
	if len(unmatched) != 1 {
		t.Fatalf("unmatched=%d, want duplicate labels collapsed", len(unmatched))
	}
}
