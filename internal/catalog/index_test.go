package catalog

import (
	"testing"

	"comhere/internal"
)

func TestBuildIndexLookup(t *testing.T) {
	idx := BuildIndex([]internal.ReferenceRecord{
		{Source: internal.SourceStatic, Name: "GeForce RTX 4070", Key: "geforce rtx 4070"},
		{Source: internal.SourceStatic, Name: "Radeon RX 7600", Key: "radeon rx 7600"},
		{Source: internal.SourceStatic, Name: "Broken", Key: ""},
	})

	if idx.Len() != 2 {
		t.Fatalf("len=%d, want 2 (empty key skipped)", idx.Len())
	}
	rec, ok := idx.Lookup("geforce rtx 4070")
	if !ok || rec.Name != "GeForce RTX 4070" {
		t.Fatalf("lookup: %v %v", rec, ok)
	}
	if _, ok := idx.Lookup("geforce rtx 9999"); ok {
		t.Fatal("unexpected hit")
	}
}

func TestBuildIndexLastRecordWins(t *testing.T) {
	idx := BuildIndex([]internal.ReferenceRecord{
		{Source: internal.SourceLive, Name: "GeForce RTX 4070 12 GB", Key: "geforce rtx 4070"},
		{Source: internal.SourceLive, Name: "GeForce RTX 4070", Key: "geforce rtx 4070"},
	})

	if idx.Len() != 1 {
		t.Fatalf("len=%d", idx.Len())
	}
	rec, _ := idx.Lookup("geforce rtx 4070")
	if rec.Name != "GeForce RTX 4070" {
		t.Fatalf("name=%q, want the later record", rec.Name)
	}
}
