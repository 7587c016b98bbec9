package resolver

import (
	"testing"

	"github.com/unidept/faqbot-go/internal/storage"
)

func TestExtractEntitiesDirectMatches(t *testing.T) {
	s := testSnapshot()

	tests := []struct {
		name         string
		message      string
		wantProcess  int64 // 0 = none
		wantCategory int64
	}{
		{"process and category", "¿cuáles son los requisitos del servicio social?", 1, 1},
		{"accents ignored", "REQUISITOS de Prácticas Profesionales", 2, 1},
		{"category only", "en dónde entrego los documentos", 0, 2},
		{"process alias ss", "requisitos del ss", 1, 1},
		{"process alias pp", "información de pp", 2, 0},
		{"nothing", "me gusta el futbol", 0, 0},
		{"empty", "   ", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.ExtractEntities(tt.message)
			if id := processID(got.Process); id != tt.wantProcess {
				t.Errorf("process = %d, want %d", id, tt.wantProcess)
			}
			if id := categoryID(got.Category); id != tt.wantCategory {
				t.Errorf("category = %d, want %d", id, tt.wantCategory)
			}
		})
	}
}

// A process whose name is a prefix of another must not shadow the longer
// name when the longer one appears in the message.
func TestExtractEntitiesLongestMatchFirst(t *testing.T) {
	s := NewSnapshot([]storage.Process{
		{ID: 1, Name: "Servicio"},
		{ID: 2, Name: "Servicio Social"},
	}, nil, nil)

	got := s.ExtractEntities("quiero hacer mi servicio social")
	if id := processID(got.Process); id != 2 {
		t.Fatalf("extracted process %d, want the longer-named 2", id)
	}

	got = s.ExtractEntities("servicio")
	if id := processID(got.Process); id != 1 {
		t.Fatalf("extracted process %d, want exact short match 1", id)
	}
}

func TestExtractEntitiesFallbackHeuristics(t *testing.T) {
	s := testSnapshot()

	tests := []struct {
		name         string
		message      string
		wantProcess  int64
		wantCategory int64
	}{
		// "requisito" intent without the category name spelled out.
		{"requirements intent", "¿qué requisito piden?", 0, 1},
		// "que es" + process maps to general information.
		{"what is process", "¿qué es el servicio social?", 1, 3},
		// A message that is exactly the process name also maps there.
		{"bare process name", "Servicio Social", 1, 3},
		// Follow-up/report keywords map to the follow-up category.
		{"follow-up keyword", "cómo subo el reporte de servicio social", 1, 4},
		// "que es" outranks the follow-up keyword when both apply.
		{"what-is beats follow-up", "¿qué es el reporte de servicio social?", 1, 3},
		// Follow-up heuristic needs a matched process.
		{"follow-up without process", "cómo subo el reporte", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.ExtractEntities(tt.message)
			if id := processID(got.Process); id != tt.wantProcess {
				t.Errorf("process = %d, want %d", id, tt.wantProcess)
			}
			if id := categoryID(got.Category); id != tt.wantCategory {
				t.Errorf("category = %d, want %d", id, tt.wantCategory)
			}
		})
	}
}

func TestExtractAllEntities(t *testing.T) {
	s := testSnapshot()

	t.Run("two categories one process", func(t *testing.T) {
		procs, cats := s.ExtractAllEntities("requisitos y documentos de servicio social")
		if len(procs) != 1 || procs[0].ID != 1 {
			t.Fatalf("got %d processes, want only id 1", len(procs))
		}
		if len(cats) != 2 || cats[0].ID != 1 || cats[1].ID != 2 {
			t.Fatalf("got %d categories, want ids [1 2]", len(cats))
		}
	})

	t.Run("no fallback heuristics", func(t *testing.T) {
		// "que es" would map to a category in single extraction; the
		// all-entities variant matches literal names only.
		_, cats := s.ExtractAllEntities("¿qué es el servicio social?")
		if len(cats) != 0 {
			t.Fatalf("got %d categories, want none", len(cats))
		}
	})

	t.Run("alias deduplicated", func(t *testing.T) {
		procs, _ := s.ExtractAllEntities("el ss o servicio social")
		if len(procs) != 1 || procs[0].ID != 1 {
			t.Fatalf("got %d processes, want only id 1", len(procs))
		}
	})

	t.Run("empty message", func(t *testing.T) {
		procs, cats := s.ExtractAllEntities("")
		if procs != nil || cats != nil {
			t.Fatal("expected no entities for empty message")
		}
	})
}

func processID(p *storage.Process) int64 {
	if p == nil {
		return 0
	}
	return p.ID
}

func categoryID(c *storage.Category) int64 {
	if c == nil {
		return 0
	}
	return c.ID
}

func TestExtractAllEntitiesAliasOrderStable(t *testing.T) {
	s := testSnapshot()

	// Two processes matched only through alias tokens must come back in
	// the same order on every call.
	for range 50 {
		procs, _ := s.ExtractAllEntities("requisitos de ss y pp")
		if len(procs) != 2 {
			t.Fatalf("got %d processes, want 2", len(procs))
		}
		if procs[0].ID != 1 || procs[1].ID != 2 {
			t.Fatalf("process order = [%d %d], want [1 2]", procs[0].ID, procs[1].ID)
		}
	}
}
