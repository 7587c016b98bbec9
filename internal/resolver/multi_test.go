package resolver

import (
	"strings"
	"testing"
)

func TestResolveMultiNonCompositeReturnsNil(t *testing.T) {
	s := testSnapshot()

	messages := []string{
		"requisitos de servicio social", // one process, one category
		"servicio social",               // one process
		"documentos",                    // one category
		"me gusta el futbol",            // nothing at all
	}
	for _, msg := range messages {
		if got := s.ResolveMulti(msg, nil); got != nil {
			t.Errorf("ResolveMulti(%q) = %+v, want nil", msg, got)
		}
	}
}

func TestResolveMultiTwoCategoriesOneProcess(t *testing.T) {
	s := testSnapshot()

	got := s.ResolveMulti("requisitos y documentos de servicio social", nil)
	if got == nil {
		t.Fatal("expected a composite result")
	}

	if n := strings.Count(got.ResponseHTML, sectionSeparator); n != 1 {
		t.Errorf("response has %d separators, want 1 (two sections)", n)
	}
	for _, want := range []string{
		"<b>Servicio Social / Requisitos</b>",
		"<b>Servicio Social / Documentos</b>",
		"Para iniciar el servicio social necesitas el 70% de créditos.",
		"Debes entregar carta de presentación y plan de trabajo.",
	} {
		if !strings.Contains(got.ResponseHTML, want) {
			t.Errorf("response missing %q", want)
		}
	}

	if len(got.ContributingFaqIDs) != 2 || got.ContributingFaqIDs[0] != 1 || got.ContributingFaqIDs[1] != 2 {
		t.Errorf("contributing ids = %v, want [1 2]", got.ContributingFaqIDs)
	}
	if got.Score != ScoreResolved {
		t.Errorf("score = %d, want %d", got.Score, ScoreResolved)
	}
}

// A category without a FAQ link for the main process falls back to its bare
// description in its section.
func TestResolveMultiCategoryWithoutLinkUsesDescription(t *testing.T) {
	s := testSnapshot()

	got := s.ResolveMulti("becas y requisitos de prácticas profesionales", nil)
	if got == nil {
		t.Fatal("expected a composite result")
	}
	if !strings.Contains(got.ResponseHTML, "Las prácticas profesionales piden el 60% de créditos aprobados.") {
		t.Error("response missing the requirements FAQ answer")
	}
	if !strings.Contains(got.ResponseHTML, "Las becas se publican en la convocatoria semestral.") {
		t.Error("response missing the becas description fallback")
	}
	if len(got.ContributingFaqIDs) != 1 || got.ContributingFaqIDs[0] != 3 {
		t.Errorf("contributing ids = %v, want only the linked FAQ [3]", got.ContributingFaqIDs)
	}
}

func TestResolveMultiInferredMainProcess(t *testing.T) {
	s := testSnapshot()
	inferred := s.processByID(1)

	got := s.ResolveMulti("¿y los requisitos y documentos?", inferred)
	if got == nil {
		t.Fatal("expected a composite result keyed by the inferred process")
	}
	if !strings.Contains(got.ResponseHTML, "<b>Servicio Social / Requisitos</b>") {
		t.Error("response not keyed by the inferred process")
	}
	if len(got.ContributingFaqIDs) != 2 {
		t.Errorf("contributing ids = %v, want two", got.ContributingFaqIDs)
	}
}

// An inferred process only becomes the main process when at least one found
// category actually has an answer for it.
func TestResolveMultiInferredProcessMustQualify(t *testing.T) {
	s := testSnapshot()
	inferred := s.processByID(2) // has a link for Requisitos only

	got := s.ResolveMulti("¿y los documentos y becas?", inferred)
	if got == nil {
		t.Fatal("expected a composite description result")
	}
	// No FAQ sections, only category descriptions.
	if len(got.ContributingFaqIDs) != 0 {
		t.Errorf("contributing ids = %v, want none", got.ContributingFaqIDs)
	}
	for _, want := range []string{
		"Los documentos se entregan en la coordinación del departamento.",
		"Las becas se publican en la convocatoria semestral.",
	} {
		if !strings.Contains(got.ResponseHTML, want) {
			t.Errorf("response missing %q", want)
		}
	}
}

func TestResolveMultiBothToken(t *testing.T) {
	s := testSnapshot()

	got := s.ResolveMulti("¿cuáles son los requisitos de ambas?", nil)
	if got == nil {
		t.Fatal("expected a result for the \"ambas\" case")
	}
	for _, want := range []string{"Servicio Social", "Prácticas Profesionales"} {
		if !strings.Contains(got.ResponseHTML, want) {
			t.Errorf("response missing a section for %q", want)
		}
	}
	if !strings.Contains(got.ResponseHTML, "Puedo darte información sobre:") {
		t.Error("response missing the category suggestion list")
	}
}

func TestResolveMultiTwoProcesses(t *testing.T) {
	s := testSnapshot()

	got := s.ResolveMulti("¿servicio social o prácticas profesionales?", nil)
	if got == nil {
		t.Fatal("expected a composite result for two processes")
	}
	if n := strings.Count(got.ResponseHTML, sectionSeparator); n != 1 {
		t.Errorf("response has %d separators, want 1", n)
	}
	if len(got.ContributingFaqIDs) != 0 {
		t.Errorf("contributing ids = %v, want none for description sections", got.ContributingFaqIDs)
	}
	if got.SourceLabel != "Servicio Social, Prácticas Profesionales" {
		t.Errorf("sourceLabel = %q", got.SourceLabel)
	}
}

func TestResolveMultiAliasProcessesStableOutput(t *testing.T) {
	s := testSnapshot()

	first := s.ResolveMulti("requisitos de ss y pp", nil)
	if first == nil {
		t.Fatal("expected a composite result for two alias-matched processes")
	}
	if first.SourceLabel != "Servicio Social, Prácticas Profesionales" {
		t.Errorf("sourceLabel = %q", first.SourceLabel)
	}
	for range 50 {
		got := s.ResolveMulti("requisitos de ss y pp", nil)
		if got == nil || got.ResponseHTML != first.ResponseHTML || got.SourceLabel != first.SourceLabel {
			t.Fatal("composite response changed between identical calls")
		}
	}
}
