package resolver

import (
	"fmt"
	"html"
	"strings"

	"github.com/unidept/faqbot-go/internal/storage"
)

// BestMatchInput carries everything the single-best-match chain needs: the
// entities extracted from the current message plus the history context.
type BestMatchInput struct {
	Message          string
	Process          *storage.Process  // from the current message
	Category         *storage.Category // from the current message
	Inferred         *storage.Process  // from history
	LastCategoryName string            // from history
}

// interrogativeTokens are the question words that, together with an entity
// name, mark a message as a direct query about that entity.
var interrogativeTokens = []string{"cual", "cuales", "que", "son", "como", "cuando", "donde"}

// isDirectEntityQuery reports whether the message is a direct question about
// the entity: the message normalizes to exactly the entity name, to a
// "que es/son <entity>" form, or contains the name next to a question word.
func isDirectEntityQuery(normMsg, normName string) bool {
	if normName == "" {
		return false
	}
	switch normMsg {
	case normName,
		"que es " + normName,
		"que son " + normName,
		"que requisitos " + normName:
		return true
	}
	return containsSubstr(normMsg, normName) && hasAnyToken(normMsg, interrogativeTokens)
}

// ResolveBest applies the fixed priority chain and picks exactly one answer,
// or returns nil when nothing was recognized at all (the orchestrator then
// supplies the default message).
func (s *Snapshot) ResolveBest(in BestMatchInput) *Result {
	normMsg := Normalize(in.Message)

	// Rule 1: carried-topic override. A new process with no category, plus a
	// last-discussed category from history, is an explicit topic switch
	// ("y de practicas profesionales?") and outranks everything else.
	if in.Process != nil && in.Category == nil && in.LastCategoryName != "" {
		if carried := s.CategoryByNorm(Normalize(in.LastCategoryName)); carried != nil {
			if link := s.FindLink(in.Process.ID, carried.ID); link != nil {
				return s.faqResult(in.Process, carried, link)
			}
		}
	}

	// Rule 2: direct match.
	if in.Process != nil && in.Category != nil {
		if link := s.FindLink(in.Process.ID, in.Category.ID); link != nil {
			return s.faqResult(in.Process, in.Category, link)
		}
	}

	// Rule 3: inferred process + current category. When the lookup misses,
	// the inferred process becomes the working process for later rules.
	working := in.Process
	if working == nil && in.Inferred != nil && in.Category != nil {
		if link := s.FindLink(in.Inferred.ID, in.Category.ID); link != nil {
			return s.faqResult(in.Inferred, in.Category, link)
		}
		working = in.Inferred
	}

	// Rule 4: direct category question answered from the category itself.
	if in.Category != nil && isDirectEntityQuery(normMsg, s.normCategory[in.Category.ID]) {
		body := in.Category.Description
		if body == "" {
			body = fmt.Sprintf("%s es una de las categorías sobre las que puedo darte información.",
				in.Category.Name)
		}
		return &Result{
			ResponseHTML: html.EscapeString(body),
			SourceLabel:  in.Category.Name,
			Score:        ScoreResolved,
		}
	}

	// Rule 5: process known but no category; suggest its answerable
	// categories, or fall back to the process description.
	if working != nil && in.Category == nil {
		if result := s.suggestCategories(working); result != nil {
			return result
		}
	}

	// Rule 6: category known but no process; symmetric to rule 5.
	if in.Category != nil && working == nil {
		if result := s.suggestProcesses(in.Category); result != nil {
			return result
		}
	}

	// Rule 7: something was recognized but nothing above answered.
	if recognized := recognizedEntityName(in); recognized != "" {
		return &Result{
			ResponseHTML: fmt.Sprintf(
				"Reconocí que preguntas sobre <b>%s</b>, pero necesito más detalle. ¿Podrías especificar tu pregunta?",
				html.EscapeString(recognized)),
			SourceLabel:      recognized,
			NeedsMoreContext: true,
			Score:            ScoreClarification,
		}
	}

	// Rule 8: nothing recognized at all.
	return nil
}

func (s *Snapshot) faqResult(p *storage.Process, c *storage.Category, link *storage.FaqLink) *Result {
	return &Result{
		ResponseHTML:       link.Response,
		SourceLabel:        fmt.Sprintf("%s / %s", p.Name, c.Name),
		ContributingFaqIDs: []int64{link.ID},
		Score:              ScoreResolved,
	}
}

// suggestCategories lists the categories the process can answer about, or
// falls back to the process description. Returns nil when the process has
// neither FAQs nor a description.
func (s *Snapshot) suggestCategories(p *storage.Process) *Result {
	withFaqs := s.CategoriesWithFaqs(p.ID)
	if len(withFaqs) > 0 {
		var b strings.Builder
		b.WriteString(fmt.Sprintf("Sobre <b>%s</b> puedo darte información de:<ul>", html.EscapeString(p.Name)))
		for _, c := range withFaqs {
			b.WriteString("<li>" + html.EscapeString(c.Name) + "</li>")
		}
		b.WriteString("</ul>¿Cuál te interesa?")
		return &Result{
			ResponseHTML:     b.String(),
			SourceLabel:      p.Name,
			NeedsMoreContext: true,
			Score:            ScoreClarification,
		}
	}
	if p.Description != "" {
		return &Result{
			ResponseHTML: html.EscapeString(p.Description),
			SourceLabel:  p.Name,
			Score:        ScoreResolved,
		}
	}
	return nil
}

// suggestProcesses lists the processes that can answer about the category,
// or falls back to the category description.
func (s *Snapshot) suggestProcesses(c *storage.Category) *Result {
	withFaqs := s.ProcessesWithFaqs(c.ID)
	if len(withFaqs) > 0 {
		var b strings.Builder
		b.WriteString(fmt.Sprintf("Tengo información de <b>%s</b> para:<ul>", html.EscapeString(c.Name)))
		for _, p := range withFaqs {
			b.WriteString("<li>" + html.EscapeString(p.Name) + "</li>")
		}
		b.WriteString("</ul>¿De qué proceso quieres saber?")
		return &Result{
			ResponseHTML:     b.String(),
			SourceLabel:      c.Name,
			NeedsMoreContext: true,
			Score:            ScoreClarification,
		}
	}
	if c.Description != "" {
		return &Result{
			ResponseHTML: html.EscapeString(c.Description),
			SourceLabel:  c.Name,
			Score:        ScoreResolved,
		}
	}
	return nil
}

// recognizedEntityName returns the name of any entity recognized in the
// current message or inferred from history, preferring current-message ones.
func recognizedEntityName(in BestMatchInput) string {
	switch {
	case in.Process != nil:
		return in.Process.Name
	case in.Category != nil:
		return in.Category.Name
	case in.Inferred != nil:
		return in.Inferred.Name
	case in.LastCategoryName != "":
		return in.LastCategoryName
	}
	return ""
}
