package resolver

import (
	"fmt"
	"html"
	"strings"

	"github.com/unidept/faqbot-go/internal/storage"
)

// sectionSeparator joins the HTML sections of a composite answer.
const sectionSeparator = "<br><br>"

type section struct {
	html  string
	faqID int64 // 0 when no FAQ link contributed
}

func joinSections(sections []section) (string, []int64) {
	parts := make([]string, 0, len(sections))
	var ids []int64
	for _, sec := range sections {
		parts = append(parts, sec.html)
		if sec.faqID != 0 {
			ids = append(ids, sec.faqID)
		}
	}
	return strings.Join(parts, sectionSeparator), ids
}

// ResolveMulti answers composite questions that reference several categories
// and/or processes in one message ("requisitos y documentos de servicio
// social"). It returns nil when the message is not composite, letting the
// single-best-match chain take over.
func (s *Snapshot) ResolveMulti(message string, inferred *storage.Process) *Result {
	normMsg := Normalize(message)
	foundProcesses, foundCategories := s.ExtractAllEntities(message)

	// "ambas" with exactly two known processes and none named explicitly
	// means the user wants both; no single main process in that case.
	bothCase := len(foundProcesses) == 0 && mentionsBoth(normMsg) && len(s.Processes) == 2

	// A single process and at most one category is not a composite
	// question; the single-best-match chain owns it.
	if !bothCase && len(foundProcesses) <= 1 && len(foundCategories) <= 1 {
		return nil
	}

	// Determine the main process the composite question is about.
	var main *storage.Process
	switch {
	case bothCase:
		foundProcesses = append([]storage.Process(nil), s.Processes...)
	case len(foundProcesses) == 1:
		main = &foundProcesses[0]
	case len(foundProcesses) == 0 && inferred != nil:
		// The inferred process only qualifies when at least one found
		// category actually has an answer for it.
		for i := range foundCategories {
			if s.FindLink(inferred.ID, foundCategories[i].ID) != nil {
				main = inferred
				break
			}
		}
	}

	if main != nil && len(foundCategories) > 0 {
		if result := s.resolveWithMainProcess(main, foundCategories); result != nil {
			return result
		}
	}

	if len(foundProcesses) > 0 || len(foundCategories) > 0 {
		return s.resolveComposite(foundProcesses, foundCategories)
	}

	return nil
}

// resolveWithMainProcess builds one section per found category: the FAQ
// answer for (main, category) when it exists, the category's bare
// description otherwise.
func (s *Snapshot) resolveWithMainProcess(main *storage.Process, categories []storage.Category) *Result {
	var sections []section
	var answered []string

	for i := range categories {
		cat := &categories[i]
		if link := s.FindLink(main.ID, cat.ID); link != nil {
			sections = append(sections, section{
				html: fmt.Sprintf("<b>%s / %s</b><br>%s",
					html.EscapeString(main.Name), html.EscapeString(cat.Name), link.Response),
				faqID: link.ID,
			})
			answered = append(answered, cat.Name)
			continue
		}
		if cat.Description != "" {
			sections = append(sections, section{
				html: fmt.Sprintf("<b>%s</b><br>%s",
					html.EscapeString(cat.Name), html.EscapeString(cat.Description)),
			})
			answered = append(answered, cat.Name)
		}
	}

	if len(sections) == 0 {
		return nil
	}

	body, ids := joinSections(sections)
	return &Result{
		ResponseHTML:       body,
		SourceLabel:        fmt.Sprintf("%s: %s", main.Name, strings.Join(answered, ", ")),
		ContributingFaqIDs: ids,
		Score:              ScoreResolved,
	}
}

// resolveComposite handles composite questions without a clear main process:
// every found process contributes its description plus a suggestion list of
// the categories it has answers for, and every found category not covered by
// a process-level section contributes its bare description.
func (s *Snapshot) resolveComposite(processes []storage.Process, categories []storage.Category) *Result {
	var sections []section
	var labels []string

	for i := range processes {
		p := &processes[i]
		withFaqs := s.CategoriesWithFaqs(p.ID)

		var b strings.Builder
		if p.Description != "" {
			b.WriteString(fmt.Sprintf("<b>%s</b><br>%s", html.EscapeString(p.Name), html.EscapeString(p.Description)))
		}
		if len(withFaqs) > 0 {
			if b.Len() > 0 {
				b.WriteString("<br>")
			} else {
				b.WriteString(fmt.Sprintf("<b>%s</b><br>", html.EscapeString(p.Name)))
			}
			b.WriteString("Puedo darte información sobre:<ul>")
			for _, c := range withFaqs {
				b.WriteString("<li>" + html.EscapeString(c.Name) + "</li>")
			}
			b.WriteString("</ul>")
		}
		if b.Len() == 0 {
			continue
		}
		sections = append(sections, section{html: b.String()})
		labels = append(labels, p.Name)
	}

	for i := range categories {
		cat := &categories[i]
		if s.categoryCoveredBy(processes, cat.ID) {
			continue
		}
		if cat.Description == "" {
			continue
		}
		sections = append(sections, section{
			html: fmt.Sprintf("<b>%s</b><br>%s",
				html.EscapeString(cat.Name), html.EscapeString(cat.Description)),
		})
		labels = append(labels, cat.Name)
	}

	if len(sections) == 0 {
		return nil
	}

	body, ids := joinSections(sections)
	return &Result{
		ResponseHTML:       body,
		SourceLabel:        strings.Join(labels, ", "),
		ContributingFaqIDs: ids,
		Score:              ScoreResolved,
	}
}

// categoryCoveredBy reports whether any of the given processes has an active
// FAQ link for the category; such categories already appear in a
// process-level suggestion list.
func (s *Snapshot) categoryCoveredBy(processes []storage.Process, categoryID int64) bool {
	for i := range processes {
		if s.FindLink(processes[i].ID, categoryID) != nil {
			return true
		}
	}
	return false
}
