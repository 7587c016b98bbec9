package resolver

import (
	"sort"

	"github.com/unidept/faqbot-go/internal/storage"
)

// Entities holds the single best process and category referenced by a
// message. Either side may be nil.
type Entities struct {
	Process  *storage.Process
	Category *storage.Category
}

// Fixed category names the fallback heuristics target, in normalized form.
const (
	normRequirements = "requisitos"
	normGeneralInfo  = "informacion general"
	normFollowUp     = "seguimiento y reporte"
)

// processAliases maps domain abbreviation tokens to the normalized process
// name they stand for ("ss" is campus shorthand for servicio social). The
// slice is ordered so alias matching visits tokens in a fixed sequence and
// resolver output stays stable between calls.
var processAliases = []struct {
	alias  string
	target string
}{
	{"ss", "servicio social"},
	{"pp", "practicas profesionales"},
}

// Heuristic predicates. Each is a named, independently testable rule so the
// priority chain can be unit-tested rule by rule.

// mentionsRequirements reports whether the message carries a generic
// requirements intent.
func mentionsRequirements(normMsg string) bool {
	return containsSubstr(normMsg, "requisito")
}

// asksWhatIs reports whether the message uses "what is/are" phrasing.
func asksWhatIs(normMsg string) bool {
	return containsSubstr(normMsg, "que es") || containsSubstr(normMsg, "que son")
}

// mentionsFollowUp reports whether the message carries a follow-up or
// report-submission intent.
func mentionsFollowUp(normMsg string) bool {
	return hasAnyToken(normMsg, []string{"seguimiento", "reporte", "reportes"})
}

// mentionsBoth reports whether the message refers to both processes at once.
func mentionsBoth(normMsg string) bool {
	return hasAnyToken(normMsg, []string{"ambas", "ambos"})
}

// sortLongestFirst returns entity indexes ordered by normalized-name length
// descending. Ties keep knowledge-base iteration order (ORDER BY id), which
// makes the choice deterministic.
func sortLongestFirst(n int, normAt func(int) string) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return len(normAt(idx[a])) > len(normAt(idx[b]))
	})
	return idx
}

// matchProcess returns the first process, longest normalized name first,
// whose name is a substring of the message, falling back to alias tokens.
// Longest-match-first prevents a short name like "servicio" from shadowing
// "servicio social becario".
func (s *Snapshot) matchProcess(normMsg string) *storage.Process {
	if normMsg == "" {
		return nil
	}

	order := sortLongestFirst(len(s.Processes), func(i int) string {
		return s.normProcess[s.Processes[i].ID]
	})
	for _, i := range order {
		name := s.normProcess[s.Processes[i].ID]
		if name != "" && containsSubstr(normMsg, name) {
			return &s.Processes[i]
		}
	}

	// Alias rule: a configured abbreviation token counts as a match.
	for _, a := range processAliases {
		if !hasToken(normMsg, a.alias) {
			continue
		}
		for i := range s.Processes {
			if s.normProcess[s.Processes[i].ID] == a.target {
				return &s.Processes[i]
			}
		}
	}

	return nil
}

// matchCategory returns the first category, longest normalized name first,
// whose name is a substring of the message.
func (s *Snapshot) matchCategory(normMsg string) *storage.Category {
	if normMsg == "" {
		return nil
	}

	order := sortLongestFirst(len(s.Categories), func(i int) string {
		return s.normCategory[s.Categories[i].ID]
	})
	for _, i := range order {
		name := s.normCategory[s.Categories[i].ID]
		if name != "" && containsSubstr(normMsg, name) {
			return &s.Categories[i]
		}
	}
	return nil
}

// ExtractEntities finds the single process and category a message refers to.
// When no category name appears literally, fixed fallback heuristics apply
// in order: requirements intent, "what is" phrasing against the matched
// process, then follow-up/report keywords.
func (s *Snapshot) ExtractEntities(message string) Entities {
	normMsg := Normalize(message)
	if normMsg == "" {
		return Entities{}
	}

	process := s.matchProcess(normMsg)
	category := s.matchCategory(normMsg)

	if category == nil {
		switch {
		case mentionsRequirements(normMsg):
			category = s.CategoryByNorm(normRequirements)
		case process != nil && (asksWhatIs(normMsg) || normMsg == s.normProcess[process.ID]):
			category = s.CategoryByNorm(normGeneralInfo)
		case process != nil && mentionsFollowUp(normMsg):
			category = s.CategoryByNormContains(normFollowUp)
		}
	}

	return Entities{Process: process, Category: category}
}

// ExtractAllEntities returns every process and category whose normalized
// name appears in the message, plus alias-token process matches. Fallback
// heuristics do not apply; this feeds composite-question detection.
func (s *Snapshot) ExtractAllEntities(message string) ([]storage.Process, []storage.Category) {
	normMsg := Normalize(message)
	if normMsg == "" {
		return nil, nil
	}

	var processes []storage.Process
	seen := make(map[int64]bool)
	for i := range s.Processes {
		name := s.normProcess[s.Processes[i].ID]
		if name != "" && containsSubstr(normMsg, name) {
			processes = append(processes, s.Processes[i])
			seen[s.Processes[i].ID] = true
		}
	}
	for _, a := range processAliases {
		if !hasToken(normMsg, a.alias) {
			continue
		}
		for i := range s.Processes {
			if s.normProcess[s.Processes[i].ID] == a.target && !seen[s.Processes[i].ID] {
				processes = append(processes, s.Processes[i])
				seen[s.Processes[i].ID] = true
			}
		}
	}

	var categories []storage.Category
	for i := range s.Categories {
		name := s.normCategory[s.Categories[i].ID]
		if name != "" && containsSubstr(normMsg, name) {
			categories = append(categories, s.Categories[i])
		}
	}

	return processes, categories
}
