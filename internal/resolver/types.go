// Package resolver implements the dynamic free-text intent resolver: text
// normalization, longest-match entity extraction over a live knowledge base,
// bounded conversation-history inference, composite multi-entity resolution,
// and a single-best-match priority chain.
//
// The resolver is a pure, synchronous-per-request computation over a snapshot
// fetched at the start of each call. Nothing is cached across calls; the
// knowledge base can change between requests.
package resolver

import (
	"github.com/unidept/faqbot-go/internal/storage"
)

// Role identifies the author of a conversation turn.
type Role string

// Conversation turn roles.
const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// ConversationTurn is one message of the bounded conversation history the
// caller supplies, oldest first. The resolver treats it as read-only.
type ConversationTurn struct {
	Role    Role   `json:"role"`
	Message string `json:"message"`
}

// Result is the resolver's output contract. ContributingFaqIDs drives the
// consultation logging performed by the orchestrator.
type Result struct {
	ResponseHTML       string
	SourceLabel        string
	ContributingFaqIDs []int64
	NeedsMoreContext   bool
	Score              int
}

// Confidence scores. The exact scale is not load-bearing; only the relative
// ordering (resolved > clarification > none) matters.
const (
	ScoreResolved      = 10
	ScoreClarification = 5
	ScoreNone          = 0
)

// Snapshot is the per-call view of the knowledge base with normalized entity
// names computed once. It must not outlive the resolution call that built it.
type Snapshot struct {
	Processes  []storage.Process
	Categories []storage.Category
	FaqLinks   []storage.FaqLink

	normProcess  map[int64]string // process id -> normalized name
	normCategory map[int64]string // category id -> normalized name
	linkByPair   map[pairKey]*storage.FaqLink
}

type pairKey struct {
	processID  int64
	categoryID int64
}

// NewSnapshot builds a snapshot from active knowledge-base records,
// normalizing every entity name up front.
func NewSnapshot(processes []storage.Process, categories []storage.Category, links []storage.FaqLink) *Snapshot {
	s := &Snapshot{
		Processes:    processes,
		Categories:   categories,
		FaqLinks:     links,
		normProcess:  make(map[int64]string, len(processes)),
		normCategory: make(map[int64]string, len(categories)),
		linkByPair:   make(map[pairKey]*storage.FaqLink, len(links)),
	}

	for _, p := range processes {
		s.normProcess[p.ID] = Normalize(p.Name)
	}
	for _, c := range categories {
		s.normCategory[c.ID] = Normalize(c.Name)
	}
	for i := range links {
		l := &links[i]
		s.linkByPair[pairKey{l.ProcessID, l.CategoryID}] = l
	}

	return s
}

// FindLink returns the active FAQ link for a (process, category) pair, or
// nil when none exists. At most one active link exists per pair.
func (s *Snapshot) FindLink(processID, categoryID int64) *storage.FaqLink {
	return s.linkByPair[pairKey{processID, categoryID}]
}

// ProcessNorm returns the precomputed normalized name of a process.
func (s *Snapshot) ProcessNorm(p *storage.Process) string {
	return s.normProcess[p.ID]
}

// CategoryNorm returns the precomputed normalized name of a category.
func (s *Snapshot) CategoryNorm(c *storage.Category) string {
	return s.normCategory[c.ID]
}

// CategoryByNorm returns the first category whose normalized name equals the
// given normalized string, or nil.
func (s *Snapshot) CategoryByNorm(norm string) *storage.Category {
	for i := range s.Categories {
		if s.normCategory[s.Categories[i].ID] == norm {
			return &s.Categories[i]
		}
	}
	return nil
}

// CategoryByNormContains returns the first category whose normalized name
// contains the given normalized substring, or nil.
func (s *Snapshot) CategoryByNormContains(substr string) *storage.Category {
	for i := range s.Categories {
		if substr != "" && containsSubstr(s.normCategory[s.Categories[i].ID], substr) {
			return &s.Categories[i]
		}
	}
	return nil
}

// CategoriesWithFaqs returns the categories for which the given process has
// an active FAQ link, in category iteration order. The returned slice is
// freshly allocated; callers may not mutate snapshot state through it.
func (s *Snapshot) CategoriesWithFaqs(processID int64) []storage.Category {
	var out []storage.Category
	for _, c := range s.Categories {
		if s.FindLink(processID, c.ID) != nil {
			out = append(out, c)
		}
	}
	return out
}

// ProcessesWithFaqs returns the processes that have an active FAQ link for
// the given category, in process iteration order.
func (s *Snapshot) ProcessesWithFaqs(categoryID int64) []storage.Process {
	var out []storage.Process
	for _, p := range s.Processes {
		if s.FindLink(p.ID, categoryID) != nil {
			out = append(out, p)
		}
	}
	return out
}
