package resolver

import (
	"github.com/unidept/faqbot-go/internal/storage"
)

// HistoryContext is what the resolver recovers from recent conversation
// turns when the current message is elliptical ("y de practicas?").
type HistoryContext struct {
	// Process is the most recently mentioned process, if any.
	Process *storage.Process
	// LastCategoryName is the name of the most recently discussed category.
	LastCategoryName string
}

// InferFromHistory scans the history from the most recent entry backward,
// running single-entity extraction on each turn, and records the first
// process and first category it encounters. The scan stops early once both
// are found, and never looks at more than scanLimit turns. A nil or empty
// history yields an empty context.
func (s *Snapshot) InferFromHistory(history []ConversationTurn, scanLimit int) HistoryContext {
	var ctx HistoryContext
	if len(history) == 0 || scanLimit < 1 {
		return ctx
	}

	scanned := 0
	for i := len(history) - 1; i >= 0 && scanned < scanLimit; i-- {
		scanned++

		found := s.ExtractEntities(history[i].Message)
		if ctx.Process == nil && found.Process != nil {
			ctx.Process = found.Process
		}
		if ctx.LastCategoryName == "" && found.Category != nil {
			ctx.LastCategoryName = found.Category.Name
		}
		if ctx.Process != nil && ctx.LastCategoryName != "" {
			break
		}
	}

	return ctx
}
