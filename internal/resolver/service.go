package resolver

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/unidept/faqbot-go/internal/logger"
	"github.com/unidept/faqbot-go/internal/metrics"
	"github.com/unidept/faqbot-go/internal/storage"
)

// TextGenerator is the external language-model collaborator invoked as a
// last resort, only when both resolvers produce nothing. kbContext carries a
// short plain-text summary of the knowledge base to ground the answer.
type TextGenerator interface {
	Generate(ctx context.Context, question, kbContext string) (string, error)
	IsEnabled() bool
}

// Resolution outcomes, used as metric labels.
const (
	OutcomeRejected      = "rejected"
	OutcomeGreeting      = "greeting"
	OutcomeMulti         = "multi"
	OutcomeSingle        = "single"
	OutcomeClarification = "clarification"
	OutcomeFallbackLLM   = "fallback_llm"
	OutcomeNone          = "none"
)

// minMessageRunes is the minimum trimmed message length resolved at all.
const minMessageRunes = 2

// greetings are answered directly, before any entity extraction.
var greetings = map[string]bool{
	"hola":          true,
	"buenos dias":   true,
	"buenas tardes": true,
	"buenas noches": true,
}

// Canned user-facing responses.
const (
	promptResponse   = "Escríbeme tu pregunta y con gusto te ayudo."
	greetingResponse = "¡Hola! Pregúntame sobre los procesos del departamento y te ayudo."
	defaultResponse  = "Lo siento, no encontré información relevante para tu pregunta. " +
		"¿Podrías reformularla mencionando el proceso o el tema que te interesa?"
)

// Service orchestrates a resolution call: snapshot fetch, history inference,
// both resolvers, consultation logging, and the optional LLM fallback.
type Service struct {
	kb            storage.KnowledgeBase
	consultations storage.ConsultationRecorder
	generator     TextGenerator // nil = fallback disabled
	metrics       *metrics.Metrics
	log           *logger.Logger
	historyLimit  int
}

// ServiceConfig holds the collaborators for creating a Service.
type ServiceConfig struct {
	KnowledgeBase storage.KnowledgeBase
	Consultations storage.ConsultationRecorder
	Generator     TextGenerator
	Metrics       *metrics.Metrics
	Logger        *logger.Logger
	HistoryLimit  int
}

// NewService creates a resolution service.
func NewService(cfg ServiceConfig) *Service {
	limit := cfg.HistoryLimit
	if limit < 1 {
		limit = 10
	}
	log := cfg.Logger
	if log == nil {
		log = logger.New("info")
	}
	return &Service{
		kb:            cfg.KnowledgeBase,
		consultations: cfg.Consultations,
		generator:     cfg.Generator,
		metrics:       cfg.Metrics,
		log:           log.WithModule("resolver"),
		historyLimit:  limit,
	}
}

// GetResponse resolves a free-text message against the live knowledge base.
// Every recognized business condition yields a well-formed Result; only hard
// collaborator failures (knowledge base unavailable) surface as errors.
func (svc *Service) GetResponse(ctx context.Context, message string, history []ConversationTurn, userID *string) (*Result, error) {
	start := time.Now()

	trimmed := strings.TrimSpace(message)
	if utf8.RuneCountInString(trimmed) < minMessageRunes {
		svc.recordOutcome(OutcomeRejected, start)
		return &Result{
			ResponseHTML:     promptResponse,
			NeedsMoreContext: true,
			Score:            ScoreNone,
		}, nil
	}

	// Greetings never reach entity extraction and log nothing.
	if greetings[Normalize(trimmed)] {
		svc.recordOutcome(OutcomeGreeting, start)
		return &Result{
			ResponseHTML:     greetingResponse,
			NeedsMoreContext: true,
			Score:            ScoreNone,
		}, nil
	}

	snapshot, err := svc.fetchSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	histCtx := snapshot.InferFromHistory(history, svc.historyLimit)

	// Composite questions take priority: resolving one as single-best-match
	// would silently drop information.
	if result := snapshot.ResolveMulti(trimmed, histCtx.Process); result != nil {
		svc.logConsultations(ctx, result.ContributingFaqIDs, userID)
		svc.recordOutcome(OutcomeMulti, start)
		return result, nil
	}

	entities := snapshot.ExtractEntities(trimmed)
	best := snapshot.ResolveBest(BestMatchInput{
		Message:          trimmed,
		Process:          entities.Process,
		Category:         entities.Category,
		Inferred:         histCtx.Process,
		LastCategoryName: histCtx.LastCategoryName,
	})
	if best != nil {
		svc.logConsultations(ctx, best.ContributingFaqIDs, userID)
		if best.NeedsMoreContext {
			svc.recordOutcome(OutcomeClarification, start)
		} else {
			svc.recordOutcome(OutcomeSingle, start)
		}
		return best, nil
	}

	// Nothing recognized anywhere: try the external text generator once,
	// then fall back to the default message.
	if svc.generator != nil && svc.generator.IsEnabled() {
		if answer := svc.tryGenerator(ctx, trimmed, snapshot); answer != nil {
			svc.recordOutcome(OutcomeFallbackLLM, start)
			return answer, nil
		}
	}

	svc.recordOutcome(OutcomeNone, start)
	return &Result{
		ResponseHTML:     defaultResponse,
		NeedsMoreContext: true,
		Score:            ScoreNone,
	}, nil
}

// fetchSnapshot reads the three active-record sets concurrently; they are
// independent of one another.
func (svc *Service) fetchSnapshot(ctx context.Context) (*Snapshot, error) {
	var (
		processes  []storage.Process
		categories []storage.Category
		links      []storage.FaqLink
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		processes, err = svc.kb.ListActiveProcesses(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = svc.kb.ListActiveCategories(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		links, err = svc.kb.ListActiveFaqLinks(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetch knowledge base snapshot: %w", err)
	}

	return NewSnapshot(processes, categories, links), nil
}

// logConsultations records one consultation event per contributing FAQ link.
// Failures are logged and swallowed: analytics must never break an answer.
// Writes complete before returning so resolver output stays deterministic
// relative to the log.
func (svc *Service) logConsultations(ctx context.Context, faqIDs []int64, userID *string) {
	for _, id := range faqIDs {
		if err := svc.consultations.RecordConsultation(ctx, id, userID); err != nil {
			svc.log.WithError(err).WithField("faq_link_id", id).Warn("Failed to record consultation")
			continue
		}
		if svc.metrics != nil {
			svc.metrics.ConsultationsLoggedTotal.Inc()
		}
	}
}

// tryGenerator asks the external text generator for a best-effort answer.
// Any failure degrades to nil so the caller can use the default message.
func (svc *Service) tryGenerator(ctx context.Context, question string, snapshot *Snapshot) *Result {
	text, err := svc.generator.Generate(ctx, question, kbSummary(snapshot))
	if err != nil {
		svc.log.WithError(err).Warn("Fallback text generation failed")
		if svc.metrics != nil {
			svc.metrics.FallbackRequestsTotal.WithLabelValues("error").Inc()
		}
		return nil
	}
	text = strings.TrimSpace(text)
	if text == "" {
		if svc.metrics != nil {
			svc.metrics.FallbackRequestsTotal.WithLabelValues("empty").Inc()
		}
		return nil
	}
	if svc.metrics != nil {
		svc.metrics.FallbackRequestsTotal.WithLabelValues("success").Inc()
	}
	return &Result{
		ResponseHTML: html.EscapeString(text),
		SourceLabel:  "asistente",
		Score:        ScoreClarification,
	}
}

// kbSummary builds a short plain-text description of the knowledge base for
// grounding the generator.
func kbSummary(s *Snapshot) string {
	processNames := make([]string, 0, len(s.Processes))
	for _, p := range s.Processes {
		processNames = append(processNames, p.Name)
	}
	categoryNames := make([]string, 0, len(s.Categories))
	for _, c := range s.Categories {
		categoryNames = append(categoryNames, c.Name)
	}
	return fmt.Sprintf("Procesos: %s. Categorías: %s.",
		strings.Join(processNames, ", "), strings.Join(categoryNames, ", "))
}

func (svc *Service) recordOutcome(outcome string, start time.Time) {
	if svc.metrics == nil {
		return
	}
	svc.metrics.ResolveRequestsTotal.WithLabelValues(outcome).Inc()
	svc.metrics.ResolveDurationSeconds.Observe(time.Since(start).Seconds())
}
