package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// ConsultationLog records consultation events against the database.
// The action name that tags question-counting records is resolved once at
// process start and injected here, never cached lazily at module level.
type ConsultationLog struct {
	db     *DB
	action string
}

// NewConsultationLog creates a consultation recorder tagged with the given
// log action name.
func NewConsultationLog(db *DB, action string) *ConsultationLog {
	return &ConsultationLog{db: db, action: action}
}

// RecordConsultation inserts one consultation event for a FAQ link.
// Each call is a fresh insert; concurrent calls need no coordination.
func (cl *ConsultationLog) RecordConsultation(ctx context.Context, faqLinkID int64, userID *string) error {
	query := `INSERT INTO consultations (faq_link_id, user_id, action, created_at) VALUES (?, ?, ?, ?)`

	_, err := cl.db.conn.ExecContext(ctx, query, faqLinkID, userID, cl.action, time.Now().Unix())
	if err != nil {
		slog.ErrorContext(ctx, "failed to record consultation",
			"faq_link_id", faqLinkID,
			"action", cl.action,
			"error", err)
		return fmt.Errorf("record consultation: %w", err)
	}

	return nil
}

// Action returns the configured log action name.
func (cl *ConsultationLog) Action() string {
	return cl.action
}

// CountConsultationsByFaqLink returns dashboard aggregates: consultation
// counts per FAQ link for the given action, labeled with process and
// category names, most consulted first.
func (db *DB) CountConsultationsByFaqLink(ctx context.Context, action string) ([]ConsultationCount, error) {
	query := `
		SELECT c.faq_link_id, p.name, cat.name, COUNT(*) AS total
		FROM consultations c
		JOIN faq_links f ON f.id = c.faq_link_id
		JOIN processes p ON p.id = f.process_id
		JOIN categories cat ON cat.id = f.category_id
		WHERE c.action = ?
		GROUP BY c.faq_link_id, p.name, cat.name
		ORDER BY total DESC, c.faq_link_id
	`

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, action)
	if err != nil {
		slog.ErrorContext(ctx, "failed to count consultations", "action", action, "error", err)
		return nil, fmt.Errorf("count consultations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var counts []ConsultationCount
	for rows.Next() {
		var c ConsultationCount
		if err := rows.Scan(&c.FaqLinkID, &c.ProcessName, &c.CategoryName, &c.Count); err != nil {
			return nil, fmt.Errorf("scan consultation count: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate consultation counts: %w", err)
	}

	warnSlowQuery(ctx, "CountConsultationsByFaqLink", start)
	return counts, nil
}
