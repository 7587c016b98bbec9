package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/unidept/faqbot-go/internal/faqerrors"
)

// slowQueryThreshold is the duration above which a query is logged as slow.
const slowQueryThreshold = 100 * time.Millisecond

// ListActiveProcesses retrieves all active processes ordered by id.
// The ordering is load-bearing: the resolver breaks equal-length name ties
// by knowledge-base iteration order.
func (db *DB) ListActiveProcesses(ctx context.Context) ([]Process, error) {
	query := `SELECT id, name, description, active, created_at FROM processes WHERE active = 1 ORDER BY id`

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list processes", "error", err)
		return nil, fmt.Errorf("list active processes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var processes []Process
	for rows.Next() {
		var p Process
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Active, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan process: %w", err)
		}
		processes = append(processes, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate processes: %w", err)
	}

	warnSlowQuery(ctx, "ListActiveProcesses", start)
	return processes, nil
}

// ListActiveCategories retrieves all active categories ordered by id.
func (db *DB) ListActiveCategories(ctx context.Context) ([]Category, error) {
	query := `SELECT id, name, description, active, created_at FROM categories WHERE active = 1 ORDER BY id`

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list categories", "error", err)
		return nil, fmt.Errorf("list active categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Active, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}

	warnSlowQuery(ctx, "ListActiveCategories", start)
	return categories, nil
}

// ListActiveFaqLinks retrieves all active FAQ links ordered by id.
func (db *DB) ListActiveFaqLinks(ctx context.Context) ([]FaqLink, error) {
	query := `SELECT id, process_id, category_id, response, active, created_at FROM faq_links WHERE active = 1 ORDER BY id`

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list faq links", "error", err)
		return nil, fmt.Errorf("list active faq links: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var links []FaqLink
	for rows.Next() {
		var l FaqLink
		if err := rows.Scan(&l.ID, &l.ProcessID, &l.CategoryID, &l.Response, &l.Active, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan faq link: %w", err)
		}
		links = append(links, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate faq links: %w", err)
	}

	warnSlowQuery(ctx, "ListActiveFaqLinks", start)
	return links, nil
}

// GetProcessByID retrieves a process by id.
// Returns faqerrors.ErrNotFound when no such process exists.
func (db *DB) GetProcessByID(ctx context.Context, id int64) (*Process, error) {
	query := `SELECT id, name, description, active, created_at FROM processes WHERE id = ?`

	var p Process
	err := db.conn.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.Description, &p.Active, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, faqerrors.ErrNotFound
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to query process", "process_id", id, "error", err)
		return nil, fmt.Errorf("query process: %w", err)
	}

	return &p, nil
}

// CreateProcess persists a new active process.
func (db *DB) CreateProcess(ctx context.Context, name, description string) (*Process, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, faqerrors.NewValidationError("name", "must not be empty")
	}

	query := `INSERT INTO processes (name, description, active, created_at) VALUES (?, ?, 1, ?)`
	now := time.Now().Unix()
	res, err := db.conn.ExecContext(ctx, query, name, description, now)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create process", "name", name, "error", err)
		return nil, fmt.Errorf("create process: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("process insert id: %w", err)
	}

	return &Process{ID: id, Name: name, Description: description, Active: true, CreatedAt: now}, nil
}

// UpdateProcess updates the name and description of a process.
func (db *DB) UpdateProcess(ctx context.Context, id int64, name, description string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return faqerrors.NewValidationError("name", "must not be empty")
	}

	query := `UPDATE processes SET name = ?, description = ? WHERE id = ?`
	res, err := db.conn.ExecContext(ctx, query, name, description, id)
	if err != nil {
		slog.ErrorContext(ctx, "failed to update process", "process_id", id, "error", err)
		return fmt.Errorf("update process: %w", err)
	}
	return requireAffected(res, "update process")
}

// SetProcessActive toggles the visibility of a process for the resolver.
func (db *DB) SetProcessActive(ctx context.Context, id int64, active bool) error {
	query := `UPDATE processes SET active = ? WHERE id = ?`
	res, err := db.conn.ExecContext(ctx, query, boolToInt(active), id)
	if err != nil {
		slog.ErrorContext(ctx, "failed to set process active", "process_id", id, "error", err)
		return fmt.Errorf("set process active: %w", err)
	}
	return requireAffected(res, "set process active")
}

// GetCategoryByID retrieves a category by id.
// Returns faqerrors.ErrNotFound when no such category exists.
func (db *DB) GetCategoryByID(ctx context.Context, id int64) (*Category, error) {
	query := `SELECT id, name, description, active, created_at FROM categories WHERE id = ?`

	var c Category
	err := db.conn.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.Description, &c.Active, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, faqerrors.ErrNotFound
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to query category", "category_id", id, "error", err)
		return nil, fmt.Errorf("query category: %w", err)
	}

	return &c, nil
}

// CreateCategory persists a new active category.
func (db *DB) CreateCategory(ctx context.Context, name, description string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, faqerrors.NewValidationError("name", "must not be empty")
	}

	query := `INSERT INTO categories (name, description, active, created_at) VALUES (?, ?, 1, ?)`
	now := time.Now().Unix()
	res, err := db.conn.ExecContext(ctx, query, name, description, now)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create category", "name", name, "error", err)
		return nil, fmt.Errorf("create category: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("category insert id: %w", err)
	}

	return &Category{ID: id, Name: name, Description: description, Active: true, CreatedAt: now}, nil
}

// UpdateCategory updates the name and description of a category.
func (db *DB) UpdateCategory(ctx context.Context, id int64, name, description string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return faqerrors.NewValidationError("name", "must not be empty")
	}

	query := `UPDATE categories SET name = ?, description = ? WHERE id = ?`
	res, err := db.conn.ExecContext(ctx, query, name, description, id)
	if err != nil {
		slog.ErrorContext(ctx, "failed to update category", "category_id", id, "error", err)
		return fmt.Errorf("update category: %w", err)
	}
	return requireAffected(res, "update category")
}

// SetCategoryActive toggles the visibility of a category for the resolver.
func (db *DB) SetCategoryActive(ctx context.Context, id int64, active bool) error {
	query := `UPDATE categories SET active = ? WHERE id = ?`
	res, err := db.conn.ExecContext(ctx, query, boolToInt(active), id)
	if err != nil {
		slog.ErrorContext(ctx, "failed to set category active", "category_id", id, "error", err)
		return fmt.Errorf("set category active: %w", err)
	}
	return requireAffected(res, "set category active")
}

// GetFaqLinkByID retrieves a FAQ link by id.
// Returns faqerrors.ErrNotFound when no such link exists.
func (db *DB) GetFaqLinkByID(ctx context.Context, id int64) (*FaqLink, error) {
	query := `SELECT id, process_id, category_id, response, active, created_at FROM faq_links WHERE id = ?`

	var l FaqLink
	err := db.conn.QueryRowContext(ctx, query, id).Scan(&l.ID, &l.ProcessID, &l.CategoryID, &l.Response, &l.Active, &l.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, faqerrors.ErrNotFound
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to query faq link", "faq_link_id", id, "error", err)
		return nil, fmt.Errorf("query faq link: %w", err)
	}

	return &l, nil
}

// CreateFaqLink persists a new active FAQ link for a (process, category) pair.
// Returns faqerrors.ErrDuplicateFaqLink when an active link for the pair
// already exists, and faqerrors.ErrNotFound when either side is missing.
func (db *DB) CreateFaqLink(ctx context.Context, processID, categoryID int64, response string) (*FaqLink, error) {
	if strings.TrimSpace(response) == "" {
		return nil, faqerrors.NewValidationError("response", "must not be empty")
	}

	if _, err := db.GetProcessByID(ctx, processID); err != nil {
		return nil, err
	}
	if _, err := db.GetCategoryByID(ctx, categoryID); err != nil {
		return nil, err
	}

	query := `INSERT INTO faq_links (process_id, category_id, response, active, created_at) VALUES (?, ?, ?, 1, ?)`
	now := time.Now().Unix()
	res, err := db.conn.ExecContext(ctx, query, processID, categoryID, response, now)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, faqerrors.ErrDuplicateFaqLink
		}
		slog.ErrorContext(ctx, "failed to create faq link",
			"process_id", processID,
			"category_id", categoryID,
			"error", err)
		return nil, fmt.Errorf("create faq link: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("faq link insert id: %w", err)
	}

	return &FaqLink{ID: id, ProcessID: processID, CategoryID: categoryID, Response: response, Active: true, CreatedAt: now}, nil
}

// UpdateFaqLinkResponse replaces the response text of a FAQ link.
func (db *DB) UpdateFaqLinkResponse(ctx context.Context, id int64, response string) error {
	if strings.TrimSpace(response) == "" {
		return faqerrors.NewValidationError("response", "must not be empty")
	}

	query := `UPDATE faq_links SET response = ? WHERE id = ?`
	res, err := db.conn.ExecContext(ctx, query, response, id)
	if err != nil {
		slog.ErrorContext(ctx, "failed to update faq link", "faq_link_id", id, "error", err)
		return fmt.Errorf("update faq link: %w", err)
	}
	return requireAffected(res, "update faq link")
}

// SetFaqLinkActive toggles the visibility of a FAQ link for the resolver.
// Reactivating fails with ErrDuplicateFaqLink if another active link for the
// same pair exists.
func (db *DB) SetFaqLinkActive(ctx context.Context, id int64, active bool) error {
	query := `UPDATE faq_links SET active = ? WHERE id = ?`
	res, err := db.conn.ExecContext(ctx, query, boolToInt(active), id)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return faqerrors.ErrDuplicateFaqLink
		}
		slog.ErrorContext(ctx, "failed to set faq link active", "faq_link_id", id, "error", err)
		return fmt.Errorf("set faq link active: %w", err)
	}
	return requireAffected(res, "set faq link active")
}

// requireAffected converts a zero-row update into ErrNotFound.
func requireAffected(res sql.Result, op string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if affected == 0 {
		return faqerrors.ErrNotFound
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func warnSlowQuery(ctx context.Context, operation string, start time.Time) {
	if duration := time.Since(start); duration > slowQueryThreshold {
		slog.WarnContext(ctx, "slow database operation",
			"operation", operation,
			"duration_ms", duration.Milliseconds())
	}
}
