// Package storage provides repository interfaces for data access abstraction.
// These interfaces enable dependency inversion and facilitate testing by
// decoupling the resolver from the concrete SQLite implementation.
package storage

import (
	"context"
)

// KnowledgeBase defines the read-only view the resolver consumes.
// Implementations must return only active records, ordered by id so that
// equal-length name ties break deterministically.
type KnowledgeBase interface {
	ListActiveProcesses(ctx context.Context) ([]Process, error)
	ListActiveCategories(ctx context.Context) ([]Category, error)
	ListActiveFaqLinks(ctx context.Context) ([]FaqLink, error)
}

// ConsultationRecorder defines the analytics logging interface.
// RecordConsultation is an append-only insert; it must not alter the
// resolver's returned payload.
type ConsultationRecorder interface {
	RecordConsultation(ctx context.Context, faqLinkID int64, userID *string) error
}

// ProcessRepository defines the interface for process CRUD operations.
type ProcessRepository interface {
	GetProcessByID(ctx context.Context, id int64) (*Process, error)
	CreateProcess(ctx context.Context, name, description string) (*Process, error)
	UpdateProcess(ctx context.Context, id int64, name, description string) error
	SetProcessActive(ctx context.Context, id int64, active bool) error
}

// CategoryRepository defines the interface for category CRUD operations.
type CategoryRepository interface {
	GetCategoryByID(ctx context.Context, id int64) (*Category, error)
	CreateCategory(ctx context.Context, name, description string) (*Category, error)
	UpdateCategory(ctx context.Context, id int64, name, description string) error
	SetCategoryActive(ctx context.Context, id int64, active bool) error
}

// FaqLinkRepository defines the interface for FAQ link CRUD operations.
type FaqLinkRepository interface {
	GetFaqLinkByID(ctx context.Context, id int64) (*FaqLink, error)
	CreateFaqLink(ctx context.Context, processID, categoryID int64, response string) (*FaqLink, error)
	UpdateFaqLinkResponse(ctx context.Context, id int64, response string) error
	SetFaqLinkActive(ctx context.Context, id int64, active bool) error
}
