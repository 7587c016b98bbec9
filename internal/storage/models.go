package storage

// Process represents a top-level university procedure the chatbot can answer
// about (e.g. "Servicio Social").
type Process struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Active      bool   `json:"active"`
	CreatedAt   int64  `json:"created_at"`
}

// Category represents a topical facet applicable across processes
// (e.g. "Requisitos").
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Active      bool   `json:"active"`
	CreatedAt   int64  `json:"created_at"`
}

// FaqLink is the authoritative answer for one (process, category) pair.
// At most one active link exists per pair; the schema enforces this with a
// partial unique index.
type FaqLink struct {
	ID         int64  `json:"id"`
	ProcessID  int64  `json:"process_id"`
	CategoryID int64  `json:"category_id"`
	Response   string `json:"response"`
	Active     bool   `json:"active"`
	CreatedAt  int64  `json:"created_at"`
}

// Consultation is an analytics record marking that a FAQ link was surfaced
// to a user. Each record is a fresh insert keyed by its own identity.
type Consultation struct {
	ID        int64   `json:"id"`
	FaqLinkID int64   `json:"faq_link_id"`
	UserID    *string `json:"user_id,omitempty"`
	Action    string  `json:"action"`
	CreatedAt int64   `json:"created_at"`
}

// ConsultationCount is a dashboard aggregate: how many times each FAQ link
// was consulted, labeled with its process and category names.
type ConsultationCount struct {
	FaqLinkID    int64  `json:"faq_link_id"`
	ProcessName  string `json:"process_name"`
	CategoryName string `json:"category_name"`
	Count        int    `json:"count"`
}
