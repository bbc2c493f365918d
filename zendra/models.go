package zendra

import "time"

// Ticket is a support ticket on the platform.
type Ticket struct {
	ID          string    `json:"id"`
	Subject     string    `json:"subject"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status,omitempty"`
	Priority    string    `json:"priority,omitempty"`
	RequesterID string    `json:"requester_id,omitempty"`
	AssigneeID  string    `json:"assignee_id,omitempty"`
	BrandID     string    `json:"brand_id,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

// TicketCreate is the payload for creating a ticket.
type TicketCreate struct {
	Subject     string   `json:"subject"`
	Description string   `json:"description,omitempty"`
	Priority    string   `json:"priority,omitempty"`
	RequesterID string   `json:"requester_id,omitempty"`
	BrandID     string   `json:"brand_id,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// TicketUpdate is the partial payload for updating a ticket. Nil fields are
// omitted from the request entirely.
type TicketUpdate struct {
	Subject    *string   `json:"subject,omitempty"`
	Status     *string   `json:"status,omitempty"`
	Priority   *string   `json:"priority,omitempty"`
	AssigneeID *string   `json:"assignee_id,omitempty"`
	Tags       *[]string `json:"tags,omitempty"`
}

// Comment is a message on a ticket.
type Comment struct {
	ID        string    `json:"id"`
	TicketID  string    `json:"ticket_id"`
	AuthorID  string    `json:"author_id,omitempty"`
	Body      string    `json:"body"`
	Public    bool      `json:"public"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// CommentCreate is the payload for adding a comment to a ticket.
type CommentCreate struct {
	Body   string `json:"body"`
	Public bool   `json:"public"`
}

// Brand is a customer-facing identity on the platform.
type Brand struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Subdomain string    `json:"subdomain,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// BrandCreate is the payload for creating a brand.
type BrandCreate struct {
	Name      string `json:"name"`
	Subdomain string `json:"subdomain,omitempty"`
}

// User is an agent or end user account.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Role      string    `json:"role,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// pageMeta is the cursor envelope shared by all list responses.
type pageMeta struct {
	AfterCursor string `json:"after_cursor"`
	HasMore     bool   `json:"has_more"`
}

// Page is one page of a cursor-paginated listing.
type Page[T any] struct {
	Data []T      `json:"data"`
	Meta pageMeta `json:"meta"`
}

// HasMore reports whether another page follows this one.
func (p *Page[T]) HasMore() bool {
	return p.Meta.HasMore && p.Meta.AfterCursor != ""
}
