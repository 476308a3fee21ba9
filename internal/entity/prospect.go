package entity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrProspectNotFound   = errors.New("prospect not found")
	ErrEmailAlreadyExists = errors.New("email already registered")
)

type Status string

const (
	StatusNew         Status = "new"
	StatusContacted   Status = "contacted"
	StatusQualified   Status = "qualified"
	StatusProposal    Status = "proposal"
	StatusNegotiation Status = "negotiation"
	StatusClosedWon   Status = "closed_won"
	StatusClosedLost  Status = "closed_lost"
)

// Statuses lists every status in pipeline order.
var Statuses = []Status{
	StatusNew, StatusContacted, StatusQualified, StatusProposal,
	StatusNegotiation, StatusClosedWon, StatusClosedLost,
}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

func (p Priority) Valid() bool {
	for _, v := range Priorities {
		if p == v {
			return true
		}
	}
	return false
}

// Urgent reports whether the priority calls for immediate follow-up.
func (p Priority) Urgent() bool {
	return p == PriorityHigh || p == PriorityCritical
}

// Prospect is a company contact tracked through the sales pipeline.
type Prospect struct {
	ID          string     `json:"id"`
	CompanyName string     `json:"company_name"`
	ContactName string     `json:"contact_name"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone,omitempty"`
	Industry    string     `json:"industry,omitempty"`
	CompanySize string     `json:"company_size,omitempty"`
	Website     string     `json:"website,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	Tags        []string   `json:"tags"`
	Status      Status     `json:"status"`
	Priority    Priority   `json:"priority"`
	Score       *float64   `json:"score"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	LastContact *time.Time `json:"last_contact"`
}

// NewProspect fills the id and the enum defaults. Timestamps are set by the repository.
func NewProspect(company, contact, email string) *Prospect {
	return &Prospect{
		ID:          uuid.New().String(),
		CompanyName: company,
		ContactName: contact,
		Email:       email,
		Tags:        []string{},
		Status:      StatusNew,
		Priority:    PriorityMedium,
	}
}

// ProspectPatch carries a partial update. Nil fields are left untouched.
type ProspectPatch struct {
	CompanyName *string
	ContactName *string
	Email       *string
	Phone       *string
	Industry    *string
	CompanySize *string
	Website     *string
	Notes       *string
	Tags        *[]string
	Status      *Status
	Priority    *Priority
	Score       *float64
	LastContact *time.Time
	// ClearLastContact resets last_contact to NULL; it wins over LastContact.
	ClearLastContact bool
}

// Empty reports whether the patch names no field at all.
func (p ProspectPatch) Empty() bool {
	return p.CompanyName == nil && p.ContactName == nil && p.Email == nil &&
		p.Phone == nil && p.Industry == nil && p.CompanySize == nil &&
		p.Website == nil && p.Notes == nil && p.Tags == nil &&
		p.Status == nil && p.Priority == nil && p.Score == nil &&
		p.LastContact == nil && !p.ClearLastContact
}

type ProspectFilter struct {
	Status   Status
	Priority Priority
	Industry string
	Offset   int
	Limit    int
}

type ProspectRepositoryInterface interface {
	Insert(ctx context.Context, p *Prospect) error
	Get(ctx context.Context, id string) (*Prospect, error)
	List(ctx context.Context, f ProspectFilter) ([]*Prospect, error)
	Update(ctx context.Context, id string, patch ProspectPatch) (*Prospect, error)
	Delete(ctx context.Context, id string) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
