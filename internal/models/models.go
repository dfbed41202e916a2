package models

import "time"

type Severity string

const (
	SeverityLow      Severity = "Low"
	SeverityMedium   Severity = "Medium"
	SeverityHigh     Severity = "High"
	SeverityCritical Severity = "Critical"
)

// Weight is the policy weight used for workload scoring and urgency ordering.
func (s Severity) Weight() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	default:
		return 1
	}
}

const (
	GrievanceOpen       = "Open"
	GrievanceInProgress = "In Progress"
	GrievanceResolved   = "Resolved"
	GrievanceClosed     = "Closed"
)

const (
	CollectorAvailable    = "Available"
	CollectorNotAvailable = "Not-Available"
)

type Collector struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	ServiceAreas []string  `json:"service_areas"`
	Status       string    `json:"status"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Grievance struct {
	ID            string     `json:"id"`
	AreaID        string     `json:"area_id"`
	Severity      Severity   `json:"severity"`
	Status        string     `json:"status"`
	AssignedTo    *string    `json:"assigned_to"`
	IsEscalated   bool       `json:"is_escalated"`
	PriorityScore int        `json:"priority_score"`
	CreatedAt     time.Time  `json:"created_at"`
	ResolvedAt    *time.Time `json:"resolved_at,omitempty"`
}

// GrievanceNote is an append-only audit record; notes are never updated or deleted.
type GrievanceNote struct {
	ID          string    `json:"id"`
	GrievanceID string    `json:"grievance_id"`
	Content     string    `json:"content"`
	Author      string    `json:"author"`
	AuthorRole  string    `json:"author_role"`
	NoteType    string    `json:"note_type"`
	CreatedAt   time.Time `json:"created_at"`
}

type Run struct {
	ID         string    `json:"id"`
	AreaID     string    `json:"area_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Status     string    `json:"status"`
	Summary    []byte    `json:"summary"`
}
