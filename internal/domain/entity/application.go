package entity

import "time"

// Estados de una solicitud.
const (
	ApplicationStatusDraft       = "draft"
	ApplicationStatusSubmitted   = "submitted"
	ApplicationStatusUnderReview = "under_review"
	ApplicationStatusDecided     = "decided"
)

// Application es una solicitud formal ligada a un Lead (se borra en cascada con él).
// Su visibilidad se hereda del dueño del lead padre.
type Application struct {
	ID          string
	TenantID    string
	LeadID      string
	Status      string
	Program     string
	CounselorID *string
	SubmittedAt *time.Time
	ReviewedAt  *time.Time
	Decision    *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsValidApplicationStatus informa si status es un estado conocido.
func IsValidApplicationStatus(status string) bool {
	switch status {
	case ApplicationStatusDraft, ApplicationStatusSubmitted, ApplicationStatusUnderReview, ApplicationStatusDecided:
		return true
	}
	return false
}
