package dto

import "time"

// CreateApplicationRequest entrada para crear una application bajo un lead.
type CreateApplicationRequest struct {
	Program     string  `json:"program" validate:"required,min=1,max=200"`
	Status      string  `json:"status" validate:"omitempty,oneof=draft submitted under_review decided"`
	CounselorID *string `json:"counselor_id" validate:"omitempty,uuid"`
}

// UpdateApplicationRequest entrada para actualizar una application.
type UpdateApplicationRequest struct {
	Program     *string    `json:"program" validate:"omitempty,min=1,max=200"`
	Status      *string    `json:"status" validate:"omitempty,oneof=draft submitted under_review decided"`
	CounselorID *string    `json:"counselor_id" validate:"omitempty,uuid"`
	SubmittedAt *time.Time `json:"submitted_at"`
	ReviewedAt  *time.Time `json:"reviewed_at"`
	Decision    *string    `json:"decision" validate:"omitempty,max=200"`
}

// ApplicationResponse salida de una application.
type ApplicationResponse struct {
	ID          string     `json:"id"`
	TenantID    string     `json:"tenant_id"`
	LeadID      string     `json:"lead_id"`
	Status      string     `json:"status"`
	Program     string     `json:"program"`
	CounselorID *string    `json:"counselor_id,omitempty"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty"`
	Decision    *string    `json:"decision,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
