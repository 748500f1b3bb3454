package dto

import "time"

// CreateLeadRequest entrada para crear un lead. OwnerID vacío = el propio usuario.
type CreateLeadRequest struct {
	OwnerID   string `json:"owner_id" validate:"omitempty,uuid"`
	Stage     string `json:"stage" validate:"omitempty,oneof=new contacted qualified converted lost"`
	FirstName string `json:"first_name" validate:"required,min=1,max=120"`
	LastName  string `json:"last_name" validate:"max=120"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone" validate:"max=40"`
	Source    string `json:"source" validate:"max=80"`
	Notes     string `json:"notes"`
}

// UpdateLeadRequest entrada para actualizar un lead. No hay campo tenant: no se reasigna.
type UpdateLeadRequest struct {
	OwnerID   *string `json:"owner_id" validate:"omitempty,uuid"`
	Stage     *string `json:"stage" validate:"omitempty,oneof=new contacted qualified converted lost"`
	FirstName *string `json:"first_name" validate:"omitempty,min=1,max=120"`
	LastName  *string `json:"last_name" validate:"omitempty,max=120"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Phone     *string `json:"phone" validate:"omitempty,max=40"`
	Source    *string `json:"source" validate:"omitempty,max=80"`
	Notes     *string `json:"notes"`
}

// LeadResponse salida de un lead.
type LeadResponse struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	OwnerID   string    `json:"owner_id"`
	Stage     string    `json:"stage"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Source    string    `json:"source,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LeadListResponse lista paginada de leads.
type LeadListResponse struct {
	Items []LeadResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
