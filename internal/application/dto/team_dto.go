package dto

import "time"

// CreateTeamRequest entrada para crear un equipo.
type CreateTeamRequest struct {
	Name string `json:"name" validate:"required,min=1,max=120"`
}

// AddMemberRequest entrada para agregar un usuario a un equipo.
type AddMemberRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
}

// TeamResponse salida de un equipo.
type TeamResponse struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// MembershipResponse salida de una membresía.
type MembershipResponse struct {
	TeamID    string    `json:"team_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
