package entity

import "time"

// Team agrupa usuarios de un mismo tenant. Dos usuarios son compañeros
// si comparten al menos un equipo.
type Team struct {
	ID        string
	TenantID  string
	Name      string
	CreatedAt time.Time
}

// Membership relación muchos-a-muchos usuario ↔ equipo.
type Membership struct {
	UserID    string
	TeamID    string
	TenantID  string
	CreatedAt time.Time
}
