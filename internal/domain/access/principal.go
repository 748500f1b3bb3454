package access

import "github.com/jhoicas/leadflow-api/internal/domain/entity"

// Principal es el actor autenticado. Sus tres campos llegan firmados en el token
// de identidad; no es estado mutable dentro del núcleo.
type Principal struct {
	UserID   string
	TenantID string
	Role     string
}

// Valid informa si el principal está bien formado. Un principal inválido
// equivale a no autenticado: toda decisión lo deniega.
func (p Principal) Valid() bool {
	return p.UserID != "" && p.TenantID != "" && entity.IsValidRole(p.Role)
}

// IsAdmin informa si el principal es admin de su tenant.
func (p Principal) IsAdmin() bool { return p.Role == entity.RoleAdmin }

// IsCounselor informa si el principal es consejero.
func (p Principal) IsCounselor() bool { return p.Role == entity.RoleCounselor }
