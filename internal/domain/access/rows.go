package access

import "github.com/jhoicas/leadflow-api/internal/domain/entity"

// Nombres de entidad (etiquetas de métricas y logs).
const (
	EntityLead        = "lead"
	EntityApplication = "application"
	EntityTask        = "task"
	EntityUser        = "user"
	EntityTeam        = "team"
	EntityMembership  = "membership"
)

// Row es una fila objetivo de una decisión de acceso.
type Row interface {
	Tenant() string
	Entity() string
}

// LeadRow fila de leads.
type LeadRow struct {
	Lead *entity.Lead
}

// ApplicationRow fila de applications junto al dueño de su lead padre.
type ApplicationRow struct {
	Application *entity.Application
	LeadOwnerID string
}

// TaskRow fila de tasks junto al dueño del lead raíz (task → application → lead).
type TaskRow struct {
	Task        *entity.Task
	LeadOwnerID string
}

// UserRow fila de usuarios.
type UserRow struct {
	User *entity.User
}

// TeamRow fila de equipos.
type TeamRow struct {
	Team *entity.Team
}

// MembershipRow fila de membresías.
type MembershipRow struct {
	Membership *entity.Membership
}

func (r LeadRow) Tenant() string {
	if r.Lead == nil {
		return ""
	}
	return r.Lead.TenantID
}

func (r ApplicationRow) Tenant() string {
	if r.Application == nil {
		return ""
	}
	return r.Application.TenantID
}

func (r TaskRow) Tenant() string {
	if r.Task == nil {
		return ""
	}
	return r.Task.TenantID
}

func (r UserRow) Tenant() string {
	if r.User == nil {
		return ""
	}
	return r.User.TenantID
}

func (r TeamRow) Tenant() string {
	if r.Team == nil {
		return ""
	}
	return r.Team.TenantID
}

func (r MembershipRow) Tenant() string {
	if r.Membership == nil {
		return ""
	}
	return r.Membership.TenantID
}

func (LeadRow) Entity() string        { return EntityLead }
func (ApplicationRow) Entity() string { return EntityApplication }
func (TaskRow) Entity() string        { return EntityTask }
func (UserRow) Entity() string        { return EntityUser }
func (TeamRow) Entity() string        { return EntityTeam }
func (MembershipRow) Entity() string  { return EntityMembership }
