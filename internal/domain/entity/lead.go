package entity

import "time"

// Etapas del embudo. No se fuerza una máquina de estados: cualquier etapa
// conocida puede asignarse en cualquier momento.
const (
	LeadStageNew       = "new"
	LeadStageContacted = "contacted"
	LeadStageQualified = "qualified"
	LeadStageConverted = "converted"
	LeadStageLost      = "lost"
)

// Lead representa un cliente potencial, propiedad de exactamente un usuario.
type Lead struct {
	ID        string
	TenantID  string
	OwnerID   string
	Stage     string
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Source    string
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsValidLeadStage informa si stage es una etapa conocida.
func IsValidLeadStage(stage string) bool {
	switch stage {
	case LeadStageNew, LeadStageContacted, LeadStageQualified, LeadStageConverted, LeadStageLost:
		return true
	}
	return false
}
