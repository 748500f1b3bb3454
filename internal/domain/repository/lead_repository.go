package repository

import (
	"context"

	"github.com/jhoicas/leadflow-api/internal/domain/entity"
)

// LeadFilter filtros de listado de leads.
type LeadFilter struct {
	Stage string
	// OwnerIDs restringe a leads de esos dueños; nil = sin restricción.
	// Se aplica antes de paginar.
	OwnerIDs []string
	Limit    int
	Offset   int
}

// LeadRepository define el puerto de persistencia para Lead.
// Todas las operaciones van acotadas por tenantID.
type LeadRepository interface {
	Create(ctx context.Context, lead *entity.Lead) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.Lead, error)
	Update(ctx context.Context, lead *entity.Lead) error
	ListByTenant(ctx context.Context, tenantID string, f LeadFilter) ([]*entity.Lead, error)
	// Delete borra el lead; applications y tasks caen en cascada en la DB.
	Delete(ctx context.Context, tenantID, id string) error
}
