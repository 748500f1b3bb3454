package repository

import (
	"context"

	"github.com/jhoicas/leadflow-api/internal/domain/entity"
)

// ApplicationRecord application junto al dueño de su lead padre (para decidir acceso).
type ApplicationRecord struct {
	Application *entity.Application
	LeadOwnerID string
}

// ApplicationRepository define el puerto de persistencia para Application.
type ApplicationRepository interface {
	Create(ctx context.Context, app *entity.Application) error
	GetByID(ctx context.Context, tenantID, id string) (*ApplicationRecord, error)
	ListByLead(ctx context.Context, tenantID, leadID string) ([]*ApplicationRecord, error)
	Update(ctx context.Context, app *entity.Application) error
	Delete(ctx context.Context, tenantID, id string) error
}
