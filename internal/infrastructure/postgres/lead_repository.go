package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/leadflow-api/internal/domain"
	"github.com/jhoicas/leadflow-api/internal/domain/entity"
	"github.com/jhoicas/leadflow-api/internal/domain/repository"
)

var _ repository.LeadRepository = (*LeadRepo)(nil)

const leadColumns = `id, tenant_id, owner_id, stage, first_name, last_name, email, phone, source, notes, created_at, updated_at`

// LeadRepo implementación del puerto LeadRepository sobre PostgreSQL.
type LeadRepo struct {
	q Querier
}

// NewLeadRepository construye el adaptador de persistencia para leads.
func NewLeadRepository(q Querier) *LeadRepo {
	return &LeadRepo{q: q}
}

// Create persiste un nuevo lead.
func (r *LeadRepo) Create(ctx context.Context, l *entity.Lead) error {
	query := `
		INSERT INTO leads (` + leadColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		l.ID, l.TenantID, l.OwnerID, l.Stage, l.FirstName, l.LastName, l.Email, l.Phone,
		l.Source, l.Notes, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

// GetByID obtiene un lead del tenant.
func (r *LeadRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE tenant_id = $1 AND id = $2`
	l, err := scanLead(r.q.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		if isNoRows(err) || isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lead: %w", err)
	}
	return l, nil
}

// Update actualiza un lead existente. El tenant_id nunca se reescribe.
func (r *LeadRepo) Update(ctx context.Context, l *entity.Lead) error {
	query := `
		UPDATE leads SET owner_id = $3, stage = $4, first_name = $5, last_name = $6,
			email = $7, phone = $8, source = $9, notes = $10, updated_at = $11
		WHERE tenant_id = $1 AND id = $2`
	cmd, err := r.q.Exec(ctx, query,
		l.TenantID, l.ID, l.OwnerID, l.Stage, l.FirstName, l.LastName, l.Email, l.Phone,
		l.Source, l.Notes, l.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("update lead: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByTenant lista leads del tenant, opcionalmente filtrados por etapa y dueños.
// El filtro de dueños va en el WHERE para que LIMIT/OFFSET cuenten solo filas visibles.
func (r *LeadRepo) ListByTenant(ctx context.Context, tenantID string, f repository.LeadFilter) ([]*entity.Lead, error) {
	query := `
		SELECT ` + leadColumns + ` FROM leads
		WHERE tenant_id = $1 AND ($2 = '' OR stage = $2)
		  AND ($5::text[] IS NULL OR owner_id = ANY($5::text[]::uuid[]))
		ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, tenantID, f.Stage, f.Limit, f.Offset, f.OwnerIDs)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()
	var list []*entity.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// Delete elimina un lead; applications y tasks caen por ON DELETE CASCADE.
func (r *LeadRepo) Delete(ctx context.Context, tenantID, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM leads WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	return nil
}

func scanLead(row rowScanner) (*entity.Lead, error) {
	var l entity.Lead
	err := row.Scan(&l.ID, &l.TenantID, &l.OwnerID, &l.Stage, &l.FirstName, &l.LastName,
		&l.Email, &l.Phone, &l.Source, &l.Notes, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}
