package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/leadflow-api/internal/domain"
	"github.com/jhoicas/leadflow-api/internal/domain/entity"
	"github.com/jhoicas/leadflow-api/internal/domain/repository"
)

var _ repository.ApplicationRepository = (*ApplicationRepo)(nil)

// ApplicationRepo implementación del puerto ApplicationRepository sobre PostgreSQL.
type ApplicationRepo struct {
	q Querier
}

// NewApplicationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewApplicationRepository(q Querier) *ApplicationRepo {
	return &ApplicationRepo{q: q}
}

const applicationSelect = `
	SELECT a.id, a.tenant_id, a.lead_id, a.status, a.program, a.counselor_id,
	       a.submitted_at, a.reviewed_at, a.decision, a.created_at, a.updated_at,
	       l.owner_id
	FROM applications a
	JOIN leads l ON l.id = a.lead_id AND l.tenant_id = a.tenant_id`

// Create persiste una nueva application. La FK compuesta (lead_id, tenant_id)
// impide colgarla de un lead de otro tenant.
func (r *ApplicationRepo) Create(ctx context.Context, a *entity.Application) error {
	query := `
		INSERT INTO applications (id, tenant_id, lead_id, status, program, counselor_id,
			submitted_at, reviewed_at, decision, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.TenantID, a.LeadID, a.Status, a.Program, a.CounselorID,
		a.SubmittedAt, a.ReviewedAt, a.Decision, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}

// GetByID obtiene una application del tenant junto al dueño del lead.
func (r *ApplicationRepo) GetByID(ctx context.Context, tenantID, id string) (*repository.ApplicationRecord, error) {
	rec, err := scanApplication(r.q.QueryRow(ctx, applicationSelect+` WHERE a.tenant_id = $1 AND a.id = $2`, tenantID, id))
	if err != nil {
		if isNoRows(err) || isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get application: %w", err)
	}
	return rec, nil
}

// ListByLead lista las applications de un lead.
func (r *ApplicationRepo) ListByLead(ctx context.Context, tenantID, leadID string) ([]*repository.ApplicationRecord, error) {
	rows, err := r.q.Query(ctx, applicationSelect+` WHERE a.tenant_id = $1 AND a.lead_id = $2 ORDER BY a.created_at DESC`, tenantID, leadID)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()
	var list []*repository.ApplicationRecord
	for rows.Next() {
		rec, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		list = append(list, rec)
	}
	return list, rows.Err()
}

// Update actualiza una application. lead_id y tenant_id no cambian.
func (r *ApplicationRepo) Update(ctx context.Context, a *entity.Application) error {
	query := `
		UPDATE applications SET status = $3, program = $4, counselor_id = $5,
			submitted_at = $6, reviewed_at = $7, decision = $8, updated_at = $9
		WHERE tenant_id = $1 AND id = $2`
	cmd, err := r.q.Exec(ctx, query,
		a.TenantID, a.ID, a.Status, a.Program, a.CounselorID,
		a.SubmittedAt, a.ReviewedAt, a.Decision, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update application: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina una application; sus tasks caen en cascada.
func (r *ApplicationRepo) Delete(ctx context.Context, tenantID, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM applications WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return fmt.Errorf("delete application: %w", err)
	}
	return nil
}

func scanApplication(row rowScanner) (*repository.ApplicationRecord, error) {
	var a entity.Application
	var owner string
	err := row.Scan(&a.ID, &a.TenantID, &a.LeadID, &a.Status, &a.Program, &a.CounselorID,
		&a.SubmittedAt, &a.ReviewedAt, &a.Decision, &a.CreatedAt, &a.UpdatedAt, &owner)
	if err != nil {
		return nil, err
	}
	return &repository.ApplicationRecord{Application: &a, LeadOwnerID: owner}, nil
}
