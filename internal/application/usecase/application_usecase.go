package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/leadflow-api/internal/application/dto"
	"github.com/jhoicas/leadflow-api/internal/domain"
	"github.com/jhoicas/leadflow-api/internal/domain/access"
	"github.com/jhoicas/leadflow-api/internal/domain/entity"
	"github.com/jhoicas/leadflow-api/internal/domain/repository"
)

// ApplicationUseCase casos de uso de applications. La visibilidad se hereda
// del dueño del lead padre; modificar exige ser ese dueño (o admin).
type ApplicationUseCase struct {
	repo  repository.ApplicationRepository
	leads repository.LeadRepository
	guard *Guard
	now   func() time.Time
}

// NewApplicationUseCase construye el caso de uso.
func NewApplicationUseCase(repo repository.ApplicationRepository, leads repository.LeadRepository, guard *Guard) *ApplicationUseCase {
	return &ApplicationUseCase{repo: repo, leads: leads, guard: guard, now: time.Now}
}

// Create crea una application bajo leadID. El lead debe existir y ser visible.
func (uc *ApplicationUseCase) Create(ctx context.Context, p access.Principal, leadID string, in dto.CreateApplicationRequest) (*dto.ApplicationResponse, error) {
	if err := requireValid(p); err != nil {
		return nil, err
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	dir, err := uc.guard.Snapshot(ctx, p)
	if err != nil {
		return nil, err
	}
	lead, err := uc.leads.GetByID(ctx, p.TenantID, leadID)
	if err != nil {
		return nil, err
	}
	if lead == nil || !uc.guard.Allow(p, dir, access.OpRead, access.LeadRow{Lead: lead}) {
		return nil, domain.ErrNotFound
	}
	status := in.Status
	if status == "" {
		status = entity.ApplicationStatusDraft
	}
	now := uc.now().UTC()
	app := &entity.Application{
		ID:          uuid.New().String(),
		TenantID:    lead.TenantID,
		LeadID:      lead.ID,
		Status:      status,
		Program:     in.Program,
		CounselorID: in.CounselorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if status == entity.ApplicationStatusSubmitted {
		app.SubmittedAt = &now
	}
	if !uc.guard.Allow(p, dir, access.OpInsert, access.ApplicationRow{Application: app, LeadOwnerID: lead.OwnerID}) {
		return nil, domain.ErrForbidden
	}
	if err := uc.repo.Create(ctx, app); err != nil {
		return nil, err
	}
	return toApplicationResponse(app), nil
}

// Get devuelve la application si es visible.
func (uc *ApplicationUseCase) Get(ctx context.Context, p access.Principal, id string) (*dto.ApplicationResponse, error) {
	rec, _, err := uc.load(ctx, p, id, access.OpRead)
	if err != nil {
		return nil, err
	}
	return toApplicationResponse(rec.Application), nil
}

// ListByLead lista las applications visibles de un lead visible.
func (uc *ApplicationUseCase) ListByLead(ctx context.Context, p access.Principal, leadID string) ([]dto.ApplicationResponse, error) {
	if err := requireValid(p); err != nil {
		return nil, err
	}
	dir, err := uc.guard.Snapshot(ctx, p)
	if err != nil {
		return nil, err
	}
	lead, err := uc.leads.GetByID(ctx, p.TenantID, leadID)
	if err != nil {
		return nil, err
	}
	if lead == nil || !uc.guard.Allow(p, dir, access.OpRead, access.LeadRow{Lead: lead}) {
		return nil, domain.ErrNotFound
	}
	recs, err := uc.repo.ListByLead(ctx, p.TenantID, leadID)
	if err != nil {
		return nil, err
	}
	rows := make([]access.ApplicationRow, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, access.ApplicationRow{Application: r.Application, LeadOwnerID: r.LeadOwnerID})
	}
	out := make([]dto.ApplicationResponse, 0, len(rows))
	for _, r := range access.FilterReadable(p, dir, rows) {
		out = append(out, *toApplicationResponse(r.Application))
	}
	return out, nil
}

// Update aplica cambios parciales. Los compañeros de equipo ven la fila pero no pueden modificarla.
func (uc *ApplicationUseCase) Update(ctx context.Context, p access.Principal, id string, in dto.UpdateApplicationRequest) (*dto.ApplicationResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	rec, dir, err := uc.load(ctx, p, id, access.OpRead)
	if err != nil {
		return nil, err
	}
	updated := *rec.Application
	if in.Program != nil {
		updated.Program = *in.Program
	}
	if in.Status != nil {
		updated.Status = *in.Status
	}
	if in.CounselorID != nil {
		updated.CounselorID = in.CounselorID
	}
	if in.SubmittedAt != nil {
		updated.SubmittedAt = in.SubmittedAt
	}
	if in.ReviewedAt != nil {
		updated.ReviewedAt = in.ReviewedAt
	}
	if in.Decision != nil {
		updated.Decision = in.Decision
	}
	now := uc.now().UTC()
	if updated.Status == entity.ApplicationStatusSubmitted && updated.SubmittedAt == nil {
		updated.SubmittedAt = &now
	}
	updated.UpdatedAt = now

	before := access.ApplicationRow{Application: rec.Application, LeadOwnerID: rec.LeadOwnerID}
	after := access.ApplicationRow{Application: &updated, LeadOwnerID: rec.LeadOwnerID}
	if !uc.guard.AllowUpdate(p, dir, before, after) {
		return nil, domain.ErrNotFound
	}
	if err := uc.repo.Update(ctx, &updated); err != nil {
		return nil, err
	}
	return toApplicationResponse(&updated), nil
}

// Delete borra la application (solo admin); sus tasks caen en cascada.
func (uc *ApplicationUseCase) Delete(ctx context.Context, p access.Principal, id string) error {
	if _, _, err := uc.load(ctx, p, id, access.OpDelete); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, p.TenantID, id)
}

func (uc *ApplicationUseCase) load(ctx context.Context, p access.Principal, id string, op access.Operation) (*repository.ApplicationRecord, access.Directory, error) {
	if err := requireValid(p); err != nil {
		return nil, access.Directory{}, err
	}
	dir, err := uc.guard.Snapshot(ctx, p)
	if err != nil {
		return nil, dir, err
	}
	rec, err := uc.repo.GetByID(ctx, p.TenantID, id)
	if err != nil {
		return nil, dir, err
	}
	if rec == nil || !uc.guard.Allow(p, dir, op, access.ApplicationRow{Application: rec.Application, LeadOwnerID: rec.LeadOwnerID}) {
		return nil, dir, domain.ErrNotFound
	}
	return rec, dir, nil
}

func toApplicationResponse(a *entity.Application) *dto.ApplicationResponse {
	return &dto.ApplicationResponse{
		ID:          a.ID,
		TenantID:    a.TenantID,
		LeadID:      a.LeadID,
		Status:      a.Status,
		Program:     a.Program,
		CounselorID: a.CounselorID,
		SubmittedAt: a.SubmittedAt,
		ReviewedAt:  a.ReviewedAt,
		Decision:    a.Decision,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}
