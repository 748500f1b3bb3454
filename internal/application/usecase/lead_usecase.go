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

// LeadUseCase casos de uso de leads, siempre filtrados por el motor de acceso.
type LeadUseCase struct {
	repo  repository.LeadRepository
	guard *Guard
	now   func() time.Time
}

// NewLeadUseCase construye el caso de uso.
func NewLeadUseCase(repo repository.LeadRepository, guard *Guard) *LeadUseCase {
	return &LeadUseCase{repo: repo, guard: guard, now: time.Now}
}

// Create crea un lead en el tenant del principal. Sin OwnerID el dueño es el propio usuario.
// Equivale a INSERT con WITH CHECK: además del permiso de insert, la fila nueva
// debe ser legible por quien la crea, así un consejero no puede crear leads
// para un dueño fuera de sus equipos (ErrForbidden).
func (uc *LeadUseCase) Create(ctx context.Context, p access.Principal, in dto.CreateLeadRequest) (*dto.LeadResponse, error) {
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
	owner := in.OwnerID
	if owner == "" {
		owner = p.UserID
	}
	stage := in.Stage
	if stage == "" {
		stage = entity.LeadStageNew
	}
	now := uc.now().UTC()
	lead := &entity.Lead{
		ID:        uuid.New().String(),
		TenantID:  p.TenantID,
		OwnerID:   owner,
		Stage:     stage,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Phone:     in.Phone,
		Source:    in.Source,
		Notes:     in.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	// Insertar exige que la fila resultante también sea visible para un consejero.
	row := access.LeadRow{Lead: lead}
	if !uc.guard.Allow(p, dir, access.OpInsert, row) || !uc.guard.Allow(p, dir, access.OpRead, row) {
		return nil, domain.ErrForbidden
	}
	if err := uc.repo.Create(ctx, lead); err != nil {
		return nil, err
	}
	return toLeadResponse(lead), nil
}

// Get devuelve el lead si existe y es visible; en otro caso ErrNotFound.
func (uc *LeadUseCase) Get(ctx context.Context, p access.Principal, id string) (*dto.LeadResponse, error) {
	lead, _, err := uc.load(ctx, p, id, access.OpRead)
	if err != nil {
		return nil, err
	}
	return toLeadResponse(lead), nil
}

// List lista los leads visibles del tenant, opcionalmente filtrados por etapa.
func (uc *LeadUseCase) List(ctx context.Context, p access.Principal, stage string, page dto.PageRequest) (*dto.LeadListResponse, error) {
	if err := requireValid(p); err != nil {
		return nil, err
	}
	if stage != "" && !entity.IsValidLeadStage(stage) {
		return nil, domain.NewValidationError(domain.ReasonInvalidEnum, "stage", "stage inválido")
	}
	page.DefaultPage()
	dir, err := uc.guard.Snapshot(ctx, p)
	if err != nil {
		return nil, err
	}
	filter := repository.LeadFilter{Stage: stage, Limit: page.Limit, Offset: page.Offset}
	if !p.IsAdmin() {
		// La visibilidad se filtra antes de paginar; FilterReadable queda como segunda barrera.
		filter.OwnerIDs = dir.Peers(p.UserID)
	}
	leads, err := uc.repo.ListByTenant(ctx, p.TenantID, filter)
	if err != nil {
		return nil, err
	}
	rows := make([]access.LeadRow, 0, len(leads))
	for _, l := range leads {
		rows = append(rows, access.LeadRow{Lead: l})
	}
	visible := access.FilterReadable(p, dir, rows)
	out := &dto.LeadListResponse{
		Items: make([]dto.LeadResponse, 0, len(visible)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, r := range visible {
		out.Items = append(out.Items, *toLeadResponse(r.Lead))
	}
	return out, nil
}

// Update aplica cambios parciales. La fila previa y la nueva deben pasar la regla de update.
func (uc *LeadUseCase) Update(ctx context.Context, p access.Principal, id string, in dto.UpdateLeadRequest) (*dto.LeadResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	lead, dir, err := uc.load(ctx, p, id, access.OpRead)
	if err != nil {
		return nil, err
	}
	updated := *lead
	if in.OwnerID != nil {
		updated.OwnerID = *in.OwnerID
	}
	if in.Stage != nil {
		updated.Stage = *in.Stage
	}
	if in.FirstName != nil {
		updated.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		updated.LastName = *in.LastName
	}
	if in.Email != nil {
		updated.Email = *in.Email
	}
	if in.Phone != nil {
		updated.Phone = *in.Phone
	}
	if in.Source != nil {
		updated.Source = *in.Source
	}
	if in.Notes != nil {
		updated.Notes = *in.Notes
	}
	updated.UpdatedAt = uc.now().UTC()

	if !uc.guard.AllowUpdate(p, dir, access.LeadRow{Lead: lead}, access.LeadRow{Lead: &updated}) {
		return nil, domain.ErrNotFound
	}
	if err := uc.repo.Update(ctx, &updated); err != nil {
		return nil, err
	}
	return toLeadResponse(&updated), nil
}

// Delete borra el lead (solo admin). Applications y tasks caen en cascada.
func (uc *LeadUseCase) Delete(ctx context.Context, p access.Principal, id string) error {
	if _, _, err := uc.load(ctx, p, id, access.OpDelete); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, p.TenantID, id)
}

// load lee el lead y exige op sobre él. Ausente y denegado son indistinguibles.
func (uc *LeadUseCase) load(ctx context.Context, p access.Principal, id string, op access.Operation) (*entity.Lead, access.Directory, error) {
	if err := requireValid(p); err != nil {
		return nil, access.Directory{}, err
	}
	dir, err := uc.guard.Snapshot(ctx, p)
	if err != nil {
		return nil, dir, err
	}
	lead, err := uc.repo.GetByID(ctx, p.TenantID, id)
	if err != nil {
		return nil, dir, err
	}
	if lead == nil || !uc.guard.Allow(p, dir, op, access.LeadRow{Lead: lead}) {
		return nil, dir, domain.ErrNotFound
	}
	return lead, dir, nil
}

func toLeadResponse(l *entity.Lead) *dto.LeadResponse {
	return &dto.LeadResponse{
		ID:        l.ID,
		TenantID:  l.TenantID,
		OwnerID:   l.OwnerID,
		Stage:     l.Stage,
		FirstName: l.FirstName,
		LastName:  l.LastName,
		Email:     l.Email,
		Phone:     l.Phone,
		Source:    l.Source,
		Notes:     l.Notes,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}
