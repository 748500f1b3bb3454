// Package access implementa el motor de autorización por fila: predicados puros
// sobre (principal, fila) compuestos por entidad, equivalentes a políticas RLS.
//
// Orden de evaluación:
//  1. principal bien formado (si no, denegar);
//  2. tenant de la fila == tenant del principal (si no, denegar; nunca se salta);
//  3. regla de la entidad y operación.
//
// Las reglas de lectura son más amplias que las de escritura en Application y
// Task: el equipo da visibilidad, no permiso de modificación.
package access

// Operation operación solicitada sobre una fila.
type Operation string

const (
	OpRead   Operation = "read"
	OpInsert Operation = "insert"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Decide devuelve true si p puede ejecutar op sobre row.
func Decide(p Principal, dir Directory, op Operation, row Row) bool {
	if !p.Valid() || row == nil {
		return false
	}
	tenant := row.Tenant()
	if tenant == "" || tenant != p.TenantID {
		return false
	}

	switch r := row.(type) {
	case LeadRow:
		return decideLead(p, dir, op, r)
	case ApplicationRow:
		return decideApplication(p, dir, op, r)
	case TaskRow:
		return decideTask(p, dir, op, r)
	case UserRow:
		return decideDirectory(p, op, r.User.ID == p.UserID)
	case TeamRow:
		return decideDirectory(p, op, dir.IsMember(p.UserID, r.Team.ID))
	case MembershipRow:
		return decideDirectory(p, op, r.Membership.UserID == p.UserID)
	}
	return false
}

// DecideUpdate aplica la semántica USING + WITH CHECK de una actualización:
// la fila previa y la nueva deben pasar la regla de update y el tenant no
// puede cambiar, ni siquiera para admin.
func DecideUpdate(p Principal, dir Directory, before, after Row) bool {
	if before == nil || after == nil {
		return false
	}
	if before.Entity() != after.Entity() || before.Tenant() != after.Tenant() {
		return false
	}
	return Decide(p, dir, OpUpdate, before) && Decide(p, dir, OpUpdate, after)
}

// canSeeOwnedBy regla de visibilidad de consejero: dueño o compañero del dueño.
func canSeeOwnedBy(p Principal, dir Directory, ownerID string) bool {
	if ownerID == "" {
		return false
	}
	return ownerID == p.UserID || dir.Teammates(p.UserID, ownerID)
}

func decideLead(p Principal, dir Directory, op Operation, r LeadRow) bool {
	if r.Lead == nil {
		return false
	}
	if p.IsAdmin() {
		return true
	}
	switch op {
	case OpRead, OpUpdate:
		return canSeeOwnedBy(p, dir, r.Lead.OwnerID)
	case OpInsert:
		return p.IsCounselor()
	}
	return false
}

func decideApplication(p Principal, dir Directory, op Operation, r ApplicationRow) bool {
	if r.Application == nil {
		return false
	}
	if p.IsAdmin() {
		return true
	}
	switch op {
	case OpRead:
		return canSeeOwnedBy(p, dir, r.LeadOwnerID)
	case OpInsert:
		return p.IsCounselor()
	case OpUpdate:
		// Solo el dueño directo del lead; el equipo no alcanza.
		return r.LeadOwnerID != "" && r.LeadOwnerID == p.UserID
	}
	return false
}

func decideTask(p Principal, dir Directory, op Operation, r TaskRow) bool {
	if r.Task == nil {
		return false
	}
	if p.IsAdmin() {
		return true
	}
	assignedToSelf := r.Task.AssignedTo != nil && *r.Task.AssignedTo == p.UserID
	switch op {
	case OpRead:
		return assignedToSelf || canSeeOwnedBy(p, dir, r.LeadOwnerID)
	case OpInsert:
		return p.IsCounselor()
	case OpUpdate:
		// Sin herencia por propiedad del lead.
		return assignedToSelf
	}
	return false
}

// decideDirectory reglas de users/teams/memberships: admin lee y escribe
// dentro de su tenant; consejero solo lee sus propias filas.
func decideDirectory(p Principal, op Operation, ownRow bool) bool {
	if p.IsAdmin() {
		return true
	}
	return op == OpRead && ownRow
}

// FilterReadable devuelve las filas de rows que p puede leer, en el mismo orden.
func FilterReadable[R Row](p Principal, dir Directory, rows []R) []R {
	out := make([]R, 0, len(rows))
	for _, r := range rows {
		if Decide(p, dir, OpRead, r) {
			out = append(out, r)
		}
	}
	return out
}
