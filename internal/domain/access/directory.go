package access

import "sort"

type teamSet map[string]struct{}

// Directory es la foto de membresías de equipo calculada una vez por petición.
// Solo se consulta; nunca toca el almacenamiento.
type Directory struct {
	teams map[string]teamSet // userID → equipos
}

// Pair es un hecho (usuario, equipo) leído del directorio.
type Pair struct {
	UserID string
	TeamID string
}

// NewDirectory construye la foto a partir de pares (usuario, equipo).
func NewDirectory(pairs []Pair) Directory {
	d := Directory{teams: make(map[string]teamSet)}
	for _, p := range pairs {
		if p.UserID == "" || p.TeamID == "" {
			continue
		}
		set, ok := d.teams[p.UserID]
		if !ok {
			set = make(teamSet)
			d.teams[p.UserID] = set
		}
		set[p.TeamID] = struct{}{}
	}
	return d
}

// IsMember informa si userID pertenece al equipo teamID.
func (d Directory) IsMember(userID, teamID string) bool {
	_, ok := d.teams[userID][teamID]
	return ok
}

// Teammates informa si a y b comparten al menos un equipo. Un solo salto,
// simétrico, sin clausura transitiva.
func (d Directory) Teammates(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	ta, tb := d.teams[a], d.teams[b]
	if len(tb) < len(ta) {
		ta, tb = tb, ta
	}
	for id := range ta {
		if _, ok := tb[id]; ok {
			return true
		}
	}
	return false
}

// Peers devuelve userID y todos los usuarios que comparten equipo con él,
// ordenados. Es el conjunto de dueños cuyas filas ve un consejero.
func (d Directory) Peers(userID string) []string {
	if userID == "" {
		return nil
	}
	out := []string{userID}
	for other := range d.teams {
		if other != userID && d.Teammates(userID, other) {
			out = append(out, other)
		}
	}
	sort.Strings(out)
	return out
}
