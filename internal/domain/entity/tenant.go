package entity

import "time"

// Tenant representa una organización: frontera de aislamiento de todos los datos.
type Tenant struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
