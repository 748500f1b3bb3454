package usecase

import (
	"time"

	"github.com/jhoicas/leadflow-api/internal/domain/entity"
)

const (
	tenantA = "tenant-a"
	tenantB = "tenant-b"
)

// fixedNow 2026-10-17 15:00 UTC (10:00 en UTC-5).
var fixedNow = time.Date(2026, 10, 17, 15, 0, 0, 0, time.UTC)

type fixture struct {
	store  *memStore
	guard  *Guard
	leads  *LeadUseCase
	apps   *ApplicationUseCase
	tasks  *TaskUseCase
	dir    *DirectoryUseCase
	bogota *time.Location
}

// newFixture arma el escenario:
//
//	tenant-a: root (admin); alice, bob, carol, dave (consejeros)
//	equipos:  T1 = {alice, bob}, T2 = {bob, carol}; dave sin equipo
//	leads:    L-alice, L-bob, L-carol, L-dave (dueño = nombre)
//	tenant-b: eve (consejera) con L-eve
func newFixture() *fixture {
	s := newMemStore()
	s.addUser(tenantA, "root", entity.RoleAdmin)
	for _, u := range []string{"alice", "bob", "carol", "dave"} {
		s.addUser(tenantA, u, entity.RoleCounselor)
	}
	s.addUser(tenantB, "eve", entity.RoleCounselor)
	s.addTeam(tenantA, "T1", "alice", "bob")
	s.addTeam(tenantA, "T2", "bob", "carol")
	for _, u := range []string{"alice", "bob", "carol", "dave"} {
		s.addLead(tenantA, "L-"+u, u)
	}
	s.addLead(tenantB, "L-eve", "eve")
	s.addApp(tenantA, "A-alice", "L-alice")
	s.addApp(tenantA, "A-carol", "L-carol")
	s.addApp(tenantB, "A-eve", "L-eve")

	guard := NewGuard(memTeams{s}, nil, nil)
	bogota := time.FixedZone("UTC-5", -5*3600)

	f := &fixture{
		store:  s,
		guard:  guard,
		leads:  NewLeadUseCase(memLeads{s}, guard),
		apps:   NewApplicationUseCase(memApps{s}, memLeads{s}, guard),
		tasks:  NewTaskUseCase(memTasks{s}, memApps{s}, guard, bogota),
		dir:    NewDirectoryUseCase(memUsers{s}, memTeams{s}, guard),
		bogota: bogota,
	}
	clock := func() time.Time { return fixedNow }
	f.leads.now = clock
	f.apps.now = clock
	f.tasks.now = clock
	f.dir.now = clock
	return f
}
