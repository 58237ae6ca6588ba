package services

import "sync"

// projectLocks serializes ledger-touching transitions per project. The unit
// ledger and the status commit must happen under one mutual-exclusion scope
// or concurrent bookings could both pass the availability check.
type projectLocks struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

// NewProjectLocks creates the lock set shared by the review, booking and
// withdrawal services
func NewProjectLocks() *projectLocks {
	return &projectLocks{locks: make(map[uint]*sync.Mutex)}
}

// Lock acquires the lock for a project, creating it on first use
func (p *projectLocks) Lock(projectID uint) func() {
	p.mu.Lock()
	l, ok := p.locks[projectID]
	if !ok {
		l = &sync.Mutex{}
		p.locks[projectID] = l
	}
	p.mu.Unlock()

	l.Lock()
	return l.Unlock
}
