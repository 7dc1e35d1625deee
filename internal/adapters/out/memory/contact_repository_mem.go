package memory

import (
	"context"
	"sync"
	"time"

	contactdom "storefront/internal/domain/contact"
)

// ContactRepositoryMem keeps the contact settings in process.
type ContactRepositoryMem struct {
	mu   sync.RWMutex
	info contactdom.Info
}

var _ contactdom.Repository = (*ContactRepositoryMem)(nil)

func NewContactRepositoryMem() *ContactRepositoryMem {
	return &ContactRepositoryMem{}
}

func (r *ContactRepositoryMem) Get(_ context.Context) (contactdom.Info, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.info, nil
}

func (r *ContactRepositoryMem) Save(_ context.Context, info contactdom.Info) (contactdom.Info, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	info = info.Normalize()
	info.UpdatedAt = &now
	r.info = info
	return info, nil
}
