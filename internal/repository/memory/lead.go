package memory

import (
	"context"
	"fmt"
	"sort"

	"allmanager/internal/domain"
	"allmanager/internal/domain/models"
	"allmanager/internal/domain/repositories"
)

// LeadRepository implements repositories.LeadRepository
type LeadRepository struct {
	store *Store
}

func NewLeadRepository(store *Store) repositories.LeadRepository {
	return &LeadRepository{store: store}
}

func cloneLead(l *models.Lead) *models.Lead {
	c := *l
	c.Email = clonePtr(l.Email)
	c.Phone = clonePtr(l.Phone)
	c.Notes = clonePtr(l.Notes)
	return &c
}

func (r *LeadRepository) Create(ctx context.Context, lead *models.Lead) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	lead.ID = s.id("leads")
	lead.CreatedAt, lead.UpdatedAt = now, now
	s.leads[lead.ID] = cloneLead(lead)
	return nil
}

func (r *LeadRepository) GetByID(ctx context.Context, id int64) (*models.Lead, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.leads[id]
	if !ok {
		return nil, fmt.Errorf("lead %d: %w", id, domain.ErrNotFound)
	}
	return cloneLead(l), nil
}

func (r *LeadRepository) List(ctx context.Context) ([]models.Lead, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	leads := make([]models.Lead, 0, len(s.leads))
	for _, l := range s.leads {
		leads = append(leads, *cloneLead(l))
	}
	sort.Slice(leads, func(i, j int) bool { return leads[i].ID > leads[j].ID })
	return leads, nil
}

func (r *LeadRepository) Update(ctx context.Context, id int64, patch *models.LeadPatch) (*models.Lead, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.leads[id]
	if !ok {
		return nil, fmt.Errorf("lead %d: %w", id, domain.ErrNotFound)
	}
	if patch.Name != nil {
		l.Name = *patch.Name
	}
	if patch.SetEmail {
		l.Email = clonePtr(patch.Email)
	}
	if patch.SetPhone {
		l.Phone = clonePtr(patch.Phone)
	}
	if patch.Status != nil {
		l.Status = *patch.Status
	}
	if patch.SetNotes {
		l.Notes = clonePtr(patch.Notes)
	}
	if !patch.Empty() {
		l.UpdatedAt = s.now()
	}
	return cloneLead(l), nil
}

func (r *LeadRepository) Delete(ctx context.Context, id int64) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.leads[id]; !ok {
		return fmt.Errorf("lead %d: %w", id, domain.ErrNotFound)
	}
	delete(s.leads, id)
	return nil
}
