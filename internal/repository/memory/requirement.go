package memory

import (
	"context"
	"fmt"
	"sort"

	"allmanager/internal/domain"
	"allmanager/internal/domain/models"
	"allmanager/internal/domain/repositories"
)

// RequirementRepository implements repositories.RequirementRepository
type RequirementRepository struct {
	store *Store
}

func NewRequirementRepository(store *Store) repositories.RequirementRepository {
	return &RequirementRepository{store: store}
}

func cloneRequirement(q *models.Requirement) *models.Requirement {
	c := *q
	c.Description = clonePtr(q.Description)
	c.CreatedBy = clonePtr(q.CreatedBy)
	return &c
}

func (r *RequirementRepository) Create(ctx context.Context, req *models.Requirement) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if req.CreatedBy != nil {
		if _, ok := s.users[*req.CreatedBy]; !ok {
			return fmt.Errorf("creator no longer exists: %w", domain.ErrUnauthorized)
		}
	}

	now := s.now()
	req.ID = s.id("requirements")
	req.CreatedAt, req.UpdatedAt = now, now
	s.requirements[req.ID] = cloneRequirement(req)
	return nil
}

func (r *RequirementRepository) GetByID(ctx context.Context, id int64) (*models.Requirement, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	q, ok := s.requirements[id]
	if !ok {
		return nil, fmt.Errorf("requirement %d: %w", id, domain.ErrNotFound)
	}
	return cloneRequirement(q), nil
}

func (r *RequirementRepository) List(ctx context.Context) ([]models.Requirement, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	reqs := make([]models.Requirement, 0, len(s.requirements))
	for _, q := range s.requirements {
		reqs = append(reqs, *cloneRequirement(q))
	}
	sort.Slice(reqs, func(i, j int) bool { return reqs[i].ID > reqs[j].ID })
	return reqs, nil
}

func (r *RequirementRepository) Update(ctx context.Context, id int64, patch *models.RequirementPatch) (*models.Requirement, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.requirements[id]
	if !ok {
		return nil, fmt.Errorf("requirement %d: %w", id, domain.ErrNotFound)
	}
	if patch.Title != nil {
		q.Title = *patch.Title
	}
	if patch.SetDescription {
		q.Description = clonePtr(patch.Description)
	}
	if patch.Status != nil {
		q.Status = *patch.Status
	}
	if !patch.Empty() {
		q.UpdatedAt = s.now()
	}
	return cloneRequirement(q), nil
}

func (r *RequirementRepository) Delete(ctx context.Context, id int64) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.requirements[id]; !ok {
		return fmt.Errorf("requirement %d: %w", id, domain.ErrNotFound)
	}
	delete(s.requirements, id)
	return nil
}
