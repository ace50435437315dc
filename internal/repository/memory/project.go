package memory

import (
	"context"
	"fmt"
	"sort"

	"allmanager/internal/domain"
	"allmanager/internal/domain/models"
	"allmanager/internal/domain/repositories"
)

// ProjectRepository implements repositories.ProjectRepository
type ProjectRepository struct {
	store *Store
}

func NewProjectRepository(store *Store) repositories.ProjectRepository {
	return &ProjectRepository{store: store}
}

func cloneProject(p *models.Project) *models.Project {
	c := *p
	c.Description = clonePtr(p.Description)
	c.CreatedBy = clonePtr(p.CreatedBy)
	return &c
}

func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if project.CreatedBy != nil {
		if _, ok := s.users[*project.CreatedBy]; !ok {
			return fmt.Errorf("creator no longer exists: %w", domain.ErrUnauthorized)
		}
	}

	now := s.now()
	project.ID = s.id("projects")
	project.CreatedAt, project.UpdatedAt = now, now
	s.projects[project.ID] = cloneProject(project)
	return nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (*models.Project, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.projects[id]
	if !ok {
		return nil, fmt.Errorf("project %d: %w", id, domain.ErrNotFound)
	}
	return cloneProject(p), nil
}

func (r *ProjectRepository) List(ctx context.Context) ([]models.Project, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	projects := make([]models.Project, 0, len(s.projects))
	for _, p := range s.projects {
		projects = append(projects, *cloneProject(p))
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].ID > projects[j].ID })
	return projects, nil
}

func (r *ProjectRepository) Update(ctx context.Context, id int64, patch *models.ProjectPatch) (*models.Project, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[id]
	if !ok {
		return nil, fmt.Errorf("project %d: %w", id, domain.ErrNotFound)
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.SetDescription {
		p.Description = clonePtr(patch.Description)
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if !patch.Empty() {
		p.UpdatedAt = s.now()
	}
	return cloneProject(p), nil
}

// Delete removes the project and its tasks.
func (r *ProjectRepository) Delete(ctx context.Context, id int64) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[id]; !ok {
		return fmt.Errorf("project %d: %w", id, domain.ErrNotFound)
	}
	delete(s.projects, id)
	for taskID, t := range s.tasks {
		if t.ProjectID == id {
			delete(s.tasks, taskID)
		}
	}
	return nil
}
