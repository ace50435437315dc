package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"allmanager/internal/domain"
	"allmanager/internal/domain/models"
	"allmanager/internal/domain/repositories"
)

// UserRepository implements repositories.UserRepository
type UserRepository struct {
	store *Store
}

func NewUserRepository(store *Store) repositories.UserRepository {
	return &UserRepository{store: store}
}

// emailTaken reports whether another user holds email. Caller holds mu.
func (r *UserRepository) emailTaken(email string, exceptID int64) bool {
	for id, u := range r.store.users {
		if id != exceptID && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.emailTaken(user.Email, 0) {
		return &domain.ConflictError{Message: "Email already in use", ResourceType: "user"}
	}

	now := s.now()
	user.ID = s.id("users")
	user.CreatedAt, user.UpdatedAt = now, now
	u := *user
	s.users[user.ID] = &u
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	u := *row
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, row := range s.users {
		if strings.EqualFold(row.Email, email) {
			u := *row
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user with email: %w", domain.ErrNotFound)
}

func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]models.User, 0, len(s.users))
	for _, row := range s.users {
		users = append(users, *row)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID > users[j].ID })
	return users, nil
}

func (r *UserRepository) Update(ctx context.Context, id int64, patch *models.UserPatch) (*models.User, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	if patch.Email != nil && r.emailTaken(*patch.Email, id) {
		return nil, &domain.ConflictError{Message: "Email already in use", ResourceType: "user"}
	}

	if patch.Name != nil {
		row.Name = *patch.Name
	}
	if patch.Email != nil {
		row.Email = *patch.Email
	}
	if patch.Role != nil {
		row.Role = *patch.Role
	}
	if patch.PasswordHash != nil {
		row.PasswordHash = *patch.PasswordHash
	}
	if !patch.Empty() {
		row.UpdatedAt = s.now()
	}

	u := *row
	return &u, nil
}

// Delete removes the user, unassigns their tasks and clears creator references.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	delete(s.users, id)

	for _, t := range s.tasks {
		if t.AssignedTo != nil && *t.AssignedTo == id {
			t.AssignedTo = nil
		}
	}
	for _, p := range s.projects {
		if p.CreatedBy != nil && *p.CreatedBy == id {
			p.CreatedBy = nil
		}
	}
	for _, n := range s.notes {
		if n.CreatedBy != nil && *n.CreatedBy == id {
			n.CreatedBy = nil
		}
	}
	for _, q := range s.requirements {
		if q.CreatedBy != nil && *q.CreatedBy == id {
			q.CreatedBy = nil
		}
	}
	return nil
}

func (r *UserRepository) CountAdmins(ctx context.Context) (int, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, u := range s.users {
		if u.Role == models.RoleAdmin {
			count++
		}
	}
	return count, nil
}
