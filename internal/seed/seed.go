// Package seed loads demo fixtures into a store.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"allmanager/internal/auth"
	"allmanager/internal/domain"
	"allmanager/internal/domain/models"
	"allmanager/internal/server"
)

//go:embed default.yaml
var defaultFixtures []byte

// Fixtures is the YAML document the seeder reads. Rows reference users by
// email and projects by name.
type Fixtures struct {
	Users        []UserFixture        `yaml:"users"`
	Projects     []ProjectFixture     `yaml:"projects"`
	Tasks        []TaskFixture        `yaml:"tasks"`
	Leads        []LeadFixture        `yaml:"leads"`
	Notes        []NoteFixture        `yaml:"notes"`
	Requirements []RequirementFixture `yaml:"requirements"`
}

type UserFixture struct {
	Name     string      `yaml:"name"`
	Email    string      `yaml:"email"`
	Password string      `yaml:"password"`
	Role     models.Role `yaml:"role"`
}

type ProjectFixture struct {
	Name        string               `yaml:"name"`
	Description string               `yaml:"description"`
	Status      models.ProjectStatus `yaml:"status"`
	CreatedBy   string               `yaml:"created_by"`
}

type TaskFixture struct {
	Project     string              `yaml:"project"`
	Title       string              `yaml:"title"`
	Description string              `yaml:"description"`
	Status      models.TaskStatus   `yaml:"status"`
	Priority    models.TaskPriority `yaml:"priority"`
	AssignedTo  string              `yaml:"assigned_to"`
	DueDate     string              `yaml:"due_date"`
}

type LeadFixture struct {
	Name   string            `yaml:"name"`
	Email  string            `yaml:"email"`
	Phone  string            `yaml:"phone"`
	Status models.LeadStatus `yaml:"status"`
	Notes  string            `yaml:"notes"`
}

type NoteFixture struct {
	Title     string `yaml:"title"`
	Content   string `yaml:"content"`
	CreatedBy string `yaml:"created_by"`
}

type RequirementFixture struct {
	Title       string                   `yaml:"title"`
	Description string                   `yaml:"description"`
	Status      models.RequirementStatus `yaml:"status"`
	CreatedBy   string                   `yaml:"created_by"`
}

// Default returns the built-in demo fixtures.
func Default() (*Fixtures, error) {
	return Parse(defaultFixtures)
}

// LoadFile reads fixtures from a YAML file.
func LoadFile(path string) (*Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	return &f, nil
}

// Seeder writes fixtures through the repositories.
type Seeder struct {
	stores server.Stores
	hasher *auth.PasswordHasher
	logger *slog.Logger
}

func NewSeeder(stores server.Stores, hasher *auth.PasswordHasher, logger *slog.Logger) *Seeder {
	return &Seeder{stores: stores, hasher: hasher, logger: logger}
}

// Summary counts the rows a Seed call created.
type Summary struct {
	Users, Projects, Tasks, Leads, Notes, Requirements int
}

// Seed inserts the fixtures. Users whose email already exists are reused, so
// the accounts survive repeated runs; every other row is inserted again.
func (s *Seeder) Seed(ctx context.Context, f *Fixtures) (Summary, error) {
	var sum Summary
	users := make(map[string]int64, len(f.Users))
	projects := make(map[string]int64, len(f.Projects))

	for _, u := range f.Users {
		email := strings.ToLower(strings.TrimSpace(u.Email))
		existing, err := s.stores.Users.GetByEmail(ctx, email)
		switch {
		case err == nil:
			users[email] = existing.ID
			s.logger.Info("user exists, skipping", "email", email)
			continue
		case !errors.Is(err, domain.ErrNotFound):
			return sum, fmt.Errorf("look up user %s: %w", email, err)
		}

		if err := auth.CheckPasswordPolicy(u.Password); err != nil {
			return sum, fmt.Errorf("user %s: %w", email, err)
		}
		hash, err := s.hasher.Hash(u.Password)
		if err != nil {
			return sum, fmt.Errorf("hash password for %s: %w", email, err)
		}
		role := u.Role
		if role == "" {
			role = models.RoleUser
		}
		user := &models.User{Name: u.Name, Email: email, PasswordHash: hash, Role: role}
		if err := s.stores.Users.Create(ctx, user); err != nil {
			return sum, fmt.Errorf("create user %s: %w", email, err)
		}
		users[email] = user.ID
		sum.Users++
	}

	ref := func(email string) (*int64, error) {
		if email == "" {
			return nil, nil
		}
		id, ok := users[strings.ToLower(email)]
		if !ok {
			return nil, fmt.Errorf("unknown user %q", email)
		}
		return &id, nil
	}

	for _, p := range f.Projects {
		createdBy, err := ref(p.CreatedBy)
		if err != nil {
			return sum, fmt.Errorf("project %s: %w", p.Name, err)
		}
		project := &models.Project{
			Name:        p.Name,
			Description: text(p.Description),
			Status:      orDefault(p.Status, models.ProjectActive),
			CreatedBy:   createdBy,
		}
		if err := s.stores.Projects.Create(ctx, project); err != nil {
			return sum, fmt.Errorf("create project %s: %w", p.Name, err)
		}
		projects[p.Name] = project.ID
		sum.Projects++
	}

	for _, t := range f.Tasks {
		projectID, ok := projects[t.Project]
		if !ok {
			return sum, fmt.Errorf("task %s: unknown project %q", t.Title, t.Project)
		}
		assignee, err := ref(t.AssignedTo)
		if err != nil {
			return sum, fmt.Errorf("task %s: %w", t.Title, err)
		}
		task := &models.Task{
			ProjectID:   projectID,
			Title:       t.Title,
			Description: text(t.Description),
			Status:      orDefault(t.Status, models.TaskTodo),
			Priority:    orDefault(t.Priority, models.PriorityMedium),
			AssignedTo:  assignee,
			DueDate:     text(t.DueDate),
		}
		if err := s.stores.Tasks.Create(ctx, task); err != nil {
			return sum, fmt.Errorf("create task %s: %w", t.Title, err)
		}
		sum.Tasks++
	}

	for _, l := range f.Leads {
		lead := &models.Lead{
			Name:   l.Name,
			Email:  text(strings.ToLower(l.Email)),
			Phone:  text(l.Phone),
			Status: orDefault(l.Status, models.LeadNew),
			Notes:  text(l.Notes),
		}
		if err := s.stores.Leads.Create(ctx, lead); err != nil {
			return sum, fmt.Errorf("create lead %s: %w", l.Name, err)
		}
		sum.Leads++
	}

	for _, n := range f.Notes {
		createdBy, err := ref(n.CreatedBy)
		if err != nil {
			return sum, fmt.Errorf("note %s: %w", n.Title, err)
		}
		note := &models.Note{Title: n.Title, Content: n.Content, CreatedBy: createdBy}
		if err := s.stores.Notes.Create(ctx, note); err != nil {
			return sum, fmt.Errorf("create note %s: %w", n.Title, err)
		}
		sum.Notes++
	}

	for _, r := range f.Requirements {
		createdBy, err := ref(r.CreatedBy)
		if err != nil {
			return sum, fmt.Errorf("requirement %s: %w", r.Title, err)
		}
		req := &models.Requirement{
			Title:       r.Title,
			Description: text(r.Description),
			Status:      orDefault(r.Status, models.RequirementOpen),
			CreatedBy:   createdBy,
		}
		if err := s.stores.Requirements.Create(ctx, req); err != nil {
			return sum, fmt.Errorf("create requirement %s: %w", r.Title, err)
		}
		sum.Requirements++
	}

	s.logger.Info("seed complete",
		"users", sum.Users,
		"projects", sum.Projects,
		"tasks", sum.Tasks,
		"leads", sum.Leads,
		"notes", sum.Notes,
		"requirements", sum.Requirements,
	)
	return sum, nil
}

func text(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func orDefault[T ~string](v, def T) T {
	if v == "" {
		return def
	}
	return v
}
