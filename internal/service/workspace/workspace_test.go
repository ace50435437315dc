package workspace

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"allmanager/internal/domain"
	"allmanager/internal/domain/models"
	"allmanager/internal/domain/services"
	"allmanager/internal/repository/memory"
)

type fixture struct {
	userID       int64
	projects     services.ProjectService
	tasks        services.TaskService
	leads        services.LeadService
	notes        services.NoteService
	requirements services.RequirementService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	store := memory.NewStore()

	users := memory.NewUserRepository(store)
	u := &models.User{Name: "Ada", Email: "ada@example.com", PasswordHash: "x", Role: models.RoleAdmin}
	require.NoError(t, users.Create(context.Background(), u))

	projectRepo := memory.NewProjectRepository(store)
	return &fixture{
		userID:       u.ID,
		projects:     NewProjectService(projectRepo, logger),
		tasks:        NewTaskService(memory.NewTaskRepository(store), projectRepo, logger),
		leads:        NewLeadService(memory.NewLeadRepository(store), logger),
		notes:        NewNoteService(memory.NewNoteRepository(store), logger),
		requirements: NewRequirementService(memory.NewRequirementRepository(store), logger),
	}
}

func ptr[T any](v T) *T { return &v }

func requireValidation(t *testing.T, err error, msg string) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation), "got %v", err)
	assert.Equal(t, msg, err.Error())
}

func (f *fixture) createProject(t *testing.T, name string) *models.Project {
	t.Helper()
	p, err := f.projects.CreateProject(context.Background(), &services.CreateProjectRequest{Name: name, CreatedBy: f.userID})
	require.NoError(t, err)
	return p
}

func TestProject_CreateDefaultsAndTrims(t *testing.T) {
	f := newFixture(t)

	p, err := f.projects.CreateProject(context.Background(), &services.CreateProjectRequest{
		Name:        "  Website relaunch  ",
		Description: ptr("   "),
		CreatedBy:   f.userID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Website relaunch", p.Name)
	assert.Nil(t, p.Description)
	assert.Equal(t, models.ProjectActive, p.Status)
	require.NotNil(t, p.CreatedBy)
	assert.Equal(t, f.userID, *p.CreatedBy)
}

func TestProject_CreateValidation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name    string
		req     services.CreateProjectRequest
		wantMsg string
	}{
		{"missing name", services.CreateProjectRequest{}, "name is required"},
		{"name too long", services.CreateProjectRequest{Name: strings.Repeat("n", 161)}, "name is required"},
		{"bad status", services.CreateProjectRequest{Name: "x", Status: ptr(models.ProjectStatus("ARCHIVED"))}, "Invalid status"},
		{"long description", services.CreateProjectRequest{Name: "x", Description: ptr(strings.Repeat("d", 4001))}, "Invalid description"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.CreatedBy = f.userID
			_, err := f.projects.CreateProject(context.Background(), &tt.req)
			requireValidation(t, err, tt.wantMsg)
		})
	}
}

func TestProject_UpdateAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.createProject(t, "Alpha")

	updated, err := f.projects.UpdateProject(ctx, p.ID, &services.UpdateProjectRequest{
		Description: models.Set("Phase one"),
		Status:      models.Set(models.ProjectOnHold),
	})
	require.NoError(t, err)
	assert.Equal(t, "Alpha", updated.Name)
	assert.Equal(t, "Phase one", *updated.Description)
	assert.Equal(t, models.ProjectOnHold, updated.Status)

	cleared, err := f.projects.UpdateProject(ctx, p.ID, &services.UpdateProjectRequest{Description: models.Null[string]()})
	require.NoError(t, err)
	assert.Nil(t, cleared.Description)

	_, err = f.projects.UpdateProject(ctx, p.ID, &services.UpdateProjectRequest{})
	requireValidation(t, err, "No changes provided")

	_, err = f.projects.UpdateProject(ctx, p.ID, &services.UpdateProjectRequest{Name: models.Null[string]()})
	requireValidation(t, err, "Invalid name")

	_, err = f.projects.UpdateProject(ctx, 999, &services.UpdateProjectRequest{Name: models.Set("x")})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	require.NoError(t, f.projects.DeleteProject(ctx, p.ID))
	assert.True(t, errors.Is(f.projects.DeleteProject(ctx, p.ID), domain.ErrNotFound))
}

func TestTask_CreateDefaults(t *testing.T) {
	f := newFixture(t)
	p := f.createProject(t, "Alpha")

	task, err := f.tasks.CreateTask(context.Background(), &services.CreateTaskRequest{
		ProjectID:  p.ID,
		Title:      "Write copy",
		AssignedTo: ptr(int64(0)),
		DueDate:    ptr("2025-06-30"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.TaskTodo, task.Status)
	assert.Equal(t, models.PriorityMedium, task.Priority)
	assert.Nil(t, task.AssignedTo)
	assert.Equal(t, "2025-06-30", *task.DueDate)
}

func TestTask_CreateValidation(t *testing.T) {
	f := newFixture(t)
	p := f.createProject(t, "Alpha")

	tests := []struct {
		name    string
		req     services.CreateTaskRequest
		wantMsg string
	}{
		{"missing project", services.CreateTaskRequest{Title: "x"}, "project_id and title are required"},
		{"missing title", services.CreateTaskRequest{ProjectID: p.ID, Title: " "}, "project_id and title are required"},
		{"unknown project", services.CreateTaskRequest{ProjectID: 999, Title: "x"}, "Project not found"},
		{"unknown assignee", services.CreateTaskRequest{ProjectID: p.ID, Title: "x", AssignedTo: ptr(int64(999))}, "Assignee not found"},
		{"bad priority", services.CreateTaskRequest{ProjectID: p.ID, Title: "x", Priority: ptr(models.TaskPriority("NOW"))}, "Invalid priority"},
		{"bad status", services.CreateTaskRequest{ProjectID: p.ID, Title: "x", Status: ptr(models.TaskStatus("WIP"))}, "Invalid status"},
		{"impossible date", services.CreateTaskRequest{ProjectID: p.ID, Title: "x", DueDate: ptr("2025-02-30")}, "Invalid due_date"},
		{"wrong date format", services.CreateTaskRequest{ProjectID: p.ID, Title: "x", DueDate: ptr("30/06/2025")}, "Invalid due_date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.tasks.CreateTask(context.Background(), &tt.req)
			requireValidation(t, err, tt.wantMsg)
		})
	}
}

func TestTask_ListProjectTasks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.createProject(t, "Alpha")
	b := f.createProject(t, "Beta")

	for _, title := range []string{"one", "two"} {
		_, err := f.tasks.CreateTask(ctx, &services.CreateTaskRequest{ProjectID: a.ID, Title: title})
		require.NoError(t, err)
	}
	_, err := f.tasks.CreateTask(ctx, &services.CreateTaskRequest{ProjectID: b.ID, Title: "other"})
	require.NoError(t, err)

	tasks, err := f.tasks.ListProjectTasks(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "two", tasks[0].Title)

	_, err = f.tasks.ListProjectTasks(ctx, 999)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	require.NoError(t, f.projects.DeleteProject(ctx, a.ID))
	all, err := f.tasks.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "other", all[0].Title)
}

func TestTask_Update(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.createProject(t, "Alpha")
	task, err := f.tasks.CreateTask(ctx, &services.CreateTaskRequest{ProjectID: p.ID, Title: "x", DueDate: ptr("2025-01-01")})
	require.NoError(t, err)

	updated, err := f.tasks.UpdateTask(ctx, task.ID, &services.UpdateTaskRequest{
		Status:     models.Set(models.TaskReview),
		AssignedTo: models.Set(f.userID),
		DueDate:    models.Null[string](),
	})
	require.NoError(t, err)
	assert.Equal(t, models.TaskReview, updated.Status)
	assert.Equal(t, f.userID, *updated.AssignedTo)
	assert.Nil(t, updated.DueDate)

	_, err = f.tasks.UpdateTask(ctx, task.ID, &services.UpdateTaskRequest{AssignedTo: models.Set(int64(42))})
	requireValidation(t, err, "Assignee not found")

	_, err = f.tasks.UpdateTask(ctx, task.ID, &services.UpdateTaskRequest{Title: models.Set("")})
	requireValidation(t, err, "Invalid title")
}

func TestLead_CreateAndClear(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	lead, err := f.leads.CreateLead(ctx, &services.CreateLeadRequest{
		Name:  "Acme",
		Email: ptr(" Sales@Acme.COM "),
		Phone: ptr("+1 555 0100"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.LeadNew, lead.Status)
	assert.Equal(t, "sales@acme.com", *lead.Email)

	updated, err := f.leads.UpdateLead(ctx, lead.ID, &services.UpdateLeadRequest{
		Email:  models.Set(""),
		Phone:  models.Null[string](),
		Status: models.Set(models.LeadQualified),
	})
	require.NoError(t, err)
	assert.Nil(t, updated.Email)
	assert.Nil(t, updated.Phone)
	assert.Equal(t, models.LeadQualified, updated.Status)
}

func TestLead_Validation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name    string
		req     services.CreateLeadRequest
		wantMsg string
	}{
		{"missing name", services.CreateLeadRequest{}, "name is required"},
		{"bad email", services.CreateLeadRequest{Name: "x", Email: ptr("nope")}, "Invalid email"},
		{"long phone", services.CreateLeadRequest{Name: "x", Phone: ptr(strings.Repeat("1", 41))}, "Invalid phone"},
		{"bad status", services.CreateLeadRequest{Name: "x", Status: ptr(models.LeadStatus("HOT"))}, "Invalid status"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.leads.CreateLead(context.Background(), &tt.req)
			requireValidation(t, err, tt.wantMsg)
		})
	}
}

func TestNote_Lifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.notes.CreateNote(ctx, &services.CreateNoteRequest{Title: "Only title", CreatedBy: f.userID})
	requireValidation(t, err, "title and content are required")

	note, err := f.notes.CreateNote(ctx, &services.CreateNoteRequest{Title: "Kickoff", Content: "Agenda", CreatedBy: f.userID})
	require.NoError(t, err)

	updated, err := f.notes.UpdateNote(ctx, note.ID, &services.UpdateNoteRequest{Content: models.Set("Minutes")})
	require.NoError(t, err)
	assert.Equal(t, "Kickoff", updated.Title)
	assert.Equal(t, "Minutes", updated.Content)

	_, err = f.notes.UpdateNote(ctx, note.ID, &services.UpdateNoteRequest{Content: models.Null[string]()})
	requireValidation(t, err, "Invalid content")

	require.NoError(t, f.notes.DeleteNote(ctx, note.ID))
	_, err = f.notes.GetNote(ctx, note.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestRequirement_Lifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.requirements.CreateRequirement(ctx, &services.CreateRequirementRequest{CreatedBy: f.userID})
	requireValidation(t, err, "title is required")

	r, err := f.requirements.CreateRequirement(ctx, &services.CreateRequirementRequest{Title: "SSO", CreatedBy: f.userID})
	require.NoError(t, err)
	assert.Equal(t, models.RequirementOpen, r.Status)

	updated, err := f.requirements.UpdateRequirement(ctx, r.ID, &services.UpdateRequirementRequest{
		Status: models.Set(models.RequirementDone),
	})
	require.NoError(t, err)
	assert.Equal(t, models.RequirementDone, updated.Status)

	_, err = f.requirements.UpdateRequirement(ctx, r.ID, &services.UpdateRequirementRequest{
		Status: models.Set(models.RequirementStatus("CLOSED")),
	})
	requireValidation(t, err, "Invalid status")

	list, err := f.requirements.ListRequirements(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
