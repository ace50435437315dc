package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"allmanager/internal/domain"
	"allmanager/internal/domain/models"
)

func ptr[T any](v T) *T { return &v }

func seedUser(t *testing.T, store *Store, email string, role models.Role) *models.User {
	t.Helper()
	u := &models.User{Name: "User", Email: email, PasswordHash: "hash", Role: role}
	require.NoError(t, NewUserRepository(store).Create(context.Background(), u))
	return u
}

func TestUserRepository_EmailUniqueIgnoresCase(t *testing.T) {
	store := NewStore()
	users := NewUserRepository(store)
	ctx := context.Background()

	first := seedUser(t, store, "ada@example.com", models.RoleAdmin)

	err := users.Create(ctx, &models.User{Name: "Other", Email: "ADA@example.com", Role: models.RoleUser})
	assert.ErrorIs(t, err, domain.ErrConflict)

	second := seedUser(t, store, "bob@example.com", models.RoleUser)
	_, err = users.Update(ctx, second.ID, &models.UserPatch{Email: ptr("Ada@Example.com")})
	assert.ErrorIs(t, err, domain.ErrConflict)

	// Re-saving your own email is not a conflict
	_, err = users.Update(ctx, first.ID, &models.UserPatch{Email: ptr("ada@example.com")})
	assert.NoError(t, err)
}

func TestUserRepository_ListNewestFirst(t *testing.T) {
	store := NewStore()
	seedUser(t, store, "a@example.com", models.RoleAdmin)
	seedUser(t, store, "b@example.com", models.RoleUser)
	seedUser(t, store, "c@example.com", models.RoleUser)

	users, err := NewUserRepository(store).List(context.Background())

	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "c@example.com", users[0].Email)
	assert.Equal(t, "a@example.com", users[2].Email)
}

func TestUserRepository_DeleteUnassignsTasks(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	seedUser(t, store, "admin@example.com", models.RoleAdmin)
	worker := seedUser(t, store, "worker@example.com", models.RoleUser)

	project := &models.Project{Name: "Apollo", Status: models.ProjectActive, CreatedBy: &worker.ID}
	require.NoError(t, NewProjectRepository(store).Create(ctx, project))
	task := &models.Task{ProjectID: project.ID, Title: "Launch", Status: models.TaskTodo, Priority: models.PriorityHigh, AssignedTo: &worker.ID}
	require.NoError(t, NewTaskRepository(store).Create(ctx, task))

	require.NoError(t, NewUserRepository(store).Delete(ctx, worker.ID))

	got, err := NewTaskRepository(store).GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Nil(t, got.AssignedTo)

	p, err := NewProjectRepository(store).GetByID(ctx, project.ID)
	require.NoError(t, err)
	assert.Nil(t, p.CreatedBy)

	count, err := NewUserRepository(store).CountAdmins(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestProjectRepository_DeleteCascadesTasks(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	projects := NewProjectRepository(store)
	tasks := NewTaskRepository(store)

	keep := &models.Project{Name: "Keep", Status: models.ProjectActive}
	drop := &models.Project{Name: "Drop", Status: models.ProjectActive}
	require.NoError(t, projects.Create(ctx, keep))
	require.NoError(t, projects.Create(ctx, drop))
	require.NoError(t, tasks.Create(ctx, &models.Task{ProjectID: keep.ID, Title: "a", Status: models.TaskTodo, Priority: models.PriorityLow}))
	require.NoError(t, tasks.Create(ctx, &models.Task{ProjectID: drop.ID, Title: "b", Status: models.TaskTodo, Priority: models.PriorityLow}))

	require.NoError(t, projects.Delete(ctx, drop.ID))

	all, err := tasks.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, keep.ID, all[0].ProjectID)

	assert.ErrorIs(t, projects.Delete(ctx, drop.ID), domain.ErrNotFound)
}

func TestTaskRepository_ReferenceChecks(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	tasks := NewTaskRepository(store)

	err := tasks.Create(ctx, &models.Task{ProjectID: 404, Title: "x"})
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "Project not found", err.Error())

	project := &models.Project{Name: "P", Status: models.ProjectActive}
	require.NoError(t, NewProjectRepository(store).Create(ctx, project))

	err = tasks.Create(ctx, &models.Task{ProjectID: project.ID, Title: "x", AssignedTo: ptr(int64(77))})
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "Assignee not found", err.Error())

	task := &models.Task{ProjectID: project.ID, Title: "x", DueDate: ptr("2025-02-28")}
	require.NoError(t, tasks.Create(ctx, task))

	_, err = tasks.Update(ctx, task.ID, &models.TaskPatch{SetDueDate: true, DueDate: ptr("2025-02-30")})
	assert.ErrorIs(t, err, domain.ErrValidation)

	updated, err := tasks.Update(ctx, task.ID, &models.TaskPatch{SetDueDate: true})
	require.NoError(t, err)
	assert.Nil(t, updated.DueDate)
}

func TestReturnedRowsAreCopies(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	leads := NewLeadRepository(store)

	lead := &models.Lead{Name: "Acme", Email: ptr("buyer@acme.test"), Status: models.LeadNew}
	require.NoError(t, leads.Create(ctx, lead))

	got, err := leads.GetByID(ctx, lead.ID)
	require.NoError(t, err)
	*got.Email = "changed@acme.test"
	*lead.Email = "changed@acme.test"

	again, err := leads.GetByID(ctx, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, "buyer@acme.test", *again.Email)
}

func TestTransactionManager_Nested(t *testing.T) {
	store := NewStore()
	tm := NewTransactionManager(store)

	calls := 0
	err := tm.ExecTx(context.Background(), func(ctx context.Context) error {
		calls++
		return tm.ExecTx(ctx, func(ctx context.Context) error {
			calls++
			return nil
		})
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}
