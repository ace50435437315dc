package server

import (
	"allmanager/internal/domain/repositories"
	"allmanager/internal/repository/memory"
	"allmanager/internal/repository/postgres"
)

// Stores groups the repositories of one storage backend.
type Stores struct {
	Users        repositories.UserRepository
	Projects     repositories.ProjectRepository
	Tasks        repositories.TaskRepository
	Leads        repositories.LeadRepository
	Notes        repositories.NoteRepository
	Requirements repositories.RequirementRepository
	Tx           repositories.TransactionManager
	Health       repositories.Pinger
}

// PostgresStores builds the pgx-backed repositories.
func PostgresStores(config *postgres.RepositoryConfig) Stores {
	return Stores{
		Users:        postgres.NewUserRepository(config),
		Projects:     postgres.NewProjectRepository(config),
		Tasks:        postgres.NewTaskRepository(config),
		Leads:        postgres.NewLeadRepository(config),
		Notes:        postgres.NewNoteRepository(config),
		Requirements: postgres.NewRequirementRepository(config),
		Tx:           postgres.NewTransactionManager(config),
		Health:       postgres.NewHealthChecker(config),
	}
}

// MemoryStores builds the in-process repositories over store.
func MemoryStores(store *memory.Store) Stores {
	return Stores{
		Users:        memory.NewUserRepository(store),
		Projects:     memory.NewProjectRepository(store),
		Tasks:        memory.NewTaskRepository(store),
		Leads:        memory.NewLeadRepository(store),
		Notes:        memory.NewNoteRepository(store),
		Requirements: memory.NewRequirementRepository(store),
		Tx:           memory.NewTransactionManager(store),
		Health:       store,
	}
}
