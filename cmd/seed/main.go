package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"allmanager/internal/auth"
	"allmanager/internal/config"
	"allmanager/internal/repository/postgres"
	"allmanager/internal/seed"
	"allmanager/internal/server"
)

func main() {
	// Parse command-line flags
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't insert fixtures")
	fixturesPath := flag.String("fixtures", "", "YAML fixtures file (defaults to the built-in demo data)")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.IsProduction() && *dropTables {
		log.Fatalf("BLOCKED: Cannot run destructive operations (--drop-tables) in production environment")
	}
	if cfg.DatabaseURL == "" {
		log.Fatalf("DATABASE_URL or DB_HOST/DB_USER/DB_NAME is required")
	}

	logger, logCloser, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to setup logging: %v", err)
	}
	defer logCloser.Close()

	if *schemaOnly {
		log.Printf("Setting up schema only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	} else {
		log.Printf("Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	}

	// Create database connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
		Logger: logger,
	}

	// Drop tables if requested
	if *dropTables {
		log.Println("Dropping all tables...")
		if err := postgres.DropSchema(ctx, repoConfig); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
	}

	// Run schema to ensure tables exist
	log.Println("Ensuring database schema is up to date...")
	if err := postgres.EnsureSchema(ctx, repoConfig); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}

	if *schemaOnly {
		log.Println("Schema setup complete (schema-only mode)")
		return
	}

	var fixtures *seed.Fixtures
	if *fixturesPath != "" {
		fixtures, err = seed.LoadFile(*fixturesPath)
	} else {
		fixtures, err = seed.Default()
	}
	if err != nil {
		log.Fatalf("Failed to load fixtures: %v", err)
	}

	hasher, err := auth.NewPasswordHasher(auth.BcryptCost)
	if err != nil {
		log.Fatalf("Failed to create password hasher: %v", err)
	}

	seeder := seed.NewSeeder(server.PostgresStores(repoConfig), hasher, logger)
	sum, err := seeder.Seed(ctx, fixtures)
	if err != nil {
		log.Printf("Seeding failed: %v", err)
		os.Exit(1)
	}

	log.Printf("Seeding complete: %d users, %d projects, %d tasks, %d leads, %d notes, %d requirements",
		sum.Users, sum.Projects, sum.Tasks, sum.Leads, sum.Notes, sum.Requirements)
}
