package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"drivebox/internal/config"
	"drivebox/internal/domain/models"
	"drivebox/internal/repository/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	// Parse command-line flags
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed sample data")
	clearData := flag.Bool("clear-data", false, "Clear all folders and files (keep schema)")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && (*dropTables || *clearData) {
		log.Fatalf("🚫 BLOCKED: Cannot run destructive operations (--drop-tables or --clear-data) in production environment")
	}

	logger := config.NewLogger(os.Stdout, cfg.Environment)

	if *clearData {
		log.Printf("🧹 Clearing data only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	} else if *schemaOnly {
		log.Printf("🏗️  Setting up schema only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	} else {
		log.Printf("🌱 Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	}

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTables {
		log.Println("🗑️  Dropping all tables...")
		if err := dropAllTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("✅ Tables dropped")
	}

	log.Println("📋 Ensuring database schema is up to date...")
	if err := runSchema(ctx, pool, tables, cfg.TablePrefix); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("✅ Schema ready")

	if *schemaOnly {
		log.Println("✅ Schema setup complete (schema-only mode)")
		return
	}

	if *clearData {
		log.Println("🧹 Clearing existing folders and files...")
		if err := clearDriveData(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to clear data: %v", err)
		}
		log.Println("✅ Data cleared successfully")
		return
	}

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	userRepo := postgres.NewUserRepository(repoConfig)
	folderRepo := postgres.NewFolderRepository(repoConfig)

	log.Println("⚠️  Clearing existing folders and files...")
	if err := clearDriveData(ctx, pool, tables); err != nil {
		log.Printf("Warning: Could not clear data: %v", err)
	}

	log.Println("👤 Seeding sample users and folders...")
	now := time.Now()
	alice := &models.User{Email: "alice@example.com", FirstName: "Alice", LastName: "Anders", CreatedAt: now, UpdatedAt: now}
	bob := &models.User{Email: "bob@example.com", FirstName: "Bob", LastName: "Berg", CreatedAt: now, UpdatedAt: now}
	for _, u := range []*models.User{alice, bob} {
		existing, err := userRepo.GetByEmail(ctx, u.Email)
		if err != nil {
			log.Fatalf("Failed to look up user %s: %v", u.Email, err)
		}
		if existing != nil {
			u.ID = existing.ID
			continue
		}
		if err := userRepo.Create(ctx, u); err != nil {
			log.Fatalf("Failed to create user %s: %v", u.Email, err)
		}
	}

	root := &models.Folder{Name: "root", OwnerID: alice.ID, CreatedAt: now, UpdatedAt: now}
	if err := folderRepo.Create(ctx, root); err != nil {
		log.Fatalf("Failed to create root folder: %v", err)
	}
	for _, name := range []string{"docs", "photos"} {
		child := &models.Folder{Name: name, OwnerID: alice.ID, ParentID: &root.ID, CreatedAt: now, UpdatedAt: now}
		if err := folderRepo.Create(ctx, child); err != nil {
			log.Fatalf("Failed to create folder %s: %v", name, err)
		}
	}

	log.Printf("✅ Seeded users alice (id=%d) and bob (id=%d) with a starter tree", alice.ID, bob.ID)
}

// runSchema creates the prefixed tables if they do not exist. Grants are
// stored inline as BIGINT arrays; membership checks happen in Go, not SQL.
func runSchema(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, tablePrefix string) error {
	createUsers := `
		CREATE TABLE IF NOT EXISTS ` + tables.Users + ` (
			id BIGSERIAL PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			first_name TEXT NOT NULL DEFAULT '',
			last_name TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createUsers); err != nil {
		return err
	}

	createFolders := `
		CREATE TABLE IF NOT EXISTS ` + tables.Folders + ` (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			owner_id BIGINT NOT NULL REFERENCES ` + tables.Users + `(id),
			parent_id UUID REFERENCES ` + tables.Folders + `(id),
			view_grants BIGINT[] NOT NULL DEFAULT '{}',
			edit_grants BIGINT[] NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW(),
			UNIQUE(owner_id, parent_id, name)
		)
	`
	if _, err := pool.Exec(ctx, createFolders); err != nil {
		return err
	}

	createFiles := `
		CREATE TABLE IF NOT EXISTS ` + tables.Files + ` (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			storage_key TEXT NOT NULL,
			mime_type TEXT NOT NULL DEFAULT 'application/octet-stream',
			size BIGINT NOT NULL DEFAULT 0,
			folder_id UUID NOT NULL REFERENCES ` + tables.Folders + `(id),
			owner_id BIGINT NOT NULL REFERENCES ` + tables.Users + `(id),
			view_grants BIGINT[] NOT NULL DEFAULT '{}',
			edit_grants BIGINT[] NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW(),
			UNIQUE(folder_id, name)
		)
	`
	if _, err := pool.Exec(ctx, createFiles); err != nil {
		return err
	}

	indexes := []string{
		// NULL parent_id escapes the composite UNIQUE, so root folders
		// need their own partial unique index.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_` + tablePrefix + `folders_root_name ON ` + tables.Folders + `(owner_id, name) WHERE parent_id IS NULL`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `folders_parent ON ` + tables.Folders + `(parent_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `folders_owner ON ` + tables.Folders + `(owner_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `files_folder ON ` + tables.Files + `(folder_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `files_owner ON ` + tables.Files + `(owner_id)`,
	}
	for _, idx := range indexes {
		if _, err := pool.Exec(ctx, idx); err != nil {
			return err
		}
	}

	return nil
}

func dropAllTables(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	// Files first: they reference folders, which reference users
	for _, table := range []string{tables.Files, tables.Folders, tables.Users} {
		if _, err := pool.Exec(ctx, `DROP TABLE IF EXISTS `+table+` CASCADE`); err != nil {
			return err
		}
	}
	return nil
}

func clearDriveData(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	if _, err := pool.Exec(ctx, `DELETE FROM `+tables.Files); err != nil {
		return err
	}
	if _, err := pool.Exec(ctx, `DELETE FROM `+tables.Folders); err != nil {
		return err
	}
	return nil
}
