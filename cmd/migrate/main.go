package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/pressly/goose/v3"

	"shelfit/internal/logging"
	"shelfit/internal/store"
)

func main() {
	loadEnvFiles()

	var (
		command = flag.String("command", "up", "Migration command: up, down, status, version, create")
		name    = flag.String("name", "", "Name for 'create' command")
		driver  = flag.String("driver", driverFromEnv(), "Store driver: sqlite or postgres")
		dsn     = flag.String("dsn", os.Getenv("DB_DSN"), "Database DSN")
	)
	flag.Parse()

	log := logging.New(os.Getenv("APP_ENV"), os.Getenv("LOG_LEVEL"), os.Stderr)
	if err := run(context.Background(), *command, *name, *driver, *dsn, log); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, command, name, driver, dsn string, log logging.Logger) error {
	if command == "create" {
		if name == "" {
			return fmt.Errorf("name is required for 'create' command")
		}
		dir := migrationsDir(driver)
		if err := goose.Create(nil, dir, name, "sql"); err != nil {
			return fmt.Errorf("create migration: %w", err)
		}
		fmt.Printf("Migration created in %s: %s\n", dir, name)
		return nil
	}

	st, err := store.Open(ctx, store.Config{Driver: driver, DSN: dsn, SkipMigrations: true}, log)
	if err != nil {
		return err
	}
	defer st.Close()

	m, err := st.NewMigrator()
	if err != nil {
		return err
	}
	defer m.Close()

	switch command {
	case "up":
		results, err := m.Up(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Migrations applied successfully (%d)\n", len(results))
	case "down":
		if _, err := m.Down(ctx); err != nil {
			return err
		}
		fmt.Println("Migration rolled back successfully")
	case "status":
		statuses, err := m.Status(ctx)
		if err != nil {
			return fmt.Errorf("migration status: %w", err)
		}
		for _, s := range statuses {
			applied := "-"
			if !s.AppliedAt.IsZero() {
				applied = s.AppliedAt.Format("2006-01-02 15:04:05")
			}
			fmt.Printf("%-8s %-20s %s\n", s.State, applied, s.Source.Path)
		}
	case "version":
		v, err := m.Version(ctx)
		if err != nil {
			return fmt.Errorf("migration version: %w", err)
		}
		fmt.Printf("Current version: %d\n", v)
	default:
		return fmt.Errorf("unknown command: %s. Use: up, down, status, version, create", command)
	}
	return nil
}
