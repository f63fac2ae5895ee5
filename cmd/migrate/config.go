package main

import (
	"os"
	"path/filepath"
	"strings"

	"shelfit/internal/config"
	"shelfit/internal/store"
)

func loadEnvFiles() {
	// Do not override environment provided by the runtime (e.g. Docker).
	config.LoadEnvFiles()
}

func driverFromEnv() string {
	if v := strings.ToLower(os.Getenv("STORE_DRIVER")); v != "" {
		return v
	}
	return store.DriverSQLite
}

// migrationsDir is where new migration files for driver are written.
func migrationsDir(driver string) string {
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return v
	}
	sub := "sqlite"
	if driver == store.DriverPostgres {
		sub = "postgres"
	}
	return filepath.Join("db", "migrations", sub)
}
