// Command migrate runs schema operations for the backend.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"tavern/internal/config"
	"tavern/internal/database"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() error {
	return fmt.Errorf("usage: go run ./cmd/migrate/main.go <up|down|version>")
}

func run() error {
	flag.Parse()
	if flag.NArg() < 1 {
		return usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	cmd := strings.ToLower(strings.TrimSpace(flag.Arg(0)))
	switch cmd {
	case "up":
		if err := database.MigrateUp(cfg); err != nil {
			return fmt.Errorf("sql migrations failed: %w", err)
		}
		log.Println("sql migrations applied")
	case "down":
		if err := database.MigrateDown(cfg); err != nil {
			return fmt.Errorf("rollback failed: %w", err)
		}
		log.Println("rolled back one migration")
	case "version":
		version, dirty, err := database.MigrationVersion(cfg)
		if err != nil {
			return fmt.Errorf("read version failed: %w", err)
		}
		log.Printf("version=%d dirty=%t", version, dirty)
	default:
		return usage()
	}

	return nil
}
