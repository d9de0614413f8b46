// migrate aplica o revierte las migraciones embebidas sobre la base configurada (DATABASE_URL o DB_*).
//
// Uso: go run ./cmd/migrate [up|down|version]
// Sin argumento ejecuta "up". "down" revierte un solo paso.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"

	"github.com/jhoicas/facturador-api/internal/infrastructure/postgres"
	"github.com/jhoicas/facturador-api/pkg/config"
	"github.com/jhoicas/facturador-api/pkg/logger"
)

func main() {
	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})
	dsn := cfg.DB.ConnectionString()

	switch cmd {
	case "up":
		if err := postgres.MigrateUp(dsn, log.Named("migrate")); err != nil {
			fmt.Fprintf(os.Stderr, "Migrar: %v\n", err)
			os.Exit(1)
		}
	case "down", "version":
		m, err := postgres.NewMigrator(dsn)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Migrar: %v\n", err)
			os.Exit(1)
		}
		defer m.Close()
		if cmd == "down" {
			if err := m.Steps(-1); err != nil && !errors.Is(err, migrate.ErrNoChange) {
				fmt.Fprintf(os.Stderr, "Revertir: %v\n", err)
				os.Exit(1)
			}
		}
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			fmt.Println("sin migraciones aplicadas")
			return
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Versión: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("versión %d (dirty=%v)\n", version, dirty)
	default:
		fmt.Fprintf(os.Stderr, "comando desconocido %q (up|down|version)\n", cmd)
		os.Exit(2)
	}
}
