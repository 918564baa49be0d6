// Comando migrate: aplica o revierte las migraciones SQL embebidas.
//
// Uso:
//
//	go run ./cmd/migrate up
//	go run ./cmd/migrate down
//	go run ./cmd/migrate steps -1
//	go run ./cmd/migrate version
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/jhoicas/naste-api/internal/infrastructure/postgres"
	"github.com/jhoicas/naste-api/pkg/config"
	"github.com/jhoicas/naste-api/pkg/logger"
)

func main() {
	dbURL := flag.String("database", "", "connection string; por defecto DATABASE_URL o DB_*")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "uso: migrate [-database url] up | down | steps N | version")
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, Service: "naste-migrate"})

	url := *dbURL
	if url == "" {
		url = cfg.DB.ConnectionString()
	}
	m, err := postgres.NewMigrator(url, log.Zerolog())
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar migraciones")
	}
	defer m.Close()

	if err := run(m, flag.Args()); err != nil {
		log.Error().Err(err).Str("command", flag.Arg(0)).Msg("migración fallida")
		m.Close()
		os.Exit(1)
	}
}

func run(m *postgres.Migrator, args []string) error {
	switch args[0] {
	case "up":
		return m.Up()
	case "down":
		return m.Down()
	case "steps":
		if len(args) < 2 {
			return fmt.Errorf("steps requiere un entero (p. ej. steps -1)")
		}
		n, err := strconv.Atoi(args[1])
		if err != nil || n == 0 {
			return fmt.Errorf("steps: valor inválido %q", args[1])
		}
		return m.Steps(n)
	case "version":
		v, dirty, err := m.Version()
		if err != nil {
			return err
		}
		fmt.Printf("version=%d dirty=%t\n", v, dirty)
		return nil
	default:
		return fmt.Errorf("comando desconocido %q", args[0])
	}
}
