package postgres

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrator aplica las migraciones SQL embebidas en el binario.
type Migrator struct {
	m   *migrate.Migrate
	log zerolog.Logger
}

// NewMigrator abre el origen embebido y la base indicada por databaseURL (postgres://...).
func NewMigrator(databaseURL string, log zerolog.Logger) (*Migrator, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("abrir migraciones embebidas: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("crear migrador: %w", err)
	}
	return &Migrator{m: m, log: log}, nil
}

// Up aplica todas las migraciones pendientes. Sin cambios no es error.
func (mg *Migrator) Up() error {
	if err := mg.m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			mg.log.Info().Msg("migraciones al día")
			return nil
		}
		return fmt.Errorf("migrate up: %w", err)
	}
	version, dirty, err := mg.m.Version()
	if err != nil {
		return fmt.Errorf("leer versión: %w", err)
	}
	mg.log.Info().Uint("version", version).Bool("dirty", dirty).Msg("migraciones aplicadas")
	return nil
}

// Down revierte todas las migraciones.
func (mg *Migrator) Down() error {
	if err := mg.m.Down(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			mg.log.Info().Msg("no hay migraciones que revertir")
			return nil
		}
		return fmt.Errorf("migrate down: %w", err)
	}
	mg.log.Info().Msg("migraciones revertidas")
	return nil
}

// Steps aplica n migraciones (n < 0 revierte).
func (mg *Migrator) Steps(n int) error {
	if err := mg.m.Steps(n); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate steps %d: %w", n, err)
	}
	mg.log.Info().Int("steps", n).Msg("pasos de migración aplicados")
	return nil
}

// Version devuelve la versión actual; 0 si la base no tiene migraciones.
func (mg *Migrator) Version() (uint, bool, error) {
	v, dirty, err := mg.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return v, dirty, err
}

// Close libera origen y conexión.
func (mg *Migrator) Close() error {
	srcErr, dbErr := mg.m.Close()
	return errors.Join(srcErr, dbErr)
}
