package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/naste-api/internal/application/billing"
	"github.com/jhoicas/naste-api/internal/application/catalog"
	"github.com/jhoicas/naste-api/internal/application/identity"
	"github.com/jhoicas/naste-api/internal/application/inventory"
	"github.com/jhoicas/naste-api/internal/domain/repository"
	"github.com/jhoicas/naste-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/naste-api/internal/infrastructure/pdf"
	"github.com/jhoicas/naste-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/naste-api/internal/interfaces/http"
	"github.com/jhoicas/naste-api/pkg/config"
	"github.com/jhoicas/naste-api/pkg/logger"
)

// storage agrupa los repositorios y el TxRunner del backend elegido.
type storage struct {
	products repository.ProductRepository
	invoices repository.InvoiceRepository
	users    repository.UserRepository
	tx       billing.TxRunner
	close    func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.Log.Level,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.App.Storage).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer store.close()

	ledger := inventory.NewStockLedger(store.products, log.Component("inventory"))
	productUC := catalog.NewProductUseCase(store.products, ledger)
	invoiceUC := billing.NewInvoiceUseCase(store.tx, store.invoices, store.users, ledger, log.Component("billing"))
	pdfUC := billing.NewPDFUseCase(store.invoices, infrapdf.NewMarotoPDFGenerator(cfg.App.Name))
	userUC := identity.NewUserUseCase(store.users, log.Component("identity"))

	app := httpRouter.NewApp(httpRouter.AppConfig{
		Name:        cfg.App.Name,
		CORSOrigins: cfg.HTTP.CORSOrigins,
		SwaggerFile: cfg.HTTP.SwaggerFile,
	}, httpRouter.RouterDeps{
		ProductUC: productUC,
		InvoiceUC: invoiceUC,
		PDFUC:     pdfUC,
		UserUC:    userUC,
		Auth:      httpRouter.AuthConfig{Secret: cfg.JWT.Secret, Issuer: cfg.JWT.Issuer},
		Log:       log.Component("http"),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.App.Storage == config.StorageMemory {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		s := memory.NewStore()
		return &storage{
			products: s.Products(),
			invoices: s.Invoices(),
			users:    s.Users(),
			tx:       memory.NewTxRunner(s),
			close:    func() {},
		}, nil
	}

	if cfg.DB.AutoMigrate {
		if err := migrateUp(cfg.DB.ConnectionString(), log.Component("migrate")); err != nil {
			return nil, err
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	return &storage{
		products: postgres.NewProductRepository(pool),
		invoices: postgres.NewInvoiceRepository(pool),
		users:    postgres.NewUserRepository(pool),
		tx:       postgres.NewTxRunner(pool),
		close:    pool.Close,
	}, nil
}

func migrateUp(databaseURL string, log zerolog.Logger) error {
	m, err := postgres.NewMigrator(databaseURL, log)
	if err != nil {
		return err
	}
	defer m.Close()
	return m.Up()
}
