package http

import (
	"os"
	"strings"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/naste-api/internal/application/billing"
	"github.com/jhoicas/naste-api/internal/application/catalog"
	"github.com/jhoicas/naste-api/internal/application/identity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC *catalog.ProductUseCase
	InvoiceUC *billing.InvoiceUseCase
	PDFUC     *billing.PDFUseCase
	UserUC    *identity.UserUseCase
	Auth      AuthConfig
	Log       zerolog.Logger
}

// AppConfig opciones del servidor fiber.
type AppConfig struct {
	Name        string
	CORSOrigins string // separados por coma; vacío = "*"
	SwaggerFile string // si el archivo existe se sirve la UI en /docs
}

// NewApp construye la aplicación fiber con middlewares globales, /health y las rutas de la API.
func NewApp(cfg AppConfig, deps RouterDeps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.Name,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		BodyLimit:    10 * 1024 * 1024,
		ErrorHandler: ErrorHandler(deps.Log),
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(RequestLogger(deps.Log))
	app.Use(cors.New(cors.Config{
		AllowOrigins: corsOrigins(cfg.CORSOrigins),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))

	if cfg.SwaggerFile != "" {
		if _, err := os.Stat(cfg.SwaggerFile); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: cfg.SwaggerFile,
				Path:     "docs",
				Title:    "Naste API",
			}))
		}
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.Name})
	})

	Router(app, deps)
	return app
}

// Router registra las rutas de la API. Todo /api requiere Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	validate := NewValidator()
	api := app.Group("/api", AuthMiddleware(deps.Auth, deps.UserUC, deps.Log))
	withID := RequireUUIDParams("id")

	userHandler := NewUserHandler(deps.UserUC, deps.Log)
	api.Get("/user", userHandler.Me)

	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, validate, deps.Log)
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Get("/:id", withID, productHandler.GetByID)
	products.Put("/:id", withID, productHandler.Update)
	products.Delete("/:id", withID, productHandler.Delete)
	products.Post("/:id/stock/increase", withID, productHandler.IncreaseStock)
	products.Post("/:id/stock/decrease", withID, productHandler.DecreaseStock)

	invoices := api.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.PDFUC, validate, deps.Log)
	invoices.Get("/", invoiceHandler.List)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/:id", withID, invoiceHandler.GetByID)
	invoices.Get("/:id/pdf", withID, invoiceHandler.DownloadPDF)
	invoices.Put("/:id", withID, invoiceHandler.Update)
	invoices.Patch("/:id/status", withID, invoiceHandler.UpdateStatus)
	invoices.Delete("/:id", withID, invoiceHandler.Delete)
}

func corsOrigins(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "*"
	}
	parts := strings.Split(raw, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return strings.Join(parts, ",")
}
