package http

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/facturador-api/internal/application/auth"
	"github.com/jhoicas/facturador-api/internal/application/billing"
	"github.com/jhoicas/facturador-api/internal/application/catalog"
	"github.com/jhoicas/facturador-api/internal/application/dto"
	"github.com/jhoicas/facturador-api/internal/application/usecase"
	"github.com/jhoicas/facturador-api/internal/domain/entity"
)

// Pinger lo implementan *pgxpool.Pool y *memory.Store; lo usa /health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// AppConfig opciones de la app Fiber.
type AppConfig struct {
	Name               string
	BodyLimitMB        int
	RateLimitPerMinute int    // 0 = sin límite
	SwaggerFile        string // vacío o inexistente = sin /docs
}

// NewApp construye la app Fiber con el stack de middleware común (recover, request id,
// log por petición, límite de tasa y Swagger).
func NewApp(cfg AppConfig, log zerolog.Logger) *fiber.App {
	bodyLimit := cfg.BodyLimitMB
	if bodyLimit <= 0 {
		bodyLimit = 8
	}
	app := fiber.New(fiber.Config{
		AppName:      cfg.Name,
		BodyLimit:    bodyLimit * 1024 * 1024,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				code = fe.Code
			}
			return c.Status(code).JSON(dto.ErrorResponse{Code: "HTTP_" + httpCodeName(code), Message: err.Error()})
		},
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(RequestLogger(log))
	if cfg.RateLimitPerMinute > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimitPerMinute,
			Expiration: time.Minute,
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{Code: "RATE_LIMITED", Message: "demasiadas peticiones"})
			},
		}))
	}
	// Swagger UI en local: http://localhost:<port>/docs
	if cfg.SwaggerFile != "" {
		if _, err := os.Stat(cfg.SwaggerFile); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: cfg.SwaggerFile,
				Path:     "docs",
				Title:    "Facturador API",
			}))
		}
	}
	return app
}

func httpCodeName(code int) string {
	switch code {
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusRequestEntityTooLarge:
		return "BODY_TOO_LARGE"
	case fiber.StatusBadRequest:
		return "BAD_REQUEST"
	default:
		return "INTERNAL"
	}
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	CompanyUC    *usecase.CompanyUseCase
	UserUC       *usecase.UserUseCase
	CustomerUC   *billing.CustomerUseCase
	CatalogUC    *catalog.ItemUseCase
	MasterUC     *catalog.MasterUseCase
	TermUC       *catalog.TermUseCase
	Invoices     *billing.DocumentUseCase
	InvoiceItems *billing.LineItemUseCase
	Quotations   *billing.DocumentUseCase
	QuoteItems   *billing.LineItemUseCase
	Conversion   *billing.ConversionUseCase
	PDF          *billing.PDFUseCase
	Store        Pinger
	JWTSecret    string
	Log          zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log

	app.Get("/health", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := deps.Store.Ping(ctx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "down", "error": err.Error()})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": app.Config().AppName})
	})

	api := app.Group("/api")

	// Auth: login público, registro de usuarios solo admin
	authHandler := NewAuthHandler(deps.AuthUC, log)
	api.Post("/auth/login", authHandler.Login)

	companyHandler := NewCompanyHandler(deps.CompanyUC, log)
	api.Post("/companies", companyHandler.Create)

	// Rutas protegidas (requieren Bearer Token y empresa activa)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), RequireActiveCompany(deps.CompanyUC))
	adminOnly := RequireRole(entity.RoleAdmin)

	protected.Post("/auth/register", adminOnly, authHandler.Register)
	protected.Get("/companies/me", companyHandler.Me)
	protected.Put("/companies/me", adminOnly, companyHandler.UpdateMe)

	userHandler := NewUserHandler(deps.UserUC, log)
	protected.Get("/users", adminOnly, userHandler.List)
	protected.Get("/users/me", userHandler.Me)

	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC, log)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", customerHandler.Delete)

	cat := protected.Group("/catalog")
	catalogHandler := NewCatalogHandler(deps.CatalogUC, deps.MasterUC, deps.TermUC, log)
	cat.Post("/items", catalogHandler.CreateItem)
	cat.Get("/items", catalogHandler.ListItems)
	cat.Post("/items/import", catalogHandler.ImportItems)
	cat.Get("/items/:id", catalogHandler.GetItem)
	cat.Put("/items/:id", catalogHandler.UpdateItem)
	cat.Delete("/items/:id", catalogHandler.DeleteItem)
	cat.Get("/master-items", catalogHandler.ListMaster)
	cat.Post("/master-items", adminOnly, catalogHandler.CreateMaster)
	cat.Post("/master-items/:id/copy", catalogHandler.CopyMaster)
	cat.Get("/terms", catalogHandler.ListTerms)
	cat.Post("/terms", adminOnly, catalogHandler.CreateTerm)
	cat.Put("/terms/:id", adminOnly, catalogHandler.UpdateTerm)
	cat.Delete("/terms/:id", adminOnly, catalogHandler.DeleteTerm)

	invoiceHandler := NewDocumentHandler(deps.Invoices, deps.InvoiceItems, deps.PDF, nil, log)
	registerDocumentRoutes(protected.Group("/invoices"), invoiceHandler)

	quotationHandler := NewDocumentHandler(deps.Quotations, deps.QuoteItems, deps.PDF, deps.Conversion, log)
	quotations := protected.Group("/quotations")
	registerDocumentRoutes(quotations, quotationHandler)
	quotations.Post("/:id/convert", quotationHandler.Convert)
}

func registerDocumentRoutes(g fiber.Router, h *DocumentHandler) {
	g.Post("/", h.Create)
	g.Get("/", h.List)
	g.Get("/:id", h.GetByID)
	g.Put("/:id", h.Update)
	g.Patch("/:id/status", h.UpdateStatus)
	g.Delete("/:id", h.Delete)
	g.Get("/:id/pdf", h.PDF)
	g.Get("/:id/items", h.ListItems)
	g.Post("/:id/items", h.CreateItem)
	g.Put("/:id/items/:itemId", h.UpdateItem)
	g.Delete("/:id/items/:itemId", h.DeleteItem)
}
