package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/jhoicas/facturador-api/internal/application/auth"
	"github.com/jhoicas/facturador-api/internal/application/billing"
	"github.com/jhoicas/facturador-api/internal/application/catalog"
	"github.com/jhoicas/facturador-api/internal/application/usecase"
	"github.com/jhoicas/facturador-api/internal/domain/entity"
	"github.com/jhoicas/facturador-api/internal/domain/repository"
	"github.com/jhoicas/facturador-api/internal/infrastructure/excel"
	"github.com/jhoicas/facturador-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/facturador-api/internal/infrastructure/pdf"
	"github.com/jhoicas/facturador-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/facturador-api/internal/interfaces/http"
	"github.com/jhoicas/facturador-api/pkg/config"
	"github.com/jhoicas/facturador-api/pkg/jwt"
)

// repositories conjunto de repositorios de un backend de almacenamiento.
type repositories struct {
	companies repository.CompanyRepository
	users     repository.UserRepository
	customers repository.CustomerRepository
	catalog   repository.CatalogItemRepository
	masters   repository.MasterItemRepository
	terms     repository.TermRepository
	documents repository.DocumentRepository
	items     repository.LineItemRepository
	tx        billing.BillingTxRunner
	pinger    httpRouter.Pinger
	close     func()
}

// openStorage abre el backend configurado. Con postgres aplica migraciones si DB_AUTO_MIGRATE=true.
func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*repositories, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		store := memory.NewStore()
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		return &repositories{
			companies: memory.NewCompanyRepository(store),
			users:     memory.NewUserRepository(store),
			customers: memory.NewCustomerRepository(store),
			catalog:   memory.NewCatalogItemRepository(store),
			masters:   memory.NewMasterItemRepository(store),
			terms:     memory.NewTermRepository(store),
			documents: memory.NewDocumentRepository(store),
			items:     memory.NewLineItemRepository(store),
			tx:        memory.NewTxRunner(store),
			pinger:    store,
			close:     func() {},
		}, nil
	case config.StorageDriverPostgres:
		if cfg.Migrations.AutoMigrate {
			if err := postgres.MigrateUp(cfg.DB.ConnectionString(), log); err != nil {
				return nil, err
			}
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		return postgresRepositories(pool), nil
	default:
		return nil, fmt.Errorf("driver de almacenamiento desconocido %q", cfg.Storage.Driver)
	}
}

func postgresRepositories(pool *pgxpool.Pool) *repositories {
	return &repositories{
		companies: postgres.NewCompanyRepository(pool),
		users:     postgres.NewUserRepository(pool),
		customers: postgres.NewCustomerRepository(pool),
		catalog:   postgres.NewCatalogItemRepository(pool),
		masters:   postgres.NewMasterItemRepository(pool),
		terms:     postgres.NewTermRepository(pool),
		documents: postgres.NewDocumentRepository(pool),
		items:     postgres.NewLineItemRepository(pool),
		tx:        postgres.NewTxRunner(pool),
		pinger:    pool,
		close:     pool.Close,
	}
}

// buildRouterDeps arma los casos de uso sobre los repositorios.
func buildRouterDeps(cfg *config.Config, repos *repositories, log zerolog.Logger) httpRouter.RouterDeps {
	recalc := billing.NewRecalculator(log)
	docRepos := billing.DocumentRepos{
		Documents: repos.documents,
		Items:     repos.items,
		Customers: repos.customers,
		Terms:     repos.terms,
		Catalog:   repos.catalog,
	}
	invoices := billing.NewDocumentUseCase(entity.KindInvoice, repos.tx, docRepos, recalc, log)
	quotations := billing.NewDocumentUseCase(entity.KindQuotation, repos.tx, docRepos, recalc, log)

	// PDF: representación gráfica de facturas y cotizaciones
	pdfUC := billing.NewPDFUseCase(
		repos.documents, repos.items, repos.companies, repos.customers,
		infrapdf.NewMarotoPDFGenerator(cfg.PDF.Locale),
	)

	return httpRouter.RouterDeps{
		AuthUC: auth.NewAuthUseCase(repos.users, repos.companies, jwt.Options{
			Secret:     cfg.JWT.Secret,
			Issuer:     cfg.JWT.Issuer,
			ExpMinutes: cfg.JWT.Expiration,
		}),
		CompanyUC:    usecase.NewCompanyUseCase(repos.companies, repos.users, log),
		UserUC:       usecase.NewUserUseCase(repos.users),
		CustomerUC:   billing.NewCustomerUseCase(repos.customers),
		CatalogUC:    catalog.NewItemUseCase(repos.catalog, excel.NewSheetReader(), log),
		MasterUC:     catalog.NewMasterUseCase(repos.masters, repos.catalog),
		TermUC:       catalog.NewTermUseCase(repos.terms),
		Invoices:     invoices,
		InvoiceItems: billing.NewLineItemUseCase(entity.KindInvoice, repos.tx, repos.documents, repos.items, repos.catalog, recalc),
		Quotations:   quotations,
		QuoteItems:   billing.NewLineItemUseCase(entity.KindQuotation, repos.tx, repos.documents, repos.items, repos.catalog, recalc),
		Conversion:   billing.NewConversionUseCase(repos.tx, invoices, recalc, log),
		PDF:          pdfUC,
		Store:        repos.pinger,
		JWTSecret:    cfg.JWT.Secret,
		Log:          log,
	}
}
