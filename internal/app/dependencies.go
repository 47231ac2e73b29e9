package app

import (
	"context"
	"database/sql"

	"github.com/budsjett/budsjett/internal/config"
	"github.com/budsjett/budsjett/internal/event_bus"
	"github.com/budsjett/budsjett/internal/utils"
	"github.com/budsjett/budsjett/pkg/backup"
	"github.com/budsjett/budsjett/pkg/category"
	"github.com/budsjett/budsjett/pkg/dashboard"
	"github.com/budsjett/budsjett/pkg/fixedexpense"
	"github.com/budsjett/budsjett/pkg/page"
	"github.com/budsjett/budsjett/pkg/settings"
	"github.com/budsjett/budsjett/pkg/sheets"
	"github.com/budsjett/budsjett/pkg/transaction"
	log "github.com/sirupsen/logrus"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	EventBus *event_bus.EventBus

	CategoryRepo    category.Repository
	CategoryService category.Service
	CategoryHandler *category.Handler

	PageRepo    page.Repository
	PageService page.Service
	PageHandler *page.Handler

	TransactionRepo    transaction.Repository
	TransactionService transaction.Service
	TransactionHandler *transaction.Handler

	FixedExpenseRepo    fixedexpense.Repository
	FixedExpenseService fixedexpense.Service
	FixedExpenseHandler *fixedexpense.Handler

	SettingsRepo    settings.Repository
	SettingsService settings.Service
	SettingsHandler *settings.Handler

	DashboardService dashboard.Service
	DashboardHandler *dashboard.Handler

	BackupRepo    backup.Repository
	BackupService backup.Service
	BackupHandler *backup.Handler

	SheetsService sheets.Service
	SheetsHandler *sheets.Handler

	Clock utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(ctx context.Context, db *sql.DB, cfg config.Application) (*Dependencies, error) {
	deps := &Dependencies{}

	deps.EventBus = event_bus.NewEventBus()
	deps.Clock = &utils.SystemClock{}

	deps.CategoryRepo = category.NewRepository(db)
	deps.CategoryService = category.NewService(deps.CategoryRepo)
	deps.CategoryHandler = category.NewHandler(deps.CategoryService)

	deps.PageRepo = page.NewRepository(db)
	deps.PageService = page.NewService(deps.PageRepo)
	deps.PageHandler = page.NewHandler(deps.PageService)

	deps.TransactionRepo = transaction.NewRepository(db)
	deps.TransactionService = transaction.NewService(deps.TransactionRepo, deps.EventBus)
	deps.TransactionHandler = transaction.NewHandler(deps.TransactionService)

	deps.FixedExpenseRepo = fixedexpense.NewRepository(db)
	deps.FixedExpenseService = fixedexpense.NewService(deps.FixedExpenseRepo, deps.EventBus)
	deps.FixedExpenseHandler = fixedexpense.NewHandler(deps.FixedExpenseService)

	deps.SettingsRepo = settings.NewRepository(db)
	deps.SettingsService = settings.NewService(deps.SettingsRepo)
	deps.SettingsHandler = settings.NewHandler(deps.SettingsService)

	deps.DashboardService = dashboard.NewService(
		deps.CategoryRepo,
		deps.PageRepo,
		deps.TransactionRepo,
		deps.FixedExpenseRepo,
		deps.SettingsRepo,
	)
	deps.DashboardHandler = dashboard.NewHandler(deps.DashboardService)

	deps.BackupRepo = backup.NewRepository(db)
	deps.BackupService = backup.NewService(
		deps.BackupRepo,
		deps.CategoryRepo,
		deps.PageRepo,
		deps.TransactionRepo,
		deps.FixedExpenseRepo,
		deps.SettingsRepo,
		deps.EventBus,
	)
	deps.BackupHandler = backup.NewHandler(deps.BackupService)

	sheetsClient, err := sheets.NewClient(ctx, cfg.Sheets)
	if err != nil {
		return nil, err
	}
	var writer sheets.RowWriter
	if sheetsClient != nil {
		writer = sheetsClient
	} else {
		log.Info("Sheets mirror is not configured")
	}
	sheetsService := sheets.NewService(writer, deps.TransactionRepo, deps.CategoryRepo, deps.PageRepo)
	sheetsService.Subscribe(deps.EventBus)
	deps.SheetsService = sheetsService
	deps.SheetsHandler = sheets.NewHandler(deps.SheetsService)

	return deps, nil
}
