// Package initializer builds the application's dependency set from
// configuration: logger, repositories, settlement provider, work queue,
// fraud checker and event bus.
package initializer

import (
	"github.com/amirasaad/payflow/infra"
	infra_eventbus "github.com/amirasaad/payflow/infra/eventbus"
	"github.com/amirasaad/payflow/infra/provider/mocksettlement"
	infra_repository "github.com/amirasaad/payflow/infra/repository"
	"github.com/amirasaad/payflow/infra/repository/memory"
	"github.com/amirasaad/payflow/pkg/config"
	"github.com/amirasaad/payflow/pkg/currency"
	"github.com/amirasaad/payflow/pkg/fraud"
	"github.com/amirasaad/payflow/pkg/queue"
)

// InitializeDependencies initializes all the application dependencies.
func InitializeDependencies(cfg *config.AppConfig) (deps config.Deps, err error) {
	logger := setupLogger(cfg.Log)
	deps.Logger = logger
	deps.Config = cfg

	// Repositories: Postgres when a database URL is configured, otherwise
	// in-memory (local development and tests).
	if cfg.DB.Url != "" {
		db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
		if err != nil {
			logger.Error("Failed to initialize database", "error", err)
			return deps, err
		}
		deps.Payments = infra_repository.NewPaymentRepository(db)
		deps.BankAccounts = infra_repository.NewBankAccountRepository(db)
		deps.BankTransactions = infra_repository.NewBankTransactionRepository(db)
		deps.Reconciliations = infra_repository.NewReconciliationRepository(db)
	} else {
		logger.Warn("No database URL configured, using in-memory repositories")
		deps.Payments = memory.NewPaymentRepository()
		deps.BankAccounts = memory.NewBankAccountRepository()
		deps.BankTransactions = memory.NewBankTransactionRepository()
		deps.Reconciliations = memory.NewReconciliationRepository()
	}

	deps.EventBus = infra_eventbus.NewWithMemory(logger)
	deps.Provider = mocksettlement.New()
	deps.Fraud = fraud.New(fraud.Config{
		LargeAmountCeiling: cfg.Fraud.LargeAmountCeiling,
		HighRiskCountries:  cfg.Fraud.HighRiskCountries,
		Registry:           currency.NewRegistry(),
	})
	deps.Queue = queue.NewMemory(queue.MemoryConfig{
		Workers: cfg.Queue.Workers,
		Buffer:  cfg.Queue.Buffer,
		Logger:  logger,
	})
	return deps, nil
}
