package config

import (
	"log/slog"

	"github.com/amirasaad/payflow/pkg/eventbus"
	"github.com/amirasaad/payflow/pkg/fraud"
	"github.com/amirasaad/payflow/pkg/provider"
	"github.com/amirasaad/payflow/pkg/queue"
	"github.com/amirasaad/payflow/pkg/repository"
)

// Deps holds all infrastructure dependencies for building the services.
type Deps struct {
	Payments         repository.PaymentRepository
	BankAccounts     repository.BankAccountRepository
	BankTransactions repository.BankTransactionRepository
	Reconciliations  repository.ReconciliationRepository
	Provider         provider.Settlement
	Queue            queue.Queue
	Fraud            *fraud.Checker
	EventBus         eventbus.Bus
	Logger           *slog.Logger
	Config           *AppConfig
}
