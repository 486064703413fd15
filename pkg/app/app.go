// Package app wires the configured dependencies into the application's
// services and registers the event bus subscribers.
package app

import (
	"github.com/amirasaad/payflow/pkg/config"
	"github.com/amirasaad/payflow/pkg/service/banking"
	"github.com/amirasaad/payflow/pkg/service/payment"
	"github.com/amirasaad/payflow/pkg/service/reconciliation"
)

// App holds the composed services and the dependencies they were built from.
type App struct {
	Deps                  config.Deps
	Config                *config.AppConfig
	PaymentService        *payment.Service
	BankingService        *banking.Service
	ReconciliationService *reconciliation.Service
}

// New builds the services from deps and registers event subscribers.
func New(deps config.Deps) *App {
	a := &App{
		Deps:                  deps,
		Config:                deps.Config,
		PaymentService:        payment.NewService(deps),
		BankingService:        banking.NewService(deps),
		ReconciliationService: reconciliation.NewService(deps),
	}
	a.setupEventBus()
	return a
}
