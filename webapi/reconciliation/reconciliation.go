// Package reconciliation exposes the reconciliation engine over HTTP.
package reconciliation

import (
	"errors"

	reconsvc "github.com/amirasaad/payflow/pkg/service/reconciliation"
	"github.com/amirasaad/payflow/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

// Routes registers the reconciliation endpoints.
//
// Routes:
//   - POST /reconciliations               : Match one bank transaction against one payment.
//   - POST /accounts/:id/reconcile        : Sweep an account's referenced transactions.
//   - GET  /payments/:id/reconciliations  : List a payment's reconciliation records.
func Routes(app *fiber.App, svc *reconsvc.Service) {
	app.Post("/reconciliations", Reconcile(svc))
	app.Post("/accounts/:id/reconcile", ReconcileAccount(svc))
	app.Get("/payments/:id/reconciliations", History(svc))
}

// Reconcile returns a handler that matches one bank transaction against one
// payment and appends the outcome.
func Reconcile(svc *reconsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[ReconcileRequest](c)
		if input == nil {
			return err
		}
		bankTxID, err := uuid.Parse(input.BankTransactionID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid bank transaction ID", err, fiber.StatusBadRequest)
		}
		paymentID, err := uuid.Parse(input.PaymentID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid payment ID", err, fiber.StatusBadRequest)
		}
		record, err := svc.Reconcile(c.UserContext(), bankTxID, paymentID, input.Notes)
		if err != nil {
			log.Errorf("Failed to reconcile: %v", err)
			if errors.Is(err, reconsvc.ErrNothingToReconcile) {
				return common.ProblemDetailsJSON(c, "Failed to reconcile", err, fiber.StatusNotFound)
			}
			return common.ProblemDetailsJSON(c, "Failed to reconcile", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Reconciliation recorded", ToDTO(record))
	}
}

// ReconcileAccount returns a handler that sweeps an account's referenced
// transactions and appends a record per match attempt.
func ReconcileAccount(svc *reconsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := common.ParseIDParam(c, "id")
		if !ok {
			return nil
		}
		records, err := svc.ReconcileAccount(c.UserContext(), id)
		if err != nil {
			log.Errorf("Failed to reconcile account %s: %v", id, err)
			return common.ProblemDetailsJSON(c, "Failed to reconcile account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Account reconciled", ToDTOs(records))
	}
}

// History returns a handler that lists a payment's reconciliation records.
func History(svc *reconsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := common.ParseIDParam(c, "id")
		if !ok {
			return nil
		}
		records, err := svc.History(c.UserContext(), id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list reconciliations", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Reconciliations", ToDTOs(records))
	}
}
