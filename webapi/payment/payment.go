// Package payment exposes the payment pipeline over HTTP: submit, query,
// cancel and refund payments, and report the work queue counters.
package payment

import (
	"errors"

	"github.com/amirasaad/payflow/pkg/domain/payment"
	paymentsvc "github.com/amirasaad/payflow/pkg/service/payment"
	"github.com/amirasaad/payflow/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

// Routes registers the payment endpoints.
//
// Routes:
//   - POST /payments                  : Submit a new payment.
//   - GET  /payments/:id              : Fetch a payment record.
//   - GET  /payments/:id/status       : Fetch only the lifecycle state.
//   - POST /payments/:id/cancel       : Cancel a pending payment.
//   - POST /payments/:id/refund       : Refund a completed payment.
//   - GET  /users/:id/payments        : List a user's payments, newest first.
//   - GET  /queue/stats               : Work queue counters.
//   - POST /queue/retry-failed        : Re-enqueue parked failed jobs.
func Routes(app *fiber.App, svc *paymentsvc.Service) {
	app.Post("/payments", Submit(svc))
	app.Get("/payments/:id", Get(svc))
	app.Get("/payments/:id/status", Status(svc))
	app.Post("/payments/:id/cancel", Cancel(svc))
	app.Post("/payments/:id/refund", Refund(svc))
	app.Get("/users/:id/payments", ListByUser(svc))
	app.Get("/queue/stats", QueueStats(svc))
	app.Post("/queue/retry-failed", RetryFailedJobs(svc))
}

// Submit returns a handler that accepts a payment and runs the synchronous
// part of the pipeline. A record that failed risk screening is still returned
// with 201; the record's state tells the caller what happened.
func Submit(svc *paymentsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[SubmitRequest](c)
		if input == nil {
			return err
		}
		userID, err := uuid.Parse(input.UserID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid user ID", err, fiber.StatusBadRequest)
		}
		method, err := payment.ParseMethod(input.Method)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid payment method", err)
		}
		p, err := svc.Submit(c.UserContext(), paymentsvc.SubmitInput{
			UserID:      userID,
			Amount:      input.Amount,
			Currency:    input.Currency,
			Method:      method,
			Description: input.Description,
			ExternalID:  input.ExternalID,
			Metadata:    input.Metadata,
		})
		if err != nil && !errors.Is(err, payment.ErrFraudRejected) {
			log.Errorf("Failed to submit payment: %v", err)
			return common.ProblemDetailsJSON(c, "Failed to submit payment", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Payment submitted", ToDTO(p))
	}
}

// Get returns a handler that fetches one payment record.
func Get(svc *paymentsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := common.ParseIDParam(c, "id")
		if !ok {
			return nil
		}
		p, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to fetch payment", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Payment", ToDTO(p))
	}
}

// Status returns a handler that fetches only the payment's lifecycle state.
func Status(svc *paymentsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := common.ParseIDParam(c, "id")
		if !ok {
			return nil
		}
		status, err := svc.Status(c.UserContext(), id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to fetch payment status", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Payment status", StatusDTO{
			ID:     id.String(),
			Status: status.String(),
		})
	}
}

// Cancel returns a handler that cancels a pending payment.
func Cancel(svc *paymentsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := common.ParseIDParam(c, "id")
		if !ok {
			return nil
		}
		p, err := svc.Cancel(c.UserContext(), id)
		if err != nil {
			log.Errorf("Failed to cancel payment %s: %v", id, err)
			return common.ProblemDetailsJSON(c, "Failed to cancel payment", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Payment cancelled", ToDTO(p))
	}
}

// Refund returns a handler that refunds a completed payment, fully or
// partially.
func Refund(svc *paymentsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := common.ParseIDParam(c, "id")
		if !ok {
			return nil
		}
		input, err := common.BindAndValidate[RefundRequest](c)
		if input == nil {
			return err
		}
		p, err := svc.Refund(c.UserContext(), id, input.Amount)
		if err != nil {
			log.Errorf("Failed to refund payment %s: %v", id, err)
			return common.ProblemDetailsJSON(c, "Failed to refund payment", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Payment refunded", ToDTO(p))
	}
}

// ListByUser returns a handler that lists a user's payments, newest first.
func ListByUser(svc *paymentsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := common.ParseIDParam(c, "id")
		if !ok {
			return nil
		}
		payments, err := svc.ListByUser(c.UserContext(), userID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list payments", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Payments", ToDTOs(payments))
	}
}

// QueueStats returns a handler that reports the work queue counters.
func QueueStats(svc *paymentsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Queue stats", svc.QueueStats())
	}
}

// RetryFailedJobs returns a handler that re-enqueues parked failed jobs.
func RetryFailedJobs(svc *paymentsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		moved := svc.RetryFailedJobs()
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Failed jobs re-enqueued",
			fiber.Map{"moved": moved})
	}
}
