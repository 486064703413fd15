// Package common holds the response envelope, RFC 9457 problem details and
// request binding helpers shared by the HTTP handlers.
package common

import (
	"errors"

	"github.com/amirasaad/payflow/pkg/domain"
	"github.com/amirasaad/payflow/pkg/domain/bank"
	"github.com/amirasaad/payflow/pkg/domain/payment"
	domrecon "github.com/amirasaad/payflow/pkg/domain/reconciliation"
	"github.com/amirasaad/payflow/pkg/money"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Response is the standard API response structure for success cases.
type Response struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ProblemDetails follows RFC 9457 Problem Details for HTTP APIs.
type ProblemDetails struct {
	Type     string `json:"type,omitempty"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
	Errors   any    `json:"errors,omitempty"`
}

// SuccessResponseJSON writes the standard success envelope.
func SuccessResponseJSON(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Response{
		Status:  status,
		Message: message,
		Data:    data,
	})
}

// ProblemDetailsJSON writes an application/problem+json response. The status
// is derived from err unless an int is passed in extras; a string in extras
// becomes the detail.
func ProblemDetailsJSON(c *fiber.Ctx, title string, err error, extras ...any) error {
	status := ErrorToStatusCode(err)
	pd := ProblemDetails{
		Type:     "about:blank",
		Title:    title,
		Instance: c.OriginalURL(),
	}
	if err != nil {
		pd.Detail = err.Error()
	}
	for _, extra := range extras {
		switch v := extra.(type) {
		case int:
			status = v
		case string:
			pd.Detail = v
		default:
			pd.Errors = v
		}
	}
	pd.Status = status
	c.Set(fiber.HeaderContentType, "application/problem+json")
	return c.Status(status).JSON(pd)
}

// ErrorToStatusCode maps domain errors to HTTP status codes.
func ErrorToStatusCode(err error) int {
	switch {
	case err == nil:
		return fiber.StatusInternalServerError
	case errors.Is(err, payment.ErrPaymentNotFound),
		errors.Is(err, bank.ErrAccountNotFound),
		errors.Is(err, bank.ErrTransactionNotFound),
		errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, payment.ErrNotCancellable),
		errors.Is(err, payment.ErrNotRefundable),
		errors.Is(err, payment.ErrInvalidTransition),
		errors.Is(err, payment.ErrNotPending),
		errors.Is(err, bank.ErrAccountInactive),
		errors.Is(err, domain.ErrInvalidState):
		return fiber.StatusConflict
	case errors.Is(err, payment.ErrRefundExceedsAmount),
		errors.Is(err, payment.ErrFraudRejected),
		errors.Is(err, payment.ErrRetriesExhausted),
		errors.Is(err, money.ErrInvalidCurrency),
		errors.Is(err, money.ErrCurrencyMismatch):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, payment.ErrUnknownMethod),
		errors.Is(err, payment.ErrUserRequired),
		errors.Is(err, payment.ErrAmountNotPositive),
		errors.Is(err, bank.ErrInvalidAccountNumber),
		errors.Is(err, bank.ErrInvalidRoutingNumber),
		errors.Is(err, bank.ErrAmountNotPositive),
		errors.Is(err, bank.ErrUnknownAccountType),
		errors.Is(err, bank.ErrUnknownTransactionType),
		errors.Is(err, domrecon.ErrMissingReference),
		errors.Is(err, money.ErrInvalidAmount),
		errors.Is(err, money.ErrAmountExceedsMaxSafeInt),
		errors.Is(err, domain.ErrValidation):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// BindAndValidate parses the request body into T and validates it. On failure
// the error response is already written and the returned pointer is nil.
func BindAndValidate[T any](c *fiber.Ctx) (*T, error) {
	var input T
	if err := c.BodyParser(&input); err != nil {
		_ = ProblemDetailsJSON(c, "Invalid request body", err, fiber.StatusBadRequest)
		return nil, err
	}
	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		_ = ProblemDetailsJSON(c, "Validation failed", err, fiber.StatusBadRequest)
		return nil, err
	}
	return &input, nil
}

// ParseIDParam parses a UUID path parameter and writes a problem response on
// failure.
func ParseIDParam(c *fiber.Ctx, name string) (uuid.UUID, bool) {
	parsed, err := uuid.Parse(c.Params(name))
	if err != nil {
		_ = ProblemDetailsJSON(c, "Invalid "+name, err,
			name+" must be a valid UUID", fiber.StatusBadRequest)
		return uuid.Nil, false
	}
	return parsed, true
}
