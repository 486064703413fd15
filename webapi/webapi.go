// Package webapi provides the HTTP surface of the payment pipeline. It is
// organized into sub-packages per domain:
// - payment: payment submission, lifecycle and queue endpoints
// - banking: bank accounts and bank-reported transactions
// - reconciliation: matching bank transactions against payments
package webapi

import (
	"errors"
	"strings"

	"github.com/amirasaad/payflow/pkg/app"
	bankingweb "github.com/amirasaad/payflow/webapi/banking"
	"github.com/amirasaad/payflow/webapi/common"
	paymentweb "github.com/amirasaad/payflow/webapi/payment"
	reconweb "github.com/amirasaad/payflow/webapi/reconciliation"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// SetupApp initializes Fiber with the middleware stack and all routes.
func SetupApp(a *app.App) *fiber.App {
	fiberApp := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return common.ProblemDetailsJSON(c, "Internal Server Error", err)
		},
	})

	// Rate limiting keyed by client IP. Uses X-Forwarded-For when behind a
	// proxy, falling back to X-Real-IP, then the direct peer address.
	fiberApp.Use(limiter.New(limiter.Config{
		Max:        a.Config.RateLimit.MaxRequests,
		Expiration: a.Config.RateLimit.Window,
		KeyGenerator: func(c *fiber.Ctx) string {
			if forwardedFor := c.Get("X-Forwarded-For"); forwardedFor != "" {
				if commaIndex := strings.Index(forwardedFor, ","); commaIndex != -1 {
					return strings.TrimSpace(forwardedFor[:commaIndex])
				}
				return strings.TrimSpace(forwardedFor)
			}
			if realIP := c.Get("X-Real-IP"); realIP != "" {
				return realIP
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return common.ProblemDetailsJSON(
				c,
				"Too Many Requests",
				errors.New("rate limit exceeded"),
				fiber.StatusTooManyRequests,
			)
		},
	}))
	fiberApp.Use(recover.New())
	fiberApp.Use(logger.New())

	// Health check endpoint
	fiberApp.Get(
		"/",
		func(c *fiber.Ctx) error {
			return c.SendString("PayFlow API is running! 🚀")
		},
	)

	paymentweb.Routes(fiberApp, a.PaymentService)
	bankingweb.Routes(fiberApp, a.BankingService)
	reconweb.Routes(fiberApp, a.ReconciliationService)
	return fiberApp
}
