// Package banking exposes the bank ledger gateway over HTTP: accounts,
// balances and bank-reported transactions.
package banking

import (
	"strconv"

	"github.com/amirasaad/payflow/pkg/domain/bank"
	bankingsvc "github.com/amirasaad/payflow/pkg/service/banking"
	"github.com/amirasaad/payflow/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

// Routes registers the bank ledger endpoints.
//
// Routes:
//   - POST /accounts                   : Open a bank account.
//   - GET  /accounts/:id               : Fetch an account.
//   - GET  /accounts/:id/balance       : Fetch the account balance.
//   - POST /accounts/:id/transactions  : Record a bank-reported transaction.
//   - GET  /accounts/:id/transactions  : List transactions, newest first.
func Routes(app *fiber.App, svc *bankingsvc.Service) {
	app.Post("/accounts", CreateAccount(svc))
	app.Get("/accounts/:id", GetAccount(svc))
	app.Get("/accounts/:id/balance", GetBalance(svc))
	app.Post("/accounts/:id/transactions", RecordTransaction(svc))
	app.Get("/accounts/:id/transactions", ListTransactions(svc))
}

// CreateAccount returns a handler that opens a bank account.
func CreateAccount(svc *bankingsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[CreateAccountRequest](c)
		if input == nil {
			return err
		}
		userID, err := uuid.Parse(input.UserID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid user ID", err, fiber.StatusBadRequest)
		}
		account, err := svc.CreateAccount(c.UserContext(), bankingsvc.CreateAccountInput{
			UserID:        userID,
			AccountNumber: input.AccountNumber,
			RoutingNumber: input.RoutingNumber,
			Type:          bank.AccountType(input.Type),
			Currency:      input.Currency,
		})
		if err != nil {
			log.Errorf("Failed to create bank account: %v", err)
			return common.ProblemDetailsJSON(c, "Failed to create account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Account created", ToAccountDTO(account))
	}
}

// GetAccount returns a handler that fetches one bank account.
func GetAccount(svc *bankingsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := common.ParseIDParam(c, "id")
		if !ok {
			return nil
		}
		account, err := svc.GetAccount(c.UserContext(), id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to fetch account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Account", ToAccountDTO(account))
	}
}

// GetBalance returns a handler that fetches the account balance.
func GetBalance(svc *bankingsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := common.ParseIDParam(c, "id")
		if !ok {
			return nil
		}
		balance, err := svc.GetBalance(c.UserContext(), id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to fetch balance", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Balance", BalanceDTO{
			AccountID: id.String(),
			Balance:   balance.Float(),
			Currency:  balance.Currency().String(),
		})
	}
}

// RecordTransaction returns a handler that records a bank-reported
// transaction and adjusts the account balance.
func RecordTransaction(svc *bankingsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := common.ParseIDParam(c, "id")
		if !ok {
			return nil
		}
		input, err := common.BindAndValidate[RecordTransactionRequest](c)
		if input == nil {
			return err
		}
		currencyCode := input.Currency
		if currencyCode == "" {
			account, err := svc.GetAccount(c.UserContext(), id)
			if err != nil {
				return common.ProblemDetailsJSON(c, "Failed to fetch account", err)
			}
			currencyCode = account.Balance.Currency().String()
		}
		tx, err := svc.RecordTransaction(c.UserContext(), bankingsvc.RecordTransactionInput{
			AccountID:   id,
			Type:        bank.TransactionType(input.Type),
			Amount:      input.Amount,
			Currency:    currencyCode,
			Description: input.Description,
			Reference:   input.Reference,
		})
		if err != nil {
			log.Errorf("Failed to record bank transaction: %v", err)
			return common.ProblemDetailsJSON(c, "Failed to record transaction", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Transaction recorded", ToTransactionDTO(tx))
	}
}

// ListTransactions returns a handler that lists an account's transactions,
// newest first, with limit/offset paging.
func ListTransactions(svc *bankingsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := common.ParseIDParam(c, "id")
		if !ok {
			return nil
		}
		limit, _ := strconv.Atoi(c.Query("limit", "50"))
		offset, _ := strconv.Atoi(c.Query("offset", "0"))
		txs, err := svc.ListTransactions(c.UserContext(), id, limit, offset)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list transactions", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transactions", ToTransactionDTOs(txs))
	}
}
