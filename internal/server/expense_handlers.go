package server

import (
	"github.com/gofiber/fiber/v2"

	"github.com/splitledger/splitledger/internal/ledger"
	"github.com/splitledger/splitledger/internal/middleware"
	"github.com/splitledger/splitledger/internal/service"
)

// expenseRequest carries the expense payload. Amounts are minor units of
// the group currency; the directive field matching split_type is the one
// consulted.
type expenseRequest struct {
	Description  string                `json:"description"`
	Amount       int64                 `json:"amount"`
	Currency     string                `json:"currency"`
	SplitType    ledger.SplitType      `json:"split_type"`
	Payers       []ledger.PayerShare   `json:"payers"`
	Participants []string              `json:"participants,omitempty"`
	Percents     []ledger.PercentShare `json:"percents,omitempty"`
	Amounts      []ledger.CustomShare  `json:"amounts,omitempty"`
}

func (r expenseRequest) toInput() service.ExpenseInput {
	return service.ExpenseInput{
		Description: r.Description,
		Amount:      r.Amount,
		Currency:    r.Currency,
		SplitType:   r.SplitType,
		Payers:      r.Payers,
		Directive: ledger.Directive{
			Participants: r.Participants,
			Percents:     r.Percents,
			Amounts:      r.Amounts,
		},
	}
}

func (s *Server) handleCreateExpense(c *fiber.Ctx) error {
	var body expenseRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	expense, err := s.expenses.Create(c.Context(), middleware.UserID(c), c.Params("id"), body.toInput())
	if err != nil {
		return httpError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toExpenseResponse(expense))
}

func (s *Server) handleListExpenses(c *fiber.Ctx) error {
	expenses, err := s.expenses.ListByGroup(c.Context(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(fiber.Map{"expenses": toExpenseResponses(expenses)})
}

func (s *Server) handleGetExpense(c *fiber.Ctx) error {
	expense, err := s.expenses.Get(c.Context(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(toExpenseResponse(expense))
}

func (s *Server) handleUpdateExpense(c *fiber.Ctx) error {
	var body expenseRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	expense, err := s.expenses.Update(c.Context(), middleware.UserID(c), c.Params("id"), body.toInput())
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(toExpenseResponse(expense))
}

func (s *Server) handleDeleteExpense(c *fiber.Ctx) error {
	if err := s.expenses.Delete(c.Context(), middleware.UserID(c), c.Params("id")); err != nil {
		return httpError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
