package server

import (
	"github.com/gofiber/fiber/v2"

	"github.com/splitledger/splitledger/internal/middleware"
	"github.com/splitledger/splitledger/internal/models"
	"github.com/splitledger/splitledger/internal/money"
	"github.com/splitledger/splitledger/pkg/qrcode"
)

func (s *Server) handleGetBalances(c *fiber.Ctx) error {
	balances, err := s.settlements.Balances(c.Context(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(fiber.Map{"balances": balances})
}

func (s *Server) handleRecalculateSettlements(c *fiber.Ctx) error {
	settlements, err := s.settlements.Recalculate(c.Context(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return httpError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"settlements": toSettlementResponses(settlements)})
}

func (s *Server) handleListSettlements(c *fiber.Ctx) error {
	status := models.SettlementStatus(c.Query("status"))
	switch status {
	case "", models.SettlementPending, models.SettlementCompleted, models.SettlementCancelled:
	default:
		return fiber.NewError(fiber.StatusBadRequest, "unknown status filter")
	}

	settlements, err := s.settlements.List(c.Context(), middleware.UserID(c), c.Params("id"), status)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(fiber.Map{"settlements": toSettlementResponses(settlements)})
}

func (s *Server) handleCompleteSettlement(c *fiber.Ctx) error {
	settlement, err := s.settlements.Complete(c.Context(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(toSettlementResponse(settlement))
}

func (s *Server) handleCancelSettlement(c *fiber.Ctx) error {
	settlement, err := s.settlements.Cancel(c.Context(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(toSettlementResponse(settlement))
}

func (s *Server) handleDeleteSettlement(c *fiber.Ctx) error {
	if err := s.settlements.Delete(c.Context(), middleware.UserID(c), c.Params("id")); err != nil {
		return httpError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// handleSettlementQR renders a PromptPay QR for paying the settlement
// amount to the target PromptPay ID.
func (s *Server) handleSettlementQR(c *fiber.Ctx) error {
	target := c.Query("target")
	if target == "" {
		return fiber.NewError(fiber.StatusBadRequest, "target promptpay id required")
	}

	settlement, err := s.settlements.Get(c.Context(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return httpError(c, err)
	}

	png, err := qrcode.GeneratePromptPay(target, money.ToDecimal(settlement.Amount))
	if err != nil {
		return httpError(c, err)
	}

	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}

func (s *Server) handleGroupStatement(c *fiber.Ctx) error {
	pdf, err := s.statements.GroupStatementPDF(c.Context(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return httpError(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="statement.pdf"`)
	return c.Send(pdf)
}
