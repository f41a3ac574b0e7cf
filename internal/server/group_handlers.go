package server

import (
	"github.com/gofiber/fiber/v2"

	"github.com/splitledger/splitledger/internal/middleware"
)

type createGroupRequest struct {
	Name     string   `json:"name"`
	Currency string   `json:"currency"`
	Members  []string `json:"members"`
}

type updateGroupRequest struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

func (s *Server) handleCreateGroup(c *fiber.Ctx) error {
	var body createGroupRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	group, err := s.groups.Create(c.Context(), middleware.UserID(c), body.Name, body.Currency, body.Members)
	if err != nil {
		return httpError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toGroupResponse(group))
}

func (s *Server) handleListGroups(c *fiber.Ctx) error {
	groups, err := s.groups.List(c.Context(), middleware.UserID(c))
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(fiber.Map{"groups": toGroupResponses(groups)})
}

func (s *Server) handleGetGroup(c *fiber.Ctx) error {
	group, err := s.groups.Get(c.Context(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(toGroupResponse(group))
}

func (s *Server) handleUpdateGroup(c *fiber.Ctx) error {
	var body updateGroupRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	group, err := s.groups.Update(c.Context(), middleware.UserID(c), c.Params("id"), body.Name, body.Members)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(toGroupResponse(group))
}

func (s *Server) handleDeleteGroup(c *fiber.Ctx) error {
	if err := s.groups.Delete(c.Context(), middleware.UserID(c), c.Params("id")); err != nil {
		return httpError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
