package server

import (
	"github.com/gofiber/fiber/v2"

	"github.com/splitledger/splitledger/internal/middleware"
)

type registerRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func (s *Server) handleRegister(c *fiber.Ctx) error {
	var body registerRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if body.Email == "" || body.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "email and password required")
	}

	user, token, err := s.auth.Register(c.Context(), body.Email, body.DisplayName, body.Password)
	if err != nil {
		return httpError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(authResponse{Token: token, User: toUserResponse(user)})
}

func (s *Server) handleLogin(c *fiber.Ctx) error {
	var body loginRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	user, token, err := s.auth.Login(c.Context(), body.Email, body.Password)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(authResponse{Token: token, User: toUserResponse(user)})
}

func (s *Server) handleMe(c *fiber.Ctx) error {
	user, err := s.auth.Me(c.Context(), middleware.UserID(c))
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(toUserResponse(user))
}
