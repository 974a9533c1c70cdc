package auth

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/kantor-pay/kantor_pay/internal/identity"
)

// Handler exposes registration and login endpoints.
type Handler struct {
	ids *identity.Service
	svc *Service
}

// NewHandler builds an auth HTTP handler.
func NewHandler(ids *identity.Service, svc *Service) *Handler {
	return &Handler{ids: ids, svc: svc}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a user and immediately returns an access token.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	user, err := h.ids.Register(c.UserContext(), identity.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		return err
	}
	token, err := h.svc.Issue(user)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(token)
}

// Token authenticates credentials and returns an access token.
func (h *Handler) Token(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	user, err := h.ids.Authenticate(c.UserContext(), identity.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		return err
	}
	token, err := h.svc.Issue(user)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(token)
}
