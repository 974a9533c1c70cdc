package wallet

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/kantor-pay/kantor_pay/internal/money"
)

// Handler exposes wallet HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a wallet HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type operationRequest struct {
	Currency string `json:"currency"`
	Amount   string `json:"amount"`
}

// snapshotResponse serializes amounts as decimal strings so no precision is
// lost in transit. Field names reflect the reference currency of the
// original deployment (PLN) and are part of the wire contract.
type snapshotResponse struct {
	Balances  map[string]string `json:"balances"`
	PLNValues map[string]string `json:"pln_values"`
	TotalPLN  string            `json:"total_pln"`
}

func toResponse(snap Snapshot) snapshotResponse {
	return snapshotResponse{
		Balances:  stringAmounts(snap.Balances),
		PLNValues: stringAmounts(snap.Values),
		TotalPLN:  snap.Total.String(),
	}
}

// Get returns the current wallet snapshot for the authenticated user.
func (h *Handler) Get(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	if userID == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	snap, err := h.service.Snapshot(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(toResponse(snap))
}

// Add deposits funds into the authenticated user's wallet.
func (h *Handler) Add(c *fiber.Ctx) error {
	return h.mutate(c, h.service.Deposit)
}

// Subtract withdraws funds from the authenticated user's wallet.
func (h *Handler) Subtract(c *fiber.Ctx) error {
	return h.mutate(c, h.service.Withdraw)
}

func (h *Handler) mutate(c *fiber.Ctx, op func(ctx context.Context, userID, currency string, amount money.Money) (Snapshot, error)) error {
	userID, _ := c.Locals("user_id").(string)
	if userID == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}

	var req operationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	amount, err := money.ParsePositive(req.Amount)
	if err != nil {
		return err
	}

	snap, err := op(c.UserContext(), userID, req.Currency, amount)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(toResponse(snap))
}
