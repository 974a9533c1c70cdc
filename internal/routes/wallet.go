package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kantor-pay/kantor_pay/internal/wallet"
)

// RegisterWalletRoutes wires wallet endpoints.
func RegisterWalletRoutes(r fiber.Router, h *wallet.Handler) {
	r.Get("/wallet", h.Get)
	r.Post("/wallet/add", h.Add)
	r.Post("/wallet/subtract", h.Subtract)
}
