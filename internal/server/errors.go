package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/kantor-pay/kantor_pay/internal/balance"
	"github.com/kantor-pay/kantor_pay/internal/identity"
	"github.com/kantor-pay/kantor_pay/internal/money"
	"github.com/kantor-pay/kantor_pay/internal/rates"
	"github.com/kantor-pay/kantor_pay/internal/wallet"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorHandler translates domain errors into the stable {code, message}
// envelope clients depend on. Unrecognized errors become opaque 500s so
// internals never leak over the wire.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	code := "INTERNAL_ERROR"
	message := "internal server error"

	var fiberErr *fiber.Error
	switch {
	case errors.Is(err, money.ErrInvalidAmount) || errors.Is(err, wallet.ErrMalformedCurrency) || errors.Is(err, identity.ErrInvalidInput):
		status = fiber.StatusBadRequest
		code = "VALIDATION_ERROR"
		message = err.Error()
	case errors.Is(err, wallet.ErrInvalidCurrency):
		status = fiber.StatusBadRequest
		code = "INVALID_CURRENCY"
		message = err.Error()
	case errors.Is(err, balance.ErrInsufficientFunds):
		status = fiber.StatusBadRequest
		code = "INSUFFICIENT_FUNDS"
		message = err.Error()
	case errors.Is(err, identity.ErrInvalidCredentials):
		status = fiber.StatusUnauthorized
		code = "INVALID_CREDENTIALS"
		message = err.Error()
	case errors.Is(err, rates.ErrUnavailable):
		status = fiber.StatusServiceUnavailable
		code = "EXCHANGE_SERVICE_UNAVAILABLE"
		message = "exchange rate service unavailable"
	case errors.As(err, &fiberErr):
		status = fiberErr.Code
		code = statusCode(fiberErr.Code)
		message = fiberErr.Message
	}

	return c.Status(status).JSON(errorResponse{Code: code, Message: message})
}

func statusCode(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return "INTERNAL_ERROR"
	}
	return strings.ToUpper(strings.ReplaceAll(text, " ", "_"))
}
