package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/kantor-pay/kantor_pay/internal/auth"
	"github.com/kantor-pay/kantor_pay/internal/config"
)

// JWTAuth returns a middleware that validates bearer access tokens and
// resolves the user identifier for downstream handlers.
func JWTAuth(cfg config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return fiber.NewError(http.StatusUnauthorized, "missing bearer token")
		}
		tokenStr := strings.TrimSpace(authz[len("Bearer "):])
		claims, err := auth.ParseAndVerifyHS256(tokenStr, []byte(cfg.JWTSecret))
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "invalid token")
		}

		sub, _ := claims["sub"].(string)
		if sub == "" {
			return fiber.NewError(http.StatusUnauthorized, "invalid token")
		}
		expFloat, _ := claims["exp"].(float64)
		if expFloat == 0 || time.Now().Unix() >= int64(expFloat) {
			return fiber.NewError(http.StatusUnauthorized, "token expired")
		}

		c.Locals("user_id", sub)
		return c.Next()
	}
}
