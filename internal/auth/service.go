package auth

import (
	"time"

	"github.com/kantor-pay/kantor_pay/internal/config"
	"github.com/kantor-pay/kantor_pay/internal/identity"
)

// Service issues bearer tokens for authenticated users.
type Service struct {
	cfg config.Config
}

// NewService builds a token-issuing service.
func NewService(cfg config.Config) *Service {
	return &Service{cfg: cfg}
}

// Token is the response payload carrying a signed access token.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Issue signs an access token for the user.
func (s *Service) Issue(user identity.User) (Token, error) {
	now := time.Now()
	exp := now.Add(s.cfg.AccessTokenTTL)
	claims := map[string]any{
		"sub":   user.ID,
		"email": user.Email,
		"iat":   now.Unix(),
		"exp":   exp.Unix(),
	}
	signed, err := SignHS256(claims, []byte(s.cfg.JWTSecret))
	if err != nil {
		return Token{}, err
	}
	return Token{
		AccessToken: signed,
		TokenType:   "bearer",
		ExpiresIn:   int64(s.cfg.AccessTokenTTL.Seconds()),
	}, nil
}
