// Package auth implements gateway access: a pre-shared API key (stored as a
// bcrypt hash in configuration) is exchanged for a short-lived JWT.
package auth

import (
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/efactura-api/internal/application/dto"
	"github.com/jhoicas/efactura-api/internal/domain"
	"github.com/jhoicas/efactura-api/pkg/jwt"
)

// JWTConfig configures token generation.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase exchanges API keys for tokens.
type AuthUseCase struct {
	apiKeyHash string
	jwtCfg     JWTConfig
}

// NewAuthUseCase builds the use case. apiKeyHash is the bcrypt hash of the
// accepted API key.
func NewAuthUseCase(apiKeyHash string, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{apiKeyHash: apiKeyHash, jwtCfg: jwtCfg}
}

// ExchangeAPIKey verifies the key against the configured hash and returns a
// signed token. A missing hash disables the endpoint entirely.
func (uc *AuthUseCase) ExchangeAPIKey(in dto.TokenRequest) (*dto.TokenResponse, error) {
	if uc.apiKeyHash == "" || in.APIKey == "" {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(uc.apiKeyHash), []byte(in.APIKey)); err != nil {
		return nil, domain.ErrUnauthorized
	}

	// Each token gets its own client id so logs can tell sessions apart.
	clientID := uuid.New().String()
	token, err := jwt.Generate(uc.jwtCfg.Secret, clientID, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{
		Token:            token,
		ExpiresInMinutes: uc.jwtCfg.ExpMinutes,
	}, nil
}
