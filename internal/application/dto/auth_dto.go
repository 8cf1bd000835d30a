package dto

// TokenRequest exchanges the configured API key for a gateway JWT.
type TokenRequest struct {
	APIKey string `json:"api_key"`
}

// TokenResponse carries the signed token.
type TokenResponse struct {
	Token            string `json:"token"`
	ExpiresInMinutes int    `json:"expires_in_minutes"`
}
