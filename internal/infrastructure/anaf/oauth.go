package anaf

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
)

// OAuth endpoints of the ANAF identity provider. The authorize step requires
// the user's qualified certificate in the browser; this package only handles
// the code exchange and refresh.
const (
	AuthorizeURL = "https://logincert.anaf.ro/anaf-oauth2/v1/authorize"
	TokenURL     = "https://logincert.anaf.ro/anaf-oauth2/v1/token"
)

// tokenContentTypeJWT is required by ANAF on both authorize and exchange,
// otherwise the issued token cannot be used against the e-Factura API.
var tokenContentTypeJWT = oauth2.SetAuthURLParam("token_content_type", "jwt")

// OAuthConfig builds the x/oauth2 configuration for the ANAF identity
// provider from the registered application credentials.
func OAuthConfig(clientID, clientSecret, redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint: oauth2.Endpoint{
			AuthURL:  AuthorizeURL,
			TokenURL: TokenURL,
		},
	}
}

// AuthCodeURL returns the browser URL that starts the authorization-code
// dance for the given anti-CSRF state.
func AuthCodeURL(cfg *oauth2.Config, state string) string {
	return cfg.AuthCodeURL(state, tokenContentTypeJWT)
}

// Exchange trades the authorization code for the initial token pair.
func Exchange(ctx context.Context, cfg *oauth2.Config, code string) (*oauth2.Token, error) {
	token, err := cfg.Exchange(ctx, code, tokenContentTypeJWT)
	if err != nil {
		return nil, fmt.Errorf("%w: exchange authorization code: %v", ErrAuthentication, err)
	}
	return token, nil
}

// TokenSource returns a self-refreshing token source seeded with a stored
// refresh token. Refresh policy is x/oauth2's, not ours.
func TokenSource(ctx context.Context, cfg *oauth2.Config, refreshToken string) oauth2.TokenSource {
	return cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
}
