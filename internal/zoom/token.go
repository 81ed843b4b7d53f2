package zoom

import (
	"context"
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const grantTypeAccountCredentials = "account_credentials"

// TokenProvider exchanges the Server-to-Server OAuth app credentials for short-lived access tokens.
// Tokens are never cached; every call to AccessToken performs a fresh exchange.
type TokenProvider struct {
	config     *clientcredentials.Config
	httpClient *http.Client
}

// NewTokenProvider creates a new token provider for the given account and OAuth app.
// A nil httpClient falls back to http.DefaultClient.
func NewTokenProvider(tokenURL, accountID, clientID, clientSecret string, httpClient *http.Client) (*TokenProvider, error) {
	endpoint, err := url.Parse(tokenURL)
	if err != nil {
		return nil, err
	}
	query := endpoint.Query()
	query.Set("grant_type", grantTypeAccountCredentials)
	query.Set("account_id", accountID)
	endpoint.RawQuery = query.Encode()

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &TokenProvider{
		config: &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     endpoint.String(),
			AuthStyle:    oauth2.AuthStyleInHeader,
			EndpointParams: url.Values{
				// The client_credentials grant type set by the library is not accepted by Zoom
				"grant_type": {grantTypeAccountCredentials},
			},
		},
		httpClient: httpClient,
	}, nil
}

// AccessToken performs the token exchange and returns the raw bearer token
func (provider *TokenProvider) AccessToken(ctx context.Context) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, provider.httpClient)
	token, err := provider.config.Token(ctx)
	if err != nil {
		log.Error().Err(err).Msg("could not fetch a Zoom access token")
		return "", &UpstreamAuthError{Wrapping: err}
	}
	log.Debug().Time("expiry", token.Expiry).Msg("fetched a new Zoom access token")
	return token.AccessToken, nil
}
