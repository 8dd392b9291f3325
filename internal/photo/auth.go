package photo

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// Credentials configure the OAuth2 client-credentials grant used by
// deployments that put the service behind a token gateway.
type Credentials struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scopes       []string
}

// Enabled reports whether a token URL is configured.
func (c Credentials) Enabled() bool {
	return strings.TrimSpace(c.TokenURL) != ""
}

// AuthenticatedClient wraps base so every request carries a bearer token.
// Token requests also go through base, sharing its logging and timeout.
// When creds is not enabled, base is returned unchanged.
func AuthenticatedClient(ctx context.Context, base *http.Client, creds Credentials) *http.Client {
	if !creds.Enabled() {
		return base
	}

	if base == nil {
		base = http.DefaultClient
	}

	cfg := clientcredentials.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		TokenURL:     creds.TokenURL,
		Scopes:       creds.Scopes,
	}

	client := cfg.Client(context.WithValue(ctx, oauth2.HTTPClient, base))
	client.Timeout = base.Timeout

	return client
}
