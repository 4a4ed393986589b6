package auth

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/bigquery"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Out-of-band redirect: the authorization server displays the code to
// the user for manual copy-paste instead of calling back into the app.
const oobRedirectURL = "urn:ietf:wg:oauth:2.0:oob"

type pendingClient struct {
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
}

func oauthConfig(clientID, clientSecret string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  oobRedirectURL,
		Scopes:       []string{bigquery.Scope},
	}
}

// InitiateBrowserSignIn builds the authorization URL for the stored
// OAuth client pair and freezes that pair as the pending client, so the
// later code exchange uses exactly the pair the URL was built with.
// The caller is responsible for opening the URL in a browser.
func (r *Resolver) InitiateBrowserSignIn(ctx context.Context) (string, error) {
	cfg, err := r.store.Load()
	if err != nil {
		return "", fmt.Errorf("load settings: %w", err)
	}
	if cfg.OAuthClientID == "" || cfg.OAuthClientSecret == "" {
		return "", fmt.Errorf("%w: set an OAuth client ID and secret in settings", ErrCredentialNotConfigured)
	}

	pending, err := json.Marshal(pendingClient{
		ClientID:     cfg.OAuthClientID,
		ClientSecret: cfg.OAuthClientSecret,
	})
	if err != nil {
		return "", err
	}
	if err := r.store.StorePendingOAuthClient(string(pending)); err != nil {
		return "", fmt.Errorf("store pending client: %w", err)
	}

	url := oauthConfig(cfg.OAuthClientID, cfg.OAuthClientSecret).AuthCodeURL("", oauth2.AccessTypeOffline)
	log.Info().Msg("browser sign-in initiated")
	return url, nil
}

// CompleteBrowserSignIn exchanges a pasted authorization code against
// the pending client pair and persists the resulting token pair. The
// caller must invalidate the warehouse session afterwards; stored tokens
// are a credential change.
func (r *Resolver) CompleteBrowserSignIn(ctx context.Context, code string) error {
	cfg, err := r.store.Load()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if cfg.PendingOAuthClient == "" {
		return ErrNoPendingSignIn
	}
	var pending pendingClient
	if err := json.Unmarshal([]byte(cfg.PendingOAuthClient), &pending); err != nil {
		return fmt.Errorf("%w: pending sign-in state is unreadable", ErrNoPendingSignIn)
	}

	tok, err := r.exchange(ctx, oauthConfig(pending.ClientID, pending.ClientSecret), code)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTokenExchange, err)
	}

	raw, err := json.Marshal(tok)
	if err != nil {
		return err
	}
	if err := r.store.StoreOAuthTokens(string(raw)); err != nil {
		return fmt.Errorf("store tokens: %w", err)
	}

	log.Info().Msg("browser sign-in completed, tokens stored")
	return nil
}
