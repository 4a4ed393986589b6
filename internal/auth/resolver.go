package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"cloud.google.com/go/bigquery"
	"github.com/askbq/askbq/internal/settings"
	"github.com/askbq/askbq/internal/warehouse"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
)

var (
	ErrProjectNotConfigured    = errors.New("project ID not configured: set it in the connection settings")
	ErrCredentialNotConfigured = errors.New("credentials not configured")
	ErrInvalidCredential       = errors.New("invalid credential file")
	ErrTokenExchange           = errors.New("token exchange failed")
	ErrNoPendingSignIn         = errors.New("no pending sign-in: initiate the browser sign-in first")
)

// Resolver owns the lazily constructed warehouse client and the
// credential strategy selection. The client is bound to the project and
// credential fields it was built from; Invalidate discards it so the
// next use reconstructs it from current configuration.
type Resolver struct {
	mu     sync.Mutex
	store  *settings.Store
	client *warehouse.Client

	// Remote seams, replaceable in tests.
	dial     func(ctx context.Context, cfg settings.Config) (*warehouse.Client, error)
	exchange func(ctx context.Context, oc *oauth2.Config, code string) (*oauth2.Token, error)
}

func NewResolver(store *settings.Store) *Resolver {
	return &Resolver{
		store: store,
		dial:  dialBigQuery,
		exchange: func(ctx context.Context, oc *oauth2.Config, code string) (*oauth2.Token, error) {
			return oc.Exchange(ctx, code)
		},
	}
}

// Client returns the cached warehouse client, constructing it from the
// stored configuration on first use after startup or invalidation.
func (r *Resolver) Client(ctx context.Context) (*warehouse.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.client != nil {
		return r.client, nil
	}

	cfg, err := r.store.Load()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	if cfg.ProjectID == "" {
		return nil, ErrProjectNotConfigured
	}

	client, err := r.dial(ctx, cfg)
	if err != nil {
		return nil, err
	}
	r.client = client

	log.Info().Str("project", cfg.ProjectID).Str("method", cfg.AuthMethod).Msg("warehouse client ready")
	return client, nil
}

// Invalidate discards the cached client. The next Client call rebuilds
// it from whatever is stored then.
func (r *Resolver) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.client != nil {
		_ = r.client.Close()
		r.client = nil
		log.Info().Msg("warehouse client invalidated")
	}
}

// dialBigQuery builds the BigQuery client for the active auth method.
// Only that method's fields are consulted; material belonging to
// inactive methods is ignored even when present.
func dialBigQuery(ctx context.Context, cfg settings.Config) (*warehouse.Client, error) {
	var opts []option.ClientOption

	switch cfg.AuthMethod {
	case settings.AuthServiceAccount:
		if cfg.ServiceAccountJSON == "" {
			return nil, fmt.Errorf("%w: upload a service-account key file first", ErrCredentialNotConfigured)
		}
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.ServiceAccountJSON)))

	case settings.AuthBrowser:
		if cfg.OAuthTokens == "" {
			return nil, fmt.Errorf("%w: complete the browser sign-in first", ErrCredentialNotConfigured)
		}
		var tok oauth2.Token
		if err := json.Unmarshal([]byte(cfg.OAuthTokens), &tok); err != nil {
			return nil, fmt.Errorf("%w: stored tokens are unreadable", ErrCredentialNotConfigured)
		}
		// The token source refreshes across requests, so it must not be
		// tied to the lifetime of the request that built the client.
		ts := oauthConfig(cfg.OAuthClientID, cfg.OAuthClientSecret).TokenSource(context.Background(), &tok)
		opts = append(opts, option.WithTokenSource(ts))

	default:
		// Ambient environment credentials; connectivity errors surface
		// at the first remote call.
	}

	bq, err := bigquery.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("bigquery client: %w", err)
	}
	return warehouse.NewClient(bq, cfg.ProjectID), nil
}

type serviceAccountKey struct {
	Type        string `json:"type"`
	ClientEmail string `json:"client_email"`
}

// StoreServiceAccountKey validates an uploaded key document and persists
// it, switching the active method to serviceAccount. Nothing is written
// when validation fails. Returns the key's service-account email for
// display.
func (r *Resolver) StoreServiceAccountKey(doc string) (string, error) {
	var key serviceAccountKey
	if err := json.Unmarshal([]byte(doc), &key); err != nil {
		return "", fmt.Errorf("%w: not a JSON document", ErrInvalidCredential)
	}
	if key.Type != "service_account" {
		return "", fmt.Errorf("%w: declared type %q is not a service-account key", ErrInvalidCredential, key.Type)
	}
	if err := r.store.StoreServiceAccount(doc); err != nil {
		return "", fmt.Errorf("store key: %w", err)
	}
	log.Info().Str("email", key.ClientEmail).Msg("service-account key stored")
	return key.ClientEmail, nil
}
