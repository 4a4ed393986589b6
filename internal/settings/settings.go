package settings

const (
	AuthServiceAccount = "serviceAccount"
	AuthBrowser        = "browser"
	AuthAPIKey         = "apiKey"
)

const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

// Persisted keys. The store is a flat key/value document; these are the
// only keys the application reads or writes.
const (
	keyProjectID          = "projectId"
	keyDatasetID          = "datasetId"
	keyGeminiKey          = "geminiKey"
	keyAuthMethod         = "authMethod"
	keyServiceAccountJSON = "serviceAccountJson"
	keyOAuthClientID      = "oauthClientId"
	keyOAuthClientSecret  = "oauthClientSecret"
	keyOAuthTokens        = "oauthTokens"
	keyPendingOAuthClient = "pendingOauthClient"
	keyModelProvider      = "modelProvider"
	keyAnthropicKey       = "anthropicKey"
)

// Config is the full configuration record as currently persisted.
// AuthMethod decides which credential fields are authoritative; fields
// belonging to inactive methods may hold stale values and must not be
// consulted.
type Config struct {
	ProjectID          string
	DatasetID          string
	GeminiKey          string
	AuthMethod         string
	ServiceAccountJSON string
	OAuthClientID      string
	OAuthClientSecret  string
	OAuthTokens        string
	PendingOAuthClient string
	ModelProvider      string
	AnthropicKey       string
}

// HasServiceAccount reports whether a service-account key document has
// been uploaded.
func (c Config) HasServiceAccount() bool {
	return c.ServiceAccountJSON != ""
}

// Update carries a partial configuration write. Nil fields are left
// untouched. Credential material (key document, tokens, pending client)
// is written through dedicated store operations, not through Update.
type Update struct {
	ProjectID         *string
	DatasetID         *string
	GeminiKey         *string
	AuthMethod        *string
	OAuthClientID     *string
	OAuthClientSecret *string
	ModelProvider     *string
	AnthropicKey      *string
}

func ValidAuthMethod(s string) bool {
	switch s {
	case AuthServiceAccount, AuthBrowser, AuthAPIKey:
		return true
	}
	return false
}

func ValidProvider(s string) bool {
	switch s {
	case ProviderGemini, ProviderAnthropic:
		return true
	}
	return false
}
