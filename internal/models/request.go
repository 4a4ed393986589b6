package models

// AskRequest for POST /api/v1/ask
type AskRequest struct {
	Question string `json:"question"`
}

// SaveConfigRequest carries a partial settings write for
// POST /api/v1/config. Nil fields are left untouched.
type SaveConfigRequest struct {
	ProjectID         *string `json:"projectId,omitempty"`
	DatasetID         *string `json:"datasetId,omitempty"`
	GeminiKey         *string `json:"geminiKey,omitempty"`
	AuthMethod        *string `json:"authMethod,omitempty"`
	OAuthClientID     *string `json:"oauthClientId,omitempty"`
	OAuthClientSecret *string `json:"oauthClientSecret,omitempty"`
	ModelProvider     *string `json:"modelProvider,omitempty"`
	AnthropicKey      *string `json:"anthropicKey,omitempty"`
}

// UploadKeyRequest for POST /api/v1/config/service-account. JSON holds
// the raw key file contents as pasted or uploaded.
type UploadKeyRequest struct {
	JSON string `json:"json"`
}

// AuthCodeRequest for POST /api/v1/auth/browser/code
type AuthCodeRequest struct {
	Code string `json:"code"`
}

// OpenLinkRequest for POST /api/v1/open
type OpenLinkRequest struct {
	URL string `json:"url"`
}
