package models

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// ConfigResponse is returned by GET /api/v1/config. The service-account
// key document itself is never echoed back; HasJSONKey only signals
// that one is on file.
type ConfigResponse struct {
	ProjectID     string `json:"projectId"`
	DatasetID     string `json:"datasetId"`
	GeminiKey     string `json:"geminiKey"`
	AuthMethod    string `json:"authMethod"`
	ModelProvider string `json:"modelProvider"`
	HasJSONKey    bool   `json:"hasJsonKey"`
}

// OKResponse is the common shape for settings and auth operations.
type OKResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// UploadKeyResponse is returned by POST /api/v1/config/service-account
type UploadKeyResponse struct {
	OK    bool   `json:"ok"`
	Email string `json:"email,omitempty"`
	Error string `json:"error,omitempty"`
}

// SignInResponse is returned by POST /api/v1/auth/browser/initiate
type SignInResponse struct {
	OK      bool   `json:"ok"`
	AuthURL string `json:"authUrl,omitempty"`
	Error   string `json:"error,omitempty"`
}

// TablesResponse is returned by GET /api/v1/connection/test
type TablesResponse struct {
	OK     bool     `json:"ok"`
	Tables []string `json:"tables"`
	Error  string   `json:"error,omitempty"`
}
