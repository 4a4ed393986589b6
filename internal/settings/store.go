package settings

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Store persists the configuration record as a flat key/value table in
// a SQLite file under the application config directory.
type Store struct {
	db *sql.DB
}

func dbPath(dir string) (string, error) {
	if dir == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(configDir, "askbq")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "askbq.db"), nil
}

// New opens (creating if needed) the settings database in dir. An empty
// dir selects the per-user config directory.
func New(dir string) (*Store, error) {
	path, err := dbPath(dir)
	if err != nil {
		return nil, fmt.Errorf("config dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return newWithDB(db)
}

func newWithDB(db *sql.DB) (*Store, error) {
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL DEFAULT ''
		);
	`)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

// Load reads the whole configuration record. Missing keys read as empty
// strings; authMethod and modelProvider fall back to their defaults so
// callers never see an empty discriminator.
func (s *Store) Load() (Config, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings`)
	if err != nil {
		return Config{}, err
	}
	defer rows.Close()

	vals := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return Config{}, err
		}
		vals[k] = v
	}
	if err := rows.Err(); err != nil {
		return Config{}, err
	}

	cfg := Config{
		ProjectID:          vals[keyProjectID],
		DatasetID:          vals[keyDatasetID],
		GeminiKey:          vals[keyGeminiKey],
		AuthMethod:         vals[keyAuthMethod],
		ServiceAccountJSON: vals[keyServiceAccountJSON],
		OAuthClientID:      vals[keyOAuthClientID],
		OAuthClientSecret:  vals[keyOAuthClientSecret],
		OAuthTokens:        vals[keyOAuthTokens],
		PendingOAuthClient: vals[keyPendingOAuthClient],
		ModelProvider:      vals[keyModelProvider],
		AnthropicKey:       vals[keyAnthropicKey],
	}
	if cfg.AuthMethod == "" {
		cfg.AuthMethod = AuthAPIKey
	}
	if cfg.ModelProvider == "" {
		cfg.ModelProvider = ProviderGemini
	}
	return cfg, nil
}

// Save applies a partial update in one transaction and reports whether
// any warehouse-credential-relevant field (project, dataset, auth
// method, OAuth client pair) actually changed value. Model keys and
// provider selection are not credential-relevant: they are read fresh
// on every agent turn.
func (s *Store) Save(u Update) (credChanged bool, err error) {
	type field struct {
		key        string
		val        *string
		credential bool
	}
	fields := []field{
		{keyProjectID, u.ProjectID, true},
		{keyDatasetID, u.DatasetID, true},
		{keyAuthMethod, u.AuthMethod, true},
		{keyOAuthClientID, u.OAuthClientID, true},
		{keyOAuthClientSecret, u.OAuthClientSecret, true},
		{keyGeminiKey, u.GeminiKey, false},
		{keyModelProvider, u.ModelProvider, false},
		{keyAnthropicKey, u.AnthropicKey, false},
	}

	tx, err := s.db.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	for _, f := range fields {
		if f.val == nil {
			continue
		}
		var prev string
		err := tx.QueryRow(`SELECT value FROM settings WHERE key = ?`, f.key).Scan(&prev)
		if err != nil && err != sql.ErrNoRows {
			return false, err
		}
		if prev == *f.val {
			continue
		}
		if _, err := tx.Exec(
			`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			f.key, *f.val,
		); err != nil {
			return false, err
		}
		if f.credential {
			credChanged = true
		}
	}
	return credChanged, tx.Commit()
}

// StoreServiceAccount persists an uploaded key document and switches the
// active method to serviceAccount in the same transaction.
func (s *Store) StoreServiceAccount(doc string) error {
	return s.setAll(map[string]string{
		keyServiceAccountJSON: doc,
		keyAuthMethod:         AuthServiceAccount,
	})
}

// StorePendingOAuthClient freezes the client pair a sign-in was
// initiated with, so the later code exchange uses exactly that pair.
func (s *Store) StorePendingOAuthClient(pending string) error {
	return s.set(keyPendingOAuthClient, pending)
}

// StoreOAuthTokens persists an exchanged token pair, switches the active
// method to browser, and clears the pending client, all in one
// transaction.
func (s *Store) StoreOAuthTokens(tokens string) error {
	return s.setAll(map[string]string{
		keyOAuthTokens:        tokens,
		keyAuthMethod:         AuthBrowser,
		keyPendingOAuthClient: "",
	})
}

func (s *Store) setAll(kv map[string]string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for k, v := range kv {
		if _, err := tx.Exec(
			`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			k, v,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}
