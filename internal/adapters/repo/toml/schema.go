package toml

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version  int             `toml:"version"`
	Profiles []profileSchema `toml:"profiles"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported profiles schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type profileSchema struct {
	ID            string `toml:"id"`
	Name          string `toml:"name"`
	Email         string `toml:"email"`
	APIKey        string `toml:"api_key,omitempty"`
	PasswordRef   string `toml:"password_ref"`
	TOTPSecretRef string `toml:"totp_secret_ref,omitempty"`
	LastAccountID string `toml:"last_account_id,omitempty"`
}
