package toml

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version  int             `toml:"version"`
	Accounts []accountSchema `toml:"accounts"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported accounts schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type accountSchema struct {
	ID        string        `toml:"id"`
	Domain    string        `toml:"domain"`
	Username  string        `toml:"username,omitempty"`
	Reseller  bool          `toml:"reseller,omitempty"`
	StationID int           `toml:"station_id,omitempty"`
	Client    clientSchema  `toml:"client"`
	Package   packageSchema `toml:"package"`
}

type clientSchema struct {
	Email    string `toml:"email"`
	FullName string `toml:"full_name"`
}

type packageSchema struct {
	Name      string            `toml:"name"`
	Quota     int64             `toml:"quota,omitempty"`
	Bandwidth int64             `toml:"bandwidth,omitempty"`
	Custom    map[string]string `toml:"custom,omitempty"`
}
