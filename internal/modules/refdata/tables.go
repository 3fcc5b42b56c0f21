// Package refdata is the reference data provider: it loads the aggregated
// trade dataset and the static lookup tables (sector names, country names,
// tariff rates) once at startup and serves them as immutable, read-only
// structures for the life of the process.
package refdata

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var embeddedTables embed.FS

// NameTables holds the static HS2-to-sector-name and country-name lookups.
// These are injected data, not code: the engine stays agnostic of any
// particular trade taxonomy.
type NameTables struct {
	sectors   map[string]string
	countries map[string]string
}

// LoadNameTables parses the embedded name tables.
func LoadNameTables() (*NameTables, error) {
	sectors, err := loadStringMap("data/hs2_sectors.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to load HS2 sector table: %w", err)
	}

	countries, err := loadStringMap("data/country_names.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to load country name table: %w", err)
	}

	return &NameTables{sectors: sectors, countries: countries}, nil
}

// SectorName returns the HS2 chapter name, or a generic label for codes
// outside the table.
func (t *NameTables) SectorName(hs2 string) string {
	if name, ok := t.sectors[hs2]; ok {
		return name
	}
	return fmt.Sprintf("Sector %s", hs2)
}

// CountryName returns the display name for an ISO country code, falling back
// to the code itself.
func (t *NameTables) CountryName(code string) string {
	if name, ok := t.countries[code]; ok {
		return name
	}
	return code
}

func loadStringMap(path string) (map[string]string, error) {
	raw, err := embeddedTables.ReadFile(path)
	if err != nil {
		return nil, err
	}

	m := make(map[string]string)
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return m, nil
}

// readTableFile reads a YAML table, preferring an override in dataDir over
// the embedded default.
func readTableFile(dataDir, name string) ([]byte, error) {
	if dataDir != "" {
		override := filepath.Join(dataDir, name)
		if raw, err := os.ReadFile(override); err == nil {
			return raw, nil
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read %s: %w", override, err)
		}
	}
	return embeddedTables.ReadFile("data/" + name)
}
