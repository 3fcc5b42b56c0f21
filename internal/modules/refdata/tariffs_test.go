package refdata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geeranbalaranjan/tariff-shock/internal/domain"
)

func TestLoadTariffTable_EmbeddedDefaults(t *testing.T) {
	table, err := LoadTariffTable("", zerolog.Nop())
	require.NoError(t, err)

	// Section 232 steel tariff.
	assert.Equal(t, 25.0, table.Rate("72", domain.PartnerUS))
	// China retaliatory canola tariff.
	assert.Equal(t, 25.0, table.Rate("10", domain.PartnerChina))
	// CETA keeps EU steel low.
	assert.Equal(t, 5.0, table.Rate("72", domain.PartnerEU))
}

func TestTariffTable_DefaultZeroRate(t *testing.T) {
	table, err := LoadTariffTable("", zerolog.Nop())
	require.NoError(t, err)

	// Unknown sector and untariffed partner both default to 0, silently.
	assert.Equal(t, 0.0, table.Rate("XX", domain.PartnerUS))
	assert.Equal(t, 0.0, table.Rate("30", domain.PartnerUS))
	assert.Equal(t, 0.0, table.Rate("72", domain.PartnerOther))
}

func TestTariffTable_MaxRate(t *testing.T) {
	table, err := LoadTariffTable("", zerolog.Nop())
	require.NoError(t, err)

	// Wood pulp: US 15%, China 20%.
	got := table.MaxRate("47", []domain.Partner{domain.PartnerUS, domain.PartnerChina})
	assert.Equal(t, 20.0, got)

	assert.Equal(t, 0.0, table.MaxRate("47", nil))
}

func TestTariffTable_AllTariffedSectors(t *testing.T) {
	table, err := LoadTariffTable("", zerolog.Nop())
	require.NoError(t, err)

	all := table.AllTariffedSectors()
	require.Contains(t, all, "47")

	// Per-partner breakdown is zero-filled for untariffed partners.
	assert.Equal(t, 15.0, all["47"][domain.PartnerUS])
	assert.Equal(t, 20.0, all["47"][domain.PartnerChina])
	assert.Equal(t, 0.0, all["47"][domain.PartnerEU])
}

func TestTariffTable_TariffedSectorIDsSorted(t *testing.T) {
	table, err := LoadTariffTable("", zerolog.Nop())
	require.NoError(t, err)

	ids := table.TariffedSectorIDs()
	require.NotEmpty(t, ids)
	for i := 1; i < len(ids); i++ {
		assert.Less(t, ids[i-1], ids[i])
	}
}

func TestLoadTariffTable_DataDirOverride(t *testing.T) {
	dir := t.TempDir()
	override := `US:
  "01": 7.5
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tariff_rates.yaml"), []byte(override), 0644))

	table, err := LoadTariffTable(dir, zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, 7.5, table.Rate("01", domain.PartnerUS))
	// The override replaces the embedded table entirely.
	assert.Equal(t, 0.0, table.Rate("72", domain.PartnerUS))
}

func TestLoadTariffTable_RejectsBadTable(t *testing.T) {
	dir := t.TempDir()

	// Other is not a targetable partner.
	bad := `Other:
  "01": 5.0
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tariff_rates.yaml"), []byte(bad), 0644))
	_, err := LoadTariffTable(dir, zerolog.Nop())
	assert.Error(t, err)

	// Negative rates are malformed.
	bad = `US:
  "01": -5.0
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tariff_rates.yaml"), []byte(bad), 0644))
	_, err = LoadTariffTable(dir, zerolog.Nop())
	assert.Error(t, err)
}

func TestNameTables(t *testing.T) {
	names, err := LoadNameTables()
	require.NoError(t, err)

	assert.Equal(t, "Vehicles", names.SectorName("87"))
	assert.Equal(t, "Sector XX", names.SectorName("XX"))
	assert.Equal(t, "United States", names.CountryName("US"))
	assert.Equal(t, "ZZ", names.CountryName("ZZ"))
}
