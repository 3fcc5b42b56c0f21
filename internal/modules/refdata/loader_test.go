package refdata

import (
	"database/sql"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/geeranbalaranjan/tariff-shock/internal/domain"
)

// setupTestDB creates an in-memory SQLite database with the trade schema.
func setupTestDB(t *testing.T) (*sql.DB, *SectorRepository) {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewSectorRepository(db, zerolog.Nop())
	require.NoError(t, repo.InitSchema())
	return db, repo
}

func seedVehicles(t *testing.T, repo *SectorRepository) {
	t.Helper()
	err := repo.UpsertSector(SectorRow{
		HS2:             "87",
		SectorName:      "Vehicles",
		TotalExports:    50_000_000_000,
		TopPartner:      "US",
		TopPartnerShare: 0.62,
	}, map[string]float64{
		"US": 0.62, "China": 0.08, "EU": 0.15, "Other": 0.15,
	})
	require.NoError(t, err)
}

func newTestLoader(t *testing.T, repo *SectorRepository) *Loader {
	t.Helper()
	names, err := LoadNameTables()
	require.NoError(t, err)
	return NewLoader(repo, names, zerolog.Nop())
}

func TestLoader_Load(t *testing.T) {
	_, repo := setupTestDB(t)
	seedVehicles(t, repo)

	loader := newTestLoader(t, repo)
	assert.False(t, loader.Loaded())

	require.NoError(t, loader.Load())
	assert.True(t, loader.Loaded())
	assert.Equal(t, 1, loader.Count())

	sector, ok := loader.GetSector("87")
	require.True(t, ok)
	assert.Equal(t, "Vehicles", sector.SectorName)
	assert.Equal(t, 50_000_000_000.0, sector.TotalExports)
	assert.Equal(t, domain.PartnerUS, sector.TopPartner)
	assert.Equal(t, 0.62, sector.PartnerShares[domain.PartnerUS])

	// HHI over the four-partner distribution.
	expectedHHI := 0.62*0.62 + 0.08*0.08 + 0.15*0.15 + 0.15*0.15
	assert.InDelta(t, expectedHHI, sector.HHIConcentration, 1e-9)

	_, ok = loader.GetSector("99")
	assert.False(t, ok)
}

func TestLoader_SectorNameFallback(t *testing.T) {
	_, repo := setupTestDB(t)

	err := repo.UpsertSector(SectorRow{
		HS2:             "72",
		SectorName:      "", // ETL left the label empty
		TotalExports:    1_000_000,
		TopPartner:      "US",
		TopPartnerShare: 0.5,
	}, map[string]float64{"US": 0.5, "Other": 0.5})
	require.NoError(t, err)

	loader := newTestLoader(t, repo)
	require.NoError(t, loader.Load())

	sector, ok := loader.GetSector("72")
	require.True(t, ok)
	assert.Equal(t, "Iron and steel", sector.SectorName)
}

func TestLoader_FailsFastOnMalformedRow(t *testing.T) {
	db, repo := setupTestDB(t)

	// Bypass UpsertSector validation path: write a structurally invalid row.
	_, err := db.Exec(`INSERT INTO sector_summaries (hs2, sector_name, total_exports, top_partner, top_partner_share)
		VALUES ('01', 'Broken', 1000, 'US', 1.5)`)
	require.NoError(t, err)

	loader := newTestLoader(t, repo)
	err = loader.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "top_partner_share")
	assert.False(t, loader.Loaded(), "a failed load must not leave a partial universe")
}

func TestLoader_RejectsUnknownPartner(t *testing.T) {
	db, repo := setupTestDB(t)

	_, err := db.Exec(`INSERT INTO sector_summaries (hs2, sector_name, total_exports, top_partner, top_partner_share)
		VALUES ('01', 'Live animals', 1000, 'Canada', 0.5)`)
	require.NoError(t, err)

	loader := newTestLoader(t, repo)
	err = loader.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid partner")
}

func TestLoader_SectorIDsSorted(t *testing.T) {
	_, repo := setupTestDB(t)

	for _, hs2 := range []string{"87", "03", "44"} {
		require.NoError(t, repo.UpsertSector(SectorRow{
			HS2:             hs2,
			SectorName:      "",
			TotalExports:    1000,
			TopPartner:      "US",
			TopPartnerShare: 0.5,
		}, map[string]float64{"US": 0.5}))
	}

	loader := newTestLoader(t, repo)
	require.NoError(t, loader.Load())
	assert.Equal(t, []string{"03", "44", "87"}, loader.SectorIDs())
}

func TestLoader_EmptyUniverse(t *testing.T) {
	_, repo := setupTestDB(t)

	loader := newTestLoader(t, repo)
	require.NoError(t, loader.Load())
	assert.True(t, loader.Loaded())
	assert.Equal(t, 0, loader.Count())
	assert.Empty(t, loader.SectorIDs())
}
