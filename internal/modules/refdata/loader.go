package refdata

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"

	"github.com/geeranbalaranjan/tariff-shock/internal/domain"
)

// Loader performs the one-time load of the sector universe at startup and
// then serves it as an immutable in-memory table. Evaluations must not be
// accepted before Load has completed; startup fails fast when the dataset is
// malformed.
type Loader struct {
	repo  *SectorRepository
	names *NameTables
	log   zerolog.Logger

	sectors map[string]domain.SectorSummary
	ids     []string
	loaded  bool
}

// NewLoader creates a new reference data loader
func NewLoader(repo *SectorRepository, names *NameTables, log zerolog.Logger) *Loader {
	return &Loader{
		repo:  repo,
		names: names,
		log:   log.With().Str("service", "refdata_loader").Logger(),
	}
}

// Load reads the full sector universe from the trade database, validates it
// and builds the immutable in-memory table. Any structurally invalid row
// aborts the load - a partially loaded universe is worse than no universe.
func (l *Loader) Load() error {
	rows, err := l.repo.GetAllSectors()
	if err != nil {
		return fmt.Errorf("failed to load sector summaries: %w", err)
	}

	allShares, err := l.repo.GetPartnerShares()
	if err != nil {
		return fmt.Errorf("failed to load partner shares: %w", err)
	}

	sectors := make(map[string]domain.SectorSummary, len(rows))
	ids := make([]string, 0, len(rows))

	for _, row := range rows {
		topPartner, err := domain.ParsePartner(row.TopPartner)
		if err != nil {
			return fmt.Errorf("sector %s: %w", row.HS2, err)
		}

		shares := make(map[domain.Partner]float64)
		for partnerName, share := range allShares[row.HS2] {
			partner, err := domain.ParsePartner(partnerName)
			if err != nil {
				return fmt.Errorf("sector %s: %w", row.HS2, err)
			}
			shares[partner] = share
		}

		name := row.SectorName
		if name == "" {
			name = l.names.SectorName(row.HS2)
		}

		summary, err := domain.NewSectorSummary(row.HS2, name, row.TotalExports, shares, topPartner, row.TopPartnerShare)
		if err != nil {
			return fmt.Errorf("sector %s: %w", row.HS2, err)
		}
		summary.HHIConcentration = hhi(shares)

		sectors[summary.SectorID] = summary
		ids = append(ids, summary.SectorID)
	}

	sort.Strings(ids)

	l.sectors = sectors
	l.ids = ids
	l.loaded = true
	l.log.Info().Int("sectors", len(sectors)).Msg("Reference data loaded")

	return nil
}

// hhi computes the Herfindahl-Hirschman index over the partner distribution
// (sum of squared shares).
func hhi(shares map[domain.Partner]float64) float64 {
	values := make([]float64, 0, len(shares))
	for _, s := range shares {
		values = append(values, s)
	}
	if len(values) == 0 {
		return 0
	}
	return floats.Dot(values, values)
}

// Loaded reports whether the one-time load has completed.
func (l *Loader) Loaded() bool {
	return l.loaded
}

// GetSector returns the summary for a sector id, if known.
func (l *Loader) GetSector(id string) (domain.SectorSummary, bool) {
	s, ok := l.sectors[id]
	return s, ok
}

// AllSectors returns the full sector universe keyed by sector id. The map is
// shared and read-only; callers must not mutate it.
func (l *Loader) AllSectors() map[string]domain.SectorSummary {
	return l.sectors
}

// SectorIDs returns all known sector ids in ascending order.
func (l *Loader) SectorIDs() []string {
	return l.ids
}

// Count returns the number of loaded sectors.
func (l *Loader) Count() int {
	return len(l.sectors)
}
