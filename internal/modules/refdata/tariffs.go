package refdata

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/geeranbalaranjan/tariff-shock/internal/domain"
)

// TariffTable holds per-partner, per-HS2 tariff rates (percentages).
// Lookups for unknown sectors or partners default to a zero rate - a missing
// entry means "no tariff", never an error.
type TariffTable struct {
	rates map[domain.Partner]map[string]float64
	log   zerolog.Logger
}

// LoadTariffTable builds the tariff table from tariff_rates.yaml, preferring
// an override in dataDir over the embedded representative rates.
func LoadTariffTable(dataDir string, log zerolog.Logger) (*TariffTable, error) {
	raw, err := readTableFile(dataDir, "tariff_rates.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read tariff rate table: %w", err)
	}

	parsed := make(map[string]map[string]float64)
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse tariff rate table: %w", err)
	}

	rates := make(map[domain.Partner]map[string]float64, len(parsed))
	for partnerName, sectorRates := range parsed {
		partner, err := domain.ParseTargetPartner(partnerName)
		if err != nil {
			return nil, fmt.Errorf("tariff rate table: %w", err)
		}
		byHS2 := make(map[string]float64, len(sectorRates))
		for hs2, rate := range sectorRates {
			if rate < 0 {
				return nil, fmt.Errorf("tariff rate table: negative rate %v for %s/%s", rate, partnerName, hs2)
			}
			byHS2[hs2] = rate
		}
		rates[partner] = byHS2
	}

	table := &TariffTable{
		rates: rates,
		log:   log.With().Str("service", "tariff_table").Logger(),
	}
	table.log.Info().Int("tariffed_sectors", len(table.TariffedSectorIDs())).Msg("Tariff rate table loaded")
	return table, nil
}

// Rate returns the tariff rate for a sector and partner, defaulting to 0
// when either is absent from the table.
func (t *TariffTable) Rate(hs2 string, partner domain.Partner) float64 {
	return t.rates[partner][hs2]
}

// MaxRate returns the highest rate across the given partners for a sector.
func (t *TariffTable) MaxRate(hs2 string, partners []domain.Partner) float64 {
	maxRate := 0.0
	for _, p := range partners {
		if r := t.Rate(hs2, p); r > maxRate {
			maxRate = r
		}
	}
	return maxRate
}

// AllTariffedSectors returns every sector carrying a non-zero rate for at
// least one partner, with the full per-partner rate breakdown (zero-filled
// for partners without a tariff on that sector).
func (t *TariffTable) AllTariffedSectors() map[string]map[domain.Partner]float64 {
	result := make(map[string]map[domain.Partner]float64)
	for partner, sectorRates := range t.rates {
		for hs2, rate := range sectorRates {
			if _, ok := result[hs2]; !ok {
				breakdown := make(map[domain.Partner]float64, len(domain.TargetablePartners))
				for _, p := range domain.TargetablePartners {
					breakdown[p] = 0
				}
				result[hs2] = breakdown
			}
			result[hs2][partner] = rate
		}
	}
	return result
}

// TariffedSectorIDs returns the sorted ids of all tariffed sectors.
func (t *TariffTable) TariffedSectorIDs() []string {
	seen := make(map[string]struct{})
	for _, sectorRates := range t.rates {
		for hs2 := range sectorRates {
			seen[hs2] = struct{}{}
		}
	}

	ids := make([]string, 0, len(seen))
	for hs2 := range seen {
		ids = append(ids, hs2)
	}
	sort.Strings(ids)
	return ids
}
