// Package domain contains the pure data model for the tariff risk engine.
// No infrastructure dependencies - these types are shared by the reference
// data provider, the risk engine, and the HTTP layer.
package domain

import "fmt"

// Partner is a closed enumeration of trading partners. Every country that is
// not one of the three named partners is pre-aggregated into Other by the
// upstream dataset - the engine never sees raw country codes.
type Partner string

const (
	PartnerUS    Partner = "US"
	PartnerChina Partner = "China"
	PartnerEU    Partner = "EU"
	PartnerOther Partner = "Other"
)

// AllPartners lists every partner variant, in a fixed order.
var AllPartners = []Partner{PartnerUS, PartnerChina, PartnerEU, PartnerOther}

// TargetablePartners lists the partners a scenario may target. Other is an
// aggregation bucket, not a real counterparty, so it cannot be targeted.
var TargetablePartners = []Partner{PartnerUS, PartnerChina, PartnerEU}

// ParsePartner converts a wire-level string into a Partner. Strings outside
// the closed set are rejected, not coerced.
func ParsePartner(s string) (Partner, error) {
	switch Partner(s) {
	case PartnerUS, PartnerChina, PartnerEU, PartnerOther:
		return Partner(s), nil
	}
	return "", fmt.Errorf("invalid partner: %q (valid: US, China, EU, Other)", s)
}

// ParseTargetPartner is like ParsePartner but additionally rejects Other,
// which is never a valid tariff target.
func ParseTargetPartner(s string) (Partner, error) {
	p, err := ParsePartner(s)
	if err != nil {
		return "", err
	}
	if p == PartnerOther {
		return "", fmt.Errorf("invalid target partner: %q (valid: US, China, EU)", s)
	}
	return p, nil
}

// DisplayName returns the human-readable name for a partner.
func (p Partner) DisplayName() string {
	switch p {
	case PartnerUS:
		return "United States"
	case PartnerChina:
		return "China"
	case PartnerEU:
		return "European Union"
	default:
		return "Other"
	}
}

func (p Partner) valid() bool {
	switch p {
	case PartnerUS, PartnerChina, PartnerEU, PartnerOther:
		return true
	}
	return false
}

// SectorSummary is the aggregated trade profile of one HS2-level sector.
// Built once by the reference data loader at startup and immutable for the
// life of the process.
type SectorSummary struct {
	SectorID         string              `json:"sector_id"`
	SectorName       string              `json:"sector_name"`
	TotalExports     float64             `json:"total_exports"`
	PartnerShares    map[Partner]float64 `json:"partner_shares"`
	TopPartner       Partner             `json:"top_partner"`
	TopPartnerShare  float64             `json:"top_partner_share"`
	HHIConcentration float64             `json:"hhi_concentration"`
}

// NewSectorSummary validates and constructs a SectorSummary. Construction
// fails on structurally invalid data; it never partially constructs.
func NewSectorSummary(
	sectorID string,
	sectorName string,
	totalExports float64,
	partnerShares map[Partner]float64,
	topPartner Partner,
	topPartnerShare float64,
) (SectorSummary, error) {
	if sectorID == "" {
		return SectorSummary{}, fmt.Errorf("sector_id must not be empty")
	}
	if totalExports < 0 {
		return SectorSummary{}, fmt.Errorf("total_exports must be >= 0, got %v", totalExports)
	}
	if topPartnerShare < 0 || topPartnerShare > 1 {
		return SectorSummary{}, fmt.Errorf("top_partner_share must be in [0, 1], got %v", topPartnerShare)
	}
	if !topPartner.valid() {
		return SectorSummary{}, fmt.Errorf("invalid top_partner: %q", topPartner)
	}

	shares := make(map[Partner]float64, len(partnerShares))
	for p, s := range partnerShares {
		if !p.valid() {
			return SectorSummary{}, fmt.Errorf("invalid partner in partner_shares: %q", p)
		}
		shares[p] = s
	}

	return SectorSummary{
		SectorID:        sectorID,
		SectorName:      sectorName,
		TotalExports:    totalExports,
		PartnerShares:   shares,
		TopPartner:      topPartner,
		TopPartnerShare: topPartnerShare,
	}, nil
}
