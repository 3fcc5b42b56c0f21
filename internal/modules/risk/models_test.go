package risk

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geeranbalaranjan/tariff-shock/internal/domain"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"default", DefaultConfig(), false},
		{"alternate weights", Config{WExposure: 0.5, WConcentration: 0.5, MaxTariffPercent: 25}, false},
		{"weights above one", Config{WExposure: 0.7, WConcentration: 0.4, MaxTariffPercent: 25}, true},
		{"negative weight", Config{WExposure: 1.2, WConcentration: -0.2, MaxTariffPercent: 25}, true},
		{"zero max tariff", Config{WExposure: 0.6, WConcentration: 0.4, MaxTariffPercent: 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewScenarioInput(t *testing.T) {
	s, err := NewScenarioInput(10, []domain.Partner{domain.PartnerUS}, []string{"01", "02"}, 25)
	require.NoError(t, err)
	assert.Equal(t, 10.0, s.TariffPercent)
	assert.Equal(t, []string{"01", "02"}, s.SectorFilter)

	// Boundary values are valid.
	_, err = NewScenarioInput(0, nil, nil, 25)
	assert.NoError(t, err)
	_, err = NewScenarioInput(25, nil, nil, 25)
	assert.NoError(t, err)

	// Out of range fails at construction.
	_, err = NewScenarioInput(25.01, nil, nil, 25)
	assert.Error(t, err)
	_, err = NewScenarioInput(-0.01, nil, nil, 25)
	assert.Error(t, err)

	// Unknown partner fails at construction.
	_, err = NewScenarioInput(10, []domain.Partner{"Mars"}, nil, 25)
	assert.Error(t, err)
}

func TestSectorRiskOutput_FlatSerialization(t *testing.T) {
	out := SectorRiskOutput{
		SectorID:            "87",
		SectorName:          "Vehicles",
		Exposure:            0.62,
		Concentration:       0.62,
		Shock:               0.4,
		RiskScore:           24.8,
		RiskDelta:           24.8,
		DependencyPercent:   62.0,
		AffectedExportValue: 12_400_000_000,
		TopPartner:          domain.PartnerUS,
	}

	raw, err := json.Marshal(out)
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &fields))

	// The transport layer passes these through unchanged - field names must
	// match the documented attribute names exactly.
	for _, key := range []string{
		"sector_id", "sector_name", "exposure", "concentration", "shock",
		"risk_score", "risk_delta", "dependency_percent",
		"affected_export_value", "top_partner", "explainability",
	} {
		assert.Contains(t, fields, key)
	}

	assert.Equal(t, "US", fields["top_partner"])
}

func TestExplainabilitySerialization(t *testing.T) {
	e := Explainability{
		ExposureValue:          0.62,
		ConcentrationValue:     0.62,
		ShockValue:             0.4,
		ExposureComponent:      0.372,
		ConcentrationComponent: 0.248,
	}

	raw, err := json.Marshal(e)
	require.NoError(t, err)

	var fields map[string]float64
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.Equal(t, 0.372, fields["exposure_component"])
	assert.Equal(t, 0.248, fields["concentration_component"])
}
