package prediction

import (
	"math"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pluxolabs/pluxo-backend/internal/models"
)

func TestService_Generate_Lengths(t *testing.T) {
	svc := New()

	tests := []struct {
		name       string
		typ        string
		wantLength int
	}{
		{name: "элитный ряд из 20 точек", typ: TypeElite, wantLength: 20},
		{name: "стандартный ряд из 40 точек", typ: TypeStandard, wantLength: 40},
		{name: "неизвестный тип трактуется как стандартный", typ: "whatever", wantLength: 40},
		{name: "пустой тип трактуется как стандартный", typ: "", wantLength: 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := svc.Generate(tt.typ, RiskSettingMedium)
			assert.Len(t, res.Prediction, tt.wantLength)
		})
	}
}

func TestService_Generate_PointInvariants(t *testing.T) {
	svc := New()

	for _, typ := range []string{TypeElite, TypeStandard} {
		for _, riskSetting := range []string{RiskSettingLow, RiskSettingMedium, RiskSettingHigh} {
			res := svc.Generate(typ, riskSetting)
			for i, p := range res.Prediction {
				assert.Equal(t, i, p.Time)
				assert.GreaterOrEqual(t, p.Value, 1.00)
				// округление до двух знаков
				assert.InDelta(t, p.Value, math.Round(p.Value*100)/100, 1e-9)

				if typ == TypeStandard {
					assert.Equal(t, models.RiskLow, p.Risk)
					continue
				}
				switch {
				case p.Value > 5:
					assert.Equal(t, models.RiskHigh, p.Risk)
				case p.Value > 2:
					assert.Equal(t, models.RiskMedium, p.Risk)
				default:
					assert.Equal(t, models.RiskLow, p.Risk)
				}
			}
		}
	}
}

func TestService_Generate_Metadata(t *testing.T) {
	svc := New()

	res := svc.Generate(TypeElite, RiskSettingLow)

	require.NotEmpty(t, res.Metadata.Timestamp)
	assert.Equal(t, "AES-256-GCM", res.Metadata.Protocol)
	assert.Regexp(t, regexp.MustCompile(`^NODE_\d{4}$`), res.Metadata.Node)
}

func TestService_Generate_LowRiskSettingStaysCalm(t *testing.T) {
	svc := New()

	// base 1.5, volatility 0.5: максимум 1.5+0.6*0.5*2 = 2.1
	res := svc.Generate(TypeElite, RiskSettingLow)
	for _, p := range res.Prediction {
		assert.LessOrEqual(t, p.Value, 2.1+1e-9)
		assert.NotEqual(t, models.RiskHigh, p.Risk)
	}
}
