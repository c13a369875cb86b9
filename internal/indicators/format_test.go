package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestFormatMetric tests rendering per indicator kind
func TestFormatMetric(t *testing.T) {
	tests := []struct {
		name  string
		value Number
		kind  Kind
		want  string
	}{
		{"percentage", Some(0.1234), KindPercentage, "12.34%"},
		{"negative percentage", Some(-0.05), KindPercentage, "-5.00%"},
		{"ratio", Some(1.5), KindRatio, "1.50"},
		{"grouped ratio", Some(1234.5), KindRatio, "1,234.50"},
		{"days", Some(45.26), KindDays, "45.3 days"},
		{"missing", Missing, KindRatio, Placeholder},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatMetric(tt.value, tt.kind))
		})
	}
}

// TestFormatDifference tests signed deltas
func TestFormatDifference(t *testing.T) {
	delta := Some(0.12).Sub(Some(0.10))
	assert.Equal(t, "+2.00%", FormatDifference(delta, KindPercentage))
	assert.Equal(t, "-2.00%", FormatDifference(Some(-0.02), KindPercentage))
	assert.Equal(t, "+0.30", FormatDifference(Some(0.3), KindRatio))
	assert.Equal(t, "-5.0 days", FormatDifference(Some(-5), KindDays))
	assert.Equal(t, Placeholder, FormatDifference(Missing, KindRatio))
}

// TestFormatCurrency tests Brazilian currency rendering
func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "R$ 1.234.567", FormatCurrency(Some(1234567.4)))
	assert.Equal(t, "R$ 0", FormatCurrency(Some(0)))
	assert.Equal(t, Placeholder, FormatCurrency(Missing))
	assert.Equal(t, "12.500", FormatCount(12500))
}
