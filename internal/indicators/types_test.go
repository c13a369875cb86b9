package indicators

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNumber tests construction and arithmetic of nullable values
func TestNumber(t *testing.T) {
	assert.False(t, Some(math.NaN()).Valid)
	assert.False(t, Some(math.Inf(1)).Valid)
	assert.True(t, Some(0).Valid)
	assert.True(t, math.IsNaN(Missing.Float()))

	assert.InDelta(t, 0.02, Some(0.12).Sub(Some(0.10)).Value, 1e-12)
	assert.False(t, Some(1).Sub(Missing).Valid)
	assert.False(t, Missing.Sub(Some(1)).Valid)
}

// TestNumberJSON tests that missing values travel as null
func TestNumberJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		A Number `json:"a"`
		B Number `json:"b"`
	}{A: Some(1.5)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1.5,"b":null}`, string(data))

	var n Number
	require.NoError(t, json.Unmarshal([]byte("null"), &n))
	assert.False(t, n.Valid)
	require.NoError(t, json.Unmarshal([]byte("0.25"), &n))
	assert.Equal(t, Some(0.25), n)
}

// TestCatalog tests the static indicator catalog
func TestCatalog(t *testing.T) {
	cat := Catalog()
	require.Len(t, cat, 18)

	seen := map[string]bool{}
	for _, ind := range cat {
		assert.False(t, seen[ind.Field], "duplicate field %s", ind.Field)
		seen[ind.Field] = true
		_, ok := LadderFor(ind.Field)
		assert.True(t, ok, "no ladder for %s", ind.Field)
	}

	cat[0].Name = "changed"
	assert.Equal(t, "Loss Ratio", Catalog()[0].Name)

	ind, ok := Lookup(FieldReturnOnEquity)
	require.True(t, ok)
	assert.Equal(t, KindPercentage, ind.Kind)
	_, ok = Lookup("unknown")
	assert.False(t, ok)
}

// TestRecordClone tests that clones do not share indicator maps
func TestRecordClone(t *testing.T) {
	r := record("A1", 2024, 1, map[string]float64{FieldLossRatio: 0.7})
	c := r.Clone()
	c.Indicators[FieldLossRatio] = Some(0.1)

	assert.Equal(t, Some(0.7), r.Value(FieldLossRatio))
	assert.True(t, r.Has(FieldLossRatio))
	assert.False(t, r.Has(FieldCurrentLiquidity))
}

// TestEntitySet tests allow-list construction
func TestEntitySet(t *testing.T) {
	set := NewEntitySet("B", "", "A", "B")
	assert.Equal(t, []string{"A", "B"}, set.Sorted())
	assert.True(t, set.Contains("A"))
	assert.False(t, set.Contains(""))
}
