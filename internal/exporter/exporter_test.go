package exporter

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"rn518panel/internal/indicators"
)

func sampleRecords() []indicators.Record {
	a := indicators.Record{
		EntityID:      "A000001",
		DisplayName:   "Sorriso Dental",
		Modality:      "Dental Group",
		SizeClass:     "Small",
		Beneficiaries: 1200,
		Year:          2024,
		Quarter:       1,
		Indicators: map[string]indicators.Number{
			indicators.FieldLossRatio:        indicators.Some(0.7),
			indicators.FieldReturnOnEquity:   indicators.Some(0.1),
			indicators.FieldCurrentLiquidity: indicators.Missing,
		},
		Components: map[string]indicators.Number{
			"claim_expenses": indicators.Some(1500000),
		},
	}
	b := a
	b.EntityID = "A000002"
	b.DisplayName = "Odonto, Norte"
	b.Indicators = map[string]indicators.Number{
		indicators.FieldLossRatio:        indicators.Some(0.9),
		indicators.FieldReturnOnEquity:   indicators.Some(-0.02),
		indicators.FieldCurrentLiquidity: indicators.Some(1.1),
	}
	b.Components = map[string]indicators.Number{"claim_expenses": indicators.Missing}
	return indicators.Normalize([]indicators.Record{a, b})
}

// TestParseView tests view and format parsing
func TestParseView(t *testing.T) {
	tests := []struct {
		input   string
		want    View
		wantErr bool
	}{
		{"ranking", ViewRanking, false},
		{"INDICATORS", ViewIndicators, false},
		{"liquidity", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseView(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	f, err := ParseFormat("XLSX")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)
	assert.Contains(t, f.ContentType(), "spreadsheetml")
	_, err = ParseFormat("pdf")
	assert.Error(t, err)
}

// TestIndicatorsTable tests the raw indicator export
func TestIndicatorsTable(t *testing.T) {
	table := IndicatorsTable(sampleRecords())

	assert.Len(t, table.Headers, 6+len(indicators.Catalog()))
	assert.Equal(t, "Period", table.Headers[0])
	assert.Equal(t, "Loss Ratio", table.Headers[6])
	require.Len(t, table.Rows, 2)

	records := table.Records()
	assert.Equal(t, []string{"2024Q1", "A000001", "Sorriso Dental", "Dental Group", "Small", "1200", "0.7"}, records[0][:7])
	for i, ind := range indicators.Catalog() {
		if ind.Field == indicators.FieldCurrentLiquidity {
			assert.Empty(t, records[0][6+i], "missing values export as empty cells")
		}
	}
}

// TestComponentsTable tests that only present components are exported
func TestComponentsTable(t *testing.T) {
	table, ok := ComponentsTable(sampleRecords())
	require.True(t, ok)
	assert.Equal(t, []string{"Period", "ANS Registry", "Operator", "Modality", "Size", "Claim Expenses"}, table.Headers)
	records := table.Records()
	assert.Equal(t, "1500000", records[0][5])
	assert.Equal(t, "", records[1][5])

	rows := sampleRecords()
	for i := range rows {
		rows[i].Components = nil
	}
	_, ok = ComponentsTable(rows)
	assert.False(t, ok)
}

// TestRankingTable tests that unranked rows export blank ranks
func TestRankingTable(t *testing.T) {
	table := RankingTable(indicators.RankLatest(sampleRecords()))
	require.Len(t, table.Rows, 2)
	records := table.Records()
	assert.Equal(t, "2024Q1", records[0][0])
	assert.Equal(t, "1", records[0][1])
	assert.Equal(t, "A000001", records[0][3])
	assert.Equal(t, "", records[0][9])
	assert.Equal(t, "1.1", records[1][9])
}

// TestWriteCSVTo tests CSV encoding with and without BOM
func TestWriteCSVTo(t *testing.T) {
	table := RankingTable(indicators.RankLatest(sampleRecords()))

	data, err := EncodeCSV(table, true)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, utf8BOM))

	var buf bytes.Buffer
	require.NoError(t, WriteCSVTo(&buf, table, false))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "Period,Profitability Rank,Loss Ratio Rank"))
	assert.Contains(t, lines[2], `"Odonto, Norte"`, "commas are quoted")
}

// TestCSVWriter_WriteTable tests writing tables to the export directory
func TestCSVWriter_WriteTable(t *testing.T) {
	dir := t.TempDir()
	writer := NewCSVWriter(filepath.Join(dir, "exports"))
	table := IndicatorsTable(sampleRecords())

	tests := []struct {
		name   string
		format Format
		check  func(t *testing.T, path string)
	}{
		{
			name:   "csv",
			format: FormatCSV,
			check: func(t *testing.T, path string) {
				content, err := os.ReadFile(path)
				require.NoError(t, err)
				assert.True(t, bytes.HasPrefix(content, utf8BOM))
				assert.Contains(t, string(content), "A000002")
			},
		},
		{
			name:   "xlsx",
			format: FormatXLSX,
			check: func(t *testing.T, path string) {
				f, err := excelize.OpenFile(path)
				require.NoError(t, err)
				defer f.Close()

				rows, err := f.GetRows("Indicators")
				require.NoError(t, err)
				require.Len(t, rows, 3)
				assert.Equal(t, "Period", rows[0][0])
				assert.Equal(t, "A000001", rows[1][1])

				value, err := f.GetCellValue("Indicators", "G2")
				require.NoError(t, err)
				assert.Equal(t, "0.7", value)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := writer.WriteTable(table, tt.format)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dir, "exports", "rn518_indicators."+string(tt.format)), path)
			tt.check(t, path)
		})
	}
}

// TestWriteXLSX tests multi-sheet workbooks
func TestWriteXLSX(t *testing.T) {
	rows := sampleRecords()
	status := StatusTable(indicators.Summarize(rows), indicators.SumComponents(rows))
	ranking := RankingTable(indicators.RankLatest(rows))

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, status, ranking))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Status", "Ranking"}, f.GetSheetList())

	assert.Error(t, WriteXLSX(&bytes.Buffer{}))
}
