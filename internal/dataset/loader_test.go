package dataset

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "rn518panel/internal/errors"
	"rn518panel/internal/indicators"
)

const sourceCSV = "\xef\xbb\xbf reg_ans ;ano;trimestre;nome_operadora;modalidade;porte;qt_beneficiarios_periodo;uniodonto;sinistralidade;retorno_patrimonio_liquido;receita_contraprestacoes\n" +
	"123456;2024;1;Uniodonto Alpha;Cooperativa Odontológica;Pequeno;1500;SIM;0,72;0,05;1.234,50\n" +
	"654321;2024;1;;Odontologia de Grupo;Médio;;nao;nan;0.1;\n" +
	"999999;abc;1;Broken;;;;;;;\n" +
	";;;;;;;;;;\n"

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// TestLoadCSV tests source headers, decimal commas and the flagged column
func TestLoadCSV(t *testing.T) {
	path := writeFile(t, "indicators.csv", sourceCSV)

	ds, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, ds.Records, 2)
	assert.Equal(t, 1, ds.Skipped)
	assert.Equal(t, path, ds.Source)
	assert.Contains(t, ds.Columns, "loss_ratio")

	first := ds.Records[0]
	assert.Equal(t, "123456", first.EntityID)
	assert.Equal(t, 2024, first.Year)
	assert.Equal(t, 1, first.Quarter)
	assert.Equal(t, "Uniodonto Alpha", first.DisplayName)
	assert.Equal(t, "Uniodonto Alpha", first.LegalName)
	assert.Equal(t, "Cooperativa Odontológica", first.Modality)
	assert.Equal(t, "Pequeno", first.SizeClass)
	assert.InDelta(t, 1500, first.Beneficiaries, 1e-9)
	assert.InDelta(t, 0.72, first.Value(indicators.FieldLossRatio).Value, 1e-12)
	assert.InDelta(t, 1234.5, first.Value("consideration_revenue").Value, 1e-9)
	assert.True(t, first.Has(indicators.FieldCurrentLiquidity))
	assert.False(t, first.Value(indicators.FieldCurrentLiquidity).Valid)

	second := ds.Records[1]
	assert.Equal(t, "", second.DisplayName)
	assert.Equal(t, float64(0), second.Beneficiaries)
	assert.False(t, second.Value(indicators.FieldLossRatio).Valid)
	assert.True(t, second.Has("consideration_revenue"))
	assert.False(t, second.Value("consideration_revenue").Valid)

	assert.Equal(t, []string{"123456"}, ds.Flagged.Sorted())
}

// TestLoadCSVCanonicalHeaders tests the canonical field keys and comma delimiter
func TestLoadCSVCanonicalHeaders(t *testing.T) {
	content := "entity_id,year,quarter,display_name,legal_name,loss_ratio\n" +
		"A1,2024.0,2,Alpha,Alpha Ltd,0.8\n"
	ds, err := NewLoader().ReadCSV(context.Background(), strings.NewReader(content), "inline")
	require.NoError(t, err)
	require.Len(t, ds.Records, 1)
	assert.Equal(t, "Alpha", ds.Records[0].DisplayName)
	assert.Equal(t, "Alpha Ltd", ds.Records[0].LegalName)
	assert.Equal(t, 2, ds.Records[0].Quarter)
	assert.Nil(t, ds.Records[0].Components)
}

// TestLoadErrors tests the typed load errors
func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		errType apperrors.ErrorType
	}{
		{"missing required column", "a.csv", "reg_ans,ano\n1,2024\n", apperrors.ErrTypeValidation},
		{"empty file", "b.csv", "", apperrors.ErrTypeValidation},
		{"unsupported format", "c.json", "{}", apperrors.ErrTypeValidation},
		{"bad quote", "d.csv", "reg_ans,ano,trimestre\n\"1,2024,1\n", apperrors.ErrTypeParsing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)
			_, err := NewLoader().Load(context.Background(), path)
			require.Error(t, err)
			var appErr *apperrors.AppError
			require.True(t, stderrors.As(err, &appErr))
			assert.Equal(t, tt.errType, appErr.Type)
		})
	}

	_, err := NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	var appErr *apperrors.AppError
	require.True(t, stderrors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrTypeNotFound, appErr.Type)
}

// TestLoadXLSX tests workbook loading through excelize
func TestLoadXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"reg_ans", "ano", "trimestre", "nome_operadora", "liquidez_corrente", "uniodonto"},
		{"111111", 2023, 4, "Beta", 1.25, "sim"},
		{"222222", 2024, 1, "Gamma", "", ""},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	path := filepath.Join(t.TempDir(), "indicators.xlsx")
	require.NoError(t, f.SaveAs(path))

	ds, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, ds.Records, 2)
	assert.Equal(t, 2023, ds.Records[0].Year)
	assert.InDelta(t, 1.25, ds.Records[0].Value(indicators.FieldCurrentLiquidity).Value, 1e-12)
	assert.False(t, ds.Records[1].Value(indicators.FieldCurrentLiquidity).Valid)
	assert.True(t, ds.Flagged.Contains("111111"))

	_, err = NewLoader(WithSheet("Nope")).Load(context.Background(), path)
	var appErr *apperrors.AppError
	require.True(t, stderrors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrTypeNotFound, appErr.Type)
}

// TestLoadFlaggedList tests the allow-list file merged into the dataset
func TestLoadFlaggedList(t *testing.T) {
	list := writeFile(t, "flagged.txt", "# operators\n654321\n\n  777777  \n")
	ids, err := LoadFlaggedList(list)
	require.NoError(t, err)
	assert.Equal(t, []string{"654321", "777777"}, ids)

	path := writeFile(t, "indicators.csv", sourceCSV)
	ds, err := NewLoader(WithFlaggedList(list)).Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []string{"123456", "654321", "777777"}, ds.Flagged.Sorted())

	_, err = NewLoader(WithFlaggedList(list+".missing")).Load(context.Background(), path)
	assert.Error(t, err)
}

// TestLoadCancelled tests that a cancelled context aborts parsing
func TestLoadCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewLoader().ReadCSV(ctx, strings.NewReader(sourceCSV), "inline")
	assert.ErrorIs(t, err, context.Canceled)
}

// TestParseNumber tests decimal and grouping conventions
func TestParseNumber(t *testing.T) {
	tests := []struct {
		in    string
		want  float64
		valid bool
	}{
		{"0.75", 0.75, true},
		{"0,75", 0.75, true},
		{"1.234,5", 1234.5, true},
		{"1,234.5", 1234.5, true},
		{"1,234,567", 1234567, true},
		{"1.234.567", 1234567, true},
		{"1.234.567,8", 1234567.8, true},
		{" -2 ", -2, true},
		{"NaN", 0, false},
		{"", 0, false},
		{"abc", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseNumber(tt.in)
			assert.Equal(t, tt.valid, got.Valid)
			if tt.valid {
				assert.InDelta(t, tt.want, got.Value, 1e-12)
			}
		})
	}
}
