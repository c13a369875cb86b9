package http

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apierrors "rn518panel/internal/errors"
	"rn518panel/internal/exporter"
	"rn518panel/internal/services"
)

func rankingTable() exporter.Table {
	return exporter.Table{
		Name:    "rn518_ranking",
		Sheet:   "Ranking",
		Headers: []string{"Operator", "Loss ratio"},
		Rows:    [][]any{{"Odonto, Norte", 0.62}, {"Sorriso", nil}},
	}
}

// TestExportHandler_CSV tests CSV downloads
func TestExportHandler_CSV(t *testing.T) {
	svc := new(MockPanelService)
	svc.On("Export", exporter.ViewRanking, mock.MatchedBy(func(req services.ViewRequest) bool {
		return len(req.Filter.Years) == 1 && req.Filter.Years[0] == 2024
	})).Return(rankingTable(), nil)

	rec := serve(newTestRouter(svc), http.MethodGet, "/api/v1/export/ranking.csv?year=2024")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="rn518_ranking.csv"`, rec.Header().Get("Content-Disposition"))

	body := rec.Body.Bytes()
	assert.True(t, bytes.HasPrefix(body, []byte("\xef\xbb\xbf")), "CSV starts with a BOM")
	assert.Equal(t, "Operator,Loss ratio\n\"Odonto, Norte\",0.62\nSorriso,\n", string(body[3:]))
	svc.AssertExpectations(t)
}

// TestExportHandler_XLSX tests workbook downloads
func TestExportHandler_XLSX(t *testing.T) {
	svc := new(MockPanelService)
	svc.On("Export", exporter.ViewStatus, mock.Anything).Return(rankingTable(), nil)

	rec := serve(newTestRouter(svc), http.MethodGet, "/api/v1/export/STATUS.xlsx")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, exporter.FormatXLSX.ContentType(), rec.Header().Get("Content-Type"))

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Ranking"}, f.GetSheetList())
	name, err := f.GetCellValue("Ranking", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Odonto, Norte", name)
}

// TestExportHandler_Errors tests rejected export requests
func TestExportHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		setupMock  func(*MockPanelService)
		wantStatus int
		wantType   string
	}{
		{
			name:       "unknown view",
			target:     "/api/v1/export/profits.csv",
			setupMock:  func(m *MockPanelService) {},
			wantStatus: http.StatusBadRequest,
			wantType:   apierrors.TypeValidation,
		},
		{
			name:       "unknown format",
			target:     "/api/v1/export/ranking.pdf",
			setupMock:  func(m *MockPanelService) {},
			wantStatus: http.StatusBadRequest,
			wantType:   apierrors.TypeValidation,
		},
		{
			name:   "components absent",
			target: "/api/v1/export/components.csv",
			setupMock: func(m *MockPanelService) {
				m.On("Export", exporter.ViewComponents, mock.Anything).
					Return(exporter.Table{}, apierrors.NewNotFoundError("financial components in the current dataset"))
			},
			wantStatus: http.StatusNotFound,
			wantType:   apierrors.TypeNotFound,
		},
		{
			name:   "dataset not loaded",
			target: "/api/v1/export/indicators.xlsx",
			setupMock: func(m *MockPanelService) {
				m.On("Export", exporter.ViewIndicators, mock.Anything).Return(exporter.Table{}, services.ErrDatasetNotLoaded)
			},
			wantStatus: http.StatusServiceUnavailable,
			wantType:   apierrors.TypeDatasetUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockPanelService)
			tt.setupMock(svc)

			rec := serve(newTestRouter(svc), http.MethodGet, tt.target)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantType, decodeBody(t, rec)["type"])
			svc.AssertExpectations(t)
		})
	}
}
