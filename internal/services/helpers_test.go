package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"rn518panel/internal/dataset"
	"rn518panel/internal/indicators"
)

// stubLoader serves an in-memory dataset
type stubLoader struct {
	mu    sync.Mutex
	ds    *dataset.Dataset
	err   error
	calls int
	delay time.Duration
}

func (l *stubLoader) Load(ctx context.Context, path string) (*dataset.Dataset, error) {
	l.mu.Lock()
	l.calls++
	ds, err, delay := l.ds, l.err, l.delay
	l.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return ds, err
}

func (l *stubLoader) set(ds *dataset.Dataset, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ds, l.err = ds, err
}

var errLoad = errors.New("disk on fire")

func rec(id string, year, quarter int, loss, roe float64) indicators.Record {
	return indicators.Record{
		EntityID:    id,
		DisplayName: "Operator " + id,
		Modality:    "Dental Group",
		SizeClass:   "Small",
		Year:        year,
		Quarter:     quarter,
		Indicators: map[string]indicators.Number{
			indicators.FieldLossRatio:        indicators.Some(loss),
			indicators.FieldReturnOnEquity:   indicators.Some(roe),
			indicators.FieldCurrentLiquidity: indicators.Some(1.1),
		},
		Components: map[string]indicators.Number{
			"net_result": indicators.Some(1000 * float64(quarter)),
		},
	}
}

// sampleDataset has a quarterly filer A000001 and an annual filer A000002
func sampleDataset() *dataset.Dataset {
	var records []indicators.Record
	for i, loss := range []float64{0.70, 0.80, 0.90, 0.60} {
		records = append(records, rec("A000001", 2024, i+1, loss, 0.05))
	}
	records = append(records, rec("A000002", 2024, 4, 0.50, 0.08))
	return &dataset.Dataset{
		Records:  records,
		Flagged:  indicators.NewEntitySet("A000002"),
		Source:   "memory",
		LoadedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func newTestService(loader *stubLoader) *PanelService {
	return NewPanelService(loader, "memory.csv", WithCache(NewResultCache(time.Minute, 64)))
}
