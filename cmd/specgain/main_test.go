package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/modspec/specgain/internal/extract"
	"github.com/stretchr/testify/assert"
)

func TestNoDataError(t *testing.T) {
	err := &NoDataError{Err: fmt.Errorf("%w in ../logs matching metrics_*.jsonl", extract.ErrNoFiles)}

	assert.Equal(t, "no metric files found in ../logs matching metrics_*.jsonl", err.Error())
	assert.ErrorIs(t, err, extract.ErrNoFiles)
}

func TestErrorTypeDetection(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantNoData bool
	}{
		{
			name:       "NoDataError",
			err:        &NoDataError{Err: extract.ErrNoRecords},
			wantNoData: true,
		},
		{
			name:       "regular error",
			err:        errors.New("config error"),
			wantNoData: false,
		},
		{
			name:       "wrapped NoDataError",
			err:        fmt.Errorf("generate: %w", &NoDataError{Err: extract.ErrNoFiles}),
			wantNoData: true,
		},
		{
			name:       "bare sentinel is not mapped",
			err:        extract.ErrNoFiles,
			wantNoData: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var noDataErr *NoDataError
			assert.Equal(t, tt.wantNoData, errors.As(tt.err, &noDataErr))
		})
	}
}
