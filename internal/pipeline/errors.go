package pipeline

import "errors"

var (
	ErrEngineSelection    = errors.New("failed to select moving average engine")
	ErrSinkCreationFailed = errors.New("failed to create output sink")
	ErrReadFailed         = errors.New("failed to read input events")
	ErrSinkFailed         = errors.New("failed to deliver records")
	ErrMetricsWriteFailed = errors.New("failed to write metrics textfile")
)
