package service

import (
	"context"
	"time"

	"speaksmart-be/internal/observe"
	"speaksmart-be/internal/pkg/logger"
	"speaksmart-be/pkg/retry"
)

type sleepRecorder struct {
	delays []time.Duration
}

func (r *sleepRecorder) Sleep(_ context.Context, d time.Duration) error {
	r.delays = append(r.delays, d)
	return nil
}

func newTestRetrier() (*retry.Retrier, *sleepRecorder) {
	rec := &sleepRecorder{}
	return retry.New(retry.DefaultPolicy(), rec), rec
}

func nopDeps() (*observe.Metrics, logger.ILogger) {
	return observe.NewNopMetrics(), logger.NewNopLogger()
}
