package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/upcoming-weather/internal/refresh"
)

type countingRefresher struct {
	calls int32
	err   error
}

func (c *countingRefresher) Refresh(ctx context.Context) error {
	atomic.AddInt32(&c.calls, 1)
	return c.err
}

func TestStartWithoutIntervalSchedulesNothing(t *testing.T) {
	r := &countingRefresher{}
	s := New(r, 0)

	require.NoError(t, s.Start())
	defer s.Stop()

	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, atomic.LoadInt32(&r.calls))
}

func TestStartRefreshesPeriodically(t *testing.T) {
	r := &countingRefresher{}
	s := New(r, time.Second)

	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&r.calls) >= 1 }, 3*time.Second, 10*time.Millisecond)
}

func TestRunToleratesErrors(t *testing.T) {
	for _, err := range []error{refresh.ErrRefreshInProgress, errors.New("boom"), nil} {
		r := &countingRefresher{err: err}
		New(r, time.Minute).run()
		assert.Equal(t, int32(1), atomic.LoadInt32(&r.calls))
	}
}
