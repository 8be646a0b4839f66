package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRefresher struct {
	calls atomic.Int32
	err   error
}

func (c *countingRefresher) RefreshSites(ctx context.Context) ([]string, error) {
	c.calls.Add(1)
	return []string{"North"}, c.err
}

func TestStartRejectsBadSpec(t *testing.T) {
	s := NewScheduler(&countingRefresher{}, nil)
	assert.Error(t, s.Start("every five minutes"))
}

func TestStartAndStop(t *testing.T) {
	s := NewScheduler(&countingRefresher{}, nil)
	require.NoError(t, s.Start("*/5 * * * *"))
	s.Stop()
}

func TestRefreshSitesJob(t *testing.T) {
	r := &countingRefresher{}
	s := NewScheduler(r, nil)

	s.refreshSites()
	r.err = errors.New("sheet offline")
	s.refreshSites()

	assert.EqualValues(t, 2, r.calls.Load())
}
