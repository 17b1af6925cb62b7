package worker

import (
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/pandenic/media-review-board/internal/metrics"
)

func TestPoolRunsJobs(t *testing.T) {
	p := NewPool(2, 16)
	var n atomic.Int32
	for i := 0; i < 10; i++ {
		assert.True(t, p.Submit(func() { n.Add(1) }))
	}
	p.Stop()
	assert.Equal(t, int32(10), n.Load())
}

func TestPoolRejectsWhenFull(t *testing.T) {
	p := NewPool(1, 1)
	block := make(chan struct{})
	started := make(chan struct{})

	assert.True(t, p.Submit(func() { close(started); <-block }))
	<-started
	assert.True(t, p.Submit(func() {}), "fills the single queue slot")
	assert.False(t, p.Submit(func() {}), "queue full")

	close(block)
	p.Stop()
	assert.False(t, p.Submit(func() {}), "stopped")
}

func TestPoolSurvivesPanics(t *testing.T) {
	p := NewPool(1, 4)
	var ran atomic.Bool
	p.Submit(func() { panic("boom") })
	p.Submit(func() { ran.Store(true) })
	p.Stop()
	assert.True(t, ran.Load())
}

func TestPoolQueueDepthGauge(t *testing.T) {
	base := testutil.ToFloat64(metrics.WorkerQueueDepth)
	p := NewPool(1, 1)
	block := make(chan struct{})
	started := make(chan struct{})

	assert.True(t, p.Submit(func() { close(started); <-block }))
	<-started
	assert.Equal(t, base, testutil.ToFloat64(metrics.WorkerQueueDepth))

	assert.True(t, p.Submit(func() {}))
	assert.Equal(t, base+1, testutil.ToFloat64(metrics.WorkerQueueDepth))
	assert.False(t, p.Submit(func() {}))
	assert.Equal(t, base+1, testutil.ToFloat64(metrics.WorkerQueueDepth), "rejected job leaves depth unchanged")

	close(block)
	p.Stop()
	assert.Equal(t, base, testutil.ToFloat64(metrics.WorkerQueueDepth))
	assert.False(t, p.Submit(func() {}))
	assert.Equal(t, base, testutil.ToFloat64(metrics.WorkerQueueDepth))
}
