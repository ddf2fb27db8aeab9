package orchestrator

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	executed *atomic.Int32
	done     *sync.WaitGroup
}

func (j *countingJob) Execute(_ context.Context) error {
	j.executed.Add(1)
	if j.done != nil {
		j.done.Done()
	}
	return nil
}

func TestWorkerPoolExecutesSubmittedJobs(t *testing.T) {
	pool := NewWorkerPool(context.Background())

	var executed atomic.Int32
	var done sync.WaitGroup
	for i := 0; i < 10; i++ {
		done.Add(1)
		require.NoError(t, pool.Submit(&countingJob{executed: &executed, done: &done}))
	}
	done.Wait()
	pool.Close()

	assert.Equal(t, int32(10), executed.Load())
}

func TestWorkerPoolSubmitAfterClose(t *testing.T) {
	pool := NewWorkerPool(context.Background())
	pool.Close()

	var executed atomic.Int32
	err := pool.Submit(&countingJob{executed: &executed})
	assert.ErrorIs(t, err, ErrPoolClosed)
	assert.Equal(t, int32(0), executed.Load())
}

func TestWorkerPoolCloseIsIdempotent(t *testing.T) {
	pool := NewWorkerPool(context.Background())
	pool.Close()
	pool.Close()
}

func TestWorkerPoolConcurrentSubmitAndClose(t *testing.T) {
	pool := NewWorkerPool(context.Background())

	var executed atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Rejected submissions are fine; panicking on a closed queue
			// is not.
			_ = pool.Submit(&countingJob{executed: &executed})
		}()
	}

	pool.Close()
	wg.Wait()
}
