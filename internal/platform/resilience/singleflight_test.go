package resilience

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSingleFlight_CollapsesConcurrentCalls(t *testing.T) {
	t.Parallel()

	var flight SingleFlight
	var executions atomic.Int32
	entered := make(chan struct{})
	release := make(chan struct{})

	fn := func() (any, error) {
		if executions.Add(1) == 1 {
			close(entered)
		}
		<-release
		return "done", nil
	}

	var wg sync.WaitGroup
	var leaderShared bool
	wg.Add(1)
	go func() {
		defer wg.Done()
		val, err, shared := flight.Do("sync", fn)
		assert.NoError(t, err)
		assert.Equal(t, "done", val)
		leaderShared = shared
	}()

	// Followers may only start once the leader holds the key, otherwise
	// each of them becomes a fresh leader and nothing is shared.
	<-entered

	const followers = 7
	followerShared := make([]bool, followers)
	for i := 0; i < followers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			val, err, shared := flight.Do("sync", fn)
			assert.NoError(t, err)
			assert.Equal(t, "done", val)
			followerShared[i] = shared
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), executions.Load())
	assert.False(t, leaderShared)
	sharedCount := 0
	for _, shared := range followerShared {
		if shared {
			sharedCount++
		}
	}
	assert.Equal(t, followers, sharedCount)
}

func TestSingleFlight_KeyIsReusableAfterCompletion(t *testing.T) {
	t.Parallel()

	var flight SingleFlight
	var executions atomic.Int32

	for i := 0; i < 3; i++ {
		_, err, shared := flight.Do("run", func() (any, error) {
			executions.Add(1)
			return nil, nil
		})
		require.NoError(t, err)
		assert.False(t, shared)
	}
	assert.Equal(t, int32(3), executions.Load())
}
