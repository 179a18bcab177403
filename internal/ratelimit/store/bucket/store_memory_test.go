package bucket

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	testLimit  = 10
	testWindow = time.Minute
)

type InMemoryBucketStoreSuite struct {
	suite.Suite
	store *InMemoryBucketStore
	ctx   context.Context
}

func TestInMemoryBucketStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryBucketStoreSuite))
}

func (s *InMemoryBucketStoreSuite) SetupTest() {
	s.store = NewInMemoryBucketStore()
	s.ctx = context.Background()
}

func (s *InMemoryBucketStoreSuite) TestAllow() {
	s.Run("first request allowed", func() {
		result, err := s.store.Allow(s.ctx, "merchant:first", testLimit, testWindow)
		s.Require().NoError(err)
		s.True(result.Allowed)
		s.Equal(testLimit, result.Limit)
		s.Equal(testLimit-1, result.Remaining)
	})

	s.Run("requests up to limit allowed", func() {
		var last bool
		for range testLimit {
			result, err := s.store.Allow(s.ctx, "merchant:at_limit", testLimit, testWindow)
			s.Require().NoError(err)
			last = result.Allowed
		}
		s.True(last)
	})

	s.Run("request over limit denied with retry hint", func() {
		for range testLimit {
			_, err := s.store.Allow(s.ctx, "merchant:over", testLimit, testWindow)
			require.NoError(s.T(), err)
		}
		result, err := s.store.Allow(s.ctx, "merchant:over", testLimit, testWindow)
		s.Require().NoError(err)
		s.False(result.Allowed)
		s.Equal(0, result.Remaining)
		s.Positive(result.RetryAfter)
		s.False(result.ResetAt.IsZero())
	})

	s.Run("after window expires requests allowed again", func() {
		_, err := s.store.Allow(s.ctx, "merchant:reset", testLimit, testWindow)
		s.Require().NoError(err)

		s.store.mu.Lock()
		if sw, exists := s.store.buckets["merchant:reset"]; exists {
			for i := range sw.timestamps {
				sw.timestamps[i] = sw.timestamps[i].Add(-2 * testWindow)
			}
		}
		s.store.mu.Unlock()

		result, err := s.store.Allow(s.ctx, "merchant:reset", testLimit, testWindow)
		s.Require().NoError(err)
		s.True(result.Allowed)
		s.Equal(testLimit-1, result.Remaining)
	})

	s.Run("keys are isolated", func() {
		for range testLimit {
			_, err := s.store.Allow(s.ctx, "merchant:noisy", testLimit, testWindow)
			require.NoError(s.T(), err)
		}
		result, err := s.store.Allow(s.ctx, "merchant:quiet", testLimit, testWindow)
		s.Require().NoError(err)
		s.True(result.Allowed)
	})
}

func (s *InMemoryBucketStoreSuite) TestReset() {
	for range testLimit {
		_, err := s.store.Allow(s.ctx, "merchant:resettable", testLimit, testWindow)
		s.Require().NoError(err)
	}
	s.Require().NoError(s.store.Reset(s.ctx, "merchant:resettable"))

	result, err := s.store.Allow(s.ctx, "merchant:resettable", testLimit, testWindow)
	s.Require().NoError(err)
	s.True(result.Allowed)
}

func (s *InMemoryBucketStoreSuite) TestGetCurrentCount() {
	count, err := s.store.GetCurrentCount(s.ctx, "merchant:empty")
	s.Require().NoError(err)
	s.Zero(count)

	for range 3 {
		_, err := s.store.Allow(s.ctx, "merchant:counted", testLimit, testWindow)
		s.Require().NoError(err)
	}
	count, err = s.store.GetCurrentCount(s.ctx, "merchant:counted")
	s.Require().NoError(err)
	s.Equal(3, count)
}

func (s *InMemoryBucketStoreSuite) TestConcurrentAllow() {
	const workers = 50

	var wg sync.WaitGroup
	allowed := make(chan bool, workers)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := s.store.Allow(s.ctx, "merchant:concurrent", testLimit, testWindow)
			require.NoError(s.T(), err)
			allowed <- result.Allowed
		}()
	}
	wg.Wait()
	close(allowed)

	var granted int
	for ok := range allowed {
		if ok {
			granted++
		}
	}
	s.Equal(testLimit, granted)
}
