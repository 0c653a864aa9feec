//go:build integration

package sequence_test

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"protokollo/internal/registration/models"
	"protokollo/internal/registration/store/sequence"
	"protokollo/pkg/testutil/containers"
)

type RedisAllocatorSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	alloc *sequence.RedisAllocator
}

func TestRedisAllocatorSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisAllocatorSuite))
}

func (s *RedisAllocatorSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.alloc = sequence.NewRedis(s.redis.Client, sequence.DefaultFloors())
}

func (s *RedisAllocatorSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisAllocatorSuite) TestStartsAtFloor() {
	ctx := context.Background()
	period := models.Period("2025-03")

	n, err := s.alloc.Next(ctx, sequence.KindProtocol, models.ConfidentialIncoming, period)
	s.Require().NoError(err)
	s.Equal(int64(40001), n)

	n, err = s.alloc.Next(ctx, sequence.KindProtocol, models.SignalsOutgoing, period)
	s.Require().NoError(err)
	s.Equal(int64(1), n)

	n, err = s.alloc.Next(ctx, sequence.KindDraft, models.SignalsOutgoing, period)
	s.Require().NoError(err)
	s.Equal(int64(1), n)

	n, err = s.alloc.Next(ctx, sequence.KindProtocol, models.ConfidentialIncoming, period)
	s.Require().NoError(err)
	s.Equal(int64(40002), n)
}

// TestConcurrentAllocations verifies that INCR keeps allocations unique and
// contiguous under concurrent first use of a key.
func (s *RedisAllocatorSuite) TestConcurrentAllocations() {
	ctx := context.Background()
	period := models.Period("2025-03")

	const goroutines = 50
	results := make([]int64, goroutines)
	errs := make([]error, goroutines)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = s.alloc.Next(ctx, sequence.KindProtocol, models.SignalsIncoming, period)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		s.Require().NoError(err)
	}
	sort.Slice(results, func(i, j int) bool { return results[i] < results[j] })
	for i, n := range results {
		s.Equal(int64(1+i), n)
	}
}
