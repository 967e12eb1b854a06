package errgroupx_test

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lumilio-gallery/manifest-builder/internal/errgroupx"
)

func TestGroupRun(t *testing.T) {
	t.Run("all tasks succeed and preserve order", func(t *testing.T) {
		items := []int{0, 1, 2, 3, 4}
		g := errgroupx.New[int](2)

		results := g.Run(items, func(index int) int { return index * 10 })
		assert.Equal(t, []int{0, 10, 20, 30, 40}, results)
	})

	t.Run("some tasks fail without aborting the rest", func(t *testing.T) {
		items := []int{0, 1, 2, 3}
		g := errgroupx.New[error](0)

		results := g.Run(items, func(index int) error {
			if index%2 == 0 {
				return fmt.Errorf("task %d failed", index)
			}
			return nil
		})

		for i, err := range results {
			if i%2 == 0 {
				assert.Error(t, err, "results[%d]", i)
			} else {
				assert.NoError(t, err, "results[%d]", i)
			}
		}
	})

	t.Run("respects the concurrency limit", func(t *testing.T) {
		items := make([]int, 20)
		var current, peak int64
		g := errgroupx.New[struct{}](3)

		g.Run(items, func(index int) struct{} {
			n := atomic.AddInt64(&current, 1)
			for {
				p := atomic.LoadInt64(&peak)
				if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
					break
				}
			}
			atomic.AddInt64(&current, -1)
			return struct{}{}
		})

		assert.LessOrEqual(t, peak, int64(3))
	})

	t.Run("empty input returns no results", func(t *testing.T) {
		g := errgroupx.New[int](4)
		results := g.Run(nil, func(index int) int { return index })
		assert.Empty(t, results)
	})
}
