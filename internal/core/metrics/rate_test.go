package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
)

// TestRateMeter_Window 测试滑动窗口
func TestRateMeter_Window(t *testing.T) {
	clk := clock.NewMock()
	r := NewRateMeter(clk)

	r.Add(60)
	assert.InDelta(t, 1.0, r.Rate(), 1e-9)

	clk.Add(30 * time.Second)
	r.Add(120)
	assert.InDelta(t, 3.0, r.Rate(), 1e-9)

	// 第一个桶滑出窗口
	clk.Add(45 * time.Second)
	assert.InDelta(t, 2.0, r.Rate(), 1e-9)

	// 窗口完全过期
	clk.Add(2 * time.Minute)
	assert.Zero(t, r.Rate())
	assert.Equal(t, int64(180), r.Total())
}

// TestRateMeter_Concurrent 测试并发写入
func TestRateMeter_Concurrent(t *testing.T) {
	r := NewRateMeter(clock.NewMock())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(5000), r.Total())
}
