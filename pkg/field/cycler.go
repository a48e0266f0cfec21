package field

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultShapeInterval 曲线切换间隔
const DefaultShapeInterval = 5 * time.Second

// ShapeCycler 定时触发曲线切换
//
// 计时器在独立 goroutine 中运行，只负责累加触发次数（单写者原子计数）；
// 帧线程通过 Drain 取走次数并自行调用 Animator.Advance。
type ShapeCycler struct {
	clock    clockwork.Clock
	interval time.Duration

	pending atomic.Int64
	fired   atomic.Int64

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewShapeCycler 创建计时器，clock 为 nil 时使用真实时钟
func NewShapeCycler(clock clockwork.Clock, interval time.Duration) *ShapeCycler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if interval <= 0 {
		interval = DefaultShapeInterval
	}
	return &ShapeCycler{
		clock:    clock,
		interval: interval,
	}
}

// Start 启动计时 goroutine；重复调用无效
func (c *ShapeCycler) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})

	ticker := c.clock.NewTicker(c.interval)
	go c.run(ctx, ticker, c.done)

	log.Printf("[ShapeCycler] started, interval=%v", c.interval)
}

func (c *ShapeCycler) run(ctx context.Context, ticker clockwork.Ticker, done chan struct{}) {
	defer close(done)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			c.pending.Add(1)
			c.fired.Add(1)
		}
	}
}

// Stop 取消计时并等待 goroutine 退出
// 可重复调用，也可在 Start 之前调用
func (c *ShapeCycler) Stop() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	log.Printf("[ShapeCycler] stopped after %d firings", c.fired.Load())
}

// Running 报告计时器是否在运行
func (c *ShapeCycler) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancel != nil
}

// Drain 返回自上次调用以来的触发次数并清零
func (c *ShapeCycler) Drain() int {
	return int(c.pending.Swap(0))
}

// Fired 返回累计触发次数
func (c *ShapeCycler) Fired() int64 {
	return c.fired.Load()
}

// Interval 返回切换间隔
func (c *ShapeCycler) Interval() time.Duration {
	return c.interval
}
