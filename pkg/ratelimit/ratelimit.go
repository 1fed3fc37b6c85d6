package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"
)

// TokenBucket 令牌桶速率限制器，按时间连续补充令牌
type TokenBucket struct {
	capacity float64 // 桶容量
	rate     float64 // 每秒补充的令牌数
	tokens   float64 // 当前令牌数
	last     time.Time
	now      func() time.Time
	mu       sync.Mutex
}

// NewTokenBucket 创建新的令牌桶（初始为满）
func NewTokenBucket(capacity int, perSecond float64) *TokenBucket {
	return newTokenBucket(capacity, perSecond, time.Now)
}

func newTokenBucket(capacity int, perSecond float64, now func() time.Time) *TokenBucket {
	return &TokenBucket{
		capacity: float64(capacity),
		rate:     perSecond,
		tokens:   float64(capacity),
		last:     now(),
		now:      now,
	}
}

// refill 补充令牌，调用方持有锁
func (tb *TokenBucket) refill() {
	now := tb.now()
	if elapsed := now.Sub(tb.last).Seconds(); elapsed > 0 {
		tb.tokens = math.Min(tb.capacity, tb.tokens+elapsed*tb.rate)
		tb.last = now
	}
}

// Allow 检查是否允许请求，允许时消耗一个令牌
func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill()
	if tb.tokens >= 1 {
		tb.tokens--
		return true
	}
	return false
}

// RetryAfter 返回下一个令牌可用前需要等待的时间
func (tb *TokenBucket) RetryAfter() time.Duration {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill()
	if tb.tokens >= 1 {
		return 0
	}
	if tb.rate <= 0 {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration((1 - tb.tokens) / tb.rate * float64(time.Second))
}

// Remaining 获取剩余令牌数
func (tb *TokenBucket) Remaining() int {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.refill()
	return int(tb.tokens)
}

// Wait 等待直到允许请求
func (tb *TokenBucket) Wait(ctx context.Context) error {
	for {
		if tb.Allow() {
			return nil
		}
		timer := time.NewTimer(tb.RetryAfter())
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Keyed 按 key（例如客户端 IP）分别限流。
// 空闲超过 idle 的桶会在下一次清理时回收。
type Keyed struct {
	capacity int
	rate     float64
	idle     time.Duration
	now      func() time.Time

	mu        sync.Mutex
	buckets   map[string]*keyedBucket
	lastSweep time.Time
}

type keyedBucket struct {
	tb   *TokenBucket
	seen time.Time
}

// NewKeyed 创建按 key 限流的限制器
func NewKeyed(capacity int, perSecond float64, idle time.Duration) *Keyed {
	return newKeyed(capacity, perSecond, idle, time.Now)
}

func newKeyed(capacity int, perSecond float64, idle time.Duration, now func() time.Time) *Keyed {
	if idle <= 0 {
		idle = 10 * time.Minute
	}
	return &Keyed{
		capacity:  capacity,
		rate:      perSecond,
		idle:      idle,
		now:       now,
		buckets:   make(map[string]*keyedBucket),
		lastSweep: now(),
	}
}

func (k *Keyed) bucket(key string) *TokenBucket {
	k.mu.Lock()
	defer k.mu.Unlock()

	now := k.now()
	if now.Sub(k.lastSweep) >= k.idle {
		for key, b := range k.buckets {
			if now.Sub(b.seen) >= k.idle {
				delete(k.buckets, key)
			}
		}
		k.lastSweep = now
	}

	b, ok := k.buckets[key]
	if !ok {
		b = &keyedBucket{tb: newTokenBucket(k.capacity, k.rate, k.now)}
		k.buckets[key] = b
	}
	b.seen = now
	return b.tb
}

// Allow 检查 key 是否允许请求；不允许时返回建议的等待时间
func (k *Keyed) Allow(key string) (bool, time.Duration) {
	tb := k.bucket(key)
	if tb.Allow() {
		return true, 0
	}
	return false, tb.RetryAfter()
}

// Len 返回当前跟踪的 key 数量
func (k *Keyed) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.buckets)
}
