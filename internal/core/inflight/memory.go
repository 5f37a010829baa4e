package inflight

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// MemoryLocker 进程内在途锁
type MemoryLocker struct {
	mu    sync.Mutex
	clock clock.Clock
	held  map[string]time.Time // key -> 过期时刻
}

// NewMemoryLocker 创建进程内在途锁
func NewMemoryLocker(clk clock.Clock) *MemoryLocker {
	if clk == nil {
		clk = clock.New()
	}
	return &MemoryLocker{
		clock: clk,
		held:  make(map[string]time.Time),
	}
}

// Acquire 获取全部键
func (l *MemoryLocker) Acquire(_ context.Context, keys []string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	for _, key := range keys {
		if expiry, ok := l.held[key]; ok && now.Before(expiry) {
			return false, nil
		}
	}
	expiry := now.Add(ttl)
	for _, key := range keys {
		l.held[key] = expiry
	}
	l.sweep(now)
	return true, nil
}

// Release 释放键
func (l *MemoryLocker) Release(_ context.Context, keys []string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, key := range keys {
		delete(l.held, key)
	}
	return nil
}

// Held 当前有效的锁数量
func (l *MemoryLocker) Held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sweep(l.clock.Now())
	return len(l.held)
}

func (l *MemoryLocker) sweep(now time.Time) {
	for key, expiry := range l.held {
		if !now.Before(expiry) {
			delete(l.held, key)
		}
	}
}

var _ Locker = (*MemoryLocker)(nil)
