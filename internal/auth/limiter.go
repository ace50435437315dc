package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	"allmanager/internal/config"
)

// LimiterPolicy configures the fixed-window login limiter.
type LimiterPolicy struct {
	Window      time.Duration
	Block       time.Duration
	MaxAttempts int
}

// DefaultLimiterPolicy allows 5 failures per 10 minutes, then blocks for 15.
func DefaultLimiterPolicy() LimiterPolicy {
	return LimiterPolicy{
		Window:      config.LoginWindow,
		Block:       config.LoginBlockDuration,
		MaxAttempts: config.MaxLoginAttempts,
	}
}

// LoginKey builds the limiter key for one client ip and email pair.
func LoginKey(ip, email string) string {
	return ip + ":" + strings.ToLower(email)
}

type attemptState struct {
	count        int
	firstAttempt time.Time
	blockedUntil time.Time
}

// MemoryLimiter is a process-local LoginLimiter.
type MemoryLimiter struct {
	policy   LimiterPolicy
	now      func() time.Time
	lock     sync.Mutex
	attempts map[string]*attemptState
}

// NewMemoryLimiter creates a limiter using the wall clock.
func NewMemoryLimiter(policy LimiterPolicy) *MemoryLimiter {
	return NewMemoryLimiterWithClock(policy, time.Now)
}

// NewMemoryLimiterWithClock creates a limiter reading time from now.
func NewMemoryLimiterWithClock(policy LimiterPolicy, now func() time.Time) *MemoryLimiter {
	return &MemoryLimiter{
		policy:   policy,
		now:      now,
		attempts: make(map[string]*attemptState),
	}
}

func (m *MemoryLimiter) Check(ctx context.Context, key string) (time.Duration, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	now := m.now()
	m.cleanup(now)

	state, ok := m.attempts[key]
	if !ok || !state.blockedUntil.After(now) {
		return 0, nil
	}
	return state.blockedUntil.Sub(now), nil
}

func (m *MemoryLimiter) RecordFailure(ctx context.Context, key string) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	now := m.now()
	state, ok := m.attempts[key]
	if !ok || now.Sub(state.firstAttempt) > m.policy.Window {
		m.attempts[key] = &attemptState{count: 1, firstAttempt: now}
		return nil
	}

	state.count++
	if state.count >= m.policy.MaxAttempts {
		state.blockedUntil = now.Add(m.policy.Block)
	}
	return nil
}

func (m *MemoryLimiter) Reset(ctx context.Context, key string) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	delete(m.attempts, key)
	return nil
}

// cleanup drops entries whose window and block have both passed. Caller holds lock.
func (m *MemoryLimiter) cleanup(now time.Time) {
	for key, state := range m.attempts {
		if now.Sub(state.firstAttempt) > m.policy.Window && state.blockedUntil.Before(now) {
			delete(m.attempts, key)
		}
	}
}
