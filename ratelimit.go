package main

import (
	"sync"
	"time"
)

type attemptData struct {
	count        int
	firstAttempt time.Time
}

// loginLimiter blocks a client IP after too many failed logins inside one
// window.
type loginLimiter struct {
	sync.Mutex
	attempts map[string]*attemptData
	blocked  map[string]time.Time

	maxAttempts int
	maxTracked  int
	window      time.Duration
	block       time.Duration
	now         func() time.Time
}

const maxTrackedClients = 10000

func newLoginLimiter(maxAttempts int, block time.Duration) *loginLimiter {
	return &loginLimiter{
		attempts:    make(map[string]*attemptData),
		blocked:     make(map[string]time.Time),
		maxAttempts: maxAttempts,
		maxTracked:  maxTrackedClients,
		window:      block,
		block:       block,
		now:         time.Now,
	}
}

// Allow returns false while ip is blocked. Expired blocks are dropped.
func (r *loginLimiter) Allow(ip string) bool {
	r.Lock()
	defer r.Unlock()

	if until, ok := r.blocked[ip]; ok {
		if r.now().Before(until) {
			return false
		}
		delete(r.blocked, ip)
		delete(r.attempts, ip)
	}
	return true
}

func (r *loginLimiter) RecordFailure(ip string) {
	r.Lock()
	defer r.Unlock()

	now := r.now()
	if len(r.attempts) >= r.maxTracked {
		r.prune(now)
	}

	data, ok := r.attempts[ip]
	if !ok || now.Sub(data.firstAttempt) > r.window {
		data = &attemptData{firstAttempt: now}
		r.attempts[ip] = data
	}
	data.count++
	if data.count >= r.maxAttempts {
		r.blocked[ip] = now.Add(r.block)
	}
}

// prune drops counters whose window has passed and blocks that expired.
// Live counters survive, so flooding the table cannot reset a client that is
// close to being blocked.
func (r *loginLimiter) prune(now time.Time) {
	for ip, until := range r.blocked {
		if !now.Before(until) {
			delete(r.blocked, ip)
			delete(r.attempts, ip)
		}
	}
	for ip, data := range r.attempts {
		if _, blocked := r.blocked[ip]; !blocked && now.Sub(data.firstAttempt) > r.window {
			delete(r.attempts, ip)
		}
	}
}

// Reset clears ip after a successful login.
func (r *loginLimiter) Reset(ip string) {
	r.Lock()
	defer r.Unlock()
	delete(r.attempts, ip)
	delete(r.blocked, ip)
}
