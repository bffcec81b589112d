// ABOUTME: Thread-safe, size-bounded failure counter with a per-key lockout window
// ABOUTME: Used by the login handler to slow down username guessing per remote address

package throttle

import (
	"container/list"
	"sync"
	"time"
)

// entry tracks failures for one key since its window started.
type entry struct {
	failures int
	started  time.Time
	element  *list.Element
}

// Limiter locks a key out once it accumulates maxFailures failures within
// window. The window starts at the first failure and is not extended by later
// ones. When more than maxKeys keys are tracked the least recently failed key
// is forgotten.
type Limiter struct {
	mu          sync.Mutex
	keys        map[string]*entry
	order       *list.List // least recently failed at front
	window      time.Duration
	maxFailures int
	maxKeys     int
	now         func() time.Time
	done        chan struct{}
	closed      bool
}

// New creates a limiter and starts its background sweeper. Call Close to stop it.
func New(window time.Duration, maxFailures, maxKeys int) *Limiter {
	l := &Limiter{
		keys:        make(map[string]*entry),
		order:       list.New(),
		window:      window,
		maxFailures: maxFailures,
		maxKeys:     maxKeys,
		now:         time.Now,
		done:        make(chan struct{}),
	}
	go l.sweep()
	return l
}

// Allowed reports whether key may attempt again.
func (l *Limiter) Allowed(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.keys[key]
	if !ok || l.expired(e) {
		return true
	}
	return e.failures < l.maxFailures
}

// Fail records a failed attempt and returns the failures counted in the
// current window, including this one.
func (l *Limiter) Fail(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	if e, ok := l.keys[key]; ok {
		if l.expired(e) {
			e.failures = 0
			e.started = l.now()
		}
		e.failures++
		l.order.MoveToBack(e.element)
		return e.failures
	}

	if len(l.keys) >= l.maxKeys {
		l.evictOldest()
	}

	l.keys[key] = &entry{
		failures: 1,
		started:  l.now(),
		element:  l.order.PushBack(key),
	}
	return 1
}

// Reset forgets key, typically after a successful attempt.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if e, ok := l.keys[key]; ok {
		l.order.Remove(e.element)
		delete(l.keys, key)
	}
}

// Len returns the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.keys)
}

// expired must be called with mu held.
func (l *Limiter) expired(e *entry) bool {
	return l.now().Sub(e.started) >= l.window
}

// evictOldest must be called with mu held.
func (l *Limiter) evictOldest() {
	front := l.order.Front()
	if front == nil {
		return
	}
	key, _ := front.Value.(string)
	l.order.Remove(front)
	delete(l.keys, key)
}

func (l *Limiter) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.removeExpired()
		case <-l.done:
			return
		}
	}
}

func (l *Limiter) removeExpired() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for key, e := range l.keys {
		if l.expired(e) {
			l.order.Remove(e.element)
			delete(l.keys, key)
		}
	}
}

// Close stops the background sweeper. It is safe to call multiple times.
func (l *Limiter) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.closed {
		close(l.done)
		l.closed = true
	}
}
