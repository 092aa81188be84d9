package relay

import (
	"sort"
	"sync"
	"time"
)

// Verdict is the rate limiter's decision for one inbound message.
type Verdict int

const (
	Allow Verdict = iota
	Warn          // threshold reached, caller sends a one-time warning and proceeds
	Ban           // over the limit or already blacklisted, drop silently
)

type senderActivity struct {
	minute int
	count  int
}

// RateLimiter counts per-sender messages in wall-clock minute buckets and
// escalates to a permanent blacklist entry. The bucket is keyed by the
// message timestamp's minute-of-day, so the count resets whenever a sender
// first speaks in a new minute. Ban is terminal until an explicit Unban.
// Safe for concurrent use across channels.
type RateLimiter struct {
	mu        sync.Mutex
	limit     int
	counts    map[string]*senderActivity
	blacklist map[string]struct{}
	persist   func([]string)
}

// NewRateLimiter returns a limiter that warns at limit-1 messages per minute
// bucket and bans past limit. persist, if non-nil, receives the blacklist
// after every change.
func NewRateLimiter(limit int, persist func([]string)) *RateLimiter {
	return &RateLimiter{
		limit:     limit,
		counts:    make(map[string]*senderActivity),
		blacklist: make(map[string]struct{}),
		persist:   persist,
	}
}

// MinuteKey derives the bucket key from a message timestamp.
func MinuteKey(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// Check counts one message from senderID within the given minute bucket.
// Guild owners are always allowed and never tracked.
func (l *RateLimiter) Check(senderID string, isGuildOwner bool, minuteKey int) Verdict {
	if isGuildOwner {
		return Allow
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, banned := l.blacklist[senderID]; banned {
		return Ban
	}

	a, ok := l.counts[senderID]
	if !ok {
		a = &senderActivity{minute: -1}
		l.counts[senderID] = a
	}
	if a.minute != minuteKey {
		a.minute = minuteKey
		a.count = 0
	}
	a.count++

	switch {
	case a.count == l.limit-1:
		return Warn
	case a.count > l.limit:
		l.blacklist[senderID] = struct{}{}
		delete(l.counts, senderID)
		l.save()
		return Ban
	}
	return Allow
}

// IsBanned reports blacklist membership without counting anything. This is
// the checkOnly path used by the search browser.
func (l *RateLimiter) IsBanned(senderID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, banned := l.blacklist[senderID]
	return banned
}

// Ban blacklists a sender outside the counting path (moderation command).
func (l *RateLimiter) Ban(senderID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.blacklist[senderID] = struct{}{}
	delete(l.counts, senderID)
	l.save()
}

// Unban removes a sender from the blacklist. Returns false when the sender
// was not banned.
func (l *RateLimiter) Unban(senderID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, banned := l.blacklist[senderID]; !banned {
		return false
	}
	delete(l.blacklist, senderID)
	l.save()
	return true
}

// Banned returns the blacklist, sorted.
func (l *RateLimiter) Banned() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.bannedLocked()
}

// Restore seeds the blacklist from persisted state at startup.
func (l *RateLimiter) Restore(ids []string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, id := range ids {
		l.blacklist[id] = struct{}{}
	}
}

func (l *RateLimiter) bannedLocked() []string {
	out := make([]string, 0, len(l.blacklist))
	for id := range l.blacklist {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (l *RateLimiter) save() {
	if l.persist == nil {
		return
	}
	ids := l.bannedLocked()
	go l.persist(ids)
}
