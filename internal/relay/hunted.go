package relay

import "sync"

// HuntedUsers maps sender ids to an elevated passive reply chance (1..100).
// A hunted sender gets an extra reply roll on every message, independent of
// the channel's own reply chance. Safe for concurrent use.
type HuntedUsers struct {
	mu      sync.RWMutex
	users   map[string]int
	persist func(map[string]int)
}

// NewHuntedUsers returns an empty hunted list. persist, if non-nil, receives
// a copy of the map after every change.
func NewHuntedUsers(persist func(map[string]int)) *HuntedUsers {
	return &HuntedUsers{users: make(map[string]int), persist: persist}
}

// Hunt registers or updates a sender's override chance, clamped to 1..100.
func (h *HuntedUsers) Hunt(userID string, chance int) {
	if chance < 1 {
		chance = 1
	}
	if chance > 100 {
		chance = 100
	}
	h.mu.Lock()
	h.users[userID] = chance
	h.save()
	h.mu.Unlock()
}

// Release removes a sender from the hunted list. Returns false when the
// sender was not hunted.
func (h *HuntedUsers) Release(userID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.users[userID]; !ok {
		return false
	}
	delete(h.users, userID)
	h.save()
	return true
}

// Chance returns the sender's override chance, if hunted.
func (h *HuntedUsers) Chance(userID string) (int, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.users[userID]
	return c, ok
}

// Restore seeds the list from persisted state at startup.
func (h *HuntedUsers) Restore(m map[string]int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range m {
		h.users[id] = c
	}
}

// save must be called with the write lock held.
func (h *HuntedUsers) save() {
	if h.persist == nil {
		return
	}
	out := make(map[string]int, len(h.users))
	for id, c := range h.users {
		out[id] = c
	}
	go h.persist(out)
}
