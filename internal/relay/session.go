package relay

import "sync"

// Store maps channel ids to their sessions. Lookup and creation are guarded
// by the store lock; state inside a session is guarded by that session's own
// lock. Sessions are created lazily and live for the process lifetime.
type Store struct {
	mu            sync.Mutex
	sessions      map[string]*Session
	snaps         map[string]Snapshot
	defaultChance float64
	persist       func(map[string]Snapshot)
}

// NewStore returns an empty session store. persist, if non-nil, receives a
// copy of the durable state of every known session after each Save; it runs
// on its own goroutine so handlers never wait on disk.
func NewStore(defaultChance float64, persist func(map[string]Snapshot)) *Store {
	return &Store{
		sessions:      make(map[string]*Session),
		snaps:         make(map[string]Snapshot),
		defaultChance: defaultChance,
		persist:       persist,
	}
}

// Get returns the session for a channel, if one exists.
func (st *Store) Get(channelID string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[channelID]
	return s, ok
}

// GetOrCreate returns the channel's session, creating it on first use with
// ownerID recorded as the activating sender. The second result reports
// whether a new session was created.
func (st *Store) GetOrCreate(channelID, ownerID string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if s, ok := st.sessions[channelID]; ok {
		return s, false
	}
	s := &Session{
		ChannelID:   channelID,
		OwnerID:     ownerID,
		ReplyChance: st.defaultChance,
	}
	st.sessions[channelID] = s
	return s, true
}

// Save captures the durable state of one session and hands the full snapshot
// map to the persistence hook. The caller must hold the session's lock; no
// other session is touched.
func (st *Store) Save(s *Session) {
	snap := s.Export()
	st.mu.Lock()
	st.snaps[snap.ChannelID] = snap
	out := make(map[string]Snapshot, len(st.snaps))
	for k, v := range st.snaps {
		out[k] = v
	}
	st.mu.Unlock()
	if st.persist != nil {
		go st.persist(out)
	}
}

// Restore seeds the store from persisted snapshots at startup.
func (st *Store) Restore(snaps map[string]Snapshot) {
	st.mu.Lock()
	defer st.mu.Unlock()
	for id, snap := range snaps {
		st.sessions[id] = &Session{
			ChannelID:    snap.ChannelID,
			OwnerID:      snap.OwnerID,
			CharacterID:  snap.CharacterID,
			HistoryID:    snap.HistoryID,
			ReplyChance:  snap.ReplyChance,
			AudienceMode: snap.AudienceMode,
			ReplyDelay:   snap.ReplyDelay,
			SkipMessages: snap.SkipMessages,
		}
		st.snaps[id] = snap
	}
}

// Len reports how many channels have sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}
