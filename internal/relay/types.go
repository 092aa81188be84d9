// Package relay holds the conversation-state engine: per-channel sessions,
// the reply decision policy, the sender rate limiter, the swipe cursor over
// alternate replies, and the search browser. Everything here is gateway- and
// transport-agnostic; the discord package wires it to real events.
//
// Locking discipline: the session lock is acquired once at handler entry and
// held across the whole event (including remote calls). Code below the router
// assumes the lock of the session it receives is already held.
package relay

import "sync"

// Reply is one candidate answer returned by a single character call.
// Immutable once received.
type Reply struct {
	ID        uint64 `json:"id"`
	Text      string `json:"text"`
	HasImage  bool   `json:"has_image"`
	ImagePath string `json:"image_path,omitempty"`
}

// CallResult is the snapshot of the most recent character invocation for a
// channel. It is replaced wholesale by every new top-level call; between
// calls only the swipe controller touches it.
type CallResult struct {
	Replies             []Reply
	CurrentReplyIndex   int
	CurrentPrimaryMsgID uint64
	LastUserMsgID       uint64
}

// Session is the per-channel conversation state. CharacterID and HistoryID
// are committed together through SetCharacter and are never set
// independently. LastCall and LastCharacterCallMsgID are ephemeral and are
// not persisted.
type Session struct {
	mu sync.Mutex

	ChannelID string
	OwnerID   string

	CharacterID string
	HistoryID   string

	ReplyChance  float64 // 0..100
	AudienceMode int
	ReplyDelay   int // seconds
	SkipMessages int

	SkipNextBotMessage bool

	LastCall               *CallResult
	LastCharacterCallMsgID string
}

func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// ReplyChanceSnapshot reads ReplyChance under the session lock. The reply
// decision runs before the router takes the lock for the handler, so it must
// not touch session fields directly.
func (s *Session) ReplyChanceSnapshot() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ReplyChance
}

// HasCharacter reports whether a character has been committed to this
// channel.
func (s *Session) HasCharacter() bool {
	return s.CharacterID != "" && s.HistoryID != ""
}

// SetCharacter commits a character and its conversation history as one unit.
// A call with either id empty leaves the session untouched.
func (s *Session) SetCharacter(characterID, historyID string) {
	if characterID == "" || historyID == "" {
		return
	}
	s.CharacterID = characterID
	s.HistoryID = historyID
	s.LastCall = nil
	s.LastCharacterCallMsgID = ""
}

// Swipable reports whether messageID is this channel's last character
// message with a call snapshot to navigate.
func (s *Session) Swipable(messageID string) bool {
	return s.LastCall != nil && messageID != "" && messageID == s.LastCharacterCallMsgID
}

// Snapshot is a copy of the durable part of a session, taken under the
// session lock and handed to the persistence layer.
type Snapshot struct {
	ChannelID    string
	OwnerID      string
	CharacterID  string
	HistoryID    string
	ReplyChance  float64
	AudienceMode int
	ReplyDelay   int
	SkipMessages int
}

// Export copies the durable fields. The caller must hold the session lock.
func (s *Session) Export() Snapshot {
	return Snapshot{
		ChannelID:    s.ChannelID,
		OwnerID:      s.OwnerID,
		CharacterID:  s.CharacterID,
		HistoryID:    s.HistoryID,
		ReplyChance:  s.ReplyChance,
		AudienceMode: s.AudienceMode,
		ReplyDelay:   s.ReplyDelay,
		SkipMessages: s.SkipMessages,
	}
}
