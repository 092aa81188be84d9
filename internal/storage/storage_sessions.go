package storage

import "character-relay/internal/relay"

const channelsKey = "channels"

// ChannelRecord is the durable part of one conversation session.
type ChannelRecord struct {
	ChannelID    string  `json:"channel_id"`
	OwnerID      string  `json:"owner_id"`
	CharacterID  string  `json:"character_id,omitempty"`
	HistoryID    string  `json:"history_id,omitempty"`
	ReplyChance  float64 `json:"reply_chance"`
	AudienceMode int     `json:"audience_mode"`
	ReplyDelay   int     `json:"reply_delay"`
	SkipMessages int     `json:"skip_messages"`
}

// SaveChannels replaces the persisted session collection.
func (s *Storage) SaveChannels(snaps map[string]relay.Snapshot) {
	recs := make(map[string]ChannelRecord, len(snaps))
	for id, snap := range snaps {
		recs[id] = ChannelRecord{
			ChannelID:    snap.ChannelID,
			OwnerID:      snap.OwnerID,
			CharacterID:  snap.CharacterID,
			HistoryID:    snap.HistoryID,
			ReplyChance:  snap.ReplyChance,
			AudienceMode: snap.AudienceMode,
			ReplyDelay:   snap.ReplyDelay,
			SkipMessages: snap.SkipMessages,
		}
	}
	s.ds.Add(channelsKey, recs)
}

// LoadChannels returns the persisted session collection, empty when the
// store is fresh.
func (s *Storage) LoadChannels() (map[string]relay.Snapshot, error) {
	recs := map[string]ChannelRecord{}
	if _, err := s.load(channelsKey, &recs); err != nil {
		return nil, err
	}

	snaps := make(map[string]relay.Snapshot, len(recs))
	for id, rec := range recs {
		snaps[id] = relay.Snapshot{
			ChannelID:    rec.ChannelID,
			OwnerID:      rec.OwnerID,
			CharacterID:  rec.CharacterID,
			HistoryID:    rec.HistoryID,
			ReplyChance:  rec.ReplyChance,
			AudienceMode: rec.AudienceMode,
			ReplyDelay:   rec.ReplyDelay,
			SkipMessages: rec.SkipMessages,
		}
	}
	return snaps, nil
}
