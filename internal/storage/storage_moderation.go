package storage

const (
	blacklistKey = "blacklist"
	huntedKey    = "hunted_users"
)

// SaveBlacklist replaces the persisted blacklist.
func (s *Storage) SaveBlacklist(ids []string) {
	s.ds.Add(blacklistKey, ids)
}

// LoadBlacklist returns the persisted blacklist, empty when never written.
func (s *Storage) LoadBlacklist() ([]string, error) {
	ids := []string{}
	if _, err := s.load(blacklistKey, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// SaveHuntedUsers replaces the persisted hunted-user map.
func (s *Storage) SaveHuntedUsers(users map[string]int) {
	s.ds.Add(huntedKey, users)
}

// LoadHuntedUsers returns the persisted hunted-user map.
func (s *Storage) LoadHuntedUsers() (map[string]int, error) {
	users := map[string]int{}
	if _, err := s.load(huntedKey, &users); err != nil {
		return nil, err
	}
	return users, nil
}
