package storage

import "time"

const (
	commandHistoryKey   = "cmd_history"
	commandHistoryLimit = 50
)

// CommandHistoryRecord is one logged command execution.
type CommandHistoryRecord struct {
	ChannelID string    `json:"channel_id"`
	GuildID   string    `json:"guild_id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Command   string    `json:"command"`
	Datetime  time.Time `json:"datetime"`
}

// AppendCommandToHistory records a command execution, keeping only the most
// recent entries.
func (s *Storage) AppendCommandToHistory(rec CommandHistoryRecord) error {
	history := []CommandHistoryRecord{}
	if _, err := s.load(commandHistoryKey, &history); err != nil {
		return err
	}

	history = append(history, rec)
	if len(history) > commandHistoryLimit {
		history = history[len(history)-commandHistoryLimit:]
	}
	s.ds.Add(commandHistoryKey, history)
	return nil
}

// FetchCommandHistory returns the logged command executions.
func (s *Storage) FetchCommandHistory() ([]CommandHistoryRecord, error) {
	history := []CommandHistoryRecord{}
	if _, err := s.load(commandHistoryKey, &history); err != nil {
		return nil, err
	}
	return history, nil
}
