package command

import (
	"log"
	"time"

	"character-relay/internal/storage"
)

// Middleware wraps a command with cross-cutting behavior.
type Middleware func(Command) Command

type loggedCommand struct {
	Command
}

// WithCommandLog wraps a command to record each execution in storage.
func WithCommandLog() Middleware {
	return func(c Command) Command {
		return &loggedCommand{Command: c}
	}
}

func (c *loggedCommand) Run(ctx *Context) error {
	err := c.Command.Run(ctx)

	if ctx.Deps != nil && ctx.Deps.Storage != nil {
		rec := storage.CommandHistoryRecord{
			ChannelID: ctx.Event.ChannelID,
			GuildID:   ctx.Event.GuildID,
			UserID:    ctx.Event.Author.ID,
			Username:  ctx.Event.Author.Username,
			Command:   c.Command.Name(),
			Datetime:  time.Now(),
		}
		if logErr := ctx.Deps.Storage.AppendCommandToHistory(rec); logErr != nil {
			log.Printf("[WARN] Failed to log command %s: %v", c.Command.Name(), logErr)
		}
	}
	return err
}
