// Package command is the message-command side channel: a registry of named
// commands the router consults before falling through to a character call.
package command

import (
	"character-relay/internal/character"
	"character-relay/internal/relay"
	"character-relay/internal/storage"

	"github.com/bwmarrin/discordgo"
)

// Command is a message-invoked bot command.
type Command interface {
	Name() string
	Aliases() []string
	Description() string
	Run(ctx *Context) error
}

// Context is what the router hands a command when dispatching. Convo is the
// channel's session; its lock is held by the router for the duration of the
// call.
type Context struct {
	Session *discordgo.Session
	Event   *discordgo.MessageCreate
	Args    []string
	IsDM    bool

	Convo *relay.Session
	Deps  *Deps
}

// SearchUI renders and tracks the character search browser. Implemented by
// the discord package and injected at startup, so commands never import it.
type SearchUI interface {
	Open(ctx *Context, query string, items []relay.Candidate) error
}

// Deps bundles the collaborators commands may touch.
type Deps struct {
	Sessions *relay.Store
	Limiter  *relay.RateLimiter
	Hunted   *relay.HuntedUsers
	Client   *character.Client
	Storage  *storage.Storage
	Search   SearchUI
}

// Reply answers the triggering message.
func (ctx *Context) Reply(text string) error {
	_, err := ctx.Session.ChannelMessageSendReply(ctx.Event.ChannelID, text, ctx.Event.Reference())
	return err
}

// ReplyEmbed answers the triggering message with an embed.
func (ctx *Context) ReplyEmbed(embed *discordgo.MessageEmbed) error {
	_, err := ctx.Session.ChannelMessageSendComplex(ctx.Event.ChannelID, &discordgo.MessageSend{
		Embed:     embed,
		Reference: ctx.Event.Reference(),
	})
	return err
}
