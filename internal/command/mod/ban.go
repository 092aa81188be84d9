// Package mod holds the moderation commands: blacklist management and the
// hunted-user overrides. All of them are restricted to the guild owner.
package mod

import (
	"character-relay/internal/command"
	"character-relay/internal/relay"

	"github.com/bwmarrin/discordgo"
)

// guildOwnerOnly rejects everyone except the guild owner. Moderation
// commands are meaningless in DMs.
func guildOwnerOnly(ctx *command.Context) bool {
	if ctx.Event.GuildID == "" {
		return false
	}
	guild, err := ctx.Session.State.Guild(ctx.Event.GuildID)
	if err != nil {
		return false
	}
	return guild.OwnerID == ctx.Event.Author.ID
}

// targetUser picks the first mentioned user that is not the bot itself.
func targetUser(ctx *command.Context) *discordgo.User {
	for _, u := range ctx.Event.Mentions {
		if u.ID != ctx.Session.State.User.ID {
			return u
		}
	}
	return nil
}

type BanCommand struct{}

func (c *BanCommand) Name() string        { return "ban" }
func (c *BanCommand) Aliases() []string   { return nil }
func (c *BanCommand) Description() string { return "Blacklist a user from the bot" }

func (c *BanCommand) Run(ctx *command.Context) error {
	if !guildOwnerOnly(ctx) {
		return relay.ErrDenied
	}
	user := targetUser(ctx)
	if user == nil {
		return ctx.Reply(relay.WarnSign + " Usage: ban @user")
	}
	ctx.Deps.Limiter.Ban(user.ID)
	return ctx.Reply("✅ Banned " + user.Username)
}

type UnbanCommand struct{}

func (c *UnbanCommand) Name() string        { return "unban" }
func (c *UnbanCommand) Aliases() []string   { return nil }
func (c *UnbanCommand) Description() string { return "Remove a user from the blacklist" }

func (c *UnbanCommand) Run(ctx *command.Context) error {
	if !guildOwnerOnly(ctx) {
		return relay.ErrDenied
	}
	user := targetUser(ctx)
	if user == nil {
		return ctx.Reply(relay.WarnSign + " Usage: unban @user")
	}
	if !ctx.Deps.Limiter.Unban(user.ID) {
		return ctx.Reply(user.Username + " is not banned")
	}
	return ctx.Reply("✅ Unbanned " + user.Username)
}

func init() {
	command.Register(&BanCommand{}, command.WithCommandLog())
	command.Register(&UnbanCommand{}, command.WithCommandLog())
}
