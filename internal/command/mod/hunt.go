package mod

import (
	"fmt"
	"strconv"

	"character-relay/internal/command"
	"character-relay/internal/relay"
)

const defaultHuntChance = 50

type HuntCommand struct{}

func (c *HuntCommand) Name() string      { return "hunt" }
func (c *HuntCommand) Aliases() []string { return nil }
func (c *HuntCommand) Description() string {
	return "Make the character reply to a user with an elevated chance"
}

func (c *HuntCommand) Run(ctx *command.Context) error {
	if !guildOwnerOnly(ctx) {
		return relay.ErrDenied
	}
	user := targetUser(ctx)
	if user == nil {
		return ctx.Reply(relay.WarnSign + " Usage: hunt @user [chance]")
	}

	chance := defaultHuntChance
	if len(ctx.Args) > 1 {
		parsed, err := strconv.Atoi(ctx.Args[len(ctx.Args)-1])
		if err == nil && parsed >= 1 && parsed <= 100 {
			chance = parsed
		}
	}

	ctx.Deps.Hunted.Hunt(user.ID, chance)
	return ctx.Reply(fmt.Sprintf("🎯 Hunting %s with %d%% chance", user.Username, chance))
}

type UnhuntCommand struct{}

func (c *UnhuntCommand) Name() string        { return "unhunt" }
func (c *UnhuntCommand) Aliases() []string   { return nil }
func (c *UnhuntCommand) Description() string { return "Stop hunting a user" }

func (c *UnhuntCommand) Run(ctx *command.Context) error {
	if !guildOwnerOnly(ctx) {
		return relay.ErrDenied
	}
	user := targetUser(ctx)
	if user == nil {
		return ctx.Reply(relay.WarnSign + " Usage: unhunt @user")
	}
	if !ctx.Deps.Hunted.Release(user.ID) {
		return ctx.Reply(user.Username + " is not hunted")
	}
	return ctx.Reply("✅ No longer hunting " + user.Username)
}

func init() {
	command.Register(&HuntCommand{}, command.WithCommandLog())
	command.Register(&UnhuntCommand{}, command.WithCommandLog())
}
