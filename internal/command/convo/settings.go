package convo

import (
	"fmt"
	"strconv"

	"character-relay/internal/command"
	"character-relay/internal/relay"
)

type AudienceCommand struct{}

func (c *AudienceCommand) Name() string      { return "audience" }
func (c *AudienceCommand) Aliases() []string { return nil }
func (c *AudienceCommand) Description() string {
	return "Set the audience mode (0 plain, 1 name, 2 quote, 3 both)"
}

func (c *AudienceCommand) Run(ctx *command.Context) error {
	if len(ctx.Args) == 0 {
		return ctx.Reply(fmt.Sprintf("Audience mode: %d", ctx.Convo.AudienceMode))
	}
	mode, err := strconv.Atoi(ctx.Args[0])
	if err != nil || mode < relay.AudiencePlain || mode > relay.AudienceNameQuote {
		return ctx.Reply(relay.WarnSign + " Usage: audience <0-3>")
	}
	ctx.Convo.AudienceMode = mode
	ctx.Deps.Sessions.Save(ctx.Convo)
	return ctx.Reply(fmt.Sprintf("✅ Audience mode set to %d", mode))
}

type ChanceCommand struct{}

func (c *ChanceCommand) Name() string        { return "chance" }
func (c *ChanceCommand) Aliases() []string   { return nil }
func (c *ChanceCommand) Description() string { return "Set the random reply chance (0-100)" }

func (c *ChanceCommand) Run(ctx *command.Context) error {
	if len(ctx.Args) == 0 {
		return ctx.Reply(fmt.Sprintf("Reply chance: %.1f%%", ctx.Convo.ReplyChance))
	}
	chance, err := strconv.ParseFloat(ctx.Args[0], 64)
	if err != nil || chance < 0 || chance > 100 {
		return ctx.Reply(relay.WarnSign + " Usage: chance <0-100>")
	}
	ctx.Convo.ReplyChance = chance
	ctx.Deps.Sessions.Save(ctx.Convo)
	return ctx.Reply(fmt.Sprintf("✅ Reply chance set to %.1f%%", chance))
}

type DelayCommand struct{}

func (c *DelayCommand) Name() string        { return "delay" }
func (c *DelayCommand) Aliases() []string   { return nil }
func (c *DelayCommand) Description() string { return "Delay character replies by N seconds" }

func (c *DelayCommand) Run(ctx *command.Context) error {
	if len(ctx.Args) == 0 {
		return ctx.Reply(fmt.Sprintf("Reply delay: %ds", ctx.Convo.ReplyDelay))
	}
	delay, err := strconv.Atoi(ctx.Args[0])
	if err != nil || delay < 0 {
		return ctx.Reply(relay.WarnSign + " Usage: delay <seconds>")
	}
	ctx.Convo.ReplyDelay = delay
	ctx.Deps.Sessions.Save(ctx.Convo)
	return ctx.Reply(fmt.Sprintf("✅ Reply delay set to %ds", delay))
}

type SkipCommand struct{}

func (c *SkipCommand) Name() string        { return "skip" }
func (c *SkipCommand) Aliases() []string   { return nil }
func (c *SkipCommand) Description() string { return "Skip the next N qualifying messages without replying" }

func (c *SkipCommand) Run(ctx *command.Context) error {
	n := 1
	if len(ctx.Args) > 0 {
		parsed, err := strconv.Atoi(ctx.Args[0])
		if err != nil || parsed < 1 {
			return ctx.Reply(relay.WarnSign + " Usage: skip [count]")
		}
		n = parsed
	}
	ctx.Convo.SkipMessages += n
	ctx.Deps.Sessions.Save(ctx.Convo)
	return ctx.Reply(fmt.Sprintf("✅ Skipping the next %d message(s)", ctx.Convo.SkipMessages))
}

func init() {
	command.Register(&AudienceCommand{}, command.WithCommandLog())
	command.Register(&ChanceCommand{}, command.WithCommandLog())
	command.Register(&DelayCommand{}, command.WithCommandLog())
	command.Register(&SkipCommand{}, command.WithCommandLog())
}
