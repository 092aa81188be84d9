package convo

import (
	"context"
	"fmt"

	"character-relay/internal/command"
	"character-relay/internal/relay"
)

type CharacterCommand struct{}

func (c *CharacterCommand) Name() string      { return "character" }
func (c *CharacterCommand) Aliases() []string { return []string{"char"} }
func (c *CharacterCommand) Description() string {
	return "Show the active character, or set one by id"
}

func (c *CharacterCommand) Run(ctx *command.Context) error {
	if len(ctx.Args) == 0 {
		if !ctx.Convo.HasCharacter() {
			return ctx.Reply(relay.WarnSign + " Set a character first")
		}
		info, err := ctx.Deps.Client.GetInfo(context.Background(), ctx.Convo.CharacterID)
		if err != nil || info.IsEmpty() {
			return ctx.Reply("Active character: " + ctx.Convo.CharacterID)
		}
		return ctx.Reply(fmt.Sprintf("Active character: %s (%s)", info.Name, info.ID))
	}

	id := ctx.Args[0]
	info, err := ctx.Deps.Client.GetInfo(context.Background(), id)
	if err != nil {
		return err
	}
	if info.IsEmpty() {
		return ctx.Reply(relay.WarnSign + " No character found with id " + id)
	}

	historyID, err := ctx.Deps.Client.CreateNewChat(context.Background(), info.ID)
	if err != nil {
		return err
	}

	ctx.Convo.SetCharacter(info.ID, historyID)
	ctx.Deps.Sessions.Save(ctx.Convo)

	if ctx.Event.GuildID != "" {
		_ = ctx.Session.GuildMemberNickname(ctx.Event.GuildID, "@me", info.Name)
	}
	return ctx.Reply(fmt.Sprintf("✅ Selected %s: %s", info.Name, info.Title))
}

type ResetCommand struct{}

func (c *ResetCommand) Name() string        { return "reset" }
func (c *ResetCommand) Aliases() []string   { return nil }
func (c *ResetCommand) Description() string { return "Start a new conversation with the character" }

func (c *ResetCommand) Run(ctx *command.Context) error {
	if !ctx.Convo.HasCharacter() {
		return ctx.Reply(relay.WarnSign + " Set a character first")
	}

	historyID, err := ctx.Deps.Client.CreateNewChat(context.Background(), ctx.Convo.CharacterID)
	if err != nil {
		return err
	}

	ctx.Convo.SetCharacter(ctx.Convo.CharacterID, historyID)
	ctx.Deps.Sessions.Save(ctx.Convo)
	return ctx.Reply("✅ Started a new conversation")
}

func init() {
	command.Register(&CharacterCommand{}, command.WithCommandLog())
	command.Register(&ResetCommand{}, command.WithCommandLog())
}
