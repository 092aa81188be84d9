package convo

import (
	"context"
	"strings"

	"character-relay/internal/command"
	"character-relay/internal/relay"
)

type FindCommand struct{}

func (c *FindCommand) Name() string        { return "find" }
func (c *FindCommand) Aliases() []string   { return []string{"search"} }
func (c *FindCommand) Description() string { return "Search characters and browse the results" }

func (c *FindCommand) Run(ctx *command.Context) error {
	query := strings.TrimSpace(strings.Join(ctx.Args, " "))
	if query == "" {
		return ctx.Reply(relay.WarnSign + " Usage: find <query>")
	}

	chars, err := ctx.Deps.Client.SearchCharacters(context.Background(), query)
	if err != nil {
		return err
	}
	if len(chars) == 0 {
		return ctx.Reply("Nothing found for \"" + query + "\"")
	}

	items := make([]relay.Candidate, 0, len(chars))
	for _, ch := range chars {
		items = append(items, relay.Candidate{ID: ch.ID, Name: ch.Name})
	}
	return ctx.Deps.Search.Open(ctx, query, items)
}

func init() {
	command.Register(&FindCommand{}, command.WithCommandLog())
}
