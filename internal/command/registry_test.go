package command_test

import (
	"errors"
	"testing"

	"character-relay/internal/command"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoCommand struct {
	gotArgs []string
	err     error
}

func (c *echoCommand) Name() string        { return "echo" }
func (c *echoCommand) Aliases() []string   { return []string{"say"} }
func (c *echoCommand) Description() string { return "test command" }
func (c *echoCommand) Run(ctx *command.Context) error {
	c.gotArgs = ctx.Args
	return c.err
}

func TestDispatch(t *testing.T) {
	cmd := &echoCommand{}
	command.Register(cmd)

	matched, err := command.Dispatch(&command.Context{}, "echo one two")
	require.NoError(t, err)
	assert.True(t, matched)
	assert.Equal(t, []string{"one", "two"}, cmd.gotArgs)
}

func TestDispatchAliasAndCase(t *testing.T) {
	cmd := &echoCommand{}
	command.Register(cmd)

	matched, err := command.Dispatch(&command.Context{}, "SAY hi")
	require.NoError(t, err)
	assert.True(t, matched)
	assert.Equal(t, []string{"hi"}, cmd.gotArgs)
}

func TestDispatchUnknownFallsThrough(t *testing.T) {
	matched, err := command.Dispatch(&command.Context{}, "just chatting with the character")
	require.NoError(t, err)
	assert.False(t, matched, "unknown first token is conversation, not a failed command")
}

func TestDispatchEmptyText(t *testing.T) {
	matched, err := command.Dispatch(&command.Context{}, "   ")
	require.NoError(t, err)
	assert.False(t, matched)
}

func TestDispatchPropagatesCommandError(t *testing.T) {
	cmd := &echoCommand{err: errors.New("boom")}
	command.Register(cmd)

	matched, err := command.Dispatch(&command.Context{}, "echo")
	assert.True(t, matched)
	assert.EqualError(t, err, "boom")
}
