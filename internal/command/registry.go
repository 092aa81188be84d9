package command

import "strings"

var registry = map[string]Command{}

// Register registers a command under its name and aliases, wrapped in the
// given middleware (applied innermost first).
func Register(cmd Command, mws ...Middleware) {
	for _, mw := range mws {
		cmd = mw(cmd)
	}
	registry[strings.ToLower(cmd.Name())] = cmd
	for _, a := range cmd.Aliases() {
		registry[strings.ToLower(a)] = cmd
	}
}

// Get returns the command registered under name.
func Get(name string) (Command, bool) {
	cmd, ok := registry[strings.ToLower(name)]
	return cmd, ok
}

// All returns every registered command once.
func All() []Command {
	seen := map[string]bool{}
	list := make([]Command, 0)
	for _, cmd := range registry {
		if seen[cmd.Name()] {
			continue
		}
		list = append(list, cmd)
		seen[cmd.Name()] = true
	}
	return list
}

// Dispatch parses text as a command invocation and runs the match. The first
// return reports whether the first token named a known command; when it is
// false the router falls through to the character call.
func Dispatch(ctx *Context, text string) (bool, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return false, nil
	}
	cmd, ok := Get(fields[0])
	if !ok {
		return false, nil
	}
	ctx.Args = fields[1:]
	return true, cmd.Run(ctx)
}
