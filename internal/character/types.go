package character

import "character-relay/internal/relay"

// Character is the remote service's description of one AI character.
type Character struct {
	ID              string
	Name            string
	Title           string
	Description     string
	Greeting        string
	Author          string
	AvatarURLFull   string
	AvatarURLMini   string
	ImageGenEnabled bool
	Interactions    int
}

// IsEmpty reports whether the record resolved to nothing.
func (c *Character) IsEmpty() bool {
	return c == nil || c.ID == ""
}

// CallResponse is the parsed result of one character turn.
type CallResponse struct {
	Replies       []relay.Reply
	LastUserMsgID uint64
}

// ChatLink returns the character's page on the remote service, used in the
// selection confirmation.
func (c *Character) ChatLink() string {
	return "https://beta.character.ai/chat?char=" + c.ID
}
