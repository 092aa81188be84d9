package discord

import (
	"log"

	"github.com/bwmarrin/discordgo"
)

func (b *Bot) onMessageReactionAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	b.handleReaction(s, r.MessageReaction, reactor(s, r.Member, r.MessageReaction))
}

func (b *Bot) onMessageReactionRemove(s *discordgo.Session, r *discordgo.MessageReactionRemove) {
	b.handleReaction(s, r.MessageReaction, reactor(s, nil, r.MessageReaction))
}

// reactor resolves the reacting user: the event's member payload when
// present, then gateway state, then a REST fetch. Returns nil when the user
// cannot be resolved.
func reactor(s *discordgo.Session, member *discordgo.Member, r *discordgo.MessageReaction) *discordgo.User {
	if member != nil && member.User != nil {
		return member.User
	}
	if r.GuildID != "" {
		if m, err := s.State.Member(r.GuildID, r.UserID); err == nil && m.User != nil {
			return m.User
		}
	}
	u, err := s.User(r.UserID)
	if err != nil {
		log.Println("[WARN] Failed to resolve reacting user:", err)
		return nil
	}
	return u
}

// handleReaction drives swipe navigation. Add and remove both count, so a
// user can tap the same arrow repeatedly without clearing it first.
func (b *Bot) handleReaction(s *discordgo.Session, r *discordgo.MessageReaction, user *discordgo.User) {
	if r.UserID == s.State.User.ID {
		return
	}
	// reactions from other bots never drive the relay
	if user == nil || user.Bot {
		return
	}

	emoji := r.Emoji.Name
	if emoji != emojiLeft && emoji != emojiRight && emoji != emojiStop {
		return
	}

	sess, ok := b.sessions.Get(r.ChannelID)
	if !ok {
		return
	}

	sess.Lock()
	defer sess.Unlock()

	// stop takes effect immediately, even when the reacted message is stale
	if emoji == emojiStop {
		sess.SkipNextBotMessage = true
		return
	}

	msg, err := s.ChannelMessage(r.ChannelID, r.MessageID)
	if err != nil {
		log.Println("[WARN] Failed to fetch reacted message:", err)
		return
	}
	// only the user the reply addresses may swipe, and only the latest reply
	if msg.ReferencedMessage == nil || msg.ReferencedMessage.Author == nil ||
		msg.ReferencedMessage.Author.ID != r.UserID {
		return
	}
	if !sess.Swipable(r.MessageID) {
		return
	}

	switch emoji {
	case emojiLeft:
		err = b.swiper.Left(sess, r.ChannelID, r.MessageID)
	case emojiRight:
		err = b.swiper.Right(sess, r.ChannelID, r.MessageID)
	}
	if err != nil {
		log.Println("[ERR] Swipe failed:", err)
	}
}
