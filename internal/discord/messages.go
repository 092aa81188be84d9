package discord

import (
	"context"
	"log"
	"time"

	"character-relay/internal/character"
	"character-relay/internal/relay"

	"github.com/bwmarrin/discordgo"
)

const (
	emojiLeft  = "⬅️"
	emojiRight = "➡️"
	emojiStop  = "⏹️"
)

// alternateSource fetches extra replies for a finished turn by replaying the
// last user message with no new text.
type alternateSource struct {
	client *character.Client
}

func (a alternateSource) MoreReplies(historyID string, parentMsgID uint64) ([]relay.Reply, error) {
	resp, err := a.client.CallCharacter(context.Background(), "", "", historyID, parentMsgID)
	if err != nil {
		return nil, err
	}
	return resp.Replies, nil
}

// messageRenderer edits a sent message in place, swapping its text and
// attached image embed.
type messageRenderer struct {
	dg *discordgo.Session
}

func (r messageRenderer) Rewrite(channelID, messageID, text, imageURL string) error {
	embeds := []*discordgo.MessageEmbed{}
	if imageURL != "" {
		embeds = append(embeds, imageEmbed(imageURL))
	}
	_, err := r.dg.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel: channelID,
		ID:      messageID,
		Content: &text,
		Embeds:  &embeds,
	})
	return err
}

func imageEmbed(url string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Color: EmbedColor,
		Image: &discordgo.MessageEmbedImage{URL: url},
	}
}

// callCharacter relays one user turn to the character service and schedules
// the reply. Expects the session lock to be held.
func (b *Bot) callCharacter(s *discordgo.Session, m *discordgo.MessageCreate, sess *relay.Session, text string, inDMOrPrivate bool) {
	// drop the swipe controls off the previous reply before starting a new turn
	if !inDMOrPrivate && sess.LastCharacterCallMsgID != "" {
		if err := s.MessageReactionsRemoveAll(m.ChannelID, sess.LastCharacterCallMsgID); err != nil {
			log.Println("[WARN] Failed to clear reactions on previous reply:", err)
		}
	}

	quote := ""
	if m.ReferencedMessage != nil {
		quote = m.ReferencedMessage.Content
	}
	turn := relay.FormatTurn(sess.AudienceMode, b.format, displayName(m), quote, text)

	var parent uint64
	if sess.LastCall != nil {
		parent = sess.LastCall.CurrentPrimaryMsgID
	}

	resp, err := b.client.CallCharacter(context.Background(), turn, "", sess.HistoryID, parent)
	if err != nil {
		// reset the turn so the next message starts clean
		sess.LastCall = &relay.CallResult{}
		log.Println("[ERR] Character call failed:", err)
		_, _ = s.ChannelMessageSendReply(m.ChannelID, relay.WarnSign+" "+err.Error(), m.Reference())
		return
	}

	lc := &relay.CallResult{Replies: resp.Replies, LastUserMsgID: resp.LastUserMsgID}
	reply := lc.Replies[0]
	lc.CurrentPrimaryMsgID = reply.ID
	sess.LastCall = lc

	delay := time.Duration(sess.ReplyDelay) * time.Second
	channelID, ref := m.ChannelID, m.Reference()
	b.deferred.After("reply:"+channelID, delay, func() {
		msg, err := b.sendCharacterReply(s, channelID, ref, reply, inDMOrPrivate)
		if err != nil {
			log.Println("[ERR] Failed to send character reply:", err)
			return
		}
		sess.Lock()
		sess.LastCharacterCallMsgID = msg.ID
		sess.Unlock()
	})
}

// sendCharacterReply posts the chosen reply and attaches the swipe controls
// outside DMs and private channels.
func (b *Bot) sendCharacterReply(s *discordgo.Session, channelID string, ref *discordgo.MessageReference, reply relay.Reply, inDMOrPrivate bool) (*discordgo.Message, error) {
	send := &discordgo.MessageSend{
		Content:   reply.Text,
		Reference: ref,
	}
	if reply.HasImage && reply.ImagePath != "" && character.TryGetImage(context.Background(), reply.ImagePath) {
		send.Embeds = []*discordgo.MessageEmbed{imageEmbed(reply.ImagePath)}
	}

	msg, err := s.ChannelMessageSendComplex(channelID, send)
	if err != nil {
		return nil, err
	}

	if !inDMOrPrivate {
		for _, emoji := range []string{emojiLeft, emojiRight, emojiStop} {
			if err := s.MessageReactionAdd(channelID, msg.ID, emoji); err != nil {
				log.Println("[WARN] Failed to add swipe reaction:", err)
				break
			}
		}
	}
	return msg, nil
}

// displayName prefers the guild nick over the account username.
func displayName(m *discordgo.MessageCreate) string {
	if m.Member != nil && m.Member.Nick != "" {
		return m.Member.Nick
	}
	if m.Author.GlobalName != "" {
		return m.Author.GlobalName
	}
	return m.Author.Username
}
