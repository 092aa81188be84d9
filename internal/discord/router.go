package discord

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"character-relay/internal/command"
	"character-relay/internal/relay"

	"github.com/bwmarrin/discordgo"
)

// gateVerdict is the outcome of the pre-dispatch gate chain.
type gateVerdict int

const (
	gateDrop gateVerdict = iota
	gateWarn // proceed, but send the rate-limit warning first
	gatePass
)

// routeGate runs the ordered pre-dispatch gates for one inbound message:
// reply decision, DM-disabled drop, rate limiting. A message dropped by the
// DM gate never reaches the limiter, so it neither counts nor warns.
func routeGate(in relay.DecisionInput, isDM, dmEnabled, isGuildOwner bool,
	limiter *relay.RateLimiter, senderID string, minuteKey int) (gateVerdict, relay.Reason) {

	shouldReply, reason := relay.ShouldReply(in, nil)
	if !shouldReply {
		return gateDrop, reason
	}
	if isDM && !dmEnabled {
		return gateDrop, reason
	}
	switch limiter.Check(senderID, isGuildOwner, minuteKey) {
	case relay.Ban:
		return gateDrop, reason
	case relay.Warn:
		return gateWarn, reason
	}
	return gatePass, reason
}

// sessionAction is what a qualifying non-command message does with its
// channel session.
type sessionAction int

const (
	actionCall sessionAction = iota
	actionWarnNoCharacter
	actionConsumeSkip
	actionDropBotEcho
)

// sessionGate orders the session-level checks and consumes skip state as a
// side effect. The caller must hold the session lock and save the session
// after actionConsumeSkip.
func sessionGate(sess *relay.Session, authorIsBot bool) sessionAction {
	if !sess.HasCharacter() {
		return actionWarnNoCharacter
	}
	// one-shot suppression of the next bot-authored trigger
	if authorIsBot && sess.SkipNextBotMessage {
		sess.SkipNextBotMessage = false
		return actionDropBotEcho
	}
	if sess.SkipMessages > 0 {
		sess.SkipMessages--
		return actionConsumeSkip
	}
	return actionCall
}

// onMessageCreate is the main routing pipeline: decide whether to reply,
// rate-limit the sender, resolve the channel session, try the command side
// channel, then fall through to a character call. The session lock is held
// from resolution to the end of the handler.
func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.ID == s.State.User.ID {
		return
	}

	isDM := m.GuildID == ""
	isPrivate := strings.HasPrefix(b.channelName(s, m.ChannelID), "private")

	text, hasMention := stripMention(strings.TrimSpace(m.Content), s.State.User.ID)
	text, hasPrefix := stripPrefixes(text, b.cfg.BotPrefixes)
	isReplyToBot := m.ReferencedMessage != nil && m.ReferencedMessage.Author != nil &&
		m.ReferencedMessage.Author.ID == s.State.User.ID

	sess, exists := b.sessions.Get(m.ChannelID)

	in := relay.DecisionInput{
		IsDM:         isDM,
		HasMention:   hasMention,
		HasPrefix:    hasPrefix,
		IsReplyToBot: isReplyToBot,
	}
	if exists {
		in.ReplyChance = sess.ReplyChanceSnapshot()
	}
	if chance, ok := b.hunted.Chance(m.Author.ID); ok {
		in.IsHunted = true
		in.HuntedChance = chance
	}

	verdict, reason := routeGate(in, isDM, b.cfg.DMEnabled, b.isGuildOwner(s, m),
		b.limiter, m.Author.ID, relay.MinuteKey(m.Timestamp))
	if verdict == gateDrop {
		return
	}
	if verdict == gateWarn {
		warn := fmt.Sprintf("%s Warning! If you proceed to call %s so fast, you'll be blocked from using it.",
			relay.WarnSign, s.State.User.Mention())
		if _, err := s.ChannelMessageSendReply(m.ChannelID, warn, m.Reference()); err != nil {
			log.Println("[WARN] Failed to send rate-limit warning:", err)
		}
	}

	if !exists {
		if isPrivate {
			return // deactivated "private" chats never spawn sessions
		}
		sess, _ = b.sessions.GetOrCreate(m.ChannelID, m.Author.ID)
	}

	sess.Lock()
	defer sess.Unlock()
	if !exists {
		b.sessions.Save(sess)
	}

	log.Printf("[INFO] Handling message from %s in %s (reason: %s)", m.Author.Username, m.ChannelID, reason)

	ctx := &command.Context{
		Session: s,
		Event:   m,
		IsDM:    isDM,
		Convo:   sess,
		Deps:    b.commandDeps(),
	}
	matched, err := command.Dispatch(ctx, text)
	if matched {
		if err != nil && !errors.Is(err, relay.ErrDenied) {
			failText := fmt.Sprintf("%s Failed to execute command: %v", relay.WarnSign, err)
			if isDM {
				failText = "*Note: some commands are not intended to be called from DMs*\n" + failText
			}
			if _, err := s.ChannelMessageSendReply(m.ChannelID, failText, m.Reference()); err != nil {
				log.Println("[ERR] Failed to report command error:", err)
			}
		}
		return
	}

	switch sessionGate(sess, m.Author.Bot) {
	case actionWarnNoCharacter:
		_, _ = s.ChannelMessageSendReply(m.ChannelID, relay.WarnSign+" Set a character first", m.Reference())
		return
	case actionDropBotEcho:
		return
	case actionConsumeSkip:
		b.sessions.Save(sess)
		return
	}

	_ = s.ChannelTyping(m.ChannelID)
	b.callCharacter(s, m, sess, text, isDM || isPrivate)
}

// isGuildOwner reports whether the message author owns the guild it was sent
// in. DMs have no owner.
func (b *Bot) isGuildOwner(s *discordgo.Session, m *discordgo.MessageCreate) bool {
	if m.GuildID == "" {
		return false
	}
	guild, err := s.State.Guild(m.GuildID)
	if err != nil {
		return false
	}
	return guild.OwnerID == m.Author.ID
}

// channelName resolves a channel's name, preferring gateway state over a
// REST fetch.
func (b *Bot) channelName(s *discordgo.Session, channelID string) string {
	channel, err := s.State.Channel(channelID)
	if err != nil {
		channel, err = s.Channel(channelID)
		if err != nil {
			return ""
		}
	}
	return channel.Name
}

// stripMention removes a leading bot mention from content.
func stripMention(content, botID string) (string, bool) {
	for _, tok := range []string{"<@" + botID + ">", "<@!" + botID + ">"} {
		if strings.HasPrefix(content, tok) {
			return strings.TrimSpace(strings.TrimPrefix(content, tok)), true
		}
	}
	return content, false
}

// stripPrefixes removes the first matching configured prefix from content.
func stripPrefixes(content string, prefixes []string) (string, bool) {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(content, p) {
			return strings.TrimSpace(strings.TrimPrefix(content, p)), true
		}
	}
	return content, false
}
