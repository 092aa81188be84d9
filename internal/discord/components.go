package discord

import (
	"context"
	"fmt"
	"log"
	"strings"

	"character-relay/internal/character"
	"character-relay/internal/command"
	"character-relay/internal/relay"

	"github.com/bwmarrin/discordgo"
)

// searchUI renders a character search as a paginated button-driven browser.
// A new search replaces the previous one wholesale.
type searchUI struct {
	bot *Bot
}

func (u searchUI) Open(ctx *command.Context, query string, items []relay.Candidate) error {
	browser := relay.NewBrowser(items)

	send := &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{searchEmbed(query, browser)},
		Components: searchButtons(),
		Reference:  ctx.Event.Reference(),
	}
	msg, err := ctx.Session.ChannelMessageSendComplex(ctx.Event.ChannelID, send)
	if err != nil {
		return err
	}

	u.bot.searchMu.Lock()
	u.bot.search = browser
	u.bot.searchQuery = query
	u.bot.searchMsgID = msg.ID
	u.bot.searchMu.Unlock()
	return nil
}

func searchButtons() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{Label: "▲", Style: discordgo.SecondaryButton, CustomID: "search_up"},
			discordgo.Button{Label: "▼", Style: discordgo.SecondaryButton, CustomID: "search_down"},
			discordgo.Button{Label: "◀", Style: discordgo.SecondaryButton, CustomID: "search_left"},
			discordgo.Button{Label: "▶", Style: discordgo.SecondaryButton, CustomID: "search_right"},
			discordgo.Button{Label: "Select", Style: discordgo.SuccessButton, CustomID: "search_select"},
		}},
	}
}

func searchEmbed(query string, browser *relay.Browser) *discordgo.MessageEmbed {
	var sb strings.Builder
	row := browser.Row()
	for i, cand := range browser.PageItems() {
		if i+1 == row {
			fmt.Fprintf(&sb, "**%d. %s** ⬅\n", i+1, cand.Name)
		} else {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, cand.Name)
		}
	}
	return &discordgo.MessageEmbed{
		Title:       "Search: " + query,
		Description: sb.String(),
		Color:       EmbedColor,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Page %d/%d", browser.Page(), browser.Pages()),
		},
	}
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}
	id := i.MessageComponentData().CustomID
	if !strings.HasPrefix(id, "search_") {
		return
	}
	b.handleSearchNav(s, i, strings.TrimPrefix(id, "search_"))
}

func (b *Bot) handleSearchNav(s *discordgo.Session, i *discordgo.InteractionCreate, action string) {
	actor := interactionUser(i)
	if actor == nil || actor.Bot {
		return
	}

	b.searchMu.Lock()
	browser, query, msgID := b.search, b.searchQuery, b.searchMsgID
	b.searchMu.Unlock()

	// stale button sets from a replaced search are dead
	if browser == nil || i.Message == nil || i.Message.ID != msgID {
		ackComponent(s, i)
		return
	}
	if b.limiter.IsBanned(actor.ID) {
		ackComponent(s, i)
		return
	}
	// only the user who ran the search drives its browser
	ref := i.Message.MessageReference
	var origin *discordgo.Message
	if ref != nil {
		origin, _ = s.ChannelMessage(ref.ChannelID, ref.MessageID)
	}
	if !canDriveSearch(ref, origin, actor.ID) {
		ackComponent(s, i)
		return
	}

	if action == "select" {
		b.selectCharacter(s, i, browser, actor)
		return
	}

	switch browser.Navigate(action) {
	case relay.NavRerender:
		err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseUpdateMessage,
			Data: &discordgo.InteractionResponseData{
				Embeds:     []*discordgo.MessageEmbed{searchEmbed(query, browser)},
				Components: searchButtons(),
			},
		})
		if err != nil {
			log.Println("[WARN] Failed to re-render search browser:", err)
		}
	default:
		ackComponent(s, i)
	}
}

// selectCharacter resolves the highlighted candidate, binds it to the channel
// session and replaces the browser message with a confirmation card. An
// unresolvable candidate leaves the browser alive.
func (b *Bot) selectCharacter(s *discordgo.Session, i *discordgo.InteractionCreate, browser *relay.Browser, actor *discordgo.User) {
	cand, ok := browser.Highlighted()
	if !ok {
		ackComponent(s, i)
		return
	}

	info, err := b.client.GetInfo(context.Background(), cand.ID)
	if err != nil || info.IsEmpty() {
		if err != nil {
			log.Println("[WARN] Character lookup failed:", err)
		}
		ackComponent(s, i)
		return
	}

	historyID, err := b.client.CreateNewChat(context.Background(), info.ID)
	if err != nil {
		log.Println("[ERR] Failed to create chat history:", err)
		ackComponent(s, i)
		return
	}

	sess, _ := b.sessions.GetOrCreate(i.ChannelID, actor.ID)
	sess.Lock()
	sess.SetCharacter(info.ID, historyID)
	b.sessions.Save(sess)
	sess.Unlock()

	b.rememberNickname(info.Name)
	if i.GuildID != "" {
		if err := s.GuildMemberNickname(i.GuildID, "@me", info.Name); err != nil {
			log.Println("[WARN] Failed to set nickname:", err)
		}
	}

	browser.Terminate()
	log.Printf("[INFO] Character %s (%s) selected in %s", info.Name, info.ID, i.ChannelID)

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{characterCard(info)},
			Components: []discordgo.MessageComponent{},
		},
	})
	if err != nil {
		log.Println("[WARN] Failed to render selection confirmation:", err)
	}
}

// characterCard is the selection confirmation embed.
func characterCard(info *character.Character) *discordgo.MessageEmbed {
	desc := info.Description
	if desc == "" {
		desc = info.Title
	}
	embed := &discordgo.MessageEmbed{
		Title:       "✅ " + info.Name,
		URL:         info.ChatLink(),
		Description: desc,
		Color:       EmbedColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Interactions", Value: fmt.Sprint(info.Interactions), Inline: true},
		},
	}
	if info.ImageGenEnabled {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Image generation", Value: "enabled", Inline: true,
		})
	}
	if info.Author != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: "by " + info.Author}
	}
	if url := avatarURL(info, func(u string) bool {
		return character.TryGetImage(context.Background(), u)
	}); url != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: url}
	}
	return embed
}

// avatarURL picks the first reachable avatar rendition: full size, then the
// mini fallback, then none.
func avatarURL(info *character.Character, probe func(string) bool) string {
	for _, u := range []string{info.AvatarURLFull, info.AvatarURLMini} {
		if u != "" && probe(u) {
			return u
		}
	}
	return ""
}

// canDriveSearch reports whether actor authored the message the browser
// replies to. A browser whose origin cannot be resolved accepts no one.
func canDriveSearch(ref *discordgo.MessageReference, origin *discordgo.Message, actorID string) bool {
	if ref == nil || origin == nil || origin.Author == nil {
		return false
	}
	return origin.Author.ID == actorID
}

func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil {
		return i.Member.User
	}
	return i.User
}

func ackComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	_ = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
}
