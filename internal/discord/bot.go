// Package discord wires the relay engine to the Discord gateway: it owns the
// session, translates inbound events into engine calls, and renders the
// engine's decisions back as messages, edits and embeds.
package discord

import (
	"context"
	"fmt"
	"log"
	"sync"

	"character-relay/internal/character"
	"character-relay/internal/command"
	"character-relay/internal/config"
	"character-relay/internal/relay"
	"character-relay/internal/storage"
	"character-relay/pkg/deferred"

	"github.com/bwmarrin/discordgo"
)

const EmbedColor = 0x4e5d94

// Bot is the Discord side of the relay.
type Bot struct {
	dg      *discordgo.Session
	cfg     *config.Config
	storage *storage.Storage
	client  *character.Client

	sessions *relay.Store
	limiter  *relay.RateLimiter
	hunted   *relay.HuntedUsers
	swiper   *relay.Swiper
	deferred *deferred.Runner
	format   relay.FormatSpec

	// the single live search browser and the message hosting its buttons
	searchMu    sync.Mutex
	search      *relay.Browser
	searchQuery string
	searchMsgID string

	// nickname applied when joining a new guild
	nickMu   sync.Mutex
	nickname string
}

// NewBot assembles the relay around its collaborators and restores persisted
// state.
func NewBot(cfg *config.Config, store *storage.Storage, client *character.Client) (*Bot, error) {
	b := &Bot{
		cfg:      cfg,
		storage:  store,
		client:   client,
		sessions: relay.NewStore(cfg.DefaultReplyChance, store.SaveChannels),
		limiter:  relay.NewRateLimiter(cfg.RateLimit, store.SaveBlacklist),
		hunted:   relay.NewHuntedUsers(store.SaveHuntedUsers),
		deferred: deferred.NewRunner(nil),
		format: relay.FormatSpec{
			Template:    cfg.MessageFormat,
			NameFormat:  cfg.NameFormat,
			QuoteFormat: cfg.QuoteFormat,
		},
	}

	snaps, err := store.LoadChannels()
	if err != nil {
		return nil, fmt.Errorf("load channels: %w", err)
	}
	b.sessions.Restore(snaps)

	banned, err := store.LoadBlacklist()
	if err != nil {
		return nil, fmt.Errorf("load blacklist: %w", err)
	}
	b.limiter.Restore(banned)

	hunted, err := store.LoadHuntedUsers()
	if err != nil {
		return nil, fmt.Errorf("load hunted users: %w", err)
	}
	b.hunted.Restore(hunted)

	log.Printf("[INFO] Restored %d channel session(s), %d ban(s), %d hunted user(s)",
		b.sessions.Len(), len(banned), len(hunted))
	return b, nil
}

// Run connects to the gateway and blocks until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	dg, err := discordgo.New("Bot " + b.cfg.DiscordToken)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	b.dg = dg

	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsDirectMessageReactions |
		discordgo.IntentMessageContent

	b.swiper = &relay.Swiper{
		Source: alternateSource{client: b.client},
		Render: messageRenderer{dg: dg},
		Probe: func(url string) bool {
			return character.TryGetImage(context.Background(), url)
		},
	}

	dg.AddHandler(b.onReady)
	dg.AddHandler(b.onMessageCreate)
	dg.AddHandler(b.onMessageReactionAdd)
	dg.AddHandler(b.onMessageReactionRemove)
	dg.AddHandler(b.onInteractionCreate)
	dg.AddHandler(b.onGuildCreate)

	if err := dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer dg.Close()

	<-ctx.Done()
	log.Println("[INFO] ❎ Shutdown signal received. Cleaning up...")
	return nil
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	botInfo, err := s.User("@me")
	if err != nil {
		log.Println("[WARN] Error retrieving bot user:", err)
		return
	}
	log.Printf("[INFO] ✅ Character relay %v is running in %d guild(s).", botInfo.Username, len(r.Guilds))
}

// onGuildCreate renames the bot to the most recently selected character so a
// fresh guild sees the character's name right away.
func (b *Bot) onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	log.Printf("[INFO] Bot added to guild: %s (%s)", g.Guild.ID, g.Guild.Name)

	b.nickMu.Lock()
	nick := b.nickname
	b.nickMu.Unlock()
	if nick == "" {
		return
	}
	if err := s.GuildMemberNickname(g.Guild.ID, "@me", nick); err != nil {
		log.Printf("[WARN] Failed to set nickname in guild %s: %v", g.Guild.ID, err)
	}
}

// rememberNickname records the character name applied to newly joined guilds.
func (b *Bot) rememberNickname(name string) {
	b.nickMu.Lock()
	b.nickname = name
	b.nickMu.Unlock()
}

// commandDeps builds the collaborator bundle handed to dispatched commands.
func (b *Bot) commandDeps() *command.Deps {
	return &command.Deps{
		Sessions: b.sessions,
		Limiter:  b.limiter,
		Hunted:   b.hunted,
		Client:   b.client,
		Storage:  b.storage,
		Search:   searchUI{bot: b},
	}
}
