// Package bot runs the Discord front end of the planner.
package bot

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/bradykim7/nutriplan/internal/bot/commands"
	"github.com/bradykim7/nutriplan/pkg/config"
)

// Bot is a Discord session with the planner commands attached
type Bot struct {
	session  *discordgo.Session
	config   *config.Config
	log      *zap.Logger
	commands *commands.Registry
}

// New creates a bot. The session is not opened until Start.
func New(cfg *config.Config, planner commands.Planner, log *zap.Logger) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	bot := &Bot{
		session:  session,
		config:   cfg,
		log:      log.Named("bot"),
		commands: NewRegistry(cfg.CommandPrefix, planner, log),
	}

	session.AddHandler(bot.onReady)
	session.AddHandler(bot.onMessageCreate)

	session.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	return bot, nil
}

// NewRegistry registers every planner command under prefix
func NewRegistry(prefix string, planner commands.Planner, log *zap.Logger) *commands.Registry {
	r := commands.NewRegistry(prefix, log)
	r.Register(commands.NewPingCommand())
	r.Register(commands.NewGoalsCommand(planner))
	r.Register(commands.NewPlanCommand(planner))
	r.Register(commands.NewRecipeCommand(planner))
	r.Register(commands.NewHelpCommand(r))
	return r
}

// Start opens the session and blocks until ctx is cancelled
func (b *Bot) Start(ctx context.Context) error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}

	b.log.Info("Bot is running", zap.String("prefix", b.config.CommandPrefix))

	<-ctx.Done()

	return b.Close()
}

// Close closes the Discord session
func (b *Bot) Close() error {
	if err := b.session.Close(); err != nil {
		return fmt.Errorf("failed to close Discord session: %w", err)
	}
	return nil
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.log.Info("Logged in",
		zap.String("username", r.User.Username),
		zap.String("discriminator", r.User.Discriminator))

	if err := s.UpdateGameStatus(0, b.config.CommandPrefix+"help"); err != nil {
		b.log.Error("Failed to set status", zap.Error(err))
	}
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || (s.State.User != nil && m.Author.ID == s.State.User.ID) {
		return
	}

	b.log.Debug("Message received",
		zap.String("guild_id", m.GuildID),
		zap.String("channel_id", m.ChannelID),
		zap.String("user_id", m.Author.ID))

	b.commands.Handle(commands.SessionSender{Session: s}, m, s.HeartbeatLatency())
}
