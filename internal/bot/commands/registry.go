// Package commands implements the prefix commands of the Discord bot.
package commands

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// ErrUsage is returned by commands that were called with bad arguments
var ErrUsage = errors.New("usage")

// Request is one parsed invocation
type Request struct {
	Args       []string
	AuthorID   string
	AuthorName string
	ChannelID  string
	Latency    time.Duration
}

// Reply is what a command sends back. Embed wins over Content when both are set.
type Reply struct {
	Content string
	Embed   *discordgo.MessageEmbed
}

// Command represents a bot command
type Command interface {
	Name() string
	Help() string
	Execute(ctx context.Context, req Request) (*Reply, error)
}

// Sender delivers replies to a channel
type Sender interface {
	Send(channelID, content string) error
	SendEmbed(channelID string, embed *discordgo.MessageEmbed) error
}

// SessionSender sends through a discordgo session
type SessionSender struct {
	Session *discordgo.Session
}

func (s SessionSender) Send(channelID, content string) error {
	_, err := s.Session.ChannelMessageSend(channelID, content)
	return err
}

func (s SessionSender) SendEmbed(channelID string, embed *discordgo.MessageEmbed) error {
	_, err := s.Session.ChannelMessageSendEmbed(channelID, embed)
	return err
}

// Registry manages all bot commands
type Registry struct {
	prefix   string
	commands map[string]Command
	timeout  time.Duration
	log      *zap.Logger
}

// NewRegistry creates a new command registry
func NewRegistry(prefix string, log *zap.Logger) *Registry {
	return &Registry{
		prefix:   prefix,
		commands: make(map[string]Command),
		timeout:  10 * time.Second,
		log:      log.Named("commands"),
	}
}

// Register registers a command under its name
func (r *Registry) Register(cmd Command) {
	r.commands[strings.ToLower(cmd.Name())] = cmd
	r.log.Info("Registered command", zap.String("name", cmd.Name()))
}

// Commands returns the registered commands sorted by name
func (r *Registry) Commands() []Command {
	out := make([]Command, 0, len(r.commands))
	for _, c := range r.commands {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Prefix returns the command prefix
func (r *Registry) Prefix() string {
	return r.prefix
}

// Parse splits a message into a command name and its arguments.
// ok is false when the message is not addressed to the bot.
func (r *Registry) Parse(content string) (name string, args []string, ok bool) {
	if !strings.HasPrefix(content, r.prefix) {
		return "", nil, false
	}
	parts := strings.Fields(strings.TrimPrefix(content, r.prefix))
	if len(parts) == 0 {
		return "", nil, false
	}
	return strings.ToLower(parts[0]), parts[1:], true
}

// Dispatch runs the command named in content. A nil reply means the message
// was not a known command.
func (r *Registry) Dispatch(ctx context.Context, content string, req Request) (*Reply, error) {
	name, args, ok := r.Parse(content)
	if !ok {
		return nil, nil
	}
	cmd, ok := r.commands[name]
	if !ok {
		return nil, nil
	}

	req.Args = args
	r.log.Info("Executing command", zap.String("name", name), zap.String("user_id", req.AuthorID))

	reply, err := cmd.Execute(ctx, req)
	if errors.Is(err, ErrUsage) {
		return &Reply{Content: fmt.Sprintf("Usage: `%s%s`", r.prefix, cmd.Help())}, nil
	}
	return reply, err
}

// Handle processes a message and sends the command's reply
func (r *Registry) Handle(s Sender, m *discordgo.MessageCreate, latency time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	reply, err := r.Dispatch(ctx, m.Content, Request{
		AuthorID:   m.Author.ID,
		AuthorName: m.Author.Username,
		ChannelID:  m.ChannelID,
		Latency:    latency,
	})
	if err != nil {
		r.log.Error("Command failed", zap.String("content", m.Content), zap.Error(err))
		reply = &Reply{Content: "Something went wrong while handling that command."}
	}
	if reply == nil {
		return
	}

	if reply.Embed != nil {
		err = s.SendEmbed(m.ChannelID, reply.Embed)
	} else {
		err = s.Send(m.ChannelID, reply.Content)
	}
	if err != nil {
		r.log.Error("Failed to send reply", zap.String("channel_id", m.ChannelID), zap.Error(err))
	}
}

func footer(req Request) *discordgo.MessageEmbedFooter {
	return &discordgo.MessageEmbedFooter{Text: "Requested by " + req.AuthorName}
}
