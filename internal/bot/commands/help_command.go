package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// HelpCommand lists every registered command
type HelpCommand struct {
	registry *Registry
}

// NewHelpCommand creates the help command for registry
func NewHelpCommand(registry *Registry) *HelpCommand {
	return &HelpCommand{registry: registry}
}

func (c *HelpCommand) Name() string { return "help" }

func (c *HelpCommand) Help() string { return "help" }

func (c *HelpCommand) Execute(_ context.Context, req Request) (*Reply, error) {
	var b strings.Builder
	for _, cmd := range c.registry.Commands() {
		fmt.Fprintf(&b, "`%s%s`\n", c.registry.Prefix(), cmd.Help())
	}
	return &Reply{Embed: &discordgo.MessageEmbed{
		Title:       "Commands",
		Description: b.String(),
		Color:       0x00FF00,
		Footer:      footer(req),
	}}, nil
}
