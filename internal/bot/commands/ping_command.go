package commands

import (
	"context"
	"time"
)

// PingCommand answers with the gateway heartbeat latency
type PingCommand struct{}

// NewPingCommand creates the ping command
func NewPingCommand() *PingCommand {
	return &PingCommand{}
}

func (c *PingCommand) Name() string { return "ping" }

func (c *PingCommand) Help() string { return "ping" }

// Execute replies with pong
func (c *PingCommand) Execute(_ context.Context, req Request) (*Reply, error) {
	return &Reply{Content: "Pong! Latency: " + req.Latency.Round(time.Millisecond).String()}, nil
}
