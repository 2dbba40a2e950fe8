package model

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
)

// Channel is the cached form of a guild channel. Channel updates always
// carry the full channel, so channels are replaced, never merged.
type Channel struct {
	ID       snowflake.ID
	GuildID  snowflake.ID
	Kind     discord.ChannelType
	Name     string
	ParentID *snowflake.ID
	Position int
}

// NewChannel builds a cached channel from any guild channel payload.
func NewChannel(channel discord.GuildChannel) Channel {
	return Channel{
		ID:       channel.ID(),
		GuildID:  channel.GuildID(),
		Kind:     channel.Type(),
		Name:     channel.Name(),
		ParentID: channel.ParentID(),
		Position: channel.Position(),
	}
}
