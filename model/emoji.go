package model

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
)

// Emoji is the cached form of a guild emoji. Emojis only arrive in bulk
// (guild create and emojis update), so the whole guild scope is replaced at
// once, never merged.
type Emoji struct {
	ID        snowflake.ID
	GuildID   snowflake.ID
	Name      string
	Animated  bool
	Managed   bool
	Available bool
}

// NewEmoji builds a cached emoji from the event payload and its guild ID.
func NewEmoji(emoji discord.Emoji, guildID snowflake.ID) Emoji {
	return Emoji{
		ID:        emoji.ID,
		GuildID:   guildID,
		Name:      emoji.Name,
		Animated:  emoji.Animated,
		Managed:   emoji.Managed,
		Available: emoji.Available,
	}
}
