package model

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
)

// Sticker is the cached form of a guild sticker. Like emojis, stickers only
// arrive in bulk, so the whole guild scope is replaced at once.
type Sticker struct {
	ID          snowflake.ID
	GuildID     snowflake.ID
	PackID      *snowflake.ID
	Name        string
	Description string
	Tags        string
	Kind        discord.StickerType
	FormatType  discord.StickerFormatType
	Available   bool
	SortValue   *int
}

// NewSticker builds a cached sticker from the event payload and its guild
// ID.
func NewSticker(sticker discord.Sticker, guildID snowflake.ID) Sticker {
	cached := Sticker{
		ID:          sticker.ID,
		GuildID:     guildID,
		PackID:      sticker.PackID,
		Name:        sticker.Name,
		Description: sticker.Description,
		Tags:        sticker.Tags,
		Kind:        sticker.Type,
		FormatType:  sticker.FormatType,
		SortValue:   sticker.SortValue,
	}
	if sticker.Available != nil {
		cached.Available = *sticker.Available
	}
	return cached
}
