package model

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
)

// Role is the cached form of a guild role. Role updates always carry the
// full role, so roles are replaced, never merged.
type Role struct {
	ID           snowflake.ID
	GuildID      snowflake.ID
	Name         string
	Color        int
	Hoist        bool
	Position     int
	Permissions  discord.Permissions
	Managed      bool
	Mentionable  bool
	Icon         *string
	UnicodeEmoji *string
}

// NewRole builds a cached role from the event payload and its guild ID.
func NewRole(role discord.Role, guildID snowflake.ID) Role {
	return Role{
		ID:           role.ID,
		GuildID:      guildID,
		Name:         role.Name,
		Color:        int(role.Color),
		Hoist:        role.Hoist,
		Position:     int(role.Position),
		Permissions:  role.Permissions,
		Managed:      role.Managed,
		Mentionable:  role.Mentionable,
		Icon:         role.Icon,
		UnicodeEmoji: role.Emoji,
	}
}
