package model

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
)

// Presence is the cached status of a user in a guild, keyed by
// (GuildID, UserID). Presences churn constantly and every update carries the
// full presence, so they are always replaced, never merged. Activities and
// per-client status are not cached.
type Presence struct {
	GuildID snowflake.ID
	UserID  snowflake.ID
	Status  discord.OnlineStatus
}

// NewPresence builds a cached presence from the event payload.
func NewPresence(presence discord.Presence) Presence {
	return Presence{
		GuildID: presence.GuildID,
		UserID:  presence.PresenceUser.ID,
		Status:  presence.Status,
	}
}
