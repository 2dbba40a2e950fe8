// Package model defines the flat records the cache stores. No record embeds
// another record or a list of records; one-to-many relations are separate
// rows carrying the parent's ID, so any flat or columnar backend can hold
// them.
package model

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
)

// Guild is the cached form of a guild. Channels, roles, members, emojis,
// stickers and presences are cached as their own rows keyed by GuildID.
// Member counts and approximate counts are not kept, updating them on every
// event would add overhead for little value.
type Guild struct {
	ID                          snowflake.ID
	Name                        string
	Icon                        *string
	Splash                      *string
	Banner                      *string
	Description                 *string
	OwnerID                     snowflake.ID
	AfkChannelID                *snowflake.ID
	AfkTimeout                  int
	WidgetEnabled               bool
	WidgetChannelID             snowflake.ID
	VerificationLevel           discord.VerificationLevel
	DefaultMessageNotifications discord.MessageNotificationsLevel
	ExplicitContentFilter       discord.ExplicitContentFilterLevel
	Features                    []discord.GuildFeature
	MFALevel                    discord.MFALevel
	ApplicationID               *snowflake.ID
	SystemChannelID             *snowflake.ID
	SystemChannelFlags          discord.SystemChannelFlags
	RulesChannelID              *snowflake.ID
	MaxMembers                  int
	VanityURLCode               *string
	PremiumTier                 discord.PremiumTier
	PremiumSubscriptionCount    int
	PreferredLocale             string
	PublicUpdatesChannelID      *snowflake.ID
	NSFWLevel                   discord.NSFWLevel
	PremiumProgressBarEnabled   bool
}

// NewGuild builds a cached guild from the event payload.
func NewGuild(guild discord.Guild) Guild {
	return Guild{
		ID:                          guild.ID,
		Name:                        guild.Name,
		Icon:                        guild.Icon,
		Splash:                      guild.Splash,
		Banner:                      guild.Banner,
		Description:                 guild.Description,
		OwnerID:                     guild.OwnerID,
		AfkChannelID:                guild.AfkChannelID,
		AfkTimeout:                  int(guild.AfkTimeout),
		WidgetEnabled:               guild.WidgetEnabled,
		WidgetChannelID:             guild.WidgetChannelID,
		VerificationLevel:           guild.VerificationLevel,
		DefaultMessageNotifications: guild.DefaultMessageNotifications,
		ExplicitContentFilter:       guild.ExplicitContentFilter,
		Features:                    guild.Features,
		MFALevel:                    guild.MFALevel,
		ApplicationID:               guild.ApplicationID,
		SystemChannelID:             guild.SystemChannelID,
		SystemChannelFlags:          guild.SystemChannelFlags,
		RulesChannelID:              guild.RulesChannelID,
		MaxMembers:                  int(guild.MaxMembers),
		VanityURLCode:               guild.VanityURLCode,
		PremiumTier:                 guild.PremiumTier,
		PremiumSubscriptionCount:    int(guild.PremiumSubscriptionCount),
		PreferredLocale:             guild.PreferredLocale,
		PublicUpdatesChannelID:      guild.PublicUpdatesChannelID,
		NSFWLevel:                   guild.NSFWLevel,
		PremiumProgressBarEnabled:   guild.PremiumProgressBarEnabled,
	}
}

// Update replaces the cached guild. Guild updates deliver the full guild
// object and every cached field comes from it, so nothing needs to survive
// from the stored copy.
func (g *Guild) Update(guild discord.Guild) {
	*g = NewGuild(guild)
}
