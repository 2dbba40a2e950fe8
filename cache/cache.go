// Package cache turns Discord gateway events into flat mutations against a
// pluggable storage backend and hands back the state each record had before
// the event touched it.
//
//	c := cache.New(memory.New())
//	changes, err := c.Update(ctx, event)
//
// The cache is stateless, all state lives in the backend; one Cache per
// backend, shared freely across goroutines. Per-key consistency under
// concurrent events is the backend's contract, see backend.Backend.
package cache

import (
	"context"
	"log/slog"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/snowflake/v2"

	"github.com/laralove143/sparkle-cache/backend"
	"github.com/laralove143/sparkle-cache/logger/dlog"
	"github.com/laralove143/sparkle-cache/model"
)

// Cache is the entry point: it normalizes events and applies the resulting
// mutations to its backend in order.
type Cache struct {
	backend backend.Backend
	log     *slog.Logger
}

// Option configures a Cache.
type Option func(*Cache)

// WithLogger replaces the default dlog logger.
func WithLogger(log *slog.Logger) Option {
	return func(c *Cache) {
		c.log = log
	}
}

// New returns a cache writing through the given backend.
func New(b backend.Backend, opts ...Option) *Cache {
	c := &Cache{
		backend: b,
		log:     dlog.Log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Backend returns the backend the cache writes through, for reads beyond
// the getters below.
func (c *Cache) Backend() backend.Backend {
	return c.backend
}

// Update applies any gateway event to the cache and returns the previous
// state of every record the event touched. Call it for every event to keep
// the cache valid; events the cache has no model for are skipped without an
// error.
//
// On a backend failure the error is returned together with the previous
// states collected so far: those mutations are applied and not rolled back,
// the remaining ones were never issued. There is no cross-record
// transaction; resynchronize if that matters to you.
func (c *Cache) Update(ctx context.Context, event gateway.EventData) (*Changes, error) {
	return c.run(ctx, Normalize(event))
}

func (c *Cache) run(ctx context.Context, mutations []Mutation) (*Changes, error) {
	changes := &Changes{}
	for _, mutation := range mutations {
		c.log.Debug("applying mutation", "op", mutation.Op(), "kind", mutation.Kind())
		if err := mutation.apply(ctx, c.backend, changes); err != nil {
			c.log.Error("backend call failed", "op", mutation.Op(), "kind", mutation.Kind(), "err", err)
			return changes, err
		}
	}
	return changes, nil
}

// HandleReady caches the current user from the ready event.
func (c *Cache) HandleReady(ctx context.Context, ready gateway.EventReady) (*Changes, error) {
	return c.run(ctx, normalizeCurrentUser(ready.User))
}

// HandleUserUpdate caches the new current user.
func (c *Cache) HandleUserUpdate(ctx context.Context, user discord.OAuth2User) (*Changes, error) {
	return c.run(ctx, normalizeCurrentUser(user))
}

// HandleGuildCreate caches the guild snapshot: the guild first, then its
// roles, channels, emojis, stickers, members and presences.
func (c *Cache) HandleGuildCreate(ctx context.Context, guild discord.GatewayGuild) (*Changes, error) {
	return c.run(ctx, normalizeGuildCreate(guild))
}

// HandleGuildUpdate merges the guild update into the cached guild.
func (c *Cache) HandleGuildUpdate(ctx context.Context, guild discord.Guild) (*Changes, error) {
	return c.run(ctx, []Mutation{mergeGuild{guild}})
}

// HandleGuildDelete removes the guild and everything keyed by it, children
// first.
func (c *Cache) HandleGuildDelete(ctx context.Context, guildID snowflake.ID) (*Changes, error) {
	return c.run(ctx, normalizeGuildDelete(guildID))
}

// HandleChannelCreate caches the channel.
func (c *Cache) HandleChannelCreate(ctx context.Context, channel discord.GuildChannel) (*Changes, error) {
	return c.run(ctx, normalizeChannel(channel))
}

// HandleChannelUpdate replaces the cached channel.
func (c *Cache) HandleChannelUpdate(ctx context.Context, channel discord.GuildChannel) (*Changes, error) {
	return c.run(ctx, normalizeChannel(channel))
}

// HandleChannelDelete removes the channel and its messages.
func (c *Cache) HandleChannelDelete(ctx context.Context, channelID snowflake.ID) (*Changes, error) {
	return c.run(ctx, normalizeChannelDelete(channelID))
}

// HandleRoleCreate caches the role.
func (c *Cache) HandleRoleCreate(ctx context.Context, guildID snowflake.ID, role discord.Role) (*Changes, error) {
	return c.run(ctx, []Mutation{upsertRole{guildID, role}})
}

// HandleRoleUpdate replaces the cached role.
func (c *Cache) HandleRoleUpdate(ctx context.Context, guildID snowflake.ID, role discord.Role) (*Changes, error) {
	return c.run(ctx, []Mutation{upsertRole{guildID, role}})
}

// HandleRoleDelete removes the role and every member role row pointing at
// it.
func (c *Cache) HandleRoleDelete(ctx context.Context, guildID snowflake.ID, roleID snowflake.ID) (*Changes, error) {
	return c.run(ctx, normalizeRoleDelete(guildID, roleID))
}

// HandleMemberAdd caches the member, its user and its role rows.
func (c *Cache) HandleMemberAdd(ctx context.Context, member discord.Member) (*Changes, error) {
	return c.run(ctx, normalizeMember(member, false))
}

// HandleMemberUpdate merges the member update into the cached member and
// replaces its role rows.
func (c *Cache) HandleMemberUpdate(ctx context.Context, member discord.Member) (*Changes, error) {
	return c.run(ctx, normalizeMember(member, true))
}

// HandleMemberRemove removes the member and its role rows. The user row
// stays, users are shared.
func (c *Cache) HandleMemberRemove(ctx context.Context, guildID snowflake.ID, userID snowflake.ID) (*Changes, error) {
	return c.run(ctx, normalizeMemberRemove(guildID, userID))
}

// HandleEmojisUpdate replaces the guild's emojis wholesale.
func (c *Cache) HandleEmojisUpdate(ctx context.Context, guildID snowflake.ID, emojis []discord.Emoji) (*Changes, error) {
	return c.run(ctx, normalizeEmojisUpdate(guildID, emojis))
}

// HandleStickersUpdate replaces the guild's stickers wholesale.
func (c *Cache) HandleStickersUpdate(ctx context.Context, guildID snowflake.ID, stickers []discord.Sticker) (*Changes, error) {
	return c.run(ctx, normalizeStickersUpdate(guildID, stickers))
}

// HandleMessageCreate caches the message, its author and its child rows.
func (c *Cache) HandleMessageCreate(ctx context.Context, message discord.Message) (*Changes, error) {
	return c.run(ctx, normalizeMessageCreate(message))
}

// HandleMessageUpdate merges the partial message update; attachment and
// embed rows are replaced when the payload carries them.
func (c *Cache) HandleMessageUpdate(ctx context.Context, message discord.Message) (*Changes, error) {
	return c.run(ctx, normalizeMessageUpdate(message))
}

// HandleMessageDelete removes the message and its child rows, children
// first.
func (c *Cache) HandleMessageDelete(ctx context.Context, messageID snowflake.ID) (*Changes, error) {
	return c.run(ctx, normalizeMessageDelete(messageID))
}

// HandleMessageDeleteBulk removes every given message like
// HandleMessageDelete.
func (c *Cache) HandleMessageDeleteBulk(ctx context.Context, messageIDs []snowflake.ID) (*Changes, error) {
	var mutations []Mutation
	for _, messageID := range messageIDs {
		mutations = append(mutations, normalizeMessageDelete(messageID)...)
	}
	return c.run(ctx, mutations)
}

// HandlePresenceUpdate replaces the cached presence; presences are never
// merged.
func (c *Cache) HandlePresenceUpdate(ctx context.Context, presence discord.Presence) (*Changes, error) {
	return c.run(ctx, []Mutation{upsertPresence{presence}})
}

// Getters, delegating straight to the backend.

// CurrentUser returns the bot's cached user, or nil before the ready event
// was seen.
func (c *Cache) CurrentUser(ctx context.Context) (*model.User, error) {
	return c.backend.CurrentUser(ctx)
}

// Guild returns the cached guild, or nil when unknown.
func (c *Cache) Guild(ctx context.Context, guildID snowflake.ID) (*model.Guild, error) {
	return c.backend.Guild(ctx, guildID)
}

// Channel returns the cached channel, or nil when unknown.
func (c *Cache) Channel(ctx context.Context, channelID snowflake.ID) (*model.Channel, error) {
	return c.backend.Channel(ctx, channelID)
}

// Role returns the cached role, or nil when unknown.
func (c *Cache) Role(ctx context.Context, roleID snowflake.ID) (*model.Role, error) {
	return c.backend.Role(ctx, roleID)
}

// User returns the cached user, or nil when unknown.
func (c *Cache) User(ctx context.Context, userID snowflake.ID) (*model.User, error) {
	return c.backend.User(ctx, userID)
}

// Member returns the cached member, or nil when unknown.
func (c *Cache) Member(ctx context.Context, guildID snowflake.ID, userID snowflake.ID) (*model.Member, error) {
	return c.backend.Member(ctx, guildID, userID)
}

// MemberRoles returns the member's cached role rows.
func (c *Cache) MemberRoles(ctx context.Context, guildID snowflake.ID, userID snowflake.ID) ([]model.MemberRole, error) {
	return c.backend.MemberRoles(ctx, guildID, userID)
}

// Message returns the cached message, or nil when unknown.
func (c *Cache) Message(ctx context.Context, messageID snowflake.ID) (*model.Message, error) {
	return c.backend.Message(ctx, messageID)
}

// Attachments returns the message's cached attachment rows.
func (c *Cache) Attachments(ctx context.Context, messageID snowflake.ID) ([]model.Attachment, error) {
	return c.backend.Attachments(ctx, messageID)
}

// Embeds returns the message's cached embed rows.
func (c *Cache) Embeds(ctx context.Context, messageID snowflake.ID) ([]model.Embed, error) {
	return c.backend.Embeds(ctx, messageID)
}

// EmbedFields returns the embed's cached field rows.
func (c *Cache) EmbedFields(ctx context.Context, embedID string) ([]model.EmbedField, error) {
	return c.backend.EmbedFields(ctx, embedID)
}

// Reactions returns the message's cached reaction rows.
func (c *Cache) Reactions(ctx context.Context, messageID snowflake.ID) ([]model.Reaction, error) {
	return c.backend.Reactions(ctx, messageID)
}

// MessageStickers returns the message's cached sticker rows.
func (c *Cache) MessageStickers(ctx context.Context, messageID snowflake.ID) ([]model.MessageSticker, error) {
	return c.backend.MessageStickers(ctx, messageID)
}

// Emoji returns the cached emoji, or nil when unknown.
func (c *Cache) Emoji(ctx context.Context, emojiID snowflake.ID) (*model.Emoji, error) {
	return c.backend.Emoji(ctx, emojiID)
}

// Sticker returns the cached sticker, or nil when unknown.
func (c *Cache) Sticker(ctx context.Context, stickerID snowflake.ID) (*model.Sticker, error) {
	return c.backend.Sticker(ctx, stickerID)
}

// Presence returns the cached presence, or nil when unknown.
func (c *Cache) Presence(ctx context.Context, guildID snowflake.ID, userID snowflake.ID) (*model.Presence, error) {
	return c.backend.Presence(ctx, guildID, userID)
}
