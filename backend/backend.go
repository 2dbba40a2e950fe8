// Package backend defines the storage contract the cache writes through.
// Implementations live in the sub-packages; anything that can get, upsert
// and delete flat records by key can back the cache.
package backend

import (
	"context"

	"github.com/disgoorg/snowflake/v2"

	"github.com/laralove143/sparkle-cache/model"
)

// Backend is the sole storage-facing interface of the cache.
//
// Getters return nil without an error when the record is absent, absence is
// never a fault. Upserts write the full record and return the record that
// was stored immediately before the write, or nil if there was none. Deletes
// return the removed record, or nil if there was none. Scoped deletes remove
// every record carrying the given parent key and return the removed records.
//
// Operations on a single key must be linearizable: under concurrent writers
// the returned previous value must be the value that existed immediately
// before this write, never an arbitrarily stale one. The cache holds no
// locks of its own and relies entirely on this guarantee.
//
// Errors are opaque to the cache, it never retries and never unwraps them.
type Backend interface {
	// CurrentUser returns the cached user of the bot itself, set from the
	// ready event.
	CurrentUser(ctx context.Context) (*model.User, error)
	UpsertCurrentUser(ctx context.Context, user model.User) (*model.User, error)

	Guild(ctx context.Context, guildID snowflake.ID) (*model.Guild, error)
	UpsertGuild(ctx context.Context, guild model.Guild) (*model.Guild, error)
	DeleteGuild(ctx context.Context, guildID snowflake.ID) (*model.Guild, error)

	Channel(ctx context.Context, channelID snowflake.ID) (*model.Channel, error)
	UpsertChannel(ctx context.Context, channel model.Channel) (*model.Channel, error)
	DeleteChannel(ctx context.Context, channelID snowflake.ID) (*model.Channel, error)
	DeleteGuildChannels(ctx context.Context, guildID snowflake.ID) ([]model.Channel, error)

	Role(ctx context.Context, roleID snowflake.ID) (*model.Role, error)
	UpsertRole(ctx context.Context, role model.Role) (*model.Role, error)
	DeleteRole(ctx context.Context, roleID snowflake.ID) (*model.Role, error)
	DeleteGuildRoles(ctx context.Context, guildID snowflake.ID) ([]model.Role, error)

	User(ctx context.Context, userID snowflake.ID) (*model.User, error)
	UpsertUser(ctx context.Context, user model.User) (*model.User, error)
	DeleteUser(ctx context.Context, userID snowflake.ID) (*model.User, error)

	Member(ctx context.Context, guildID snowflake.ID, userID snowflake.ID) (*model.Member, error)
	UpsertMember(ctx context.Context, member model.Member) (*model.Member, error)
	DeleteMember(ctx context.Context, guildID snowflake.ID, userID snowflake.ID) (*model.Member, error)
	DeleteGuildMembers(ctx context.Context, guildID snowflake.ID) ([]model.Member, error)

	// MemberRoles returns the role rows of a member.
	MemberRoles(ctx context.Context, guildID snowflake.ID, userID snowflake.ID) ([]model.MemberRole, error)
	UpsertMemberRole(ctx context.Context, memberRole model.MemberRole) (*model.MemberRole, error)
	DeleteMemberRoles(ctx context.Context, guildID snowflake.ID, userID snowflake.ID) ([]model.MemberRole, error)
	// DeleteRoleMemberRoles removes the given role from every member's role
	// rows, used when the role itself is deleted.
	DeleteRoleMemberRoles(ctx context.Context, guildID snowflake.ID, roleID snowflake.ID) ([]model.MemberRole, error)
	DeleteGuildMemberRoles(ctx context.Context, guildID snowflake.ID) ([]model.MemberRole, error)

	Message(ctx context.Context, messageID snowflake.ID) (*model.Message, error)
	UpsertMessage(ctx context.Context, message model.Message) (*model.Message, error)
	DeleteMessage(ctx context.Context, messageID snowflake.ID) (*model.Message, error)
	DeleteChannelMessages(ctx context.Context, channelID snowflake.ID) ([]model.Message, error)
	DeleteGuildMessages(ctx context.Context, guildID snowflake.ID) ([]model.Message, error)

	// Attachments returns the attachment rows of a message.
	Attachments(ctx context.Context, messageID snowflake.ID) ([]model.Attachment, error)
	UpsertAttachment(ctx context.Context, attachment model.Attachment) (*model.Attachment, error)
	DeleteMessageAttachments(ctx context.Context, messageID snowflake.ID) ([]model.Attachment, error)

	// Embeds returns the embed rows of a message.
	Embeds(ctx context.Context, messageID snowflake.ID) ([]model.Embed, error)
	UpsertEmbed(ctx context.Context, embed model.Embed) (*model.Embed, error)
	DeleteMessageEmbeds(ctx context.Context, messageID snowflake.ID) ([]model.Embed, error)

	// EmbedFields returns the field rows of an embed.
	EmbedFields(ctx context.Context, embedID string) ([]model.EmbedField, error)
	UpsertEmbedField(ctx context.Context, field model.EmbedField) (*model.EmbedField, error)
	DeleteEmbedFields(ctx context.Context, embedID string) ([]model.EmbedField, error)

	// Reactions returns the reaction rows of a message.
	Reactions(ctx context.Context, messageID snowflake.ID) ([]model.Reaction, error)
	UpsertReaction(ctx context.Context, reaction model.Reaction) (*model.Reaction, error)
	DeleteMessageReactions(ctx context.Context, messageID snowflake.ID) ([]model.Reaction, error)

	// MessageStickers returns the sticker rows of a message.
	MessageStickers(ctx context.Context, messageID snowflake.ID) ([]model.MessageSticker, error)
	UpsertMessageSticker(ctx context.Context, sticker model.MessageSticker) (*model.MessageSticker, error)
	DeleteMessageStickers(ctx context.Context, messageID snowflake.ID) ([]model.MessageSticker, error)

	Emoji(ctx context.Context, emojiID snowflake.ID) (*model.Emoji, error)
	UpsertEmoji(ctx context.Context, emoji model.Emoji) (*model.Emoji, error)
	DeleteEmoji(ctx context.Context, emojiID snowflake.ID) (*model.Emoji, error)
	DeleteGuildEmojis(ctx context.Context, guildID snowflake.ID) ([]model.Emoji, error)

	Sticker(ctx context.Context, stickerID snowflake.ID) (*model.Sticker, error)
	UpsertSticker(ctx context.Context, sticker model.Sticker) (*model.Sticker, error)
	DeleteSticker(ctx context.Context, stickerID snowflake.ID) (*model.Sticker, error)
	DeleteGuildStickers(ctx context.Context, guildID snowflake.ID) ([]model.Sticker, error)

	Presence(ctx context.Context, guildID snowflake.ID, userID snowflake.ID) (*model.Presence, error)
	UpsertPresence(ctx context.Context, presence model.Presence) (*model.Presence, error)
	DeletePresence(ctx context.Context, guildID snowflake.ID, userID snowflake.ID) (*model.Presence, error)
	DeleteGuildPresences(ctx context.Context, guildID snowflake.ID) ([]model.Presence, error)
}
