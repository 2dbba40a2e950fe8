// Package redis backs the cache with Redis. Records are JSON strings under
// keys like "sparkle:guild:1234", parent-child relations are kept as sets of
// record keys like "sparkle:guild:1234:channels".
//
// Single-key writes ride on SET ... GET and GETDEL, so the previous value a
// write reports is exactly the value it displaced even under concurrent
// writers. Index sets are maintained in the same transactional pipeline as
// the record write.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/disgoorg/snowflake/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/laralove143/sparkle-cache/backend"
	"github.com/laralove143/sparkle-cache/model"
)

var _ backend.Backend = (*Backend)(nil)

// Backend stores records in Redis under a common key prefix.
type Backend struct {
	client goredis.UniversalClient
	prefix string
}

// Option configures a Backend.
type Option func(*Backend)

// WithPrefix replaces the default "sparkle" key prefix, for sharing one
// Redis between caches.
func WithPrefix(prefix string) Option {
	return func(b *Backend) {
		b.prefix = prefix
	}
}

// New returns a backend writing through the given client. The client's
// lifecycle stays with the caller.
func New(client goredis.UniversalClient, opts ...Option) *Backend {
	b := &Backend{
		client: client,
		prefix: "sparkle",
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Backend) key(parts ...string) string {
	key := b.prefix
	for _, part := range parts {
		key += ":" + part
	}
	return key
}

func get[T any](ctx context.Context, b *Backend, key string) (*T, error) {
	raw, err := b.client.Get(ctx, key).Result()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return decode[T](key, raw)
}

// upsert writes the record and adds its key to every index set in one
// transactional pipeline, returning the displaced record.
func upsert[T any](ctx context.Context, b *Backend, key string, row T, indexes ...string) (*T, error) {
	raw, err := json.Marshal(row)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", key, err)
	}
	pipe := b.client.TxPipeline()
	set := pipe.SetArgs(ctx, key, raw, goredis.SetArgs{Get: true})
	for _, index := range indexes {
		pipe.SAdd(ctx, index, key)
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, goredis.Nil) {
		return nil, fmt.Errorf("set %s: %w", key, err)
	}
	if errors.Is(set.Err(), goredis.Nil) {
		return nil, nil
	}
	return decode[T](key, set.Val())
}

func getDel[T any](ctx context.Context, b *Backend, key string) (*T, error) {
	raw, err := b.client.GetDel(ctx, key).Result()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("del %s: %w", key, err)
	}
	return decode[T](key, raw)
}

// deleteOne removes the record and unindexes it; computing the index keys
// needs the removed record, so the indexes come as a function of it.
func deleteOne[T any](ctx context.Context, b *Backend, key string, indexes func(T) []string) (*T, error) {
	row, err := getDel[T](ctx, b, key)
	if err != nil || row == nil {
		return row, err
	}
	if indexes != nil {
		for _, index := range indexes(*row) {
			if err := b.client.SRem(ctx, index, key).Err(); err != nil {
				return row, fmt.Errorf("unindex %s: %w", key, err)
			}
		}
	}
	return row, nil
}

// listScope reads every record whose key is in the index set.
func listScope[T any](ctx context.Context, b *Backend, indexKey string) ([]T, error) {
	keys, err := b.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("read index %s: %w", indexKey, err)
	}
	if len(keys) == 0 {
		return nil, nil
	}
	raws, err := b.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("read %s records: %w", indexKey, err)
	}
	var rows []T
	for i, raw := range raws {
		str, ok := raw.(string)
		if !ok {
			// Stale index entry, the record is already gone.
			continue
		}
		row, err := decode[T](keys[i], str)
		if err != nil {
			return rows, err
		}
		rows = append(rows, *row)
	}
	return rows, nil
}

// deleteScope removes every record in the index set, then the set itself.
// Records living in sibling index sets too get unindexed there, again via a
// function of the removed record.
func deleteScope[T any](ctx context.Context, b *Backend, indexKey string, siblings func(T) []string) ([]T, error) {
	keys, err := b.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("read index %s: %w", indexKey, err)
	}
	var rows []T
	for _, key := range keys {
		row, err := getDel[T](ctx, b, key)
		if err != nil {
			return rows, err
		}
		if row == nil {
			continue
		}
		rows = append(rows, *row)
		if siblings == nil {
			continue
		}
		for _, sibling := range siblings(*row) {
			if err := b.client.SRem(ctx, sibling, key).Err(); err != nil {
				return rows, fmt.Errorf("unindex %s: %w", key, err)
			}
		}
	}
	if err := b.client.Del(ctx, indexKey).Err(); err != nil {
		return rows, fmt.Errorf("drop index %s: %w", indexKey, err)
	}
	return rows, nil
}

func decode[T any](key string, raw string) (*T, error) {
	var row T
	if err := json.Unmarshal([]byte(raw), &row); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return &row, nil
}

func (b *Backend) CurrentUser(ctx context.Context) (*model.User, error) {
	return get[model.User](ctx, b, b.key("current-user"))
}

func (b *Backend) UpsertCurrentUser(ctx context.Context, user model.User) (*model.User, error) {
	return upsert(ctx, b, b.key("current-user"), user)
}

func (b *Backend) guildKey(guildID snowflake.ID) string {
	return b.key("guild", guildID.String())
}

func (b *Backend) Guild(ctx context.Context, guildID snowflake.ID) (*model.Guild, error) {
	return get[model.Guild](ctx, b, b.guildKey(guildID))
}

func (b *Backend) UpsertGuild(ctx context.Context, guild model.Guild) (*model.Guild, error) {
	return upsert(ctx, b, b.guildKey(guild.ID), guild)
}

func (b *Backend) DeleteGuild(ctx context.Context, guildID snowflake.ID) (*model.Guild, error) {
	return getDel[model.Guild](ctx, b, b.guildKey(guildID))
}

func (b *Backend) channelKey(channelID snowflake.ID) string {
	return b.key("channel", channelID.String())
}

func (b *Backend) guildChannelsKey(guildID snowflake.ID) string {
	return b.key("guild", guildID.String(), "channels")
}

func (b *Backend) Channel(ctx context.Context, channelID snowflake.ID) (*model.Channel, error) {
	return get[model.Channel](ctx, b, b.channelKey(channelID))
}

func (b *Backend) UpsertChannel(ctx context.Context, channel model.Channel) (*model.Channel, error) {
	return upsert(ctx, b, b.channelKey(channel.ID), channel, b.guildChannelsKey(channel.GuildID))
}

func (b *Backend) DeleteChannel(ctx context.Context, channelID snowflake.ID) (*model.Channel, error) {
	return deleteOne(ctx, b, b.channelKey(channelID), func(channel model.Channel) []string {
		return []string{b.guildChannelsKey(channel.GuildID)}
	})
}

func (b *Backend) DeleteGuildChannels(ctx context.Context, guildID snowflake.ID) ([]model.Channel, error) {
	return deleteScope[model.Channel](ctx, b, b.guildChannelsKey(guildID), nil)
}

func (b *Backend) roleKey(roleID snowflake.ID) string {
	return b.key("role", roleID.String())
}

func (b *Backend) guildRolesKey(guildID snowflake.ID) string {
	return b.key("guild", guildID.String(), "roles")
}

func (b *Backend) Role(ctx context.Context, roleID snowflake.ID) (*model.Role, error) {
	return get[model.Role](ctx, b, b.roleKey(roleID))
}

func (b *Backend) UpsertRole(ctx context.Context, role model.Role) (*model.Role, error) {
	return upsert(ctx, b, b.roleKey(role.ID), role, b.guildRolesKey(role.GuildID))
}

func (b *Backend) DeleteRole(ctx context.Context, roleID snowflake.ID) (*model.Role, error) {
	return deleteOne(ctx, b, b.roleKey(roleID), func(role model.Role) []string {
		return []string{b.guildRolesKey(role.GuildID)}
	})
}

func (b *Backend) DeleteGuildRoles(ctx context.Context, guildID snowflake.ID) ([]model.Role, error) {
	return deleteScope[model.Role](ctx, b, b.guildRolesKey(guildID), nil)
}

func (b *Backend) userKey(userID snowflake.ID) string {
	return b.key("user", userID.String())
}

func (b *Backend) User(ctx context.Context, userID snowflake.ID) (*model.User, error) {
	return get[model.User](ctx, b, b.userKey(userID))
}

func (b *Backend) UpsertUser(ctx context.Context, user model.User) (*model.User, error) {
	return upsert(ctx, b, b.userKey(user.ID), user)
}

func (b *Backend) DeleteUser(ctx context.Context, userID snowflake.ID) (*model.User, error) {
	return getDel[model.User](ctx, b, b.userKey(userID))
}

func (b *Backend) memberKey(guildID snowflake.ID, userID snowflake.ID) string {
	return b.key("member", guildID.String(), userID.String())
}

func (b *Backend) guildMembersKey(guildID snowflake.ID) string {
	return b.key("guild", guildID.String(), "members")
}

func (b *Backend) Member(ctx context.Context, guildID snowflake.ID, userID snowflake.ID) (*model.Member, error) {
	return get[model.Member](ctx, b, b.memberKey(guildID, userID))
}

func (b *Backend) UpsertMember(ctx context.Context, member model.Member) (*model.Member, error) {
	key := b.memberKey(member.GuildID, member.UserID)
	return upsert(ctx, b, key, member, b.guildMembersKey(member.GuildID))
}

func (b *Backend) DeleteMember(ctx context.Context, guildID snowflake.ID, userID snowflake.ID) (*model.Member, error) {
	return deleteOne(ctx, b, b.memberKey(guildID, userID), func(member model.Member) []string {
		return []string{b.guildMembersKey(member.GuildID)}
	})
}

func (b *Backend) DeleteGuildMembers(ctx context.Context, guildID snowflake.ID) ([]model.Member, error) {
	return deleteScope[model.Member](ctx, b, b.guildMembersKey(guildID), nil)
}

// Member role rows live in three index sets at once: their member's, their
// role's and their guild's. Deleting through any one of them unindexes the
// other two.

func (b *Backend) memberRoleKey(row model.MemberRole) string {
	return b.key("member-role", row.GuildID.String(), row.UserID.String(), row.RoleID.String())
}

func (b *Backend) memberRolesKey(guildID snowflake.ID, userID snowflake.ID) string {
	return b.key("member", guildID.String(), userID.String(), "roles")
}

func (b *Backend) roleMemberRolesKey(roleID snowflake.ID) string {
	return b.key("role", roleID.String(), "member-roles")
}

func (b *Backend) guildMemberRolesKey(guildID snowflake.ID) string {
	return b.key("guild", guildID.String(), "member-roles")
}

func (b *Backend) MemberRoles(ctx context.Context, guildID snowflake.ID, userID snowflake.ID) ([]model.MemberRole, error) {
	return listScope[model.MemberRole](ctx, b, b.memberRolesKey(guildID, userID))
}

func (b *Backend) UpsertMemberRole(ctx context.Context, memberRole model.MemberRole) (*model.MemberRole, error) {
	return upsert(ctx, b, b.memberRoleKey(memberRole), memberRole,
		b.memberRolesKey(memberRole.GuildID, memberRole.UserID),
		b.roleMemberRolesKey(memberRole.RoleID),
		b.guildMemberRolesKey(memberRole.GuildID),
	)
}

func (b *Backend) DeleteMemberRoles(ctx context.Context, guildID snowflake.ID, userID snowflake.ID) ([]model.MemberRole, error) {
	return deleteScope(ctx, b, b.memberRolesKey(guildID, userID), func(row model.MemberRole) []string {
		return []string{b.roleMemberRolesKey(row.RoleID), b.guildMemberRolesKey(row.GuildID)}
	})
}

func (b *Backend) DeleteRoleMemberRoles(ctx context.Context, _ snowflake.ID, roleID snowflake.ID) ([]model.MemberRole, error) {
	return deleteScope(ctx, b, b.roleMemberRolesKey(roleID), func(row model.MemberRole) []string {
		return []string{b.memberRolesKey(row.GuildID, row.UserID), b.guildMemberRolesKey(row.GuildID)}
	})
}

func (b *Backend) DeleteGuildMemberRoles(ctx context.Context, guildID snowflake.ID) ([]model.MemberRole, error) {
	return deleteScope(ctx, b, b.guildMemberRolesKey(guildID), func(row model.MemberRole) []string {
		return []string{b.memberRolesKey(row.GuildID, row.UserID), b.roleMemberRolesKey(row.RoleID)}
	})
}

func (b *Backend) messageKey(messageID snowflake.ID) string {
	return b.key("message", messageID.String())
}

func (b *Backend) channelMessagesKey(channelID snowflake.ID) string {
	return b.key("channel", channelID.String(), "messages")
}

func (b *Backend) guildMessagesKey(guildID snowflake.ID) string {
	return b.key("guild", guildID.String(), "messages")
}

func (b *Backend) Message(ctx context.Context, messageID snowflake.ID) (*model.Message, error) {
	return get[model.Message](ctx, b, b.messageKey(messageID))
}

func (b *Backend) UpsertMessage(ctx context.Context, message model.Message) (*model.Message, error) {
	indexes := []string{b.channelMessagesKey(message.ChannelID)}
	if message.GuildID != nil {
		indexes = append(indexes, b.guildMessagesKey(*message.GuildID))
	}
	return upsert(ctx, b, b.messageKey(message.ID), message, indexes...)
}

func (b *Backend) messageSiblingIndexes(message model.Message) []string {
	indexes := []string{b.channelMessagesKey(message.ChannelID)}
	if message.GuildID != nil {
		indexes = append(indexes, b.guildMessagesKey(*message.GuildID))
	}
	return indexes
}

func (b *Backend) DeleteMessage(ctx context.Context, messageID snowflake.ID) (*model.Message, error) {
	return deleteOne(ctx, b, b.messageKey(messageID), b.messageSiblingIndexes)
}

func (b *Backend) DeleteChannelMessages(ctx context.Context, channelID snowflake.ID) ([]model.Message, error) {
	return deleteScope(ctx, b, b.channelMessagesKey(channelID), func(message model.Message) []string {
		if message.GuildID == nil {
			return nil
		}
		return []string{b.guildMessagesKey(*message.GuildID)}
	})
}

func (b *Backend) DeleteGuildMessages(ctx context.Context, guildID snowflake.ID) ([]model.Message, error) {
	return deleteScope(ctx, b, b.guildMessagesKey(guildID), func(message model.Message) []string {
		return []string{b.channelMessagesKey(message.ChannelID)}
	})
}

func (b *Backend) attachmentKey(attachmentID snowflake.ID) string {
	return b.key("attachment", attachmentID.String())
}

func (b *Backend) messageAttachmentsKey(messageID snowflake.ID) string {
	return b.key("message", messageID.String(), "attachments")
}

func (b *Backend) Attachments(ctx context.Context, messageID snowflake.ID) ([]model.Attachment, error) {
	return listScope[model.Attachment](ctx, b, b.messageAttachmentsKey(messageID))
}

func (b *Backend) UpsertAttachment(ctx context.Context, attachment model.Attachment) (*model.Attachment, error) {
	key := b.attachmentKey(attachment.ID)
	return upsert(ctx, b, key, attachment, b.messageAttachmentsKey(attachment.MessageID))
}

func (b *Backend) DeleteMessageAttachments(ctx context.Context, messageID snowflake.ID) ([]model.Attachment, error) {
	return deleteScope[model.Attachment](ctx, b, b.messageAttachmentsKey(messageID), nil)
}

func (b *Backend) embedKey(embedID string) string {
	return b.key("embed", embedID)
}

func (b *Backend) messageEmbedsKey(messageID snowflake.ID) string {
	return b.key("message", messageID.String(), "embeds")
}

func (b *Backend) Embeds(ctx context.Context, messageID snowflake.ID) ([]model.Embed, error) {
	return listScope[model.Embed](ctx, b, b.messageEmbedsKey(messageID))
}

func (b *Backend) UpsertEmbed(ctx context.Context, embed model.Embed) (*model.Embed, error) {
	return upsert(ctx, b, b.embedKey(embed.ID), embed, b.messageEmbedsKey(embed.MessageID))
}

func (b *Backend) DeleteMessageEmbeds(ctx context.Context, messageID snowflake.ID) ([]model.Embed, error) {
	return deleteScope[model.Embed](ctx, b, b.messageEmbedsKey(messageID), nil)
}

func (b *Backend) embedFieldKey(embedID string, index int) string {
	return b.key("embed-field", embedID, fmt.Sprint(index))
}

func (b *Backend) embedFieldsKey(embedID string) string {
	return b.key("embed", embedID, "fields")
}

func (b *Backend) EmbedFields(ctx context.Context, embedID string) ([]model.EmbedField, error) {
	return listScope[model.EmbedField](ctx, b, b.embedFieldsKey(embedID))
}

func (b *Backend) UpsertEmbedField(ctx context.Context, field model.EmbedField) (*model.EmbedField, error) {
	key := b.embedFieldKey(field.EmbedID, field.Index)
	return upsert(ctx, b, key, field, b.embedFieldsKey(field.EmbedID))
}

func (b *Backend) DeleteEmbedFields(ctx context.Context, embedID string) ([]model.EmbedField, error) {
	return deleteScope[model.EmbedField](ctx, b, b.embedFieldsKey(embedID), nil)
}

func (b *Backend) reactionKey(messageID snowflake.ID, emoji string) string {
	return b.key("reaction", messageID.String(), emoji)
}

func (b *Backend) messageReactionsKey(messageID snowflake.ID) string {
	return b.key("message", messageID.String(), "reactions")
}

func (b *Backend) Reactions(ctx context.Context, messageID snowflake.ID) ([]model.Reaction, error) {
	return listScope[model.Reaction](ctx, b, b.messageReactionsKey(messageID))
}

func (b *Backend) UpsertReaction(ctx context.Context, reaction model.Reaction) (*model.Reaction, error) {
	key := b.reactionKey(reaction.MessageID, reaction.Emoji)
	return upsert(ctx, b, key, reaction, b.messageReactionsKey(reaction.MessageID))
}

func (b *Backend) DeleteMessageReactions(ctx context.Context, messageID snowflake.ID) ([]model.Reaction, error) {
	return deleteScope[model.Reaction](ctx, b, b.messageReactionsKey(messageID), nil)
}

func (b *Backend) messageStickerKey(messageID snowflake.ID, stickerID snowflake.ID) string {
	return b.key("message-sticker", messageID.String(), stickerID.String())
}

func (b *Backend) messageStickersKey(messageID snowflake.ID) string {
	return b.key("message", messageID.String(), "stickers")
}

func (b *Backend) MessageStickers(ctx context.Context, messageID snowflake.ID) ([]model.MessageSticker, error) {
	return listScope[model.MessageSticker](ctx, b, b.messageStickersKey(messageID))
}

func (b *Backend) UpsertMessageSticker(ctx context.Context, sticker model.MessageSticker) (*model.MessageSticker, error) {
	key := b.messageStickerKey(sticker.MessageID, sticker.ID)
	return upsert(ctx, b, key, sticker, b.messageStickersKey(sticker.MessageID))
}

func (b *Backend) DeleteMessageStickers(ctx context.Context, messageID snowflake.ID) ([]model.MessageSticker, error) {
	return deleteScope[model.MessageSticker](ctx, b, b.messageStickersKey(messageID), nil)
}

func (b *Backend) emojiKey(emojiID snowflake.ID) string {
	return b.key("emoji", emojiID.String())
}

func (b *Backend) guildEmojisKey(guildID snowflake.ID) string {
	return b.key("guild", guildID.String(), "emojis")
}

func (b *Backend) Emoji(ctx context.Context, emojiID snowflake.ID) (*model.Emoji, error) {
	return get[model.Emoji](ctx, b, b.emojiKey(emojiID))
}

func (b *Backend) UpsertEmoji(ctx context.Context, emoji model.Emoji) (*model.Emoji, error) {
	return upsert(ctx, b, b.emojiKey(emoji.ID), emoji, b.guildEmojisKey(emoji.GuildID))
}

func (b *Backend) DeleteEmoji(ctx context.Context, emojiID snowflake.ID) (*model.Emoji, error) {
	return deleteOne(ctx, b, b.emojiKey(emojiID), func(emoji model.Emoji) []string {
		return []string{b.guildEmojisKey(emoji.GuildID)}
	})
}

func (b *Backend) DeleteGuildEmojis(ctx context.Context, guildID snowflake.ID) ([]model.Emoji, error) {
	return deleteScope[model.Emoji](ctx, b, b.guildEmojisKey(guildID), nil)
}

func (b *Backend) stickerKey(stickerID snowflake.ID) string {
	return b.key("sticker", stickerID.String())
}

func (b *Backend) guildStickersKey(guildID snowflake.ID) string {
	return b.key("guild", guildID.String(), "stickers")
}

func (b *Backend) Sticker(ctx context.Context, stickerID snowflake.ID) (*model.Sticker, error) {
	return get[model.Sticker](ctx, b, b.stickerKey(stickerID))
}

func (b *Backend) UpsertSticker(ctx context.Context, sticker model.Sticker) (*model.Sticker, error) {
	return upsert(ctx, b, b.stickerKey(sticker.ID), sticker, b.guildStickersKey(sticker.GuildID))
}

func (b *Backend) DeleteSticker(ctx context.Context, stickerID snowflake.ID) (*model.Sticker, error) {
	return deleteOne(ctx, b, b.stickerKey(stickerID), func(sticker model.Sticker) []string {
		return []string{b.guildStickersKey(sticker.GuildID)}
	})
}

func (b *Backend) DeleteGuildStickers(ctx context.Context, guildID snowflake.ID) ([]model.Sticker, error) {
	return deleteScope[model.Sticker](ctx, b, b.guildStickersKey(guildID), nil)
}

func (b *Backend) presenceKey(guildID snowflake.ID, userID snowflake.ID) string {
	return b.key("presence", guildID.String(), userID.String())
}

func (b *Backend) guildPresencesKey(guildID snowflake.ID) string {
	return b.key("guild", guildID.String(), "presences")
}

func (b *Backend) Presence(ctx context.Context, guildID snowflake.ID, userID snowflake.ID) (*model.Presence, error) {
	return get[model.Presence](ctx, b, b.presenceKey(guildID, userID))
}

func (b *Backend) UpsertPresence(ctx context.Context, presence model.Presence) (*model.Presence, error) {
	key := b.presenceKey(presence.GuildID, presence.UserID)
	return upsert(ctx, b, key, presence, b.guildPresencesKey(presence.GuildID))
}

func (b *Backend) DeletePresence(ctx context.Context, guildID snowflake.ID, userID snowflake.ID) (*model.Presence, error) {
	return deleteOne(ctx, b, b.presenceKey(guildID, userID), func(presence model.Presence) []string {
		return []string{b.guildPresencesKey(presence.GuildID)}
	})
}

func (b *Backend) DeleteGuildPresences(ctx context.Context, guildID snowflake.ID) ([]model.Presence, error) {
	return deleteScope[model.Presence](ctx, b, b.guildPresencesKey(guildID), nil)
}
