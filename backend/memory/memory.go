// Package memory backs the cache with plain in-process maps. It keeps
// everything forever and is meant for bots small enough to not care, and
// for tests.
package memory

import (
	"context"
	"sync"

	"github.com/disgoorg/snowflake/v2"

	"github.com/laralove143/sparkle-cache/backend"
	"github.com/laralove143/sparkle-cache/model"
)

var _ backend.Backend = (*Backend)(nil)

// table is one record kind: a map under its own lock. Every write returns
// the value it displaced, holding the lock across the read and the write
// keeps single-key operations linearizable.
type table[K comparable, V any] struct {
	mu   sync.RWMutex
	rows map[K]V
}

func newTable[K comparable, V any]() *table[K, V] {
	return &table[K, V]{rows: make(map[K]V)}
}

func (t *table[K, V]) get(key K) *V {
	t.mu.RLock()
	defer t.mu.RUnlock()
	row, ok := t.rows[key]
	if !ok {
		return nil
	}
	return &row
}

func (t *table[K, V]) upsert(key K, row V) *V {
	t.mu.Lock()
	defer t.mu.Unlock()
	old, ok := t.rows[key]
	t.rows[key] = row
	if !ok {
		return nil
	}
	return &old
}

func (t *table[K, V]) delete(key K) *V {
	t.mu.Lock()
	defer t.mu.Unlock()
	old, ok := t.rows[key]
	if !ok {
		return nil
	}
	delete(t.rows, key)
	return &old
}

func (t *table[K, V]) where(match func(V) bool) []V {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var rows []V
	for _, row := range t.rows {
		if match(row) {
			rows = append(rows, row)
		}
	}
	return rows
}

func (t *table[K, V]) deleteWhere(match func(V) bool) []V {
	t.mu.Lock()
	defer t.mu.Unlock()
	var rows []V
	for key, row := range t.rows {
		if match(row) {
			rows = append(rows, row)
			delete(t.rows, key)
		}
	}
	return rows
}

type memberKey struct {
	guildID snowflake.ID
	userID  snowflake.ID
}

type memberRoleKey struct {
	guildID snowflake.ID
	userID  snowflake.ID
	roleID  snowflake.ID
}

type embedFieldKey struct {
	embedID string
	index   int
}

type reactionKey struct {
	messageID snowflake.ID
	emoji     string
}

type messageStickerKey struct {
	messageID snowflake.ID
	stickerID snowflake.ID
}

// Backend stores every record kind in its own map.
type Backend struct {
	currentUser     *table[struct{}, model.User]
	guilds          *table[snowflake.ID, model.Guild]
	channels        *table[snowflake.ID, model.Channel]
	roles           *table[snowflake.ID, model.Role]
	users           *table[snowflake.ID, model.User]
	members         *table[memberKey, model.Member]
	memberRoles     *table[memberRoleKey, model.MemberRole]
	messages        *table[snowflake.ID, model.Message]
	attachments     *table[snowflake.ID, model.Attachment]
	embeds          *table[string, model.Embed]
	embedFields     *table[embedFieldKey, model.EmbedField]
	reactions       *table[reactionKey, model.Reaction]
	messageStickers *table[messageStickerKey, model.MessageSticker]
	emojis          *table[snowflake.ID, model.Emoji]
	stickers        *table[snowflake.ID, model.Sticker]
	presences       *table[memberKey, model.Presence]
}

// New returns an empty in-memory backend.
func New() *Backend {
	return &Backend{
		currentUser:     newTable[struct{}, model.User](),
		guilds:          newTable[snowflake.ID, model.Guild](),
		channels:        newTable[snowflake.ID, model.Channel](),
		roles:           newTable[snowflake.ID, model.Role](),
		users:           newTable[snowflake.ID, model.User](),
		members:         newTable[memberKey, model.Member](),
		memberRoles:     newTable[memberRoleKey, model.MemberRole](),
		messages:        newTable[snowflake.ID, model.Message](),
		attachments:     newTable[snowflake.ID, model.Attachment](),
		embeds:          newTable[string, model.Embed](),
		embedFields:     newTable[embedFieldKey, model.EmbedField](),
		reactions:       newTable[reactionKey, model.Reaction](),
		messageStickers: newTable[messageStickerKey, model.MessageSticker](),
		emojis:          newTable[snowflake.ID, model.Emoji](),
		stickers:        newTable[snowflake.ID, model.Sticker](),
		presences:       newTable[memberKey, model.Presence](),
	}
}

func (b *Backend) CurrentUser(_ context.Context) (*model.User, error) {
	return b.currentUser.get(struct{}{}), nil
}

func (b *Backend) UpsertCurrentUser(_ context.Context, user model.User) (*model.User, error) {
	return b.currentUser.upsert(struct{}{}, user), nil
}

func (b *Backend) Guild(_ context.Context, guildID snowflake.ID) (*model.Guild, error) {
	return b.guilds.get(guildID), nil
}

func (b *Backend) UpsertGuild(_ context.Context, guild model.Guild) (*model.Guild, error) {
	return b.guilds.upsert(guild.ID, guild), nil
}

func (b *Backend) DeleteGuild(_ context.Context, guildID snowflake.ID) (*model.Guild, error) {
	return b.guilds.delete(guildID), nil
}

func (b *Backend) Channel(_ context.Context, channelID snowflake.ID) (*model.Channel, error) {
	return b.channels.get(channelID), nil
}

func (b *Backend) UpsertChannel(_ context.Context, channel model.Channel) (*model.Channel, error) {
	return b.channels.upsert(channel.ID, channel), nil
}

func (b *Backend) DeleteChannel(_ context.Context, channelID snowflake.ID) (*model.Channel, error) {
	return b.channels.delete(channelID), nil
}

func (b *Backend) DeleteGuildChannels(_ context.Context, guildID snowflake.ID) ([]model.Channel, error) {
	return b.channels.deleteWhere(func(channel model.Channel) bool {
		return channel.GuildID == guildID
	}), nil
}

func (b *Backend) Role(_ context.Context, roleID snowflake.ID) (*model.Role, error) {
	return b.roles.get(roleID), nil
}

func (b *Backend) UpsertRole(_ context.Context, role model.Role) (*model.Role, error) {
	return b.roles.upsert(role.ID, role), nil
}

func (b *Backend) DeleteRole(_ context.Context, roleID snowflake.ID) (*model.Role, error) {
	return b.roles.delete(roleID), nil
}

func (b *Backend) DeleteGuildRoles(_ context.Context, guildID snowflake.ID) ([]model.Role, error) {
	return b.roles.deleteWhere(func(role model.Role) bool {
		return role.GuildID == guildID
	}), nil
}

func (b *Backend) User(_ context.Context, userID snowflake.ID) (*model.User, error) {
	return b.users.get(userID), nil
}

func (b *Backend) UpsertUser(_ context.Context, user model.User) (*model.User, error) {
	return b.users.upsert(user.ID, user), nil
}

func (b *Backend) DeleteUser(_ context.Context, userID snowflake.ID) (*model.User, error) {
	return b.users.delete(userID), nil
}

func (b *Backend) Member(_ context.Context, guildID snowflake.ID, userID snowflake.ID) (*model.Member, error) {
	return b.members.get(memberKey{guildID, userID}), nil
}

func (b *Backend) UpsertMember(_ context.Context, member model.Member) (*model.Member, error) {
	return b.members.upsert(memberKey{member.GuildID, member.UserID}, member), nil
}

func (b *Backend) DeleteMember(_ context.Context, guildID snowflake.ID, userID snowflake.ID) (*model.Member, error) {
	return b.members.delete(memberKey{guildID, userID}), nil
}

func (b *Backend) DeleteGuildMembers(_ context.Context, guildID snowflake.ID) ([]model.Member, error) {
	return b.members.deleteWhere(func(member model.Member) bool {
		return member.GuildID == guildID
	}), nil
}

func (b *Backend) MemberRoles(_ context.Context, guildID snowflake.ID, userID snowflake.ID) ([]model.MemberRole, error) {
	return b.memberRoles.where(func(row model.MemberRole) bool {
		return row.GuildID == guildID && row.UserID == userID
	}), nil
}

func (b *Backend) UpsertMemberRole(_ context.Context, memberRole model.MemberRole) (*model.MemberRole, error) {
	key := memberRoleKey{memberRole.GuildID, memberRole.UserID, memberRole.RoleID}
	return b.memberRoles.upsert(key, memberRole), nil
}

func (b *Backend) DeleteMemberRoles(_ context.Context, guildID snowflake.ID, userID snowflake.ID) ([]model.MemberRole, error) {
	return b.memberRoles.deleteWhere(func(row model.MemberRole) bool {
		return row.GuildID == guildID && row.UserID == userID
	}), nil
}

func (b *Backend) DeleteRoleMemberRoles(_ context.Context, guildID snowflake.ID, roleID snowflake.ID) ([]model.MemberRole, error) {
	return b.memberRoles.deleteWhere(func(row model.MemberRole) bool {
		return row.GuildID == guildID && row.RoleID == roleID
	}), nil
}

func (b *Backend) DeleteGuildMemberRoles(_ context.Context, guildID snowflake.ID) ([]model.MemberRole, error) {
	return b.memberRoles.deleteWhere(func(row model.MemberRole) bool {
		return row.GuildID == guildID
	}), nil
}

func (b *Backend) Message(_ context.Context, messageID snowflake.ID) (*model.Message, error) {
	return b.messages.get(messageID), nil
}

func (b *Backend) UpsertMessage(_ context.Context, message model.Message) (*model.Message, error) {
	return b.messages.upsert(message.ID, message), nil
}

func (b *Backend) DeleteMessage(_ context.Context, messageID snowflake.ID) (*model.Message, error) {
	return b.messages.delete(messageID), nil
}

func (b *Backend) DeleteChannelMessages(_ context.Context, channelID snowflake.ID) ([]model.Message, error) {
	return b.messages.deleteWhere(func(message model.Message) bool {
		return message.ChannelID == channelID
	}), nil
}

func (b *Backend) DeleteGuildMessages(_ context.Context, guildID snowflake.ID) ([]model.Message, error) {
	return b.messages.deleteWhere(func(message model.Message) bool {
		return message.GuildID != nil && *message.GuildID == guildID
	}), nil
}

func (b *Backend) Attachments(_ context.Context, messageID snowflake.ID) ([]model.Attachment, error) {
	return b.attachments.where(func(attachment model.Attachment) bool {
		return attachment.MessageID == messageID
	}), nil
}

func (b *Backend) UpsertAttachment(_ context.Context, attachment model.Attachment) (*model.Attachment, error) {
	return b.attachments.upsert(attachment.ID, attachment), nil
}

func (b *Backend) DeleteMessageAttachments(_ context.Context, messageID snowflake.ID) ([]model.Attachment, error) {
	return b.attachments.deleteWhere(func(attachment model.Attachment) bool {
		return attachment.MessageID == messageID
	}), nil
}

func (b *Backend) Embeds(_ context.Context, messageID snowflake.ID) ([]model.Embed, error) {
	return b.embeds.where(func(embed model.Embed) bool {
		return embed.MessageID == messageID
	}), nil
}

func (b *Backend) UpsertEmbed(_ context.Context, embed model.Embed) (*model.Embed, error) {
	return b.embeds.upsert(embed.ID, embed), nil
}

func (b *Backend) DeleteMessageEmbeds(_ context.Context, messageID snowflake.ID) ([]model.Embed, error) {
	return b.embeds.deleteWhere(func(embed model.Embed) bool {
		return embed.MessageID == messageID
	}), nil
}

func (b *Backend) EmbedFields(_ context.Context, embedID string) ([]model.EmbedField, error) {
	return b.embedFields.where(func(field model.EmbedField) bool {
		return field.EmbedID == embedID
	}), nil
}

func (b *Backend) UpsertEmbedField(_ context.Context, field model.EmbedField) (*model.EmbedField, error) {
	return b.embedFields.upsert(embedFieldKey{field.EmbedID, field.Index}, field), nil
}

func (b *Backend) DeleteEmbedFields(_ context.Context, embedID string) ([]model.EmbedField, error) {
	return b.embedFields.deleteWhere(func(field model.EmbedField) bool {
		return field.EmbedID == embedID
	}), nil
}

func (b *Backend) Reactions(_ context.Context, messageID snowflake.ID) ([]model.Reaction, error) {
	return b.reactions.where(func(reaction model.Reaction) bool {
		return reaction.MessageID == messageID
	}), nil
}

func (b *Backend) UpsertReaction(_ context.Context, reaction model.Reaction) (*model.Reaction, error) {
	return b.reactions.upsert(reactionKey{reaction.MessageID, reaction.Emoji}, reaction), nil
}

func (b *Backend) DeleteMessageReactions(_ context.Context, messageID snowflake.ID) ([]model.Reaction, error) {
	return b.reactions.deleteWhere(func(reaction model.Reaction) bool {
		return reaction.MessageID == messageID
	}), nil
}

func (b *Backend) MessageStickers(_ context.Context, messageID snowflake.ID) ([]model.MessageSticker, error) {
	return b.messageStickers.where(func(sticker model.MessageSticker) bool {
		return sticker.MessageID == messageID
	}), nil
}

func (b *Backend) UpsertMessageSticker(_ context.Context, sticker model.MessageSticker) (*model.MessageSticker, error) {
	return b.messageStickers.upsert(messageStickerKey{sticker.MessageID, sticker.ID}, sticker), nil
}

func (b *Backend) DeleteMessageStickers(_ context.Context, messageID snowflake.ID) ([]model.MessageSticker, error) {
	return b.messageStickers.deleteWhere(func(sticker model.MessageSticker) bool {
		return sticker.MessageID == messageID
	}), nil
}

func (b *Backend) Emoji(_ context.Context, emojiID snowflake.ID) (*model.Emoji, error) {
	return b.emojis.get(emojiID), nil
}

func (b *Backend) UpsertEmoji(_ context.Context, emoji model.Emoji) (*model.Emoji, error) {
	return b.emojis.upsert(emoji.ID, emoji), nil
}

func (b *Backend) DeleteEmoji(_ context.Context, emojiID snowflake.ID) (*model.Emoji, error) {
	return b.emojis.delete(emojiID), nil
}

func (b *Backend) DeleteGuildEmojis(_ context.Context, guildID snowflake.ID) ([]model.Emoji, error) {
	return b.emojis.deleteWhere(func(emoji model.Emoji) bool {
		return emoji.GuildID == guildID
	}), nil
}

func (b *Backend) Sticker(_ context.Context, stickerID snowflake.ID) (*model.Sticker, error) {
	return b.stickers.get(stickerID), nil
}

func (b *Backend) UpsertSticker(_ context.Context, sticker model.Sticker) (*model.Sticker, error) {
	return b.stickers.upsert(sticker.ID, sticker), nil
}

func (b *Backend) DeleteSticker(_ context.Context, stickerID snowflake.ID) (*model.Sticker, error) {
	return b.stickers.delete(stickerID), nil
}

func (b *Backend) DeleteGuildStickers(_ context.Context, guildID snowflake.ID) ([]model.Sticker, error) {
	return b.stickers.deleteWhere(func(sticker model.Sticker) bool {
		return sticker.GuildID == guildID
	}), nil
}

func (b *Backend) Presence(_ context.Context, guildID snowflake.ID, userID snowflake.ID) (*model.Presence, error) {
	return b.presences.get(memberKey{guildID, userID}), nil
}

func (b *Backend) UpsertPresence(_ context.Context, presence model.Presence) (*model.Presence, error) {
	return b.presences.upsert(memberKey{presence.GuildID, presence.UserID}, presence), nil
}

func (b *Backend) DeletePresence(_ context.Context, guildID snowflake.ID, userID snowflake.ID) (*model.Presence, error) {
	return b.presences.delete(memberKey{guildID, userID}), nil
}

func (b *Backend) DeleteGuildPresences(_ context.Context, guildID snowflake.ID) ([]model.Presence, error) {
	return b.presences.deleteWhere(func(presence model.Presence) bool {
		return presence.GuildID == guildID
	}), nil
}
