// Package graph backs the cache with Neo4j. Every record is a node labeled
// by its kind, keyed by property matches on its ID fields.
//
// Each backend call is a single Cypher statement running in its own
// transaction, so the previous state it reports is the state that one
// statement displaced. Upserts merge on the key properties and replace the
// full property map, deletes detach-delete and hand the old properties
// back.
package graph

import (
	"context"

	"github.com/disgoorg/snowflake/v2"

	"github.com/laralove143/sparkle-cache/backend"
	"github.com/laralove143/sparkle-cache/model"
)

var _ backend.Backend = (*Backend)(nil)

// Backend stores records as labeled Neo4j nodes.
type Backend struct {
	conn *Connection
}

// New returns a backend writing through the given connection. The
// connection's lifecycle stays with the caller.
func New(conn *Connection) *Backend {
	return &Backend{conn: conn}
}

func getNode[T any](ctx context.Context, conn *Connection, label string, key map[string]any) (*T, error) {
	result, err := conn.Query(ctx,
		"MATCH "+node("n", label, key),
		"RETURN properties(n) AS n",
	)
	if err != nil {
		return nil, err
	}
	return decodeProps[T](first(result.Records, "n"))
}

func upsertNode[T any](ctx context.Context, conn *Connection, label string, key map[string]any, row T) (*T, error) {
	props, err := toProps(row)
	if err != nil {
		return nil, err
	}
	result, err := conn.Query(ctx,
		"OPTIONAL MATCH "+node("old", label, key),
		"WITH properties(old) AS prev",
		"MERGE "+node("n", label, key),
		"SET n = "+renderProps(props),
		"RETURN prev",
	)
	if err != nil {
		return nil, err
	}
	return decodeProps[T](first(result.Records, "prev"))
}

func deleteNode[T any](ctx context.Context, conn *Connection, label string, key map[string]any) (*T, error) {
	result, err := conn.Query(ctx,
		"OPTIONAL MATCH "+node("n", label, key),
		"WITH n, properties(n) AS prev",
		"DETACH DELETE n",
		"RETURN prev",
	)
	if err != nil {
		return nil, err
	}
	return decodeProps[T](first(result.Records, "prev"))
}

func listNodes[T any](ctx context.Context, conn *Connection, label string, filter map[string]any) ([]T, error) {
	result, err := conn.Query(ctx,
		"MATCH "+node("n", label, filter),
		"RETURN properties(n) AS n",
	)
	if err != nil {
		return nil, err
	}
	var rows []T
	for _, record := range result.Records {
		value, _ := record.Get("n")
		row, err := decodeProps[T](value)
		if err != nil {
			return rows, err
		}
		if row != nil {
			rows = append(rows, *row)
		}
	}
	return rows, nil
}

func deleteNodes[T any](ctx context.Context, conn *Connection, label string, filter map[string]any) ([]T, error) {
	result, err := conn.Query(ctx,
		"MATCH "+node("n", label, filter),
		"WITH n, properties(n) AS prev",
		"DETACH DELETE n",
		"RETURN prev",
	)
	if err != nil {
		return nil, err
	}
	var rows []T
	for _, record := range result.Records {
		value, _ := record.Get("prev")
		row, err := decodeProps[T](value)
		if err != nil {
			return rows, err
		}
		if row != nil {
			rows = append(rows, *row)
		}
	}
	return rows, nil
}

func idKey(id snowflake.ID) map[string]any {
	return map[string]any{"ID": id}
}

func guildKey(guildID snowflake.ID) map[string]any {
	return map[string]any{"GuildID": guildID}
}

func memberKey(guildID, userID snowflake.ID) map[string]any {
	return map[string]any{"GuildID": guildID, "UserID": userID}
}

func messageKey(messageID snowflake.ID) map[string]any {
	return map[string]any{"MessageID": messageID}
}

func (b *Backend) CurrentUser(ctx context.Context) (*model.User, error) {
	return getNode[model.User](ctx, b.conn, "CurrentUser", nil)
}

func (b *Backend) UpsertCurrentUser(ctx context.Context, user model.User) (*model.User, error) {
	return upsertNode(ctx, b.conn, "CurrentUser", nil, user)
}

func (b *Backend) Guild(ctx context.Context, guildID snowflake.ID) (*model.Guild, error) {
	return getNode[model.Guild](ctx, b.conn, "Guild", idKey(guildID))
}

func (b *Backend) UpsertGuild(ctx context.Context, guild model.Guild) (*model.Guild, error) {
	return upsertNode(ctx, b.conn, "Guild", idKey(guild.ID), guild)
}

func (b *Backend) DeleteGuild(ctx context.Context, guildID snowflake.ID) (*model.Guild, error) {
	return deleteNode[model.Guild](ctx, b.conn, "Guild", idKey(guildID))
}

func (b *Backend) Channel(ctx context.Context, channelID snowflake.ID) (*model.Channel, error) {
	return getNode[model.Channel](ctx, b.conn, "Channel", idKey(channelID))
}

func (b *Backend) UpsertChannel(ctx context.Context, channel model.Channel) (*model.Channel, error) {
	return upsertNode(ctx, b.conn, "Channel", idKey(channel.ID), channel)
}

func (b *Backend) DeleteChannel(ctx context.Context, channelID snowflake.ID) (*model.Channel, error) {
	return deleteNode[model.Channel](ctx, b.conn, "Channel", idKey(channelID))
}

func (b *Backend) DeleteGuildChannels(ctx context.Context, guildID snowflake.ID) ([]model.Channel, error) {
	return deleteNodes[model.Channel](ctx, b.conn, "Channel", guildKey(guildID))
}

func (b *Backend) Role(ctx context.Context, roleID snowflake.ID) (*model.Role, error) {
	return getNode[model.Role](ctx, b.conn, "Role", idKey(roleID))
}

func (b *Backend) UpsertRole(ctx context.Context, role model.Role) (*model.Role, error) {
	return upsertNode(ctx, b.conn, "Role", idKey(role.ID), role)
}

func (b *Backend) DeleteRole(ctx context.Context, roleID snowflake.ID) (*model.Role, error) {
	return deleteNode[model.Role](ctx, b.conn, "Role", idKey(roleID))
}

func (b *Backend) DeleteGuildRoles(ctx context.Context, guildID snowflake.ID) ([]model.Role, error) {
	return deleteNodes[model.Role](ctx, b.conn, "Role", guildKey(guildID))
}

func (b *Backend) User(ctx context.Context, userID snowflake.ID) (*model.User, error) {
	return getNode[model.User](ctx, b.conn, "User", idKey(userID))
}

func (b *Backend) UpsertUser(ctx context.Context, user model.User) (*model.User, error) {
	return upsertNode(ctx, b.conn, "User", idKey(user.ID), user)
}

func (b *Backend) DeleteUser(ctx context.Context, userID snowflake.ID) (*model.User, error) {
	return deleteNode[model.User](ctx, b.conn, "User", idKey(userID))
}

func (b *Backend) Member(ctx context.Context, guildID snowflake.ID, userID snowflake.ID) (*model.Member, error) {
	return getNode[model.Member](ctx, b.conn, "Member", memberKey(guildID, userID))
}

func (b *Backend) UpsertMember(ctx context.Context, member model.Member) (*model.Member, error) {
	return upsertNode(ctx, b.conn, "Member", memberKey(member.GuildID, member.UserID), member)
}

func (b *Backend) DeleteMember(ctx context.Context, guildID snowflake.ID, userID snowflake.ID) (*model.Member, error) {
	return deleteNode[model.Member](ctx, b.conn, "Member", memberKey(guildID, userID))
}

func (b *Backend) DeleteGuildMembers(ctx context.Context, guildID snowflake.ID) ([]model.Member, error) {
	return deleteNodes[model.Member](ctx, b.conn, "Member", guildKey(guildID))
}

func (b *Backend) MemberRoles(ctx context.Context, guildID snowflake.ID, userID snowflake.ID) ([]model.MemberRole, error) {
	return listNodes[model.MemberRole](ctx, b.conn, "MemberRole", memberKey(guildID, userID))
}

func (b *Backend) UpsertMemberRole(ctx context.Context, memberRole model.MemberRole) (*model.MemberRole, error) {
	key := map[string]any{
		"GuildID": memberRole.GuildID,
		"UserID":  memberRole.UserID,
		"RoleID":  memberRole.RoleID,
	}
	return upsertNode(ctx, b.conn, "MemberRole", key, memberRole)
}

func (b *Backend) DeleteMemberRoles(ctx context.Context, guildID snowflake.ID, userID snowflake.ID) ([]model.MemberRole, error) {
	return deleteNodes[model.MemberRole](ctx, b.conn, "MemberRole", memberKey(guildID, userID))
}

func (b *Backend) DeleteRoleMemberRoles(ctx context.Context, guildID snowflake.ID, roleID snowflake.ID) ([]model.MemberRole, error) {
	filter := map[string]any{"GuildID": guildID, "RoleID": roleID}
	return deleteNodes[model.MemberRole](ctx, b.conn, "MemberRole", filter)
}

func (b *Backend) DeleteGuildMemberRoles(ctx context.Context, guildID snowflake.ID) ([]model.MemberRole, error) {
	return deleteNodes[model.MemberRole](ctx, b.conn, "MemberRole", guildKey(guildID))
}

func (b *Backend) Message(ctx context.Context, messageID snowflake.ID) (*model.Message, error) {
	return getNode[model.Message](ctx, b.conn, "Message", idKey(messageID))
}

func (b *Backend) UpsertMessage(ctx context.Context, message model.Message) (*model.Message, error) {
	return upsertNode(ctx, b.conn, "Message", idKey(message.ID), message)
}

func (b *Backend) DeleteMessage(ctx context.Context, messageID snowflake.ID) (*model.Message, error) {
	return deleteNode[model.Message](ctx, b.conn, "Message", idKey(messageID))
}

func (b *Backend) DeleteChannelMessages(ctx context.Context, channelID snowflake.ID) ([]model.Message, error) {
	filter := map[string]any{"ChannelID": channelID}
	return deleteNodes[model.Message](ctx, b.conn, "Message", filter)
}

func (b *Backend) DeleteGuildMessages(ctx context.Context, guildID snowflake.ID) ([]model.Message, error) {
	return deleteNodes[model.Message](ctx, b.conn, "Message", guildKey(guildID))
}

func (b *Backend) Attachments(ctx context.Context, messageID snowflake.ID) ([]model.Attachment, error) {
	return listNodes[model.Attachment](ctx, b.conn, "Attachment", messageKey(messageID))
}

func (b *Backend) UpsertAttachment(ctx context.Context, attachment model.Attachment) (*model.Attachment, error) {
	return upsertNode(ctx, b.conn, "Attachment", idKey(attachment.ID), attachment)
}

func (b *Backend) DeleteMessageAttachments(ctx context.Context, messageID snowflake.ID) ([]model.Attachment, error) {
	return deleteNodes[model.Attachment](ctx, b.conn, "Attachment", messageKey(messageID))
}

func (b *Backend) Embeds(ctx context.Context, messageID snowflake.ID) ([]model.Embed, error) {
	return listNodes[model.Embed](ctx, b.conn, "Embed", messageKey(messageID))
}

func (b *Backend) UpsertEmbed(ctx context.Context, embed model.Embed) (*model.Embed, error) {
	return upsertNode(ctx, b.conn, "Embed", map[string]any{"ID": embed.ID}, embed)
}

func (b *Backend) DeleteMessageEmbeds(ctx context.Context, messageID snowflake.ID) ([]model.Embed, error) {
	return deleteNodes[model.Embed](ctx, b.conn, "Embed", messageKey(messageID))
}

func (b *Backend) EmbedFields(ctx context.Context, embedID string) ([]model.EmbedField, error) {
	return listNodes[model.EmbedField](ctx, b.conn, "EmbedField", map[string]any{"EmbedID": embedID})
}

func (b *Backend) UpsertEmbedField(ctx context.Context, field model.EmbedField) (*model.EmbedField, error) {
	key := map[string]any{"EmbedID": field.EmbedID, "Index": field.Index}
	return upsertNode(ctx, b.conn, "EmbedField", key, field)
}

func (b *Backend) DeleteEmbedFields(ctx context.Context, embedID string) ([]model.EmbedField, error) {
	return deleteNodes[model.EmbedField](ctx, b.conn, "EmbedField", map[string]any{"EmbedID": embedID})
}

func (b *Backend) Reactions(ctx context.Context, messageID snowflake.ID) ([]model.Reaction, error) {
	return listNodes[model.Reaction](ctx, b.conn, "Reaction", messageKey(messageID))
}

func (b *Backend) UpsertReaction(ctx context.Context, reaction model.Reaction) (*model.Reaction, error) {
	key := map[string]any{"MessageID": reaction.MessageID, "Emoji": reaction.Emoji}
	return upsertNode(ctx, b.conn, "Reaction", key, reaction)
}

func (b *Backend) DeleteMessageReactions(ctx context.Context, messageID snowflake.ID) ([]model.Reaction, error) {
	return deleteNodes[model.Reaction](ctx, b.conn, "Reaction", messageKey(messageID))
}

func (b *Backend) MessageStickers(ctx context.Context, messageID snowflake.ID) ([]model.MessageSticker, error) {
	return listNodes[model.MessageSticker](ctx, b.conn, "MessageSticker", messageKey(messageID))
}

func (b *Backend) UpsertMessageSticker(ctx context.Context, sticker model.MessageSticker) (*model.MessageSticker, error) {
	key := map[string]any{"MessageID": sticker.MessageID, "ID": sticker.ID}
	return upsertNode(ctx, b.conn, "MessageSticker", key, sticker)
}

func (b *Backend) DeleteMessageStickers(ctx context.Context, messageID snowflake.ID) ([]model.MessageSticker, error) {
	return deleteNodes[model.MessageSticker](ctx, b.conn, "MessageSticker", messageKey(messageID))
}

func (b *Backend) Emoji(ctx context.Context, emojiID snowflake.ID) (*model.Emoji, error) {
	return getNode[model.Emoji](ctx, b.conn, "Emoji", idKey(emojiID))
}

func (b *Backend) UpsertEmoji(ctx context.Context, emoji model.Emoji) (*model.Emoji, error) {
	return upsertNode(ctx, b.conn, "Emoji", idKey(emoji.ID), emoji)
}

func (b *Backend) DeleteEmoji(ctx context.Context, emojiID snowflake.ID) (*model.Emoji, error) {
	return deleteNode[model.Emoji](ctx, b.conn, "Emoji", idKey(emojiID))
}

func (b *Backend) DeleteGuildEmojis(ctx context.Context, guildID snowflake.ID) ([]model.Emoji, error) {
	return deleteNodes[model.Emoji](ctx, b.conn, "Emoji", guildKey(guildID))
}

func (b *Backend) Sticker(ctx context.Context, stickerID snowflake.ID) (*model.Sticker, error) {
	return getNode[model.Sticker](ctx, b.conn, "Sticker", idKey(stickerID))
}

func (b *Backend) UpsertSticker(ctx context.Context, sticker model.Sticker) (*model.Sticker, error) {
	return upsertNode(ctx, b.conn, "Sticker", idKey(sticker.ID), sticker)
}

func (b *Backend) DeleteSticker(ctx context.Context, stickerID snowflake.ID) (*model.Sticker, error) {
	return deleteNode[model.Sticker](ctx, b.conn, "Sticker", idKey(stickerID))
}

func (b *Backend) DeleteGuildStickers(ctx context.Context, guildID snowflake.ID) ([]model.Sticker, error) {
	return deleteNodes[model.Sticker](ctx, b.conn, "Sticker", guildKey(guildID))
}

func (b *Backend) Presence(ctx context.Context, guildID snowflake.ID, userID snowflake.ID) (*model.Presence, error) {
	return getNode[model.Presence](ctx, b.conn, "Presence", memberKey(guildID, userID))
}

func (b *Backend) UpsertPresence(ctx context.Context, presence model.Presence) (*model.Presence, error) {
	key := memberKey(presence.GuildID, presence.UserID)
	return upsertNode(ctx, b.conn, "Presence", key, presence)
}

func (b *Backend) DeletePresence(ctx context.Context, guildID snowflake.ID, userID snowflake.ID) (*model.Presence, error) {
	return deleteNode[model.Presence](ctx, b.conn, "Presence", memberKey(guildID, userID))
}

func (b *Backend) DeleteGuildPresences(ctx context.Context, guildID snowflake.ID) ([]model.Presence, error) {
	return deleteNodes[model.Presence](ctx, b.conn, "Presence", guildKey(guildID))
}
