package cache

import (
	"context"
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"

	"github.com/laralove143/sparkle-cache/backend"
	"github.com/laralove143/sparkle-cache/model"
)

// Op is the operation a mutation performs against the backend.
type Op string

const (
	OpUpsert Op = "upsert"
	OpDelete Op = "delete"
)

// Kind is the entity kind a mutation targets.
type Kind string

const (
	KindCurrentUser    Kind = "current_user"
	KindGuild          Kind = "guild"
	KindChannel        Kind = "channel"
	KindRole           Kind = "role"
	KindUser           Kind = "user"
	KindMember         Kind = "member"
	KindMemberRole     Kind = "member_role"
	KindMessage        Kind = "message"
	KindAttachment     Kind = "attachment"
	KindEmbed          Kind = "embed"
	KindEmbedField     Kind = "embed_field"
	KindReaction       Kind = "reaction"
	KindMessageSticker Kind = "message_sticker"
	KindEmoji          Kind = "emoji"
	KindSticker        Kind = "sticker"
	KindPresence       Kind = "presence"
)

// Mutation is one flat backend operation derived from an event. Normalize
// turns an event into an ordered mutation list without touching the backend;
// the cache then applies the list in order.
type Mutation interface {
	Kind() Kind
	Op() Op

	apply(ctx context.Context, b backend.Backend, changes *Changes) error
}

// current user

type upsertCurrentUser struct{ user discord.User }

func (m upsertCurrentUser) Kind() Kind { return KindCurrentUser }
func (m upsertCurrentUser) Op() Op     { return OpUpsert }
func (m upsertCurrentUser) apply(ctx context.Context, b backend.Backend, changes *Changes) error {
	prev, err := b.UpsertCurrentUser(ctx, model.NewUser(m.user))
	if err != nil {
		return fmt.Errorf("upsert current user: %w", err)
	}
	collect(&changes.CurrentUsers, prev)
	return nil
}

// guilds

type upsertGuild struct{ guild discord.Guild }

func (m upsertGuild) Kind() Kind { return KindGuild }
func (m upsertGuild) Op() Op     { return OpUpsert }
func (m upsertGuild) apply(ctx context.Context, b backend.Backend, changes *Changes) error {
	prev, err := b.UpsertGuild(ctx, model.NewGuild(m.guild))
	if err != nil {
		return fmt.Errorf("upsert guild %s: %w", m.guild.ID, err)
	}
	collect(&changes.Guilds, prev)
	return nil
}

type mergeGuild struct{ guild discord.Guild }

func (m mergeGuild) Kind() Kind { return KindGuild }
func (m mergeGuild) Op() Op     { return OpUpsert }
func (m mergeGuild) apply(ctx context.Context, b backend.Backend, changes *Changes) error {
	stored, err := b.Guild(ctx, m.guild.ID)
	if err != nil {
		return fmt.Errorf("get guild %s: %w", m.guild.ID, err)
	}
	merged := model.NewGuild(m.guild)
	if stored != nil {
		merged = *stored
		merged.Update(m.guild)
	}
	prev, err := b.UpsertGuild(ctx, merged)
	if err != nil {
		return fmt.Errorf("upsert guild %s: %w", m.guild.ID, err)
	}
	collect(&changes.Guilds, prev)
	return nil
}

type deleteGuild struct{ guildID snowflake.ID }

func (m deleteGuild) Kind() Kind { return KindGuild }
func (m deleteGuild) Op() Op     { return OpDelete }
func (m deleteGuild) apply(ctx context.Context, b backend.Backend, changes *Changes) error {
	prev, err := b.DeleteGuild(ctx, m.guildID)
	if err != nil {
		return fmt.Errorf("delete guild %s: %w", m.guildID, err)
	}
	collect(&changes.Guilds, prev)
	return nil
}

// channels

type upsertChannel struct{ channel model.Channel }

func (m upsertChannel) Kind() Kind { return KindChannel }
func (m upsertChannel) Op() Op     { return OpUpsert }
func (m upsertChannel) apply(ctx context.Context, b backend.Backend, changes *Changes) error {
	prev, err := b.UpsertChannel(ctx, m.channel)
	if err != nil {
		return fmt.Errorf("upsert channel %s: %w", m.channel.ID, err)
	}
	collect(&changes.Channels, prev)
	return nil
}

type deleteChannel struct{ channelID snowflake.ID }

func (m deleteChannel) Kind() Kind { return KindChannel }
func (m deleteChannel) Op() Op     { return OpDelete }
func (m deleteChannel) apply(ctx context.Context, b backend.Backend, changes *Changes) error {
	prev, err := b.DeleteChannel(ctx, m.channelID)
	if err != nil {
		return fmt.Errorf("delete channel %s: %w", m.channelID, err)
	}
	collect(&changes.Channels, prev)
	return nil
}

type deleteGuildChannels struct{ guildID snowflake.ID }

func (m deleteGuildChannels) Kind() Kind { return KindChannel }
func (m deleteGuildChannels) Op() Op     { return OpDelete }
func (m deleteGuildChannels) apply(ctx context.Context, b backend.Backend, changes *Changes) error {
	prev, err := b.DeleteGuildChannels(ctx, m.guildID)
	if err != nil {
		return fmt.Errorf("delete channels of guild %s: %w", m.guildID, err)
	}
	changes.Channels = append(changes.Channels, prev...)
	return nil
}

// roles

type upsertRole struct {
	guildID snowflake.ID
	role    discord.Role
}

func (m upsertRole) Kind() Kind { return KindRole }
func (m upsertRole) Op() Op     { return OpUpsert }
func (m upsertRole) apply(ctx context.Context, b backend.Backend, changes *Changes) error {
	prev, err := b.UpsertRole(ctx, model.NewRole(m.role, m.guildID))
	if err != nil {
		return fmt.Errorf("upsert role %s: %w", m.role.ID, err)
	}
	collect(&changes.Roles, prev)
	return nil
}

type deleteRole struct{ roleID snowflake.ID }

func (m deleteRole) Kind() Kind { return KindRole }
func (m deleteRole) Op() Op     { return OpDelete }
func (m deleteRole) apply(ctx context.Context, b backend.Backend, changes *Changes) error {
	prev, err := b.DeleteRole(ctx, m.roleID)
	if err != nil {
		return fmt.Errorf("delete role %s: %w", m.roleID, err)
	}
	collect(&changes.Roles, prev)
	return nil
}

type deleteGuildRoles struct{ guildID snowflake.ID }

func (m deleteGuildRoles) Kind() Kind { return KindRole }
func (m deleteGuildRoles) Op() Op     { return OpDelete }
func (m deleteGuildRoles) apply(ctx context.Context, b backend.Backend, changes *Changes) error {
	prev, err := b.DeleteGuildRoles(ctx, m.guildID)
	if err != nil {
		return fmt.Errorf("delete roles of guild %s: %w", m.guildID, err)
	}
	changes.Roles = append(changes.Roles, prev...)
	return nil
}

// users

type upsertUser struct{ user discord.User }

func (m upsertUser) Kind() Kind { return KindUser }
func (m upsertUser) Op() Op     { return OpUpsert }
func (m upsertUser) apply(ctx context.Context, b backend.Backend, changes *Changes) error {
	prev, err := b.UpsertUser(ctx, model.NewUser(m.user))
	if err != nil {
		return fmt.Errorf("upsert user %s: %w", m.user.ID, err)
	}
	collect(&changes.Users, prev)
	return nil
}

// members

type upsertMember struct{ member discord.Member }

func (m upsertMember) Kind() Kind { return KindMember }
func (m upsertMember) Op() Op     { return OpUpsert }
func (m upsertMember) apply(ctx context.Context, b backend.Backend, changes *Changes) error {
	prev, err := b.UpsertMember(ctx, model.NewMember(m.member))
	if err != nil {
		return fmt.Errorf("upsert member %s in guild %s: %w", m.member.User.ID, m.member.GuildID, err)
	}
	collect(&changes.Members, prev)
	return nil
}

type mergeMember struct{ member discord.Member }

func (m mergeMember) Kind() Kind { return KindMember }
func (m mergeMember) Op() Op     { return OpUpsert }
func (m mergeMember) apply(ctx context.Context, b backend.Backend, changes *Changes) error {
	stored, err := b.Member(ctx, m.member.GuildID, m.member.User.ID)
	if err != nil {
		return fmt.Errorf("get member %s in guild %s: %w", m.member.User.ID, m.member.GuildID, err)
	}
	merged := model.NewMember(m.member)
	if stored != nil {
		merged = *stored
		merged.Update(m.member)
	}
	prev, err := b.UpsertMember(ctx, merged)
	if err != nil {
		return fmt.Errorf("upsert member %s in guild %s: %w", m.member.User.ID, m.member.GuildID, err)
	}
	collect(&changes.Members, prev)
	return nil
}

type deleteMember struct{ guildID, userID snowflake.ID }

func (m deleteMember) Kind() Kind { return KindMember }
func (m deleteMember) Op() Op     { return OpDelete }
func (m deleteMember) apply(ctx context.Context, b backend.Backend, changes *Changes) error {
	prev, err := b.DeleteMember(ctx, m.guildID, m.userID)
	if err != nil {
		return fmt.Errorf("delete member %s in guild %s: %w", m.userID, m.guildID, err)
	}
	collect(&changes.Members, prev)
	return nil
}

type deleteGuildMembers struct{ guildID snowflake.ID }

func (m deleteGuildMembers) Kind() Kind { return KindMember }
func (m deleteGuildMembers) Op() Op     { return OpDelete }
func (m deleteGuildMembers) apply(ctx context.Context, b backend.Backend, changes *Changes) error {
	prev, err := b.DeleteGuildMembers(ctx, m.guildID)
	if err != nil {
		return fmt.Errorf("delete members of guild %s: %w", m.guildID, err)
	}
	changes.Members = append(changes.Members, prev...)
	return nil
}

// member role rows

type upsertMemberRole struct{ memberRole model.MemberRole }

func (m upsertMemberRole) Kind() Kind { return KindMemberRole }
func (m upsertMemberRole) Op() Op     { return OpUpsert }
func (m upsertMemberRole) apply(ctx context.Context, b backend.Backend, changes *Changes) error {
	prev, err := b.UpsertMemberRole(ctx, m.memberRole)
	if err != nil {
		return fmt.Errorf("upsert role %s of member %s in guild %s: %w",
			m.memberRole.RoleID, m.memberRole.UserID, m.memberRole.GuildID, err)
	}
	collect(&changes.MemberRoles, prev)
	return nil
}

type deleteMemberRoles struct{ guildID, userID snowflake.ID }

func (m deleteMemberRoles) Kind() Kind { return KindMemberRole }
func (m deleteMemberRoles) Op() Op     { return OpDelete }
func (m deleteMemberRoles) apply(ctx context.Context, b backend.Backend, changes *Changes) error {
	prev, err := b.DeleteMemberRoles(ctx, m.guildID, m.userID)
	if err != nil {
		return fmt.Errorf("delete roles of member %s in guild %s: %w", m.userID, m.guildID, err)
	}
	changes.MemberRoles = append(changes.MemberRoles, prev...)
	return nil
}

type deleteRoleMemberRoles struct{ guildID, roleID snowflake.ID }

func (m deleteRoleMemberRoles) Kind() Kind { return KindMemberRole }
func (m deleteRoleMemberRoles) Op() Op     { return OpDelete }
func (m deleteRoleMemberRoles) apply(ctx context.Context, b backend.Backend, changes *Changes) error {
	prev, err := b.DeleteRoleMemberRoles(ctx, m.guildID, m.roleID)
	if err != nil {
		return fmt.Errorf("delete member rows of role %s in guild %s: %w", m.roleID, m.guildID, err)
	}
	changes.MemberRoles = append(changes.MemberRoles, prev...)
	return nil
}

type deleteGuildMemberRoles struct{ guildID snowflake.ID }

func (m deleteGuildMemberRoles) Kind() Kind { return KindMemberRole }
func (m deleteGuildMemberRoles) Op() Op     { return OpDelete }
func (m deleteGuildMemberRoles) apply(ctx context.Context, b backend.Backend, changes *Changes) error {
	prev, err := b.DeleteGuildMemberRoles(ctx, m.guildID)
	if err != nil {
		return fmt.Errorf("delete member roles of guild %s: %w", m.guildID, err)
	}
	changes.MemberRoles = append(changes.MemberRoles, prev...)
	return nil
}

// messages

type upsertMessage struct{ message discord.Message }

func (m upsertMessage) Kind() Kind { return KindMessage }
func (m upsertMessage) Op() Op     { return OpUpsert }
func (m upsertMessage) apply(ctx context.Context, b backend.Backend, changes *Changes) error {
	prev, err := b.UpsertMessage(ctx, model.NewMessage(m.message))
	if err != nil {
		return fmt.Errorf("upsert message %s: %w", m.message.ID, err)
	}
	collect(&changes.Messages, prev)
	return nil
}

type mergeMessage struct{ message discord.Message }

func (m mergeMessage) Kind() Kind { return KindMessage }
func (m mergeMessage) Op() Op     { return OpUpsert }
func (m mergeMessage) apply(ctx context.Context, b backend.Backend, changes *Changes) error {
	stored, err := b.Message(ctx, m.message.ID)
	if err != nil {
		return fmt.Errorf("get message %s: %w", m.message.ID, err)
	}
	merged := model.NewMessage(m.message)
	if stored != nil {
		merged = *stored
		merged.Update(m.message)
	}
	prev, err := b.UpsertMessage(ctx, merged)
	if err != nil {
		return fmt.Errorf("upsert message %s: %w", m.message.ID, err)
	}
	collect(&changes.Messages, prev)
	return nil
}

type deleteMessage struct{ messageID snowflake.ID }

func (m deleteMessage) Kind() Kind { return KindMessage }
func (m deleteMessage) Op() Op     { return OpDelete }
func (m deleteMessage) apply(ctx context.Context, b backend.Backend, changes *Changes) error {
	prev, err := b.DeleteMessage(ctx, m.messageID)
	if err != nil {
		return fmt.Errorf("delete message %s: %w", m.messageID, err)
	}
	collect(&changes.Messages, prev)
	return nil
}

type deleteChannelMessages struct{ channelID snowflake.ID }

func (m deleteChannelMessages) Kind() Kind { return KindMessage }
func (m deleteChannelMessages) Op() Op     { return OpDelete }
func (m deleteChannelMessages) apply(ctx context.Context, b backend.Backend, changes *Changes) error {
	prev, err := b.DeleteChannelMessages(ctx, m.channelID)
	if err != nil {
		return fmt.Errorf("delete messages of channel %s: %w", m.channelID, err)
	}
	changes.Messages = append(changes.Messages, prev...)
	return nil
}

type deleteGuildMessages struct{ guildID snowflake.ID }

func (m deleteGuildMessages) Kind() Kind { return KindMessage }
func (m deleteGuildMessages) Op() Op     { return OpDelete }
func (m deleteGuildMessages) apply(ctx context.Context, b backend.Backend, changes *Changes) error {
	prev, err := b.DeleteGuildMessages(ctx, m.guildID)
	if err != nil {
		return fmt.Errorf("delete messages of guild %s: %w", m.guildID, err)
	}
	changes.Messages = append(changes.Messages, prev...)
	return nil
}

// message children

type upsertAttachment struct{ attachment model.Attachment }

func (m upsertAttachment) Kind() Kind { return KindAttachment }
func (m upsertAttachment) Op() Op     { return OpUpsert }
func (m upsertAttachment) apply(ctx context.Context, b backend.Backend, changes *Changes) error {
	prev, err := b.UpsertAttachment(ctx, m.attachment)
	if err != nil {
		return fmt.Errorf("upsert attachment %s: %w", m.attachment.ID, err)
	}
	collect(&changes.Attachments, prev)
	return nil
}

type deleteMessageAttachments struct{ messageID snowflake.ID }

func (m deleteMessageAttachments) Kind() Kind { return KindAttachment }
func (m deleteMessageAttachments) Op() Op     { return OpDelete }
func (m deleteMessageAttachments) apply(ctx context.Context, b backend.Backend, changes *Changes) error {
	prev, err := b.DeleteMessageAttachments(ctx, m.messageID)
	if err != nil {
		return fmt.Errorf("delete attachments of message %s: %w", m.messageID, err)
	}
	changes.Attachments = append(changes.Attachments, prev...)
	return nil
}

type upsertEmbed struct{ embed model.Embed }

func (m upsertEmbed) Kind() Kind { return KindEmbed }
func (m upsertEmbed) Op() Op     { return OpUpsert }
func (m upsertEmbed) apply(ctx context.Context, b backend.Backend, changes *Changes) error {
	prev, err := b.UpsertEmbed(ctx, m.embed)
	if err != nil {
		return fmt.Errorf("upsert embed of message %s: %w", m.embed.MessageID, err)
	}
	collect(&changes.Embeds, prev)
	return nil
}

type upsertEmbedField struct{ field model.EmbedField }

func (m upsertEmbedField) Kind() Kind { return KindEmbedField }
func (m upsertEmbedField) Op() Op     { return OpUpsert }
func (m upsertEmbedField) apply(ctx context.Context, b backend.Backend, changes *Changes) error {
	prev, err := b.UpsertEmbedField(ctx, m.field)
	if err != nil {
		return fmt.Errorf("upsert field %d of embed %s: %w", m.field.Index, m.field.EmbedID, err)
	}
	collect(&changes.EmbedFields, prev)
	return nil
}

// deleteMessageEmbeds removes a message's embeds and, field rows first,
// everything hanging off them. Embed IDs are generated at caching time, so
// the rows to remove are only known by asking the backend.
type deleteMessageEmbeds struct{ messageID snowflake.ID }

func (m deleteMessageEmbeds) Kind() Kind { return KindEmbed }
func (m deleteMessageEmbeds) Op() Op     { return OpDelete }
func (m deleteMessageEmbeds) apply(ctx context.Context, b backend.Backend, changes *Changes) error {
	embeds, err := b.Embeds(ctx, m.messageID)
	if err != nil {
		return fmt.Errorf("get embeds of message %s: %w", m.messageID, err)
	}
	for _, embed := range embeds {
		fields, err := b.DeleteEmbedFields(ctx, embed.ID)
		if err != nil {
			return fmt.Errorf("delete fields of embed %s: %w", embed.ID, err)
		}
		changes.EmbedFields = append(changes.EmbedFields, fields...)
	}
	prev, err := b.DeleteMessageEmbeds(ctx, m.messageID)
	if err != nil {
		return fmt.Errorf("delete embeds of message %s: %w", m.messageID, err)
	}
	changes.Embeds = append(changes.Embeds, prev...)
	return nil
}

type upsertReaction struct{ reaction model.Reaction }

func (m upsertReaction) Kind() Kind { return KindReaction }
func (m upsertReaction) Op() Op     { return OpUpsert }
func (m upsertReaction) apply(ctx context.Context, b backend.Backend, changes *Changes) error {
	prev, err := b.UpsertReaction(ctx, m.reaction)
	if err != nil {
		return fmt.Errorf("upsert reaction %q of message %s: %w", m.reaction.Emoji, m.reaction.MessageID, err)
	}
	collect(&changes.Reactions, prev)
	return nil
}

type deleteMessageReactions struct{ messageID snowflake.ID }

func (m deleteMessageReactions) Kind() Kind { return KindReaction }
func (m deleteMessageReactions) Op() Op     { return OpDelete }
func (m deleteMessageReactions) apply(ctx context.Context, b backend.Backend, changes *Changes) error {
	prev, err := b.DeleteMessageReactions(ctx, m.messageID)
	if err != nil {
		return fmt.Errorf("delete reactions of message %s: %w", m.messageID, err)
	}
	changes.Reactions = append(changes.Reactions, prev...)
	return nil
}

type upsertMessageSticker struct{ sticker model.MessageSticker }

func (m upsertMessageSticker) Kind() Kind { return KindMessageSticker }
func (m upsertMessageSticker) Op() Op     { return OpUpsert }
func (m upsertMessageSticker) apply(ctx context.Context, b backend.Backend, changes *Changes) error {
	prev, err := b.UpsertMessageSticker(ctx, m.sticker)
	if err != nil {
		return fmt.Errorf("upsert sticker %s of message %s: %w", m.sticker.ID, m.sticker.MessageID, err)
	}
	collect(&changes.MessageStickers, prev)
	return nil
}

type deleteMessageStickers struct{ messageID snowflake.ID }

func (m deleteMessageStickers) Kind() Kind { return KindMessageSticker }
func (m deleteMessageStickers) Op() Op     { return OpDelete }
func (m deleteMessageStickers) apply(ctx context.Context, b backend.Backend, changes *Changes) error {
	prev, err := b.DeleteMessageStickers(ctx, m.messageID)
	if err != nil {
		return fmt.Errorf("delete stickers of message %s: %w", m.messageID, err)
	}
	changes.MessageStickers = append(changes.MessageStickers, prev...)
	return nil
}

// emojis

type upsertEmoji struct {
	guildID snowflake.ID
	emoji   discord.Emoji
}

func (m upsertEmoji) Kind() Kind { return KindEmoji }
func (m upsertEmoji) Op() Op     { return OpUpsert }
func (m upsertEmoji) apply(ctx context.Context, b backend.Backend, changes *Changes) error {
	prev, err := b.UpsertEmoji(ctx, model.NewEmoji(m.emoji, m.guildID))
	if err != nil {
		return fmt.Errorf("upsert emoji %s: %w", m.emoji.ID, err)
	}
	collect(&changes.Emojis, prev)
	return nil
}

type deleteGuildEmojis struct{ guildID snowflake.ID }

func (m deleteGuildEmojis) Kind() Kind { return KindEmoji }
func (m deleteGuildEmojis) Op() Op     { return OpDelete }
func (m deleteGuildEmojis) apply(ctx context.Context, b backend.Backend, changes *Changes) error {
	prev, err := b.DeleteGuildEmojis(ctx, m.guildID)
	if err != nil {
		return fmt.Errorf("delete emojis of guild %s: %w", m.guildID, err)
	}
	changes.Emojis = append(changes.Emojis, prev...)
	return nil
}

// stickers

type upsertSticker struct {
	guildID snowflake.ID
	sticker discord.Sticker
}

func (m upsertSticker) Kind() Kind { return KindSticker }
func (m upsertSticker) Op() Op     { return OpUpsert }
func (m upsertSticker) apply(ctx context.Context, b backend.Backend, changes *Changes) error {
	prev, err := b.UpsertSticker(ctx, model.NewSticker(m.sticker, m.guildID))
	if err != nil {
		return fmt.Errorf("upsert sticker %s: %w", m.sticker.ID, err)
	}
	collect(&changes.Stickers, prev)
	return nil
}

type deleteGuildStickers struct{ guildID snowflake.ID }

func (m deleteGuildStickers) Kind() Kind { return KindSticker }
func (m deleteGuildStickers) Op() Op     { return OpDelete }
func (m deleteGuildStickers) apply(ctx context.Context, b backend.Backend, changes *Changes) error {
	prev, err := b.DeleteGuildStickers(ctx, m.guildID)
	if err != nil {
		return fmt.Errorf("delete stickers of guild %s: %w", m.guildID, err)
	}
	changes.Stickers = append(changes.Stickers, prev...)
	return nil
}

// presences

type upsertPresence struct{ presence discord.Presence }

func (m upsertPresence) Kind() Kind { return KindPresence }
func (m upsertPresence) Op() Op     { return OpUpsert }
func (m upsertPresence) apply(ctx context.Context, b backend.Backend, changes *Changes) error {
	cached := model.NewPresence(m.presence)
	prev, err := b.UpsertPresence(ctx, cached)
	if err != nil {
		return fmt.Errorf("upsert presence of user %s in guild %s: %w", cached.UserID, cached.GuildID, err)
	}
	collect(&changes.Presences, prev)
	return nil
}

type deleteGuildPresences struct{ guildID snowflake.ID }

func (m deleteGuildPresences) Kind() Kind { return KindPresence }
func (m deleteGuildPresences) Op() Op     { return OpDelete }
func (m deleteGuildPresences) apply(ctx context.Context, b backend.Backend, changes *Changes) error {
	prev, err := b.DeleteGuildPresences(ctx, m.guildID)
	if err != nil {
		return fmt.Errorf("delete presences of guild %s: %w", m.guildID, err)
	}
	changes.Presences = append(changes.Presences, prev...)
	return nil
}
