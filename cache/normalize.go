package cache

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/snowflake/v2"

	"github.com/laralove143/sparkle-cache/model"
)

// Normalize turns a gateway event into the ordered mutation list that
// applying the event means. It never touches the backend, so cascades can be
// inspected and tested as plain values.
//
// Create cascades put the parent before its children, delete cascades put
// the children before their parent, so a reader observing intermediate state
// never sees a child whose parent is gone.
//
// Events about entities the cache has no model for (threads, voice states,
// stage instances, ...) return nil: they produce no backend calls and no
// error.
func Normalize(event gateway.EventData) []Mutation {
	switch e := event.(type) {
	case gateway.EventReady:
		return normalizeCurrentUser(e.User)
	case gateway.EventUserUpdate:
		return normalizeCurrentUser(e.OAuth2User)
	case gateway.EventGuildCreate:
		return normalizeGuildCreate(e.GatewayGuild)
	case gateway.EventGuildUpdate:
		return []Mutation{mergeGuild{e.Guild}}
	case gateway.EventGuildDelete:
		// An unavailable guild is a Discord outage, not a removal; the
		// cached state stays.
		if e.Unavailable {
			return nil
		}
		return normalizeGuildDelete(e.ID)
	case gateway.EventChannelCreate:
		return normalizeChannel(e.GuildChannel)
	case gateway.EventChannelUpdate:
		return normalizeChannel(e.GuildChannel)
	case gateway.EventChannelDelete:
		return normalizeChannelDelete(e.GuildChannel.ID())
	case gateway.EventGuildRoleCreate:
		return []Mutation{upsertRole{e.GuildID, e.Role}}
	case gateway.EventGuildRoleUpdate:
		return []Mutation{upsertRole{e.GuildID, e.Role}}
	case gateway.EventGuildRoleDelete:
		return normalizeRoleDelete(e.GuildID, e.RoleID)
	case gateway.EventGuildMemberAdd:
		return normalizeMember(e.Member, false)
	case gateway.EventGuildMemberUpdate:
		return normalizeMember(e.Member, true)
	case gateway.EventGuildMemberRemove:
		return normalizeMemberRemove(e.GuildID, e.User.ID)
	case gateway.EventGuildMembersChunk:
		var mutations []Mutation
		for _, member := range e.Members {
			member.GuildID = e.GuildID
			mutations = append(mutations, normalizeMember(member, false)...)
		}
		return mutations
	case gateway.EventGuildEmojisUpdate:
		return normalizeEmojisUpdate(e.GuildID, e.Emojis)
	case gateway.EventGuildStickersUpdate:
		return normalizeStickersUpdate(e.GuildID, e.Stickers)
	case gateway.EventMessageCreate:
		return normalizeMessageCreate(e.Message)
	case gateway.EventMessageUpdate:
		return normalizeMessageUpdate(e.Message)
	case gateway.EventMessageDelete:
		return normalizeMessageDelete(e.ID)
	case gateway.EventMessageDeleteBulk:
		var mutations []Mutation
		for _, messageID := range e.IDs {
			mutations = append(mutations, normalizeMessageDelete(messageID)...)
		}
		return mutations
	case gateway.EventPresenceUpdate:
		return []Mutation{upsertPresence{e.Presence}}
	default:
		return nil
	}
}

func normalizeCurrentUser(user discord.OAuth2User) []Mutation {
	return []Mutation{
		upsertCurrentUser{user.User},
		upsertUser{user.User},
	}
}

func normalizeGuildCreate(guild discord.GatewayGuild) []Mutation {
	mutations := []Mutation{upsertGuild{guild.Guild}}
	for _, role := range guild.Roles {
		mutations = append(mutations, upsertRole{guild.ID, role})
	}
	for _, channel := range guild.Channels {
		cached := model.NewChannel(channel)
		// guild create payloads omit guild_id on nested channels
		if cached.GuildID == 0 {
			cached.GuildID = guild.ID
		}
		mutations = append(mutations, upsertChannel{cached})
	}
	for _, emoji := range guild.Emojis {
		mutations = append(mutations, upsertEmoji{guild.ID, emoji})
	}
	for _, sticker := range guild.Stickers {
		mutations = append(mutations, upsertSticker{guild.ID, sticker})
	}
	for _, member := range guild.Members {
		member.GuildID = guild.ID
		mutations = append(mutations, normalizeMember(member, false)...)
	}
	for _, presence := range guild.Presences {
		presence.GuildID = guild.ID
		mutations = append(mutations, upsertPresence{presence})
	}
	return mutations
}

// normalizeGuildDelete removes everything keyed by the guild, children
// before the guild itself. Message child rows (attachments, embeds,
// reactions, message stickers) carry only a message ID, so they are not
// reachable from a guild scope and stay behind; they are only removed
// through explicit message deletes.
func normalizeGuildDelete(guildID snowflake.ID) []Mutation {
	return []Mutation{
		deleteGuildPresences{guildID},
		deleteGuildMemberRoles{guildID},
		deleteGuildMembers{guildID},
		deleteGuildMessages{guildID},
		deleteGuildEmojis{guildID},
		deleteGuildStickers{guildID},
		deleteGuildChannels{guildID},
		deleteGuildRoles{guildID},
		deleteGuild{guildID},
	}
}

func normalizeChannel(channel discord.GuildChannel) []Mutation {
	return []Mutation{upsertChannel{model.NewChannel(channel)}}
}

func normalizeChannelDelete(channelID snowflake.ID) []Mutation {
	return []Mutation{
		deleteChannelMessages{channelID},
		deleteChannel{channelID},
	}
}

func normalizeRoleDelete(guildID snowflake.ID, roleID snowflake.ID) []Mutation {
	return []Mutation{
		deleteRoleMemberRoles{guildID, roleID},
		deleteRole{roleID},
	}
}

// normalizeMember caches the member's user, the member itself and its role
// rows. The stored role rows are replaced wholesale because the event
// carries the complete role list.
func normalizeMember(member discord.Member, merge bool) []Mutation {
	mutations := []Mutation{upsertUser{member.User}}
	if merge {
		mutations = append(mutations, mergeMember{member})
	} else {
		mutations = append(mutations, upsertMember{member})
	}
	mutations = append(mutations, deleteMemberRoles{member.GuildID, member.User.ID})
	for _, memberRole := range model.NewMemberRoles(member) {
		mutations = append(mutations, upsertMemberRole{memberRole})
	}
	return mutations
}

func normalizeMemberRemove(guildID snowflake.ID, userID snowflake.ID) []Mutation {
	return []Mutation{
		deleteMemberRoles{guildID, userID},
		deleteMember{guildID, userID},
	}
}

func normalizeEmojisUpdate(guildID snowflake.ID, emojis []discord.Emoji) []Mutation {
	mutations := []Mutation{deleteGuildEmojis{guildID}}
	for _, emoji := range emojis {
		mutations = append(mutations, upsertEmoji{guildID, emoji})
	}
	return mutations
}

func normalizeStickersUpdate(guildID snowflake.ID, stickers []discord.Sticker) []Mutation {
	mutations := []Mutation{deleteGuildStickers{guildID}}
	for _, sticker := range stickers {
		mutations = append(mutations, upsertSticker{guildID, sticker})
	}
	return mutations
}

func normalizeMessageCreate(message discord.Message) []Mutation {
	mutations := []Mutation{
		upsertUser{message.Author},
		upsertMessage{message},
	}
	mutations = append(mutations, normalizeMessageChildren(message)...)
	return mutations
}

// normalizeMessageUpdate merges the partial message and replaces the child
// rows of each kind the payload carries, wholesale; an absent kind keeps its
// cached rows. Embed rows get fresh IDs on every insert.
func normalizeMessageUpdate(message discord.Message) []Mutation {
	var mutations []Mutation
	if message.Author.ID != 0 {
		mutations = append(mutations, upsertUser{message.Author})
	}
	mutations = append(mutations, mergeMessage{message})
	if len(message.Attachments) > 0 {
		mutations = append(mutations, deleteMessageAttachments{message.ID})
		for _, attachment := range message.Attachments {
			mutations = append(mutations, upsertAttachment{model.NewAttachment(attachment, message.ID)})
		}
	}
	if len(message.Embeds) > 0 {
		mutations = append(mutations, deleteMessageEmbeds{message.ID})
		for _, embed := range message.Embeds {
			cached, fields := model.NewEmbed(embed, message.ID)
			mutations = append(mutations, upsertEmbed{cached})
			for _, field := range fields {
				mutations = append(mutations, upsertEmbedField{field})
			}
		}
	}
	return mutations
}

func normalizeMessageChildren(message discord.Message) []Mutation {
	var mutations []Mutation
	for _, attachment := range message.Attachments {
		mutations = append(mutations, upsertAttachment{model.NewAttachment(attachment, message.ID)})
	}
	for _, embed := range message.Embeds {
		cached, fields := model.NewEmbed(embed, message.ID)
		mutations = append(mutations, upsertEmbed{cached})
		for _, field := range fields {
			mutations = append(mutations, upsertEmbedField{field})
		}
	}
	for _, reaction := range message.Reactions {
		mutations = append(mutations, upsertReaction{model.NewReaction(reaction, message.ID)})
	}
	for _, sticker := range message.StickerItems {
		mutations = append(mutations, upsertMessageSticker{model.NewMessageSticker(sticker, message.ID)})
	}
	return mutations
}

func normalizeMessageDelete(messageID snowflake.ID) []Mutation {
	return []Mutation{
		deleteMessageEmbeds{messageID},
		deleteMessageAttachments{messageID},
		deleteMessageReactions{messageID},
		deleteMessageStickers{messageID},
		deleteMessage{messageID},
	}
}
