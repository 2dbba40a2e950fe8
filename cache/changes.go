package cache

import "github.com/laralove143/sparkle-cache/model"

// Changes holds the state each mutated record had immediately before an
// event was applied, one slice per entity kind in mutation order. Records
// that did not exist before the event do not appear, so a create of a brand
// new entity yields an empty Changes.
//
// When a handler returns an error the Changes hold whatever was collected
// before the failing backend call; those mutations have been applied and are
// not rolled back.
type Changes struct {
	CurrentUsers    []model.User
	Guilds          []model.Guild
	Channels        []model.Channel
	Roles           []model.Role
	Users           []model.User
	Members         []model.Member
	MemberRoles     []model.MemberRole
	Messages        []model.Message
	Attachments     []model.Attachment
	Embeds          []model.Embed
	EmbedFields     []model.EmbedField
	Reactions       []model.Reaction
	MessageStickers []model.MessageSticker
	Emojis          []model.Emoji
	Stickers        []model.Sticker
	Presences       []model.Presence
}

// IsEmpty reports whether no previous state was collected.
func (c *Changes) IsEmpty() bool {
	return len(c.CurrentUsers) == 0 &&
		len(c.Guilds) == 0 &&
		len(c.Channels) == 0 &&
		len(c.Roles) == 0 &&
		len(c.Users) == 0 &&
		len(c.Members) == 0 &&
		len(c.MemberRoles) == 0 &&
		len(c.Messages) == 0 &&
		len(c.Attachments) == 0 &&
		len(c.Embeds) == 0 &&
		len(c.EmbedFields) == 0 &&
		len(c.Reactions) == 0 &&
		len(c.MessageStickers) == 0 &&
		len(c.Emojis) == 0 &&
		len(c.Stickers) == 0 &&
		len(c.Presences) == 0
}

func collect[T any](into *[]T, prev *T) {
	if prev != nil {
		*into = append(*into, *prev)
	}
}
