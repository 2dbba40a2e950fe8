package model

import (
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
)

// Message is the cached form of a message. Attachments, embeds, reactions
// and stickers are cached as their own rows keyed by the message ID;
// components, interactions and mention lists are not cached.
type Message struct {
	ID                 snowflake.ID
	ChannelID          snowflake.ID
	GuildID            *snowflake.ID
	AuthorID           snowflake.ID
	Content            string
	CreatedAt          time.Time
	EditedAt           *time.Time
	Kind               discord.MessageType
	Flags              discord.MessageFlags
	Pinned             bool
	TTS                bool
	MentionEveryone    bool
	WebhookID          *snowflake.ID
	ApplicationID      *snowflake.ID
	ReferenceChannelID *snowflake.ID
	ReferenceGuildID   *snowflake.ID
	ReferenceMessageID *snowflake.ID
}

// NewMessage builds a cached message from the event payload.
func NewMessage(message discord.Message) Message {
	cached := Message{
		ID:              message.ID,
		ChannelID:       message.ChannelID,
		GuildID:         message.GuildID,
		AuthorID:        message.Author.ID,
		Content:         message.Content,
		CreatedAt:       message.CreatedAt,
		EditedAt:        message.EditedTimestamp,
		Kind:            message.Type,
		Flags:           message.Flags,
		Pinned:          message.Pinned,
		TTS:             message.TTS,
		MentionEveryone: message.MentionEveryone,
		WebhookID:       message.WebhookID,
		ApplicationID:   message.ApplicationID,
	}
	if ref := message.MessageReference; ref != nil {
		cached.ReferenceChannelID = ref.ChannelID
		cached.ReferenceGuildID = ref.GuildID
		cached.ReferenceMessageID = ref.MessageID
	}
	return cached
}

// Update merges a message update into the cached message. Message updates
// are partial, Discord only sends the fields that changed.
//
// Merge table:
//   - Content: overwritten when non-empty, an empty content is
//     indistinguishable from an absent one and keeps the stored value
//   - EditedAt: overwritten when present
//   - Flags, Pinned, MentionEveryone: always overwritten
//   - everything else: keeps the stored value
func (m *Message) Update(message discord.Message) {
	if message.Content != "" {
		m.Content = message.Content
	}
	if message.EditedTimestamp != nil {
		m.EditedAt = message.EditedTimestamp
	}
	m.Flags = message.Flags
	m.Pinned = message.Pinned
	m.MentionEveryone = message.MentionEveryone
}

// Attachment is one attachment row of a message.
type Attachment struct {
	ID          snowflake.ID
	MessageID   snowflake.ID
	Filename    string
	Description *string
	ContentType *string
	Size        int
	URL         string
	ProxyURL    string
	Height      *int
	Width       *int
}

// NewAttachment builds a cached attachment from the payload and its message
// ID.
func NewAttachment(attachment discord.Attachment, messageID snowflake.ID) Attachment {
	return Attachment{
		ID:          attachment.ID,
		MessageID:   messageID,
		Filename:    attachment.Filename,
		Description: attachment.Description,
		ContentType: attachment.ContentType,
		Size:        int(attachment.Size),
		URL:         attachment.URL,
		ProxyURL:    attachment.ProxyURL,
		Height:      attachment.Height,
		Width:       attachment.Width,
	}
}

// Embed is one embed row of a message. Discord gives embeds no ID, so one is
// generated on creation to let EmbedField rows point at their embed. The
// author, footer, image, thumbnail, video and provider sub-objects are
// flattened into plain fields.
type Embed struct {
	ID                string
	MessageID         snowflake.ID
	Kind              discord.EmbedType
	Title             string
	Description       string
	URL               string
	Timestamp         *time.Time
	Color             int
	FooterText        string
	FooterIconURL     string
	AuthorName        string
	AuthorURL         string
	AuthorIconURL     string
	ProviderName      string
	ProviderURL       string
	ImageURL          string
	ImageProxyURL     string
	ImageHeight       int
	ImageWidth        int
	ThumbnailURL      string
	ThumbnailProxyURL string
	VideoURL          string
	VideoProxyURL     string
}

// EmbedField is one field row of an embed, keyed by (EmbedID, Index).
type EmbedField struct {
	EmbedID string
	Index   int
	Name    string
	Value   string
	Inline  bool
}

// NewEmbed builds a cached embed with a fresh ID, returning its field rows
// alongside it.
func NewEmbed(embed discord.Embed, messageID snowflake.ID) (Embed, []EmbedField) {
	cached := Embed{
		ID:          uuid.NewString(),
		MessageID:   messageID,
		Kind:        embed.Type,
		Title:       embed.Title,
		Description: embed.Description,
		URL:         embed.URL,
		Timestamp:   embed.Timestamp,
		Color:       embed.Color,
	}
	if footer := embed.Footer; footer != nil {
		cached.FooterText = footer.Text
		cached.FooterIconURL = footer.IconURL
	}
	if author := embed.Author; author != nil {
		cached.AuthorName = author.Name
		cached.AuthorURL = author.URL
		cached.AuthorIconURL = author.IconURL
	}
	if provider := embed.Provider; provider != nil {
		cached.ProviderName = provider.Name
		cached.ProviderURL = provider.URL
	}
	if image := embed.Image; image != nil {
		cached.ImageURL = image.URL
		cached.ImageProxyURL = image.ProxyURL
		cached.ImageHeight = image.Height
		cached.ImageWidth = image.Width
	}
	if thumbnail := embed.Thumbnail; thumbnail != nil {
		cached.ThumbnailURL = thumbnail.URL
		cached.ThumbnailProxyURL = thumbnail.ProxyURL
	}
	if video := embed.Video; video != nil {
		cached.VideoURL = video.URL
		cached.VideoProxyURL = video.ProxyURL
	}

	fields := make([]EmbedField, 0, len(embed.Fields))
	for i, field := range embed.Fields {
		cachedField := EmbedField{
			EmbedID: cached.ID,
			Index:   i,
			Name:    field.Name,
			Value:   field.Value,
		}
		if field.Inline != nil {
			cachedField.Inline = *field.Inline
		}
		fields = append(fields, cachedField)
	}
	return cached, fields
}

// Reaction is one reaction row of a message, keyed by (MessageID, Emoji).
// Emoji is the custom emoji's ID or the unicode emoji itself.
type Reaction struct {
	MessageID snowflake.ID
	Emoji     string
	Count     int
	Me        bool
}

// NewReaction builds a cached reaction from the payload and its message ID.
func NewReaction(reaction discord.MessageReaction, messageID snowflake.ID) Reaction {
	cached := Reaction{
		MessageID: messageID,
		Count:     reaction.Count,
		Me:        reaction.Me,
	}
	if reaction.Emoji.ID != 0 {
		cached.Emoji = reaction.Emoji.ID.String()
	} else {
		cached.Emoji = reaction.Emoji.Name
	}
	return cached
}

// MessageSticker is one sticker row of a message, keyed by (MessageID, ID).
type MessageSticker struct {
	ID         snowflake.ID
	MessageID  snowflake.ID
	Name       string
	FormatType discord.StickerFormatType
}

// NewMessageSticker builds a cached message sticker from the payload and its
// message ID.
func NewMessageSticker(sticker discord.MessageSticker, messageID snowflake.ID) MessageSticker {
	return MessageSticker{
		ID:         sticker.ID,
		MessageID:  messageID,
		Name:       sticker.Name,
		FormatType: sticker.FormatType,
	}
}
