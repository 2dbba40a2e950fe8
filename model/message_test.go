package model

import (
	"testing"
	"time"

	"github.com/disgoorg/disgo/discord"
)

func TestMessageUpdateKeepsContentWhenAbsent(t *testing.T) {
	message := NewMessage(discord.Message{
		ID:        1,
		ChannelID: 2,
		Author:    discord.User{ID: 3},
		Content:   "hello",
	})

	edited := time.Now()
	message.Update(discord.Message{
		ID:              1,
		ChannelID:       2,
		EditedTimestamp: &edited,
		Pinned:          true,
	})

	if message.Content != "hello" {
		t.Fatalf("got %q, want hello", message.Content)
	}
	if message.EditedAt == nil {
		t.Fatal("edited timestamp not merged")
	}
	if !message.Pinned {
		t.Fatal("pinned flag not merged")
	}
}

func TestMessageUpdateOverwritesContent(t *testing.T) {
	message := NewMessage(discord.Message{ID: 1, ChannelID: 2, Content: "hello"})

	message.Update(discord.Message{ID: 1, ChannelID: 2, Content: "edited"})

	if message.Content != "edited" {
		t.Fatalf("got %q, want edited", message.Content)
	}
}

func TestNewEmbedGeneratesDistinctIDs(t *testing.T) {
	embed := discord.Embed{
		Title: "title",
		Fields: []discord.EmbedField{
			{Name: "first", Value: "1"},
			{Name: "second", Value: "2"},
		},
	}

	one, oneFields := NewEmbed(embed, 1)
	two, _ := NewEmbed(embed, 1)

	if one.ID == "" || one.ID == two.ID {
		t.Fatalf("embed IDs not distinct: %q and %q", one.ID, two.ID)
	}
	if len(oneFields) != 2 {
		t.Fatalf("got %d field rows, want 2", len(oneFields))
	}
	for i, field := range oneFields {
		if field.EmbedID != one.ID {
			t.Fatalf("field row points at %q, want %q", field.EmbedID, one.ID)
		}
		if field.Index != i {
			t.Fatalf("got index %d, want %d", field.Index, i)
		}
	}
}

func TestNewReactionUsesEmojiIDOverName(t *testing.T) {
	custom := NewReaction(discord.MessageReaction{
		Count: 1,
		Emoji: discord.Emoji{ID: 40, Name: "fire"},
	}, 1)
	if custom.Emoji != "40" {
		t.Fatalf("got %q, want 40", custom.Emoji)
	}

	unicode := NewReaction(discord.MessageReaction{
		Count: 1,
		Emoji: discord.Emoji{Name: "🔥"},
	}, 1)
	if unicode.Emoji != "🔥" {
		t.Fatalf("got %q, want 🔥", unicode.Emoji)
	}
}
