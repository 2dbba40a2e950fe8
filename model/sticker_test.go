package model

import (
	"testing"

	"github.com/disgoorg/disgo/discord"
)

func TestNewStickerAvailability(t *testing.T) {
	available := true
	sticker := NewSticker(discord.Sticker{
		ID:        1,
		Name:      "wave",
		Available: &available,
	}, 2)
	if !sticker.Available {
		t.Fatal("available flag not carried over")
	}
	if sticker.GuildID != 2 {
		t.Fatalf("got guild %s, want 2", sticker.GuildID)
	}

	unknown := NewSticker(discord.Sticker{ID: 1, Name: "wave"}, 2)
	if unknown.Available {
		t.Fatal("absent available flag should default to false")
	}
}
