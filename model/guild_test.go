package model

import (
	"testing"

	"github.com/disgoorg/disgo/discord"
)

func TestGuildUpdateReplaces(t *testing.T) {
	guild := NewGuild(discord.Guild{
		ID:                    1,
		Name:                  "before",
		WidgetChannelID:       2,
		ExplicitContentFilter: discord.ExplicitContentFilterLevelAllMembers,
	})

	guild.Update(discord.Guild{ID: 1, Name: "after"})

	if guild.Name != "after" {
		t.Fatalf("got %q, want after", guild.Name)
	}
	if guild.WidgetChannelID != 0 {
		t.Fatalf("got widget channel %s, want cleared", guild.WidgetChannelID)
	}
	if guild.ExplicitContentFilter != discord.ExplicitContentFilterLevelDisabled {
		t.Fatalf("got filter level %d, want cleared", guild.ExplicitContentFilter)
	}
}
