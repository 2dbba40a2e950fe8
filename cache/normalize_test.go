package cache_test

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/snowflake/v2"
	"github.com/google/go-cmp/cmp"

	"github.com/laralove143/sparkle-cache/cache"
)

// signature flattens a mutation list into "op kind" strings so cascade
// order can be asserted as one value.
func signature(mutations []cache.Mutation) []string {
	var sig []string
	for _, mutation := range mutations {
		sig = append(sig, string(mutation.Op())+" "+string(mutation.Kind()))
	}
	return sig
}

// guildTextChannel builds a channel the way the gateway delivers it.
// Omitting guildID leaves guild_id off the payload like guild create
// payloads do.
func guildTextChannel(t *testing.T, id snowflake.ID, guildID snowflake.ID, name string) discord.GuildChannel {
	t.Helper()
	raw := fmt.Sprintf(`{"id":%q,"type":0,"name":%q`, id.String(), name)
	if guildID != 0 {
		raw += fmt.Sprintf(`,"guild_id":%q`, guildID.String())
	}
	raw += "}"
	var channel discord.GuildTextChannel
	if err := json.Unmarshal([]byte(raw), &channel); err != nil {
		t.Fatal(err)
	}
	return channel
}

func TestNormalizeGuildCreateOrder(t *testing.T) {
	guild := discord.GatewayGuild{
		RestGuild: discord.RestGuild{
			Guild:    discord.Guild{ID: 1, Name: "guild"},
			Roles:    []discord.Role{{ID: 30, Name: "mods"}},
			Emojis:   []discord.Emoji{{ID: 40, Name: "fire"}},
			Stickers: []discord.Sticker{{ID: 50, Name: "sticker"}},
		},
		Channels: []discord.GuildChannel{
			guildTextChannel(t, 10, 0, "general"),
		},
		Members: []discord.Member{
			{User: discord.User{ID: 20, Username: "someone"}, RoleIDs: []snowflake.ID{30}},
		},
		Presences: []discord.Presence{
			{PresenceUser: discord.PresenceUser{ID: 20}, Status: discord.OnlineStatusOnline},
		},
	}

	got := signature(cache.Normalize(gateway.EventGuildCreate{GatewayGuild: guild}))
	want := []string{
		"upsert guild",
		"upsert role",
		"upsert channel",
		"upsert emoji",
		"upsert sticker",
		"upsert user",
		"upsert member",
		"delete member_role",
		"upsert member_role",
		"upsert presence",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mutation order mismatch (-want +got):\n%s", diff)
	}
}

// guildDelete builds the event the way the gateway delivers it.
func guildDelete(t *testing.T, raw string) gateway.EventGuildDelete {
	t.Helper()
	var event gateway.EventGuildDelete
	if err := json.Unmarshal([]byte(raw), &event); err != nil {
		t.Fatal(err)
	}
	return event
}

func TestNormalizeGuildDeleteOrder(t *testing.T) {
	got := signature(cache.Normalize(guildDelete(t, `{"id":"1"}`)))
	want := []string{
		"delete presence",
		"delete member_role",
		"delete member",
		"delete message",
		"delete emoji",
		"delete sticker",
		"delete channel",
		"delete role",
		"delete guild",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mutation order mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeUnavailableGuildDelete(t *testing.T) {
	mutations := cache.Normalize(guildDelete(t, `{"id":"1","unavailable":true}`))
	if mutations != nil {
		t.Fatalf("got %d mutations, want none", len(mutations))
	}
}

func TestNormalizeMessageDeleteOrder(t *testing.T) {
	got := signature(cache.Normalize(gateway.EventMessageDelete{ID: 1, ChannelID: 2}))
	want := []string{
		"delete embed",
		"delete attachment",
		"delete reaction",
		"delete message_sticker",
		"delete message",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mutation order mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeMessageCreateChildren(t *testing.T) {
	message := discord.Message{
		ID:        1,
		ChannelID: 2,
		Author:    discord.User{ID: 3, Username: "someone"},
		Content:   "hello",
		CreatedAt: time.Now(),
		Attachments: []discord.Attachment{
			{ID: 4, Filename: "cat.png"},
		},
		Embeds: []discord.Embed{
			{Title: "title", Fields: []discord.EmbedField{{Name: "field", Value: "value"}}},
		},
		Reactions: []discord.MessageReaction{
			{Count: 2, Emoji: discord.Emoji{Name: "🔥"}},
		},
	}
	got := signature(cache.Normalize(gateway.EventMessageCreate{Message: message}))
	want := []string{
		"upsert user",
		"upsert message",
		"upsert attachment",
		"upsert embed",
		"upsert embed_field",
		"upsert reaction",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mutation order mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeMessageUpdateWithoutChildren(t *testing.T) {
	got := signature(cache.Normalize(gateway.EventMessageUpdate{
		Message: discord.Message{ID: 1, ChannelID: 2, Content: "edited"},
	}))
	// No author and no child payloads on a bare edit, only the merge.
	want := []string{"upsert message"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mutation order mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeMessageUpdateReplacesOnlyCarriedChildKinds(t *testing.T) {
	got := signature(cache.Normalize(gateway.EventMessageUpdate{
		Message: discord.Message{
			ID:        1,
			ChannelID: 2,
			Attachments: []discord.Attachment{
				{ID: 3, Filename: "cat.png"},
			},
		},
	}))
	// The edit carries no embeds, so the cached embed rows stay untouched.
	want := []string{"upsert message", "delete attachment", "upsert attachment"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mutation order mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeEmojisUpdateReplacesScope(t *testing.T) {
	got := signature(cache.Normalize(gateway.EventGuildEmojisUpdate{
		GuildID: 1,
		Emojis:  []discord.Emoji{{ID: 2, Name: "one"}, {ID: 3, Name: "two"}},
	}))
	want := []string{"delete emoji", "upsert emoji", "upsert emoji"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mutation order mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeUnsupportedEvent(t *testing.T) {
	mutations := cache.Normalize(gateway.EventTypingStart{ChannelID: 1, UserID: 2})
	if mutations != nil {
		t.Fatalf("got %d mutations, want none", len(mutations))
	}
}
