package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/require"

	"github.com/laralove143/sparkle-cache/backend"
	"github.com/laralove143/sparkle-cache/backend/memory"
	"github.com/laralove143/sparkle-cache/cache"
	"github.com/laralove143/sparkle-cache/model"
)

func TestGuildLifecycle(t *testing.T) {
	ctx := context.Background()
	c := cache.New(memory.New())

	guild := discord.GatewayGuild{
		RestGuild: discord.RestGuild{
			Guild: discord.Guild{ID: 1, Name: "guild"},
			Roles: []discord.Role{{ID: 30, Name: "mods"}},
		},
		Channels: []discord.GuildChannel{
			guildTextChannel(t, 10, 1, "general"),
		},
	}

	changes, err := c.HandleGuildCreate(ctx, guild)
	require.NoError(t, err)
	require.True(t, changes.IsEmpty(), "nothing was cached before the create")

	cached, err := c.Guild(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, cached)
	require.Equal(t, "guild", cached.Name)

	changes, err = c.HandleGuildDelete(ctx, 1)
	require.NoError(t, err)
	require.Len(t, changes.Guilds, 1)
	require.Len(t, changes.Roles, 1)
	require.Len(t, changes.Channels, 1)
	require.Equal(t, "general", changes.Channels[0].Name)

	cached, err = c.Guild(ctx, 1)
	require.NoError(t, err)
	require.Nil(t, cached)
}

func TestRepeatUpsertReturnsPrevious(t *testing.T) {
	ctx := context.Background()
	c := cache.New(memory.New())

	_, err := c.HandleChannelCreate(ctx, guildTextChannel(t, 10, 1, "before"))
	require.NoError(t, err)

	changes, err := c.HandleChannelUpdate(ctx, guildTextChannel(t, 10, 1, "after"))
	require.NoError(t, err)
	require.Len(t, changes.Channels, 1)
	require.Equal(t, "before", changes.Channels[0].Name)

	cached, err := c.Channel(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, "after", cached.Name)
}

func TestMemberUpdateMerges(t *testing.T) {
	ctx := context.Background()
	c := cache.New(memory.New())
	joined := time.Now().Add(-time.Hour).UTC()

	_, err := c.HandleMemberAdd(ctx, discord.Member{
		GuildID:  1,
		User:     discord.User{ID: 2, Username: "someone"},
		JoinedAt: joined,
		RoleIDs:  []snowflake.ID{30},
	})
	require.NoError(t, err)

	// Member updates do not carry joined_at, the merge keeps the stored one.
	nick := "nick"
	changes, err := c.HandleMemberUpdate(ctx, discord.Member{
		GuildID: 1,
		User:    discord.User{ID: 2, Username: "someone"},
		Nick:    &nick,
		RoleIDs: []snowflake.ID{30, 31},
	})
	require.NoError(t, err)
	require.Len(t, changes.Members, 1)
	require.Nil(t, changes.Members[0].Nick)

	member, err := c.Member(ctx, 1, 2)
	require.NoError(t, err)
	require.NotNil(t, member)
	require.Equal(t, joined, member.JoinedAt)
	require.NotNil(t, member.Nick)
	require.Equal(t, nick, *member.Nick)

	roles, err := c.MemberRoles(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, roles, 2)
}

func TestMessageUpdateMerges(t *testing.T) {
	ctx := context.Background()
	c := cache.New(memory.New())

	_, err := c.HandleMessageCreate(ctx, discord.Message{
		ID:        1,
		ChannelID: 2,
		Author:    discord.User{ID: 3, Username: "someone"},
		Content:   "hello",
		CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	// An edit that only flips flags carries no content, the stored content
	// survives the merge.
	edited := time.Now().UTC()
	_, err = c.HandleMessageUpdate(ctx, discord.Message{
		ID:              1,
		ChannelID:       2,
		EditedTimestamp: &edited,
	})
	require.NoError(t, err)

	message, err := c.Message(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, message)
	require.Equal(t, "hello", message.Content)
	require.NotNil(t, message.EditedAt)
}

func TestMessageUpdateKeepsAbsentChildKinds(t *testing.T) {
	ctx := context.Background()
	c := cache.New(memory.New())

	_, err := c.HandleMessageCreate(ctx, discord.Message{
		ID:        1,
		ChannelID: 2,
		Author:    discord.User{ID: 3, Username: "someone"},
		CreatedAt: time.Now().UTC(),
		Embeds:    []discord.Embed{{Title: "title"}},
	})
	require.NoError(t, err)

	// The edit carries only an attachment, the cached embed stays.
	_, err = c.HandleMessageUpdate(ctx, discord.Message{
		ID:          1,
		ChannelID:   2,
		Attachments: []discord.Attachment{{ID: 4, Filename: "cat.png"}},
	})
	require.NoError(t, err)

	embeds, err := c.Embeds(ctx, 1)
	require.NoError(t, err)
	require.Len(t, embeds, 1)
	require.Equal(t, "title", embeds[0].Title)

	attachments, err := c.Attachments(ctx, 1)
	require.NoError(t, err)
	require.Len(t, attachments, 1)
}

func TestUpdateSkipsUnsupportedEvents(t *testing.T) {
	// A nil backend proves no backend call is ever issued.
	c := cache.New(nil)
	changes, err := c.Update(context.Background(), gateway.EventTypingStart{ChannelID: 1, UserID: 2})
	require.NoError(t, err)
	require.True(t, changes.IsEmpty())
}

// failingBackend fails every channel upsert and passes everything else
// through.
type failingBackend struct {
	backend.Backend
}

var errChannel = errors.New("channel store down")

func (f failingBackend) UpsertChannel(context.Context, model.Channel) (*model.Channel, error) {
	return nil, errChannel
}

func TestPartialFailureKeepsAppliedMutations(t *testing.T) {
	ctx := context.Background()
	mem := memory.New()
	c := cache.New(failingBackend{mem})

	// Seed so the failing run has previous state to report.
	_, err := mem.UpsertGuild(ctx, model.Guild{ID: 1, Name: "before"})
	require.NoError(t, err)

	guild := discord.GatewayGuild{
		RestGuild: discord.RestGuild{
			Guild: discord.Guild{ID: 1, Name: "after"},
			Roles: []discord.Role{{ID: 30, Name: "mods"}},
		},
		Channels: []discord.GuildChannel{
			guildTextChannel(t, 10, 1, "general"),
		},
	}
	changes, err := c.HandleGuildCreate(ctx, guild)
	require.ErrorIs(t, err, errChannel)

	// The guild and role upserts before the failure stay applied and their
	// previous state is reported; the channel never made it.
	require.Len(t, changes.Guilds, 1)
	require.Equal(t, "before", changes.Guilds[0].Name)

	stored, err := mem.Guild(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "after", stored.Name)

	role, err := mem.Role(ctx, 30)
	require.NoError(t, err)
	require.NotNil(t, role)

	channel, err := mem.Channel(ctx, 10)
	require.NoError(t, err)
	require.Nil(t, channel)
}
