package model

import (
	"testing"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
)

func TestMemberUpdateKeepsJoinedAt(t *testing.T) {
	joined := time.Now().Add(-time.Hour)
	member := NewMember(discord.Member{
		GuildID:  1,
		User:     discord.User{ID: 2},
		JoinedAt: joined,
	})

	nick := "nick"
	member.Update(discord.Member{
		GuildID: 1,
		User:    discord.User{ID: 2},
		Nick:    &nick,
	})

	if !member.JoinedAt.Equal(joined) {
		t.Fatalf("got %v, want %v", member.JoinedAt, joined)
	}
	if member.Nick == nil || *member.Nick != nick {
		t.Fatalf("got %v, want %s", member.Nick, nick)
	}
}

func TestMemberUpdateClearsNick(t *testing.T) {
	nick := "nick"
	member := NewMember(discord.Member{
		GuildID: 1,
		User:    discord.User{ID: 2},
		Nick:    &nick,
	})

	member.Update(discord.Member{GuildID: 1, User: discord.User{ID: 2}})

	if member.Nick != nil {
		t.Fatalf("got %s, want no nick", *member.Nick)
	}
}

func TestNewMemberRoles(t *testing.T) {
	rows := NewMemberRoles(discord.Member{
		GuildID: 1,
		User:    discord.User{ID: 2},
		RoleIDs: []snowflake.ID{30, 31},
	})

	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	for i, roleID := range []snowflake.ID{30, 31} {
		row := rows[i]
		if row.GuildID != 1 || row.UserID != 2 || row.RoleID != roleID {
			t.Fatalf("got %+v, want role %s", row, roleID)
		}
	}
}

func TestTimedOut(t *testing.T) {
	member := Member{}
	if member.TimedOut() {
		t.Fatal("member without a timeout reported as timed out")
	}

	until := time.Now().Add(time.Hour)
	member.CommunicationDisabledUntil = &until
	if !member.TimedOut() {
		t.Fatal("member with a future timeout reported as not timed out")
	}

	past := time.Now().Add(-time.Hour)
	member.CommunicationDisabledUntil = &past
	if member.TimedOut() {
		t.Fatal("member with an expired timeout reported as timed out")
	}
}
