package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/laralove143/sparkle-cache/model"
)

func TestUpsertReturnsPrevious(t *testing.T) {
	ctx := context.Background()
	b := New()

	prev, err := b.UpsertGuild(ctx, model.Guild{ID: 1, Name: "before"})
	if err != nil {
		t.Fatal(err)
	}
	if prev != nil {
		t.Fatalf("got %+v, want no previous guild", prev)
	}

	prev, err = b.UpsertGuild(ctx, model.Guild{ID: 1, Name: "after"})
	if err != nil {
		t.Fatal(err)
	}
	if prev == nil || prev.Name != "before" {
		t.Fatalf("got %+v, want the displaced guild", prev)
	}
}

func TestDeleteReturnsPrevious(t *testing.T) {
	ctx := context.Background()
	b := New()

	prev, err := b.DeleteGuild(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if prev != nil {
		t.Fatalf("got %+v, want nothing to delete", prev)
	}

	if _, err := b.UpsertGuild(ctx, model.Guild{ID: 1, Name: "guild"}); err != nil {
		t.Fatal(err)
	}
	prev, err = b.DeleteGuild(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if prev == nil || prev.Name != "guild" {
		t.Fatalf("got %+v, want the removed guild", prev)
	}

	stored, err := b.Guild(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if stored != nil {
		t.Fatalf("got %+v, want the guild gone", stored)
	}
}

func TestDeleteGuildChannelsScope(t *testing.T) {
	ctx := context.Background()
	b := New()

	for _, channel := range []model.Channel{
		{ID: 10, GuildID: 1, Name: "one"},
		{ID: 11, GuildID: 1, Name: "two"},
		{ID: 12, GuildID: 2, Name: "other"},
	} {
		if _, err := b.UpsertChannel(ctx, channel); err != nil {
			t.Fatal(err)
		}
	}

	removed, err := b.DeleteGuildChannels(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	want := []model.Channel{
		{ID: 10, GuildID: 1, Name: "one"},
		{ID: 11, GuildID: 1, Name: "two"},
	}
	sorted := cmpopts.SortSlices(func(a, b model.Channel) bool { return a.ID < b.ID })
	if diff := cmp.Diff(want, removed, sorted); diff != "" {
		t.Fatalf("removed channels mismatch (-want +got):\n%s", diff)
	}

	left, err := b.Channel(ctx, 12)
	if err != nil {
		t.Fatal(err)
	}
	if left == nil {
		t.Fatal("channel of another guild was removed")
	}
}

func TestDeleteRoleMemberRolesScope(t *testing.T) {
	ctx := context.Background()
	b := New()

	for _, row := range []model.MemberRole{
		{GuildID: 1, UserID: 2, RoleID: 30},
		{GuildID: 1, UserID: 3, RoleID: 30},
		{GuildID: 1, UserID: 2, RoleID: 31},
	} {
		if _, err := b.UpsertMemberRole(ctx, row); err != nil {
			t.Fatal(err)
		}
	}

	removed, err := b.DeleteRoleMemberRoles(ctx, 1, 30)
	if err != nil {
		t.Fatal(err)
	}
	if len(removed) != 2 {
		t.Fatalf("got %d rows, want 2", len(removed))
	}

	left, err := b.MemberRoles(ctx, 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(left) != 1 || left[0].RoleID != 31 {
		t.Fatalf("got %+v, want only role 31 left", left)
	}
}

func TestConcurrentUpsertsReportEveryPrevious(t *testing.T) {
	ctx := context.Background()
	b := New()
	const writers = 64

	var wg sync.WaitGroup
	previous := make([]*model.Guild, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			prev, err := b.UpsertGuild(ctx, model.Guild{ID: 1, Name: snowflake.ID(i).String()})
			if err != nil {
				t.Error(err)
				return
			}
			previous[i] = prev
		}(i)
	}
	wg.Wait()

	// Exactly one writer found the slot empty, every other one displaced a
	// value.
	var first int
	for _, prev := range previous {
		if prev == nil {
			first++
		}
	}
	if first != 1 {
		t.Fatalf("got %d writers without a previous value, want 1", first)
	}
}
