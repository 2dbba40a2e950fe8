package graph

import (
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/google/go-cmp/cmp"

	"github.com/laralove143/sparkle-cache/model"
)

func TestNodeRendering(t *testing.T) {
	got := node("n", "Guild", map[string]any{
		"ID":   snowflake.ID(1),
		"Name": "guild",
	})
	want := `(n:Guild {ID: "1", Name: "guild"})`
	if got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestNodeWithoutProperties(t *testing.T) {
	got := node("n", "CurrentUser", nil)
	if got != "(n:CurrentUser)" {
		t.Fatalf("got %s, want (n:CurrentUser)", got)
	}
}

func TestRenderPropsSkipsAbsentValues(t *testing.T) {
	got := renderProps(map[string]any{
		"ID":     snowflake.ID(1),
		"Name":   "",
		"Nick":   nil,
		"Nested": map[string]any{"x": 1},
	})
	want := `{ID: "1"}`
	if got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestRenderPropsEscapesQuotes(t *testing.T) {
	got := renderProps(map[string]any{"Name": `say "hi" \now`})
	want := `{Name: "say \"hi\" \\now"}`
	if got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestRenderPropsStableOrder(t *testing.T) {
	props := map[string]any{"B": 2, "A": 1, "C": 3}
	first := renderProps(props)
	for i := 0; i < 16; i++ {
		if again := renderProps(props); again != first {
			t.Fatalf("got %s, want %s", again, first)
		}
	}
	if first != "{A: 1, B: 2, C: 3}" {
		t.Fatalf("got %s, want sorted keys", first)
	}
}

func TestPropsRoundTrip(t *testing.T) {
	guildID := snowflake.ID(2)
	edited := time.Now().UTC().Truncate(time.Millisecond)
	message := model.Message{
		ID:        1,
		ChannelID: 3,
		GuildID:   &guildID,
		AuthorID:  4,
		Content:   "hello",
		CreatedAt: edited.Add(-time.Hour),
		EditedAt:  &edited,
		Pinned:    true,
	}

	props, err := toProps(message)
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := decodeProps[model.Message](props)
	if err != nil {
		t.Fatal(err)
	}
	if decoded == nil {
		t.Fatal("decoded message is nil")
	}
	if diff := cmp.Diff(message, *decoded); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodePropsAbsentNode(t *testing.T) {
	decoded, err := decodeProps[model.Guild](nil)
	if err != nil {
		t.Fatal(err)
	}
	if decoded != nil {
		t.Fatalf("got %+v, want nil for an absent node", decoded)
	}
}
