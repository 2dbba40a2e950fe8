package redis

import (
	"testing"

	"github.com/laralove143/sparkle-cache/model"
)

func TestKeyScheme(t *testing.T) {
	b := New(nil)

	cases := map[string]string{
		b.key("current-user"):        "sparkle:current-user",
		b.guildKey(1):                "sparkle:guild:1",
		b.channelKey(10):             "sparkle:channel:10",
		b.guildChannelsKey(1):        "sparkle:guild:1:channels",
		b.memberKey(1, 2):            "sparkle:member:1:2",
		b.memberRolesKey(1, 2):       "sparkle:member:1:2:roles",
		b.roleMemberRolesKey(30):     "sparkle:role:30:member-roles",
		b.embedFieldKey("abc", 0):    "sparkle:embed-field:abc:0",
		b.reactionKey(5, "fire"):     "sparkle:reaction:5:fire",
		b.messageStickerKey(5, 6):    "sparkle:message-sticker:5:6",
		b.channelMessagesKey(10):     "sparkle:channel:10:messages",
		b.guildMemberRolesKey(1):     "sparkle:guild:1:member-roles",
		b.messageAttachmentsKey(5):   "sparkle:message:5:attachments",
		b.embedFieldsKey("abc"):      "sparkle:embed:abc:fields",
		b.presenceKey(1, 2):          "sparkle:presence:1:2",
	}
	for got, want := range cases {
		if got != want {
			t.Fatalf("got %s, want %s", got, want)
		}
	}
}

func TestKeyPrefixOption(t *testing.T) {
	b := New(nil, WithPrefix("other"))
	if got := b.guildKey(1); got != "other:guild:1" {
		t.Fatalf("got %s, want other:guild:1", got)
	}
}

func TestMemberRoleKey(t *testing.T) {
	b := New(nil)
	row := model.MemberRole{GuildID: 1, UserID: 2, RoleID: 30}
	if got := b.memberRoleKey(row); got != "sparkle:member-role:1:2:30" {
		t.Fatalf("got %s, want sparkle:member-role:1:2:30", got)
	}
}

func TestDecode(t *testing.T) {
	row, err := decode[model.Guild]("key", `{"ID":"1","Name":"guild"}`)
	if err != nil {
		t.Fatal(err)
	}
	if row.ID != 1 || row.Name != "guild" {
		t.Fatalf("got %+v, want guild 1", row)
	}

	if _, err := decode[model.Guild]("key", "not json"); err == nil {
		t.Fatal("expected decode error")
	}
}
