package model

import (
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
)

// Member is the cached form of a guild member, keyed by (GuildID, UserID).
// The user itself is cached separately; the member's role IDs are cached as
// MemberRole rows rather than an array field.
type Member struct {
	GuildID                    snowflake.ID
	UserID                     snowflake.ID
	Nick                       *string
	GuildAvatar                *string
	JoinedAt                   time.Time
	PremiumSince               *time.Time
	Deaf                       bool
	Mute                       bool
	Pending                    bool
	CommunicationDisabledUntil *time.Time
}

// MemberRole is one row of a member's role list, keyed by
// (GuildID, UserID, RoleID).
type MemberRole struct {
	GuildID snowflake.ID
	UserID  snowflake.ID
	RoleID  snowflake.ID
}

// NewMember builds a cached member from the event payload.
func NewMember(member discord.Member) Member {
	return Member{
		GuildID:                    member.GuildID,
		UserID:                     member.User.ID,
		Nick:                       member.Nick,
		GuildAvatar:                member.Avatar,
		JoinedAt:                   member.JoinedAt,
		PremiumSince:               member.PremiumSince,
		Deaf:                       member.Deaf,
		Mute:                       member.Mute,
		Pending:                    member.Pending,
		CommunicationDisabledUntil: member.CommunicationDisabledUntil,
	}
}

// NewMemberRoles builds one MemberRole row per role ID in the payload.
func NewMemberRoles(member discord.Member) []MemberRole {
	roles := make([]MemberRole, 0, len(member.RoleIDs))
	for _, roleID := range member.RoleIDs {
		roles = append(roles, MemberRole{
			GuildID: member.GuildID,
			UserID:  member.User.ID,
			RoleID:  roleID,
		})
	}
	return roles
}

// Update merges a member update into the cached member.
//
// Merge table:
//   - Nick, GuildAvatar, PremiumSince, CommunicationDisabledUntil: always
//     overwritten, nil means the value was cleared
//   - Deaf, Mute, Pending: always overwritten
//   - JoinedAt: overwritten only when the update carries it, a zero time
//     keeps the stored value
func (m *Member) Update(member discord.Member) {
	m.Nick = member.Nick
	m.GuildAvatar = member.Avatar
	if !member.JoinedAt.IsZero() {
		m.JoinedAt = member.JoinedAt
	}
	m.PremiumSince = member.PremiumSince
	m.Deaf = member.Deaf
	m.Mute = member.Mute
	m.Pending = member.Pending
	m.CommunicationDisabledUntil = member.CommunicationDisabledUntil
}

// TimedOut reports whether the member is currently timed out. Make sure the
// system time is correct.
func (m *Member) TimedOut() bool {
	return m.CommunicationDisabledUntil != nil && m.CommunicationDisabledUntil.After(time.Now())
}
