package model

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
)

// User is the cached form of a user. Users are shared by reference: members,
// message authors and presences point at a user row by ID, and no parent
// owns it, so guild deletes never cascade into users.
type User struct {
	ID            snowflake.ID
	Username      string
	Discriminator string
	GlobalName    *string
	Avatar        *string
	Banner        *string
	AccentColor   *int
	Bot           bool
	System        bool
	PublicFlags   discord.UserFlags
}

// NewUser builds a cached user from the event payload.
func NewUser(user discord.User) User {
	return User{
		ID:            user.ID,
		Username:      user.Username,
		Discriminator: user.Discriminator,
		GlobalName:    user.GlobalName,
		Avatar:        user.Avatar,
		Banner:        user.Banner,
		AccentColor:   user.AccentColor,
		Bot:           user.Bot,
		System:        user.System,
		PublicFlags:   user.PublicFlags,
	}
}
