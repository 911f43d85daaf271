// Package service implements the forum's core rules: thread and reply
// lifecycle, the like ledger, report resolution and mention dispatch.
// Every operation takes an explicit Actor so authorization is a pure
// function of its inputs.
package service

import (
	"context"

	"studydeck/internal/models"
)

// Actor is the authenticated user performing an operation.
type Actor struct {
	ID       uint
	Username string
	Email    string
	Role     models.Role
}

// IsModerator reports whether the actor holds moderation privileges.
// Admins are moderators too.
func (a Actor) IsModerator() bool {
	return a.Role == models.RoleModerator || a.Role == models.RoleAdmin
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// ActorFromUser builds an Actor from a stored account.
func ActorFromUser(u *models.User) Actor {
	return Actor{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role}
}

// notifier is the slice of the notifications package the services use.
// All methods are best effort and must never fail the caller.
type notifier interface {
	NotifyMentions(ctx context.Context, content string, senderID uint, senderName string, thread *models.Thread)
	NotifyThreadReply(ctx context.Context, thread *models.Thread, replierID uint, replierName, content string)
	NotifyThreadStatus(ctx context.Context, thread *models.Thread, action string, moderatorID uint, moderatorName string)
}
