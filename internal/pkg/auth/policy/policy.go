/*
Package policy maps a (user, action) pair to an allow/deny decision.

Decisions are pure functions of the user's role and licensed flag. There is
no I/O and no side effect here; callers resolve the user first (see the jwt
middleware) and then consult the policy.
*/
package policy

import "atvault/internal/app/user"

// Action enumerates the operations the policy knows how to gate.
type Action int

const (
	// ActionCreatePost creates a blog post.
	ActionCreatePost Action = iota

	// ActionEditPost edits an existing blog post.
	ActionEditPost

	// ActionDeletePost deletes a blog post.
	ActionDeletePost

	// ActionUseChat accesses the chat assistant.
	ActionUseChat

	// ActionViewAdmin views admin-only pages and listings.
	ActionViewAdmin

	// ActionUpload uploads images to object storage.
	ActionUpload
)

// Permits reports whether the given user may perform the action.
// A nil user is an anonymous request and is denied everything here;
// public reads never consult the policy.
func Permits(u *user.User, action Action) bool {
	if u == nil {
		return false
	}

	switch action {
	case ActionCreatePost, ActionEditPost, ActionDeletePost, ActionViewAdmin, ActionUpload:
		return u.Role == user.RoleAdmin

	case ActionUseChat:
		// The licensed flag gates chat independent of role; admins without
		// a license are denied the same as anyone else.
		return u.Licensed && (u.Role == user.RoleAdmin || u.Role == user.RoleStandard)

	default:
		return false
	}
}
