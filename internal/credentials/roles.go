package credentials

import "fmt"

// Role is a member's access level in a shared collection.
type Role string

const (
	RoleViewer Role = "viewer"
	RoleEditor Role = "editor"
	RoleAdmin  Role = "admin"
	RoleOwner  Role = "owner"
)

var roleRank = map[Role]int{
	RoleViewer: 1,
	RoleEditor: 2,
	RoleAdmin:  3,
	RoleOwner:  4,
}

// ParseRole validates a role name. Owner cannot be assigned, so it is
// rejected unless allowOwner is set.
func ParseRole(s string, allowOwner bool) (Role, error) {
	r := Role(s)
	if _, ok := roleRank[r]; !ok || (r == RoleOwner && !allowOwner) {
		return "", fmt.Errorf("invalid role %q: must be viewer, editor, or admin", s)
	}
	return r, nil
}

// Allows reports whether r grants at least the required level.
func (r Role) Allows(required Role) bool {
	return roleRank[r] >= roleRank[required] && roleRank[r] > 0
}

// CanEdit reports whether r may add or remove feeds.
func (r Role) CanEdit() bool { return r.Allows(RoleEditor) }

// CanManage reports whether r may share the collection and change members.
func (r Role) CanManage() bool { return r.Allows(RoleAdmin) }
