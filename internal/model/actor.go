package model

type Role string

const (
	RoleChild  Role = "child"
	RoleParent Role = "parent"
	RoleAdmin  Role = "admin"
	RoleSystem Role = "system"
)

var roleFromName = map[string]Role{
	"child":  RoleChild,
	"parent": RoleParent,
	"admin":  RoleAdmin,
	"system": RoleSystem,
}

func ParseRole(s string) (Role, bool) {
	r, ok := roleFromName[s]
	return r, ok
}

// Actor identifies who is requesting an operation. Identity verification is
// the job of the authentication layer in front of this engine.
type Actor struct {
	ID   string
	Role Role
}
