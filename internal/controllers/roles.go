package controllers

const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

var allowedRoles = map[string]struct{}{
	RoleAdmin:  {},
	RoleEditor: {},
}

func IsValidRole(role string) bool {
	_, ok := allowedRoles[role]
	return ok
}

// RoleNames is the role list handed to the validator.
func RoleNames() []interface{} {
	out := make([]interface{}, 0, len(allowedRoles))
	for r := range allowedRoles {
		out = append(out, r)
	}
	return out
}
