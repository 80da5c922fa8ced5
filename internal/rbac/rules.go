package rbac

// Default policy. Learners manage their own gradebooks; ownership is
// enforced by the gradebook service, not here.
var RolePermissions = map[string][]string{
	"learner": {
		"gradebook:read",
		"gradebook:write",
		"gradebook:optimize",
		"gradebook:export",
		"assets:read",
		"user:change_password",
	},
	"auditor": {
		"gradebook:read",
		"gradebook:export",
		"assets:read",
	},
	"admin": {
		"*", // everything
	},
}
