package rbac

import "strings"

// Checker answers whether a role holds a permission. Permissions read
// "resource:action"; a grant of "resource:*" covers every action on that
// resource and "*" covers everything.
type Checker struct {
	grants map[string]map[string]struct{}
}

// NewChecker indexes policy; nil selects RolePermissions.
func NewChecker(policy map[string][]string) *Checker {
	if policy == nil {
		policy = RolePermissions
	}
	c := &Checker{grants: make(map[string]map[string]struct{}, len(policy))}
	for role, perms := range policy {
		set := make(map[string]struct{}, len(perms))
		for _, p := range perms {
			set[p] = struct{}{}
		}
		c.grants[role] = set
	}
	return c
}

func (c *Checker) Has(role, perm string) bool {
	set, ok := c.grants[role]
	if !ok {
		return false
	}
	if _, ok := set["*"]; ok {
		return true
	}
	if _, ok := set[perm]; ok {
		return true
	}
	if res, _, found := strings.Cut(perm, ":"); found {
		_, ok := set[res+":*"]
		return ok
	}
	return false
}

func (c *Checker) Any(role string, perms ...string) bool {
	for _, p := range perms {
		if c.Has(role, p) {
			return true
		}
	}
	return false
}

func (c *Checker) All(role string, perms ...string) bool {
	for _, p := range perms {
		if !c.Has(role, p) {
			return false
		}
	}
	return len(perms) > 0
}
