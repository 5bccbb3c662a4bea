package rbac

import "strings"

// Checker pure lookups over a Table. Unknown roles get nothing.
type Checker struct {
	catalogue map[string]Permission
	roles     map[string]roleSet
}

type roleSet struct {
	permissions map[string]struct{}
	entry       RoleEntry
}

// NewChecker indexes t. t must not be modified afterwards.
func NewChecker(t *Table) *Checker {
	c := &Checker{
		catalogue: make(map[string]Permission, len(t.Permissions)),
		roles:     make(map[string]roleSet, len(t.Roles)),
	}
	for _, p := range t.Permissions {
		c.catalogue[p.ID] = p
	}
	for role, entry := range t.Roles {
		set := roleSet{permissions: make(map[string]struct{}, len(entry.Permissions)), entry: entry}
		for _, id := range entry.Permissions {
			set.permissions[id] = struct{}{}
		}
		c.roles[role] = set
	}
	return c
}

// HasPermission role holds permission id.
func (c *Checker) HasPermission(role, id string) bool {
	set, ok := c.roles[role]
	if !ok {
		return false
	}
	_, ok = set.permissions[id]
	return ok
}

// HasAllPermissions every id is held. An empty list is vacuously true for a known role.
func (c *Checker) HasAllPermissions(role string, ids ...string) bool {
	if _, ok := c.roles[role]; !ok {
		return false
	}
	for _, id := range ids {
		if !c.HasPermission(role, id) {
			return false
		}
	}
	return true
}

// HasAnyPermission at least one id is held.
func (c *Checker) HasAnyPermission(role string, ids ...string) bool {
	for _, id := range ids {
		if c.HasPermission(role, id) {
			return true
		}
	}
	return false
}

// CanAccessRoute exact match, or either route is a prefix of the other.
func (c *Checker) CanAccessRoute(role, route string) bool {
	set, ok := c.roles[role]
	if !ok {
		return false
	}
	for _, allowed := range set.entry.Routes {
		if route == allowed || strings.HasPrefix(route, allowed) || strings.HasPrefix(allowed, route) {
			return true
		}
	}
	return false
}

// HasFeatureAccess role lists feature.
func (c *Checker) HasFeatureAccess(role, feature string) bool {
	set, ok := c.roles[role]
	if !ok {
		return false
	}
	for _, f := range set.entry.Features {
		if f == feature {
			return true
		}
	}
	return false
}

// RolePermissions permission records granted to role, in table order.
func (c *Checker) RolePermissions(role string) []Permission {
	set, ok := c.roles[role]
	if !ok {
		return []Permission{}
	}
	out := make([]Permission, 0, len(set.entry.Permissions))
	for _, id := range set.entry.Permissions {
		out = append(out, c.catalogue[id])
	}
	return out
}

// PermissionIDs ids granted to role.
func (c *Checker) PermissionIDs(role string) []string {
	return copyStrings(c.roles[role].entry.Permissions)
}

// AllowedRoutes routes listed for role.
func (c *Checker) AllowedRoutes(role string) []string {
	return copyStrings(c.roles[role].entry.Routes)
}

// Features features listed for role.
func (c *Checker) Features(role string) []string {
	return copyStrings(c.roles[role].entry.Features)
}

func copyStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
