// Package rbac answers whether a role may use a permission, route or feature.
//
// The role table is an immutable value loaded once at startup, either from
// the embedded permissions.yaml or from a file named in config.
package rbac

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed permissions.yaml
var defaultTable []byte

// Permission ids referenced by the HTTP layer.
const (
	PermUsersView      = "users.view"
	PermUsersCreate    = "users.create"
	PermUsersEdit      = "users.edit"
	PermUsersDelete    = "users.delete"
	PermLabsView       = "labs.view"
	PermLabsManage     = "labs.manage"
	PermSubjectsView   = "subjects.view"
	PermSubjectsManage = "subjects.manage"
	PermSubjectsOwn    = "subjects.own"
	PermScheduleView   = "schedule.view"
	PermScheduleManage = "schedule.manage"
	PermScheduleOwn    = "schedule.own"
	PermSystemReports  = "system.reports"
)

// Permission a named capability
type Permission struct {
	ID          string `yaml:"id"          json:"id"`
	Name        string `yaml:"name"        json:"name"`
	Description string `yaml:"description" json:"description"`
	Resource    string `yaml:"resource"    json:"resource"`
	Action      string `yaml:"action"      json:"action"`
}

// RoleEntry what one role may do
type RoleEntry struct {
	Permissions []string `yaml:"permissions"`
	Routes      []string `yaml:"routes"`
	Features    []string `yaml:"features"`
}

// Table permission catalogue plus role → entry
type Table struct {
	Permissions []Permission         `yaml:"permissions"`
	Roles       map[string]RoleEntry `yaml:"roles"`
}

// DefaultTable parses the embedded table.
func DefaultTable() (*Table, error) {
	return ParseTable(defaultTable)
}

// LoadTable reads the table from path, or the embedded one when path is empty.
func LoadTable(path string) (*Table, error) {
	if path == "" {
		return DefaultTable()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rbac table: %w", err)
	}
	return ParseTable(raw)
}

// ParseTable decodes and validates a YAML role table.
func ParseTable(raw []byte) (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("decode rbac table: %w", err)
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

func (t *Table) validate() error {
	if len(t.Roles) == 0 {
		return fmt.Errorf("rbac table: no roles defined")
	}
	known := make(map[string]struct{}, len(t.Permissions))
	for _, p := range t.Permissions {
		if p.ID == "" {
			return fmt.Errorf("rbac table: permission without id")
		}
		if _, dup := known[p.ID]; dup {
			return fmt.Errorf("rbac table: duplicate permission %q", p.ID)
		}
		known[p.ID] = struct{}{}
	}
	for role, entry := range t.Roles {
		for _, id := range entry.Permissions {
			if _, ok := known[id]; !ok {
				return fmt.Errorf("rbac table: role %q references unknown permission %q", role, id)
			}
		}
	}
	return nil
}
