package auth

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/WailSalutem-Health-Care/care-portal/internal/entity"
)

// Permission names used by the portal routes.
const (
	PermAccountsView       = "accounts:view"
	PermAccountsCreate     = "accounts:create"
	PermAccountsUpdate     = "accounts:update"
	PermAccountsDelete     = "accounts:delete"
	PermConsultationView   = "consultation:view"
	PermConsultationFinish = "consultation:complete"
	PermAppointmentsView   = "appointments:view"
	PermAppointmentsBook   = "appointments:book"
)

// Permissions maps role -> []permission
type Permissions map[string][]string

type permissionsFile struct {
	Roles map[string][]string `yaml:"roles"`
}

// LoadPermissions loads a permissions.yml file and returns a role->permissions map.
func LoadPermissions(path string) (Permissions, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read permissions: %w", err)
	}
	var pf permissionsFile
	if err := yaml.Unmarshal(b, &pf); err != nil {
		return nil, fmt.Errorf("parse permissions %s: %w", path, err)
	}
	return Permissions(pf.Roles), nil
}

// DefaultPermissions mirrors configs/permissions.yml and is used when no
// file is configured.
func DefaultPermissions() Permissions {
	return Permissions{
		string(entity.RoleAdmin):   {PermAccountsView, PermAccountsCreate, PermAccountsUpdate, PermAccountsDelete},
		string(entity.RoleDoctor):  {PermConsultationView, PermConsultationFinish},
		string(entity.RolePatient): {PermAppointmentsView, PermAppointmentsBook},
	}
}

// HasPermission checks the role -> permissions mapping. Role keys in the
// file may use any case.
func HasPermission(role entity.Role, permission string, perms Permissions) bool {
	for key, list := range perms {
		if !strings.EqualFold(key, string(role)) {
			continue
		}
		for _, p := range list {
			if p == permission {
				return true
			}
		}
	}
	return false
}
