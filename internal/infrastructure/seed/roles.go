package seed

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/99minutos/identity-service/internal/core/domain"
)

// RoleFile is the on-disk layout of a role catalog:
//
//	roles:
//	  - id: 1
//	    name: admin
//	    description: Manages role assignments
type RoleFile struct {
	Roles []domain.Role `yaml:"roles"`
}

// LoadRolesFile reads a role catalog from path.
func LoadRolesFile(path string) ([]domain.Role, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open roles file: %w", err)
	}
	defer f.Close()
	return ParseRoles(f)
}

// ParseRoles decodes and validates a role catalog. Ids and names must be unique.
func ParseRoles(r io.Reader) ([]domain.Role, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read roles: %w", err)
	}

	var file RoleFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode roles: %w", err)
	}

	ids := make(map[int]struct{}, len(file.Roles))
	names := make(map[string]struct{}, len(file.Roles))
	for i, role := range file.Roles {
		if role.ID <= 0 {
			return nil, fmt.Errorf("role %d: id must be positive", i)
		}
		if role.Name == "" {
			return nil, fmt.Errorf("role %d: name is required", i)
		}
		if _, dup := ids[role.ID]; dup {
			return nil, fmt.Errorf("role %d: duplicate id %d", i, role.ID)
		}
		if _, dup := names[role.Name]; dup {
			return nil, fmt.Errorf("role %d: duplicate name %q", i, role.Name)
		}
		ids[role.ID] = struct{}{}
		names[role.Name] = struct{}{}
	}
	return file.Roles, nil
}
