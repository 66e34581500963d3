package gridpager

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Field groups of an EntityMapping.
const (
	// GroupDefault is the field set dumped when no explicit fields are given.
	GroupDefault = "default"
	// GroupAdmin replaces GroupDefault for dumpers created for admin users.
	GroupAdmin = "admin"
)

type (
	// EntityMapping holds the named field groups of one entity type.
	EntityMapping struct {
		Fields map[string][]string `yaml:"fields" json:"fields"`
	}

	// FieldMapping maps entity names to their field groups. It is read-only
	// once handed to a Dumper.
	//
	// YAML form:
	//
	//	User:
	//	  fields:
	//	    default: [id, name, created_at, address.city]
	//	    admin: [id, name, email, created_at]
	FieldMapping map[string]EntityMapping
)

// ParseFieldMapping decodes and validates a YAML field mapping document.
func ParseFieldMapping(data []byte) (FieldMapping, error) {
	var m FieldMapping
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse field mapping YAML: %w", err)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}

	return m, nil
}

// Validate checks that every entity has a default group and that every
// field path is well formed.
func (m FieldMapping) Validate() error {
	for entityName, entity := range m {
		if len(entity.Fields[GroupDefault]) == 0 {
			return fmt.Errorf("entity '%s' has no '%s' field group", entityName, GroupDefault)
		}

		for group, paths := range entity.Fields {
			for _, path := range paths {
				if err := validateFieldPath(path); err != nil {
					return fmt.Errorf("entity '%s' group '%s': %w", entityName, group, err)
				}
			}
		}
	}

	return nil
}

// Fields returns the field paths of a group, falling back to GroupDefault
// when the group is not configured.
func (m FieldMapping) Fields(entityName, group string) ([]string, bool) {
	entity, ok := m[entityName]
	if !ok {
		return nil, false
	}

	if paths := entity.Fields[group]; len(paths) > 0 {
		return paths, true
	}

	paths := entity.Fields[GroupDefault]

	return paths, len(paths) > 0
}

// Has reports whether entityName has any configured field group.
func (m FieldMapping) Has(entityName string) bool {
	_, ok := m.Fields(entityName, GroupDefault)
	return ok
}

func validateFieldPath(path string) error {
	if path == "" {
		return fmt.Errorf("%w: empty path", ErrInvalidFieldPath)
	}

	for _, segment := range strings.Split(path, ".") {
		if strings.TrimSpace(segment) == "" {
			return fmt.Errorf("%w: empty segment in '%s'", ErrInvalidFieldPath, path)
		}
	}

	return nil
}
