// Package phi declares which entity fields carry Protected Health Information
// and provides the generic record encrypt/decrypt helpers built on that
// declaration. Adding a field to the registry is the only integration step
// required to bring new PHI under encryption: the record helpers and the key
// rotation orchestrator both enumerate the registry, never table schemas.
package phi

import "sort"

// Registry maps entity types to the names of their encrypted fields.
type Registry struct {
	fields map[string][]string
}

// NewRegistry creates a registry from an entity -> fields mapping.
// Field lists are copied and sorted so enumeration order is deterministic.
func NewRegistry(fields map[string][]string) *Registry {
	copied := make(map[string][]string, len(fields))
	for entity, names := range fields {
		list := make([]string, len(names))
		copy(list, names)
		sort.Strings(list)
		copied[entity] = list
	}
	return &Registry{fields: copied}
}

// DefaultRegistry returns the registry for the eye-book clinic entities.
// The listed columns hold direct patient identifiers and clinical notes that
// must be encrypted at rest. Display names are protected by access control
// and intentionally not listed to keep high-read paths cheap.
func DefaultRegistry() *Registry {
	return NewRegistry(map[string][]string{
		"patients": {
			"email",
			"phone",
			"date_of_birth",
			"address",
			"national_id",
			"medical_history",
		},
		"providers": {
			"email",
			"phone",
			"license_number",
		},
		"appointments": {
			"notes",
			"diagnosis",
		},
		"insurance_policies": {
			"policy_number",
			"member_id",
		},
	})
}

// IsEncryptedField reports whether the given entity field must be encrypted.
func (r *Registry) IsEncryptedField(entityType, field string) bool {
	for _, name := range r.fields[entityType] {
		if name == field {
			return true
		}
	}
	return false
}

// Fields returns the encrypted field names for an entity type, sorted.
// Returns nil for unknown entity types.
func (r *Registry) Fields(entityType string) []string {
	return r.fields[entityType]
}

// Entities returns all registered entity types, sorted.
func (r *Registry) Entities() []string {
	entities := make([]string, 0, len(r.fields))
	for entity := range r.fields {
		entities = append(entities, entity)
	}
	sort.Strings(entities)
	return entities
}
