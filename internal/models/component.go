package models

// ComponentMetadata describes a struct type that carries a registration
// marker, injectable fields, or both
type ComponentMetadata struct {
	BaseMetadataTrait
	LocationTrait

	Abstraction string          // qualified abstraction; empty when not registered
	Fields      []FieldMetadata // injectable fields, embedded structs expanded in place
}

// IsRegistered returns whether the component embeds a registration marker
func (c *ComponentMetadata) IsRegistered() bool {
	return c.Abstraction != ""
}

// IsInjectable returns whether the component has injectable fields
func (c *ComponentMetadata) IsInjectable() bool {
	return len(c.Fields) > 0
}

// FieldMetadata describes one field carrying an injection marker
type FieldMetadata struct {
	LocationTrait

	Name     string   // field name
	Type     string   // declared type, package qualified
	Tag      string   // raw tag value
	Path     []string // embedded struct names leading to the field
	Settable bool     // exported and not behind an unexported embedded pointer
}
