package models

import "fmt"

// BaseMetadataTrait provides the identity of a declaration
type BaseMetadataTrait struct {
	Name        string // declared name
	PackagePath string // import path of the declaring package
}

// GetName returns the declared name
func (b *BaseMetadataTrait) GetName() string {
	return b.Name
}

// QualifiedName returns path.Name
func (b *BaseMetadataTrait) QualifiedName() string {
	if b.PackagePath == "" {
		return b.Name
	}
	return b.PackagePath + "." + b.Name
}

// LocationTrait records where a declaration appears in source
type LocationTrait struct {
	File   string // absolute file path
	Line   int    // 1-based line
	Column int    // 1-based column
}

// Position returns file:line:column, or the empty string when unknown
func (l *LocationTrait) Position() string {
	if l.File == "" {
		return ""
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}
