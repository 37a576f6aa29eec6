package models

// PackageMetadata represents all marked components found in a package
type PackageMetadata struct {
	PackageName string              // name of the Go package
	PackagePath string              // import path of the package
	Dir         string              // file system path to the package
	Components  []ComponentMetadata // components in declaration order
}

// Registered returns the components carrying a registration marker
func (p *PackageMetadata) Registered() []ComponentMetadata {
	var out []ComponentMetadata
	for _, c := range p.Components {
		if c.IsRegistered() {
			out = append(out, c)
		}
	}
	return out
}

// Injectable returns the components with injectable fields
func (p *PackageMetadata) Injectable() []ComponentMetadata {
	var out []ComponentMetadata
	for _, c := range p.Components {
		if c.IsInjectable() {
			out = append(out, c)
		}
	}
	return out
}
