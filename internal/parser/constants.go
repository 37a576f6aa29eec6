package parser

import "golang.org/x/tools/go/packages"

const (
	// DefaultMarkerPackage is the import path that declares Register
	DefaultMarkerPackage = "github.com/sapo-creations/sapodi/pkg/sapodi"

	// DefaultTagName is the struct tag key of the injection marker
	DefaultTagName = "inject"

	markerTypeName = "Register"
)

// loadMode asks go/packages for type-checked syntax of the matched packages
const loadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo
