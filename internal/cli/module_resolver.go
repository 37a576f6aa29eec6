package cli

import (
	"fmt"
	"path/filepath"

	"github.com/sapo-creations/sapodi/internal/utils"
)

// ModuleResolver handles resolving Go module information
type ModuleResolver struct {
	goMod *utils.GoModParser
}

// NewModuleResolver creates a new module resolver
func NewModuleResolver(reader *utils.FileReader) *ModuleResolver {
	return &ModuleResolver{goMod: utils.NewGoModParser(reader)}
}

// ResolveModuleName returns customModule when set, otherwise the module
// declared by the nearest go.mod at or above dir
func (r *ModuleResolver) ResolveModuleName(customModule, dir string) (string, error) {
	if customModule != "" {
		return customModule, nil
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve directory %s: %w", dir, err)
	}

	goModPath, err := r.goMod.FindGoModFile(absDir)
	if err != nil {
		return "", fmt.Errorf("failed to determine module name: %w (consider using --module flag)", err)
	}

	return r.goMod.ParseModuleName(goModPath)
}
