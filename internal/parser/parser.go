package parser

import (
	stderrors "errors"
	"go/token"
	"go/types"
	"path/filepath"
	"reflect"
	"slices"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/sapo-creations/sapodi/internal/annotations"
	"github.com/sapo-creations/sapodi/internal/errors"
	"github.com/sapo-creations/sapodi/internal/models"
)

// Parser loads Go packages from source and extracts their marker metadata
type Parser struct {
	markerPackage string
	tagName       string
	env           []string
	fileSet       *token.FileSet
	tags          *annotations.TagParser
	reporter      *ErrorReporter
}

// Option configures a Parser
type Option func(*Parser)

// WithMarkerPackage sets the import path that declares the Register marker
func WithMarkerPackage(path string) Option {
	return func(p *Parser) {
		if path != "" {
			p.markerPackage = path
		}
	}
}

// WithTagName sets the struct tag key of the injection marker
func WithTagName(name string) Option {
	return func(p *Parser) {
		if name != "" {
			p.tagName = name
		}
	}
}

// WithEnv sets the environment of the underlying go command
func WithEnv(env []string) Option {
	return func(p *Parser) { p.env = env }
}

// NewParser creates a new marker parser
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		markerPackage: DefaultMarkerPackage,
		tagName:       DefaultTagName,
		fileSet:       token.NewFileSet(),
		tags:          annotations.DefaultTagParser(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.reporter = NewErrorReporter(p.fileSet, p.tagName)
	return p
}

// Result holds everything one ParsePackages call found
type Result struct {
	Packages []models.PackageMetadata
	Problems *errors.Problems // marker configuration errors
	Failures []*errors.BaseError    // packages skipped because they failed to load
}

// Components returns the number of marked components across all packages
func (r *Result) Components() int {
	n := 0
	for _, pkg := range r.Packages {
		n += len(pkg.Components)
	}
	return n
}

// ParsePackages loads the packages matching patterns relative to dir. A
// package that fails to load or type-check is recorded in Failures and
// skipped; the error return is reserved for failures of the loader itself.
func (p *Parser) ParsePackages(dir string, patterns ...string) (*Result, error) {
	cfg := &packages.Config{
		Mode: loadMode,
		Dir:  dir,
		Env:  p.env,
		Fset: p.fileSet,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, errors.WrapPackageLoadError(strings.Join(patterns, " "), err)
	}

	result := &Result{Problems: &errors.Problems{}}
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			result.Failures = append(result.Failures, errors.WrapPackageLoadError(pkg.PkgPath, joinPackageErrors(pkg.Errors)))
			continue
		}
		result.Packages = append(result.Packages, p.parsePackage(pkg, result.Problems))
	}

	return result, nil
}

func (p *Parser) parsePackage(pkg *packages.Package, problems *errors.Problems) models.PackageMetadata {
	metadata := models.PackageMetadata{
		PackageName: pkg.Name,
		PackagePath: pkg.PkgPath,
	}
	if len(pkg.GoFiles) > 0 {
		metadata.Dir = filepath.Dir(pkg.GoFiles[0])
	}

	scope := pkg.Types.Scope()
	var typeNames []*types.TypeName
	for _, name := range scope.Names() {
		if tn, ok := scope.Lookup(name).(*types.TypeName); ok && !tn.IsAlias() {
			typeNames = append(typeNames, tn)
		}
	}
	slices.SortFunc(typeNames, func(a, b *types.TypeName) int { return int(a.Pos() - b.Pos()) })

	for _, tn := range typeNames {
		named, ok := tn.Type().(*types.Named)
		if !ok || named.TypeParams().Len() > 0 {
			continue
		}
		st, ok := named.Underlying().(*types.Struct)
		if !ok {
			continue
		}
		if component, found := p.inspectComponent(tn, named, st, problems); found {
			metadata.Components = append(metadata.Components, component)
		}
	}

	return metadata
}

// inspectComponent mirrors the runtime marker query over go/types
func (p *Parser) inspectComponent(tn *types.TypeName, named *types.Named, st *types.Struct, problems *errors.Problems) (models.ComponentMetadata, bool) {
	pos := p.fileSet.Position(tn.Pos())
	component := models.ComponentMetadata{
		BaseMetadataTrait: models.BaseMetadataTrait{Name: tn.Name(), PackagePath: tn.Pkg().Path()},
		LocationTrait:     models.LocationTrait{File: pos.Filename, Line: pos.Line, Column: pos.Column},
	}
	qualified := component.QualifiedName()

	if abstraction, ok := p.registration(named, st, qualified, problems); ok {
		component.Abstraction = abstraction
	}

	w := &fieldWalker{parser: p, visiting: map[*types.Named]bool{named: true}}
	w.walk(st, nil, true)
	for _, field := range w.fields {
		if !field.Settable {
			problems.Add(p.reporter.ReportUnsettableField(qualified, field.Name, token.IsExported(field.Name), field.pos))
			continue
		}
		if _, err := p.tags.Parse(field.Tag); err != nil {
			problems.Add(p.reporter.ReportMalformedTag(qualified, field.Name, err, field.pos))
		}
	}
	for _, field := range w.fields {
		component.Fields = append(component.Fields, field.FieldMetadata)
	}

	return component, component.IsRegistered() || component.IsInjectable()
}

// registration finds a Register marker embedded at depth 0 and validates it.
// The qualified abstraction is returned only for a valid registration.
func (p *Parser) registration(named *types.Named, st *types.Struct, qualified string, problems *errors.Problems) (string, bool) {
	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)
		if !f.Embedded() {
			continue
		}

		ft := types.Unalias(f.Type())
		viaPointer := false
		if ptr, ok := ft.(*types.Pointer); ok {
			ft = types.Unalias(ptr.Elem())
			viaPointer = true
		}
		marker, ok := ft.(*types.Named)
		if !ok || !p.isMarker(marker) {
			continue
		}

		abstraction := marker.TypeArgs().At(0)
		name := types.TypeString(abstraction, nil)
		if viaPointer {
			problems.Add(p.reporter.ReportPointerMarker(qualified, name, f.Pos()))
			continue
		}
		if err := p.validateRegistration(named, abstraction, qualified, f.Pos()); err != nil {
			problems.Add(err)
			return "", false
		}
		return name, true
	}
	return "", false
}

func (p *Parser) isMarker(named *types.Named) bool {
	obj := named.Origin().Obj()
	return obj.Name() == markerTypeName &&
		obj.Pkg() != nil &&
		obj.Pkg().Path() == p.markerPackage &&
		named.TypeArgs().Len() == 1
}

func (p *Parser) validateRegistration(component *types.Named, abstraction types.Type, qualified string, pos token.Pos) *errors.BaseError {
	if types.Identical(component, abstraction) {
		return nil
	}

	name := types.TypeString(abstraction, nil)
	iface, ok := abstraction.Underlying().(*types.Interface)
	if !ok {
		return p.reporter.ReportNonInterfaceAbstraction(qualified, name, pos)
	}

	ptr := types.NewPointer(component)
	if types.Implements(component, iface) || types.Implements(ptr, iface) {
		return nil
	}

	method, wrongType := types.MissingMethod(ptr, iface, true)
	methodName := ""
	if method != nil {
		methodName = method.Name()
	}
	return p.reporter.ReportMissingImplementation(qualified, name, methodName, wrongType, pos)
}

type walkedField struct {
	models.FieldMetadata
	pos token.Pos
}

// fieldWalker expands embedded structs in place, in declaration order.
// Tagged fields are not descended into and embedding cycles are cut.
type fieldWalker struct {
	parser   *Parser
	visiting map[*types.Named]bool
	fields   []walkedField
}

func (w *fieldWalker) walk(st *types.Struct, path []string, reachable bool) {
	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)

		if value, ok := reflect.StructTag(st.Tag(i)).Lookup(w.parser.tagName); ok {
			pos := w.parser.fileSet.Position(f.Pos())
			w.fields = append(w.fields, walkedField{
				FieldMetadata: models.FieldMetadata{
					LocationTrait: models.LocationTrait{File: pos.Filename, Line: pos.Line, Column: pos.Column},
					Name:          f.Name(),
					Type:          types.TypeString(f.Type(), nil),
					Tag:           value,
					Path:          slices.Clone(path),
					Settable:      reachable && f.Exported(),
				},
				pos: f.Pos(),
			})
			continue
		}

		if !f.Embedded() {
			continue
		}

		ft := types.Unalias(f.Type())
		viaPointer := false
		if ptr, ok := ft.(*types.Pointer); ok {
			ft = types.Unalias(ptr.Elem())
			viaPointer = true
		}
		named, ok := ft.(*types.Named)
		if !ok || w.visiting[named] {
			continue
		}
		embedded, ok := named.Underlying().(*types.Struct)
		if !ok {
			continue
		}

		w.visiting[named] = true
		w.walk(embedded, append(path, f.Name()), reachable && (f.Exported() || !viaPointer))
		delete(w.visiting, named)
	}
}

func joinPackageErrors(pkgErrs []packages.Error) error {
	errs := make([]error, len(pkgErrs))
	for i, e := range pkgErrs {
		errs[i] = e
	}
	return stderrors.Join(errs...)
}
