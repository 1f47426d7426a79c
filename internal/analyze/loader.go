package analyze

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"reflect"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/tools/go/packages"

	"wiremeta/descriptor"
	"wiremeta/internal/directive"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// Accessor and constructor name prefixes.
const (
	ConstructorPrefix = "New"
	SetterPrefix      = "Set"
)

// Analyzer loads Go packages and builds a type graph.
type Analyzer struct {
	graph  *TypeGraph
	dir    string
	logger *zap.Logger
}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		graph:  NewTypeGraph(),
		logger: zap.NewNop(),
	}
}

// WithDir sets the directory patterns are resolved from.
func (a *Analyzer) WithDir(dir string) *Analyzer {
	a.dir = dir
	return a
}

// WithLogger sets the logger receiving skipped declarations at debug level.
func (a *Analyzer) WithLogger(l *zap.Logger) *Analyzer {
	if l != nil {
		a.logger = l
	}

	return a
}

// LoadPackages loads the specified packages and builds the type graph.
// Patterns are standard Go package patterns (e.g., "./catalog", "wiremeta/catalog").
func (a *Analyzer) LoadPackages(patterns ...string) (*TypeGraph, error) {
	cfg := &packages.Config{
		Mode: LoadMode,
		Dir:  a.dir,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found matching %v", patterns)
	}

	// Check for package errors
	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %v", errs)
	}

	// Process each package
	for _, pkg := range pkgs {
		if err := a.processPackage(pkg); err != nil {
			return nil, fmt.Errorf("failed to process package %s: %w", pkg.PkgPath, err)
		}
	}

	return a.graph, nil
}

// Graph returns the current type graph.
func (a *Analyzer) Graph() *TypeGraph {
	return a.graph
}

// pass holds the syntax lookups of one package.
type pass struct {
	pkg    *packages.Package
	fields map[*types.Var]*ast.Field
	funcs  map[*types.Func]*ast.FuncDecl
	logger *zap.Logger
}

func newPass(pkg *packages.Package, logger *zap.Logger) *pass {
	p := &pass{
		pkg:    pkg,
		fields: make(map[*types.Var]*ast.Field),
		funcs:  make(map[*types.Func]*ast.FuncDecl),
		logger: logger.With(zap.String("package", pkg.PkgPath)),
	}

	for _, file := range pkg.Syntax {
		ast.Inspect(file, func(n ast.Node) bool {
			switch n := n.(type) {
			case *ast.FuncDecl:
				if fn, ok := pkg.TypesInfo.Defs[n.Name].(*types.Func); ok {
					p.funcs[fn] = n
				}
			case *ast.StructType:
				for _, f := range n.Fields.List {
					for _, name := range f.Names {
						if v, ok := pkg.TypesInfo.Defs[name].(*types.Var); ok {
							p.fields[v] = f
						}
					}
				}
			}
			return true
		})
	}

	return p
}

// processPackage extracts descriptors from a loaded package.
func (a *Analyzer) processPackage(pkg *packages.Package) error {
	p := newPass(pkg, a.logger)

	pkgInfo := &PackageInfo{
		Path: pkg.PkgPath,
		Name: pkg.Name,
	}

	scope := pkg.Types.Scope()

	var funcs []*types.Func

	for _, name := range scope.Names() {
		obj := scope.Lookup(name)

		if fn, ok := obj.(*types.Func); ok {
			funcs = append(funcs, fn)
			continue
		}

		// Only process exported type names
		typeName, ok := obj.(*types.TypeName)
		if !ok || !typeName.Exported() || typeName.IsAlias() {
			continue
		}

		named, ok := typeName.Type().(*types.Named)
		if !ok {
			continue
		}

		if named.TypeParams().Len() > 0 {
			p.logger.Debug("generic type skipped", zap.String("type", name))
			continue
		}

		if types.IsInterface(named) {
			p.logger.Debug("interface skipped", zap.String("type", name))
			continue
		}

		desc, err := p.describe(named)
		if err != nil {
			return err
		}

		a.graph.Types[desc.ID] = desc
		pkgInfo.Types = append(pkgInfo.Types, desc.ID)
	}

	// Constructors are attached in declaration order.
	slices.SortFunc(funcs, func(x, y *types.Func) int { return int(x.Pos() - y.Pos()) })

	for _, fn := range funcs {
		if err := a.attachConstructor(p, fn); err != nil {
			return err
		}
	}

	a.graph.Packages[pkg.PkgPath] = pkgInfo

	return nil
}

func (a *Analyzer) attachConstructor(p *pass, fn *types.Func) error {
	dirs, err := p.funcDirectives(fn)
	if err != nil {
		return err
	}

	pos := p.pkg.Fset.Position(fn.Pos())

	target, ctor, reason := p.constructor(fn)
	if reason != "" {
		if len(dirs) > 0 {
			return fmt.Errorf("%s: %s on %s: %s", pos, dirs[0], fn.Name(), reason)
		}
		return nil
	}

	if err := allowOnly(dirs, directive.KindConstructor); err != nil {
		return fmt.Errorf("%s: %w", fn.Name(), err)
	}
	ctor.Marked = dirs.Has(directive.KindConstructor)

	desc := a.graph.Types[target]
	if desc == nil {
		if ctor.Marked {
			return fmt.Errorf("%s: %s builds %s, which is not described", pos, fn.Name(), target)
		}
		return nil
	}

	desc.Constructors = append(desc.Constructors, ctor)

	return nil
}

// constructor reports which type fn builds. A non-empty reason tells why fn
// is not a constructor.
func (p *pass) constructor(fn *types.Func) (descriptor.TypeID, descriptor.Constructor, string) {
	var none descriptor.Constructor

	name := fn.Name()
	if !strings.HasPrefix(name, ConstructorPrefix) && !strings.HasPrefix(name, lowerFirst(ConstructorPrefix)) {
		return descriptor.TypeID{}, none, "name does not start with " + ConstructorPrefix
	}

	sig, ok := fn.Type().(*types.Signature)
	if !ok || sig.Recv() != nil {
		return descriptor.TypeID{}, none, "not a package function"
	}

	if sig.TypeParams().Len() > 0 {
		return descriptor.TypeID{}, none, "generic functions are not constructors"
	}

	if sig.Variadic() {
		return descriptor.TypeID{}, none, "variadic functions are not constructors"
	}

	res := sig.Results()
	switch {
	case res.Len() == 1:
	case res.Len() == 2 && isError(res.At(1).Type()):
	default:
		return descriptor.TypeID{}, none, "must return T or *T, optionally with error"
	}

	out := res.At(0).Type()
	if ptr, ok := out.(*types.Pointer); ok {
		out = ptr.Elem()
	}

	named, ok := out.(*types.Named)
	if !ok || named.Obj().Pkg() != p.pkg.Types {
		return descriptor.TypeID{}, none, "result is not a type of this package"
	}

	ctor := descriptor.Constructor{
		Name:   name,
		Public: fn.Exported(),
	}

	params := sig.Params()
	for i := range params.Len() {
		v := params.At(i)
		ctor.Params = append(ctor.Params, descriptor.P(v.Name(), SourceType(v.Type())))
	}

	return descriptor.TypeID{PkgPath: p.pkg.PkgPath, Name: named.Obj().Name()}, ctor, ""
}

// describe builds the descriptor of a named type.
func (p *pass) describe(named *types.Named) (*descriptor.Type, error) {
	obj := named.Obj()

	desc := &descriptor.Type{
		ID:    descriptor.TypeID{PkgPath: obj.Pkg().Path(), Name: obj.Name()},
		Class: classOf(named),
	}

	fieldNames := make(map[string]bool)

	if st, ok := named.Underlying().(*types.Struct); ok {
		for _, vf := range visibleFields(st) {
			m, err := p.field(vf)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", desc.ID, err)
			}

			fieldNames[m.Name] = true
			desc.Members = append(desc.Members, m)
		}
	}

	props, err := p.properties(named, fieldNames)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", desc.ID, err)
	}
	desc.Members = append(desc.Members, props...)

	return desc, nil
}

// visibleField is a struct field reachable from the outer struct, possibly
// promoted through embedded structs.
type visibleField struct {
	v     *types.Var
	tag   string
	depth int
}

// visibleFields lists fields like reflect.VisibleFields: embedded structs
// are replaced by their promoted fields, a shallower field hides a deeper
// one of the same name, and names promoted twice at the same depth are
// ambiguous and dropped.
func visibleFields(st *types.Struct) []visibleField {
	var out []visibleField

	byName := make(map[string]int)
	ambiguous := make(map[string]bool)
	seen := map[*types.Struct]bool{st: true}

	var walk func(st *types.Struct, depth int)
	walk = func(st *types.Struct, depth int) {
		for i := range st.NumFields() {
			f := st.Field(i)

			if f.Embedded() {
				if est := embeddedStruct(f.Type()); est != nil {
					if !seen[est] {
						seen[est] = true
						walk(est, depth+1)
					}
					continue
				}
			}

			vf := visibleField{v: f, tag: st.Tag(i), depth: depth}

			if f.Name() == "_" {
				out = append(out, vf)
				continue
			}

			if j, ok := byName[f.Name()]; ok {
				switch {
				case out[j].depth > depth:
					out[j] = vf
					delete(ambiguous, f.Name())
				case out[j].depth == depth:
					ambiguous[f.Name()] = true
				}
				continue
			}

			byName[f.Name()] = len(out)
			out = append(out, vf)
		}
	}

	walk(st, 0)

	if len(ambiguous) == 0 {
		return out
	}

	return slices.DeleteFunc(out, func(vf visibleField) bool {
		return ambiguous[vf.v.Name()]
	})
}

func embeddedStruct(t types.Type) *types.Struct {
	if ptr, ok := t.(*types.Pointer); ok {
		t = ptr.Elem()
	}

	st, _ := t.Underlying().(*types.Struct)

	return st
}

func (p *pass) field(vf visibleField) (descriptor.Member, error) {
	tag := descriptor.ParseTag(reflect.StructTag(vf.tag))

	access := descriptor.AccessPublic
	if !vf.v.Exported() {
		access = descriptor.AccessNonPublic
	}

	m := descriptor.Member{
		Name:      vf.v.Name(),
		Kind:      descriptor.MemberField,
		Type:      SourceType(vf.v.Type()),
		Getter:    access,
		Setter:    access,
		Generated: tag.Generated,
		Tags:      tag.Annotations,
	}

	var dirs directive.Set
	if f := p.fields[vf.v]; f != nil {
		var err error
		if dirs, err = directive.FromComments(p.pkg.Fset, f.Doc, f.Comment); err != nil {
			return m, err
		}
	}

	if err := allowOnly(dirs, directive.KindIgnore, directive.KindName); err != nil {
		return m, fmt.Errorf("field %s: %w", m.Name, err)
	}

	annotate(&m, dirs)

	return m, nil
}

type accessorPair struct {
	name   string
	getter *types.Func
	setter *types.Func
}

func (a *accessorPair) pos() token.Pos {
	if a.getter != nil && (a.setter == nil || a.getter.Pos() < a.setter.Pos()) {
		return a.getter.Pos()
	}

	return a.setter.Pos()
}

// properties pairs getter X() T with setter SetX(T) in the method set of *T.
// Unexported pairs x() T and setX(T) give non-public properties. A getter
// without setter needs the property directive.
func (p *pass) properties(named *types.Named, fieldNames map[string]bool) ([]descriptor.Member, error) {
	ms := types.NewMethodSet(types.NewPointer(named))

	found := make(map[string]*accessorPair)
	slot := func(name string) *accessorPair {
		a, ok := found[name]
		if !ok {
			a = &accessorPair{name: name}
			found[name] = a
		}
		return a
	}

	for i := range ms.Len() {
		fn, ok := ms.At(i).Obj().(*types.Func)
		if !ok {
			continue
		}

		sig := fn.Type().(*types.Signature)

		if prop, ok := setterProperty(fn.Name()); ok && isSetter(sig) {
			slot(prop).setter = fn
			continue
		}

		if isGetter(sig) {
			slot(fn.Name()).getter = fn
		}
	}

	pairs := make([]*accessorPair, 0, len(found))
	for _, a := range found {
		pairs = append(pairs, a)
	}
	slices.SortFunc(pairs, func(x, y *accessorPair) int { return int(x.pos() - y.pos()) })

	var members []descriptor.Member

	for _, a := range pairs {
		if fieldNames[a.name] {
			continue
		}

		dirs, err := p.accessorDirectives(a)
		if err != nil {
			return nil, err
		}

		if a.setter == nil && !dirs.Has(directive.KindProperty) {
			continue
		}

		if a.getter == nil && dirs.Has(directive.KindProperty) {
			return nil, fmt.Errorf("property %s: %s%s needs a getter", a.name, directive.Prefix, directive.KindProperty)
		}

		m := descriptor.Member{Name: a.name, Kind: descriptor.MemberProperty}

		if a.getter != nil {
			t := a.getter.Type().(*types.Signature).Results().At(0).Type()
			m.Type = SourceType(t)
			m.Getter = accessOf(a.getter)
		}

		if a.setter != nil {
			t := a.setter.Type().(*types.Signature).Params().At(0).Type()
			if m.Type != nil && !m.Type.Identical(SourceType(t)) {
				return nil, fmt.Errorf("property %s: getter returns %s, setter takes %s", a.name, m.Type, SourceType(t))
			}
			m.Type = SourceType(t)
			m.Setter = accessOf(a.setter)
		}

		annotate(&m, dirs)
		members = append(members, m)
	}

	return members, nil
}

func (p *pass) accessorDirectives(a *accessorPair) (directive.Set, error) {
	var dirs directive.Set

	for _, fn := range []*types.Func{a.getter, a.setter} {
		if fn == nil {
			continue
		}

		d, err := p.funcDirectives(fn)
		if err != nil {
			return nil, err
		}
		dirs = append(dirs, d...)
	}

	if err := allowOnly(dirs, directive.KindIgnore, directive.KindName, directive.KindProperty); err != nil {
		return nil, fmt.Errorf("property %s: %w", a.name, err)
	}

	return dirs, nil
}

func (p *pass) funcDirectives(fn *types.Func) (directive.Set, error) {
	decl := p.funcs[fn]
	if decl == nil {
		return nil, nil
	}

	return directive.FromComments(p.pkg.Fset, decl.Doc)
}

// allowOnly rejects directives of other kinds.
func allowOnly(dirs directive.Set, kinds ...directive.Kind) error {
	for _, d := range dirs {
		if !slices.Contains(kinds, d.Kind) {
			return fmt.Errorf("%s: %s is not allowed here", d.Pos, d)
		}
	}

	return nil
}

func annotate(m *descriptor.Member, dirs directive.Set) {
	if dirs.Has(directive.KindIgnore) {
		m.Tags.Ignore = true
	}

	if d, ok := dirs.Get(directive.KindName); ok {
		m.Tags.WireName = d.Arg
	}
}

// setterProperty maps SetX to X and setX to x.
func setterProperty(name string) (string, bool) {
	for _, prefix := range []string{SetterPrefix, lowerFirst(SetterPrefix)} {
		rest, ok := strings.CutPrefix(name, prefix)
		if !ok || rest == "" {
			continue
		}

		r, _ := utf8.DecodeRuneInString(rest)
		if !unicode.IsUpper(r) {
			continue
		}

		if prefix == SetterPrefix {
			return rest, true
		}

		return lowerFirst(rest), true
	}

	return "", false
}

func isGetter(sig *types.Signature) bool {
	return sig.Params().Len() == 0 && sig.Results().Len() == 1 && !isError(sig.Results().At(0).Type())
}

func isSetter(sig *types.Signature) bool {
	if sig.Params().Len() != 1 || sig.Variadic() {
		return false
	}

	res := sig.Results()

	return res.Len() == 0 || (res.Len() == 1 && isError(res.At(0).Type()))
}

var errorType = types.Universe.Lookup("error").Type()

func isError(t types.Type) bool {
	return types.Identical(t, errorType)
}

func accessOf(fn *types.Func) descriptor.Access {
	if fn.Exported() {
		return descriptor.AccessPublic
	}

	return descriptor.AccessNonPublic
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToLower(r)) + s[size:]
}
