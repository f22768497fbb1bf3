// Package codegen derives strata partial types, schema descriptors, and
// merge glue from config struct definitions. It backs the stratagen command.
package codegen

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"io/fs"
	"reflect"
	"strings"
)

// Options controls one generation run.
type Options struct {
	// Dir is the package directory to parse.
	Dir string

	// Types lists the struct type names to derive, in output order. Every
	// struct reachable through a nested field must be listed.
	Types []string

	// Tag is the struct tag key carrying merge directives. Default "strata".
	Tag string
}

type kind int

const (
	kindScalar kind = iota
	kindOptional
	kindNested
	kindCollection
)

// field is the classified form of one struct field.
type field struct {
	GoName   string
	Key      string // normalized key used in raw maps and dotted paths
	Kind     kind
	Strategy string // "Override", "Append", or "MergeNested"
	TypeExpr string // field type as written in the source
	Elem     string // collection element type / optional inner type
	Nested   string // nested struct type name
}

type typeInfo struct {
	Name   string
	Fields []field
}

// scalarIdents are the basic types classified Scalar (and required).
var scalarIdents = map[string]bool{
	"bool": true, "string": true,
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true,
	"float32": true, "float64": true,
}

// Generate parses the package in opts.Dir, classifies every field of the
// requested struct types, and returns the formatted generated source.
// Output is deterministic: re-running against unchanged input produces
// byte-identical source. A field that cannot be classified aborts the run
// with an error naming the field, so misuse fails at build time rather
// than at runtime.
func Generate(opts Options) ([]byte, error) {
	if len(opts.Types) == 0 {
		return nil, fmt.Errorf("no types requested")
	}
	if opts.Tag == "" {
		opts.Tag = "strata"
	}

	pkgName, structs, err := parsePackage(opts.Dir)
	if err != nil {
		return nil, err
	}

	requested := make(map[string]bool, len(opts.Types))
	for _, name := range opts.Types {
		requested[name] = true
	}

	infos := make([]typeInfo, 0, len(opts.Types))
	for _, name := range opts.Types {
		st, ok := structs[name]
		if !ok {
			return nil, fmt.Errorf("type %s: not found in package %s (or not a struct)", name, pkgName)
		}
		info, err := classify(name, st, requested, opts.Tag)
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}

	if err := checkCycles(infos); err != nil {
		return nil, err
	}

	return emit(pkgName, infos)
}

// parsePackage collects every struct type declared in the directory's
// non-test files.
func parsePackage(dir string) (string, map[string]*ast.StructType, error) {
	fset := token.NewFileSet()
	pkgs, err := parser.ParseDir(fset, dir, func(fi fs.FileInfo) bool {
		return !strings.HasSuffix(fi.Name(), "_test.go")
	}, 0)
	if err != nil {
		return "", nil, fmt.Errorf("parse %s: %w", dir, err)
	}

	var pkgName string
	structs := make(map[string]*ast.StructType)
	for name, pkg := range pkgs {
		if strings.HasSuffix(name, "_test") {
			continue
		}
		if pkgName != "" {
			return "", nil, fmt.Errorf("multiple packages in %s: %s and %s", dir, pkgName, name)
		}
		pkgName = name
		for _, file := range pkg.Files {
			for _, decl := range file.Decls {
				gen, ok := decl.(*ast.GenDecl)
				if !ok || gen.Tok != token.TYPE {
					continue
				}
				for _, spec := range gen.Specs {
					ts, ok := spec.(*ast.TypeSpec)
					if !ok {
						continue
					}
					if st, ok := ts.Type.(*ast.StructType); ok {
						structs[ts.Name.Name] = st
					}
				}
			}
		}
	}
	if pkgName == "" {
		return "", nil, fmt.Errorf("no Go package found in %s", dir)
	}
	return pkgName, structs, nil
}

// classify walks a struct's fields in declaration order and assigns each a
// kind and merge strategy.
func classify(typeName string, st *ast.StructType, requested map[string]bool, tagKey string) (typeInfo, error) {
	info := typeInfo{Name: typeName}

	for _, f := range st.Fields.List {
		if len(f.Names) == 0 {
			return info, fmt.Errorf("%s: embedded fields are not supported", typeName)
		}

		for _, name := range f.Names {
			if !name.IsExported() {
				continue
			}

			tag, err := parseFieldTag(f, tagKey)
			if err != nil {
				return info, fmt.Errorf("%s.%s: %w", typeName, name.Name, err)
			}

			fld := field{
				GoName:   name.Name,
				Key:      tag.name,
				TypeExpr: types.ExprString(f.Type),
			}
			if fld.Key == "" {
				fld.Key = strings.ToLower(name.Name)
			}

			if err := classifyType(&fld, f.Type, requested); err != nil {
				return info, fmt.Errorf("%s.%s: %w", typeName, name.Name, err)
			}

			if err := applyStrategy(&fld, tag); err != nil {
				return info, fmt.Errorf("%s.%s: %w", typeName, name.Name, err)
			}

			info.Fields = append(info.Fields, fld)
		}
	}

	return info, nil
}

func classifyType(fld *field, expr ast.Expr, requested map[string]bool) error {
	switch t := expr.(type) {
	case *ast.Ident:
		if scalarIdents[t.Name] {
			fld.Kind = kindScalar
			return nil
		}
		if requested[t.Name] {
			fld.Kind = kindNested
			fld.Nested = t.Name
			return nil
		}
		return fmt.Errorf("cannot classify type %s: not a supported scalar and not among the generated types", t.Name)

	case *ast.SelectorExpr:
		name := types.ExprString(t)
		if name == "time.Duration" || name == "time.Time" {
			fld.Kind = kindScalar
			return nil
		}
		return fmt.Errorf("cannot classify type %s", name)

	case *ast.ArrayType:
		if t.Len != nil {
			return fmt.Errorf("fixed-size arrays are not supported")
		}
		elem := types.ExprString(t.Elt)
		if !isScalarExpr(t.Elt) {
			return fmt.Errorf("collection element type %s is not a supported scalar", elem)
		}
		fld.Kind = kindCollection
		fld.Elem = elem
		return nil

	case *ast.IndexExpr:
		if !isOptionalExpr(t.X) {
			return fmt.Errorf("cannot classify type %s", types.ExprString(expr))
		}
		fld.Kind = kindOptional
		fld.Elem = types.ExprString(t.Index)
		return nil

	case *ast.StarExpr:
		return fmt.Errorf("pointer fields are not supported; use strata.Optional for optional fields")

	default:
		return fmt.Errorf("cannot classify type %s", types.ExprString(expr))
	}
}

func isScalarExpr(expr ast.Expr) bool {
	switch t := expr.(type) {
	case *ast.Ident:
		return scalarIdents[t.Name]
	case *ast.SelectorExpr:
		name := types.ExprString(t)
		return name == "time.Duration" || name == "time.Time"
	}
	return false
}

// isOptionalExpr recognizes strata.Optional (or plain Optional inside the
// strata package itself).
func isOptionalExpr(expr ast.Expr) bool {
	switch t := expr.(type) {
	case *ast.SelectorExpr:
		pkg, ok := t.X.(*ast.Ident)
		return ok && pkg.Name == "strata" && t.Sel.Name == "Optional"
	case *ast.Ident:
		return t.Name == "Optional"
	}
	return false
}

// fieldTag holds parsed directives from a field's strata tag.
type fieldTag struct {
	name     string
	strategy string // "append" or "override"
}

// parseFieldTag parses directives of the form "append,override,name:key".
func parseFieldTag(f *ast.Field, tagKey string) (fieldTag, error) {
	var tag fieldTag
	if f.Tag == nil {
		return tag, nil
	}

	raw := reflect.StructTag(strings.Trim(f.Tag.Value, "`")).Get(tagKey)
	if raw == "" {
		return tag, nil
	}

	for _, directive := range strings.Split(raw, ",") {
		directive = strings.TrimSpace(directive)
		if directive == "" {
			continue
		}
		switch {
		case directive == "append" || directive == "override":
			if tag.strategy != "" {
				return tag, fmt.Errorf("conflicting merge strategies %q and %q", tag.strategy, directive)
			}
			tag.strategy = directive
		case strings.HasPrefix(directive, "name:"):
			tag.name = strings.TrimPrefix(directive, "name:")
		default:
			return tag, fmt.Errorf("unknown tag directive %q", directive)
		}
	}
	return tag, nil
}

// applyStrategy assigns the merge strategy, enforcing that collection fields
// declare theirs explicitly. A silent default is exactly how a collection
// ends up merged the wrong way, so there is none.
func applyStrategy(fld *field, tag fieldTag) error {
	switch fld.Kind {
	case kindCollection:
		switch tag.strategy {
		case "append":
			fld.Strategy = "Append"
		case "override":
			fld.Strategy = "Override"
		default:
			return fmt.Errorf("collection fields must declare a merge strategy: tag the field `%s` or `%s`", "strata:\"append\"", "strata:\"override\"")
		}
	case kindNested:
		switch tag.strategy {
		case "override":
			fld.Strategy = "Override"
		case "":
			fld.Strategy = "MergeNested"
		default:
			return fmt.Errorf("nested fields support only the override strategy tag")
		}
	default:
		if tag.strategy != "" {
			return fmt.Errorf("merge strategy tags apply to collection and nested fields only")
		}
		fld.Strategy = "Override"
	}
	return nil
}

// checkCycles rejects recursive nesting, which the generated value types
// cannot represent.
func checkCycles(infos []typeInfo) error {
	edges := make(map[string][]string, len(infos))
	for _, info := range infos {
		for _, f := range info.Fields {
			if f.Kind == kindNested {
				edges[info.Name] = append(edges[info.Name], f.Nested)
			}
		}
	}

	const (
		visiting = 1
		done     = 2
	)
	state := make(map[string]int)

	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case visiting:
			return fmt.Errorf("recursive nesting through type %s is not supported", name)
		case done:
			return nil
		}
		state[name] = visiting
		for _, next := range edges[name] {
			if err := visit(next); err != nil {
				return err
			}
		}
		state[name] = done
		return nil
	}

	for _, info := range infos {
		if err := visit(info.Name); err != nil {
			return err
		}
	}
	return nil
}
