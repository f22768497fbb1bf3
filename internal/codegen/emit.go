package codegen

import (
	"bytes"
	"fmt"
	"go/format"
	"strings"
)

const modulePath = "github.com/strataconf/strata"

// emit renders the generated source for the classified types and gofmt's it.
// Everything is written in a fixed order so output is byte-identical across
// runs.
func emit(pkgName string, infos []typeInfo) ([]byte, error) {
	qual := "strata."
	if pkgName == "strata" {
		qual = ""
	}

	var b bytes.Buffer
	fmt.Fprintf(&b, "// Code generated by stratagen; DO NOT EDIT.\n\n")
	fmt.Fprintf(&b, "package %s\n\n", pkgName)

	writeImports(&b, pkgName, infos)

	for _, info := range infos {
		emitType(&b, qual, info)
	}

	src, err := format.Source(b.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format generated source: %w", err)
	}
	return src, nil
}

func writeImports(b *bytes.Buffer, pkgName string, infos []typeInfo) {
	needsTime := false
	for _, info := range infos {
		for _, f := range info.Fields {
			if strings.Contains(f.TypeExpr, "time.") {
				needsTime = true
			}
		}
	}

	fmt.Fprintf(b, "import (\n")
	fmt.Fprintf(b, "\t\"context\"\n")
	fmt.Fprintf(b, "\t\"fmt\"\n")
	if needsTime {
		fmt.Fprintf(b, "\t\"time\"\n")
	}
	if pkgName != "strata" {
		fmt.Fprintf(b, "\n\tstrata %q\n", modulePath)
	}
	fmt.Fprintf(b, ")\n\n")
}

func emitType(b *bytes.Buffer, qual string, info typeInfo) {
	name := info.Name
	partial := name + "Partial"
	schemaVar := lowerFirst(name) + "Schema"

	// Partial type.
	fmt.Fprintf(b, "// %s is one source's present/absent view of %s.\n", partial, name)
	fmt.Fprintf(b, "type %s struct {\n", partial)
	for _, f := range info.Fields {
		fmt.Fprintf(b, "\t%s %s `strata:%q`\n", f.GoName, partialFieldType(qual, f), f.Key)
	}
	fmt.Fprintf(b, "}\n\n")

	// Partial interface: Schema.
	fmt.Fprintf(b, "// Schema implements %sPartial.\n", qual)
	fmt.Fprintf(b, "func (p *%s) Schema() *%sSchema { return %sSchema() }\n\n", partial, qual, name)

	// Partial interface: Get.
	fmt.Fprintf(b, "// Get implements %sPartial.\n", qual)
	fmt.Fprintf(b, "func (p *%s) Get(i int) (any, bool) {\n", partial)
	fmt.Fprintf(b, "\tswitch i {\n")
	for i, f := range info.Fields {
		fmt.Fprintf(b, "\tcase %d:\n", i)
		if f.Kind == kindNested {
			fmt.Fprintf(b, "\t\tif p.%s != nil {\n\t\t\treturn p.%s, true\n\t\t}\n", f.GoName, f.GoName)
		} else {
			fmt.Fprintf(b, "\t\tif p.%s.Set {\n\t\t\treturn p.%s.Value, true\n\t\t}\n", f.GoName, f.GoName)
		}
	}
	fmt.Fprintf(b, "\t}\n\treturn nil, false\n}\n\n")

	// Schema descriptor.
	fmt.Fprintf(b, "var %s = &%sSchema{\n", schemaVar, qual)
	fmt.Fprintf(b, "\tName: %q,\n", name)
	fmt.Fprintf(b, "\tFields: []%sField{\n", qual)
	for _, f := range info.Fields {
		fmt.Fprintf(b, "\t\t%s,\n", schemaField(qual, f))
	}
	fmt.Fprintf(b, "\t},\n")
	fmt.Fprintf(b, "\tBuild: func(values []any) any {\n")
	fmt.Fprintf(b, "\t\treturn %s{\n", name)
	for i, f := range info.Fields {
		fmt.Fprintf(b, "\t\t\t%s: %s,\n", f.GoName, buildExpr(qual, f, i))
	}
	fmt.Fprintf(b, "\t\t}\n\t},\n}\n\n")

	fmt.Fprintf(b, "// %sSchema returns the schema descriptor derived from %s.\n", name, name)
	fmt.Fprintf(b, "func %sSchema() *%sSchema { return %s }\n\n", name, qual, schemaVar)

	// Decode glue.
	fmt.Fprintf(b, "// Decode%s builds a %s from one source's raw data.\n", name, partial)
	fmt.Fprintf(b, "func Decode%s(raw map[string]any) (*%s, error) {\n", name, partial)
	fmt.Fprintf(b, "\tvar p %s\n", partial)
	fmt.Fprintf(b, "\tif err := %sDecode(raw, &p); err != nil {\n\t\treturn nil, err\n\t}\n", qual)
	fmt.Fprintf(b, "\treturn &p, nil\n}\n\n")

	// Resolve glue.
	fmt.Fprintf(b, "// Resolve%s merges the given partials, ordered lowest to highest\n", name)
	fmt.Fprintf(b, "// precedence, into a %s.\n", name)
	fmt.Fprintf(b, "func Resolve%s(partials []*%s, names []string, opts ...%sResolveOption) (*%s, error) {\n", name, partial, qual, name)
	fmt.Fprintf(b, "\tps := make([]%sPartial, len(partials))\n", qual)
	fmt.Fprintf(b, "\tfor i, p := range partials {\n\t\tps[i] = p\n\t}\n")
	fmt.Fprintf(b, "\tv, err := %sResolve(%sSchema(), ps, names, opts...)\n", qual, name)
	fmt.Fprintf(b, "\tif err != nil {\n\t\treturn nil, err\n\t}\n")
	fmt.Fprintf(b, "\tcfg := v.(%s)\n", name)
	fmt.Fprintf(b, "\treturn &cfg, nil\n}\n\n")

	// Load glue.
	fmt.Fprintf(b, "// Load%s loads every source in order (lowest to highest precedence),\n", name)
	fmt.Fprintf(b, "// decodes each into a partial, and resolves the result. Load and decode\n")
	fmt.Fprintf(b, "// failures are fatal; callers wanting lenient handling decode sources\n")
	fmt.Fprintf(b, "// themselves and call Resolve%s.\n", name)
	fmt.Fprintf(b, "func Load%s(ctx context.Context, sources []%sSource, opts ...%sResolveOption) (*%s, error) {\n", name, qual, qual, name)
	fmt.Fprintf(b, "\tpartials := make([]*%s, 0, len(sources))\n", partial)
	fmt.Fprintf(b, "\tnames := make([]string, 0, len(sources))\n")
	fmt.Fprintf(b, "\tfor _, src := range sources {\n")
	fmt.Fprintf(b, "\t\traw, err := src.Load(ctx)\n")
	fmt.Fprintf(b, "\t\tif err != nil {\n\t\t\treturn nil, fmt.Errorf(\"load source %%s: %%w\", src.Name(), err)\n\t\t}\n")
	fmt.Fprintf(b, "\t\tp, err := Decode%s(raw)\n", name)
	fmt.Fprintf(b, "\t\tif err != nil {\n\t\t\treturn nil, &%sDecodeError{Source: src.Name(), Err: err}\n\t\t}\n", qual)
	fmt.Fprintf(b, "\t\tpartials = append(partials, p)\n")
	fmt.Fprintf(b, "\t\tnames = append(names, src.Name())\n")
	fmt.Fprintf(b, "\t}\n")
	fmt.Fprintf(b, "\treturn Resolve%s(partials, names, opts...)\n}\n\n", name)
}

func partialFieldType(qual string, f field) string {
	switch f.Kind {
	case kindNested:
		return "*" + f.Nested + "Partial"
	case kindOptional:
		return f.TypeExpr
	case kindCollection:
		return fmt.Sprintf("%sOptional[[]%s]", qual, f.Elem)
	default:
		return fmt.Sprintf("%sOptional[%s]", qual, f.TypeExpr)
	}
}

func schemaField(qual string, f field) string {
	switch f.Kind {
	case kindScalar:
		return fmt.Sprintf("{Name: %q, Kind: %sKindScalar, Strategy: %sOverride, Required: true}", f.Key, qual, qual)
	case kindOptional:
		return fmt.Sprintf("{Name: %q, Kind: %sKindOptional, Strategy: %sOverride}", f.Key, qual, qual)
	case kindNested:
		return fmt.Sprintf("{Name: %q, Kind: %sKindNested, Strategy: %s%s, Sub: %sSchema()}", f.Key, qual, qual, f.Strategy, f.Nested)
	default:
		return fmt.Sprintf("{Name: %q, Kind: %sKindCollection, Strategy: %s%s}", f.Key, qual, qual, f.Strategy)
	}
}

func buildExpr(qual string, f field, i int) string {
	switch f.Kind {
	case kindScalar:
		return fmt.Sprintf("values[%d].(%s)", i, f.TypeExpr)
	case kindOptional:
		return fmt.Sprintf("%sAsOptional[%s](values[%d])", qual, f.Elem, i)
	case kindNested:
		return fmt.Sprintf("values[%d].(%s)", i, f.Nested)
	default:
		return fmt.Sprintf("%sAsSlice[%s](values[%d])", qual, f.Elem, i)
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
