package gen

import (
	"strings"
	"unicode"

	"github.com/dave/jennifer/jen"
	"github.com/koskimas/lexgen/internal/casing"
	"github.com/koskimas/lexgen/internal/model"
)

const (
	suffixParams = "Params"
	suffixInput  = "Input"
	suffixOutput = "Output"
	suffixNSID   = "NSID"
	infixErr     = "Err"

	tagJson      = "json"
	tagOmitEmpty = ",omitempty"
)

// decl is one package level declaration and the names it declares.
type decl struct {
	names []string
	doc   []string
	code  *jen.Statement
}

func (d decl) addTo(f *jen.File) {
	for _, line := range d.doc {
		f.Comment(line)
	}

	f.Add(d.code)
	f.Empty()
}

type field struct {
	prop     string
	ident    string
	prim     model.Primitive
	required bool
}

func lexiconDecls(l model.Lexicon) ([]decl, error) {
	switch t := l.Type.(type) {
	case model.Object:
		return objectDecls(l, t)
	case model.Query:
		return queryProcDecls(l, t.XrpcQueryProc)
	case model.Procedure:
		return queryProcDecls(l, t.XrpcQueryProc)
	case model.Token, model.Record, model.Blob, model.Image, model.Video, model.Audio:
		return nil, model.Errorf(model.ErrUnsupportedVariant, l.ID, t.Tag(), "code generation is not implemented for this type")
	}

	return nil, model.Errorf(model.ErrUnsupportedVariant, l.ID, "", "unhandled lexicon type %T", l.Type)
}

func objectDecls(l model.Lexicon, o model.Object) ([]decl, error) {
	name, err := typeName(l)
	if err != nil {
		return nil, err
	}

	doc := append([]string{name + " is the " + l.ID + " object."}, descriptionLines(l.Description)...)
	return structDecls(l, name, doc, o)
}

func queryProcDecls(l model.Lexicon, qp model.XrpcQueryProc) ([]decl, error) {
	name, err := typeName(l)
	if err != nil {
		return nil, err
	}

	consts, err := methodConsts(l, name, qp)
	if err != nil {
		return nil, err
	}

	decls := []decl{consts}

	if qp.Parameters != nil {
		sn := name + suffixParams
		doc := []string{sn + " holds the query parameters of " + l.ID + "."}

		d, err := structDecls(l, sn, doc, qp.Parameters.Object())
		if err != nil {
			return nil, err
		}

		decls = append(decls, d...)
	}

	bodies := []struct {
		suffix string
		kind   string
		body   *model.Body
	}{
		{suffixInput, "input", qp.Input},
		{suffixOutput, "output", qp.Output},
	}

	for _, b := range bodies {
		if b.body == nil {
			continue
		}

		sn := name + b.suffix
		doc := []string{sn + " is the " + b.body.Encoding + " " + b.kind + " body of " + l.ID + "."}

		d, err := structDecls(l, sn, doc, b.body.Schema)
		if err != nil {
			return nil, err
		}

		decls = append(decls, d...)
	}

	return decls, nil
}

// methodConsts declares the method identifier and the names of the errors the
// method can return.
func methodConsts(l model.Lexicon, name string, qp model.XrpcQueryProc) (decl, error) {
	nsid := name + suffixNSID
	d := decl{
		names: []string{nsid},
		doc:   append([]string{nsid + " is the method identifier of " + l.ID + "."}, descriptionLines(l.Description)...),
	}

	errIdents := make(map[string]string)
	for _, e := range qp.Errors {
		ident := casing.ToPascal(e.Name)
		if ident == "" {
			return decl{}, model.Errorf(model.ErrSchemaMismatch, l.ID, l.Type.Tag(), `error "%s" has no usable name`, e.Name)
		}

		if other, ok := errIdents[ident]; ok {
			return decl{}, model.Errorf(model.ErrSchemaMismatch, l.ID, l.Type.Tag(), `errors "%s" and "%s" have the same name`, other, e.Name)
		}

		errIdents[ident] = e.Name
		d.names = append(d.names, name+infixErr+ident)
	}

	d.code = jen.Const().DefsFunc(func(g *jen.Group) {
		g.Id(nsid).Op("=").Lit(l.ID)

		for _, e := range qp.Errors {
			for _, line := range descriptionLines(e.Description) {
				g.Comment(line)
			}

			g.Id(name + infixErr + casing.ToPascal(e.Name)).Op("=").Lit(e.Name)
		}
	})

	return d, nil
}

// structDecls declares struct `name` for `o` followed by the constants of its
// string enums.
func structDecls(l model.Lexicon, name string, doc []string, o model.Object) ([]decl, error) {
	fields, err := structFields(l, o)
	if err != nil {
		return nil, err
	}

	decls := []decl{{
		names: []string{name},
		doc:   doc,
		code: jen.Type().Id(name).StructFunc(func(g *jen.Group) {
			for _, f := range fields {
				g.Id(f.ident).Add(fieldType(f)).Tag(map[string]string{tagJson: jsonTag(f)})
			}
		}),
	}}

	for _, f := range fields {
		if len(f.prim.Enum) == 0 {
			continue
		}

		d, err := enumDecl(l, name+f.ident, f)
		if err != nil {
			return nil, err
		}

		decls = append(decls, d)
	}

	return decls, nil
}

func structFields(l model.Lexicon, o model.Object) ([]field, error) {
	fields := make([]field, 0, len(o.Properties))
	props := make(map[string]string)

	for _, prop := range o.PropertyNames() {
		ident, ok := goIdent(prop)
		if !ok {
			return nil, model.Errorf(model.ErrSchemaMismatch, l.ID, l.Type.Tag(), `property "%s" has no usable Go name`, prop)
		}

		if other, ok := props[ident]; ok {
			return nil, model.Errorf(model.ErrSchemaMismatch, l.ID, l.Type.Tag(), `properties "%s" and "%s" both map to field %s`, other, prop, ident)
		}

		prim := o.Properties[prop]
		if !isPrimitive(prim.Type) {
			return nil, model.Errorf(model.ErrUnknownVariant, l.ID, string(prim.Type), `property "%s" is not a primitive type`, prop)
		}

		props[ident] = prop
		fields = append(fields, field{
			prop:     prop,
			ident:    ident,
			prim:     prim,
			required: o.IsRequired(prop),
		})
	}

	return fields, nil
}

func enumDecl(l model.Lexicon, prefix string, f field) (decl, error) {
	d := decl{
		doc: []string{"Known values of " + prefix + "."},
	}

	values := make(map[string]string)
	for _, v := range f.prim.Enum {
		suffix := casing.ToPascal(v)
		if suffix == "" {
			return decl{}, model.Errorf(model.ErrSchemaMismatch, l.ID, l.Type.Tag(), `enum value "%s" of property "%s" has no usable name`, v, f.prop)
		}

		if other, ok := values[suffix]; ok {
			return decl{}, model.Errorf(model.ErrSchemaMismatch, l.ID, l.Type.Tag(), `enum values "%s" and "%s" of property "%s" have the same name`, other, v, f.prop)
		}

		values[suffix] = v
		d.names = append(d.names, prefix+suffix)
	}

	d.code = jen.Const().DefsFunc(func(g *jen.Group) {
		for i, v := range f.prim.Enum {
			g.Id(d.names[i]).Op("=").Lit(v)
		}
	})

	return d, nil
}

func fieldType(f field) *jen.Statement {
	var t *jen.Statement

	switch f.prim.Type {
	case model.PrimitiveBoolean:
		t = jen.Bool()
	case model.PrimitiveNumber:
		t = jen.Float64()
	case model.PrimitiveInteger:
		t = jen.Int64()
	case model.PrimitiveString:
		t = jen.String()
	}

	if f.required {
		return t
	}

	return jen.Op("*").Add(t)
}

func isPrimitive(t model.PrimitiveType) bool {
	switch t {
	case model.PrimitiveBoolean, model.PrimitiveNumber, model.PrimitiveInteger, model.PrimitiveString:
		return true
	}

	return false
}

func jsonTag(f field) string {
	if f.required {
		return f.prop
	}

	return f.prop + tagOmitEmpty
}

// typeName returns the name of the types generated for `l`: the last segment
// of its identifier in PascalCase.
func typeName(l model.Lexicon) (string, error) {
	name, ok := goIdent(l.Name())
	if !ok {
		return "", model.Errorf(model.ErrSchemaMismatch, l.ID, l.Type.Tag(), "identifier has no usable Go name")
	}

	return name, nil
}

func goIdent(s string) (string, bool) {
	ident := casing.ToPascal(s)
	if ident == "" || unicode.IsDigit(rune(ident[0])) {
		return "", false
	}

	return ident, true
}

func descriptionLines(desc string) []string {
	if strings.TrimSpace(desc) == "" {
		return nil
	}

	return strings.Split(strings.TrimSpace(desc), "\n")
}
