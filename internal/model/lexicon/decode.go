package lexicon

import (
	"encoding/json"

	"github.com/koskimas/lexgen/internal/model"
)

type rawHeader struct {
	Type        *string `json:"type"`
	Revision    *int    `json:"revision"`
	Description string  `json:"description"`
}

type rawPrimitive struct {
	Type string   `json:"type"`
	Enum []string `json:"enum"`
}

type rawObject struct {
	Required   []string                `json:"required"`
	Properties map[string]rawPrimitive `json:"properties"`
}

type rawRecord struct {
	Key    string     `json:"key"`
	Record *rawObject `json:"record"`
}

type rawQueryProc struct {
	Parameters *rawParams `json:"parameters"`
	Input      *rawBody   `json:"input"`
	Output     *rawBody   `json:"output"`
	Errors     []rawError `json:"errors"`
}

type rawParams struct {
	Type       *string                 `json:"type"`
	Properties map[string]rawPrimitive `json:"properties"`
}

type rawBody struct {
	Encoding *string    `json:"encoding"`
	Schema   *rawObject `json:"schema"`
}

type rawError struct {
	Name        *string `json:"name"`
	Description string  `json:"description"`
}

// decoder decodes the definition of one lexicon and remembers its identifier
// and tag for error reporting.
type decoder struct {
	id  string
	tag string
}

func decodeLexicon(id string, def json.RawMessage) (*model.Lexicon, error) {
	var h rawHeader
	if err := json.Unmarshal(def, &h); err != nil {
		return nil, model.Wrap(model.ErrSchemaMismatch, id, "", err)
	}

	if h.Type == nil {
		return nil, model.Errorf(model.ErrSchemaMismatch, id, "", `missing "type"`)
	}

	d := decoder{id: id, tag: *h.Type}

	typ, err := d.decodeType(def)
	if err != nil {
		return nil, err
	}

	return &model.Lexicon{
		ID:          id,
		Revision:    h.Revision,
		Description: h.Description,
		Type:        typ,
	}, nil
}

func (d decoder) decodeType(def json.RawMessage) (model.Type, error) {
	switch d.tag {
	case "token":
		return model.Token{}, nil
	case "object":
		var o rawObject
		if err := d.unmarshal(def, &o); err != nil {
			return nil, err
		}

		return d.decodeObject("object", &o)
	case "record":
		return d.decodeRecord(def)
	case "query":
		qp, err := d.decodeQueryProc(def)
		if err != nil {
			return nil, err
		}

		return model.Query{XrpcQueryProc: *qp}, nil
	case "procedure":
		qp, err := d.decodeQueryProc(def)
		if err != nil {
			return nil, err
		}

		return model.Procedure{XrpcQueryProc: *qp}, nil
	case "blob":
		return model.Blob{}, nil
	case "image":
		return model.Image{}, nil
	case "video":
		return model.Video{}, nil
	case "audio":
		return model.Audio{}, nil
	}

	return nil, model.Errorf(model.ErrUnknownVariant, d.id, d.tag, "not a lexicon type")
}

func (d decoder) decodeRecord(def json.RawMessage) (model.Type, error) {
	var r rawRecord
	if err := d.unmarshal(def, &r); err != nil {
		return nil, err
	}

	if r.Record == nil {
		return nil, d.mismatch(`missing "record"`)
	}

	o, err := d.decodeObject("record", r.Record)
	if err != nil {
		return nil, err
	}

	return model.Record{Key: r.Key, Record: o}, nil
}

func (d decoder) decodeQueryProc(def json.RawMessage) (*model.XrpcQueryProc, error) {
	var r rawQueryProc
	if err := d.unmarshal(def, &r); err != nil {
		return nil, err
	}

	qp := &model.XrpcQueryProc{
		Errors: make([]model.XrpcError, 0, len(r.Errors)),
	}

	if r.Parameters != nil {
		params, err := d.decodeParams(r.Parameters)
		if err != nil {
			return nil, err
		}

		qp.Parameters = params
	}

	if r.Input != nil {
		body, err := d.decodeBody("input", r.Input)
		if err != nil {
			return nil, err
		}

		qp.Input = body
	}

	if r.Output != nil {
		body, err := d.decodeBody("output", r.Output)
		if err != nil {
			return nil, err
		}

		qp.Output = body
	}

	for i, e := range r.Errors {
		if e.Name == nil || *e.Name == "" {
			return nil, d.mismatch(`error %d is missing "name"`, i)
		}

		qp.Errors = append(qp.Errors, model.XrpcError{
			Name:        *e.Name,
			Description: e.Description,
		})
	}

	return qp, nil
}

func (d decoder) decodeParams(p *rawParams) (*model.Params, error) {
	if p.Type != nil && *p.Type != "params" {
		return nil, d.mismatch(`parameters have type "%s", expected "params"`, *p.Type)
	}

	if p.Properties == nil {
		return nil, d.mismatch(`parameters are missing "properties"`)
	}

	props, err := d.decodeProperties("parameters", p.Properties)
	if err != nil {
		return nil, err
	}

	return &model.Params{Properties: props}, nil
}

func (d decoder) decodeBody(where string, b *rawBody) (*model.Body, error) {
	if b.Encoding == nil {
		return nil, d.mismatch(`%s is missing "encoding"`, where)
	}

	if b.Schema == nil {
		return nil, d.mismatch(`%s is missing "schema"`, where)
	}

	schema, err := d.decodeObject(where+" schema", b.Schema)
	if err != nil {
		return nil, err
	}

	return &model.Body{
		Encoding: *b.Encoding,
		Schema:   schema,
	}, nil
}

func (d decoder) decodeObject(where string, o *rawObject) (model.Object, error) {
	if o.Properties == nil {
		return model.Object{}, d.mismatch(`%s is missing "properties"`, where)
	}

	props, err := d.decodeProperties(where, o.Properties)
	if err != nil {
		return model.Object{}, err
	}

	required := make([]string, 0, len(o.Required))
	for _, r := range o.Required {
		if _, ok := props[r]; !ok {
			return model.Object{}, d.mismatch(`%s requires undefined property "%s"`, where, r)
		}

		required = append(required, r)
	}

	return model.Object{
		Properties: props,
		Required:   required,
	}, nil
}

func (d decoder) decodeProperties(where string, raw map[string]rawPrimitive) (map[string]model.Primitive, error) {
	props := make(map[string]model.Primitive, len(raw))

	for name, p := range raw {
		prim, err := d.decodePrimitive(where, name, p)
		if err != nil {
			return nil, err
		}

		props[name] = prim
	}

	return props, nil
}

func (d decoder) decodePrimitive(where string, name string, p rawPrimitive) (model.Primitive, error) {
	switch model.PrimitiveType(p.Type) {
	case model.PrimitiveBoolean, model.PrimitiveNumber, model.PrimitiveInteger:
		return model.Primitive{Type: model.PrimitiveType(p.Type)}, nil
	case model.PrimitiveString:
		return model.Primitive{Type: model.PrimitiveString, Enum: p.Enum}, nil
	case "":
		return model.Primitive{}, d.mismatch(`%s property "%s" is missing "type"`, where, name)
	}

	return model.Primitive{}, model.Errorf(
		model.ErrUnknownVariant,
		d.id,
		p.Type,
		`%s property "%s" is not a primitive type`,
		where,
		name,
	)
}

func (d decoder) unmarshal(def json.RawMessage, v any) error {
	if err := json.Unmarshal(def, v); err != nil {
		return model.Wrap(model.ErrSchemaMismatch, d.id, d.tag, err)
	}

	return nil
}

func (d decoder) mismatch(format string, args ...any) error {
	return model.Errorf(model.ErrSchemaMismatch, d.id, d.tag, format, args...)
}
