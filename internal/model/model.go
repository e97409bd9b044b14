package model

import (
	"slices"
	"strings"
)

type PrimitiveType string

const (
	PrimitiveBoolean PrimitiveType = "boolean"
	PrimitiveNumber  PrimitiveType = "number"
	PrimitiveInteger PrimitiveType = "integer"
	PrimitiveString  PrimitiveType = "string"
)

// Primitive is the type of a single object property. Only strings carry
// additional data: the optional set of legal values.
type Primitive struct {
	Type PrimitiveType
	Enum []string
}

// Schema is one loaded lexicon document.
type Schema struct {
	ID          string
	Path        string
	Description string
	Lexicons    []Lexicon
}

// Lexicon is a single compiled definition of a document.
type Lexicon struct {
	ID          string
	Revision    *int
	Description string
	Type        Type
}

// Name returns the last dot separated segment of the identifier.
func (l Lexicon) Name() string {
	return l.ID[strings.LastIndexByte(l.ID, '.')+1:]
}

// Type is one of Token, Object, Record, Query, Procedure, Blob, Image, Video
// and Audio.
type Type interface {
	// Tag returns the value of the `type` field the definition was read from.
	Tag() string
	lexiconType()
}

type Token struct{}

type Object struct {
	Properties map[string]Primitive
	Required   []string
}

func (o Object) IsRequired(prop string) bool {
	return slices.Contains(o.Required, prop)
}

// PropertyNames returns the property names in sorted order.
func (o Object) PropertyNames() []string {
	names := make([]string, 0, len(o.Properties))

	for n := range o.Properties {
		names = append(names, n)
	}

	slices.Sort(names)
	return names
}

type Record struct {
	Key    string
	Record Object
}

// XrpcQueryProc is the shared payload of queries and procedures.
type XrpcQueryProc struct {
	Parameters *Params
	Input      *Body
	Output     *Body
	Errors     []XrpcError
}

type Params struct {
	Properties map[string]Primitive
}

// Object returns the parameters as an object where every property is required.
func (p Params) Object() Object {
	o := Object{
		Properties: p.Properties,
		Required:   make([]string, 0, len(p.Properties)),
	}

	for n := range p.Properties {
		o.Required = append(o.Required, n)
	}

	return o
}

type Body struct {
	Encoding string
	Schema   Object
}

type XrpcError struct {
	Name        string
	Description string
}

type Query struct {
	XrpcQueryProc
}

type Procedure struct {
	XrpcQueryProc
}

type Blob struct{}

type Image struct{}

type Video struct{}

type Audio struct{}

func (Token) Tag() string     { return "token" }
func (Object) Tag() string    { return "object" }
func (Record) Tag() string    { return "record" }
func (Query) Tag() string     { return "query" }
func (Procedure) Tag() string { return "procedure" }
func (Blob) Tag() string      { return "blob" }
func (Image) Tag() string     { return "image" }
func (Video) Tag() string     { return "video" }
func (Audio) Tag() string     { return "audio" }

func (Token) lexiconType()     {}
func (Object) lexiconType()    {}
func (Record) lexiconType()    {}
func (Query) lexiconType()     {}
func (Procedure) lexiconType() {}
func (Blob) lexiconType()      {}
func (Image) lexiconType()     {}
func (Video) lexiconType()     {}
func (Audio) lexiconType()     {}
