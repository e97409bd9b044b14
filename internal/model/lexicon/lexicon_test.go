package lexicon

import (
	"path/filepath"
	"testing"

	"github.com/koskimas/lexgen/internal/model"
	assert "github.com/stretchr/testify/require"
)

func expand(t *testing.T, data string) ([]model.Lexicon, error) {
	doc, err := Parse([]byte(data))
	assert.NoError(t, err)
	return doc.Expand(NamingDotted)
}

func TestParseMalformedDocuments(t *testing.T) {
	tests := map[string]string{
		"not json":        `{"lexicon": 1,`,
		"not an object":   `[1, 2, 3]`,
		"missing lexicon": `{"id": "a.b.c", "defs": {"main": {"type": "token"}}}`,
		"missing id":      `{"lexicon": 1, "defs": {"main": {"type": "token"}}}`,
		"empty id":        `{"lexicon": 1, "id": "", "defs": {"main": {"type": "token"}}}`,
		"missing defs":    `{"lexicon": 1, "id": "a.b.c"}`,
		"empty defs":      `{"lexicon": 1, "id": "a.b.c", "defs": {}}`,
		"ill-typed id":    `{"lexicon": 1, "id": 5, "defs": {"main": {"type": "token"}}}`,
		"empty def name":  `{"lexicon": 1, "id": "a.b.c", "defs": {"": {"type": "token"}}}`,
	}

	for name, data := range tests {
		_, err := Parse([]byte(data))
		assert.ErrorIs(t, err, model.ErrMalformedDocument, name)
	}
}

func TestParse(t *testing.T) {
	doc, err := Parse([]byte(`{
		"lexicon": 1,
		"id": "app.bsky.feed.getPostThread",
		"description": "Get posts in a thread.",
		"defs": {"main": {"type": "query"}, "notFound": {"type": "token"}}
	}`))

	assert.NoError(t, err)
	assert.Equal(t, 1, doc.Lexicon)
	assert.Equal(t, "app.bsky.feed.getPostThread", doc.ID)
	assert.Equal(t, "Get posts in a thread.", doc.Description)
	assert.Len(t, doc.Defs, 2)
}

func TestExpandProducesOneLexiconPerDef(t *testing.T) {
	lexicons, err := expand(t, `{
		"lexicon": 1,
		"id": "com.example.thing",
		"defs": {
			"main": {"type": "object", "properties": {}},
			"view": {"type": "object", "properties": {}},
			"marker": {"type": "token"}
		}
	}`)

	assert.NoError(t, err)
	assert.Len(t, lexicons, 3)

	ids := make([]string, 0)
	mains := 0
	for _, l := range lexicons {
		ids = append(ids, l.ID)
		if l.ID == "com.example.thing" {
			mains++
		}
	}

	assert.Equal(t, 1, mains)
	assert.Equal(t, []string{"com.example.thing", "com.example.thing.marker", "com.example.thing.view"}, ids)
}

func TestQualifiedID(t *testing.T) {
	doc := &Document{ID: "com.atproto.server.createSession"}

	assert.Equal(t, "com.atproto.server.createSession", doc.QualifiedID("main", NamingDotted))
	assert.Equal(t, "com.atproto.server.createSession", doc.QualifiedID("main", NamingConcat))
	assert.Equal(t, "com.atproto.server.createSession.foo", doc.QualifiedID("foo", NamingDotted))
	assert.Equal(t, "com.atproto.server.createSessionfoo", doc.QualifiedID("foo", NamingConcat))
}

func TestDecodeObject(t *testing.T) {
	lexicons, err := expand(t, `{
		"lexicon": 1,
		"id": "com.example.session",
		"defs": {
			"main": {
				"type": "object",
				"revision": 2,
				"description": "A session.",
				"required": ["did"],
				"properties": {
					"did": {"type": "string"},
					"email": {"type": "string"},
					"age": {"type": "integer"},
					"score": {"type": "number"},
					"active": {"type": "boolean"},
					"status": {"type": "string", "enum": ["open", "closed"]}
				}
			}
		}
	}`)

	assert.NoError(t, err)
	assert.Len(t, lexicons, 1)

	l := lexicons[0]
	assert.Equal(t, "A session.", l.Description)
	assert.NotNil(t, l.Revision)
	assert.Equal(t, 2, *l.Revision)

	o, ok := l.Type.(model.Object)
	assert.True(t, ok)
	assert.Equal(t, []string{"did"}, o.Required)
	assert.Equal(t, model.Primitive{Type: model.PrimitiveString}, o.Properties["did"])
	assert.Equal(t, model.Primitive{Type: model.PrimitiveInteger}, o.Properties["age"])
	assert.Equal(t, model.Primitive{Type: model.PrimitiveNumber}, o.Properties["score"])
	assert.Equal(t, model.Primitive{Type: model.PrimitiveBoolean}, o.Properties["active"])
	assert.Equal(t, []string{"open", "closed"}, o.Properties["status"].Enum)
}

func TestDecodeMarkers(t *testing.T) {
	lexicons, err := expand(t, `{
		"lexicon": 1,
		"id": "com.example.media",
		"defs": {
			"main": {"type": "token"},
			"blob": {"type": "blob"},
			"image": {"type": "image"},
			"video": {"type": "video"},
			"audio": {"type": "audio"}
		}
	}`)

	assert.NoError(t, err)

	tags := make(map[string]string)
	for _, l := range lexicons {
		tags[l.ID] = l.Type.Tag()
	}

	assert.Equal(t, map[string]string{
		"com.example.media":       "token",
		"com.example.media.blob":  "blob",
		"com.example.media.image": "image",
		"com.example.media.video": "video",
		"com.example.media.audio": "audio",
	}, tags)
}

func TestDecodeRecord(t *testing.T) {
	lexicons, err := expand(t, `{
		"lexicon": 1,
		"id": "app.bsky.feed.like",
		"defs": {
			"main": {
				"type": "record",
				"key": "tid",
				"record": {
					"type": "object",
					"required": ["createdAt"],
					"properties": {"createdAt": {"type": "string"}}
				}
			}
		}
	}`)

	assert.NoError(t, err)

	r, ok := lexicons[0].Type.(model.Record)
	assert.True(t, ok)
	assert.Equal(t, "tid", r.Key)
	assert.Equal(t, []string{"createdAt"}, r.Record.Required)
}

func TestDecodeQuery(t *testing.T) {
	lexicons, err := expand(t, `{
		"lexicon": 1,
		"id": "app.bsky.feed.getPostThread",
		"defs": {
			"main": {
				"type": "query",
				"parameters": {
					"type": "params",
					"properties": {
						"uri": {"type": "string"},
						"depth": {"type": "integer"}
					}
				},
				"output": {
					"encoding": "application/json",
					"schema": {"properties": {"thread": {"type": "string"}}}
				},
				"errors": [{"name": "NotFound"}]
			}
		}
	}`)

	assert.NoError(t, err)

	q, ok := lexicons[0].Type.(model.Query)
	assert.True(t, ok)
	assert.Len(t, q.Parameters.Properties, 2)
	assert.Nil(t, q.Input)
	assert.Equal(t, "application/json", q.Output.Encoding)
	assert.Equal(t, []model.XrpcError{{Name: "NotFound"}}, q.Errors)
}

func TestDecodeUnknownVariant(t *testing.T) {
	_, err := expand(t, `{"lexicon": 1, "id": "a.b.c", "defs": {"main": {"type": "widget"}}}`)
	assert.ErrorIs(t, err, model.ErrUnknownVariant)

	var se *model.SchemaError
	assert.ErrorAs(t, err, &se)
	assert.Equal(t, "a.b.c", se.ID)
	assert.Equal(t, "widget", se.Variant)

	// Tags are case-sensitive.
	_, err = expand(t, `{"lexicon": 1, "id": "a.b.c", "defs": {"main": {"type": "Object", "properties": {}}}}`)
	assert.ErrorIs(t, err, model.ErrUnknownVariant)

	_, err = expand(t, `{"lexicon": 1, "id": "a.b.c", "defs": {"main": {
		"type": "object",
		"properties": {"items": {"type": "array"}}
	}}}`)
	assert.ErrorIs(t, err, model.ErrUnknownVariant)
}

func TestDecodeSchemaMismatch(t *testing.T) {
	defs := map[string]string{
		"missing type":              `{"properties": {}}`,
		"def not an object":         `"object"`,
		"object without properties": `{"type": "object", "required": []}`,
		"ill-typed required":        `{"type": "object", "required": "did", "properties": {}}`,
		"phantom required":          `{"type": "object", "required": ["did"], "properties": {"email": {"type": "string"}}}`,
		"property without type":     `{"type": "object", "properties": {"did": {}}}`,
		"record without record":     `{"type": "record", "key": "tid"}`,
		"record phantom required":   `{"type": "record", "record": {"required": ["x"], "properties": {}}}`,
		"params without properties": `{"type": "query", "parameters": {"type": "params"}}`,
		"params with wrong type":    `{"type": "query", "parameters": {"type": "object", "properties": {}}}`,
		"input without encoding":    `{"type": "procedure", "input": {"schema": {"properties": {}}}}`,
		"output without schema":     `{"type": "query", "output": {"encoding": "application/json"}}`,
		"error without name":        `{"type": "query", "errors": [{"description": "nameless"}]}`,
		"ill-typed revision":        `{"type": "token", "revision": "one"}`,
	}

	for name, def := range defs {
		_, err := expand(t, `{"lexicon": 1, "id": "a.b.c", "defs": {"main": `+def+`}}`)
		assert.ErrorIs(t, err, model.ErrSchemaMismatch, name)
	}
}

func TestReadSchema(t *testing.T) {
	path := filepath.Join("testdata", "createSession.json")

	s, err := ReadSchema(path, NamingDotted)
	assert.NoError(t, err)
	assert.Equal(t, "com.atproto.server.createSession", s.ID)
	assert.Equal(t, path, s.Path)
	assert.Equal(t, "Create an authentication session.", s.Description)
	assert.Len(t, s.Lexicons, 2)
	assert.Equal(t, "com.atproto.server.createSession", s.Lexicons[0].ID)
	assert.Equal(t, "com.atproto.server.createSession.session", s.Lexicons[1].ID)

	p, ok := s.Lexicons[0].Type.(model.Procedure)
	assert.True(t, ok)
	assert.Nil(t, p.Parameters)
	assert.Equal(t, []string{"identifier", "password"}, p.Input.Schema.Required)
	assert.Len(t, p.Output.Schema.Properties, 7)
	assert.Len(t, p.Errors, 2)

	s, err = ReadSchema(path, NamingConcat)
	assert.NoError(t, err)
	assert.Equal(t, "com.atproto.server.createSessionsession", s.Lexicons[1].ID)
}

func TestReadSchemaMissingFile(t *testing.T) {
	_, err := ReadSchema(filepath.Join("testdata", "nope.json"), NamingDotted)
	assert.ErrorContains(t, err, `failed to read lexicon file`)
}
