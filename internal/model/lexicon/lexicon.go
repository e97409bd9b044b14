package lexicon

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/koskimas/lexgen/internal/model"
)

const mainDef = "main"

// Naming decides how the identifier of a non-main definition is derived from
// the document identifier and the definition's local name.
type Naming int

const (
	// NamingDotted joins the two with a dot: `com.example.doc` + `foo` = `com.example.doc.foo`.
	NamingDotted Naming = iota
	// NamingConcat joins the two with no separator: `com.example.docfoo`.
	NamingConcat
)

// Document is a parsed lexicon file whose definitions have not been decoded yet.
type Document struct {
	Lexicon     int
	ID          string
	Description string
	Defs        map[string]json.RawMessage
}

type file struct {
	Lexicon     *int                       `json:"lexicon"`
	ID          *string                    `json:"id"`
	Description string                     `json:"description"`
	Defs        map[string]json.RawMessage `json:"defs"`
}

// ReadSchema reads, parses and expands the lexicon file at `filePath`.
func ReadSchema(filePath string, naming Naming) (*model.Schema, error) {
	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf(`failed to read lexicon file "%s": %w`, filePath, err)
	}

	doc, err := Parse(fileData)
	if err != nil {
		return nil, fmt.Errorf(`failed to parse lexicon file "%s": %w`, filePath, err)
	}

	lexicons, err := doc.Expand(naming)
	if err != nil {
		return nil, fmt.Errorf(`failed to load lexicon file "%s": %w`, filePath, err)
	}

	return &model.Schema{
		ID:          doc.ID,
		Path:        filePath,
		Description: doc.Description,
		Lexicons:    lexicons,
	}, nil
}

// Parse parses the document envelope. The definitions are kept as raw JSON
// until `Expand` is called.
func Parse(data []byte) (*Document, error) {
	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, model.Wrap(model.ErrMalformedDocument, "", "", err)
	}

	if f.Lexicon == nil {
		return nil, model.Errorf(model.ErrMalformedDocument, "", "", `missing "lexicon" version`)
	}

	if f.ID == nil || *f.ID == "" {
		return nil, model.Errorf(model.ErrMalformedDocument, "", "", `missing "id"`)
	}

	if len(f.Defs) == 0 {
		return nil, model.Errorf(model.ErrMalformedDocument, *f.ID, "", `missing "defs"`)
	}

	if _, ok := f.Defs[""]; ok {
		return nil, model.Errorf(model.ErrMalformedDocument, *f.ID, "", "definition with an empty name")
	}

	return &Document{
		Lexicon:     *f.Lexicon,
		ID:          *f.ID,
		Description: f.Description,
		Defs:        f.Defs,
	}, nil
}

// Expand decodes every definition of the document into a Lexicon. The result
// is sorted by identifier.
func (d *Document) Expand(naming Naming) ([]model.Lexicon, error) {
	lexicons := make([]model.Lexicon, 0, len(d.Defs))

	for name, def := range d.Defs {
		l, err := decodeLexicon(d.QualifiedID(name, naming), def)
		if err != nil {
			return nil, err
		}

		lexicons = append(lexicons, *l)
	}

	slices.SortFunc(lexicons, func(a, b model.Lexicon) int {
		return strings.Compare(a.ID, b.ID)
	})

	return lexicons, nil
}

// QualifiedID returns the identifier of the definition called `name`.
func (d *Document) QualifiedID(name string, naming Naming) string {
	if name == mainDef {
		return d.ID
	}

	if naming == NamingConcat {
		return d.ID + name
	}

	return d.ID + "." + name
}
