package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/koskimas/lexgen/internal/model"
	"github.com/xlab/treeprint"
)

// Inspect loads the lexicon files like Run does and prints them to `w` as a
// tree instead of generating code.
func Inspect(s Settings, w io.Writer) error {
	_, schemas, err := load(s)
	if err != nil {
		return err
	}

	tree := treeprint.NewWithRoot("lexicons")
	for _, schema := range schemas {
		branch := tree.AddMetaBranch(schema.Path, schema.ID)

		for _, l := range schema.Lexicons {
			addLexicon(branch, l)
		}
	}

	_, err = fmt.Fprintln(w, tree.String())
	return err
}

func addLexicon(tree treeprint.Tree, l model.Lexicon) {
	switch t := l.Type.(type) {
	case model.Object:
		addObject(tree.AddMetaBranch(t.Tag(), l.ID), t)
	case model.Record:
		branch := tree.AddMetaBranch(t.Tag(), l.ID)
		if t.Key != "" {
			branch.AddMetaNode("key", t.Key)
		}
		addObject(branch.AddBranch("record"), t.Record)
	case model.Query:
		addQueryProc(tree.AddMetaBranch(t.Tag(), l.ID), t.XrpcQueryProc)
	case model.Procedure:
		addQueryProc(tree.AddMetaBranch(t.Tag(), l.ID), t.XrpcQueryProc)
	default:
		tree.AddMetaNode(l.Type.Tag(), l.ID)
	}
}

func addQueryProc(tree treeprint.Tree, qp model.XrpcQueryProc) {
	if qp.Parameters != nil {
		addObject(tree.AddBranch("parameters"), qp.Parameters.Object())
	}

	if qp.Input != nil {
		addObject(tree.AddMetaBranch(qp.Input.Encoding, "input"), qp.Input.Schema)
	}

	if qp.Output != nil {
		addObject(tree.AddMetaBranch(qp.Output.Encoding, "output"), qp.Output.Schema)
	}

	if len(qp.Errors) > 0 {
		errs := tree.AddBranch("errors")
		for _, e := range qp.Errors {
			errs.AddNode(e.Name)
		}
	}
}

func addObject(tree treeprint.Tree, o model.Object) {
	for _, name := range o.PropertyNames() {
		p := o.Properties[name]

		desc := string(p.Type)
		if len(p.Enum) > 0 {
			desc += " (" + strings.Join(p.Enum, " | ") + ")"
		}

		if !o.IsRequired(name) {
			desc += ", optional"
		}

		tree.AddMetaNode(desc, name)
	}
}
