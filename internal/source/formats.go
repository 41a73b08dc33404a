package source

import (
	"fmt"
	"maps"
	"slices"

	"github.com/BurntSushi/toml"
	"github.com/fxamacker/cbor/v2"
	"google.golang.org/protobuf/types/known/structpb"
	"gopkg.in/yaml.v3"

	"github.com/roach88/kwargs/internal/arglist"
	"github.com/roach88/kwargs/internal/record"
)

func parseError(format string, err error) error {
	return &LoadError{Code: ErrCodeParse, Message: "parsing " + format, Err: err}
}

// yamlRoot unwraps the document node. A nil result means an empty document.
func yamlRoot(data []byte) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, parseError("yaml", err)
	}
	if doc.Kind == 0 {
		return nil, nil
	}
	if doc.Kind == yaml.DocumentNode {
		if len(doc.Content) == 0 {
			return nil, nil
		}
		return doc.Content[0], nil
	}
	return &doc, nil
}

// FromYAML builds a Record from a top-level YAML mapping, keeping the
// mapping's order. JSON objects are valid input.
func FromYAML(data []byte, opts Options) (*record.Record, error) {
	root, err := yamlRoot(data)
	if err != nil {
		return nil, err
	}
	return FromNode(root, opts)
}

// FromNode builds a Record from an already decoded YAML mapping node. A nil
// or zero node gives an empty Record.
func FromNode(root *yaml.Node, opts Options) (*record.Record, error) {
	if root == nil || root.Kind == 0 {
		return opts.build("yaml", nil)
	}
	if root.Kind != yaml.MappingNode {
		return nil, &LoadError{
			Code:    ErrCodeParse,
			Message: fmt.Sprintf("yaml line %d: top level must be a mapping", root.Line),
		}
	}

	entries := make([]record.Entry, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		k, v := root.Content[i], root.Content[i+1]
		var val any
		if err := v.Decode(&val); err != nil {
			return nil, parseError(fmt.Sprintf("yaml value of %q", k.Value), err)
		}
		entries = append(entries, entry(k.Value, val))
	}
	return opts.build("yaml", entries)
}

// ArgsFromYAML builds an ArgList from a top-level YAML sequence.
func ArgsFromYAML(data []byte, opts Options) (*arglist.ArgList, error) {
	root, err := yamlRoot(data)
	if err != nil {
		return nil, err
	}
	return ArgsFromNode(root, opts)
}

// ArgsFromNode builds an ArgList from an already decoded YAML sequence node.
func ArgsFromNode(root *yaml.Node, opts Options) (*arglist.ArgList, error) {
	if root == nil || root.Kind == 0 {
		return arglist.New(), nil
	}
	if root.Kind != yaml.SequenceNode {
		return nil, &LoadError{
			Code:    ErrCodeParse,
			Message: fmt.Sprintf("yaml line %d: top level must be a sequence", root.Line),
		}
	}

	vals := make([]any, len(root.Content))
	for i, n := range root.Content {
		if err := n.Decode(&vals[i]); err != nil {
			return nil, parseError(fmt.Sprintf("yaml item %d", i), err)
		}
	}
	opts.logger().Debug("loaded args", "format", "yaml", "len", len(vals))
	return arglist.New(vals...), nil
}

// FromTOML builds a Record from the top-level keys of a TOML document, in
// the order they appear.
func FromTOML(data []byte, opts Options) (*record.Record, error) {
	var doc map[string]any
	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		return nil, parseError("toml", err)
	}

	seen := make(map[string]bool, len(doc))
	entries := make([]record.Entry, 0, len(doc))
	for _, k := range md.Keys() {
		if len(k) != 1 || seen[k[0]] {
			continue
		}
		seen[k[0]] = true
		entries = append(entries, entry(k[0], doc[k[0]]))
	}
	return opts.build("toml", entries)
}

// ArgsFromCBOR builds an ArgList from a CBOR array.
func ArgsFromCBOR(data []byte, opts Options) (*arglist.ArgList, error) {
	var vals []any
	if err := cbor.Unmarshal(data, &vals); err != nil {
		return nil, parseError("cbor", err)
	}
	opts.logger().Debug("loaded args", "format", "cbor", "len", len(vals))
	return arglist.New(vals...), nil
}

// FromStruct builds a Record from a protobuf Struct. Struct fields are
// unordered, so entries are sorted by name.
func FromStruct(s *structpb.Struct, opts Options) (*record.Record, error) {
	fields := s.GetFields()
	entries := make([]record.Entry, 0, len(fields))
	for _, name := range slices.Sorted(maps.Keys(fields)) {
		entries = append(entries, entry(name, fields[name].AsInterface()))
	}
	return opts.build("protobuf struct", entries)
}

// ArgsFromListValue builds an ArgList from a protobuf ListValue.
func ArgsFromListValue(l *structpb.ListValue) *arglist.ArgList {
	return arglist.New(l.AsSlice()...)
}
