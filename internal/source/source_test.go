package source

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"
	"gopkg.in/yaml.v3"

	"github.com/roach88/kwargs/internal/key"
	"github.com/roach88/kwargs/internal/kwerr"
	"github.com/roach88/kwargs/internal/record"
	"github.com/roach88/kwargs/internal/value"
)

func quiet() Options {
	return Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

const huanhuanYAML = `
name: huanhuanonly
data: [1, 4, 3, 3, 2, 2, 3]
old: "1314.520"
`

func TestFromYAML(t *testing.T) {
	r, err := FromYAML([]byte(huanhuanYAML), quiet())
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "data", "old"}, r.Names())
	assert.Equal(t, "huanhuanonly", record.ValueOr[string](r.LookupName("name"), "EmptyName"))
	assert.Equal(t, 1314, record.ValueOr[int](r.LookupName("old")))
	assert.Equal(t, []int{1, 4, 3, 3, 2, 2, 3}, record.ValueOr[[]int](r.LookupName("data")))
	assert.Equal(t, "EmptyClass", record.ValueOr[string](r.LookupName("class"), "EmptyClass"))
}

func TestFromYAMLNormalizesNames(t *testing.T) {
	// "cafe" followed by a combining acute accent.
	r, err := FromYAML([]byte("\"cafe\u0301\": 1\n"), quiet())
	require.NoError(t, err)

	assert.Equal(t, 1, record.ValueOr[int](r.Lookup(key.New("caf\u00e9")), 0))
}

func TestFromYAMLErrors(t *testing.T) {
	_, err := FromYAML([]byte("- 1\n- 2\n"), quiet())
	assert.True(t, IsLoadError(err, ErrCodeParse))

	_, err = FromYAML([]byte("a: [1, 2\n"), quiet())
	assert.True(t, IsLoadError(err, ErrCodeParse))

	_, err = FromYAML([]byte("a: 1\na: 2\n"), quiet())
	require.Error(t, err)
}

func TestFromYAMLShape(t *testing.T) {
	opts := quiet()
	opts.Shape = record.NewShape("name")

	_, err := FromYAML([]byte(huanhuanYAML), opts)
	require.Error(t, err)
	assert.True(t, IsLoadError(err, ErrCodeShape))
	assert.True(t, kwerr.HasCode(err, kwerr.CodeKeyNotAllowed))
}

func TestFromYAMLFold(t *testing.T) {
	opts := quiet()
	opts.Fold = true

	r, err := FromYAML([]byte("Name: x\n"), opts)
	require.NoError(t, err)
	assert.Equal(t, "x", record.ValueOr[string](r.LookupName("NAME")))
}

func TestEmptyYAML(t *testing.T) {
	r, err := FromYAML(nil, quiet())
	require.NoError(t, err)
	assert.Equal(t, 0, r.Len())

	a, err := ArgsFromYAML([]byte(""), quiet())
	require.NoError(t, err)
	assert.Equal(t, 0, a.Len())
}

func TestArgsFromYAML(t *testing.T) {
	a, err := ArgsFromYAML([]byte(`[10, "20", [1, 2], true]`), quiet())
	require.NoError(t, err)

	assert.Equal(t, 4, a.Len())
	assert.Equal(t, 10, value.Must[int](a.Index(0)))
	assert.Equal(t, 20, value.Must[int](a.Index(1)))
	assert.Equal(t, []string{"1", "2"}, value.Must[[]string](a.Index(2)))
	assert.Equal(t, "true", value.Must[string](a.Index(-1)))

	_, err = ArgsFromYAML([]byte("a: 1\n"), quiet())
	assert.True(t, IsLoadError(err, ErrCodeParse))
}

func TestFromTOML(t *testing.T) {
	doc := `
title = "kwargs"
count = 3
ratio = 0.5

[owner]
name = "huan"
`
	r, err := FromTOML([]byte(doc), quiet())
	require.NoError(t, err)

	assert.Equal(t, []string{"title", "count", "ratio", "owner"}, r.Names())
	assert.Equal(t, "kwargs", record.ValueOr[string](r.LookupName("title")))
	assert.Equal(t, 3, record.ValueOr[int](r.LookupName("count")))
	assert.Equal(t, "0.5", record.ValueOr[string](r.LookupName("ratio")))
	assert.Equal(t,
		map[string]string{"name": "huan"},
		record.ValueOr[map[string]string](r.LookupName("owner")))

	_, err = FromTOML([]byte("title = "), quiet())
	assert.True(t, IsLoadError(err, ErrCodeParse))
}

func TestArgsFromCBOR(t *testing.T) {
	data, err := cbor.Marshal([]any{10, "x", -3, []int{1, 2}})
	require.NoError(t, err)

	a, err := ArgsFromCBOR(data, quiet())
	require.NoError(t, err)

	assert.Equal(t, 4, a.Len())
	assert.Equal(t, 10, value.Must[int](a.Index(0)))
	assert.Equal(t, "x", value.Must[string](a.Index(1)))
	assert.Equal(t, -3, value.Must[int](a.Index(2)))
	assert.Equal(t, []int{1, 2}, value.Must[[]int](a.Index(3)))

	bad, err := cbor.Marshal(map[string]int{"a": 1})
	require.NoError(t, err)
	_, err = ArgsFromCBOR(bad, quiet())
	assert.True(t, IsLoadError(err, ErrCodeParse))
}

func TestFromStruct(t *testing.T) {
	s, err := structpb.NewStruct(map[string]any{
		"old":  "1314.520",
		"name": "huan",
		"data": []any{1, 4, 3},
	})
	require.NoError(t, err)

	r, err := FromStruct(s, quiet())
	require.NoError(t, err)

	assert.Equal(t, []string{"data", "name", "old"}, r.Names())
	assert.Equal(t, 1314, record.ValueOr[int](r.LookupName("old")))
	assert.Equal(t, []int{1, 4, 3}, record.ValueOr[[]int](r.LookupName("data")))
}

func TestArgsFromListValue(t *testing.T) {
	l, err := structpb.NewList([]any{"a", 2.5, nil})
	require.NoError(t, err)

	a := ArgsFromListValue(l)
	assert.Equal(t, 3, a.Len())
	assert.Equal(t, "a", value.Must[string](a.Index(0)))
	assert.Equal(t, 2, value.Must[int](a.Index(1)))
	assert.True(t, a.Index(2).IsNil())
}

const argsSchema = `
#Args: {
	name:   string
	data?:  [...int]
	old:    string | number
}
`

func TestShapeFromCUE(t *testing.T) {
	sh, err := ShapeFromCUE([]byte(argsSchema), "#Args", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "data", "old"}, sh.Names())

	opts := quiet()
	opts.Shape = sh
	_, err = FromYAML([]byte(huanhuanYAML), opts)
	require.NoError(t, err)

	_, err = FromYAML([]byte("class: x\n"), opts)
	assert.True(t, kwerr.HasCode(err, kwerr.CodeKeyNotAllowed))
}

func TestShapeFromCUEErrors(t *testing.T) {
	_, err := ShapeFromCUE([]byte(argsSchema), "#Missing", false)
	assert.True(t, IsLoadError(err, ErrCodeSchemaMissing))

	_, err = ShapeFromCUE([]byte("a: {"), "", false)
	assert.True(t, IsLoadError(err, ErrCodeParse))
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
		return p
	}

	r, err := LoadRecord(write("args.yaml", huanhuanYAML), quiet())
	require.NoError(t, err)
	assert.Equal(t, 3, r.Len())

	r, err = LoadRecord(write("args.toml", "a = 1\n"), quiet())
	require.NoError(t, err)
	assert.Equal(t, 1, r.Len())

	a, err := LoadArgs(write("args.json", "[1, 2, 3]"), quiet())
	require.NoError(t, err)
	assert.Equal(t, 3, value.Must[int](a.Index(-1)))

	sh, err := LoadShape(write("schema.cue", argsSchema), "#Args", true)
	require.NoError(t, err)
	assert.True(t, sh.Fold)

	_, err = LoadRecord(filepath.Join(dir, "missing.yaml"), quiet())
	assert.True(t, IsLoadError(err, ErrCodeNotFound))

	_, err = LoadRecord(write("args.txt", ""), quiet())
	assert.True(t, IsLoadError(err, ErrCodeUnsupported))

	_, err = LoadArgs(write("more.toml", "a = 1\n"), quiet())
	assert.True(t, IsLoadError(err, ErrCodeUnsupported))

	_, err = LoadRecord(write("bad.yaml", "- 1\n"), quiet())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.yaml")
}

func TestFromNode(t *testing.T) {
	var doc struct {
		Record yaml.Node `yaml:"record"`
		Args   yaml.Node `yaml:"args"`
		Empty  yaml.Node `yaml:"empty"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("record: {b: 2, a: 1}\nargs: [x, 3]\n"), &doc))

	r, err := FromNode(&doc.Record, quiet())
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, r.Names())

	a, err := ArgsFromNode(&doc.Args, quiet())
	require.NoError(t, err)
	assert.Equal(t, 3, value.Must[int](a.Index(1)))

	r, err = FromNode(&doc.Empty, quiet())
	require.NoError(t, err)
	assert.Equal(t, 0, r.Len())

	_, err = ArgsFromNode(&doc.Record, quiet())
	assert.True(t, IsLoadError(err, ErrCodeParse))
}
