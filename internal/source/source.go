// Package source builds Records and ArgLists from documents: YAML, TOML,
// CBOR and protobuf Struct/ListValue values, and derives Record whitelists
// from CUE definitions.
//
// Document order is preserved wherever the format has one. Key names are
// NFC-normalized before hashing, so "café" typed with a combining accent
// finds the same entry as the precomposed form.
package source

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/kwargs/internal/arglist"
	"github.com/roach88/kwargs/internal/record"
)

// Error codes for document loading.
const (
	ErrCodeNotFound      = "E_NOT_FOUND"
	ErrCodeParse         = "E_PARSE"
	ErrCodeShape         = "E_SHAPE"
	ErrCodeUnsupported   = "E_UNSUPPORTED_FORMAT"
	ErrCodeSchemaMissing = "E_SCHEMA_PATH"
)

// LoadError reports a document that could not be turned into a Record,
// ArgList or Shape.
type LoadError struct {
	Code    string
	Path    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Path != "" {
		msg = e.Path + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LoadError) Unwrap() error { return e.Err }

// IsLoadError reports whether err is or wraps a LoadError with the given code.
func IsLoadError(err error, code string) bool {
	var le *LoadError
	return errors.As(err, &le) && le.Code == code
}

// Options configures document loading.
type Options struct {
	// Shape, when set, supplies the whitelist and case folding for Records.
	Shape *record.Shape

	// Fold hashes names case-insensitively when no Shape is given.
	Fold bool

	// Logger receives debug output; nil means slog.Default().
	Logger *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

func (o Options) shape() *record.Shape {
	if o.Shape != nil {
		return o.Shape
	}
	if o.Fold {
		return record.NewFoldShape()
	}
	return record.NewShape()
}

// entry builds a record entry with an NFC-normalized name.
func entry(name string, v any) record.Entry {
	return record.E(norm.NFC.String(name), v)
}

func (o Options) build(format string, entries []record.Entry) (*record.Record, error) {
	r, err := o.shape().New(entries...)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeShape, Message: format + " document does not fit the record shape", Err: err}
	}
	o.logger().Debug("loaded record", "format", format, "entries", r.Len())
	return r, nil
}

// Format names a supported document format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatCBOR Format = "cbor"
)

// FormatOf picks the format from a file extension. JSON is read as YAML.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".cbor":
		return FormatCBOR, nil
	}
	return "", &LoadError{Code: ErrCodeUnsupported, Path: path, Message: "unrecognized file extension"}
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Path: path, Message: "reading file", Err: err}
	}
	return data, nil
}

func withPath(err error, path string) error {
	var le *LoadError
	if errors.As(err, &le) && le.Path == "" {
		le.Path = path
	}
	return err
}

// LoadRecord reads a Record from a YAML, JSON or TOML file.
func LoadRecord(path string, opts Options) (*record.Record, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	var r *record.Record
	switch format {
	case FormatYAML:
		r, err = FromYAML(data, opts)
	case FormatTOML:
		r, err = FromTOML(data, opts)
	default:
		return nil, &LoadError{Code: ErrCodeUnsupported, Path: path, Message: fmt.Sprintf("%s cannot hold a record", format)}
	}
	return r, withPath(err, path)
}

// LoadArgs reads an ArgList from a YAML, JSON or CBOR file.
func LoadArgs(path string, opts Options) (*arglist.ArgList, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	var a *arglist.ArgList
	switch format {
	case FormatYAML:
		a, err = ArgsFromYAML(data, opts)
	case FormatCBOR:
		a, err = ArgsFromCBOR(data, opts)
	default:
		return nil, &LoadError{Code: ErrCodeUnsupported, Path: path, Message: fmt.Sprintf("%s cannot hold an argument list", format)}
	}
	return a, withPath(err, path)
}
