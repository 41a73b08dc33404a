package source

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/kwargs/internal/record"
)

// ShapeFromCUE derives a Record whitelist from the fields of the CUE struct
// at path (the document root when path is empty). Optional fields are
// included.
//
//	#Args: {
//		name:  string
//		data?: [...int]
//	}
func ShapeFromCUE(src []byte, path string, fold bool) (*record.Shape, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(src)
	if err := v.Err(); err != nil {
		return nil, parseError("cue", err)
	}
	if path != "" {
		v = v.LookupPath(cue.ParsePath(path))
		if !v.Exists() {
			return nil, &LoadError{Code: ErrCodeSchemaMissing, Message: fmt.Sprintf("no value at %q", path)}
		}
	}

	iter, err := v.Fields(cue.Optional(true))
	if err != nil {
		return nil, &LoadError{Code: ErrCodeParse, Message: fmt.Sprintf("value at %q is not a struct", path), Err: err}
	}
	var names []string
	for iter.Next() {
		names = append(names, norm.NFC.String(iter.Label()))
	}

	if fold {
		return record.NewFoldShape(names...), nil
	}
	return record.NewShape(names...), nil
}

// LoadShape reads a CUE file and derives a whitelist from it.
func LoadShape(file, path string, fold bool) (*record.Shape, error) {
	data, err := readFile(file)
	if err != nil {
		return nil, err
	}
	sh, err := ShapeFromCUE(data, path, fold)
	return sh, withPath(err, file)
}
