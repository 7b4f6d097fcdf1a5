// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// Decode compiles schema, unifies data with the definition at defPath
// (e.g. "#Config"), validates the result and decodes it into a T.
func Decode[T any](schema, data []byte, defPath string, opts ...Option) (T, error) {
	var zero T

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	filename := o.filename
	if filename == "" {
		filename = "<input>"
	}

	if err := CheckFileSize(data, o.maxFileSize, filename); err != nil {
		return zero, err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileBytes(schema)
	if schemaValue.Err() != nil {
		return zero, fmt.Errorf("internal error: failed to compile schema: %w", schemaValue.Err())
	}
	def := schemaValue.LookupPath(cue.ParsePath(defPath))
	if def.Err() != nil {
		return zero, fmt.Errorf("internal error: schema definition %s not found: %w", defPath, def.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(filename))
	if userValue.Err() != nil {
		return zero, FormatError(userValue.Err(), filename)
	}

	// Configuration files leave most fields unset, so only the constraints
	// are validated here; Decode rejects anything left unresolved.
	unified := def.Unify(userValue)
	if err := unified.Validate(); err != nil {
		return zero, FormatError(err, filename)
	}

	var out T
	if err := unified.Decode(&out); err != nil {
		return zero, FormatError(err, filename)
	}
	return out, nil
}
