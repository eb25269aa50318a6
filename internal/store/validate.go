package store

import (
	_ "embed"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cuejson "cuelang.org/go/encoding/json"
)

//go:embed snapshot.cue
var snapshotCUE string

var (
	schemaOnce sync.Once
	schemaVal  cue.Value
	schemaErr  error
)

// snapshotSchema compiles the embedded CUE schema once.
func snapshotSchema() (cue.Value, error) {
	schemaOnce.Do(func() {
		ctx := cuecontext.New()
		v := ctx.CompileString(snapshotCUE)
		if err := v.Err(); err != nil {
			schemaErr = fmt.Errorf("compile snapshot schema: %w", err)
			return
		}
		schemaVal = v.LookupPath(cue.ParsePath("#Snapshot"))
		if err := schemaVal.Err(); err != nil {
			schemaErr = fmt.Errorf("lookup snapshot schema: %w", err)
		}
	})
	return schemaVal, schemaErr
}

// validateSnapshotJSON checks a persisted body against the snapshot
// schema. A non-nil return means the body has structurally wrong field
// types and the caller should fall back to repair-with-defaults.
func validateSnapshotJSON(body []byte) error {
	schema, err := snapshotSchema()
	if err != nil {
		return err
	}

	expr, err := cuejson.Extract("snapshot", body)
	if err != nil {
		return fmt.Errorf("parse snapshot body: %w", err)
	}

	val := schema.Context().BuildExpr(expr)
	if err := val.Err(); err != nil {
		return fmt.Errorf("build snapshot value: %w", err)
	}

	unified := schema.Unify(val)
	if err := unified.Validate(); err != nil {
		return fmt.Errorf("snapshot schema violation: %w", err)
	}

	return nil
}
