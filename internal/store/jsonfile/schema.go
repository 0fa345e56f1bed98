package jsonfile

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema/board.schema.json
var boardSchemaJSON string

const boardSchemaURL = "board.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func boardSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(boardSchemaURL, strings.NewReader(boardSchemaJSON)); err != nil {
			schemaErr = fmt.Errorf("add board schema: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile(boardSchemaURL)
	})
	return schema, schemaErr
}

// validateDocument checks a decoded JSON document against the board schema.
func validateDocument(doc any) error {
	sch, err := boardSchema()
	if err != nil {
		return err
	}

	if err := sch.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			return err
		}
		return errors.New(strings.Join(collectSchemaErrors(nil, ve), "; "))
	}
	return nil
}

func collectSchemaErrors(out []string, err *jsonschema.ValidationError) []string {
	if err == nil {
		return out
	}

	if len(err.Causes) == 0 {
		loc := err.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		return append(out, fmt.Sprintf("%s: %s", loc, err.Message))
	}

	for _, cause := range err.Causes {
		out = collectSchemaErrors(out, cause)
	}
	return out
}
