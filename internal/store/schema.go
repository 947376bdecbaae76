package store

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed board.schema.json
var boardSchemaJSON []byte

const boardSchemaURL = "board.schema.json"

var (
	boardSchemaOnce sync.Once
	boardSchema     *jsonschema.Schema
	boardSchemaErr  error
)

func compiledBoardSchema() (*jsonschema.Schema, error) {
	boardSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.AssertFormat = true
		if err := compiler.AddResource(boardSchemaURL, bytes.NewReader(boardSchemaJSON)); err != nil {
			boardSchemaErr = fmt.Errorf("add board schema: %w", err)
			return
		}
		boardSchema, boardSchemaErr = compiler.Compile(boardSchemaURL)
		if boardSchemaErr != nil {
			boardSchemaErr = fmt.Errorf("compile board schema: %w", boardSchemaErr)
		}
	})
	return boardSchema, boardSchemaErr
}

// SchemaError reports where a blob departs from the board layout.
type SchemaError struct {
	Problems []string
}

func (e *SchemaError) Error() string {
	return "board schema: " + strings.Join(e.Problems, "; ")
}

// validateShape checks a decoded JSON document against the board schema.
func validateShape(doc interface{}) error {
	schema, err := compiledBoardSchema()
	if err != nil {
		return err
	}
	if err := schema.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			return &SchemaError{Problems: []string{err.Error()}}
		}
		var problems []string
		collectProblems(ve, &problems)
		if len(problems) == 0 {
			problems = append(problems, ve.Message)
		}
		return &SchemaError{Problems: problems}
	}
	return nil
}

// collectProblems gathers leaf causes, which carry the specific messages.
func collectProblems(ve *jsonschema.ValidationError, out *[]string) {
	if len(ve.Causes) == 0 {
		loc := ve.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		*out = append(*out, fmt.Sprintf("%s: %s", loc, ve.Message))
		return
	}
	for _, c := range ve.Causes {
		collectProblems(c, out)
	}
}
