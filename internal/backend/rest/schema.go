package rest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"todoctl/internal/service"
)

const taskSchemaJSON = `{
  "type": "object",
  "required": ["id", "title", "completed"],
  "properties": {
    "id": {"type": "integer"},
    "title": {"type": "string"},
    "completed": {"type": "boolean"}
  }
}`

const taskListSchemaJSON = `{
  "type": "array",
  "items": {"$ref": "task.json"}
}`

const (
	taskSchemaURL     = "https://todoctl.local/schema/task.json"
	taskListSchemaURL = "https://todoctl.local/schema/tasks.json"
)

var (
	taskSchema     *jsonschema.Schema
	taskListSchema *jsonschema.Schema
)

func init() {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(taskSchemaURL, strings.NewReader(taskSchemaJSON)); err != nil {
		panic(err)
	}
	if err := compiler.AddResource(taskListSchemaURL, strings.NewReader(taskListSchemaJSON)); err != nil {
		panic(err)
	}
	taskSchema = compiler.MustCompile(taskSchemaURL)
	taskListSchema = compiler.MustCompile(taskListSchemaURL)
}

// decode validates body against schema and unmarshals it into v.
// Any failure is a MalformedResponseError.
func decode(body []byte, schema *jsonschema.Schema, v any) error {
	var doc any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return &service.MalformedResponseError{Err: err}
	}

	if err := schema.Validate(doc); err != nil {
		return &service.MalformedResponseError{Err: schemaError(err)}
	}

	if err := json.Unmarshal(body, v); err != nil {
		return &service.MalformedResponseError{Err: err}
	}
	return nil
}

// schemaError flattens a jsonschema validation error to its first leaf cause.
func schemaError(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	loc := strings.TrimPrefix(ve.InstanceLocation, "/")
	if loc == "" {
		return errors.New(ve.Message)
	}
	return fmt.Errorf("%s: %s", loc, ve.Message)
}
