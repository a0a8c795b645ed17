package main

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/route-request.schema.json
var routeRequestSchema string

func compileRouteSchema() (*jsonschema.Schema, error) {
	schema, err := jsonschema.CompileString("route-request.schema.json", routeRequestSchema)
	if err != nil {
		return nil, fmt.Errorf("compile route request schema: %w", err)
	}
	return schema, nil
}

// validateRouteRequest checks a raw request body against the schema.
func validateRouteRequest(schema *jsonschema.Schema, body []byte) error {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return err
	}
	return schema.Validate(doc)
}
